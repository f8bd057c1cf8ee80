package report

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"mime"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/dencangan/automation-framework/core"
	"github.com/dencangan/automation-framework/table"
)

// Default styling applied when AddCSS is set.
const defaultCSS = `<style>p {font:13px arial; margin-bottom:4px}` +
	` table {border-collapse:collapse; width: 850}` +
	` table, td {text-align: right; border: 1px solid black; font:13px arial; padding-right:5px}` +
	` th { text-align: middle; }</style>`

// Email is a report to be delivered over SMTP: leading HTML text, query
// result tables rendered after the text, inline images addressable from
// the HTML as cid:image0, cid:image1, ..., and base64 file attachments.
type Email struct {
	Text        string
	Tables      [][]map[string]any
	Images      []string
	Attachments []string
	AddCSS      bool

	// Fs defaults to the OS filesystem; set for tests.
	Fs afero.Fs
}

func (e *Email) fs() afero.Fs {
	if e.Fs != nil {
		return e.Fs
	}
	return afero.NewOsFs()
}

func (e *Email) body() string {
	text := e.Text
	if e.AddCSS {
		text = defaultCSS + "<p>" + text + "</p>"
	}

	var sb strings.Builder
	sb.WriteString(text)
	for _, tbl := range e.Tables {
		sb.WriteString("<br>")
		sb.WriteString(TableHTML(tbl))
	}
	return sb.String()
}

// TableHTML renders query result rows as an HTML table. Columns appear in
// sorted name order; int64 and time values take their JSON-friendly form.
func TableHTML(rows []map[string]any) string {
	if len(rows) == 0 {
		return "<table></table>"
	}

	columns := make([]string, 0, len(rows[0]))
	for name := range rows[0] {
		columns = append(columns, name)
	}
	sort.Strings(columns)

	processed := table.ProcessForJSON(rows)

	var sb strings.Builder
	sb.WriteString("<table>\n<tr>")
	for _, col := range columns {
		fmt.Fprintf(&sb, "<th>%s</th>", col)
	}
	sb.WriteString("</tr>\n")
	for _, row := range processed {
		sb.WriteString("<tr>")
		for _, col := range columns {
			val := row[col]
			if val == nil {
				val = ""
			}
			fmt.Fprintf(&sb, "<td>%v</td>", val)
		}
		sb.WriteString("</tr>\n")
	}
	sb.WriteString("</table>")
	return sb.String()
}

// Compose builds the full MIME message, headers included.
func (e *Email) Compose(from string, to []string, subject string) ([]byte, error) {
	var msg bytes.Buffer
	w := multipart.NewWriter(&msg)

	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", w.Boundary())

	// Text and tables
	header := textproto.MIMEHeader{}
	header.Set("Content-Type", `text/html; charset="utf-8"`)
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write([]byte(e.body())); err != nil {
		return nil, err
	}

	// Inline images, addressable as cid:image{i}
	for i, path := range e.Images {
		data, err := afero.ReadFile(e.fs(), path)
		if err != nil {
			return nil, fmt.Errorf("failed to read image %s: %v", path, err)
		}

		contentType := mime.TypeByExtension(filepath.Ext(path))
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		header := textproto.MIMEHeader{}
		header.Set("Content-Type", contentType)
		header.Set("Content-Transfer-Encoding", "base64")
		header.Set("Content-ID", fmt.Sprintf("<image%d>", i))
		part, err := w.CreatePart(header)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(encodeBase64(data)); err != nil {
			return nil, err
		}
	}

	// File attachments
	for _, path := range e.Attachments {
		data, err := afero.ReadFile(e.fs(), path)
		if err != nil {
			return nil, fmt.Errorf("failed to read attachment %s: %v", path, err)
		}

		header := textproto.MIMEHeader{}
		header.Set("Content-Type", "application/octet-stream")
		header.Set("Content-Transfer-Encoding", "base64")
		header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
		part, err := w.CreatePart(header)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(encodeBase64(data)); err != nil {
			return nil, err
		}
	}

	if err := w.Close(); err != nil {
		return nil, err
	}
	return msg.Bytes(), nil
}

// Send composes the message and delivers it over SMTP with STARTTLS.
// Servers that do not advertise AUTH are tolerated, matching relays on
// trusted networks.
func (e *Email) Send(ctx context.Context, cfg Config, to []string, subject string) error {
	msg, err := e.Compose(cfg.Address, to, subject)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server, cfg.Port)
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %v", addr, err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: cfg.Server}); err != nil {
			return fmt.Errorf("STARTTLS failed: %v", err)
		}
	}

	if ok, _ := client.Extension("AUTH"); ok {
		auth := smtp.PlainAuth("", cfg.Address, cfg.Password, cfg.Server)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("authentication failed: %v", err)
		}
	} else {
		core.Infof(ctx, "authentication not required by %s", cfg.Server)
	}

	if err := client.Mail(cfg.Address); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("recipient %s rejected: %v", rcpt, err)
		}
	}

	wc, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := wc.Write(msg); err != nil {
		return err
	}
	if err := wc.Close(); err != nil {
		return err
	}

	core.Infof(ctx, "email sent to %s", strings.Join(to, ", "))
	return client.Quit()
}

// encodeBase64 wraps at 76 columns per RFC 2045.
func encodeBase64(data []byte) []byte {
	encoded := base64.StdEncoding.EncodeToString(data)
	var out bytes.Buffer
	for len(encoded) > 76 {
		out.WriteString(encoded[:76])
		out.WriteString("\r\n")
		encoded = encoded[76:]
	}
	out.WriteString(encoded)
	return out.Bytes()
}

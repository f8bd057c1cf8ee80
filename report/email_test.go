package report

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableHTML(t *testing.T) {
	rows := []map[string]any{
		{"name": "alpha", "value": int64(10)},
		{"name": "beta", "value": int64(20)},
	}

	html := TableHTML(rows)
	assert.Contains(t, html, "<th>name</th><th>value</th>")
	assert.Contains(t, html, "<td>alpha</td><td>10</td>")
	assert.Contains(t, html, "<td>beta</td><td>20</td>")
}

func TestComposeTextAndTable(t *testing.T) {
	e := &Email{
		Text: "Daily numbers below.",
		Tables: [][]map[string]any{
			{{"total": int64(42)}},
		},
		AddCSS: true,
	}

	msg, err := e.Compose("sender@example.com", []string{"a@example.com", "b@example.com"}, "daily report")
	require.NoError(t, err)

	body := string(msg)
	assert.Contains(t, body, "From: sender@example.com")
	assert.Contains(t, body, "To: a@example.com, b@example.com")
	assert.Contains(t, body, "Subject: daily report")
	assert.Contains(t, body, "Content-Type: multipart/mixed; boundary=")
	assert.Contains(t, body, `text/html; charset="utf-8"`)
	assert.Contains(t, body, "<style>")
	assert.Contains(t, body, "Daily numbers below.")
	assert.Contains(t, body, "<td>42</td>")
}

func TestComposeImagesAndAttachments(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/chart.png", []byte("not-a-real-png"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/data.csv", []byte("a,b\n1,2\n"), 0o644))

	e := &Email{
		Text:        "see attached",
		Images:      []string{"/chart.png"},
		Attachments: []string{"/data.csv"},
		Fs:          fs,
	}

	msg, err := e.Compose("sender@example.com", []string{"a@example.com"}, "charts")
	require.NoError(t, err)

	body := string(msg)
	assert.Contains(t, body, "Content-Id: <image0>")
	assert.Contains(t, body, "Content-Type: image/png")
	assert.Contains(t, body, `attachment; filename="data.csv"`)
	assert.Contains(t, body, "Content-Transfer-Encoding: base64")
}

func TestComposeMissingImage(t *testing.T) {
	e := &Email{
		Text:   "broken",
		Images: []string{"/nope.jpg"},
		Fs:     afero.NewMemMapFs(),
	}

	_, err := e.Compose("sender@example.com", []string{"a@example.com"}, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/nope.jpg")
}

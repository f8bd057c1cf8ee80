// Package report composes and sends email reports: HTML text, attached
// tables, inline images and file attachments, plus small rendering helpers.
package report

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
)

// MapFormat controls FormatMap output.
type MapFormat struct {
	// QuoteKeys wraps keys (and the trailing commas of nested maps) the
	// way a JSON-ish rendering would.
	QuoteKeys bool
	// Indent is the per-level indent string, tab when empty.
	Indent string
}

// FormatMap writes a nested map with one key per line, indented by depth.
// Keys render in sorted order so output is stable.
func FormatMap(w io.Writer, m map[string]any, f MapFormat) {
	if f.Indent == "" {
		f.Indent = "\t"
	}
	writeMap(w, m, f, 1, false)
}

func writeMap(w io.Writer, m map[string]any, f MapFormat, depth int, addComma bool) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	outer := strings.Repeat(f.Indent, depth-1)
	inner := strings.Repeat(f.Indent, depth)
	fmt.Fprintf(w, "%s{\n", outer)

	for j, k := range keys {
		v := m[k]
		key := k
		if f.QuoteKeys {
			key = "'" + k + "'"
		}
		comma := ","
		if j == len(keys)-1 {
			comma = ""
		}

		if nested, ok := v.(map[string]any); ok {
			fmt.Fprintf(w, "%s%s:\n", inner, key)
			writeMap(w, nested, f, depth+1, j != len(keys)-1)
			continue
		}
		if s, ok := v.(string); ok {
			fmt.Fprintf(w, "%s%s: '%s'%s\n", inner, key, s, comma)
			continue
		}
		fmt.Fprintf(w, "%s%s: %v%s\n", inner, key, v, comma)
	}

	com := ""
	if addComma && f.QuoteKeys {
		com = ","
	}
	fmt.Fprintf(w, "%s}%s\n", outer, com)
}

// Hyperlink renders a path as an HTML anchor, with forward slashes folded
// to backslashes for share-drive style links.
func Hyperlink(link string) string {
	backslashed := strings.ReplaceAll(link, "/", "\\")
	return fmt.Sprintf("<p><a href='%s'>%s</a></p>", backslashed, backslashed)
}

var htmlTagPattern = regexp.MustCompile("<[^<]+?>")

// StripHTMLTags removes HTML tags, leaving the text content.
func StripHTMLTags(s string) string {
	return htmlTagPattern.ReplaceAllString(s, "")
}

package render

import (
	"bytes"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// TabWidth is the distance between tab stops when tabs are expanded.
const TabWidth = 4

// safelinkPolicy only lets links through whose scheme is known to be harmless.
func safelinkPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowURLSchemes("http", "https", "ftp", "mailto")
	p.AllowAttrs("class", "id").Globally()
	p.AllowElements("u", "mark", "q", "sup", "del", "s")
	p.AllowAttrs("type", "checked", "disabled").OnElements("input")
	return p
}

// expandTabs replaces tabs with spaces up to the next tab stop.
func expandTabs(src []byte) []byte {
	if bytes.IndexByte(src, '\t') < 0 {
		return src
	}

	out := make([]byte, 0, len(src)+len(src)/8)
	col := 0
	for _, b := range src {
		switch b {
		case '\t':
			n := TabWidth - col%TabWidth
			out = append(out, bytes.Repeat([]byte{' '}, n)...)
			col += n
		case '\n':
			out = append(out, b)
			col = 0
		default:
			out = append(out, b)
			col++
		}
	}

	return out
}

// skipEOL drops the line breaks between tags. Text inside pre elements and text with content is kept as-is.
func skipEOL(src []byte) ([]byte, error) {
	var out bytes.Buffer
	out.Grow(len(src))

	tokens := html.NewTokenizer(bytes.NewReader(src))
	pre := 0
	for {
		switch tokens.Next() {
		case html.ErrorToken:
			if err := tokens.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, errors.Wrap(err, "tokenize output")
			}
			return out.Bytes(), nil
		case html.StartTagToken:
			if name, _ := tokens.TagName(); string(name) == "pre" {
				pre++
			}
		case html.EndTagToken:
			if name, _ := tokens.TagName(); string(name) == "pre" && pre > 0 {
				pre--
			}
		case html.TextToken:
			raw := tokens.Raw()
			if pre == 0 && strings.TrimSpace(string(raw)) == "" && bytes.IndexByte(raw, '\n') >= 0 {
				continue
			}
		}

		out.Write(tokens.Raw())
	}
}

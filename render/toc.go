package render

import (
	"bytes"
	"io"

	"github.com/cockroachdb/errors"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/util"

	"github.com/advdv/mdserve"
)

// writeTOC writes a nested list of links to the headings of doc whose level lies within the options. Heading
// ids are assigned by the parser, so a body rendered from the same source links up.
func writeTOC(w io.Writer, source []byte, doc gast.Node, opts mdserve.RenderOptions) error {
	var out bytes.Buffer
	out.WriteString(opts.TOC.Header)

	current := 0
	err := gast.Walk(doc, func(n gast.Node, entering bool) (gast.WalkStatus, error) {
		heading, ok := n.(*gast.Heading)
		if !ok || !entering {
			return gast.WalkContinue, nil
		}

		if heading.Level < opts.TOC.StartingLevel || heading.Level > opts.TOC.NestingLevel {
			return gast.WalkSkipChildren, nil
		}

		level := heading.Level - opts.TOC.StartingLevel + 1
		switch {
		case level > current:
			for ; current < level; current++ {
				out.WriteString("<ul>\n<li>\n")
			}
		case level < current:
			out.WriteString("</li>\n")
			for ; current > level; current-- {
				out.WriteString("</ul>\n</li>\n")
			}
			out.WriteString("<li>\n")
		default:
			out.WriteString("</li>\n<li>\n")
		}

		out.WriteString(`<a href="#`)
		if id, ok := heading.AttributeString("id"); ok {
			if b, ok := id.([]byte); ok {
				out.Write(util.EscapeHTML(b))
			}
		}
		out.WriteString(`">`)

		label := headingText(source, heading)
		if !opts.Render.Has(mdserve.RenderTOCSkipEscape) {
			label = util.EscapeHTML(label)
		}
		out.Write(label)
		out.WriteString("</a>\n")

		return gast.WalkSkipChildren, nil
	})
	if err != nil {
		return errors.Wrap(err, "walk headings")
	}

	for ; current > 0; current-- {
		out.WriteString("</li>\n</ul>\n")
	}

	out.WriteString(opts.TOC.Footer)

	if _, err := w.Write(out.Bytes()); err != nil {
		return errors.Wrap(err, "write table of contents")
	}

	return nil
}

// headingText collects the plain text of a heading, dropping inline markup.
func headingText(source []byte, heading gast.Node) []byte {
	var buf bytes.Buffer
	_ = gast.Walk(heading, func(n gast.Node, entering bool) (gast.WalkStatus, error) {
		if !entering {
			return gast.WalkContinue, nil
		}

		switch n := n.(type) {
		case *gast.Text:
			buf.Write(n.Segment.Value(source))
			if n.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *gast.String:
			buf.Write(n.Value)
		case *gast.CodeSpan:
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				if t, ok := c.(*gast.Text); ok {
					buf.Write(t.Segment.Value(source))
				}
			}
			return gast.WalkSkipChildren, nil
		}

		return gast.WalkContinue, nil
	})
	return buf.Bytes()
}

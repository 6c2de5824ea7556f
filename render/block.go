package render

import (
	"bytes"

	gast "github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/advdv/mdserve"
)

// rawHTMLRenderer replaces goldmark's handling of HTML in the source. Escape wins over skipping.
type rawHTMLRenderer struct {
	html.Config
	skip      bool
	escape    bool
	skipStyle bool
}

func (r *rawHTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(gast.KindHTMLBlock, r.renderHTMLBlock)
	reg.Register(gast.KindRawHTML, r.renderRawHTML)
}

func (r *rawHTMLRenderer) write(w util.BufWriter, raw []byte) {
	switch {
	case r.escape:
		_, _ = w.Write(util.EscapeHTML(raw))
	case r.skip:
	case r.skipStyle && isStyleTag(raw):
	default:
		_, _ = w.Write(raw)
	}
}

func (r *rawHTMLRenderer) renderHTMLBlock(
	w util.BufWriter, source []byte, node gast.Node, entering bool,
) (gast.WalkStatus, error) {
	if !entering {
		return gast.WalkContinue, nil
	}

	n := node.(*gast.HTMLBlock)

	var raw bytes.Buffer
	for i := 0; i < n.Lines().Len(); i++ {
		line := n.Lines().At(i)
		raw.Write(line.Value(source))
	}
	if n.HasClosure() {
		raw.Write(n.ClosureLine.Value(source))
	}

	r.write(w, raw.Bytes())
	return gast.WalkSkipChildren, nil
}

func (r *rawHTMLRenderer) renderRawHTML(
	w util.BufWriter, source []byte, node gast.Node, entering bool,
) (gast.WalkStatus, error) {
	if !entering {
		return gast.WalkSkipChildren, nil
	}

	n := node.(*gast.RawHTML)

	var raw bytes.Buffer
	for i := 0; i < n.Segments.Len(); i++ {
		segment := n.Segments.At(i)
		raw.Write(segment.Value(source))
	}

	r.write(w, raw.Bytes())
	return gast.WalkSkipChildren, nil
}

func isStyleTag(raw []byte) bool {
	raw = bytes.ToLower(util.TrimLeftSpace(raw))
	return bytes.HasPrefix(raw, []byte("<style")) || bytes.HasPrefix(raw, []byte("</style"))
}

// skipRenderer drops images and unwraps links to their text.
type skipRenderer struct {
	html.Config
	images bool
	links  bool
}

func (r *skipRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	if r.images {
		reg.Register(gast.KindImage, func(util.BufWriter, []byte, gast.Node, bool) (gast.WalkStatus, error) {
			return gast.WalkSkipChildren, nil
		})
	}

	if r.links {
		reg.Register(gast.KindLink, func(util.BufWriter, []byte, gast.Node, bool) (gast.WalkStatus, error) {
			return gast.WalkContinue, nil
		})
		reg.Register(gast.KindAutoLink, r.renderAutoLink)
	}
}

func (r *skipRenderer) renderAutoLink(
	w util.BufWriter, source []byte, node gast.Node, entering bool,
) (gast.WalkStatus, error) {
	if entering {
		_, _ = w.Write(util.EscapeHTML(node.(*gast.AutoLink).Label(source)))
	}
	return gast.WalkSkipChildren, nil
}

// classTransformer sets the configured CSS classes on lists and task list items.
type classTransformer struct {
	classes mdserve.ClassConfig
}

func (t *classTransformer) Transform(doc *gast.Document, _ text.Reader, _ parser.Context) {
	_ = gast.Walk(doc, func(n gast.Node, entering bool) (gast.WalkStatus, error) {
		if !entering {
			return gast.WalkContinue, nil
		}

		switch n := n.(type) {
		case *gast.List:
			if n.IsOrdered() && t.classes.OL != "" {
				n.SetAttributeString("class", []byte(t.classes.OL))
			} else if !n.IsOrdered() && t.classes.UL != "" {
				n.SetAttributeString("class", []byte(t.classes.UL))
			}
		case *east.TaskCheckBox:
			if item := taskListItem(n); item != nil && t.classes.Task != "" {
				item.SetAttributeString("class", []byte(t.classes.Task))
			}
		}

		return gast.WalkContinue, nil
	})
}

func taskListItem(box gast.Node) gast.Node {
	for p := box.Parent(); p != nil; p = p.Parent() {
		if p.Kind() == gast.KindListItem {
			return p
		}
	}
	return nil
}

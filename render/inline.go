package render

import (
	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Inline node kinds for the syntax goldmark does not ship with.
var (
	KindUnderline   = gast.NewNodeKind("Underline")
	KindMark        = gast.NewNodeKind("Mark")
	KindSuperscript = gast.NewNodeKind("Superscript")
	KindQuote       = gast.NewNodeKind("Quote")
)

// Underline is the "__text__" span when underlining is enabled.
type Underline struct{ gast.BaseInline }

func (n *Underline) Kind() gast.NodeKind          { return KindUnderline }
func (n *Underline) Dump(source []byte, level int) { gast.DumpHelper(n, source, level, nil, nil) }

// Mark is the "==text==" span.
type Mark struct{ gast.BaseInline }

func (n *Mark) Kind() gast.NodeKind          { return KindMark }
func (n *Mark) Dump(source []byte, level int) { gast.DumpHelper(n, source, level, nil, nil) }

// Superscript is the "^word" or "^(some words)" span.
type Superscript struct{ gast.BaseInline }

func (n *Superscript) Kind() gast.NodeKind          { return KindSuperscript }
func (n *Superscript) Dump(source []byte, level int) { gast.DumpHelper(n, source, level, nil, nil) }

// Quote is the "\"text\"" span, rendered as a q element.
type Quote struct{ gast.BaseInline }

func (n *Quote) Kind() gast.NodeKind          { return KindQuote }
func (n *Quote) Dump(source []byte, level int) { gast.DumpHelper(n, source, level, nil, nil) }

// delimiters turns matched runs of one character into nodes.
type delimiters struct {
	char    byte
	minimum int
	maximum int
	onMatch func(consumes int) gast.Node
}

func (d *delimiters) IsDelimiter(b byte) bool { return b == d.char }

func (d *delimiters) CanOpenCloser(opener, closer *parser.Delimiter) bool {
	return opener.Char == closer.Char
}

func (d *delimiters) OnMatch(consumes int) gast.Node { return d.onMatch(consumes) }

func (d *delimiters) Trigger() []byte { return []byte{d.char} }

func (d *delimiters) Parse(_ gast.Node, block text.Reader, pc parser.Context) gast.Node {
	before := block.PrecendingCharacter()
	line, segment := block.PeekLine()

	node := parser.ScanDelimiter(line, before, d.minimum, d)
	if node == nil || (d.maximum > 0 && node.OriginalLength > d.maximum) || before == rune(d.char) {
		return nil
	}

	node.Segment = segment.WithStop(segment.Start + node.OriginalLength)
	block.Advance(node.OriginalLength)
	pc.PushDelimiter(node)
	return node
}

func (d *delimiters) CloseBlock(gast.Node, parser.Context) {}

// underscores parses "_" runs ahead of the emphasis parser: a double underscore underlines instead of
// making the text strong. Single underscores still emphasize.
var underscores = &delimiters{char: '_', minimum: 1, onMatch: func(consumes int) gast.Node {
	if consumes == 2 {
		return &Underline{}
	}
	return gast.NewEmphasis(consumes)
}}

var equalsSigns = &delimiters{char: '=', minimum: 2, maximum: 2, onMatch: func(int) gast.Node {
	return &Mark{}
}}

var doubleQuotes = &delimiters{char: '"', minimum: 1, maximum: 1, onMatch: func(int) gast.Node {
	return &Quote{}
}}

// superscriptParser reads "^word" up to the next space, or "^(words)" up to the matching parenthesis.
type superscriptParser struct{}

func (superscriptParser) Trigger() []byte { return []byte{'^'} }

func (superscriptParser) Parse(_ gast.Node, block text.Reader, _ parser.Context) gast.Node {
	line, segment := block.PeekLine()
	if len(line) < 2 {
		return nil
	}

	start, stop, skip := 1, 1, 0
	if line[1] == '(' {
		depth := 0
		for stop = 1; stop < len(line); stop++ {
			if line[stop] == '(' {
				depth++
			} else if line[stop] == ')' {
				if depth--; depth == 0 {
					break
				}
			}
		}
		if stop == len(line) {
			return nil
		}
		start, skip = 2, 1
	} else {
		for stop < len(line) && !util.IsSpace(line[stop]) {
			stop++
		}
	}

	if stop <= start {
		return nil
	}

	node := &Superscript{}
	node.AppendChild(node, gast.NewTextSegment(text.NewSegment(segment.Start+start, segment.Start+stop)))
	block.Advance(stop + skip)
	return node
}

func (superscriptParser) CloseBlock(gast.Node, parser.Context) {}

// inlineHTMLRenderer renders the custom inline nodes.
type inlineHTMLRenderer struct {
	html.Config
	tags map[gast.NodeKind]string
}

func (r *inlineHTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	for kind := range r.tags {
		reg.Register(kind, r.renderTag)
	}
}

func (r *inlineHTMLRenderer) renderTag(
	w util.BufWriter, _ []byte, n gast.Node, entering bool,
) (gast.WalkStatus, error) {
	tag := r.tags[n.Kind()]
	if entering {
		_ = w.WriteByte('<')
		_, _ = w.WriteString(tag)
		if n.Attributes() != nil {
			html.RenderAttributes(w, n, html.GlobalAttributeFilter)
		}
		_ = w.WriteByte('>')
	} else {
		_, _ = w.WriteString("</")
		_, _ = w.WriteString(tag)
		_ = w.WriteByte('>')
	}
	return gast.WalkContinue, nil
}

// inlineSyntax is a goldmark extension for one custom span.
type inlineSyntax struct {
	parser parser.InlineParser
	kind   gast.NodeKind
	tag    string
}

func (e inlineSyntax) Extend(m goldmark.Markdown) {
	// below the default emphasis parser (500) so "_" reaches us first
	m.Parser().AddOptions(parser.WithInlineParsers(util.Prioritized(e.parser, 450)))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(util.Prioritized(&inlineHTMLRenderer{
		Config: html.NewConfig(),
		tags:   map[gast.NodeKind]string{e.kind: e.tag},
	}, 500)))
}

var (
	underlineSyntax   = inlineSyntax{parser: underscores, kind: KindUnderline, tag: "u"}
	highlightSyntax   = inlineSyntax{parser: equalsSigns, kind: KindMark, tag: "mark"}
	quoteSyntax       = inlineSyntax{parser: doubleQuotes, kind: KindQuote, tag: "q"}
	superscriptSyntax = inlineSyntax{parser: superscriptParser{}, kind: KindSuperscript, tag: "sup"}
)

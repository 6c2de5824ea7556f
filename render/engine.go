// Package render turns Markdown into HTML with goldmark, honoring the extension and render flags of a
// location.
package render

import (
	"bytes"
	"context"
	"io"
	"sync"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/cockroachdb/errors"
	"github.com/microcosm-cc/bluemonday"
	"github.com/samber/lo"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
	highlighting "github.com/yuin/goldmark-highlighting/v2"

	"github.com/advdv/mdserve"
)

// DefaultHighlightStyle is the chroma style used for the prettify flag.
const DefaultHighlightStyle = "github"

// Engine implements [mdserve.Renderer]. Converters are built once per distinct set of options and reused,
// so an engine is safe for concurrent use.
type Engine struct {
	highlightStyle string
	safelink       *bluemonday.Policy
	converters     sync.Map
}

// Option configures an [Engine].
type Option func(*Engine)

// WithHighlightStyle selects the chroma style for highlighted code blocks.
func WithHighlightStyle(name string) Option {
	return func(e *Engine) { e.highlightStyle = name }
}

// New inits an engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		highlightStyle: DefaultHighlightStyle,
		safelink:       safelinkPolicy(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Render writes the HTML body of src.
func (e *Engine) Render(_ context.Context, w io.Writer, src []byte, opts mdserve.RenderOptions) error {
	src = e.preprocess(src, opts)

	var out bytes.Buffer
	if err := e.converter(opts).Convert(src, &out); err != nil {
		return errors.Wrap(err, "convert markdown")
	}

	body := out.Bytes()
	if opts.Render.Has(mdserve.RenderSafelink) {
		body = e.safelink.SanitizeBytes(body)
	}

	if opts.Render.Has(mdserve.RenderSkipEOL) {
		var err error
		if body, err = skipEOL(body); err != nil {
			return err
		}
	}

	if _, err := w.Write(body); err != nil {
		return errors.Wrap(err, "write body")
	}

	return nil
}

// RenderTOC writes the table of contents of src, wrapped in the configured header and footer.
func (e *Engine) RenderTOC(_ context.Context, w io.Writer, src []byte, opts mdserve.RenderOptions) error {
	src = e.preprocess(src, opts)
	opts.Render = opts.Render.With(mdserve.RenderTOC)

	doc := e.converter(opts).Parser().Parse(text.NewReader(src))
	return writeTOC(w, src, doc, opts)
}

func (e *Engine) preprocess(src []byte, opts mdserve.RenderOptions) []byte {
	if opts.Render.Has(mdserve.RenderExpandTabs) {
		return expandTabs(src)
	}
	return src
}

// converter returns the cached goldmark instance for the options. The table of contents settings do not
// influence conversion and are left out of the key.
func (e *Engine) converter(opts mdserve.RenderOptions) goldmark.Markdown {
	opts.TOC = mdserve.TOCOptions{}
	if md, ok := e.converters.Load(opts); ok {
		return md.(goldmark.Markdown)
	}

	md, _ := e.converters.LoadOrStore(opts, e.build(opts))
	return md.(goldmark.Markdown)
}

func (e *Engine) build(opts mdserve.RenderOptions) goldmark.Markdown {
	exts, flags := opts.Extensions, opts.Render

	blocks := lo.Filter(parser.DefaultBlockParsers(), func(v util.PrioritizedValue, _ int) bool {
		switch v.Value {
		case parser.NewFencedCodeBlockParser():
			return exts.Has(mdserve.ExtFencedCode)
		case parser.NewCodeBlockParser():
			return !exts.Has(mdserve.ExtDisableIndentedCode)
		default:
			return true
		}
	})

	var parserOpts []parser.Option
	if exts.Has(mdserve.ExtSpecialAttribute) {
		parserOpts = append(parserOpts, parser.WithAttribute())
	}
	if flags.Has(mdserve.RenderTOC) {
		parserOpts = append(parserOpts, parser.WithAutoHeadingID())
	}
	if opts.Classes != (mdserve.ClassConfig{}) {
		parserOpts = append(parserOpts, parser.WithASTTransformers(
			util.Prioritized(&classTransformer{classes: opts.Classes}, 500)))
	}

	var htmlOpts []renderer.Option
	if flags.Has(mdserve.RenderHardWrap) {
		htmlOpts = append(htmlOpts, html.WithHardWraps())
	}
	if flags.Has(mdserve.RenderUseXHTML) {
		htmlOpts = append(htmlOpts, html.WithXHTML())
	}

	skipHTML, escape := flags.Has(mdserve.RenderSkipHTML), flags.Has(mdserve.RenderEscape)
	skipStyle := flags.Has(mdserve.RenderSkipStyle)
	if !skipHTML && !escape {
		htmlOpts = append(htmlOpts, html.WithUnsafe())
	}
	if skipHTML || escape || skipStyle {
		htmlOpts = append(htmlOpts, renderer.WithNodeRenderers(util.Prioritized(&rawHTMLRenderer{
			Config: html.NewConfig(), skip: skipHTML, escape: escape, skipStyle: skipStyle,
		}, 100)))
	}

	skipImages, skipLinks := flags.Has(mdserve.RenderSkipImages), flags.Has(mdserve.RenderSkipLinks)
	if skipImages || skipLinks {
		htmlOpts = append(htmlOpts, renderer.WithNodeRenderers(util.Prioritized(&skipRenderer{
			Config: html.NewConfig(), images: skipImages, links: skipLinks,
		}, 100)))
	}

	return goldmark.New(
		goldmark.WithParser(parser.NewParser(
			parser.WithBlockParsers(blocks...),
			parser.WithInlineParsers(parser.DefaultInlineParsers()...),
			parser.WithParagraphTransformers(parser.DefaultParagraphTransformers()...),
		)),
		goldmark.WithParserOptions(parserOpts...),
		goldmark.WithRendererOptions(htmlOpts...),
		goldmark.WithExtensions(e.extensions(exts, flags)...),
	)
}

func (e *Engine) extensions(exts mdserve.ExtensionSet, flags mdserve.RenderSet) []goldmark.Extender {
	toggles := []toggle{
		{exts.Has(mdserve.ExtTables), extension.Table},
		{exts.Has(mdserve.ExtAutolink), extension.Linkify},
		{exts.Has(mdserve.ExtStrikethrough), extension.Strikethrough},
		{exts.Has(mdserve.ExtFootnotes), extension.Footnote},
		{exts.Has(mdserve.ExtUnderline), underlineSyntax},
		{exts.Has(mdserve.ExtSuperscript), superscriptSyntax},
		{exts.Has(mdserve.ExtHighlight), highlightSyntax},
		{exts.Has(mdserve.ExtQuote), quoteSyntax},
		{flags.Has(mdserve.RenderUseTaskList), extension.TaskList},
		{flags.Has(mdserve.RenderPrettify), highlighting.NewHighlighting(
			highlighting.WithStyle(e.highlightStyle),
			highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
		)},
	}

	return lo.FilterMap(toggles, func(t toggle, _ int) (goldmark.Extender, bool) {
		return t.ext, t.on
	})
}

type toggle struct {
	on  bool
	ext goldmark.Extender
}

var _ mdserve.Renderer = &Engine{}

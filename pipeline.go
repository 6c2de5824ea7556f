package mdserve

import (
	"context"
	"io"
	"net/http"
	"path"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
)

// Renderer converts Markdown into HTML. Render produces the document body, RenderTOC only the table of
// contents of the same source.
type Renderer interface {
	Render(ctx context.Context, w io.Writer, src []byte, opts RenderOptions) error
	RenderTOC(ctx context.Context, w io.Writer, src []byte, opts RenderOptions) error
}

// PipelineDeps are the collaborators of a [Pipeline].
type PipelineDeps struct {
	FS       FileSystem
	Fetcher  Fetcher
	Renderer Renderer
	Logger   Logger
	// Next serves requests the pipeline does not apply to. Defaults to a 404.
	Next Handler
}

// Pipeline is the [Handler] that turns Markdown documents into HTML pages.
type Pipeline struct {
	cfg      *Config
	resolver *Resolver
	splicer  *Splicer
	renderer Renderer
	next     Handler
}

// NewPipeline composes a pipeline for one location. The configuration must not be modified afterwards.
func NewPipeline(cfg *Config, deps PipelineDeps) *Pipeline {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if deps.Logger == nil {
		deps.Logger = NewStdLogger(nil)
	}

	if deps.Next == nil {
		deps.Next = HandlerFunc(func(_ context.Context, _ ResponseWriter, r *http.Request) error {
			return NewError(CodeNotFound, errors.Newf("no handler for %q", r.URL.Path))
		})
	}

	return &Pipeline{
		cfg:      cfg,
		resolver: NewResolver(cfg, deps.FS, deps.Fetcher, deps.Logger),
		splicer:  NewSplicer(cfg, deps.FS, deps.Logger),
		renderer: deps.Renderer,
		next:     deps.Next,
	}
}

// Applies reports whether the pipeline handles the request path. Directory requests apply when their index
// does.
func (p *Pipeline) Applies(r *http.Request) bool {
	if len(p.cfg.Match) == 0 {
		return true
	}

	name := r.URL.Path
	if name == "" || strings.HasSuffix(name, "/") {
		name += p.cfg.DirectoryIndex
	}

	name = strings.ToLower(path.Base(name))
	return slices.ContainsFunc(p.cfg.Match, func(suffix string) bool {
		return suffix != "" && strings.HasSuffix(name, strings.ToLower(suffix))
	})
}

// ServeBHTTP implements [Handler].
func (p *Pipeline) ServeBHTTP(ctx context.Context, w ResponseWriter, r *http.Request) error {
	if !p.Applies(r) {
		return p.next.ServeBHTTP(ctx, w, r)
	}

	switch r.Method {
	case http.MethodHead:
		w.WriteHeader(http.StatusOK)
		return nil
	case http.MethodGet, http.MethodPost:
	default:
		return NewError(CodeMethodNotAllowed, errors.Newf("method %s", r.Method))
	}

	req, err := ParseRequest(r)
	if err != nil {
		return err
	}

	src, err := p.resolver.Resolve(ctx, req)
	if err != nil {
		return err
	}

	if p.cfg.Raw && req.Raw && src.Len() > 0 {
		w.Header().Set("Content-Type", "text/plain")
		if _, err := w.Write(src.Bytes()); err != nil {
			return errors.Wrap(err, "write raw source")
		}

		return nil
	}

	w.Header().Set("Content-Type", "text/html")

	footer, err := p.splicer.Header(ctx, w, req.Style, Title(req.Name))
	if err != nil {
		return err
	}
	defer footer.Close()

	if src.Len() > 0 {
		if err := p.render(ctx, w, src.Bytes(), req); err != nil {
			return err
		}
	}

	if _, err := footer.WriteTo(w); err != nil {
		return err
	}

	return nil
}

func (p *Pipeline) render(ctx context.Context, w io.Writer, src []byte, req *Request) error {
	opts := p.cfg.RenderOptions()

	if p.cfg.Render.Has(RenderTOC) {
		toc := ParseTOCDirective(req.TOC, p.cfg)
		if err := p.renderer.RenderTOC(ctx, w, src, p.cfg.TOCRenderOptions(toc)); err != nil {
			return NewError(CodeInternalServerError, errors.Wrap(err, "render table of contents"))
		}

		opts.TOC = toc
	}

	if err := p.renderer.Render(ctx, w, src, opts); err != nil {
		return NewError(CodeInternalServerError, errors.Wrap(err, "render"))
	}

	return nil
}

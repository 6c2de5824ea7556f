package mdserve

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
)

// MaxFormMemory bounds the part of a multipart upload kept in memory.
const MaxFormMemory = 32 << 20

// Fetcher retrieves remote Markdown for the "url" parameter.
type Fetcher interface {
	Fetch(ctx context.Context, url string, w io.Writer) error
}

// FetcherFunc allows a function to implement [Fetcher].
type FetcherFunc func(ctx context.Context, url string, w io.Writer) error

// Fetch implements [Fetcher].
func (f FetcherFunc) Fetch(ctx context.Context, url string, w io.Writer) error { return f(ctx, url, w) }

// Request is the per-request input of the pipeline.
type Request struct {
	Method string
	// Name is the requested document. An empty name or one ending in a slash denotes a directory.
	Name string
	// Style selects a template instead of the configured one.
	Style string
	// URL, when set, is fetched instead of reading the file system.
	URL *string
	// Markdown, when set, is the whole document. Only read on POST, from the body or the query.
	Markdown *string
	// Raw asks for the unrendered source.
	Raw bool
	// TOC is a "start" or "start:nesting" directive.
	TOC *string
	// HeaderOnly is set for HEAD requests.
	HeaderOnly bool
}

// ParseRequest reads the query and form parameters the pipeline understands.
func ParseRequest(r *http.Request) (*Request, error) {
	if err := r.ParseMultipartForm(MaxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, NewError(CodeBadRequest, errors.Wrap(err, "parse form"))
	}

	req := &Request{
		Method:     r.Method,
		Name:       r.URL.Path,
		Style:      r.Form.Get("style"),
		URL:        formValue(r.Form, "url"),
		Raw:        r.Form.Has("raw"),
		TOC:        formValue(r.Form, "toc"),
		HeaderOnly: r.Method == http.MethodHead,
	}

	if r.Method == http.MethodPost {
		req.Markdown = formValue(r.Form, "markdown")
	}

	return req, nil
}

func formValue(form map[string][]string, key string) *string {
	vals, ok := form[key]
	if !ok {
		return nil
	}

	v := strings.Join(vals, "")
	return &v
}

// IsDirectory reports whether the request names a directory.
func (r *Request) IsDirectory() bool {
	return r.Name == "" || strings.HasSuffix(r.Name, "/")
}

// Resolver determines where the Markdown of a request comes from and reads it into a [Buffer].
type Resolver struct {
	cfg     *Config
	fsys    FileSystem
	fetcher Fetcher
	logs    Logger
}

// NewResolver inits a resolver. A nil fetcher treats every "url" parameter as empty.
func NewResolver(cfg *Config, fsys FileSystem, fetcher Fetcher, logs Logger) *Resolver {
	return &Resolver{cfg: cfg, fsys: fsys, fetcher: fetcher, logs: logs}
}

// Resolve reads the document in priority order: inline text, then the url parameter, then the file system,
// and finally the default page when nothing produced content. Inline text or a url that yields no bytes
// falls back to the requested file with directory indexes disabled. A missing document falls through to
// the default page, any other file error aborts.
func (rs *Resolver) Resolve(ctx context.Context, req *Request) (*Buffer, error) {
	buf := NewBuffer(ReadUnit)

	directory := true
	switch {
	case req.Markdown != nil:
		buf.WriteString(*req.Markdown)
		directory = false
	case req.URL != nil:
		if err := rs.fetch(ctx, buf, *req.URL); err != nil {
			return nil, err
		}
		directory = false
	}

	if buf.Len() == 0 {
		if err := rs.readDocument(ctx, buf, req.Name, directory); err != nil && CodeOf(err) != CodeNotFound {
			return nil, err
		}
	}

	if buf.Len() > 0 {
		return buf, nil
	}

	if rs.cfg.DefaultPage == "" {
		return nil, NewError(CodeNotFound, errors.New("no content and no default page configured"))
	}

	if err := rs.readFile(ctx, buf, rs.cfg.DefaultPage); err != nil {
		return nil, err
	}

	return buf, nil
}

func (rs *Resolver) fetch(ctx context.Context, buf *Buffer, url string) error {
	if url == "" || rs.fetcher == nil {
		return nil
	}

	err := rs.fetcher.Fetch(ctx, url, buf)
	switch {
	case err == nil:
		return nil
	case rs.cfg.FetchErrorsIgnored():
		rs.logs.LogFetchError(ctx, url, err)
		return nil
	default:
		return NewError(CodeInternalServerError, errors.Wrapf(err, "fetch %q", url))
	}
}

// readDocument reads name, appending the directory index to directory names. With directory unset a
// directory name yields nothing, so the caller falls through to the default page.
func (rs *Resolver) readDocument(ctx context.Context, buf *Buffer, name string, directory bool) error {
	if name == "" || strings.HasSuffix(name, "/") {
		if !directory {
			return nil
		}

		if rs.cfg.DirectoryIndex == "" {
			return NewError(CodeForbidden, errors.Newf("directory %q without index", name))
		}

		name += rs.cfg.DirectoryIndex
	}

	return rs.readFile(ctx, buf, name)
}

func (rs *Resolver) readFile(ctx context.Context, buf *Buffer, name string) error {
	f, err := rs.fsys.Open(ctx, name)
	if err != nil {
		return fileError(err, name)
	}
	defer f.Close()

	if _, err := buf.ReadFrom(f); err != nil {
		return NewError(CodeInternalServerError, errors.Wrapf(err, "read %q", name))
	}

	return nil
}

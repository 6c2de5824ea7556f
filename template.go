package mdserve

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"path"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/net/html"
)

// TitleMarker in a template header is replaced by the document title.
const TitleMarker = "$title"

const (
	shellHeader = "<!DOCTYPE html>\n<html>\n<head><title>%s</title></head>\n<body>\n"
	shellFooter = "</body>\n</html>\n"
)

// Splicer wraps rendered documents in a style template. The template is split after the first line that
// contains a "<body...>" tag: everything up to and including that line is the header, the rest the footer.
type Splicer struct {
	cfg  *Config
	fsys FileSystem
	logs Logger
}

// NewSplicer inits a splicer that reads templates from fsys.
func NewSplicer(cfg *Config, fsys FileSystem, logs Logger) *Splicer {
	return &Splicer{cfg: cfg, fsys: fsys, logs: logs}
}

// Header writes the template header for the given style to w. An empty style selects the configured one. When
// no usable template exists a minimal HTML shell is written instead. The returned footer must be written (or
// closed) by the caller.
func (s *Splicer) Header(ctx context.Context, w io.Writer, style, title string) (*Footer, error) {
	name := style
	if name == "" {
		name = s.cfg.Style.Name
	}

	if name == "" {
		return s.shell(w, title)
	}

	f, err := s.fsys.Open(ctx, s.templateName(name))
	if err != nil && name != s.cfg.Style.Name && s.cfg.Style.Name != "" {
		f, err = s.fsys.Open(ctx, s.templateName(s.cfg.Style.Name))
	}

	if err != nil {
		s.logs.LogTemplateFallback(ctx, name, err)
		return s.shell(w, title)
	}

	rd := bufio.NewReader(f)
	header, err := scanHeader(rd, title)
	if err != nil {
		f.Close()
		s.logs.LogTemplateFallback(ctx, name, err)
		return s.shell(w, title)
	}

	if _, err := w.Write(header); err != nil {
		f.Close()
		return nil, errors.Wrap(err, "write template header")
	}

	return &Footer{rest: rd, closer: f}, nil
}

func (s *Splicer) templateName(style string) string {
	return path.Join("/", s.cfg.Style.Path, style+s.cfg.Style.Ext)
}

func (s *Splicer) shell(w io.Writer, title string) (*Footer, error) {
	header := strings.Replace(shellHeader, "%s", html.EscapeString(title), 1)
	if _, err := io.WriteString(w, header); err != nil {
		return nil, errors.Wrap(err, "write minimal header")
	}

	return &Footer{rest: strings.NewReader(shellFooter)}, nil
}

// scanHeader collects lines up to and including the first one holding the body marker. A template without
// the marker cannot be spliced and is an error.
func scanHeader(rd *bufio.Reader, title string) ([]byte, error) {
	var header bytes.Buffer
	for {
		line, err := rd.ReadString('\n')
		header.WriteString(strings.Replace(line, TitleMarker, html.EscapeString(title), 1))

		if IsBodyMarker(line) {
			return header.Bytes(), nil
		}

		switch {
		case errors.Is(err, io.EOF):
			return nil, errors.New("template has no <body> line")
		case err != nil:
			return nil, errors.Wrap(err, "read template")
		}
	}
}

// IsBodyMarker reports whether line contains an opening body tag, ignoring case.
func IsBodyMarker(line string) bool {
	lower := strings.ToLower(line)

	idx := strings.Index(lower, "<body")
	if idx < 0 {
		return false
	}

	return strings.Contains(lower[idx+len("<body"):], ">")
}

// Footer is the remainder of a template after its header was written.
type Footer struct {
	rest   io.Reader
	closer io.Closer
}

// WriteTo writes the footer and releases the template.
func (f *Footer) WriteTo(w io.Writer) (int64, error) {
	defer f.Close()

	n, err := io.Copy(w, f.rest)
	if err != nil {
		return n, errors.Wrap(err, "write template footer")
	}

	return n, nil
}

// Close releases the template without writing the footer. It is safe to call more than once.
func (f *Footer) Close() error {
	if f.closer == nil {
		return nil
	}

	c := f.closer
	f.closer = nil
	return c.Close()
}

// Title derives a document title from its name: the base name without extension.
func Title(name string) string {
	base := path.Base(name)
	if strings.HasSuffix(name, "/") || base == "." || base == "/" {
		return DefaultTitle
	}

	if ext := path.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}

	if base == "" {
		return DefaultTitle
	}

	return base
}

package mdserve

import (
	"net/http"
	"net/url"
	"strings"
)

// Mount serves handler on a location prefix. The handler sees request paths relative to the prefix, so a
// location can map onto its own content root. Middleware registered via [ServeMux.Use] sees the original path.
func (m *ServeMux) Mount(prefix string, handler Handler) {
	method, path := splitMethodPattern(prefix)
	path = strings.TrimSuffix(path, "/")

	stdHandler := ToStd(
		wrapBare(stripPrefix(path, ToBare(handler)), m.middlewares.buffered...),
		m.bufLimit,
		m.logs,
	)

	if path == "" {
		m.handle(method+"/", stdHandler)
		return
	}

	m.handle(method+path, stdHandler)
	m.handle(method+path+"/", stdHandler)
}

func splitMethodPattern(pattern string) (method, path string) {
	if idx := strings.Index(pattern, " "); idx >= 0 {
		return pattern[:idx+1], strings.TrimSpace(pattern[idx+1:])
	}

	return "", pattern
}

func stripPrefix(prefix string, handler BareHandler) BareHandler {
	if prefix == "" {
		return handler
	}

	return BareHandlerFunc(func(w ResponseWriter, r *http.Request) error {
		r2 := new(http.Request)
		*r2 = *r
		r2.URL = new(url.URL)
		*r2.URL = *r.URL
		r2.URL.Path = trimPrefixOrRoot(r.URL.Path, prefix)
		if r.URL.RawPath != "" {
			r2.URL.RawPath = trimPrefixOrRoot(r.URL.RawPath, prefix)
		}

		return handler.ServeBareBHTTP(w, r2)
	})
}

func trimPrefixOrRoot(p, prefix string) string {
	if p = strings.TrimPrefix(p, prefix); p == "" {
		return "/"
	}

	return p
}

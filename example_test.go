package mdserve_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing/fstest"

	"github.com/cockroachdb/errors"

	"github.com/advdv/mdserve"
	"github.com/advdv/mdserve/render"
)

func ExampleNewPipeline() {
	docs := fstest.MapFS{
		"hello.md": {Data: []byte("# Hello\n")},
	}

	mux := mdserve.NewServeMux()
	mux.Handle("/", mdserve.NewPipeline(mdserve.DefaultConfig(), mdserve.PipelineDeps{
		FS:       mdserve.IOFS{FS: docs},
		Renderer: render.New(),
	}))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/hello.md", nil))

	fmt.Print(rec.Body.String())
	// Output:
	// <!DOCTYPE html>
	// <html>
	// <head><title>hello</title></head>
	// <body>
	// <h1>Hello</h1>
	// </body>
	// </html>
}

func ExampleServeMux_Mount() {
	docs := fstest.MapFS{
		"guide/intro.md": {Data: []byte("intro")},
	}

	cfg := mdserve.DefaultConfig()
	cfg.Raw = true

	mux := mdserve.NewServeMux()
	mux.Mount("/docs", mdserve.NewPipeline(cfg, mdserve.PipelineDeps{
		FS:       mdserve.IOFS{FS: docs},
		Renderer: render.New(),
	}))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs/guide/intro.md?raw", nil))

	fmt.Println(rec.Header().Get("Content-Type"))
	fmt.Println(rec.Body.String())
	// Output:
	// text/plain
	// intro
}

func ExampleNewError() {
	docs := fstest.MapFS{
		"drafts/plan.md": {Data: []byte("secret")},
		"intro.md":       {Data: []byte("public")},
	}

	mux := mdserve.NewServeMux()
	mux.Use(func(next mdserve.BareHandler) mdserve.BareHandler {
		return mdserve.BareHandlerFunc(func(w mdserve.ResponseWriter, r *http.Request) error {
			if strings.HasPrefix(r.URL.Path, "/drafts/") {
				return mdserve.NewError(mdserve.CodeForbidden, errors.Newf("draft %s", r.URL.Path))
			}
			return next.ServeBareBHTTP(w, r)
		})
	})
	mux.Handle("/", mdserve.NewPipeline(mdserve.DefaultConfig(), mdserve.PipelineDeps{
		FS:       mdserve.IOFS{FS: docs},
		Renderer: render.New(),
	}))

	for _, target := range []string{"/intro.md", "/drafts/plan.md", "/missing.md", "/drafts/"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		fmt.Println(target, rec.Code)
	}
	// Output:
	// /intro.md 200
	// /drafts/plan.md 403
	// /missing.md 404
	// /drafts/ 403
}

func ExampleServeMux_Use() {
	mux := mdserve.NewServeMux()

	mux.Use(func(next mdserve.BareHandler) mdserve.BareHandler {
		return mdserve.BareHandlerFunc(func(w mdserve.ResponseWriter, r *http.Request) error {
			w.Header().Set("Cache-Control", "max-age=60")
			return next.ServeBareBHTTP(w, r)
		})
	})

	mux.Handle("/", mdserve.NewPipeline(mdserve.DefaultConfig(), mdserve.PipelineDeps{
		FS:       mdserve.IOFS{FS: fstest.MapFS{"a.md": {Data: []byte("*a*")}}},
		Renderer: render.New(),
	}))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/a.md", nil))

	fmt.Println("Status:", rec.Code)
	fmt.Println("Cache-Control:", rec.Header().Get("Cache-Control"))
	// Output:
	// Status: 200
	// Cache-Control: max-age=60
}

func ExampleResponseWriter_Reset() {
	mux := mdserve.NewServeMux()

	mux.HandleFunc("GET /page", func(ctx context.Context, w mdserve.ResponseWriter, r *http.Request) error {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body>")

		// the page header is discarded when an error is returned
		if r.URL.Query().Has("missing") {
			return mdserve.NewError(mdserve.CodeNotFound, errors.New("document gone"))
		}

		fmt.Fprint(w, "</body></html>")
		return nil
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/page", nil))
	fmt.Println("Success:", rec.Body.String())

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/page?missing", nil))
	fmt.Printf("Failure: %d %q\n", rec.Code, rec.Body.String())
	// Output:
	// Success: <html><body></body></html>
	// Failure: 404 "Not Found\n"
}

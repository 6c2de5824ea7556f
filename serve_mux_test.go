package mdserve_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/advdv/mdserve"
)

func serveSlug(ctx context.Context, w mdserve.ResponseWriter, r *http.Request) error {
	fmt.Fprintf(w, `hello %v, %s`, ctx.Value(ctxKey("foo")), r.PathValue("slug"))
	return nil
}

func middleware1(next mdserve.BareHandler) mdserve.BareHandler {
	return mdserve.BareHandlerFunc(func(w mdserve.ResponseWriter, r *http.Request) error {
		return next.ServeBareBHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey("foo"), "bar")))
	})
}

func TestServeMux(t *testing.T) {
	mux := mdserve.NewServeMux()
	mux.Use(middleware1)
	mux.HandleFunc("GET /blog/{slug}", serveSlug)

	rec, req := httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/blog/111", nil)
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, `hello bar, 111`, rec.Body.String())
}

func TestHandleStd(t *testing.T) {
	mux := mdserve.NewServeMux()
	mux.HandleStd("GET /std", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "std:%s", r.URL.Path)
	}))

	rec, req := httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/std", nil)
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "std:/std", rec.Body.String())
}

func TestHandleStdErrorOwnership(t *testing.T) {
	mux := mdserve.NewServeMux()
	mux.HandleStd("GET /teapot", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "custom error", http.StatusTeapot)
	}))

	rec, req := httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/teapot", nil)
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusTeapot, rec.Code)
	require.Equal(t, "custom error\n", rec.Body.String())
}

func TestHandleStdMiddlewareApplied(t *testing.T) {
	mux := mdserve.NewServeMux()
	mux.Use(middleware1)
	mux.HandleStd("GET /std", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "val:%v", r.Context().Value(ctxKey("foo")))
	}))

	rec, req := httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/std", nil)
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "val:bar", rec.Body.String())
}

func TestUseAfterHandle(t *testing.T) {
	mux := mdserve.NewServeMux()
	mux.HandleFunc("GET /blog/{slug}", serveSlug)
	require.PanicsWithValue(t, "mdserve: cannot call Use() after calling Handle", func() {
		mux.Use(middleware1)
	})
}

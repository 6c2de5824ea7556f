package mdserve_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"

	"github.com/advdv/mdserve"
)

func TestWrapWithoutMiddleware(t *testing.T) {
	var called bool
	hdlr := mdserve.Wrap(mdserve.HandlerFunc(func(context.Context, mdserve.ResponseWriter, *http.Request) error {
		called = true
		return nil
	}))

	rec := httptest.NewRecorder()
	require.NoError(t, hdlr.ServeBareBHTTP(mdserve.NewResponseWriter(rec, -1), httptest.NewRequest(http.MethodGet, "/", nil)))
	require.True(t, called)
}

func TestWrapOrder(t *testing.T) {
	var res string
	trace := func(name string) mdserve.Middleware {
		return func(next mdserve.BareHandler) mdserve.BareHandler {
			return mdserve.BareHandlerFunc(func(w mdserve.ResponseWriter, r *http.Request) error {
				res += name + "("
				err := next.ServeBareBHTTP(w, r)
				res += ")" + name

				return fmt.Errorf("%s(%w)", name, err)
			})
		}
	}

	inner := mdserve.HandlerFunc(func(ctx context.Context, _ mdserve.ResponseWriter, _ *http.Request) error {
		res += fmt.Sprintf("inner %v", ctx.Value(ctxKey("foo")))
		return errors.New("inner error")
	})

	rec, req := httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil)
	err := mdserve.Wrap(inner, trace("3"), middleware1, trace("2"), trace("1")).
		ServeBareBHTTP(mdserve.NewResponseWriter(rec, -1), req)

	require.Equal(t, "3(2(1(inner bar)1)2)3", res)
	require.EqualError(t, err, "3(2(1(inner error)))")
}

// errorer resets the buffered response and writes the error as plain text.
func errorer(next mdserve.BareHandler) mdserve.BareHandler {
	return mdserve.BareHandlerFunc(func(w mdserve.ResponseWriter, r *http.Request) error {
		if err := next.ServeBareBHTTP(w, r); err != nil {
			w.Reset()
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}

		return nil
	})
}

// recoverer turns panics into errors.
func recoverer(next mdserve.BareHandler) mdserve.BareHandler {
	return mdserve.BareHandlerFunc(func(w mdserve.ResponseWriter, r *http.Request) (err error) {
		defer func() {
			if e := recover(); e != nil {
				err = fmt.Errorf("recovered: %v", e)
			}
		}()

		return next.ServeBareBHTTP(w, r)
	})
}

func TestRecoverAndReset(t *testing.T) {
	mux := mdserve.NewServeMux()
	mux.Use(errorer, recoverer)
	mux.HandleFunc("GET /", func(_ context.Context, w mdserve.ResponseWriter, _ *http.Request) error {
		w.Header().Set("X-Foo", "bar")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprintf(w, "some body")

		panic("some panic")
	})

	rec, req := httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil)
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, http.Header{
		"Content-Type":           {"text/plain; charset=utf-8"},
		"X-Content-Type-Options": {"nosniff"},
	}, rec.Header())
	require.Equal(t, "recovered: some panic\n", rec.Body.String())
}

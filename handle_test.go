package mdserve_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/advdv/mdserve"
)

func handleGreeting(_ context.Context, w mdserve.ResponseWriter, r *http.Request) error {
	w.Header().Set("Is-Bar", "rab")
	w.WriteHeader(http.StatusCreated)

	fmt.Fprintf(w, `hello, at %s`, r.URL.Path)

	switch r.URL.Path {
	case "/trigger-error":
		return errors.New("triggered error")
	case "/trigger-not-found":
		return mdserve.NewError(mdserve.CodeNotFound, errors.New("no such document"))
	}

	return nil
}

func serveGreeting(t *testing.T, path string) (*httptest.ResponseRecorder, *mdserve.TestLogger) {
	t.Helper()

	logs := mdserve.NewTestLogger(t)
	hdlr := mdserve.ToStd(mdserve.ToBare(mdserve.HandlerFunc(handleGreeting)), -1, logs)

	rec, req := httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil)
	hdlr.ServeHTTP(rec, req)

	return rec, logs
}

func TestHandleBasic(t *testing.T) {
	rec, _ := serveGreeting(t, "/bar")

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, `rab`, rec.Header().Get("Is-Bar"))
	require.Equal(t, `hello, at /bar`, rec.Body.String())
}

func TestHandleDefaultError(t *testing.T) {
	rec, logs := serveGreeting(t, "/trigger-error")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, ``, rec.Header().Get("Is-Bar"))
	require.Equal(t, `Internal Server Error`+"\n", rec.Body.String())
	require.Equal(t, int64(1), logs.NumLogUnhandledServeError)
}

func TestHandleCodedError(t *testing.T) {
	rec, logs := serveGreeting(t, "/trigger-not-found")

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, `Not Found`+"\n", rec.Body.String())
	require.Equal(t, int64(0), logs.NumLogUnhandledServeError)
}

func TestHandleBufferLimit(t *testing.T) {
	logs := mdserve.NewTestLogger(t)
	hdlr := mdserve.ToStd(mdserve.ToBare(mdserve.HandlerFunc(
		func(_ context.Context, w mdserve.ResponseWriter, _ *http.Request) error {
			_, err := w.Write(make([]byte, 11))
			return err
		})), 10, logs)

	rec, req := httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil)
	hdlr.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, int64(1), logs.NumLogUnhandledServeError)
}

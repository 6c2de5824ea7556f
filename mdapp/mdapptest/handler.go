package mdapptest

import (
	"net/http"
	"net/http/httptest"

	"github.com/advdv/mdserve"
)

// CallHandler invokes a [mdserve.Handler] with a buffered response writer and returns the recorded response.
// Errors are answered the way the mux answers them.
func CallHandler(handler mdserve.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mdserve.ToStd(mdserve.ToBare(handler), -1, mdserve.NewStdLogger(nil)).ServeHTTP(rec, req)
	return rec
}

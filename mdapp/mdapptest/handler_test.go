package mdapptest_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"

	"github.com/advdv/mdserve"
	"github.com/advdv/mdserve/mdapp/mdapptest"
	"github.com/advdv/mdserve/render"
)

func TestCallHandler(t *testing.T) {
	pipeline := mdserve.NewPipeline(mdserve.DefaultConfig(), mdserve.PipelineDeps{
		FS:       mdserve.IOFS{FS: fstest.MapFS{"a.md": {Data: []byte("*hi*")}}},
		Renderer: render.New(),
	})

	rec := mdapptest.CallHandler(pipeline, httptest.NewRequest(http.MethodGet, "/a.md", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<p><em>hi</em></p>")

	rec = mdapptest.CallHandler(pipeline, httptest.NewRequest(http.MethodGet, "/b.md", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	failing := mdserve.HandlerFunc(func(context.Context, mdserve.ResponseWriter, *http.Request) error {
		return mdserve.NewError(mdserve.CodeForbidden, errors.New("nope"))
	})
	rec = mdapptest.CallHandler(failing, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Forbidden\n", rec.Body.String())
}

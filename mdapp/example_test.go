package mdapp_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing/fstest"

	"github.com/advdv/mdserve"
	"github.com/advdv/mdserve/mdapp"
	"github.com/advdv/mdserve/render"
)

func ExampleMountLocations() {
	doc, err := mdapp.ParseDocument([]byte(`
defaults:
  match: [".md"]
locations:
  - prefix: /notes
    config: {raw: true}
`))
	if err != nil {
		panic(err)
	}

	mux := mdserve.NewServeMux()
	mdapp.MountLocations(mux, doc, mdserve.PipelineDeps{
		FS: mdserve.IOFS{FS: fstest.MapFS{
			"notes/todo.md": {Data: []byte("- milk\n")},
			"readme.md":     {Data: []byte("hello\n")},
		}},
		Renderer: render.New(),
	})

	for _, target := range []string{"/notes/todo.md?raw", "/readme.md?raw", "/readme.txt"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		fmt.Println(target, rec.Code, rec.Header().Get("Content-Type"))
	}
	// Output:
	// /notes/todo.md?raw 200 text/plain
	// /readme.md?raw 200 text/html
	// /readme.txt 404 text/plain; charset=utf-8
}

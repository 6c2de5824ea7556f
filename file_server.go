package mdserve

import (
	"context"
	"io"
	"mime"
	"net/http"
	"path"

	"github.com/cockroachdb/errors"
)

// FileServer returns a [Handler] that copies files from fsys unchanged. It is the fallback for requests a
// [Pipeline] declines, so a location can serve its stylesheets and images next to the documents.
func FileServer(fsys FileSystem) Handler {
	return HandlerFunc(func(ctx context.Context, w ResponseWriter, r *http.Request) error {
		switch r.Method {
		case http.MethodGet, http.MethodHead:
		default:
			return NewError(CodeMethodNotAllowed, errors.Newf("method %s", r.Method))
		}

		name := r.URL.Path
		f, err := fsys.Open(ctx, name)
		if err != nil {
			return fileError(err, name)
		}
		defer f.Close()

		ctype := mime.TypeByExtension(path.Ext(name))
		if ctype == "" {
			ctype = "application/octet-stream"
		}
		w.Header().Set("Content-Type", ctype)

		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusOK)
			return nil
		}

		if _, err := io.Copy(w, f); err != nil {
			return errors.Wrapf(err, "copy %q", name)
		}

		return nil
	})
}

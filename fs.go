package mdserve

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path"

	"github.com/cockroachdb/errors"
)

// FileSystem provides the documents, default pages and style templates. Names are slash separated and relative
// to the root of the file system. Implementations report missing files with [fs.ErrNotExist] and refused access
// with [fs.ErrPermission].
type FileSystem interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// IOFS adapts an [fs.FS] to a [FileSystem]. Directories cannot be opened as documents and are reported as
// [fs.ErrPermission].
type IOFS struct {
	FS fs.FS
}

// DirFS serves the files below the local directory root.
func DirFS(root string) IOFS {
	return IOFS{FS: os.DirFS(root)}
}

// Open implements [FileSystem].
func (f IOFS) Open(_ context.Context, name string) (io.ReadCloser, error) {
	name = CleanName(name)

	file, err := f.FS.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "open")
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, errors.Wrap(err, "stat")
	}

	if info.IsDir() {
		file.Close()
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrPermission}
	}

	return file, nil
}

// CleanName turns a request path into a name that stays inside the file system root. The root itself is ".".
func CleanName(name string) string {
	name = path.Clean("/" + name)[1:]
	if name == "" {
		return "."
	}
	return name
}

var _ FileSystem = IOFS{}

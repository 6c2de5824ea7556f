package mdserve

import (
	"io/fs"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestFileError(t *testing.T) {
	for _, tt := range []struct {
		err  error
		code Code
	}{
		{fs.ErrNotExist, CodeNotFound},
		{&fs.PathError{Op: "open", Path: "a", Err: fs.ErrPermission}, CodeForbidden},
		{errors.New("disk on fire"), CodeInternalServerError},
	} {
		err := fileError(tt.err, "docs/a.md")
		assert.Equal(t, tt.code, err.Code())
		assert.Contains(t, err.Error(), `open "docs/a.md"`)
		assert.ErrorIs(t, err, tt.err)
	}
}

package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_SaveOpenDelete(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	path, err := s.Save(ctx, strings.NewReader("report"), "exports/2024/03/report.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "exports/2024/03/report.xlsx", path)

	exists, err := s.Exists(ctx, path)
	require.NoError(t, err)
	assert.True(t, exists)

	rc, err := s.Open(ctx, path)
	require.NoError(t, err)
	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "report", string(content))

	require.NoError(t, s.Delete(ctx, path))
	require.NoError(t, s.Delete(ctx, path), "deleting twice is not an error")

	_, err = s.Open(ctx, path)
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = s.Save(ctx, strings.NewReader("x"), "../outside.xlsx")
	assert.ErrorIs(t, err, ErrInvalidPath)

	_, err = s.Exists(ctx, "../../etc/passwd")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

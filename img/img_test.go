package img

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rabidaudio/flashgate/flash"
)

func TestCreateBare(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bare.img")
	require.NoError(t, Create(path, 4*flash.PageSize))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, data, 4*flash.PageSize)
	for _, b := range data {
		if b != 0xFF {
			t.Fatal("bare image must be fully erased")
		}
	}

	pages, err := Pages(path)
	require.NoError(t, err)
	assert.Equal(t, 4, pages)
}

func TestCreateRejectsPartialPages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.img")
	assert.Error(t, Create(path, flash.PageSize+1))
	assert.Error(t, Create(path, 0))
}

func TestFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fat.img")
	require.NoError(t, Format(path, 0, "TESTVOL"))

	pages, err := Pages(path)
	require.NoError(t, err)
	assert.Equal(t, int(DiskSize)/flash.PageSize, pages)

	names, err := List(path)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestFormatRejectsPartialPages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.img")
	assert.Error(t, Format(path, flash.PageSize-1, "X"))
}

package utils

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDir(t *testing.T) {
	root := t.TempDir()

	t.Run("creates nested directories", func(t *testing.T) {
		dir, err := EnsureDir(filepath.Join(root, "a", "b"))
		require.NoError(t, err)
		assert.DirExists(t, dir)
		assert.True(t, filepath.IsAbs(dir))
	})

	t.Run("existing directory", func(t *testing.T) {
		dir, err := EnsureDir(root)
		require.NoError(t, err)
		assert.Equal(t, root, dir)
	})

	t.Run("path is a file", func(t *testing.T) {
		file := filepath.Join(root, "file.txt")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

		_, err := EnsureDir(file)
		require.Error(t, err)
		assert.True(t, eris.Is(err, ErrNotADirectory))
	})
}

func TestResolveExistingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ventas.xlsx"), []byte("x"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))

	t.Run("relative name", func(t *testing.T) {
		path, err := ResolveExistingFile(dir, "ventas.xlsx")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "ventas.xlsx"), path)
	})

	t.Run("absolute name ignores dir", func(t *testing.T) {
		path, err := ResolveExistingFile("/does/not/exist", filepath.Join(dir, "ventas.xlsx"))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "ventas.xlsx"), path)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ResolveExistingFile(dir, "drivers.xlsx")
		require.Error(t, err)
		assert.True(t, eris.Is(err, ErrFileNotFound))
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := ResolveExistingFile(filepath.Join(dir, "nope"), "ventas.xlsx")
		require.Error(t, err)
		assert.True(t, eris.Is(err, ErrFileNotFound))
	})

	t.Run("directory is a file", func(t *testing.T) {
		_, err := ResolveExistingFile(filepath.Join(dir, "ventas.xlsx"), "x.xlsx")
		require.Error(t, err)
		assert.True(t, eris.Is(err, ErrNotADirectory))
	})

	t.Run("name is a directory", func(t *testing.T) {
		_, err := ResolveExistingFile(dir, "sub")
		require.Error(t, err)
		assert.True(t, eris.Is(err, ErrFileNotFound))
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := ResolveExistingFile(dir, "")
		assert.Error(t, err)
	})
}

func TestGenerateOutputFileName(t *testing.T) {
	t.Run("timestamp", func(t *testing.T) {
		name := GenerateOutputFileName("ventas_homologadas_{timestamp}.xlsx", nil)
		assert.Regexp(t, regexp.MustCompile(`^ventas_homologadas_\d{8}_\d{6}\.xlsx$`), name)
	})

	t.Run("params and extension", func(t *testing.T) {
		name := GenerateOutputFileName("{sales}_{date}", map[string]string{"sales": "ventas_marzo"})
		assert.Regexp(t, regexp.MustCompile(`^ventas_marzo_\d{8}\.xlsx$`), name)
	})

	t.Run("uuid", func(t *testing.T) {
		a := GenerateOutputFileName("{uuid}", nil)
		b := GenerateOutputFileName("{uuid}", nil)
		assert.NotEqual(t, a, b)
		assert.Len(t, a, 36+len(".xlsx"))
	})

	t.Run("extension case preserved", func(t *testing.T) {
		assert.Equal(t, "Salida.XLSX", GenerateOutputFileName("Salida.XLSX", nil))
	})
}

func TestFileManager(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "salida")
	require.NoError(t, os.WriteFile(filepath.Join(in, "ventas.xlsx"), []byte("x"), 0644))

	fm := NewFileManager(in, out)

	path, err := fm.ResolveInput("ventas.xlsx")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(in, "ventas.xlsx"), path)

	target, err := fm.PrepareOutput("{sales}_final", map[string]string{"sales": BaseName(path)})
	require.NoError(t, err)
	assert.DirExists(t, out)
	assert.Equal(t, filepath.Join(out, "ventas_final.xlsx"), target)
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "ventas", BaseName("/a/b/ventas.xlsx"))
	assert.Equal(t, "ventas", BaseName("ventas"))
}

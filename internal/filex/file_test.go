package filex

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() { _ = os.Chdir(old) }
}

func TestEnsureSubDir_CreatesDirectoryInCWD(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	got, err := EnsureSubDir(".plume")
	require.NoError(t, err)

	want := filepath.Join(tmp, ".plume")
	require.Equal(t, want, got)

	fi, err := os.Stat(want)
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")

	if runtime.GOOS != "windows" {
		perm := fi.Mode().Perm()
		require.Equal(t, os.FileMode(0o700), perm&0o700)
	}
}

func TestEnsureSubDir_AbsoluteAndIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	first, err := EnsureSubDir(dir)
	require.NoError(t, err)
	second, err := EnsureSubDir(dir)
	require.NoError(t, err)

	require.Equal(t, dir, first)
	require.Equal(t, first, second)
}

func TestEnsureSubDir_FailsIfFileWithSameNameExists(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	require.NoError(t, os.WriteFile(".plume", []byte("x"), 0o660))

	_, err := EnsureSubDir(".plume")
	require.Error(t, err, "should fail when a file exists with the same name")
}

// pngHeader is enough for content sniffing.
var pngHeader = []byte("\x89PNG\x0D\x0A\x1A\x0A\x00\x00\x00\x0DIHDR")

func TestOpenPicture(t *testing.T) {
	dir := t.TempDir()

	png := filepath.Join(dir, "owl.png")
	require.NoError(t, os.WriteFile(png, pngHeader, 0o600))

	p, err := OpenPicture(png)
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, "image/png", p.ContentType)
	assert.Equal(t, int64(len(pngHeader)), p.Size)
	b, err := io.ReadAll(p)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, b, "reader is rewound after sniffing")
}

func TestOpenPicture_Rejects(t *testing.T) {
	dir := t.TempDir()

	text := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(text, []byte("just words"), 0o600))

	big := filepath.Join(dir, "big.png")
	require.NoError(t, os.WriteFile(big, append(pngHeader, make([]byte, MaxPictureSize)...), 0o600))

	for name, path := range map[string]string{
		"text":      text,
		"too large": big,
		"directory": dir,
		"missing":   filepath.Join(dir, "nope.png"),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := OpenPicture(path)
			assert.Error(t, err)
		})
	}
}

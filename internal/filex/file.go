// Package filex holds filesystem helpers for the CLI: its data directory
// and the pictures it uploads.
package filex

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// MaxPictureSize bounds the files accepted as totem pictures.
const MaxPictureSize = 5 << 20

// EnsureSubDir creates dirName (relative to the working directory unless
// absolute) and returns its absolute path.
func EnsureSubDir(dirName string) (string, error) {
	dir := dirName
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		dir = filepath.Join(cwd, dirName)
	}

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// Picture is an opened image file ready to be streamed.
type Picture struct {
	io.ReadSeekCloser
	Size        int64
	ContentType string
}

// OpenPicture opens path and sniffs its content type. Files that are not
// images or exceed MaxPictureSize are rejected.
func OpenPicture(path string) (*Picture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > MaxPictureSize {
		_ = f.Close()
		return nil, fmt.Errorf("%s is larger than %d bytes", path, MaxPictureSize)
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		_ = f.Close()
		return nil, err
	}
	ct := http.DetectContentType(head[:n])
	if !strings.HasPrefix(ct, "image/") {
		_ = f.Close()
		return nil, fmt.Errorf("%s is not an image (%s)", path, ct)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		_ = f.Close()
		return nil, err
	}

	return &Picture{ReadSeekCloser: f, Size: info.Size(), ContentType: ct}, nil
}

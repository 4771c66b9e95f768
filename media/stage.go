package media

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Stager validates uploads and copies them into Dir.
type Stager struct {
	Dir      string
	MaxBytes int64
}

// Stage returns the path of a new temp file holding the upload. The caller
// owns the file and must remove it.
func (s Stager) Stage(fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", fmt.Errorf("%w: no file", ErrInvalidFile)
	}
	if s.MaxBytes > 0 && fh.Size > s.MaxBytes {
		return "", fmt.Errorf("%w: larger than %d bytes", ErrInvalidFile, s.MaxBytes)
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExt[ext] {
		return "", fmt.Errorf("%w: extension %q not allowed", ErrInvalidFile, ext)
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	defer src.Close()

	buf := make([]byte, 512)
	n, err := src.Read(buf)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	if ct := http.DetectContentType(buf[:n]); !strings.HasPrefix(ct, "image/") {
		return "", fmt.Errorf("%w: content type %s", ErrInvalidFile, ct)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}

	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	path := filepath.Join(s.Dir, uuid.NewString()+ext)
	out, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(path)
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	return path, nil
}

package media

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
)

// Local moves staged uploads into Dir and returns URLPrefix + "/" + name.
type Local struct {
	stager    Stager
	dir       string
	urlPrefix string
}

func NewLocal(stager Stager, dir, urlPrefix string) *Local {
	return &Local{stager: stager, dir: dir, urlPrefix: urlPrefix}
}

func (l *Local) Ingest(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	staged, err := l.stager.Stage(fh)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(l.dir, 0755); err != nil {
		os.Remove(staged)
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	name := filepath.Base(staged)
	if err := moveFile(staged, filepath.Join(l.dir, name)); err != nil {
		os.Remove(staged)
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	return l.urlPrefix + "/" + name, nil
}

func (l *Local) Release(ctx context.Context, ref string) error {
	err := os.Remove(filepath.Join(l.dir, path.Base(ref)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// moveFile renames src to dst, copying when they sit on different devices.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return err
	}
	return os.Remove(src)
}

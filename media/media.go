// Package media turns uploaded images into stable references. Uploads are
// first staged under a unique temp name, then either pushed to Cloudinary
// (Cloud) or moved into a local directory (Local).
package media

import (
	"context"
	"errors"
	"mime/multipart"
)

var (
	ErrInvalidFile  = errors.New("invalid image file")
	ErrUploadFailed = errors.New("image upload failed")
)

// Ingester stores an uploaded file and returns its URL or path. No staged
// copy of the upload is left behind once Ingest returns.
type Ingester interface {
	Ingest(ctx context.Context, fh *multipart.FileHeader) (string, error)
}

// Releaser is implemented by ingesters that can remove a stored reference.
// It is used when the entity the reference belonged to could not be saved, was
// given new media, or was deleted. Releasing a reference that is already gone
// is not an error.
type Releaser interface {
	Release(ctx context.Context, ref string) error
}

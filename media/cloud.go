package media

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/url"
	"os"
	"path"
	"regexp"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Uploader sends a local file to a hosting provider and returns its secure
// URL. Delete removes a previously uploaded asset by that URL.
type Uploader interface {
	Upload(ctx context.Context, path string) (string, error)
	Delete(ctx context.Context, url string) error
}

// Cloud delegates uploads to a remote provider.
type Cloud struct {
	stager   Stager
	uploader Uploader
	log      *log.Logger
}

func NewCloud(stager Stager, up Uploader, logger *log.Logger) *Cloud {
	return &Cloud{stager: stager, uploader: up, log: logger}
}

func (c *Cloud) Ingest(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	staged, err := c.stager.Stage(fh)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := os.Remove(staged); err != nil && !os.IsNotExist(err) {
			c.log.Printf("failed to remove staged upload %s: %v", staged, err)
		}
	}()

	ref, err := c.uploader.Upload(ctx, staged)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if ref == "" {
		return "", fmt.Errorf("%w: provider returned no url", ErrUploadFailed)
	}
	return ref, nil
}

func (c *Cloud) Release(ctx context.Context, ref string) error {
	return c.uploader.Delete(ctx, ref)
}

// CloudinaryUploader uploads through the Cloudinary API.
type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryUploader builds a client from a cloudinary:// URL when one is
// given, otherwise from the individual credentials.
func NewCloudinaryUploader(cloudURL, cloudName, apiKey, apiSecret, folder string) (*CloudinaryUploader, error) {
	var (
		cld *cloudinary.Cloudinary
		err error
	)
	if cloudURL != "" {
		cld, err = cloudinary.NewFromURL(cloudURL)
	} else {
		cld, err = cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	}
	if err != nil {
		return nil, fmt.Errorf("cloudinary config: %w", err)
	}
	return &CloudinaryUploader{cld: cld, folder: folder}, nil
}

func (u *CloudinaryUploader) Upload(ctx context.Context, file string) (string, error) {
	resp, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{Folder: u.folder})
	if err != nil {
		return "", err
	}
	if resp.Error.Message != "" {
		return "", errors.New(resp.Error.Message)
	}
	return resp.SecureURL, nil
}

func (u *CloudinaryUploader) Delete(ctx context.Context, assetURL string) error {
	id, err := publicID(assetURL)
	if err != nil {
		return err
	}
	resp, err := u.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: id})
	if err != nil {
		return err
	}
	if resp.Error.Message != "" {
		return errors.New(resp.Error.Message)
	}
	switch resp.Result {
	case "ok", "not found":
		return nil
	}
	return fmt.Errorf("destroy %s: %s", id, resp.Result)
}

var versionSegment = regexp.MustCompile(`^v[0-9]+/`)

// publicID extracts the asset id from a delivery URL such as
// https://res.cloudinary.com/demo/image/upload/v1712/portfolio/abc.png,
// which yields "portfolio/abc".
func publicID(assetURL string) (string, error) {
	u, err := url.Parse(assetURL)
	if err != nil {
		return "", fmt.Errorf("cloudinary url %q: %w", assetURL, err)
	}
	_, rest, ok := strings.Cut(u.Path, "/upload/")
	if !ok || rest == "" {
		return "", fmt.Errorf("cloudinary url %q has no upload path", assetURL)
	}
	rest = versionSegment.ReplaceAllString(rest, "")
	id := strings.TrimSuffix(rest, path.Ext(rest))
	if id == "" {
		return "", fmt.Errorf("cloudinary url %q has no public id", assetURL)
	}
	return id, nil
}

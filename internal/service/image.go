package service

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ImageStore persists uploaded images and returns their public URL
type ImageStore interface {
	Save(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, url string) error
}

const maxImageBytes = 10 << 20

var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Image is a decoded upload
type Image struct {
	Data        []byte
	ContentType string
	Extension   string
}

// DecodeImage parses a base64 data URI such as "data:image/png;base64,iVBO..."
// and checks the decoded bytes against the declared type.
func DecodeImage(field, dataURI string) (*Image, error) {
	header, payload, ok := strings.Cut(strings.TrimSpace(dataURI), ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return nil, newValidationError(KindInvalidImage, field, "image must be a base64 data URI")
	}
	contentType := strings.ToLower(strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64"))
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, newValidationError(KindInvalidImage, field, "unsupported image type %q", contentType)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, newValidationError(KindInvalidImage, field, "image is not valid base64")
	}
	if len(data) == 0 {
		return nil, newValidationError(KindInvalidImage, field, "image is empty")
	}
	if len(data) > maxImageBytes {
		return nil, newValidationError(KindInvalidImage, field, "image exceeds %d bytes", maxImageBytes)
	}

	// the payload must be the declared format, not just labelled as one
	sniffed := http.DetectContentType(data)
	if imageExtensions[sniffed] != ext {
		return nil, newValidationError(KindInvalidImage, field, "image content is %q, not %q", sniffed, contentType)
	}
	return &Image{Data: data, ContentType: sniffed, Extension: ext}, nil
}

// storeImage writes img under prefix with a random name
func storeImage(ctx context.Context, store ImageStore, prefix string, img *Image) (string, error) {
	key := prefix + "/" + uuid.NewString() + img.Extension
	return store.Save(ctx, key, img.Data, img.ContentType)
}

// file: internals/helpers/storage/storage.go
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"thesisflow_backend/internals/configs"
)

const PDFContentType = "application/pdf"

var (
	ErrNotPDF   = errors.New("document is not a PDF")
	ErrEmpty    = errors.New("document is empty")
	ErrTooLarge = errors.New("document is too large")
	ErrBadKey   = errors.New("invalid object key")
)

// BlobStore keeps uploaded documents. The returned ref is what the thesis
// records as its pdf_ref.
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, ref string) error
}

// NewFromEnv picks the driver from STORAGE_DRIVER (oss|local).
func NewFromEnv() (BlobStore, error) {
	switch configs.StorageDriver {
	case "oss":
		return NewOSSStoreFromEnv(configs.GetEnv("ALI_OSS_PREFIX", "thesisflow"))
	case "", "local":
		return NewLocalStore(configs.GetEnv("LOCAL_STORAGE_DIR", "./uploads"))
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", configs.StorageDriver)
	}
}

// DocumentKey builds theses/<thesis_id>/<yyyymmdd_hhmmss>_<rand>.pdf.
func DocumentKey(thesisID uuid.UUID, at time.Time) string {
	return path.Join("theses", thesisID.String(), fmt.Sprintf("%s_%s.pdf", at.UTC().Format("20060102_150405"), uuid.NewString()[:8]))
}

// ReadPDF reads at most maxBytes from r and checks the content really is a
// PDF. The extension and the client-declared content type are ignored.
func ReadPDF(r io.Reader, maxBytes int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	if int64(len(data)) > maxBytes {
		return nil, ErrTooLarge
	}
	if !mimetype.Detect(data).Is(PDFContentType) {
		return nil, ErrNotPDF
	}
	return data, nil
}

// cleanKey rejects keys that would escape the store root.
func cleanKey(key string) (string, error) {
	key = strings.TrimSpace(strings.ReplaceAll(key, "\\", "/"))
	if key == "" {
		return "", ErrBadKey
	}
	cleaned := path.Clean("/" + key)[1:]
	if cleaned == "" || cleaned != strings.TrimPrefix(key, "/") || strings.Contains(key, "..") {
		return "", ErrBadKey
	}
	return cleaned, nil
}

// Upload is the usual path: sniff, then store under a fresh key.
func Upload(ctx context.Context, bs BlobStore, thesisID uuid.UUID, body io.Reader, maxBytes int64) (string, error) {
	data, err := ReadPDF(body, maxBytes)
	if err != nil {
		return "", err
	}
	return bs.Put(ctx, DocumentKey(thesisID, time.Now()), PDFContentType, bytes.NewReader(data))
}

package upload

import (
	"bytes"
	"context"
	"io"

	xerrors "wecamp-service/internal/pkg/errors"
	"wecamp-service/internal/pkg/storage"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxFiles is the most images accepted by one multi-file upload.
const MaxFiles = 10

// sniffLen covers every signature mimetype needs for the accepted image types.
const sniffLen = 3072

var allowed = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// File is one stored upload as returned to clients.
type File struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
}

type UploadService struct {
	disk    storage.Disk
	maxSize int64
	logger  *zap.Logger
}

func NewUploadService(disk storage.Disk, maxSize int64, logger *zap.Logger) *UploadService {
	return &UploadService{disk: disk, maxSize: maxSize, logger: logger}
}

// MaxSize is the per-file limit in bytes.
func (s *UploadService) MaxSize() int64 {
	return s.maxSize
}

// Store validates the content type from the file's leading bytes, not its
// declared header, and writes it under a generated name.
func (s *UploadService) Store(ctx context.Context, r io.Reader, size int64) (*File, error) {
	if size > s.maxSize {
		return nil, xerrors.Newf(xerrors.KindInvalid, "File exceeds the %d MB limit", s.maxSize>>20)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, xerrors.Invalid("Failed to read uploaded file").WithCause(err)
	}
	head = head[:n]
	if n == 0 {
		return nil, xerrors.Invalid("Uploaded file is empty")
	}

	mime := mimetype.Detect(head).String()
	ext, ok := allowed[mime]
	if !ok {
		return nil, xerrors.Invalid("Only JPEG, PNG, GIF and WEBP images are allowed")
	}

	name := uuid.NewString() + ext
	body := io.MultiReader(bytes.NewReader(head), r)
	if err := s.disk.Put(ctx, name, body, size, mime); err != nil {
		s.logger.Error("failed to store upload", zap.String("file", name), zap.Error(err))
		return nil, xerrors.New(xerrors.KindInternal, "failed to store file").WithCause(err)
	}

	s.logger.Info("file uploaded", zap.String("file", name), zap.String("mime", mime), zap.Int64("size", size))
	return &File{URL: s.disk.URL(name), Filename: name, Size: size, MimeType: mime}, nil
}

// Remove deletes stored files by name. Failures are logged only; a leftover
// file is harmless.
func (s *UploadService) Remove(ctx context.Context, names ...string) {
	for _, name := range names {
		if err := s.disk.Delete(ctx, name); err != nil {
			s.logger.Warn("failed to remove upload", zap.String("file", name), zap.Error(err))
		}
	}
}

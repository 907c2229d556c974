// internal/handlers/upload/upload_handler.go
package upload

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	xerrors "wecamp-service/internal/pkg/errors"
	"wecamp-service/internal/pkg/response"
	uploadsvc "wecamp-service/internal/service/upload"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	service *uploadsvc.UploadService
}

func NewUploadHandler(service *uploadsvc.UploadService) *UploadHandler {
	return &UploadHandler{service: service}
}

// requestLimit caps the whole multipart body: every file at the max size
// plus room for form overhead.
func (h *UploadHandler) requestLimit(files int) int64 {
	return int64(files)*h.service.MaxSize() + 1<<20
}

func tooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

func (h *UploadHandler) Image(c *gin.Context) error {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.requestLimit(1))

	fh, err := c.FormFile("image")
	if err != nil {
		if tooLarge(err) {
			return xerrors.TooLarge("Request body too large")
		}
		return xerrors.Validation("validation failed", map[string]string{"image": "is required"})
	}
	stored, err := h.store(c, fh)
	if err != nil {
		return err
	}
	response.Success(c, http.StatusCreated, "file uploaded", stored)
	return nil
}

func (h *UploadHandler) Images(c *gin.Context) error {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.requestLimit(uploadsvc.MaxFiles))

	form, err := c.MultipartForm()
	if err != nil {
		if tooLarge(err) {
			return xerrors.TooLarge("Request body too large")
		}
		return xerrors.Invalid("invalid multipart form").WithCause(err)
	}
	files := form.File["images"]
	switch {
	case len(files) == 0:
		return xerrors.Validation("validation failed", map[string]string{"images": "is required"})
	case len(files) > uploadsvc.MaxFiles:
		return xerrors.Validation("validation failed", map[string]string{
			"images": fmt.Sprintf("at most %d files are allowed", uploadsvc.MaxFiles),
		})
	}

	out := make([]*uploadsvc.File, 0, len(files))
	for _, fh := range files {
		stored, err := h.store(c, fh)
		if err != nil {
			return err
		}
		out = append(out, stored)
	}
	response.Success(c, http.StatusCreated, "files uploaded", out)
	return nil
}

func (h *UploadHandler) store(c *gin.Context, fh *multipart.FileHeader) (*uploadsvc.File, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, xerrors.Invalid("Failed to read uploaded file").WithCause(err)
	}
	defer f.Close()
	return h.service.Store(c.Request.Context(), f, fh.Size)
}

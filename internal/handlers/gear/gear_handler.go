// internal/handlers/gear/gear_handler.go
package gear

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"wecamp-service/internal/domain/gear"
	"wecamp-service/internal/middleware"
	xerrors "wecamp-service/internal/pkg/errors"
	"wecamp-service/internal/pkg/response"
	gearsvc "wecamp-service/internal/service/gear"
	"wecamp-service/internal/service/upload"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type GearHandler struct {
	service *gearsvc.GearService
	uploads *upload.UploadService
}

func NewGearHandler(service *gearsvc.GearService, uploads *upload.UploadService) *GearHandler {
	return &GearHandler{service: service, uploads: uploads}
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// maxFormMemory bounds what ParseMultipartForm keeps in RAM before spilling to disk.
const maxFormMemory = 32 << 20

// requestLimit caps a multipart gear form: every image slot at the upload
// size limit plus room for the text fields.
func (h *GearHandler) requestLimit() int64 {
	return int64(upload.MaxFiles)*h.uploads.MaxSize() + 1<<20
}

func (h *GearHandler) formReader(c *gin.Context) (*formReader, error) {
	limit := h.requestLimit()
	if c.Request.ContentLength > limit {
		return nil, xerrors.TooLarge("Request body too large")
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	if err := c.Request.ParseMultipartForm(maxFormMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, xerrors.TooLarge("Request body too large")
		}
		return nil, xerrors.Invalid("invalid multipart form").WithCause(err)
	}
	return newFormReader(c.Request.MultipartForm), nil
}

func (h *GearHandler) Create(c *gin.Context) error {
	ctx := c.Request.Context()
	var (
		req    *gear.CreateRequest
		stored []string
	)
	if isMultipart(c) {
		r, err := h.formReader(c)
		if err != nil {
			return err
		}
		if req, err = r.createRequest(); err != nil {
			return err
		}
		if err := binding.Validator.ValidateStruct(req); err != nil {
			return response.BindError(err)
		}
		if req.Images, stored, err = r.images(ctx, h.uploads); err != nil {
			return err
		}
	} else {
		req = &gear.CreateRequest{}
		if err := c.ShouldBindJSON(req); err != nil {
			return response.BindError(err)
		}
	}

	g, err := h.service.Create(ctx, middleware.Actor(c), req)
	if err != nil {
		h.uploads.Remove(ctx, stored...)
		return err
	}
	response.Success(c, http.StatusCreated, "gear created", g)
	return nil
}

func (h *GearHandler) Update(c *gin.Context) error {
	ctx := c.Request.Context()
	var (
		req    *gear.UpdateRequest
		stored []string
	)
	if isMultipart(c) {
		r, err := h.formReader(c)
		if err != nil {
			return err
		}
		if req, err = r.updateRequest(); err != nil {
			return err
		}
		if err := binding.Validator.ValidateStruct(req); err != nil {
			return response.BindError(err)
		}
		var images []string
		if images, stored, err = r.images(ctx, h.uploads); err != nil {
			return err
		}
		if images != nil {
			req.Images = &images
		}
	} else {
		req = &gear.UpdateRequest{}
		if err := c.ShouldBindJSON(req); err != nil {
			return response.BindError(err)
		}
	}

	g, err := h.service.Update(ctx, middleware.Actor(c), c.Param("id"), req)
	if err != nil {
		h.uploads.Remove(ctx, stored...)
		return err
	}
	response.Success(c, http.StatusOK, "gear updated", g)
	return nil
}

func (h *GearHandler) Delete(c *gin.Context) error {
	if err := h.service.Delete(c.Request.Context(), middleware.Actor(c), c.Param("id")); err != nil {
		return err
	}
	response.Success(c, http.StatusOK, "gear deleted", nil)
	return nil
}

func (h *GearHandler) Get(c *gin.Context) error {
	g, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		return err
	}
	response.Success(c, http.StatusOK, "gear retrieved", g)
	return nil
}

func (h *GearHandler) List(c *gin.Context) error {
	var f gear.Filter
	if err := c.ShouldBindQuery(&f); err != nil {
		return response.BindError(err)
	}
	items, total, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		return err
	}
	response.Page(c, "gear retrieved", items, f.Page, f.Limit, total)
	return nil
}

func (h *GearHandler) Search(c *gin.Context) error {
	var f gear.Filter
	if err := c.ShouldBindQuery(&f); err != nil {
		return response.BindError(err)
	}
	items, total, err := h.service.Search(c.Request.Context(), f.Query, f)
	if err != nil {
		return err
	}
	response.Page(c, "search results", items, f.Page, f.Limit, total)
	return nil
}

// GetByCategory lists gear in a category given by id or slug. Related
// categories are included unless include_related=false.
func (h *GearHandler) GetByCategory(c *gin.Context) error {
	var f gear.Filter
	if err := c.ShouldBindQuery(&f); err != nil {
		return response.BindError(err)
	}
	includeRelated, err := strconv.ParseBool(c.DefaultQuery("include_related", "true"))
	if err != nil {
		return xerrors.Validation("validation failed", map[string]string{"include_related": "must be true or false"})
	}

	items, total, err := h.service.GetByCategory(c.Request.Context(), c.Param("category"), includeRelated, f)
	if err != nil {
		return err
	}
	response.Page(c, "gear retrieved", items, f.Page, f.Limit, total)
	return nil
}

func (h *GearHandler) Recommended(c *gin.Context) error {
	items, err := h.service.GetRecommended(c.Request.Context(), c.Param("id"))
	if err != nil {
		return err
	}
	response.Success(c, http.StatusOK, "recommended gear retrieved", items)
	return nil
}

// internal/pkg/response/response.go
package response

import (
	"errors"
	"net/http"
	"strings"

	xerrors "wecamp-service/internal/pkg/errors"
	"wecamp-service/internal/pkg/pagination"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Response defines the standard API response format.
type Response struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message"`
	Data       interface{}       `json:"data,omitempty"`
	Error      string            `json:"error,omitempty"`
	Errors     map[string]string `json:"errors,omitempty"`
	Pagination *Pagination       `json:"pagination,omitempty"`
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// NewPagination computes total pages for a page/limit/total triple.
func NewPagination(page, limit int, total int64) Pagination {
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: pagination.TotalPages(total, limit)}
}

// Success sends a successful response with a message and optional data.
func Success(c *gin.Context, status int, message string, data interface{}) {
	if status == 0 {
		status = http.StatusOK
	}

	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Paginated sends a list page together with its pagination block.
func Paginated(c *gin.Context, message string, data interface{}, p Pagination) {
	c.JSON(http.StatusOK, Response{
		Success:    true,
		Message:    message,
		Data:       data,
		Pagination: &p,
	})
}

// Page writes a listing, normalizing page and limit the way services do.
func Page(c *gin.Context, message string, data interface{}, page, limit int, total int64) {
	p := pagination.Params{Page: page, Limit: limit}.Normalize()
	Paginated(c, message, data, NewPagination(p.Page, p.Limit, total))
}

// Error sends a standardized error response.
func Error(c *gin.Context, code int, message string, err error, data ...interface{}) {
	// Abort before writing so later handlers never run.
	c.Abort()

	response := Response{
		Success: false,
		Message: message,
	}

	if err != nil {
		response.Error = err.Error()
	}

	if len(data) > 0 {
		response.Data = data[0]
	}

	c.JSON(code, response)
}

// FromError writes the envelope for any error, using its kind for the status.
// Only AppError messages reach the client; anything else gets the fixed text
// for its kind.
func FromError(c *gin.Context, err error) {
	c.Abort()

	kind := xerrors.KindOf(err)
	resp := Response{Success: false}

	var appErr *xerrors.AppError
	switch {
	case errors.As(err, &appErr) && appErr.Operational():
		resp.Message = appErr.Message
		resp.Errors = appErr.Fields
	default:
		resp.Message = kind.PublicMessage()
	}

	if kind == xerrors.KindUnavailable {
		c.Header("Retry-After", "30")
	}

	c.JSON(kind.HTTPStatus(), resp)
}

// HandlerFunc is a gin handler that returns its failure instead of writing it.
type HandlerFunc func(c *gin.Context) error

// Handle adapts a HandlerFunc so returned errors reach the error middleware.
func Handle(fn HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := fn(c); err != nil {
			_ = c.Error(err)
			c.Abort()
		}
	}
}

// BindError turns a gin binding failure into a validation AppError with field details.
func BindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[toSnake(fe.Field())] = fieldMessage(fe)
		}
		return xerrors.Validation("validation failed", fields)
	}
	return xerrors.Invalid("invalid request body").WithCause(err)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "uuid", "uuid4":
		return "must be a valid id"
	}
	return "is invalid"
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ValidationError sends a 400 Bad Request response for invalid input.
func ValidationError(c *gin.Context, message string, err error) {
	Error(c, http.StatusBadRequest, message, err)
}

// Unauthorized sends a 401 Unauthorized response.
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message, nil)
}

// Forbidden sends a 403 Forbidden response.
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message, nil)
}

// NotFound sends a 404 Not Found response.
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message, nil)
}

package gear

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"wecamp-service/internal/domain/category"
	xerrors "wecamp-service/internal/pkg/errors"
	"wecamp-service/internal/pkg/storage"
	gearsvc "wecamp-service/internal/service/gear"
	"wecamp-service/internal/service/upload"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// noCategories resolves nothing, so every create fails in the service.
type noCategories struct{}

func (noCategories) GetCategory(context.Context, string) (*category.Category, error) {
	return nil, xerrors.NotFound("Category not found")
}

func (noCategories) ResolveScope(context.Context, string) (*category.Scope, error) {
	return nil, xerrors.NotFound("Category not found")
}

func (noCategories) ResolveOrCreate(_ context.Context, ref, _ string) (*category.Category, error) {
	return nil, xerrors.Validation("validation failed", map[string]string{"category_id": "no category matches " + ref})
}

func multipartBody(t *testing.T, parts ...part) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, p := range parts {
		if p.file != nil {
			fw, err := mw.CreateFormFile(p.field, p.field+".png")
			require.NoError(t, err)
			_, err = fw.Write(p.file)
			require.NoError(t, err)
			continue
		}
		require.NoError(t, mw.WriteField(p.field, p.value))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func testContext(body io.Reader, contentType string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/api/gear", body)
	c.Request.Header.Set("Content-Type", contentType)
	return c
}

func newHandler(t *testing.T, maxFileSize int64) (*GearHandler, string) {
	t.Helper()
	dir := t.TempDir()
	disk, err := storage.NewLocalDisk(dir, "/uploads")
	require.NoError(t, err)
	uploads := upload.NewUploadService(disk, maxFileSize, zap.NewNop())
	return NewGearHandler(gearsvc.NewGearService(nil, noCategories{}, zap.NewNop()), uploads), dir
}

func TestFormReader_RejectsOversizedBody(t *testing.T) {
	h, _ := newHandler(t, 1<<10)
	big := strings.Repeat("a", 2<<20)

	t.Run("declared length", func(t *testing.T) {
		body, ct := multipartBody(t, part{field: "description", value: big})
		_, err := h.formReader(testContext(body, ct))
		assert.Equal(t, xerrors.KindTooLarge, xerrors.KindOf(err))
	})

	t.Run("streamed", func(t *testing.T) {
		body, ct := multipartBody(t, part{field: "description", value: big})
		// hiding the buffer type leaves ContentLength unknown
		_, err := h.formReader(testContext(struct{ io.Reader }{body}, ct))
		assert.Equal(t, xerrors.KindTooLarge, xerrors.KindOf(err))
	})

	t.Run("within limit", func(t *testing.T) {
		body, ct := multipartBody(t, part{field: "name", value: "Tarp"})
		r, err := h.formReader(testContext(body, ct))
		require.NoError(t, err)
		assert.Equal(t, "Tarp", r.value("name"))
	})
}

func TestCreate_MultipartStoresNothingOnFailure(t *testing.T) {
	png, err := base64.StdEncoding.DecodeString(pixelPNG)
	require.NoError(t, err)
	h, dir := newHandler(t, 5<<20)

	// missing name fails validation before any image is written
	body, ct := multipartBody(t,
		part{field: "category_id", value: "Tents"},
		part{field: "image_0", file: png},
	)
	err = h.Create(testContext(body, ct))
	assert.Equal(t, xerrors.KindValidation, xerrors.KindOf(err))
	left, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, left)

	// the service rejects the category after the image was stored
	body, ct = multipartBody(t,
		part{field: "name", value: "Dome"},
		part{field: "category_id", value: "Boats"},
		part{field: "image_0", file: png},
	)
	err = h.Create(testContext(body, ct))
	assert.Equal(t, xerrors.KindValidation, xerrors.KindOf(err))
	left, err = os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, left, "stored images are removed when the service fails")
}

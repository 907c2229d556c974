// internal/handlers/gear/form.go
package gear

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"sort"
	"strconv"
	"strings"

	"wecamp-service/internal/domain/gear"
	xerrors "wecamp-service/internal/pkg/errors"
	"wecamp-service/internal/service/upload"
)

// formReader pulls typed values out of a multipart form. Browsers send
// everything as strings, so numbers, booleans and nested JSON are decoded
// here and every failure is recorded against its field.
type formReader struct {
	form   *multipart.Form
	errors map[string]string
}

func newFormReader(form *multipart.Form) *formReader {
	return &formReader{form: form, errors: map[string]string{}}
}

func (r *formReader) has(key string) bool {
	_, ok := r.form.Value[key]
	return ok
}

func (r *formReader) value(key string) string {
	if v := r.form.Value[key]; len(v) > 0 {
		return strings.TrimSpace(v[0])
	}
	return ""
}

func (r *formReader) str(key string) *string {
	if !r.has(key) {
		return nil
	}
	v := r.value(key)
	return &v
}

func (r *formReader) float(key string) *float64 {
	v := r.value(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.errors[key] = "must be a number"
		return nil
	}
	return &f
}

func (r *formReader) boolean(key string) *bool {
	v := r.value(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.errors[key] = "must be true or false"
		return nil
	}
	return &b
}

// jsonField decodes a field that carries a JSON document. It reports
// whether the field was present and valid.
func (r *formReader) jsonField(key string, dst interface{}) bool {
	v := r.value(key)
	if v == "" {
		return false
	}
	if err := json.Unmarshal([]byte(v), dst); err != nil {
		r.errors[key] = "must be valid JSON"
		return false
	}
	return true
}

func (r *formReader) err() error {
	if len(r.errors) == 0 {
		return nil
	}
	return xerrors.Validation("validation failed", r.errors)
}

type indexedImage struct {
	index int
	file  *multipart.FileHeader
	url   string
}

// images collects image_0, image_1, ... in index order. Each slot is either
// an uploaded file, stored through uploads, or a URL string. It returns
// nil when the form carries no image fields at all. Files stored before a
// failing slot are removed again.
func (r *formReader) images(ctx context.Context, uploads *upload.UploadService) (urls, stored []string, err error) {
	var slots []indexedImage
	for key, files := range r.form.File {
		if idx, ok := imageIndex(key); ok && len(files) > 0 {
			slots = append(slots, indexedImage{index: idx, file: files[0]})
		}
	}
	for key := range r.form.Value {
		if idx, ok := imageIndex(key); ok {
			if v := r.value(key); v != "" {
				slots = append(slots, indexedImage{index: idx, url: v})
			}
		}
	}

	var fromJSON []string
	hasJSON := r.jsonField("images", &fromJSON)
	if err := r.err(); err != nil {
		return nil, nil, err
	}
	if len(slots) == 0 {
		if hasJSON {
			return fromJSON, nil, nil
		}
		return nil, nil, nil
	}

	sort.SliceStable(slots, func(i, j int) bool { return slots[i].index < slots[j].index })
	urls = make([]string, 0, len(slots)+len(fromJSON))
	urls = append(urls, fromJSON...)
	for _, s := range slots {
		if s.file == nil {
			urls = append(urls, s.url)
			continue
		}
		file, err := storeFile(ctx, uploads, s.file)
		if err != nil {
			uploads.Remove(ctx, stored...)
			return nil, nil, err
		}
		urls = append(urls, file.URL)
		stored = append(stored, file.Filename)
	}
	return urls, stored, nil
}

func storeFile(ctx context.Context, uploads *upload.UploadService, fh *multipart.FileHeader) (*upload.File, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, xerrors.Invalid("Failed to read uploaded image").WithCause(err)
	}
	defer f.Close()
	return uploads.Store(ctx, f, fh.Size)
}

func imageIndex(key string) (int, bool) {
	rest, ok := strings.CutPrefix(key, "image_")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// createRequest reads the scalar fields only. Images are stored separately
// once the request has passed validation.
func (r *formReader) createRequest() (*gear.CreateRequest, error) {
	req := &gear.CreateRequest{
		Name:           r.value("name"),
		Description:    r.value("description"),
		CategoryID:     r.value("category_id"),
		CategoryParent: r.value("category_parent"),
		Status:         gear.Status(r.value("status")),
		Brand:          r.str("brand"),
		Color:          r.str("color"),
		Deposit:        r.float("deposit"),
		Rating:         r.float("rating"),
		Available:      r.boolean("available"),
	}
	if p := r.float("price_per_day"); p != nil {
		req.PricePerDay = *p
	}
	r.jsonField("specifications", &req.Specifications)
	r.jsonField("recommended_products", &req.RecommendedProducts)

	if err := r.err(); err != nil {
		return nil, err
	}
	return req, nil
}

func (r *formReader) updateRequest() (*gear.UpdateRequest, error) {
	req := &gear.UpdateRequest{
		Name:           r.str("name"),
		Description:    r.str("description"),
		CategoryID:     r.str("category_id"),
		CategoryParent: r.value("category_parent"),
		Brand:          r.str("brand"),
		Color:          r.str("color"),
		PricePerDay:    r.float("price_per_day"),
		Deposit:        r.float("deposit"),
		Rating:         r.float("rating"),
		Available:      r.boolean("available"),
	}
	if r.has("status") {
		st := gear.Status(r.value("status"))
		req.Status = &st
	}
	var specs map[string]string
	if r.jsonField("specifications", &specs) {
		req.Specifications = &specs
	}
	var recommended []string
	if r.jsonField("recommended_products", &recommended) {
		req.RecommendedProducts = &recommended
	}

	if err := r.err(); err != nil {
		return nil, err
	}
	return req, nil
}

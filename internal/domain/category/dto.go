// internal/domain/category/dto.go
package category

import (
	"bytes"
	"encoding/json"
	"strings"
)

type CreateRequest struct {
	Name        string  `json:"name" binding:"required,max=255"`
	Slug        string  `json:"slug" binding:"omitempty,max=255"`
	Description *string `json:"description"`
	ParentID    *string `json:"parent_id"`
	Icon        *string `json:"icon" binding:"omitempty,max=255"`
	Order       int     `json:"order"`
}

type UpdateRequest struct {
	Name        *string        `json:"name" binding:"omitempty,min=1,max=255"`
	Slug        *string        `json:"slug" binding:"omitempty,min=1,max=255"`
	Description *string        `json:"description"`
	ParentID    NullableString `json:"parent_id"`
	Icon        *string        `json:"icon" binding:"omitempty,max=255"`
	Order       *int           `json:"order"`
}

// NullableString tells an absent JSON field apart from an explicit null.
// An empty string is treated as null.
type NullableString struct {
	Set   bool
	Value *string
}

func (n *NullableString) UnmarshalJSON(b []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		n.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s = strings.TrimSpace(s); s == "" {
		n.Value = nil
		return nil
	}
	n.Value = &s
	return nil
}

// ImportItem is one entry of a bulk import. Parents are referenced by slug.
type ImportItem struct {
	Name        string  `json:"name" binding:"required"`
	Slug        string  `json:"slug"`
	ParentSlug  string  `json:"parent_slug"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
	Order       int     `json:"order"`
}

type ImportRequest struct {
	Categories []ImportItem `json:"categories" binding:"required,dive"`
}

type ImportResult struct {
	Created  int      `json:"created"`
	Existing int      `json:"existing"`
	Errors   []string `json:"errors"`
	// IDs maps every resolved slug to its category id.
	IDs map[string]string `json:"ids"`
}

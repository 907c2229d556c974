package blog

import "wecamp-service/internal/pkg/pagination"

type CreateRequest struct {
	Title      string   `json:"title" binding:"required,max=255"`
	Slug       string   `json:"slug" binding:"omitempty,max=255"`
	Content    string   `json:"content" binding:"required"`
	Excerpt    *string  `json:"excerpt"`
	CoverImage *string  `json:"cover_image"`
	Tags       []string `json:"tags"`
	Published  bool     `json:"published"`
}

type UpdateRequest struct {
	Title      *string   `json:"title" binding:"omitempty,min=1,max=255"`
	Slug       *string   `json:"slug" binding:"omitempty,min=1,max=255"`
	Content    *string   `json:"content"`
	Excerpt    *string   `json:"excerpt"`
	CoverImage *string   `json:"cover_image"`
	Tags       *[]string `json:"tags"`
	Published  *bool     `json:"published"`
}

type Filter struct {
	pagination.Params
	Tag           string `form:"tag"`
	Search        string `form:"q"`
	PublishedOnly bool   `form:"-"`
}

// internal/service/blog/service.go
package blog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wecamp-service/internal/domain/auth"
	"wecamp-service/internal/domain/blog"
	xerrors "wecamp-service/internal/pkg/errors"
	"wecamp-service/internal/pkg/slug"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	msgNotFound  = "Blog post not found"
	msgSlugTaken = "Blog slug already exists"
)

type BlogService struct {
	repo   blog.Repository
	logger *zap.Logger
	now    func() time.Time
}

func NewBlogService(repo blog.Repository, logger *zap.Logger) *BlogService {
	return &BlogService{repo: repo, logger: logger, now: time.Now}
}

func (s *BlogService) Create(ctx context.Context, actor auth.Actor, req *blog.CreateRequest) (*blog.Post, error) {
	sl := slug.Make(req.Slug)
	if sl == "" {
		sl = slug.Make(req.Title)
	}
	if sl == "" {
		return nil, xerrors.Validation("validation failed", map[string]string{"slug": "could not be derived from title"})
	}
	if err := s.ensureSlugFree(ctx, sl, ""); err != nil {
		return nil, err
	}

	p := &blog.Post{
		ID:         uuid.NewString(),
		Title:      strings.TrimSpace(req.Title),
		Slug:       sl,
		Content:    req.Content,
		Excerpt:    req.Excerpt,
		CoverImage: req.CoverImage,
		Tags:       cleanTags(req.Tags),
		Published:  req.Published,
	}
	if actor.UserID != "" {
		author := actor.UserID
		p.AuthorID = &author
	}
	s.stampPublished(p)

	if err := s.repo.Create(ctx, p); err != nil {
		if xerrors.KindOf(err) == xerrors.KindConflict {
			return nil, xerrors.Conflict(msgSlugTaken)
		}
		return nil, fmt.Errorf("failed to create blog post: %w", err)
	}
	s.logger.Info("blog post created", zap.String("post_id", p.ID), zap.String("slug", p.Slug))
	return s.reload(ctx, p), nil
}

func (s *BlogService) Update(ctx context.Context, id string, req *blog.UpdateRequest) (*blog.Post, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, missing(err)
	}

	if req.Title != nil {
		p.Title = strings.TrimSpace(*req.Title)
	}
	if req.Slug != nil {
		sl := slug.Make(*req.Slug)
		if sl == "" {
			return nil, xerrors.Validation("validation failed", map[string]string{"slug": "is invalid"})
		}
		if !strings.EqualFold(sl, p.Slug) {
			if err := s.ensureSlugFree(ctx, sl, p.ID); err != nil {
				return nil, err
			}
		}
		p.Slug = sl
	}
	if req.Content != nil {
		p.Content = *req.Content
	}
	if req.Excerpt != nil {
		p.Excerpt = req.Excerpt
	}
	if req.CoverImage != nil {
		p.CoverImage = req.CoverImage
	}
	if req.Tags != nil {
		p.Tags = cleanTags(*req.Tags)
	}
	if req.Published != nil {
		p.Published = *req.Published
	}
	s.stampPublished(p)

	if err := s.repo.Update(ctx, p); err != nil {
		if xerrors.KindOf(err) == xerrors.KindConflict {
			return nil, xerrors.Conflict(msgSlugTaken)
		}
		return nil, fmt.Errorf("failed to update blog post: %w", err)
	}
	s.logger.Info("blog post updated", zap.String("post_id", p.ID))
	return s.reload(ctx, p), nil
}

func (s *BlogService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return missing(err)
	}
	s.logger.Info("blog post deleted", zap.String("post_id", id))
	return nil
}

// Get accepts an id or a slug. Drafts are only visible to admins.
func (s *BlogService) Get(ctx context.Context, actor auth.Actor, idOrSlug string) (*blog.Post, error) {
	var (
		p   *blog.Post
		err error
	)
	if _, perr := uuid.Parse(idOrSlug); perr == nil {
		p, err = s.repo.FindByID(ctx, idOrSlug)
	} else {
		p, err = s.repo.FindBySlug(ctx, strings.ToLower(idOrSlug))
	}
	if err != nil {
		return nil, missing(err)
	}
	if !p.Published && !actor.IsAdmin() {
		return nil, xerrors.NotFound(msgNotFound)
	}
	return p, nil
}

func (s *BlogService) List(ctx context.Context, actor auth.Actor, f blog.Filter) ([]*blog.Post, int64, error) {
	f.Params = f.Params.Normalize()
	f.PublishedOnly = !actor.IsAdmin()
	return s.repo.List(ctx, f)
}

// stampPublished sets published_at on first publication and keeps it after.
func (s *BlogService) stampPublished(p *blog.Post) {
	if p.Published && p.PublishedAt == nil {
		now := s.now().UTC()
		p.PublishedAt = &now
	}
}

func (s *BlogService) ensureSlugFree(ctx context.Context, sl, selfID string) error {
	existing, err := s.repo.FindBySlug(ctx, sl)
	if err != nil {
		if xerrors.KindOf(err) == xerrors.KindNotFound {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return xerrors.Conflict(msgSlugTaken)
	}
	return nil
}

func (s *BlogService) reload(ctx context.Context, p *blog.Post) *blog.Post {
	if fresh, err := s.repo.FindByID(ctx, p.ID); err == nil {
		return fresh
	}
	return p
}

func missing(err error) error {
	if xerrors.KindOf(err) == xerrors.KindNotFound {
		return xerrors.NotFound(msgNotFound)
	}
	return err
}

func cleanTags(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, t := range in {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

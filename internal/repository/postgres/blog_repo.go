// internal/repository/postgres/blog_repo.go
package postgres

import (
	"context"
	"fmt"
	"strings"

	"wecamp-service/internal/domain/blog"

	"github.com/jackc/pgx/v5/pgxpool"
)

type BlogRepository struct {
	db querier
}

func NewBlogRepository(db *pgxpool.Pool) *BlogRepository {
	return &BlogRepository{db: db}
}

const blogSelect = `
	SELECT p.id, p.title, p.slug, p.content, p.excerpt, p.cover_image, p.author_id,
	       COALESCE(u.name, ''), p.tags, p.published, p.published_at, p.created_at, p.updated_at
	FROM blog_posts p
	LEFT JOIN users u ON u.id = p.author_id
`

func scanPost(row interface{ Scan(dest ...any) error }) (*blog.Post, error) {
	var p blog.Post
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.CoverImage, &p.AuthorID,
		&p.AuthorName, &p.Tags, &p.Published, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *BlogRepository) Create(ctx context.Context, p *blog.Post) error {
	query := `
		INSERT INTO blog_posts (id, title, slug, content, excerpt, cover_image, author_id, tags, published, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, p.ID, p.Title, p.Slug, p.Content, p.Excerpt, p.CoverImage,
		p.AuthorID, []string(p.Tags), p.Published, p.PublishedAt).Scan(&p.CreatedAt, &p.UpdatedAt)
	return classify(err, "create blog post")
}

func (r *BlogRepository) Update(ctx context.Context, p *blog.Post) error {
	query := `
		UPDATE blog_posts SET
			title = $2, slug = $3, content = $4, excerpt = $5, cover_image = $6,
			tags = $7, published = $8, published_at = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, p.ID, p.Title, p.Slug, p.Content, p.Excerpt, p.CoverImage,
		[]string(p.Tags), p.Published, p.PublishedAt).Scan(&p.UpdatedAt)
	return classify(err, "update blog post")
}

func (r *BlogRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return fmt.Errorf("delete blog post: %w", errNotFound)
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	return rowsAffected(tag, err, "delete blog post")
}

func (r *BlogRepository) FindByID(ctx context.Context, id string) (*blog.Post, error) {
	if !validID(id) {
		return nil, fmt.Errorf("find blog post: %w", errNotFound)
	}
	p, err := scanPost(r.db.QueryRow(ctx, blogSelect+` WHERE p.id = $1`, id))
	if err != nil {
		return nil, classify(err, "find blog post")
	}
	return p, nil
}

func (r *BlogRepository) FindBySlug(ctx context.Context, slug string) (*blog.Post, error) {
	p, err := scanPost(r.db.QueryRow(ctx, blogSelect+` WHERE LOWER(p.slug) = LOWER($1)`, slug))
	if err != nil {
		return nil, classify(err, "find blog post by slug")
	}
	return p, nil
}

func (r *BlogRepository) List(ctx context.Context, f blog.Filter) ([]*blog.Post, int64, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	if f.PublishedOnly {
		conditions = append(conditions, "p.published = TRUE")
	}
	if f.Tag != "" {
		conditions = append(conditions, fmt.Sprintf("$%d = ANY(p.tags)", argPos))
		args = append(args, f.Tag)
		argPos++
	}
	if f.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(p.title ILIKE $%d OR p.content ILIKE $%d)", argPos, argPos))
		args = append(args, "%"+f.Search+"%")
		argPos++
	}
	where := strings.Join(conditions, " AND ")

	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM blog_posts p WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, classify(err, "count blog posts")
	}

	p := f.Params.Normalize()
	query := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY COALESCE(p.published_at, p.created_at) DESC, p.id DESC
		LIMIT $%d OFFSET $%d
	`, blogSelect, where, argPos, argPos+1)
	args = append(args, p.Limit, p.Offset())

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, classify(err, "list blog posts")
	}
	defer rows.Close()

	posts := []*blog.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, 0, classify(err, "scan blog post")
		}
		posts = append(posts, post)
	}
	return posts, total, classify(rows.Err(), "list blog posts")
}

package gear

import "context"

type Repository interface {
	Create(ctx context.Context, g *Gear) error
	Update(ctx context.Context, g *Gear) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Gear, error)
	FindByIDs(ctx context.Context, ids []string) ([]*Gear, error)
	List(ctx context.Context, f Filter) ([]*Gear, int64, error)
	// ListSimilar returns available gear in the category, excluding one id.
	ListSimilar(ctx context.Context, categoryID, excludeID string, limit int) ([]*Gear, error)
}

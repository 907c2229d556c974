// internal/domain/category/entity.go
package category

import "time"

// MaxDepth is the deepest level a category may sit at: root 0, column 1, leaf 2.
const MaxDepth = 2

type Category struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Slug        string    `json:"slug" db:"slug"`
	Description *string   `json:"description,omitempty" db:"description"`
	ParentID    *string   `json:"parent_id" db:"parent_id"`
	Icon        *string   `json:"icon,omitempty" db:"icon"`
	Order       int       `json:"order" db:"sort_order"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Node is a category with its children, used for the tree view.
type Node struct {
	*Category
	Children []*Node `json:"children"`
}

// Scope is a category plus the ids whose gear counts as "related".
type Scope struct {
	Category *Category `json:"category"`
	IDs      []string  `json:"ids"`
}

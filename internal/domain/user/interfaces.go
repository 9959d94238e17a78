package user

import "context"

// Repository provides persistence for users.
type Repository interface {
	Create(ctx context.Context, usr *User) error
	Get(ctx context.Context, id string) (*User, error)
	GetByAPIKey(ctx context.Context, apiKey string) (*User, error)
	GetAll(ctx context.Context) ([]User, error)
	Delete(ctx context.Context, id string) error
}

// ProjectPurger removes every project owned by a user, cascading to the
// project's time track entries.
type ProjectPurger interface {
	DeleteAllForOwner(ctx context.Context, usr *User) error
}

package repository

import "context"

// Repositories groups the repositories bound to one connection or transaction.
type Repositories struct {
	Users     UserRepository
	Animals   AnimalRepository
	Adoptions AdoptionRepository
	Contacts  ContactRepository
	Feedback  FeedbackRepository
}

// Store hands out repositories and runs units of work atomically.
// WithinTx commits when fn returns nil and rolls back otherwise.
type Store interface {
	Repos() Repositories
	WithinTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error
}

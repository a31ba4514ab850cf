package repository

import (
	"context"

	"github.com/oksasatya/pet-adoption-api/internal/domain/entity"
)

type ContactRepository interface {
	Create(ctx context.Context, c *entity.Contact) error
	List(ctx context.Context) ([]entity.Contact, error)
}

type FeedbackRepository interface {
	Create(ctx context.Context, f *entity.Feedback) error
	List(ctx context.Context) ([]entity.Feedback, error)
}

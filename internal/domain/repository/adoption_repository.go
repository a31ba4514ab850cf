package repository

import (
	"context"

	"github.com/oksasatya/pet-adoption-api/internal/domain/entity"
)

// AdoptionRepository returns adoptions with their Animal embedded when it still exists.
type AdoptionRepository interface {
	Create(ctx context.Context, a *entity.Adoption) error
	GetByID(ctx context.Context, id int64) (*entity.Adoption, error)
	List(ctx context.Context) ([]entity.Adoption, error)
	UpdateStatus(ctx context.Context, id int64, status entity.AdoptionStatus) error
	Delete(ctx context.Context, id int64) error
	DeleteByAnimal(ctx context.Context, animalID int64) (int64, error)
}

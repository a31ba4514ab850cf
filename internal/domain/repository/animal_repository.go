package repository

import (
	"context"

	"github.com/oksasatya/pet-adoption-api/internal/domain/entity"
)

type AnimalRepository interface {
	Create(ctx context.Context, a *entity.Animal) error
	GetByID(ctx context.Context, id int64) (*entity.Animal, error)
	// GetForUpdate loads the animal and locks it until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id int64) (*entity.Animal, error)
	// List returns one page ordered by newest first, plus the total row count.
	List(ctx context.Context, limit, offset int) ([]entity.Animal, int, error)
	Search(ctx context.Context, q string, limit int) ([]entity.Animal, error)
	Update(ctx context.Context, a *entity.Animal) error
	SetStatus(ctx context.Context, id int64, status entity.AnimalStatus) error
	Delete(ctx context.Context, id int64) error
}

package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/pet-adoption-api/internal/domain/entity"
	"github.com/oksasatya/pet-adoption-api/internal/domain/repository"
)

type AnimalRepository struct {
	q querier
}

const animalColumns = `id, name, species, age, size, temperament, city, status, image, description, history, created_at, updated_at`

func animalDest(a *entity.Animal, status *string) []any {
	return []any{&a.ID, &a.Name, &a.Species, &a.Age, &a.Size, &a.Temperament, &a.City,
		status, &a.Image, &a.Description, &a.History, &a.CreatedAt, &a.UpdatedAt}
}

func scanAnimal(row interface{ Scan(dest ...any) error }) (*entity.Animal, error) {
	a := &entity.Animal{}
	var status string
	if err := row.Scan(animalDest(a, &status)...); err != nil {
		return nil, mapErr(err)
	}
	a.Status = entity.AnimalStatus(status)
	return a, nil
}

func collectAnimals(rows pgx.Rows) ([]entity.Animal, error) {
	defer rows.Close()
	out := make([]entity.Animal, 0)
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, mapErr(rows.Err())
}

func (r *AnimalRepository) Create(ctx context.Context, a *entity.Animal) error {
	row := r.q.QueryRow(ctx, `
		INSERT INTO animals (name, species, age, size, temperament, city, status, image, description, history)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`, a.Name, a.Species, a.Age, a.Size, a.Temperament, a.City, string(a.Status), a.Image, a.Description, a.History)

	return mapErr(row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt))
}

func (r *AnimalRepository) GetByID(ctx context.Context, id int64) (*entity.Animal, error) {
	return scanAnimal(r.q.QueryRow(ctx, `SELECT `+animalColumns+` FROM animals WHERE id = $1`, id))
}

func (r *AnimalRepository) GetForUpdate(ctx context.Context, id int64) (*entity.Animal, error) {
	return scanAnimal(r.q.QueryRow(ctx, `SELECT `+animalColumns+` FROM animals WHERE id = $1 FOR UPDATE`, id))
}

func (r *AnimalRepository) List(ctx context.Context, limit, offset int) ([]entity.Animal, int, error) {
	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM animals`).Scan(&total); err != nil {
		return nil, 0, mapErr(err)
	}
	rows, err := r.q.Query(ctx, `
		SELECT `+animalColumns+`
		FROM animals
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, mapErr(err)
	}
	items, err := collectAnimals(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *AnimalRepository) Search(ctx context.Context, q string, limit int) ([]entity.Animal, error) {
	pattern := "%" + likeEscaper.Replace(q) + "%"
	rows, err := r.q.Query(ctx, `
		SELECT `+animalColumns+`
		FROM animals
		WHERE name ILIKE $1 OR species ILIKE $1 OR city ILIKE $1 OR temperament ILIKE $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, pattern, limit)
	if err != nil {
		return nil, mapErr(err)
	}
	return collectAnimals(rows)
}

func (r *AnimalRepository) Update(ctx context.Context, a *entity.Animal) error {
	a.UpdatedAt = time.Now().UTC()
	tag, err := r.q.Exec(ctx, `
		UPDATE animals
		SET name = $1, species = $2, age = $3, size = $4, temperament = $5, city = $6,
		    status = $7, image = $8, description = $9, history = $10, updated_at = $11
		WHERE id = $12
	`, a.Name, a.Species, a.Age, a.Size, a.Temperament, a.City, string(a.Status), a.Image,
		a.Description, a.History, a.UpdatedAt, a.ID)
	return mustAffect(tag, err)
}

func (r *AnimalRepository) SetStatus(ctx context.Context, id int64, status entity.AnimalStatus) error {
	tag, err := r.q.Exec(ctx, `UPDATE animals SET status = $1, updated_at = now() WHERE id = $2`, string(status), id)
	return mustAffect(tag, err)
}

func (r *AnimalRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM animals WHERE id = $1`, id)
	return mustAffect(tag, err)
}

var _ repository.AnimalRepository = (*AnimalRepository)(nil)

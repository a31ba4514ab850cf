package postgres

import (
	"context"

	"github.com/oksasatya/pet-adoption-api/internal/domain/entity"
	"github.com/oksasatya/pet-adoption-api/internal/domain/repository"
)

type AdoptionRepository struct {
	q querier
}

const adoptionSelect = `
	SELECT ad.id, ad.animal_id, ad.adopter_name, ad.adopter_email, ad.adopter_phone,
	       ad.address_cep, ad.address_street, ad.address_number, ad.address_complement,
	       ad.address_neighborhood, ad.address_city, ad.address_state, ad.adoption_message,
	       ad.status, ad.created_at, ad.updated_at,
	       an.id, an.name, an.species, an.age, an.size, an.temperament, an.city, an.status,
	       an.image, an.description, an.history, an.created_at, an.updated_at
	FROM adoptions ad
	JOIN animals an ON an.id = ad.animal_id`

func scanAdoption(row interface{ Scan(dest ...any) error }) (*entity.Adoption, error) {
	ad := &entity.Adoption{Animal: &entity.Animal{}}
	var status, animalStatus string
	dest := []any{&ad.ID, &ad.AnimalID, &ad.AdopterName, &ad.AdopterEmail, &ad.AdopterPhone,
		&ad.AddressCEP, &ad.AddressStreet, &ad.AddressNumber, &ad.AddressComplement,
		&ad.AddressNeighborhood, &ad.AddressCity, &ad.AddressState, &ad.AdoptionMessage,
		&status, &ad.CreatedAt, &ad.UpdatedAt}
	dest = append(dest, animalDest(ad.Animal, &animalStatus)...)
	if err := row.Scan(dest...); err != nil {
		return nil, mapErr(err)
	}
	ad.Status = entity.AdoptionStatus(status)
	ad.Animal.Status = entity.AnimalStatus(animalStatus)
	return ad, nil
}

func (r *AdoptionRepository) Create(ctx context.Context, a *entity.Adoption) error {
	row := r.q.QueryRow(ctx, `
		INSERT INTO adoptions (animal_id, adopter_name, adopter_email, adopter_phone,
			address_cep, address_street, address_number, address_complement,
			address_neighborhood, address_city, address_state, adoption_message, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`, a.AnimalID, a.AdopterName, a.AdopterEmail, a.AdopterPhone,
		a.AddressCEP, a.AddressStreet, a.AddressNumber, a.AddressComplement,
		a.AddressNeighborhood, a.AddressCity, a.AddressState, a.AdoptionMessage, string(a.Status))

	return mapErr(row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt))
}

func (r *AdoptionRepository) GetByID(ctx context.Context, id int64) (*entity.Adoption, error) {
	return scanAdoption(r.q.QueryRow(ctx, adoptionSelect+` WHERE ad.id = $1`, id))
}

func (r *AdoptionRepository) List(ctx context.Context) ([]entity.Adoption, error) {
	rows, err := r.q.Query(ctx, adoptionSelect+` ORDER BY ad.created_at DESC, ad.id DESC`)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	out := make([]entity.Adoption, 0)
	for rows.Next() {
		ad, err := scanAdoption(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *ad)
	}
	return out, mapErr(rows.Err())
}

func (r *AdoptionRepository) UpdateStatus(ctx context.Context, id int64, status entity.AdoptionStatus) error {
	tag, err := r.q.Exec(ctx, `UPDATE adoptions SET status = $1, updated_at = now() WHERE id = $2`, string(status), id)
	return mustAffect(tag, err)
}

func (r *AdoptionRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM adoptions WHERE id = $1`, id)
	return mustAffect(tag, err)
}

func (r *AdoptionRepository) DeleteByAnimal(ctx context.Context, animalID int64) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM adoptions WHERE animal_id = $1`, animalID)
	if err != nil {
		return 0, mapErr(err)
	}
	return tag.RowsAffected(), nil
}

var _ repository.AdoptionRepository = (*AdoptionRepository)(nil)

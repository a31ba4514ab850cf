package entity

import "time"

// AnimalStatus is the availability of an animal for adoption.
type AnimalStatus string

const (
	AnimalAvailable AnimalStatus = "Available"
	AnimalAdopted   AnimalStatus = "Adopted"
)

func (s AnimalStatus) Valid() bool {
	return s == AnimalAvailable || s == AnimalAdopted
}

// Animal is a listing published by an organization.
// It owns its adoptions: deleting an animal removes them.
type Animal struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Species     string       `json:"species"`
	Age         string       `json:"age"`
	Size        string       `json:"size"`
	Temperament string       `json:"temperament"`
	City        string       `json:"city"`
	Status      AnimalStatus `json:"status"`
	Image       *string      `json:"image"`
	Description string       `json:"description"`
	History     string       `json:"history"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// AnimalPatch lists the fields of a partial update; nil means unchanged.
type AnimalPatch struct {
	Name        *string
	Species     *string
	Age         *string
	Size        *string
	Temperament *string
	City        *string
	Status      *AnimalStatus
	Image       *string
	Description *string
	History     *string
}

// Apply copies every non-nil field of p onto a.
func (p AnimalPatch) Apply(a *Animal) {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Species != nil {
		a.Species = *p.Species
	}
	if p.Age != nil {
		a.Age = *p.Age
	}
	if p.Size != nil {
		a.Size = *p.Size
	}
	if p.Temperament != nil {
		a.Temperament = *p.Temperament
	}
	if p.City != nil {
		a.City = *p.City
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.Image != nil {
		img := *p.Image
		a.Image = &img
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
	if p.History != nil {
		a.History = *p.History
	}
}

package entity

import "time"

// AdoptionStatus tracks the review of an adoption request.
type AdoptionStatus string

const (
	AdoptionPending  AdoptionStatus = "Pending"
	AdoptionApproved AdoptionStatus = "Approved"
	AdoptionRejected AdoptionStatus = "Rejected"
)

func (s AdoptionStatus) Valid() bool {
	switch s {
	case AdoptionPending, AdoptionApproved, AdoptionRejected:
		return true
	default:
		return false
	}
}

// Terminal reports whether the request has already been reviewed.
func (s AdoptionStatus) Terminal() bool {
	return s == AdoptionApproved || s == AdoptionRejected
}

// Adoption is a request filed by an adopter for one animal.
type Adoption struct {
	ID                  int64          `json:"id"`
	AnimalID            int64          `json:"animal_id"`
	Animal              *Animal        `json:"animal"`
	AdopterName         string         `json:"adopter_name"`
	AdopterEmail        string         `json:"adopter_email"`
	AdopterPhone        *string        `json:"adopter_phone"`
	AddressCEP          string         `json:"address_cep"`
	AddressStreet       string         `json:"address_street"`
	AddressNumber       string         `json:"address_number"`
	AddressComplement   *string        `json:"address_complement"`
	AddressNeighborhood *string        `json:"address_neighborhood"`
	AddressCity         string         `json:"address_city"`
	AddressState        string         `json:"address_state"`
	AdoptionMessage     *string        `json:"adoption_message"`
	Status              AdoptionStatus `json:"status"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pet-adoption-api/internal/domain/entity"
	"github.com/oksasatya/pet-adoption-api/internal/domain/repository"
	"github.com/oksasatya/pet-adoption-api/pkg/helpers"
)

// AdoptionPolicy holds the workflow rules that are deployment choices.
type AdoptionPolicy struct {
	// AllowStatusReversal lets a reviewed request move to another status.
	AllowStatusReversal bool
	// DeleteRequiresOrganization gates DELETE /adoptions/:id behind the organization role.
	DeleteRequiresOrganization bool
}

func DefaultAdoptionPolicy() AdoptionPolicy {
	return AdoptionPolicy{AllowStatusReversal: true}
}

type AdoptionService struct {
	Store    repository.Store
	Notifier Notifier
	Policy   AdoptionPolicy
	Logger   *logrus.Logger
}

func NewAdoptionService(store repository.Store, notifier Notifier, policy AdoptionPolicy, logger *logrus.Logger) *AdoptionService {
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &AdoptionService{Store: store, Notifier: notifier, Policy: policy, Logger: logger}
}

type CreateAdoptionInput struct {
	AnimalID            int64
	AdopterName         string
	AdopterEmail        string
	AdopterPhone        *string
	AddressCEP          string
	AddressStreet       string
	AddressNumber       string
	AddressComplement   *string
	AddressNeighborhood *string
	AddressCity         string
	AddressState        string
	AdoptionMessage     *string
}

func (in CreateAdoptionInput) toEntity() (*entity.Adoption, error) {
	ad := &entity.Adoption{
		AnimalID:            in.AnimalID,
		AdopterName:         strings.TrimSpace(in.AdopterName),
		AdopterEmail:        normalizeEmail(in.AdopterEmail),
		AdopterPhone:        trimmedOrNil(in.AdopterPhone),
		AddressCEP:          strings.TrimSpace(in.AddressCEP),
		AddressStreet:       strings.TrimSpace(in.AddressStreet),
		AddressNumber:       strings.TrimSpace(in.AddressNumber),
		AddressComplement:   trimmedOrNil(in.AddressComplement),
		AddressNeighborhood: trimmedOrNil(in.AddressNeighborhood),
		AddressCity:         strings.TrimSpace(in.AddressCity),
		AddressState:        strings.ToUpper(strings.TrimSpace(in.AddressState)),
		AdoptionMessage:     trimmedOrNil(in.AdoptionMessage),
		Status:              entity.AdoptionPending,
	}
	if ad.AnimalID <= 0 {
		return nil, ErrMissingFields
	}
	for _, v := range []string{ad.AdopterName, ad.AdopterEmail, ad.AddressCEP, ad.AddressStreet, ad.AddressNumber, ad.AddressCity, ad.AddressState} {
		if v == "" {
			return nil, ErrMissingFields
		}
	}
	return ad, nil
}

// Create files a Pending request and marks the animal Adopted in the same
// transaction. Nothing is written when the animal does not exist.
func (s *AdoptionService) Create(ctx context.Context, in CreateAdoptionInput) (*entity.Adoption, error) {
	ad, err := in.toEntity()
	if err != nil {
		return nil, err
	}

	var created *entity.Adoption
	err = s.Store.WithinTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		if _, err := r.Animals.GetForUpdate(ctx, ad.AnimalID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrAnimalNotFound
			}
			return err
		}
		if err := r.Adoptions.Create(ctx, ad); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrAnimalNotFound
			}
			return err
		}
		if err := r.Animals.SetStatus(ctx, ad.AnimalID, entity.AnimalAdopted); err != nil {
			return err
		}
		created, err = r.Adoptions.GetByID(ctx, ad.ID)
		return err
	})
	if err != nil {
		return nil, internalErr(s.Logger, "create adoption", err)
	}

	s.Logger.WithFields(logrus.Fields{"adoption_id": created.ID, "animal_id": created.AnimalID}).Info("adoption requested")
	s.Notifier.AdoptionReceived(ctx, created)
	return created, nil
}

// UpdateStatus reviews a request. Approving also marks the animal Adopted.
func (s *AdoptionService) UpdateStatus(ctx context.Context, id int64, status entity.AdoptionStatus) (*entity.Adoption, error) {
	if !status.Valid() {
		return nil, ErrInvalidAdoptionStatus
	}

	var (
		updated *entity.Adoption
		changed bool
	)
	err := s.Store.WithinTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		cur, err := r.Adoptions.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrAdoptionNotFound
			}
			return err
		}
		if !s.Policy.AllowStatusReversal && cur.Status.Terminal() && cur.Status != status {
			return ErrAdoptionAlreadyDecided
		}
		changed = cur.Status != status

		if err := r.Adoptions.UpdateStatus(ctx, id, status); err != nil {
			return err
		}
		if status == entity.AdoptionApproved {
			if err := r.Animals.SetStatus(ctx, cur.AnimalID, entity.AnimalAdopted); err != nil {
				return err
			}
		}
		updated, err = r.Adoptions.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, internalErr(s.Logger, "update adoption status", err)
	}

	s.Logger.WithFields(logrus.Fields{"adoption_id": id, "status": status}).Info("adoption status updated")
	if changed {
		s.Notifier.AdoptionStatusChanged(ctx, updated)
	}
	return updated, nil
}

// Delete removes the request. The animal keeps whatever status it has.
func (s *AdoptionService) Delete(ctx context.Context, id int64) error {
	if err := s.Store.Repos().Adoptions.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAdoptionNotFound
		}
		return internalErr(s.Logger, "delete adoption", err)
	}
	return nil
}

func (s *AdoptionService) List(ctx context.Context) ([]entity.Adoption, error) {
	list, err := s.Store.Repos().Adoptions.List(ctx)
	if err != nil {
		return nil, internalErr(s.Logger, "list adoptions", err)
	}
	if list == nil {
		list = []entity.Adoption{}
	}
	return list, nil
}

func (s *AdoptionService) Get(ctx context.Context, id int64) (*entity.Adoption, error) {
	ad, err := s.Store.Repos().Adoptions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAdoptionNotFound
		}
		return nil, internalErr(s.Logger, "get adoption", err)
	}
	return ad, nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

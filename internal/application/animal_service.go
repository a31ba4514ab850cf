package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pet-adoption-api/internal/domain/entity"
	"github.com/oksasatya/pet-adoption-api/internal/domain/repository"
	"github.com/oksasatya/pet-adoption-api/pkg/helpers"
)

const (
	DefaultPerPage     = 10
	MaxPerPage         = 100
	DefaultSearchLimit = 10
	MaxSearchLimit     = 50
)

// ImageStore persists uploaded pictures and returns their public URL.
type ImageStore interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

// AnimalIndexer mirrors the catalog into a full text index.
type AnimalIndexer interface {
	Index(ctx context.Context, a *entity.Animal) error
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, q string, size int) ([]int64, error)
}

type AnimalService struct {
	Store  repository.Store
	Images ImageStore
	Index  AnimalIndexer
	Logger *logrus.Logger
}

func NewAnimalService(store repository.Store, images ImageStore, index AnimalIndexer, logger *logrus.Logger) *AnimalService {
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	return &AnimalService{Store: store, Images: images, Index: index, Logger: logger}
}

type PageMeta struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Total   int `json:"total"`
	Pages   int `json:"pages"`
}

type AnimalPage struct {
	Items []entity.Animal `json:"items"`
	Meta  PageMeta        `json:"meta"`
}

type CreateAnimalInput struct {
	Name        string
	Species     string
	Age         string
	Size        string
	Temperament string
	City        string
	Status      entity.AnimalStatus
	Image       *string
	Description string
	History     string
}

func (s *AnimalService) List(ctx context.Context, page, perPage int) (*AnimalPage, error) {
	if page < 1 || perPage < 1 {
		return nil, ErrInvalidPagination
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	items, total, err := s.Store.Repos().Animals.List(ctx, perPage, (page-1)*perPage)
	if err != nil {
		return nil, internalErr(s.Logger, "list animals", err)
	}
	if items == nil {
		items = []entity.Animal{}
	}
	return &AnimalPage{
		Items: items,
		Meta: PageMeta{
			Page:    page,
			PerPage: perPage,
			Total:   total,
			Pages:   (total + perPage - 1) / perPage,
		},
	}, nil
}

func (s *AnimalService) Get(ctx context.Context, id int64) (*entity.Animal, error) {
	a, err := s.Store.Repos().Animals.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAnimalNotFound
		}
		return nil, internalErr(s.Logger, "get animal", err)
	}
	return a, nil
}

func (s *AnimalService) Create(ctx context.Context, in CreateAnimalInput) (*entity.Animal, error) {
	a := &entity.Animal{
		Name:        strings.TrimSpace(in.Name),
		Species:     strings.TrimSpace(in.Species),
		Age:         strings.TrimSpace(in.Age),
		Size:        strings.TrimSpace(in.Size),
		Temperament: strings.TrimSpace(in.Temperament),
		City:        strings.TrimSpace(in.City),
		Status:      in.Status,
		Image:       in.Image,
		Description: strings.TrimSpace(in.Description),
		History:     strings.TrimSpace(in.History),
	}
	if a.Status == "" {
		a.Status = entity.AnimalAvailable
	}
	if err := validateAnimal(a); err != nil {
		return nil, err
	}
	if err := s.Store.Repos().Animals.Create(ctx, a); err != nil {
		return nil, internalErr(s.Logger, "create animal", err)
	}
	s.Logger.WithFields(logrus.Fields{"animal_id": a.ID, "name": a.Name}).Info("animal created")
	s.reindex(ctx, a)
	return a, nil
}

// Update applies a partial change; fields left nil in patch keep their value.
func (s *AnimalService) Update(ctx context.Context, id int64, patch entity.AnimalPatch) (*entity.Animal, error) {
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, ErrInvalidAnimalStatus
	}
	var updated *entity.Animal
	err := s.Store.WithinTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		a, err := r.Animals.GetForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrAnimalNotFound
			}
			return err
		}
		patch.Apply(a)
		if err := validateAnimal(a); err != nil {
			return err
		}
		if err := r.Animals.Update(ctx, a); err != nil {
			return err
		}
		updated = a
		return nil
	})
	if err != nil {
		return nil, internalErr(s.Logger, "update animal", err)
	}
	s.reindex(ctx, updated)
	return updated, nil
}

// Delete removes the animal and every adoption referencing it in one
// transaction. It returns how many adoptions went with it.
func (s *AnimalService) Delete(ctx context.Context, id int64) (int64, error) {
	var removed int64
	err := s.Store.WithinTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		if _, err := r.Animals.GetForUpdate(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrAnimalNotFound
			}
			return err
		}
		n, err := r.Adoptions.DeleteByAnimal(ctx, id)
		if err != nil {
			return err
		}
		removed = n
		return r.Animals.Delete(ctx, id)
	})
	if err != nil {
		return 0, internalErr(s.Logger, "delete animal", err)
	}
	s.Logger.WithFields(logrus.Fields{"animal_id": id, "adoptions_removed": removed}).Info("animal deleted")
	if s.Index != nil {
		if err := s.Index.Delete(ctx, id); err != nil {
			s.Logger.WithError(err).WithField("animal_id", id).Warn("search index delete failed")
		}
	}
	return removed, nil
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// UploadImage stores the picture and points the animal's image at it.
func (s *AnimalService) UploadImage(ctx context.Context, id int64, contentType string, r io.Reader) (*entity.Animal, error) {
	if s.Images == nil {
		return nil, ErrImageStoreDisabled
	}
	ext, ok := imageExtensions[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return nil, ErrUnsupportedImageType
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	objectPath := fmt.Sprintf("animals/%d/%s%s", id, uuid.NewString(), ext)
	url, err := s.Images.Upload(ctx, objectPath, contentType, r)
	if err != nil {
		return nil, internalErr(s.Logger, "upload image", err)
	}
	return s.Update(ctx, id, entity.AnimalPatch{Image: &url})
}

// Search queries the full text index when one is configured and falls
// back to a substring match in the store.
func (s *AnimalService) Search(ctx context.Context, q string, limit int) ([]entity.Animal, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, ErrEmptySearchQuery
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}

	repo := s.Store.Repos().Animals
	if s.Index != nil {
		ids, err := s.Index.Search(ctx, q, limit)
		if err == nil {
			out := make([]entity.Animal, 0, len(ids))
			for _, id := range ids {
				a, err := repo.GetByID(ctx, id)
				if errors.Is(err, repository.ErrNotFound) {
					continue
				}
				if err != nil {
					return nil, internalErr(s.Logger, "search animals", err)
				}
				out = append(out, *a)
			}
			return out, nil
		}
		s.Logger.WithError(err).Warn("search index unavailable, falling back to store")
	}

	out, err := repo.Search(ctx, q, limit)
	if err != nil {
		return nil, internalErr(s.Logger, "search animals", err)
	}
	if out == nil {
		out = []entity.Animal{}
	}
	return out, nil
}

func (s *AnimalService) reindex(ctx context.Context, a *entity.Animal) {
	if s.Index == nil || a == nil {
		return
	}
	if err := s.Index.Index(ctx, a); err != nil {
		s.Logger.WithError(err).WithField("animal_id", a.ID).Warn("search index update failed")
	}
}

func validateAnimal(a *entity.Animal) error {
	for _, v := range []string{a.Name, a.Species, a.Age, a.Size, a.Temperament, a.City, a.Description, a.History} {
		if strings.TrimSpace(v) == "" {
			return ErrMissingFields
		}
	}
	if !a.Status.Valid() {
		return ErrInvalidAnimalStatus
	}
	return nil
}

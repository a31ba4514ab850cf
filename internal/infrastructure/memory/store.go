// Package memory is a process-local repository.Store for development and tests.
// It mirrors the Postgres schema rules: unique user email, adoption foreign key
// to animals and cascade on animal deletion.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oksasatya/pet-adoption-api/internal/domain/entity"
	"github.com/oksasatya/pet-adoption-api/internal/domain/repository"
)

type data struct {
	users     map[int64]entity.User
	animals   map[int64]entity.Animal
	adoptions map[int64]entity.Adoption
	contacts  []entity.Contact
	feedback  []entity.Feedback

	userSeq, animalSeq, adoptionSeq, contactSeq, feedbackSeq int64
}

func newData() *data {
	return &data{
		users:     map[int64]entity.User{},
		animals:   map[int64]entity.Animal{},
		adoptions: map[int64]entity.Adoption{},
	}
}

func (d *data) clone() *data {
	cp := *d
	cp.users = make(map[int64]entity.User, len(d.users))
	for k, v := range d.users {
		cp.users[k] = v
	}
	cp.animals = make(map[int64]entity.Animal, len(d.animals))
	for k, v := range d.animals {
		cp.animals[k] = v
	}
	cp.adoptions = make(map[int64]entity.Adoption, len(d.adoptions))
	for k, v := range d.adoptions {
		cp.adoptions[k] = v
	}
	cp.contacts = append([]entity.Contact(nil), d.contacts...)
	cp.feedback = append([]entity.Feedback(nil), d.feedback...)
	return &cp
}

// Store serializes all access behind one mutex. A transaction holds the mutex
// for its whole duration and works on a copy that replaces the live data on commit.
type Store struct {
	mu  sync.Mutex
	d   *data
	now func() time.Time
}

type Option func(*Store)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(opts ...Option) *Store {
	s := &Store{d: newData(), now: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Repos() repository.Repositories {
	return s.repos(nil)
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, r repository.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.d.clone()
	if err := fn(ctx, s.repos(work)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.d = work
	return nil
}

func (s *Store) repos(tx *data) repository.Repositories {
	b := base{s: s, tx: tx}
	return repository.Repositories{
		Users:     userRepo{b},
		Animals:   animalRepo{b},
		Adoptions: adoptionRepo{b},
		Contacts:  contactRepo{b},
		Feedback:  feedbackRepo{b},
	}
}

type base struct {
	s  *Store
	tx *data
}

func (b base) with(fn func(d *data) error) error {
	if b.tx != nil {
		return fn(b.tx)
	}
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	return fn(b.s.d)
}

type userRepo struct{ base }

func (r userRepo) Create(_ context.Context, u *entity.User) error {
	return r.with(func(d *data) error {
		for _, existing := range d.users {
			if strings.EqualFold(existing.Email, u.Email) {
				return fmt.Errorf("%w: users_email_key", repository.ErrDuplicate)
			}
		}
		d.userSeq++
		u.ID = d.userSeq
		u.CreatedAt = r.s.now()
		d.users[u.ID] = *u
		return nil
	})
}

func (r userRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	var out *entity.User
	err := r.with(func(d *data) error {
		u, ok := d.users[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &u
		return nil
	})
	return out, err
}

func (r userRepo) find(match func(entity.User) bool) (*entity.User, error) {
	var out *entity.User
	err := r.with(func(d *data) error {
		for _, u := range d.users {
			if match(u) {
				u := u
				out = &u
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r userRepo) GetByEmailAndRole(_ context.Context, email string, role entity.Role) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return strings.EqualFold(u.Email, email) && u.Role == role })
}

type animalRepo struct{ base }

func copyAnimal(a entity.Animal) entity.Animal {
	if a.Image != nil {
		img := *a.Image
		a.Image = &img
	}
	return a
}

func sortAnimals(items []entity.Animal) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID > items[j].ID
	})
}

func (r animalRepo) Create(_ context.Context, a *entity.Animal) error {
	return r.with(func(d *data) error {
		d.animalSeq++
		a.ID = d.animalSeq
		a.CreatedAt = r.s.now()
		a.UpdatedAt = a.CreatedAt
		d.animals[a.ID] = copyAnimal(*a)
		return nil
	})
}

func (r animalRepo) GetByID(_ context.Context, id int64) (*entity.Animal, error) {
	var out *entity.Animal
	err := r.with(func(d *data) error {
		a, ok := d.animals[id]
		if !ok {
			return repository.ErrNotFound
		}
		a = copyAnimal(a)
		out = &a
		return nil
	})
	return out, err
}

func (r animalRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Animal, error) {
	return r.GetByID(ctx, id)
}

func (r animalRepo) List(_ context.Context, limit, offset int) ([]entity.Animal, int, error) {
	var (
		out   []entity.Animal
		total int
	)
	err := r.with(func(d *data) error {
		all := make([]entity.Animal, 0, len(d.animals))
		for _, a := range d.animals {
			all = append(all, copyAnimal(a))
		}
		sortAnimals(all)
		total = len(all)
		if offset > total {
			offset = total
		}
		end := offset + limit
		if end > total {
			end = total
		}
		out = all[offset:end]
		return nil
	})
	return out, total, err
}

func (r animalRepo) Search(_ context.Context, q string, limit int) ([]entity.Animal, error) {
	q = strings.ToLower(q)
	out := make([]entity.Animal, 0)
	err := r.with(func(d *data) error {
		for _, a := range d.animals {
			for _, field := range []string{a.Name, a.Species, a.City, a.Temperament} {
				if strings.Contains(strings.ToLower(field), q) {
					out = append(out, copyAnimal(a))
					break
				}
			}
		}
		return nil
	})
	sortAnimals(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, err
}

func (r animalRepo) Update(_ context.Context, a *entity.Animal) error {
	return r.with(func(d *data) error {
		cur, ok := d.animals[a.ID]
		if !ok {
			return repository.ErrNotFound
		}
		a.CreatedAt = cur.CreatedAt
		a.UpdatedAt = r.s.now()
		d.animals[a.ID] = copyAnimal(*a)
		return nil
	})
}

func (r animalRepo) SetStatus(_ context.Context, id int64, status entity.AnimalStatus) error {
	return r.with(func(d *data) error {
		a, ok := d.animals[id]
		if !ok {
			return repository.ErrNotFound
		}
		a.Status = status
		a.UpdatedAt = r.s.now()
		d.animals[id] = a
		return nil
	})
}

func (r animalRepo) Delete(_ context.Context, id int64) error {
	return r.with(func(d *data) error {
		if _, ok := d.animals[id]; !ok {
			return repository.ErrNotFound
		}
		delete(d.animals, id)
		for adID, ad := range d.adoptions {
			if ad.AnimalID == id {
				delete(d.adoptions, adID)
			}
		}
		return nil
	})
}

type adoptionRepo struct{ base }

func withAnimal(d *data, ad entity.Adoption) entity.Adoption {
	if a, ok := d.animals[ad.AnimalID]; ok {
		a = copyAnimal(a)
		ad.Animal = &a
	}
	return ad
}

func (r adoptionRepo) Create(_ context.Context, a *entity.Adoption) error {
	return r.with(func(d *data) error {
		if _, ok := d.animals[a.AnimalID]; !ok {
			return fmt.Errorf("%w: adoptions_animal_id_fkey", repository.ErrNotFound)
		}
		d.adoptionSeq++
		a.ID = d.adoptionSeq
		a.CreatedAt = r.s.now()
		a.UpdatedAt = a.CreatedAt
		stored := *a
		stored.Animal = nil
		d.adoptions[a.ID] = stored
		return nil
	})
}

func (r adoptionRepo) GetByID(_ context.Context, id int64) (*entity.Adoption, error) {
	var out *entity.Adoption
	err := r.with(func(d *data) error {
		ad, ok := d.adoptions[id]
		if !ok {
			return repository.ErrNotFound
		}
		ad = withAnimal(d, ad)
		out = &ad
		return nil
	})
	return out, err
}

func (r adoptionRepo) List(_ context.Context) ([]entity.Adoption, error) {
	out := make([]entity.Adoption, 0)
	err := r.with(func(d *data) error {
		for _, ad := range d.adoptions {
			out = append(out, withAnimal(d, ad))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, err
}

func (r adoptionRepo) UpdateStatus(_ context.Context, id int64, status entity.AdoptionStatus) error {
	return r.with(func(d *data) error {
		ad, ok := d.adoptions[id]
		if !ok {
			return repository.ErrNotFound
		}
		ad.Status = status
		ad.UpdatedAt = r.s.now()
		d.adoptions[id] = ad
		return nil
	})
}

func (r adoptionRepo) Delete(_ context.Context, id int64) error {
	return r.with(func(d *data) error {
		if _, ok := d.adoptions[id]; !ok {
			return repository.ErrNotFound
		}
		delete(d.adoptions, id)
		return nil
	})
}

func (r adoptionRepo) DeleteByAnimal(_ context.Context, animalID int64) (int64, error) {
	var n int64
	err := r.with(func(d *data) error {
		for id, ad := range d.adoptions {
			if ad.AnimalID == animalID {
				delete(d.adoptions, id)
				n++
			}
		}
		return nil
	})
	return n, err
}

type contactRepo struct{ base }

func (r contactRepo) Create(_ context.Context, c *entity.Contact) error {
	return r.with(func(d *data) error {
		d.contactSeq++
		c.ID = d.contactSeq
		c.CreatedAt = r.s.now()
		d.contacts = append(d.contacts, *c)
		return nil
	})
}

func (r contactRepo) List(_ context.Context) ([]entity.Contact, error) {
	var out []entity.Contact
	err := r.with(func(d *data) error {
		out = make([]entity.Contact, 0, len(d.contacts))
		for i := len(d.contacts) - 1; i >= 0; i-- {
			out = append(out, d.contacts[i])
		}
		return nil
	})
	return out, err
}

type feedbackRepo struct{ base }

func (r feedbackRepo) Create(_ context.Context, f *entity.Feedback) error {
	return r.with(func(d *data) error {
		d.feedbackSeq++
		f.ID = d.feedbackSeq
		f.CreatedAt = r.s.now()
		d.feedback = append(d.feedback, *f)
		return nil
	})
}

func (r feedbackRepo) List(_ context.Context) ([]entity.Feedback, error) {
	var out []entity.Feedback
	err := r.with(func(d *data) error {
		out = make([]entity.Feedback, 0, len(d.feedback))
		for i := len(d.feedback) - 1; i >= 0; i-- {
			out = append(out, d.feedback[i])
		}
		return nil
	})
	return out, err
}

var _ repository.Store = (*Store)(nil)

package application

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/pet-adoption-api/internal/domain/entity"
	"github.com/oksasatya/pet-adoption-api/internal/infrastructure/memory"
	"github.com/oksasatya/pet-adoption-api/pkg/helpers"
)

// MockNotifier implements Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Welcome(ctx context.Context, u *entity.User) { m.Called(ctx, u) }
func (m *MockNotifier) AdoptionReceived(ctx context.Context, ad *entity.Adoption) {
	m.Called(ctx, ad)
}
func (m *MockNotifier) AdoptionStatusChanged(ctx context.Context, ad *entity.Adoption) {
	m.Called(ctx, ad)
}
func (m *MockNotifier) ContactReceived(ctx context.Context, ct *entity.Contact) { m.Called(ctx, ct) }

// quietNotifier accepts any call.
func quietNotifier() *MockNotifier {
	n := &MockNotifier{}
	n.On("Welcome", mock.Anything, mock.Anything).Maybe()
	n.On("AdoptionReceived", mock.Anything, mock.Anything).Maybe()
	n.On("AdoptionStatusChanged", mock.Anything, mock.Anything).Maybe()
	n.On("ContactReceived", mock.Anything, mock.Anything).Maybe()
	return n
}

type fakePublisher struct {
	mu   sync.Mutex
	jobs []any
	err  error
}

func (p *fakePublisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, body)
	return nil
}

type fakeImages struct {
	paths []string
	err   error
}

func (f *fakeImages) Upload(_ context.Context, objectPath, _ string, r io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	f.paths = append(f.paths, objectPath)
	return "https://cdn.test/" + objectPath, nil
}

type fakeIndex struct {
	ids     []int64
	err     error
	indexed []int64
	deleted []int64
}

func (f *fakeIndex) Index(_ context.Context, a *entity.Animal) error {
	f.indexed = append(f.indexed, a.ID)
	return nil
}

func (f *fakeIndex) Delete(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeIndex) Search(context.Context, string, int) ([]int64, error) {
	return f.ids, f.err
}

var errBoom = errors.New("boom")

func testHasher() helpers.PasswordHasher { return helpers.NewBcryptHasher(bcrypt.MinCost) }

func testTokens() *helpers.JWTManager { return helpers.NewJWTManager("test-secret", 0) }

func sampleAnimalInput(name string) CreateAnimalInput {
	return CreateAnimalInput{
		Name: name, Species: "Dog", Age: "2 years", Size: "Medium", Temperament: "Playful",
		City: "Recife", Description: "Friendly", History: "Rescued",
	}
}

func sampleAdoptionInput(animalID int64) CreateAdoptionInput {
	return CreateAdoptionInput{
		AnimalID: animalID, AdopterName: "Ana", AdopterEmail: "Ana@Example.org",
		AddressCEP: "50000-000", AddressStreet: "Rua A", AddressNumber: "10",
		AddressCity: "Recife", AddressState: "pe",
	}
}

func seedAnimal(s *memory.Store, name string) *entity.Animal {
	a, err := NewAnimalService(s, nil, nil, nil).Create(context.Background(), sampleAnimalInput(name))
	if err != nil {
		panic(err)
	}
	return a
}

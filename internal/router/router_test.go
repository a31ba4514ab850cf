package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/pet-adoption-api/config"
	"github.com/oksasatya/pet-adoption-api/internal/container"
	"github.com/oksasatya/pet-adoption-api/internal/infrastructure/memory"
	"github.com/oksasatya/pet-adoption-api/pkg/helpers"
	"github.com/oksasatya/pet-adoption-api/pkg/validation"
)

type envelope struct {
	Status    int             `json:"status"`
	RequestID string          `json:"request_id"`
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Meta      json.RawMessage `json:"meta"`
	Error     json.RawMessage `json:"error"`
}

func testConfig() *config.Config {
	cfg := config.Load()
	cfg.StorageDriver = config.DriverMemory
	cfg.APIPrefix = ""
	cfg.JWTSecret = "router-test-secret"
	cfg.BcryptCost = bcrypt.MinCost
	cfg.RedisAddr = ""
	cfg.RateLimitEnabled = false
	cfg.HTTPLogEnabled = false
	cfg.MetricsEnabled = true
	cfg.AuthCookieEnabled = false
	cfg.AdoptionDeleteRequiresOrg = false
	cfg.AdoptionAllowStatusReversal = true
	return cfg
}

func newTestServer(t *testing.T, mutate func(*config.Config)) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	cfg := testConfig()
	if mutate != nil {
		mutate(cfg)
	}
	c := container.New(cfg, helpers.NewNopLogger(), memory.NewStore())
	t.Cleanup(c.Close)
	return NewEngine(c)
}

func call(t *testing.T, h http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

type authData struct {
	Token string `json:"token"`
	User  struct {
		ID   int64  `json:"id"`
		Role string `json:"role"`
	} `json:"user"`
}

type idStatus struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

func register(t *testing.T, h http.Handler, email, role string) string {
	t.Helper()
	w, env := call(t, h, http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Someone", "email": email, "password": "s3cret!", "role": role,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[authData](t, env.Data).Token
}

func animalBody(name string) map[string]any {
	return map[string]any{
		"name": name, "species": "Dog", "age": "2 years", "size": "Medium",
		"temperament": "friendly", "city": "Recife",
		"description": "good dog", "history": "found on the street",
	}
}

func createAnimal(t *testing.T, h http.Handler, token, name string) int64 {
	t.Helper()
	w, env := call(t, h, http.MethodPost, "/animals", token, animalBody(name))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[idStatus](t, env.Data).ID
}

func adoptionBody(animalID int64) map[string]any {
	return map[string]any{
		"animal_id":      animalID,
		"adopter_name":   "Maria Silva",
		"adopter_email":  "Maria@Example.com",
		"address_cep":    "50000-000",
		"address_street": "Rua A",
		"address_number": "10",
		"address_city":   "Recife",
		"address_state":  "pe",
	}
}

func TestAdoptionFlowEndToEnd(t *testing.T) {
	h := newTestServer(t, nil)
	org := register(t, h, "shelter@example.org", "organization")

	animalID := createAnimal(t, h, org, "Thor")

	w, env := call(t, h, http.MethodPost, "/adoptions", "", adoptionBody(animalID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	adoption := decode[idStatus](t, env.Data)
	assert.Equal(t, "Pending", adoption.Status)

	w, env = call(t, h, http.MethodGet, fmt.Sprintf("/animals/%d", animalID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Adopted", decode[idStatus](t, env.Data).Status)

	path := fmt.Sprintf("/adoptions/%d/status", adoption.ID)
	w, env = call(t, h, http.MethodPut, path, org, map[string]string{"status": "Approved"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Approved", decode[idStatus](t, env.Data).Status)

	w, env = call(t, h, http.MethodGet, fmt.Sprintf("/adoptions/%d", adoption.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[struct {
		Status       string `json:"status"`
		AdopterEmail string `json:"adopter_email"`
		AddressState string `json:"address_state"`
		Animal       struct {
			Name string `json:"name"`
		} `json:"animal"`
	}](t, env.Data)
	assert.Equal(t, "Approved", got.Status)
	assert.Equal(t, "maria@example.com", got.AdopterEmail)
	assert.Equal(t, "PE", got.AddressState)
	assert.Equal(t, "Thor", got.Animal.Name)
}

func TestRoleEnforcement(t *testing.T) {
	h := newTestServer(t, nil)
	adopter := register(t, h, "ana@example.com", "adopter")

	w, env := call(t, h, http.MethodPost, "/animals", "", animalBody("Rex"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "null", string(env.Data))

	w, _ = call(t, h, http.MethodPost, "/animals", adopter, animalBody("Rex"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = call(t, h, http.MethodGet, "/contact", adopter, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = call(t, h, http.MethodPut, "/adoptions/1/status", "garbage", map[string]string{"status": "Approved"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env = call(t, h, http.MethodGet, "/auth/me", adopter, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"role":"adopter"`)
}

func TestRegisterAndLoginErrors(t *testing.T) {
	h := newTestServer(t, nil)
	register(t, h, "dup@example.org", "organization")

	w, _ := call(t, h, http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Other", "email": "DUP@example.org", "password": "x", "role": "adopter",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, env := call(t, h, http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Bad", "email": "bad@example.org", "password": "x", "role": "admin",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, string(env.Error), `"role"`)

	w, _ = call(t, h, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "dup@example.org", "password": "wrong", "role": "organization",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env = call(t, h, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "dup@example.org", "password": "s3cret!", "role": "organization",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode[authData](t, env.Data).Token)
}

func TestAnimalListPagination(t *testing.T) {
	h := newTestServer(t, nil)
	org := register(t, h, "org@example.org", "organization")
	for i := 0; i < 3; i++ {
		createAnimal(t, h, org, fmt.Sprintf("Pet %d", i))
	}

	w, env := call(t, h, http.MethodGet, "/animals?page=2&per_page=2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[struct {
		Items []idStatus `json:"items"`
		Meta  struct {
			Total int `json:"total"`
			Pages int `json:"pages"`
		} `json:"meta"`
	}](t, env.Data)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 3, page.Meta.Total)
	assert.Equal(t, 2, page.Meta.Pages)

	for _, q := range []string{"page=0", "per_page=0", "page=abc"} {
		w, env = call(t, h, http.MethodGet, "/animals?"+q, "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
		assert.Equal(t, "null", string(env.Data), q)
	}
}

func TestAdoptionForMissingAnimal(t *testing.T) {
	h := newTestServer(t, nil)

	w, _ := call(t, h, http.MethodPost, "/adoptions", "", adoptionBody(999))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env := call(t, h, http.MethodGet, "/adoptions", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", string(env.Data))
}

func TestOverLongFieldsAreRejected(t *testing.T) {
	h := newTestServer(t, nil)
	org := register(t, h, "org@example.org", "organization")
	id := createAnimal(t, h, org, "Rex")

	body := adoptionBody(id)
	body["adopter_name"] = strings.Repeat("a", 101)
	w, env := call(t, h, http.MethodPost, "/adoptions", "", body)
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Contains(t, string(env.Error), `"adopter_name"`)

	body["adopter_name"] = strings.Repeat("a", 100)
	w, _ = call(t, h, http.MethodPost, "/adoptions", "", body)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	animal := animalBody("Rex")
	animal["species"] = strings.Repeat("s", 51)
	w, env = call(t, h, http.MethodPost, "/animals", org, animal)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, string(env.Error), `"species"`)

	w, env = call(t, h, http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Long", "email": "long@example.org", "password": strings.Repeat("p", 73), "role": "adopter",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, string(env.Error), `"password"`)
}

func TestDeleteAnimalRemovesAdoptions(t *testing.T) {
	h := newTestServer(t, nil)
	org := register(t, h, "org@example.org", "organization")
	doomed := createAnimal(t, h, org, "Mia")
	kept := createAnimal(t, h, org, "Bob")
	for i := 0; i < 3; i++ {
		w, _ := call(t, h, http.MethodPost, "/adoptions", "", adoptionBody(doomed))
		require.Equal(t, http.StatusCreated, w.Code)
	}
	w, _ := call(t, h, http.MethodPost, "/adoptions", "", adoptionBody(kept))
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := call(t, h, http.MethodDelete, fmt.Sprintf("/animals/%d", doomed), org, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, string(env.Data), `"adoptions_removed":3`)

	w, env = call(t, h, http.MethodGet, "/adoptions", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]struct {
		AnimalID int64 `json:"animal_id"`
	}](t, env.Data)
	require.Len(t, list, 1)
	assert.Equal(t, kept, list[0].AnimalID)

	w, _ = call(t, h, http.MethodGet, fmt.Sprintf("/animals/%d", doomed), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdoptionDeleteGate(t *testing.T) {
	h := newTestServer(t, func(cfg *config.Config) { cfg.AdoptionDeleteRequiresOrg = true })
	org := register(t, h, "org@example.org", "organization")
	animalID := createAnimal(t, h, org, "Luna")
	w, env := call(t, h, http.MethodPost, "/adoptions", "", adoptionBody(animalID))
	require.Equal(t, http.StatusCreated, w.Code)
	path := fmt.Sprintf("/adoptions/%d", decode[idStatus](t, env.Data).ID)

	w, _ = call(t, h, http.MethodDelete, path, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = call(t, h, http.MethodDelete, path, org, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = call(t, h, http.MethodDelete, path, org, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatusReversalDisabled(t *testing.T) {
	h := newTestServer(t, func(cfg *config.Config) { cfg.AdoptionAllowStatusReversal = false })
	org := register(t, h, "org@example.org", "organization")
	animalID := createAnimal(t, h, org, "Luna")
	_, env := call(t, h, http.MethodPost, "/adoptions", "", adoptionBody(animalID))
	path := fmt.Sprintf("/adoptions/%d/status", decode[idStatus](t, env.Data).ID)

	w, _ := call(t, h, http.MethodPut, path, org, map[string]string{"status": "Rejected"})
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = call(t, h, http.MethodPut, path, org, map[string]string{"status": "Approved"})
	assert.Equal(t, http.StatusConflict, w.Code)
	w, _ = call(t, h, http.MethodPut, path, org, map[string]string{"status": "Maybe"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMessages(t *testing.T) {
	h := newTestServer(t, nil)
	org := register(t, h, "org@example.org", "organization")

	w, _ := call(t, h, http.MethodPost, "/contact", "", map[string]string{
		"name": "Joao", "email": "joao@example.com", "message": "hello",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w, _ = call(t, h, http.MethodPost, "/feedback", "", map[string]string{"message": "great site"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w, _ = call(t, h, http.MethodPost, "/feedback", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env := call(t, h, http.MethodGet, "/contact", org, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), "joao@example.com")

	w, env = call(t, h, http.MethodGet, "/feedback", org, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), "great site")
}

func TestSystemRoutesUnderPrefix(t *testing.T) {
	h := newTestServer(t, func(cfg *config.Config) { cfg.APIPrefix = "/api" })

	w, env := call(t, h, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.NotEmpty(t, env.RequestID)
	assert.Equal(t, env.RequestID, w.Header().Get("X-Request-ID"))

	w, env = call(t, h, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)

	w, _ = call(t, h, http.MethodGet, "/api/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `pet_adoption_http_requests_total{method="GET",path="/api/health",status="200"} 1`)
}

func TestMetricsDisabled(t *testing.T) {
	h := newTestServer(t, func(cfg *config.Config) { cfg.MetricsEnabled = false })

	w, _ := call(t, h, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuthRateLimitFallsBackToLocalLimiter(t *testing.T) {
	h := newTestServer(t, func(cfg *config.Config) {
		cfg.RateLimitEnabled = true
		cfg.Env = "test"
	})
	body := map[string]string{"email": "nobody@example.org", "password": "x", "role": "adopter"}

	codes := map[int]int{}
	for i := 0; i < 12; i++ {
		w, _ := call(t, h, http.MethodPost, "/auth/login", "", body)
		codes[w.Code]++
	}
	assert.Equal(t, 10, codes[http.StatusUnauthorized])
	assert.Equal(t, 2, codes[http.StatusTooManyRequests])
}

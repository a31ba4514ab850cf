package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/pet-adoption-api/internal/domain/entity"
)

const (
	defaultSize = 10
	maxSize     = 50
	timeout     = 3 * time.Second
)

// AnimalIndex keeps a searchable copy of the animal catalog in Elasticsearch.
// The store stays the source of truth; search returns ids only.
type AnimalIndex struct {
	ES        *elasticsearch.Client
	IndexName string
}

func NewAnimalIndex(es *elasticsearch.Client, index string) *AnimalIndex {
	return &AnimalIndex{ES: es, IndexName: index}
}

type animalDoc struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Species     string `json:"species"`
	City        string `json:"city"`
	Temperament string `json:"temperament"`
	Size        string `json:"size"`
	Status      string `json:"status"`
	Description string `json:"description"`
	UpdatedAt   string `json:"updated_at"`
}

func (x *AnimalIndex) Index(ctx context.Context, a *entity.Animal) error {
	b, err := json.Marshal(animalDoc{
		ID:          a.ID,
		Name:        a.Name,
		Species:     a.Species,
		City:        a.City,
		Temperament: a.Temperament,
		Size:        a.Size,
		Status:      string(a.Status),
		Description: a.Description,
		UpdatedAt:   a.UpdatedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{
		Index:      x.IndexName,
		DocumentID: strconv.FormatInt(a.ID, 10),
		Body:       bytes.NewReader(b),
		Refresh:    "false",
	}
	c, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index animal %d: %s", a.ID, res.Status())
	}
	return nil
}

func (x *AnimalIndex) Delete(ctx context.Context, id int64) error {
	req := esapi.DeleteRequest{Index: x.IndexName, DocumentID: strconv.FormatInt(id, 10)}
	c, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("es delete animal %d: %s", id, res.Status())
	}
	return nil
}

// Search runs a fuzzy multi_match over the descriptive fields and returns
// matching animal ids in relevance order.
func (x *AnimalIndex) Search(ctx context.Context, q string, size int) ([]int64, error) {
	if size <= 0 {
		size = defaultSize
	}
	if size > maxSize {
		size = maxSize
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     q,
				"fields":    []string{"name^3", "species^2", "city^2", "temperament", "description"},
				"fuzziness": "AUTO",
			},
		},
		"size":    size,
		"_source": false,
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res, err := x.ES.Search(
		x.ES.Search.WithContext(c),
		x.ES.Search.WithIndex(x.IndexName),
		x.ES.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		id, err := strconv.ParseInt(h.ID, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

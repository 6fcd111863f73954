package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/jobboard-api/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

// JobIndex keeps job postings searchable by title and description.
type JobIndex struct {
	ES    *elasticsearch.Client
	Index string
}

func NewJobIndex(es *elasticsearch.Client, index string) *JobIndex {
	return &JobIndex{ES: es, Index: index}
}

type jobDoc struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Location     string   `json:"location"`
	JobType      string   `json:"job_type"`
	Wage         float64  `json:"wage"`
	OwnerID      string   `json:"owner_id"`
	OwnerName    string   `json:"owner_name"`
	Requirements []string `json:"requirements"`
	IsActive     bool     `json:"is_active"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

func toDoc(j *entity.Job) jobDoc {
	return jobDoc{
		ID:           j.ID,
		Title:        j.Title,
		Description:  j.Description,
		Location:     j.Location,
		JobType:      string(j.JobType),
		Wage:         j.Wage,
		OwnerID:      j.OwnerID,
		OwnerName:    j.OwnerName,
		Requirements: j.Requirements,
		IsActive:     j.IsActive,
		CreatedAt:    j.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:    j.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// IndexJob upserts the job document under its id.
func (x *JobIndex) IndexJob(ctx context.Context, j *entity.Job) error {
	b, err := json.Marshal(toDoc(j))
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.Index, DocumentID: j.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index job %s: %s", j.ID, res.Status())
	}
	return nil
}

// SearchJobIDs runs a multi_match over title and description and returns ids
// newest first.
func (x *JobIndex) SearchJobIDs(ctx context.Context, keyword string, size int) ([]string, error) {
	if size <= 0 {
		size = 10
	}
	b, err := json.Marshal(searchQuery(keyword, size))
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.ES.Search(
		x.ES.Search.WithContext(c),
		x.ES.Search.WithIndex(x.Index),
		x.ES.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search jobs: %s", res.Status())
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
	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}

func searchQuery(keyword string, size int) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":    keyword,
				"fields":   []string{"title^2", "description"},
				"operator": "and",
			},
		},
		"sort": []any{
			map[string]any{"created_at": map[string]any{"order": "desc"}},
		},
		"_source": false,
		"size":    size,
	}
}

// Package testutil provides test doubles shared by service and handler tests.
package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/noah-isme/vidrios-leads-api/internal/models"
)

// SubmissionStore is an in-memory submission store for tests. It is never wired into the server.
type SubmissionStore struct {
	mu    sync.Mutex
	items map[string]models.Submission
	order map[string]int
	seq   int

	// Err, when set, is returned by every operation to simulate an unavailable store.
	Err error
}

// NewSubmissionStore returns an empty store.
func NewSubmissionStore() *SubmissionStore {
	return &SubmissionStore{items: map[string]models.Submission{}, order: map[string]int{}}
}

func (s *SubmissionStore) Create(ctx context.Context, submission *models.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.seq++
	s.items[submission.ID] = *submission
	s.order[submission.ID] = s.seq
	return nil
}

func (s *SubmissionStore) FindAll(ctx context.Context) ([]models.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	items := make([]models.Submission, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].ReceivedAt.Equal(items[j].ReceivedAt) {
			return items[i].ReceivedAt.After(items[j].ReceivedAt)
		}
		return s.order[items[i].ID] > s.order[items[j].ID]
	})
	return items, nil
}

func (s *SubmissionStore) FindByID(ctx context.Context, id string) (*models.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	item, ok := s.items[id]
	if !ok {
		return nil, models.ErrSubmissionNotFound
	}
	return &item, nil
}

func (s *SubmissionStore) UpdateStatusByID(ctx context.Context, id string, status models.SubmissionStatus) (*models.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	item, ok := s.items[id]
	if !ok {
		return nil, models.ErrSubmissionNotFound
	}
	item.Status = status
	s.items[id] = item
	return &item, nil
}

func (s *SubmissionStore) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Err
}

// Len returns the number of stored submissions.
func (s *SubmissionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

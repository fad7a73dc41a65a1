package profile

import (
	"context"

	"github.com/2beens/fitcoach/internal/progress"
)

// MetricsStore exposes the progress part of the profile documents to the progress service.
type MetricsStore struct {
	repo profileRepo
}

func NewMetricsStore(repo profileRepo) *MetricsStore {
	return &MetricsStore{
		repo: repo,
	}
}

func (s *MetricsStore) GetMetrics(ctx context.Context, userID string) (*progress.Metrics, error) {
	p, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	m := p.ProgressMetrics
	m.EnsureInitialized()
	return &m, nil
}

func (s *MetricsStore) UpdateMetrics(ctx context.Context, userID string, fn func(m *progress.Metrics) error) error {
	_, err := s.repo.Modify(ctx, userID, func(p *Profile) error {
		return fn(&p.ProgressMetrics)
	})
	return err
}

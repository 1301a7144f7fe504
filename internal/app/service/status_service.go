package service

import (
	"context"

	"github.com/ikkim/dualstore-shop/internal/app/repository"
	"github.com/ikkim/dualstore-shop/pkg/logger"
)

type Status struct {
	Mode        repository.Mode             `json:"mode"`
	Collections []repository.CollectionStat `json:"collections"`
}

type StatusService interface {
	Status(ctx context.Context) (*Status, error)
}

type statusService struct {
	store repository.Store
}

func NewStatusService(store repository.Store) StatusService {
	return &statusService{store: store}
}

func (s *statusService) Status(ctx context.Context) (*Status, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		logger.Error("Failed to collect store stats", err, map[string]interface{}{
			"mode": s.store.Mode(),
		})
		return nil, err
	}
	return &Status{Mode: s.store.Mode(), Collections: stats}, nil
}

package service

import (
	"context"

	"github.com/ikkim/dualstore-shop/internal/app/model"
	"github.com/ikkim/dualstore-shop/internal/app/repository"
	"github.com/ikkim/dualstore-shop/pkg/logger"
)

type CatalogService interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	ListUsers(ctx context.Context) ([]model.User, error)
}

type catalogService struct {
	repo repository.CatalogRepository
}

func NewCatalogService(repo repository.CatalogRepository) CatalogService {
	return &catalogService{repo: repo}
}

func (s *catalogService) ListProducts(ctx context.Context) ([]model.Product, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		logger.Error("Failed to list products", err)
		return nil, err
	}
	logger.Info("Products listed", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

func (s *catalogService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		logger.Error("Failed to list users", err)
		return nil, err
	}
	logger.Info("Users listed", map[string]interface{}{
		"count": len(users),
	})
	return users, nil
}

package service

import (
	"context"

	"github.com/ikkim/dualstore-shop/internal/app/repository"
	"github.com/ikkim/dualstore-shop/pkg/logger"
)

type CartService interface {
	GetCart(ctx context.Context, userID uint) ([]repository.CartLine, error)
	AddToCart(ctx context.Context, userID, productID uint, quantity int) error
}

type cartService struct {
	repo repository.CartRepository
}

func NewCartService(repo repository.CartRepository) CartService {
	return &cartService{repo: repo}
}

func (s *cartService) GetCart(ctx context.Context, userID uint) ([]repository.CartLine, error) {
	lines, err := s.repo.GetCart(ctx, userID)
	if err != nil {
		logger.Error("Failed to fetch cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("Cart fetched successfully", map[string]interface{}{
		"user_id": userID,
		"count":   len(lines),
	})
	return lines, nil
}

func (s *cartService) AddToCart(ctx context.Context, userID, productID uint, quantity int) error {
	fields := map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"quantity":   quantity,
	}
	if quantity < 1 {
		logFailure("Cannot add to cart", repository.ErrInvalidQuantity, fields)
		return repository.ErrInvalidQuantity
	}

	if err := s.repo.AddToCart(ctx, userID, productID, quantity); err != nil {
		logFailure("Cannot add to cart", err, fields)
		return err
	}

	logger.Info("Item added to cart", fields)
	return nil
}

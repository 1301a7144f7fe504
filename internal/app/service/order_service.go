package service

import (
	"context"

	"github.com/ikkim/dualstore-shop/internal/app/model"
	"github.com/ikkim/dualstore-shop/internal/app/repository"
	"github.com/ikkim/dualstore-shop/pkg/logger"
)

type OrderService interface {
	PlaceOrder(ctx context.Context, userID uint, paymentStatus model.PaymentStatus) (uint, error)
	CancelOrder(ctx context.Context, userID, orderID uint) error
	GetOrderDetail(ctx context.Context, orderID uint) (*repository.OrderDetail, error)
}

type orderService struct {
	repo repository.OrderRepository
	opts options
}

func NewOrderService(repo repository.OrderRepository, opts ...Option) OrderService {
	return &orderService{repo: repo, opts: buildOptions(opts)}
}

func (s *orderService) PlaceOrder(ctx context.Context, userID uint, paymentStatus model.PaymentStatus) (uint, error) {
	fields := map[string]interface{}{
		"user_id":        userID,
		"payment_status": paymentStatus,
	}
	if !paymentStatus.Valid() {
		logFailure("Cannot place order", repository.ErrInvalidPaymentStatus, fields)
		return 0, repository.ErrInvalidPaymentStatus
	}

	orderID, err := s.repo.PlaceOrder(ctx, repository.PlaceOrderInput{
		UserID:        userID,
		PaymentStatus: paymentStatus,
		PlacedAt:      s.opts.clock(),
	})
	if err != nil {
		logFailure("Cannot place order", err, fields)
		return 0, err
	}

	fields["order_id"] = orderID
	logger.Info("Order placed successfully", fields)
	return orderID, nil
}

func (s *orderService) CancelOrder(ctx context.Context, userID, orderID uint) error {
	fields := map[string]interface{}{
		"user_id":  userID,
		"order_id": orderID,
	}
	if err := s.repo.CancelOrder(ctx, userID, orderID); err != nil {
		logFailure("Cannot cancel order", err, fields)
		return err
	}

	logger.Info("Order canceled successfully", fields)
	return nil
}

func (s *orderService) GetOrderDetail(ctx context.Context, orderID uint) (*repository.OrderDetail, error) {
	detail, err := s.repo.GetOrderDetail(ctx, orderID)
	if err != nil {
		logFailure("Cannot fetch order", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, err
	}
	return detail, nil
}

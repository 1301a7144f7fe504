package repository

import (
	"context"
	"time"

	"github.com/ikkim/dualstore-shop/internal/app/model"
	"github.com/shopspring/decimal"
)

// uninitializedStore backs the not_initialized mode: no data exists yet, so reads are
// empty and writes fail with the error the empty data set naturally produces.
type uninitializedStore struct{}

func NewUninitializedStore() Store {
	return uninitializedStore{}
}

func (uninitializedStore) Mode() Mode { return ModeNotInitialized }

func (uninitializedStore) ListProducts(context.Context) ([]model.Product, error) {
	return []model.Product{}, nil
}

func (uninitializedStore) ListUsers(context.Context) ([]model.User, error) {
	return []model.User{}, nil
}

func (uninitializedStore) GetCart(context.Context, uint) ([]CartLine, error) {
	return []CartLine{}, nil
}

func (uninitializedStore) AddToCart(context.Context, uint, uint, int) error {
	return ErrUserNotFound
}

func (uninitializedStore) PlaceOrder(context.Context, PlaceOrderInput) (uint, error) {
	return 0, ErrEmptyCart
}

func (uninitializedStore) CancelOrder(context.Context, uint, uint) error {
	return ErrOrderNotFound
}

func (uninitializedStore) GetOrderDetail(context.Context, uint) (*OrderDetail, error) {
	return nil, ErrOrderNotFound
}

func (uninitializedStore) SpendersOverThreshold(context.Context, time.Time, decimal.Decimal) ([]SpenderRow, error) {
	return []SpenderRow{}, nil
}

func (uninitializedStore) RepeatBuyerProducts(context.Context, time.Time) ([]RepeatBuyerRow, error) {
	return []RepeatBuyerRow{}, nil
}

func (uninitializedStore) Stats(context.Context) ([]CollectionStat, error) {
	return []CollectionStat{}, nil
}

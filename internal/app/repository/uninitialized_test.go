package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestUninitializedStore_ReadsAreEmpty(t *testing.T) {
	s := NewUninitializedStore()
	ctx := context.Background()

	assert.Equal(t, ModeNotInitialized, s.Mode())

	products, err := s.ListProducts(ctx)
	assert.NoError(t, err)
	assert.Empty(t, products)

	users, err := s.ListUsers(ctx)
	assert.NoError(t, err)
	assert.Empty(t, users)

	cart, err := s.GetCart(ctx, 1)
	assert.NoError(t, err)
	assert.Empty(t, cart)

	spenders, err := s.SpendersOverThreshold(ctx, time.Now(), decimal.NewFromInt(1000))
	assert.NoError(t, err)
	assert.Empty(t, spenders)

	repeat, err := s.RepeatBuyerProducts(ctx, time.Now())
	assert.NoError(t, err)
	assert.Empty(t, repeat)
}

func TestUninitializedStore_WritesReportTaxonomyErrors(t *testing.T) {
	s := NewUninitializedStore()
	ctx := context.Background()

	assert.ErrorIs(t, s.AddToCart(ctx, 1, 1, 1), ErrNotFound)

	_, err := s.PlaceOrder(ctx, PlaceOrderInput{UserID: 1})
	assert.ErrorIs(t, err, ErrEmptyCart)

	assert.ErrorIs(t, s.CancelOrder(ctx, 1, 1), ErrNotFound)

	_, err = s.GetOrderDetail(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("NO_SQL")
	assert.NoError(t, err)
	assert.Equal(t, ModeNoSQL, m)

	_, err = ParseMode("sql")
	assert.Error(t, err)
}

func TestParseStockPolicy(t *testing.T) {
	p, err := ParseStockPolicy("backorder")
	assert.NoError(t, err)
	assert.Equal(t, StockPolicyBackorder, p)

	_, err = ParseStockPolicy("oversell")
	assert.Error(t, err)
}

func TestNotFoundErrors_MatchSentinel(t *testing.T) {
	assert.ErrorIs(t, ErrUserNotFound, ErrNotFound)
	assert.ErrorIs(t, ErrOrderNotFound, ErrNotFound)
	assert.Equal(t, "order not found", ErrOrderNotFound.Error())
}

func TestIsDomainError(t *testing.T) {
	assert.True(t, IsDomainError(ErrOrderNotFound))
	assert.True(t, IsDomainError(fmt.Errorf("product 3: %w", ErrInsufficientStock)))
	assert.False(t, IsDomainError(errors.New("connection reset")))
}

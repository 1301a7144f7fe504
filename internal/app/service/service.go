// Package service holds the business operations. Services see only the repository
// interfaces, so the same code runs against either backend.
package service

import (
	"time"

	"github.com/ikkim/dualstore-shop/internal/app/repository"
	"github.com/ikkim/dualstore-shop/pkg/logger"
)

const (
	SpendWindowMonths      = 6
	RepeatBuyerWindowYears = 1
)

type Clock func() time.Time

type options struct {
	clock Clock
}

type Option func(*options)

// WithClock replaces time.Now as the source of "now" for order dates and report windows.
func WithClock(c Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

func buildOptions(opts []Option) options {
	o := options{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// logFailure logs domain errors as warnings and everything else as errors.
func logFailure(msg string, err error, fields map[string]interface{}) {
	if repository.IsDomainError(err) {
		fields["reason"] = err.Error()
		logger.Warn(msg, fields)
		return
	}
	logger.Error(msg, err, fields)
}

// Package currency resolves exchange rates from the currencies table with a
// redis read-through cache in front. Fetching fresh rates from third-party
// APIs is an external concern; this service only reads what admins or the
// rate importer wrote.
package currency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/marketplace-api/models"
)

const cacheTTL = 10 * time.Minute

type Service struct {
	db  *gorm.DB
	rdb *redis.Client
}

// NewService builds a Service. rdb may be nil, in which case every lookup
// goes straight to the database.
func NewService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{db: db, rdb: rdb}
}

func cacheKey(code string) string { return "currency:" + code }

// Get returns one active currency, from cache when possible.
func (s *Service) Get(ctx context.Context, code string) (*models.Currency, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: currency code is required", models.ErrValidation)
	}

	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, cacheKey(code)).Bytes(); err == nil {
			var cur models.Currency
			if json.Unmarshal(raw, &cur) == nil {
				return &cur, nil
			}
		}
	}

	var cur models.Currency
	err := s.db.WithContext(ctx).
		Where("code = ? AND is_active = ?", code, true).
		First(&cur).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: currency %s", models.ErrNotFound, code)
	}
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(&cur); err == nil {
			s.rdb.Set(ctx, cacheKey(code), raw, cacheTTL)
		}
	}
	return &cur, nil
}

// Rate returns the exchange rate for a code: units of that currency per one
// base-currency unit. The base currency always rates 1.
func (s *Service) Rate(ctx context.Context, code string) (float64, error) {
	if code == "" || code == models.BaseCurrency {
		return 1.0, nil
	}
	cur, err := s.Get(ctx, code)
	if err != nil {
		return 0, err
	}
	if cur.Rate <= 0 {
		return 0, fmt.Errorf("%w: currency %s has a non-positive rate", models.ErrIntegrity, code)
	}
	return cur.Rate, nil
}

// Convert moves an amount between two currencies through the base currency.
func (s *Service) Convert(ctx context.Context, amount float64, from, to string) (float64, error) {
	if from == to {
		return amount, nil
	}
	fromRate, err := s.Rate(ctx, from)
	if err != nil {
		return 0, err
	}
	toRate, err := s.Rate(ctx, to)
	if err != nil {
		return 0, err
	}
	return amount / fromRate * toRate, nil
}

// Invalidate drops a code from the cache, called after admin rate updates.
func (s *Service) Invalidate(ctx context.Context, code string) {
	if s.rdb != nil {
		s.rdb.Del(ctx, cacheKey(code))
	}
}

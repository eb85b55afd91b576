package currency

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/marketplace-api/models"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.Currency{}))

	seed := []models.Currency{
		{Code: "UZS", Name: "Uzbek Som", Symbol: "so'm", Rate: 1, IsDefault: true, IsActive: true},
		{Code: "USD", Name: "US Dollar", Symbol: "$", Rate: 1.0 / 12600, IsActive: true},
		{Code: "RUB", Name: "Russian Ruble", Symbol: "₽", Rate: 1.0 / 140, IsActive: false},
		{Code: "XXX", Name: "Broken", Symbol: "?", Rate: 0, IsActive: true},
	}
	for i := range seed {
		require.NoError(t, db.Create(&seed[i]).Error)
	}
	return NewService(db, nil)
}

func TestRate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	rate, err := svc.Rate(ctx, models.BaseCurrency)
	require.NoError(t, err)
	assert.Equal(t, 1.0, rate, "the base currency always rates 1")

	rate, err = svc.Rate(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 1.0, rate)

	rate, err = svc.Rate(ctx, "USD")
	require.NoError(t, err)
	assert.InDelta(t, 1.0/12600, rate, 1e-12)

	_, err = svc.Rate(ctx, "RUB")
	assert.ErrorIs(t, err, models.ErrNotFound, "inactive currencies do not resolve")

	_, err = svc.Rate(ctx, "XXX")
	assert.ErrorIs(t, err, models.ErrIntegrity, "a zero rate is a data problem, not a free conversion")
}

func TestConvert(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	got, err := svc.Convert(ctx, 126000, models.BaseCurrency, "USD")
	require.NoError(t, err)
	assert.InDelta(t, 10.0, got, 0.001)

	got, err = svc.Convert(ctx, 10, "USD", models.BaseCurrency)
	require.NoError(t, err)
	assert.InDelta(t, 126000.0, got, 0.001)

	got, err = svc.Convert(ctx, 42, "USD", "USD")
	require.NoError(t, err)
	assert.Equal(t, 42.0, got, "same-currency conversion is the identity")
}

func TestGetUnknownCurrency(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Get(context.Background(), "EUR")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = svc.Get(context.Background(), "")
	assert.ErrorIs(t, err, models.ErrValidation)
}

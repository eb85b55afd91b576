package productControllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junaidrashid-git/marketplace-api/models"
)

func TestAddReviewRecomputesAggregate(t *testing.T) {
	db := newTestDB(t)
	product, err := CreateProduct(db, 1, ProductInput{Name: "Shirt"})
	require.NoError(t, err)

	_, err = AddReview(db, 10, product.ID, ReviewInput{Rating: 4, Comment: "good fit"})
	require.NoError(t, err)
	_, err = AddReview(db, 11, product.ID, ReviewInput{Rating: 5})
	require.NoError(t, err)

	var found models.Product
	require.NoError(t, db.First(&found, product.ID).Error)
	assert.Equal(t, 4.5, found.Rating)
	assert.Equal(t, 2, found.NumReviews)
}

func TestAddReviewReplacesOwnReview(t *testing.T) {
	db := newTestDB(t)
	product, err := CreateProduct(db, 1, ProductInput{Name: "Shirt"})
	require.NoError(t, err)

	first, err := AddReview(db, 10, product.ID, ReviewInput{Rating: 2, Comment: "meh"})
	require.NoError(t, err)
	second, err := AddReview(db, 10, product.ID, ReviewInput{Rating: 5, Comment: "grew on me"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "same user re-reviewing replaces, not appends")

	var count int64
	require.NoError(t, db.Model(&models.Review{}).Where("product_id = ?", product.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var found models.Product
	require.NoError(t, db.First(&found, product.ID).Error)
	assert.Equal(t, 5.0, found.Rating)
	assert.Equal(t, 1, found.NumReviews)
}

func TestDeleteReviewRecomputesAggregate(t *testing.T) {
	db := newTestDB(t)
	product, err := CreateProduct(db, 1, ProductInput{Name: "Shirt"})
	require.NoError(t, err)

	_, err = AddReview(db, 10, product.ID, ReviewInput{Rating: 2})
	require.NoError(t, err)
	_, err = AddReview(db, 11, product.ID, ReviewInput{Rating: 5})
	require.NoError(t, err)

	require.NoError(t, DeleteReview(db, 10, product.ID))

	var found models.Product
	require.NoError(t, db.First(&found, product.ID).Error)
	assert.Equal(t, 5.0, found.Rating)
	assert.Equal(t, 1, found.NumReviews)

	// Last review gone resets the aggregate to zero.
	require.NoError(t, DeleteReview(db, 11, product.ID))
	require.NoError(t, db.First(&found, product.ID).Error)
	assert.Equal(t, 0.0, found.Rating)
	assert.Equal(t, 0, found.NumReviews)

	err = DeleteReview(db, 10, product.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAddReviewValidation(t *testing.T) {
	db := newTestDB(t)
	product, err := CreateProduct(db, 1, ProductInput{Name: "Shirt"})
	require.NoError(t, err)

	_, err = AddReview(db, 10, product.ID, ReviewInput{Rating: 0})
	assert.ErrorIs(t, err, models.ErrValidation)
	_, err = AddReview(db, 10, product.ID, ReviewInput{Rating: 6})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = AddReview(db, 10, product.ID+99, ReviewInput{Rating: 4})
	assert.ErrorIs(t, err, models.ErrNotFound)

	inactive := false
	hidden, err := CreateProduct(db, 1, ProductInput{Name: "Hidden", IsActive: &inactive})
	require.NoError(t, err)
	_, err = AddReview(db, 10, hidden.ID, ReviewInput{Rating: 4})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikeychann-hash/Evies-Epoxy/models"
)

func TestProductCreateSlugConflict(t *testing.T) {
	existing := activeProduct("resin-mug", 25.99, 10)
	category := &models.Category{ID: uuid.New(), Name: "Mugs", Slug: "mugs"}
	svc := NewProductService(newFakeProductRepo(existing), newFakeCategoryRepo(category))

	_, appErr := svc.Create(context.Background(), &ProductCreateRequest{
		Name:        "Another Mug",
		Slug:        "resin-mug",
		Description: "A second mug with the same slug",
		Price:       19.99,
		CategoryID:  category.ID.String(),
	})
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusConflict, appErr.Code)
}

func TestProductCreateUnknownCategory(t *testing.T) {
	svc := NewProductService(newFakeProductRepo(), newFakeCategoryRepo())

	_, appErr := svc.Create(context.Background(), &ProductCreateRequest{
		Name:        "Orphan",
		Slug:        "orphan",
		Description: "A product without a home",
		Price:       5.00,
		CategoryID:  uuid.NewString(),
	})
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
}

func TestProductCreateDefaultsActive(t *testing.T) {
	category := &models.Category{ID: uuid.New(), Name: "Trays", Slug: "trays"}
	products := newFakeProductRepo()
	svc := NewProductService(products, newFakeCategoryRepo(category))

	p, appErr := svc.Create(context.Background(), &ProductCreateRequest{
		Name:        "Ocean Tray",
		Slug:        "ocean-tray",
		Description: "Blue swirl serving tray",
		Price:       42.00,
		CategoryID:  category.ID.String(),
		Stock:       4,
	})
	require.Nil(t, appErr)
	assert.True(t, p.IsActive)
	assert.False(t, p.IsFeatured)
}

func TestProductGetHidesInactiveFromNonAdmin(t *testing.T) {
	p := activeProduct("retired", 10.00, 0)
	p.IsActive = false
	svc := NewProductService(newFakeProductRepo(p), newFakeCategoryRepo())

	_, appErr := svc.Get(context.Background(), p.ID, false)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Code)

	got, appErr := svc.Get(context.Background(), p.ID, true)
	require.Nil(t, appErr)
	assert.Equal(t, p.ID, got.ID)
}

func TestProductDeleteDeactivatesWhenOrdered(t *testing.T) {
	p := activeProduct("popular-piece", 30.00, 2)
	products := newFakeProductRepo(p)
	products.orderRefs[p.ID] = true
	svc := NewProductService(products, newFakeCategoryRepo())

	deactivated, appErr := svc.Delete(context.Background(), p.ID)
	require.Nil(t, appErr)
	assert.True(t, deactivated)

	// Still present, just invisible to shoppers.
	got, err := products.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestProductDeleteRemovesUnorderedProduct(t *testing.T) {
	p := activeProduct("unsold-piece", 30.00, 2)
	products := newFakeProductRepo(p)
	svc := NewProductService(products, newFakeCategoryRepo())

	deactivated, appErr := svc.Delete(context.Background(), p.ID)
	require.Nil(t, appErr)
	assert.False(t, deactivated)

	_, err := products.FindByID(context.Background(), p.ID)
	assert.Error(t, err)
}

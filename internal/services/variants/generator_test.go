package variants_test

import (
	"context"
	"testing"

	"curator/internal/models"
	"curator/internal/services/attributes"
	"curator/internal/services/variants"
	"curator/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*variants.Generator, *attributes.Service, *gorm.DB, testutil.Fixture) {
	t.Helper()
	db := testutil.DB(t)
	fix := testutil.Seed(t, db)
	attrs := attributes.NewService(db, testutil.Logger(t))
	gen := variants.NewGenerator(db, testutil.Logger(t), attrs, nil)
	return gen, attrs, db, fix
}

func seedAxes(t *testing.T, attrs *attributes.Service, actorID, productID string) {
	t.Helper()
	ctx := context.Background()
	_, err := attrs.Create(ctx, actorID, attributes.CreateInput{
		ProductID: productID, Key: "color", Label: "Color",
		Type:    models.AttributeTypeSelect,
		Options: []models.AttributeOption{{Value: "red", Label: "Red"}, {Value: "blue", Label: "Blue"}},
	})
	require.NoError(t, err)
	_, err = attrs.Create(ctx, actorID, attributes.CreateInput{
		ProductID: productID, Key: "size", Label: "Size",
		Type:      models.AttributeTypeSelect,
		Options:   []models.AttributeOption{{Value: "S", Label: "S"}, {Value: "M", Label: "M"}},
		SortOrder: 1,
	})
	require.NoError(t, err)
}

func TestGenerateMaterializesAllCombinations(t *testing.T) {
	gen, attrs, _, fix := setup(t)
	ctx := context.Background()
	seedAxes(t, attrs, fix.Owner.ID, fix.Product.ID)

	created, err := gen.Generate(ctx, fix.Owner.ID, fix.Product.ID, variants.GenerateInput{BasePrice: 24.90})
	require.NoError(t, err)
	require.Len(t, created, 4)

	seen := make(map[string]bool)
	for _, v := range created {
		assert.Equal(t, 24.90, v.Price)
		color, _ := v.AttributeValue("color")
		size, _ := v.AttributeValue("size")
		seen[color+"/"+size] = true
	}
	assert.Len(t, seen, 4)

	// SKUs derive from the product SKU and the option values
	assert.Equal(t, "TEE-001-RED-S", created[0].SKU)
}

func TestGenerateIsIdempotent(t *testing.T) {
	gen, attrs, _, fix := setup(t)
	ctx := context.Background()
	seedAxes(t, attrs, fix.Owner.ID, fix.Product.ID)

	first, err := gen.Generate(ctx, fix.Owner.ID, fix.Product.ID, variants.GenerateInput{})
	require.NoError(t, err)
	require.Len(t, first, 4)

	again, err := gen.Generate(ctx, fix.Owner.ID, fix.Product.ID, variants.GenerateInput{})
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestGenerateSkipsExistingCombination(t *testing.T) {
	gen, attrs, db, fix := setup(t)
	ctx := context.Background()
	seedAxes(t, attrs, fix.Owner.ID, fix.Product.ID)

	existing := models.ProductVariant{
		ProductID:  fix.Product.ID,
		SKU:        "TEE-001-CUSTOM",
		Attributes: map[string]interface{}{"color": "red", "size": "S"},
	}
	require.NoError(t, db.Create(&existing).Error)

	created, err := gen.Generate(ctx, fix.Owner.ID, fix.Product.ID, variants.GenerateInput{})
	require.NoError(t, err)
	assert.Len(t, created, 3)
	for _, v := range created {
		color, _ := v.AttributeValue("color")
		size, _ := v.AttributeValue("size")
		assert.False(t, color == "red" && size == "S", "pre-existing combination regenerated")
	}
}

func TestGenerateWithoutAxes(t *testing.T) {
	gen, _, _, fix := setup(t)

	_, err := gen.Generate(context.Background(), fix.Owner.ID, fix.Product.ID, variants.GenerateInput{})
	assert.ErrorIs(t, err, attributes.ErrConflict)
}

func TestGenerateUnauthorized(t *testing.T) {
	gen, attrs, _, fix := setup(t)
	seedAxes(t, attrs, fix.Owner.ID, fix.Product.ID)

	_, err := gen.Generate(context.Background(), fix.Stranger.ID, fix.Product.ID, variants.GenerateInput{})
	assert.ErrorIs(t, err, attributes.ErrAccessDenied)
}

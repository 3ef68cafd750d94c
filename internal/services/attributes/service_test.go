package attributes_test

import (
	"context"
	"testing"
	"time"

	"curator/internal/models"
	"curator/internal/services/attributes"
	"curator/internal/services/combinations"
	"curator/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*attributes.Service, *gorm.DB, testutil.Fixture) {
	t.Helper()
	db := testutil.DB(t)
	fix := testutil.Seed(t, db)
	return attributes.NewService(db, testutil.Logger(t)), db, fix
}

func mustCreate(t *testing.T, svc *attributes.Service, actorID string, in attributes.CreateInput) *models.AttributeSchema {
	t.Helper()
	schema, err := svc.Create(context.Background(), actorID, in)
	require.NoError(t, err)
	return schema
}

func selectInput(productID, key string, values ...string) attributes.CreateInput {
	options := make([]models.AttributeOption, 0, len(values))
	for _, v := range values {
		options = append(options, models.AttributeOption{Value: v, Label: v})
	}
	return attributes.CreateInput{
		ProductID: productID,
		Key:       key,
		Label:     key,
		Type:      models.AttributeTypeSelect,
		Options:   options,
	}
}

func seedVariant(t *testing.T, db *gorm.DB, productID string, attrs map[string]interface{}) models.ProductVariant {
	t.Helper()
	variant := models.ProductVariant{ProductID: productID, SKU: "VAR-" + productID[:8], Attributes: attrs}
	require.NoError(t, db.Create(&variant).Error)
	return variant
}

func TestCreateDuplicateKey(t *testing.T) {
	svc, db, fix := setup(t)
	ctx := context.Background()

	mustCreate(t, svc, fix.Owner.ID, selectInput(fix.Product.ID, "color", "red", "blue"))

	_, err := svc.Create(ctx, fix.Owner.ID, selectInput(fix.Product.ID, "color", "green"))
	assert.ErrorIs(t, err, attributes.ErrConflict)

	// the same key under another product is fine
	other := testutil.SeedProduct(t, db, fix.Catalog.ID, "TEE-002")
	_, err = svc.Create(ctx, fix.Owner.ID, selectInput(other.ID, "color", "green"))
	assert.NoError(t, err)
}

func TestCreateDefaults(t *testing.T) {
	svc, _, fix := setup(t)

	schema := mustCreate(t, svc, fix.Owner.ID, attributes.CreateInput{
		ProductID: fix.Product.ID,
		Key:       "notes",
		Label:     "Notes",
		Type:      models.AttributeTypeText,
	})
	assert.True(t, schema.IsVariantDefining)
	assert.False(t, schema.IsRequired)
	assert.Zero(t, schema.SortOrder)
	assert.NotNil(t, schema.Options)
	assert.Empty(t, schema.Options)

	off := false
	schema = mustCreate(t, svc, fix.Owner.ID, attributes.CreateInput{
		ProductID:         fix.Product.ID,
		Key:               "care",
		Label:             "Care",
		Type:              models.AttributeTypeText,
		IsVariantDefining: &off,
	})
	assert.False(t, schema.IsVariantDefining)
}

func TestCreateDuplicateOptionValues(t *testing.T) {
	svc, _, fix := setup(t)

	_, err := svc.Create(context.Background(), fix.Owner.ID, selectInput(fix.Product.ID, "size", "S", "M", "S"))
	assert.ErrorIs(t, err, attributes.ErrConflict)
}

func TestUpdateKeyCollision(t *testing.T) {
	svc, _, fix := setup(t)
	ctx := context.Background()

	mustCreate(t, svc, fix.Owner.ID, selectInput(fix.Product.ID, "color", "red"))
	size := mustCreate(t, svc, fix.Owner.ID, selectInput(fix.Product.ID, "size", "S"))

	colliding := "color"
	_, err := svc.Update(ctx, fix.Owner.ID, size.ID, attributes.UpdateInput{Key: &colliding})
	assert.ErrorIs(t, err, attributes.ErrConflict)

	// renaming to its own key is not a collision
	same := "size"
	updated, err := svc.Update(ctx, fix.Owner.ID, size.ID, attributes.UpdateInput{Key: &same})
	require.NoError(t, err)
	assert.Equal(t, "size", updated.Key)
}

func TestUpdatePartialFields(t *testing.T) {
	svc, _, fix := setup(t)
	ctx := context.Background()

	schema := mustCreate(t, svc, fix.Owner.ID, selectInput(fix.Product.ID, "size", "S", "M"))

	label := "Garment size"
	required := true
	order := 5
	updated, err := svc.Update(ctx, fix.Owner.ID, schema.ID, attributes.UpdateInput{
		Label:      &label,
		IsRequired: &required,
		SortOrder:  &order,
	})
	require.NoError(t, err)
	assert.Equal(t, "Garment size", updated.Label)
	assert.True(t, updated.IsRequired)
	assert.Equal(t, 5, updated.SortOrder)
	// untouched fields survive
	assert.Equal(t, "size", updated.Key)
	assert.Len(t, updated.Options, 2)
}

func TestUpdateMissingSchema(t *testing.T) {
	svc, _, fix := setup(t)

	label := "x"
	_, err := svc.Update(context.Background(), fix.Owner.ID, "00000000-0000-0000-0000-000000000000", attributes.UpdateInput{Label: &label})
	assert.ErrorIs(t, err, attributes.ErrNotFound)
}

func TestDeleteInUseGuard(t *testing.T) {
	svc, db, fix := setup(t)
	ctx := context.Background()

	schema := mustCreate(t, svc, fix.Owner.ID, selectInput(fix.Product.ID, "color", "red", "blue"))
	variant := seedVariant(t, db, fix.Product.ID, map[string]interface{}{"color": "red"})

	err := svc.Delete(ctx, fix.Owner.ID, schema.ID)
	assert.ErrorIs(t, err, attributes.ErrConflict)

	// clearing the key from the variant unblocks deletion
	variant.Attributes = map[string]interface{}{}
	require.NoError(t, db.Save(&variant).Error)

	require.NoError(t, svc.Delete(ctx, fix.Owner.ID, schema.ID))
	assert.Nil(t, svc.GetByID(ctx, schema.ID))
}

func TestAddOptionDuplicate(t *testing.T) {
	svc, _, fix := setup(t)
	ctx := context.Background()

	schema := mustCreate(t, svc, fix.Owner.ID, selectInput(fix.Product.ID, "size", "S", "M"))

	updated, err := svc.AddOption(ctx, fix.Owner.ID, schema.ID, models.AttributeOption{Value: "L", Label: "Large"})
	require.NoError(t, err)
	assert.Len(t, updated.Options, 3)

	_, err = svc.AddOption(ctx, fix.Owner.ID, schema.ID, models.AttributeOption{Value: "M", Label: "Medium again"})
	assert.ErrorIs(t, err, attributes.ErrConflict)
}

func TestRemoveOption(t *testing.T) {
	svc, db, fix := setup(t)
	ctx := context.Background()

	schema := mustCreate(t, svc, fix.Owner.ID, selectInput(fix.Product.ID, "size", "S", "M", "L"))
	seedVariant(t, db, fix.Product.ID, map[string]interface{}{"size": "M"})

	// M is worn by a variant
	_, err := svc.RemoveOption(ctx, fix.Owner.ID, schema.ID, "M")
	assert.ErrorIs(t, err, attributes.ErrConflict)

	// L is unused
	updated, err := svc.RemoveOption(ctx, fix.Owner.ID, schema.ID, "L")
	require.NoError(t, err)
	assert.Equal(t, []string{"S", "M"}, updated.OptionValues())

	_, err = svc.RemoveOption(ctx, fix.Owner.ID, schema.ID, "XL")
	assert.ErrorIs(t, err, attributes.ErrNotFound)

	_, err = svc.RemoveOption(ctx, fix.Owner.ID, "00000000-0000-0000-0000-000000000000", "S")
	assert.ErrorIs(t, err, attributes.ErrNotFound)
}

func TestListOrdering(t *testing.T) {
	svc, db, fix := setup(t)
	ctx := context.Background()

	third := mustCreate(t, svc, fix.Owner.ID, attributes.CreateInput{
		ProductID: fix.Product.ID, Key: "material", Label: "Material",
		Type: models.AttributeTypeSelect, SortOrder: 2,
	})
	first := mustCreate(t, svc, fix.Owner.ID, attributes.CreateInput{
		ProductID: fix.Product.ID, Key: "color", Label: "Color",
		Type: models.AttributeTypeSelect, SortOrder: 1,
	})
	second := mustCreate(t, svc, fix.Owner.ID, attributes.CreateInput{
		ProductID: fix.Product.ID, Key: "size", Label: "Size",
		Type: models.AttributeTypeSelect, SortOrder: 1,
	})

	// force distinct creation times so the sort_order tie is deterministic
	base := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{first.ID, second.ID, third.ID} {
		require.NoError(t, db.Model(&models.AttributeSchema{}).
			Where("id = ?", id).
			Update("created_at", base.Add(time.Duration(i)*time.Second)).Error)
	}

	for i := 0; i < 3; i++ {
		schemas := svc.List(ctx, fix.Product.ID)
		require.Len(t, schemas, 3)
		assert.Equal(t, "color", schemas[0].Key)
		assert.Equal(t, "size", schemas[1].Key)
		assert.Equal(t, "material", schemas[2].Key)
	}
}

func TestListDegradesToEmpty(t *testing.T) {
	svc, db, fix := setup(t)

	require.NoError(t, db.Migrator().DropTable(&models.AttributeSchema{}))

	schemas := svc.List(context.Background(), fix.Product.ID)
	assert.NotNil(t, schemas)
	assert.Empty(t, schemas)
}

func TestGetByID(t *testing.T) {
	svc, _, fix := setup(t)
	ctx := context.Background()

	schema := mustCreate(t, svc, fix.Owner.ID, selectInput(fix.Product.ID, "color", "red"))

	got := svc.GetByID(ctx, schema.ID)
	require.NotNil(t, got)
	assert.Equal(t, "color", got.Key)

	assert.Nil(t, svc.GetByID(ctx, "00000000-0000-0000-0000-000000000000"))
}

func TestReorderBulk(t *testing.T) {
	svc, _, fix := setup(t)
	ctx := context.Background()

	a := mustCreate(t, svc, fix.Owner.ID, selectInput(fix.Product.ID, "color", "red"))
	b := mustCreate(t, svc, fix.Owner.ID, selectInput(fix.Product.ID, "size", "S"))

	err := svc.ReorderBulk(ctx, fix.Owner.ID, []attributes.ReorderItem{
		{ID: a.ID, SortOrder: 2},
		{ID: b.ID, SortOrder: 1},
	})
	require.NoError(t, err)

	schemas := svc.List(ctx, fix.Product.ID)
	require.Len(t, schemas, 2)
	assert.Equal(t, "size", schemas[0].Key)
	assert.Equal(t, "color", schemas[1].Key)

	// a single bad item fails the whole call
	err = svc.ReorderBulk(ctx, fix.Owner.ID, []attributes.ReorderItem{
		{ID: a.ID, SortOrder: 1},
		{ID: "00000000-0000-0000-0000-000000000000", SortOrder: 2},
	})
	assert.Error(t, err)
}

func TestCombinableOptions(t *testing.T) {
	svc, _, fix := setup(t)
	ctx := context.Background()

	in := selectInput(fix.Product.ID, "size", "S", "M", "L")
	in.SortOrder = 2
	mustCreate(t, svc, fix.Owner.ID, in)

	in = selectInput(fix.Product.ID, "color", "red", "blue")
	in.SortOrder = 1
	mustCreate(t, svc, fix.Owner.ID, in)

	off := false
	mustCreate(t, svc, fix.Owner.ID, attributes.CreateInput{
		ProductID: fix.Product.ID, Key: "care", Label: "Care",
		Type: models.AttributeTypeText, IsVariantDefining: &off,
	})

	axes := svc.CombinableOptions(ctx, fix.Product.ID)
	require.Len(t, axes, 2)
	assert.Equal(t, combinations.Axis{Key: "color", Values: []string{"red", "blue"}}, axes[0])
	assert.Equal(t, combinations.Axis{Key: "size", Values: []string{"S", "M", "L"}}, axes[1])

	// feeds the generator directly
	assert.Len(t, combinations.Generate(axes), 6)
}

func TestAuthorizationOnMutations(t *testing.T) {
	svc, _, fix := setup(t)
	ctx := context.Background()

	schema := mustCreate(t, svc, fix.Owner.ID, selectInput(fix.Product.ID, "color", "red"))

	label := "x"
	cases := map[string]func(actorID string) error{
		"create": func(actorID string) error {
			_, err := svc.Create(ctx, actorID, selectInput(fix.Product.ID, "size", "S"))
			return err
		},
		"update": func(actorID string) error {
			_, err := svc.Update(ctx, actorID, schema.ID, attributes.UpdateInput{Label: &label})
			return err
		},
		"delete": func(actorID string) error {
			return svc.Delete(ctx, actorID, schema.ID)
		},
		"add option": func(actorID string) error {
			_, err := svc.AddOption(ctx, actorID, schema.ID, models.AttributeOption{Value: "green", Label: "Green"})
			return err
		},
		"remove option": func(actorID string) error {
			_, err := svc.RemoveOption(ctx, actorID, schema.ID, "red")
			return err
		},
		"reorder": func(actorID string) error {
			return svc.ReorderBulk(ctx, actorID, []attributes.ReorderItem{{ID: schema.ID, SortOrder: 3}})
		},
	}

	for name, op := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, op(fix.Stranger.ID), attributes.ErrAccessDenied, "stranger")
			assert.ErrorIs(t, op(""), attributes.ErrAccessDenied, "anonymous")
		})
	}

	// a nonexistent product is indistinguishable from a foreign one
	_, err := svc.Create(ctx, fix.Owner.ID, selectInput("00000000-0000-0000-0000-000000000000", "size", "S"))
	assert.ErrorIs(t, err, attributes.ErrAccessDenied)
}

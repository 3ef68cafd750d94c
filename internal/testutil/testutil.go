// Package testutil provides an in-memory database and seeded ownership chain
// for service and handler tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"curator/internal/logger"
	"curator/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB opens a fresh in-memory sqlite database migrated with all models. A
// single connection is used so concurrent service calls serialize instead of
// hitting sqlite lock errors.
func DB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func Logger(t *testing.T) *logger.Logger {
	t.Helper()
	return logger.NewNop()
}

// Fixture is a complete ownership chain: owner -> brand -> catalog -> product,
// plus a second user who owns nothing.
type Fixture struct {
	Owner    models.User
	Stranger models.User
	Brand    models.Brand
	Catalog  models.ProductCatalog
	Product  models.Product
}

func Seed(t *testing.T, db *gorm.DB) Fixture {
	t.Helper()

	owner := models.User{Email: "owner@example.com", Name: "Owner"}
	require.NoError(t, db.Create(&owner).Error)
	stranger := models.User{Email: "stranger@example.com", Name: "Stranger"}
	require.NoError(t, db.Create(&stranger).Error)

	brand := models.Brand{UserID: owner.ID, Name: "Northwind", Slug: "northwind"}
	require.NoError(t, db.Create(&brand).Error)
	catalog := models.ProductCatalog{BrandID: brand.ID, Name: "Apparel"}
	require.NoError(t, db.Create(&catalog).Error)
	product := SeedProduct(t, db, catalog.ID, "TEE-001")

	return Fixture{Owner: owner, Stranger: stranger, Brand: brand, Catalog: catalog, Product: product}
}

func SeedProduct(t *testing.T, db *gorm.DB, catalogID, sku string) models.Product {
	t.Helper()

	product := models.Product{CatalogID: catalogID, SKU: sku, Title: "Product " + sku, Price: 19.90}
	require.NoError(t, db.Create(&product).Error)
	return product
}

package database

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"catalog/internal/models"
)

// SchemaMigration records an applied migration version.
type SchemaMigration struct {
	Version   uint   `gorm:"primaryKey;autoIncrement:false"`
	Name      string `gorm:"type:varchar(120);not null"`
	AppliedAt time.Time
}

// TableName returns the table name for SchemaMigration.
func (SchemaMigration) TableName() string {
	return "schema_migrations"
}

// Migration is one schema step. Steps run in Version order, each in its own
// transaction, and are never re-run once recorded.
type Migration struct {
	Version uint
	Name    string
	Up      func(tx *gorm.DB) error
}

// Migrations is the ordered list of schema steps of the catalog.
var Migrations = []Migration{
	{
		Version: 1,
		Name:    "create_users",
		Up: func(tx *gorm.DB) error {
			return tx.Migrator().CreateTable(&models.User{})
		},
	},
	{
		Version: 2,
		Name:    "create_categories",
		Up: func(tx *gorm.DB) error {
			return tx.Migrator().CreateTable(&models.Category{})
		},
	},
	{
		Version: 3,
		Name:    "create_products",
		Up: func(tx *gorm.DB) error {
			return tx.Migrator().CreateTable(&models.Product{})
		},
	},
	{
		Version: 4,
		Name:    "create_product_categories",
		Up: func(tx *gorm.DB) error {
			return tx.Migrator().CreateTable(&models.ProductCategory{})
		},
	},
}

// Migrate applies every migration that schema_migrations does not list yet.
func Migrate(ctx context.Context, db *gorm.DB) error {
	return migrate(ctx, db, Migrations)
}

func migrate(ctx context.Context, db *gorm.DB, steps []Migration) error {
	db = db.WithContext(ctx)
	if err := db.AutoMigrate(&SchemaMigration{}); err != nil {
		return fmt.Errorf("failed to prepare schema_migrations: %w", err)
	}

	var applied []SchemaMigration
	if err := db.Find(&applied).Error; err != nil {
		return fmt.Errorf("failed to read schema_migrations: %w", err)
	}
	done := make(map[uint]bool, len(applied))
	for _, m := range applied {
		done[m.Version] = true
	}

	for _, step := range steps {
		if done[step.Version] {
			continue
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := step.Up(tx); err != nil {
				return err
			}
			return tx.Create(&SchemaMigration{
				Version:   step.Version,
				Name:      step.Name,
				AppliedAt: time.Now().UTC(),
			}).Error
		})
		if err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", step.Version, step.Name, err)
		}
		zap.L().Info("migration applied", zap.Uint("version", step.Version), zap.String("name", step.Name))
	}
	return nil
}

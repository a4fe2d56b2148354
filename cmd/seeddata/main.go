// seeddata creates an admin user and a small sample catalog so a fresh
// installation is usable immediately. Safe to re-run: it skips anything
// that already exists.
package main

import (
	"context"
	"os"

	"clinistock/internal/config"
	"clinistock/internal/infra"
	"clinistock/internal/model"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	ctx := context.Background()
	seedAdmin(ctx, db)
	seedCatalog(ctx, db)
	log.Info().Msg("seed complete")
}

func seedAdmin(ctx context.Context, db *gorm.DB) {
	var count int64
	if err := db.WithContext(ctx).Model(&model.User{}).Where("username = ?", "admin").Count(&count).Error; err != nil {
		log.Fatal().Err(err).Msg("check admin user")
	}
	if count > 0 {
		log.Info().Msg("admin user exists, skipping")
		return
	}

	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "changeme1"
		log.Warn().Msg("SEED_ADMIN_PASSWORD not set, using default — change it")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("hash password")
	}

	admin := model.User{
		Username:     "admin",
		Name:         "Administrator",
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		Active:       true,
	}
	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		log.Fatal().Err(err).Msg("create admin user")
	}
	log.Info().Msg("admin user created")
}

func seedCatalog(ctx context.Context, db *gorm.DB) {
	var count int64
	if err := db.WithContext(ctx).Model(&model.Item{}).Count(&count).Error; err != nil {
		log.Fatal().Err(err).Msg("check items")
	}
	if count > 0 {
		log.Info().Msg("catalog not empty, skipping sample data")
		return
	}

	supplier := model.Supplier{
		Name:      "Sample Medical Supply Co.",
		FaxNumber: "00-0000-0000",
	}
	if err := db.WithContext(ctx).Create(&supplier).Error; err != nil {
		log.Fatal().Err(err).Msg("create sample supplier")
	}

	ten := 10
	items := []model.Item{
		{Name: "Sterile gauze (10x10cm)", UnitType: model.UnitTypeBox, ItemsPerBox: &ten, MinimumStock: 5, CurrentStock: 20, SupplierID: &supplier.ID},
		{Name: "Nitrile gloves M", UnitType: model.UnitTypeBox, ItemsPerBox: &ten, MinimumStock: 3, CurrentStock: 10, SupplierID: &supplier.ID},
		{Name: "Alcohol swabs", UnitType: model.UnitTypeIndividual, MinimumStock: 30, CurrentStock: 100, SupplierID: &supplier.ID},
		{Name: "Syringe 10ml", UnitType: model.UnitTypeIndividual, MinimumStock: 10, CurrentStock: 50, SupplierID: &supplier.ID},
		{Name: "Urinary catheter 14Fr", UnitType: model.UnitTypeIndividual, MinimumStock: 5, CurrentStock: 15, SupplierID: &supplier.ID},
	}
	for i := range items {
		if err := db.WithContext(ctx).Create(&items[i]).Error; err != nil {
			log.Fatal().Err(err).Str("item", items[i].Name).Msg("create sample item")
		}
	}
	log.Info().Int("items", len(items)).Msg("sample catalog created")
}

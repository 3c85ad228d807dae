package database

import (
	"fmt"
	"os"

	"freight-posting/database/seeders"
	"freight-posting/logger"
	"freight-posting/models/contract"
	"freight-posting/models/log"
	"freight-posting/models/parcel"
	"freight-posting/models/post"
	"freight-posting/models/user"
	"freight-posting/models/wallet"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB initializes the database connection with auto migration and indexing
func InitDB() (*gorm.DB, error) {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		logger.Error("Error loading .env file", err)
	}

	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	database := os.Getenv("DB_DATABASE")
	username := os.Getenv("DB_USERNAME")
	password := os.Getenv("DB_PASSWORD")
	sslmode := os.Getenv("DB_SSLMODE")

	if sslmode == "" {
		sslmode = "disable"
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, username, password, database, sslmode)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return nil, err
	}
	logger.Success("Successfully connected to the database")

	if err := autoMigrate(); err != nil {
		logger.Error("Failed to run migrations", err)
		return nil, err
	}
	logger.Success("All migrations completed successfully")

	if err := createIndexes(); err != nil {
		logger.Error("Failed to create indexes", err)
		return nil, err
	}
	logger.Success("All indexes created successfully")

	seeders.SeedContractTemplates(DB)

	return DB, nil
}

// autoMigrate runs auto migration for all models in dependency order.
func autoMigrate() error {
	// Stage 1: core foundation models
	stage1Models := []interface{}{
		&user.User{},
	}

	for _, model := range stage1Models {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 2: models that reference users
	stage2Models := []interface{}{
		&parcel.Package{},
		&wallet.Wallet{},
		&post.FreightPost{},
		&contract.ContractTemplate{},
	}

	for _, model := range stage2Models {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 3: join tables, audit trails and logging
	remainingModels := []interface{}{
		&post.PostPackage{},
		&post.PostStatusEvent{},
		&wallet.Transaction{},
		&log.Log{},
	}

	for _, model := range remainingModels {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	return nil
}

// createIndexes creates additional indexes for better performance
func createIndexes() error {
	// Post indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_freight_posts_provider_id ON freight_posts(provider_id)").Error; err != nil {
		return fmt.Errorf("failed to create post provider_id index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_freight_posts_status ON freight_posts(status)").Error; err != nil {
		return fmt.Errorf("failed to create post status index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_freight_posts_created_at ON freight_posts(created_at)").Error; err != nil {
		return fmt.Errorf("failed to create post created_at index: %w", err)
	}

	// Status event indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_post_status_events_post_id ON post_status_events(post_id)").Error; err != nil {
		return fmt.Errorf("failed to create status event post_id index: %w", err)
	}

	// Wallet and transaction indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_wallets_user_id ON wallets(user_id)").Error; err != nil {
		return fmt.Errorf("failed to create wallet user_id index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_wallet_transactions_wallet_id ON wallet_transactions(wallet_id)").Error; err != nil {
		return fmt.Errorf("failed to create transaction wallet_id index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_wallet_transactions_post_id ON wallet_transactions(post_id)").Error; err != nil {
		return fmt.Errorf("failed to create transaction post_id index: %w", err)
	}

	// Package indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_packages_provider_id ON packages(provider_id)").Error; err != nil {
		return fmt.Errorf("failed to create package provider_id index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_packages_status ON packages(status)").Error; err != nil {
		return fmt.Errorf("failed to create package status index: %w", err)
	}

	// Contract template indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_contract_templates_type_version ON contract_templates(type, version)").Error; err != nil {
		return fmt.Errorf("failed to create contract template type_version index: %w", err)
	}

	// Log indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_logs_status_code ON logs(status_code)").Error; err != nil {
		return fmt.Errorf("failed to create log status_code index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_logs_created_at ON logs(created_at)").Error; err != nil {
		return fmt.Errorf("failed to create log created_at index: %w", err)
	}

	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

package config

import (
	"log"
	"time"

	"adcontrol/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB initializes the database connection
func InitDB() {
	settings := LoadSettings()

	db, err := gorm.Open(postgres.Open(settings.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("Failed to get database instance:", err)
	}

	sqlDB.SetMaxIdleConns(50)
	sqlDB.SetMaxOpenConns(200)
	sqlDB.SetConnMaxLifetime(time.Hour)

	DB = db

	// Auto migrate all models
	err = DB.AutoMigrate(
		&models.Project{},
		&models.Channel{},
		&models.ProjectChannel{},
		&models.Operator{},
		&models.OperatorSalary{},
		&models.AdSpendDaily{},
		&models.LedgerTransaction{},
		&models.Reconciliation{},
		&models.MonthlyProjectPerformance{},
		&models.MonthlyOperatorPerformance{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}
}

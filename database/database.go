package database

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/humptydumpty-git/SCMS/config"
	"github.com/humptydumpty-git/SCMS/models"
)

var DB *gorm.DB

func Connect(cfg *config.Config) {
	// TranslateError → ชน unique index แล้วได้ gorm.ErrDuplicatedKey ทุก driver
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	DB = db

	if err := Migrate(DB); err != nil {
		log.Fatalf("auto migrate failed: %v", err)
	}
}

// Migrate แยกออกมาให้ test เรียกกับ DB ของตัวเองได้
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Student{},
		&models.Fee{},
	)
}

package storage

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"soraifarm/internal/models"
)

// NewSQLite opens (or creates) the database at filepath and migrates the
// schema. Use ":memory:" in tests.
func NewSQLite(filepath string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(filepath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Land{},
		&models.Recipe{},
		&models.EducationModule{},
	); err != nil {
		return err
	}
	return seedEducation(db)
}

// seedEducation inserts the built-in library modules once.
func seedEducation(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.EducationModule{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	modules := []models.EducationModule{
		{
			Title:       "Dasar Budidaya Sorgum",
			Description: "Persiapan lahan, jarak tanam, dan pemilihan benih untuk pemula.",
			Category:    "Cultivation",
			Duration:    "15 mnt",
			Level:       "Beginner",
		},
		{
			Title:       "Pemupukan Berimbang",
			Description: "Dosis urea dan NPK bertahap untuk potensi hasil maksimal.",
			Category:    "Cultivation",
			Duration:    "10 mnt",
			Level:       "Beginner",
		},
		{
			Title:       "Pengendalian Hama Burung",
			Description: "Teknik jaring dan pengusir untuk melindungi malai menjelang panen.",
			Category:    "Cultivation",
			Duration:    "12 mnt",
			Level:       "Intermediate",
		},
		{
			Title:       "Panen dan Pascapanen",
			Description: "Penentuan waktu panen, perontokan, dan pengeringan biji.",
			Category:    "Post-Harvest",
			Duration:    "18 mnt",
			Level:       "Intermediate",
		},
		{
			Title:       "Olahan Bernilai Tambah",
			Description: "Tepung, beras sorgum, dan silase sebagai produk turunan.",
			Category:    "Post-Harvest",
			Duration:    "20 mnt",
			Level:       "Advanced",
		},
	}
	return db.Create(&modules).Error
}

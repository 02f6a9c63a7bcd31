package model

import "gorm.io/gorm"

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Project{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&File{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&Segment{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&TM{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&TMEntry{}); err != nil {
		return err
	}

	return db.AutoMigrate(&Mount{})
}

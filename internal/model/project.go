package model

import (
	"encoding/json"

	"gorm.io/gorm"
)

type Project struct {
	gorm.Model
	ID      string `gorm:"primaryKey;uuid;not null;"`
	Name    string `gorm:"not null"`
	SrcLang string `gorm:"not null"`
	TgtLang string `gorm:"not null"`
	// Prompt is the free-form instruction handed to the AI translation
	// collaborator, kept on the project row.
	Prompt string
}

func (p *Project) MarshalBinary() ([]byte, error) {
	return json.Marshal(p)
}

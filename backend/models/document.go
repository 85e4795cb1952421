package models

import (
	"time"

	"gorm.io/datatypes"
)

// Document is one stored progress document. Data is a flat JSON object.
type Document struct {
	Path      string         `gorm:"primaryKey;size:512"`
	Data      datatypes.JSON `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time
}

func (Document) TableName() string { return "documents" }

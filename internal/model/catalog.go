package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Tag struct {
	ID   uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	Name string    `gorm:"size:200;not null;uniqueIndex" json:"name"`
	Slug string    `gorm:"size:200;not null;uniqueIndex" json:"slug"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

type Ingredient struct {
	ID              uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	Name            string    `gorm:"size:200;not null;uniqueIndex:idx_ingredient_name_unit" json:"name"`
	MeasurementUnit string    `gorm:"size:200;not null;uniqueIndex:idx_ingredient_name_unit" json:"measurement_unit"`
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/sabaispa/sabai/pkg/i18n"
)

// Treatment is a bookable spa service.
type Treatment struct {
	ID              snowflake.ID `gorm:"primaryKey" json:"id"`
	Slug            string       `gorm:"not null;uniqueIndex" json:"slug"`
	Name            i18n.Text    `gorm:"type:jsonb;not null" json:"name"`
	Description     i18n.Text    `gorm:"type:jsonb" json:"description,omitempty"`
	Price           int64        `gorm:"not null" json:"price"`
	DurationMinutes int          `gorm:"not null" json:"duration_minutes"`
	Active          bool         `gorm:"not null;default:true" json:"active"`
	CreatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Addon is an optional extra attached to a treatment.
type Addon struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	TreatmentID snowflake.ID `gorm:"not null;index" json:"treatment_id"`
	Slug        string       `gorm:"not null;uniqueIndex" json:"slug"`
	Name        i18n.Text    `gorm:"type:jsonb;not null" json:"name"`
	Price       int64        `gorm:"not null" json:"price"`
	Active      bool         `gorm:"not null;default:true" json:"active"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Product is a shop item with a non-negative stock counter.
type Product struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Slug      string       `gorm:"not null;uniqueIndex" json:"slug"`
	Name      i18n.Text    `gorm:"type:jsonb;not null" json:"name"`
	Price     int64        `gorm:"not null" json:"price"`
	Stock     int64        `gorm:"not null;default:0" json:"stock"`
	Active    bool         `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

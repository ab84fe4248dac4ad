package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is customer feedback shown on the public landing page.
type Review struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ReviewerName  string    `gorm:"column:reviewer_name;not null"`
	ReviewerEmail string    `gorm:"column:reviewer_email;not null"`
	Rating        int       `gorm:"column:rating;not null"`
	Comment       string    `gorm:"column:comment;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}

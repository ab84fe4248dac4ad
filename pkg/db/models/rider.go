package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/parcelpoint/courier-backend/pkg/enums"
)

// Rider is a delivery agent recruited per district. Earnings accrue on
// delivery and settle on cashout, both in integer currency units.
type Rider struct {
	ID                  uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name                string            `gorm:"column:name;not null"`
	Email               string            `gorm:"column:email;uniqueIndex;not null"`
	Phone               string            `gorm:"column:phone;not null"`
	Region              string            `gorm:"column:region;not null"`
	District            string            `gorm:"column:district;index;not null"`
	VehicleType         string            `gorm:"column:vehicle_type;not null"`
	VehicleRegistration string            `gorm:"column:vehicle_registration;not null"`
	Status              enums.RiderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	TotalEarnings       int               `gorm:"column:total_earnings;not null;default:0"`
	SettledEarnings     int               `gorm:"column:settled_earnings;not null;default:0"`
	CreatedAt           time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

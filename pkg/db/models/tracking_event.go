package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/parcelpoint/courier-backend/pkg/enums"
)

// TrackingEvent is an immutable ledger entry for a parcel status change.
// Linked to parcels by tracking code convention only; there is no FK.
type TrackingEvent struct {
	ID           uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TrackingCode string               `gorm:"column:tracking_code;index;not null"`
	Status       enums.TrackingStatus `gorm:"column:status;type:text;not null"`
	Message      string               `gorm:"column:message;not null"`
	Location     *string              `gorm:"column:location"`
	CreatedAt    time.Time            `gorm:"column:created_at;autoCreateTime"`
}

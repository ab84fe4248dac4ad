package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentRecord stores a confirmed external charge. Exactly one record exists
// per paid parcel; the amount always equals the parcel's stored cost.
type PaymentRecord struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ParcelID      uuid.UUID `gorm:"column:parcel_id;type:uuid;uniqueIndex;not null"`
	PayerEmail    string    `gorm:"column:payer_email;index;not null"`
	Amount        int       `gorm:"column:amount;not null"`
	TransactionID string    `gorm:"column:transaction_id;uniqueIndex;not null"`
	PaymentMethod string    `gorm:"column:payment_method;not null"`
	PaidAt        time.Time `gorm:"column:paid_at;autoCreateTime"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/parcelpoint/courier-backend/pkg/enums"
)

// Parcel is a single shipment booking. The cost columns hold the server-side
// recomputed breakdown; the client-proposed total is never persisted.
type Parcel struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TrackingCode string           `gorm:"column:tracking_code;uniqueIndex;not null"`
	Type         enums.ParcelType `gorm:"column:parcel_type;type:text;not null"`
	WeightKG     decimal.Decimal  `gorm:"column:weight_kg;type:numeric(10,2);not null;default:0"`

	SenderName       string `gorm:"column:sender_name;not null"`
	SenderContact    string `gorm:"column:sender_contact;not null"`
	SenderRegion     string `gorm:"column:sender_region;not null"`
	SenderDistrict   string `gorm:"column:sender_district;not null"`
	SenderAddress    string `gorm:"column:sender_address;not null"`
	ReceiverName     string `gorm:"column:receiver_name;not null"`
	ReceiverContact  string `gorm:"column:receiver_contact;not null"`
	ReceiverRegion   string `gorm:"column:receiver_region;not null"`
	ReceiverDistrict string `gorm:"column:receiver_district;not null"`
	ReceiverAddress  string `gorm:"column:receiver_address;not null"`

	CostBase   int `gorm:"column:cost_base;not null"`
	CostWeight int `gorm:"column:cost_weight;not null;default:0"`
	CostRegion int `gorm:"column:cost_region;not null;default:0"`
	CostTotal  int `gorm:"column:cost_total;not null"`

	DeliveryStatus enums.DeliveryStatus `gorm:"column:delivery_status;type:text;not null;default:'not-collected'"`
	PaymentStatus  enums.PaymentStatus  `gorm:"column:payment_status;type:text;not null;default:'unpaid'"`
	CashoutStatus  enums.CashoutStatus  `gorm:"column:cashout_status;type:text;not null;default:'none'"`

	CreatorEmail  string     `gorm:"column:creator_email;index;not null"`
	RiderID       *uuid.UUID `gorm:"column:rider_id;type:uuid;index"`
	Rider         *Rider     `gorm:"foreignKey:RiderID"`
	EarningAmount *int       `gorm:"column:earning_amount"`

	AssignedAt  *time.Time `gorm:"column:assigned_at"`
	PickedUpAt  *time.Time `gorm:"column:picked_up_at"`
	DeliveredAt *time.Time `gorm:"column:delivered_at"`
	CashedOutAt *time.Time `gorm:"column:cashed_out_at"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// SameRegion reports whether sender and receiver share a region, which
// qualifies the parcel for the lower base price.
func (p Parcel) SameRegion() bool {
	return p.SenderRegion == p.ReceiverRegion
}

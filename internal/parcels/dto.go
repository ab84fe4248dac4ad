package parcels

import (
	"github.com/shopspring/decimal"

	"github.com/parcelpoint/courier-backend/pkg/db/models"
	"github.com/parcelpoint/courier-backend/pkg/enums"
)

// PartyInput carries one side of the shipment.
type PartyInput struct {
	Name     string
	Contact  string
	Region   string
	District string
	Address  string
}

// CreateParcelInput captures a booking request. ProposedCost is the total the
// client previewed; creation fails when it differs from the recomputed quote.
type CreateParcelInput struct {
	Type         enums.ParcelType
	WeightKG     decimal.Decimal
	Sender       PartyInput
	Receiver     PartyInput
	ProposedCost int
	CreatorEmail string
}

// ParcelPage is one cursor page of the admin parcel listing.
type ParcelPage struct {
	Parcels    []models.Parcel
	NextCursor string
}

// TrackResult bundles a parcel with its full ledger history.
type TrackResult struct {
	Parcel *models.Parcel
	Events []models.TrackingEvent
}

// RiderEarnings summarizes completed deliveries for one rider.
type RiderEarnings struct {
	Delivered []models.Parcel
	Total     int
	Settled   int
}

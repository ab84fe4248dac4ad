package controllers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/parcelpoint/courier-backend/pkg/db/models"
	"github.com/parcelpoint/courier-backend/pkg/enums"
)

type partyView struct {
	Name     string `json:"name"`
	Contact  string `json:"contact"`
	Region   string `json:"region"`
	District string `json:"district"`
	Address  string `json:"address"`
}

type costView struct {
	Base   int `json:"base"`
	Weight int `json:"weight"`
	Region int `json:"region"`
	Total  int `json:"total"`
}

type parcelView struct {
	ID             uuid.UUID            `json:"id"`
	TrackingCode   string               `json:"tracking_code"`
	Type           enums.ParcelType     `json:"type"`
	WeightKG       decimal.Decimal      `json:"weight_kg"`
	Sender         partyView            `json:"sender"`
	Receiver       partyView            `json:"receiver"`
	Cost           costView             `json:"cost"`
	DeliveryStatus enums.DeliveryStatus `json:"delivery_status"`
	PaymentStatus  enums.PaymentStatus  `json:"payment_status"`
	CashoutStatus  enums.CashoutStatus  `json:"cashout_status"`
	CreatorEmail   string               `json:"creator_email"`
	Rider          *riderView           `json:"rider,omitempty"`
	EarningAmount  *int                 `json:"earning_amount,omitempty"`
	AssignedAt     *time.Time           `json:"assigned_at,omitempty"`
	PickedUpAt     *time.Time           `json:"picked_up_at,omitempty"`
	DeliveredAt    *time.Time           `json:"delivered_at,omitempty"`
	CashedOutAt    *time.Time           `json:"cashed_out_at,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
}

func toParcelView(m models.Parcel) parcelView {
	view := parcelView{
		ID:           m.ID,
		TrackingCode: m.TrackingCode,
		Type:         m.Type,
		WeightKG:     m.WeightKG,
		Sender: partyView{
			Name:     m.SenderName,
			Contact:  m.SenderContact,
			Region:   m.SenderRegion,
			District: m.SenderDistrict,
			Address:  m.SenderAddress,
		},
		Receiver: partyView{
			Name:     m.ReceiverName,
			Contact:  m.ReceiverContact,
			Region:   m.ReceiverRegion,
			District: m.ReceiverDistrict,
			Address:  m.ReceiverAddress,
		},
		Cost: costView{
			Base:   m.CostBase,
			Weight: m.CostWeight,
			Region: m.CostRegion,
			Total:  m.CostTotal,
		},
		DeliveryStatus: m.DeliveryStatus,
		PaymentStatus:  m.PaymentStatus,
		CashoutStatus:  m.CashoutStatus,
		CreatorEmail:   m.CreatorEmail,
		EarningAmount:  m.EarningAmount,
		AssignedAt:     m.AssignedAt,
		PickedUpAt:     m.PickedUpAt,
		DeliveredAt:    m.DeliveredAt,
		CashedOutAt:    m.CashedOutAt,
		CreatedAt:      m.CreatedAt,
	}
	if m.Rider != nil {
		rv := toRiderView(*m.Rider)
		view.Rider = &rv
	}
	return view
}

func toParcelViews(parcels []models.Parcel) []parcelView {
	views := make([]parcelView, 0, len(parcels))
	for _, parcel := range parcels {
		views = append(views, toParcelView(parcel))
	}
	return views
}

type riderView struct {
	ID                  uuid.UUID         `json:"id"`
	Name                string            `json:"name"`
	Email               string            `json:"email"`
	Phone               string            `json:"phone"`
	Region              string            `json:"region"`
	District            string            `json:"district"`
	VehicleType         string            `json:"vehicle_type"`
	VehicleRegistration string            `json:"vehicle_registration"`
	Status              enums.RiderStatus `json:"status"`
	TotalEarnings       int               `json:"total_earnings"`
	SettledEarnings     int               `json:"settled_earnings"`
	CreatedAt           time.Time         `json:"created_at"`
}

func toRiderView(m models.Rider) riderView {
	return riderView{
		ID:                  m.ID,
		Name:                m.Name,
		Email:               m.Email,
		Phone:               m.Phone,
		Region:              m.Region,
		District:            m.District,
		VehicleType:         m.VehicleType,
		VehicleRegistration: m.VehicleRegistration,
		Status:              m.Status,
		TotalEarnings:       m.TotalEarnings,
		SettledEarnings:     m.SettledEarnings,
		CreatedAt:           m.CreatedAt,
	}
}

func toRiderViews(riders []models.Rider) []riderView {
	views := make([]riderView, 0, len(riders))
	for _, rider := range riders {
		views = append(views, toRiderView(rider))
	}
	return views
}

type trackingEventView struct {
	Status    enums.TrackingStatus `json:"status"`
	Message   string               `json:"message"`
	Location  *string              `json:"location,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

func toTrackingEventViews(events []models.TrackingEvent) []trackingEventView {
	views := make([]trackingEventView, 0, len(events))
	for _, event := range events {
		views = append(views, trackingEventView{
			Status:    event.Status,
			Message:   event.Message,
			Location:  event.Location,
			CreatedAt: event.CreatedAt,
		})
	}
	return views
}

type paymentView struct {
	ID            uuid.UUID `json:"id"`
	ParcelID      uuid.UUID `json:"parcel_id"`
	PayerEmail    string    `json:"payer_email"`
	Amount        int       `json:"amount"`
	TransactionID string    `json:"transaction_id"`
	PaymentMethod string    `json:"payment_method"`
	PaidAt        time.Time `json:"paid_at"`
}

func toPaymentView(m models.PaymentRecord) paymentView {
	return paymentView{
		ID:            m.ID,
		ParcelID:      m.ParcelID,
		PayerEmail:    m.PayerEmail,
		Amount:        m.Amount,
		TransactionID: m.TransactionID,
		PaymentMethod: m.PaymentMethod,
		PaidAt:        m.PaidAt,
	}
}

type userView struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	Role        enums.Role `json:"role"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toUserView(m models.User) userView {
	return userView{
		ID:          m.ID,
		Email:       m.Email,
		DisplayName: m.DisplayName,
		Role:        m.Role,
		CreatedAt:   m.CreatedAt,
	}
}

type reviewView struct {
	ID           uuid.UUID `json:"id"`
	ReviewerName string    `json:"reviewer_name"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"created_at"`
}

func toReviewViews(reviews []models.Review) []reviewView {
	views := make([]reviewView, 0, len(reviews))
	for _, review := range reviews {
		views = append(views, reviewView{
			ID:           review.ID,
			ReviewerName: review.ReviewerName,
			Rating:       review.Rating,
			Comment:      review.Comment,
			CreatedAt:    review.CreatedAt,
		})
	}
	return views
}

package models

import (
	"time"

	"github.com/google/uuid"
)

type SalesNote struct {
	NoteID            uuid.UUID `gorm:"type:uuid;primary_key" json:"noteId"`
	Folio             string    `gorm:"uniqueIndex;not null" json:"folio"`
	CustomerID        string    `gorm:"index;not null" json:"customerId"`
	BillingAddressID  string    `gorm:"not null" json:"billingAddressId"`
	ShippingAddressID string    `gorm:"not null" json:"shippingAddressId"`
	Total             float64   `gorm:"type:decimal(10,2);not null" json:"total"`
	CreatedAt         time.Time `json:"createdAt"`
}

type LineItem struct {
	ItemID    uuid.UUID `gorm:"type:uuid;primary_key" json:"itemId"`
	NoteID    uuid.UUID `gorm:"type:uuid;index;not null" json:"noteId"`
	ProductID string    `gorm:"not null" json:"productId"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	UnitPrice float64   `gorm:"type:decimal(10,2);not null" json:"unitPrice"`
	Amount    float64   `gorm:"type:decimal(10,2);not null" json:"amount"`
}

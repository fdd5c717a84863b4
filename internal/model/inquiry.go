package model

import "time"

// Inquiry lifecycle. The only transition the workflow performs is
// pending -> responded; "closed" exists for stored data but nothing
// moves an inquiry into it.
const (
	InquiryStatusPending   = "pending"
	InquiryStatusResponded = "responded"
	InquiryStatusClosed    = "closed"
)

// Inquiry is a tenant's message about one listing, optionally answered
// by the listing's agent. Response is non-empty exactly when the status
// has left pending.
type Inquiry struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ListingID uint      `json:"listing_id" gorm:"index;not null"`
	Listing   *Listing  `json:"listing,omitempty"`
	TenantID  uint      `json:"tenant_id" gorm:"index;not null"`
	Message   string    `json:"message" gorm:"type:text;not null"`
	Response  string    `json:"response" gorm:"type:text"`
	Status    string    `json:"status" gorm:"type:varchar(20);default:'pending'"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

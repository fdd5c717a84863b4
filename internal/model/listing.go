package model

import "time"

// Market status of a listing
const (
	MarketStatusForSale = "for_sale"
	MarketStatusForRent = "for_rent"
)

// Lifecycle status of a listing
const (
	ListingStatusActive  = "active"
	ListingStatusPending = "pending"
	ListingStatusSold    = "sold"
)

// Listing represents a property offered for sale or rent. CreatedByID is
// the immutable creator reference; AgentID is a weak association that is
// cleared when the agent record is removed.
type Listing struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	Title          string         `json:"title" gorm:"type:varchar(255);not null"`
	Description    string         `json:"description" gorm:"type:text"`
	Price          float64        `json:"price" gorm:"not null"`
	Address        string         `json:"address" gorm:"type:varchar(255)"`
	Location       string         `json:"location" gorm:"type:varchar(255)"`
	PropertyStatus string         `json:"property_status" gorm:"type:varchar(20);not null"`
	Bedrooms       int            `json:"bedrooms" gorm:"default:1"`
	Bathrooms      int            `json:"bathrooms" gorm:"default:1"`
	Area           int            `json:"area" gorm:"default:0"`
	PropertyTypeID *uint          `json:"property_type_id,omitempty"`
	PropertyType   *PropertyType  `json:"property_type,omitempty" gorm:"constraint:OnDelete:SET NULL"`
	Features       []Feature      `json:"features" gorm:"many2many:listing_features"`
	Images         []ListingImage `json:"images" gorm:"constraint:OnDelete:CASCADE"`
	AgentID        *uint          `json:"agent_id,omitempty"`
	Agent          *Agent         `json:"agent,omitempty" gorm:"constraint:OnDelete:SET NULL"`
	CreatedByID    uint           `json:"created_by" gorm:"index;not null"`
	Status         string         `json:"status" gorm:"type:varchar(20);default:'active'"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// ListingImage is an image URL attached to exactly one listing. Images
// go away with their listing.
type ListingImage struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ListingID uint      `json:"listing_id" gorm:"index;not null"`
	URL       string    `json:"image" gorm:"type:varchar(500);not null"`
	CreatedAt time.Time `json:"created_at"`
}

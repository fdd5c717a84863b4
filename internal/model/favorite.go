package model

import "time"

// Favorite marks a listing as saved by a user. The composite unique
// index is the store-level guarantee that a (user, listing) pair is
// never recorded twice.
type Favorite struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex:idx_favorite_user_listing;not null"`
	ListingID uint      `json:"listing_id" gorm:"uniqueIndex:idx_favorite_user_listing;not null"`
	Listing   *Listing  `json:"listing,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at"`
}

package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/internal/apperr"
	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/internal/model"
	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/internal/policy"
	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/pkg/database"
	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/pkg/logger"
	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const recommendationLimit = 5

// ListFavorites returns the caller's own favorites
func ListFavorites(c echo.Context) error {
	prometheus.RecordFavoriteOperation("list")

	actor := actorFromContext(c)
	if err := authorize(actor, policy.ActionRead, policy.ClassFavorite, nil); err != nil {
		return fail(c, err)
	}

	db := database.GetDB()
	var favorites []model.Favorite
	err := db.Preload("Listing").Preload("Listing.PropertyType").Preload("Listing.Images").
		Where("user_id = ?", actor.UserID).
		Order("created_at DESC").
		Find(&favorites).Error
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, favorites)
}

// AddFavorite saves a listing for the calling tenant. A second save of
// the same listing is a conflict, backed by the store's composite
// unique index.
func AddFavorite(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordFavoriteOperation("create")

	actor := actorFromContext(c)
	if err := authorize(actor, policy.ActionCreate, policy.ClassFavorite, nil); err != nil {
		return fail(c, err)
	}

	var req struct {
		ListingID uint `json:"listing_id"`
	}
	if err := c.Bind(&req); err != nil || req.ListingID == 0 {
		return fail(c, apperr.Validation("listing_id is required"))
	}

	db := database.GetDB()
	var listing model.Listing
	if err := db.First(&listing, req.ListingID).Error; err != nil {
		return fail(c, apperr.NotFound("listing not found"))
	}

	favorite := model.Favorite{UserID: actor.UserID, ListingID: listing.ID}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := db.Create(&favorite).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			log.Warn("Duplicate favorite",
				zap.Uint("user_id", actor.UserID),
				zap.Uint("listing_id", listing.ID))
			return fail(c, apperr.Conflict("listing is already in favorites"))
		}
		log.Error("Failed to create favorite", zap.Error(err))
		return fail(c, err)
	}

	log.Info("Favorite added",
		zap.Uint("user_id", actor.UserID),
		zap.Uint("listing_id", listing.ID))

	var out model.Favorite
	if err := db.Preload("Listing").First(&out, favorite.ID).Error; err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

// RemoveFavorite deletes one of the caller's favorites
func RemoveFavorite(c echo.Context) error {
	prometheus.RecordFavoriteOperation("delete")

	db := database.GetDB()
	var favorite model.Favorite
	if err := db.First(&favorite, c.Param("id")).Error; err != nil {
		return fail(c, apperr.NotFound("favorite not found"))
	}

	actor := actorFromContext(c)
	res := &policy.Resource{OwnerID: favorite.UserID}
	if err := authorize(actor, policy.ActionDelete, policy.ClassFavorite, res); err != nil {
		return fail(c, err)
	}

	if err := db.Delete(&favorite).Error; err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Favorite removed successfully"})
}

// RecommendedListings derives up to five suggestions for the calling
// tenant. With no favorites yet it falls back to the newest listings;
// otherwise it proposes the newest listings sharing a property type
// with the favorited ones, excluding those already favorited.
func RecommendedListings(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordFavoriteOperation("recommended")

	actor := actorFromContext(c)
	if err := authorize(actor, policy.ActionRecommend, policy.ClassFavorite, nil); err != nil {
		return fail(c, err)
	}

	db := database.GetDB()

	var favorites []model.Favorite
	if err := db.Preload("Listing").Where("user_id = ?", actor.UserID).Find(&favorites).Error; err != nil {
		return fail(c, err)
	}

	var listings []model.Listing
	if len(favorites) == 0 {
		if err := listingScope(db).Limit(recommendationLimit).Find(&listings).Error; err != nil {
			return fail(c, err)
		}
		return c.JSON(http.StatusOK, listings)
	}

	favoritedIDs := make([]uint, 0, len(favorites))
	typeIDs := make([]uint, 0, len(favorites))
	seenTypes := make(map[uint]bool)
	for _, favorite := range favorites {
		favoritedIDs = append(favoritedIDs, favorite.ListingID)
		if favorite.Listing != nil && favorite.Listing.PropertyTypeID != nil && !seenTypes[*favorite.Listing.PropertyTypeID] {
			seenTypes[*favorite.Listing.PropertyTypeID] = true
			typeIDs = append(typeIDs, *favorite.Listing.PropertyTypeID)
		}
	}

	if len(typeIDs) == 0 {
		log.Info("No property types across favorites", zap.Uint("user_id", actor.UserID))
		return c.JSON(http.StatusOK, []model.Listing{})
	}

	err := listingScope(db).
		Where("property_type_id IN ?", typeIDs).
		Where("id NOT IN ?", favoritedIDs).
		Limit(recommendationLimit).
		Find(&listings).Error
	if err != nil {
		return fail(c, err)
	}

	log.Info("Recommendations derived",
		zap.Uint("user_id", actor.UserID),
		zap.Int("count", len(listings)))
	return c.JSON(http.StatusOK, listings)
}

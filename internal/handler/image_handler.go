package handler

import (
	"net/http"

	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/internal/apperr"
	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/internal/model"
	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/internal/policy"
	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/pkg/database"
	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Images are URLs into the external blob store, attached to exactly one
// listing. Object-level mutations inherit the listing's ownership.

type imageRequest struct {
	ListingID uint   `json:"listing_id"`
	URL       string `json:"image"`
}

// ListImages returns images, optionally filtered by listing
func ListImages(c echo.Context) error {
	db := database.GetDB()
	query := db.Model(&model.ListingImage{})
	if listingID := c.QueryParam("listing"); listingID != "" {
		query = query.Where("listing_id = ?", listingID)
	}

	var images []model.ListingImage
	if err := query.Find(&images).Error; err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, images)
}

// GetImage returns one image record
func GetImage(c echo.Context) error {
	var image model.ListingImage
	if err := database.GetDB().First(&image, c.Param("id")).Error; err != nil {
		return fail(c, apperr.NotFound("image not found"))
	}
	return c.JSON(http.StatusOK, image)
}

// CreateImage attaches an image URL to a listing
func CreateImage(c echo.Context) error {
	log := logger.FromContext(c)

	actor := actorFromContext(c)
	if err := authorize(actor, policy.ActionCreate, policy.ClassImage, nil); err != nil {
		return fail(c, err)
	}

	var req imageRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, apperr.Validation("invalid request"))
	}
	if req.ListingID == 0 || req.URL == "" {
		return fail(c, apperr.Validation("listing_id and image are required"))
	}

	db := database.GetDB()
	var listing model.Listing
	if err := db.First(&listing, req.ListingID).Error; err != nil {
		return fail(c, apperr.NotFound("listing not found"))
	}

	image := model.ListingImage{ListingID: listing.ID, URL: req.URL}
	if err := db.Create(&image).Error; err != nil {
		log.Error("Failed to create image", zap.Uint("listing_id", listing.ID), zap.Error(err))
		return fail(c, err)
	}

	return c.JSON(http.StatusCreated, image)
}

// UpdateImage replaces the URL of an image
func UpdateImage(c echo.Context) error {
	db := database.GetDB()

	var image model.ListingImage
	if err := db.First(&image, c.Param("id")).Error; err != nil {
		return fail(c, apperr.NotFound("image not found"))
	}

	res, err := imageResource(db, &image)
	if err != nil {
		return fail(c, err)
	}
	actor, err := actorWithAgent(c, db)
	if err != nil {
		return fail(c, err)
	}
	if err := authorize(actor, policy.ActionUpdate, policy.ClassImage, res); err != nil {
		return fail(c, err)
	}

	var req imageRequest
	if err := c.Bind(&req); err != nil || req.URL == "" {
		return fail(c, apperr.Validation("image is required"))
	}

	image.URL = req.URL
	if err := db.Save(&image).Error; err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, image)
}

// DeleteImage removes an image from a listing
func DeleteImage(c echo.Context) error {
	db := database.GetDB()

	var image model.ListingImage
	if err := db.First(&image, c.Param("id")).Error; err != nil {
		return fail(c, apperr.NotFound("image not found"))
	}

	res, err := imageResource(db, &image)
	if err != nil {
		return fail(c, err)
	}
	actor, err := actorWithAgent(c, db)
	if err != nil {
		return fail(c, err)
	}
	if err := authorize(actor, policy.ActionDelete, policy.ClassImage, res); err != nil {
		return fail(c, err)
	}

	if err := db.Delete(&image).Error; err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Image deleted successfully"})
}

// imageResource derives the ownership facts of an image from its parent
// listing.
func imageResource(db *gorm.DB, image *model.ListingImage) (*policy.Resource, error) {
	var listing model.Listing
	if err := db.First(&listing, image.ListingID).Error; err != nil {
		return nil, apperr.NotFound("listing not found")
	}
	return &policy.Resource{OwnerID: listing.CreatedByID, AgentID: listing.AgentID}, nil
}

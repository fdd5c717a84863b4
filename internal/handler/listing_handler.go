package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/internal/apperr"
	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/internal/model"
	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/internal/policy"
	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/internal/provision"
	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/pkg/database"
	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/pkg/logger"
	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ListingRequest defines the structure for listing creation/update requests
type ListingRequest struct {
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Price          float64 `json:"price"`
	Address        string  `json:"address"`
	Location       string  `json:"location"`
	PropertyStatus string  `json:"property_status"`
	Bedrooms       int     `json:"bedrooms"`
	Bathrooms      int     `json:"bathrooms"`
	Area           int     `json:"area"`
	PropertyTypeID *uint   `json:"property_type_id"`
	FeatureIDs     []uint  `json:"feature_ids"`
	Status         string  `json:"status"`
}

func (r *ListingRequest) validate() error {
	if r.Title == "" {
		return apperr.Validation("title is required")
	}
	if r.Price < 0 {
		return apperr.Validation("price must not be negative")
	}
	if r.PropertyStatus != model.MarketStatusForSale && r.PropertyStatus != model.MarketStatusForRent {
		return apperr.Validation("property_status must be for_sale or for_rent")
	}
	return nil
}

// ListListings handles retrieving listings with optional filtering. All
// filters are AND-combined; the default order is newest first.
func ListListings(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordListingOperation("list")

	db := database.GetDB()
	query := listingScope(db)

	if propertyType := c.QueryParam("property_type"); propertyType != "" {
		query = query.Where("property_type_id = ?", propertyType)
	}
	if minPrice := c.QueryParam("min_price"); minPrice != "" {
		v, err := strconv.ParseFloat(minPrice, 64)
		if err != nil {
			return fail(c, apperr.Validation("min_price must be a number"))
		}
		query = query.Where("price >= ?", v)
	}
	if maxPrice := c.QueryParam("max_price"); maxPrice != "" {
		v, err := strconv.ParseFloat(maxPrice, 64)
		if err != nil {
			return fail(c, apperr.Validation("max_price must be a number"))
		}
		query = query.Where("price <= ?", v)
	}
	if bedrooms := c.QueryParam("bedrooms"); bedrooms != "" {
		v, err := strconv.Atoi(bedrooms)
		if err != nil {
			return fail(c, apperr.Validation("bedrooms must be a number"))
		}
		query = query.Where("bedrooms >= ?", v)
	}
	if bathrooms := c.QueryParam("bathrooms"); bathrooms != "" {
		v, err := strconv.Atoi(bathrooms)
		if err != nil {
			return fail(c, apperr.Validation("bathrooms must be a number"))
		}
		query = query.Where("bathrooms >= ?", v)
	}
	if search := c.QueryParam("search"); search != "" {
		query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if marketStatus := c.QueryParam("property_status"); marketStatus != "" {
		query = query.Where("property_status = ?", marketStatus)
	}
	if agentID := c.QueryParam("agent"); agentID != "" {
		query = query.Where("agent_id = ?", agentID)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var listings []model.Listing
	if err := query.Find(&listings).Error; err != nil {
		log.Error("Failed to list listings", zap.Error(err))
		return fail(c, err)
	}

	log.Info("Listings retrieved", zap.Int("count", len(listings)))
	return c.JSON(http.StatusOK, listings)
}

// GetListing handles retrieving a single listing by ID
func GetListing(c echo.Context) error {
	prometheus.RecordListingOperation("retrieve")
	db := database.GetDB()

	var listing model.Listing
	if err := listingScope(db).First(&listing, c.Param("id")).Error; err != nil {
		return fail(c, apperr.NotFound("listing not found"))
	}

	return c.JSON(http.StatusOK, listing)
}

// CreateListing creates a listing owned by the calling agent. The
// actor's agent record is attached when it can be resolved; a
// provisioning hiccup leaves the listing without an agent rather than
// blocking the create.
func CreateListing(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordListingOperation("create")

	actor := actorFromContext(c)
	if err := authorize(actor, policy.ActionCreate, policy.ClassListing, nil); err != nil {
		return fail(c, err)
	}

	var req ListingRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, apperr.Validation("invalid request"))
	}
	if err := req.validate(); err != nil {
		return fail(c, err)
	}

	db := database.GetDB()

	listing := model.Listing{
		Title:          req.Title,
		Description:    req.Description,
		Price:          req.Price,
		Address:        req.Address,
		Location:       req.Location,
		PropertyStatus: req.PropertyStatus,
		Bedrooms:       req.Bedrooms,
		Bathrooms:      req.Bathrooms,
		Area:           req.Area,
		CreatedByID:    actor.UserID,
		Status:         req.Status,
	}
	if listing.Status == "" {
		listing.Status = model.ListingStatusActive
	}

	if req.PropertyTypeID != nil {
		var propertyType model.PropertyType
		if err := db.First(&propertyType, *req.PropertyTypeID).Error; err != nil {
			return fail(c, apperr.Validation("unknown property type"))
		}
		listing.PropertyTypeID = req.PropertyTypeID
	}

	features, err := featuresByIDs(db, req.FeatureIDs)
	if err != nil {
		return fail(c, err)
	}
	listing.Features = features

	// Attach the creator's agent record, re-provisioning it if it went
	// missing. Failure to resolve is logged, not fatal.
	if agent := resolveOwnAgent(c, db, actor.UserID); agent != nil {
		listing.AgentID = &agent.ID
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := db.Create(&listing).Error; err != nil {
		log.Error("Failed to create listing", zap.String("title", req.Title), zap.Error(err))
		return fail(c, err)
	}

	log.Info("Listing created",
		zap.Uint("listing_id", listing.ID),
		zap.String("title", listing.Title),
		zap.Uint("created_by", listing.CreatedByID))

	var out model.Listing
	if err := listingScope(db).First(&out, listing.ID).Error; err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

// UpdateListing updates a listing owned by the caller
func UpdateListing(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordListingOperation("update")

	db := database.GetDB()

	var listing model.Listing
	if err := db.First(&listing, c.Param("id")).Error; err != nil {
		return fail(c, apperr.NotFound("listing not found"))
	}

	actor, err := actorWithAgent(c, db)
	if err != nil {
		return fail(c, err)
	}
	res := &policy.Resource{OwnerID: listing.CreatedByID, AgentID: listing.AgentID}
	if err := authorize(actor, policy.ActionUpdate, policy.ClassListing, res); err != nil {
		return fail(c, err)
	}

	var req ListingRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, apperr.Validation("invalid request"))
	}
	if err := req.validate(); err != nil {
		return fail(c, err)
	}

	listing.Title = req.Title
	listing.Description = req.Description
	listing.Price = req.Price
	listing.Address = req.Address
	listing.Location = req.Location
	listing.PropertyStatus = req.PropertyStatus
	listing.Bedrooms = req.Bedrooms
	listing.Bathrooms = req.Bathrooms
	listing.Area = req.Area
	if req.Status != "" {
		listing.Status = req.Status
	}
	if req.PropertyTypeID != nil {
		var propertyType model.PropertyType
		if err := db.First(&propertyType, *req.PropertyTypeID).Error; err != nil {
			return fail(c, apperr.Validation("unknown property type"))
		}
		listing.PropertyTypeID = req.PropertyTypeID
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := db.Save(&listing).Error; err != nil {
		log.Error("Failed to update listing", zap.Uint("listing_id", listing.ID), zap.Error(err))
		return fail(c, err)
	}

	if req.FeatureIDs != nil {
		features, err := featuresByIDs(db, req.FeatureIDs)
		if err != nil {
			return fail(c, err)
		}
		if err := db.Model(&listing).Association("Features").Replace(features); err != nil {
			log.Error("Failed to update listing features", zap.Uint("listing_id", listing.ID), zap.Error(err))
			return fail(c, err)
		}
	}

	log.Info("Listing updated", zap.Uint("listing_id", listing.ID), zap.String("title", listing.Title))

	var out model.Listing
	if err := listingScope(db).First(&out, listing.ID).Error; err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// DeleteListing deletes a listing with its images and favorites
func DeleteListing(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordListingOperation("delete")

	db := database.GetDB()

	var listing model.Listing
	if err := db.First(&listing, c.Param("id")).Error; err != nil {
		return fail(c, apperr.NotFound("listing not found"))
	}

	actor, err := actorWithAgent(c, db)
	if err != nil {
		return fail(c, err)
	}
	res := &policy.Resource{OwnerID: listing.CreatedByID, AgentID: listing.AgentID}
	if err := authorize(actor, policy.ActionDelete, policy.ClassListing, res); err != nil {
		return fail(c, err)
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("listing_id = ?", listing.ID).Delete(&model.ListingImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("listing_id = ?", listing.ID).Delete(&model.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("listing_id = ?", listing.ID).Delete(&model.Inquiry{}).Error; err != nil {
			return err
		}
		return tx.Delete(&listing).Error
	})
	if err != nil {
		log.Error("Failed to delete listing", zap.Uint("listing_id", listing.ID), zap.Error(err))
		return fail(c, err)
	}

	log.Info("Listing deleted", zap.Uint("listing_id", listing.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Listing deleted successfully"})
}

// MyListings returns the listings created by the caller
func MyListings(c echo.Context) error {
	prometheus.RecordListingOperation("my_properties")
	actor := actorFromContext(c)
	db := database.GetDB()

	var listings []model.Listing
	if err := listingScope(db).Where("created_by_id = ?", actor.UserID).Find(&listings).Error; err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, listings)
}

// AgentListings returns the listings assigned to the calling agent,
// provisioning the agent record if it is unexpectedly missing.
func AgentListings(c echo.Context) error {
	prometheus.RecordListingOperation("agent_properties")
	actor := actorFromContext(c)
	if actor.Role != policy.RoleAgent {
		prometheus.RecordDenial(string(policy.ClassListing))
		return fail(c, apperr.Denied(policy.ReasonAgentRequired))
	}

	db := database.GetDB()
	agent := resolveOwnAgent(c, db, actor.UserID)
	if agent == nil {
		return fail(c, apperr.Provisioning(nil))
	}

	var listings []model.Listing
	if err := listingScope(db).Where("agent_id = ?", agent.ID).Find(&listings).Error; err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, listings)
}

// listingScope preloads the associations every listing response carries
// and applies the default newest-first order.
func listingScope(db *gorm.DB) *gorm.DB {
	return db.Model(&model.Listing{}).
		Preload("PropertyType").
		Preload("Features").
		Preload("Images").
		Preload("Agent").
		Order("created_at DESC")
}

func featuresByIDs(db *gorm.DB, ids []uint) ([]model.Feature, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var features []model.Feature
	if err := db.Where("id IN ?", ids).Find(&features).Error; err != nil {
		return nil, err
	}
	if len(features) != len(ids) {
		return nil, apperr.Validation("unknown feature")
	}
	return features, nil
}

// resolveOwnAgent returns the caller's agent record, provisioning one
// through the profile lifecycle when it is missing. Returns nil when
// neither resolution nor provisioning succeeded.
func resolveOwnAgent(c echo.Context, db *gorm.DB, userID uint) *model.Agent {
	log := logger.FromContext(c)

	var user model.User
	if err := db.Preload("Profile").First(&user, userID).Error; err != nil {
		log.Warn("Failed to load user for agent resolution", zap.Uint("user_id", userID), zap.Error(err))
		return nil
	}

	prometheus.AgentProvisionCounter.Inc()
	agent, err := provision.EnsureAgent(db, &user, user.Profile)
	if err != nil {
		log.Warn("Failed to resolve agent record", zap.Uint("user_id", userID), zap.Error(err))
		return nil
	}
	return agent
}

package handler

import (
	"net/http"
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

// CreateInquiry opens an inquiry about a listing. Whatever the payload
// says, a new inquiry starts pending with an empty response.
func CreateInquiry(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordInquiryOperation("create")

	actor := actorFromContext(c)
	if err := authorize(actor, policy.ActionCreate, policy.ClassInquiry, nil); err != nil {
		return fail(c, err)
	}

	var req struct {
		ListingID uint   `json:"listing_id"`
		Message   string `json:"message"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, apperr.Validation("invalid request"))
	}
	if req.Message == "" {
		return fail(c, apperr.Validation("message is required"))
	}

	db := database.GetDB()
	var listing model.Listing
	if err := db.First(&listing, req.ListingID).Error; err != nil {
		return fail(c, apperr.NotFound("listing not found"))
	}

	inquiry := model.Inquiry{
		ListingID: listing.ID,
		TenantID:  actor.UserID,
		Message:   req.Message,
		Response:  "",
		Status:    model.InquiryStatusPending,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := db.Create(&inquiry).Error; err != nil {
		log.Error("Failed to create inquiry", zap.Uint("listing_id", listing.ID), zap.Error(err))
		return fail(c, err)
	}

	log.Info("Inquiry created",
		zap.Uint("inquiry_id", inquiry.ID),
		zap.Uint("listing_id", listing.ID),
		zap.Uint("tenant_id", actor.UserID))
	return c.JSON(http.StatusCreated, inquiry)
}

// ListInquiries returns inquiries scoped to what the caller may see:
// tenants their own, agents those on their listings, admins everything.
// Any other role sees an empty list, not an error.
func ListInquiries(c echo.Context) error {
	prometheus.RecordInquiryOperation("list")

	db := database.GetDB()
	actor := actorFromContext(c)

	query, visible, err := inquiryVisibility(db, actor)
	if err != nil {
		return fail(c, err)
	}
	if !visible {
		return c.JSON(http.StatusOK, []model.Inquiry{})
	}

	// The agent scope joins listings, which also carries created_at, so
	// the sort column must be qualified.
	var inquiries []model.Inquiry
	if err := query.Preload("Listing").Order("inquiries.created_at DESC").Find(&inquiries).Error; err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, inquiries)
}

// GetInquiry returns one inquiry if it falls inside the caller's
// visibility scope.
func GetInquiry(c echo.Context) error {
	prometheus.RecordInquiryOperation("retrieve")

	db := database.GetDB()
	actor := actorFromContext(c)

	query, visible, err := inquiryVisibility(db, actor)
	if err != nil {
		return fail(c, err)
	}
	if !visible {
		return fail(c, apperr.NotFound("inquiry not found"))
	}

	var inquiry model.Inquiry
	if err := query.Preload("Listing").First(&inquiry, c.Param("id")).Error; err != nil {
		return fail(c, apperr.NotFound("inquiry not found"))
	}
	return c.JSON(http.StatusOK, inquiry)
}

// UpdateInquiry lets the owning tenant amend the message while the
// inquiry is still pending.
func UpdateInquiry(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordInquiryOperation("update")

	db := database.GetDB()
	var inquiry model.Inquiry
	if err := db.First(&inquiry, c.Param("id")).Error; err != nil {
		return fail(c, apperr.NotFound("inquiry not found"))
	}

	actor := actorFromContext(c)
	res := &policy.Resource{OwnerID: inquiry.TenantID}
	if err := authorize(actor, policy.ActionUpdate, policy.ClassInquiry, res); err != nil {
		return fail(c, err)
	}

	if inquiry.Status != model.InquiryStatusPending {
		return fail(c, apperr.Validation("only pending inquiries can be updated"))
	}

	var req struct {
		Message string `json:"message"`
	}
	if err := c.Bind(&req); err != nil || req.Message == "" {
		return fail(c, apperr.Validation("message is required"))
	}

	inquiry.Message = req.Message
	if err := db.Save(&inquiry).Error; err != nil {
		log.Error("Failed to update inquiry", zap.Uint("inquiry_id", inquiry.ID), zap.Error(err))
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, inquiry)
}

// DeleteInquiry removes an inquiry owned by the calling tenant
func DeleteInquiry(c echo.Context) error {
	prometheus.RecordInquiryOperation("delete")

	db := database.GetDB()
	var inquiry model.Inquiry
	if err := db.First(&inquiry, c.Param("id")).Error; err != nil {
		return fail(c, apperr.NotFound("inquiry not found"))
	}

	actor := actorFromContext(c)
	res := &policy.Resource{OwnerID: inquiry.TenantID}
	if err := authorize(actor, policy.ActionDelete, policy.ClassInquiry, res); err != nil {
		return fail(c, err)
	}

	if err := db.Delete(&inquiry).Error; err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Inquiry deleted successfully"})
}

// RespondInquiry records the listing agent's response and moves the
// inquiry to responded in one write, so no observable state ever has a
// response with an unchanged status. A repeated respond by the eligible
// agent is a no-op returning the existing state.
func RespondInquiry(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordInquiryOperation("respond")

	db := database.GetDB()
	var inquiry model.Inquiry
	if err := db.First(&inquiry, c.Param("id")).Error; err != nil {
		return fail(c, apperr.NotFound("inquiry not found"))
	}

	var listing model.Listing
	if err := db.First(&listing, inquiry.ListingID).Error; err != nil {
		return fail(c, apperr.NotFound("listing not found"))
	}

	actor, err := actorWithAgent(c, db)
	if err != nil {
		return fail(c, err)
	}
	res := &policy.Resource{OwnerID: inquiry.TenantID, AgentID: listing.AgentID}
	if err := authorize(actor, policy.ActionRespond, policy.ClassInquiry, res); err != nil {
		return fail(c, err)
	}

	var req struct {
		Response string `json:"response"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, apperr.Validation("invalid request"))
	}
	if req.Response == "" {
		return fail(c, apperr.Validation("response is required"))
	}

	// Single conditional write: it only lands while the inquiry is
	// still pending, which also serializes concurrent responders.
	defer prometheus.TrackDBOperation("update")(time.Now())
	result := db.Model(&model.Inquiry{}).
		Where("id = ? AND status = ?", inquiry.ID, model.InquiryStatusPending).
		Updates(map[string]interface{}{
			"response": req.Response,
			"status":   model.InquiryStatusResponded,
		})
	if result.Error != nil {
		log.Error("Failed to respond to inquiry", zap.Uint("inquiry_id", inquiry.ID), zap.Error(result.Error))
		return fail(c, result.Error)
	}

	if err := db.First(&inquiry, inquiry.ID).Error; err != nil {
		return fail(c, err)
	}

	if result.RowsAffected == 0 {
		log.Info("Inquiry already responded", zap.Uint("inquiry_id", inquiry.ID))
	} else {
		log.Info("Inquiry responded",
			zap.Uint("inquiry_id", inquiry.ID),
			zap.Uint("listing_id", listing.ID))
	}
	return c.JSON(http.StatusOK, inquiry)
}

// inquiryVisibility builds the scope query for the actor's role. The
// second return reports whether the role sees anything at all. A
// missing agent record yields nothing rather than an error.
func inquiryVisibility(db *gorm.DB, actor policy.Actor) (*gorm.DB, bool, error) {
	switch actor.Role {
	case policy.RoleTenant:
		return db.Model(&model.Inquiry{}).Where("tenant_id = ?", actor.UserID), true, nil
	case policy.RoleAgent:
		agent, err := provision.ResolveAgent(db, actor.UserID)
		if err != nil {
			return nil, false, err
		}
		if agent == nil {
			return nil, false, nil
		}
		return db.Model(&model.Inquiry{}).
			Select("inquiries.*").
			Joins("JOIN listings ON listings.id = inquiries.listing_id").
			Where("listings.agent_id = ?", agent.ID), true, nil
	case policy.RoleAdmin:
		return db.Model(&model.Inquiry{}), true, nil
	default:
		return nil, false, nil
	}
}

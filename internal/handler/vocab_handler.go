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
)

// The shared vocabularies (property types and features) are readable by
// anyone and maintained by agents. Both get the same handler set.

type vocabRequest struct {
	Name string `json:"name"`
}

// ListPropertyTypes returns the property type vocabulary
func ListPropertyTypes(c echo.Context) error {
	var types []model.PropertyType
	if err := database.GetDB().Find(&types).Error; err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, types)
}

// GetPropertyType returns one property type
func GetPropertyType(c echo.Context) error {
	var propertyType model.PropertyType
	if err := database.GetDB().First(&propertyType, c.Param("id")).Error; err != nil {
		return fail(c, apperr.NotFound("property type not found"))
	}
	return c.JSON(http.StatusOK, propertyType)
}

// CreatePropertyType adds a property type to the vocabulary
func CreatePropertyType(c echo.Context) error {
	log := logger.FromContext(c)

	actor := actorFromContext(c)
	if err := authorize(actor, policy.ActionCreate, policy.ClassPropertyType, nil); err != nil {
		return fail(c, err)
	}

	var req vocabRequest
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return fail(c, apperr.Validation("name is required"))
	}

	propertyType := model.PropertyType{Name: req.Name}
	if err := database.GetDB().Create(&propertyType).Error; err != nil {
		log.Error("Failed to create property type", zap.String("name", req.Name), zap.Error(err))
		return fail(c, err)
	}

	return c.JSON(http.StatusCreated, propertyType)
}

// UpdatePropertyType renames a property type
func UpdatePropertyType(c echo.Context) error {
	actor := actorFromContext(c)
	if err := authorize(actor, policy.ActionUpdate, policy.ClassPropertyType, nil); err != nil {
		return fail(c, err)
	}

	db := database.GetDB()
	var propertyType model.PropertyType
	if err := db.First(&propertyType, c.Param("id")).Error; err != nil {
		return fail(c, apperr.NotFound("property type not found"))
	}

	var req vocabRequest
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return fail(c, apperr.Validation("name is required"))
	}

	propertyType.Name = req.Name
	if err := db.Save(&propertyType).Error; err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, propertyType)
}

// DeletePropertyType removes a property type; listings keep running
// with a null type via the SET NULL association.
func DeletePropertyType(c echo.Context) error {
	actor := actorFromContext(c)
	if err := authorize(actor, policy.ActionDelete, policy.ClassPropertyType, nil); err != nil {
		return fail(c, err)
	}

	db := database.GetDB()
	if err := db.Model(&model.Listing{}).Where("property_type_id = ?", c.Param("id")).
		Update("property_type_id", nil).Error; err != nil {
		return fail(c, err)
	}
	result := db.Delete(&model.PropertyType{}, c.Param("id"))
	if result.Error != nil {
		return fail(c, result.Error)
	}
	if result.RowsAffected == 0 {
		return fail(c, apperr.NotFound("property type not found"))
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Property type deleted successfully"})
}

// ListFeatures returns the feature vocabulary
func ListFeatures(c echo.Context) error {
	var features []model.Feature
	if err := database.GetDB().Find(&features).Error; err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, features)
}

// GetFeature returns one feature
func GetFeature(c echo.Context) error {
	var feature model.Feature
	if err := database.GetDB().First(&feature, c.Param("id")).Error; err != nil {
		return fail(c, apperr.NotFound("feature not found"))
	}
	return c.JSON(http.StatusOK, feature)
}

// CreateFeature adds a feature to the vocabulary
func CreateFeature(c echo.Context) error {
	log := logger.FromContext(c)

	actor := actorFromContext(c)
	if err := authorize(actor, policy.ActionCreate, policy.ClassFeature, nil); err != nil {
		return fail(c, err)
	}

	var req vocabRequest
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return fail(c, apperr.Validation("name is required"))
	}

	feature := model.Feature{Name: req.Name}
	if err := database.GetDB().Create(&feature).Error; err != nil {
		log.Error("Failed to create feature", zap.String("name", req.Name), zap.Error(err))
		return fail(c, err)
	}

	return c.JSON(http.StatusCreated, feature)
}

// UpdateFeature renames a feature
func UpdateFeature(c echo.Context) error {
	actor := actorFromContext(c)
	if err := authorize(actor, policy.ActionUpdate, policy.ClassFeature, nil); err != nil {
		return fail(c, err)
	}

	db := database.GetDB()
	var feature model.Feature
	if err := db.First(&feature, c.Param("id")).Error; err != nil {
		return fail(c, apperr.NotFound("feature not found"))
	}

	var req vocabRequest
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return fail(c, apperr.Validation("name is required"))
	}

	feature.Name = req.Name
	if err := db.Save(&feature).Error; err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, feature)
}

// DeleteFeature removes a feature from the vocabulary
func DeleteFeature(c echo.Context) error {
	actor := actorFromContext(c)
	if err := authorize(actor, policy.ActionDelete, policy.ClassFeature, nil); err != nil {
		return fail(c, err)
	}

	result := database.GetDB().Delete(&model.Feature{}, c.Param("id"))
	if result.Error != nil {
		return fail(c, result.Error)
	}
	if result.RowsAffected == 0 {
		return fail(c, apperr.NotFound("feature not found"))
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Feature deleted successfully"})
}

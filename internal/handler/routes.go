package handler

import (
	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes wires every API route onto the echo instance
func RegisterRoutes(e *echo.Echo) {
	e.GET("/health", HealthCheck)
	e.GET("/metrics", MetricsHandler)

	api := e.Group("/api")

	// User and token management
	users := api.Group("/users")
	users.POST("/register", Register)
	users.POST("/token", Login)
	users.POST("/token/refresh", RefreshToken)
	users.POST("/tenant/login", TenantLogin)
	users.POST("/agent/login", AgentLogin)
	users.GET("/me", Me, middleware.Auth)
	users.PUT("/update_profile", UpdateProfile, middleware.Auth)

	properties := api.Group("/properties")

	// Listings - reads are public, mutations go through the policy
	listings := properties.Group("/listings")
	listings.GET("", ListListings, middleware.OptionalAuth)
	listings.GET("/my_properties", MyListings, middleware.Auth)
	listings.GET("/agent_properties", AgentListings, middleware.Auth)
	listings.GET("/:id", GetListing, middleware.OptionalAuth)
	listings.POST("", CreateListing, middleware.Auth)
	listings.PUT("/:id", UpdateListing, middleware.Auth)
	listings.DELETE("/:id", DeleteListing, middleware.Auth)

	// Shared vocabularies
	types := properties.Group("/types")
	types.GET("", ListPropertyTypes)
	types.GET("/:id", GetPropertyType)
	types.POST("", CreatePropertyType, middleware.Auth)
	types.PUT("/:id", UpdatePropertyType, middleware.Auth)
	types.DELETE("/:id", DeletePropertyType, middleware.Auth)

	features := properties.Group("/features")
	features.GET("", ListFeatures)
	features.GET("/:id", GetFeature)
	features.POST("", CreateFeature, middleware.Auth)
	features.PUT("/:id", UpdateFeature, middleware.Auth)
	features.DELETE("/:id", DeleteFeature, middleware.Auth)

	// Listing images
	images := properties.Group("/images")
	images.GET("", ListImages)
	images.GET("/:id", GetImage)
	images.POST("", CreateImage, middleware.Auth)
	images.PUT("/:id", UpdateImage, middleware.Auth)
	images.DELETE("/:id", DeleteImage, middleware.Auth)

	// Agent directory
	agents := properties.Group("/agents")
	agents.GET("", ListAgents)
	agents.GET("/:id", GetAgent)
	agents.PUT("/:id", UpdateAgent, middleware.Auth)
	agents.DELETE("/:id", DeleteAgent, middleware.Auth)

	// Favorites and recommendations
	favorites := properties.Group("/favorites", middleware.Auth)
	favorites.GET("", ListFavorites)
	favorites.GET("/recommended", RecommendedListings)
	favorites.POST("", AddFavorite)
	favorites.DELETE("/:id", RemoveFavorite)

	// Inquiries
	inquiries := properties.Group("/inquiries", middleware.Auth)
	inquiries.GET("", ListInquiries)
	inquiries.GET("/:id", GetInquiry)
	inquiries.POST("", CreateInquiry)
	inquiries.PUT("/:id", UpdateInquiry)
	inquiries.DELETE("/:id", DeleteInquiry)
	inquiries.POST("/:id/respond", RespondInquiry)
}

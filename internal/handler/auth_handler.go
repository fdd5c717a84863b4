package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/internal/apperr"
	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/internal/model"
	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/internal/provision"
	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/pkg/database"
	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/pkg/jwtutil"
	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/pkg/logger"
	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RegisterRequest carries the registration payload
type RegisterRequest struct {
	Email       string `json:"email"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	Password2   string `json:"password2"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Role        string `json:"role"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
	Bio         string `json:"bio"`
	Company     string `json:"company"`
}

// Register creates a user with its profile. A requested agent role
// provisions the agent record before the response is sent.
func Register(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RegisterCounter.Inc()

	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		prometheus.RecordAuthError("invalid_request")
		return fail(c, apperr.Validation("invalid request"))
	}

	if req.Email == "" || req.Password == "" {
		prometheus.RecordAuthError("incomplete_registration")
		return fail(c, apperr.Validation("email and password are required"))
	}
	if req.Password != req.Password2 {
		prometheus.RecordAuthError("password_mismatch")
		return fail(c, apperr.Validation("passwords do not match"))
	}

	role := req.Role
	if role == "" {
		role = model.RoleTenant
	}
	if role != model.RoleTenant && role != model.RoleAgent {
		prometheus.RecordAuthError("invalid_role")
		return fail(c, apperr.Validation("role must be tenant or agent"))
	}

	username := req.Username
	if username == "" {
		username = req.Email
	}

	db := database.GetDB()

	// Duplicate identity is a validation failure, backed by the unique
	// index on email in case of a racing registration.
	defer prometheus.TrackDBOperation("query")(time.Now())
	var count int64
	db.Model(&model.User{}).Where("email = ? OR username = ?", req.Email, username).Count(&count)
	if count > 0 {
		prometheus.RecordAuthError("email_already_exists")
		return fail(c, apperr.Validation("a user with that email already exists"))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		prometheus.RecordAuthError("password_hash_failed")
		return fail(c, err)
	}

	user := model.User{
		Email:     req.Email,
		Username:  username,
		Password:  string(hashedPassword),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Profile: &model.Profile{
			Role:        role,
			PhoneNumber: req.PhoneNumber,
			Address:     req.Address,
		},
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			prometheus.RecordAuthError("email_already_exists")
			return fail(c, apperr.Validation("a user with that email already exists"))
		}
		log.Error("Failed to create user", zap.Error(err))
		prometheus.RecordAuthError("user_creation_failed")
		return fail(c, err)
	}

	// Assigning the agent role provisions the professional record
	// synchronously; a store failure here is fatal, not retried.
	if role == model.RoleAgent {
		prometheus.AgentProvisionCounter.Inc()
		agent, err := provision.EnsureAgent(db, &user, user.Profile)
		if err != nil {
			log.Error("Agent provisioning failed", zap.Uint("user_id", user.ID), zap.Error(err))
			return fail(c, err)
		}
		if req.Bio != "" || req.Company != "" {
			agent.Bio = req.Bio
			agent.Company = req.Company
			if err := db.Save(agent).Error; err != nil {
				log.Error("Failed to store agent details", zap.Uint("user_id", user.ID), zap.Error(err))
				return fail(c, err)
			}
		}
	}

	access, err := jwtutil.GenerateAccessToken(user.Email, user.ID, role)
	if err != nil {
		prometheus.RecordAuthError("token_generation_failed")
		return fail(c, err)
	}
	refresh, err := jwtutil.GenerateRefreshToken(user.Email, user.ID, role)
	if err != nil {
		prometheus.RecordAuthError("token_generation_failed")
		return fail(c, err)
	}

	log.Info("User registered", zap.String("email", user.Email), zap.String("role", role))
	return c.JSON(http.StatusCreated, echo.Map{
		"access":  access,
		"refresh": refresh,
		"detail":  "Registration successful.",
		"user":    userView(&user),
	})
}

// Login issues tokens for any role (auto-detect mode)
func Login(c echo.Context) error {
	return login(c, "auto", "")
}

// TenantLogin issues tokens only for tenant accounts
func TenantLogin(c echo.Context) error {
	return login(c, "tenant", model.RoleTenant)
}

// AgentLogin issues tokens only for agent accounts
func AgentLogin(c echo.Context) error {
	return login(c, "agent", model.RoleAgent)
}

func login(c echo.Context, mode string, requiredRole string) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.WithLabelValues(mode).Inc()

	var req struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		prometheus.RecordAuthError("invalid_request")
		return fail(c, apperr.Validation("invalid request"))
	}

	identity := req.Email
	if identity == "" {
		identity = req.Username
	}

	db := database.GetDB()

	defer prometheus.TrackDBOperation("query")(time.Now())
	var user model.User
	if err := db.Preload("Profile").Where("email = ? OR username = ?", identity, identity).First(&user).Error; err != nil {
		log.Warn("User not found", zap.String("identity", identity))
		prometheus.RecordAuthError("user_not_found")
		return fail(c, apperr.Authentication("invalid credentials"))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		log.Warn("Invalid password", zap.String("identity", identity))
		prometheus.RecordAuthError("invalid_password")
		return fail(c, apperr.Authentication("invalid credentials"))
	}

	// Absent profile leaves the role out of the claim entirely.
	role := ""
	if user.Profile != nil {
		role = user.Profile.Role
	}

	if requiredRole != "" && role != requiredRole {
		log.Warn("Role mismatch on gated login",
			zap.String("identity", identity),
			zap.String("mode", mode),
			zap.String("role", role))
		prometheus.RecordAuthError("role_mismatch")
		return fail(c, apperr.RoleMismatch("this login is restricted to "+requiredRole+" accounts"))
	}

	access, err := jwtutil.GenerateAccessToken(user.Email, user.ID, role)
	if err != nil {
		prometheus.RecordAuthError("token_generation_failed")
		return fail(c, err)
	}
	refresh, err := jwtutil.GenerateRefreshToken(user.Email, user.ID, role)
	if err != nil {
		prometheus.RecordAuthError("token_generation_failed")
		return fail(c, err)
	}

	prometheus.IncreaseActiveTokens()
	log.Info("User logged in",
		zap.String("email", user.Email),
		zap.String("mode", mode),
		zap.String("role", role))

	return c.JSON(http.StatusOK, echo.Map{
		"access":  access,
		"refresh": refresh,
		"role":    role,
		"user":    userView(&user),
	})
}

// RefreshToken reissues an access token carrying the same role that was
// originally embedded in the refresh token.
func RefreshToken(c echo.Context) error {
	prometheus.LoginCounter.WithLabelValues("refresh").Inc()

	var req struct {
		Refresh string `json:"refresh"`
	}
	if err := c.Bind(&req); err != nil || req.Refresh == "" {
		prometheus.RecordAuthError("invalid_request")
		return fail(c, apperr.Validation("refresh token is required"))
	}

	claims, err := jwtutil.ValidateToken(req.Refresh, jwtutil.TokenTypeRefresh)
	if err != nil {
		prometheus.RecordAuthError("invalid_token")
		return fail(c, apperr.Authentication("invalid or expired refresh token"))
	}

	access, err := jwtutil.GenerateAccessToken(claims.Email, claims.UserID, claims.Role)
	if err != nil {
		prometheus.RecordAuthError("token_generation_failed")
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"access": access})
}

// Me returns the authenticated user's data
func Me(c echo.Context) error {
	actor := actorFromContext(c)
	db := database.GetDB()

	var user model.User
	if err := db.Preload("Profile").First(&user, actor.UserID).Error; err != nil {
		return fail(c, apperr.NotFound("user not found"))
	}

	return c.JSON(http.StatusOK, userView(&user))
}

// UpdateProfileRequest carries the profile fields of an update
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Profile   struct {
		PhoneNumber *string `json:"phone_number"`
		Address     *string `json:"address"`
		Role        *string `json:"role"`
	} `json:"profile"`
}

// UpdateProfile updates the caller's names and profile. Switching the
// role to agent triggers agent provisioning.
func UpdateProfile(c echo.Context) error {
	log := logger.FromContext(c)
	actor := actorFromContext(c)
	db := database.GetDB()

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, apperr.Validation("invalid request"))
	}

	var user model.User
	if err := db.Preload("Profile").First(&user, actor.UserID).Error; err != nil {
		return fail(c, apperr.NotFound("user not found"))
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}

	// The profile is created on demand, mirroring registration defaults.
	profile := user.Profile
	if profile == nil {
		profile = &model.Profile{UserID: user.ID, Role: model.RoleTenant}
	}
	if req.Profile.PhoneNumber != nil {
		profile.PhoneNumber = *req.Profile.PhoneNumber
	}
	if req.Profile.Address != nil {
		profile.Address = *req.Profile.Address
	}

	becameAgent := false
	if req.Profile.Role != nil && *req.Profile.Role != profile.Role {
		switch *req.Profile.Role {
		case model.RoleTenant:
			profile.Role = model.RoleTenant
		case model.RoleAgent:
			profile.Role = model.RoleAgent
			becameAgent = true
		default:
			return fail(c, apperr.Validation("role must be tenant or agent"))
		}
	}

	// Names and profile land together or not at all.
	defer prometheus.TrackDBOperation("update")(time.Now())
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&user).Error; err != nil {
			return err
		}
		return tx.Save(profile).Error
	})
	if err != nil {
		log.Error("Failed to update profile", zap.Uint("user_id", user.ID), zap.Error(err))
		return fail(c, err)
	}
	user.Profile = profile

	if becameAgent {
		prometheus.AgentProvisionCounter.Inc()
		if _, err := provision.EnsureAgent(db, &user, profile); err != nil {
			log.Error("Agent provisioning failed", zap.Uint("user_id", user.ID), zap.Error(err))
			return fail(c, err)
		}
		log.Info("User switched to agent role", zap.Uint("user_id", user.ID))
	}

	return c.JSON(http.StatusOK, userView(&user))
}

// userView shapes the user response the way the frontend consumes it
func userView(user *model.User) echo.Map {
	view := echo.Map{
		"id":         user.ID,
		"username":   user.Username,
		"email":      user.Email,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
	}
	if user.Profile != nil {
		view["profile"] = echo.Map{
			"role":         user.Profile.Role,
			"phone_number": user.Profile.PhoneNumber,
			"address":      user.Profile.Address,
		}
	}
	return view
}

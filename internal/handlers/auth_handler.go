package handlers

import (
	"net/http"
	"strings"

	"github.com/farellandr/clubhub/config"
	"github.com/farellandr/clubhub/internal/club"
	"github.com/farellandr/clubhub/internal/helpers"
	"github.com/farellandr/clubhub/internal/models"
	"github.com/farellandr/clubhub/internal/rollno"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Name       string `json:"name" binding:"required,min=2"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=6"`
	RollNumber string `json:"roll_number" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func findRole(db *gorm.DB, name club.Role) (*models.Role, error) {
	var role models.Role
	if err := db.Where("name = ?", string(name)).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func issueToken(c *gin.Context, cfg *config.Config, user *models.User) (string, bool) {
	token, err := helpers.GenerateToken(user.ID, user.Role.Name, cfg.JWTSecret, cfg.JWTExpiresIn)
	if err != nil {
		logrus.WithError(err).Error("failed to sign token")
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token.")
		return "", false
	}
	return token, true
}

func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	number, err := rollno.Parse(req.RollNumber)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid roll number. Expected a format like 2023BMS-025.")
		return
	}

	cfg, ok := getConfig(c)
	if !ok {
		return
	}
	gormDB, ok := getDB(c)
	if !ok {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var existing int64
	err = gormDB.Model(&models.User{}).Where("email = ? OR roll_number = ?", email, number.String()).Count(&existing).Error
	if err != nil {
		logrus.WithError(err).WithField("email", email).Error("duplicate user check failed")
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to check existing users.")
		return
	}
	if existing > 0 {
		helpers.RespondWithError(c, http.StatusConflict, "User already exists.")
		return
	}

	role, err := findRole(gormDB, club.DeriveRole(email, cfg.AdminEmails, cfg.SuperadminEmails))
	if err != nil {
		logrus.WithError(err).Error("role lookup failed")
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to resolve role.")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to hash the password.")
		return
	}

	user := models.User{
		Name:           strings.TrimSpace(req.Name),
		Email:          email,
		Password:       string(hashedPassword),
		RollNumber:     number.String(),
		Branch:         number.Branch.Code,
		EnrollmentYear: number.Year,
		RoleID:         role.ID,
		Role:           *role,
	}

	if err := gormDB.Create(&user).Error; err != nil {
		logrus.WithError(err).WithField("email", email).Error("failed to create user")
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create user.")
		return
	}

	token, ok := issueToken(c, cfg, &user)
	if !ok {
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User registered successfully.",
		"token":   token,
		"user":    user.Record(nowFunc()),
	})
}

// Login re-derives the role from the configured e-mail lists so promotions
// and demotions apply on the next sign-in.
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	cfg, ok := getConfig(c)
	if !ok {
		return
	}
	gormDB, ok := getDB(c)
	if !ok {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := gormDB.Preload("Role").Where("email = ?", email).First(&user).Error; err != nil {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials.")
		return
	}

	derived := club.DeriveRole(email, cfg.AdminEmails, cfg.SuperadminEmails)
	if string(derived) != user.Role.Name {
		role, err := findRole(gormDB, derived)
		if err == nil {
			err = gormDB.Model(&user).Update("role_id", role.ID).Error
		}
		if err != nil {
			logrus.WithError(err).WithField("user_id", user.ID).Error("failed to refresh role")
			helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to refresh role.")
			return
		}
		user.RoleID = role.ID
		user.Role = *role
	}

	token, ok := issueToken(c, cfg, &user)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"user":    user.Record(nowFunc()),
	})
}

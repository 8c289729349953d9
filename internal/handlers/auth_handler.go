package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ansh200516/form/config"
	"github.com/ansh200516/form/models"
)

const tokenLifetime = time.Hour

// CredentialsInput is the request body for both register and login.
type CredentialsInput struct {
	KerberosID string `json:"kerberosId"`
	Password   string `json:"password"`
}

// RegisterHandler creates a new user with a bcrypt-hashed password.
func RegisterHandler(c *gin.Context) {
	var input CredentialsInput
	if err := c.ShouldBindJSON(&input); err != nil || input.KerberosID == "" || input.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Kerberos ID and password are required"})
		return
	}

	var existing models.User
	if err := config.DB.Where("kerberos_id = ?", input.KerberosID).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "User already exists"})
		return
	} else if err != gorm.ErrRecordNotFound {
		slog.Error("Registration lookup failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	user := models.User{
		KerberosID: input.KerberosID,
		Password:   string(hashed),
	}
	if err := config.DB.Create(&user).Error; err != nil {
		slog.Error("Registration failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
}

// LoginHandler verifies credentials and issues a one-hour signed token
// carrying the user id as its only identity claim.
func LoginHandler(c *gin.Context) {
	var input CredentialsInput
	if err := c.ShouldBindJSON(&input); err != nil || input.KerberosID == "" || input.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Kerberos ID and password are required"})
		return
	}

	var user models.User
	if err := config.DB.Where("kerberos_id = ?", input.KerberosID).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"exp":     time.Now().Add(tokenLifetime).Unix(),
	})
	signed, err := token.SignedString(config.JwtKey)
	if err != nil {
		slog.Error("Token signing failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": signed})
}

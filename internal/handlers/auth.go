package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"devzora-control-center/internal/database"
	"devzora-control-center/internal/middleware"
	"devzora-control-center/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

func Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		badRequest(c, "Email and password are required")
		return
	}
	if len(req.Password) < 6 {
		badRequest(c, "Password must be at least 6 characters")
		return
	}

	var count int64
	if err := database.DB.Model(&models.User{}).
		Where("email = ?", req.Email).
		Count(&count).Error; err != nil {
		internalError(c, err)
		return
	}
	if count > 0 {
		badRequest(c, "User already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		internalError(c, err)
		return
	}

	// self-registration only ever creates members; admins come from config
	user := models.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Phone:        strings.TrimSpace(req.Phone),
		Role:         models.RoleMember,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		internalError(c, err)
		return
	}

	respondCreated(c, "User registered successfully", gin.H{"user": user})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	var user models.User
	if err := database.DB.
		Where("email = ?", strings.TrimSpace(strings.ToLower(req.Email))).
		First(&user).Error; err != nil {
		badRequest(c, "Invalid email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		badRequest(c, "Invalid email or password")
		return
	}

	token, err := newAPIToken(user.ID)
	if err != nil {
		internalError(c, err)
		return
	}

	// keep a session alongside the token for same-origin browser use
	sess := sessions.Default(c)
	sess.Set("user_id", user.ID)
	_ = sess.Save()

	respondOK(c, gin.H{"token": token.Token, "user": user})
}

func newAPIToken(userID uint) (models.APIToken, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return models.APIToken{}, err
	}

	token := models.APIToken{
		UserID: userID,
		Token:  hex.EncodeToString(buf),
	}
	if err := database.DB.Create(&token).Error; err != nil {
		return models.APIToken{}, err
	}
	return token, nil
}

func Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		notFound(c, "User")
		return
	}
	respondOK(c, gin.H{"user": user})
}

func Logout(c *gin.Context) {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		token := strings.TrimPrefix(header, "Bearer ")
		database.DB.Where("token = ?", token).Delete(&models.APIToken{})
	}

	sess := sessions.Default(c)
	sess.Clear()
	_ = sess.Save()

	respondDeleted(c, "Logged out")
}

package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"fixed-asset-api/internal/auth"
	"fixed-asset-api/internal/database"
	"fixed-asset-api/internal/middleware"
	"fixed-asset-api/internal/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

var jwtSecret string

// Init передаёт хендлерам секрет для выпуска токенов.
func Init(secret string) {
	jwtSecret = secret
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

func Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}

	var user models.User
	if err := database.DB.Where("email = ?", strings.TrimSpace(req.Email)).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "incorrect email or password"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "incorrect email or password"})
		return
	}
	if !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "account is disabled"})
		return
	}

	now := time.Now().UTC()
	database.DB.Model(&user).Update("last_login_at", &now)

	respondTokens(c, &user)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}

	claims, err := auth.Parse(jwtSecret, req.RefreshToken, auth.TokenRefresh)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "could not validate credentials"})
		return
	}

	var user models.User
	if err := database.DB.First(&user, claims.UserID).Error; err != nil || !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "could not validate credentials"})
		return
	}

	respondTokens(c, &user)
}

func respondTokens(c *gin.Context, user *models.User) {
	access, err := auth.NewAccessToken(jwtSecret, user)
	if err != nil {
		abortError(c, err)
		return
	}
	refresh, err := auth.NewRefreshToken(jwtSecret, user)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	})
}

func Me(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, user)
}

type passwordChangeRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func ChangePassword(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req passwordChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}
	if len(req.NewPassword) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "new password must be at least 8 characters"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "incorrect current password"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		abortError(c, err)
		return
	}

	if err := database.DB.Model(&user).Updates(map[string]any{
		"password_hash":        string(hash),
		"must_change_password": false,
	}).Error; err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": "password changed"})
}

// УПРАВЛЕНИЕ ПОЛЬЗОВАТЕЛЯМИ (только админ)

func ListUsers(c *gin.Context) {
	var users []models.User
	if err := database.DB.Order("email ASC").Find(&users).Error; err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": users})
}

type userCreateRequest struct {
	Email    string          `json:"email"`
	FullName string          `json:"full_name"`
	Role     models.UserRole `json:"role"`
	Password string          `json:"password"`
}

func CreateUser(c *gin.Context) {
	admin, _ := middleware.CurrentUser(c)

	var req userCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || strings.TrimSpace(req.FullName) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "email and full_name are required"})
		return
	}
	switch req.Role {
	case models.RoleAdmin, models.RoleAuditor, models.RoleOwner, models.RoleViewer:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid role"})
		return
	}

	var count int64
	if err := database.DB.Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		abortError(c, err)
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"detail": "user already exists"})
		return
	}

	// пароль не задан — генерируем одноразовый, со сменой при первом входе
	password := req.Password
	mustChange := false
	if password == "" {
		password = randomPassword()
		mustChange = true
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		abortError(c, err)
		return
	}

	user := models.User{
		Email:              req.Email,
		PasswordHash:       string(hash),
		FullName:           strings.TrimSpace(req.FullName),
		Role:               req.Role,
		IsActive:           true,
		MustChangePassword: mustChange,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		abortError(c, err)
		return
	}

	database.CreateAuditLog(admin.ID, "user", user.ID, "create",
		"Создан пользователь "+user.Email, middleware.GetRequestID(c))

	resp := gin.H{"user": user}
	if mustChange {
		resp["temporary_password"] = password
	}
	c.JSON(http.StatusCreated, resp)
}

type userUpdateRequest struct {
	FullName *string          `json:"full_name"`
	Role     *models.UserRole `json:"role"`
	IsActive *bool            `json:"is_active"`
}

func UpdateUser(c *gin.Context) {
	admin, _ := middleware.CurrentUser(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "user not found"})
		return
	}

	var req userUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}

	updates := map[string]any{}
	if req.FullName != nil {
		updates["full_name"] = strings.TrimSpace(*req.FullName)
	}
	if req.Role != nil {
		switch *req.Role {
		case models.RoleAdmin, models.RoleAuditor, models.RoleOwner, models.RoleViewer:
			updates["role"] = *req.Role
		default:
			c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid role"})
			return
		}
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&user).Updates(updates).Error; err != nil {
			abortError(c, err)
			return
		}
	}

	database.CreateAuditLog(admin.ID, "user", user.ID, "update",
		"Изменён пользователь "+user.Email, middleware.GetRequestID(c))

	c.JSON(http.StatusOK, user)
}

func randomPassword() string {
	buf := make([]byte, 12)
	_, _ = rand.Read(buf)
	return base64.RawURLEncoding.EncodeToString(buf)
}

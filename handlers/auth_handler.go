package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/humptydumpty-git/SCMS/config"
	"github.com/humptydumpty-git/SCMS/database"
	"github.com/humptydumpty-git/SCMS/models"
)

/* ====================== Config & Helpers ====================== */

type AuthHandler struct {
	JWTSecret string
	TokenTTL  time.Duration
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{JWTSecret: cfg.JWTSecret, TokenTTL: cfg.JWTTTL}
}

func (h *AuthHandler) signJWT(sub uint, role models.Role, name string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  sub,
		"role": string(role),
		"name": name,
		"exp":  time.Now().Add(h.TokenTTL).Unix(),
		"iat":  time.Now().Unix(),
	}
	tk := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tk.SignedString([]byte(h.JWTSecret))
}

func publicUser(u *models.User) map[string]any {
	return map[string]any{
		"id":       u.ID,
		"username": u.Username,
		"email":    u.Email,
		"role":     u.Role,
		"fullName": u.FullName,
	}
}

/* ====================== DTOs ====================== */

type registerPayload struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
}

type loginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

/* ====================== Handlers ====================== */

// POST /api/auth/register (admin เท่านั้น — คุมด้วย middleware ที่ routes)
func (h *AuthHandler) Register(c echo.Context) error {
	var p registerPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"message": "Invalid payload"})
	}
	p.Username = strings.TrimSpace(p.Username)
	p.Email = strings.TrimSpace(strings.ToLower(p.Email))
	p.FullName = strings.TrimSpace(p.FullName)
	p.Phone = strings.TrimSpace(p.Phone)
	if err := validate.Struct(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"message": "Validation error", "errors": validationMessages(err)})
	}

	// role ว่าง → teacher (ตาม flow เดิมของฝ่ายธุรการ)
	role := models.RoleTeacher
	if p.Role != "" {
		r, ok := models.ParseRole(p.Role)
		if !ok {
			return c.JSON(http.StatusBadRequest, map[string]any{"message": "Validation error", "errors": []string{"role is invalid"}})
		}
		role = r
	}

	// ตรวจซ้ำ email ก่อน (unique index เป็นตัวกันจริงอีกชั้น)
	var dup models.User
	if err := database.DB.Where("email = ?", p.Email).First(&dup).Error; err == nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"message": "User already exists"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"message": "Server error"})
	}
	u := models.User{
		Username: p.Username,
		Email:    p.Email,
		Password: string(hash),
		Role:     role,
		FullName: p.FullName,
		Phone:    p.Phone,
		IsActive: true,
	}
	if err := database.DB.Create(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.JSON(http.StatusBadRequest, map[string]any{"message": "User already exists"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"message": "Server error", "error": err.Error()})
	}

	token, err := h.signJWT(u.ID, u.Role, u.FullName)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"message": "Server error"})
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"success": true,
		"token":   token,
		"user":    publicUser(&u),
	})
}

// POST /api/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var p loginPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"message": "Invalid payload"})
	}
	p.Email = strings.TrimSpace(strings.ToLower(p.Email))
	if err := validate.Struct(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"message": "Validation error", "errors": validationMessages(err)})
	}

	var u models.User
	if err := database.DB.Where("email = ?", p.Email).First(&u).Error; err != nil {
		// ไม่บอกว่า email หรือ password ที่ผิด
		return c.JSON(http.StatusBadRequest, map[string]any{"message": "Invalid credentials"})
	}
	if !u.IsActive {
		return c.JSON(http.StatusUnauthorized, map[string]any{"message": "Account is deactivated. Please contact administrator."})
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(p.Password)) != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"message": "Invalid credentials"})
	}

	token, err := h.signJWT(u.ID, u.Role, u.FullName)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"message": "Server error"})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"token":   token,
		"user":    publicUser(&u),
	})
}

// GET /api/auth/me
func (h *AuthHandler) Me(c echo.Context) error {
	uid, _ := c.Get("user_id").(uint)
	var u models.User
	if err := database.DB.First(&u, "id = ?", uid).Error; err != nil {
		// token ยัง valid แต่ user หายไปแล้ว (ถูกลบ) → ถือว่า unauthorized
		return c.JSON(http.StatusUnauthorized, map[string]any{"message": "Token is not valid"})
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": u})
}

package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/humptydumpty-git/SCMS/config"
	"github.com/humptydumpty-git/SCMS/database"
	"github.com/humptydumpty-git/SCMS/models"
	"github.com/humptydumpty-git/SCMS/routes"
)

const testPassword = "password123"

// เปิด sqlite in-memory + migrate แล้วสลับ database.DB มาใช้ตัวนี้
func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	// in-memory sqlite ผูกกับ connection เดียว
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	database.DB = db

	cfg := &config.Config{JWTSecret: "test-secret", JWTTTL: time.Hour}
	e := echo.New()
	routes.RegisterRoutes(e, cfg)
	return e
}

func createUser(t *testing.T, email string, role models.Role, active bool) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := models.User{
		Username: email,
		Email:    email,
		Password: string(hash),
		Role:     role,
		FullName: "Test " + string(role),
		IsActive: active,
	}
	if err := database.DB.Create(&u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func login(t *testing.T, e *echo.Echo, email string) string {
	t.Helper()
	rec := doJSON(t, e, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email":    email,
		"password": testPassword,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: status %d body %s", email, rec.Code, rec.Body.String())
	}
	var body map[string]any
	decode(t, rec, &body)
	tok, _ := body["token"].(string)
	if tok == "" {
		t.Fatalf("login %s: no token in %v", email, body)
	}
	return tok
}

func doJSON(t *testing.T, e *echo.Echo, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&buf).Encode(payload); err != nil {
			t.Fatalf("encode payload: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

// ค่าเงินใน JSON ออกมาเป็น string (shopspring decimal) — เทียบแบบ decimal
func asDecimal(t *testing.T, v any) decimal.Decimal {
	t.Helper()
	switch x := v.(type) {
	case string:
		d, err := decimal.NewFromString(x)
		if err != nil {
			t.Fatalf("parse decimal %q: %v", x, err)
		}
		return d
	case float64:
		return decimal.NewFromFloat(x)
	default:
		t.Fatalf("unexpected decimal type %T (%v)", v, v)
		return decimal.Zero
	}
}

func mustEqualDecimal(t *testing.T, got any, want int64) {
	t.Helper()
	g := asDecimal(t, got)
	if !g.Equal(decimal.NewFromInt(want)) {
		t.Fatalf("decimal mismatch: got %s want %d", g, want)
	}
}

// สร้างนักเรียนผ่าน API คืน id
func createStudent(t *testing.T, e *echo.Echo, token string, overrides map[string]any) uint {
	t.Helper()
	payload := map[string]any{
		"firstName":   "Rahul",
		"lastName":    "Sharma",
		"dateOfBirth": "2014-05-14",
		"gender":      "Male",
		"class":       "5",
		"section":     "A",
		"parentName":  "Anil Sharma",
		"parentPhone": "9876543210",
	}
	for k, v := range overrides {
		payload[k] = v
	}
	rec := doJSON(t, e, http.MethodPost, "/api/students", token, payload)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create student: status %d body %s", rec.Code, rec.Body.String())
	}
	var body map[string]any
	decode(t, rec, &body)
	data := body["data"].(map[string]any)
	return uint(data["id"].(float64))
}

func createFee(t *testing.T, e *echo.Echo, token string, payload map[string]any) (uint, *httptest.ResponseRecorder) {
	t.Helper()
	rec := doJSON(t, e, http.MethodPost, "/api/fees", token, payload)
	if rec.Code != http.StatusCreated {
		return 0, rec
	}
	var body map[string]any
	decode(t, rec, &body)
	data := body["data"].(map[string]any)
	return uint(data["id"].(float64)), rec
}

func feePayload(studentID uint, overrides map[string]any) map[string]any {
	p := map[string]any{
		"studentId":    studentID,
		"amount":       1000,
		"feeType":      "Tuition",
		"dueDate":      "2025-06-10",
		"academicYear": fmt.Sprintf("%d", time.Now().Year()),
	}
	for k, v := range overrides {
		p[k] = v
	}
	return p
}

package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/humptydumpty-git/SCMS/database"
	"github.com/humptydumpty-git/SCMS/models"
)

type StudentHandler struct{}

func NewStudentHandler() *StudentHandler { return &StudentHandler{} }

/* ===== Payload ===== */

type studentPayload struct {
	FirstName        string `json:"firstName" validate:"required"`
	LastName         string `json:"lastName" validate:"required"`
	DateOfBirth      string `json:"dateOfBirth" validate:"required,datetime=2006-01-02"`
	Gender           string `json:"gender" validate:"required,oneof=Male Female Other"`
	Address          string `json:"address"`
	City             string `json:"city"`
	State            string `json:"state"`
	Country          string `json:"country"`
	PostalCode       string `json:"postalCode"`
	Phone            string `json:"phone"`
	Email            string `json:"email" validate:"omitempty,email"`
	AdmissionDate    string `json:"admissionDate" validate:"omitempty,datetime=2006-01-02"`
	Class            string `json:"class" validate:"required"`
	Section          string `json:"section"`
	RollNumber       int    `json:"rollNumber"`
	ParentName       string `json:"parentName" validate:"required"`
	ParentPhone      string `json:"parentPhone" validate:"required"`
	ParentEmail      string `json:"parentEmail" validate:"omitempty,email"`
	ParentOccupation string `json:"parentOccupation"`
	IsActive         *bool  `json:"isActive"`
}

func (p *studentPayload) normalize() {
	trim := strings.TrimSpace
	p.FirstName = strings.Join(strings.Fields(p.FirstName), " ")
	p.LastName = strings.Join(strings.Fields(p.LastName), " ")
	p.DateOfBirth = trim(p.DateOfBirth)
	p.Gender = trim(p.Gender)
	p.Address = trim(p.Address)
	p.City = trim(p.City)
	p.State = trim(p.State)
	p.Country = trim(p.Country)
	p.PostalCode = trim(p.PostalCode)
	p.Phone = trim(p.Phone)
	p.Email = trim(strings.ToLower(p.Email))
	p.AdmissionDate = trim(p.AdmissionDate)
	p.Class = trim(p.Class)
	p.Section = trim(p.Section)
	p.ParentName = strings.Join(strings.Fields(p.ParentName), " ")
	p.ParentPhone = trim(p.ParentPhone)
	p.ParentEmail = trim(strings.ToLower(p.ParentEmail))
	p.ParentOccupation = trim(p.ParentOccupation)
}

// เทค่า payload ลง model (ไม่แตะ AdmissionNumber — ออกให้ตอน create เท่านั้น)
func (p *studentPayload) apply(s *models.Student) {
	if dob, err := parseDate(p.DateOfBirth); err == nil {
		s.DateOfBirth = dob
	}
	if p.AdmissionDate != "" {
		if ad, err := parseDate(p.AdmissionDate); err == nil {
			s.AdmissionDate = ad
		}
	}
	s.FirstName = p.FirstName
	s.LastName = p.LastName
	s.Gender = p.Gender
	s.Address = p.Address
	s.City = p.City
	s.State = p.State
	if p.Country != "" {
		s.Country = p.Country
	}
	s.PostalCode = p.PostalCode
	s.Phone = p.Phone
	s.Email = p.Email
	s.Class = p.Class
	s.Section = p.Section
	s.RollNumber = p.RollNumber
	s.ParentName = p.ParentName
	s.ParentPhone = p.ParentPhone
	s.ParentEmail = p.ParentEmail
	s.ParentOccupation = p.ParentOccupation
	if p.IsActive != nil {
		s.IsActive = *p.IsActive
	}
}

/* ===== Admission number ===== */

// เลขลำดับสูงสุดของปีนี้ +1 (ADM-<ปี>-<4 หลัก> เรียง lexicographic ได้เพราะ zero-pad)
func nextAdmissionNumber(db *gorm.DB, year int) (string, error) {
	prefix := fmt.Sprintf("ADM-%d-", year)
	var last models.Student
	err := db.Where("admission_number LIKE ?", prefix+"%").
		Order("admission_number DESC").
		First(&last).Error
	seq := 1
	if err == nil {
		n, perr := strconv.Atoi(strings.TrimPrefix(last.AdmissionNumber, prefix))
		if perr != nil {
			return "", fmt.Errorf("malformed admission number %q", last.AdmissionNumber)
		}
		seq = n + 1
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}
	return fmt.Sprintf("%s%04d", prefix, seq), nil
}

/* ===== Handlers ===== */

// GET /api/students?class&section&search&status&page&limit
func (h *StudentHandler) List(c echo.Context) error {
	page, limit := pageParams(c.QueryParam("page"), c.QueryParam("limit"))

	tx := database.DB.Model(&models.Student{})
	if v := strings.TrimSpace(c.QueryParam("class")); v != "" {
		tx = tx.Where("class = ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("section")); v != "" {
		tx = tx.Where("section = ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("status")); v != "" {
		tx = tx.Where("is_active = ?", v == "active")
	}
	if v := strings.TrimSpace(c.QueryParam("search")); v != "" {
		// LOWER(...) LIKE ใช้ได้ทั้ง postgres และ sqlite
		like := "%" + strings.ToLower(v) + "%"
		tx = tx.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(admission_number) LIKE ? OR LOWER(parent_name) LIKE ?",
			like, like, like, like,
		)
	}

	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"message": "Server error", "error": err.Error()})
	}
	var items []models.Student
	if err := tx.Order("created_at DESC, id DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&items).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"message": "Server error", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success":     true,
		"count":       count,
		"totalPages":  totalPages(count, limit),
		"currentPage": page,
		"data":        items,
	})
}

// GET /api/students/:id — แนบ fee เฉพาะ field ที่หน้ารายละเอียดใช้
func (h *StudentHandler) Get(c echo.Context) error {
	var s models.Student
	err := database.DB.
		Preload("Fees", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "student_id", "amount", "fee_type", "due_date", "paid_date", "payment_status").
				Order("due_date DESC")
		}).
		First(&s, "id = ?", c.Param("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]any{"message": "Student not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"message": "Server error", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": s})
}

// POST /api/students
func (h *StudentHandler) Create(c echo.Context) error {
	var p studentPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"message": "Invalid payload"})
	}
	p.normalize()
	if err := validate.Struct(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"message": "Validation error", "errors": validationMessages(err)})
	}

	year := time.Now().Year()
	var s models.Student
	// เลขอาจชนกันตอนสร้างพร้อมกัน → พึ่ง unique index แล้ว retry แทน read-then-write เปล่า ๆ
	for attempt := 0; attempt < 5; attempt++ {
		num, err := nextAdmissionNumber(database.DB, year)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]any{"message": "Server error", "error": err.Error()})
		}
		s = models.Student{AdmissionNumber: num, Country: "India", IsActive: true, AdmissionDate: time.Now()}
		p.apply(&s)

		err = database.DB.Create(&s).Error
		if err == nil {
			return c.JSON(http.StatusCreated, map[string]any{"success": true, "data": s})
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		return c.JSON(http.StatusBadRequest, map[string]any{"message": "Validation error", "errors": []string{err.Error()}})
	}
	return c.JSON(http.StatusInternalServerError, map[string]any{"message": "Could not allocate admission number"})
}

// PUT /api/students/:id — อัปเดตทุก field (ยกเว้น admissionNumber)
func (h *StudentHandler) Update(c echo.Context) error {
	var existing models.Student
	if err := database.DB.First(&existing, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]any{"message": "Student not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"message": "Server error", "error": err.Error()})
	}

	var p studentPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"message": "Invalid payload"})
	}
	p.normalize()
	if err := validate.Struct(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"message": "Validation error", "errors": validationMessages(err)})
	}

	p.apply(&existing)
	if err := database.DB.Save(&existing).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"message": "Validation error", "errors": []string{err.Error()}})
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": existing})
}

// DELETE /api/students/:id (admin เท่านั้น — คุมที่ routes)
func (h *StudentHandler) Delete(c echo.Context) error {
	var s models.Student
	if err := database.DB.First(&s, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]any{"message": "Student not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"message": "Server error", "error": err.Error()})
	}
	if err := database.DB.Delete(&s).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"message": "Server error", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "message": "Student deleted successfully"})
}

// GET /api/students/statistics
func (h *StudentHandler) Statistics(c echo.Context) error {
	var total, active int64
	if err := database.DB.Model(&models.Student{}).Count(&total).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"message": "Server error", "error": err.Error()})
	}
	if err := database.DB.Model(&models.Student{}).Where("is_active = ?", true).Count(&active).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"message": "Server error", "error": err.Error()})
	}

	type classCount struct {
		Class string `json:"class"`
		Count int64  `json:"count"`
	}
	var byClass []classCount
	if err := database.DB.Model(&models.Student{}).
		Select("class, COUNT(*) AS count").
		Group("class").Order("class").
		Scan(&byClass).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"message": "Server error", "error": err.Error()})
	}

	type genderCount struct {
		Gender string `json:"gender"`
		Count  int64  `json:"count"`
	}
	var byGender []genderCount
	if err := database.DB.Model(&models.Student{}).
		Select("gender, COUNT(*) AS count").
		Group("gender").Order("gender").
		Scan(&byGender).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"message": "Server error", "error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"totalStudents":    total,
			"activeStudents":   active,
			"inactiveStudents": total - active,
			"byClass":          byClass,
			"byGender":         byGender,
		},
	})
}

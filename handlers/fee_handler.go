package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/humptydumpty-git/SCMS/database"
	"github.com/humptydumpty-git/SCMS/models"
)

type FeeHandler struct{}

func NewFeeHandler() *FeeHandler { return &FeeHandler{} }

/* ===== Payloads ===== */

type feePayload struct {
	StudentID     uint             `json:"studentId" validate:"required"`
	Amount        decimal.Decimal  `json:"amount"`
	FeeType       string           `json:"feeType" validate:"required,oneof=Tuition Admission Exam Transport Library Other"`
	DueDate       string           `json:"dueDate" validate:"required,datetime=2006-01-02"`
	AcademicYear  string           `json:"academicYear" validate:"required"`
	Month         *string          `json:"month" validate:"omitempty,oneof=January February March April May June July August September October November December"`
	PaymentMethod *string          `json:"paymentMethod" validate:"omitempty,oneof=Cash Cheque 'Bank Transfer' 'Online Payment' Other"`
	TransactionID string           `json:"transactionId"`
	Discount      *decimal.Decimal `json:"discount"`
	Fine          *decimal.Decimal `json:"fine"`
	Description   string           `json:"description"`
}

// field ที่แก้ได้หลังสร้างแล้วเท่านั้น — ตัวอื่น (studentId, amount, feeType,
// dueDate, academicYear, month) ตรึงตายตัว bind ไม่เข้ามาตั้งแต่ต้น
type feeUpdatePayload struct {
	PaymentStatus *string          `json:"paymentStatus" validate:"omitempty,oneof=Paid Unpaid Partial Overdue"`
	PaidDate      *string          `json:"paidDate" validate:"omitempty,datetime=2006-01-02"`
	PaymentMethod *string          `json:"paymentMethod" validate:"omitempty,oneof=Cash Cheque 'Bank Transfer' 'Online Payment' Other"`
	TransactionID *string          `json:"transactionId"`
	Discount      *decimal.Decimal `json:"discount"`
	Fine          *decimal.Decimal `json:"fine"`
	Description   *string          `json:"description"`
}

// student แนบไปกับ fee แบบย่อ (id, admissionNumber, ชื่อ, ชั้น/ห้อง)
func studentSummarySelect(db *gorm.DB) *gorm.DB {
	return db.Select("id", "admission_number", "first_name", "last_name", "class", "section")
}

/* ===== Handlers ===== */

// GET /api/fees?studentId&feeType&paymentStatus&month&academicYear&page&limit
func (h *FeeHandler) List(c echo.Context) error {
	page, limit := pageParams(c.QueryParam("page"), c.QueryParam("limit"))

	tx := database.DB.Model(&models.Fee{})
	if v := strings.TrimSpace(c.QueryParam("studentId")); v != "" {
		sid, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]any{"message": "Validation error", "errors": []string{"studentId must be a number"}})
		}
		tx = tx.Where("student_id = ?", sid)
	}
	if v := strings.TrimSpace(c.QueryParam("feeType")); v != "" {
		tx = tx.Where("fee_type = ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("paymentStatus")); v != "" {
		tx = tx.Where("payment_status = ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("month")); v != "" {
		tx = tx.Where("month = ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("academicYear")); v != "" {
		tx = tx.Where("academic_year = ?", v)
	}

	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"message": "Server error", "error": err.Error()})
	}
	var items []models.Fee
	if err := tx.Preload("Student", studentSummarySelect).
		Order("due_date DESC, id DESC").
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

// GET /api/fees/:id
func (h *FeeHandler) Get(c echo.Context) error {
	var f models.Fee
	err := database.DB.Preload("Student", studentSummarySelect).
		First(&f, "id = ?", c.Param("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]any{"message": "Fee record not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"message": "Server error", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": f})
}

// POST /api/fees
func (h *FeeHandler) Create(c echo.Context) error {
	var p feePayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"message": "Invalid payload"})
	}
	if err := validate.Struct(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"message": "Validation error", "errors": validationMessages(err)})
	}
	if p.Amount.IsNegative() {
		return c.JSON(http.StatusBadRequest, map[string]any{"message": "Validation error", "errors": []string{"amount must not be negative"}})
	}

	// นักเรียนต้องมีจริงก่อน
	var student models.Student
	if err := database.DB.First(&student, "id = ?", p.StudentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]any{"message": "Student not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"message": "Server error", "error": err.Error()})
	}

	// กันเรียกเก็บซ้ำรอบเดียวกัน: (student, feeType, month, academicYear) ต้องไม่ซ้ำ
	// ยกเว้น Admission ซึ่งเก็บครั้งเดียวไม่ผูกเดือน
	if p.FeeType != models.FeeTypeAdmission && p.Month != nil && p.AcademicYear != "" {
		var dup models.Fee
		err := database.DB.Where(
			"student_id = ? AND fee_type = ? AND month = ? AND academic_year = ?",
			p.StudentID, p.FeeType, *p.Month, p.AcademicYear,
		).First(&dup).Error
		if err == nil {
			return c.JSON(http.StatusBadRequest, map[string]any{
				"message": fmt.Sprintf("Fee record already exists for %s in %s %s", p.FeeType, *p.Month, p.AcademicYear),
			})
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusInternalServerError, map[string]any{"message": "Server error", "error": err.Error()})
		}
	}

	due, err := parseDate(p.DueDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"message": "Validation error", "errors": []string{"dueDate must be in YYYY-MM-DD format"}})
	}
	actorID, _ := c.Get("user_id").(uint)

	f := models.Fee{
		StudentID:     p.StudentID,
		Amount:        p.Amount,
		FeeType:       p.FeeType,
		DueDate:       due,
		PaymentStatus: models.PaymentStatusUnpaid, // สร้างใหม่ = ยังไม่จ่ายเสมอ
		PaymentMethod: p.PaymentMethod,
		TransactionID: p.TransactionID,
		Description:   p.Description,
		AcademicYear:  p.AcademicYear,
		Month:         p.Month,
		CreatedBy:     actorID,
	}
	if p.Discount != nil {
		f.Discount = *p.Discount
	}
	if p.Fine != nil {
		f.Fine = *p.Fine
	}
	if err := database.DB.Create(&f).Error; err != nil {
		// unique index ปิดช่องว่างระหว่าง pre-check กับ insert (สร้างพร้อมกัน)
		if errors.Is(err, gorm.ErrDuplicatedKey) && p.Month != nil {
			return c.JSON(http.StatusBadRequest, map[string]any{
				"message": fmt.Sprintf("Fee record already exists for %s in %s %s", p.FeeType, *p.Month, p.AcademicYear),
			})
		}
		return c.JSON(http.StatusBadRequest, map[string]any{"message": "Validation error", "errors": []string{err.Error()}})
	}
	return c.JSON(http.StatusCreated, map[string]any{"success": true, "data": f})
}

// PUT /api/fees/:id
func (h *FeeHandler) Update(c echo.Context) error {
	var f models.Fee
	if err := database.DB.First(&f, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]any{"message": "Fee record not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"message": "Server error", "error": err.Error()})
	}

	var p feeUpdatePayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"message": "Invalid payload"})
	}
	if err := validate.Struct(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"message": "Validation error", "errors": validationMessages(err)})
	}

	if p.PaymentStatus != nil {
		f.PaymentStatus = *p.PaymentStatus
	}
	if p.PaidDate != nil {
		if d, err := parseDate(*p.PaidDate); err == nil {
			f.PaidDate = &d
		}
	}
	if p.PaymentMethod != nil {
		f.PaymentMethod = p.PaymentMethod
	}
	if p.TransactionID != nil {
		f.TransactionID = *p.TransactionID
	}
	if p.Discount != nil {
		f.Discount = *p.Discount
	}
	if p.Fine != nil {
		f.Fine = *p.Fine
	}
	if p.Description != nil {
		f.Description = *p.Description
	}

	if err := database.DB.Save(&f).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"message": "Validation error", "errors": []string{err.Error()}})
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": f})
}

// DELETE /api/fees/:id (admin หรือ accountant — คุมที่ routes)
func (h *FeeHandler) Delete(c echo.Context) error {
	var f models.Fee
	if err := database.DB.First(&f, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]any{"message": "Fee record not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"message": "Server error", "error": err.Error()})
	}
	if err := database.DB.Delete(&f).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"message": "Server error", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "message": "Fee record deleted successfully"})
}

/* ===== Aggregations =====
ผลรวมเงินทั้งหมดคิดจาก amount ตรง ๆ (gross) — discount/fine เก็บรายตัว
แต่ไม่หักเข้าในยอดรวม และบวกลบกันใน Go ด้วย decimal กัน float เพี้ยน */

type feeAggRow struct {
	Amount        decimal.Decimal
	FeeType       string
	PaymentStatus string
	AcademicYear  string
	Month         *string
}

// GET /api/fees/statistics
func (h *FeeHandler) Statistics(c echo.Context) error {
	var rows []feeAggRow
	if err := database.DB.Model(&models.Fee{}).
		Select("amount", "fee_type", "payment_status", "academic_year", "month").
		Scan(&rows).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"message": "Server error", "error": err.Error()})
	}

	yearStr := strconv.Itoa(time.Now().Year())
	currentMonth := time.Now().Month().String()

	totalFees := decimal.Zero
	currentMonthFees := decimal.Zero
	pendingFees := decimal.Zero
	monthly := map[string]decimal.Decimal{}
	byType := map[string]decimal.Decimal{}

	for _, r := range rows {
		totalFees = totalFees.Add(r.Amount)
		if r.PaymentStatus != models.PaymentStatusPaid {
			pendingFees = pendingFees.Add(r.Amount)
			continue
		}
		if r.AcademicYear != yearStr {
			continue
		}
		byType[r.FeeType] = byType[r.FeeType].Add(r.Amount)
		if r.Month != nil {
			monthly[*r.Month] = monthly[*r.Month].Add(r.Amount)
			if *r.Month == currentMonth {
				currentMonthFees = currentMonthFees.Add(r.Amount)
			}
		}
	}

	type monthTotal struct {
		Month       string          `json:"month"`
		TotalAmount decimal.Decimal `json:"totalAmount"`
	}
	monthlyFees := []monthTotal{}
	for m := time.January; m <= time.December; m++ {
		if v, ok := monthly[m.String()]; ok {
			monthlyFees = append(monthlyFees, monthTotal{Month: m.String(), TotalAmount: v})
		}
	}

	type typeTotal struct {
		FeeType     string          `json:"feeType"`
		TotalAmount decimal.Decimal `json:"totalAmount"`
	}
	feesByType := []typeTotal{}
	for _, t := range []string{
		models.FeeTypeTuition, models.FeeTypeAdmission, models.FeeTypeExam,
		models.FeeTypeTransport, models.FeeTypeLibrary, models.FeeTypeOther,
	} {
		if v, ok := byType[t]; ok {
			feesByType = append(feesByType, typeTotal{FeeType: t, TotalAmount: v})
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"totalFees":        totalFees,
			"currentMonthFees": currentMonthFees,
			"pendingFees":      pendingFees,
			"monthlyFees":      monthlyFees,
			"feesByType":       feesByType,
		},
	})
}

// GET /api/fees/student/:studentId/summary
func (h *FeeHandler) StudentSummary(c echo.Context) error {
	var student models.Student
	if err := database.DB.First(&student, "id = ?", c.Param("studentId")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]any{"message": "Student not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"message": "Server error", "error": err.Error()})
	}

	var fees []models.Fee
	if err := database.DB.Where("student_id = ?", student.ID).
		Order("due_date DESC, id DESC").
		Find(&fees).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"message": "Server error", "error": err.Error()})
	}

	totalFees := decimal.Zero
	totalPaid := decimal.Zero
	pending := []models.Fee{}
	for _, f := range fees {
		totalFees = totalFees.Add(f.Amount)
		if f.PaymentStatus == models.PaymentStatusPaid {
			totalPaid = totalPaid.Add(f.Amount)
		} else {
			pending = append(pending, f)
		}
	}
	// invariant: totalFees = totalPaid + totalPending
	totalPending := totalFees.Sub(totalPaid)

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"student": map[string]any{
				"id":              student.ID,
				"name":            student.FirstName + " " + student.LastName,
				"class":           student.Class,
				"section":         student.Section,
				"admissionNumber": student.AdmissionNumber,
			},
			"summary": map[string]any{
				"totalFees":        totalFees,
				"totalPaid":        totalPaid,
				"totalPending":     totalPending,
				"pendingFeesCount": len(pending),
			},
			"pendingFees": pending,
		},
	})
}

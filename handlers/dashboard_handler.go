package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/humptydumpty-git/SCMS/database"
	"github.com/humptydumpty-git/SCMS/models"
)

type DashboardHandler struct{}

func NewDashboardHandler() *DashboardHandler { return &DashboardHandler{} }

// GET /api/dashboard/summary
// คืนค่าจำนวนคร่าว ๆ สำหรับหน้าแดชบอร์ด
func (h *DashboardHandler) Summary(c echo.Context) error {
	var (
		cntStudents int64
		cntActive   int64
		cntUsers    int64
		cntFees     int64
	)
	database.DB.Model(&models.Student{}).Count(&cntStudents)
	database.DB.Model(&models.Student{}).Where("is_active = ?", true).Count(&cntActive)
	database.DB.Model(&models.User{}).Count(&cntUsers)
	database.DB.Model(&models.Fee{}).Count(&cntFees)

	// ยอดค้างชำระรวม (gross amount เหมือน /fees/statistics)
	var amounts []decimal.Decimal
	if err := database.DB.Model(&models.Fee{}).
		Where("payment_status <> ?", models.PaymentStatusPaid).
		Pluck("amount", &amounts).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"message": "Server error", "error": err.Error()})
	}
	pending := decimal.Zero
	for _, a := range amounts {
		pending = pending.Add(a)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"students":       cntStudents,
			"activeStudents": cntActive,
			"users":          cntUsers,
			"fees":           cntFees,
			"pendingAmount":  pending,
		},
	})
}

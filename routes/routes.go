package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/humptydumpty-git/SCMS/config"
	"github.com/humptydumpty-git/SCMS/handlers"
	"github.com/humptydumpty-git/SCMS/middlewares"
	"github.com/humptydumpty-git/SCMS/models"
)

// RegisterRoutes wires all HTTP routes.
func RegisterRoutes(e *echo.Echo, cfg *config.Config) {
	// ===== Handlers (shared singletons) =====
	auth := handlers.NewAuthHandler(cfg)
	std := handlers.NewStudentHandler()
	fee := handlers.NewFeeHandler()
	dash := handlers.NewDashboardHandler()

	e.GET("/health", handlers.Health)

	authMW := middlewares.RequireAuth(cfg.JWTSecret)

	api := e.Group("/api")

	// ===== Auth =====
	api.POST("/auth/login", auth.Login)
	api.POST("/auth/register", auth.Register, authMW, middlewares.RequireAnyRole(models.AdminOnly...))
	api.GET("/auth/me", auth.Me, authMW)

	// ===== Students (teacher ขึ้นไป) =====
	students := api.Group("/students", authMW, middlewares.RequireAnyRole(models.TeacherOrAbove...))
	students.GET("", std.List)
	students.POST("", std.Create)
	students.GET("/statistics", std.Statistics)
	students.GET("/:id", std.Get)
	students.PUT("/:id", std.Update)
	// ลบนักเรียน = admin เท่านั้น (เช็ค role ก่อนเช็คว่ามี record)
	students.DELETE("/:id", std.Delete, middlewares.RequireAnyRole(models.AdminOnly...))

	// ===== Fees =====
	// gate รายเส้นทาง: accountant ลบได้แต่ไม่อยู่ในกลุ่ม teacher-or-above
	teacherUp := middlewares.RequireAnyRole(models.TeacherOrAbove...)
	fees := api.Group("/fees", authMW)
	fees.GET("", fee.List, teacherUp)
	fees.POST("", fee.Create, teacherUp)
	fees.GET("/statistics", fee.Statistics, teacherUp)
	fees.GET("/student/:studentId/summary", fee.StudentSummary, teacherUp)
	fees.GET("/:id", fee.Get, teacherUp)
	fees.PUT("/:id", fee.Update, teacherUp)
	// ลบ fee = admin หรือ accountant
	fees.DELETE("/:id", fee.Delete, middlewares.RequireAnyRole(models.AdminOrAccountant...))

	// ===== Dashboard =====
	api.GET("/dashboard/summary", dash.Summary, authMW, middlewares.RequireAnyRole(models.TeacherOrAbove...))
}

package middlewares

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/humptydumpty-git/SCMS/models"
)

// RequireAnyRole(models.TeacherOrAbove...) → ผ่านถ้า role ตรงอย่างน้อย 1 ค่า
// admin ผ่านทุกด่านเสมอ ไม่ต้องใส่ซ้ำในทุกชุด
// ด่านนี้อยู่หน้า handler เสมอ → เช็คสิทธิ์ก่อนเช็คว่า record มีจริง (403 มาก่อน 404)
func RequireAnyRole(roles ...models.Role) echo.MiddlewareFunc {
	need := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		need[r] = struct{}{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, _ := c.Get("role").(string) // set ไว้โดย RequireAuth
			role, ok := models.ParseRole(raw)
			if !ok {
				return echo.NewHTTPError(http.StatusForbidden, map[string]any{"message": "Access denied"})
			}
			if role == models.RoleAdmin {
				return next(c)
			}
			if _, ok := need[role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, map[string]any{"message": "Access denied"})
			}
			return next(c)
		}
	}
}

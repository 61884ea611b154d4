package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// แปลง string -> int; ถ้าแปลงไม่ได้ให้คืนค่าเริ่มต้น
func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// page/limit จาก query string (limit 1..100, default 10)
func pageParams(pageStr, limitStr string) (page, limit int) {
	page = atoiOr(pageStr, 1)
	if page < 1 {
		page = 1
	}
	limit = atoiOr(limitStr, 10)
	if limit < 1 {
		limit = 1
	} else if limit > 100 {
		limit = 100
	}
	return page, limit
}

// totalPages = ceil(count/limit)
func totalPages(count int64, limit int) int {
	if limit < 1 {
		return 0
	}
	return int((count + int64(limit) - 1) / int64(limit))
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// แปลง validator error → ข้อความต่อ field แบบที่ FE แสดงได้
func validationMessages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			out = append(out, fmt.Sprintf("%s is required", fe.Field()))
		case "email":
			out = append(out, fmt.Sprintf("%s must be a valid email", fe.Field()))
		case "oneof":
			out = append(out, fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param()))
		case "datetime":
			out = append(out, fmt.Sprintf("%s must be in YYYY-MM-DD format", fe.Field()))
		case "min":
			out = append(out, fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param()))
		default:
			out = append(out, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return out
}

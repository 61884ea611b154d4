package handlers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/humptydumpty-git/SCMS/models"
)

func TestCreateStudentAdmissionNumberSequence(t *testing.T) {
	e := newTestServer(t)
	createUser(t, "admin@school.edu", models.RoleAdmin, true)
	tok := login(t, e, "admin@school.edu")

	year := time.Now().Year()

	rec := doJSON(t, e, http.MethodPost, "/api/students", tok, map[string]any{
		"firstName":   "First",
		"lastName":    "Student",
		"dateOfBirth": "2014-01-01",
		"gender":      "Female",
		"class":       "3",
		"parentName":  "Parent One",
		"parentPhone": "9000000001",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("first create: status %d body %s", rec.Code, rec.Body.String())
	}
	var body map[string]any
	decode(t, rec, &body)
	got := body["data"].(map[string]any)["admissionNumber"]
	if got != fmt.Sprintf("ADM-%d-0001", year) {
		t.Fatalf("first admission number = %v", got)
	}

	id2 := createStudent(t, e, tok, map[string]any{"firstName": "Second"})
	rec = doJSON(t, e, http.MethodGet, fmt.Sprintf("/api/students/%d", id2), tok, nil)
	decode(t, rec, &body)
	got = body["data"].(map[string]any)["admissionNumber"]
	if got != fmt.Sprintf("ADM-%d-0002", year) {
		t.Fatalf("second admission number = %v", got)
	}
}

func TestCreateStudentValidation(t *testing.T) {
	e := newTestServer(t)
	createUser(t, "admin@school.edu", models.RoleAdmin, true)
	tok := login(t, e, "admin@school.edu")

	// ขาด field บังคับ
	rec := doJSON(t, e, http.MethodPost, "/api/students", tok, map[string]any{
		"firstName": "OnlyName",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing fields: status %d", rec.Code)
	}
	var body map[string]any
	decode(t, rec, &body)
	if body["message"] != "Validation error" {
		t.Fatalf("message = %v", body["message"])
	}

	// email ผิดรูปแบบ
	rec = doJSON(t, e, http.MethodPost, "/api/students", tok, map[string]any{
		"firstName":   "Bad",
		"lastName":    "Email",
		"dateOfBirth": "2014-01-01",
		"gender":      "Male",
		"class":       "3",
		"parentName":  "Parent",
		"parentPhone": "9000000001",
		"email":       "not-an-email",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad email: status %d body %s", rec.Code, rec.Body.String())
	}

	// gender นอก enum
	rec = doJSON(t, e, http.MethodPost, "/api/students", tok, map[string]any{
		"firstName":   "Bad",
		"lastName":    "Gender",
		"dateOfBirth": "2014-01-01",
		"gender":      "Unknown",
		"class":       "3",
		"parentName":  "Parent",
		"parentPhone": "9000000001",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad gender: status %d", rec.Code)
	}
}

func TestListStudentsFiltersAndPagination(t *testing.T) {
	e := newTestServer(t)
	createUser(t, "admin@school.edu", models.RoleAdmin, true)
	tok := login(t, e, "admin@school.edu")

	createStudent(t, e, tok, map[string]any{"firstName": "Aarav", "class": "5", "section": "A", "parentName": "Vikram Mehta"})
	createStudent(t, e, tok, map[string]any{"firstName": "Bina", "class": "5", "section": "B", "parentName": "Sunil Rao"})
	id3 := createStudent(t, e, tok, map[string]any{"firstName": "Chetan", "class": "6", "section": "A", "parentName": "Deepak Jain"})

	// pagination
	rec := doJSON(t, e, http.MethodGet, "/api/students?limit=2&page=1", tok, nil)
	var body map[string]any
	decode(t, rec, &body)
	if body["count"].(float64) != 3 {
		t.Fatalf("count = %v", body["count"])
	}
	if body["totalPages"].(float64) != 2 {
		t.Fatalf("totalPages = %v", body["totalPages"])
	}
	if body["currentPage"].(float64) != 1 {
		t.Fatalf("currentPage = %v", body["currentPage"])
	}
	if n := len(body["data"].([]any)); n != 2 {
		t.Fatalf("page length = %d", n)
	}

	// filter class
	rec = doJSON(t, e, http.MethodGet, "/api/students?class=5", tok, nil)
	decode(t, rec, &body)
	if body["count"].(float64) != 2 {
		t.Fatalf("class filter count = %v", body["count"])
	}

	// search case-insensitive ข้าม firstName/lastName/admissionNumber/parentName
	rec = doJSON(t, e, http.MethodGet, "/api/students?search=deepak", tok, nil)
	decode(t, rec, &body)
	if body["count"].(float64) != 1 {
		t.Fatalf("parentName search count = %v", body["count"])
	}
	rec = doJSON(t, e, http.MethodGet, "/api/students?search=adm-", tok, nil)
	decode(t, rec, &body)
	if body["count"].(float64) != 3 {
		t.Fatalf("admissionNumber search count = %v", body["count"])
	}

	// ปิด active แล้ว filter status
	upd := map[string]any{
		"firstName": "Chetan", "lastName": "Sharma", "dateOfBirth": "2014-05-14",
		"gender": "Male", "class": "6", "section": "A",
		"parentName": "Deepak Jain", "parentPhone": "9876543210",
		"isActive": false,
	}
	rec = doJSON(t, e, http.MethodPut, fmt.Sprintf("/api/students/%d", id3), tok, upd)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: status %d body %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, e, http.MethodGet, "/api/students?status=inactive", tok, nil)
	decode(t, rec, &body)
	if body["count"].(float64) != 1 {
		t.Fatalf("inactive count = %v", body["count"])
	}
	rec = doJSON(t, e, http.MethodGet, "/api/students?status=active", tok, nil)
	decode(t, rec, &body)
	if body["count"].(float64) != 2 {
		t.Fatalf("active count = %v", body["count"])
	}
}

// สร้างพร้อม isActive:false ต้องได้นักเรียน inactive จริง ไม่โดนค่า default ทับตอน insert
func TestCreateStudentExplicitInactive(t *testing.T) {
	e := newTestServer(t)
	createUser(t, "admin@school.edu", models.RoleAdmin, true)
	tok := login(t, e, "admin@school.edu")

	id := createStudent(t, e, tok, map[string]any{"isActive": false})

	rec := doJSON(t, e, http.MethodGet, fmt.Sprintf("/api/students/%d", id), tok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: status %d body %s", rec.Code, rec.Body.String())
	}
	var body map[string]any
	decode(t, rec, &body)
	if got := body["data"].(map[string]any)["isActive"]; got != false {
		t.Fatalf("isActive = %v, want false", got)
	}

	rec = doJSON(t, e, http.MethodGet, "/api/students?status=inactive", tok, nil)
	decode(t, rec, &body)
	if body["count"].(float64) != 1 {
		t.Fatalf("inactive count = %v", body["count"])
	}
}

// สิทธิ์มาก่อนการมีอยู่ของ record: teacher ลบ id ที่ไม่มีจริง ต้องได้ 403 ไม่ใช่ 404
func TestDeleteStudentAuthorizationBeforeExistence(t *testing.T) {
	e := newTestServer(t)
	createUser(t, "admin@school.edu", models.RoleAdmin, true)
	createUser(t, "teacher@school.edu", models.RoleTeacher, true)
	adminTok := login(t, e, "admin@school.edu")
	teacherTok := login(t, e, "teacher@school.edu")

	rec := doJSON(t, e, http.MethodDelete, "/api/students/99999", teacherTok, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("teacher delete missing: status %d, want 403", rec.Code)
	}

	rec = doJSON(t, e, http.MethodDelete, "/api/students/99999", adminTok, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("admin delete missing: status %d, want 404", rec.Code)
	}

	id := createStudent(t, e, adminTok, nil)
	rec = doJSON(t, e, http.MethodDelete, fmt.Sprintf("/api/students/%d", id), teacherTok, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("teacher delete existing: status %d, want 403", rec.Code)
	}
	rec = doJSON(t, e, http.MethodDelete, fmt.Sprintf("/api/students/%d", id), adminTok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin delete existing: status %d body %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, e, http.MethodGet, fmt.Sprintf("/api/students/%d", id), adminTok, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: status %d, want 404", rec.Code)
	}
}

func TestStudentStatistics(t *testing.T) {
	e := newTestServer(t)
	createUser(t, "admin@school.edu", models.RoleAdmin, true)
	tok := login(t, e, "admin@school.edu")

	createStudent(t, e, tok, map[string]any{"class": "5", "gender": "Male"})
	createStudent(t, e, tok, map[string]any{"class": "5", "gender": "Female"})
	id := createStudent(t, e, tok, map[string]any{"class": "6", "gender": "Female"})

	upd := map[string]any{
		"firstName": "Rahul", "lastName": "Sharma", "dateOfBirth": "2014-05-14",
		"gender": "Female", "class": "6", "parentName": "Anil Sharma",
		"parentPhone": "9876543210", "isActive": false,
	}
	doJSON(t, e, http.MethodPut, fmt.Sprintf("/api/students/%d", id), tok, upd)

	rec := doJSON(t, e, http.MethodGet, "/api/students/statistics", tok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("statistics: status %d body %s", rec.Code, rec.Body.String())
	}
	var body map[string]any
	decode(t, rec, &body)
	data := body["data"].(map[string]any)
	if data["totalStudents"].(float64) != 3 {
		t.Fatalf("totalStudents = %v", data["totalStudents"])
	}
	if data["activeStudents"].(float64) != 2 {
		t.Fatalf("activeStudents = %v", data["activeStudents"])
	}
	if data["inactiveStudents"].(float64) != 1 {
		t.Fatalf("inactiveStudents = %v", data["inactiveStudents"])
	}
	byClass := data["byClass"].([]any)
	if len(byClass) != 2 {
		t.Fatalf("byClass = %v", byClass)
	}
	byGender := data["byGender"].([]any)
	if len(byGender) != 2 {
		t.Fatalf("byGender = %v", byGender)
	}
}

func TestGetStudentIncludesFees(t *testing.T) {
	e := newTestServer(t)
	createUser(t, "admin@school.edu", models.RoleAdmin, true)
	tok := login(t, e, "admin@school.edu")

	id := createStudent(t, e, tok, nil)
	month := "June"
	if _, rec := createFee(t, e, tok, feePayload(id, map[string]any{"month": month})); rec.Code != http.StatusCreated {
		t.Fatalf("create fee: status %d body %s", rec.Code, rec.Body.String())
	}

	rec := doJSON(t, e, http.MethodGet, fmt.Sprintf("/api/students/%d", id), tok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get student: status %d body %s", rec.Code, rec.Body.String())
	}
	var body map[string]any
	decode(t, rec, &body)
	fees := body["data"].(map[string]any)["fees"].([]any)
	if len(fees) != 1 {
		t.Fatalf("fees attached = %v", fees)
	}
	f := fees[0].(map[string]any)
	mustEqualDecimal(t, f["amount"], 1000)
	if f["paymentStatus"] != "Unpaid" {
		t.Fatalf("paymentStatus = %v", f["paymentStatus"])
	}
}

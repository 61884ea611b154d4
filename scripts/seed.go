// scripts/seed.go
package main

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/humptydumpty-git/SCMS/config"
	"github.com/humptydumpty-git/SCMS/database"
	"github.com/humptydumpty-git/SCMS/models"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	database.Connect(cfg)

	// แฮชเดียวใช้ร่วมทุก demo user
	hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	users := []models.User{
		{Username: "admin", Email: "admin@school.edu", Role: models.RoleAdmin, FullName: "System Administrator", Phone: "1234567890"},
		{Username: "headmaster", Email: "headmaster@school.edu", Role: models.RoleHeadTeacher, FullName: "John Headmaster", Phone: "0987654321"},
		{Username: "teacher1", Email: "teacher1@school.edu", Role: models.RoleTeacher, FullName: "Sarah Johnson", Phone: "1122334455"},
		{Username: "teacher2", Email: "teacher2@school.edu", Role: models.RoleTeacher, FullName: "Michael Brown", Phone: "2233445566"},
		{Username: "accountant", Email: "accountant@school.edu", Role: models.RoleAccountant, FullName: "Lisa Williams", Phone: "3344556677"},
	}

	var admin models.User
	for _, u := range users {
		var existing models.User
		err := database.DB.Where("email = ?", u.Email).First(&existing).Error
		if err == nil {
			fmt.Println("⚠️  user already exists:", u.Email)
			if u.Role == models.RoleAdmin {
				admin = existing
			}
			continue
		}
		if err != gorm.ErrRecordNotFound {
			log.Fatalf("failed to query users: %v", err)
		}
		u.Password = string(hashed)
		u.IsActive = true
		if err := database.DB.Create(&u).Error; err != nil {
			log.Fatalf("failed to insert user %s: %v", u.Email, err)
		}
		if u.Role == models.RoleAdmin {
			admin = u
		}
		fmt.Println("✅ created user:", u.Email, "role:", u.Role)
	}

	// นักเรียนตัวอย่าง (ถ้ายังไม่มีเลย)
	var cnt int64
	database.DB.Model(&models.Student{}).Count(&cnt)
	if cnt > 0 {
		fmt.Println("⚠️  students already seeded, skipping")
		return
	}

	year := time.Now().Year()
	dob := time.Date(year-10, time.May, 14, 0, 0, 0, 0, time.UTC)
	students := []models.Student{
		{
			AdmissionNumber: fmt.Sprintf("ADM-%d-0001", year),
			FirstName:       "Rahul", LastName: "Sharma",
			DateOfBirth: dob, Gender: models.GenderMale,
			AdmissionDate: time.Now(), Class: "5", Section: "A", RollNumber: 1,
			ParentName: "Anil Sharma", ParentPhone: "9876543210",
			Country: "India", IsActive: true,
		},
		{
			AdmissionNumber: fmt.Sprintf("ADM-%d-0002", year),
			FirstName:       "Priya", LastName: "Patel",
			DateOfBirth: dob, Gender: models.GenderFemale,
			AdmissionDate: time.Now(), Class: "5", Section: "B", RollNumber: 2,
			ParentName: "Ramesh Patel", ParentPhone: "9123456780",
			Country: "India", IsActive: true,
		},
	}
	for i := range students {
		if err := database.DB.Create(&students[i]).Error; err != nil {
			log.Fatalf("failed to insert student: %v", err)
		}
	}

	month := time.Now().Month().String()
	fees := []models.Fee{
		{
			StudentID: students[0].ID, Amount: decimal.NewFromInt(1000),
			FeeType: models.FeeTypeTuition, DueDate: time.Now().AddDate(0, 0, 14),
			PaymentStatus: models.PaymentStatusUnpaid,
			AcademicYear:  fmt.Sprintf("%d", year), Month: &month,
			CreatedBy: admin.ID,
		},
		{
			StudentID: students[1].ID, Amount: decimal.NewFromInt(5000),
			FeeType: models.FeeTypeAdmission, DueDate: time.Now(),
			PaymentStatus: models.PaymentStatusUnpaid,
			AcademicYear:  fmt.Sprintf("%d", year),
			CreatedBy:     admin.ID,
		},
	}
	for i := range fees {
		if err := database.DB.Create(&fees[i]).Error; err != nil {
			log.Fatalf("failed to insert fee: %v", err)
		}
	}

	fmt.Println("✅ seed completed")
	fmt.Println("   login: admin@school.edu / admin123")
}

package models

import "time"

// ค่า gender ที่ระบบรับ
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

type Student struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	AdmissionNumber  string    `json:"admissionNumber" gorm:"size:20;uniqueIndex;not null"` // ADM-<ปี>-<ลำดับ 4 หลัก>
	FirstName        string    `json:"firstName" gorm:"size:50;not null"`
	LastName         string    `json:"lastName" gorm:"size:50;not null"`
	DateOfBirth      time.Time `json:"dateOfBirth" gorm:"type:date;not null"`
	Gender           string    `json:"gender" gorm:"size:10;not null"` // Male|Female|Other
	Address          string    `json:"address" gorm:"type:text"`
	City             string    `json:"city" gorm:"size:60"`
	State            string    `json:"state" gorm:"size:60"`
	Country          string    `json:"country" gorm:"size:60;default:India"`
	PostalCode       string    `json:"postalCode" gorm:"size:12"`
	Phone            string    `json:"phone" gorm:"size:15"`
	Email            string    `json:"email" gorm:"size:120"`
	AdmissionDate    time.Time `json:"admissionDate" gorm:"type:date;not null"`
	Class            string    `json:"class" gorm:"size:20;not null"`
	Section          string    `json:"section" gorm:"size:10"`
	RollNumber       int       `json:"rollNumber"`
	ParentName       string    `json:"parentName" gorm:"size:100;not null"`
	ParentPhone      string    `json:"parentPhone" gorm:"size:15;not null"`
	ParentEmail      string    `json:"parentEmail" gorm:"size:120"`
	ParentOccupation string    `json:"parentOccupation" gorm:"size:100"`
	IsActive         bool      `json:"isActive" gorm:"not null"` // default อยู่ฝั่งโค้ด — DB default จะทับค่า false ตอน insert
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`

	// ลบนักเรียน → ลบ fee ของนักเรียนคนนั้นตาม (DB เป็นคนจัดการ FK)
	Fees []Fee `json:"fees,omitempty" gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	FeeTypeTuition   = "Tuition"
	FeeTypeAdmission = "Admission"
	FeeTypeExam      = "Exam"
	FeeTypeTransport = "Transport"
	FeeTypeLibrary   = "Library"
	FeeTypeOther     = "Other"
)

const (
	PaymentStatusPaid    = "Paid"
	PaymentStatusUnpaid  = "Unpaid"
	PaymentStatusPartial = "Partial"
	PaymentStatusOverdue = "Overdue"
)

// udx_fees_recurring: partial unique index กัน tuple (student, feeType, month, academicYear)
// ซ้ำที่ระดับ DB — Admission ไม่เข้า index (เก็บซ้ำได้) และ month NULL ไม่ชนกันเอง
type Fee struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	StudentID     uint            `json:"studentId" gorm:"not null;index;uniqueIndex:udx_fees_recurring,priority:1"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:decimal(10,2);not null"`
	FeeType       string          `json:"feeType" gorm:"size:20;not null;default:Tuition;uniqueIndex:udx_fees_recurring,priority:2"`
	DueDate       time.Time       `json:"dueDate" gorm:"type:date;not null"`
	PaidDate      *time.Time      `json:"paidDate" gorm:"type:date"`
	PaymentStatus string          `json:"paymentStatus" gorm:"size:10;not null;default:Unpaid"`
	PaymentMethod *string         `json:"paymentMethod" gorm:"size:20"` // Cash|Cheque|Bank Transfer|Online Payment|Other
	TransactionID string          `json:"transactionId" gorm:"size:100"`
	Discount      decimal.Decimal `json:"discount" gorm:"type:decimal(10,2);default:0"`
	Fine          decimal.Decimal `json:"fine" gorm:"type:decimal(10,2);default:0"`
	Description   string          `json:"description" gorm:"type:text"`
	AcademicYear  string          `json:"academicYear" gorm:"size:10;not null;uniqueIndex:udx_fees_recurring,priority:3"`
	Month         *string         `json:"month" gorm:"size:12;uniqueIndex:udx_fees_recurring,priority:4,where:fee_type <> 'Admission'"` // ชื่อเดือนอังกฤษ ใช้กับค่าเทอมรายเดือน
	CreatedBy     uint            `json:"createdBy"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`

	Student *Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Creator *User    `json:"-" gorm:"foreignKey:CreatedBy"`
}

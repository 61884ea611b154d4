package models

import "time"

type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"size:60;not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;size:120;not null"`
	Password  string    `json:"-" gorm:"not null"` // เก็บ bcrypt hash
	Role      Role      `json:"role" gorm:"size:20;not null"`
	FullName  string    `json:"fullName" gorm:"size:120"`
	Phone     string    `json:"phone" gorm:"size:15"`
	IsActive  bool      `json:"isActive" gorm:"not null"` // default อยู่ฝั่งโค้ด (Register, seed) — DB default จะทับค่า false ตอน insert
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

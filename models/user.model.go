package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleStudent  = "STUDENT"
	RoleEmployee = "EMPLOYEE"
	RoleAdmin    = "ADMIN"
)

type User struct {
	gorm.Model
	Name                string     `json:"name" gorm:"default:''"`
	Email               string     `json:"email" gorm:"unique;not null"`
	Role                string     `json:"role" gorm:"default:'STUDENT'"` // STUDENT, EMPLOYEE, ADMIN
	Password            string     `json:"-" gorm:"not null"`
	CompanyID           *uint      `json:"company_id" gorm:"index"` // set for corporate employees
	IsEmailVerified     bool       `json:"is_email_verified" gorm:"default:false"`
	LastLogin           *time.Time `json:"last_login"`
	FailedLoginAttempts int        `json:"-" gorm:"default:0"`
	IsBlocked           bool       `json:"-" gorm:"default:false"`
	IsDeleted           bool       `json:"-" gorm:"default:false"`
}

// Company is a corporate account whose employees follow training courses
type Company struct {
	gorm.Model
	Name         string `json:"name" gorm:"not null"`
	ContactEmail string `json:"contact_email"`
	IsDeleted    bool   `json:"-" gorm:"default:false"`
}

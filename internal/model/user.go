package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role enum constants
const (
	RoleAdmin          = "Admin"
	RoleInvoiceCreator = "InvoiceCreator"
	RoleViewOnly       = "ViewOnly"
)

// User represents an authenticated account. The password hash never leaves
// the server: the field is excluded from every JSON rendering.
type User struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Username    string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	Email       string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	Password    string     `gorm:"type:varchar(255);not null" json:"-"`
	FullName    string     `gorm:"type:varchar(200);not null" json:"full_name"`
	Role        string     `gorm:"type:varchar(50);not null" json:"role"` // Admin, InvoiceCreator, ViewOnly
	IsActive    bool       `gorm:"default:true" json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// ValidRole reports whether role is one of the three supported tiers.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleInvoiceCreator || role == RoleViewOnly
}

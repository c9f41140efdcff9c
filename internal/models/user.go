package models

import "time"

type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleAuditor UserRole = "AUDITOR"
	RoleOwner   UserRole = "OWNER"
	RoleViewer  UserRole = "VIEWER"
)

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	FullName     string `gorm:"size:255;not null" json:"full_name"`

	Role     UserRole `gorm:"type:varchar(20);not null;default:VIEWER" json:"role"`
	IsActive bool     `gorm:"not null;default:true" json:"is_active"`

	// для автосозданных учёток: сменить пароль при первом входе
	MustChangePassword bool `gorm:"not null;default:false" json:"must_change_password"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	LastLoginAt *time.Time `json:"last_login_at"`
}

func (u *User) CanVerifyAnyAsset() bool {
	return u.Role == RoleAdmin || u.Role == RoleAuditor
}

func (u *User) CanOverride() bool {
	return u.Role == RoleAdmin || u.Role == RoleAuditor
}

func (u *User) CanManageCycles() bool {
	return u.Role == RoleAdmin
}

func (u *User) CanManageUsers() bool {
	return u.Role == RoleAdmin
}

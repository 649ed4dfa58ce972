package model

import "time"

// Roles
const (
	RoleAdmin     = "admin"
	RoleTeacher   = "teacher"
	RoleOperator  = "operator"
	RolePrincipal = "principal"
)

// AllRoles in display order
var AllRoles = []string{RoleAdmin, RolePrincipal, RoleTeacher, RoleOperator}

// User table users
type User struct {
	UserID           string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Username         string     `gorm:"type:varchar(50);not null"                      json:"username"`
	FullName         string     `gorm:"type:varchar(120);not null"                     json:"full_name"`
	Email            string     `gorm:"type:varchar(255);not null;default:''"          json:"email"`
	PasswordHash     string     `gorm:"type:varchar(255);not null"                     json:"-"`
	Role             string     `gorm:"type:varchar(20);not null;default:'teacher'"    json:"role"`
	IsPremium        bool       `gorm:"not null;default:false"                         json:"is_premium"`
	PremiumExpiresAt *time.Time `gorm:""                                               json:"premium_expires_at,omitempty"`
	IsActive         bool       `gorm:"not null;default:true"                          json:"is_active"`
	LastLoginAt      *time.Time `gorm:""                                               json:"last_login_at,omitempty"`
	BaseModel
}

func (User) TableName() string { return "users" }

// PremiumActive reports whether the subscription is in force at now.
// A premium flag with no expiry never lapses.
func (u *User) PremiumActive(now time.Time) bool {
	if !u.IsPremium {
		return false
	}
	return u.PremiumExpiresAt == nil || u.PremiumExpiresAt.After(now)
}

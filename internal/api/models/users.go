package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is a closed set. Keep comparisons behind the predicates below
// instead of matching strings at call sites.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleModerator || r == RoleAdmin
}

// CanModerate: moderators and admins may edit or delete any review/comment.
func (r Role) CanModerate() bool {
	return r == RoleModerator || r == RoleAdmin
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

type User struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;size:254;not null" json:"email"`
	Bio       string    `gorm:"type:text" json:"bio"`
	Role      Role      `gorm:"type:varchar(10);default:'user';not null" json:"role"`
	Superuser bool      `gorm:"default:false;not null" json:"-"` // set out of band, never through the API
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Role == "" {
		user.Role = RoleUser
	}
	return
}

// CanModerate folds the superuser flag into the role check.
func (user *User) CanModerate() bool {
	return user.Superuser || user.Role.CanModerate()
}

func (user *User) IsAdmin() bool {
	return user.Superuser || user.Role.IsAdmin()
}

func (User) TableName() string {
	return "users"
}

package domain

import (
	"time"
)

type Role string

const (
	RoleAdmin     Role = "管理员"
	RoleHeadNurse Role = "护士长"
	RoleViewer    Role = "查看者"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}

// CanEditPlans 只有管理员和护士长可以修改排班，查看者只读
func (u *User) CanEditPlans() bool {
	return u.Role == RoleAdmin || u.Role == RoleHeadNurse
}

package model

import (
	"strings"
	"time"
)

const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// User is provisioned out of band (seed data); the API never creates or
// modifies users.
type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Name         string    `json:"name" gorm:"not null;uniqueIndex"`
	Role         string    `json:"role" gorm:"not null"` // "teacher", "student"
	PasswordHash string    `json:"-" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
}

// Principal is the authenticated identity resolved from a session token.
// A zero Principal is anonymous.
type Principal struct {
	UserID uint
	Name   string
	Role   string
}

func (p Principal) IsAnonymous() bool {
	return p.UserID == 0
}

func (p Principal) IsTeacher() bool {
	return strings.ToLower(strings.TrimSpace(p.Role)) == RoleTeacher
}

func (p Principal) IsStudent() bool {
	return strings.ToLower(strings.TrimSpace(p.Role)) == RoleStudent
}

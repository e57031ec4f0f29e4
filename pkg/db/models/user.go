package models

import "time"

// User is a staff account created through sign-up.
type User struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	FullName     string    `gorm:"column:fullname;not null"`
	Email        string    `gorm:"column:email;not null;uniqueIndex:users_email_key"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (User) TableName() string { return "users" }

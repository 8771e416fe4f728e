package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigflow-backend/internal/pkg/apperror"
	"github.com/ignatzorin/gigflow-backend/internal/validation"
)

type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	RefreshToken *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserSummary содержит отображаемые поля пользователя в ответах.
type UserSummary struct {
	ID    uuid.UUID
	Name  string
	Email string
}

func NewUser(name, email, passwordHash string) (*User, error) {
	if err := validation.ValidateName(name); err != nil {
		return nil, apperror.Validation(err.Error())
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, apperror.Validation(err.Error())
	}
	if passwordHash == "" {
		return nil, apperror.Validation("пароль обязателен")
	}

	now := time.Now()
	return &User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(name),
		Email:        validation.NormalizeEmail(email),
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

func (u *User) Clone() *User {
	c := *u
	if u.RefreshToken != nil {
		token := *u.RefreshToken
		c.RefreshToken = &token
	}
	return &c
}

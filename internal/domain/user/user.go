package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	DisplayName  string
	CreatedAt    time.Time
}

type CreateUserInput struct {
	Email        string
	PasswordHash string
	DisplayName  string
}

package identity

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Avatar       string    `json:"avatar"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the authenticated caller, resolved from the session cookie and
// passed explicitly to everything that needs it.
type Identity struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
}

var (
	ErrTaken            = errors.New("username or email already in use")
	ErrNotFound         = errors.New("user not found")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrSessionNotFound  = errors.New("session not found")
	ErrEmptyCredentials = errors.New("username and password are required")
)

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidPassword
	}
	return nil
}

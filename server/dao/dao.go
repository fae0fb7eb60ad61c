// Package dao provides the data access objects used by the fterankd admin
// API. fterankd has exactly one kind of stored entity - the admin credential
// used to mint and validate bearer tokens - so this package is a single-user
// store with exactly one repository, not a multi-repository store.
package dao

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrConstraintViolation = errors.New("a uniqueness constraint was violated")
	ErrNotFound            = errors.New("the requested resource was not found")
	ErrDecodingFailure     = errors.New("field could not be decoded from DB storage format to model format")
)

// Store holds the repositories fterankd needs. There is exactly one
// repository: fterankd has no session/world state of its own, only the
// admin credential guarding its mutating endpoints.
type Store interface {
	Users() UserRepository
	Close() error
}

type UserRepository interface {
	// Create creates a new User. All attributes except for auto-generated
	// fields are taken from the provided User.
	Create(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	GetAll(ctx context.Context) ([]User, error)
	Update(ctx context.Context, id uuid.UUID, user User) (User, error)
	Delete(ctx context.Context, id uuid.UUID) (User, error)

	// Close closes the connection.
	Close() error
}

// Role distinguishes an ordinary caller (who can rank/unrank/count/compile
// against already-registered DFAs) from an admin (who can additionally
// register new ones via POST /api/v1/dfas).
type Role int

const (
	Normal Role = iota
	Admin  Role = 100
)

func (r Role) String() string {
	switch r {
	case Normal:
		return "normal"
	case Admin:
		return "admin"
	default:
		return fmt.Sprintf("Role(%d)", r)
	}
}

func ParseRole(s string) (Role, error) {
	switch strings.ToLower(s) {
	case "normal":
		return Normal, nil
	case "admin":
		return Admin, nil
	default:
		return Normal, fmt.Errorf("must be one of 'normal' or 'admin'")
	}
}

type User struct {
	ID             uuid.UUID // PK, NOT NULL
	Username       string    // UNIQUE, NOT NULL
	Password       string    // NOT NULL, bcrypt hash
	Email          *mail.Address
	Role           Role
	Created        time.Time
	Modified       time.Time
	LastLogoutTime time.Time
	LastLoginTime  time.Time
}

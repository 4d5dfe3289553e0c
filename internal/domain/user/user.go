package user

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Name       string     `json:"name"`
	LoginTime  *time.Time `json:"loginTime"`
	LogoutTime *time.Time `json:"logoutTime"`
}

var ErrNotFound = errors.New("user not found")

// returned by any store when the email is already owned by another record
var ErrEmailAlreadyUsed = errors.New("email already used")

type RegisterRequest struct {
	Email string `json:"email" binding:"required,email,max=254"`
	Name  string `json:"name" binding:"required,max=200"`
}

// UnmarshalJSON trims both fields (and lowercases the email) before binding
// validation runs, so a whitespace-only value counts as missing.
func (r *RegisterRequest) UnmarshalJSON(b []byte) error {
	type plain RegisterRequest

	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}

	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.Name = strings.TrimSpace(p.Name)

	*r = RegisterRequest(p)
	return nil
}

// Identity is the verified subject a login upsert is keyed on.
type Identity struct {
	Subject string
	Email   string
	Name    string
}

// factory for the directly registered path, ids are generated rather than verified

func NewFromRegisterRequest(req RegisterRequest) User {
	return User{
		ID:    uuid.NewString(),
		Email: req.Email,
		Name:  req.Name,
	}
}

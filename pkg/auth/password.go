package auth

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

type Password struct {
	hash string
}

func NewPassword(plain string) (*Password, error) {
	if strings.TrimSpace(plain) == "" {
		return nil, errors.New("password cannot be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &Password{hash: string(hash)}, nil
}

func PasswordFromHash(hash string) *Password {
	return &Password{hash: hash}
}

func (p *Password) Is(plain string) bool {
	if p == nil {
		return false
	}

	return bcrypt.CompareHashAndPassword([]byte(p.hash), []byte(plain)) == nil
}

func (p *Password) GetHash() string {
	if p == nil {
		return ""
	}

	return p.hash
}

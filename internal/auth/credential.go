package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const (
	// CredentialKey holds the single admin credential record.
	CredentialKey = "adminCred"
	// LoggedInKey holds the persisted "admin is logged in" flag.
	LoggedInKey = "adminLoggedIn"

	DefaultUsername = "admin"
	DefaultPassword = "1234"
)

// Credential is the stored admin record. The password is never kept in clear.
type Credential struct {
	Username     string `json:"username"`
	PasswordHash string `json:"passwordHash"`
}

func (c Credential) Validate() error {
	if c.PasswordHash == "" {
		return errors.New("credential has no password hash")
	}
	return nil
}

func HashPassword(pw string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// NewCredential hashes password into a storable record.
func NewCredential(username, password string, cost int) (Credential, error) {
	hash, err := HashPassword(password, cost)
	if err != nil {
		return Credential{}, err
	}
	return Credential{Username: username, PasswordHash: hash}, nil
}

// Default is the first-run credential, admin / 1234.
func Default(cost int) (Credential, error) {
	return NewCredential(DefaultUsername, DefaultPassword, cost)
}

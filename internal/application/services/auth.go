package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"valutatrade-hub/internal/domain/entities"
	"valutatrade-hub/internal/domain/interfaces"
)

// Auth sentinel errors for the CLI to match on.
var (
	ErrUsernameTaken = errors.New("username is already taken")
	ErrUserNotFound  = errors.New("user not found")
	ErrWrongPassword = errors.New("wrong password")
)

const saltAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Auth manages account registration and login. The trading core never sees
// credentials, only the resulting (user_id, username).
type Auth struct {
	users      interfaces.UserStore
	portfolios interfaces.PortfolioStore
}

// NewAuth creates an auth service over the given stores.
func NewAuth(users interfaces.UserStore, portfolios interfaces.PortfolioStore) *Auth {
	return &Auth{users: users, portfolios: portfolios}
}

// Register creates a new user with a salted password hash and an empty
// portfolio. User ids auto-increment from the highest existing id.
func (a *Auth) Register(username, password string) (int, string, error) {
	name, err := normalizeUsername(username)
	if err != nil {
		return 0, "", err
	}
	if err := validatePassword(password); err != nil {
		return 0, "", err
	}

	users, err := a.users.Load()
	if err != nil {
		return 0, "", err
	}

	for _, u := range users {
		if u.Username == name {
			return 0, "", fmt.Errorf("%w: '%s'", ErrUsernameTaken, name)
		}
	}

	userID := nextUserID(users)
	salt, err := generateSalt(8)
	if err != nil {
		return 0, "", err
	}

	users = append(users, entities.User{
		UserID:           userID,
		Username:         name,
		HashedPassword:   hashPassword(password, salt),
		Salt:             salt,
		RegistrationDate: time.Now().UTC().Format(time.RFC3339),
	})
	if err := a.users.Save(users); err != nil {
		return 0, "", err
	}

	records, err := a.portfolios.Load()
	if err != nil {
		return 0, "", err
	}
	records = append(records, entities.PortfolioRecord{
		UserID:  userID,
		Wallets: make(map[string]entities.WalletRecord),
	})
	if err := a.portfolios.Save(records); err != nil {
		return 0, "", err
	}

	return userID, name, nil
}

// Login verifies credentials and returns (user_id, username).
func (a *Auth) Login(username, password string) (int, string, error) {
	name, err := normalizeUsername(username)
	if err != nil {
		return 0, "", err
	}
	if err := validatePassword(password); err != nil {
		return 0, "", err
	}

	users, err := a.users.Load()
	if err != nil {
		return 0, "", err
	}

	for _, u := range users {
		if u.Username != name {
			continue
		}
		if hashPassword(password, u.Salt) != u.HashedPassword {
			return 0, "", ErrWrongPassword
		}
		return u.UserID, u.Username, nil
	}

	return 0, "", fmt.Errorf("%w: '%s'", ErrUserNotFound, name)
}

func normalizeUsername(username string) (string, error) {
	name := strings.TrimSpace(username)
	if name == "" {
		return "", errors.New("username cannot be empty")
	}
	return name, nil
}

func validatePassword(password string) error {
	if len(password) < 4 {
		return errors.New("password must be at least 4 characters long")
	}
	return nil
}

func nextUserID(users []entities.User) int {
	maxID := 0
	for _, u := range users {
		if u.UserID > maxID {
			maxID = u.UserID
		}
	}
	return maxID + 1
}

func hashPassword(password, salt string) string {
	sum := sha256.Sum256([]byte(password + salt))
	return hex.EncodeToString(sum[:])
}

func generateSalt(length int) (string, error) {
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(saltAlphabet))))
		if err != nil {
			return "", err
		}
		out[i] = saltAlphabet[n.Int64()]
	}
	return string(out), nil
}

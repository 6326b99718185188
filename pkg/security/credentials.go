package security

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials covers both an unknown email and a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Credentials keeps bcrypt hashes of login passwords keyed by case-folded email.
type Credentials struct {
	cost int

	mu     sync.RWMutex
	hashes map[string][]byte
	decoy  []byte
}

// NewCredentials hashes at cost, falling back to bcrypt.DefaultCost when cost is out of range.
func NewCredentials(cost int) (*Credentials, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	decoy, err := bcrypt.GenerateFromPassword([]byte("no such account"), cost)
	if err != nil {
		return nil, fmt.Errorf("hash decoy password: %w", err)
	}
	return &Credentials{cost: cost, hashes: make(map[string][]byte), decoy: decoy}, nil
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Enroll stores the hash of password for email, replacing an earlier one.
func (c *Credentials) Enroll(email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), c.cost)
	if err != nil {
		return fmt.Errorf("hash password for %s: %w", email, err)
	}
	c.mu.Lock()
	c.hashes[emailKey(email)] = hash
	c.mu.Unlock()
	return nil
}

// Verify checks password for email. An unknown email still pays for one comparison so that
// response time does not reveal which accounts exist.
func (c *Credentials) Verify(email, password string) error {
	c.mu.RLock()
	hash, ok := c.hashes[emailKey(email)]
	c.mu.RUnlock()

	if !ok {
		_ = bcrypt.CompareHashAndPassword(c.decoy, []byte(password))
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// Len reports how many accounts are enrolled.
func (c *Credentials) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.hashes)
}

package session

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt ignores input past this length
const maxCredentialLength = 72

// Gate checks a credential before a desktop session starts
type Gate struct {
	hashes [][]byte
}

// NewGate hashes the accepted passwords. Plain values are not retained.
func NewGate(passwords []string, cost int) (*Gate, error) {
	if len(passwords) == 0 {
		return nil, errors.New("gate needs at least one password")
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	g := &Gate{hashes: make([][]byte, 0, len(passwords))}
	for i, p := range passwords {
		if p == "" || len(p) > maxCredentialLength {
			return nil, fmt.Errorf("gate password %d: invalid length", i)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(p), cost)
		if err != nil {
			return nil, fmt.Errorf("gate password %d: %w", i, err)
		}
		g.hashes = append(g.hashes, hash)
	}
	return g, nil
}

// Authenticate reports whether credential matches an accepted password
func (g *Gate) Authenticate(credential string) bool {
	if credential == "" || len(credential) > maxCredentialLength {
		return false
	}
	for _, hash := range g.hashes {
		if bcrypt.CompareHashAndPassword(hash, []byte(credential)) == nil {
			return true
		}
	}
	return false
}

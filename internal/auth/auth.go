package auth

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/fissionplay/chain-reaction-backend/internal/board"
)

var ErrUnauthorized = errors.New("invalid token")

// Credential is what a token resolves to: which game the holder is in and
// which side they play.
type Credential struct {
	GameID string
	Role   board.Role
}

// Authenticator issues and resolves opaque player tokens. Tokens are
// never revoked or expired; a credential is good for the life of the
// process.
type Authenticator struct {
	mu     sync.RWMutex
	tokens map[string]Credential
}

func NewAuthenticator() *Authenticator {
	return &Authenticator{tokens: make(map[string]Credential)}
}

// Issue mints an unguessable token for (gameID, role).
func (a *Authenticator) Issue(gameID string, role board.Role) string {
	token := uuid.NewString()
	a.mu.Lock()
	a.tokens[token] = Credential{GameID: gameID, Role: role}
	a.mu.Unlock()
	return token
}

func (a *Authenticator) Resolve(token string) (Credential, error) {
	a.mu.RLock()
	cred, ok := a.tokens[token]
	a.mu.RUnlock()
	if !ok {
		return Credential{}, ErrUnauthorized
	}
	return cred, nil
}

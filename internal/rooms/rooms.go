package rooms

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
	"sync"
)

var ErrNotFound = errors.New("room not found")

const codeLength = 4

// Registry maps short shareable room codes to game ids. Codes are never
// expired and never single-use: anyone holding a code can resolve it, as
// many times as they like.
type Registry struct {
	mu    sync.RWMutex
	codes map[string]string
}

func NewRegistry() *Registry {
	return &Registry{codes: make(map[string]string)}
}

func generateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

	code := make([]byte, codeLength)
	for i := 0; i < codeLength; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

// Create binds a fresh code to gameID. Uniqueness holds against codes
// registered at generation time; collisions are regenerated.
func (r *Registry) Create(gameID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for {
		code, err := generateCode()
		if err != nil {
			return "", err
		}
		if _, taken := r.codes[code]; taken {
			continue
		}
		r.codes[code] = gameID
		return code, nil
	}
}

// Resolve looks up a code case-insensitively.
func (r *Registry) Resolve(code string) (string, error) {
	r.mu.RLock()
	gameID, ok := r.codes[strings.ToUpper(code)]
	r.mu.RUnlock()
	if !ok {
		return "", ErrNotFound
	}
	return gameID, nil
}

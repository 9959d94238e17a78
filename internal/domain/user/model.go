package user

import (
	"crypto/rand"
	"time"

	"github.com/google/uuid"
)

// Role controls what a user is allowed to do.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Valid reports whether the role is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// APIKeyLength is the length of generated API keys.
const APIKeyLength = 32

// User is an authenticated identity. Every project and time track entry is
// scoped to the user that created it.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	APIKey    string    `json:"api_key,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `json:"created_by"`
}

// New creates a user with a freshly generated API key.
func New(name string, role Role, createdBy string) *User {
	return &User{
		ID:        uuid.NewString(),
		Name:      name,
		Role:      role,
		APIKey:    generateAPIKey(APIKeyLength),
		CreatedAt: time.Now().UTC(),
		CreatedBy: createdBy,
	}
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

const apiKeyAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func generateAPIKey(length int) string {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	for i, b := range buf {
		buf[i] = apiKeyAlphabet[int(b)%len(apiKeyAlphabet)]
	}
	return string(buf)
}

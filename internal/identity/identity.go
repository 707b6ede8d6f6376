// Package identity abstracts the identity provider the dashboard authenticates against.
// The dashboard depends only on SessionProvider; LocalProvider is a self-contained
// implementation that mints HS256 bearer tokens the dev stub server accepts.
package identity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/coinly/coinly/internal/apperror"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Identity is the signed-in user as reported by the provider.
type Identity struct {
	UserID string
	Name   string
	Email  string
}

// SessionProvider is the identity provider as seen by the dashboard.
type SessionProvider interface {
	// Subscribe registers onChange for session changes. It is called with the current
	// identity (nil when signed out). The returned function unsubscribes.
	Subscribe(onChange func(*Identity)) (unsubscribe func())
	// Token mints a fresh bearer token for the current session.
	Token(ctx context.Context) (string, error)
}

// User is an entry of the local users file.
type User struct {
	ID           string `yaml:"id"`
	Email        string `yaml:"email"`
	Name         string `yaml:"name"`
	PasswordHash string `yaml:"passwordHash"`
}

type usersFile struct {
	Users []User `yaml:"users"`
}

// LoadUsers reads a YAML users file.
func LoadUsers(r io.Reader) ([]User, error) {
	var f usersFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding users file: %w", err)
	}
	for i := range f.Users {
		if f.Users[i].ID == "" {
			f.Users[i].ID = uuid.NewSHA1(uuid.NameSpaceURL, []byte("coinly:"+strings.ToLower(f.Users[i].Email))).String()
		}
	}
	return f.Users, nil
}

// LoadUsersFile reads users from path.
func LoadUsersFile(path string) ([]User, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening users file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return LoadUsers(f)
}

// HashPassword returns a bcrypt hash suitable for the users file.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// LocalProvider is an in-process identity provider backed by a fixed user list.
// It is safe for concurrent use.
type LocalProvider struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time

	mu          sync.Mutex
	users       map[string]User // keyed by lower-cased email
	current     *Identity
	subscribers map[int]func(*Identity)
	nextSubID   int
}

// NewLocalProvider creates a provider that signs tokens with secret.
func NewLocalProvider(secret string, ttl time.Duration, users []User) *LocalProvider {
	if ttl <= 0 {
		ttl = time.Hour
	}
	p := &LocalProvider{
		secret:      []byte(secret),
		ttl:         ttl,
		now:         time.Now,
		users:       make(map[string]User, len(users)),
		subscribers: make(map[int]func(*Identity)),
	}
	for _, u := range users {
		p.users[strings.ToLower(u.Email)] = u
	}
	return p
}

// SignIn checks the password and, on success, notifies subscribers.
func (p *LocalProvider) SignIn(email, password string) (*Identity, error) {
	p.mu.Lock()
	user, ok := p.users[strings.ToLower(strings.TrimSpace(email))]
	p.mu.Unlock()
	if !ok || user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	id := &Identity{UserID: user.ID, Name: user.Name, Email: user.Email}
	p.setCurrent(id)
	return id, nil
}

// SignOut clears the session and notifies subscribers.
func (p *LocalProvider) SignOut() {
	p.setCurrent(nil)
}

// Current returns the signed-in identity, or nil.
func (p *LocalProvider) Current() *Identity {
	p.mu.Lock()
	defer p.mu.Unlock()
	return copyIdentity(p.current)
}

// Subscribe fires onChange immediately with the current identity, then on every change.
func (p *LocalProvider) Subscribe(onChange func(*Identity)) func() {
	p.mu.Lock()
	id := p.nextSubID
	p.nextSubID++
	p.subscribers[id] = onChange
	current := copyIdentity(p.current)
	p.mu.Unlock()

	onChange(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.subscribers, id)
			p.mu.Unlock()
		})
	}
}

// Token mints a new signed token for the current identity on every call.
func (p *LocalProvider) Token(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	current := p.Current()
	if current == nil {
		return "", apperror.ErrUnauthenticated
	}

	now := p.now()
	claims := jwt.MapClaims{
		"sub":   current.UserID,
		"email": current.Email,
		"name":  current.Name,
		"iat":   now.Unix(),
		"exp":   now.Add(p.ttl).Unix(),
		"jti":   uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// SubscriberCount reports the number of live subscriptions.
func (p *LocalProvider) SubscriberCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.subscribers)
}

func (p *LocalProvider) setCurrent(id *Identity) {
	p.mu.Lock()
	p.current = copyIdentity(id)
	subs := make([]func(*Identity), 0, len(p.subscribers))
	for _, fn := range p.subscribers {
		subs = append(subs, fn)
	}
	p.mu.Unlock()

	for _, fn := range subs {
		fn(copyIdentity(id))
	}
}

// ValidateToken parses and validates a token minted by a LocalProvider with secret.
func ValidateToken(secret, tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, errors.New("invalid subject in token")
	}
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)

	return &Identity{UserID: sub, Email: email, Name: name}, nil
}

func copyIdentity(id *Identity) *Identity {
	if id == nil {
		return nil
	}
	c := *id
	return &c
}

package auth

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/printmill/printmill-backend/internal/modules/user"
	"golang.org/x/crypto/bcrypt"
)

type service struct {
	userRepo    user.Repository
	maxPerUser  int
	idleTimeout time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
	// byUser keeps token ids in issue order per user, which makes the
	// cap eviction FIFO rather than LRU.
	byUser map[string][]string

	now func() time.Time
}

// NewService creates a session manager over the account repository.
func NewService(userRepo user.Repository, maxPerUser int, idleTimeout time.Duration) Service {
	return &service{
		userRepo:    userRepo,
		maxPerUser:  maxPerUser,
		idleTimeout: idleTimeout,
		sessions:    make(map[string]*Session),
		byUser:      make(map[string][]string),
		now:         time.Now,
	}
}

func (s *service) Login(ctx context.Context, username, password string) AuthResult {
	a, err := s.userRepo.Get(ctx, username)
	if err != nil {
		return AuthResult{Success: false, Message: "invalid username or password"}
	}
	if a.PasswordHash == "" {
		return AuthResult{Success: false, Message: "account has no usable password"}
	}
	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) != nil {
		return AuthResult{Success: false, Message: "invalid username or password"}
	}

	token, err := newToken()
	if err != nil {
		log.Printf("auth: token generation: %v", err)
		return AuthResult{Success: false, Message: "could not create session"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Count, maybe evict, then insert — all under one lock so two
	// concurrent logins cannot both slip past the cap.
	if len(s.byUser[username]) >= s.maxPerUser {
		oldest := s.byUser[username][0]
		s.removeLocked(oldest)
	}

	now := s.now()
	s.sessions[token] = &Session{
		ID:           token,
		Username:     username,
		CreatedAt:    now,
		LastActivity: now,
	}
	s.byUser[username] = append(s.byUser[username], token)

	return AuthResult{Success: true, Message: "login successful", Token: token}
}

func (s *service) ValidateSession(ctx context.Context, token string) (*user.Account, bool) {
	s.mu.Lock()
	sess, ok := s.sessions[token]
	if !ok {
		s.mu.Unlock()
		return nil, false
	}
	now := s.now()
	if now.Sub(sess.LastActivity) > s.idleTimeout {
		s.removeLocked(token)
		s.mu.Unlock()
		return nil, false
	}
	sess.LastActivity = now
	username := sess.Username
	s.mu.Unlock()

	a, err := s.userRepo.Get(ctx, username)
	if err != nil {
		// Account removed since login; the session is orphaned.
		s.mu.Lock()
		s.removeLocked(token)
		s.mu.Unlock()
		return nil, false
	}
	return a, true
}

func (s *service) Logout(ctx context.Context, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(token)
}

func (s *service) LogoutAll(ctx context.Context, username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, token := range s.byUser[username] {
		delete(s.sessions, token)
	}
	delete(s.byUser, username)
}

func (s *service) ActiveSessions(ctx context.Context, username string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byUser[username])
}

// removeLocked deletes a session and its per-user index entry, dropping the
// user's list entirely once it is empty. Caller holds the lock.
func (s *service) removeLocked(token string) {
	sess, ok := s.sessions[token]
	if !ok {
		return
	}
	delete(s.sessions, token)

	tokens := s.byUser[sess.Username]
	for i, t := range tokens {
		if t == token {
			tokens = append(tokens[:i], tokens[i+1:]...)
			break
		}
	}
	if len(tokens) == 0 {
		delete(s.byUser, sess.Username)
	} else {
		s.byUser[sess.Username] = tokens
	}
}

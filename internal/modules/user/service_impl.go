package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

type service struct {
	repo        Repository
	resetSecret []byte
	resetTTL    time.Duration
}

// NewService creates a new account service. resetSecret signs password reset
// tokens; resetTTL bounds their validity.
func NewService(repo Repository, resetSecret string, resetTTL time.Duration) Service {
	return &service{repo: repo, resetSecret: []byte(resetSecret), resetTTL: resetTTL}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*Account, error) {
	var problems []string

	username := strings.TrimSpace(req.Username)
	if username == "" {
		problems = append(problems, "username is required")
	}
	if strings.ContainsAny(username, "|") {
		problems = append(problems, "username must not contain '|'")
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		problems = append(problems, "a valid email is required")
	}
	if strings.ContainsAny(email, "|") {
		problems = append(problems, "email must not contain '|'")
	}

	role := Role(req.Role)
	if req.Role == "" {
		role = RoleCustomer
	} else if !ValidRole(role) {
		problems = append(problems, fmt.Sprintf("unknown role %q", req.Role))
	}

	problems = append(problems, CheckPassword(req.Password)...)
	if len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	a := &Account{
		Username:     username,
		Email:        email,
		Role:         role,
		PasswordHash: string(hash),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) Get(ctx context.Context, username string) (*Account, error) {
	return s.repo.Get(ctx, username)
}

func (s *service) List(ctx context.Context) ([]*Account, error) {
	return s.repo.List(ctx)
}

func (s *service) Remove(ctx context.Context, username string) error {
	return s.repo.Remove(ctx, username)
}

func (s *service) VerifyPassword(ctx context.Context, username, password string) bool {
	a, err := s.repo.Get(ctx, username)
	if err != nil {
		return false
	}
	if a.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) == nil
}

func (s *service) ChangePassword(ctx context.Context, username string, req ChangePasswordRequest) error {
	if !s.VerifyPassword(ctx, username, req.OldPassword) {
		return errors.New("old password is incorrect")
	}
	return s.setPassword(ctx, username, req.NewPassword)
}

func (s *service) IssueResetToken(ctx context.Context, username string) (string, error) {
	if _, err := s.repo.Get(ctx, username); err != nil {
		return "", err
	}

	now := time.Now()
	claims := &jwt.StandardClaims{
		Subject:   username,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.resetTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.resetSecret)
}

func (s *service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(req.Token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.resetSecret, nil
	})
	if err != nil || !token.Valid {
		return errors.New("invalid or expired reset token")
	}
	return s.setPassword(ctx, claims.Subject, req.NewPassword)
}

func (s *service) setPassword(ctx context.Context, username, password string) error {
	if problems := CheckPassword(password); len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePasswordHash(ctx, username, string(hash))
}

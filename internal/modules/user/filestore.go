package user

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/printmill/printmill-backend/internal/storage/textfile"
)

// fileRepository keeps accounts in memory and rewrites the users file after
// each mutation.
//
// Record format: username|email|role|passwordHash
// An empty passwordHash field is permitted: the account exists but has no
// usable password.
type fileRepository struct {
	mu       sync.Mutex
	path     string
	accounts map[string]*Account
}

// NewFileRepository creates an account repository backed by the
// pipe-delimited file at path and loads any existing records.
func NewFileRepository(path string) (Repository, error) {
	r := &fileRepository{path: path, accounts: make(map[string]*Account)}

	err := textfile.ReadLines(path, func(line string) error {
		fields := strings.Split(line, "|")
		if len(fields) != 4 {
			log.Printf("user: skipping malformed line %q", line)
			return nil
		}
		role := Role(fields[2])
		if !ValidRole(role) {
			log.Printf("user: skipping account %q with unknown role %q", fields[0], fields[2])
			return nil
		}
		r.accounts[fields[0]] = &Account{
			Username:     fields[0],
			Email:        fields[1],
			Role:         role,
			PasswordHash: fields[3],
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading users from %s: %w", path, err)
	}
	return r, nil
}

func (r *fileRepository) Create(ctx context.Context, a *Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.accounts[a.Username]; taken {
		return ErrExists
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	copied := *a
	r.accounts[a.Username] = &copied
	return r.save()
}

func (r *fileRepository) Get(ctx context.Context, username string) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[username]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *fileRepository) List(ctx context.Context) ([]*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		copied := *a
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *fileRepository) UpdatePasswordHash(ctx context.Context, username, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[username]
	if !ok {
		return ErrNotFound
	}
	a.PasswordHash = hash
	return r.save()
}

func (r *fileRepository) Remove(ctx context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[username]; !ok {
		return ErrNotFound
	}
	delete(r.accounts, username)
	return r.save()
}

// save rewrites the users file. Caller holds the lock.
func (r *fileRepository) save() error {
	names := make([]string, 0, len(r.accounts))
	for name := range r.accounts {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		a := r.accounts[name]
		lines = append(lines, fmt.Sprintf("%s|%s|%s|%s", a.Username, a.Email, a.Role, a.PasswordHash))
	}
	if err := textfile.WriteLines(r.path, "users: username|email|role|passwordHash", lines); err != nil {
		log.Printf("user: save %s: %v", r.path, err)
		return err
	}
	return nil
}

package inventory

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/printmill/printmill-backend/internal/modules/catalog"
	"github.com/printmill/printmill-backend/internal/storage/textfile"
)

// DefaultStockGrams is the stock level reported for materials that have never
// been stocked. The historical ledger treated an unknown material as a fresh
// 1 kg spool rather than empty; orders against never-stocked materials were
// accepted on that assumption.
const DefaultStockGrams = 1000

// Option configures a file repository.
type Option func(*fileRepository)

// WithDefaultStock overrides the default-on-miss stock level. Passing 0 gives
// the strict behavior where never-stocked materials are out of stock.
func WithDefaultStock(grams int) Option {
	return func(r *fileRepository) {
		if grams >= 0 {
			r.defaultStock = grams
		}
	}
}

// fileRepository keeps stock levels in memory under one mutex, so a
// check-then-consume is atomic, and rewrites the ledger file after each
// mutation.
//
// Record format: materialName|stockGrams, where materialName is the
// material's display name.
type fileRepository struct {
	mu           sync.Mutex
	path         string
	stock        map[catalog.Key]int
	defaultStock int
}

// NewFileRepository creates an inventory ledger backed by the pipe-delimited
// file at path and loads any existing records.
func NewFileRepository(path string, opts ...Option) (Repository, error) {
	r := &fileRepository{
		path:         path,
		stock:        make(map[catalog.Key]int),
		defaultStock: DefaultStockGrams,
	}
	for _, opt := range opts {
		opt(r)
	}

	err := textfile.ReadLines(path, func(line string) error {
		name, gramsField, ok := splitLast(line, "|")
		if !ok {
			log.Printf("inventory: skipping malformed line %q", line)
			return nil
		}
		key, ok := parseDisplayName(name)
		if !ok {
			log.Printf("inventory: skipping unparseable material name %q", name)
			return nil
		}
		grams, err := strconv.Atoi(gramsField)
		if err != nil || grams < 0 {
			log.Printf("inventory: skipping invalid stock value %q for %q", gramsField, name)
			return nil
		}
		r.stock[key] = grams
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading inventory from %s: %w", path, err)
	}
	return r, nil
}

// splitLast splits on the final occurrence of sep so material names that are
// later extended with extra fields keep parsing.
func splitLast(s, sep string) (string, string, bool) {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return "", "", false
	}
	return s[:i], s[i+len(sep):], true
}

// parseDisplayName inverts catalog.Material.DisplayName:
// "PLA - Overture (Black)" → {Overture, PLA, Black}.
func parseDisplayName(name string) (catalog.Key, bool) {
	typ, rest, ok := strings.Cut(name, " - ")
	if !ok {
		return catalog.Key{}, false
	}
	open := strings.LastIndex(rest, " (")
	if open < 0 || !strings.HasSuffix(rest, ")") {
		return catalog.Key{}, false
	}
	brand := rest[:open]
	color := rest[open+2 : len(rest)-1]
	if typ == "" || brand == "" || color == "" {
		return catalog.Key{}, false
	}
	return catalog.Key{Brand: brand, Type: typ, Color: color}, true
}

func (r *fileRepository) GetStock(ctx context.Context, key catalog.Key) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stockLocked(key), nil
}

func (r *fileRepository) HasSufficient(ctx context.Context, key catalog.Key, grams int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stockLocked(key) >= grams, nil
}

func (r *fileRepository) Consume(ctx context.Context, key catalog.Key, grams int) error {
	if grams < 0 {
		return fmt.Errorf("cannot consume negative grams")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	current := r.stockLocked(key)
	if current < grams {
		return ErrInsufficientStock
	}
	r.stock[key] = current - grams
	return r.save()
}

func (r *fileRepository) Replenish(ctx context.Context, key catalog.Key, grams int) error {
	if grams < 0 {
		return fmt.Errorf("cannot replenish negative grams")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stock[key] = r.stockLocked(key) + grams
	return r.save()
}

func (r *fileRepository) SetStock(ctx context.Context, key catalog.Key, grams int) error {
	if grams < 0 {
		// Historical contract: negative assignments are silently ignored.
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stock[key] = grams
	return r.save()
}

func (r *fileRepository) Snapshot(ctx context.Context) (map[catalog.Key]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[catalog.Key]int, len(r.stock))
	for k, v := range r.stock {
		out[k] = v
	}
	return out, nil
}

// stockLocked applies the default-on-miss policy. Caller holds the lock.
func (r *fileRepository) stockLocked(key catalog.Key) int {
	if grams, ok := r.stock[key]; ok {
		return grams
	}
	return r.defaultStock
}

// save rewrites the ledger file. Caller holds the lock.
func (r *fileRepository) save() error {
	keys := make([]catalog.Key, 0, len(r.stock))
	for k := range r.stock {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		m := catalog.Material{Brand: k.Brand, Type: k.Type, Color: k.Color}
		lines = append(lines, fmt.Sprintf("%s|%d", m.DisplayName(), r.stock[k]))
	}
	if err := textfile.WriteLines(r.path, "inventory: materialName|stockGrams", lines); err != nil {
		log.Printf("inventory: save %s: %v", r.path, err)
		return err
	}
	return nil
}

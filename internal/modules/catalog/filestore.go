package catalog

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/printmill/printmill-backend/internal/storage/textfile"
)

// fileRepository keeps the catalog in memory and rewrites the materials file
// after each mutation.
//
// Record format: brand|type|costPerGram|printTemp|color
// A 4-field legacy form name|costPerGram|printTemp|color is accepted on load;
// the name is split on its first space into brand and type.
type fileRepository struct {
	mu        sync.Mutex
	path      string
	materials map[Key]Material
}

// NewFileRepository creates a catalog repository backed by the pipe-delimited
// file at path and loads any existing records. Malformed lines are logged and
// skipped.
func NewFileRepository(path string) (Repository, error) {
	r := &fileRepository{path: path, materials: make(map[Key]Material)}

	err := textfile.ReadLines(path, func(line string) error {
		m, ok := parseLine(line)
		if !ok {
			log.Printf("catalog: skipping malformed line %q", line)
			return nil
		}
		r.materials[m.Key()] = m
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading catalog from %s: %w", path, err)
	}
	return r, nil
}

func parseLine(line string) (Material, bool) {
	fields := strings.Split(line, "|")
	switch len(fields) {
	case 5:
		cost, err := strconv.ParseFloat(fields[2], 64)
		if err != nil || cost < 0 {
			return Material{}, false
		}
		temp, err := strconv.Atoi(fields[3])
		if err != nil {
			return Material{}, false
		}
		return Material{
			Brand:       fields[0],
			Type:        fields[1],
			CostPerGram: cost,
			PrintTempC:  temp,
			Color:       fields[4],
		}, true
	case 4:
		// Legacy form: combined name field.
		brand, typ, _ := strings.Cut(fields[0], " ")
		cost, err := strconv.ParseFloat(fields[1], 64)
		if err != nil || cost < 0 {
			return Material{}, false
		}
		temp, err := strconv.Atoi(fields[2])
		if err != nil {
			return Material{}, false
		}
		return Material{
			Brand:       brand,
			Type:        typ,
			CostPerGram: cost,
			PrintTempC:  temp,
			Color:       fields[3],
		}, true
	default:
		return Material{}, false
	}
}

func (r *fileRepository) Add(ctx context.Context, m Material) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.materials[m.Key()] = m
	return r.save()
}

func (r *fileRepository) Get(ctx context.Context, key Key) (Material, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.materials[key]
	if !ok {
		return Material{}, ErrNotFound
	}
	return m, nil
}

func (r *fileRepository) GetByDisplayName(ctx context.Context, name string) (Material, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.materials {
		if m.DisplayName() == name {
			return m, nil
		}
	}
	return Material{}, ErrNotFound
}

func (r *fileRepository) List(ctx context.Context) ([]Material, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Material, 0, len(r.materials))
	for _, m := range r.materials {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DisplayName() < out[j].DisplayName()
	})
	return out, nil
}

func (r *fileRepository) Remove(ctx context.Context, key Key) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.materials[key]; !ok {
		return ErrNotFound
	}
	delete(r.materials, key)
	return r.save()
}

// save rewrites the materials file. Caller holds the lock.
func (r *fileRepository) save() error {
	keys := make([]Key, 0, len(r.materials))
	for k := range r.materials {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		m := r.materials[k]
		lines = append(lines, fmt.Sprintf("%s|%s|%s|%d|%s",
			m.Brand, m.Type, strconv.FormatFloat(m.CostPerGram, 'g', -1, 64), m.PrintTempC, m.Color))
	}
	if err := textfile.WriteLines(r.path, "materials: brand|type|costPerGram|printTemp|color", lines); err != nil {
		log.Printf("catalog: save %s: %v", r.path, err)
		return err
	}
	return nil
}

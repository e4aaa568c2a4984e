package order

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/printmill/printmill-backend/internal/modules/catalog"
	"github.com/printmill/printmill-backend/internal/modules/user"
	"github.com/printmill/printmill-backend/internal/storage/textfile"
)

// fileRepository keeps the registry and queue in memory under one mutex and
// rewrites the orders file after each mutation.
//
// Record format (14 fields, denormalized so the file is portable without the
// live user or material registries):
// orderID|username|email|role|materialName|costPerGram|printTemp|color|dimensions|quantity|instructions|status|priority|estimatedHours
type fileRepository struct {
	mu     sync.Mutex
	path   string
	orders map[int64]*Order
	queue  []int64
	nextID int64
}

// NewFileRepository creates an order registry backed by the pipe-delimited
// file at path and loads any existing records. The queue is rebuilt from
// every order not yet completed, oldest first.
func NewFileRepository(path string) (Repository, error) {
	r := &fileRepository{path: path, orders: make(map[int64]*Order), nextID: 1}

	err := textfile.ReadLines(path, func(line string) error {
		o, ok := parseRecord(line)
		if !ok {
			log.Printf("order: skipping malformed line %q", line)
			return nil
		}
		r.orders[o.ID] = o
		if o.ID >= r.nextID {
			r.nextID = o.ID + 1
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading orders from %s: %w", path, err)
	}

	ids := make([]int64, 0, len(r.orders))
	for id := range r.orders {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if r.orders[id].Status != StatusCompleted {
			r.queue = append(r.queue, id)
		}
	}
	return r, nil
}

func parseRecord(line string) (*Order, bool) {
	f := strings.Split(line, "|")
	if len(f) != 14 {
		return nil, false
	}
	id, err := strconv.ParseInt(f[0], 10, 64)
	if err != nil || id <= 0 {
		return nil, false
	}
	cost, err := strconv.ParseFloat(f[5], 64)
	if err != nil || cost < 0 {
		return nil, false
	}
	temp, err := strconv.Atoi(f[6])
	if err != nil {
		return nil, false
	}
	quantity, err := strconv.Atoi(f[9])
	if err != nil || quantity <= 0 {
		return nil, false
	}
	status := Status(f[11])
	if !ValidStatus(status) {
		return nil, false
	}
	priority := Priority(f[12])
	if !ValidPriority(priority) {
		return nil, false
	}
	hours, err := strconv.ParseFloat(f[13], 64)
	if err != nil || hours < 0 {
		return nil, false
	}

	// The record's material name is the display form; brand and type are
	// recovered from it.
	typ, rest, ok := strings.Cut(f[4], " - ")
	if !ok {
		return nil, false
	}
	open := strings.LastIndex(rest, " (")
	if open < 0 || !strings.HasSuffix(rest, ")") {
		return nil, false
	}
	brand := rest[:open]

	// Grams per unit never made it into the legacy record; invert the time
	// estimate to recover it.
	grams := int(math.Round((hours - 0.5) * 75.0 / float64(quantity)))
	if grams < 0 {
		grams = 0
	}

	return &Order{
		ID:       id,
		Username: f[1],
		Email:    f[2],
		Role:     user.Role(f[3]),
		Material: catalog.Material{
			Brand:       brand,
			Type:        typ,
			CostPerGram: cost,
			PrintTempC:  temp,
			Color:       f[7],
		},
		Dimensions:     f[8],
		Quantity:       quantity,
		GramsPerUnit:   grams,
		Instructions:   f[10],
		Status:         status,
		Priority:       priority,
		EstimatedHours: hours,
	}, true
}

func formatRecord(o *Order) string {
	return strings.Join([]string{
		strconv.FormatInt(o.ID, 10),
		o.Username,
		o.Email,
		string(o.Role),
		o.Material.DisplayName(),
		strconv.FormatFloat(o.Material.CostPerGram, 'g', -1, 64),
		strconv.Itoa(o.Material.PrintTempC),
		o.Material.Color,
		o.Dimensions,
		strconv.Itoa(o.Quantity),
		o.Instructions,
		string(o.Status),
		string(o.Priority),
		strconv.FormatFloat(o.EstimatedHours, 'g', -1, 64),
	}, "|")
}

func (r *fileRepository) Create(ctx context.Context, o *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o.ID = r.nextID
	r.nextID++
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}

	copied := *o
	r.orders[o.ID] = &copied
	r.queue = append(r.queue, o.ID)

	if err := r.save(); err != nil {
		// Roll the registration back so a failed submit leaves nothing.
		delete(r.orders, o.ID)
		r.queue = r.queue[:len(r.queue)-1]
		r.nextID--
		return err
	}
	return nil
}

func (r *fileRepository) Get(ctx context.Context, id int64) (*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *o
	return &copied, nil
}

func (r *fileRepository) List(ctx context.Context) ([]*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listLocked(func(*Order) bool { return true }), nil
}

func (r *fileRepository) ListByUser(ctx context.Context, username string) ([]*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listLocked(func(o *Order) bool { return o.Username == username }), nil
}

func (r *fileRepository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return ErrNotFound
	}
	o.Status = status
	if status == StatusCompleted {
		r.dequeueLocked(id)
	} else if !r.queuedLocked(id) {
		// Re-opening a completed order puts it back at the end of the line.
		r.queue = append(r.queue, id)
	}
	return r.save()
}

func (r *fileRepository) UpdatePriority(ctx context.Context, id int64, priority Priority) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return ErrNotFound
	}
	o.Priority = priority
	return r.save()
}

func (r *fileRepository) NextInQueue(ctx context.Context) (*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.queue) == 0 {
		return nil, ErrQueueEmpty
	}
	copied := *r.orders[r.queue[0]]
	return &copied, nil
}

func (r *fileRepository) Queue(ctx context.Context) ([]*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Order, 0, len(r.queue))
	for _, id := range r.queue {
		copied := *r.orders[id]
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fileRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = make(map[int64]*Order)
	r.queue = nil
	r.nextID = 1
	return r.save()
}

func (r *fileRepository) listLocked(keep func(*Order) bool) []*Order {
	ids := make([]int64, 0, len(r.orders))
	for id := range r.orders {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var out []*Order
	for _, id := range ids {
		if keep(r.orders[id]) {
			copied := *r.orders[id]
			out = append(out, &copied)
		}
	}
	return out
}

func (r *fileRepository) queuedLocked(id int64) bool {
	for _, q := range r.queue {
		if q == id {
			return true
		}
	}
	return false
}

func (r *fileRepository) dequeueLocked(id int64) {
	for i, q := range r.queue {
		if q == id {
			r.queue = append(r.queue[:i], r.queue[i+1:]...)
			return
		}
	}
}

// save rewrites the orders file. Caller holds the lock.
func (r *fileRepository) save() error {
	ids := make([]int64, 0, len(r.orders))
	for id := range r.orders {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	lines := make([]string, 0, len(ids))
	for _, id := range ids {
		lines = append(lines, formatRecord(r.orders[id]))
	}
	header := "orders: orderID|username|email|role|materialName|costPerGram|printTemp|color|dimensions|quantity|instructions|status|priority|estimatedHours"
	if err := textfile.WriteLines(r.path, header, lines); err != nil {
		log.Printf("order: save %s: %v", r.path, err)
		return err
	}
	return nil
}

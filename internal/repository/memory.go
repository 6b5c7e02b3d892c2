package repository

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/medicare-api/pkg/pagination"
)

// MemoryRepository keeps documents in process memory. It backs
// STORE_DRIVER=memory and the test suites.
type MemoryRepository[T any] struct {
	mu       sync.RWMutex
	docs     map[primitive.ObjectID]T
	idOf     func(*T) primitive.ObjectID
	sortKeys map[string]func(a, b *T) int
	unique   []func(a, b *T) bool
	clone    func(*T) T
}

type MemoryOption[T any] func(*MemoryRepository[T])

// WithSortKey registers a comparator used when FindOptions.SortField is field.
func WithSortKey[T any](field string, cmp func(a, b *T) int) MemoryOption[T] {
	return func(r *MemoryRepository[T]) {
		r.sortKeys[field] = cmp
	}
}

// WithUnique rejects writes where same(existing, doc) holds for another document.
func WithUnique[T any](same func(a, b *T) bool) MemoryOption[T] {
	return func(r *MemoryRepository[T]) {
		r.unique = append(r.unique, same)
	}
}

// WithClone sets how documents are copied into and out of the store. The
// default is a plain struct copy, which is only safe for types without
// slices, maps or pointers.
func WithClone[T any](clone func(*T) T) MemoryOption[T] {
	return func(r *MemoryRepository[T]) {
		r.clone = clone
	}
}

func NewMemoryRepository[T any](idOf func(*T) primitive.ObjectID, opts ...MemoryOption[T]) *MemoryRepository[T] {
	r := &MemoryRepository[T]{
		docs:     make(map[primitive.ObjectID]T),
		idOf:     idOf,
		sortKeys: make(map[string]func(a, b *T) int),
		clone:    func(d *T) T { return *d },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var errZeroID = errors.New("document has no id")

func (r *MemoryRepository[T]) Insert(_ context.Context, doc *T) error {
	id := r.idOf(doc)
	if id.IsZero() {
		return errZeroID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.docs[id]; exists {
		return ErrDuplicate
	}
	if r.conflicts(id, doc) {
		return ErrDuplicate
	}
	r.docs[id] = r.clone(doc)
	return nil
}

func (r *MemoryRepository[T]) conflicts(id primitive.ObjectID, doc *T) bool {
	for otherID, other := range r.docs {
		if otherID == id {
			continue
		}
		for _, same := range r.unique {
			if same(&other, doc) {
				return true
			}
		}
	}
	return false
}

func (r *MemoryRepository[T]) FindByID(_ context.Context, id primitive.ObjectID) (*T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := r.clone(&doc)
	return &out, nil
}

func (r *MemoryRepository[T]) FindOne(ctx context.Context, f Filter[T]) (*T, error) {
	docs, _, err := r.Find(ctx, f, FindOptions{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrNotFound
	}
	return &docs[0], nil
}

func (r *MemoryRepository[T]) Find(_ context.Context, f Filter[T], opts FindOptions) ([]T, int64, error) {
	r.mu.RLock()
	matches := make([]T, 0)
	for _, doc := range r.docs {
		if f.Match(&doc) {
			matches = append(matches, r.clone(&doc))
		}
	}
	r.mu.RUnlock()

	cmp := r.sortKeys[opts.SortField]
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := &matches[i], &matches[j]
		c := 0
		if cmp != nil {
			c = cmp(a, b)
		}
		if c == 0 {
			idA, idB := r.idOf(a), r.idOf(b)
			c = bytes.Compare(idA[:], idB[:])
		}
		if opts.Desc {
			return c > 0
		}
		return c < 0
	})

	start, end := pagination.Params{Limit: opts.Limit, Offset: opts.Offset}.Window(len(matches))
	return matches[start:end], int64(len(matches)), nil
}

func (r *MemoryRepository[T]) Count(ctx context.Context, f Filter[T]) (int64, error) {
	_, total, err := r.Find(ctx, f, FindOptions{})
	return total, err
}

func (r *MemoryRepository[T]) Replace(_ context.Context, id primitive.ObjectID, doc *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return ErrNotFound
	}
	if r.conflicts(id, doc) {
		return ErrDuplicate
	}
	r.docs[id] = r.clone(doc)
	return nil
}

func (r *MemoryRepository[T]) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return ErrNotFound
	}
	delete(r.docs, id)
	return nil
}

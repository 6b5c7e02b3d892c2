package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate document")
)

// Filter selects documents. BSON is used by the Mongo store, Match by the
// in-memory store; both must agree.
type Filter[T any] interface {
	BSON() bson.M
	Match(doc *T) bool
}

// FindOptions controls ordering and paging. Limit 0 means no limit.
type FindOptions struct {
	SortField string
	Desc      bool
	Limit     int
	Offset    int
}

type Repository[T any] interface {
	Insert(ctx context.Context, doc *T) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*T, error)
	FindOne(ctx context.Context, f Filter[T]) (*T, error)
	// Find returns one page of matches plus the total match count.
	Find(ctx context.Context, f Filter[T], opts FindOptions) ([]T, int64, error)
	Count(ctx context.Context, f Filter[T]) (int64, error)
	Replace(ctx context.Context, id primitive.ObjectID, doc *T) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

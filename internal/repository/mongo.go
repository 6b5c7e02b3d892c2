package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoRepository[T any] struct {
	coll *mongo.Collection
}

func NewMongoRepository[T any](coll *mongo.Collection) *MongoRepository[T] {
	return &MongoRepository[T]{coll: coll}
}

func (r *MongoRepository[T]) Insert(ctx context.Context, doc *T) error {
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert into %s: %w", r.coll.Name(), err)
	}
	return nil
}

func (r *MongoRepository[T]) FindByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoRepository[T]) FindOne(ctx context.Context, f Filter[T]) (*T, error) {
	return r.findOne(ctx, f.BSON())
}

func (r *MongoRepository[T]) findOne(ctx context.Context, filter bson.M) (*T, error) {
	var doc T
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}})
	if err := r.coll.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find in %s: %w", r.coll.Name(), err)
	}
	return &doc, nil
}

func (r *MongoRepository[T]) Find(ctx context.Context, f Filter[T], opts FindOptions) ([]T, int64, error) {
	filter := f.BSON()
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", r.coll.Name(), err)
	}

	field := opts.SortField
	if field == "" {
		field = "_id"
	}
	dir := 1
	if opts.Desc {
		dir = -1
	}
	sort := bson.D{{Key: field, Value: dir}}
	if field != "_id" {
		sort = append(sort, bson.E{Key: "_id", Value: dir})
	}
	findOptions := options.Find().SetSort(sort)
	if opts.Limit > 0 {
		findOptions.SetLimit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		findOptions.SetSkip(int64(opts.Offset))
	}

	cursor, err := r.coll.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, fmt.Errorf("find in %s: %w", r.coll.Name(), err)
	}
	defer cursor.Close(ctx)

	docs := make([]T, 0)
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode %s: %w", r.coll.Name(), err)
	}
	return docs, total, nil
}

func (r *MongoRepository[T]) Count(ctx context.Context, f Filter[T]) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, f.BSON())
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", r.coll.Name(), err)
	}
	return n, nil
}

func (r *MongoRepository[T]) Replace(ctx context.Context, id primitive.ObjectID, doc *T) error {
	result, err := r.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("replace in %s: %w", r.coll.Name(), err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository[T]) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete from %s: %w", r.coll.Name(), err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

package blog

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	mongoReadTimeout  = 5 * time.Second
	mongoQueryTimeout = 10 * time.Second
)

type MongoRepository[T Document] struct {
	collection *mongo.Collection
}

func NewMongoRepository[T Document](db *mongo.Database) *MongoRepository[T] {
	var doc T
	return &MongoRepository[T]{
		collection: db.Collection(doc.GetTableName()),
	}
}

// FindById returns mongo.ErrNoDocuments when no document has the given _id.
func (r *MongoRepository[T]) FindById(ctx context.Context, id interface{}) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoReadTimeout)
	defer cancel()

	var result T
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&result)
	return result, err
}

// FindUpTo returns every document whose field is set and <= bound, ordered by
// sort. Documents missing the field or holding null never match $lte.
func (r *MongoRepository[T]) FindUpTo(ctx context.Context, field string, bound interface{}, sort ...SortField) ([]T, error) {
	return r.find(ctx, bson.M{field: bson.M{"$lte": bound}}, sort)
}

func (r *MongoRepository[T]) FindAll(ctx context.Context, sort ...SortField) ([]T, error) {
	return r.find(ctx, bson.M{}, sort)
}

func (r *MongoRepository[T]) Save(ctx context.Context, doc T) error {
	ctx, cancel := context.WithTimeout(ctx, mongoReadTimeout)
	defer cancel()
	_, err := r.collection.InsertOne(ctx, doc)
	return err
}

func (r *MongoRepository[T]) SaveAll(ctx context.Context, docs []T) error {
	if len(docs) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, mongoQueryTimeout)
	defer cancel()

	items := make([]interface{}, len(docs))
	for i, doc := range docs {
		items[i] = doc
	}
	_, err := r.collection.InsertMany(ctx, items)
	return err
}

func (r *MongoRepository[T]) Collection() *mongo.Collection {
	return r.collection
}

func (r *MongoRepository[T]) find(ctx context.Context, filter bson.M, sort []SortField) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoQueryTimeout)
	defer cancel()

	opts := options.Find()
	if len(sort) > 0 {
		opts.SetSort(sortDocument(sort))
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	results := []T{}
	if err = cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func sortDocument(fields []SortField) bson.D {
	sort := make(bson.D, 0, len(fields))
	for _, f := range fields {
		direction := 1
		if f.Direction < 0 {
			direction = -1
		}
		sort = append(sort, bson.E{Key: f.Field, Value: direction})
	}
	return sort
}

package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/campushq/campus-admin-api/internal/core/domain"
)

const moduleCollection = "modules"

// MongoModuleRepository reads the sidebar module catalog. The catalog is
// seeded out-of-band; this repository never writes.
type MongoModuleRepository struct {
	coll *mongo.Collection
}

func NewModuleRepository(db *mongo.Database) *MongoModuleRepository {
	return &MongoModuleRepository{coll: db.Collection(moduleCollection)}
}

func (r *MongoModuleRepository) ListAll(ctx context.Context) ([]domain.Module, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	defer cursor.Close(ctx)

	var out []domain.Module
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode modules: %w", err)
	}
	return out, nil
}

package database

import (
	"context"
	"errors"

	"blogserver/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoCollection struct {
	coll *mongo.Collection
}

func (m *mongoCollection) InsertOne(ctx context.Context, doc models.Document) (*models.InsertResult, error) {
	doc = withNewID(doc)
	res, err := m.coll.InsertOne(ctx, bson.M(doc))
	if err != nil {
		return nil, translate("insert "+m.coll.Name(), err)
	}
	return &models.InsertResult{Acknowledged: true, InsertedID: res.InsertedID}, nil
}

func (m *mongoCollection) FindAll(ctx context.Context) ([]models.Document, error) {
	return m.find(ctx, bson.D{})
}

func (m *mongoCollection) FindByID(ctx context.Context, id string) (models.Document, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, translate("find "+m.coll.Name(), err)
	}

	var doc bson.M
	err = translate("find "+m.coll.Name(), m.coll.FindOne(ctx, bson.M{models.IDField: oid}).Decode(&doc))
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return models.Document(doc), nil
}

func (m *mongoCollection) FindByField(ctx context.Context, field string, value any) ([]models.Document, error) {
	return m.find(ctx, bson.M{field: value})
}

func (m *mongoCollection) find(ctx context.Context, filter any) ([]models.Document, error) {
	cursor, err := m.coll.Find(ctx, filter)
	if err != nil {
		return nil, translate("find "+m.coll.Name(), err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, translate("decode "+m.coll.Name(), err)
	}

	out := make([]models.Document, 0, len(docs))
	for _, d := range docs {
		out = append(out, models.Document(d))
	}
	return out, nil
}

func (m *mongoCollection) UpsertFields(ctx context.Context, id string, fields models.Document) (*models.UpdateResult, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, translate("update "+m.coll.Name(), err)
	}

	res, err := m.coll.UpdateOne(ctx,
		bson.M{models.IDField: oid},
		bson.M{"$set": bson.M(fields)},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return nil, translate("update "+m.coll.Name(), err)
	}
	return &models.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
		UpsertedID:    res.UpsertedID,
	}, nil
}

func (m *mongoCollection) DeleteByID(ctx context.Context, id string) (*models.DeleteResult, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, translate("delete "+m.coll.Name(), err)
	}

	res, err := m.coll.DeleteOne(ctx, bson.M{models.IDField: oid})
	if err != nil {
		return nil, translate("delete "+m.coll.Name(), err)
	}
	return &models.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

// withNewID copies doc and assigns it a fresh ObjectID, replacing any _id the
// caller sent.
func withNewID(doc models.Document) models.Document {
	out := doc.Clone()
	if out == nil {
		out = models.Document{}
	}
	out[models.IDField] = primitive.NewObjectID()
	return out
}

package database

import (
	"context"
	"reflect"
	"sync"

	"blogserver/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewMemoryStore returns a Store kept in process memory. It follows the same
// identifier and result rules as the Mongo collections.
func NewMemoryStore() Store {
	return Store{
		Posts:    newMemoryCollection(PostsCollection),
		Comments: newMemoryCollection(CommentsCollection),
		Users:    newMemoryCollection(UsersCollection),
		UserData: newMemoryCollection(UserDataCollection),
	}
}

type memoryCollection struct {
	name string

	mu    sync.RWMutex
	order []primitive.ObjectID
	docs  map[primitive.ObjectID]models.Document
}

func newMemoryCollection(name string) *memoryCollection {
	return &memoryCollection{
		name: name,
		docs: make(map[primitive.ObjectID]models.Document),
	}
}

func (m *memoryCollection) InsertOne(_ context.Context, doc models.Document) (*models.InsertResult, error) {
	doc = withNewID(doc)
	oid := doc[models.IDField].(primitive.ObjectID)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.order = append(m.order, oid)
	m.docs[oid] = doc
	return &models.InsertResult{Acknowledged: true, InsertedID: oid}, nil
}

func (m *memoryCollection) FindAll(_ context.Context) ([]models.Document, error) {
	return m.filter(func(models.Document) bool { return true }), nil
}

func (m *memoryCollection) FindByID(_ context.Context, id string) (models.Document, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, translate("find "+m.name, err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[oid]
	if !ok {
		return nil, nil
	}
	return doc.Clone(), nil
}

func (m *memoryCollection) FindByField(_ context.Context, field string, value any) ([]models.Document, error) {
	return m.filter(func(d models.Document) bool {
		v, ok := d[field]
		return ok && reflect.DeepEqual(v, value)
	}), nil
}

func (m *memoryCollection) filter(match func(models.Document) bool) []models.Document {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Document, 0, len(m.order))
	for _, oid := range m.order {
		if d := m.docs[oid]; match(d) {
			out = append(out, d.Clone())
		}
	}
	return out
}

func (m *memoryCollection) UpsertFields(_ context.Context, id string, fields models.Document) (*models.UpdateResult, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, translate("update "+m.name, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.docs[oid]
	if !ok {
		doc = fields.Clone()
		if doc == nil {
			doc = models.Document{}
		}
		doc[models.IDField] = oid
		m.order = append(m.order, oid)
		m.docs[oid] = doc
		return &models.UpdateResult{Acknowledged: true, UpsertedCount: 1, UpsertedID: oid}, nil
	}

	res := &models.UpdateResult{Acknowledged: true, MatchedCount: 1}
	updated := doc.Clone()
	for k, v := range fields.Clone() {
		if cur, exists := updated[k]; !exists || !reflect.DeepEqual(cur, v) {
			res.ModifiedCount = 1
		}
		updated[k] = v
	}
	m.docs[oid] = updated
	return res, nil
}

func (m *memoryCollection) DeleteByID(_ context.Context, id string) (*models.DeleteResult, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, translate("delete "+m.name, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[oid]; !ok {
		return &models.DeleteResult{Acknowledged: true}, nil
	}
	delete(m.docs, oid)
	for i, o := range m.order {
		if o == oid {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return &models.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
}

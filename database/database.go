package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"blogserver/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names inside the blog database.
const (
	PostsCollection    = "blog"
	CommentsCollection = "comment"
	UsersCollection    = "user"
	UserDataCollection = "userData"
)

// Collection is the accessor every handler talks to. Implementations must be
// safe for concurrent use.
type Collection interface {
	InsertOne(ctx context.Context, doc models.Document) (*models.InsertResult, error)
	FindAll(ctx context.Context) ([]models.Document, error)
	// FindByID returns nil, nil when no record has the identifier.
	FindByID(ctx context.Context, id string) (models.Document, error)
	FindByField(ctx context.Context, field string, value any) ([]models.Document, error)
	// UpsertFields sets fields on the record, creating it under id if absent.
	UpsertFields(ctx context.Context, id string, fields models.Document) (*models.UpdateResult, error)
	DeleteByID(ctx context.Context, id string) (*models.DeleteResult, error)
}

// Store bundles the four collections of the blog.
type Store struct {
	Posts    Collection
	Comments Collection
	Users    Collection
	UserData Collection
}

// Mongo owns the driver client behind a Store.
type Mongo struct {
	Client *mongo.Client
	Store
}

// ConnectMongo creates the client and binds the collections of dbName. The
// driver connects lazily, so a nil error does not mean the cluster is reachable.
func ConnectMongo(ctx context.Context, uri, dbName string) (*Mongo, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1).
			SetStrict(true).
			SetDeprecationErrors(true)).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	db := client.Database(dbName)
	return &Mongo{
		Client: client,
		Store: Store{
			Posts:    &mongoCollection{coll: db.Collection(PostsCollection)},
			Comments: &mongoCollection{coll: db.Collection(CommentsCollection)},
			Users:    &mongoCollection{coll: db.Collection(UsersCollection)},
			UserData: &mongoCollection{coll: db.Collection(UserDataCollection)},
		},
	}, nil
}

// Ping runs the ping command against the admin database.
func (m *Mongo) Ping(ctx context.Context) error {
	err := m.Client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
	return translate("ping", err)
}

func (m *Mongo) Disconnect() error {
	if m == nil || m.Client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := m.Client.Disconnect(ctx); err != nil {
		return err
	}

	log.Println("Disconnected from MongoDB")
	return nil
}

// Unavailable returns a Store whose every operation fails with ErrUnavailable.
// It stands in when the client could not be built at startup so the listener
// still comes up.
func Unavailable(cause error) Store {
	c := downCollection{err: fmt.Errorf("%w: %v", ErrUnavailable, cause)}
	return Store{Posts: c, Comments: c, Users: c, UserData: c}
}

type downCollection struct{ err error }

func (d downCollection) InsertOne(context.Context, models.Document) (*models.InsertResult, error) {
	return nil, d.err
}

func (d downCollection) FindAll(context.Context) ([]models.Document, error) {
	return nil, d.err
}

func (d downCollection) FindByID(context.Context, string) (models.Document, error) {
	return nil, d.err
}

func (d downCollection) FindByField(context.Context, string, any) ([]models.Document, error) {
	return nil, d.err
}

func (d downCollection) UpsertFields(context.Context, string, models.Document) (*models.UpdateResult, error) {
	return nil, d.err
}

func (d downCollection) DeleteByID(context.Context, string) (*models.DeleteResult, error) {
	return nil, d.err
}

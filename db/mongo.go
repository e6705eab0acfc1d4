package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xiaoyuanzhu-com/todo-app/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const defaultMongoTimeout = 10 * time.Second

// todoDocument is the stored shape of a task in MongoDB
type todoDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Completed bool               `bson:"completed"`
	CreatedAt int64              `bson:"createdAt"`
	UpdatedAt int64              `bson:"updatedAt"`
}

func (d todoDocument) toModel() models.Todo {
	return models.Todo{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Completed: d.Completed,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// MongoStore persists records as documents in a MongoDB collection.
// Identifiers are ObjectID hex strings; single-document writes are atomic in
// MongoDB and nothing here spans more than one document.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// OpenMongo connects to cfg.URI and verifies the connection with a ping
func OpenMongo(ctx context.Context, cfg Config) (*MongoStore, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultMongoTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	database := cfg.Database
	if database == "" {
		database = "todo"
	}
	collection := cfg.Collection
	if collection == "" {
		collection = "todos"
	}

	logger.Info().
		Str("database", database).
		Str("collection", collection).
		Msg("mongodb store connected")

	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

func (m *MongoStore) Create(ctx context.Context, in models.CreateTodoInput) (*models.Todo, error) {
	title, err := validateCreate(in)
	if err != nil {
		return nil, err
	}

	now := NowMs()
	doc := todoDocument{
		ID:        primitive.NewObjectID(),
		Title:     title,
		Completed: in.IsCompleted(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := m.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to insert todo: %w", err)
	}

	todo := doc.toModel()
	return &todo, nil
}

func (m *MongoStore) List(ctx context.Context) ([]models.Todo, error) {
	cursor, err := m.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []todoDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode todos: %w", err)
	}

	todos := make([]models.Todo, 0, len(docs))
	for _, d := range docs {
		todos = append(todos, d.toModel())
	}
	return todos, nil
}

func (m *MongoStore) Update(ctx context.Context, id string, in models.UpdateTodoInput) (*models.Todo, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// Not an ObjectID, so it cannot name a stored document
		return nil, nil
	}
	filter := bson.M{"_id": oid}

	set := bson.M{}
	if in.HasTitle() {
		set["title"] = in.NormalizedTitle()
	}
	if in.Completed != nil {
		set["completed"] = *in.Completed
	}

	var doc todoDocument
	if len(set) == 0 {
		err = m.coll.FindOne(ctx, filter).Decode(&doc)
	} else {
		set["updatedAt"] = NowMs()
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		err = m.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&doc)
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update todo %s: %w", id, err)
	}

	todo := doc.toModel()
	return &todo, nil
}

func (m *MongoStore) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	if _, err := m.coll.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("failed to delete todo %s: %w", id, err)
	}
	return nil
}

func (m *MongoStore) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

func (m *MongoStore) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

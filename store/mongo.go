package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"portfolio/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	usersCollection    = "users"
	postsCollection    = "posts"
	projectsCollection = "projects"
)

// MongoStore keeps each kind of document in its own collection. Ids are
// ObjectID hex strings.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoStore connects to uri and pings the primary before returning.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("unable to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return &MongoStore{client: client, db: client.Database(database)}, nil
}

func (s *MongoStore) Users() UserStore {
	return mongoUsers{coll: s.db.Collection(usersCollection)}
}

func (s *MongoStore) Posts() Collection[models.Post] {
	return mongoCollection[models.Post, *models.Post]{
		coll:  s.db.Collection(postsCollection),
		users: s.db.Collection(usersCollection),
	}
}

func (s *MongoStore) Projects() Collection[models.Project] {
	return mongoCollection[models.Project, *models.Project]{
		coll:  s.db.Collection(projectsCollection),
		users: s.db.Collection(usersCollection),
	}
}

// Migrate creates the unique username index and the createdAt listing indexes.
func (s *MongoStore) Migrate(ctx context.Context) error {
	_, err := s.db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("users index: %w", err)
	}
	for _, name := range []string{postsCollection, projectsCollection} {
		_, err := s.db.Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: "createdAt", Value: -1}},
		})
		if err != nil {
			return fmt.Errorf("%s index: %w", name, err)
		}
	}
	return nil
}

func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

func translateMongo(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	}
	return err
}

type mongoUsers struct {
	coll *mongo.Collection
}

func (u mongoUsers) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = primitive.NewObjectID().Hex()
	}
	_, err := u.coll.InsertOne(ctx, user)
	return translateMongo(err)
}

func (u mongoUsers) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return u.findOne(ctx, bson.M{"username": username})
}

func (u mongoUsers) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	return u.findOne(ctx, bson.M{"_id": id})
}

func (u mongoUsers) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := u.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, translateMongo(err)
	}
	return &user, nil
}

type mongoCollection[T any, P models.EntityPtr[T]] struct {
	coll  *mongo.Collection
	users *mongo.Collection
}

func (c mongoCollection[T, P]) Insert(ctx context.Context, doc *T) error {
	P(doc).SetID(primitive.NewObjectID().Hex())
	_, err := c.coll.InsertOne(ctx, doc)
	return translateMongo(err)
}

func (c mongoCollection[T, P]) Save(ctx context.Context, doc *T) error {
	res, err := c.coll.ReplaceOne(ctx, bson.M{"_id": P(doc).GetID()}, doc)
	if err != nil {
		return translateMongo(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (c mongoCollection[T, P]) FindByID(ctx context.Context, id string) (*T, error) {
	var doc T
	if err := c.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, translateMongo(err)
	}
	if err := c.populate(ctx, []*T{&doc}); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c mongoCollection[T, P]) Recent(ctx context.Context, limit int) ([]*T, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := c.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, translateMongo(err)
	}
	var found []T
	if err := cursor.All(ctx, &found); err != nil {
		return nil, err
	}

	docs := make([]*T, len(found))
	for i := range found {
		docs[i] = &found[i]
	}
	if err := c.populate(ctx, docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (c mongoCollection[T, P]) Delete(ctx context.Context, id string) error {
	res, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translateMongo(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// populate resolves author references with a single $in query.
func (c mongoCollection[T, P]) populate(ctx context.Context, docs []*T) error {
	var ids []string
	for _, doc := range docs {
		if id := P(doc).GetAuthorID(); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	cursor, err := c.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return err
	}
	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return err
	}
	byID := make(map[string]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	for _, doc := range docs {
		if u, ok := byID[P(doc).GetAuthorID()]; ok {
			P(doc).SetAuthor(u)
		}
	}
	return nil
}

// Package mongo реализует хранилище участников клуба поверх MongoDB.
// Уникальность email обеспечивается уникальным индексом, а не проверкой
// перед вставкой.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/magabrotheeeer/club-users/internal/config"
	"github.com/magabrotheeeer/club-users/internal/models"
	"github.com/magabrotheeeer/club-users/internal/storage"
)

const defaultConnectTimeout = 10 * time.Second

// Storage инкапсулирует клиент MongoDB и коллекцию пользователей.
type Storage struct {
	client *mongo.Client
	users  *mongo.Collection
}

// New подключается к MongoDB, проверяет соединение и создаёт уникальный индекс по email.
func New(ctx context.Context, cfg config.Mongo) (*Storage, error) {
	const op = "storage.mongo.New"

	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = defaultConnectTimeout
	}

	client, err := mongo.Connect(options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true}))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s := &Storage{
		client: client,
		users:  client.Database(cfg.Database).Collection(cfg.Collection),
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := s.Ping(pingCtx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s, nil
}

func (s *Storage) ensureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	return err
}

// CreateUser вставляет документ пользователя и возвращает его идентификатор в hex-виде.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.mongo.CreateUser"

	res, err := s.users.InsertOne(ctx, bson.D{
		{Key: "email", Value: user.Email},
		{Key: "signup_date", Value: user.SignupDate},
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", fmt.Errorf("%s: %w", op, storage.ErrUserExists)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	id, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return fmt.Sprint(res.InsertedID), nil
	}
	return id.Hex(), nil
}

// TouchLastSignin проставляет last_signin всем документам с данным email
// и возвращает число найденных документов.
func (s *Storage) TouchLastSignin(ctx context.Context, email, timestamp string) (int64, error) {
	const op = "storage.mongo.TouchLastSignin"

	res, err := s.users.UpdateMany(ctx,
		bson.D{{Key: "email", Value: email}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "last_signin", Value: timestamp}}}},
	)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if res.MatchedCount == 0 {
		return 0, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}
	return res.MatchedCount, nil
}

// ListUsers возвращает всех пользователей без поля _id, отсортированных по last_signin по убыванию.
// Документы отдаются целиком: поля вне модели сохраняются в models.User.Extra.
func (s *Storage) ListUsers(ctx context.Context) ([]models.User, error) {
	const op = "storage.mongo.ListUsers"

	opts := options.Find().
		SetProjection(bson.D{{Key: "_id", Value: 0}}).
		SetSort(bson.D{{Key: "last_signin", Value: -1}})

	cur, err := s.users.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	users := make([]models.User, 0)
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

// Ping проверяет доступность primary-узла.
func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close закрывает соединения клиента.
func (s *Storage) Close(ctx context.Context) error {
	const op = "storage.mongo.Close"

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.client.Disconnect(ctx); err != nil && !errors.Is(err, mongo.ErrClientDisconnected) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// IsTransient сообщает, имеет ли смысл повторить операцию.
func IsTransient(err error) bool {
	return mongo.IsNetworkError(err) || mongo.IsTimeout(err)
}

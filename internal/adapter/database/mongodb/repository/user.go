package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"taskboard/internal/adapter/database/mongodb"
	"taskboard/internal/core/domain"
	"taskboard/internal/core/port"
	tel "taskboard/internal/core/telemetry"
)

type userDocument struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	Name              string             `bson:"name"`
	Email             string             `bson:"email"`
	EncryptedPassword string             `bson:"password"`
	CreatedAt         time.Time          `bson:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt"`
}

func (d userDocument) toDomain() domain.User {
	return domain.User{
		ID:                d.ID.Hex(),
		Name:              d.Name,
		Email:             d.Email,
		EncryptedPassword: d.EncryptedPassword,
		CreatedAt:         d.CreatedAt.UTC(),
		UpdatedAt:         d.UpdatedAt.UTC(),
	}
}

type UserRepository struct {
	collection *mongo.Collection
	telemetry  port.Telemetry
}

func NewUserRepository(db *mongodb.DB, telemetry port.Telemetry) port.UserRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &UserRepository{
		collection: db.Database.Collection(mongodb.UsersCollection),
		telemetry:  telemetry,
	}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (_ domain.User, err error) {
	ctx, done := tel.Observe(ctx, r.telemetry, "GetByID", "user")
	defer func() { done(err) }()

	objectID, err := primitive.ObjectIDFromHex(id)

	if err != nil {
		return domain.User{}, domain.ErrUserNotFound
	}

	return r.findOne(ctx, bson.M{"_id": objectID})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (_ domain.User, err error) {
	ctx, done := tel.Observe(ctx, r.telemetry, "GetByEmail", "user")
	defer func() { done(err) }()

	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (_ domain.User, err error) {
	ctx, done := tel.Observe(ctx, r.telemetry, "Create", "user")
	defer func() { done(err) }()

	doc := userDocument{
		ID:                primitive.NewObjectID(),
		Name:              user.Name,
		Email:             user.Email,
		EncryptedPassword: user.EncryptedPassword,
		CreatedAt:         user.CreatedAt,
		UpdatedAt:         user.UpdatedAt,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.User{}, fmt.Errorf("%w: %s", domain.ErrUserAlreadyExists, user.Email)
		}

		return domain.User{}, err
	}

	user.ID = doc.ID.Hex()

	return user, nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (domain.User, error) {
	var doc userDocument

	err := r.collection.FindOne(ctx, filter).Decode(&doc)

	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.User{}, domain.ErrUserNotFound
	}

	if err != nil {
		return domain.User{}, err
	}

	return doc.toDomain(), nil
}

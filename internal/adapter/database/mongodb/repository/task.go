package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"taskboard/internal/adapter/database/mongodb"
	"taskboard/internal/core/domain"
	"taskboard/internal/core/port"
	tel "taskboard/internal/core/telemetry"
)

type taskDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Status      string             `bson:"status"`
	UserID      string             `bson:"userId"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d taskDocument) toDomain() domain.Task {
	return domain.Task{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Status:      domain.TaskStatus(d.Status),
		UserID:      d.UserID,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

type TaskRepository struct {
	collection *mongo.Collection
	telemetry  port.Telemetry
}

func NewTaskRepository(db *mongodb.DB, telemetry port.Telemetry) port.TaskRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TaskRepository{
		collection: db.Database.Collection(mongodb.TasksCollection),
		telemetry:  telemetry,
	}
}

func (r *TaskRepository) ListByOwner(ctx context.Context, userID string) (tasks []domain.Task, err error) {
	ctx, done := tel.Observe(ctx, r.telemetry, "ListByOwner", "task")
	defer func() { done(err) }()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)

	if err != nil {
		return nil, err
	}

	defer cursor.Close(ctx)

	var docs []taskDocument

	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	tasks = make([]domain.Task, 0, len(docs))

	for _, doc := range docs {
		tasks = append(tasks, doc.toDomain())
	}

	return tasks, nil
}

func (r *TaskRepository) Create(ctx context.Context, task domain.Task) (_ domain.Task, err error) {
	ctx, done := tel.Observe(ctx, r.telemetry, "Create", "task")
	defer func() { done(err) }()

	// BSON dates keep milliseconds only.
	task.CreatedAt = task.CreatedAt.UTC().Truncate(time.Millisecond)
	task.UpdatedAt = task.UpdatedAt.UTC().Truncate(time.Millisecond)

	doc := taskDocument{
		ID:          primitive.NewObjectID(),
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status.String(),
		UserID:      task.UserID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return domain.Task{}, err
	}

	task.ID = doc.ID.Hex()

	return task, nil
}

func (r *TaskRepository) UpdateStatus(ctx context.Context, userID string, id string, status domain.TaskStatus) (_ domain.Task, err error) {
	ctx, done := tel.Observe(ctx, r.telemetry, "UpdateStatus", "task")
	defer func() { done(err) }()

	return r.findOneAndUpdate(ctx, userID, id, bson.M{
		"$set": bson.M{"status": status.String(), "updatedAt": time.Now().UTC()},
	})
}

// ToggleStatus flips the status with an aggregation pipeline update, so the
// read and the write happen on the server in one step.
func (r *TaskRepository) ToggleStatus(ctx context.Context, userID string, id string) (_ domain.Task, err error) {
	ctx, done := tel.Observe(ctx, r.telemetry, "ToggleStatus", "task")
	defer func() { done(err) }()

	flip := bson.D{{Key: "$cond", Value: bson.A{
		bson.D{{Key: "$eq", Value: bson.A{"$status", domain.TaskStatusDone.String()}}},
		domain.TaskStatusPending.String(),
		domain.TaskStatusDone.String(),
	}}}

	return r.findOneAndUpdate(ctx, userID, id, mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "status", Value: flip},
			{Key: "updatedAt", Value: time.Now().UTC()},
		}}},
	})
}

func (r *TaskRepository) Delete(ctx context.Context, userID string, id string) (err error) {
	ctx, done := tel.Observe(ctx, r.telemetry, "Delete", "task")
	defer func() { done(err) }()

	objectID, err := primitive.ObjectIDFromHex(id)

	if err != nil {
		return domain.ErrTaskNotFound
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID, "userId": userID})

	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return domain.ErrTaskNotFound
	}

	return nil
}

func (r *TaskRepository) findOneAndUpdate(ctx context.Context, userID string, id string, update any) (domain.Task, error) {
	objectID, err := primitive.ObjectIDFromHex(id)

	if err != nil {
		return domain.Task{}, domain.ErrTaskNotFound
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc taskDocument

	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID, "userId": userID}, update, opts).Decode(&doc)

	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Task{}, domain.ErrTaskNotFound
	}

	if err != nil {
		return domain.Task{}, err
	}

	return doc.toDomain(), nil
}

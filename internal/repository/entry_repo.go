package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"lunalog/internal/model"
)

// EntryRepo handles MongoDB operations for journal entries
type EntryRepo interface {
	EnsureIndexes(ctx context.Context) error
	Create(ctx context.Context, entry *model.JournalEntry) (int64, error)
	List(ctx context.Context) ([]model.JournalEntry, error)
	ListPending(ctx context.Context) ([]model.JournalEntry, error)
	SetEnrichment(ctx context.Context, entryID int64, insights, recommendations []string) error
}

type entryRepo struct {
	collection *mongo.Collection
	counters   *mongo.Collection
}

// NewEntryRepo creates a new entry repository
func NewEntryRepo(db *mongo.Database) EntryRepo {
	return &entryRepo{
		collection: db.Collection("journal_entries"),
		counters:   db.Collection("counters"),
	}
}

func (r *entryRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "entry_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "submissionId", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
	})
	return err
}

// nextID allocates sequential entry ids from the counters collection
func (r *entryRepo) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": "entry_id"},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("allocate entry id: %w", err)
	}
	return counter.Seq, nil
}

// Create inserts the entry and returns its id. An entry whose submission ID
// was already stored returns the existing id instead of a duplicate.
func (r *entryRepo) Create(ctx context.Context, entry *model.JournalEntry) (int64, error) {
	if entry.SubmissionID != "" {
		id, err := r.findBySubmission(ctx, entry.SubmissionID)
		if err != nil {
			return 0, err
		}
		if id != 0 {
			return id, nil
		}
	}

	id, err := r.nextID(ctx)
	if err != nil {
		return 0, err
	}
	entry.EntryID = id

	if _, err := r.collection.InsertOne(ctx, entry); err != nil {
		if mongo.IsDuplicateKeyError(err) && entry.SubmissionID != "" {
			return r.findBySubmission(ctx, entry.SubmissionID)
		}
		return 0, err
	}
	return id, nil
}

func (r *entryRepo) findBySubmission(ctx context.Context, submissionID string) (int64, error) {
	var existing model.JournalEntry
	err := r.collection.FindOne(ctx, bson.M{"submissionId": submissionID}).Decode(&existing)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return existing.EntryID, nil
}

func (r *entryRepo) List(ctx context.Context) ([]model.JournalEntry, error) {
	return r.find(ctx, bson.M{})
}

func (r *entryRepo) ListPending(ctx context.Context) ([]model.JournalEntry, error) {
	return r.find(ctx, bson.M{"insights": bson.M{"$exists": false}})
}

func (r *entryRepo) find(ctx context.Context, filter bson.M) ([]model.JournalEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "entry_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := []model.JournalEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *entryRepo) SetEnrichment(ctx context.Context, entryID int64, insights, recommendations []string) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"entry_id": entryID},
		bson.M{"$set": bson.M{
			"insights":        insights,
			"recommendations": recommendations,
		}},
	)
	return err
}

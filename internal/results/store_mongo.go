package results

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// resultDoc is the stored shape. Answers and breakdown are kept as JSON so
// the tagged answer values survive unchanged.
type resultDoc struct {
	ID            string    `bson:"_id"`
	VariantID     string    `bson:"variantId"`
	Submitter     Submitter `bson:"submitter"`
	AnswersJSON   string    `bson:"answersJson"`
	BreakdownJSON string    `bson:"breakdownJson"`
	TotalCorrect  int       `bson:"totalCorrect"`
	CreatedAt     time.Time `bson:"createdAt"`
	NotifyState   string    `bson:"notifyState"`
	NotifyTries   int       `bson:"notifyAttempts"`
	NotifyError   string    `bson:"notifyError"`
}

type mongoStore struct {
	collection *mongo.Collection
}

// NewMongoStore stores records in the "results" collection of database.
func NewMongoStore(client *mongo.Client, database string) Store {
	if database == "" {
		database = "rmleveltest"
	}
	return &mongoStore{collection: client.Database(database).Collection("results")}
}

// EnsureIndexes creates the listing index. Safe to call repeatedly.
func EnsureIndexes(ctx context.Context, s Store) error {
	m, ok := s.(*mongoStore)
	if !ok {
		return nil
	}
	_, err := m.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "variantId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	return err
}

func (r *mongoStore) Put(ctx context.Context, rec Record) (Record, error) {
	rec = stamp(rec)
	aj, err := json.Marshal(rec.Answers)
	if err != nil {
		return Record{}, fmt.Errorf("encode answers: %w", err)
	}
	bj, err := json.Marshal(rec.Breakdown)
	if err != nil {
		return Record{}, fmt.Errorf("encode breakdown: %w", err)
	}
	doc := resultDoc{
		ID:            rec.ID,
		VariantID:     rec.Breakdown.VariantID,
		Submitter:     rec.Submitter,
		AnswersJSON:   string(aj),
		BreakdownJSON: string(bj),
		TotalCorrect:  rec.Breakdown.TotalCorrect,
		CreatedAt:     rec.CreatedAt,
		NotifyState:   rec.Notify.State,
		NotifyTries:   rec.Notify.Attempts,
		NotifyError:   rec.Notify.LastError,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (r *mongoStore) Get(ctx context.Context, id string) (Record, error) {
	var doc resultDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}
	return doc.record()
}

func (r *mongoStore) List(ctx context.Context, opts ListOpts) ([]Record, error) {
	opts = opts.normalized()
	filter := bson.M{}
	if opts.VariantID != "" {
		filter["variantId"] = opts.VariantID
	}
	findOpts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(opts.Offset)).
		SetLimit(int64(opts.Limit))

	cursor, err := r.collection.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []resultDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(docs))
	for _, d := range docs {
		rec, err := d.record()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *mongoStore) MarkNotifyPending(ctx context.Context, id string) error {
	return r.updateOne(ctx, id, bson.M{
		"$set": bson.M{"notifyState": NotifyPending},
		"$inc": bson.M{"notifyAttempts": 1},
	})
}

func (r *mongoStore) MarkNotifyOK(ctx context.Context, id string) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"notifyState": NotifyOK, "notifyError": ""}})
}

func (r *mongoStore) MarkNotifyFailed(ctx context.Context, id, lastErr string) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"notifyState": NotifyFailed, "notifyError": lastErr}})
}

func (r *mongoStore) updateOne(ctx context.Context, id string, update bson.M) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (d resultDoc) record() (Record, error) {
	rec := Record{
		ID:        d.ID,
		Submitter: d.Submitter,
		CreatedAt: d.CreatedAt.UTC(),
		Notify:    NotifyStatus{State: d.NotifyState, Attempts: d.NotifyTries, LastError: d.NotifyError},
	}
	if err := json.Unmarshal([]byte(d.AnswersJSON), &rec.Answers); err != nil {
		return Record{}, fmt.Errorf("result %s: decode answers: %w", d.ID, err)
	}
	if err := json.Unmarshal([]byte(d.BreakdownJSON), &rec.Breakdown); err != nil {
		return Record{}, fmt.Errorf("result %s: decode breakdown: %w", d.ID, err)
	}
	return rec, nil
}

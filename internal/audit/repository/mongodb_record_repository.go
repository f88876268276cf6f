package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	auditDomain "github.com/allisson/phiguard/internal/audit/domain"
	apperrors "github.com/allisson/phiguard/internal/errors"
)

// AuditCollection is the MongoDB collection holding audit records.
const AuditCollection = "audit_records"

type mongoRecord struct {
	ID               string    `bson:"_id"`
	OccurredAt       time.Time `bson:"occurred_at"`
	EventType        string    `bson:"event_type"`
	SubjectID        *string   `bson:"subject_id,omitempty"`
	DeviceID         string    `bson:"device_id"`
	EncryptedDetails []byte    `bson:"encrypted_details"`
	Signature        []byte    `bson:"signature"`
}

func toMongoRecord(record *auditDomain.Record) mongoRecord {
	doc := mongoRecord{
		ID:               record.ID.String(),
		OccurredAt:       record.Timestamp.UTC(),
		EventType:        string(record.EventType),
		DeviceID:         record.DeviceID,
		EncryptedDetails: record.EncryptedDetails,
		Signature:        record.Signature,
	}
	if record.SubjectID != nil {
		subject := record.SubjectID.String()
		doc.SubjectID = &subject
	}
	return doc
}

func (d mongoRecord) toDomain() (*auditDomain.Record, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse audit record id")
	}

	record := &auditDomain.Record{
		ID:               id,
		Timestamp:        d.OccurredAt.UTC(),
		EventType:        auditDomain.EventType(d.EventType),
		DeviceID:         d.DeviceID,
		EncryptedDetails: d.EncryptedDetails,
		Signature:        d.Signature,
	}
	if d.SubjectID != nil {
		subject, err := uuid.Parse(*d.SubjectID)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to parse audit record subject_id")
		}
		record.SubjectID = &subject
	}
	return record, nil
}

// MongoDBRecordRepository implements the audit record store on a MongoDB
// collection. Ids are stored as canonical UUID strings, which sort in the
// same order as their bytes.
type MongoDBRecordRepository struct {
	coll *mongo.Collection
}

// NewMongoDBRecordRepository creates a new MongoDB record repository.
func NewMongoDBRecordRepository(db *mongo.Database) *MongoDBRecordRepository {
	return &MongoDBRecordRepository{coll: db.Collection(AuditCollection)}
}

// EnsureIndexes creates the indexes used by Query and Count.
func (m *MongoDBRecordRepository) EnsureIndexes(ctx context.Context) error {
	_, err := m.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "occurred_at", Value: 1}, {Key: "_id", Value: 1}}},
		{Keys: bson.D{{Key: "subject_id", Value: 1}, {Key: "occurred_at", Value: 1}}},
		{Keys: bson.D{{Key: "event_type", Value: 1}, {Key: "occurred_at", Value: 1}}},
	})
	if err != nil {
		return apperrors.Wrap(err, "failed to create audit indexes")
	}
	return nil
}

// Append inserts a record. A duplicate id fails with ErrConflict.
func (m *MongoDBRecordRepository) Append(ctx context.Context, record *auditDomain.Record) error {
	_, err := m.coll.InsertOne(ctx, toMongoRecord(record))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.Wrap(apperrors.ErrConflict, "audit record already exists")
		}
		return apperrors.Wrap(err, "failed to append audit record")
	}
	return nil
}

// Query returns the matching records ordered by occurred_at, then id.
func (m *MongoDBRecordRepository) Query(
	ctx context.Context,
	filter *auditDomain.Filter,
) ([]*auditDomain.Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "occurred_at", Value: 1}, {Key: "_id", Value: 1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cursor, err := m.coll.Find(ctx, mongoFilter(filter), opts)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to query audit records")
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	records := make([]*auditDomain.Record, 0)
	for cursor.Next(ctx) {
		var doc mongoRecord
		if err := cursor.Decode(&doc); err != nil {
			return nil, apperrors.Wrap(err, "failed to decode audit record")
		}
		record, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := cursor.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate audit records")
	}

	return records, nil
}

// Count returns the number of matching records.
func (m *MongoDBRecordRepository) Count(ctx context.Context, filter *auditDomain.Filter) (int64, error) {
	count, err := m.coll.CountDocuments(ctx, mongoFilter(filter))
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count audit records")
	}
	return count, nil
}

func mongoFilter(filter *auditDomain.Filter) bson.M {
	query := bson.M{}
	if filter.SubjectID != nil {
		query["subject_id"] = filter.SubjectID.String()
	}
	if filter.EventType != "" {
		query["event_type"] = string(filter.EventType)
	}

	window := bson.M{}
	if filter.From != nil {
		window["$gte"] = filter.From.UTC()
	}
	if filter.To != nil {
		window["$lte"] = filter.To.UTC()
	}
	if len(window) > 0 {
		query["occurred_at"] = window
	}
	return query
}

package utils

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AuditEntry records one admin mutation or payment verification
type AuditEntry struct {
	Actor     string                 `bson:"actor" json:"actor"`
	Action    string                 `bson:"action" json:"action"`
	Entity    string                 `bson:"entity" json:"entity"`
	EntityIDs []uint                 `bson:"entity_ids" json:"entity_ids"`
	Data      map[string]interface{} `bson:"data,omitempty" json:"data,omitempty"`
	RequestID string                 `bson:"request_id,omitempty" json:"request_id,omitempty"`
	CreatedAt time.Time              `bson:"created_at" json:"created_at"`
}

// AuditLogger persists audit entries and reads back the latest ones
type AuditLogger interface {
	Record(ctx context.Context, entry AuditEntry) error
	Recent(ctx context.Context, entity string, limit int) ([]AuditEntry, error)
}

// memoryAuditCap bounds how many entries MemoryAuditLogger keeps by default
const memoryAuditCap = 1000

// Audit is the audit sink used by the handlers
var Audit AuditLogger = &MemoryAuditLogger{}

// RecordAudit writes an entry and only logs when the sink fails; auditing never fails a request.
func RecordAudit(ctx context.Context, entry AuditEntry) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if err := Audit.Record(ctx, entry); err != nil {
		LogError("Failed to record audit entry %s/%s: %v", entry.Entity, entry.Action, err)
	}
}

// MongoAuditLogger appends entries to a MongoDB collection
type MongoAuditLogger struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func NewMongoAuditLogger(ctx context.Context, uri, database string) (*MongoAuditLogger, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return &MongoAuditLogger{
		client:     client,
		collection: client.Database(database).Collection("audit_logs"),
	}, nil
}

func (m *MongoAuditLogger) Record(ctx context.Context, entry AuditEntry) error {
	_, err := m.collection.InsertOne(ctx, entry)
	return err
}

// Recent returns the latest entries, newest first. An empty entity matches all.
func (m *MongoAuditLogger) Recent(ctx context.Context, entity string, limit int) ([]AuditEntry, error) {
	filter := bson.M{}
	if entity != "" {
		filter["entity"] = entity
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(int64(limit))
	cursor, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []AuditEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (m *MongoAuditLogger) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// MemoryAuditLogger keeps the latest entries in process and mirrors each one to the
// application log; used when no MongoDB is configured. Capacity defaults to 1000.
type MemoryAuditLogger struct {
	Capacity int

	mu      sync.Mutex
	entries []AuditEntry
}

func (m *MemoryAuditLogger) Record(_ context.Context, entry AuditEntry) error {
	LogInfo("audit: %s %s/%s %v", entry.Actor, entry.Entity, entry.Action, entry.EntityIDs)

	limit := m.Capacity
	if limit <= 0 {
		limit = memoryAuditCap
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	if over := len(m.entries) - limit; over > 0 {
		m.entries = append(m.entries[:0:0], m.entries[over:]...)
	}
	return nil
}

func (m *MemoryAuditLogger) Recent(_ context.Context, entity string, limit int) ([]AuditEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []AuditEntry
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if entity == "" || m.entries[i].Entity == entity {
			out = append(out, m.entries[i])
		}
	}
	return out, nil
}

// Entries returns a copy of what has been recorded so far
func (m *MemoryAuditLogger) Entries() []AuditEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]AuditEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

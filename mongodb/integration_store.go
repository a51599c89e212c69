package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"go.pavemaster.dev/integrations/domain"
	"go.pavemaster.dev/integrations/log"
)

// historyDocument orders entries by Seq, taken from a server-side counter so
// that appends from several processes keep their order.
type historyDocument struct {
	Seq               int64 `bson:"seq"`
	domain.SyncStatus `bson:",inline"`
}

type counterDocument struct {
	ID  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}

// IntegrationStore implements domain.IntegrationStore using MongoDB.
type IntegrationStore struct {
	credentials *mongo.Collection
	history     *mongo.Collection
	counters    *mongo.Collection
	logger      log.Logger
}

// NewIntegrationStore creates the store and ensures its indexes.
func NewIntegrationStore(ctx context.Context, db *mongo.Database, logger log.Logger) (*IntegrationStore, error) {
	s := &IntegrationStore{
		credentials: db.Collection(CredentialsCollection),
		history:     db.Collection(SyncHistoryCollection),
		counters:    db.Collection(CountersCollection),
		logger:      logger,
	}

	_, err := s.credentials.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "platform_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create credential indexes: %w", err)
	}

	_, err = s.history.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "sync_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "seq", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "platform", Value: 1}, {Key: "seq", Value: 1}}},
	})
	if err != nil {
		logger.Warn(ctx, "Issue creating indexes for sync history collection", log.Fields{"error": err.Error()})
	}

	return s, nil
}

func (s *IntegrationStore) Load(ctx context.Context, platform domain.Platform) (*domain.Credential, error) {
	var cred domain.Credential
	err := s.credentials.FindOne(ctx, bson.M{"platform_id": platform}).Decode(&cred)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrCredentialNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s credential: %w", platform, err)
	}
	return &cred, nil
}

// Save upserts the credential only where the stored version matches. When
// another writer got there first the filter misses, the upsert collides with
// the unique platform_id index and the save reports a conflict.
func (s *IntegrationStore) Save(ctx context.Context, platform domain.Platform, cred *domain.Credential) error {
	doc := *cred
	doc.PlatformID = platform
	doc.Version = cred.Version + 1

	filter := bson.M{"platform_id": platform, "version": cred.Version}
	if cred.Version == 0 {
		// Documents written before versioning carry no version field.
		filter = bson.M{"platform_id": platform, "$or": bson.A{
			bson.M{"version": bson.M{"$exists": false}},
			bson.M{"version": 0},
		}}
	}

	_, err := s.credentials.ReplaceOne(ctx, filter, doc, options.Replace().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %s saved at version %d", domain.ErrCredentialConflict, platform, cred.Version)
	}
	if err != nil {
		return fmt.Errorf("failed to save %s credential: %w", platform, err)
	}
	cred.Version = doc.Version
	return nil
}

func (s *IntegrationStore) nextHistorySeq(ctx context.Context) (int64, error) {
	var counter counterDocument
	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": syncHistoryCounter},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate sync history sequence: %w", err)
	}
	return counter.Seq, nil
}

func (s *IntegrationStore) Append(ctx context.Context, status *domain.SyncStatus) error {
	seq, err := s.nextHistorySeq(ctx)
	if err != nil {
		return err
	}
	_, err = s.history.InsertOne(ctx, historyDocument{Seq: seq, SyncStatus: *status})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("sync %s already recorded: %w", status.ID, err)
		}
		return fmt.Errorf("failed to append sync status: %w", err)
	}
	return nil
}

func (s *IntegrationStore) Query(ctx context.Context, platform domain.Platform) ([]domain.SyncStatus, error) {
	filter := bson.M{}
	if platform != "" {
		filter["platform"] = platform
	}

	cursor, err := s.history.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "seq", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query sync history: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []historyDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode sync history: %w", err)
	}

	out := make([]domain.SyncStatus, len(docs))
	for i := range docs {
		out[i] = docs[i].SyncStatus
	}
	return out, nil
}

package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gutcheck-app/gutcheck/backend/internal/models"
)

type observationDocument struct {
	ID             string    `bson:"_id"`
	DeviceID       string    `bson:"device_id"`
	Timestamp      time.Time `bson:"timestamp"`
	BristolScore   *int      `bson:"bristol_score,omitempty"`
	HydrationIndex *float64  `bson:"hydration_index,omitempty"`
	VolumeEstimate *string   `bson:"volume_estimate,omitempty"`
	Flags          []string  `bson:"flags"`
	CreatedAt      time.Time `bson:"created_at"`
}

type mongoObservationRepository struct {
	collection *mongo.Collection
}

// NewMongoObservationRepository creates an observation repository on a Mongo collection
func NewMongoObservationRepository(collection *mongo.Collection) ObservationRepository {
	return &mongoObservationRepository{collection: collection}
}

func (r *mongoObservationRepository) Migrate(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "device_id", Value: 1}, {Key: "timestamp", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	return nil
}

func (r *mongoObservationRepository) GetByDateRange(ctx context.Context, start, end time.Time, deviceID string) ([]models.Observation, error) {
	filter := bson.M{
		"timestamp": bson.M{"$gte": start.UTC(), "$lte": end.UTC()},
	}
	if deviceID != "" {
		filter["device_id"] = deviceID
	}

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query observations: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []observationDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode observations: %w", err)
	}

	observations := make([]models.Observation, 0, len(docs))
	for _, doc := range docs {
		observations = append(observations, buildObservation(doc.ID, doc.DeviceID, doc.Timestamp,
			doc.BristolScore, doc.HydrationIndex, doc.VolumeEstimate, doc.Flags, doc.CreatedAt))
	}
	return observations, nil
}

func (r *mongoObservationRepository) Create(ctx context.Context, obs *models.Observation) (*models.Observation, error) {
	doc := observationDocument{
		ID:             obs.ID,
		DeviceID:       obs.DeviceID,
		Timestamp:      obs.Timestamp.UTC(),
		BristolScore:   obs.BristolScore,
		HydrationIndex: obs.HydrationIndex,
		VolumeEstimate: volumeString(obs.VolumeEstimate),
		Flags:          obs.Flags,
		CreatedAt:      obs.CreatedAt.UTC(),
	}
	if doc.Flags == nil {
		doc.Flags = []string{}
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to create observation: %w", err)
	}

	created := buildObservation(doc.ID, doc.DeviceID, doc.Timestamp, doc.BristolScore,
		doc.HydrationIndex, doc.VolumeEstimate, doc.Flags, doc.CreatedAt)
	return &created, nil
}

func (r *mongoObservationRepository) ListDevices(ctx context.Context) ([]string, error) {
	values, err := r.collection.Distinct(ctx, "device_id", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to query devices: %w", err)
	}

	devices := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			devices = append(devices, s)
		}
	}
	sort.Strings(devices)
	return devices, nil
}

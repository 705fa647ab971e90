package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/gutcheck-app/gutcheck/backend/internal/config"
	"github.com/gutcheck-app/gutcheck/backend/pkg/supabase"
)

// Open connects to the store selected by cfg.Storage.Driver. The returned
// close function releases the underlying connection and is never nil.
func Open(ctx context.Context, cfg *config.Config) (ObservationRepository, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Storage.Driver {
	case config.DriverSupabase:
		client := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.ServiceKey)
		return NewSupabaseObservationRepository(client, cfg.Storage.Table), noop, nil

	case config.DriverPostgres:
		logLevel := gormlogger.Warn
		if cfg.Logging.Level == "debug" {
			logLevel = gormlogger.Info
		}
		db, err := gorm.Open(postgres.Open(cfg.Storage.PostgresDSN), &gorm.Config{
			Logger: gormlogger.Default.LogMode(logLevel),
		})
		if err != nil {
			return nil, noop, fmt.Errorf("failed to connect to database: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, noop, err
		}
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetMaxOpenConns(20)
		if err := sqlDB.PingContext(ctx); err != nil {
			sqlDB.Close()
			return nil, noop, fmt.Errorf("database is not reachable: %w", err)
		}
		return NewPostgresObservationRepository(db, cfg.Storage.Table), sqlDB.Close, nil

	case config.DriverSQLite:
		repo, err := OpenSQLite(cfg.Storage.SQLitePath, cfg.Storage.Table)
		if err != nil {
			return nil, noop, err
		}
		return repo, repo.Close, nil

	case config.DriverMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Storage.MongoURI))
		if err != nil {
			return nil, noop, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		if err := client.Ping(ctx, nil); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, noop, fmt.Errorf("MongoDB is not reachable: %w", err)
		}
		collection := client.Database(cfg.Storage.MongoDatabase).Collection(cfg.Storage.Table)
		closeFn := func() error { return client.Disconnect(context.Background()) }
		return NewMongoObservationRepository(collection), closeFn, nil
	}

	return nil, noop, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

// Migrate prepares the schema for stores that manage their own. Supabase
// tables are owned by Supabase migrations, so it reports false there.
func Migrate(ctx context.Context, repo ObservationRepository) (bool, error) {
	m, ok := repo.(Migrator)
	if !ok {
		return false, nil
	}
	return true, m.Migrate(ctx)
}

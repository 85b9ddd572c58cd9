package config

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"
	"github.com/sethvargo/go-retry"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const retryDelay = 2 * time.Second

var (
	DB          *sql.DB
	MongoClient *mongo.Client
	MongoDB     *mongo.Database
)

// PostgresConnString builds a lib/pq keyword/value connection string.
func PostgresConnString(cfg DatabaseConfig) string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)
}

// InitDBWithRetry connects to PostgreSQL, retrying with exponential backoff
// until cfg.ConnectRetries attempts have failed.
func InitDBWithRetry(ctx context.Context, cfg DatabaseConfig) error {
	backoff := retry.WithMaxRetries(cfg.ConnectRetries, retry.NewExponential(retryDelay))

	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := InitDB(ctx, cfg); err != nil {
			log.Printf("Failed to connect to PostgreSQL (attempt %d/%d): %v", attempt, cfg.ConnectRetries+1, err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL after %d attempts: %w", attempt, err)
	}
	return nil
}

func InitDB(ctx context.Context, cfg DatabaseConfig) error {
	log.Printf("DB Host: %s", cfg.Host)
	log.Printf("DB Port: %s", cfg.Port)
	log.Printf("DB Name: %s", cfg.Name)
	log.Printf("SSL Mode: %s", cfg.SSLMode)

	db, err := sql.Open("postgres", PostgresConnString(cfg))
	if err != nil {
		return fmt.Errorf("error opening PostgreSQL database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return fmt.Errorf("error connecting to PostgreSQL database: %w", err)
	}

	DB = db
	log.Printf("Successfully connected to PostgreSQL database: %s", cfg.Name)
	return nil
}

// ConnectMongo initializes the MongoDB connection
func ConnectMongo(ctx context.Context, cfg MongoConfig) error {
	clientOptions := options.Client().ApplyURI(cfg.URI).
		SetMaxPoolSize(100).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(10 * time.Second).
		SetRetryReads(true).
		SetReadPreference(readpref.Primary())

	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return fmt.Errorf("error connecting to MongoDB: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return fmt.Errorf("error pinging MongoDB: %w", err)
	}

	MongoClient = client
	MongoDB = client.Database(cfg.Database)
	log.Printf("Successfully connected to MongoDB database: %s", cfg.Database)
	return nil
}

// Health check functions
func CheckMongoHealth(ctx context.Context) error {
	if MongoClient == nil {
		return fmt.Errorf("MongoDB not initialized")
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := MongoClient.Ping(ctx, nil); err != nil {
		return fmt.Errorf("MongoDB health check failed: %w", err)
	}
	return nil
}

func CheckPostgresHealth(ctx context.Context) error {
	if DB == nil {
		return fmt.Errorf("PostgreSQL not initialized")
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := DB.PingContext(ctx); err != nil {
		return fmt.Errorf("PostgreSQL health check failed: %w", err)
	}
	return nil
}

// Graceful shutdown
func CloseDB() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if DB != nil {
		if err := DB.Close(); err != nil {
			log.Printf("Error closing PostgreSQL connection: %v", err)
		}
	}

	if MongoClient != nil {
		if err := MongoClient.Disconnect(ctx); err != nil {
			log.Printf("Error closing MongoDB connection: %v", err)
		}
	}
}

// WithTransaction runs fn inside a PostgreSQL transaction.
func WithTransaction(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

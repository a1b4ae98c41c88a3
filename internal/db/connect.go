package db

import (
	"context"
	"time"

	"crebito/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens the process-wide connection pool and verifies the database
// is reachable before any request is served.
func Connect(dsn string) *pgxpool.Pool {
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		logger.Fatal("failed to create database pool", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("failed to ping database", "error", err)
	}

	logger.Info("database connected")
	return pool
}

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/points-marketplace/internal/models"
)

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает тестового пользователя
func (f *TestDataFactory) CreateUser(t *testing.T, userUID, username, email, passwordHash, role string) {
	_, err := f.storage.DB.Exec(`INSERT INTO users (uid, username, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)`,
		userUID, username, email, passwordHash, role)
	require.NoError(t, err)
}

// CreatePackage создает тестовый пакет очков и возвращает его ID
func (f *TestDataFactory) CreatePackage(t *testing.T, userUID string, editing, recording, design, consulting int,
	createdAt time.Time, lifespanDays int, status models.PackageStatus) int {
	var id int
	err := f.storage.DB.QueryRow(`INSERT INTO point_packages
		(user_uid, editing_points, recording_points, design_points, consulting_points,
		 created_at, lifespan_days, status, price, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, '') RETURNING id`,
		userUID, editing, recording, design, consulting, createdAt, lifespanDays, status).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateFormula создает тестовую формулу ценообразования и возвращает её ID
func (f *TestDataFactory) CreateFormula(t *testing.T, name string, basePrice int,
	category models.Category, access models.AccessLevel) int {
	var id int
	err := f.storage.DB.QueryRow(`INSERT INTO formulas (name, base_price, category, fields, access)
		VALUES ($1, $2, $3, '[]', $4) RETURNING id`,
		name, basePrice, category, access).Scan(&id)
	require.NoError(t, err)
	return id
}

// setupTestDatabase создает тестовую БД с контейнером PostgreSQL
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(3*time.Minute)),
	)
	require.NoError(t, err, "failed to start container")

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	// Пробуем подключиться несколько раз с ретраями
	var storage *Storage
	for range 10 {
		storage, err = New(connStr)
		if err == nil {
			err = storage.DB.Ping()
			if err == nil {
				break
			}
		}
		time.Sleep(1 * time.Second)
	}
	require.NoError(t, err, "failed to create storage after retries")

	// Создаем таблицы
	_, err = storage.DB.Exec(`
        CREATE EXTENSION IF NOT EXISTS "uuid-ossp";

        CREATE TABLE users (
            uid UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
            email TEXT NOT NULL UNIQUE,
            username TEXT NOT NULL UNIQUE,
            display_name TEXT NOT NULL DEFAULT '',
            password_hash TEXT NOT NULL,
            role TEXT NOT NULL DEFAULT 'user',
            notes TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        );

        CREATE TABLE point_packages (
            id SERIAL PRIMARY KEY,
            user_uid UUID NOT NULL REFERENCES users(uid) ON DELETE CASCADE,
            editing_points INTEGER NOT NULL DEFAULT 0 CHECK (editing_points >= 0),
            recording_points INTEGER NOT NULL DEFAULT 0 CHECK (recording_points >= 0),
            design_points INTEGER NOT NULL DEFAULT 0 CHECK (design_points >= 0),
            consulting_points INTEGER NOT NULL DEFAULT 0 CHECK (consulting_points >= 0),
            created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
            lifespan_days INTEGER NOT NULL,
            status TEXT NOT NULL DEFAULT 'Active',
            price NUMERIC(10, 2) NOT NULL DEFAULT 0,
            description TEXT NOT NULL DEFAULT ''
        );

        CREATE TABLE formulas (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            base_price INTEGER NOT NULL DEFAULT 0,
            category TEXT NOT NULL,
            fields JSONB NOT NULL DEFAULT '[]',
            access TEXT NOT NULL DEFAULT 'public'
        );

        CREATE TABLE formula_orders (
            id SERIAL PRIMARY KEY,
            user_uid UUID NOT NULL REFERENCES users(uid) ON DELETE CASCADE,
            formula_id INTEGER NOT NULL,
            category TEXT NOT NULL,
            total_points INTEGER NOT NULL,
            items JSONB NOT NULL DEFAULT '[]',
            status TEXT NOT NULL,
            admin_notes TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        );

        CREATE TABLE vlog_orders (
            id SERIAL PRIMARY KEY,
            user_uid UUID NOT NULL REFERENCES users(uid) ON DELETE CASCADE,
            formula_id INTEGER NOT NULL,
            category TEXT NOT NULL,
            total_points INTEGER NOT NULL,
            details TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL,
            admin_notes TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        );

        CREATE TABLE tiktok_orders (LIKE vlog_orders INCLUDING ALL);
        CREATE TABLE thumbnail_orders (LIKE vlog_orders INCLUDING ALL);
        CREATE TABLE recording_orders (LIKE vlog_orders INCLUDING ALL);

        CREATE TABLE points_orders (
            id SERIAL PRIMARY KEY,
            user_uid UUID NOT NULL REFERENCES users(uid) ON DELETE CASCADE,
            package_id INTEGER NOT NULL,
            price NUMERIC(10, 2) NOT NULL DEFAULT 0,
            status TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        );
    `)
	require.NoError(t, err, "failed to create tables")

	cleanup := func() {
		if storage != nil && storage.DB != nil {
			_ = storage.DB.Close()
		}
		if pgContainer != nil {
			_ = pgContainer.Terminate(ctx)
		}
	}

	return storage, cleanup
}

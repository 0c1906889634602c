// Package repository реализует хранилище данных на основе PostgreSQL
// для маркетплейса видеоуслуг. Предоставляет методы работы с пользователями,
// пакетами очков, формулами ценообразования и заказами, включая
// транзакционное списание очков при оформлении заказа.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/magabrotheeeer/points-marketplace/internal/models"
)

// ErrNotFound возвращается, когда запрошенная запись отсутствует в базе.
var ErrNotFound = errors.New("not found")

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его доступность.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func (s *Storage) CheckDatabaseReady(ctx context.Context) error {
	var exists bool
	err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'point_packages'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table point_packages missing or query error: %w", err)
	}
	return nil
}

// categoryColumn возвращает имя колонки баланса для категории очков.
// Категории перечислимы, подстановка в SQL безопасна.
func categoryColumn(c models.Category) (string, error) {
	switch c {
	case models.CategoryEditing:
		return "editing_points", nil
	case models.CategoryRecording:
		return "recording_points", nil
	case models.CategoryDesign:
		return "design_points", nil
	case models.CategoryConsulting:
		return "consulting_points", nil
	}
	return "", fmt.Errorf("unknown point category: %q", c)
}

// orderTable возвращает имя таблицы заказов для вида заказа.
// Таблицы заказов по видам услуг параллельны и имеют общую форму.
func orderTable(kind models.OrderKind) (string, error) {
	switch kind {
	case models.OrderKindFormula:
		return "formula_orders", nil
	case models.OrderKindVlog:
		return "vlog_orders", nil
	case models.OrderKindTikTok:
		return "tiktok_orders", nil
	case models.OrderKindThumbnail:
		return "thumbnail_orders", nil
	case models.OrderKindRecording:
		return "recording_orders", nil
	}
	return "", fmt.Errorf("unknown order kind: %q", kind)
}

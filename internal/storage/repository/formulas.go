package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/points-marketplace/internal/models"
)

// CreateFormula вставляет новую формулу ценообразования и возвращает её ID.
// Список полей сериализуется в JSONB.
func (s *Storage) CreateFormula(ctx context.Context, f models.Formula) (int, error) {
	const op = "storage.CreateFormula"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	fields, err := json.Marshal(f.Fields)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO formulas (name, base_price, category, fields, access)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int
	err = s.DB.QueryRowContext(ctx, query,
		f.Name, f.BasePrice, f.Category, fields, f.Access).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadFormula возвращает формулу по её ID.
func (s *Storage) ReadFormula(ctx context.Context, id int) (*models.Formula, error) {
	const op = "storage.ReadFormula"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, base_price, category, fields, access
			  FROM formulas WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var f models.Formula
	var fields []byte
	if err := row.Scan(&f.ID, &f.Name, &f.BasePrice, &f.Category, &fields, &f.Access); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal(fields, &f.Fields); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &f, nil
}

// ListFormulas возвращает формулы с перечисленными уровнями доступа.
// Пользователь видит user и public, аноним — только public, администратор — все.
func (s *Storage) ListFormulas(ctx context.Context, accessLevels []models.AccessLevel) ([]*models.Formula, error) {
	const op = "storage.ListFormulas"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	levels, err := json.Marshal(accessLevels)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT id, name, base_price, category, fields, access
			  FROM formulas
			  WHERE access IN (SELECT jsonb_array_elements_text($1::jsonb))
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, levels)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Formula
	for rows.Next() {
		var f models.Formula
		var fields []byte
		if err := rows.Scan(&f.ID, &f.Name, &f.BasePrice, &f.Category, &fields, &f.Access); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := json.Unmarshal(fields, &f.Fields); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &f)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateFormula обновляет формулу по ID и возвращает количество изменённых строк.
// Уже оформленные заказы хранят собственный снимок полей и правок не замечают.
func (s *Storage) UpdateFormula(ctx context.Context, f models.Formula, id int) (int, error) {
	const op = "storage.UpdateFormula"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	fields, err := json.Marshal(f.Fields)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE formulas
			  SET name = $1, base_price = $2, category = $3, fields = $4, access = $5
			  WHERE id = $6`
	result, err := s.DB.ExecContext(ctx, query,
		f.Name, f.BasePrice, f.Category, fields, f.Access, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveFormula удаляет формулу по ID и возвращает количество удалённых строк.
func (s *Storage) RemoveFormula(ctx context.Context, id int) (int, error) {
	const op = "storage.RemoveFormula"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM formulas WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/points-marketplace/internal/lib/spend"
	"github.com/magabrotheeeer/points-marketplace/internal/models"
)

// CreateFormulaOrder списывает очки и вставляет заказ по формуле одной транзакцией.
//
// Пакеты пользователя блокируются построчно (SELECT ... FOR UPDATE),
// план списания строит spend.Plan, затем каждое затронутое списание
// уменьшает баланс пакета и дописывает строку аудита в его description.
// При нехватке очков транзакция откатывается без единой записи,
// ошибка оборачивает spend.ErrInsufficientPoints.
func (s *Storage) CreateFormulaOrder(ctx context.Context, order models.FormulaOrder) (int, error) {
	const op = "storage.CreateFormulaOrder"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	items, err := json.Marshal(order.Items)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	reason := fmt.Sprintf("заказ по формуле #%d", order.FormulaID)
	if err := spendLocked(ctx, tx, order.UserUID, order.Category, order.TotalPoints, reason); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO formula_orders (user_uid, formula_id, category, total_points, items, status, admin_notes)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id`
	var newID int
	err = tx.QueryRowContext(ctx, query,
		order.UserUID, order.FormulaID, order.Category, order.TotalPoints, items,
		order.Status, order.AdminNotes).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// CreateServiceOrder списывает очки и вставляет заказ типовой услуги
// в таблицу своего вида одной транзакцией.
func (s *Storage) CreateServiceOrder(ctx context.Context, order models.ServiceOrder) (int, error) {
	const op = "storage.CreateServiceOrder"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	table, err := orderTable(order.Kind)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	reason := fmt.Sprintf("заказ услуги %s", order.Kind)
	if err := spendLocked(ctx, tx, order.UserUID, order.Category, order.TotalPoints, reason); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO ` + table + ` (user_uid, formula_id, category, total_points, details, status, admin_notes)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id`
	var newID int
	err = tx.QueryRowContext(ctx, query,
		order.UserUID, order.FormulaID, order.Category, order.TotalPoints, order.Details,
		order.Status, order.AdminNotes).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// spendLocked выполняет списание amount очков категории внутри открытой транзакции.
func spendLocked(ctx context.Context, tx *sql.Tx, userUID string, category models.Category, amount int, reason string) error {
	packages, err := lockActivePackages(ctx, tx, userUID, category)
	if err != nil {
		return err
	}

	now := time.Now()
	plan, err := spend.Plan(packages, category, amount, now)
	if err != nil {
		return err
	}

	for _, d := range plan {
		if err := applyDeduction(ctx, tx, d.PackageID, category, d.Amount, auditLine(now, d.Amount, category, reason)); err != nil {
			return err
		}
	}
	return nil
}

// ListFormulaOrders возвращает заказы по формулам с пагинацией.
// Пустой userUID означает выборку по всем пользователям (для администратора).
func (s *Storage) ListFormulaOrders(ctx context.Context, userUID string, limit, offset int) ([]*models.FormulaOrder, error) {
	const op = "storage.ListFormulaOrders"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, formula_id, category, total_points, items, status, admin_notes, created_at
			  FROM formula_orders
			  WHERE ($1 = '' OR user_uid::text = $1)
			  ORDER BY id
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.FormulaOrder
	for rows.Next() {
		var o models.FormulaOrder
		var items []byte
		if err := rows.Scan(&o.ID, &o.UserUID, &o.FormulaID, &o.Category, &o.TotalPoints,
			&items, &o.Status, &o.AdminNotes, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &o)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListServiceOrders возвращает заказы типовых услуг выбранного вида с пагинацией.
// Пустой userUID означает выборку по всем пользователям.
func (s *Storage) ListServiceOrders(ctx context.Context, kind models.OrderKind, userUID string, limit, offset int) ([]*models.ServiceOrder, error) {
	const op = "storage.ListServiceOrders"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	table, err := orderTable(kind)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT id, user_uid, formula_id, category, total_points, details, status, admin_notes, created_at
			  FROM ` + table + `
			  WHERE ($1 = '' OR user_uid::text = $1)
			  ORDER BY id
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.ServiceOrder
	for rows.Next() {
		var o models.ServiceOrder
		o.Kind = kind
		if err := rows.Scan(&o.ID, &o.UserUID, &o.FormulaID, &o.Category, &o.TotalPoints,
			&o.Details, &o.Status, &o.AdminNotes, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &o)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetOrderStatus возвращает текущий статус заказа выбранного вида.
func (s *Storage) GetOrderStatus(ctx context.Context, kind models.OrderKind, id int) (string, error) {
	const op = "storage.GetOrderStatus"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	table, err := orderTable(kind)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT status FROM ` + table + ` WHERE id = $1`
	var status string
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(&status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return status, nil
}

// UpdateOrderStatus сохраняет новый статус заказа и возвращает количество изменённых строк.
// Допустимость перехода проверяет сервис заказов.
func (s *Storage) UpdateOrderStatus(ctx context.Context, kind models.OrderKind, id int, status string) (int, error) {
	const op = "storage.UpdateOrderStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	table, err := orderTable(kind)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE ` + table + ` SET status = $1 WHERE id = $2`
	result, err := s.DB.ExecContext(ctx, query, status, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// UpdateOrderNotes сохраняет заметки администратора по заказу.
func (s *Storage) UpdateOrderNotes(ctx context.Context, kind models.OrderKind, id int, notes string) (int, error) {
	const op = "storage.UpdateOrderNotes"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	table, err := orderTable(kind)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE ` + table + ` SET admin_notes = $1 WHERE id = $2`
	result, err := s.DB.ExecContext(ctx, query, notes, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// CreatePointsOrder вставляет запись о покупке пакета очков и возвращает её ID.
func (s *Storage) CreatePointsOrder(ctx context.Context, po models.PointsOrder) (int, error) {
	const op = "storage.CreatePointsOrder"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO points_orders (user_uid, package_id, price, status)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		po.UserUID, po.PackageID, po.Price, po.Status).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListPointsOrders возвращает записи о покупках пакетов с пагинацией.
// Пустой userUID означает выборку по всем пользователям.
func (s *Storage) ListPointsOrders(ctx context.Context, userUID string, limit, offset int) ([]*models.PointsOrder, error) {
	const op = "storage.ListPointsOrders"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, package_id, price, status, created_at
			  FROM points_orders
			  WHERE ($1 = '' OR user_uid::text = $1)
			  ORDER BY id
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.PointsOrder
	for rows.Next() {
		var po models.PointsOrder
		if err := rows.Scan(&po.ID, &po.UserUID, &po.PackageID, &po.Price, &po.Status, &po.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &po)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/points-marketplace/internal/models"
)

const packageColumns = `id, user_uid, editing_points, recording_points, design_points,
			      consulting_points, created_at, lifespan_days, status, price, description`

func scanPackage(row interface{ Scan(dest ...any) error }) (*models.PointPackage, error) {
	var p models.PointPackage
	if err := row.Scan(&p.ID, &p.UserUID, &p.EditingPoints, &p.RecordingPoints, &p.DesignPoints,
		&p.ConsultingPoints, &p.CreatedAt, &p.LifespanDays, &p.Status, &p.Price, &p.Description); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePackage вставляет новый пакет очков и возвращает его ID.
func (s *Storage) CreatePackage(ctx context.Context, pkg models.PointPackage) (int, error) {
	const op = "storage.CreatePackage"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO point_packages (user_uid, editing_points, recording_points, design_points,
			      consulting_points, lifespan_days, status, price, description)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		pkg.UserUID, pkg.EditingPoints, pkg.RecordingPoints, pkg.DesignPoints,
		pkg.ConsultingPoints, pkg.LifespanDays, pkg.Status, pkg.Price, pkg.Description).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadPackage возвращает пакет очков по его ID.
func (s *Storage) ReadPackage(ctx context.Context, id int) (*models.PointPackage, error) {
	const op = "storage.ReadPackage"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + packageColumns + `
			  FROM point_packages WHERE id = $1`
	p, err := scanPackage(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// ListPackagesByUser возвращает все пакеты пользователя, новые первыми.
func (s *Storage) ListPackagesByUser(ctx context.Context, userUID string) ([]*models.PointPackage, error) {
	const op = "storage.ListPackagesByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + packageColumns + `
			  FROM point_packages
			  WHERE user_uid = $1
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.PointPackage
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListAllPackages возвращает список всех пакетов с пагинацией.
func (s *Storage) ListAllPackages(ctx context.Context, limit, offset int) ([]*models.PointPackage, error) {
	const op = "storage.ListAllPackages"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + packageColumns + `
			  FROM point_packages
			  ORDER BY id
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.PointPackage
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListActivePackages возвращает пакеты пользователя со статусом Active
// и положительным балансом категории. Просроченные строки не отфильтровываются:
// калькулятор баланса обязан их видеть, чтобы записать предупреждение в лог.
func (s *Storage) ListActivePackages(ctx context.Context, userUID string, category models.Category) ([]*models.PointPackage, error) {
	const op = "storage.ListActivePackages"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	column, err := categoryColumn(category)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT ` + packageColumns + `
			  FROM point_packages
			  WHERE user_uid = $1
			    AND status = 'Active'
			    AND ` + column + ` > 0
			  ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.PointPackage
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdatePackage обновляет срок жизни, статус и цену пакета,
// возвращает количество изменённых строк.
func (s *Storage) UpdatePackage(ctx context.Context, id int, req models.DummyPackageUpdate) (int, error) {
	const op = "storage.UpdatePackage"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE point_packages
			  SET lifespan_days = $1, status = $2, price = $3
			  WHERE id = $4`
	result, err := s.DB.ExecContext(ctx, query, req.LifespanDays, req.Status, req.Price, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemovePackage удаляет пакет по ID и возвращает количество удалённых строк.
// Пакеты удаляются только явным действием администратора.
func (s *Storage) RemovePackage(ctx context.Context, id int) (int, error) {
	const op = "storage.RemovePackage"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM point_packages WHERE id = $1`
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

// AdjustPackagePoints корректирует баланс категории пакета на delta
// и дописывает строку аудита в description. Баланс не может уйти ниже нуля:
// такая корректировка не меняет ни одной строки.
func (s *Storage) AdjustPackagePoints(ctx context.Context, id int, category models.Category, delta int, auditLine string) (int, error) {
	const op = "storage.AdjustPackagePoints"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	column, err := categoryColumn(category)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE point_packages
			  SET ` + column + ` = ` + column + ` + $1,
			      description = description || $2
			  WHERE id = $3
			    AND ` + column + ` + $1 >= 0`
	result, err := s.DB.ExecContext(ctx, query, delta, "\n"+auditLine, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// FindPackagesExpiringTomorrow находит активные пакеты, срок жизни которых истекает завтра.
func (s *Storage) FindPackagesExpiringTomorrow(ctx context.Context) ([]*models.PackageExpiryInfo, error) {
	const op = "storage.FindPackagesExpiringTomorrow"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT
			      u.email,
			      u.username,
			      p.id,
			      (p.created_at + (p.lifespan_days || ' days')::INTERVAL) AS expires_at
			  FROM point_packages p
			  JOIN users u ON p.user_uid = u.uid
			  WHERE p.status = 'Active'
			    AND (p.created_at + (p.lifespan_days || ' days')::INTERVAL)::DATE = CURRENT_DATE + INTERVAL '1 day';`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.PackageExpiryInfo
	for rows.Next() {
		var info models.PackageExpiryInfo
		if err = rows.Scan(&info.Email, &info.Username, &info.PackageID, &info.ExpiresAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &info)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// lockActivePackages выбирает пакеты пользователя под блокировкой строк
// для транзакционного списания очков.
func lockActivePackages(ctx context.Context, tx *sql.Tx, userUID string, category models.Category) ([]*models.PointPackage, error) {
	column, err := categoryColumn(category)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + packageColumns + `
			  FROM point_packages
			  WHERE user_uid = $1
			    AND status = 'Active'
			    AND ` + column + ` > 0
			  ORDER BY created_at
			  FOR UPDATE`
	rows, err := tx.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.PointPackage
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// applyDeduction списывает amount очков категории из пакета и дописывает строку аудита.
func applyDeduction(ctx context.Context, tx *sql.Tx, id int, category models.Category, amount int, auditLine string) error {
	column, err := categoryColumn(category)
	if err != nil {
		return err
	}

	query := `UPDATE point_packages
			  SET ` + column + ` = ` + column + ` - $1,
			      description = description || $2
			  WHERE id = $3`
	_, err = tx.ExecContext(ctx, query, amount, "\n"+auditLine, id)
	return err
}

func auditLine(now time.Time, amount int, category models.Category, reason string) string {
	return fmt.Sprintf("%s: -%d %s (%s)", now.Format("2006-01-02 15:04"), amount, category, reason)
}

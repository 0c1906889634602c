package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/points-marketplace/internal/lib/spend"
	"github.com/magabrotheeeer/points-marketplace/internal/models"
)

func TestStorage_ListPackagesByUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	now := time.Now()

	userUID := uuid.New().String()
	otherUID := uuid.New().String()
	factory.CreateUser(t, userUID, "testuser", "test@example.com", "hashedpassword", "user")
	factory.CreateUser(t, otherUID, "otheruser", "other@example.com", "hashedpassword", "user")

	factory.CreatePackage(t, userUID, 10, 0, 0, 0, now, 30, models.PackageStatusActive)
	factory.CreatePackage(t, userUID, 0, 5, 0, 0, now, 30, models.PackageStatusCancelled)
	factory.CreatePackage(t, otherUID, 7, 0, 0, 0, now, 30, models.PackageStatusActive)

	got, err := storage.ListPackagesByUser(context.Background(), userUID)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	for _, p := range got {
		assert.Equal(t, userUID, p.UserUID)
	}
}

func TestStorage_ListActivePackages(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	now := time.Now()

	userUID := uuid.New().String()
	factory.CreateUser(t, userUID, "testuser", "test@example.com", "hashedpassword", "user")

	usable := factory.CreatePackage(t, userUID, 10, 0, 0, 0, now, 30, models.PackageStatusActive)
	// Нулевой баланс категории и неактивный статус не попадают в выборку.
	factory.CreatePackage(t, userUID, 0, 5, 0, 0, now, 30, models.PackageStatusActive)
	factory.CreatePackage(t, userUID, 10, 0, 0, 0, now, 30, models.PackageStatusUsed)
	// Просроченная строка со статусом Active остаётся в выборке намеренно.
	stale := factory.CreatePackage(t, userUID, 10, 0, 0, 0, now.AddDate(0, 0, -40), 30, models.PackageStatusActive)

	got, err := storage.ListActivePackages(context.Background(), userUID, models.CategoryEditing)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, stale, got[0].ID)
	assert.Equal(t, usable, got[1].ID)
}

func TestStorage_AdjustPackagePoints(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	now := time.Now()

	userUID := uuid.New().String()
	factory.CreateUser(t, userUID, "testuser", "test@example.com", "hashedpassword", "user")
	id := factory.CreatePackage(t, userUID, 10, 0, 0, 0, now, 30, models.PackageStatusActive)

	count, err := storage.AdjustPackagePoints(context.Background(), id, models.CategoryEditing, -3, "корректировка")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	p, err := storage.ReadPackage(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 7, p.EditingPoints)
	assert.Contains(t, p.Description, "корректировка")

	// Списание ниже нуля не меняет ни одной строки.
	count, err = storage.AdjustPackagePoints(context.Background(), id, models.CategoryEditing, -100, "ошибка")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	p, err = storage.ReadPackage(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 7, p.EditingPoints)
}

func TestStorage_CreateFormulaOrder(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	now := time.Now()

	userUID := uuid.New().String()
	factory.CreateUser(t, userUID, "testuser", "test@example.com", "hashedpassword", "user")
	formulaID := factory.CreateFormula(t, "Монтаж влога", 10, models.CategoryEditing, models.AccessPublic)

	// Старый пакет истекает раньше и должен списаться первым.
	older := factory.CreatePackage(t, userUID, 5, 0, 0, 0, now.AddDate(0, 0, -20), 25, models.PackageStatusActive)
	newer := factory.CreatePackage(t, userUID, 10, 0, 0, 0, now, 30, models.PackageStatusActive)

	orderID, err := storage.CreateFormulaOrder(context.Background(), models.FormulaOrder{
		UserUID:     userUID,
		FormulaID:   formulaID,
		Category:    models.CategoryEditing,
		TotalPoints: 7,
		Items:       []models.OrderItem{},
		Status:      models.OrderStatusReceived,
	})
	require.NoError(t, err)
	assert.Positive(t, orderID)

	p, err := storage.ReadPackage(context.Background(), older)
	require.NoError(t, err)
	assert.Equal(t, 0, p.EditingPoints)

	p, err = storage.ReadPackage(context.Background(), newer)
	require.NoError(t, err)
	assert.Equal(t, 8, p.EditingPoints)

	orders, err := storage.ListFormulaOrders(context.Background(), userUID, 10, 0)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, 7, orders[0].TotalPoints)
	assert.Equal(t, models.OrderStatusReceived, orders[0].Status)
}

func TestStorage_CreateFormulaOrder_InsufficientPoints(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	now := time.Now()

	userUID := uuid.New().String()
	factory.CreateUser(t, userUID, "testuser", "test@example.com", "hashedpassword", "user")
	formulaID := factory.CreateFormula(t, "Монтаж влога", 10, models.CategoryEditing, models.AccessPublic)
	id := factory.CreatePackage(t, userUID, 5, 0, 0, 0, now, 30, models.PackageStatusActive)

	_, err := storage.CreateFormulaOrder(context.Background(), models.FormulaOrder{
		UserUID:     userUID,
		FormulaID:   formulaID,
		Category:    models.CategoryEditing,
		TotalPoints: 20,
		Items:       []models.OrderItem{},
		Status:      models.OrderStatusReceived,
	})
	require.ErrorIs(t, err, spend.ErrInsufficientPoints)

	// Транзакция откатилась: баланс не тронут, заказ не создан.
	p, err := storage.ReadPackage(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 5, p.EditingPoints)

	orders, err := storage.ListFormulaOrders(context.Background(), userUID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestStorage_UpdateOrderStatus(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	now := time.Now()

	userUID := uuid.New().String()
	factory.CreateUser(t, userUID, "testuser", "test@example.com", "hashedpassword", "user")
	formulaID := factory.CreateFormula(t, "Монтаж влога", 5, models.CategoryEditing, models.AccessPublic)
	factory.CreatePackage(t, userUID, 10, 0, 0, 0, now, 30, models.PackageStatusActive)

	orderID, err := storage.CreateFormulaOrder(context.Background(), models.FormulaOrder{
		UserUID:     userUID,
		FormulaID:   formulaID,
		Category:    models.CategoryEditing,
		TotalPoints: 5,
		Items:       []models.OrderItem{},
		Status:      models.OrderStatusReceived,
	})
	require.NoError(t, err)

	status, err := storage.GetOrderStatus(context.Background(), models.OrderKindFormula, orderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusReceived, status)

	count, err := storage.UpdateOrderStatus(context.Background(), models.OrderKindFormula, orderID, models.OrderStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	status, err = storage.GetOrderStatus(context.Background(), models.OrderKindFormula, orderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusInProgress, status)
}

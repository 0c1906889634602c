package spend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/points-marketplace/internal/models"
)

func pkg(id int, editing int, ageDays, lifespanDays int, status models.PackageStatus, now time.Time) *models.PointPackage {
	return &models.PointPackage{
		ID:            id,
		EditingPoints: editing,
		CreatedAt:     now.AddDate(0, 0, -ageDays),
		LifespanDays:  lifespanDays,
		Status:        status,
	}
}

func TestPlan_DrainsOldestExpiringFirst(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	// Пакет A истекает через 2 дня, пакет B — через 30 дней.
	a := pkg(1, 5, 0, 2, models.PackageStatusActive, now)
	b := pkg(2, 10, 0, 30, models.PackageStatusActive, now)

	plan, err := Plan([]*models.PointPackage{b, a}, models.CategoryEditing, 7, now)
	require.NoError(t, err)
	require.Len(t, plan, 2)
	assert.Equal(t, Deduction{PackageID: 1, Amount: 5}, plan[0])
	assert.Equal(t, Deduction{PackageID: 2, Amount: 2}, plan[1])
}

func TestPlan_InsufficientPoints(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	a := pkg(1, 5, 0, 2, models.PackageStatusActive, now)
	b := pkg(2, 10, 0, 30, models.PackageStatusActive, now)

	plan, err := Plan([]*models.PointPackage{a, b}, models.CategoryEditing, 20, now)
	assert.ErrorIs(t, err, ErrInsufficientPoints)
	assert.Nil(t, plan)
}

func TestPlan_SkipsExpiredAndInactive(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	expired := pkg(1, 100, 40, 30, models.PackageStatusActive, now)
	cancelled := pkg(2, 100, 0, 30, models.PackageStatusCancelled, now)
	usable := pkg(3, 10, 0, 30, models.PackageStatusActive, now)

	plan, err := Plan([]*models.PointPackage{expired, cancelled, usable}, models.CategoryEditing, 10, now)
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, Deduction{PackageID: 3, Amount: 10}, plan[0])
}

func TestPlan_ExpiredBalanceDoesNotCoverShortfall(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	expired := pkg(1, 100, 40, 30, models.PackageStatusActive, now)
	usable := pkg(2, 5, 0, 30, models.PackageStatusActive, now)

	_, err := Plan([]*models.PointPackage{expired, usable}, models.CategoryEditing, 10, now)
	assert.ErrorIs(t, err, ErrInsufficientPoints)
}

func TestPlan_ExactBalance(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	a := pkg(1, 5, 0, 2, models.PackageStatusActive, now)
	b := pkg(2, 10, 0, 30, models.PackageStatusActive, now)

	plan, err := Plan([]*models.PointPackage{a, b}, models.CategoryEditing, 15, now)
	require.NoError(t, err)
	require.Len(t, plan, 2)
	assert.Equal(t, 5, plan[0].Amount)
	assert.Equal(t, 10, plan[1].Amount)
}

func TestPlan_OrderedByExpiryNotCreation(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	// Пакет 1 создан раньше, но живёт дольше: истекает позже пакета 2.
	old := pkg(1, 10, 10, 60, models.PackageStatusActive, now)
	fresh := pkg(2, 10, 0, 7, models.PackageStatusActive, now)

	plan, err := Plan([]*models.PointPackage{old, fresh}, models.CategoryEditing, 12, now)
	require.NoError(t, err)
	require.Len(t, plan, 2)
	assert.Equal(t, 2, plan[0].PackageID)
	assert.Equal(t, 10, plan[0].Amount)
	assert.Equal(t, 1, plan[1].PackageID)
	assert.Equal(t, 2, plan[1].Amount)
}

func TestPlan_OtherCategoryBalanceIgnored(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p := pkg(1, 0, 0, 30, models.PackageStatusActive, now)
	p.DesignPoints = 50

	_, err := Plan([]*models.PointPackage{p}, models.CategoryEditing, 1, now)
	assert.ErrorIs(t, err, ErrInsufficientPoints)

	plan, err := Plan([]*models.PointPackage{p}, models.CategoryDesign, 30, now)
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, 30, plan[0].Amount)
}

func TestPlan_IsPureAndRepeatable(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	a := pkg(1, 5, 0, 2, models.PackageStatusActive, now)
	b := pkg(2, 10, 0, 30, models.PackageStatusActive, now)
	packages := []*models.PointPackage{a, b}

	first, err := Plan(packages, models.CategoryEditing, 7, now)
	require.NoError(t, err)
	second, err := Plan(packages, models.CategoryEditing, 7, now)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	// Балансы загруженных пакетов план не трогает.
	assert.Equal(t, 5, a.EditingPoints)
	assert.Equal(t, 10, b.EditingPoints)
}

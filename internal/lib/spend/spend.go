// Package spend реализует планирование списания очков из пакетов пользователя.
//
// Планировщик чистый: он не трогает базу и работает только с загруженными
// пакетами. Хранилище применяет готовый план внутри одной транзакции,
// поэтому свойства алгоритма проверяются юнит-тестами без базы данных.
package spend

import (
	"errors"
	"sort"
	"time"

	"github.com/magabrotheeeer/points-marketplace/internal/models"
)

// ErrInsufficientPoints возвращается, когда суммарного баланса пригодных
// пакетов не хватает на запрошенное списание. План при этом пуст,
// ни один пакет изменять нельзя.
var ErrInsufficientPoints = errors.New("insufficient points")

// Deduction одно списание из конкретного пакета.
type Deduction struct {
	PackageID int // Пакет, из которого списываем
	Amount    int // Сколько очков списываем
}

// Plan строит план списания amount очков категории category из пакетов packages.
//
// Политика единая для всех вызовов: берутся пакеты со статусом Active
// и положительным балансом категории, просроченные отбрасываются,
// остаток сортируется по возрастанию момента истечения (created_at + lifespan_days).
// Пакеты осушаются по порядку, частично — последний затронутый.
func Plan(packages []*models.PointPackage, category models.Category, amount int, now time.Time) ([]Deduction, error) {
	usable := make([]*models.PointPackage, 0, len(packages))
	total := 0
	for _, p := range packages {
		if !p.IsUsable(category, now) {
			continue
		}
		usable = append(usable, p)
		total += p.Balance(category)
	}
	if total < amount {
		return nil, ErrInsufficientPoints
	}

	sort.SliceStable(usable, func(i, j int) bool {
		return usable[i].ExpiresAt().Before(usable[j].ExpiresAt())
	})

	var plan []Deduction
	remaining := amount
	for _, p := range usable {
		if remaining == 0 {
			break
		}
		take := p.Balance(category)
		if take > remaining {
			take = remaining
		}
		plan = append(plan, Deduction{PackageID: p.ID, Amount: take})
		remaining -= take
	}
	return plan, nil
}

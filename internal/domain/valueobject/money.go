package valueobject

import (
	"math"
	"strconv"

	"github.com/ignatzorin/gigflow-backend/internal/pkg/apperror"
)

// Money хранит неотрицательную сумму в долларах. Бюджеты и ставки хранятся без валюты.
type Money float64

// MinAmount задаёт минимальный бюджет заказа и минимальную сумму ставки.
const MinAmount Money = 1

// MaxAmount укладывается в NUMERIC(14,2) с запасом.
const MaxAmount Money = 1_000_000_000

func NewBudget(amount float64) (Money, error) {
	m, ok := newAmount(amount)
	if !ok {
		return 0, apperror.Validation("бюджет должен быть от 1 до 1000000000")
	}
	return m, nil
}

func NewBidAmount(amount float64) (Money, error) {
	m, ok := newAmount(amount)
	if !ok {
		return 0, apperror.Validation("сумма ставки должна быть от 1 до 1000000000")
	}
	return m, nil
}

// newAmount округляет до центов, как это делает колонка в базе.
func newAmount(amount float64) (Money, bool) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, false
	}
	m := Money(math.Round(amount*100) / 100)
	if m < MinAmount || m > MaxAmount {
		return 0, false
	}
	return m, true
}

func (m Money) Float64() float64 {
	return float64(m)
}

// String форматирует сумму без лишних нулей: 500, 99.5.
func (m Money) String() string {
	return "$" + strconv.FormatFloat(float64(m), 'f', -1, 64)
}

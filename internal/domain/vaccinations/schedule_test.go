package vaccinations

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSuggestDueDate_DefaultInterval(t *testing.T) {
	a := NewScheduleAdvisor(DefaultPolicy())

	assert.Equal(t, d(2025, time.January, 10), a.SuggestDueDate(d(2024, time.January, 10), "V10"))
	// 31/01 + 12 meses no desborda
	assert.Equal(t, d(2025, time.January, 31), a.SuggestDueDate(d(2024, time.January, 31), "Antirrábica"))
	// 29/02 bisiesto -> 28/02 del año siguiente
	assert.Equal(t, d(2025, time.February, 28), a.SuggestDueDate(d(2024, time.February, 29), "V8"))
}

func TestSuggestDueDate_MonthOverflowClamps(t *testing.T) {
	p := NewPolicyTable(1, nil)
	a := NewScheduleAdvisor(p)

	assert.Equal(t, d(2024, time.February, 29), a.SuggestDueDate(d(2024, time.January, 31), "V10"))
	assert.Equal(t, d(2025, time.February, 28), a.SuggestDueDate(d(2025, time.January, 31), "V10"))
}

func TestSuggestDueDate_SixMonthVaccines(t *testing.T) {
	a := NewScheduleAdvisor(nil)

	// 31/08/2024 + 6 meses: febrero 2025 no tiene 31
	assert.Equal(t, d(2025, time.February, 28), a.SuggestDueDate(d(2024, time.August, 31), "Giárdia"))
	assert.Equal(t, d(2025, time.March, 15), a.SuggestDueDate(d(2024, time.September, 15), "gripe canina"))
}

func TestSuggestDueDate_DoesNotTouchInput(t *testing.T) {
	a := NewScheduleAdvisor(nil)
	applied := d(2024, time.May, 31)

	_ = a.SuggestDueDate(applied, "Giárdia")
	assert.Equal(t, d(2024, time.May, 31), applied)
}

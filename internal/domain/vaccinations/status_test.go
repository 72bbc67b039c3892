package vaccinations

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"pet-vaccination-history/internal/platform/calendar"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func d(y int, m time.Month, day int) calendar.Date {
	return calendar.MustDate(y, m, day)
}

func dp(y int, m time.Month, day int) *calendar.Date {
	v := d(y, m, day)
	return &v
}

func rec(id, typ string, applied calendar.Date, due *calendar.Date) Record {
	return Record{ID: id, PetID: "pet-1", VaccineType: typ, AppliedDate: applied, DueDate: due}
}

func TestResolve_NoDueDate_AlwaysVaccinated(t *testing.T) {
	r := rec("r1", "Antirrábica", d(2024, time.January, 10), nil)
	other := rec("r2", "Antirrábica", d(2020, time.January, 1), dp(2021, time.January, 1))

	for _, today := range []calendar.Date{d(1990, time.January, 1), d(2024, time.January, 10), d(2099, time.December, 31)} {
		assert.Equal(t, StatusVaccinated, Resolve(r, []Record{r, other}, today))
		assert.Equal(t, StatusVaccinated, Resolve(r, nil, today))
	}
}

func TestResolve_Scenarios(t *testing.T) {
	r := rec("r1", "V10", d(2024, time.January, 10), dp(2025, time.January, 10))
	history := []Record{r}

	// A
	assert.Equal(t, StatusCurrent, Resolve(r, history, d(2024, time.June, 1)))
	// B
	assert.Equal(t, StatusOverdue, Resolve(r, history, d(2025, time.January, 15)))
	// C
	assert.Equal(t, StatusUpcoming, Resolve(r, history, d(2024, time.December, 20)))
}

func TestResolve_CoveredByLaterDose(t *testing.T) {
	r1 := rec("r1", "V10", d(2024, time.January, 10), dp(2025, time.January, 10))
	r2 := rec("r2", "V10", d(2024, time.July, 1), dp(2025, time.July, 1))
	history := []Record{r1, r2}

	for _, today := range []calendar.Date{d(2024, time.February, 1), d(2025, time.January, 10), d(2030, time.May, 5)} {
		assert.Equal(t, StatusVaccinated, Resolve(r1, history, today), "today=%s", today)
	}
	assert.Equal(t, StatusOverdue, Resolve(r2, history, d(2025, time.August, 1)))
}

func TestResolve_CoverageWindowBounds(t *testing.T) {
	r1 := rec("r1", "V10", d(2024, time.January, 10), dp(2025, time.January, 10))
	today := d(2026, time.January, 1) // sin cobertura, r1 estaría overdue

	cases := []struct {
		name    string
		other   Record
		covered bool
	}{
		{"same day as applied (exclusive)", rec("r2", "V10", d(2024, time.January, 10), nil), false},
		{"day after applied", rec("r2", "V10", d(2024, time.January, 11), nil), true},
		{"on due date (inclusive)", rec("r2", "V10", d(2025, time.January, 10), nil), true},
		{"day after due", rec("r2", "V10", d(2025, time.January, 11), nil), false},
		{"earlier dose", rec("r2", "V10", d(2023, time.January, 10), nil), false},
		{"other vaccine type", rec("r2", "Antirrábica", d(2024, time.June, 1), nil), false},
		{"same id is ignored", rec("r1", "V10", d(2024, time.June, 1), nil), false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Resolve(r1, []Record{r1, c.other}, today)
			want := StatusOverdue
			if c.covered {
				want = StatusVaccinated
			}
			assert.Equal(t, want, got)
		})
	}
}

func TestResolve_CoverageIgnoresOtherRecordStatus(t *testing.T) {
	r1 := rec("r1", "V10", d(2023, time.January, 10), dp(2024, time.January, 10))
	// r2 cubre a r1 aunque r2 mismo esté vencido
	r2 := rec("r2", "V10", d(2023, time.June, 1), dp(2024, time.June, 1))
	today := d(2025, time.January, 1)

	assert.Equal(t, StatusVaccinated, Resolve(r1, []Record{r1, r2}, today))
	assert.Equal(t, StatusOverdue, Resolve(r2, []Record{r1, r2}, today))
}

func TestResolve_DateBoundaries(t *testing.T) {
	today := d(2024, time.March, 1)
	cases := []struct {
		due  calendar.Date
		want Status
	}{
		{today, StatusUpcoming},
		{today.AddDays(-1), StatusOverdue},
		{today.AddDays(UpcomingWindowDays), StatusUpcoming},
		{today.AddDays(UpcomingWindowDays + 1), StatusCurrent},
	}
	for _, c := range cases {
		due := c.due
		r := rec("r1", "V10", d(2023, time.March, 1), &due)
		assert.Equal(t, c.want, Resolve(r, []Record{r}, today), "due=%s", c.due)
	}
}

func TestResolve_DueBeforeApplied_DoesNotPanic(t *testing.T) {
	r := rec("r1", "V10", d(2024, time.June, 1), dp(2024, time.May, 1))
	assert.Equal(t, StatusOverdue, Resolve(r, []Record{r}, d(2024, time.June, 1)))

	res := ResolveAll([]Record{r}, d(2024, time.June, 1))
	assert.Equal(t, StatusOverdue, res[0].Status)
	assert.True(t, res[0].Inconsistent)
}

func TestResolve_Idempotent(t *testing.T) {
	history := randomHistory(rand.New(rand.NewSource(7)), 20)
	today := d(2024, time.September, 9)
	for _, r := range history {
		assert.Equal(t, Resolve(r, history, today), Resolve(r, history, today))
	}
}

// ResolveAll usa el índice ordenado; tiene que coincidir con Resolve registro a registro.
func TestResolveAll_MatchesResolve(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 200; round++ {
		history := randomHistory(rng, rng.Intn(15))
		today := d(2023, time.January, 1).AddDays(rng.Intn(1500))

		want := make([]Status, 0, len(history))
		for _, r := range history {
			want = append(want, Resolve(r, history, today))
		}

		got := make([]Status, 0, len(history))
		for _, res := range ResolveAll(history, today) {
			got = append(got, res.Status)
		}

		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("round %d: ResolveAll mismatch (-Resolve +ResolveAll):\n%s", round, diff)
		}
	}
}

func TestResolveAll_KeepsInputOrder(t *testing.T) {
	r1 := rec("b", "V10", d(2024, time.July, 1), nil)
	r2 := rec("a", "V10", d(2024, time.January, 1), nil)

	res := ResolveAll([]Record{r1, r2}, d(2024, time.August, 1))
	assert.Equal(t, "b", res[0].Record.ID)
	assert.Equal(t, "a", res[1].Record.ID)
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, SummaryNotVaccinated, Summarize(nil))
	assert.Equal(t, SummaryVaccinated, Summarize([]Resolution{{Status: StatusCurrent}, {Status: StatusUpcoming}}))
	assert.Equal(t, SummaryPending, Summarize([]Resolution{{Status: StatusVaccinated}, {Status: StatusOverdue}}))
}

func randomHistory(rng *rand.Rand, n int) []Record {
	types := []string{"V10", "Antirrábica", "Giárdia"}
	base := d(2022, time.January, 1)

	out := make([]Record, 0, n)
	for i := 0; i < n; i++ {
		applied := base.AddDays(rng.Intn(1200))
		var due *calendar.Date
		switch rng.Intn(4) {
		case 0:
			// sin refuerzo
		case 1:
			v := applied.AddDays(-rng.Intn(40)) // inconsistente a veces
			due = &v
		default:
			v := applied.AddMonths(6 + rng.Intn(7))
			due = &v
		}
		out = append(out, rec(fmt.Sprintf("r%d", i), types[rng.Intn(len(types))], applied, due))
	}
	return out
}

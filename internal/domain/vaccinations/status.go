package vaccinations

import (
	"sort"

	"pet-vaccination-history/internal/platform/calendar"
)

// UpcomingWindowDays: un refuerzo que vence entre hoy y hoy+30 (inclusive) es "upcoming".
const UpcomingWindowDays = 30

// Resolve calcula el estado de rec dentro del historial de la misma mascota.
// Es una función pura: no guarda nada y nunca falla.
//
// Orden de evaluación:
//  1. sin DueDate -> vaccinated
//  2. otra dosis del mismo tipo aplicada en (applied, due] -> vaccinated
//  3. due < hoy -> overdue; due <= hoy+30 -> upcoming; si no -> current
//
// La cobertura va antes que la fecha: una dosis posterior resuelve la obligación
// aunque el vencimiento original ya haya pasado.
func Resolve(rec Record, history []Record, today calendar.Date) Status {
	if rec.DueDate == nil {
		return StatusVaccinated
	}
	due := *rec.DueDate

	for _, other := range history {
		if other.ID == rec.ID || other.VaccineType != rec.VaccineType {
			continue
		}
		if other.AppliedDate.After(rec.AppliedDate) && !other.AppliedDate.After(due) {
			return StatusVaccinated
		}
	}

	return statusByDate(due, today)
}

// ResolveAll resuelve todo el historial en O(n log n) con un índice por tipo.
// Devuelve lo mismo que llamar Resolve por cada registro, en el mismo orden.
func ResolveAll(history []Record, today calendar.Date) []Resolution {
	idx := newCoverageIndex(history)

	out := make([]Resolution, 0, len(history))
	for _, rec := range history {
		res := Resolution{Record: rec, Status: StatusVaccinated}
		if rec.DueDate != nil {
			res.Inconsistent = rec.DueDate.Before(rec.AppliedDate)
			if !idx.covered(rec) {
				res.Status = statusByDate(*rec.DueDate, today)
			}
		}
		out = append(out, res)
	}
	return out
}

// Summarize agrega los estados por registro en el badge de la mascota.
func Summarize(resolutions []Resolution) Summary {
	if len(resolutions) == 0 {
		return SummaryNotVaccinated
	}
	for _, r := range resolutions {
		if r.Status == StatusOverdue {
			return SummaryPending
		}
	}
	return SummaryVaccinated
}

func statusByDate(due, today calendar.Date) Status {
	switch {
	case due.Before(today):
		return StatusOverdue
	case !due.After(today.AddDays(UpcomingWindowDays)):
		return StatusUpcoming
	default:
		return StatusCurrent
	}
}

type dose struct {
	applied calendar.Date
	id      string
}

// coverageIndex: por tipo de vacuna, las dosis ordenadas por fecha de aplicación.
type coverageIndex map[string][]dose

func newCoverageIndex(history []Record) coverageIndex {
	idx := coverageIndex{}
	for _, r := range history {
		idx[r.VaccineType] = append(idx[r.VaccineType], dose{applied: r.AppliedDate, id: r.ID})
	}
	for _, doses := range idx {
		sort.Slice(doses, func(i, j int) bool {
			return doses[i].applied.Before(doses[j].applied)
		})
	}
	return idx
}

func (idx coverageIndex) covered(rec Record) bool {
	doses := idx[rec.VaccineType]
	due := *rec.DueDate

	// primera dosis estrictamente posterior a la aplicación de rec
	i := sort.Search(len(doses), func(i int) bool {
		return doses[i].applied.After(rec.AppliedDate)
	})
	for ; i < len(doses) && !doses[i].applied.After(due); i++ {
		if doses[i].id != rec.ID {
			return true
		}
	}
	return false
}

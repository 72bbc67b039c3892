package vaccinations

import (
	"time"

	"pet-vaccination-history/internal/platform/calendar"
)

// Status es la etiqueta de cada registro frente a "hoy".
// @Enum vaccinated, overdue, upcoming, current
type Status string

const (
	// StatusVaccinated: no hay refuerzo pendiente (dosis única o cubierta por una dosis posterior).
	StatusVaccinated Status = "vaccinated"
	// StatusOverdue: la fecha de refuerzo ya pasó y nada la cubrió.
	StatusOverdue Status = "overdue"
	// StatusUpcoming: refuerzo dentro de los próximos 30 días (inclusive).
	StatusUpcoming Status = "upcoming"
	// StatusCurrent: refuerzo a más de 30 días.
	StatusCurrent Status = "current"
)

// Summary es el estado agregado de la mascota (badge del listado).
type Summary string

const (
	SummaryNotVaccinated Summary = "not_vaccinated"
	SummaryPending       Summary = "pending"
	SummaryVaccinated    Summary = "vaccinated"
)

// Record es una dosis aplicada. DueDate nil = no requiere refuerzo.
type Record struct {
	ID    string
	PetID string

	VaccineType string

	AppliedDate calendar.Date
	DueDate     *calendar.Date

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Resolution es el resultado de evaluar un registro contra el historial completo.
type Resolution struct {
	Record Record
	Status Status

	// Inconsistent marca due < applied (dato viejo). No altera Status.
	Inconsistent bool
}

// History es lo que se devuelve al cliente para una mascota.
type History struct {
	PetID       string
	Today       calendar.Date
	Summary     Summary
	Resolutions []Resolution
}

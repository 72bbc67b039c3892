package vaccinations

import (
	"context"
	"errors"
	"strings"
	"time"

	"pet-vaccination-history/internal/platform/calendar"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("vaccination not found")
	ErrAppliedInFuture  = errors.New("applied_date must not be after today")
	ErrDueBeforeApplied = errors.New("due_date must not be before applied_date")
)

// DueDateInput distingue "no enviado" (se sugiere), null (dosis única) y un valor explícito.
type DueDateInput struct {
	Present bool
	Value   *calendar.Date
}

type Service struct {
	repo    Repository
	advisor *ScheduleAdvisor
	metrics *Metrics
	loc     *time.Location
	now     func() time.Time
}

type Options struct {
	Policy   *PolicyTable
	Location *time.Location // zona para calcular "hoy"; nil = UTC
	Metrics  *Metrics       // opcional
}

func NewService(repo Repository, opts Options) *Service {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo:    repo,
		advisor: NewScheduleAdvisor(opts.Policy),
		metrics: opts.Metrics,
		loc:     loc,
		now:     time.Now,
	}
}

// Today es la fecha de calendario actual en la zona del servicio.
func (s *Service) Today() calendar.Date {
	return calendar.Today(s.now(), s.loc)
}

func (s *Service) Advisor() *ScheduleAdvisor {
	return s.advisor
}

type CreateInput struct {
	VaccineType string
	AppliedDate calendar.Date
	DueDate     DueDateInput
}

func (s *Service) Create(ctx context.Context, petID string, in CreateInput) (Record, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return Record{}, ErrInvalidInput
	}

	vaccineType, due, err := s.validate(in.VaccineType, in.AppliedDate, in.DueDate)
	if err != nil {
		return Record{}, err
	}

	now := s.now()
	r := Record{
		ID:          uuid.NewString(),
		PetID:       petID,
		VaccineType: vaccineType,
		AppliedDate: in.AppliedDate,
		DueDate:     due,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return Record{}, err
	}
	return r, nil
}

type UpdateInput struct {
	VaccineType string
	AppliedDate calendar.Date
	DueDate     DueDateInput
}

// Update reemplaza tipo/fechas. Los demás registros del historial no se tocan.
func (s *Service) Update(ctx context.Context, petID, id string, in UpdateInput) (Record, error) {
	current, err := s.GetForPet(ctx, petID, id)
	if err != nil {
		return Record{}, err
	}

	vaccineType, due, err := s.validate(in.VaccineType, in.AppliedDate, in.DueDate)
	if err != nil {
		return Record{}, err
	}

	current.VaccineType = vaccineType
	current.AppliedDate = in.AppliedDate
	current.DueDate = due
	current.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, current); err != nil {
		return Record{}, err
	}
	return current, nil
}

func (s *Service) Delete(ctx context.Context, petID, id string) error {
	if _, err := s.GetForPet(ctx, petID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// GetForPet trae el registro verificando que pertenezca a petID.
func (s *Service) GetForPet(ctx context.Context, petID, id string) (Record, error) {
	petID = strings.TrimSpace(petID)
	id = strings.TrimSpace(id)
	if petID == "" || id == "" {
		return Record{}, ErrInvalidInput
	}

	r, err := s.repo.GetByID(ctx, id)
	if err != nil || r.PetID != petID {
		return Record{}, ErrNotFound
	}
	return r, nil
}

func (s *Service) ListByPet(ctx context.Context, petID string) ([]Record, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByPet(ctx, petID)
}

// History resuelve el estado de cada registro de la mascota contra today.
// Se recalcula en cada llamada; no hay cache.
func (s *Service) History(ctx context.Context, petID string, today calendar.Date) (History, error) {
	items, err := s.ListByPet(ctx, petID)
	if err != nil {
		return History{}, err
	}

	resolutions := ResolveAll(items, today)
	s.metrics.observe(resolutions)

	return History{
		PetID:       petID,
		Today:       today,
		Summary:     Summarize(resolutions),
		Resolutions: resolutions,
	}, nil
}

// PurgePet borra todo el historial de una mascota (al borrar la mascota).
func (s *Service) PurgePet(ctx context.Context, petID string) error {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return ErrInvalidInput
	}
	return s.repo.DeleteByPet(ctx, petID)
}

// SuggestDueDate expone el advisor para pre-llenar el formulario.
func (s *Service) SuggestDueDate(applied calendar.Date, vaccineType string) calendar.Date {
	return s.advisor.SuggestDueDate(applied, strings.TrimSpace(vaccineType))
}

func (s *Service) validate(vaccineType string, applied calendar.Date, due DueDateInput) (string, *calendar.Date, error) {
	vaccineType = strings.TrimSpace(vaccineType)
	if vaccineType == "" || !applied.Valid() {
		return "", nil, ErrInvalidInput
	}
	if applied.After(s.Today()) {
		return "", nil, ErrAppliedInFuture
	}

	// no enviado -> sugerencia del advisor
	if !due.Present {
		v := s.advisor.SuggestDueDate(applied, vaccineType)
		return vaccineType, &v, nil
	}
	// null -> dosis única
	if due.Value == nil {
		return vaccineType, nil, nil
	}
	if !due.Value.Valid() {
		return "", nil, ErrInvalidInput
	}
	if due.Value.Before(applied) {
		return "", nil, ErrDueBeforeApplied
	}
	v := *due.Value
	return vaccineType, &v, nil
}

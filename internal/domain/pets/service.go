package pets

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"pet-vaccination-history/internal/platform/calendar"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("pet not found")
	ErrForbidden         = errors.New("forbidden")
	ErrSpeciesImmutable  = errors.New("species cannot be changed")
	ErrBirthDateInFuture = errors.New("birth_date must not be after today")
)

// PetCleanup lo implementa el módulo de vacunas; se llama después de borrar la mascota.
type PetCleanup interface {
	PurgePet(ctx context.Context, petID string) error
}

type Service struct {
	repo    Repository
	cleanup PetCleanup
	loc     *time.Location
	now     func() time.Time
}

// NewService: cleanup puede ser nil (tests, o sin historial asociado).
// loc es la zona para decidir "hoy" (la misma que usa vaccinations); nil = UTC.
func NewService(repo Repository, cleanup PetCleanup, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo:    repo,
		cleanup: cleanup,
		loc:     loc,
		now:     time.Now,
	}
}

type CreateInput struct {
	Name      string
	Species   string
	Breed     string
	Sex       string
	Size      string
	WeightKg  *float64
	BirthDate *calendar.Date
	Notes     string
	Traits    Traits
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Pet, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Pet{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return Pet{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	species, ok := ParseSpecies(strings.TrimSpace(in.Species))
	if !ok {
		return Pet{}, fmt.Errorf("%w: species must be dog, cat or bird", ErrInvalidInput)
	}
	sex, ok := parseSex(strings.TrimSpace(in.Sex))
	if !ok {
		return Pet{}, fmt.Errorf("%w: sex must be male, female or unknown", ErrInvalidInput)
	}
	size, ok := parseSize(strings.TrimSpace(in.Size))
	if !ok {
		return Pet{}, fmt.Errorf("%w: size must be small, medium or large", ErrInvalidInput)
	}
	if err := s.checkWeight(in.WeightKg); err != nil {
		return Pet{}, err
	}
	if err := s.checkBirthDate(in.BirthDate); err != nil {
		return Pet{}, err
	}

	traits := in.Traits
	if traits == (Traits{}) {
		traits = DefaultTraits(species)
	}
	if err := traits.Validate(species); err != nil {
		return Pet{}, err
	}

	now := s.now()
	p := Pet{
		ID:          uuid.NewString(),
		OwnerUserID: ownerUserID,
		Name:        strings.TrimSpace(in.Name),
		Species:     species,
		Breed:       strings.TrimSpace(in.Breed),
		Sex:         sex,
		Size:        size,
		WeightKg:    in.WeightKg,
		BirthDate:   in.BirthDate,
		Notes:       strings.TrimSpace(in.Notes),
		Traits:      traits,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Pet, error) {
	return s.repo.ListByOwner(ctx, ownerUserID)
}

// Optional distingue "no enviado" de null en un PATCH.
type Optional[T any] struct {
	Present bool
	Value   *T
}

type UpdateProfileInput struct {
	// nil = no tocar
	Name    *string
	Species *string
	Breed   *string
	Sex     *string
	Size    *string
	Notes   *string

	WeightKg  Optional[float64]
	BirthDate Optional[calendar.Date]
	Traits    *Traits
}

// UpdateProfile aplica un PATCH. Solo el dueño puede editar.
func (s *Service) UpdateProfile(ctx context.Context, petID, actorUserID string, in UpdateProfileInput) (Pet, error) {
	p, err := s.owned(ctx, petID, actorUserID)
	if err != nil {
		return Pet{}, err
	}

	if in.Species != nil && Species(strings.TrimSpace(*in.Species)) != p.Species {
		return Pet{}, ErrSpeciesImmutable
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Pet{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
		}
		p.Name = name
	}
	if in.Breed != nil {
		p.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.Sex != nil {
		sex, ok := parseSex(strings.TrimSpace(*in.Sex))
		if !ok {
			return Pet{}, fmt.Errorf("%w: sex must be male, female or unknown", ErrInvalidInput)
		}
		p.Sex = sex
	}
	if in.Size != nil {
		size, ok := parseSize(strings.TrimSpace(*in.Size))
		if !ok {
			return Pet{}, fmt.Errorf("%w: size must be small, medium or large", ErrInvalidInput)
		}
		p.Size = size
	}
	if in.Notes != nil {
		p.Notes = strings.TrimSpace(*in.Notes)
	}
	if in.WeightKg.Present {
		if err := s.checkWeight(in.WeightKg.Value); err != nil {
			return Pet{}, err
		}
		p.WeightKg = in.WeightKg.Value
	}
	if in.BirthDate.Present {
		if err := s.checkBirthDate(in.BirthDate.Value); err != nil {
			return Pet{}, err
		}
		p.BirthDate = in.BirthDate.Value
	}
	if in.Traits != nil {
		if err := in.Traits.Validate(p.Species); err != nil {
			return Pet{}, err
		}
		p.Traits = *in.Traits
	}

	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

// Delete borra la mascota y su historial de vacunas.
func (s *Service) Delete(ctx context.Context, petID, actorUserID string) error {
	if _, err := s.owned(ctx, petID, actorUserID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, petID); err != nil {
		return err
	}
	// Postgres y sqlite ya borran en cascada; memory depende de esta llamada.
	if s.cleanup != nil {
		if err := s.cleanup.PurgePet(ctx, petID); err != nil {
			return fmt.Errorf("purge vaccinations: %w", err)
		}
	}
	return nil
}

func (s *Service) owned(ctx context.Context, petID, actorUserID string) (Pet, error) {
	if strings.TrimSpace(petID) == "" || strings.TrimSpace(actorUserID) == "" {
		return Pet{}, ErrInvalidInput
	}
	p, err := s.repo.GetByID(ctx, petID)
	if err != nil {
		return Pet{}, err
	}
	if p.OwnerUserID != actorUserID {
		return Pet{}, ErrForbidden
	}
	return p, nil
}

func (s *Service) checkWeight(w *float64) error {
	if w == nil {
		return nil
	}
	if math.IsNaN(*w) || *w <= 0 || *w > 500 {
		return fmt.Errorf("%w: weight_kg must be between 0 and 500", ErrInvalidInput)
	}
	return nil
}

func (s *Service) checkBirthDate(d *calendar.Date) error {
	if d == nil {
		return nil
	}
	if !d.Valid() {
		return calendar.ErrInvalidDateFormat
	}
	if d.After(calendar.Today(s.now(), s.loc)) {
		return ErrBirthDateInFuture
	}
	return nil
}

package pets

import (
	"time"

	"pet-vaccination-history/internal/platform/calendar"
)

// Species define las especies soportadas. Se elige al crear y no cambia.
// @Enum dog, cat, bird
type Species string

const (
	SpeciesDog  Species = "dog"
	SpeciesCat  Species = "cat"
	SpeciesBird Species = "bird"
)

func ParseSpecies(s string) (Species, bool) {
	switch Species(s) {
	case SpeciesDog, SpeciesCat, SpeciesBird:
		return Species(s), true
	default:
		return "", false
	}
}

// Sex define el sexo de la mascota.
// @Enum male, female, unknown
type Sex string

const (
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
	SexUnknown Sex = "unknown"
)

func parseSex(s string) (Sex, bool) {
	switch Sex(s) {
	case "":
		return SexUnknown, true
	case SexMale, SexFemale, SexUnknown:
		return Sex(s), true
	default:
		return "", false
	}
}

// Size es el porte declarado por el dueño (opcional).
// @Enum small, medium, large
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

func parseSize(s string) (Size, bool) {
	switch Size(s) {
	case "", SizeSmall, SizeMedium, SizeLarge:
		return Size(s), true
	default:
		return "", false
	}
}

// Pet representa el perfil básico de una mascota registrada en el sistema.
type Pet struct {
	ID          string
	OwnerUserID string

	Name    string
	Species Species
	Breed   string
	Sex     Sex
	Size    Size

	WeightKg  *float64
	BirthDate *calendar.Date

	Notes string

	// Solo el bloque de la especie de la mascota está seteado.
	Traits Traits

	CreatedAt time.Time
	UpdatedAt time.Time
}

package pets

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrTraitsMismatch = errors.New("traits do not match species")

type CoatLength string

const (
	CoatShort  CoatLength = "short"
	CoatMedium CoatLength = "medium"
	CoatLong   CoatLength = "long"
)

type DogTraits struct {
	Tame        bool `json:"tame"`
	NeedsMuzzle bool `json:"needs_muzzle"`
}

type CatTraits struct {
	TrimmedClaws bool       `json:"trimmed_claws"`
	LikesWater   bool       `json:"likes_water"`
	CoatLength   CoatLength `json:"coat_length,omitempty"`
}

type BirdTraits struct {
	ClippedWings bool `json:"clipped_wings"`
	Caged        bool `json:"caged"`
	Exotic       bool `json:"exotic"`
}

// Traits es una unión: a lo sumo uno de los punteros es distinto de nil.
type Traits struct {
	Dog  *DogTraits
	Cat  *CatTraits
	Bird *BirdTraits
}

// DefaultTraits devuelve el bloque vacío de la especie.
func DefaultTraits(s Species) Traits {
	switch s {
	case SpeciesDog:
		return Traits{Dog: &DogTraits{}}
	case SpeciesCat:
		return Traits{Cat: &CatTraits{}}
	case SpeciesBird:
		return Traits{Bird: &BirdTraits{}}
	default:
		return Traits{}
	}
}

// Validate verifica que solo esté seteado el bloque de s.
func (t Traits) Validate(s Species) error {
	set := 0
	if t.Dog != nil {
		set++
		if s != SpeciesDog {
			return ErrTraitsMismatch
		}
	}
	if t.Cat != nil {
		set++
		if s != SpeciesCat {
			return ErrTraitsMismatch
		}
		switch t.Cat.CoatLength {
		case "", CoatShort, CoatMedium, CoatLong:
		default:
			return fmt.Errorf("%w: coat_length %q", ErrInvalidInput, t.Cat.CoatLength)
		}
	}
	if t.Bird != nil {
		set++
		if s != SpeciesBird {
			return ErrTraitsMismatch
		}
	}
	if set > 1 {
		return ErrTraitsMismatch
	}
	return nil
}

// MarshalFor serializa el bloque de la especie como objeto plano.
func (t Traits) MarshalFor(s Species) ([]byte, error) {
	if t == (Traits{}) {
		t = DefaultTraits(s)
	}
	switch s {
	case SpeciesDog:
		return json.Marshal(t.Dog)
	case SpeciesCat:
		return json.Marshal(t.Cat)
	case SpeciesBird:
		return json.Marshal(t.Bird)
	default:
		return nil, fmt.Errorf("%w: unknown species %q", ErrInvalidInput, s)
	}
}

// DecodeTraits lee un objeto plano con los rasgos de s.
// Un campo de otra especie es un error (ErrTraitsMismatch).
func DecodeTraits(s Species, raw []byte) (Traits, error) {
	if len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		return DefaultTraits(s), nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var (
		t   Traits
		err error
	)
	switch s {
	case SpeciesDog:
		t.Dog = &DogTraits{}
		err = dec.Decode(t.Dog)
	case SpeciesCat:
		t.Cat = &CatTraits{}
		err = dec.Decode(t.Cat)
	case SpeciesBird:
		t.Bird = &BirdTraits{}
		err = dec.Decode(t.Bird)
	default:
		return Traits{}, fmt.Errorf("%w: unknown species %q", ErrInvalidInput, s)
	}
	if err != nil {
		return Traits{}, fmt.Errorf("%w: %v", ErrTraitsMismatch, err)
	}
	if err := t.Validate(s); err != nil {
		return Traits{}, err
	}
	return t, nil
}

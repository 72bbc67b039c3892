package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"pet-vaccination-history/internal/domain/vaccinations"
)

// vaccinationRepo guarda el orden de inserción por mascota; ListByPet lo respeta.
type vaccinationRepo struct {
	mu    sync.RWMutex
	byID  map[string]vaccinations.Record
	byPet map[string][]string
}

func NewVaccinationRepo() vaccinations.Repository {
	return &vaccinationRepo{
		byID:  make(map[string]vaccinations.Record),
		byPet: make(map[string][]string),
	}
}

func (r *vaccinationRepo) Create(ctx context.Context, rec vaccinations.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(rec.ID) == "" || strings.TrimSpace(rec.PetID) == "" {
		return errors.New("vaccination id and pet id required")
	}
	if _, exists := r.byID[rec.ID]; exists {
		return errors.New("vaccination already exists")
	}

	r.byID[rec.ID] = cloneRecord(rec)
	r.byPet[rec.PetID] = append(r.byPet[rec.PetID], rec.ID)
	return nil
}

func (r *vaccinationRepo) Update(ctx context.Context, rec vaccinations.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[rec.ID]
	if !ok {
		return vaccinations.ErrNotFound
	}
	// la mascota no cambia
	rec.PetID = cur.PetID
	r.byID[rec.ID] = cloneRecord(rec)
	return nil
}

func (r *vaccinationRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byID[id]
	if !ok {
		return vaccinations.ErrNotFound
	}
	delete(r.byID, id)

	ids := r.byPet[rec.PetID]
	for i, v := range ids {
		if v == id {
			r.byPet[rec.PetID] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	if len(r.byPet[rec.PetID]) == 0 {
		delete(r.byPet, rec.PetID)
	}
	return nil
}

func (r *vaccinationRepo) GetByID(ctx context.Context, id string) (vaccinations.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byID[id]
	if !ok {
		return vaccinations.Record{}, vaccinations.ErrNotFound
	}
	return cloneRecord(rec), nil
}

func (r *vaccinationRepo) ListByPet(ctx context.Context, petID string) ([]vaccinations.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byPet[petID]
	out := make([]vaccinations.Record, 0, len(ids))
	for _, id := range ids {
		out = append(out, cloneRecord(r.byID[id]))
	}
	return out, nil
}

func (r *vaccinationRepo) DeleteByPet(ctx context.Context, petID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range r.byPet[petID] {
		delete(r.byID, id)
	}
	delete(r.byPet, petID)
	return nil
}

// cloneRecord copia DueDate para que nadie mute el estado guardado por puntero.
func cloneRecord(rec vaccinations.Record) vaccinations.Record {
	if rec.DueDate != nil {
		d := *rec.DueDate
		rec.DueDate = &d
	}
	return rec
}

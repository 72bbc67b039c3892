package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"pet-vaccination-history/internal/domain/pets"
)

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

const petColumns = `id, owner_user_id, name, species, breed, sex, size, weight_kg, birth_date, notes, traits, created_at, updated_at`

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	traits, err := p.Traits.MarshalFor(p.Species)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO pets (`+petColumns+`)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)
	`,
		p.ID, p.OwnerUserID, p.Name,
		string(p.Species), p.Breed, string(p.Sex), string(p.Size),
		nullFloat(p.WeightKg), nullDate(p.BirthDate), p.Notes, string(traits),
		timestamp(p.CreatedAt), timestamp(p.UpdatedAt),
	)
	return err
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	traits, err := p.Traits.MarshalFor(p.Species)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE pets
		SET name = ?, breed = ?, sex = ?, size = ?, weight_kg = ?,
		    birth_date = ?, notes = ?, traits = ?, updated_at = ?
		WHERE id = ?
	`,
		p.Name, p.Breed, string(p.Sex), string(p.Size), nullFloat(p.WeightKg),
		nullDate(p.BirthDate), p.Notes, string(traits), timestamp(p.UpdatedAt),
		p.ID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func (r *PetsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pets WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pets.Pet{}, pets.ErrNotFound
	}
	p, err := scanPet(r.db.QueryRowContext(ctx, `SELECT `+petColumns+` FROM pets WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return pets.Pet{}, pets.ErrNotFound
	}
	return p, err
}

func (r *PetsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]pets.Pet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+petColumns+`
		FROM pets
		WHERE owner_user_id = ?
		ORDER BY created_at ASC, id ASC
	`, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPet(s rowScanner) (pets.Pet, error) {
	var (
		p                  pets.Pet
		species, sex, size string
		weight             sql.NullFloat64
		bd                 sql.NullString
		traits             string
		created, updated   string
	)
	if err := s.Scan(
		&p.ID, &p.OwnerUserID, &p.Name,
		&species, &p.Breed, &sex, &size,
		&weight, &bd, &p.Notes, &traits,
		&created, &updated,
	); err != nil {
		return pets.Pet{}, err
	}

	p.Species = pets.Species(species)
	p.Sex = pets.Sex(sex)
	p.Size = pets.Size(size)
	if weight.Valid {
		w := weight.Float64
		p.WeightKg = &w
	}

	var err error
	if p.BirthDate, err = fromNullDate(bd); err != nil {
		return pets.Pet{}, err
	}
	if p.Traits, err = pets.DecodeTraits(p.Species, []byte(traits)); err != nil {
		return pets.Pet{}, err
	}
	if p.CreatedAt, err = parseTimestamp(created); err != nil {
		return pets.Pet{}, err
	}
	if p.UpdatedAt, err = parseTimestamp(updated); err != nil {
		return pets.Pet{}, err
	}
	return p, nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"pet-vaccination-history/internal/domain/vaccinations"
	"pet-vaccination-history/internal/platform/calendar"
)

type VaccinationsRepo struct {
	db *sql.DB
}

func NewVaccinationsRepo(db *sql.DB) *VaccinationsRepo {
	return &VaccinationsRepo{db: db}
}

const vaccinationColumns = `id, pet_id, vaccine_type, applied_date, due_date, created_at, updated_at`

func (r *VaccinationsRepo) Create(ctx context.Context, rec vaccinations.Record) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO vaccinations (`+vaccinationColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		rec.ID,
		rec.PetID,
		rec.VaccineType,
		dateValue(rec.AppliedDate),
		nullDate(rec.DueDate),
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	return err
}

func (r *VaccinationsRepo) Update(ctx context.Context, rec vaccinations.Record) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE vaccinations
		SET
			vaccine_type = $2,
			applied_date = $3,
			due_date = $4,
			updated_at = $5
		WHERE id = $1
	`,
		rec.ID,
		rec.VaccineType,
		dateValue(rec.AppliedDate),
		nullDate(rec.DueDate),
		rec.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return vaccinations.ErrNotFound
	}
	return nil
}

func (r *VaccinationsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM vaccinations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return vaccinations.ErrNotFound
	}
	return nil
}

func (r *VaccinationsRepo) GetByID(ctx context.Context, id string) (vaccinations.Record, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return vaccinations.Record{}, vaccinations.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+vaccinationColumns+` FROM vaccinations WHERE id = $1`, id)
	rec, err := scanVaccination(row)
	if errors.Is(err, sql.ErrNoRows) {
		return vaccinations.Record{}, vaccinations.ErrNotFound
	}
	return rec, err
}

// ListByPet ordena por seq: es el orden de inserción.
func (r *VaccinationsRepo) ListByPet(ctx context.Context, petID string) ([]vaccinations.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+vaccinationColumns+`
		FROM vaccinations
		WHERE pet_id = $1
		ORDER BY seq ASC
	`, petID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]vaccinations.Record, 0)
	for rows.Next() {
		rec, err := scanVaccination(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *VaccinationsRepo) DeleteByPet(ctx context.Context, petID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM vaccinations WHERE pet_id = $1`, petID)
	return err
}

func scanVaccination(s rowScanner) (vaccinations.Record, error) {
	var (
		rec     vaccinations.Record
		applied sql.NullTime
		due     sql.NullTime
	)
	if err := s.Scan(
		&rec.ID,
		&rec.PetID,
		&rec.VaccineType,
		&applied,
		&due,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		return vaccinations.Record{}, err
	}

	if applied.Valid {
		rec.AppliedDate = calendar.FromTime(applied.Time.UTC())
	}
	rec.DueDate = fromNullDate(due)
	return rec, nil
}

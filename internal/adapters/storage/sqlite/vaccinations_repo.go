package sqlite

import (
	"context"
	"database/sql"
	"errors"

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
		VALUES (?,?,?,?,?,?,?)
	`,
		rec.ID, rec.PetID, rec.VaccineType,
		rec.AppliedDate.ISO(), nullDate(rec.DueDate),
		timestamp(rec.CreatedAt), timestamp(rec.UpdatedAt),
	)
	return err
}

func (r *VaccinationsRepo) Update(ctx context.Context, rec vaccinations.Record) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE vaccinations
		SET vaccine_type = ?, applied_date = ?, due_date = ?, updated_at = ?
		WHERE id = ?
	`,
		rec.VaccineType, rec.AppliedDate.ISO(), nullDate(rec.DueDate), timestamp(rec.UpdatedAt),
		rec.ID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return vaccinations.ErrNotFound
	}
	return nil
}

func (r *VaccinationsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM vaccinations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return vaccinations.ErrNotFound
	}
	return nil
}

func (r *VaccinationsRepo) GetByID(ctx context.Context, id string) (vaccinations.Record, error) {
	rec, err := scanVaccination(r.db.QueryRowContext(ctx,
		`SELECT `+vaccinationColumns+` FROM vaccinations WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return vaccinations.Record{}, vaccinations.ErrNotFound
	}
	return rec, err
}

func (r *VaccinationsRepo) ListByPet(ctx context.Context, petID string) ([]vaccinations.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+vaccinationColumns+`
		FROM vaccinations
		WHERE pet_id = ?
		ORDER BY seq ASC
	`, petID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

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
	_, err := r.db.ExecContext(ctx, `DELETE FROM vaccinations WHERE pet_id = ?`, petID)
	return err
}

func scanVaccination(s rowScanner) (vaccinations.Record, error) {
	var (
		rec              vaccinations.Record
		applied          string
		due              sql.NullString
		created, updated string
	)
	if err := s.Scan(&rec.ID, &rec.PetID, &rec.VaccineType, &applied, &due, &created, &updated); err != nil {
		return vaccinations.Record{}, err
	}

	var err error
	if rec.AppliedDate, err = calendar.ParseISO(applied); err != nil {
		return vaccinations.Record{}, err
	}
	if rec.DueDate, err = fromNullDate(due); err != nil {
		return vaccinations.Record{}, err
	}
	if rec.CreatedAt, err = parseTimestamp(created); err != nil {
		return vaccinations.Record{}, err
	}
	if rec.UpdatedAt, err = parseTimestamp(updated); err != nil {
		return vaccinations.Record{}, err
	}
	return rec, nil
}

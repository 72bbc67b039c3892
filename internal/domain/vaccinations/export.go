package vaccinations

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	cardSheet       = "Vacunas"
)

var statusLabels = map[Status]string{
	StatusVaccinated: "Vacunado",
	StatusOverdue:    "Atrasada",
	StatusUpcoming:   "Próxima",
	StatusCurrent:    "Al día",
}

var summaryLabels = map[Summary]string{
	SummaryNotVaccinated: "Sin vacunas",
	SummaryPending:       "Vacunación pendiente",
	SummaryVaccinated:    "Vacunado",
}

// WriteCard escribe el carnet de vacunación como xlsx: una fila por dosis,
// fechas en DD/MM/YYYY y el estado calculado para h.Today.
func WriteCard(w io.Writer, h History) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", cardSheet); err != nil {
		return fmt.Errorf("export: rename sheet: %w", err)
	}

	header := []any{"Vacuna", "Aplicada", "Refuerzo", "Estado"}
	if err := f.SetSheetRow(cardSheet, "A1", &header); err != nil {
		return fmt.Errorf("export: header: %w", err)
	}

	row := 2
	for _, res := range h.Resolutions {
		due := ""
		if res.Record.DueDate != nil {
			due = res.Record.DueDate.Format()
		}
		values := []any{
			res.Record.VaccineType,
			res.Record.AppliedDate.Format(),
			due,
			statusLabels[res.Status],
		}

		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(cardSheet, cell, &values); err != nil {
			return fmt.Errorf("export: row %d: %w", row, err)
		}
		row++
	}

	// fila en blanco + resumen
	footer := []any{"Estado general", summaryLabels[h.Summary], "Fecha de referencia", h.Today.Format()}
	cell, err := excelize.CoordinatesToCellName(1, row+1)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(cardSheet, cell, &footer); err != nil {
		return fmt.Errorf("export: summary: %w", err)
	}

	if err := f.SetColWidth(cardSheet, "A", "D", 22); err != nil {
		return fmt.Errorf("export: widths: %w", err)
	}

	return f.Write(w)
}

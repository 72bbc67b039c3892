package vaccinations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pet-vaccination-history/internal/middleware"
	"pet-vaccination-history/internal/platform/calendar"
	"pet-vaccination-history/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// PetOwnerLookup evita importar el paquete pets.
type PetOwnerLookup interface {
	OwnerOf(ctx context.Context, petID string) (string, error)
}

func RegisterRoutes(r chi.Router, svc *Service, petOwners PetOwnerLookup, log logger.Logger) {
	h := &handlers{svc: svc, pets: petOwners, log: log.With(map[string]any{"module": "vaccinations"})}

	r.Route("/pets/{petID}/vaccinations", func(vr chi.Router) {
		vr.Post("/", h.create)
		vr.Get("/", h.list)
		vr.Get("/export", h.export)

		vr.Get("/{vaccinationID}", h.get)
		vr.Put("/{vaccinationID}", h.update)
		vr.Delete("/{vaccinationID}", h.delete)
	})

	// Sugerencia de refuerzo para pre-llenar el formulario (no persiste nada)
	r.Get("/vaccinations/suggest", h.suggest)
}

type handlers struct {
	svc  *Service
	pets PetOwnerLookup
	log  logger.Logger
}

// vaccinationRequest: due_date se lee aparte (ausente = sugerido, null = dosis única).
type vaccinationRequest struct {
	VaccineType string `json:"vaccine_type"`
	AppliedDate string `json:"applied_date"` // YYYY-MM-DD o DD/MM/YYYY
}

type vaccinationResponse struct {
	ID          string         `json:"id"`
	PetID       string         `json:"pet_id"`
	VaccineType string         `json:"vaccine_type"`
	AppliedDate calendar.Date  `json:"applied_date"`
	DueDate     *calendar.Date `json:"due_date"`

	// Formato de pantalla DD/MM/YYYY
	AppliedDateDisplay string `json:"applied_date_display"`
	DueDateDisplay     string `json:"due_date_display,omitempty"`

	Status       Status `json:"status,omitempty"`
	Inconsistent bool   `json:"inconsistent,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type historyResponse struct {
	PetID   string                `json:"pet_id"`
	Today   calendar.Date         `json:"today"`
	Summary Summary               `json:"summary"`
	Items   []vaccinationResponse `json:"items"`
}

type suggestResponse struct {
	VaccineType    string        `json:"vaccine_type"`
	AppliedDate    calendar.Date `json:"applied_date"`
	IntervalMonths int           `json:"interval_months"`
	DueDate        calendar.Date `json:"due_date"`
	DueDateDisplay string        `json:"due_date_display"`
	// false = tipo sin entrada en la tabla, se usó el intervalo por defecto
	KnownVaccine bool `json:"known_vaccine"`
}

// create godoc
// @Summary Registrar una vacuna
// @Description Registra una dosis aplicada. Si no se envía `due_date` se usa la fecha sugerida por la tabla de intervalos; `null` = dosis única.
// @Tags vaccinations
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param payload body vaccinationRequest true "vaccine_type, applied_date y due_date opcional"
// @Success 201 {object} vaccinationResponse
// @Failure 400 {string} string "invalid json / fechas inválidas"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID}/vaccinations [post]
func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
	petID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	req, due, err := decodeVaccinationRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	applied, err := calendar.ParseInput(req.AppliedDate)
	if err != nil {
		http.Error(w, "applied_date: "+err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := h.svc.Create(r.Context(), petID, CreateInput{
		VaccineType: req.VaccineType,
		AppliedDate: applied,
		DueDate:     due,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeResolved(w, r, http.StatusCreated, rec)
}

// list godoc
// @Summary Historial de vacunas con estado
// @Description Devuelve cada registro con su estado (vaccinated, overdue, upcoming, current) y el resumen de la mascota. `today` permite fijar la fecha de referencia.
// @Tags vaccinations
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param today query string false "Fecha de referencia (YYYY-MM-DD o DD/MM/YYYY)"
// @Success 200 {object} historyResponse
// @Failure 400 {string} string "today inválido"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID}/vaccinations [get]
func (h *handlers) list(w http.ResponseWriter, r *http.Request) {
	petID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	today, err := h.today(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	hist, err := h.svc.History(r.Context(), petID, today)
	if err != nil {
		h.writeError(w, err)
		return
	}

	out := historyResponse{
		PetID:   hist.PetID,
		Today:   hist.Today,
		Summary: hist.Summary,
		Items:   make([]vaccinationResponse, 0, len(hist.Resolutions)),
	}
	for _, res := range hist.Resolutions {
		out.Items = append(out.Items, toResolvedResponse(res))
	}

	writeJSON(w, http.StatusOK, out)
}

func (h *handlers) get(w http.ResponseWriter, r *http.Request) {
	petID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	rec, err := h.svc.GetForPet(r.Context(), petID, chi.URLParam(r, "vaccinationID"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeResolved(w, r, http.StatusOK, rec)
}

// update godoc
// @Summary Actualizar una vacuna
// @Tags vaccinations
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param vaccinationID path string true "ID del registro"
// @Param payload body vaccinationRequest true "Mismos campos que al crear"
// @Success 200 {object} vaccinationResponse
// @Router /pets/{petID}/vaccinations/{vaccinationID} [put]
func (h *handlers) update(w http.ResponseWriter, r *http.Request) {
	petID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	req, due, err := decodeVaccinationRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	applied, err := calendar.ParseInput(req.AppliedDate)
	if err != nil {
		http.Error(w, "applied_date: "+err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := h.svc.Update(r.Context(), petID, chi.URLParam(r, "vaccinationID"), UpdateInput{
		VaccineType: req.VaccineType,
		AppliedDate: applied,
		DueDate:     due,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeResolved(w, r, http.StatusOK, rec)
}

func (h *handlers) delete(w http.ResponseWriter, r *http.Request) {
	petID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), petID, chi.URLParam(r, "vaccinationID")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// export godoc
// @Summary Carnet de vacunación (xlsx)
// @Tags vaccinations
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param petID path string true "ID de la mascota"
// @Param today query string false "Fecha de referencia"
// @Success 200 {file} file
// @Router /pets/{petID}/vaccinations/export [get]
func (h *handlers) export(w http.ResponseWriter, r *http.Request) {
	petID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	today, err := h.today(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	hist, err := h.svc.History(r.Context(), petID, today)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="vacunas-%s.xlsx"`, petID))
	if err := WriteCard(w, hist); err != nil {
		// headers ya enviados; solo queda loguear
		h.log.Error("export failed", map[string]any{"pet_id": petID, "err": err.Error()})
	}
}

// suggest godoc
// @Summary Sugerir fecha de refuerzo
// @Description Calcula applied_date + intervalo del tipo de vacuna (meses de calendario, con ajuste a fin de mes). No guarda nada.
// @Tags vaccinations
// @Produce json
// @Param vaccine_type query string true "Tipo de vacuna"
// @Param applied_date query string true "Fecha de aplicación (YYYY-MM-DD o DD/MM/YYYY)"
// @Success 200 {object} suggestResponse
// @Failure 400 {string} string "parámetros inválidos"
// @Router /vaccinations/suggest [get]
func (h *handlers) suggest(w http.ResponseWriter, r *http.Request) {
	vaccineType := strings.TrimSpace(r.URL.Query().Get("vaccine_type"))
	if vaccineType == "" {
		http.Error(w, "vaccine_type required", http.StatusBadRequest)
		return
	}

	applied, err := calendar.ParseInput(r.URL.Query().Get("applied_date"))
	if err != nil {
		http.Error(w, "applied_date: "+err.Error(), http.StatusBadRequest)
		return
	}

	policy := h.svc.Advisor().Policy()
	due := h.svc.SuggestDueDate(applied, vaccineType)

	writeJSON(w, http.StatusOK, suggestResponse{
		VaccineType:    vaccineType,
		AppliedDate:    applied,
		IntervalMonths: policy.IntervalMonths(vaccineType),
		DueDate:        due,
		DueDateDisplay: due.Format(),
		KnownVaccine:   policy.Known(vaccineType),
	})
}

// authorize: por ahora solo el dueño opera sobre las vacunas de su mascota.
func (h *handlers) authorize(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return "", false
	}

	petID := chi.URLParam(r, "petID")
	ownerID, err := h.pets.OwnerOf(r.Context(), petID)
	if err != nil || strings.TrimSpace(ownerID) == "" {
		http.Error(w, "pet not found", http.StatusNotFound)
		return "", false
	}
	if ownerID != claims.UserID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return "", false
	}
	return petID, true
}

func (h *handlers) today(r *http.Request) (calendar.Date, error) {
	v := strings.TrimSpace(r.URL.Query().Get("today"))
	if v == "" {
		return h.svc.Today(), nil
	}
	d, err := calendar.ParseInput(v)
	if err != nil {
		return calendar.Date{}, fmt.Errorf("today: %w", err)
	}
	return d, nil
}

// writeResolved recalcula el historial después de una escritura y devuelve el registro con su estado.
func (h *handlers) writeResolved(w http.ResponseWriter, r *http.Request, status int, rec Record) {
	today, err := h.today(r)
	if err != nil {
		today = h.svc.Today()
	}

	hist, err := h.svc.History(r.Context(), rec.PetID, today)
	if err != nil {
		h.writeError(w, err)
		return
	}
	for _, res := range hist.Resolutions {
		if res.Record.ID == rec.ID {
			writeJSON(w, status, toResolvedResponse(res))
			return
		}
	}
	writeJSON(w, status, toResponse(rec))
}

func (h *handlers) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrAppliedInFuture),
		errors.Is(err, ErrDueBeforeApplied),
		errors.Is(err, calendar.ErrInvalidDateFormat):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "vaccination not found", http.StatusNotFound)
	default:
		h.log.Error("vaccinations: internal error", map[string]any{"err": err.Error()})
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func decodeVaccinationRequest(r *http.Request) (vaccinationRequest, DueDateInput, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return vaccinationRequest{}, DueDateInput{}, errors.New("invalid json")
	}

	var req vaccinationRequest
	for key, dst := range map[string]*string{
		"vaccine_type": &req.VaccineType,
		"applied_date": &req.AppliedDate,
	} {
		v, ok := raw[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(v, dst); err != nil {
			return vaccinationRequest{}, DueDateInput{}, fmt.Errorf("%s must be a string", key)
		}
	}

	// due_date: ausente / null / string
	due := DueDateInput{}
	if v, ok := raw["due_date"]; ok {
		due.Present = true
		if string(v) != "null" {
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				return vaccinationRequest{}, DueDateInput{}, errors.New("due_date must be a date string or null")
			}
			d, err := calendar.ParseInput(s)
			if err != nil {
				return vaccinationRequest{}, DueDateInput{}, fmt.Errorf("due_date: %w", err)
			}
			due.Value = &d
		}
	}

	return req, due, nil
}

func toResponse(rec Record) vaccinationResponse {
	out := vaccinationResponse{
		ID:                 rec.ID,
		PetID:              rec.PetID,
		VaccineType:        rec.VaccineType,
		AppliedDate:        rec.AppliedDate,
		DueDate:            rec.DueDate,
		AppliedDateDisplay: rec.AppliedDate.Format(),
		CreatedAt:          rec.CreatedAt,
		UpdatedAt:          rec.UpdatedAt,
	}
	if rec.DueDate != nil {
		out.DueDateDisplay = rec.DueDate.Format()
	}
	return out
}

func toResolvedResponse(res Resolution) vaccinationResponse {
	out := toResponse(res.Record)
	out.Status = res.Status
	out.Inconsistent = res.Inconsistent
	return out
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

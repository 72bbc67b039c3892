package pets

import (
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

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	log = log.With(map[string]any{"module": "pets"})

	r.Route("/pets", func(pr chi.Router) {
		pr.Post("/", createPetHandler(svc, log))
		pr.Get("/", listPetsHandler(svc, log))

		pr.Get("/{petID}", getPetHandler(svc))
		pr.Patch("/{petID}", updatePetHandler(svc, log))
		pr.Delete("/{petID}", deletePetHandler(svc, log))
	})
}

type createPetRequest struct {
	Name      string          `json:"name"`
	Species   string          `json:"species"` // dog, cat, bird
	Breed     string          `json:"breed"`
	Sex       string          `json:"sex"`
	Size      string          `json:"size"`
	WeightKg  *float64        `json:"weight_kg"`
	BirthDate string          `json:"birth_date"` // YYYY-MM-DD o DD/MM/YYYY, opcional
	Notes     string          `json:"notes"`
	Traits    json.RawMessage `json:"traits" swaggertype:"object"`
}

type petResponse struct {
	ID          string          `json:"id"`
	OwnerUserID string          `json:"owner_user_id"`
	Name        string          `json:"name"`
	Species     Species         `json:"species"`
	Breed       string          `json:"breed"`
	Sex         Sex             `json:"sex"`
	Size        Size            `json:"size,omitempty"`
	WeightKg    *float64        `json:"weight_kg,omitempty"`
	BirthDate   *calendar.Date  `json:"birth_date,omitempty"`
	Notes       string          `json:"notes"`
	Traits      json.RawMessage `json:"traits" swaggertype:"object"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// createPetHandler godoc
// @Summary Registrar mascota
// @Description La especie es obligatoria (dog, cat, bird) y define qué rasgos acepta `traits`.
// @Tags pets
// @Accept json
// @Produce json
// @Param payload body createPetRequest true "perfil de la mascota"
// @Success 201 {object} petResponse
// @Failure 400 {string} string "invalid input"
// @Failure 401 {string} string "unauthorized"
// @Router /pets [post]
func createPetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createPetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var bd *calendar.Date
		if strings.TrimSpace(req.BirthDate) != "" {
			d, err := calendar.ParseInput(req.BirthDate)
			if err != nil {
				http.Error(w, "birth_date: "+err.Error(), http.StatusBadRequest)
				return
			}
			bd = &d
		}

		species, ok := ParseSpecies(strings.TrimSpace(req.Species))
		if !ok {
			http.Error(w, "species must be dog, cat or bird", http.StatusBadRequest)
			return
		}
		traits, err := DecodeTraits(species, req.Traits)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		p, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Name:      req.Name,
			Species:   string(species),
			Breed:     req.Breed,
			Sex:       req.Sex,
			Size:      req.Size,
			WeightKg:  req.WeightKg,
			BirthDate: bd,
			Notes:     req.Notes,
			Traits:    traits,
		})
		if err != nil {
			writeError(w, log, err)
			return
		}

		writeJSON(w, http.StatusCreated, toPetResponse(p))
	}
}

// listPetsHandler godoc
// @Summary Mis mascotas
// @Tags pets
// @Produce json
// @Success 200 {array} petResponse
// @Failure 401 {string} string "unauthorized"
// @Router /pets [get]
func listPetsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByOwner(r.Context(), claims.UserID)
		if err != nil {
			writeError(w, log, err)
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// getPetHandler godoc
// @Summary Perfil de mascota
// @Tags pets
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} petResponse
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID} [get]
func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			http.Error(w, "pet not found", http.StatusNotFound)
			return
		}
		if p.OwnerUserID != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

// updatePetHandler godoc
// @Summary Editar perfil
// @Description PATCH: campos ausentes no se tocan; `birth_date` y `weight_kg` aceptan null para limpiar. La especie no se puede cambiar.
// @Tags pets
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} petResponse
// @Failure 400 {string} string "invalid input"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID} [patch]
func updatePetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		petID := chi.URLParam(r, "petID")
		current, err := svc.GetByID(r.Context(), petID)
		if err != nil {
			http.Error(w, "pet not found", http.StatusNotFound)
			return
		}
		if current.OwnerUserID != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		// Decodificar a map para detectar presencia de campos (null = limpiar).
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in, err := decodePatch(raw, current.Species)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		updated, err := svc.UpdateProfile(r.Context(), petID, claims.UserID, in)
		if err != nil {
			writeError(w, log, err)
			return
		}

		writeJSON(w, http.StatusOK, toPetResponse(updated))
	}
}

// deletePetHandler godoc
// @Summary Borrar mascota
// @Description Borra la mascota junto con su historial de vacunas.
// @Tags pets
// @Param petID path string true "ID de la mascota"
// @Success 204
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID} [delete]
func deletePetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "petID"), claims.UserID); err != nil {
			writeError(w, log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func decodePatch(raw map[string]json.RawMessage, species Species) (UpdateProfileInput, error) {
	var in UpdateProfileInput

	for key, dst := range map[string]**string{
		"name":    &in.Name,
		"species": &in.Species,
		"breed":   &in.Breed,
		"sex":     &in.Sex,
		"size":    &in.Size,
		"notes":   &in.Notes,
	} {
		v, ok := raw[key]
		if !ok || string(v) == "null" {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return UpdateProfileInput{}, fmt.Errorf("%s must be a string", key)
		}
		*dst = &s
	}

	if v, ok := raw["weight_kg"]; ok {
		in.WeightKg.Present = true
		if string(v) != "null" {
			var f float64
			if err := json.Unmarshal(v, &f); err != nil {
				return UpdateProfileInput{}, errors.New("weight_kg must be a number or null")
			}
			in.WeightKg.Value = &f
		}
	}

	if v, ok := raw["birth_date"]; ok {
		in.BirthDate.Present = true
		if string(v) != "null" {
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				return UpdateProfileInput{}, errors.New("birth_date must be a date string or null")
			}
			d, err := calendar.ParseInput(s)
			if err != nil {
				return UpdateProfileInput{}, fmt.Errorf("birth_date: %w", err)
			}
			in.BirthDate.Value = &d
		}
	}

	if v, ok := raw["traits"]; ok {
		t, err := DecodeTraits(species, v)
		if err != nil {
			return UpdateProfileInput{}, err
		}
		in.Traits = &t
	}

	return in, nil
}

func writeError(w http.ResponseWriter, log logger.Logger, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrTraitsMismatch),
		errors.Is(err, ErrSpeciesImmutable),
		errors.Is(err, ErrBirthDateInFuture),
		errors.Is(err, calendar.ErrInvalidDateFormat):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "pet not found", http.StatusNotFound)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	default:
		log.Error("pets: internal error", map[string]any{"err": err.Error()})
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toPetResponse(p Pet) petResponse {
	traits, err := p.Traits.MarshalFor(p.Species)
	if err != nil {
		traits = json.RawMessage("{}")
	}
	return petResponse{
		ID:          p.ID,
		OwnerUserID: p.OwnerUserID,
		Name:        p.Name,
		Species:     p.Species,
		Breed:       p.Breed,
		Sex:         p.Sex,
		Size:        p.Size,
		WeightKg:    p.WeightKg,
		BirthDate:   p.BirthDate,
		Notes:       p.Notes,
		Traits:      traits,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos (pets/vaccinations)
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

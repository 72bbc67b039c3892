package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pet-vaccination-history/internal/router"

	"github.com/xuri/excelize/v2"
)

type vaxItem struct {
	ID           string  `json:"id"`
	VaccineType  string  `json:"vaccine_type"`
	AppliedDate  string  `json:"applied_date"`
	DueDate      *string `json:"due_date"`
	DueDisplay   string  `json:"due_date_display"`
	Status       string  `json:"status"`
	Inconsistent bool    `json:"inconsistent"`
}

type history struct {
	PetID   string    `json:"pet_id"`
	Today   string    `json:"today"`
	Summary string    `json:"summary"`
	Items   []vaxItem `json:"items"`
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTP_EndToEnd_VaccinationStatuses(t *testing.T) {
	ts := newServer(t)
	ownerID := "owner-1"

	petID := createPet(t, ts.URL, ownerID, map[string]any{
		"name":    "Milo",
		"species": "dog",
		"breed":   "mixed",
		"sex":     "male",
		"traits":  map[string]any{"tame": true},
	})

	// Escenario A/B/C: un V10 con vencimiento 10/01/2025
	r1 := createVaccination(t, ts.URL, ownerID, petID, map[string]any{
		"vaccine_type": "V10",
		"applied_date": "10/01/2024",
		"due_date":     "2025-01-10",
	})

	for today, want := range map[string]string{
		"2024-06-01": "current",
		"2025-01-15": "overdue",
		"2024-12-20": "upcoming",
	} {
		h := getHistory(t, ts.URL, ownerID, petID, today)
		if len(h.Items) != 1 || h.Items[0].Status != want {
			t.Fatalf("today=%s: expected %s, got %+v", today, want, h.Items)
		}
	}

	if h := getHistory(t, ts.URL, ownerID, petID, "2025-01-15"); h.Summary != "pending" {
		t.Fatalf("expected summary pending with overdue record, got %s", h.Summary)
	}

	// Escenario D: una dosis posterior cubre la anterior
	r2 := createVaccination(t, ts.URL, ownerID, petID, map[string]any{
		"vaccine_type": "V10",
		"applied_date": "2024-07-01",
		"due_date":     "2025-07-01",
	})

	h := getHistory(t, ts.URL, ownerID, petID, "2025-08-01")
	statuses := map[string]string{}
	for _, it := range h.Items {
		statuses[it.ID] = it.Status
	}
	if statuses[r1] != "vaccinated" || statuses[r2] != "overdue" {
		t.Fatalf("scenario D: unexpected statuses %+v", statuses)
	}
	if h.Items[0].ID != r1 || h.Items[1].ID != r2 {
		t.Fatalf("expected insertion order, got %+v", h.Items)
	}

	// Dosis única (due_date null) siempre vaccinated
	st, body := doReq(t, ts.URL, "POST", "/pets/"+petID+"/vaccinations?today=2030-01-01", ownerID, map[string]any{
		"vaccine_type": "Antipulgas",
		"applied_date": "2024-02-01",
		"due_date":     nil,
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 single dose, got %d body=%s", st, string(body))
	}
	var single vaxItem
	_ = json.Unmarshal(body, &single)
	if single.DueDate != nil || single.Status != "vaccinated" {
		t.Fatalf("single dose: unexpected %+v", single)
	}
}

func TestHTTP_CreateSuggestsDueDateWhenAbsent(t *testing.T) {
	ts := newServer(t)
	petID := createPet(t, ts.URL, "u1", map[string]any{"name": "Michi", "species": "cat"})

	st, body := doReq(t, ts.URL, "POST", "/pets/"+petID+"/vaccinations", "u1", map[string]any{
		"vaccine_type": "Giárdia",
		"applied_date": "31082024",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", st, string(body))
	}

	var item vaxItem
	_ = json.Unmarshal(body, &item)
	if item.DueDate == nil || *item.DueDate != "2025-02-28" || item.DueDisplay != "28/02/2025" {
		t.Fatalf("expected suggested due 2025-02-28, got %+v", item)
	}
}

func TestHTTP_Suggest(t *testing.T) {
	ts := newServer(t)

	st, body := doReq(t, ts.URL, "GET", "/vaccinations/suggest?vaccine_type=gripe%20canina&applied_date=2024-08-31", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", st, string(body))
	}

	var out struct {
		DueDate        string `json:"due_date"`
		IntervalMonths int    `json:"interval_months"`
		KnownVaccine   bool   `json:"known_vaccine"`
	}
	_ = json.Unmarshal(body, &out)
	if out.DueDate != "2025-02-28" || out.IntervalMonths != 6 || !out.KnownVaccine {
		t.Fatalf("unexpected suggestion %+v", out)
	}

	st, _ = doReq(t, ts.URL, "GET", "/vaccinations/suggest?vaccine_type=V10&applied_date=31/02/2024", "", nil)
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 for impossible date, got %d", st)
	}
}

func TestHTTP_Validation(t *testing.T) {
	ts := newServer(t)
	petID := createPet(t, ts.URL, "u1", map[string]any{"name": "Piolín", "species": "bird"})

	cases := []map[string]any{
		{"vaccine_type": "", "applied_date": "2024-01-10"},
		{"vaccine_type": "V10", "applied_date": "2024-02-30"},
		{"vaccine_type": "V10", "applied_date": "2024-01-10", "due_date": "2023-12-31"},
		{"vaccine_type": "V10", "applied_date": "2999-01-01"},
		{"vaccine_type": "V10", "applied_date": "2024-01-10", "due_date": 12},
		{"vaccine_type": "V10", "applied_date": "01/02/20245"},
		{"vaccine_type": "V10", "applied_date": "0102abc2024"},
		{"vaccine_type": "V10", "applied_date": "2024-01-10", "due_date": "31/12/2024 99"},
	}
	for _, c := range cases {
		st, body := doReq(t, ts.URL, "POST", "/pets/"+petID+"/vaccinations", "u1", c)
		if st != http.StatusBadRequest {
			t.Fatalf("payload %v: expected 400, got %d body=%s", c, st, string(body))
		}
	}

	// Especie obligatoria y sin inferencia
	st, _ := doReq(t, ts.URL, "POST", "/pets", "u1", map[string]any{"name": "X"})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 without species, got %d", st)
	}
	st, _ = doReq(t, ts.URL, "POST", "/pets", "u1", map[string]any{
		"name": "X", "species": "cat", "traits": map[string]any{"needs_muzzle": true},
	})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 for dog traits on cat, got %d", st)
	}
}

func TestHTTP_AccessControl(t *testing.T) {
	ts := newServer(t)
	petID := createPet(t, ts.URL, "owner", map[string]any{"name": "Milo", "species": "dog"})
	vaxID := createVaccination(t, ts.URL, "owner", petID, map[string]any{
		"vaccine_type": "Raiva",
		"applied_date": "2024-03-01",
	})

	checks := []struct {
		method, path, user string
		want               int
	}{
		{"GET", "/pets/" + petID + "/vaccinations", "", http.StatusUnauthorized},
		{"GET", "/pets/" + petID + "/vaccinations", "stranger", http.StatusForbidden},
		{"GET", "/pets/missing/vaccinations", "owner", http.StatusNotFound},
		{"GET", "/pets/" + petID + "/vaccinations/" + vaxID, "stranger", http.StatusForbidden},
		{"GET", "/pets/" + petID + "/vaccinations/nope", "owner", http.StatusNotFound},
		{"GET", "/pets/" + petID, "stranger", http.StatusForbidden},
		{"DELETE", "/pets/" + petID, "stranger", http.StatusForbidden},
		{"GET", "/pets/" + petID + "/vaccinations/" + vaxID, "owner", http.StatusOK},
	}
	for _, c := range checks {
		st, body := doReq(t, ts.URL, c.method, c.path, c.user, nil)
		if st != c.want {
			t.Fatalf("%s %s as %q: expected %d, got %d body=%s", c.method, c.path, c.user, c.want, st, string(body))
		}
	}
}

func TestHTTP_UpdateDeleteAndPetRemoval(t *testing.T) {
	ts := newServer(t)
	petID := createPet(t, ts.URL, "u1", map[string]any{"name": "Milo", "species": "dog"})
	vaxID := createVaccination(t, ts.URL, "u1", petID, map[string]any{
		"vaccine_type": "V10",
		"applied_date": "2024-01-10",
		"due_date":     "2025-01-10",
	})

	// PUT sin due_date => se vuelve a sugerir a partir de la nueva fecha
	st, body := doReq(t, ts.URL, "PUT", "/pets/"+petID+"/vaccinations/"+vaxID, "u1", map[string]any{
		"vaccine_type": "V10",
		"applied_date": "2024-02-29",
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 update, got %d body=%s", st, string(body))
	}
	var item vaxItem
	_ = json.Unmarshal(body, &item)
	if item.DueDate == nil || *item.DueDate != "2025-02-28" {
		t.Fatalf("expected re-suggested due 2025-02-28, got %+v", item)
	}

	// PATCH del perfil: limpiar birth_date y cambiar rasgos
	st, body = doReq(t, ts.URL, "PATCH", "/pets/"+petID, "u1", map[string]any{
		"name":       "Milo II",
		"birth_date": nil,
		"traits":     map[string]any{"needs_muzzle": true},
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 patch, got %d body=%s", st, string(body))
	}
	if !strings.Contains(string(body), `"needs_muzzle":true`) {
		t.Fatalf("patch traits not applied: %s", string(body))
	}

	st, _ = doReq(t, ts.URL, "PATCH", "/pets/"+petID, "u1", map[string]any{"species": "cat"})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 changing species, got %d", st)
	}

	st, _ = doReq(t, ts.URL, "DELETE", "/pets/"+petID+"/vaccinations/"+vaxID, "u1", nil)
	if st != http.StatusNoContent {
		t.Fatalf("expected 204 delete vaccination, got %d", st)
	}
	if h := getHistory(t, ts.URL, "u1", petID, ""); h.Summary != "not_vaccinated" || len(h.Items) != 0 {
		t.Fatalf("expected empty history, got %+v", h)
	}

	createVaccination(t, ts.URL, "u1", petID, map[string]any{"vaccine_type": "V10", "applied_date": "2024-01-10"})
	st, _ = doReq(t, ts.URL, "DELETE", "/pets/"+petID, "u1", nil)
	if st != http.StatusNoContent {
		t.Fatalf("expected 204 delete pet, got %d", st)
	}
	st, _ = doReq(t, ts.URL, "GET", "/pets/"+petID+"/vaccinations", "u1", nil)
	if st != http.StatusNotFound {
		t.Fatalf("expected 404 after pet removal, got %d", st)
	}
}

func TestHTTP_ExportCard(t *testing.T) {
	ts := newServer(t)
	petID := createPet(t, ts.URL, "u1", map[string]any{"name": "Milo", "species": "dog"})
	createVaccination(t, ts.URL, "u1", petID, map[string]any{
		"vaccine_type": "V10",
		"applied_date": "2024-01-10",
		"due_date":     "2025-01-10",
	})

	st, body := doReq(t, ts.URL, "GET", "/pets/"+petID+"/vaccinations/export?today=2025-01-15", "u1", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 export, got %d body=%s", st, string(body))
	}

	f, err := excelize.OpenReader(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) < 2 || rows[1][0] != "V10" {
		t.Fatalf("unexpected card rows: %v", rows)
	}
}

func TestHTTP_HealthAndMetrics(t *testing.T) {
	ts := newServer(t)

	st, body := doReq(t, ts.URL, "GET", "/health", "", nil)
	if st != http.StatusOK || string(body) != "ok" {
		t.Fatalf("health: %d %s", st, string(body))
	}

	petID := createPet(t, ts.URL, "u1", map[string]any{"name": "Milo", "species": "dog"})
	createVaccination(t, ts.URL, "u1", petID, map[string]any{"vaccine_type": "V10", "applied_date": "2024-01-10"})
	getHistory(t, ts.URL, "u1", petID, "2030-01-01")

	st, body = doReq(t, ts.URL, "GET", "/metrics", "", nil)
	if st != http.StatusOK {
		t.Fatalf("metrics: %d", st)
	}
	if !strings.Contains(string(body), `pet_vaccination_status_total{status="overdue"}`) {
		t.Fatalf("expected overdue counter in metrics output")
	}
}

func createPet(t *testing.T, baseURL, userID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/pets", userID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create pet, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create pet: missing id body=%s", string(body))
	}
	return resp.ID
}

func createVaccination(t *testing.T, baseURL, userID, petID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/pets/"+petID+"/vaccinations", userID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create vaccination, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create vaccination: missing id body=%s", string(body))
	}
	return resp.ID
}

func getHistory(t *testing.T, baseURL, userID, petID, today string) history {
	t.Helper()

	path := "/pets/" + petID + "/vaccinations"
	if today != "" {
		path += "?today=" + today
	}
	st, body := doReq(t, baseURL, "GET", path, userID, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 history, got %d body=%s", st, string(body))
	}

	var h history
	if err := json.Unmarshal(body, &h); err != nil {
		t.Fatalf("history json: %v body=%s", err, string(body))
	}
	return h
}

func doReq(t *testing.T, baseURL, method, path, debugUserID string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}

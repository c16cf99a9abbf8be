// Package scenario serves the scenario store and the projection runner over HTTP.
package scenario

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"underwriting/pkg/core/calc"
	"underwriting/pkg/core/projection"
	"underwriting/pkg/core/store"
	"underwriting/pkg/core/utils"
	"underwriting/pkg/models"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

const maxBodyBytes = 1 << 20

// Handler holds dependencies for scenario endpoints.
type Handler struct {
	store  *store.ScenarioStore
	runner *projection.Runner
	log    logrus.FieldLogger
}

// NewHandler creates a new scenario handler.
func NewHandler(st *store.ScenarioStore, runner *projection.Runner, log logrus.FieldLogger) *Handler {
	return &Handler{store: st, runner: runner, log: log}
}

type activeRequest struct {
	ID string `json:"id"`
}

type calculatorInfo struct {
	Kind   calc.Kind        `json:"kind"`
	Params []calc.ParamSpec `json:"params"`
}

type calculatorResult struct {
	Kind  calc.Kind `json:"kind"`
	Value float64   `json:"value"`
}

// Register mounts every route on r.
func (h *Handler) Register(r *mux.Router) {
	r.Use(cors)
	r.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/scenarios", h.List).Methods(http.MethodGet)
	api.HandleFunc("/scenarios", h.Create).Methods(http.MethodPost)
	api.HandleFunc("/scenarios/active", h.GetActive).Methods(http.MethodGet)
	api.HandleFunc("/scenarios/active", h.SetActive).Methods(http.MethodPut)
	api.HandleFunc("/scenarios/{id}", h.Get).Methods(http.MethodGet)
	api.HandleFunc("/scenarios/{id}", h.Update).Methods(http.MethodPut)
	api.HandleFunc("/scenarios/{id}", h.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/scenarios/{id}/duplicate", h.Duplicate).Methods(http.MethodPost)
	api.HandleFunc("/scenarios/{id}/analysis", h.AnalyzeStored).Methods(http.MethodGet)
	api.HandleFunc("/analysis", h.AnalyzeAdHoc).Methods(http.MethodPost)
	api.HandleFunc("/calculators", h.Calculators).Methods(http.MethodGet)
	api.HandleFunc("/calculators/{kind}", h.Calculate).Methods(http.MethodPost)
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	sc, ok := h.decodeScenario(w, r)
	if !ok {
		return
	}
	saved, err := h.store.Update(r.Context(), sc)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	sc, err := h.store.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

// Update stores the body under the id in the path, inserting it if unknown.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	sc, ok := h.decodeScenario(w, r)
	if !ok {
		return
	}
	sc.ID = mux.Vars(r)["id"]
	saved, err := h.store.Update(r.Context(), sc)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Duplicate(w http.ResponseWriter, r *http.Request) {
	dup, err := h.store.Duplicate(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dup)
}

func (h *Handler) GetActive(w http.ResponseWriter, r *http.Request) {
	sc, err := h.store.GetActive(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

// SetActive moves the active pointer. Unlike the store, it rejects unknown ids.
func (h *Handler) SetActive(w http.ResponseWriter, r *http.Request) {
	var req activeRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil || req.ID == "" {
		writeError(w, http.StatusBadRequest, "body must be {\"id\": \"...\"}")
		return
	}
	sc, err := h.store.Get(r.Context(), req.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.store.SetActiveID(r.Context(), sc.ID); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

func (h *Handler) AnalyzeStored(w http.ResponseWriter, r *http.Request) {
	sc, err := h.store.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.analyze(sc, r))
}

// AnalyzeAdHoc analyzes the body without persisting it.
func (h *Handler) AnalyzeAdHoc(w http.ResponseWriter, r *http.Request) {
	sc, ok := h.decodeScenario(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.analyze(sc, r))
}

func (h *Handler) analyze(sc models.Scenario, r *http.Request) projection.Analysis {
	refi, _ := strconv.ParseBool(r.URL.Query().Get("refinance"))
	if refi {
		return h.runner.AnalyzeWithRefinance(sc)
	}
	return h.runner.Analyze(sc)
}

func (h *Handler) Calculators(w http.ResponseWriter, _ *http.Request) {
	kinds := calc.Kinds()
	out := make([]calculatorInfo, 0, len(kinds))
	for _, k := range kinds {
		params, _ := calc.Schema(k)
		out = append(out, calculatorInfo{Kind: k, Params: params})
	}
	writeJSON(w, http.StatusOK, out)
}

// Calculate runs one calculator; the body is a flat {"param": number} object.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var params map[string]float64
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, "invalid parameters: "+err.Error())
		return
	}
	kind := calc.Kind(mux.Vars(r)["kind"])
	c, err := calc.NewCalculator(kind, params)
	switch {
	case errors.Is(err, calc.ErrUnknownKind):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, calculatorResult{Kind: kind, Value: c.Compute()})
}

// decodeScenario accepts strict JSON and falls back to lenient parsing for
// hand-edited bodies.
func (h *Handler) decodeScenario(w http.ResponseWriter, r *http.Request) (models.Scenario, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return models.Scenario{}, false
	}
	var sc models.Scenario
	if _, err := utils.ParseDocument(string(body), &sc); err != nil {
		writeError(w, http.StatusBadRequest, "invalid scenario: "+err.Error())
		return models.Scenario{}, false
	}
	if sc.LoanType != "" && !sc.LoanType.Valid() {
		h.log.WithField("loan_type", sc.LoanType).Warn("unknown loan type, amortizing as fixed")
	}
	return sc, true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrScenarioNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	h.log.WithError(err).WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
	}).Error("request failed")
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/docker/go-units"
	"github.com/tphummel/lab_stock/internal/inventory"
	"github.com/tphummel/lab_stock/internal/metrics"
	"github.com/tphummel/lab_stock/internal/middleware"
	"github.com/tphummel/lab_stock/internal/models"
)

const maxBodyBytes = 64 * 1024

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	Store   *inventory.Store
	Logger  *slog.Logger
	Version string
	Commit  string
}

func (h *Handler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// resourceRequest is the body of create and update calls. Variant fields that
// do not apply to the kind are ignored.
type resourceRequest struct {
	Kind         string  `json:"kind"`
	Name         string  `json:"name"`
	Manufacturer string  `json:"manufacturer"`
	Cost         float64 `json:"cost"`
	Total        int     `json:"total"`
	Allocated    int     `json:"allocated"`
	Cores        int     `json:"cores"`
	Interface    string  `json:"interface"`
	Socket       string  `json:"socket"`
	PowerWatts   int     `json:"power_watts"`
	CapacityGB   int     `json:"capacity_gb"`
	Size         float64 `json:"size"`
	RPM          int     `json:"rpm"`
}

func (req *resourceRequest) spec(kind models.Kind) models.Spec {
	switch kind {
	case models.KindCPU:
		return models.CPUSpec{Cores: req.Cores, Interface: req.Interface, Socket: req.Socket, PowerWatts: req.PowerWatts}
	case models.KindHDD:
		return models.HDDSpec{Storage: models.Storage{CapacityGB: req.CapacityGB}, Size: req.Size, RPM: req.RPM}
	case models.KindSSD:
		return models.SSDSpec{Storage: models.Storage{CapacityGB: req.CapacityGB}, Interface: req.Interface}
	}
	return nil
}

type quantityRequest struct {
	N *int `json:"n"`
}

// resourceView is the JSON form of a stored resource. Variant fields are
// present only for the kinds that have them.
type resourceView struct {
	ID           string    `json:"id"`
	Kind         string    `json:"kind"`
	Name         string    `json:"name"`
	Manufacturer string    `json:"manufacturer"`
	Cost         float64   `json:"cost"`
	Total        int       `json:"total"`
	Allocated    int       `json:"allocated"`
	Available    int       `json:"available"`
	Cores        *int      `json:"cores,omitempty"`
	Interface    *string   `json:"interface,omitempty"`
	Socket       *string   `json:"socket,omitempty"`
	PowerWatts   *int      `json:"power_watts,omitempty"`
	CapacityGB   *int      `json:"capacity_gb,omitempty"`
	Capacity     string    `json:"capacity,omitempty"`
	Size         *float64  `json:"size,omitempty"`
	RPM          *int      `json:"rpm,omitempty"`
	Summary      string    `json:"summary"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func newView(it inventory.Item) resourceView {
	r := it.Resource
	v := resourceView{
		ID:           it.ID,
		Kind:         r.Category(),
		Name:         r.Name(),
		Manufacturer: r.Manufacturer(),
		Cost:         r.Cost(),
		Total:        r.Total(),
		Allocated:    r.Allocated(),
		Available:    r.Available(),
		Summary:      r.String(),
		CreatedAt:    it.CreatedAt,
		UpdatedAt:    it.UpdatedAt,
	}
	switch s := r.Spec().(type) {
	case models.CPUSpec:
		v.Cores, v.Interface, v.Socket, v.PowerWatts = &s.Cores, &s.Interface, &s.Socket, &s.PowerWatts
	case models.HDDSpec:
		v.Size, v.RPM = &s.Size, &s.RPM
	case models.SSDSpec:
		v.Interface = &s.Interface
	}
	if st, ok := r.Storage(); ok {
		v.CapacityGB = &st.CapacityGB
		v.Capacity = units.HumanSize(float64(st.CapacityGB) * 1e9)
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// errorStatus maps store and model errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, inventory.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidValue):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrInsufficientResources):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody reads a size-limited JSON body into v, writing the error
// response itself and returning false on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return false
	}
	return true
}

// Health handles GET /healthz; no auth required.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"version":   h.Version,
		"commit":    h.Commit,
		"resources": h.Store.Len(),
	})
}

// CreateResource handles POST /api/v1/resources.
func (h *Handler) CreateResource(w http.ResponseWriter, r *http.Request) {
	var req resourceRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Name == "" || req.Kind == "" || req.Manufacturer == "" {
		writeError(w, http.StatusBadRequest, "name, kind, and manufacturer are required")
		return
	}
	kind, err := models.ParseKind(req.Kind)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid kind")
		return
	}

	res, err := models.New(models.Base{
		Name:         req.Name,
		Manufacturer: req.Manufacturer,
		Cost:         req.Cost,
		Total:        req.Total,
		Allocated:    req.Allocated,
	}, req.spec(kind))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	it := h.Store.Add(res)
	h.logger().InfoContext(r.Context(), "resource created",
		"id", it.ID, "kind", kind.Category(), "request_id", middleware.RequestID(r.Context()))
	writeJSON(w, http.StatusCreated, newView(it))
}

// ListResources handles GET /api/v1/resources with an optional ?kind= filter.
func (h *Handler) ListResources(w http.ResponseWriter, r *http.Request) {
	var kind models.Kind
	if s := r.URL.Query().Get("kind"); s != "" {
		k, err := models.ParseKind(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid kind")
			return
		}
		kind = k
	}

	items := h.Store.List(kind)
	views := make([]resourceView, 0, len(items))
	for _, it := range items {
		views = append(views, newView(it))
	}
	writeJSON(w, http.StatusOK, views)
}

// GetResource handles GET /api/v1/resources/{id}.
func (h *Handler) GetResource(w http.ResponseWriter, r *http.Request) {
	it, err := h.Store.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, errorStatus(err), "resource not found")
		return
	}
	writeJSON(w, http.StatusOK, newView(it))
}

// UpdateResource handles PUT /api/v1/resources/{id}. It replaces the
// descriptive fields and variant attributes; unit counts only change through
// the quantity operations.
func (h *Handler) UpdateResource(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req resourceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" || req.Manufacturer == "" {
		writeError(w, http.StatusBadRequest, "name and manufacturer are required")
		return
	}

	it, err := h.Store.Update(id, func(res *models.Resource) error {
		kind := res.Kind()
		if req.Kind != "" && req.Kind != kind.Category() {
			return errKindChange
		}
		res.SetName(req.Name)
		res.SetManufacturer(req.Manufacturer)
		if err := res.SetCost(req.Cost); err != nil {
			return err
		}
		return res.SetSpec(req.spec(kind))
	})
	switch {
	case errors.Is(err, errKindChange):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, inventory.ErrNotFound):
		writeError(w, http.StatusNotFound, "resource not found")
		return
	case err != nil:
		writeError(w, errorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, newView(it))
}

var errKindChange = errors.New("kind cannot be changed")

// DeleteResource handles DELETE /api/v1/resources/{id}.
func (h *Handler) DeleteResource(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.Store.Delete(id); err != nil {
		writeError(w, errorStatus(err), "resource not found")
		return
	}
	h.logger().InfoContext(r.Context(), "resource deleted",
		"id", id, "request_id", middleware.RequestID(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

// ApplyOperation handles POST /api/v1/resources/{id}/{op}, where op is one of
// claim, feedup, died or purchased and the body is {"n": <quantity>}.
func (h *Handler) ApplyOperation(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	op, err := models.ParseOp(r.PathValue("op"))
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown operation")
		return
	}

	var req quantityRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.N == nil {
		writeError(w, http.StatusBadRequest, "n is required")
		return
	}

	it, err := h.Store.Apply(id, op, *req.N)
	metrics.ObserveOperation(op, err)
	if err != nil {
		status := errorStatus(err)
		h.logger().WarnContext(r.Context(), "operation rejected",
			"id", id, "op", string(op), "n", *req.N, "error", err,
			"request_id", middleware.RequestID(r.Context()))
		if status == http.StatusNotFound {
			writeError(w, status, "resource not found")
			return
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, newView(it))
}

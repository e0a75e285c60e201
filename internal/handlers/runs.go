package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/crucial707/asset-recon/internal/repo"
)

// RunsHandler serves the import run audit trail.
type RunsHandler struct {
	Runs *repo.RunRepo
}

func NewRunsHandler(runs *repo.RunRepo) *RunsHandler {
	return &RunsHandler{Runs: runs}
}

// List returns recent runs, newest first. Query params: limit (default 50,
// max 200) and offset.
func (h *RunsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	if limit > 200 {
		limit = 200
	}
	offset := queryInt(r, "offset", 0)

	runs, err := h.Runs.List(r.Context(), limit, offset)
	if err != nil {
		slog.Error("list import runs", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"runs": runs, "count": len(runs)})
}

func queryInt(r *http.Request, key string, fallback int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return fallback
}

package handler

import "net/http"

// HealthResponse is returned by GET /healthz
type HealthResponse struct {
	Status string `json:"status"`
}

// Health handles GET /healthz
// @Summary      Liveness probe
// @Tags         system
// @Produce      json
// @Success      200  {object}  handler.HealthResponse
// @Router       /healthz [get]
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, HealthResponse{Status: "ok"})
}

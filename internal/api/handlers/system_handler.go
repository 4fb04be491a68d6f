package handlers

import (
	"net/http"

	"github.com/notewise/notewise-be/internal/monitoring"
)

// SystemHandler exposes operational state of the process.
type SystemHandler struct {
	monitor *monitoring.Monitor
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(monitor *monitoring.Monitor) *SystemHandler {
	return &SystemHandler{monitor: monitor}
}

// Health reports the latest host resource snapshot.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, h.monitor.Snapshot())
}

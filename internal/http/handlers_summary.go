package http

import "net/http"

// handleSummary returns the per-category breakdown and grand total,
// recomputed from the full store contents on every request.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.svc.Summarize(r.Context())
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeData(w, http.StatusOK, toSummaryJSON(summary))
}

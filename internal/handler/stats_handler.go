package handler

import (
	"gradebook/internal/grading"
	"gradebook/internal/record"
	"gradebook/internal/service"
	"gradebook/internal/validate"
	"net/http"
)

type StatsHandler struct {
	statsService *service.StatsService
}

func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

type rankedStudent struct {
	*record.Student
	Average float64 `json:"average"`
	Letter  string  `json:"letter"`
}

func rank(students []*record.Student) []rankedStudent {
	out := make([]rankedStudent, 0, len(students))
	for _, s := range students {
		avg := grading.Average(s)
		out = append(out, rankedStudent{Student: s, Average: avg, Letter: grading.LetterFor(avg)})
	}
	return out
}

func (h *StatsHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.Statistics()
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// Top answers /stats/top?n=5. A missing n means 5; an explicit n must be a
// positive integer.
func (h *StatsHandler) Top(w http.ResponseWriter, r *http.Request) {
	n := 5
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := validate.Number("limit", raw)
		if err != nil {
			respondError(w, r, err)
			return
		}
		n = int(parsed)
		if float64(n) != parsed {
			n = 0
		}
	}
	top, err := h.statsService.Top(n)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"data": rank(top)})
}

// Below answers /stats/below?threshold=70; 70 is the default.
func (h *StatsHandler) Below(w http.ResponseWriter, r *http.Request) {
	threshold := 70.0
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		var err error
		if threshold, err = grading.ParseThreshold(raw); err != nil {
			respondError(w, r, err)
			return
		}
	}
	below, err := h.statsService.Below(threshold)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"data": rank(below)})
}

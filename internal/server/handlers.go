package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"
)

type HealthResponse struct {
	Status        string `json:"status"`
	Days          int    `json:"days"`
	DocumentBytes int    `json:"document_bytes"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:        "ok",
		Days:          s.days,
		DocumentBytes: len(s.doc),
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// handleData serves the dataset document for chart clients
func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(s.doc)))
	w.Header().Set("Cache-Control", "no-cache")

	if r.Method == http.MethodHead {
		return
	}
	w.Write(s.doc)
}

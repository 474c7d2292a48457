package handlers

import (
	"encoding/json"
	"log"
	"net/http"
)

// respondJSON writes a JSON body with the given status.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// respondWithError writes a JSON error body. When err is non-nil it is
// logged with logMsg; the client only ever sees userMsg.
func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		log.Printf("%s: %v", logMsg, err)
	}
	respondJSON(w, status, map[string]string{"error": userMsg})
}

// decodeBody parses a JSON request body into dst. Bodies are capped at
// 10 MiB to bound base64 audio payloads. Returns false after writing the
// error response.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 10<<20)).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body", "", err)
		return false
	}
	return true
}

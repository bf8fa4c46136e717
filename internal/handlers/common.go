package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

const requestTimeout = 10 * time.Second

// requestCtx bounds a handler's downstream calls so a stuck database never
// holds a connection open indefinitely.
func requestCtx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), requestTimeout)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

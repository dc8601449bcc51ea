package fakeapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ayushprajapati1403/OneFlow-sub001/pkg/api/client"
)

type envelope struct {
	Status  int           `json:"status"`
	Message string        `json:"message"`
	Data    any           `json:"data"`
	Pager   *client.Pager `json:"pager,omitempty"`
}

// writeJSON writes JSON response with status code.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeData wraps data in the OneFlow envelope.
func writeData(w http.ResponseWriter, status int, msg string, data any) {
	writeJSON(w, status, envelope{Status: status, Message: msg, Data: data})
}

// writeError sends an error message.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"status": status, "message": msg})
}

// writePage slices items by the limit and page query parameters.
func writePage[T any](w http.ResponseWriter, r *http.Request, msg string, items []T) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = len(items)
	}
	pager := &client.Pager{Page: page, Limit: limit, Total: len(items)}
	if limit > 0 {
		pager.TotalPages = (len(items) + limit - 1) / limit
	}
	start := (page - 1) * limit
	if start > len(items) {
		start = len(items)
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	out := items[start:end]
	if out == nil {
		out = []T{}
	}
	writeJSON(w, http.StatusOK, envelope{Status: http.StatusOK, Message: msg, Data: out, Pager: pager})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

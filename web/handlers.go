// Package web exposes the catalog and analytics HTTP services.
// Handlers decode a JSON body, run the request pipeline, and map outcomes
// to status codes: 400 with the violation list, 500 with an opaque body,
// 200 with the persisted record or listing.
package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopstream/shopstream/core/pipeline"
	"github.com/shopstream/shopstream/core/schema"
)

// errorBody is the 400 response envelope.
type errorBody struct {
	Errors []schema.Violation `json:"errors"`
}

// handleCreate runs the create pipeline for one resource.
func handleCreate(p *pipeline.Pipeline) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := decodeBody(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Errors: []schema.Violation{{
				Field:      "_body",
				Constraint: "json",
				Message:    "request body must be a JSON object",
			}}})
			return
		}

		record, violations, err := p.Create(r.Context(), raw)
		switch {
		case violations != nil:
			writeJSON(w, http.StatusBadRequest, errorBody{Errors: violations.Errors})
		case err != nil:
			// Store failures stay opaque to the client.
			respondServerError(w)
		default:
			writeJSON(w, http.StatusOK, record)
		}
	}
}

// handleList runs the list pipeline for one resource.
func handleList(p *pipeline.Pipeline) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := p.List(r.Context())
		if err != nil {
			respondServerError(w)
			return
		}
		if records == nil {
			records = []map[string]any{}
		}
		writeJSON(w, http.StatusOK, records)
	}
}

func decodeBody(r *http.Request) (map[string]any, error) {
	defer r.Body.Close()

	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errors.New("empty body")
	}
	return raw, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondServerError(w http.ResponseWriter) {
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

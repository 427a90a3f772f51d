package http

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/staffpulse/analytics-api/internal/handler/http/response"
	"github.com/staffpulse/analytics-api/internal/pkg/validator"
)

// urlID parses a positive id path parameter, answering 400 when it is malformed.
func urlID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "Invalid "+name, nil)
		return 0, false
	}
	return id, true
}

// queryInt returns fallback when the parameter is absent or not a positive number.
func queryInt(r *http.Request, name string, fallback int) int {
	value, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func queryFloat(r *http.Request, name string, fallback float64) float64 {
	value, err := strconv.ParseFloat(r.URL.Query().Get(name), 64)
	if err != nil || math.IsInf(value, 0) || math.IsNaN(value) || value <= 0 {
		return fallback
	}
	return value
}

func queryBool(r *http.Request, name string) bool {
	return strings.EqualFold(r.URL.Query().Get(name), "true")
}

// queryIDs parses a comma separated id list such as departments=1,2.
func queryIDs(w http.ResponseWriter, r *http.Request, name string) ([]int64, bool) {
	ids, err := validator.ParseIDList(r.URL.Query().Get(name))
	if err != nil {
		response.BadRequest(w, "Invalid "+name, nil)
		return nil, false
	}
	return ids, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}

// Package handlers provides HTTP request handlers for the conversion API
// endpoints: online ATC/NDC conversion, offline code lookup, health checks,
// and response formatting with input validation and error handling.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/codes"
	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/converter"
	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/data"
	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/logging"
	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/validation"
)

// ConversionService is the slice of the converter the HTTP handlers use.
// Conversions degrade softly: upstream failures yield records with empty
// target lists rather than errors.
type ConversionService interface {
	ATCToNDC(ctx context.Context, atcCode string, includeRelated bool) converter.ATCRecord
	NDCToATC(ctx context.Context, ndcCode string) converter.NDCRecord
}

// RespondWithJSON writes a JSON response
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	w.Write(body)
}

// RespondWithError writes a JSON error response
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, map[string]interface{}{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	})
}

// ConvertATC resolves an ATC code to its NDC codes through the terminology
// service. The related-concept walk is on by default and can be disabled
// with ?related=false.
func ConvertATC(svc ConversionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		if strings.TrimSpace(code) == "" {
			RespondWithError(w, http.StatusBadRequest, "Missing ATC code")
			return
		}
		if err := validation.ValidateCodeInput(code); err != nil {
			RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		includeRelated := r.URL.Query().Get("related") != "false"

		record := svc.ATCToNDC(r.Context(), code, includeRelated)
		RespondWithJSON(w, http.StatusOK, record)
	}
}

// ConvertNDC resolves an NDC code to its ATC classes through the
// terminology service.
func ConvertNDC(svc ConversionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		if strings.TrimSpace(code) == "" {
			RespondWithError(w, http.StatusBadRequest, "Missing NDC code")
			return
		}
		if err := validation.ValidateCodeInput(code); err != nil {
			RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		record := svc.NDCToATC(r.Context(), code)
		RespondWithJSON(w, http.StatusOK, record)
	}
}

// LookupCode resolves a code of either system against the offline tables.
func LookupCode(dataContainer *data.DataContainer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		if strings.TrimSpace(code) == "" {
			RespondWithError(w, http.StatusBadRequest, "Missing code")
			return
		}
		if err := validation.ValidateCodeInput(code); err != nil {
			RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		result, err := dataContainer.Dataset().Lookup(code)
		if err != nil {
			if errors.Is(err, codes.ErrIndeterminate) {
				RespondWithError(w, http.StatusBadRequest,
					fmt.Sprintf("Code %q is neither a valid ATC nor NDC code", code))
				return
			}
			logging.Error("Lookup failed", "code", code, "error", err)
			RespondWithError(w, http.StatusInternalServerError, "Lookup failed")
			return
		}

		// Absence is data: an unmatched code returns found=false, not an
		// error. The offline tables change only on rebuild, so their age is
		// the right Last-Modified value.
		if lastUpdate := dataContainer.GetLastUpdated(); !lastUpdate.IsZero() {
			w.Header().Set("Last-Modified", lastUpdate.UTC().Format(http.TimeFormat))
		}
		RespondWithJSON(w, http.StatusOK, result)
	}
}

// HealthResponse defines the structure for consistent JSON ordering
type HealthResponse struct {
	Status        string                 `json:"status"`
	LastUpdate    string                 `json:"last_update"`
	DataAgeHours  float64                `json:"data_age_hours"`
	UptimeSeconds float64                `json:"uptime_seconds"`
	Data          map[string]interface{} `json:"data"`
	System        map[string]interface{} `json:"system"`
}

// HealthCheck returns server health information
func HealthCheck(dataContainer *data.DataContainer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		uptime := time.Since(dataContainer.GetServerStartTime())

		atcTable := dataContainer.GetATCTable()
		ndcSimple := dataContainer.GetNDCSimple()
		lastUpdate := dataContainer.GetLastUpdated()
		isUpdating := dataContainer.IsUpdating()
		dataAge := time.Since(lastUpdate)

		// The dataset rebuilds once a day, so anything under two days old
		// is acceptable
		var healthStatus string
		var httpStatus int
		switch {
		case len(atcTable) == 0:
			healthStatus = "unhealthy"
			httpStatus = http.StatusServiceUnavailable
		case dataAge > 48*time.Hour:
			healthStatus = "degraded"
			httpStatus = http.StatusOK
		default:
			healthStatus = "healthy"
			httpStatus = http.StatusOK
		}

		response := HealthResponse{
			Status:        healthStatus,
			LastUpdate:    lastUpdate.Format(time.RFC3339),
			DataAgeHours:  dataAge.Hours(),
			UptimeSeconds: uptime.Seconds(),
			Data: map[string]interface{}{
				"api_version": "1.0",
				"atc_codes":   len(atcTable),
				"ndc_codes":   len(ndcSimple),
				"is_updating": isUpdating,
				"next_update": calculateNextUpdate().Format(time.RFC3339),
			},
			System: map[string]interface{}{
				"goroutines": runtime.NumGoroutine(),
				"memory": map[string]interface{}{
					"alloc_mb":       int(m.Alloc / 1024 / 1024),
					"total_alloc_mb": int(m.TotalAlloc / 1024 / 1024),
					"sys_mb":         int(m.Sys / 1024 / 1024),
					"num_gc":         m.NumGC,
				},
			},
		}

		RespondWithJSON(w, httpStatus, response)
	}
}

// calculateNextUpdate returns the next scheduled dataset rebuild, daily at
// 6:00 AM local time
func calculateNextUpdate() time.Time {
	now := time.Now()

	sixAM := time.Date(now.Year(), now.Month(), now.Day(), 6, 0, 0, 0, now.Location())
	if now.Before(sixAM) {
		return sixAM
	}

	tomorrow := now.AddDate(0, 0, 1)
	return time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 6, 0, 0, 0, tomorrow.Location())
}

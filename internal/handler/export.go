// Package handler: export.go implements GET /trips/{tripID}/export.
// Returns the trip's itinerary as a flat table.
// Supports ?format=csv (CSV) or default (JSON).
package handler

import (
	"bytes"
	"encoding/csv"
	"errors"
	"net/http"
	"strconv"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/tripplanner/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"trip_id", "trip_title",
	"section_order", "section_title", "section_start_date", "section_end_date", "section_budget",
	"activity_order", "activity_name", "category", "estimated_cost", "notes",
}

// ExportRow is the JSON representation of one itinerary export row.
type ExportRow struct {
	TripID           openapi_types.UUID `json:"trip_id"`
	TripTitle        string             `json:"trip_title"`
	SectionOrder     int                `json:"section_order"`
	SectionTitle     string             `json:"section_title"`
	SectionStartDate *string            `json:"section_start_date,omitempty"`
	SectionEndDate   *string            `json:"section_end_date,omitempty"`
	SectionBudget    *float64           `json:"section_budget,omitempty"`
	ActivityOrder    *int               `json:"activity_order,omitempty"`
	ActivityName     *string            `json:"activity_name,omitempty"`
	Category         *string            `json:"category,omitempty"`
	EstimatedCost    *float64           `json:"estimated_cost,omitempty"`
	Notes            *string            `json:"notes,omitempty"`
}

// GetExport handles GET /trips/{tripID}/export.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	tripID, ok := tripIDParam(w, r)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	if format != "" && format != "csv" && format != "json" {
		badParameter(w, "format must be csv or json")
		return
	}

	rows, err := s.export.Export(r.Context(), tripID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			notFound(w, "trip not found")
			return
		}
		internalError(w, r, err)
		return
	}

	if format == "csv" {
		writeCSV(w, rows)
		return
	}

	out := make([]ExportRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, domainRowToJSON(row))
	}
	writeJSON(w, http.StatusOK, out)
}

// writeCSV encodes rows as CSV with a header line.
func writeCSV(w http.ResponseWriter, rows []domain.ItineraryRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	cw.Write(csvHeaders)
	for _, row := range rows {
		//nolint:errcheck
		cw.Write(domainRowToCSVRecord(row))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="itinerary.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck
	w.Write(buf.Bytes())
}

// domainRowToJSON maps a domain.ItineraryRow to its JSON form.
// Fields that are empty strings become nil pointers (omitted in JSON).
func domainRowToJSON(r domain.ItineraryRow) ExportRow {
	return ExportRow{
		TripID:           r.TripID,
		TripTitle:        r.TripTitle,
		SectionOrder:     r.SectionOrder,
		SectionTitle:     r.SectionTitle,
		SectionStartDate: nonEmpty(r.SectionStartDate),
		SectionEndDate:   nonEmpty(r.SectionEndDate),
		SectionBudget:    r.SectionBudget,
		ActivityOrder:    r.ActivityOrder,
		ActivityName:     nonEmpty(r.ActivityName),
		Category:         nonEmpty(r.Category),
		EstimatedCost:    r.EstimatedCost,
		Notes:            nonEmpty(r.Notes),
	}
}

// domainRowToCSVRecord encodes a domain.ItineraryRow as a flat string slice.
// Nil numbers are encoded as empty strings.
func domainRowToCSVRecord(r domain.ItineraryRow) []string {
	return []string{
		r.TripID.String(),
		r.TripTitle,
		strconv.Itoa(r.SectionOrder),
		r.SectionTitle,
		r.SectionStartDate,
		r.SectionEndDate,
		formatOptionalFloat(r.SectionBudget),
		formatOptionalInt(r.ActivityOrder),
		r.ActivityName,
		r.Category,
		formatOptionalFloat(r.EstimatedCost),
		r.Notes,
	}
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func formatOptionalFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', 2, 64)
}

func formatOptionalInt(i *int) string {
	if i == nil {
		return ""
	}
	return strconv.Itoa(*i)
}

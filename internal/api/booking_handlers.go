package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"shareit/internal/export"
	"shareit/internal/metrics"
	"shareit/internal/models"
	"shareit/internal/service"

	"github.com/xuri/excelize/v2"
)

type createBookingRequest struct {
	ItemID int64     `json:"item_id"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

func (s *HTTPServer) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}

	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, "invalid JSON body")
		return
	}

	booking, err := s.bookings.Create(r.Context(), userID, req.ItemID, req.Start, req.End)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	metrics.IncBookingTransition(string(booking.Status))
	writeJSON(w, http.StatusCreated, booking)
}

func (s *HTTPServer) handleApproveBooking(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}
	bookingID, err := pathID(r, "bookingID")
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}

	rawApproved := r.URL.Query().Get("approved")
	if rawApproved != "true" && rawApproved != "false" {
		writeValidationError(w, "approved query parameter must be true or false")
		return
	}

	booking, err := s.bookings.SetApproved(r.Context(), userID, bookingID, rawApproved == "true")
	if err != nil {
		writeServiceError(w, err)
		return
	}

	metrics.IncBookingTransition(string(booking.Status))
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}
	bookingID, err := pathID(r, "bookingID")
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}

	booking, err := s.bookings.GetByID(r.Context(), userID, bookingID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleListBookings(w http.ResponseWriter, r *http.Request) {
	s.listBookings(w, r, service.RoleBooker)
}

func (s *HTTPServer) handleListOwnerBookings(w http.ResponseWriter, r *http.Request) {
	s.listBookings(w, r, service.RoleOwner)
}

func (s *HTTPServer) listBookings(w http.ResponseWriter, r *http.Request, role service.Role) {
	userID, err := callerID(r)
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}

	from, err := queryInt(r, "from", models.DefaultPageFrom)
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}
	size, err := queryInt(r, "size", models.DefaultPageSize)
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}

	bookings, err := s.bookings.List(r.Context(), userID, role, r.URL.Query().Get("state"), from, size)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

// handleExportBookings streams the caller's bookings as item owner in XLSX.
func (s *HTTPServer) handleExportBookings(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}

	bookings, err := s.bookings.List(r.Context(), userID, service.RoleOwner, string(service.StateAll), 0, int(^uint(0)>>1))
	if err != nil {
		// пустой отчёт — это нормально
		if service.KindOf(err) != service.KindNotFound {
			writeServiceError(w, err)
			return
		}
		bookings = nil
	}

	report, err := export.BookingsReport(bookings)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("export bookings error")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal", Message: "failed to build export"})
		return
	}

	s.saveExportCopy(report, userID)

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=bookings-%d.xlsx", userID))
	if err := report.Write(w); err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("write export error")
	}
}

// saveExportCopy keeps a copy of the report under the configured exports
// directory. Saving is best-effort, the response is streamed either way.
func (s *HTTPServer) saveExportCopy(report *excelize.File, userID int64) {
	if s.exportsDir == "" {
		return
	}
	if err := os.MkdirAll(s.exportsDir, 0o755); err != nil {
		s.logger.Warn().Err(err).Str("path", s.exportsDir).Msg("create exports dir error")
		return
	}
	filePath := filepath.Join(s.exportsDir, fmt.Sprintf("bookings-%d.xlsx", userID))
	if err := report.SaveAs(filePath); err != nil {
		s.logger.Warn().Err(err).Str("file_path", filePath).Msg("save export copy error")
		return
	}
	s.logger.Info().Str("file_path", filePath).Msg("export saved")
}

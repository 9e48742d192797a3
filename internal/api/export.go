package api

import (
	"context"
	"fmt"
	"net/http"

	"lendit/internal/domain"
	"lendit/internal/models"

	"github.com/xuri/excelize/v2"
)

// BookingExporter renders an owner's bookings as an xlsx workbook.
type BookingExporter struct {
	bookings domain.BookingService
}

func NewBookingExporter(bookings domain.BookingService) *BookingExporter {
	return &BookingExporter{bookings: bookings}
}

const exportSheet = "Bookings"

// Export builds a workbook for the owner's bookings in the given state.
// The page caps the export size; callers page through for more.
func (e *BookingExporter) Export(ctx context.Context, ownerID int64, state string, page models.Page) (*excelize.File, error) {
	bookings, err := e.bookings.ListBookingsForOwner(ctx, ownerID, state, page)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	index, err := f.NewSheet(exportSheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{"ID", "Item", "Booker", "Start", "End", "Status"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(exportSheet, cell, h)
	}

	for row, b := range bookings {
		values := []any{
			b.ID,
			b.ItemName,
			b.BookerID,
			b.Start.Format("2006-01-02 15:04"),
			b.End.Format("2006-01-02 15:04"),
			b.Status,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(exportSheet, cell, v)
		}
	}

	_ = f.SetColWidth(exportSheet, "B", "B", 25)
	_ = f.SetColWidth(exportSheet, "D", "E", 18)

	return f, nil
}

func (s *Server) handleExportBookings(w http.ResponseWriter, r *http.Request) {
	ownerID, err := sharerID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	page, err := parsePage(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	state := r.URL.Query().Get("state")
	if state == "" {
		state = "ALL"
	}

	f, err := s.exporter.Export(r.Context(), ownerID, state, page)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="bookings.xlsx"`)
	if err := f.Write(w); err != nil {
		s.logger.Error().Err(err).Msg("failed to stream export")
	}
}

package web

import (
	"fmt"
	"net/http"
	"time"

	"bookman/internal/models"

	"github.com/xuri/excelize/v2"
)

// handleAdminExport streams all bookings as an .xlsx workbook.
func (s *Server) handleAdminExport(w http.ResponseWriter, r *http.Request) {
	if !s.isAdmin(r) {
		http.Error(w, models.MsgUnauthorized, http.StatusForbidden)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	bookings, err := s.svc.List(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list bookings for export")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Bookings"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{"ID", "Name", "Email", "Date", "Time", "Service", "Created"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for row, b := range bookings {
		values := []any{
			b.ID, b.Name, b.Email, b.Date, b.Time, b.Service,
			b.CreatedAt.Format("2006-01-02 15:04"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	filename := fmt.Sprintf("bookings-%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := f.Write(w); err != nil {
		s.log.Error().Err(err).Msg("failed to write export")
	}
}

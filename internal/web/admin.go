package web

import (
	"errors"
	"net/http"
	"strconv"

	"bookman/internal/database"
	"bookman/internal/metrics"
	"bookman/internal/models"
	"bookman/internal/service"
)

type bookingRow struct {
	*models.Booking
	EditURL   string
	DeleteURL string
}

type listPageData struct {
	Notice    string
	Rows      []bookingRow
	BulkNonce string
}

// handleAdminBookings renders the booking list and processes bulk
// deletes. Non-admins get an empty 200, preserving the original's
// silent return.
func (s *Server) handleAdminBookings(w http.ResponseWriter, r *http.Request) {
	if !s.isAdmin(r) {
		w.WriteHeader(http.StatusOK)
		return
	}

	notice := ""
	if r.Method == http.MethodPost {
		done, deleted := s.processBulkDelete(w, r)
		if !done {
			return
		}
		if deleted {
			notice = models.MsgDeletedBulk
		}
	}

	s.renderList(w, r, notice)
}

// processBulkDelete handles a bulk-delete submission. It reports
// whether rendering should continue and whether anything was deleted.
func (s *Server) processBulkDelete(w http.ResponseWriter, r *http.Request) (ok, deleted bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, models.MsgInvalidRequest, http.StatusBadRequest)
		return false, false
	}

	if r.Form.Get("bm_bulk") == "" || len(r.Form["bm_bulk_ids"]) == 0 {
		return true, false
	}

	valid, err := s.nonces.Consume(r.Context(), models.NonceScopeBulk, r.Form.Get("bm_bulk_nonce"))
	if err != nil {
		s.log.Error().Err(err).Msg("nonce store error on bulk delete")
	}
	if !valid {
		http.Error(w, models.MsgInvalidRequest, http.StatusBadRequest)
		return false, false
	}

	var ids []int64
	for _, raw := range r.Form["bm_bulk_ids"] {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	count := s.svc.DeleteMany(r.Context(), ids)
	for i := 0; i < count; i++ {
		metrics.IncDeleted("bulk")
	}
	s.log.Info().Int("requested", len(ids)).Int("deleted", count).Msg("bulk delete processed")
	return true, true
}

func (s *Server) renderList(w http.ResponseWriter, r *http.Request, notice string) {
	bookings, err := s.svc.List(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list bookings")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	rows := make([]bookingRow, 0, len(bookings))
	for _, b := range bookings {
		token, err := s.nonces.Issue(r.Context(), models.DeleteNonceScope(b.ID))
		if err != nil {
			s.log.Error().Err(err).Int64("booking_id", b.ID).Msg("failed to issue delete nonce")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		rows = append(rows, bookingRow{
			Booking:   b,
			EditURL:   "/admin/bookings/edit?id=" + strconv.FormatInt(b.ID, 10),
			DeleteURL: "/admin/bookings/delete?booking_id=" + strconv.FormatInt(b.ID, 10) + "&nonce=" + token,
		})
	}

	bulkToken, err := s.nonces.Issue(r.Context(), models.NonceScopeBulk)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to issue bulk nonce")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	data := listPageData{Notice: notice, Rows: rows, BulkNonce: bulkToken}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "bookings.html", data); err != nil {
		s.log.Error().Err(err).Msg("failed to render booking list")
	}
}

// handleAdminDelete deletes a single record addressed by a per-id
// single-use nonce, then redirects back to the list.
func (s *Server) handleAdminDelete(w http.ResponseWriter, r *http.Request) {
	if !s.isAdmin(r) {
		http.Error(w, models.MsgUnauthorized, http.StatusForbidden)
		return
	}

	id, err := strconv.ParseInt(r.URL.Query().Get("booking_id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, models.MsgInvalidRequest, http.StatusBadRequest)
		return
	}

	valid, err := s.nonces.Consume(r.Context(), models.DeleteNonceScope(id), r.URL.Query().Get(models.FieldNonce))
	if err != nil {
		s.log.Error().Err(err).Msg("nonce store error on delete")
	}
	if !valid {
		http.Error(w, models.MsgInvalidRequest, http.StatusBadRequest)
		return
	}

	if err := s.svc.Delete(r.Context(), id); err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			s.log.Error().Err(err).Int64("booking_id", id).Msg("delete failed")
		}
		http.Error(w, models.MsgInvalidRequest, http.StatusBadRequest)
		return
	}

	metrics.IncDeleted("single")
	http.Redirect(w, r, "/admin/bookings", http.StatusSeeOther)
}

type editPageData struct {
	Booking *models.Booking
	Nonce   string
}

// handleAdminEdit shows and saves the five metadata fields of one
// record, recomputing the title on save.
func (s *Server) handleAdminEdit(w http.ResponseWriter, r *http.Request) {
	if !s.isAdmin(r) {
		http.Error(w, models.MsgUnauthorized, http.StatusForbidden)
		return
	}

	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, models.MsgInvalidRequest, http.StatusBadRequest)
		return
	}

	if r.Method == http.MethodPost {
		s.saveEdit(w, r, id)
		return
	}

	booking, err := s.svc.Get(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.log.Error().Err(err).Int64("booking_id", id).Msg("failed to load booking")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	token, err := s.nonces.Issue(r.Context(), models.EditNonceScope(id))
	if err != nil {
		s.log.Error().Err(err).Msg("failed to issue edit nonce")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "edit.html", editPageData{Booking: booking, Nonce: token}); err != nil {
		s.log.Error().Err(err).Msg("failed to render edit form")
	}
}

func (s *Server) saveEdit(w http.ResponseWriter, r *http.Request, id int64) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, models.MsgInvalidRequest, http.StatusBadRequest)
		return
	}

	valid, err := s.nonces.Consume(r.Context(), models.EditNonceScope(id), r.Form.Get(models.FieldNonce))
	if err != nil {
		s.log.Error().Err(err).Msg("nonce store error on edit")
	}
	if !valid {
		http.Error(w, models.MsgInvalidRequest, http.StatusBadRequest)
		return
	}

	sub := service.Submission{
		Name:    r.Form.Get(models.FieldName),
		Email:   r.Form.Get(models.FieldEmail),
		Date:    r.Form.Get(models.FieldDate),
		Time:    r.Form.Get(models.FieldTime),
		Service: r.Form.Get(models.FieldService),
	}

	if _, err := s.svc.Update(r.Context(), id, sub); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			http.Error(w, models.MsgInvalidRequest, http.StatusBadRequest)
			return
		}
		s.log.Error().Err(err).Int64("booking_id", id).Msg("edit save failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/admin/bookings", http.StatusSeeOther)
}

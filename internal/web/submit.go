package web

import (
	"errors"
	"net/http"
	"strings"

	"bookman/internal/metrics"
	"bookman/internal/models"
	"bookman/internal/service"
)

const maxSubmitFormSize = 1 << 20

// parseSubmitForm populates r.Form from either encoding the browser
// side produces: fetch with a FormData body arrives as multipart, a
// plain form post as urlencoded.
func parseSubmitForm(r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.ParseMultipartForm(maxSubmitFormSize)
	}
	return r.ParseForm()
}

// handleSubmit is the booking submission endpoint. It accepts a
// form-encoded POST and always answers with the JSON envelope. Each
// failure terminates the handler with no further side effects.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeFailure(w, http.StatusMethodNotAllowed, models.MsgInvalidRequest)
		return
	}

	if err := parseSubmitForm(r); err != nil {
		writeFailure(w, http.StatusBadRequest, models.MsgInvalidRequest)
		return
	}

	if r.Form.Get(models.FieldAction) != models.ActionSubmitBooking {
		writeFailure(w, http.StatusBadRequest, models.MsgInvalidRequest)
		return
	}

	ok, err := s.nonces.Consume(r.Context(), models.NonceScopeSubmit, r.Form.Get(models.FieldNonce))
	if err != nil {
		s.log.Error().Err(err).Msg("nonce store error on submit")
	}
	if !ok {
		metrics.IncSubmission(metrics.OutcomeInvalidNonce)
		writeFailure(w, http.StatusBadRequest, models.MsgInvalidNonce)
		return
	}

	sub := service.Submission{
		Name:    r.Form.Get(models.FieldName),
		Email:   r.Form.Get(models.FieldEmail),
		Date:    r.Form.Get(models.FieldDate),
		Time:    r.Form.Get(models.FieldTime),
		Service: r.Form.Get(models.FieldService),
	}

	booking, err := s.svc.Create(r.Context(), sub)
	if errors.Is(err, service.ErrMissingFields) {
		metrics.IncSubmission(metrics.OutcomeMissingField)
		// The consumed token is gone, so hand the client a fresh one
		// to resubmit with after correcting the fields.
		retry, nerr := s.nonces.Issue(r.Context(), models.NonceScopeSubmit)
		if nerr != nil {
			s.log.Error().Err(nerr).Msg("failed to reissue submit nonce")
		}
		writeJSON(w, http.StatusUnprocessableEntity, envelope{
			Success: false,
			Data:    envelopeData{Message: models.MsgMissingFields, Nonce: retry},
		})
		return
	}
	if err != nil {
		metrics.IncSubmission(metrics.OutcomeStorageError)
		s.log.Error().Err(err).Msg("booking creation failed")
		writeFailure(w, http.StatusInternalServerError, models.MsgCreateFailed)
		return
	}

	metrics.IncSubmission(metrics.OutcomeCreated)
	s.log.Info().Int64("booking_id", booking.ID).Msg("submission accepted")
	writeSuccess(w, models.MsgBookingCreated)
}

package web

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"bookman/internal/models"
	"bookman/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminRequest(method, target string, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("X-Admin-Token", testAdminToken)
	return req
}

func createBooking(t *testing.T, env *testEnv, name, date, timeOfDay string) *models.Booking {
	t.Helper()
	b, err := env.svc.Create(context.Background(), service.Submission{
		Name:    name,
		Email:   name + "@example.com",
		Date:    date,
		Time:    timeOfDay,
		Service: "Consult",
	})
	require.NoError(t, err)
	return b
}

func TestAdminListRequiresToken(t *testing.T) {
	env := newTestEnv(t)
	createBooking(t, env, "Ada", "2024-05-01", "14:00")

	req := httptest.NewRequest(http.MethodGet, "/admin/bookings", nil)
	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, req)

	// Non-admins get a 200 with no content, never the records.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestAdminListShowsBookings(t *testing.T) {
	env := newTestEnv(t)
	createBooking(t, env, "Ada", "2024-05-01", "14:00")
	createBooking(t, env, "Grace", "2024-05-02", "10:00")

	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, adminRequest(http.MethodGet, "/admin/bookings", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "ada@example.com")
	assert.Contains(t, body, "grace@example.com")
	assert.Contains(t, body, "/admin/bookings/delete?booking_id=")
	assert.Contains(t, body, "/admin/bookings/edit?id=")
}

func TestAdminSingleDelete(t *testing.T) {
	env := newTestEnv(t)
	b := createBooking(t, env, "Ada", "2024-05-01", "14:00")

	token, err := env.nonces.Issue(context.Background(), models.DeleteNonceScope(b.ID))
	require.NoError(t, err)

	target := fmt.Sprintf("/admin/bookings/delete?booking_id=%d&nonce=%s", b.ID, token)
	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, adminRequest(http.MethodGet, target, ""))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/bookings", rec.Header().Get("Location"))

	bookings, err := env.svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, bookings)

	// The nonce was consumed, so replaying the link fails.
	rec = httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, adminRequest(http.MethodGet, target, ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminDeleteRejectsNonAdmin(t *testing.T) {
	env := newTestEnv(t)
	b := createBooking(t, env, "Ada", "2024-05-01", "14:00")

	token, err := env.nonces.Issue(context.Background(), models.DeleteNonceScope(b.ID))
	require.NoError(t, err)

	target := fmt.Sprintf("/admin/bookings/delete?booking_id=%d&nonce=%s", b.ID, token)
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)

	bookings, err := env.svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
}

func TestAdminDeleteWrongScopeNonce(t *testing.T) {
	env := newTestEnv(t)
	first := createBooking(t, env, "Ada", "2024-05-01", "14:00")
	second := createBooking(t, env, "Grace", "2024-05-02", "10:00")

	// A nonce issued for one record must not delete another.
	token, err := env.nonces.Issue(context.Background(), models.DeleteNonceScope(first.ID))
	require.NoError(t, err)

	target := fmt.Sprintf("/admin/bookings/delete?booking_id=%d&nonce=%s", second.ID, token)
	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, adminRequest(http.MethodGet, target, ""))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	bookings, err := env.svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, bookings, 2)
}

func TestAdminBulkDelete(t *testing.T) {
	env := newTestEnv(t)
	first := createBooking(t, env, "Ada", "2024-05-01", "14:00")
	second := createBooking(t, env, "Grace", "2024-05-02", "10:00")
	kept := createBooking(t, env, "Edsger", "2024-05-03", "09:00")

	token, err := env.nonces.Issue(context.Background(), models.NonceScopeBulk)
	require.NoError(t, err)

	form := url.Values{
		"bm_bulk":       {"1"},
		"bm_bulk_nonce": {token},
		"bm_bulk_ids": {
			strconv.FormatInt(first.ID, 10),
			strconv.FormatInt(second.ID, 10),
		},
	}

	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, adminRequest(http.MethodPost, "/admin/bookings", form.Encode()))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), models.MsgDeletedBulk)

	bookings, err := env.svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, kept.ID, bookings[0].ID)
}

func TestAdminBulkDeleteInvalidNonce(t *testing.T) {
	env := newTestEnv(t)
	b := createBooking(t, env, "Ada", "2024-05-01", "14:00")

	form := url.Values{
		"bm_bulk":       {"1"},
		"bm_bulk_nonce": {"bogus"},
		"bm_bulk_ids":   {strconv.FormatInt(b.ID, 10)},
	}

	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, adminRequest(http.MethodPost, "/admin/bookings", form.Encode()))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	bookings, err := env.svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
}

func TestAdminBulkDeleteSkipsMissingIDs(t *testing.T) {
	env := newTestEnv(t)
	b := createBooking(t, env, "Ada", "2024-05-01", "14:00")

	token, err := env.nonces.Issue(context.Background(), models.NonceScopeBulk)
	require.NoError(t, err)

	form := url.Values{
		"bm_bulk":       {"1"},
		"bm_bulk_nonce": {token},
		"bm_bulk_ids":   {strconv.FormatInt(b.ID, 10), "9999"},
	}

	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, adminRequest(http.MethodPost, "/admin/bookings", form.Encode()))

	require.Equal(t, http.StatusOK, rec.Code)

	bookings, err := env.svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, bookings)
}

func TestAdminEditSavesFields(t *testing.T) {
	env := newTestEnv(t)
	b := createBooking(t, env, "Ada", "2024-05-01", "14:00")

	// The edit form shows current values and a fresh nonce.
	rec := httptest.NewRecorder()
	target := fmt.Sprintf("/admin/bookings/edit?id=%d", b.ID)
	env.server.Handler().ServeHTTP(rec, adminRequest(http.MethodGet, target, ""))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ada@example.com")

	token, err := env.nonces.Issue(context.Background(), models.EditNonceScope(b.ID))
	require.NoError(t, err)

	form := url.Values{
		models.FieldNonce:   {token},
		models.FieldName:    {"Grace"},
		models.FieldEmail:   {"grace@example.com"},
		models.FieldDate:    {"2024-06-02"},
		models.FieldTime:    {"09:30"},
		models.FieldService: {"Massage"},
	}

	rec = httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, adminRequest(http.MethodPost, target, form.Encode()))
	require.Equal(t, http.StatusSeeOther, rec.Code)

	got, err := env.svc.Get(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Grace", got.Name)
	assert.Equal(t, "Grace — 2024-06-02 09:30", got.Title)
}

func TestAdminEditMissingBooking(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, adminRequest(http.MethodGet, "/admin/bookings/edit?id=42", ""))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminExport(t *testing.T) {
	env := newTestEnv(t)
	createBooking(t, env, "Ada", "2024-05-01", "14:00")

	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, adminRequest(http.MethodGet, "/admin/bookings/export", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.NotZero(t, rec.Body.Len())
}

func TestAdminExportRejectsNonAdmin(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/bookings/export", nil)
	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/guestpass/guestpass/internal/models"
)

func registerBody(overrides map[string]any) []byte {
	payload := map[string]any{
		"fullName": "Maria Silva",
		"email":    "maria@x.com",
		"phone":    "21999999999",
		"state":    "RJ",
		"city":     "Rio de Janeiro",
	}
	for k, v := range overrides {
		payload[k] = v
	}
	body, _ := json.Marshal(payload)
	return body
}

func doRegister(t *testing.T, env *testEnv, body []byte) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/guests", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func TestRegisterEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := doRegister(t, env, registerBody(nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		OK                bool   `json:"ok"`
		AlreadyRegistered bool   `json:"alreadyRegistered"`
		GuestID           string `json:"guestId"`
		EmailSent         bool   `json:"emailSent"`
		Message           string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.OK)
	require.False(t, resp.AlreadyRegistered)
	require.NotEmpty(t, resp.GuestID)
	require.True(t, resp.EmailSent)

	// Submitting the same form again resolves to the same guest.
	rec = doRegister(t, env, registerBody(nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resubmit struct {
		OK                bool   `json:"ok"`
		AlreadyRegistered bool   `json:"alreadyRegistered"`
		GuestID           string `json:"guestId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resubmit))
	require.True(t, resubmit.OK)
	require.True(t, resubmit.AlreadyRegistered)
	require.Equal(t, resp.GuestID, resubmit.GuestID)
}

func TestRegisterEndpoint_BadRequests(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name string
		body []byte
	}{
		{"malformed json", []byte("{not json")},
		{"missing email", registerBody(map[string]any{"email": ""})},
		{"invalid email", registerBody(map[string]any{"email": "nope"})},
		{"short phone", registerBody(map[string]any{"phone": "123"})},
		{"unknown state", registerBody(map[string]any{"state": "ZZ"})},
		{"bad document type", registerBody(map[string]any{"documentType": "VISA"})},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRegister(t, env, tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var resp struct {
				OK      bool   `json:"ok"`
				Message string `json:"message"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.False(t, resp.OK)
			require.NotEmpty(t, resp.Message)
		})
	}
}

func TestQRImageEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := doRegister(t, env, registerBody(nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var created struct {
		GuestID string `json:"guestId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	req := httptest.NewRequest(http.MethodGet, "/api/guests/"+created.GuestID+"/qr", nil)
	qrRec := httptest.NewRecorder()
	env.router.ServeHTTP(qrRec, req)

	require.Equal(t, http.StatusOK, qrRec.Code)
	require.Equal(t, "image/png", qrRec.Header().Get("Content-Type"))
	require.Equal(t, "private, no-store", qrRec.Header().Get("Cache-Control"))
	require.Equal(t, []byte{0x89, 'P', 'N', 'G'}, qrRec.Body.Bytes()[:4])
}

func TestQRImageEndpoint_UnknownGuest(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/guests/missing/qr", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPassPage(t *testing.T) {
	env := newTestEnv(t)

	rec := doRegister(t, env, registerBody(nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var created struct {
		GuestID string `json:"guestId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	req := httptest.NewRequest(http.MethodGet, "/guests/"+created.GuestID+"/pass", nil)
	passRec := httptest.NewRecorder()
	env.router.ServeHTTP(passRec, req)

	require.Equal(t, http.StatusOK, passRec.Code)
	require.True(t, strings.HasPrefix(passRec.Header().Get("Content-Type"), "text/html"))
	require.Contains(t, passRec.Body.String(), "Maria Silva")
	require.Contains(t, passRec.Body.String(), "/api/guests/"+created.GuestID+"/qr")
}

func TestRevokeEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := doRegister(t, env, registerBody(nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var created struct {
		GuestID string `json:"guestId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	// Without the admin token the action is refused.
	req := httptest.NewRequest(http.MethodPost, "/api/guests/"+created.GuestID+"/revoke", nil)
	denyRec := httptest.NewRecorder()
	env.router.ServeHTTP(denyRec, req)
	require.Equal(t, http.StatusForbidden, denyRec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/guests/"+created.GuestID+"/revoke", nil)
	req.Header.Set(adminTokenHeader, testAdminToken)
	okRec := httptest.NewRecorder()
	env.router.ServeHTTP(okRec, req)
	require.Equal(t, http.StatusOK, okRec.Code)

	var resp struct {
		OK      bool   `json:"ok"`
		GuestID string `json:"guestId"`
		Status  string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(okRec.Body.Bytes(), &resp))
	require.True(t, resp.OK)
	require.Equal(t, created.GuestID, resp.GuestID)
	require.Equal(t, string(models.StatusRevoked), resp.Status)

	var stored models.GuestInvite
	require.NoError(t, env.db.First(&stored, "id = ?", created.GuestID).Error)
	require.Equal(t, models.StatusRevoked, stored.Status)
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"ok":true,"status":"ok"}`, rec.Body.String())
}

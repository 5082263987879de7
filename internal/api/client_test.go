package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestHeaders(t *testing.T) {
	var gotAuth, gotRequestID, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("x-auth-token")
		gotRequestID = r.Header.Get("X-Request-ID")
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, WithTokenSource(func() string { return "T1" }))

	_, err := client.Appointments(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "T1", gotAuth)
	assert.NotEmpty(t, gotRequestID, "every request must carry a correlation id")
	assert.Equal(t, "application/json", gotContentType)
}

func TestNoTokenNoHeader(t *testing.T) {
	var sawAuthHeader bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawAuthHeader = r.Header["X-Auth-Token"]
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, WithTokenSource(func() string { return "" }))

	_, err := client.Doctors(context.Background())
	require.NoError(t, err)
	assert.False(t, sawAuthHeader, "anonymous requests must not carry an auth header")
}

func TestUnauthorizedHookFiresOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "token expired"})
	}))
	defer srv.Close()

	fired := 0
	client := NewClient(srv.URL,
		WithTokenSource(func() string { return "T1" }),
		WithUnauthorizedHandler(func() { fired++ }),
	)

	_, err := client.Appointments(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, 1, fired, "hook must fire exactly once per 401")
}

func TestUnauthorizedHookSkippedWithoutToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	fired := 0
	client := NewClient(srv.URL,
		WithTokenSource(func() string { return "" }),
		WithUnauthorizedHandler(func() { fired++ }),
	)

	_, err := client.Doctors(context.Background())
	require.Error(t, err)
	assert.Zero(t, fired, "anonymous 401s carry no session to invalidate")
}

func TestUnauthorizedHookSkippedForAuthFlow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "invalid credentials"})
	}))
	defer srv.Close()

	fired := 0
	client := NewClient(srv.URL,
		// A stale token may still be attached while re-authenticating.
		WithTokenSource(func() string { return "stale" }),
		WithUnauthorizedHandler(func() { fired++ }),
	)

	_, err := client.Login(context.Background(), "a@b.com", "pw123456", RoleClient)
	require.Error(t, err)
	assert.Zero(t, fired, "login rejections are flow errors, not session expiry")
}

func TestErrorMessageDecoding(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"message field", http.StatusBadRequest, `{"message":"bad date"}`, "bad date"},
		{"error field", http.StatusBadRequest, `{"error":"bad slot"}`, "bad slot"},
		{"empty body", http.StatusInternalServerError, ``, "Internal Server Error"},
		{"non-json body", http.StatusBadGateway, `upstream down`, "upstream down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient(srv.URL)
			_, err := client.Appointments(context.Background())
			require.Error(t, err)

			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
		})
	}
}

func TestServerMessageFallback(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", WithTimeout(50*time.Millisecond))

	_, err := client.Appointments(context.Background())
	require.Error(t, err)

	msg := ServerMessage(err, "generic fallback")
	assert.Equal(t, "generic fallback", msg, "transport failures surface the fallback")
}

func TestContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Appointments(ctx)
	assert.Error(t, err)
}

func TestEndpointRouting(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name       string
		call       func(c *Client) error
		wantMethod string
		wantPath   string
		respond    string
	}{
		{
			"mark conversation read",
			func(c *Client) error { return c.MarkRead(ctx, 7, RoleDoctor) },
			http.MethodPut, "/messages/read", `{}`,
		},
		{
			"delete message",
			func(c *Client) error { return c.DeleteMessage(ctx, 9) },
			http.MethodDelete, "/messages/9", `{}`,
		},
		{
			"send appointment reminder",
			func(c *Client) error { return c.SendAppointmentReminder(ctx, 4) },
			http.MethodPost, "/notifications/appointments/4/send-reminder", `{}`,
		},
		{
			"add pharmacy",
			func(c *Client) error { _, err := c.AddPharmacy(ctx, Pharmacy{Name: "Central"}); return err },
			http.MethodPost, "/prescriptions/pharmacies", `{"id":1}`,
		},
		{
			"add consultation",
			func(c *Client) error { _, err := c.AddConsultation(ctx, 5, Consultation{}); return err },
			http.MethodPost, "/medical-records/5/consultations", `{"id":1}`,
		},
		{
			"update consultation",
			func(c *Client) error { return c.UpdateConsultation(ctx, 5, 2, Consultation{}) },
			http.MethodPut, "/medical-records/5/consultations/2", `{}`,
		},
		{
			"update medical record",
			func(c *Client) error { return c.UpdateMedicalRecord(ctx, 5, MedicalRecord{}) },
			http.MethodPut, "/medical-records/5", `{}`,
		},
		{
			"update condition",
			func(c *Client) error { return c.UpdateCondition(ctx, 5, 2, Condition{}) },
			http.MethodPut, "/medical-records/5/conditions/2", `{}`,
		},
		{
			"update appointment",
			func(c *Client) error { _, err := c.UpdateAppointment(ctx, 9, CreateAppointmentRequest{}); return err },
			http.MethodPut, "/appointments/9", `{"id":9}`,
		},
		{
			"update appointment price",
			func(c *Client) error { return c.UpdateAppointmentPrice(ctx, 9, 50) },
			http.MethodPut, "/appointments/9/price", `{}`,
		},
		{
			"list patients",
			func(c *Client) error { _, err := c.Clients(ctx); return err },
			http.MethodGet, "/clients", `[]`,
		},
		{
			"appointments for account",
			func(c *Client) error { _, err := c.AccountAppointments(ctx, RoleDoctor, 3); return err },
			http.MethodGet, "/doctors/3/appointments", `[]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotMethod, gotPath string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotMethod = r.Method
				gotPath = r.URL.Path
				w.Write([]byte(tt.respond))
			}))
			defer srv.Close()

			require.NoError(t, tt.call(NewClient(srv.URL)))
			assert.Equal(t, tt.wantMethod, gotMethod)
			assert.Equal(t, tt.wantPath, gotPath)
		})
	}
}

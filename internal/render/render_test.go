package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caresync/caresync/internal/api"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"json", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"yml", FormatYAML, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeJSON(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(&buf, FormatJSON, map[string]int{"id": 5})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id": 5}`, buf.String())
}

func TestEncodeYAML(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(&buf, FormatYAML, map[string]int{"id": 5})
	require.NoError(t, err)
	assert.Equal(t, "id: 5\n", buf.String())
}

func TestEncodeRejectsText(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Encode(&buf, FormatText, "hello"))
}

func TestAppointmentsViewerColumn(t *testing.T) {
	appointments := []api.Appointment{
		{ID: 1, Date: "2026-09-01 10:00", Status: "confirmed", DoctorName: "Dr. Who", ClientName: "Amy Pond"},
	}

	var asClient bytes.Buffer
	NewView(&asClient).Appointments(appointments, api.RoleClient)
	assert.Contains(t, asClient.String(), "Dr. Who")

	var asDoctor bytes.Buffer
	NewView(&asDoctor).Appointments(appointments, api.RoleDoctor)
	assert.Contains(t, asDoctor.String(), "Amy Pond")
}

func TestAppointmentsEmpty(t *testing.T) {
	var buf bytes.Buffer
	NewView(&buf).Appointments(nil, api.RoleClient)
	assert.Contains(t, buf.String(), "No appointments")
}

func TestProfileDoctorFields(t *testing.T) {
	var buf bytes.Buffer
	NewView(&buf).Profile(&api.User{
		Name:      "Curie",
		FirstName: "Marie",
		Role:      api.RoleDoctor,
		Specialty: "radiology",
	})

	out := buf.String()
	assert.Contains(t, out, "Marie Curie")
	assert.Contains(t, out, "radiology")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	long := strings.Repeat("a", 50)
	got := truncate(long, 10)
	assert.LessOrEqual(t, len(got), 10)
	assert.True(t, strings.HasSuffix(got, "..."))
}

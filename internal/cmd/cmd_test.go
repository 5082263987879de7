package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caresync/caresync/internal/api"
)

// TestRootSubcommands tests that the top-level commands are registered
func TestRootSubcommands(t *testing.T) {
	subcommands := map[string]bool{
		"login":         false,
		"register":      false,
		"mfa":           false,
		"logout":        false,
		"whoami":        false,
		"status":        false,
		"appointments":  false,
		"messages":      false,
		"prescriptions": false,
		"records":       false,
		"notifications": false,
		"profile":       false,
		"doctors":       false,
		"config":        false,
		"version":       false,
	}

	for _, cmd := range rootCmd.Commands() {
		if _, exists := subcommands[cmd.Name()]; exists {
			subcommands[cmd.Name()] = true
		}
	}

	for name, found := range subcommands {
		if !found {
			t.Errorf("subcommand '%s' not found on root command", name)
		}
	}
}

// TestLoginFlags tests that login has the credential flags
func TestLoginFlags(t *testing.T) {
	for _, name := range []string{"email", "password", "role", "code"} {
		if loginCmd.Flags().Lookup(name) == nil {
			t.Errorf("flag '%s' not found on login command", name)
		}
	}
}

// TestMFASubcommands tests that the mfa group is complete
func TestMFASubcommands(t *testing.T) {
	subcommands := map[string]bool{
		"verify":  false,
		"enable":  false,
		"disable": false,
		"logs":    false,
	}

	for _, cmd := range mfaCmd.Commands() {
		if _, exists := subcommands[cmd.Name()]; exists {
			subcommands[cmd.Name()] = true
		}
	}

	for name, found := range subcommands {
		if !found {
			t.Errorf("subcommand '%s' not found on mfa command", name)
		}
	}
}

func TestParseMedicationLine(t *testing.T) {
	tests := []struct {
		in      string
		want    api.MedicationLine
		wantErr bool
	}{
		{
			in:   "amoxicillin:500mg:3x daily:7 days",
			want: api.MedicationLine{Medication: "amoxicillin", Dosage: "500mg", Frequency: "3x daily", Duration: "7 days"},
		},
		{
			in:   "ibuprofen:200mg",
			want: api.MedicationLine{Medication: "ibuprofen", Dosage: "200mg"},
		},
		{
			in:   "paracetamol",
			want: api.MedicationLine{Medication: "paracetamol"},
		},
		{
			in:      ":500mg",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseMedicationLine(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCounterpartRole(t *testing.T) {
	assert.Equal(t, api.RoleClient, counterpartRole(api.RoleDoctor))
	assert.Equal(t, api.RoleDoctor, counterpartRole(api.RoleClient))
}

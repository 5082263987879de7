package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/caresync/caresync/internal/api"
	"github.com/caresync/caresync/internal/errors"
)

var prescriptionsCmd = &cobra.Command{
	Use:     "prescriptions",
	Aliases: []string{"rx"},
	Short:   "Manage prescriptions",
	Long: `List and manage prescriptions. Doctors can create them and send
them to a pharmacy.

Medication lines use the form "name:dosage:frequency:duration".

Examples:
  caresync prescriptions list
  caresync prescriptions show 12
  caresync prescriptions create --patient 5 --med "amoxicillin:500mg:3x daily:7 days"
  caresync prescriptions send 12 --pharmacy 3
  caresync prescriptions pharmacies`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var prescriptionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your prescriptions",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		s, err := a.requireAuth()
		if err != nil {
			return err
		}

		var prescriptions []api.Prescription
		if s.User.Role == api.RoleDoctor {
			prescriptions, err = a.client.DoctorPrescriptions(cmd.Context(), s.User.ID)
		} else {
			prescriptions, err = a.client.ClientPrescriptions(cmd.Context(), s.User.ID)
		}
		if err != nil {
			return err
		}

		return a.emit(cmd, prescriptions, func() {
			a.view.Prescriptions(prescriptions, s.User.Role)
		})
	},
}

var prescriptionsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a prescription with its medication lines",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		if _, err := a.requireAuth(); err != nil {
			return err
		}

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid prescription id: %s", args[0])
		}

		prescription, err := a.client.Prescription(cmd.Context(), id)
		if err != nil {
			return err
		}

		return a.emit(cmd, prescription, func() {
			a.view.PrescriptionDetail(prescription)
		})
	},
}

var prescriptionsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a prescription (doctors only)",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		s, err := a.requireAuth()
		if err != nil {
			return err
		}
		if s.User.Role != api.RoleDoctor {
			return errors.New(errors.ErrCodeAuthUnauthorized, "only doctors can create prescriptions")
		}

		patientID, _ := cmd.Flags().GetInt64("patient")
		notes, _ := cmd.Flags().GetString("notes")
		meds, _ := cmd.Flags().GetStringArray("med")
		if patientID == 0 || len(meds) == 0 {
			return fmt.Errorf("--patient and at least one --med are required")
		}

		medications := make([]api.MedicationLine, 0, len(meds))
		for _, med := range meds {
			line, err := parseMedicationLine(med)
			if err != nil {
				return err
			}
			medications = append(medications, line)
		}

		prescription, err := a.client.CreatePrescription(cmd.Context(), api.CreatePrescriptionRequest{
			ClientID:    patientID,
			Notes:       notes,
			Medications: medications,
		})
		if err != nil {
			return err
		}

		return a.emit(cmd, prescription, func() {
			a.view.Success(fmt.Sprintf("Prescription #%d created", prescription.ID))
		})
	},
}

// parseMedicationLine splits "name:dosage:frequency:duration"; the
// trailing parts are optional.
func parseMedicationLine(s string) (api.MedicationLine, error) {
	parts := strings.SplitN(s, ":", 4)
	if parts[0] == "" {
		return api.MedicationLine{}, fmt.Errorf("invalid medication line %q: name is required", s)
	}
	line := api.MedicationLine{Medication: parts[0]}
	if len(parts) > 1 {
		line.Dosage = parts[1]
	}
	if len(parts) > 2 {
		line.Frequency = parts[2]
	}
	if len(parts) > 3 {
		line.Duration = parts[3]
	}
	return line, nil
}

var prescriptionsSendCmd = &cobra.Command{
	Use:   "send <id>",
	Short: "Send a prescription to a pharmacy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		if _, err := a.requireAuth(); err != nil {
			return err
		}

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid prescription id: %s", args[0])
		}
		pharmacyID, _ := cmd.Flags().GetInt64("pharmacy")
		if pharmacyID == 0 {
			return fmt.Errorf("--pharmacy is required")
		}

		if err := a.client.SendPrescription(cmd.Context(), id, pharmacyID); err != nil {
			return err
		}

		a.view.Success(fmt.Sprintf("Prescription #%d sent to pharmacy #%d", id, pharmacyID))
		return nil
	},
}

var prescriptionsPharmaciesCmd = &cobra.Command{
	Use:   "pharmacies",
	Short: "List known pharmacies",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		if _, err := a.requireAuth(); err != nil {
			return err
		}

		pharmacies, err := a.client.Pharmacies(cmd.Context())
		if err != nil {
			return err
		}

		return a.emit(cmd, pharmacies, func() {
			if len(pharmacies) == 0 {
				a.view.Info("No pharmacies.")
				return
			}
			for _, p := range pharmacies {
				fmt.Fprintf(cmd.OutOrStdout(), "#%d  %s  %s  %s\n", p.ID, p.Name, p.Address, p.Phone)
			}
		})
	},
}

func init() {
	prescriptionsCreateCmd.Flags().Int64("patient", 0, "patient id")
	prescriptionsCreateCmd.Flags().String("notes", "", "notes for the patient")
	prescriptionsCreateCmd.Flags().StringArray("med", nil, "medication line (name:dosage:frequency:duration), repeatable")
	prescriptionsSendCmd.Flags().Int64("pharmacy", 0, "pharmacy id")

	prescriptionsCmd.AddCommand(prescriptionsListCmd)
	prescriptionsCmd.AddCommand(prescriptionsShowCmd)
	prescriptionsCmd.AddCommand(prescriptionsCreateCmd)
	prescriptionsCmd.AddCommand(prescriptionsSendCmd)
	prescriptionsCmd.AddCommand(prescriptionsPharmaciesCmd)
	rootCmd.AddCommand(prescriptionsCmd)
}

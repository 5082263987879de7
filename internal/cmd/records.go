package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/caresync/caresync/internal/api"
	"github.com/caresync/caresync/internal/errors"
	"github.com/caresync/caresync/internal/session"
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "View and maintain medical records",
	Long: `View a medical record and maintain its allergies and conditions.
Patients see their own record; doctors pass --patient.

Examples:
  caresync records show
  caresync records show --patient 5
  caresync records allergy add "penicillin" --severity high --patient 5
  caresync records allergy remove 3 --patient 5
  caresync records logs --patient 5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// recordPatientID resolves which patient's record a records subcommand
// targets: patients always their own, doctors whoever --patient names.
func recordPatientID(cmd *cobra.Command, s session.Session) (int64, error) {
	patientID, _ := cmd.Flags().GetInt64("patient")
	if s.User.Role == api.RoleClient {
		if patientID != 0 && patientID != s.User.ID {
			return 0, errors.New(errors.ErrCodeAuthUnauthorized, "patients can only access their own record")
		}
		return s.User.ID, nil
	}
	if patientID == 0 {
		return 0, fmt.Errorf("--patient is required for doctor accounts")
	}
	return patientID, nil
}

var recordsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a medical record",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		s, err := a.requireAuth()
		if err != nil {
			return err
		}

		patientID, err := recordPatientID(cmd, s)
		if err != nil {
			return err
		}

		record, err := a.client.MedicalRecord(cmd.Context(), patientID)
		if err != nil {
			return err
		}

		return a.emit(cmd, record, func() {
			a.view.MedicalRecord(record)
		})
	},
}

var recordsAllergyCmd = &cobra.Command{
	Use:   "allergy",
	Short: "Maintain the allergy list",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var recordsAllergyAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add an allergy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		s, err := a.requireAuth()
		if err != nil {
			return err
		}

		patientID, err := recordPatientID(cmd, s)
		if err != nil {
			return err
		}
		severity, _ := cmd.Flags().GetString("severity")
		notes, _ := cmd.Flags().GetString("notes")

		allergy, err := a.client.AddAllergy(cmd.Context(), patientID, api.Allergy{
			Name:     args[0],
			Severity: severity,
			Notes:    notes,
		})
		if err != nil {
			return err
		}

		a.view.Success(fmt.Sprintf("Allergy #%d recorded", allergy.ID))
		return nil
	},
}

var recordsAllergyRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove an allergy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		s, err := a.requireAuth()
		if err != nil {
			return err
		}

		patientID, err := recordPatientID(cmd, s)
		if err != nil {
			return err
		}
		allergyID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid allergy id: %s", args[0])
		}

		if err := a.client.RemoveAllergy(cmd.Context(), patientID, allergyID); err != nil {
			return err
		}

		a.view.Success("Allergy removed")
		return nil
	},
}

var recordsConditionCmd = &cobra.Command{
	Use:   "condition",
	Short: "Maintain the condition list",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var recordsConditionAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a condition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		s, err := a.requireAuth()
		if err != nil {
			return err
		}

		patientID, err := recordPatientID(cmd, s)
		if err != nil {
			return err
		}
		diagnosed, _ := cmd.Flags().GetString("diagnosed")
		status, _ := cmd.Flags().GetString("status")
		notes, _ := cmd.Flags().GetString("notes")

		condition, err := a.client.AddCondition(cmd.Context(), patientID, api.Condition{
			Name:          args[0],
			DiagnosisDate: diagnosed,
			Status:        status,
			Notes:         notes,
		})
		if err != nil {
			return err
		}

		a.view.Success(fmt.Sprintf("Condition #%d recorded", condition.ID))
		return nil
	},
}

var recordsConditionRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a condition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		s, err := a.requireAuth()
		if err != nil {
			return err
		}

		patientID, err := recordPatientID(cmd, s)
		if err != nil {
			return err
		}
		conditionID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid condition id: %s", args[0])
		}

		if err := a.client.RemoveCondition(cmd.Context(), patientID, conditionID); err != nil {
			return err
		}

		a.view.Success("Condition removed")
		return nil
	},
}

var recordsLogsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show the record's access log",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		s, err := a.requireAuth()
		if err != nil {
			return err
		}

		patientID, err := recordPatientID(cmd, s)
		if err != nil {
			return err
		}

		logs, err := a.client.RecordLogs(cmd.Context(), patientID)
		if err != nil {
			return err
		}

		return a.emit(cmd, logs, func() {
			if len(logs) == 0 {
				a.view.Info("No record activity.")
				return
			}
			for _, entry := range logs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-12s %s\n", entry.CreatedAt, entry.Action, entry.Actor)
			}
		})
	},
}

func init() {
	recordsCmd.PersistentFlags().Int64("patient", 0, "patient id (doctor accounts)")
	recordsAllergyAddCmd.Flags().String("severity", "", "low, medium, or high")
	recordsAllergyAddCmd.Flags().String("notes", "", "notes")
	recordsConditionAddCmd.Flags().String("diagnosed", "", "diagnosis date (YYYY-MM-DD)")
	recordsConditionAddCmd.Flags().String("status", "", "active, managed, or resolved")
	recordsConditionAddCmd.Flags().String("notes", "", "notes")

	recordsAllergyCmd.AddCommand(recordsAllergyAddCmd)
	recordsAllergyCmd.AddCommand(recordsAllergyRemoveCmd)
	recordsConditionCmd.AddCommand(recordsConditionAddCmd)
	recordsConditionCmd.AddCommand(recordsConditionRemoveCmd)
	recordsCmd.AddCommand(recordsShowCmd)
	recordsCmd.AddCommand(recordsAllergyCmd)
	recordsCmd.AddCommand(recordsConditionCmd)
	recordsCmd.AddCommand(recordsLogsCmd)
	rootCmd.AddCommand(recordsCmd)
}

package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/caresync/caresync/internal/api"
)

var appointmentsCmd = &cobra.Command{
	Use:     "appointments",
	Aliases: []string{"appts"},
	Short:   "Manage appointments",
	Long: `List, book, and manage appointments.

Examples:
  caresync appointments list
  caresync appointments slots --doctor 7 --date 2026-09-15
  caresync appointments book --doctor 7 --date "2026-09-15 10:00" --description "Follow-up"
  caresync appointments cancel 42
  caresync appointments confirm 42`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var appointmentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your appointments",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		s, err := a.requireAuth()
		if err != nil {
			return err
		}

		var appointments []api.Appointment
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")
		if from != "" || to != "" {
			appointments, err = a.client.AppointmentsInRange(cmd.Context(), from, to)
		} else {
			appointments, err = a.client.Appointments(cmd.Context())
		}
		if err != nil {
			return err
		}

		return a.emit(cmd, appointments, func() {
			a.view.Appointments(appointments, s.User.Role)
		})
	},
}

var appointmentsSlotsCmd = &cobra.Command{
	Use:   "slots",
	Short: "Show a doctor's availability for a day",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		if _, err := a.requireAuth(); err != nil {
			return err
		}

		doctorID, _ := cmd.Flags().GetInt64("doctor")
		date, _ := cmd.Flags().GetString("date")
		if doctorID == 0 || date == "" {
			return fmt.Errorf("--doctor and --date are required")
		}

		slots, err := a.client.AvailableSlots(cmd.Context(), doctorID, date)
		if err != nil {
			return err
		}

		return a.emit(cmd, slots, func() {
			a.view.Slots(date, slots)
		})
	},
}

var appointmentsBookCmd = &cobra.Command{
	Use:   "book",
	Short: "Book an appointment",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		s, err := a.requireAuth()
		if err != nil {
			return err
		}

		doctorID, _ := cmd.Flags().GetInt64("doctor")
		clientID, _ := cmd.Flags().GetInt64("patient")
		date, _ := cmd.Flags().GetString("date")
		description, _ := cmd.Flags().GetString("description")
		if doctorID == 0 && s.User.Role == api.RoleDoctor {
			doctorID = s.User.ID
		}
		if doctorID == 0 || date == "" {
			return fmt.Errorf("--doctor and --date are required")
		}

		appointment, err := a.client.CreateAppointment(cmd.Context(), api.CreateAppointmentRequest{
			DoctorID:    doctorID,
			ClientID:    clientID,
			Date:        date,
			Description: description,
		})
		if err != nil {
			return err
		}

		return a.emit(cmd, appointment, func() {
			a.view.Success(fmt.Sprintf("Appointment #%d booked for %s", appointment.ID, appointment.Date))
		})
	},
}

func appointmentStatusCommand(use, short, status, confirmation string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
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
				return fmt.Errorf("invalid appointment id: %s", args[0])
			}

			if err := a.client.UpdateAppointmentStatus(cmd.Context(), id, status); err != nil {
				return err
			}

			a.view.Success(fmt.Sprintf(confirmation, id))
			return nil
		},
	}
}

func init() {
	appointmentsListCmd.Flags().String("from", "", "start date (YYYY-MM-DD)")
	appointmentsListCmd.Flags().String("to", "", "end date (YYYY-MM-DD)")
	appointmentsSlotsCmd.Flags().Int64("doctor", 0, "doctor id")
	appointmentsSlotsCmd.Flags().String("date", "", "day to check (YYYY-MM-DD)")
	appointmentsBookCmd.Flags().Int64("doctor", 0, "doctor id")
	appointmentsBookCmd.Flags().Int64("patient", 0, "patient id (doctor accounts booking for a patient)")
	appointmentsBookCmd.Flags().String("date", "", "appointment date and time")
	appointmentsBookCmd.Flags().String("description", "", "reason for the visit")

	appointmentsCmd.AddCommand(appointmentsListCmd)
	appointmentsCmd.AddCommand(appointmentsSlotsCmd)
	appointmentsCmd.AddCommand(appointmentsBookCmd)
	appointmentsCmd.AddCommand(appointmentStatusCommand("confirm", "Confirm a pending appointment", api.AppointmentConfirmed, "Appointment #%d confirmed"))
	appointmentsCmd.AddCommand(appointmentStatusCommand("cancel", "Cancel an appointment", api.AppointmentCancelled, "Appointment #%d cancelled"))
	appointmentsCmd.AddCommand(appointmentStatusCommand("complete", "Mark an appointment completed", api.AppointmentCompleted, "Appointment #%d marked completed"))
	rootCmd.AddCommand(appointmentsCmd)
}

package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var notificationsCmd = &cobra.Command{
	Use:     "notifications",
	Aliases: []string{"notif"},
	Short:   "View notifications and preferences",
	Long: `View the notification feed and manage delivery preferences.

Examples:
  caresync notifications list
  caresync notifications read 14
  caresync notifications read-all
  caresync notifications prefs
  caresync notifications prefs --email=false --new-message=true`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var notificationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		if _, err := a.requireAuth(); err != nil {
			return err
		}

		notifications, err := a.client.Notifications(cmd.Context())
		if err != nil {
			return err
		}

		return a.emit(cmd, notifications, func() {
			a.view.Notifications(notifications)
		})
	},
}

var notificationsReadCmd = &cobra.Command{
	Use:   "read <id>",
	Short: "Mark a notification read",
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
			return fmt.Errorf("invalid notification id: %s", args[0])
		}

		if err := a.client.MarkNotificationRead(cmd.Context(), id); err != nil {
			return err
		}

		a.view.Success("Notification marked read")
		return nil
	},
}

var notificationsReadAllCmd = &cobra.Command{
	Use:   "read-all",
	Short: "Mark every notification read",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		if _, err := a.requireAuth(); err != nil {
			return err
		}

		if err := a.client.MarkAllNotificationsRead(cmd.Context()); err != nil {
			return err
		}

		a.view.Success("All notifications marked read")
		return nil
	},
}

var notificationsPrefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or update notification preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		if _, err := a.requireAuth(); err != nil {
			return err
		}

		prefs, err := a.client.NotificationPreferences(cmd.Context())
		if err != nil {
			return err
		}

		changed := false
		if cmd.Flags().Changed("email") {
			prefs.EmailEnabled, _ = cmd.Flags().GetBool("email")
			changed = true
		}
		if cmd.Flags().Changed("appointment-reminder") {
			prefs.AppointmentReminder, _ = cmd.Flags().GetBool("appointment-reminder")
			changed = true
		}
		if cmd.Flags().Changed("new-message") {
			prefs.NewMessage, _ = cmd.Flags().GetBool("new-message")
			changed = true
		}
		if cmd.Flags().Changed("prescription-update") {
			prefs.PrescriptionUpdate, _ = cmd.Flags().GetBool("prescription-update")
			changed = true
		}

		if changed {
			if err := a.client.UpdateNotificationPreferences(cmd.Context(), *prefs); err != nil {
				return err
			}
			a.view.Success("Preferences updated")
		}

		return a.emit(cmd, prefs, func() {
			fmt.Fprintf(cmd.OutOrStdout(), "email:                %t\n", prefs.EmailEnabled)
			fmt.Fprintf(cmd.OutOrStdout(), "appointment reminder: %t\n", prefs.AppointmentReminder)
			fmt.Fprintf(cmd.OutOrStdout(), "new message:          %t\n", prefs.NewMessage)
			fmt.Fprintf(cmd.OutOrStdout(), "prescription update:  %t\n", prefs.PrescriptionUpdate)
		})
	},
}

func init() {
	notificationsPrefsCmd.Flags().Bool("email", true, "enable email delivery")
	notificationsPrefsCmd.Flags().Bool("appointment-reminder", true, "appointment reminders")
	notificationsPrefsCmd.Flags().Bool("new-message", true, "new message alerts")
	notificationsPrefsCmd.Flags().Bool("prescription-update", true, "prescription updates")

	notificationsCmd.AddCommand(notificationsListCmd)
	notificationsCmd.AddCommand(notificationsReadCmd)
	notificationsCmd.AddCommand(notificationsReadAllCmd)
	notificationsCmd.AddCommand(notificationsPrefsCmd)
	rootCmd.AddCommand(notificationsCmd)
}

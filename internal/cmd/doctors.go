package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var doctorsCmd = &cobra.Command{
	Use:   "doctors",
	Short: "Browse doctors",
	Long: `List the doctors registered on the portal, optionally filtered by
specialty, to find someone to book with.

Examples:
  caresync doctors
  caresync doctors --specialty cardiology`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		if _, err := a.requireAuth(); err != nil {
			return err
		}

		doctors, err := a.client.Doctors(cmd.Context())
		if err != nil {
			return err
		}

		if specialty, _ := cmd.Flags().GetString("specialty"); specialty != "" {
			filtered := doctors[:0]
			for _, d := range doctors {
				if strings.EqualFold(d.Specialty, specialty) {
					filtered = append(filtered, d)
				}
			}
			doctors = filtered
		}

		return a.emit(cmd, doctors, func() {
			if len(doctors) == 0 {
				a.view.Info("No doctors found.")
				return
			}
			for _, d := range doctors {
				line := fmt.Sprintf("#%d  Dr. %s", d.ID, d.DisplayName())
				if d.Specialty != "" {
					line += "  (" + d.Specialty + ")"
				}
				if d.City != "" {
					line += "  " + d.City
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
		})
	},
}

func init() {
	doctorsCmd.Flags().String("specialty", "", "filter by specialty")
	rootCmd.AddCommand(doctorsCmd)
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect client configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Show the configuration after merging defaults, the config file, and
CARESYNC_* environment variables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}

		type view struct {
			APIURL       string `json:"api_url" yaml:"api_url"`
			Timeout      string `json:"timeout" yaml:"timeout"`
			StateDir     string `json:"state_dir" yaml:"state_dir"`
			EncryptState bool   `json:"encrypt_state" yaml:"encrypt_state"`
			LogLevel     string `json:"log_level" yaml:"log_level"`
			LogFormat    string `json:"log_format" yaml:"log_format"`
		}
		v := view{
			APIURL:       a.cfg.APIURL,
			Timeout:      a.cfg.Timeout.String(),
			StateDir:     a.cfg.StateDir,
			EncryptState: a.cfg.EncryptState,
			LogLevel:     a.cfg.LogLevel,
			LogFormat:    a.cfg.LogFormat,
		}

		return a.emit(cmd, v, func() {
			fmt.Fprintf(cmd.OutOrStdout(), "api_url:       %s\n", v.APIURL)
			fmt.Fprintf(cmd.OutOrStdout(), "timeout:       %s\n", v.Timeout)
			fmt.Fprintf(cmd.OutOrStdout(), "state_dir:     %s\n", v.StateDir)
			fmt.Fprintf(cmd.OutOrStdout(), "encrypt_state: %t\n", v.EncryptState)
			fmt.Fprintf(cmd.OutOrStdout(), "log_level:     %s\n", v.LogLevel)
			fmt.Fprintf(cmd.OutOrStdout(), "log_format:    %s\n", v.LogFormat)
		})
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	cfgPath      string
	baseURL      string
	authorizerID string
	sessionFile  string
)

var rootCmd = &cobra.Command{
	Use:   "sessionkit",
	Short: "sessionkit drives authenticated requests through the request interceptor",
}

func Execute() error { return rootCmd.Execute() }

func init() {
	home, _ := os.UserHomeDir()
	defaultCfg := filepath.Join(home, ".sessionkit", "config.yaml")

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", defaultCfg, "config file path")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "resource server base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&authorizerID, "authorizer", "", "authorizer id (overrides config)")
	rootCmd.PersistentFlags().StringVar(&sessionFile, "session-file", "", "session state file (overrides config)")

	rootCmd.AddCommand(cmdLogin(), cmdLogout(), cmdStatus(), cmdCall(), cmdServe(), cmdDemo(), cmdVersion())

	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	rootCmd.Run = func(cmd *cobra.Command, args []string) {
		fmt.Println("Use -h for help, for example: sessionkit login --token abc123")
	}
}

package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is the build version, overridden at link time.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "securitycenter",
	Short: "SecurityCenter is a dashboard for the security alerting API",
	Long: `A server-rendered dashboard for the security alerting API. It exchanges
user credentials for a bearer token held in an HTTP-only cookie and gates
page access on that cookie.`,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

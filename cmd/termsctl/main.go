// termsctl is a command-line client for the terms service.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	termsclient "github.com/bobmcallan/terms/internal/clients/terms"
	"github.com/bobmcallan/terms/internal/clients/transport"
	"github.com/bobmcallan/terms/internal/common"
)

// Global flags
var (
	urlFlag   string
	tokenFlag string
)

var rootCmd = &cobra.Command{
	Use:   "termsctl",
	Short: "Client for the terms service",
	Long: `termsctl talks to a terms service: look up terms documents,
record agreements, and publish new revisions.

The service URL and bearer token come from --url/--token or the
TERMS_URL/TERMS_TOKEN environment variables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&urlFlag, "url", "", "terms service base URL (env TERMS_URL)")
	rootCmd.PersistentFlags().StringVar(&tokenFlag, "token", "", "bearer token (env TERMS_TOKEN)")

	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(revisionsCmd)
	rootCmd.AddCommand(agreementsCmd)
	rootCmd.AddCommand(agreeCmd)
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(versionCmd)
}

// serviceURL resolves the base URL from the flag, the environment, and
// the built-in default, in that order.
func serviceURL() string {
	if urlFlag != "" {
		return urlFlag
	}
	if v := os.Getenv("TERMS_URL"); v != "" {
		return v
	}
	return "http://localhost:8081"
}

// bearerToken resolves the token from the flag and the environment.
func bearerToken() string {
	if tokenFlag != "" {
		return tokenFlag
	}
	return os.Getenv("TERMS_TOKEN")
}

// newTransport builds the authenticated transport shared by all commands.
func newTransport() *transport.Client {
	return transport.NewClient(
		transport.WithToken(bearerToken()),
	)
}

// newClient builds a terms client against the resolved service URL.
func newClient() *termsclient.Client {
	return termsclient.NewClient(serviceURL(), newTransport())
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print termsctl version",
	Run: func(cmd *cobra.Command, args []string) {
		common.LoadVersionFromFile()
		fmt.Printf("termsctl %s (build %s, commit %s)\n",
			common.GetVersion(), common.GetBuild(), common.GetGitCommit())
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

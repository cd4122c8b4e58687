package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	termsclient "github.com/bobmcallan/terms/internal/clients/terms"
)

var (
	registerEmailFlag    string
	registerPasswordFlag string
	loginPasswordFlag    string
)

func init() {
	registerCmd.Flags().StringVar(&registerEmailFlag, "email", "", "account email")
	registerCmd.Flags().StringVar(&registerPasswordFlag, "password", "", "password (prompted when omitted)")
	loginCmd.Flags().StringVar(&loginPasswordFlag, "password", "", "password (prompted when omitted)")
}

var registerCmd = &cobra.Command{
	Use:   "register [username]",
	Short: "Create an account on the terms service",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := resolvePassword(registerPasswordFlag)
		if err != nil {
			return err
		}

		payload, err := json.Marshal(map[string]string{
			"username": args[0],
			"email":    registerEmailFlag,
			"password": password,
		})
		if err != nil {
			return err
		}

		data, err := newTransport().SendPostRequest(context.Background(), authURL("/users"), payload)
		if err != nil {
			return err
		}

		var resp struct {
			Username string `json:"username"`
			Role     string `json:"role"`
		}
		if err := json.Unmarshal(data, &resp); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		fmt.Printf("Registered %s (role %s)\n", resp.Username, resp.Role)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Authenticate and print a bearer token",
	Long: `Authenticate against the terms service and print the issued
token. Export it for subsequent commands:

  export TERMS_TOKEN=$(termsctl login alice --password ...)`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := resolvePassword(loginPasswordFlag)
		if err != nil {
			return err
		}

		payload, err := json.Marshal(map[string]string{
			"username": args[0],
			"password": password,
		})
		if err != nil {
			return err
		}

		data, err := newTransport().SendPostRequest(context.Background(), authURL("/login"), payload)
		if err != nil {
			return err
		}

		var resp struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(data, &resp); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		fmt.Println(resp.Token)
		return nil
	},
}

// authURL builds a versioned auth endpoint URL the same way the terms
// client builds its own.
func authURL(endpoint string) string {
	return strings.TrimRight(serviceURL(), "/") + "/" + termsclient.APIVersion + endpoint
}

// resolvePassword returns the flag value or prompts on the terminal.
func resolvePassword(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}

	stdinFd := int(os.Stdin.Fd())
	if !term.IsTerminal(stdinFd) {
		return "", fmt.Errorf("password required: supply --password when stdin is not a terminal")
	}

	fmt.Fprint(os.Stderr, "Password: ")
	raw, err := term.ReadPassword(stdinFd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if len(raw) == 0 {
		return "", fmt.Errorf("password is required")
	}
	return string(raw), nil
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/etherpad/eplite-go/eplite"
	"github.com/etherpad/eplite-go/internal/config"
	"github.com/etherpad/eplite-go/internal/iocontext"
)

// newAuthCmd returns the auth command with subcommands
func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "auth",
		Aliases: []string{"au"},
		Short:   "Manage instance credentials",
		Long:    "Configure Etherpad instance URLs and API keys stored in your OS keychain.",
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthStatusCmd())
	cmd.AddCommand(newAuthLogoutCmd())
	cmd.AddCommand(newAuthProfilesCmd())
	cmd.AddCommand(newAuthUseCmd())

	return cmd
}

// newAuthLoginCmd creates the auth login command
func newAuthLoginCmd() *cobra.Command {
	var (
		baseURL    string
		apiKey     string
		envFile    string
		lenient    bool
		skipVerify bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Save an instance URL and API key",
		Long: strings.TrimSpace(`
Save the connection details of an Etherpad instance to your OS keychain.

You'll need:
- Base URL: the API root of the instance (e.g. https://pad.example.com/api)
- API key: the content of APIKEY.txt on the server

The key is checked against the instance before it is saved unless
--skip-verify is given. Use the global --profile flag to keep several
instances side by side.
`),
		Example: strings.TrimSpace(`
  # Save the default profile
  eplite auth login --url https://pad.example.com/api --api-key KEY

  # Read the key from a file and save it as the "staging" profile
  eplite auth login --url https://staging.example.com/api --api-key @APIKEY.txt --profile staging

  # Load EPLITE_URL and EPLITE_API_KEY from a .env file
  eplite auth login --env-file .env
`),
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if envFile != "" {
				envVars, err := godotenv.Read(envFile)
				if err != nil {
					return fmt.Errorf("failed to read --env-file %q: %w", envFile, err)
				}
				if baseURL == "" {
					baseURL = strings.TrimSpace(envVars[config.EnvURL])
				}
				if apiKey == "" {
					apiKey = strings.TrimSpace(envVars[config.EnvAPIKey])
				}
				if flags.Profile == "" {
					flags.Profile = strings.TrimSpace(envVars[config.EnvProfile])
				}
			}
			if baseURL == "" {
				return fmt.Errorf("--url is required")
			}
			if apiKey == "" {
				return fmt.Errorf("--api-key is required")
			}
			key, err := iocontext.ReadContent(cmdContext(cmd), apiKey)
			if err != nil {
				return fmt.Errorf("failed to read API key: %w", err)
			}
			key = strings.TrimSpace(key)

			profile := config.Profile{BaseURL: baseURL, APIKey: key, Lenient: lenient}
			factory := newClientFactory()
			client, err := factory.newClient(config.ClientConfig{BaseURL: profile.BaseURL, APIKey: profile.APIKey, Lenient: lenient})
			if err != nil {
				return err
			}
			if !skipVerify {
				if err := verifyCredentials(cmdContext(cmd), client); err != nil {
					return err
				}
			}

			name := flags.Profile
			if err := config.SaveProfile(name, profile); err != nil {
				return fmt.Errorf("failed to save credentials: %w", err)
			}
			if name == "" {
				name = "default"
			}

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{
					"profile":  name,
					"base_url": client.BaseURL(),
					"verified": !skipVerify,
				})
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Saved profile %s for %s\n", name, client.BaseURL())
			if !client.IsSecure() {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Warning: the API key travels unencrypted over http.")
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&baseURL, "url", "", "Instance API root URL")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key ('-' for stdin, @path for a file)")
	cmd.Flags().StringVar(&envFile, "env-file", "", "Read EPLITE_URL, EPLITE_API_KEY and EPLITE_PROFILE from a .env file")
	cmd.Flags().BoolVar(&lenient, "lenient", false, "Always treat non-JSON replies from this instance as empty results")
	cmd.Flags().BoolVar(&skipVerify, "skip-verify", false, "Save without checking the key against the instance")
	flagAlias(cmd.Flags(), "api-key", "key")

	return cmd
}

// verifyCredentials asks the instance about a pad that cannot exist. A
// server that accepts the key answers with an invalid-parameters error.
func verifyCredentials(ctx context.Context, client *eplite.Client) error {
	_, err := client.Pads().RevisionsCount(ctx, "eplite-auth-check")
	if err == nil {
		return nil
	}
	code, ok := eplite.RemoteCode(err)
	if ok && code != eplite.CodeInvalidAPIKey {
		return nil
	}
	return err
}

// newAuthStatusCmd creates the auth status command
func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the active connection settings",
		Long:  "Display the connection settings commands would use (the API key is masked).",
		Example: strings.TrimSpace(`
  eplite auth status
  eplite auth status --json
`),
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Resolve(flags.Profile)
			if err != nil {
				if errors.Is(err, config.ErrNotConfigured) {
					if isJSON(cmd) {
						return printJSON(cmd, map[string]any{
							"authenticated": false,
							"message":       "Not configured. Run 'eplite auth login' to save credentials.",
						})
					}
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Not configured.")
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Run 'eplite auth login' to save credentials.")
					return nil
				}
				return fmt.Errorf("failed to load credentials: %w", err)
			}

			if isJSON(cmd) {
				payload := map[string]any{
					"authenticated": true,
					"base_url":      cfg.BaseURL,
					"api_key":       maskToken(cfg.APIKey),
					"source":        string(cfg.Source),
					"lenient":       cfg.Lenient,
				}
				if cfg.Profile != "" {
					payload["profile"] = cfg.Profile
				}
				return printJSON(cmd, payload)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, "Configured")
			_, _ = fmt.Fprintf(out, "  Base URL: %s\n", cfg.BaseURL)
			_, _ = fmt.Fprintf(out, "  API Key: %s\n", maskToken(cfg.APIKey))
			if cfg.Profile != "" {
				_, _ = fmt.Fprintf(out, "  Profile: %s\n", cfg.Profile)
			}
			if cfg.Lenient {
				_, _ = fmt.Fprintln(out, "  Lenient: true")
			}
			_, _ = fmt.Fprintf(out, "  Source: %s\n", cfg.Source)
			return nil
		}),
	}
}

// newAuthLogoutCmd creates the auth logout command
func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove a profile from the keychain",
		Long:  "Delete the stored credentials of the --profile profile, or of the current one.",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			profile := flags.Profile
			if profile == "" {
				current, err := config.CurrentProfile()
				if err != nil {
					return err
				}
				profile = current
			}
			if _, err := config.LoadProfile(profile); err != nil {
				if errors.Is(err, config.ErrNotConfigured) {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No credentials found.")
					return nil
				}
				return err
			}

			if err := config.DeleteProfile(profile); err != nil {
				return fmt.Errorf("failed to remove credentials: %w", err)
			}
			return printWriteResult(cmd, "Removed", "profile", profile)
		}),
	}
}

func newAuthProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "profiles",
		Aliases: []string{"ls"},
		Short:   "List saved profiles",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			profiles, err := config.ListProfiles()
			if err != nil {
				return err
			}
			current, _ := config.CurrentProfile()

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"profiles": profiles, "current": current})
			}
			f := newFormatter(cmd)
			if len(profiles) == 0 {
				f.Empty("No profiles saved.")
				return nil
			}
			f.StartTable([]string{"PROFILE", "CURRENT"})
			for _, p := range profiles {
				marker := ""
				if p == current {
					marker = "*"
				}
				f.Row(p, marker)
			}
			return f.EndTable()
		}),
	}
}

func newAuthUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <profile>",
		Short: "Switch the current profile",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if _, err := config.LoadProfile(name); err != nil {
				if errors.Is(err, config.ErrNotConfigured) {
					return fmt.Errorf("profile %q is not saved", name)
				}
				return err
			}
			if err := config.SetCurrentProfile(name); err != nil {
				return err
			}
			return printWriteResult(cmd, "Switched to", "profile", name)
		}),
	}
}

// maskToken masks an API key for display, showing only first and last 4 characters
func maskToken(token string) string {
	if len(token) < 8 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + strings.Repeat("*", len(token)-8) + token[len(token)-4:]
}

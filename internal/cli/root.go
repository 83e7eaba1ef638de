// Package cli builds the folio admin command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/folio-dev/folio/internal/cli/commands"
	"github.com/folio-dev/folio/internal/cli/session"
	"github.com/folio-dev/folio/internal/cli/userconfig"
	"github.com/folio-dev/folio/internal/config"
	"github.com/folio-dev/folio/internal/logger"
)

// flags holds the persistent flags shared by every command
type flags struct {
	apiURL     string
	output     string
	tokenStore string
}

// NewRootCmd builds the command tree around env. When env.OpenSession is
// nil the session is opened from configuration.
func NewRootCmd(env *commands.Env, version string) *cobra.Command {
	var f flags

	rootCmd := &cobra.Command{
		Use:   "folio",
		Short: "folio - Portfolio admin from the terminal",
		Long: `folio CLI - Manage your portfolio content from the terminal.

Sign in once with 'folio login'. The token is kept in the OS keyring
(or a local SQLite file) and reused until it expires.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("output") || env.Output == "" {
				env.Output = f.output
			}
			return env.Guard(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&f.apiURL, "api-url", "", "GraphQL API endpoint (or set API_URL)")
	rootCmd.PersistentFlags().StringVarP(&f.output, "output", "o", commands.OutputTable, "Output format: table, json, yaml")
	rootCmd.PersistentFlags().StringVar(&f.tokenStore, "token-store", "", "Token storage: keyring, sqlite, memory (or set TOKEN_STORE)")

	if env.OpenSession == nil {
		env.OpenSession = func() (*session.Session, error) {
			return openSession(env, f)
		}
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(env.Out, "folio version %s\n", version)
		},
	})

	rootCmd.AddCommand(commands.NewLoginCmd(env))
	rootCmd.AddCommand(commands.NewLogoutCmd(env))
	rootCmd.AddCommand(commands.NewRegisterCmd(env))
	rootCmd.AddCommand(commands.NewWhoamiCmd(env))
	rootCmd.AddCommand(commands.NewPortfolioCmd(env))
	rootCmd.AddCommand(commands.NewProfileCmd(env))
	rootCmd.AddCommand(commands.NewProjectsCmd(env))
	rootCmd.AddCommand(commands.NewSkillsCmd(env))
	rootCmd.AddCommand(commands.NewExperienceCmd(env))
	rootCmd.AddCommand(commands.NewConfigCmd(env))

	return rootCmd
}

// openSession resolves settings as flag, then environment, then the user
// config file, then built-in defaults
func openSession(env *commands.Env, f flags) (*session.Session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	user, err := userconfig.Load()
	if err != nil {
		return nil, err
	}

	apiURL := firstSet(f.apiURL, os.Getenv("API_URL"), user.APIURL, cfg.API.URL)
	backend := firstSet(f.tokenStore, os.Getenv("TOKEN_STORE"), user.TokenStore, cfg.TokenStore.Backend)

	return session.Open(session.Options{
		APIURL:       apiURL,
		Timeout:      cfg.API.Timeout,
		TokenBackend: backend,
		TokenDBPath:  cfg.TokenStore.DBPath,
		Logger:       logger.New(env.Err, firstSet(os.Getenv("LOG_LEVEL"), "warn"), "console"),
		Notices:      env.Err,
	})
}

func firstSet(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Execute runs the root command
func Execute(version string) error {
	env := commands.NewEnv(nil)
	if user, err := userconfig.Load(); err == nil && user.Output != "" {
		env.Output = user.Output
	}
	defer env.Close()

	if err := NewRootCmd(env, version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

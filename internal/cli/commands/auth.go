package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/folio-dev/folio/internal/auth"
)

// NewLoginCmd creates the login command
func NewLoginCmd(env *Env) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the portfolio admin",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, env, email, password)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set FOLIO_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set FOLIO_PASSWORD, will prompt if not provided)")

	return cmd
}

func runLogin(cmd *cobra.Command, env *Env, email, password string) error {
	// Check for environment variables (useful for CI/CD)
	if email == "" {
		email = os.Getenv("FOLIO_EMAIL")
	}
	if password == "" {
		password = os.Getenv("FOLIO_PASSWORD")
	}

	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("email is required (use --email flag or FOLIO_EMAIL env var)")
	}

	if password == "" {
		var err error
		if password, err = env.Password("Password"); err != nil {
			return err
		}
	}

	s, err := env.Session()
	if err != nil {
		return err
	}

	// Login must not race the restore of a previously stored token
	if err := s.Ready(cmdContext(cmd)); err != nil {
		return err
	}

	result := s.Manager.Login(cmdContext(cmd), email, password)
	if !result.Success {
		return fmt.Errorf("login failed: %s", result.Error)
	}

	user := s.Manager.State().User
	fmt.Fprintln(env.Out, "✓ Login successful!")
	fmt.Fprintf(env.Out, "  User: %s (%s)\n", user.DisplayName(), orDash(user.Email()))
	if role := user.Role(); role != "" {
		fmt.Fprintf(env.Out, "  Role: %s\n", role)
	}
	return nil
}

// NewLogoutCmd creates the logout command
func NewLogoutCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := env.Session()
			if err != nil {
				return err
			}
			if err := s.Ready(cmdContext(cmd)); err != nil {
				return err
			}
			s.Manager.Logout()
			fmt.Fprintln(env.Out, "Logged out.")
			return nil
		},
	}
}

type whoami struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Email    string `json:"email,omitempty" yaml:"email,omitempty"`
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	Role     string `json:"role,omitempty" yaml:"role,omitempty"`
	Expires  string `json:"expires,omitempty" yaml:"expires,omitempty"`
}

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:         "whoami",
		Short:       "Show the signed-in user",
		Annotations: requireAuth,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := env.Session()
			if err != nil {
				return err
			}

			state := s.Manager.State()
			info := whoami{
				ID:       state.User.ID(),
				Name:     state.User.DisplayName(),
				Email:    state.User.Email(),
				Username: state.User.Username(),
				Role:     state.User.Role(),
			}
			if exp, ok := auth.Claims(state.User).Expiry(); ok {
				info.Expires = time.Unix(int64(exp), 0).Format("2006-01-02 15:04:05 MST")
			}

			return env.print(info, func(w io.Writer) {
				fmt.Fprintf(w, "ID:\t%s\n", info.ID)
				fmt.Fprintf(w, "Name:\t%s\n", info.Name)
				fmt.Fprintf(w, "Email:\t%s\n", orDash(info.Email))
				fmt.Fprintf(w, "Role:\t%s\n", orDash(info.Role))
				fmt.Fprintf(w, "Expires:\t%s\n", orDash(info.Expires))
			})
		},
	}
}

// NewRegisterCmd creates the register command
func NewRegisterCmd(env *Env) *cobra.Command {
	var username, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" {
				return fmt.Errorf("--username and --email are required")
			}
			if password == "" {
				var err error
				if password, err = env.Password("Password"); err != nil {
					return err
				}
			}

			s, err := env.Session()
			if err != nil {
				return err
			}

			payload, err := s.Portfolio.Register(cmdContext(cmd), username, email, password)
			if err != nil {
				return fmt.Errorf("registration failed: %w", err)
			}

			fmt.Fprintf(env.Out, "✓ Account %s created\n", orDash(auth.User(payload.User).Username()))
			fmt.Fprintln(env.Out, "  Sign in with: folio login --email", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password (will prompt if not provided)")

	return cmd
}

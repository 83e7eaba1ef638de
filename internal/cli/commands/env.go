package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/folio-dev/folio/internal/cli/session"
)

// AnnotationAuth marks commands that only run for an authenticated user
const AnnotationAuth = "folio/auth"

// requireAuth is attached to admin commands
var requireAuth = map[string]string{AnnotationAuth: "required"}

// Output formats
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// Env carries what commands need from the outside world. Tests replace
// the prompts and the session opener.
type Env struct {
	Out    io.Writer
	Err    io.Writer
	Output string

	// OpenSession opens the session for this invocation
	OpenSession func() (*session.Session, error)
	// Confirm asks a yes/no question
	Confirm func(label string) (bool, error)
	// Password reads a secret without echoing it
	Password func(label string) (string, error)

	sess *session.Session
}

// NewEnv returns an environment bound to the process's terminal
func NewEnv(open func() (*session.Session, error)) *Env {
	return &Env{
		Out:         os.Stdout,
		Err:         os.Stderr,
		Output:      OutputTable,
		OpenSession: open,
		Confirm:     promptConfirm,
		Password:    readPassword,
	}
}

// Session opens the session once per invocation
func (e *Env) Session() (*session.Session, error) {
	if e.sess != nil {
		return e.sess, nil
	}
	s, err := e.OpenSession()
	if err != nil {
		return nil, err
	}
	e.sess = s
	return s, nil
}

// Close releases the session, if one was opened
func (e *Env) Close() error {
	if e.sess == nil {
		return nil
	}
	return e.sess.Close()
}

// Guard runs the route guard for commands annotated with AnnotationAuth
func (e *Env) Guard(cmd *cobra.Command) error {
	if cmd.Annotations[AnnotationAuth] != "required" {
		return nil
	}
	s, err := e.Session()
	if err != nil {
		return err
	}
	return s.Require(cmdContext(cmd))
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// print renders v in the selected output format. table draws the
// human-readable form.
func (e *Env) print(v any, table func(w io.Writer)) error {
	switch strings.ToLower(e.Output) {
	case OutputJSON:
		enc := json.NewEncoder(e.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case OutputYAML:
		enc := yaml.NewEncoder(e.Out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "", OutputTable:
		w := tabwriter.NewWriter(e.Out, 0, 0, 2, ' ', 0)
		table(w)
		return w.Flush()
	default:
		return fmt.Errorf("unknown output format %q, must be one of: table, json, yaml", e.Output)
	}
}

// confirmDelete asks before deleting unless skip is set
func (e *Env) confirmDelete(what string, skip bool) (bool, error) {
	if skip {
		return true, nil
	}
	ok, err := e.Confirm(fmt.Sprintf("Delete %s", what))
	if err != nil {
		return false, err
	}
	if !ok {
		fmt.Fprintln(e.Out, "Aborted.")
	}
	return ok, nil
}

func promptConfirm(label string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, errors.New("confirmation required in non-interactive mode (use --yes)")
	}
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func readPassword(label string) (string, error) {
	// Check if stdin is a terminal (not piped)
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", errors.New("password is required in non-interactive mode (use --password flag or FOLIO_PASSWORD env var)")
	}
	fmt.Fprintf(os.Stderr, "%s: ", label)
	bytePassword, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr) // New line after password input
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(bytePassword), nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/folio-dev/folio/internal/cli/userconfig"
)

// NewConfigCmd creates the config command group
func NewConfigCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change CLI defaults",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the saved defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := userconfig.Load()
			if err != nil {
				return err
			}
			path, _ := userconfig.GetConfigPath()

			return env.print(cfg, func(w io.Writer) {
				fmt.Fprintf(w, "File:\t%s\n", path)
				fmt.Fprintf(w, "%s:\t%s\n", userconfig.KeyAPIURL, orDash(cfg.APIURL))
				fmt.Fprintf(w, "%s:\t%s\n", userconfig.KeyOutput, orDash(cfg.Output))
				fmt.Fprintf(w, "%s:\t%s\n", userconfig.KeyTokenStore, orDash(cfg.TokenStore))
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Save a default (api_url, output, token_store)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := userconfig.Set(args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(env.Out, "✓ %s set to %s\n", args[0], args[1])
			return nil
		},
	})

	return cmd
}

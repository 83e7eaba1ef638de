package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/folio-dev/folio/internal/portfolio"
)

// NewProfileCmd creates the profile command group
func NewProfileCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or edit the portfolio profile",
	}

	cmd.AddCommand(newProfileShowCmd(env))
	cmd.AddCommand(newProfileSetCmd(env))

	return cmd
}

func newProfileShowCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := env.Session()
			if err != nil {
				return err
			}

			p, err := s.Portfolio.Profile(cmdContext(cmd))
			if errors.Is(err, portfolio.ErrNotFound) {
				fmt.Fprintln(env.Out, "No profile yet. Create one with: folio profile set")
				return nil
			}
			if err != nil {
				return s.Err(err)
			}

			return env.print(p, func(w io.Writer) {
				fmt.Fprintf(w, "Name:\t%s\n", p.FullName())
				fmt.Fprintf(w, "Title:\t%s\n", p.Title)
				fmt.Fprintf(w, "Email:\t%s\n", p.Email)
				fmt.Fprintf(w, "Phone:\t%s\n", orDash(p.Phone))
				fmt.Fprintf(w, "Location:\t%s\n", orDash(joinNonEmpty(p.Address.City, p.Address.Country)))
				fmt.Fprintf(w, "GitHub:\t%s\n", orDash(p.Social.GitHub))
				fmt.Fprintf(w, "LinkedIn:\t%s\n", orDash(p.Social.LinkedIn))
				fmt.Fprintf(w, "Website:\t%s\n", orDash(p.Social.Website))
				fmt.Fprintf(w, "Bio:\t%s\n", orDash(p.Bio))
			})
		},
	}
}

func newProfileSetCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "set",
		Short:       "Create or update the profile",
		Annotations: requireAuth,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := env.Session()
			if err != nil {
				return err
			}
			ctx := cmdContext(cmd)

			var (
				id string
				in portfolio.ProfileInput
			)
			current, err := s.Portfolio.Profile(ctx)
			switch {
			case err == nil:
				id = current.ID
				in = portfolio.ProfileInputFrom(*current)
			case errors.Is(err, portfolio.ErrNotFound):
			default:
				return s.Err(err)
			}

			fields := map[string]*string{
				"last-name":  &in.LastName,
				"first-name": &in.FirstName,
				"title":      &in.Title,
				"bio":        &in.Bio,
				"email":      &in.Email,
				"phone":      &in.Phone,
				"photo":      &in.Photo,
				"cv":         &in.CV,
				"city":       &in.Address.City,
				"country":    &in.Address.Country,
				"github":     &in.Social.GitHub,
				"linkedin":   &in.Social.LinkedIn,
				"twitter":    &in.Social.Twitter,
				"website":    &in.Social.Website,
			}
			for name, field := range fields {
				if cmd.Flags().Changed(name) {
					*field, _ = cmd.Flags().GetString(name)
				}
			}

			p, err := s.Portfolio.SaveProfile(ctx, id, in)
			if err != nil {
				return s.Err(err)
			}

			if id == "" {
				fmt.Fprintf(env.Out, "✓ Profile created for %s\n", p.FullName())
			} else {
				fmt.Fprintf(env.Out, "✓ Profile updated for %s\n", p.FullName())
			}
			return nil
		},
	}

	cmd.Flags().String("last-name", "", "Last name")
	cmd.Flags().String("first-name", "", "First name")
	cmd.Flags().String("title", "", "Professional title")
	cmd.Flags().String("bio", "", "Short biography")
	cmd.Flags().String("email", "", "Contact email")
	cmd.Flags().String("phone", "", "Phone number")
	cmd.Flags().String("photo", "", "Photo URL")
	cmd.Flags().String("cv", "", "CV URL")
	cmd.Flags().String("city", "", "City")
	cmd.Flags().String("country", "", "Country")
	cmd.Flags().String("github", "", "GitHub profile URL")
	cmd.Flags().String("linkedin", "", "LinkedIn profile URL")
	cmd.Flags().String("twitter", "", "Twitter profile URL")
	cmd.Flags().String("website", "", "Personal website URL")

	return cmd
}

func joinNonEmpty(parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += p
	}
	return out
}

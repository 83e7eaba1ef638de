package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/folio-dev/folio/internal/portfolio"
)

// NewExperienceCmd creates the experience command group
func NewExperienceCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "experience",
		Aliases: []string{"experiences", "exp"},
		Short:   "Manage professional experience",
	}

	cmd.AddCommand(newExperienceListCmd(env))
	cmd.AddCommand(newExperienceShowCmd(env))
	cmd.AddCommand(newExperienceCreateCmd(env))
	cmd.AddCommand(newExperienceUpdateCmd(env))
	cmd.AddCommand(newExperienceDeleteCmd(env))

	return cmd
}

func newExperienceListCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List experiences",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := env.Session()
			if err != nil {
				return err
			}

			experiences, err := s.Portfolio.Experiences(cmdContext(cmd))
			if err != nil {
				return s.Err(err)
			}

			if len(experiences) == 0 && env.Output == OutputTable {
				fmt.Fprintln(env.Out, "No experience found.")
				return nil
			}

			return env.print(experiences, func(w io.Writer) {
				fmt.Fprintln(w, "ID\tPOSITION\tCOMPANY\tTYPE\tPERIOD")
				fmt.Fprintln(w, "──\t────────\t───────\t────\t──────")
				for _, e := range experiences {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.ID, e.Position, e.Company, e.Type, period(e))
				}
			})
		},
	}
}

func newExperienceShowCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show an experience",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := env.Session()
			if err != nil {
				return err
			}

			e, err := s.Portfolio.Experience(cmdContext(cmd), args[0])
			if err != nil {
				return s.Err(err)
			}

			return env.print(e, func(w io.Writer) {
				skills := make([]string, len(e.Skills))
				for i, sk := range e.Skills {
					skills[i] = sk.Name
				}
				fmt.Fprintf(w, "ID:\t%s\n", e.ID)
				fmt.Fprintf(w, "Position:\t%s\n", e.Position)
				fmt.Fprintf(w, "Company:\t%s\n", e.Company)
				fmt.Fprintf(w, "Type:\t%s\n", e.Type)
				fmt.Fprintf(w, "Location:\t%s\n", orDash(e.Location))
				fmt.Fprintf(w, "Period:\t%s\n", period(*e))
				fmt.Fprintf(w, "Skills:\t%s\n", orDash(strings.Join(skills, ", ")))
				fmt.Fprintf(w, "Description:\t%s\n", orDash(e.Description))
			})
		},
	}
}

type experienceFlags struct {
	company, position, kind, description string
	skills                                []string
	start, end, location, logo            string
	current                               bool
	order                                 int
}

func (f *experienceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.company, "company", "", "Company name")
	cmd.Flags().StringVar(&f.position, "position", "", "Position held")
	cmd.Flags().StringVar(&f.kind, "type", string(portfolio.TypePermanent), "Contract type (CDI, CDD, FREELANCE, STAGE, ALTERNANCE)")
	cmd.Flags().StringVar(&f.description, "description", "", "Description")
	cmd.Flags().StringSliceVar(&f.skills, "skill", nil, "Skill ids used (repeatable)")
	cmd.Flags().StringVar(&f.start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.end, "end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&f.current, "current", false, "Ongoing position (clears the end date)")
	cmd.Flags().StringVar(&f.location, "location", "", "Location")
	cmd.Flags().StringVar(&f.logo, "logo", "", "Logo URL")
	cmd.Flags().IntVar(&f.order, "order", 0, "Display order")
}

func (f *experienceFlags) apply(cmd *cobra.Command, in *portfolio.ExperienceInput) {
	changed := cmd.Flags().Changed
	if changed("company") {
		in.Company = f.company
	}
	if changed("position") {
		in.Position = f.position
	}
	if changed("type") || in.Type == "" {
		in.Type = portfolio.ExperienceType(strings.ToUpper(f.kind))
	}
	if changed("description") {
		in.Description = f.description
	}
	if changed("skill") {
		in.Skills = f.skills
	}
	if changed("start") {
		in.StartDate = f.start
	}
	if changed("end") {
		end := f.end
		in.EndDate = &end
		in.Current = false
	}
	if changed("current") {
		in.Current = f.current
	}
	if changed("location") {
		in.Location = f.location
	}
	if changed("logo") {
		in.Logo = f.logo
	}
	if changed("order") {
		in.Order = f.order
	}
}

func newExperienceCreateCmd(env *Env) *cobra.Command {
	var flags experienceFlags

	cmd := &cobra.Command{
		Use:         "create",
		Short:       "Create an experience",
		Annotations: requireAuth,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := env.Session()
			if err != nil {
				return err
			}

			var in portfolio.ExperienceInput
			flags.apply(cmd, &in)

			e, err := s.Portfolio.CreateExperience(cmdContext(cmd), in)
			if err != nil {
				return s.Err(err)
			}

			fmt.Fprintf(env.Out, "✓ Experience %q at %s created (id %s)\n", e.Position, e.Company, e.ID)
			return nil
		},
	}

	flags.register(cmd)

	return cmd
}

func newExperienceUpdateCmd(env *Env) *cobra.Command {
	var flags experienceFlags

	cmd := &cobra.Command{
		Use:         "update <id>",
		Short:       "Update an experience",
		Args:        cobra.ExactArgs(1),
		Annotations: requireAuth,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := env.Session()
			if err != nil {
				return err
			}

			current, err := s.Portfolio.Experience(cmdContext(cmd), args[0])
			if err != nil {
				return s.Err(err)
			}

			in := portfolio.ExperienceInputFrom(*current)
			flags.apply(cmd, &in)

			e, err := s.Portfolio.UpdateExperience(cmdContext(cmd), args[0], in)
			if err != nil {
				return s.Err(err)
			}

			fmt.Fprintf(env.Out, "✓ Experience %q at %s updated\n", e.Position, e.Company)
			return nil
		},
	}

	flags.register(cmd)

	return cmd
}

func newExperienceDeleteCmd(env *Env) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:         "rm <id>",
		Aliases:     []string{"delete"},
		Short:       "Delete an experience",
		Args:        cobra.ExactArgs(1),
		Annotations: requireAuth,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := env.Session()
			if err != nil {
				return err
			}

			ok, err := env.confirmDelete("experience "+args[0], yes)
			if err != nil || !ok {
				return err
			}

			if err := s.Portfolio.DeleteExperience(cmdContext(cmd), args[0]); err != nil {
				return s.Err(err)
			}

			fmt.Fprintf(env.Out, "✓ Experience %s deleted\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

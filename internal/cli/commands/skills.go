package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/folio-dev/folio/internal/portfolio"
)

// NewSkillsCmd creates the skills command group
func NewSkillsCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "skills",
		Aliases: []string{"skill"},
		Short:   "Manage skills",
	}

	cmd.AddCommand(newSkillsListCmd(env))
	cmd.AddCommand(newSkillShowCmd(env))
	cmd.AddCommand(newSkillCreateCmd(env))
	cmd.AddCommand(newSkillUpdateCmd(env))
	cmd.AddCommand(newSkillDeleteCmd(env))

	return cmd
}

func newSkillsListCmd(env *Env) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List skills grouped by category",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := env.Session()
			if err != nil {
				return err
			}

			skills, err := s.Portfolio.Skills(cmdContext(cmd), portfolio.SkillCategory(strings.ToUpper(category)))
			if err != nil {
				return s.Err(err)
			}

			if len(skills) == 0 && env.Output == OutputTable {
				fmt.Fprintln(env.Out, "No skills found.")
				return nil
			}

			return env.print(skills, func(w io.Writer) {
				fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tLEVEL\tPERCENT")
				fmt.Fprintln(w, "──\t────\t────────\t─────\t───────")
				for _, group := range portfolio.SkillsByCategory(skills) {
					for _, sk := range group.Skills {
						fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d%%\n", sk.ID, sk.Name, group.Category, sk.Level, sk.Percentage)
					}
				}
			})
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Filter by category (FRONTEND, BACKEND, DATABASE, DEVOPS, AUTRE)")

	return cmd
}

func newSkillShowCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a skill",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := env.Session()
			if err != nil {
				return err
			}

			sk, err := s.Portfolio.Skill(cmdContext(cmd), args[0])
			if err != nil {
				return s.Err(err)
			}

			return env.print(sk, func(w io.Writer) {
				fmt.Fprintf(w, "ID:\t%s\n", sk.ID)
				fmt.Fprintf(w, "Name:\t%s\n", sk.Name)
				fmt.Fprintf(w, "Category:\t%s\n", sk.Category)
				fmt.Fprintf(w, "Level:\t%s\n", sk.Level)
				fmt.Fprintf(w, "Percentage:\t%d%%\n", sk.Percentage)
				fmt.Fprintf(w, "Icon:\t%s\n", orDash(sk.Icon))
			})
		},
	}
}

type skillFlags struct {
	name, level, category, icon string
	percentage                  int
}

func (f *skillFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Skill name")
	cmd.Flags().StringVar(&f.level, "level", string(portfolio.LevelIntermediate), "Level (DEBUTANT, INTERMEDIAIRE, AVANCE, EXPERT)")
	cmd.Flags().StringVar(&f.category, "category", string(portfolio.CategoryOther), "Category (FRONTEND, BACKEND, DATABASE, DEVOPS, AUTRE)")
	cmd.Flags().IntVar(&f.percentage, "percent", 50, "Mastery percentage (0-100)")
	cmd.Flags().StringVar(&f.icon, "icon", "", "Icon name")
}

func (f *skillFlags) apply(cmd *cobra.Command, in *portfolio.SkillInput) {
	changed := cmd.Flags().Changed
	if changed("name") {
		in.Name = f.name
	}
	if changed("level") || in.Level == "" {
		in.Level = portfolio.SkillLevel(strings.ToUpper(f.level))
	}
	if changed("category") || in.Category == "" {
		in.Category = portfolio.SkillCategory(strings.ToUpper(f.category))
	}
	if changed("percent") {
		in.Percentage = f.percentage
	}
	if changed("icon") {
		in.Icon = f.icon
	}
}

func newSkillCreateCmd(env *Env) *cobra.Command {
	var flags skillFlags

	cmd := &cobra.Command{
		Use:         "create",
		Short:       "Create a skill",
		Annotations: requireAuth,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := env.Session()
			if err != nil {
				return err
			}

			in := portfolio.SkillInput{Percentage: flags.percentage}
			flags.apply(cmd, &in)

			sk, err := s.Portfolio.CreateSkill(cmdContext(cmd), in)
			if err != nil {
				return s.Err(err)
			}

			fmt.Fprintf(env.Out, "✓ Skill %q created (id %s)\n", sk.Name, sk.ID)
			return nil
		},
	}

	flags.register(cmd)

	return cmd
}

func newSkillUpdateCmd(env *Env) *cobra.Command {
	var flags skillFlags

	cmd := &cobra.Command{
		Use:         "update <id>",
		Short:       "Update a skill",
		Args:        cobra.ExactArgs(1),
		Annotations: requireAuth,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := env.Session()
			if err != nil {
				return err
			}

			current, err := s.Portfolio.Skill(cmdContext(cmd), args[0])
			if err != nil {
				return s.Err(err)
			}

			in := portfolio.SkillInputFrom(*current)
			flags.apply(cmd, &in)

			sk, err := s.Portfolio.UpdateSkill(cmdContext(cmd), args[0], in)
			if err != nil {
				return s.Err(err)
			}

			fmt.Fprintf(env.Out, "✓ Skill %q updated\n", sk.Name)
			return nil
		},
	}

	flags.register(cmd)

	return cmd
}

func newSkillDeleteCmd(env *Env) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:         "rm <id>",
		Aliases:     []string{"delete"},
		Short:       "Delete a skill",
		Args:        cobra.ExactArgs(1),
		Annotations: requireAuth,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := env.Session()
			if err != nil {
				return err
			}

			ok, err := env.confirmDelete("skill "+args[0], yes)
			if err != nil || !ok {
				return err
			}

			if err := s.Portfolio.DeleteSkill(cmdContext(cmd), args[0]); err != nil {
				return s.Err(err)
			}

			fmt.Fprintf(env.Out, "✓ Skill %s deleted\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

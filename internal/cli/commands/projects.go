package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/folio-dev/folio/internal/portfolio"
)

// NewProjectsCmd creates the projects command group
func NewProjectsCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project"},
		Short:   "Manage portfolio projects",
	}

	cmd.AddCommand(newProjectsListCmd(env))
	cmd.AddCommand(newProjectsShowCmd(env))
	cmd.AddCommand(newProjectCreateCmd(env))
	cmd.AddCommand(newProjectUpdateCmd(env))
	cmd.AddCommand(newProjectDeleteCmd(env))

	return cmd
}

func newProjectsListCmd(env *Env) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := env.Session()
			if err != nil {
				return err
			}

			projects, err := s.Portfolio.Projects(cmdContext(cmd), portfolio.ProjectStatus(strings.ToUpper(status)))
			if err != nil {
				return s.Err(err)
			}

			if len(projects) == 0 && env.Output == OutputTable {
				fmt.Fprintln(env.Out, "No projects found.")
				return nil
			}

			return env.print(projects, func(w io.Writer) {
				fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tTECHNOLOGIES\tSTARTED")
				fmt.Fprintln(w, "──\t─────\t──────\t────────────\t───────")
				for _, p := range projects {
					fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", p.ID, p.Title, p.Status, len(p.Technologies), orDash(dateOnly(p.StartDate)))
				}
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (EN_COURS, TERMINE, ARCHIVE)")

	return cmd
}

func newProjectsShowCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := env.Session()
			if err != nil {
				return err
			}

			p, err := s.Portfolio.Project(cmdContext(cmd), args[0])
			if err != nil {
				return s.Err(err)
			}

			return env.print(p, func(w io.Writer) {
				techs := make([]string, len(p.Technologies))
				for i, t := range p.Technologies {
					techs[i] = t.Name
				}
				fmt.Fprintf(w, "ID:\t%s\n", p.ID)
				fmt.Fprintf(w, "Title:\t%s\n", p.Title)
				fmt.Fprintf(w, "Status:\t%s\n", p.Status)
				fmt.Fprintf(w, "Description:\t%s\n", p.Description)
				fmt.Fprintf(w, "Technologies:\t%s\n", orDash(strings.Join(techs, ", ")))
				fmt.Fprintf(w, "GitHub:\t%s\n", orDash(p.GitHubURL))
				fmt.Fprintf(w, "Demo:\t%s\n", orDash(p.DemoURL))
				fmt.Fprintf(w, "Dates:\t%s → %s\n", orDash(dateOnly(p.StartDate)), orDash(dateOnly(p.EndDate)))
			})
		},
	}
}

// projectFlags binds the editable project fields to flags
type projectFlags struct {
	title, description, longDescription string
	technologies, images                []string
	github, demo, status, start, end    string
	order                               int
}

func (f *projectFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "Project title")
	cmd.Flags().StringVar(&f.description, "description", "", "Short description")
	cmd.Flags().StringVar(&f.longDescription, "long-description", "", "Long description")
	cmd.Flags().StringSliceVar(&f.technologies, "tech", nil, "Skill ids used by the project (repeatable)")
	cmd.Flags().StringSliceVar(&f.images, "image", nil, "Image URLs (repeatable)")
	cmd.Flags().StringVar(&f.github, "github", "", "GitHub URL")
	cmd.Flags().StringVar(&f.demo, "demo", "", "Demo URL")
	cmd.Flags().StringVar(&f.status, "status", string(portfolio.StatusInProgress), "Status (EN_COURS, TERMINE, ARCHIVE)")
	cmd.Flags().StringVar(&f.start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.end, "end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&f.order, "order", 0, "Display order")
}

// apply copies the flags the user set onto in
func (f *projectFlags) apply(cmd *cobra.Command, in *portfolio.ProjectInput) {
	changed := cmd.Flags().Changed
	if changed("title") {
		in.Title = f.title
	}
	if changed("description") {
		in.Description = f.description
	}
	if changed("long-description") {
		in.LongDescription = f.longDescription
	}
	if changed("tech") {
		in.Technologies = f.technologies
	}
	if changed("image") {
		in.Images = f.images
	}
	if changed("github") {
		in.GitHubURL = f.github
	}
	if changed("demo") {
		in.DemoURL = f.demo
	}
	if changed("status") || in.Status == "" {
		in.Status = portfolio.ProjectStatus(strings.ToUpper(f.status))
	}
	if changed("start") {
		in.StartDate = f.start
	}
	if changed("end") {
		in.EndDate = f.end
	}
	if changed("order") {
		in.Order = f.order
	}
}

func newProjectCreateCmd(env *Env) *cobra.Command {
	var flags projectFlags

	cmd := &cobra.Command{
		Use:         "create",
		Short:       "Create a project",
		Annotations: requireAuth,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := env.Session()
			if err != nil {
				return err
			}

			var in portfolio.ProjectInput
			flags.apply(cmd, &in)

			p, err := s.Portfolio.CreateProject(cmdContext(cmd), in)
			if err != nil {
				return s.Err(err)
			}

			fmt.Fprintf(env.Out, "✓ Project %q created (id %s)\n", p.Title, p.ID)
			return nil
		},
	}

	flags.register(cmd)

	return cmd
}

func newProjectUpdateCmd(env *Env) *cobra.Command {
	var flags projectFlags

	cmd := &cobra.Command{
		Use:         "update <id>",
		Short:       "Update a project",
		Args:        cobra.ExactArgs(1),
		Annotations: requireAuth,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := env.Session()
			if err != nil {
				return err
			}

			current, err := s.Portfolio.Project(cmdContext(cmd), args[0])
			if err != nil {
				return s.Err(err)
			}

			in := portfolio.ProjectInputFrom(*current)
			flags.apply(cmd, &in)

			p, err := s.Portfolio.UpdateProject(cmdContext(cmd), args[0], in)
			if err != nil {
				return s.Err(err)
			}

			fmt.Fprintf(env.Out, "✓ Project %q updated\n", p.Title)
			return nil
		},
	}

	flags.register(cmd)

	return cmd
}

func newProjectDeleteCmd(env *Env) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:         "rm <id>",
		Aliases:     []string{"delete"},
		Short:       "Delete a project",
		Args:        cobra.ExactArgs(1),
		Annotations: requireAuth,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := env.Session()
			if err != nil {
				return err
			}

			ok, err := env.confirmDelete("project "+args[0], yes)
			if err != nil || !ok {
				return err
			}

			if err := s.Portfolio.DeleteProject(cmdContext(cmd), args[0]); err != nil {
				return s.Err(err)
			}

			fmt.Fprintf(env.Out, "✓ Project %s deleted\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

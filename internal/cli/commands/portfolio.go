package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/folio-dev/folio/internal/portfolio"
)

// NewPortfolioCmd creates the portfolio command
func NewPortfolioCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "portfolio",
		Short: "Show the public portfolio",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := env.Session()
			if err != nil {
				return err
			}

			p, err := s.Portfolio.Portfolio(cmdContext(cmd))
			if err != nil {
				return s.Err(err)
			}

			return env.print(p, func(w io.Writer) {
				if p.Profile != nil {
					fmt.Fprintf(w, "%s\t%s\n", p.Profile.FullName(), p.Profile.Title)
					fmt.Fprintln(w)
				}

				fmt.Fprintf(w, "PROJECTS (%d)\n", len(p.Projects))
				for _, project := range p.Projects {
					fmt.Fprintf(w, "  %s\t%s\n", project.Title, project.Status)
				}

				fmt.Fprintf(w, "\nSKILLS (%d)\n", len(p.Skills))
				for _, group := range portfolio.SkillsByCategory(p.Skills) {
					names := make([]string, len(group.Skills))
					for i, skill := range group.Skills {
						names[i] = skill.Name
					}
					fmt.Fprintf(w, "  %s\t%v\n", group.Category, names)
				}

				fmt.Fprintf(w, "\nEXPERIENCE (%d)\n", len(p.Experiences))
				for _, exp := range p.Experiences {
					fmt.Fprintf(w, "  %s\t%s\t%s\n", exp.Position, exp.Company, period(exp))
				}
			})
		},
	}
}

func period(exp portfolio.Experience) string {
	end := exp.EndDate
	if exp.Current {
		end = "today"
	}
	return fmt.Sprintf("%s → %s", orDash(dateOnly(exp.StartDate)), orDash(dateOnly(end)))
}

func dateOnly(value string) string {
	if len(value) >= 10 {
		return value[:10]
	}
	return value
}

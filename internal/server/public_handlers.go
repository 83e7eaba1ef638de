package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/folio-dev/folio/internal/portfolio"
)

// home renders the whole portfolio in one response
func (s *Server) home(c *gin.Context) {
	rs, ok := mustSession(c, s.logger)
	if !ok {
		return
	}

	p, err := rs.Portfolio.Portfolio(c.Request.Context())
	if err != nil {
		s.respondWithAPIError(c, rs, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile":     p.Profile,
		"projects":    p.Projects,
		"skills":      portfolio.SkillsByCategory(p.Skills),
		"experiences": p.Experiences,
	})
}

func (s *Server) listProjects(c *gin.Context) {
	rs, ok := mustSession(c, s.logger)
	if !ok {
		return
	}

	status := portfolio.ProjectStatus(strings.ToUpper(c.Query("status")))
	projects, err := rs.Portfolio.Projects(c.Request.Context(), status)
	if err != nil {
		s.respondWithAPIError(c, rs, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"projects": projects,
		"status":   status,
		"statuses": portfolio.ProjectStatuses,
	})
}

func (s *Server) getProject(c *gin.Context) {
	rs, ok := mustSession(c, s.logger)
	if !ok {
		return
	}

	project, err := rs.Portfolio.Project(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondWithAPIError(c, rs, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project})
}

func (s *Server) listSkills(c *gin.Context) {
	rs, ok := mustSession(c, s.logger)
	if !ok {
		return
	}

	category := portfolio.SkillCategory(strings.ToUpper(c.Query("category")))
	skills, err := rs.Portfolio.Skills(c.Request.Context(), category)
	if err != nil {
		s.respondWithAPIError(c, rs, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"groups":     portfolio.SkillsByCategory(skills),
		"categories": portfolio.SkillCategories,
	})
}

func (s *Server) listExperiences(c *gin.Context) {
	rs, ok := mustSession(c, s.logger)
	if !ok {
		return
	}

	experiences, err := rs.Portfolio.Experiences(c.Request.Context())
	if err != nil {
		s.respondWithAPIError(c, rs, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"experiences": experiences})
}

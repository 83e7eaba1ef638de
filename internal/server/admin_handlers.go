package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/folio-dev/folio/internal/portfolio"
)

type adminSection struct {
	Path  string `json:"path"`
	Label string `json:"label"`
}

var adminSections = []adminSection{
	{Path: "/admin/profile", Label: "Profil"},
	{Path: "/admin/projects", Label: "Projets"},
	{Path: "/admin/skills", Label: "Compétences"},
	{Path: "/admin/experience", Label: "Expériences"},
}

func (s *Server) dashboard(c *gin.Context) {
	rs, ok := mustSession(c, s.logger)
	if !ok {
		return
	}

	user := rs.Manager.State().User
	c.JSON(http.StatusOK, gin.H{
		"welcome":  user.DisplayName(),
		"user":     userDetail(user),
		"sections": adminSections,
	})
}

// bindInput decodes a JSON body, answering 400 on malformed input
func (s *Server) bindInput(c *gin.Context, in any) bool {
	if err := c.ShouldBindJSON(in); err != nil {
		s.logger.Warn().Err(err).Msg("Invalid request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return false
	}
	return true
}

func (s *Server) getProfile(c *gin.Context) {
	rs, ok := mustSession(c, s.logger)
	if !ok {
		return
	}

	profile, err := rs.Portfolio.Profile(c.Request.Context())
	if errors.Is(err, portfolio.ErrNotFound) {
		// No profile yet: the form starts empty and saving creates it
		c.JSON(http.StatusOK, gin.H{"profile": nil})
		return
	}
	if err != nil {
		s.respondWithAPIError(c, rs, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

func (s *Server) saveProfile(c *gin.Context) {
	rs, ok := mustSession(c, s.logger)
	if !ok {
		return
	}

	var in portfolio.ProfileInput
	if !s.bindInput(c, &in) {
		return
	}

	var id string
	existing, err := rs.Portfolio.Profile(c.Request.Context())
	switch {
	case err == nil:
		id = existing.ID
	case !errors.Is(err, portfolio.ErrNotFound):
		s.respondWithAPIError(c, rs, err)
		return
	}

	profile, err := rs.Portfolio.SaveProfile(c.Request.Context(), id, in)
	if err != nil {
		s.respondWithAPIError(c, rs, err)
		return
	}

	status := http.StatusOK
	if id == "" {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"profile": profile})
}

// Projects

func (s *Server) adminListProjects(c *gin.Context) {
	rs, ok := mustSession(c, s.logger)
	if !ok {
		return
	}

	projects, err := rs.Portfolio.Projects(c.Request.Context(), "")
	if err != nil {
		s.respondWithAPIError(c, rs, err)
		return
	}

	// Technologies are picked from the skill list
	skills, err := rs.Portfolio.Skills(c.Request.Context(), "")
	if err != nil {
		s.respondWithAPIError(c, rs, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": projects, "skills": skills})
}

func (s *Server) createProject(c *gin.Context) {
	rs, ok := mustSession(c, s.logger)
	if !ok {
		return
	}

	var in portfolio.ProjectInput
	if !s.bindInput(c, &in) {
		return
	}

	project, err := rs.Portfolio.CreateProject(c.Request.Context(), in)
	if err != nil {
		s.respondWithAPIError(c, rs, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"project": project})
}

func (s *Server) updateProject(c *gin.Context) {
	rs, ok := mustSession(c, s.logger)
	if !ok {
		return
	}

	var in portfolio.ProjectInput
	if !s.bindInput(c, &in) {
		return
	}

	project, err := rs.Portfolio.UpdateProject(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		s.respondWithAPIError(c, rs, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project})
}

func (s *Server) deleteProject(c *gin.Context) {
	rs, ok := mustSession(c, s.logger)
	if !ok {
		return
	}

	if err := rs.Portfolio.DeleteProject(c.Request.Context(), c.Param("id")); err != nil {
		s.respondWithAPIError(c, rs, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Skills

func (s *Server) adminListSkills(c *gin.Context) {
	rs, ok := mustSession(c, s.logger)
	if !ok {
		return
	}

	skills, err := rs.Portfolio.Skills(c.Request.Context(), "")
	if err != nil {
		s.respondWithAPIError(c, rs, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"skills":     skills,
		"levels":     portfolio.SkillLevels,
		"categories": portfolio.SkillCategories,
	})
}

func (s *Server) createSkill(c *gin.Context) {
	rs, ok := mustSession(c, s.logger)
	if !ok {
		return
	}

	var in portfolio.SkillInput
	if !s.bindInput(c, &in) {
		return
	}

	skill, err := rs.Portfolio.CreateSkill(c.Request.Context(), in)
	if err != nil {
		s.respondWithAPIError(c, rs, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"skill": skill})
}

func (s *Server) updateSkill(c *gin.Context) {
	rs, ok := mustSession(c, s.logger)
	if !ok {
		return
	}

	var in portfolio.SkillInput
	if !s.bindInput(c, &in) {
		return
	}

	skill, err := rs.Portfolio.UpdateSkill(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		s.respondWithAPIError(c, rs, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"skill": skill})
}

func (s *Server) deleteSkill(c *gin.Context) {
	rs, ok := mustSession(c, s.logger)
	if !ok {
		return
	}

	if err := rs.Portfolio.DeleteSkill(c.Request.Context(), c.Param("id")); err != nil {
		s.respondWithAPIError(c, rs, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Experiences

func (s *Server) adminListExperiences(c *gin.Context) {
	rs, ok := mustSession(c, s.logger)
	if !ok {
		return
	}

	experiences, err := rs.Portfolio.Experiences(c.Request.Context())
	if err != nil {
		s.respondWithAPIError(c, rs, err)
		return
	}

	skills, err := rs.Portfolio.Skills(c.Request.Context(), "")
	if err != nil {
		s.respondWithAPIError(c, rs, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"experiences": experiences,
		"skills":      skills,
		"types":       portfolio.ExperienceTypes,
	})
}

func (s *Server) createExperience(c *gin.Context) {
	rs, ok := mustSession(c, s.logger)
	if !ok {
		return
	}

	var in portfolio.ExperienceInput
	if !s.bindInput(c, &in) {
		return
	}

	experience, err := rs.Portfolio.CreateExperience(c.Request.Context(), in)
	if err != nil {
		s.respondWithAPIError(c, rs, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"experience": experience})
}

func (s *Server) updateExperience(c *gin.Context) {
	rs, ok := mustSession(c, s.logger)
	if !ok {
		return
	}

	var in portfolio.ExperienceInput
	if !s.bindInput(c, &in) {
		return
	}

	experience, err := rs.Portfolio.UpdateExperience(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		s.respondWithAPIError(c, rs, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"experience": experience})
}

func (s *Server) deleteExperience(c *gin.Context) {
	rs, ok := mustSession(c, s.logger)
	if !ok {
		return
	}

	if err := rs.Portfolio.DeleteExperience(c.Request.Context(), c.Param("id")); err != nil {
		s.respondWithAPIError(c, rs, err)
		return
	}

	c.Status(http.StatusNoContent)
}

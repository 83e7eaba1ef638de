package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/folio-dev/folio/internal/auth"
)

// DashboardPath is where a successful login lands
const DashboardPath = "/admin/dashboard"

// LoginRequest represents a login request, as JSON or a submitted form
type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	Success bool        `json:"success"`
	User    *UserDetail `json:"user,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// UserDetail represents user information returned in responses
type UserDetail struct {
	ID          string `json:"id"`
	Email       string `json:"email,omitempty"`
	Username    string `json:"username,omitempty"`
	Role        string `json:"role,omitempty"`
	DisplayName string `json:"display_name"`
}

func userDetail(u auth.User) *UserDetail {
	if len(u) == 0 {
		return nil
	}
	return &UserDetail{
		ID:          u.ID(),
		Email:       u.Email(),
		Username:    u.Username(),
		Role:        u.Role(),
		DisplayName: u.DisplayName(),
	}
}

// loginView describes the login form; authenticated browsers go straight to the dashboard
func (s *Server) loginView(c *gin.Context) {
	rs, ok := mustSession(c, s.logger)
	if !ok {
		return
	}

	session := rs.Manager.State()
	if session.IsAuthenticated() && wantsHTML(c) {
		c.Redirect(http.StatusSeeOther, DashboardPath)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authenticated": session.IsAuthenticated(),
		"state":         session.State().String(),
		"user":          userDetail(session.User),
		"fields":        []string{"email", "password"},
	})
}

func (s *Server) login(c *gin.Context) {
	rs, ok := mustSession(c, s.logger)
	if !ok {
		return
	}

	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		s.logger.Warn().Err(err).Msg("Invalid login request")
		c.JSON(http.StatusBadRequest, LoginResponse{Error: "Email et mot de passe requis"})
		return
	}

	result := rs.Manager.Login(c.Request.Context(), req.Email, req.Password)
	if !result.Success {
		c.JSON(http.StatusUnauthorized, LoginResponse{Error: result.Error})
		return
	}

	if wantsHTML(c) {
		c.Redirect(http.StatusSeeOther, DashboardPath)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Success: true,
		User:    userDetail(rs.Manager.State().User),
	})
}

// logout clears the token cookie. No API call is made.
func (s *Server) logout(c *gin.Context) {
	rs, ok := mustSession(c, s.logger)
	if !ok {
		return
	}

	rs.Manager.Logout()

	if wantsHTML(c) {
		c.Redirect(http.StatusSeeOther, auth.LoginPath)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

package server

import (
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/folio-dev/folio/internal/auth"
	"github.com/folio-dev/folio/internal/graphql"
	"github.com/folio-dev/folio/internal/portfolio"
	"github.com/folio-dev/folio/internal/tokenstore"
)

const (
	requestIDKey = "request_id"
	sessionKey   = "session"
)

// loadingRetryAfter is the Retry-After value, in seconds, sent while the session loads
const loadingRetryAfter = "1"

// ErrNoSession is reported when a handler runs without the session middleware
var ErrNoSession = errors.New("no session")

// redirectNavigator records navigations requested while serving a request.
// The handler turns a recorded navigation into a redirect response.
type redirectNavigator struct {
	mu   sync.Mutex
	path string
}

func (n *redirectNavigator) Navigate(path string) {
	n.mu.Lock()
	n.path = path
	n.mu.Unlock()
}

func (n *redirectNavigator) target() (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.path, n.path != ""
}

// RequestSession is everything a handler needs to act for the current visitor
type RequestSession struct {
	Manager   *auth.Manager
	Portfolio *portfolio.Service
	Store     tokenstore.Store
	navigator *redirectNavigator
}

func setSession(c *gin.Context, rs *RequestSession) {
	c.Set(sessionKey, rs)
}

// GetSession returns the request-scoped session
func GetSession(c *gin.Context) (*RequestSession, bool) {
	value, exists := c.Get(sessionKey)
	if !exists {
		return nil, false
	}

	rs, ok := value.(*RequestSession)
	return rs, ok
}

// sessionMiddleware restores the visitor's session from the token cookie and
// wires a GraphQL client whose link chain reads and evicts that cookie
func (s *Server) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		store := tokenstore.NewCookie(c.Writer, c.Request, s.config.Server.CookieSecure)
		nav := &redirectNavigator{}

		client := graphql.NewClient(graphql.Options{
			Endpoint:   s.config.API.URL,
			HTTPClient: s.httpClient,
			Store:      store,
			Navigator:  nav,
			Cache:      s.cache,
			Logger:     s.logger.With().Str("request_id", c.GetString(requestIDKey)).Logger(),
		})

		opts := []portfolio.Option{portfolio.WithValidator(s.validator)}
		if refresher := s.mutationRefresher(); refresher != nil {
			opts = append(opts, portfolio.WithRefresher(refresher))
		}
		svc := portfolio.NewService(client, s.logger, opts...)

		manager := auth.NewManager(store, svc, s.logger)
		manager.Init()

		setSession(c, &RequestSession{
			Manager:   manager,
			Portfolio: svc,
			Store:     store,
			navigator: nav,
		})

		c.Next()
	}
}

// RouteGuard gates protected routes on the request's session
func RouteGuard(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rs, exists := GetSession(c)
		if !exists {
			respondWithError(c, log, http.StatusInternalServerError, ErrNoSession, "Internal server error")
			return
		}

		switch auth.Decide(rs.Manager.State()) {
		case auth.DecisionWait:
			c.Header("Retry-After", loadingRetryAfter)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"status": "loading"})
		case auth.DecisionAllow:
			c.Next()
		default:
			log.Debug().Str("path", c.Request.URL.Path).Msg("Unauthenticated access to protected route")
			redirectToLogin(c)
		}
	}
}

// wantsHTML reports whether the client is a browser navigating pages
// rather than an API consumer
func wantsHTML(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "text/html")
}

// redirectToLogin sends browsers to the login view with 303 so the
// original request is not replayed; API clients get a 401
func redirectToLogin(c *gin.Context) {
	if wantsHTML(c) {
		c.Redirect(http.StatusSeeOther, auth.LoginPath)
		c.Abort()
		return
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": "Authentication required",
		"login": auth.LoginPath,
	})
}

func respondWithError(c *gin.Context, log zerolog.Logger, statusCode int, err error, message string) {
	log.Warn().Err(err).Msg(message)
	c.JSON(statusCode, gin.H{"error": message})
	c.Abort()
}

// respondWithAPIError maps a portfolio or transport error to a response.
// When the API rejected the token the session is already gone and the
// client is sent to the login view instead.
func (s *Server) respondWithAPIError(c *gin.Context, rs *RequestSession, err error) {
	if path, ok := rs.navigator.target(); ok && path == auth.LoginPath {
		rs.Manager.Logout()
		redirectToLogin(c)
		return
	}

	var gqlErrs graphql.Errors
	switch {
	case errors.Is(err, portfolio.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": err.Error()})
	case errors.Is(err, portfolio.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, portfolio.ErrNoResult):
		s.logger.Error().Err(err).Str("request_id", c.GetString(requestIDKey)).Msg("GraphQL API returned an empty payload")
		c.JSON(http.StatusBadGateway, gin.H{"error": "API returned no result"})
	case graphql.IsTransportError(err):
		s.logger.Error().Err(err).Str("request_id", c.GetString(requestIDKey)).Msg("GraphQL API unreachable")
		c.JSON(http.StatusBadGateway, gin.H{"error": "API unavailable"})
	case errors.As(err, &gqlErrs):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": gqlErrs.Error()})
	default:
		s.logger.Error().Err(err).Str("request_id", c.GetString(requestIDKey)).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
	c.Abort()
}

// mustSession fetches the request session or aborts with 500
func mustSession(c *gin.Context, log zerolog.Logger) (*RequestSession, bool) {
	rs, exists := GetSession(c)
	if !exists {
		log.Error().Msg("Session not found in context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		c.Abort()
		return nil, false
	}
	return rs, true
}

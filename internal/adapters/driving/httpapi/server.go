package httpapi

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/designsync-cli/internal/core/domain"
	"github.com/custodia-labs/designsync-cli/internal/core/ports/driving"
)

// Config holds configuration for the reference remote server.
type Config struct {
	// Email and Password are the single accepted credential pair.
	Email    string
	Password string

	// Secret signs issued tokens.
	Secret []byte

	// TokenTTL is the access token lifetime (default: 24h).
	TokenTTL time.Duration
}

// Server exposes a driving.Mutator over HTTP.
type Server struct {
	cfg     Config
	mutator driving.Mutator
	issuer  *tokenIssuer
}

// loginRequest is the /v1/auth/login request format.
type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// createRequest is the POST /v1/workspaces request format.
type createRequest struct {
	Name string          `json:"name" binding:"required"`
	Data domain.Document `json:"data"`
}

// updateRequest is the PUT /v1/workspaces/:id request format.
type updateRequest struct {
	Data            domain.Document `json:"data"`
	ExpectedVersion int64           `json:"expectedVersion"`
}

// NewServer creates a server over the given mutation handler.
func NewServer(cfg Config, mutator driving.Mutator) *Server {
	return &Server{
		cfg:     cfg,
		mutator: mutator,
		issuer:  newTokenIssuer(cfg.Secret, cfg.TokenTTL),
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.POST("/v1/auth/login", s.login)

	authed := router.Group("/v1", s.requireAuth)
	authed.GET("/workspaces", s.listWorkspaces)
	authed.POST("/workspaces", s.createWorkspace)
	authed.GET("/workspaces/:id", s.getWorkspace)
	authed.PUT("/workspaces/:id", s.updateWorkspace)
	authed.POST("/workspaces/:id/undo", s.undoWorkspace)
	authed.POST("/workspaces/:id/redo", s.redoWorkspace)
	authed.GET("/workspaces/:id/history", s.workspaceHistory)

	return router
}

// login exchanges the configured credential pair for a signed token.
func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "email and password are required"})
		return
	}

	emailOK := subtle.ConstantTimeCompare([]byte(req.Email), []byte(s.cfg.Email)) == 1
	passwordOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.cfg.Password)) == 1
	if !emailOK || !passwordOK {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, expiresAt, err := s.issuer.Issue(req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"accessToken": token,
		"expiresAt":   expiresAt.UTC(),
	})
}

// requireAuth verifies the bearer token on protected routes.
func (s *Server) requireAuth(c *gin.Context) {
	token := extractBearer(c.GetHeader("Authorization"))
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}

	email, err := s.issuer.Verify(token)
	if err != nil {
		if errors.Is(err, domain.ErrTokenExpired) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "token expired",
				"code":  "token_expired",
			})
			return
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	c.Set("email", email)
	c.Next()
}

// extractBearer pulls the token out of an Authorization header.
func extractBearer(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

func (s *Server) listWorkspaces(c *gin.Context) {
	records, err := s.mutator.List(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	if records == nil {
		records = []domain.RemoteRecord{}
	}
	c.JSON(http.StatusOK, records)
}

func (s *Server) createWorkspace(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "name is required"})
		return
	}

	record, err := s.mutator.Create(c.Request.Context(), req.Name, req.Data)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (s *Server) getWorkspace(c *gin.Context) {
	record, err := s.mutator.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (s *Server) updateWorkspace(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "malformed update payload"})
		return
	}

	result, err := s.mutator.Update(c.Request.Context(), c.Param("id"), req.Data, req.ExpectedVersion)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) undoWorkspace(c *gin.Context) {
	result, err := s.mutator.Undo(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) redoWorkspace(c *gin.Context) {
	result, err := s.mutator.Redo(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) workspaceHistory(c *gin.Context) {
	events, err := s.mutator.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	if events == nil {
		events = []domain.PatchEvent{}
	}
	c.JSON(http.StatusOK, events)
}

// fail maps a domain error onto the HTTP status taxonomy.
func (s *Server) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "workspace not found"})
	case errors.Is(err, domain.ErrVersionConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

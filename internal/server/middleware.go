package server

import (
	"github.com/gin-gonic/gin"

	"github.com/sabaispa/sabai/internal/auth"
)

// authorize gates a route on the caller's role. Runs after the auth
// middleware, so a missing principal means a wiring bug, not a client error.
func (s *Server) authorize(object, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := auth.PrincipalFromContext(c.Request.Context())
		if !ok {
			AbortWithError(c, auth.ErrUnauthorized)
			return
		}
		if err := s.authzSvc.Authorize(c.Request.Context(), principal.Role, object, action); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

func principalFrom(c *gin.Context) (auth.Principal, bool) {
	return auth.PrincipalFromContext(c.Request.Context())
}

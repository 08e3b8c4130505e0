package middleware

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/unihub/unihub/backend/internal/models"
	"github.com/unihub/unihub/backend/internal/utils"
	"github.com/unihub/unihub/backend/pkg/response"
)

const (
	ContextUserID = "user_id"
	ContextEmail  = "email"
	ContextRole   = "role"
	ContextName   = "name"
)

// AuthRequired verifies the bearer access token and attaches the decoded
// identity to the request context. Expired tokens are answered with the
// TOKEN_EXPIRED code so clients refresh instead of re-authenticating.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := utils.ExtractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			response.Unauthorized(c, "authentication required")
			c.Abort()
			return
		}

		claims, err := utils.ParseAccessToken(tokenString)
		if err != nil {
			if errors.Is(err, utils.ErrTokenExpired) {
				response.UnauthorizedCode(c, "token expired", response.CodeTokenExpired)
			} else {
				response.Unauthorized(c, "invalid token")
			}
			c.Abort()
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

// OptionalAuth decodes the bearer token if present and valid, but never
// rejects the request. Endpoints behave differently for anonymous callers.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := utils.ExtractBearerToken(c.GetHeader("Authorization"))
		if err == nil {
			if claims, err := utils.ParseAccessToken(tokenString); err == nil {
				setIdentity(c, claims)
			}
		}
		c.Next()
	}
}

// RoleRequired rejects with 403 unless the authenticated role is in the
// allowed set. Must run after AuthRequired.
func RoleRequired(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		role := GetRole(c)
		if _, ok := allowed[role]; !ok {
			response.Forbidden(c, "insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}

// AdminRequired is shorthand for RoleRequired(admin).
func AdminRequired() gin.HandlerFunc {
	return RoleRequired(models.RoleAdmin)
}

// OwnershipRequired compares the path-supplied user id against the
// authenticated identity. Admins bypass the check.
func OwnershipRequired(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetRole(c) == models.RoleAdmin {
			c.Next()
			return
		}

		id, err := strconv.ParseUint(c.Param(param), 10, 32)
		if err != nil {
			response.BadRequest(c, "invalid user id")
			c.Abort()
			return
		}

		if uint(id) != GetUserID(c) {
			response.Forbidden(c, "you can only access your own resources")
			c.Abort()
			return
		}
		c.Next()
	}
}

func setIdentity(c *gin.Context, claims *utils.Claims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextEmail, claims.Email)
	c.Set(ContextRole, claims.Role)
	c.Set(ContextName, claims.Name)
}

// GetUserID gets the current user ID from context
func GetUserID(c *gin.Context) uint {
	if id, exists := c.Get(ContextUserID); exists {
		return id.(uint)
	}
	return 0
}

// GetEmail gets the current user email from context
func GetEmail(c *gin.Context) string {
	if email, exists := c.Get(ContextEmail); exists {
		return email.(string)
	}
	return ""
}

// GetRole gets the current user role from context
func GetRole(c *gin.Context) string {
	if role, exists := c.Get(ContextRole); exists {
		return role.(string)
	}
	return ""
}

// GetName gets the current user display name from context
func GetName(c *gin.Context) string {
	if name, exists := c.Get(ContextName); exists {
		return name.(string)
	}
	return ""
}

// IsAuthenticated reports whether OptionalAuth attached an identity.
func IsAuthenticated(c *gin.Context) bool {
	_, exists := c.Get(ContextUserID)
	return exists
}

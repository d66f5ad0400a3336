package middleware

import (
	"net/http"
	"strings"

	"devzora-control-center/internal/database"
	"devzora-control-center/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// RequireAuth resolves the current user from a bearer token (the API path
// used by the SPA) or, failing that, from the session cookie, and puts it
// in the context as "CurrentUser".
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, ok := userFromBearer(c); ok {
			c.Set("CurrentUser", user)
			c.Next()
			return
		}

		if user, ok := userFromSession(c); ok {
			c.Set("CurrentUser", user)
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Authentication required",
		})
	}
}

func userFromBearer(c *gin.Context) (models.User, bool) {
	header := c.GetHeader("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return models.User{}, false
	}

	var apiToken models.APIToken
	if err := database.DB.Preload("User").
		Where("token = ?", token).
		First(&apiToken).Error; err != nil {
		return models.User{}, false
	}
	return apiToken.User, true
}

func userFromSession(c *gin.Context) (models.User, bool) {
	sess := sessions.Default(c)
	uid, ok := sess.Get("user_id").(uint)
	if !ok || uid == 0 {
		return models.User{}, false
	}

	var user models.User
	if err := database.DB.First(&user, uid).Error; err != nil {
		return models.User{}, false
	}
	return user, true
}

// RequireRole allows only the listed roles past. Must run after RequireAuth.
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := map[models.UserRole]struct{}{}
	for _, r := range roles {
		roleSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Authentication required",
			})
			return
		}

		if _, ok := roleSet[user.Role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Access denied",
			})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user placed in the context by
// RequireAuth.
func CurrentUser(c *gin.Context) (models.User, bool) {
	uVal, ok := c.Get("CurrentUser")
	if !ok {
		return models.User{}, false
	}
	switch u := uVal.(type) {
	case models.User:
		return u, true
	case *models.User:
		return *u, true
	}
	return models.User{}, false
}

package httpapi

import (
	"github.com/gin-gonic/gin"

	"taskboard/internal/model"
	"taskboard/internal/service"
)

// currentUserKey is the context key for the authenticated user.
const currentUserKey = "taskboard_current_user"

// RequireAuth resolves the Authorization header to a user and stores it in
// the context. Every failure answers 401 with the same message.
func RequireAuth(accounts *service.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := accounts.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(401, envelope{
				Success: false,
				Status:  "error",
				Message: "Unauthorized access",
				Data:    gin.H{},
			})
			return
		}
		c.Set(currentUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user set by RequireAuth, or nil.
func CurrentUser(c *gin.Context) *model.User {
	if v, ok := c.Get(currentUserKey); ok {
		if user, ok := v.(*model.User); ok {
			return user
		}
	}
	return nil
}

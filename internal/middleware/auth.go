package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Roshan1923/BillBrain/internal/models"
	"github.com/Roshan1923/BillBrain/internal/session"
	"github.com/Roshan1923/BillBrain/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CurrentUserKey is the context key the auth middleware stores the
// authenticated user under.
const CurrentUserKey = "currentUser"

// Auth resolves the Authorization bearer token to a user and puts
// *models.User into the context. The password hash never crosses this
// boundary.
func Auth(store *session.Store, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c.GetHeader("Authorization"))
		if token == "" {
			util.Error(c, http.StatusUnauthorized, "Not authenticated")
			c.Abort()
			return
		}

		userID, err := store.Validate(token)
		if err != nil {
			if errors.Is(err, session.ErrInvalid) {
				util.Error(c, http.StatusUnauthorized, "Invalid session")
			} else {
				util.Error(c, http.StatusInternalServerError, "Session lookup failed")
			}
			c.Abort()
			return
		}

		var user models.User
		if err := db.First(&user, "user_id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				util.Error(c, http.StatusUnauthorized, "User not found")
			} else {
				util.Error(c, http.StatusInternalServerError, "User lookup failed")
			}
			c.Abort()
			return
		}

		user.PasswordHash = ""
		c.Set(CurrentUserKey, &user)
		c.Next()
	}
}

// BearerToken extracts the token from "Bearer <token>", or returns "".
func BearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// CurrentUser fetches the authenticated user placed by Auth.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(CurrentUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}

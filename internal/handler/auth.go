package handler

import (
	"errors"
	"net/http"

	"github.com/Roshan1923/BillBrain/internal/extauth"
	"github.com/Roshan1923/BillBrain/internal/middleware"
	"github.com/Roshan1923/BillBrain/internal/models"
	"github.com/Roshan1923/BillBrain/internal/session"
	"github.com/Roshan1923/BillBrain/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthHandler owns registration, login, the external-auth exchange and
// logout.
type AuthHandler struct {
	DB         *gorm.DB
	Sessions   *session.Store
	Exchanger  extauth.Exchanger
	BcryptCost int
}

func NewAuthHandler(db *gorm.DB, sessions *session.Store, exchanger extauth.Exchanger, bcryptCost int) *AuthHandler {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = 12
	}
	return &AuthHandler{
		DB:         db,
		Sessions:   sessions,
		Exchanger:  exchanger,
		BcryptCost: bcryptCost,
	}
}

// publicUser is the user shape returned alongside a fresh token.
func publicUser(u *models.User) gin.H {
	return gin.H{
		"user_id":  u.UserID,
		"email":    u.Email,
		"name":     u.Name,
		"picture":  u.Picture,
		"currency": u.Currency,
		"theme":    u.Theme,
	}
}

// seedDefaultCategories replicates the fixed category list once per section
// for a newly created account.
func seedDefaultCategories(db *gorm.DB, userID string) error {
	cats := make([]models.Category, 0, len(models.DefaultCategories)*2)
	for _, section := range []string{models.SectionPersonal, models.SectionBusiness} {
		for _, name := range models.DefaultCategories {
			cats = append(cats, models.Category{
				CategoryID: util.NewID("cat"),
				UserID:     userID,
				Name:       name,
				Section:    section,
				IsDefault:  true,
			})
		}
	}
	return db.Create(&cats).Error
}

// ---------- register ----------

type registerReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	email := util.NormalizeEmail(req.Email)

	// email is globally unique, case-insensitively
	var count int64
	if err := h.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "User lookup failed")
		return
	}
	if count > 0 {
		util.Error(c, http.StatusBadRequest, "Email already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.BcryptCost)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "Password hashing failed")
		return
	}

	user := models.User{
		UserID:       util.NewID("user"),
		Email:        email,
		Name:         req.Name,
		PasswordHash: string(hash),
		AuthProvider: "email",
		Currency:     "CAD",
		Theme:        "dark",
	}
	if err := h.DB.Create(&user).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "Create user failed")
		return
	}

	if err := seedDefaultCategories(h.DB, user.UserID); err != nil {
		util.Error(c, http.StatusInternalServerError, "Seed categories failed")
		return
	}

	token, err := h.Sessions.Issue(user.UserID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "Create session failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  publicUser(&user),
	})
}

// ---------- login ----------

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	var user models.User
	if err := h.DB.First(&user, "email = ?", util.NormalizeEmail(req.Email)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusUnauthorized, "Invalid email or password")
		} else {
			util.Error(c, http.StatusInternalServerError, "User lookup failed")
		}
		return
	}

	// external-auth accounts have no password credential
	if user.PasswordHash == "" {
		util.Error(c, http.StatusUnauthorized, "Please use Google Sign-In for this account")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		util.Error(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := h.Sessions.Issue(user.UserID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "Create session failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  publicUser(&user),
	})
}

// ---------- external-auth exchange ----------

type googleSessionReq struct {
	SessionID string `json:"session_id" binding:"required"`
}

func (h *AuthHandler) GoogleSession(c *gin.Context) {
	var req googleSessionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if h.Exchanger == nil {
		util.Error(c, http.StatusInternalServerError, "External auth not configured")
		return
	}

	identity, err := h.Exchanger.Exchange(c.Request.Context(), req.SessionID)
	if err != nil {
		if errors.Is(err, extauth.ErrRejected) {
			util.Error(c, http.StatusUnauthorized, "Invalid Google session")
		} else {
			util.Error(c, http.StatusInternalServerError, "Failed to verify Google session")
		}
		return
	}

	email := util.NormalizeEmail(identity.Email)
	if email == "" {
		util.Error(c, http.StatusUnauthorized, "Invalid Google session")
		return
	}

	var user models.User
	err = h.DB.First(&user, "email = ?", email).Error
	switch {
	case err == nil:
		// refresh name/picture from the provider
		updates := map[string]any{}
		if identity.Name != "" {
			updates["name"] = identity.Name
		}
		if identity.Picture != "" {
			updates["picture"] = identity.Picture
		}
		if len(updates) > 0 {
			if err := h.DB.Model(&user).Updates(updates).Error; err != nil {
				util.Error(c, http.StatusInternalServerError, "Update user failed")
				return
			}
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{
			UserID:       util.NewID("user"),
			Email:        email,
			Name:         identity.Name,
			AuthProvider: "google",
			Picture:      identity.Picture,
			Currency:     "CAD",
			Theme:        "dark",
		}
		if err := h.DB.Create(&user).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, "Create user failed")
			return
		}
		if err := seedDefaultCategories(h.DB, user.UserID); err != nil {
			util.Error(c, http.StatusInternalServerError, "Seed categories failed")
			return
		}
	default:
		util.Error(c, http.StatusInternalServerError, "User lookup failed")
		return
	}

	token, err := h.Sessions.Issue(user.UserID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "Create session failed")
		return
	}

	// reload so the response reflects any provider refresh
	if err := h.DB.First(&user, "user_id = ?", user.UserID).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "User lookup failed")
		return
	}
	user.PasswordHash = ""

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// ---------- logout ----------

// Logout revokes the presented token. It always succeeds, even without a
// valid session.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := middleware.BearerToken(c.GetHeader("Authorization"))
	if token != "" {
		_ = h.Sessions.Revoke(token)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

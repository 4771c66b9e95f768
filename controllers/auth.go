package controllers

import (
	"log"
	"net/http"

	"portfolio/middlewares"
	"portfolio/services"

	"github.com/gin-gonic/gin"
)

type credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthController struct {
	auth         *services.AuthService
	log          *log.Logger
	cookieSecure bool
}

func NewAuthController(auth *services.AuthService, cookieSecure bool, logger *log.Logger) *AuthController {
	return &AuthController{auth: auth, log: logger, cookieSecure: cookieSecure}
}

// Register creates a user account.
func (a *AuthController) Register(c *gin.Context) {
	var input credentials
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	user, err := a.auth.Register(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		respondError(c, a.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Login authenticates a user and sets the session cookie.
func (a *AuthController) Login(c *gin.Context) {
	var input credentials
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	token, user, err := a.auth.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		respondError(c, a.log, err)
		return
	}

	a.setCookie(c, token, int(a.auth.TokenTTL().Seconds()))
	c.JSON(http.StatusOK, gin.H{"id": user.ID, "username": user.Username})
}

// Profile returns the claims of the current session.
func (a *AuthController) Profile(c *gin.Context) {
	c.JSON(http.StatusOK, middlewares.CurrentClaims(c))
}

func (a *AuthController) Logout(c *gin.Context) {
	a.setCookie(c, "", -1)
	c.JSON(http.StatusOK, "ok")
}

func (a *AuthController) setCookie(c *gin.Context, value string, maxAge int) {
	// Cross-site cookies must be Secure when SameSite=None.
	if a.cookieSecure {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(middlewares.TokenCookie, value, maxAge, "/", "", a.cookieSecure, true)
}

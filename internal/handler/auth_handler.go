package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/vidrios-leads-api/internal/dto"
	"github.com/noah-isme/vidrios-leads-api/internal/middleware"
	"github.com/noah-isme/vidrios-leads-api/internal/models"
	"github.com/noah-isme/vidrios-leads-api/internal/service"
	"github.com/noah-isme/vidrios-leads-api/pkg/config"
	appErrors "github.com/noah-isme/vidrios-leads-api/pkg/errors"
	"github.com/noah-isme/vidrios-leads-api/pkg/response"
)

// SessionCookie describes how the session credential travels to the browser.
type SessionCookie struct {
	Name     string
	MaxAge   time.Duration
	Secure   bool
	SameSite http.SameSite
}

// SessionCookieFromConfig derives cookie attributes for the environment. Production is served
// cross-site over HTTPS and needs SameSite=None with Secure.
func SessionCookieFromConfig(cfg *config.Config) SessionCookie {
	cookie := SessionCookie{
		Name:     cfg.Auth.CookieName,
		MaxAge:   cfg.JWT.Expiration,
		SameSite: http.SameSiteLaxMode,
	}
	if cookie.Name == "" {
		cookie.Name = "token"
	}
	if cfg.IsProduction() {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteNoneMode
	}
	return cookie
}

func (sc SessionCookie) write(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(sc.SameSite)
	c.SetCookie(sc.Name, value, maxAge, "/", "", sc.Secure, true)
}

// AuthHandler wires HTTP endpoints to the session authority.
type AuthHandler struct {
	sessions *service.SessionAuthority
	cookie   SessionCookie
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(sessions *service.SessionAuthority, cookie SessionCookie) *AuthHandler {
	return &AuthHandler{sessions: sessions, cookie: cookie}
}

// Login godoc
// @Summary Administrator login
// @Description Sets an HttpOnly session cookie on success
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Validation(err, "Email y password son obligatorios."))
		return
	}

	session, err := h.sessions.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.cookie.write(c, session.Token, int(h.cookie.MaxAge.Seconds()))
	response.OK(c, dto.LoginResponse{Message: "Login exitoso", User: session.User})
}

// Logout godoc
// @Summary Administrator logout
// @Description Clears the session cookie. Always succeeds.
// @Tags Authentication
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(h.cookie.Name); err == nil {
		h.sessions.Logout(c.Request.Context(), token)
	}
	h.cookie.write(c, "", -1)
	response.Message(c, "Logout exitoso")
}

// Me godoc
// @Summary Current administrator
// @Tags Authentication
// @Produce json
// @Success 200 {object} dto.MeResponse
// @Failure 401 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Router /api/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := middleware.CurrentAdmin(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	response.OK(c, dto.MeResponse{User: claims.User()})
}

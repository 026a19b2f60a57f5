package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"lottery_backend/internal/oauth"
)

const stateCookie = "oauth_state"

// OAuthRedirect starts the provider round-trip: a random state value goes
// into a short-lived cookie and into the provider URL.
func (h *Handler) OAuthRedirect(provider oauth.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		const op = "handler.OAuthRedirect"

		log := h.log.With(slog.String("op", op), slog.String("provider", string(provider)))

		state, err := oauth.StateToken()
		if err != nil {
			log.Error("failed to generate state", slog.Any("error", err))

			newErrorResponse(c, http.StatusInternalServerError, "internal error")

			return
		}

		url, err := h.oauth.AuthURL(provider, state)
		if err != nil {
			log.Error("failed to build provider url", slog.Any("error", err))

			newErrorResponse(c, http.StatusInternalServerError, "internal error")

			return
		}

		c.SetCookie(stateCookie, state, 600, "/", "", false, true)
		c.Redirect(http.StatusTemporaryRedirect, url)
	}
}

// OAuthCallback finishes the round-trip: state check, code exchange,
// userinfo fetch, then a normal session issue through the auth service.
func (h *Handler) OAuthCallback(provider oauth.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		const op = "handler.OAuthCallback"

		log := h.log.With(slog.String("op", op), slog.String("provider", string(provider)))

		state := c.Query("state")
		cookieState, err := c.Cookie(stateCookie)
		if err != nil || state == "" || state != cookieState {
			log.Error("state mismatch")

			newErrorResponse(c, http.StatusUnauthorized, "invalid oauth state")

			return
		}
		c.SetCookie(stateCookie, "", -1, "/", "", false, true)

		code := c.Query("code")
		if code == "" {
			newErrorResponse(c, http.StatusBadRequest, "missing code")

			return
		}

		token, err := h.oauth.Exchange(c.Request.Context(), provider, code)
		if err != nil {
			log.Error("code exchange failed", slog.Any("error", err))

			newErrorResponse(c, http.StatusUnauthorized, "oauth exchange failed")

			return
		}

		profile, err := h.oauth.FetchProfile(c.Request.Context(), provider, token)
		if err != nil {
			log.Error("userinfo fetch failed", slog.Any("error", err))

			newErrorResponse(c, http.StatusUnauthorized, "oauth profile fetch failed")

			return
		}

		pair, err := h.auth.LoginOAuth(
			c.Request.Context(),
			string(provider), profile.ProviderID, profile.Email, profile.DisplayName, profile.Raw,
		)
		if err != nil {
			log.Error("oauth login failed", slog.Any("error", err))

			newErrorResponse(c, statusFromError(err), "failed to login")

			return
		}

		c.JSON(http.StatusOK, pair)
	}
}

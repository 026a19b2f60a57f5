package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"lottery_backend/internal/oauth"
	"lottery_backend/internal/service"
	"lottery_backend/internal/storage"
)

type Handler struct {
	auth         *service.AuthService
	users        *service.UsersService
	groups       *service.GroupsService
	tickets      *service.TicketsService
	transactions *service.TransactionsService
	oauth        *oauth.Manager
	log          *slog.Logger
}

func NewHandler(
	authService *service.AuthService,
	users *service.UsersService,
	groups *service.GroupsService,
	tickets *service.TicketsService,
	transactions *service.TransactionsService,
	oauthManager *oauth.Manager,
	lgr *slog.Logger,
) *Handler {
	return &Handler{
		auth:         authService,
		users:        users,
		groups:       groups,
		tickets:      tickets,
		transactions: transactions,
		oauth:        oauthManager,
		log:          lgr,
	}
}

type errorResponse struct {
	Message string `json:"message"`
}

func newErrorResponse(c *gin.Context, statusCode int, errMessage string) {
	c.AbortWithStatusJSON(statusCode, errorResponse{Message: errMessage})
}

// statusFromError maps the service error taxonomy onto HTTP statuses.
// Anything unrecognized is an internal failure.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrEmailInUse), errors.Is(err, storage.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestIDMiddleware())

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/refresh", h.RefreshTokens)
		// Logout stays outside AuthMiddleware: it must succeed even
		// when the presented token is garbage.
		authGroup.POST("/logout", h.Logout)

		authGroup.GET("/google", h.OAuthRedirect(oauth.ProviderGoogle))
		authGroup.GET("/google/callback", h.OAuthCallback(oauth.ProviderGoogle))
		authGroup.GET("/github", h.OAuthRedirect(oauth.ProviderGitHub))
		authGroup.GET("/github/callback", h.OAuthCallback(oauth.ProviderGitHub))

		authGroup.Use(AuthMiddleware(h.auth))
		authGroup.GET("/profile", h.GetProfile)
	}

	api := router.Group("/", AuthMiddleware(h.auth))
	{
		api.POST("/groups", h.CreateGroup)
		api.POST("/groups/members", h.AddGroupMember)
		api.POST("/tickets", h.CreateTicket)
		api.POST("/tickets/contributions", h.AddTicketContribution)
		api.POST("/transactions", h.CreateTransaction)
	}

	admin := router.Group("/admin", AuthMiddleware(h.auth), AdminMiddleware(h.users, h.log))
	{
		admin.GET("/users", h.GetAllUsers)
	}

	return router
}

// POST /auth/register
func (h *Handler) Register(c *gin.Context) {
	const op = "handler.Register"

	log := h.log.With(slog.String("op", op))

	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to read request body", slog.Any("error", err))

		newErrorResponse(c, http.StatusBadRequest, "wrong request format")

		return
	}

	if ok := IsValidEmail(req.Email); !ok {
		newErrorResponse(c, http.StatusBadRequest, "not valid email")

		return
	}

	if len(req.Password) < minPasswordLength {
		newErrorResponse(c, http.StatusBadRequest, "password too short")

		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		log.Error("failed to register user", slog.Any("error", err))

		newErrorResponse(c, statusFromError(err), "failed to register")

		return
	}

	c.JSON(http.StatusCreated, user)
}

// POST /auth/login
func (h *Handler) Login(c *gin.Context) {
	const op = "handler.Login"

	log := h.log.With(slog.String("op", op))

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to read request body", slog.Any("error", err))

		newErrorResponse(c, http.StatusBadRequest, "wrong request format")

		return
	}

	pair, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		log.Error("login rejected", slog.Any("error", err))

		newErrorResponse(c, statusFromError(err), "invalid credentials")

		return
	}

	c.JSON(http.StatusOK, pair)
}

// POST /auth/refresh
func (h *Handler) RefreshTokens(c *gin.Context) {
	const op = "handler.RefreshTokens"

	log := h.log.With(slog.String("op", op))

	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		log.Error("refresh token not given", slog.Any("error", err))

		newErrorResponse(c, http.StatusBadRequest, "wrong request format")

		return
	}

	pair, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		log.Error("refresh rejected", slog.Any("error", err))

		newErrorResponse(c, statusFromError(err), "refresh rejected")

		return
	}

	c.JSON(http.StatusOK, pair)
}

// POST /auth/logout
func (h *Handler) Logout(c *gin.Context) {
	const op = "handler.Logout"

	log := h.log.With(slog.String("op", op))

	tokenStr, _ := bearerToken(c)

	if err := h.auth.Logout(c.Request.Context(), tokenStr); err != nil {
		log.Error("failed to revoke sessions", slog.Any("error", err))

		newErrorResponse(c, http.StatusInternalServerError, "internal error")

		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// GET /auth/profile
func (h *Handler) GetProfile(c *gin.Context) {
	const op = "handler.GetProfile"

	log := h.log.With(slog.String("op", op))

	userID, ok := currentUserID(c)
	if !ok {
		newErrorResponse(c, http.StatusUnauthorized, "invalid token")

		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		log.Error("failed to get user", slog.Int64("user_id", userID), slog.Any("error", err))

		newErrorResponse(c, statusFromError(err), "internal error")

		return
	}

	c.JSON(http.StatusOK, user)
}

// GET /admin/users
func (h *Handler) GetAllUsers(c *gin.Context) {
	const op = "handler.GetAllUsers"

	log := h.log.With(slog.String("op", op))

	users, err := h.users.List(c.Request.Context())
	if err != nil {
		log.Error("failed to list users", slog.Any("error", err))

		newErrorResponse(c, http.StatusInternalServerError, "internal error")

		return
	}

	c.JSON(http.StatusOK, users)
}

package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"lottery_backend/internal/models"
)

// POST /groups
func (h *Handler) CreateGroup(c *gin.Context) {
	const op = "handler.CreateGroup"

	log := h.log.With(slog.String("op", op))

	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		newErrorResponse(c, http.StatusBadRequest, "wrong request format")

		return
	}

	group, err := h.groups.Create(c.Request.Context(), req.Name)
	if err != nil {
		log.Error("failed to create group", slog.Any("error", err))

		newErrorResponse(c, statusFromError(err), "failed to create group")

		return
	}

	c.JSON(http.StatusCreated, group)
}

// POST /groups/members
func (h *Handler) AddGroupMember(c *gin.Context) {
	const op = "handler.AddGroupMember"

	log := h.log.With(slog.String("op", op))

	var req models.GroupMember
	if err := c.ShouldBindJSON(&req); err != nil || req.GroupID == 0 || req.UserID == 0 {
		newErrorResponse(c, http.StatusBadRequest, "wrong request format")

		return
	}

	if err := h.groups.AddMember(c.Request.Context(), req.GroupID, req.UserID); err != nil {
		log.Error("failed to add group member", slog.Any("error", err))

		newErrorResponse(c, statusFromError(err), "failed to add member")

		return
	}

	c.JSON(http.StatusCreated, req)
}

// POST /tickets
func (h *Handler) CreateTicket(c *gin.Context) {
	const op = "handler.CreateTicket"

	log := h.log.With(slog.String("op", op))

	var req struct {
		TicketNumber       string `json:"ticket_number"`
		CostCents          int64  `json:"cost_cents"`
		LotteryID          int64  `json:"lottery_id"`
		UserID             *int64 `json:"user_id"`
		GroupID            *int64 `json:"group_id"`
		WinningAmountCents *int64 `json:"winning_amount_cents"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.TicketNumber == "" || req.LotteryID == 0 {
		newErrorResponse(c, http.StatusBadRequest, "wrong request format")

		return
	}

	ticket, err := h.tickets.Create(c.Request.Context(), models.Ticket{
		TicketNumber:       req.TicketNumber,
		CostCents:          req.CostCents,
		LotteryID:          req.LotteryID,
		UserID:             req.UserID,
		GroupID:            req.GroupID,
		WinningAmountCents: req.WinningAmountCents,
	})
	if err != nil {
		log.Error("failed to create ticket", slog.Any("error", err))

		newErrorResponse(c, statusFromError(err), "failed to create ticket")

		return
	}

	c.JSON(http.StatusCreated, ticket)
}

// POST /tickets/contributions
func (h *Handler) AddTicketContribution(c *gin.Context) {
	const op = "handler.AddTicketContribution"

	log := h.log.With(slog.String("op", op))

	var req struct {
		TicketID    int64 `json:"ticket_id"`
		UserID      int64 `json:"user_id"`
		AmountCents int64 `json:"amount_cents"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.TicketID == 0 || req.UserID == 0 {
		newErrorResponse(c, http.StatusBadRequest, "wrong request format")

		return
	}

	contribution, err := h.tickets.AddContribution(c.Request.Context(), models.TicketContribution{
		TicketID:    req.TicketID,
		UserID:      req.UserID,
		AmountCents: req.AmountCents,
	})
	if err != nil {
		log.Error("failed to add contribution", slog.Any("error", err))

		newErrorResponse(c, statusFromError(err), "failed to add contribution")

		return
	}

	c.JSON(http.StatusCreated, contribution)
}

// POST /transactions
func (h *Handler) CreateTransaction(c *gin.Context) {
	const op = "handler.CreateTransaction"

	log := h.log.With(slog.String("op", op))

	var req struct {
		AmountCents int64                  `json:"amount_cents"`
		Type        models.TransactionType `json:"transaction_type"`
		UserID      int64                  `json:"user_id"`
		TicketID    *int64                 `json:"ticket_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == 0 || req.AmountCents <= 0 {
		newErrorResponse(c, http.StatusBadRequest, "wrong request format")

		return
	}

	switch req.Type {
	case models.TransactionDeposit, models.TransactionWithdrawal,
		models.TransactionTicketPurchase, models.TransactionWinnings:
	default:
		newErrorResponse(c, http.StatusBadRequest, "unknown transaction type")

		return
	}

	tr, err := h.transactions.Create(c.Request.Context(), models.Transaction{
		AmountCents: req.AmountCents,
		Type:        req.Type,
		UserID:      req.UserID,
		TicketID:    req.TicketID,
	})
	if err != nil {
		log.Error("failed to create transaction", slog.Any("error", err))

		newErrorResponse(c, statusFromError(err), "failed to create transaction")

		return
	}

	c.JSON(http.StatusCreated, tr)
}

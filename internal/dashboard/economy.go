package dashboard

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/MarkoPoloResearchLab/communityledger/pkg/ledger"
	"github.com/gin-gonic/gin"
)

// economyActionRequest mirrors the dashboard's add/remove/set form.
type economyActionRequest struct {
	UserID string `json:"user_id"`
	Action string `json:"action"`
	Target string `json:"target"`
	Amount int64  `json:"amount"`
}

func (handler *httpHandler) handleEconomy(ctx *gin.Context) {
	requestCtx, cancel := handler.requestContext(ctx)
	defer cancel()
	overview, err := handler.service.Economy().Overview(requestCtx)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, overview)
}

func (handler *httpHandler) handleLeaderboard(ctx *gin.Context) {
	limit, err := queryInt(ctx, "limit")
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	requestCtx, cancel := handler.requestContext(ctx)
	defer cancel()
	entries, err := handler.service.Economy().Leaderboard(requestCtx, ledger.LeaderboardQuery{Limit: limit})
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (handler *httpHandler) handleEconomyAction(ctx *gin.Context) {
	var request economyActionRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		invalidPayload(ctx)
		return
	}
	user, err := ledger.NewUserID(request.UserID)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	target := request.Target
	if target == "" {
		target = "balance"
	}
	requestCtx, cancel := handler.requestContext(ctx)
	defer cancel()
	account, err := handler.service.Economy().Adjust(requestCtx, ledger.AccountAdjustment{
		User:   user,
		Action: ledger.AdjustAction(request.Action),
		Target: target,
		Amount: request.Amount,
	})
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"account": account})
}

// queryInt reads an optional non-negative integer query parameter.
func queryInt(ctx *gin.Context, name string) (int, error) {
	raw := ctx.Query(name)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", ledger.ErrValidation, name)
	}
	return value, nil
}

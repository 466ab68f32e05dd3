package dashboard

import (
	"net/http"

	"github.com/MarkoPoloResearchLab/communityledger/pkg/ledger"
	"github.com/gin-gonic/gin"
)

type createSessionRequest struct {
	HostID        string `json:"host_id"`
	CohostID      string `json:"cohost_id"`
	Priority      string `json:"priority"`
	FRPSpeedLimit int64  `json:"frp_speed"`
	HouseClaiming bool   `json:"house_claiming"`
	SessionLink   string `json:"session_link"`
}

type sessionStatusRequest struct {
	Status string `json:"status"`
}

func (handler *httpHandler) handleListSessions(ctx *gin.Context) {
	requestCtx, cancel := handler.requestContext(ctx)
	defer cancel()
	list := handler.service.Sessions().List
	if ctx.Query("active") == "true" {
		list = handler.service.Sessions().ListActive
	}
	sessions, err := list(requestCtx)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func (handler *httpHandler) handleCreateSession(ctx *gin.Context) {
	var request createSessionRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		invalidPayload(ctx)
		return
	}
	hostID := request.HostID
	if hostID == "" {
		hostID = getClaims(ctx).GetUserID()
	}
	host, err := ledger.NewUserID(hostID)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	requestCtx, cancel := handler.requestContext(ctx)
	defer cancel()
	session, err := handler.service.Sessions().Create(requestCtx, ledger.SessionRequest{
		Host:          host,
		Cohost:        request.CohostID,
		Priority:      request.Priority,
		FRPSpeedLimit: request.FRPSpeedLimit,
		HouseClaiming: request.HouseClaiming,
		Link:          request.SessionLink,
	})
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"session": session})
}

func (handler *httpHandler) handleEndSession(ctx *gin.Context) {
	handler.updateSessionStatus(ctx, string(ledger.SessionEnded))
}

func (handler *httpHandler) handleSessionStatus(ctx *gin.Context) {
	var request sessionStatusRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		invalidPayload(ctx)
		return
	}
	handler.updateSessionStatus(ctx, request.Status)
}

func (handler *httpHandler) updateSessionStatus(ctx *gin.Context, rawStatus string) {
	id, err := ledger.ParseSessionID(ctx.Param("id"))
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	status, err := ledger.ParseSessionStatus(rawStatus)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	requester, err := handler.requester(ctx)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	requestCtx, cancel := handler.requestContext(ctx)
	defer cancel()
	session, err := handler.service.Sessions().UpdateStatus(requestCtx, id, status, requester)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"session": session})
}

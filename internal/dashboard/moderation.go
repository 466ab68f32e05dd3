package dashboard

import (
	"net/http"

	"github.com/MarkoPoloResearchLab/communityledger/internal/store/gormstore"
	"github.com/MarkoPoloResearchLab/communityledger/pkg/ledger"
	"github.com/gin-gonic/gin"
)

func (handler *httpHandler) handleModeration(ctx *gin.Context) {
	limit, err := queryInt(ctx, "limit")
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	if limit == 0 {
		limit = defaultRecentLimit
	}
	requestCtx, cancel := handler.requestContext(ctx)
	defer cancel()
	var warnings []ledger.WarningRecord
	if userID := ctx.Query("user_id"); userID != "" {
		user, parseErr := ledger.NewUserID(userID)
		if parseErr != nil {
			handler.respondError(ctx, parseErr)
			return
		}
		warnings, err = handler.service.Warnings().ListFor(requestCtx, user)
	} else {
		warnings, err = handler.service.Warnings().Recent(requestCtx, limit)
	}
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	total, err := handler.service.Warnings().Count(requestCtx)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"warnings": warnings, "total": total})
}

func (handler *httpHandler) handleSettings(ctx *gin.Context) {
	requestCtx, cancel := handler.requestContext(ctx)
	defer cancel()
	settings, err := handler.service.Settings(requestCtx)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"settings": settings})
}

func (handler *httpHandler) handleSaveSettings(ctx *gin.Context) {
	var settings ledger.SettingsDocument
	if err := ctx.ShouldBindJSON(&settings); err != nil {
		invalidPayload(ctx)
		return
	}
	requestCtx, cancel := handler.requestContext(ctx)
	defer cancel()
	saved, err := handler.service.SaveSettings(requestCtx, settings)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"settings": saved})
}

func (handler *httpHandler) handleAudit(ctx *gin.Context) {
	if handler.audit == nil {
		ctx.JSON(http.StatusServiceUnavailable, errorResponse("audit_disabled", "operation journal is not configured"))
		return
	}
	limit, err := queryInt(ctx, "limit")
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	requestCtx, cancel := handler.requestContext(ctx)
	defer cancel()
	records, err := handler.audit.ListOperations(requestCtx, gormstore.OperationQuery{
		Document: ledger.DocumentName(ctx.Query("document")),
		UserID:   ctx.Query("user_id"),
		Status:   ctx.Query("status"),
		Limit:    limit,
	})
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"operations": records})
}

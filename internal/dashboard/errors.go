package dashboard

import (
	"context"
	"errors"
	"net/http"

	"github.com/MarkoPoloResearchLab/communityledger/pkg/ledger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// statusClientClosedRequest reports a request abandoned by its caller.
const statusClientClosedRequest = 499

func (handler *httpHandler) respondError(ctx *gin.Context, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		ctx.JSON(http.StatusGatewayTimeout, errorResponse("timeout", "request timed out"))
		return
	}
	class := ledger.ErrorClass(err)
	switch class {
	case ledger.ErrorClassValidation:
		ctx.JSON(http.StatusBadRequest, errorResponse(class, err.Error()))
	case ledger.ErrorClassNotFound:
		ctx.JSON(http.StatusNotFound, errorResponse(class, err.Error()))
	case ledger.ErrorClassConflict:
		ctx.JSON(http.StatusConflict, errorResponse(class, err.Error()))
	case ledger.ErrorClassPermission:
		ctx.JSON(http.StatusForbidden, errorResponse(class, err.Error()))
	case ledger.ErrorClassCanceled:
		ctx.JSON(statusClientClosedRequest, errorResponse(class, "request canceled"))
	default:
		handler.logger.Error("dashboard request failed", zap.String("path", ctx.FullPath()), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, errorResponse("internal_error", "internal error"))
	}
}

func errorResponse(code string, message string) gin.H {
	return gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	}
}

func invalidPayload(ctx *gin.Context) {
	ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "expected JSON body"))
}

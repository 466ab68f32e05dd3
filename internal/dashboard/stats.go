package dashboard

import (
	"net/http"

	"github.com/MarkoPoloResearchLab/communityledger/pkg/ledger"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

type overviewResponse struct {
	Vehicles ledger.VehicleStats `json:"vehicles"`
	Economy  ledger.EconomyStats `json:"economy"`
	Sessions ledger.SessionStats `json:"sessions"`
	Warnings int                 `json:"warnings"`
}

// handleStats loads every document concurrently for the overview page.
func (handler *httpHandler) handleStats(ctx *gin.Context) {
	requestCtx, cancel := handler.requestContext(ctx)
	defer cancel()
	var overview overviewResponse
	group, groupCtx := errgroup.WithContext(requestCtx)
	group.Go(func() error {
		stats, err := handler.service.Vehicles().Stats(groupCtx)
		overview.Vehicles = stats
		return err
	})
	group.Go(func() error {
		stats, err := handler.service.Economy().Stats(groupCtx)
		overview.Economy = stats
		return err
	})
	group.Go(func() error {
		stats, err := handler.service.Sessions().Stats(groupCtx, handler.statsWindow)
		overview.Sessions = stats
		return err
	})
	group.Go(func() error {
		count, err := handler.service.Warnings().Count(groupCtx)
		overview.Warnings = count
		return err
	})
	if err := group.Wait(); err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, overview)
}

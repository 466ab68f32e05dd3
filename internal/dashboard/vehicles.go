package dashboard

import (
	"net/http"

	"github.com/MarkoPoloResearchLab/communityledger/pkg/ledger"
	"github.com/gin-gonic/gin"
)

type registerVehicleRequest struct {
	UserID string `json:"user_id"`
	Make   string `json:"make"`
	Model  string `json:"model"`
	Color  string `json:"color"`
	State  string `json:"state"`
	Plate  string `json:"plate"`
}

type transferVehicleRequest struct {
	Plate      string `json:"plate"`
	State      string `json:"state"`
	NewOwnerID string `json:"new_owner_id"`
}

func (handler *httpHandler) handleListVehicles(ctx *gin.Context) {
	requestCtx, cancel := handler.requestContext(ctx)
	defer cancel()
	vehicles, err := handler.service.Vehicles().Search(requestCtx, ctx.Query("q"), ledger.VehicleFilter{
		State: ctx.Query("state"),
		Owner: ctx.Query("owner"),
	})
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"vehicles": vehicles, "total": len(vehicles)})
}

func (handler *httpHandler) handleVehicleStats(ctx *gin.Context) {
	requestCtx, cancel := handler.requestContext(ctx)
	defer cancel()
	stats, err := handler.service.Vehicles().Stats(requestCtx)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, stats)
}

func (handler *httpHandler) handleRegisterVehicle(ctx *gin.Context) {
	var request registerVehicleRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		invalidPayload(ctx)
		return
	}
	owner, err := ledger.NewUserID(request.UserID)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	requestCtx, cancel := handler.requestContext(ctx)
	defer cancel()
	vehicle, err := handler.service.Vehicles().Register(requestCtx, ledger.VehicleRegistration{
		Owner: owner,
		Make:  request.Make,
		Model: request.Model,
		Color: request.Color,
		State: request.State,
		Plate: request.Plate,
	})
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"vehicle": vehicle})
}

func (handler *httpHandler) handleRemoveVehicle(ctx *gin.Context) {
	requestCtx, cancel := handler.requestContext(ctx)
	defer cancel()
	vehicle, err := handler.service.Vehicles().Remove(requestCtx, ctx.Param("plate"), ctx.Param("state"))
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"vehicle": vehicle})
}

func (handler *httpHandler) handleTransferVehicle(ctx *gin.Context) {
	var request transferVehicleRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		invalidPayload(ctx)
		return
	}
	newOwner, err := ledger.NewUserID(request.NewOwnerID)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	requestCtx, cancel := handler.requestContext(ctx)
	defer cancel()
	transfer, err := handler.service.Vehicles().Transfer(requestCtx, request.Plate, request.State, newOwner)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"vehicle": transfer.Vehicle, "previous_owner_id": transfer.PreviousOwner})
}

func (handler *httpHandler) handlePurgeTestVehicles(ctx *gin.Context) {
	requestCtx, cancel := handler.requestContext(ctx)
	defer cancel()
	removed, err := handler.service.Vehicles().PurgeTestRecords(requestCtx)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"removed": removed})
}

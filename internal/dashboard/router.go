// Package dashboard serves the web dashboard's JSON API over the ledgers.
package dashboard

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/MarkoPoloResearchLab/communityledger/internal/store/gormstore"
	"github.com/MarkoPoloResearchLab/communityledger/pkg/ledger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/tyemirov/tauth/pkg/sessionvalidator"
	"go.uber.org/zap"
)

const (
	claimsContextKey      = "auth_claims"
	defaultRequestTimeout = 5 * time.Second
	defaultStatsWindow    = 7 * 24 * time.Hour
	defaultRecentLimit    = 25
)

// AuditReader lists journaled operations.
type AuditReader interface {
	ListOperations(ctx context.Context, query gormstore.OperationQuery) ([]gormstore.OperationRecord, error)
}

// Options configures the dashboard router.
type Options struct {
	AllowedOrigins []string
	AdminRoles     []string
	RequestTimeout time.Duration
	StatsWindow    time.Duration
	Logger         *zap.Logger
	// Audit is optional; without it /api/audit answers 503.
	Audit AuditReader
}

type httpHandler struct {
	logger      *zap.Logger
	service     *ledger.Service
	audit       AuditReader
	adminRoles  []string
	timeout     time.Duration
	statsWindow time.Duration
}

// NewRouter builds the gin engine. Every /api route requires a valid session;
// mutating routes additionally require one of the admin roles.
func NewRouter(service *ledger.Service, validator *sessionvalidator.Validator, options Options) *gin.Engine {
	handler := &httpHandler{
		logger:      options.Logger,
		service:     service,
		audit:       options.Audit,
		adminRoles:  options.AdminRoles,
		timeout:     options.RequestTimeout,
		statsWindow: options.StatsWindow,
	}
	if handler.logger == nil {
		handler.logger = zap.NewNop()
	}
	if handler.timeout <= 0 {
		handler.timeout = defaultRequestTimeout
	}
	if handler.statsWindow <= 0 {
		handler.statsWindow = defaultStatsWindow
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     options.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Origin", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	api.Use(validator.GinMiddleware(claimsContextKey))
	api.GET("/session", handler.handleSession)
	api.GET("/stats", handler.handleStats)
	api.GET("/vehicles", handler.handleListVehicles)
	api.GET("/vehicles/stats", handler.handleVehicleStats)
	api.GET("/economy", handler.handleEconomy)
	api.GET("/economy/leaderboard", handler.handleLeaderboard)
	api.GET("/sessions", handler.handleListSessions)
	api.GET("/moderation", handler.handleModeration)
	api.GET("/settings", handler.handleSettings)

	admin := api.Group("")
	admin.Use(handler.requireAdmin)
	admin.POST("/vehicles", handler.handleRegisterVehicle)
	admin.DELETE("/vehicles/:state/:plate", handler.handleRemoveVehicle)
	admin.POST("/vehicles/transfer", handler.handleTransferVehicle)
	admin.POST("/vehicles/purge-test", handler.handlePurgeTestVehicles)
	admin.POST("/economy/action", handler.handleEconomyAction)
	admin.POST("/sessions", handler.handleCreateSession)
	admin.POST("/sessions/:id/end", handler.handleEndSession)
	admin.POST("/sessions/:id/status", handler.handleSessionStatus)
	admin.POST("/settings", handler.handleSaveSettings)
	admin.GET("/audit", handler.handleAudit)

	return router
}

func (handler *httpHandler) requireAdmin(ctx *gin.Context) {
	claims := getClaims(ctx)
	if claims == nil {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse("unauthorized", "missing session"))
		return
	}
	if !handler.isAdmin(claims) {
		ctx.AbortWithStatusJSON(http.StatusForbidden, errorResponse("forbidden", "admin role required"))
		return
	}
	ctx.Next()
}

func (handler *httpHandler) isAdmin(claims *sessionvalidator.Claims) bool {
	for _, role := range claims.GetUserRoles() {
		if slices.ContainsFunc(handler.adminRoles, func(admin string) bool { return strings.EqualFold(admin, role) }) {
			return true
		}
	}
	return false
}

// requester resolves the signed-in user through the admin-role oracle.
func (handler *httpHandler) requester(ctx *gin.Context) (ledger.Requester, error) {
	claims := getClaims(ctx)
	user, err := ledger.NewUserID(claims.GetUserID())
	if err != nil {
		return ledger.Requester{}, err
	}
	oracle := ledger.PermissionFunc(func(context.Context, ledger.UserID) (bool, error) {
		return handler.isAdmin(claims), nil
	})
	return ledger.ResolveRequester(ctx.Request.Context(), oracle, user)
}

func (handler *httpHandler) requestContext(ctx *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx.Request.Context(), handler.timeout)
}

func (handler *httpHandler) handleSession(ctx *gin.Context) {
	claims := getClaims(ctx)
	if claims == nil {
		ctx.JSON(http.StatusUnauthorized, errorResponse("unauthorized", "missing session"))
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"user_id":    claims.GetUserID(),
		"email":      claims.GetUserEmail(),
		"display":    claims.GetUserDisplayName(),
		"avatar_url": claims.GetUserAvatarURL(),
		"roles":      claims.GetUserRoles(),
		"admin":      handler.isAdmin(claims),
		"expires":    claims.GetExpiresAt().Unix(),
	})
}

func getClaims(ctx *gin.Context) *sessionvalidator.Claims {
	claimsValue, ok := ctx.Get(claimsContextKey)
	if !ok {
		return nil
	}
	claims, _ := claimsValue.(*sessionvalidator.Claims)
	return claims
}

package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/MarkoPoloResearchLab/communityledger/internal/daemon"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	flagDataDir            = "data-dir"
	flagGRPCListenAddr     = "grpc-listen-addr"
	flagHTTPListenAddr     = "http-listen-addr"
	flagAuditDatabaseURL   = "audit-database-url"
	flagAllowedOrigins     = "allowed-origins"
	flagJWTSigningKey      = "jwt-signing-key"
	flagJWTIssuer          = "jwt-issuer"
	flagJWTCookieName      = "jwt-cookie-name"
	flagAdminRoles         = "admin-roles"
	flagServiceTokenKey    = "service-token-key"
	flagServiceTokenIssuer = "service-token-issuer"
	flagLogDevelopment     = "log-development"
	flagRequestTimeout     = "request-timeout"
	envPrefix              = "RPLEDGER"
)

func main() {
	rootCmd := newRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "rpledgerd: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cfg := daemon.Config{}
	cmd := &cobra.Command{
		Use:           "rpledgerd",
		Short:         "Community record store: gRPC for the bot, HTTP for the dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(cmd, &cfg)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := daemon.NewLogger(cfg.LogDevelopment)
			if err != nil {
				return fmt.Errorf("logger init: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			logger.Info("record store starting", zap.String("data_dir", cfg.DataDir))
			return daemon.Run(ctx, cfg, logger)
		},
	}

	cmd.Flags().String(flagDataDir, "", "directory holding the JSON documents")
	cmd.Flags().String(flagGRPCListenAddr, "", "gRPC listen address for the chat bot")
	cmd.Flags().String(flagHTTPListenAddr, "", "HTTP listen address for the dashboard")
	cmd.Flags().String(flagAuditDatabaseURL, "", "operation journal database (postgres:// or sqlite://); empty disables it")
	cmd.Flags().String(flagAllowedOrigins, "", "comma-separated list of allowed CORS origins")
	cmd.Flags().String(flagJWTSigningKey, "", "TAuth JWT signing key (required)")
	cmd.Flags().String(flagJWTIssuer, "", "expected JWT issuer")
	cmd.Flags().String(flagJWTCookieName, "", "JWT cookie name")
	cmd.Flags().String(flagAdminRoles, "", "comma-separated session roles allowed to mutate records")
	cmd.Flags().String(flagServiceTokenKey, "", "HS256 key for bot service tokens; empty disables the check")
	cmd.Flags().String(flagServiceTokenIssuer, "", "expected service token issuer")
	cmd.Flags().Bool(flagLogDevelopment, false, "human-readable development logging")
	cmd.Flags().Duration(flagRequestTimeout, 0, "per-request timeout for dashboard calls (e.g. 5s)")

	return cmd
}

func loadConfig(cmd *cobra.Command, cfg *daemon.Config) error {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for _, flagName := range []string{
		flagDataDir, flagGRPCListenAddr, flagHTTPListenAddr, flagAuditDatabaseURL, flagAllowedOrigins,
		flagJWTSigningKey, flagJWTIssuer, flagJWTCookieName, flagAdminRoles, flagServiceTokenKey,
		flagServiceTokenIssuer, flagLogDevelopment, flagRequestTimeout,
	} {
		if err := v.BindPFlag(flagName, cmd.Flags().Lookup(flagName)); err != nil {
			return err
		}
	}

	if !v.IsSet(flagJWTSigningKey) {
		return fmt.Errorf("%s is required", flagJWTSigningKey)
	}

	cfg.DataDir = strings.TrimSpace(v.GetString(flagDataDir))
	cfg.GRPCListenAddr = strings.TrimSpace(v.GetString(flagGRPCListenAddr))
	cfg.HTTPListenAddr = strings.TrimSpace(v.GetString(flagHTTPListenAddr))
	cfg.AuditDatabaseURL = strings.TrimSpace(v.GetString(flagAuditDatabaseURL))
	cfg.AllowedOrigins = daemon.ParseList(v.GetString(flagAllowedOrigins))
	cfg.JWTSigningKey = v.GetString(flagJWTSigningKey)
	cfg.JWTIssuer = strings.TrimSpace(v.GetString(flagJWTIssuer))
	cfg.JWTCookieName = strings.TrimSpace(v.GetString(flagJWTCookieName))
	cfg.AdminRoles = daemon.ParseList(v.GetString(flagAdminRoles))
	cfg.ServiceTokenKey = v.GetString(flagServiceTokenKey)
	cfg.ServiceIssuer = strings.TrimSpace(v.GetString(flagServiceTokenIssuer))
	cfg.LogDevelopment = v.GetBool(flagLogDevelopment)
	cfg.RequestTimeout = v.GetDuration(flagRequestTimeout)

	return cfg.Validate()
}

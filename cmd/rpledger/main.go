package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/MarkoPoloResearchLab/communityledger/internal/grpcserver"
	"github.com/MarkoPoloResearchLab/communityledger/internal/oplog"
	"github.com/MarkoPoloResearchLab/communityledger/internal/store/docstore"
	"github.com/MarkoPoloResearchLab/communityledger/pkg/ledger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	flagDataDir            = "data-dir"
	flagVerbose            = "verbose"
	flagServiceTokenKey    = "service-token-key"
	flagServiceTokenIssuer = "service-token-issuer"
	flagSubject            = "subject"
	flagTTL                = "ttl"
	flagStatsWindow        = "window"
	envPrefix              = "RPLEDGER"
	defaultDataDir         = "data"
	defaultSubject         = "bot"
	defaultTokenTTL        = 30 * 24 * time.Hour
	defaultStatsWindow     = 7 * 24 * time.Hour
)

func main() {
	rootCmd := newRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "rpledger: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "rpledger",
		Short:         "Maintenance jobs for the community record store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := v.BindPFlags(cmd.InheritedFlags()); err != nil {
				return err
			}
			return v.BindPFlags(cmd.Flags())
		},
	}
	cmd.PersistentFlags().String(flagDataDir, defaultDataDir, "directory holding the JSON documents")
	cmd.PersistentFlags().Bool(flagVerbose, false, "log every ledger operation to stderr")

	repair := &cobra.Command{
		Use:   "repair-vehicles",
		Short: "Back up vehicles.json, drop invalid or duplicate records and normalize the rest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, v, func(ctx context.Context, service *ledger.Service) error {
				report, err := service.Vehicles().Repair(ctx)
				if err != nil {
					return err
				}
				if report.BackupPath != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "backup: %s\n", report.BackupPath)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "kept %d, dropped %d\n", report.Kept, report.Dropped)
				return nil
			})
		},
	}

	purge := &cobra.Command{
		Use:   "purge-test-vehicles",
		Short: "Remove vehicles registered by test scripts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, v, func(ctx context.Context, service *ledger.Service) error {
				removed, err := service.Vehicles().PurgeTestRecords(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %d test vehicles\n", removed)
				return nil
			})
		},
	}

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Print record statistics as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, v, func(ctx context.Context, service *ledger.Service) error {
				return printStats(ctx, cmd.OutOrStdout(), service, v.GetDuration(flagStatsWindow))
			})
		},
	}
	stats.Flags().Duration(flagStatsWindow, defaultStatsWindow, "window for recent registrations and sessions")

	mintToken := &cobra.Command{
		Use:   "mint-token",
		Short: "Sign a service token for the chat bot's gRPC client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(v.GetString(flagServiceTokenKey)) == "" {
				return fmt.Errorf("%s is required", flagServiceTokenKey)
			}
			token, err := grpcserver.MintServiceToken(
				v.GetString(flagServiceTokenKey),
				strings.TrimSpace(v.GetString(flagServiceTokenIssuer)),
				strings.TrimSpace(v.GetString(flagSubject)),
				v.GetDuration(flagTTL),
				time.Now().UTC(),
			)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	mintToken.Flags().String(flagServiceTokenKey, "", "HS256 key shared with rpledgerd (required)")
	mintToken.Flags().String(flagServiceTokenIssuer, "", "issuer claim")
	mintToken.Flags().String(flagSubject, defaultSubject, "subject claim")
	mintToken.Flags().Duration(flagTTL, defaultTokenTTL, "token lifetime")

	cmd.AddCommand(repair, purge, stats, mintToken)
	return cmd
}

func withService(cmd *cobra.Command, v *viper.Viper, run func(ctx context.Context, service *ledger.Service) error) error {
	logger := zap.NewNop()
	if v.GetBool(flagVerbose) {
		developmentLogger, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("logger init: %w", err)
		}
		logger = developmentLogger
	}
	defer func() { _ = logger.Sync() }()

	store, err := docstore.New(strings.TrimSpace(v.GetString(flagDataDir)), docstore.WithLogger(logger))
	if err != nil {
		return err
	}
	service, err := ledger.NewService(store, time.Now, ledger.WithOperationLogger(oplog.New(logger)))
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return run(ctx, service)
}

type statsReport struct {
	Vehicles ledger.VehicleStats `json:"vehicles"`
	Economy  ledger.EconomyStats `json:"economy"`
	Sessions ledger.SessionStats `json:"sessions"`
	Warnings int                 `json:"warnings"`
}

func printStats(ctx context.Context, out io.Writer, service *ledger.Service, window time.Duration) error {
	var (
		report statsReport
		err    error
	)
	if report.Vehicles, err = service.Vehicles().Stats(ctx); err != nil {
		return err
	}
	if report.Economy, err = service.Economy().Stats(ctx); err != nil {
		return err
	}
	if report.Sessions, err = service.Sessions().Stats(ctx, window); err != nil {
		return err
	}
	if report.Warnings, err = service.Warnings().Count(ctx); err != nil {
		return err
	}
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/Ajpantuso/zone-grouper/internal/config"
	"github.com/Ajpantuso/zone-grouper/internal/controller"
	"github.com/Ajpantuso/zone-grouper/internal/health"
	"github.com/Ajpantuso/zone-grouper/internal/metrics"
	"github.com/Ajpantuso/zone-grouper/internal/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

var (
	cfgFile string
	logger  *zap.SugaredLogger
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zone-grouper",
		Short: "Zone, rack and host aware member groups for cluster data placement",
		Long: `zone-grouper assigns cluster members to member groups by locality
	(availability zone, then rack, then host) so that primary and backup
	copies of data can be placed in different failure domains.`,
		SilenceUsage: true,
	}

	viper, err := SetupViper(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "setting up configuration: %v\n", err)
		os.Exit(1)
	}

	cmd.AddCommand(newVersionCommand())
	cmd.AddCommand(newGroupCommand(viper))
	cmd.AddCommand(newAssignmentCommand(viper))

	cmd.PersistentPreRunE = initializeLogging(viper)
	cmd.RunE = run(viper)

	return cmd
}

// initializeLogging sets up the logger based on config
func initializeLogging(viper *viper.Viper) func(*cobra.Command, []string) error {
	return func(c *cobra.Command, s []string) error {
		LoadOptions(viper)

		level := viper.GetString("log-level")
		format := viper.GetString("log-format")

		var config zap.Config
		if format == "console" {
			config = zap.NewDevelopmentConfig()
		} else {
			config = zap.NewProductionConfig()
		}

		config.Level = zap.NewAtomicLevelAt(parseLogLevel(level))
		config.OutputPaths = []string{"stderr"}
		config.ErrorOutputPaths = []string{"stderr"}

		baseLogger, err := config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		logger = baseLogger.Sugar()
		return nil
	}
}

func parseLogLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zap.DebugLevel
	case "info":
		return zap.InfoLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

func run(viper *viper.Viper) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer logger.Sync()

		logger.Infow("Starting zone-grouper",
			"version", config.Version,
			"group_type", viper.GetString("group-type"),
			"membership_source", viper.GetString("membership-source"),
			"discovery", viper.GetString("discovery"),
		)

		comps, err := buildComponents(viper, logger)
		if err != nil {
			logger.Errorw("Failed to build components", "error", err)
			return err
		}
		defer comps.Close()

		m := metrics.NewMetrics(nil)
		hc := health.NewHealthChecker(logger)
		grpcServer := server.NewServer(
			server.WithLogger{Logger: logger},
			server.WithEndPoint(viper.GetString("grpc-endpoint")),
		)

		opts := []controller.ControllerOption{
			controller.WithLogger{Logger: logger},
			controller.WithGroupType(comps.groupType),
			controller.WithResyncInterval(viper.GetDuration("resync-interval")),
			controller.WithRetry{
				InitialInterval: viper.GetDuration("retry-initial-interval"),
				MaxRetries:      viper.GetUint64("max-retries"),
			},
			controller.WithMetrics{Metrics: m},
			controller.WithReadiness{Readiness: hc},
			controller.WithServing{Serving: grpcServer},
		}
		if comps.publisher != nil {
			opts = append(opts, controller.WithPublisher{Publisher: comps.publisher})
		}
		ctrl := controller.NewController(comps.source, comps.factory, opts...)

		g, ctx := errgroup.WithContext(cmd.Context())

		// Metrics and health check HTTP server
		g.Go(func() error {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			mux.HandleFunc("/healthz", hc.Liveness)
			mux.HandleFunc("/ready", hc.Readiness)

			srv := &http.Server{
				Addr:              viper.GetString("metrics-bind-address"),
				Handler:           mux,
				ReadHeaderTimeout: 5 * time.Second,
			}
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(shutdownCtx)
			}()

			logger.Infow("Starting metrics server", "address", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Errorw("Metrics server error", "error", err)
				return err
			}
			return nil
		})

		g.Go(func() error {
			return grpcServer.Run(ctx)
		})

		g.Go(func() error {
			return ctrl.Run(ctx)
		})

		if err := g.Wait(); err != nil {
			logger.Errorw("zone-grouper failed", "error", err)
			return err
		}

		logger.Info("zone-grouper stopped")
		return nil
	}
}

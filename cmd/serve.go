package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/candidate-matcher/internal/metrics"
	"github.com/spigell/candidate-matcher/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chat and dataset endpoints over HTTP",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "address to listen on (default :8080)")
	viper.BindPFlag("listen", serveCmd.Flags().Lookup("listen"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, config := setup()
	logger.Info("starting the candidate-matcher", zap.String("version", version))

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		logger.Fatal("registering metrics", zap.Error(err))
	}

	directory := newDirectory(config, logger)

	service, err := newChatService(ctx, config, directory, logger)
	if err != nil {
		logger.Fatal("building chat service", zap.Error(err))
	}

	srv := server.New(service, directory, server.Config{
		RateLimitPerMin: config.HTTP.RateLimitPerMin,
		CORSOrigins:     config.HTTP.CORSOrigins,
	}, logger.Named("http"))

	if err := srv.ListenAndServe(ctx, config.Listen); err != nil {
		logger.Fatal("serving http", zap.Error(err))
	}
}

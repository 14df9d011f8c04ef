package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tripdesk/intentcore/internal/initialization"
	"github.com/tripdesk/intentcore/internal/server"
)

func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the classification HTTP service",
		Long:  `Start the HTTP service, warming the example embedding cache first so the first request does not pay the provider round-trips.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	config, err := initialization.LoadConfig()
	if err != nil {
		return err
	}

	deps, err := initialization.BuildDependencies(config)
	if err != nil {
		return err
	}

	log.Info().
		Int("intents", deps.Catalog.Len()).
		Str("address", config.HTTPAddress).
		Msg("Starting classification service")

	// Degraded intents stay out of scoring until a later regenerate; this
	// is a warning, not a startup failure.
	if err := deps.Catalog.EnsureAll(ctx); err != nil {
		log.Warn().Err(err).Msg("Embedding warm-up incomplete")
	}

	app := server.NewHTTPServer(server.HTTPServerDependencies{
		ClassificationController: deps.ClassificationController,
	})

	go func() {
		<-ctx.Done()
		log.Info().Msg("Shutting down")
		if err := app.Shutdown(); err != nil {
			log.Error().Err(err).Msg("Server shutdown failed")
		}
	}()

	if err := app.Listen(config.HTTPAddress); err != nil {
		log.Error().Err(err).Msg("Server stopped")
		return err
	}
	return nil
}

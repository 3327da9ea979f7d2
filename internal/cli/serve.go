package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/budgetbook/backend/internal/auth"
	"github.com/budgetbook/backend/internal/config"
	v1 "github.com/budgetbook/backend/internal/controllers/v1"
	"github.com/budgetbook/backend/internal/events"
	"github.com/budgetbook/backend/internal/models"
	"github.com/budgetbook/backend/internal/registry"
	"github.com/budgetbook/backend/internal/router"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}

	cmd.Flags().String("listen", "", "address to listen on (env "+config.KeyListen+")")
	_ = a.v.BindPFlag(config.KeyListen, cmd.Flags().Lookup("listen"))

	return cmd
}

func (a *app) serve(ctx context.Context) error {
	cfg := a.cfg
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := connect(cfg.DatabaseURL); err != nil {
		return err
	}
	defer closeDB()

	reg := registry.New(models.DB)
	if err := reg.Load(ctx); err != nil {
		return err
	}

	if len(reg.MainCategories()) == 0 {
		log.Warn().Msg("there are no expense categories, run the seed command to create the default ones")
	}

	provider, err := auth.NewLocalProvider(models.DB, auth.Options{
		Secret:     cfg.JWTSecret,
		SessionTTL: cfg.SessionTTL,
		Mailer:     auth.LogMailer{},
	})
	if err != nil {
		return err
	}
	defer provider.Close()

	var publisher events.Publisher = events.Noop{}
	if cfg.AMQPURL != "" {
		publisher, err = events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return err
		}
		log.Info().Str("exchange", cfg.AMQPExchange).Msg("publishing events to AMQP")
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warn().Err(err).Msg("closing the event publisher failed")
		}
	}()

	r, teardown, err := router.Config(cfg)
	if err != nil {
		return err
	}
	defer teardown()

	router.AttachRoutes(v1.New(models.DB, provider, reg, publisher, cfg.Location, cfg.Currency), r.Group("/"))

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("address", cfg.Listen).Str("url", cfg.APIURL).Msg("listening")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

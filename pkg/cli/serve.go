package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ecoloop/ecoloop/pkg/cli/config"
	controller "github.com/ecoloop/ecoloop/pkg/controller/http"
	"github.com/ecoloop/ecoloop/pkg/usecase"
	"github.com/ecoloop/ecoloop/pkg/utils/metrics"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

const shutdownTimeout = 10 * time.Second

func cmdServe() *cli.Command {
	var (
		serverCfg    config.Server
		firestoreCfg config.Firestore
		mailCfg      config.Mail
		visionCfg    config.Vision
		slackCfg     config.Slack
		impactCfg    config.Impact
	)

	flags := joinFlags(
		serverCfg.Flags(),
		firestoreCfg.Flags(),
		mailCfg.Flags(),
		visionCfg.Flags(),
		slackCfg.Flags(),
		impactCfg.Flags(),
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Start HTTP server",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting ecoloop server",
				slog.Any("server", serverCfg),
				slog.Any("firestore", firestoreCfg),
				slog.Any("mail", mailCfg),
				slog.Any("vision", visionCfg),
				slog.Any("slack", slackCfg),
				slog.Any("impact", impactCfg),
			)

			repo, err := firestoreCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			mailer, err := mailCfg.Configure(ctx)
			if err != nil {
				return err
			}

			calculator, err := impactCfg.Configure()
			if err != nil {
				return err
			}

			secret, err := serverCfg.Secret(ctx)
			if err != nil {
				return err
			}

			reg := metrics.NewRegistry()

			authUC, err := usecase.NewAuth(repo, mailer, secret,
				usecase.WithAdminEmails(serverCfg.Admins()...),
				usecase.WithAuthMetrics(reg),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create auth use case")
			}

			donationOpts := []usecase.DonationOption{
				usecase.WithCalculator(calculator),
				usecase.WithDonationMetrics(reg),
				usecase.WithOCRConcurrency(int(visionCfg.Concurrency)),
			}
			var contactOpts []usecase.ContactOption

			extractor, err := visionCfg.Configure(ctx)
			if err != nil {
				return err
			}
			if extractor != nil {
				donationOpts = append(donationOpts, usecase.WithSerialExtractor(extractor))
			}

			if notifier := slackCfg.ConfigureOptional(logger); notifier != nil {
				donationOpts = append(donationOpts, usecase.WithDonationNotifier(notifier))
				contactOpts = append(contactOpts, usecase.WithContactNotifier(notifier))
			}

			donationUC := usecase.NewDonation(repo, mailer, donationOpts...)
			contactUC := usecase.NewContact(repo, mailer, serverCfg.ContactInbox, contactOpts...)

			serverConfig := controller.NewConfig(serverCfg.Addr, serverCfg.FrontendURL, reg)
			if serverCfg.MaxUploadSize > 0 {
				serverConfig.MaxUploadSize = serverCfg.MaxUploadSize
			}

			server, err := controller.NewServer(ctx, serverConfig,
				controller.NewUseCases(authUC, donationUC, contactUC))
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}

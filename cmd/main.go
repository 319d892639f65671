package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"golang-adyen-checkout/config"
	"golang-adyen-checkout/internal/logger"
	"golang-adyen-checkout/internal/services/payments"
	"golang-adyen-checkout/internal/services/payments/countries"
	"golang-adyen-checkout/internal/services/payments/types"
)

const shutdownTimeout = 10 * time.Second

var envFile string

func main() {
	root := &cobra.Command{
		Use:          "checkout",
		Short:        "Demo relay between the checkout components and the Adyen Checkout API",
		SilenceUsage: true,
		RunE:         runServe,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE:  runServe,
	})
	root.AddCommand(paylinkCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.AppConfig, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return nil, err
	}

	slog.SetDefault(logger.New(cfg.Log.Level, cfg.Log.File))
	return cfg, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := payments.NewService(ctx, cfg)
	if err != nil {
		slog.Error("failed to start payments service", "error", err)
		return err
	}
	defer svc.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.Http.Port,
		Handler:           svc.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server running",
			"port", cfg.Http.Port,
			"environment", cfg.Adyen.Environment,
			"merchant_account", cfg.Adyen.MerchantAccount,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			slog.Error("failed to serve server", "error", err)
			return err
		}
	case <-ctx.Done():
		slog.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

func paylinkCmd() *cobra.Command {
	var (
		amount  int64
		country string
		email   string
	)

	cmd := &cobra.Command{
		Use:   "paylink",
		Short: "Create a pay-by-link and print it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			baseURL := cfg.Http.BaseURL
			if baseURL == "" {
				baseURL = "http://localhost:" + cfg.Http.Port
			}

			link, err := payments.NewProvider(cfg).CreatePaymentLink(cmd.Context(), types.PaymentLinkInput{
				AmountValue:  types.MinorUnits(amount),
				CountryCode:  countries.NormalizeCountry(country),
				ShopperEmail: email,
				BaseURL:      baseURL,
			})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(link)
		},
	}

	cmd.Flags().Int64Var(&amount, "amount", countries.DefaultAmount, "amount in minor units")
	cmd.Flags().StringVar(&country, "country", countries.DefaultCountry, "shopper country code")
	cmd.Flags().StringVar(&email, "email", "", "shopper email")

	return cmd
}

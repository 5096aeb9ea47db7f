package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"budget-server/confs"
	"budget-server/db"
	"budget-server/logging"
	"budget-server/metrics"
	"budget-server/repositories"
	"budget-server/repositories/memory"
	"budget-server/server"
	"budget-server/sms"
	"budget-server/usecases"

	"github.com/spf13/cobra"
)

var (
	flagEmail string
	flagDays  int
)

var rootCmd = &cobra.Command{
	Use:           "budget-server",
	Short:         "Household budgeting API server",
	Long:          "Serve the household budgeting API, run database migrations, and manage subscriptions.",
	RunE:          runServe,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE:  runMigrate,
}

var subscriptionsCmd = &cobra.Command{
	Use:   "subscriptions",
	Short: "Manage subscriptions",
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Expire ACTIVE subscriptions past their end date",
	RunE:  runSweep,
}

var renewCmd = &cobra.Command{
	Use:   "renew",
	Short: "Activate or extend a user's subscription",
	RunE:  runRenew,
}

func init() {
	renewCmd.Flags().StringVar(&flagEmail, "email", "", "Account email")
	renewCmd.Flags().IntVar(&flagDays, "days", 30, "Days to add")
	_ = renewCmd.MarkFlagRequired("email")

	subscriptionsCmd.AddCommand(sweepCmd, renewCmd)
	rootCmd.AddCommand(serveCmd, migrateCmd, subscriptionsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// setup loads config and opens the configured storage. The returned close
// func releases the database connection.
func setup(ctx context.Context) (*confs.Config, *repositories.Gateway, func(), error) {
	cfg, err := confs.LoadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	logging.Setup(cfg.LogLevel)

	if cfg.Storage == confs.StorageMemory {
		slog.Warn("using in-memory storage; data is lost on exit")
		return cfg, memory.NewGateway(), func() {}, nil
	}

	database, err := db.Connect(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := db.Migrate(ctx, database); err != nil {
		_ = database.Close()
		return nil, nil, nil, fmt.Errorf("migrate database: %w", err)
	}
	closeFn := func() {
		if err := database.Close(); err != nil {
			slog.Warn("closing database", "error", err)
		}
	}
	return cfg, repositories.NewPgGateway(database), closeFn, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, gw, closeFn, err := setup(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	notifier, err := sms.NewClient(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.PhoneNumber)
	if err != nil {
		return err
	}

	return server.NewServer(cfg, gw, notifier).Start(ctx)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := confs.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logging.Setup(cfg.LogLevel)
	if cfg.Storage != confs.StoragePostgres {
		return fmt.Errorf("migrate requires STORAGE=%s", confs.StoragePostgres)
	}

	database, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer database.Close()

	if err := db.Migrate(cmd.Context(), database); err != nil {
		return err
	}
	slog.Info("migrations applied")
	return nil
}

func runSweep(cmd *cobra.Command, _ []string) error {
	_, gw, closeFn, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer closeFn()

	n, err := usecases.NewSubscriptionUseCase(gw, metrics.New(), nil).SweepExpired(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "expired %d subscription(s)\n", n)
	return nil
}

func runRenew(cmd *cobra.Command, _ []string) error {
	_, gw, closeFn, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer closeFn()

	sub, err := usecases.NewSubscriptionUseCase(gw, metrics.New(), nil).
		Renew(cmd.Context(), flagEmail, time.Duration(flagDays)*24*time.Hour)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s until %s\n", flagEmail, sub.Status, sub.EndDate.Format(time.DateOnly))
	return nil
}

package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log-console/core/asyncdata"
	"log-console/core/database"
	"log-console/feature/logconfig"
	"log-console/feature/logconfig/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// watchCmd polls the log configurations through an async data controller.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch log configurations",
	Long:  `Loads log configurations matching a filter, reloads them on every interval and logs each state change until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, _ := cmd.Flags().GetString("filter")
		interval, _ := cmd.Flags().GetDuration("interval")
		size, _ := cmd.Flags().GetInt("size")
		if interval <= 0 {
			return errors.New("interval must be positive")
		}

		cfg, logg, err := bootstrap()
		if err != nil {
			return err
		}
		defer logg.Sync()

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return err
		}
		repo := logconfig.NewRepository(db)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		ctrl := asyncdata.New[*models.Page](logg, asyncdata.Options[*models.Page]{
			OnDataReady: func(page *models.Page, last **models.Page) (*models.Page, bool) {
				if last != nil && *last != nil && (*last).Total != page.Total {
					logg.Info("Log config count changed", zap.Int64("from", (*last).Total), zap.Int64("to", page.Total))
				}
				return page, false
			},
		})
		ctrl.Attach()
		defer ctrl.Detach()

		changes, unsubscribe := ctrl.Subscribe()
		defer unsubscribe()

		gen := func() *asyncdata.Future[*models.Page] {
			return asyncdata.Go(ctx, func(ctx context.Context) (*models.Page, error) {
				return repo.List(ctx, filter, 1, size)
			})
		}
		ctrl.Initialize(gen, filter, size)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		var last asyncdata.State[*models.Page]
		for {
			select {
			case <-ctx.Done():
				logg.Info("Watch stopped")
				return nil
			case <-ticker.C:
				ctrl.Reload()
			case <-changes:
				// Signals coalesce, so compare against the last logged state.
				state := ctrl.State()
				if state.IsLoading == last.IsLoading && state.Data == last.Data && state.Error == last.Error {
					continue
				}
				last = state
				logState(logg, state)
			}
		}
	},
}

func logState(logg *zap.Logger, state asyncdata.State[*models.Page]) {
	switch {
	case state.IsLoading:
		logg.Debug("Loading log configs")
	case state.Error != nil:
		logg.Error("Loading log configs failed", zap.Error(state.Error))
	case state.Data != nil:
		page := *state.Data
		names := make([]string, 0, len(page.Items))
		for _, item := range page.Items {
			names = append(names, item.Name)
		}
		logg.Info("Log configs loaded", zap.Int64("total", page.Total), zap.Strings("names", names))
	}
}

func init() {
	watchCmd.Flags().String("filter", "", "Name filter")
	watchCmd.Flags().Duration("interval", 10*time.Second, "Reload interval")
	watchCmd.Flags().Int("size", 20, "Number of configs to load")
	RootCmd.AddCommand(watchCmd)
}

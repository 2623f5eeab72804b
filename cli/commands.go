package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

func newRunCommand(configFlag *string) *cobra.Command {
	var allowEmptyState bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Detect new arguments, publish them, and regenerate the feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configFlag)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, cfg, allowEmptyState)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.driver.Run(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("detected %d, published %d, failed %d, skipped %d\n",
				res.Detected, res.Published, res.Failed, res.Skipped)
			if res.Failed > 0 {
				return &exitError{code: 2, err: fmt.Errorf("%d of %d candidates failed and will be retried", res.Failed, res.Detected)}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&allowEmptyState, "allow-empty-state", false,
		"Treat a missing state file as empty instead of failing")
	return cmd
}

func newMonitorCommand(configFlag *string) *cobra.Command {
	var allowEmptyState bool

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Detect new arguments without publishing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configFlag)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, cfg, allowEmptyState)
			if err != nil {
				return err
			}
			defer a.Close()

			candidates, err := a.driver.Detector.Detect(ctx)
			if err != nil {
				return err
			}
			if len(candidates) == 0 {
				fmt.Println("no new uploads")
				return nil
			}

			rows := make([][]string, 0, len(candidates))
			for _, v := range candidates {
				rows = append(rows, []string{v.ID, v.Title, v.Published.Format(time.DateOnly)})
			}
			fmt.Println(renderTable([]string{"Video", "Title", "Published"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().BoolVar(&allowEmptyState, "allow-empty-state", false,
		"Treat a missing state file as empty instead of failing")
	return cmd
}

func newInitCommand(configFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Mark the channel's current uploads as processed without publishing",
		Long: `Bootstrap a fresh installation against an existing channel. Every upload
currently listed is recorded as processed, so future runs only publish
recordings that appear afterwards.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configFlag)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, cfg, true)
			if err != nil {
				return err
			}
			defer a.Close()

			marked, err := a.driver.Init(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("marked %d uploads as processed\n", marked)
			return nil
		},
	}
}

func newListCommand(configFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List published episodes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configFlag)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, cfg, true)
			if err != nil {
				return err
			}
			defer a.Close()

			records := a.catalog.All()
			if len(records) == 0 {
				fmt.Println("no episodes published yet")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for i, rec := range records {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					rec.VideoID,
					rec.Title,
					rec.Published.Format(time.DateOnly),
					formatDuration(rec.Duration),
					formatBytes(rec.AudioBytes),
				})
			}
			fmt.Println(renderTable(
				[]string{"#", "Video", "Title", "Published", "Duration", "Size"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignRight},
			))
			return nil
		},
	}
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

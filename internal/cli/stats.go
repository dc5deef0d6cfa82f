package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dextermorgenk/go-doc-translator/internal/config"
	"github.com/dextermorgenk/go-doc-translator/internal/logger"
	"github.com/dextermorgenk/go-doc-translator/internal/stats"
)

func newStatsCommand() *cobra.Command {
	var recent int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show translation usage statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			// 只读统计不需要装配完整翻译服务
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			log, err := logger.New(cfg.Debug || debug)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			db, err := stats.NewDatabase(cfg.StatsPath, log)
			if err != nil {
				return err
			}

			snapshot := db.Snapshot()
			v := stats.NewVisualizer(os.Stdout)
			v.ShowOverview(snapshot)

			if recent > 0 {
				fmt.Fprintln(os.Stdout)
				v.ShowRecentJobs(snapshot, recent)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&recent, "recent", 0, "also show the N most recent jobs")
	return cmd
}

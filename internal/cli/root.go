package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dextermorgenk/go-doc-translator/internal/config"
	"github.com/dextermorgenk/go-doc-translator/internal/logger"
	"github.com/dextermorgenk/go-doc-translator/internal/stats"
	"github.com/dextermorgenk/go-doc-translator/internal/translator"
)

var (
	cfgFile string
	debug   bool
)

// NewRootCommand 创建根命令
func NewRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "doc-translator",
		Short: "Document translation with multi-provider fallback",
		Long: `doc-translator translates text documents line by line through a
chain of providers: Gemini (with a rotating key pool), Groq, and a
built-in offline dictionary as the terminal fallback. Mathematical
expressions are preserved verbatim across translation.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: environment variables only)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(newTranslateCommand())
	rootCmd.AddCommand(newKeysCommand())
	rootCmd.AddCommand(newStatsCommand())

	return rootCmd
}

// appContext 命令共用的运行时依赖
type appContext struct {
	cfg     *config.Config
	logger  *zap.Logger
	statsDB *stats.Database
	manager *translator.Manager
}

// setup 加载配置并装配翻译服务
func setup() (*appContext, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if debug {
		cfg.Debug = true
	}

	log, err := logger.New(cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	statsDB, err := stats.NewDatabase(cfg.StatsPath, log.Named("stats"))
	if err != nil {
		return nil, fmt.Errorf("failed to open stats database: %w", err)
	}

	mgr, err := translator.NewManager(cfg, statsDB, log)
	if err != nil {
		return nil, err
	}

	return &appContext{cfg: cfg, logger: log, statsDB: statsDB, manager: mgr}, nil
}

func (a *appContext) close() {
	a.manager.Close()
	_ = a.logger.Sync()
}

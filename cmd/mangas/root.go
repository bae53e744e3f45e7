package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kerbaras/mangatrack/pkg/config"
	"github.com/kerbaras/mangatrack/pkg/data"
	"github.com/kerbaras/mangatrack/pkg/services"
	"github.com/kerbaras/mangatrack/pkg/sources"
	"github.com/kerbaras/mangatrack/pkg/utils"
)

var (
	cfgFile string
	debug   bool

	conf       *config.Config
	logger     *zap.Logger
	controller *services.MangaController
)

var rootCmd = &cobra.Command{
	Use:   "mangatrack",
	Short: "Read and track manga from your terminal",
	Long:  "Search MangaDex, read chapters page by page in the terminal and keep track of what you have read",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		teardown()
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(trackCmd)
	rootCmd.AddCommand(untrackCmd)
	rootCmd.AddCommand(markReadCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(exportCmd)
}

func setup() error {
	path := cfgFile
	if path == "" {
		path = config.DefaultPath()
	}

	var err error
	if conf, err = config.Load(path); err != nil {
		return err
	}
	logger = conf.Logging.Prepare(debug)
	logger.Debug("Configuration loaded", zap.String("path", path), zap.String("store", conf.Store))

	store, err := data.OpenStore(conf.Store, conf.StorePath())
	if err != nil {
		return err
	}

	api := utils.NewAPI(conf.BaseURL, conf.Timeout)
	source := sources.NewMangaDex(api, conf.Language)
	downloader := services.NewDownloader(source, api.Client(), services.DefaultRateLimit, logger)
	controller = services.NewMangaController(source, store, downloader, conf, logger)
	return nil
}

func teardown() {
	if controller != nil {
		if err := controller.Close(); err != nil {
			logger.Warn("Failed to close store", zap.Error(err))
		}
	}
	if logger != nil {
		_ = logger.Sync()
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		teardown()
		os.Exit(1)
	}
}

package main

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aspectxlol/uprak-pos/internal/catalog"
	"github.com/aspectxlol/uprak-pos/internal/config"
	"github.com/aspectxlol/uprak-pos/internal/receipt"
	"github.com/aspectxlol/uprak-pos/internal/sale"
	"github.com/aspectxlol/uprak-pos/internal/server"
	"github.com/aspectxlol/uprak-pos/internal/ui"
	"github.com/aspectxlol/uprak-pos/pkg/kit"
)

var version = "dev"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "pos",
	Short: "Terminal point-of-sale for a single operator",
	Long: `uprak-pos maintains a product catalog, builds a cart, settles
checkouts and writes receipts. Run without arguments for the interactive
terminal; run 'pos serve' for the back-office HTTP API.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTerminal()
	},
}

var hashpwCmd = &cobra.Command{
	Use:   "hashpw <password>",
	Short: "Hash an operator password for the config file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := server.HashPassword(args[0])
		if err != nil {
			return err
		}
		fmt.Println(h)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("pos", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "pos.yaml", "path to the config file")
	rootCmd.AddCommand(serveCmd, hashpwCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runTerminal() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	// The UI owns the screen, so logs go to a file.
	log := kit.NewFileLogger("pos", cfg.LogPath)
	defer func() { _ = log.Sync() }()

	cs, journal, closeFn, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	engine := &sale.Engine{
		Catalog: cs,
		Journal: journal,
		Log:     log,
		Metrics: sale.NewMetrics(prometheus.NewRegistry()),
	}
	sink := receipt.FileSink{Dir: cfg.ReceiptsDir}

	log.Info("terminal starting", zap.String("catalog", cfg.CatalogPath))
	return ui.Run(ui.New(cs, engine, sink, log))
}

// openStores picks Postgres when a database URL is configured, otherwise the
// CSV catalog with an in-memory sales journal.
func openStores(cfg config.Config) (catalog.Store, sale.Journal, func(), error) {
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open database: %w", err)
		}
		return catalog.NewPostgresStore(db), sale.NewPostgresJournal(db), func() { _ = db.Close() }, nil
	}

	cs, err := catalog.NewCSVStore(cfg.CatalogPath)
	if err != nil {
		return nil, nil, nil, err
	}
	return cs, sale.NewMemJournal(), func() {}, nil
}

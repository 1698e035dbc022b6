// Command rankctl runs the daily sheet updates from the command line, using
// the same configuration file as the server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/chaunnm/update-ranking-daily/pkg/config"
	"github.com/chaunnm/update-ranking-daily/pkg/sheets"
	"github.com/chaunnm/update-ranking-daily/pkg/updater"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	verbose       bool
	configFile    string
	spreadsheetID string
	sheetNames    []string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "rankctl",
		Short:         "Update ranking spreadsheets",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(log.DebugLevel)
			}
			log.SetFormatter(&log.TextFormatter{
				FullTimestamp: true,
			})
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", config.DefaultFilename, "Path to the toml config file")
	rootCmd.PersistentFlags().StringVar(&spreadsheetID, "spreadsheet", "", "Spreadsheet ID (required)")
	rootCmd.PersistentFlags().StringArrayVar(&sheetNames, "sheet", nil, "Sheet name, repeat for several sheets (required)")
	_ = rootCmd.MarkPersistentFlagRequired("spreadsheet")
	_ = rootCmd.MarkPersistentFlagRequired("sheet")

	rootCmd.AddCommand(
		modeCommand(updater.ModeRanking, "Append today's ranking column and wrong URL notes"),
		modeCommand(updater.ModeNotes, "Add wrong URL notes to today's column"),
		modeCommand(updater.ModePerformance, "Write the performance summary of today's column"),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func modeCommand(mode updater.Mode, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(mode),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), mode)
		},
	}
}

func run(ctx context.Context, mode updater.Mode) error {
	cfg, err := config.New(configFile)
	if err != nil {
		return err
	}
	client, err := sheets.NewClient(ctx, cfg.Credentials(), cfg.SheetsOptions())
	if err != nil {
		return err
	}
	opts, err := cfg.UpdaterOptions()
	if err != nil {
		return err
	}

	results, err := updater.New(client, opts).RunAll(ctx, mode, spreadsheetID, sheetNames, cfg.BatchOptions())
	for _, res := range results {
		if res.Skipped != "" {
			fmt.Printf("%s\tskipped\t%s\n", res.Sheet, res.Skipped)
			continue
		}
		fmt.Printf("%s\tcolumn %s\t%d rows\t%d notes\n", res.Sheet, res.Column, res.Rows, res.Notes)
	}
	return err
}

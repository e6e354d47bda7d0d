package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thanwa/flashvoc/internal/database"
	"github.com/thanwa/flashvoc/internal/vocab"
)

func newImportCommand() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "import [file...]",
		Short: "Import vocabulary from JSON, CSV or XLSX files",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := database.Connect(cmd.Context(), cfg.Database)
			if err != nil {
				return fmt.Errorf("database.Connect() > %w", err)
			}
			defer db.Close()

			if err := database.Migrate(cmd.Context(), db); err != nil {
				return fmt.Errorf("database.Migrate() > %w", err)
			}

			importer := vocab.NewImporter(vocab.NewDBRepository(db), logger)

			if len(args) > 0 {
				summary := &vocab.ImportSummary{}
				for _, path := range args {
					count, err := importer.ImportFile(cmd.Context(), path)
					if err != nil {
						summary.FilesSkipped++
						summary.Errors = append(summary.Errors, vocab.FileError{File: path, Err: err})
						continue
					}
					summary.FilesProcessed++
					summary.WordsImported += count
				}
				printSummary(summary)
				return nil
			}

			if dir == "" {
				dir = cfg.Vocab.ImportDirectory
			}
			summary, err := importer.ImportDir(cmd.Context(), dir)
			if err != nil {
				return fmt.Errorf("import %s: %w", dir, err)
			}
			printSummary(summary)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "directory to import (defaults to vocab.import_directory)")
	return cmd
}

func printSummary(summary *vocab.ImportSummary) {
	color.Green("Imported %d words from %d files", summary.WordsImported, summary.FilesProcessed)
	if summary.FilesSkipped > 0 {
		color.Red("Skipped %d files:", summary.FilesSkipped)
		for _, fileErr := range summary.Errors {
			color.Red("  %s: %v", fileErr.File, fileErr.Err)
		}
	}
}

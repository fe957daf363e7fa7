package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gradebook/internal/config"
	"gradebook/internal/database"
	"gradebook/internal/grading"
	"gradebook/internal/logging"
	"gradebook/internal/service"
)

// openServices connects with the configured driver; tests swap it out.
var openServices = func() (*service.Services, error) {
	db, err := database.Open(config.DBDriver)
	if err != nil {
		return nil, err
	}
	return service.New(db, 0, 1), nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gradectl",
		Short:         "Manage the gradebook from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Configure(config.LogLevel, config.LogFormat)
		},
	}
	root.PersistentFlags().StringVar(&config.DBDriver, "driver", config.DBDriver, "database driver (postgres or sqlite)")
	root.PersistentFlags().StringVar(&config.SQLitePath, "sqlite-path", config.SQLitePath, "SQLite database file")

	root.AddCommand(newImportCmd(), newExportCmd(), newStatsCmd())
	return root
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import students from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := openServices()
			if err != nil {
				return err
			}
			jobID := svc.Uploads.NewJob(filepath.Base(args[0]))
			if err := svc.Uploads.ProcessCSV(jobID, args[0]); err != nil {
				return err
			}
			p := svc.Uploads.GetProgress(jobID)
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s): %d rows, %d imported, %d skipped\n",
				p.FileName, p.Shape, p.TotalRecords, p.Imported, p.Skipped)
			return nil
		},
	}
}

func newExportCmd() *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every student as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := openServices()
			if err != nil {
				return err
			}
			var w io.Writer = cmd.OutOrStdout()
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return errors.Wrap(err, "creating output file")
				}
				defer f.Close()
				w = f
			}
			return svc.Exports.Export(w, format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", service.ExportFull, "full or report")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file, - for stdout")
	return cmd
}

func newStatsCmd() *cobra.Command {
	var (
		top       int
		threshold float64
	)
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print class statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := openServices()
			if err != nil {
				return err
			}
			stats, err := svc.Stats.Statistics()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Students: %d\n", stats.Total)
			fmt.Fprintf(w, "Class average: %s\n", grading.FormatGrade(stats.Average))
			for _, letter := range grading.Letters {
				fmt.Fprintf(w, "  %s: %d\n", letter, stats.Distribution.Count(letter))
			}

			if cmd.Flags().Changed("top") {
				students, err := svc.Stats.Top(top)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "Top %d:\n", top)
				for _, s := range students {
					fmt.Fprintf(w, "  %d %s %s\n", s.ID, s.FullName(), grading.FormatGrade(grading.Average(s)))
				}
			}
			if cmd.Flags().Changed("below") {
				students, err := svc.Stats.Below(threshold)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "Below %s:\n", grading.FormatGrade(threshold))
				for _, s := range students {
					fmt.Fprintf(w, "  %d %s %s\n", s.ID, s.FullName(), grading.FormatGrade(grading.Average(s)))
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&top, "top", 5, "also list the N best students")
	cmd.Flags().Float64Var(&threshold, "below", 70, "also list graded students below this average")
	return cmd
}

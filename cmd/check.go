package cmd

import (
	"bufio"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mizatrix/crawlability-checker/internal/assess"
	"github.com/mizatrix/crawlability-checker/internal/export"
	"github.com/mizatrix/crawlability-checker/internal/metrics"
)

// newCheckCmd creates the 'check' subcommand: it assesses the given sites and
// writes the results as CSV.
func newCheckCmd() *cobra.Command {
	var (
		inputPath   string
		outputPath  string
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "check [urls...]",
		Short: "Assess the crawlability of one or more sites",
		Long: `Runs the assessment pipeline against every URL given as an argument or
listed, one per line, in the --input file. Results are written as CSV in
input order, one row per site.`,

		RunE: func(cmd *cobra.Command, args []string) error {
			urls, err := collectURLs(args, inputPath)
			if err != nil {
				return err
			}
			if len(urls) == 0 {
				return fmt.Errorf("no URLs given; pass them as arguments or via --input")
			}

			if metricsAddr != "" {
				go serveMetrics(metricsAddr)
			}

			runner, err := assess.NewRunner(cfg.EngineConfig(), logger)
			if err != nil {
				return fmt.Errorf("init runner: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger.Info("starting assessment batch",
				zap.Int("sites", len(urls)),
				zap.Int("concurrency", cfg.Checker.Concurrency),
			)
			results, err := runner.Run(ctx, urls)
			if err != nil {
				return fmt.Errorf("run batch: %w", err)
			}

			return writeResults(outputPath, results)
		},
	}

	cmd.Flags().StringVar(&inputPath, "input", "", "file with one URL per line")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "CSV output path (default stdout)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "optional address for a Prometheus metrics listener")

	return cmd
}

// collectURLs merges positional arguments with the optional input file,
// preserving order and skipping blank or commented lines.
func collectURLs(args []string, inputPath string) ([]string, error) {
	urls := make([]string, 0, len(args))
	urls = append(urls, args...)

	if inputPath == "" {
		return urls, nil
	}
	f, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input file: %w", err)
	}
	return urls, nil
}

func writeResults(outputPath string, results []assess.SiteAssessment) error {
	if outputPath == "" {
		return export.WriteCSV(os.Stdout, results)
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logger.Warn("close output file", zap.Error(cerr))
		}
	}()
	if err := export.WriteCSV(f, results); err != nil {
		return err
	}
	logger.Info("results written", zap.String("path", outputPath), zap.Int("rows", len(results)))
	return nil
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Warn("metrics listener stopped", zap.Error(err))
	}
}

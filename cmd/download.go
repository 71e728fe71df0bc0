package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/brogergvhs/mangagrab/internal/chapters"
	"github.com/brogergvhs/mangagrab/internal/config"
	"github.com/brogergvhs/mangagrab/internal/crawler"
	"github.com/brogergvhs/mangagrab/internal/downloader"
	"github.com/brogergvhs/mangagrab/internal/fetcher"
	"github.com/brogergvhs/mangagrab/internal/providers/xpath"
	"github.com/brogergvhs/mangagrab/internal/ui"
	"github.com/brogergvhs/mangagrab/internal/util"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	// selection
	flagChapter string
	flagRange   string
	flagList    string

	// runtime
	flagOutput         string
	flagWorkers        int
	flagMaxRounds      int
	flagTimeoutCeiling int
	flagDryRun         bool
	flagConvertJPEG    bool

	// headers/auth
	flagCloudflare bool
	flagCookie     string
	flagCookieFile string
	flagUserAgent  string
)

func init() {
	downloadCmd := &cobra.Command{
		Use:   "download [url]",
		Short: "Crawl a series and save every page image. Uses the defaults from the selected config, overwritten by CLI flags",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runDownload,
	}

	// selection
	downloadCmd.Flags().StringVar(&flagChapter, "chapter", "", "download a single chapter by number or index (e.g. 5 or 28.5)")
	downloadCmd.Flags().StringVar(&flagRange, "range", "", "download a range of chapters by index (e.g. 5-12)")
	downloadCmd.Flags().StringVar(&flagList, "list", "", "download specific chapter indices (e.g. 1,3,5)")

	// runtime
	downloadCmd.Flags().StringVar(&flagOutput, "output", "", "output folder (default \"manga\")")
	downloadCmd.Flags().IntVar(&flagWorkers, "workers", 0, "parallel image downloads per round (default 1)")
	downloadCmd.Flags().IntVar(&flagMaxRounds, "max-rounds", 0, "give up after this many rounds (0 retries until done)")
	downloadCmd.Flags().IntVar(&flagTimeoutCeiling, "timeout-ceiling", 0, "cap the per-round timeout in seconds (0 is no cap)")
	downloadCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "list the pages that would be downloaded and exit")
	downloadCmd.Flags().BoolVar(&flagConvertJPEG, "convert-jpeg", false, "re-encode non-JPEG images as JPEG")

	// headers/auth
	downloadCmd.Flags().BoolVar(&flagCloudflare, "cloudflare", false, "use a Cloudflare-friendly TLS transport")
	downloadCmd.Flags().StringVar(&flagCookie, "cookie", "", "cookie string, e.g. \"key=value; other=123\"")
	downloadCmd.Flags().StringVar(&flagCookieFile, "cookie-file", "", "path to a text file with cookies (one header line)")
	downloadCmd.Flags().StringVar(&flagUserAgent, "user-agent", "", "override User-Agent")

	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	var url string
	if len(args) == 1 {
		url = args[0]
	}

	cfg, usedPath, err := config.LoadMerged(config.Options{
		IgnoreConfig:     flagIgnoreConfig,
		Debug:            flagDebug,
		Output:           flagOutput,
		Workers:          flagWorkers,
		DefaultURL:       url,
		DefaultRange:     flagRange,
		DefaultList:      flagList,
		TimeoutCeiling:   flagTimeoutCeiling,
		MaxRounds:        flagMaxRounds,
		ConvertJPEG:      flagConvertJPEG,
		CloudflareBypass: flagCloudflare,
		Cookie:           flagCookie,
		CookieFile:       flagCookieFile,
		UserAgent:        flagUserAgent,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if cfg.DefaultURL == "" {
		_, _ = fmt.Fprintln(out, "No series URL given.")
		_, _ = fmt.Fprintln(out, "Usage: mangagrab download <series-url>  (or set default_url in the config)")
		return nil
	}

	log := ui.NewLogger(cfg.Debug).WithField("run", uuid.NewString()[:8])
	log.Debugf("Config file: %s", usedPath)

	if cfg.Debug {
		fmt.Println("Full config:")
		cfg.Print()
		fmt.Println()
	}

	client, err := util.NewHTTPClient(util.HTTPClientOptions{
		UserAgent:        cfg.UserAgent,
		Cookie:           cfg.Cookie,
		CookieFile:       cfg.CookieFile,
		CloudflareBypass: cfg.CloudflareBypass,
		DebugLogger:      log,
	})
	if err != nil {
		return err
	}

	f := fetcher.New(client, fetcher.Options{
		UserAgent:   util.PickUserAgent(cfg.UserAgent),
		Headers:     cfg.Headers,
		BaseTimeout: cfg.BaseTimeoutDuration(),
	}, log)

	extractor, err := xpath.NewExtractor(cfg.Rules)
	if err != nil {
		return err
	}

	ctx, stop := util.InterruptContext(cmd.Context())
	defer stop()

	cr := crawler.New(f, extractor, log, crawler.Options{
		Select: func(all []chapters.Chapter) []chapters.Chapter {
			log.Infof("Found %d chapters on the site.", len(all))
			return chapters.Filter(all, flagChapter, cfg.DefaultRange, cfg.DefaultList)
		},
	})

	start := time.Now()
	units, ok := cr.Crawl(ctx, cfg.DefaultURL)
	if !ok {
		return fmt.Errorf("no chapters found at %s", cfg.DefaultURL)
	}

	st := cr.Stats()
	log.Infof("Crawled %d chapters (%d skipped), %d pages (%d skipped): %d images to fetch",
		st.Chapters, st.SkippedChapters, st.Pages, st.SkippedPages, len(units))

	if len(units) == 0 {
		return fmt.Errorf("no chapters selected")
	}

	if flagDryRun {
		_, _ = fmt.Fprintf(out, "Dry-run: %d pages selected.\n\n", len(units))
		for _, u := range units {
			_, _ = fmt.Fprintf(out, "%s  %s\n    %s\n", u.FileName(), u, u.Image.URL)
		}
		return nil
	}

	if err := os.MkdirAll(cfg.Output, 0755); err != nil {
		return fmt.Errorf("cannot create output folder: %w", err)
	}

	report, stats := download(ctx, out, f, cfg, log, units)

	if ctx.Err() != nil {
		stop()
		log.Warnf("Interrupted, removed %d partial files", util.CleanupPartialFiles(cfg.Output))
	}

	ui.PrintSummary(out, ui.Summary{
		Chapters: countChapters(units),
		Units:    len(units),
		Images:   stats.TotalImages.Load(),
		Bytes:    stats.TotalBytes.Load(),
		Rounds:   report.Rounds,
		Attempts: stats.Attempts.Load(),
		Elapsed:  time.Since(start),
	}, failedRows(report.Failed))

	if !report.Complete() {
		return fmt.Errorf("%d pages could not be downloaded", len(report.Failed))
	}

	return nil
}

func download(ctx context.Context, out io.Writer, f *fetcher.Fetcher, cfg *config.Config, log *ui.Logger, units []chapters.Unit) (downloader.Report, *ui.Stats) {
	pm := ui.NewProgressManagerTo(out)
	defer pm.Close()

	stats := &ui.Stats{}
	dl := downloader.New(f, cfg.Output, cfg.ConvertJPEG, log)

	var bar *ui.ProgressHandle

	retrier := downloader.NewRetrier(dl, downloader.RetryOptions{
		InitialTimeout: cfg.InitialTimeoutDuration(),
		TimeoutStep:    cfg.TimeoutStepDuration(),
		TimeoutCeiling: cfg.TimeoutCeilingDuration(),
		MaxRounds:      cfg.MaxRounds,
		Workers:        cfg.Workers,
		OnRoundStart: func(round, n int, timeout time.Duration) {
			log.Debugf("Round %d: %d pages, timeout %s", round, n, timeout)
			bar = pm.Register(fmt.Sprintf("Round %d (%s)", round, timeout), n)
		},
		OnOutcome: func(_ int, o downloader.Outcome) {
			stats.Attempts.Add(1)
			if o.OK() {
				stats.TotalImages.Add(1)
				stats.TotalBytes.Add(o.Bytes)
			} else {
				stats.Failures.Add(1)
				log.Debugf("%v", o.Err)
			}
			bar.Add(o.OK(), o.Bytes)
		},
		OnRoundEnd: func(round int, failed []downloader.Outcome) {
			bar.MarkDone()
			if len(failed) > 0 {
				log.Warnf("Round %d: %d pages failed", round, len(failed))
			}
		},
	})

	return retrier.Run(ctx, units), stats
}

func countChapters(units []chapters.Unit) int {
	seen := map[string]struct{}{}
	for _, u := range units {
		seen[u.Chapter.URL] = struct{}{}
	}

	return len(seen)
}

func failedRows(failed []downloader.Outcome) []ui.FailedRow {
	rows := make([]ui.FailedRow, 0, len(failed))
	for _, o := range failed {
		reason := ""
		if o.Err.Cause != nil {
			reason = o.Err.Cause.Error()
		}
		rows = append(rows, ui.FailedRow{
			Chapter: o.Unit.Chapter.DisplayName,
			Page:    o.Unit.Page.DisplayName,
			Kind:    o.Err.Kind.String(),
			Reason:  reason,
		})
	}

	return rows
}

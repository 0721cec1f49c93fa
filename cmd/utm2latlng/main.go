package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samirrijal/utm2latlng/internal/adapters/csvfile"
	"github.com/samirrijal/utm2latlng/internal/adapters/projection"
	"github.com/samirrijal/utm2latlng/internal/core/usecases"
	"github.com/samirrijal/utm2latlng/internal/pkg/config"
	"github.com/samirrijal/utm2latlng/internal/pkg/logging"
	"github.com/samirrijal/utm2latlng/internal/pkg/metrics"
	"github.com/samirrijal/utm2latlng/internal/pkg/telemetry"
)

const usage = "usage: utm2latlng [input.csv [output.csv]]"

func main() {
	os.Exit(realMain(os.Args[1:]))
}

func realMain(args []string) int {
	// Positional paths override config: utm2latlng [input [output]]
	var opts []config.Option
	switch len(args) {
	case 2:
		opts = append(opts, config.WithOutputPath(args[1]))
		fallthrough
	case 1:
		opts = append(opts, config.WithInputPath(args[0]))
	case 0:
	default:
		log.Print(usage)
		return 2
	}

	cfg, err := config.Load("utm2latlng", opts...)
	if err != nil {
		log.Printf("config: %v", err)
		return 2
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	if err := run(ctx, cfg); err != nil {
		slog.Error("conversion failed", "input", cfg.Input.Path, "error", err)
		return 1
	}
	return 0
}

// run converts cfg.Input.Path into cfg.Output.Path. On any error the output
// path is left as it was.
func run(ctx context.Context, cfg *config.Config) (err error) {
	m := metrics.New()
	start := time.Now()
	defer func() {
		m.Finish(time.Since(start), err == nil, time.Now())
		if cfg.Metrics.Textfile == "" {
			return
		}
		if werr := m.WriteTextfile(cfg.Metrics.Textfile); werr != nil {
			slog.Warn("write metrics textfile", "path", cfg.Metrics.Textfile, "error", werr)
		}
	}()

	in, err := csvfile.Open(cfg.Input.Path)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := csvfile.Create(cfg.Output.Path, csvfile.WithCRLF(cfg.Output.CRLF))
	if err != nil {
		return err
	}
	defer out.Abort()

	slog.Debug("converting",
		telemetry.AttrInputPath, cfg.Input.Path,
		telemetry.AttrOutputPath, cfg.Output.Path,
		telemetry.AttrNorthern, cfg.Convert.Northern,
	)

	svc := usecases.NewConvertService(projection.NewUTM(), cfg.Convert.Northern, m)
	res, err := svc.Run(ctx, in, out)
	if err != nil {
		return fmt.Errorf("%s: %w", cfg.Input.Path, err)
	}

	if err := out.Commit(); err != nil {
		return err
	}

	slog.Info("conversion complete",
		"input", cfg.Input.Path,
		"output", cfg.Output.Path,
		"rows", res.RowsWritten,
		"elapsed", res.Elapsed,
	)
	return nil
}

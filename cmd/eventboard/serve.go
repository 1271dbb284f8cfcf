package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"eventboard/internal/config"
	"eventboard/internal/events"
	appLog "eventboard/internal/log"
	"eventboard/internal/metrics"
	"eventboard/internal/web"
)

var (
	serveListen  string
	serveNoFetch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the events board and refresh the feed on a schedule",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfgErr != nil {
			return cfgErr
		}
		c := cfg
		if serveListen != "" {
			c.Display.Listen = serveListen
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		m := metrics.New()
		p := newPipeline(c, m)

		if !serveNoFetch {
			if err := c.Validate(); err != nil {
				return p.Fail(err)
			}
			refresh := refreshFunc(ctx, p)
			refresh()

			if c.Display.Refresh != "" {
				sched, err := startScheduler(c, refresh)
				if err != nil {
					return err
				}
				defer func() { <-sched.Stop().Done() }()
			}
		}

		appLog.Info("effective config",
			"listen", c.Display.Listen,
			"events", c.Output.Events,
			"ics", c.Output.ICS,
			"images_dir", c.Display.ImagesDir,
			"refresh", c.Display.Refresh,
			"timezone", c.Location().String(),
		)

		srv := web.NewServer(web.Options{
			Listen:     c.Display.Listen,
			EventsPath: c.Output.Events,
			ICSPath:    c.Output.ICS,
			ImagesDir:  c.Display.ImagesDir,
			QRImage:    c.Display.QRImage,
			MaxEvents:  c.Filter.MaxEvents,
			Location:   c.Location(),
			Metrics:    m.Handler(),
		})
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "HTTP listen address (overrides display.listen)")
	serveCmd.Flags().BoolVar(&serveNoFetch, "no-fetch", false, "serve the existing feed without querying Notion")
}

// refreshFunc runs the pipeline once. Failures are logged and leave an
// empty feed; the server keeps running.
func refreshFunc(ctx context.Context, p *events.Pipeline) func() {
	return func() {
		if ctx.Err() != nil {
			return
		}
		res, err := p.Run(ctx)
		if err != nil {
			return
		}
		appLog.Debug("refresh completed", "fetched", res.Fetched, "published", len(res.Published))
	}
}

func startScheduler(c *config.Config, job func()) (*cron.Cron, error) {
	sched := cron.New(
		cron.WithLocation(c.Location()),
		cron.WithLogger(cronLogger{}),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger{})),
	)
	if _, err := sched.AddFunc(c.Display.Refresh, job); err != nil {
		return nil, fmt.Errorf("schedule %q: %w", c.Display.Refresh, err)
	}
	sched.Start()
	appLog.Info("feed refresh scheduled", "spec", c.Display.Refresh)
	return sched, nil
}

// cronLogger routes scheduler messages through the app logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, kv ...any) {
	appLog.Debug("cron: "+msg, kv...)
}

func (cronLogger) Error(err error, msg string, kv ...any) {
	appLog.Error("cron: "+msg, err, kv...)
}

var _ cron.Logger = cronLogger{}

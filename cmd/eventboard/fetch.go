package main

import (
	"github.com/spf13/cobra"

	appLog "eventboard/internal/log"
	"eventboard/internal/metrics"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Pull the database once and publish the events feed",
	Long: `Queries the Notion database, keeps the upcoming studio events and
replaces the events feed. On any configuration or transport error the feed
is replaced with an empty list and the command exits non-zero.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := effectiveConfig()
		m := metrics.New()
		p := newPipeline(c, m)
		defer func() {
			if err := m.WriteTextfile(c.Metrics.Textfile); err != nil {
				appLog.Warn("failed to write metrics textfile", "path", c.Metrics.Textfile, "error", err.Error())
			}
		}()

		if cfgErr != nil {
			return p.Fail(cfgErr)
		}
		if err := c.Validate(); err != nil {
			return p.Fail(err)
		}

		_, err := p.Run(cmd.Context())
		return err
	},
}

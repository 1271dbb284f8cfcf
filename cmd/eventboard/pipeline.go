package main

import (
	"eventboard/internal/config"
	"eventboard/internal/events"
	"eventboard/internal/metrics"
	"eventboard/internal/notion"
)

func newPipeline(c *config.Config, m *metrics.Metrics) *events.Pipeline {
	client := notion.NewClient(notion.ClientConfig{
		BaseURL:    c.Notion.BaseURL,
		Token:      c.Notion.Token,
		DatabaseID: c.Notion.DatabaseID,
		Version:    c.Notion.Version,
		PageSize:   c.Notion.PageSize,
		MaxRecords: c.Notion.MaxRecords,
		Timeout:    c.Notion.Timeout,
	})
	client.OnPage(m.ObservePage)

	loc := c.Location()
	props := c.Notion.Properties

	return &events.Pipeline{
		Source: client,
		Fields: notion.DefaultFields().WithOverrides(map[notion.Field]string{
			notion.FieldTitle:    props.Title,
			notion.FieldDate:     props.Date,
			notion.FieldTime:     props.Time,
			notion.FieldLanguage: props.Language,
			notion.FieldPrice:    props.Price,
		}),
		Rules: events.Rules{
			AllowedStatuses: c.Filter.AllowedStatuses,
			Place:           c.Filter.Place,
			DeniedTypes:     c.Filter.DeniedTypes,
			MaxEvents:       c.Filter.MaxEvents,
			Location:        loc,
		},
		Publisher: &events.Publisher{
			EventsPath: c.Output.Events,
			ICSPath:    c.Output.ICS,
			Location:   loc,
		},
		Metrics: m,
	}
}

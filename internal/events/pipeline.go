package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	appLog "eventboard/internal/log"
	"eventboard/internal/metrics"
	"eventboard/internal/model"
	"eventboard/internal/notion"
)

// Source yields the raw database rows. *notion.Client implements it.
type Source interface {
	FetchAll(ctx context.Context) ([]notion.Page, error)
}

// Pipeline is one fetch, normalize, select and publish pass. A Pipeline is
// not safe for concurrent Run calls.
type Pipeline struct {
	Source    Source
	Fields    notion.Fields
	Rules     Rules
	Publisher *Publisher
	// Metrics is optional.
	Metrics *metrics.Metrics
	Now     func() time.Time
}

// Result summarizes a successful run.
type Result struct {
	Fetched    int
	Normalized int
	Published  []model.Event
}

// Run executes the pipeline. Any fetch or publish error leaves an empty feed
// behind and is returned. Rows that cannot be normalized are skipped, never fatal.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	if p.Source == nil {
		return Result{}, p.Fail(errors.New("events: no source configured"))
	}

	pages, err := p.Source.FetchAll(ctx)
	if err != nil {
		return Result{}, p.Fail(err)
	}
	appLog.Info("notion rows retrieved", "rows", len(pages))

	fields := p.Fields
	if fields == nil {
		fields = notion.DefaultFields()
	}

	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	at := now()

	normalized := Normalize(pages, fields)
	selected := Select(normalized, p.Rules, at)

	if len(selected) == 0 && len(pages) > 0 {
		appLog.Warn("no usable events found",
			"properties", strings.Join(pages[0].Properties.Names(), ", "),
		)
	}

	if err := p.Publisher.Publish(selected); err != nil {
		return Result{}, p.Fail(err)
	}
	appLog.Info("events stored", "count", len(selected), "path", p.Publisher.EventsPath)
	p.Metrics.ObserveRun(len(selected), nil, at)

	return Result{
		Fetched:    len(pages),
		Normalized: len(normalized),
		Published:  selected,
	}, nil
}

// Fail publishes an empty feed after cause aborted a run and returns cause,
// joined with any error from writing the empty feed.
func (p *Pipeline) Fail(cause error) error {
	appLog.Error("failed to load events", cause)
	p.Metrics.ObserveRun(0, cause, time.Time{})

	if p.Publisher == nil {
		return cause
	}
	if err := p.Publisher.Publish(nil); err != nil {
		return errors.Join(cause, fmt.Errorf("events: write empty feed: %w", err))
	}
	return cause
}

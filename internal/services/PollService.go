package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"livenotify/internal/adapters"
	"livenotify/internal/models"
	"livenotify/internal/providers"
	"livenotify/internal/storage/interfaces"
)

type CycleReport struct {
	CycleID     string        `json:"cycle_id"`
	Platforms   int           `json:"platforms"`
	Polled      int           `json:"polled"`
	Failed      int           `json:"failed"`
	Transitions int           `json:"transitions"`
	Duration    time.Duration `json:"duration"`
}

type PollServiceInterface interface {
	RunCycle(ctx context.Context) CycleReport
}

// PollService visits every watched channel once per cycle and turns an
// offline to live edge into a notification. A channel seen for the first
// time only records a baseline.
type PollService struct {
	registry adapters.RegistryInterface
	store    interfaces.StoreInterface
	notifier NotificationServiceInterface
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
	now      func() time.Time
}

func NewPollService(registry adapters.RegistryInterface, store interfaces.StoreInterface, notifier NotificationServiceInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) PollServiceInterface {
	return &PollService{
		registry: registry,
		store:    store,
		notifier: notifier,
		logger:   logger,
		metrics:  metrics,
		now:      time.Now,
	}
}

func (ps *PollService) RunCycle(ctx context.Context) CycleReport {
	start := ps.now()
	report := CycleReport{CycleID: uuid.NewString()}

	ctx, span := providers.StartSpan(ctx, "poll.cycle", attribute.String("cycle.id", report.CycleID))
	defer span.End()

	for _, platform := range ps.registry.Platforms() {
		adapter, ok := ps.registry.Get(platform)
		if !ok {
			continue
		}
		channels := ps.store.ListAllChannels(platform)
		ps.metrics.SetWatchedChannels(string(platform), len(channels))
		if len(channels) == 0 {
			continue
		}

		report.Platforms++
		for _, channelID := range channels {
			report.Polled++
			event, err := ps.pollChannel(ctx, report.CycleID, adapter, channelID)
			if err != nil {
				report.Failed++
				continue
			}
			if event != nil {
				report.Transitions++
				ps.notifier.Dispatch(ctx, *event)
			}
		}
	}

	report.Duration = ps.now().Sub(start)
	ps.metrics.IncPollCycles()
	ps.metrics.ObservePollCycleDuration(report.Duration)
	span.SetAttributes(
		attribute.Int("polled", report.Polled),
		attribute.Int("failed", report.Failed),
		attribute.Int("transitions", report.Transitions),
	)
	ps.logger.Infof(providers.TypePoll, "Cycle %s done in %s: %d platforms, %d polled, %d failed, %d went live",
		report.CycleID, report.Duration, report.Platforms, report.Polled, report.Failed, report.Transitions)
	return report
}

// pollChannel returns a non-nil event only on an observed offline to live
// edge. On error the stored status is left as it was.
func (ps *PollService) pollChannel(ctx context.Context, cycleID string, adapter adapters.Adapter, channelID string) (event *models.LiveEvent, err error) {
	platform := adapter.Platform()
	ctx, span := providers.StartSpan(ctx, "poll.channel",
		attribute.String("cycle.id", cycleID),
		attribute.String("platform", string(platform)),
		attribute.String("channel.id", channelID),
	)
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			event = nil
			err = fmt.Errorf("adapter panic: %v", r)
			ps.metrics.IncAdapterFailures(string(platform), "panic")
			ps.logger.Errorf(providers.TypePoll, "[%s] %s:%s adapter panicked: %v", cycleID, platform, channelID, r)
			providers.RecordError(span, err)
		}
	}()

	info, err := adapter.FetchRoomInfo(ctx, channelID)
	if err == nil && info == nil {
		err = fmt.Errorf("adapter returned no room info")
	}
	if err != nil {
		reason := adapters.ReasonOf(err)
		ps.metrics.IncAdapterFailures(string(platform), string(reason))
		ps.logger.Warnf(providers.TypePoll, "[%s] %s:%s skipped (%s): %s", cycleID, platform, channelID, reason, err)
		providers.RecordError(span, err)
		return nil, err
	}

	previous, known := ps.store.GetLastStatus(platform, channelID)
	if known && !previous && info.IsLive {
		event = &models.LiveEvent{
			Platform:   platform,
			ChannelID:  channelID,
			Room:       *info,
			DetectedAt: ps.now(),
		}
		ps.metrics.IncTransitions(string(platform))
		ps.logger.Infof(providers.TypePoll, "[%s] %s:%s went live: %s", cycleID, platform, channelID, info.Title)
	} else if !known {
		ps.logger.Debugf(providers.TypePoll, "[%s] %s:%s baseline live=%t", cycleID, platform, channelID, info.IsLive)
	}

	ps.store.SetLastStatus(platform, channelID, info.IsLive)
	span.SetAttributes(attribute.Bool("live", info.IsLive))
	return event, nil
}

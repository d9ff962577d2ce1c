package device

import (
	"context"
	"fmt"
	"log/slog"
)

// Issuer attaches a tag to a single device.
type Issuer interface {
	AddDeviceTag(ctx context.Context, device, tag string) error
}

// Tagger assigns "hostN" tags to host groups.
type Tagger struct {
	Issuer Issuer
}

// NewTagger creates a Tagger that sends tag commands through issuer.
func NewTagger(issuer Issuer) *Tagger {
	return &Tagger{Issuer: issuer}
}

// Apply walks the hosts in first-seen order with a zero-based counter N and
// issues one "add tag hostN" command per device of that host. Commands are
// not batched and not deduplicated: a second run sends them all again.
//
// A failing tag command is logged and recorded in the result; tagging moves
// on to the next device. Only context cancellation aborts the pass.
func (t *Tagger) Apply(ctx context.Context, groups *HostGroups) (*TagResult, error) {
	if t.Issuer == nil {
		return nil, fmt.Errorf("tagger has no issuer")
	}
	if groups == nil {
		return nil, fmt.Errorf("no host groups to tag")
	}

	res := &TagResult{
		Assignments: make([]Assignment, 0, groups.Len()),
		Tracked:     make([]string, 0, TrackedHostCount),
	}

	for i, hg := range groups.Groups() {
		tag := Tag(i)
		for _, dev := range hg.Devices {
			if err := ctx.Err(); err != nil {
				return res, err
			}

			res.Issued++
			if err := t.Issuer.AddDeviceTag(ctx, dev, tag); err != nil {
				deviceTagTotal.WithLabelValues("error").Inc()
				slog.Warn("failed to tag device",
					slog.String("device", dev),
					slog.String("host", hg.Host),
					slog.String("tag", tag),
					slog.String("error", err.Error()),
				)
				res.Failed = append(res.Failed, Failure{Device: dev, Tag: tag, Error: err.Error()})
				continue
			}
			deviceTagTotal.WithLabelValues("success").Inc()
		}

		res.Assignments = append(res.Assignments, Assignment{Host: hg.Host, Tag: tag, Devices: hg.Devices})
		if len(res.Tracked) < TrackedHostCount {
			res.Tracked = append(res.Tracked, hg.Host)
		}

		slog.Info("tagged host group",
			slog.String("host", hg.Host),
			slog.String("tag", tag),
			slog.Int("devices", len(hg.Devices)),
		)
	}

	hostGroupCount.Set(float64(groups.Len()))
	return res, nil
}

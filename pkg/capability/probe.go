/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package capability

import (
	"context"
	"errors"
	"sync"

	"github.com/shirou/gopsutil/v3/mem"

	"github.com/carverauto/adscreen/pkg/logger"
	"github.com/carverauto/adscreen/pkg/models"
)

const (
	gib = 1 << 30

	lowTierCeiling      = 2 * gib
	standardTierCeiling = 4 * gib
)

var virtualMemory = mem.VirtualMemoryWithContext

// Prober produces the CapabilityDescriptor for this process.
type Prober struct {
	host           HostCapabilities
	identification string
	logger         logger.Logger

	once       sync.Once
	descriptor models.CapabilityDescriptor
}

// NewProber creates a Prober. host may be nil when the platform exposes no
// capability interface; identification is the environment's user-agent style
// identification string.
func NewProber(host HostCapabilities, identification string, log logger.Logger) *Prober {
	return &Prober{
		host:           host,
		identification: identification,
		logger:         log,
	}
}

// Descriptor probes on first use and returns the same descriptor for the
// lifetime of the Prober.
func (p *Prober) Descriptor(ctx context.Context) models.CapabilityDescriptor {
	p.once.Do(func() {
		p.descriptor = p.Probe(ctx)

		p.logger.Info().
			Str("probe_source", string(p.descriptor.ProbeSource)).
			Str("platform", p.descriptor.Platform).
			Bool("remote_input", p.descriptor.HasRemoteInput).
			Str("memory_tier", string(p.descriptor.MemoryTier)).
			Strs("codecs", p.descriptor.SupportedCodecs).
			Msg("Device capabilities probed")
	})

	return p.descriptor
}

// Probe inspects the environment: the host capability interface first, then
// the identification string allow-list, and finally conservative defaults.
func (p *Prober) Probe(ctx context.Context) models.CapabilityDescriptor {
	if d, ok := p.probeRuntime(ctx); ok {
		return d
	}

	if sig, ok := matchSignature(p.identification); ok {
		total := p.hostMemory(ctx)

		return models.CapabilityDescriptor{
			ProbeSource:      models.ProbeSourceHeuristic,
			Platform:         sig.platform,
			HasRemoteInput:   true,
			MaxResolution:    sig.maxRes,
			SupportedCodecs:  models.NormalizeCodecs(sig.codecs),
			MemoryTier:       TierForMemory(total),
			TotalMemoryBytes: total,
		}
	}

	return Unknown()
}

// Unknown is the maximally conservative descriptor.
func Unknown() models.CapabilityDescriptor {
	return models.CapabilityDescriptor{
		ProbeSource:     models.ProbeSourceUnknown,
		SupportedCodecs: []string{},
		MemoryTier:      models.MemoryTierLow,
	}
}

func (p *Prober) probeRuntime(ctx context.Context) (models.CapabilityDescriptor, bool) {
	if p.host == nil {
		return models.CapabilityDescriptor{}, false
	}

	report, err := p.host.Report(ctx)
	if err != nil {
		if errors.Is(err, ErrHostUnavailable) {
			p.logger.Debug().Err(err).Msg("No runtime capability interface, using heuristics")
		} else {
			p.logger.Warn().Err(err).Msg("Runtime capability report failed, using heuristics")
		}

		return models.CapabilityDescriptor{}, false
	}

	if report == nil {
		return models.CapabilityDescriptor{}, false
	}

	total := report.TotalMemoryBytes
	if total == 0 {
		total = p.hostMemory(ctx)
	}

	return models.CapabilityDescriptor{
		ProbeSource:       models.ProbeSourceRuntime,
		Platform:          report.Platform,
		HasRemoteInput:    report.RemoteControl,
		SupportsGestures:  report.Gestures,
		SupportsLongPress: report.LongPress,
		SupportsDoubleTap: report.DoubleTap,
		MaxResolution:     models.Resolution{Width: report.MaxWidth, Height: report.MaxHeight},
		SupportedCodecs:   models.NormalizeCodecs(report.Codecs),
		MemoryTier:        TierForMemory(total),
		TotalMemoryBytes:  total,
	}, true
}

func (p *Prober) hostMemory(ctx context.Context) uint64 {
	vm, err := virtualMemory(ctx)
	if err != nil || vm == nil {
		p.logger.Debug().Err(err).Msg("Host memory unavailable")
		return 0
	}

	return vm.Total
}

// TierForMemory classifies total device memory. Zero means unknown and maps to low.
func TierForMemory(total uint64) models.MemoryTier {
	switch {
	case total == 0 || total < lowTierCeiling:
		return models.MemoryTierLow
	case total < standardTierCeiling:
		return models.MemoryTierStandard
	default:
		return models.MemoryTierHigh
	}
}

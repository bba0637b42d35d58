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

package mediacache

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/adscreen/pkg/models"
)

func TestProfileForTiers(t *testing.T) {
	tests := []struct {
		name        string
		descriptor  models.CapabilityDescriptor
		budget      int64
		compression Compression
		dims        models.Resolution
	}{
		{
			name:        "low tier",
			descriptor:  models.CapabilityDescriptor{MemoryTier: models.MemoryTierLow},
			budget:      48 * mib,
			compression: CompressionHigh,
			dims:        models.Resolution{Width: 1280, Height: 720},
		},
		{
			name:        "standard tier",
			descriptor:  models.CapabilityDescriptor{MemoryTier: models.MemoryTierStandard},
			budget:      160 * mib,
			compression: CompressionMedium,
			dims:        models.Resolution{Width: 1920, Height: 1080},
		},
		{
			name:        "high tier clamped by display",
			descriptor:  models.CapabilityDescriptor{MemoryTier: models.MemoryTierHigh, MaxResolution: models.Resolution{Width: 1920, Height: 1080}},
			budget:      320 * mib,
			compression: CompressionLow,
			dims:        models.Resolution{Width: 1920, Height: 1080},
		},
		{
			name:        "unknown tier treated as low",
			descriptor:  models.CapabilityDescriptor{},
			budget:      48 * mib,
			compression: CompressionHigh,
			dims:        models.Resolution{Width: 1280, Height: 720},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ProfileFor(tt.descriptor, 0)

			assert.Equal(t, tt.budget, p.Budget)
			assert.Equal(t, tt.compression, p.Compression)
			assert.Equal(t, tt.dims, p.MaxDimensions)
		})
	}
}

func TestProfileForBudgetOverride(t *testing.T) {
	p := ProfileFor(models.CapabilityDescriptor{MemoryTier: models.MemoryTierHigh}, 10*mib)
	assert.Equal(t, int64(10*mib), p.Budget)
}

func TestProfileForFormatsKeepBaseline(t *testing.T) {
	unknown := ProfileFor(models.CapabilityDescriptor{SupportedCodecs: []string{}}, 0)
	assert.Equal(t, []string{"jpeg"}, unknown.ImageFormats)
	assert.Equal(t, []string{"h264"}, unknown.VideoCodecs)

	rich := ProfileFor(models.CapabilityDescriptor{
		MemoryTier:      models.MemoryTierHigh,
		SupportedCodecs: models.NormalizeCodecs([]string{"WEBP", "hevc", "av1", "h264"}),
	}, 0)
	assert.Equal(t, []string{"webp", "jpeg"}, rich.ImageFormats)
	assert.Equal(t, []string{"av1", "hevc", "h264"}, rich.VideoCodecs)
}

func TestVariantURL(t *testing.T) {
	p := ProfileFor(models.CapabilityDescriptor{
		MemoryTier:      models.MemoryTierStandard,
		SupportedCodecs: []string{"vp9", "webp"},
	}, 0)

	t.Run("image", func(t *testing.T) {
		v := p.VariantURL("https://cdn.example.com/a/b.png?token=abc", LoadOptions{Size: models.Resolution{Width: 640, Height: 2000}})

		u, err := url.Parse(v)
		require.NoError(t, err)

		q := u.Query()
		assert.Equal(t, "abc", q.Get("token"))
		assert.Equal(t, "webp", q.Get("format"))
		assert.Equal(t, "640", q.Get("w"))
		assert.Equal(t, "1080", q.Get("h"))
		assert.Equal(t, "70", q.Get("q"))
		assert.Equal(t, "/a/b.png", u.Path)
	})

	t.Run("video", func(t *testing.T) {
		u, err := url.Parse(p.VariantURL("https://cdn.example.com/clip.mp4", LoadOptions{}))
		require.NoError(t, err)
		assert.Equal(t, "vp9", u.Query().Get("format"))
		assert.Equal(t, "1920", u.Query().Get("w"))
	})

	t.Run("non-http source unchanged", func(t *testing.T) {
		assert.Equal(t, "file:///media/a.png", p.VariantURL("file:///media/a.png", LoadOptions{}))
	})
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindVideo, KindOf("https://x/y/clip.MP4?sig=1"))
	assert.Equal(t, KindVideo, KindOf("https://x/live/index.m3u8"))
	assert.Equal(t, KindImage, KindOf("https://x/y/banner.webp"))
	assert.Equal(t, KindImage, KindOf("https://x/y/noext"))
}

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
	"path"
	"strconv"
	"strings"

	"github.com/carverauto/adscreen/pkg/models"
)

// Compression is the compression level requested for optimized variants.
// Higher compression means lower visual quality.
type Compression string

const (
	CompressionLow    Compression = "low"
	CompressionMedium Compression = "medium"
	CompressionHigh   Compression = "high"
)

// Quality returns the encoder quality passed to the media endpoint.
func (c Compression) Quality() int {
	switch c {
	case CompressionHigh:
		return 50
	case CompressionMedium:
		return 70
	default:
		return 85
	}
}

const mib = 1 << 20

var (
	tierBudgets = map[models.MemoryTier]int64{
		models.MemoryTierLow:      48 * mib,
		models.MemoryTierStandard: 160 * mib,
		models.MemoryTierHigh:     320 * mib,
	}
	tierCompression = map[models.MemoryTier]Compression{
		models.MemoryTierLow:      CompressionHigh,
		models.MemoryTierStandard: CompressionMedium,
		models.MemoryTierHigh:     CompressionLow,
	}
	tierDimensions = map[models.MemoryTier]models.Resolution{
		models.MemoryTierLow:      {Width: 1280, Height: 720},
		models.MemoryTierStandard: {Width: 1920, Height: 1080},
		models.MemoryTierHigh:     {Width: 3840, Height: 2160},
	}

	// Most advanced first. The last entry of each list is the baseline every device decodes.
	imageFormatPreference = []string{"avif", "webp", "jpeg"}
	videoCodecPreference  = []string{"av1", "hevc", "vp9", "h264"}

	videoExtensions = map[string]bool{
		".mp4": true, ".m4v": true, ".webm": true, ".mov": true, ".mkv": true, ".m3u8": true, ".ts": true,
	}
)

// Profile is the cache policy derived once from the device capabilities.
type Profile struct {
	Budget        int64
	Compression   Compression
	MaxDimensions models.Resolution
	ImageFormats  []string
	VideoCodecs   []string
}

// ProfileFor derives the cache profile for a device. budgetOverride replaces
// the tier budget when positive.
func ProfileFor(d models.CapabilityDescriptor, budgetOverride int64) Profile {
	tier := d.MemoryTier
	if _, ok := tierBudgets[tier]; !ok {
		tier = models.MemoryTierLow
	}

	dims := tierDimensions[tier]
	if !d.MaxResolution.IsZero() {
		dims.Width = min(dims.Width, d.MaxResolution.Width)
		dims.Height = min(dims.Height, d.MaxResolution.Height)
	}

	budget := tierBudgets[tier]
	if budgetOverride > 0 {
		budget = budgetOverride
	}

	return Profile{
		Budget:        budget,
		Compression:   tierCompression[tier],
		MaxDimensions: dims,
		ImageFormats:  supportedInOrder(d, imageFormatPreference),
		VideoCodecs:   supportedInOrder(d, videoCodecPreference),
	}
}

func supportedInOrder(d models.CapabilityDescriptor, preference []string) []string {
	out := make([]string, 0, len(preference))
	baseline := preference[len(preference)-1]

	for _, f := range preference {
		if f == baseline || d.SupportsCodec(f) {
			out = append(out, f)
		}
	}

	return out
}

// MediaKind distinguishes still images from video.
type MediaKind string

const (
	KindImage MediaKind = "image"
	KindVideo MediaKind = "video"
)

// KindOf guesses the media kind from the source path.
func KindOf(src string) MediaKind {
	p := src
	if u, err := url.Parse(src); err == nil {
		p = u.Path
	}

	if videoExtensions[strings.ToLower(path.Ext(p))] {
		return KindVideo
	}

	return KindImage
}

// VariantURL builds the optimized request for src. It returns src unchanged
// when src is not an http(s) URL.
func (p Profile) VariantURL(src string, opts LoadOptions) string {
	u, err := url.Parse(src)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return src
	}

	kind := opts.Kind
	if kind == "" {
		kind = KindOf(src)
	}

	formats := p.ImageFormats
	if kind == KindVideo {
		formats = p.VideoCodecs
	}

	dims := p.MaxDimensions
	if !opts.Size.IsZero() {
		dims.Width = min(dims.Width, opts.Size.Width)
		dims.Height = min(dims.Height, opts.Size.Height)
	}

	q := u.Query()

	if len(formats) > 0 {
		q.Set("format", formats[0])
	}

	if !dims.IsZero() {
		q.Set("w", strconv.Itoa(dims.Width))
		q.Set("h", strconv.Itoa(dims.Height))
	}

	q.Set("q", strconv.Itoa(p.Compression.Quality()))
	u.RawQuery = q.Encode()

	return u.String()
}

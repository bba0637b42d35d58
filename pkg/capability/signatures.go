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
	"regexp"

	"github.com/carverauto/adscreen/pkg/models"
)

// signature is an allow-listed identification pattern for TV-class devices.
// Every field is the minimum the platform family is known to provide.
type signature struct {
	platform string
	pattern  *regexp.Regexp
	maxRes   models.Resolution
	codecs   []string
}

var (
	res720  = models.Resolution{Width: 1280, Height: 720}
	res1080 = models.Resolution{Width: 1920, Height: 1080}

	baseCodecs = []string{"h264", "jpeg", "png"}
)

// Order matters: more specific platforms come before generic smart-tv tokens.
var tvSignatures = []signature{
	{platform: "tizen", pattern: regexp.MustCompile(`Tizen`), maxRes: res1080, codecs: append([]string{"hevc", "vp9", "webp"}, baseCodecs...)},
	{platform: "webos", pattern: regexp.MustCompile(`Web0S|webOS`), maxRes: res1080, codecs: append([]string{"hevc", "vp9", "webp"}, baseCodecs...)},
	{platform: "bravia", pattern: regexp.MustCompile(`BRAVIA`), maxRes: res1080, codecs: append([]string{"vp9", "webp"}, baseCodecs...)},
	{platform: "firetv", pattern: regexp.MustCompile(`\bAFT[A-Z0-9]+\b`), maxRes: res1080, codecs: append([]string{"hevc", "webp"}, baseCodecs...)},
	{platform: "androidtv", pattern: regexp.MustCompile(`Android ?TV`), maxRes: res1080, codecs: append([]string{"vp9", "webp"}, baseCodecs...)},
	{platform: "chromecast", pattern: regexp.MustCompile(`CrKey`), maxRes: res1080, codecs: append([]string{"vp9", "webp"}, baseCodecs...)},
	{platform: "roku", pattern: regexp.MustCompile(`Roku`), maxRes: res1080, codecs: baseCodecs},
	{platform: "vidaa", pattern: regexp.MustCompile(`VIDAA`), maxRes: res1080, codecs: baseCodecs},
	{platform: "hbbtv", pattern: regexp.MustCompile(`HbbTV`), maxRes: res720, codecs: baseCodecs},
	{platform: "smarttv", pattern: regexp.MustCompile(`(?i)smart-?tv`), maxRes: res720, codecs: baseCodecs},
}

func matchSignature(identification string) (signature, bool) {
	if identification == "" {
		return signature{}, false
	}

	for _, sig := range tvSignatures {
		if sig.pattern.MatchString(identification) {
			return sig, true
		}
	}

	return signature{}, false
}

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

package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/adscreen/pkg/logger"
)

func TestResolvePassesThroughHTTP(t *testing.T) {
	ctrl := gomock.NewController(t)
	signer := NewMockSigner(ctrl)
	r := New(signer, "", 0, logger.NewTestLogger())

	for _, ref := range []string{"https://cdn/x.mp4", "HTTP://cdn/y.png"} {
		got, ok := r.Resolve(context.Background(), ref)
		assert.True(t, ok)
		assert.Equal(t, ref, got)
	}
}

func TestResolveSignsStoragePaths(t *testing.T) {
	tests := []struct {
		ref  string
		path string
	}{
		{ref: "ads/banner.png", path: "ads/banner.png"},
		{ref: "media/ads/banner.png", path: "ads/banner.png"},
		{ref: "storage://media/ads/banner.png", path: "ads/banner.png"},
		{ref: "storage://ads/banner.png", path: "ads/banner.png"},
		{ref: "/ads/banner.png", path: "ads/banner.png"},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			signer := NewMockSigner(ctrl)
			r := New(signer, "", 0, logger.NewTestLogger())

			signer.EXPECT().SignURL(gomock.Any(), DefaultBucket, tt.path, DefaultTTL).Return("https://signed/"+tt.path, nil)

			got, ok := r.Resolve(context.Background(), tt.ref)
			assert.True(t, ok)
			assert.Equal(t, "https://signed/"+tt.path, got)
		})
	}
}

func TestResolveFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	signer := NewMockSigner(ctrl)
	r := New(signer, "private", 0, logger.NewTestLogger())

	got, ok := r.Resolve(context.Background(), "  ")
	assert.False(t, ok)
	assert.Empty(t, got)

	got, ok = r.Resolve(context.Background(), "storage://")
	assert.False(t, ok)
	assert.Empty(t, got)

	signer.EXPECT().SignURL(gomock.Any(), "private", "a.png", DefaultTTL).Return("", errors.New("403"))

	got, ok = r.Resolve(context.Background(), "private/a.png")
	assert.False(t, ok)
	assert.Empty(t, got)

	signer.EXPECT().SignURL(gomock.Any(), "private", "b.png", DefaultTTL).Return("", nil)

	_, ok = r.Resolve(context.Background(), "b.png")
	assert.False(t, ok)
}

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
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register decoder for DecodeConfig
	_ "image/jpeg" // register decoder for DecodeConfig
	_ "image/png"  // register decoder for DecodeConfig
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/h2non/filetype"
)

// ErrUnexpectedStatus is returned for non-2xx media responses.
var ErrUnexpectedStatus = errors.New("unexpected media response status")

const (
	defaultSniffBytes    = 512 << 10
	defaultMaxImageBytes = 32 << 20
)

// HTTPFetcher loads media over HTTP. Images are read in full (bounded); for
// video only the leading bytes are read since the player streams the rest.
type HTTPFetcher struct {
	client        *http.Client
	sniffBytes    int64
	maxImageBytes int64
}

var _ Fetcher = (*HTTPFetcher)(nil)

// NewHTTPFetcher creates an HTTPFetcher using client.
func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}

	return &HTTPFetcher{
		client:        client,
		sniffBytes:    defaultSniffBytes,
		maxImageBytes: defaultMaxImageBytes,
	}
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*Asset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create media request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request media: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	head, err := io.ReadAll(io.LimitReader(resp.Body, f.sniffBytes))
	if err != nil {
		return nil, fmt.Errorf("read media: %w", err)
	}

	asset := &Asset{TransferBytes: int64(len(head))}
	asset.MIME, asset.Kind = detect(head, resp.Header.Get("Content-Type"))

	if asset.Kind != KindImage {
		return asset, nil
	}

	rest, err := io.Copy(io.Discard, io.LimitReader(resp.Body, f.maxImageBytes-int64(len(head))))
	if err != nil {
		return nil, fmt.Errorf("read media: %w", err)
	}

	asset.TransferBytes += rest

	if cfg, _, err := image.DecodeConfig(bytes.NewReader(head)); err == nil {
		asset.Width = cfg.Width
		asset.Height = cfg.Height
	}

	return asset, nil
}

func detect(head []byte, contentType string) (string, MediaKind) {
	if t, err := filetype.Match(head); err == nil && t != filetype.Unknown {
		return t.MIME.Value, kindForMIME(t.MIME.Value)
	}

	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", ""
	}

	return mt, kindForMIME(mt)
}

func kindForMIME(mt string) MediaKind {
	switch {
	case strings.HasPrefix(mt, "image/"):
		return KindImage
	case strings.HasPrefix(mt, "video/"), mt == "application/vnd.apple.mpegurl", mt == "application/x-mpegurl":
		return KindVideo
	default:
		return ""
	}
}

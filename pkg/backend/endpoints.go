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

package backend

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/carverauto/adscreen/pkg/models"
)

const (
	pathPair      = "/v1/screens/pair"
	pathHeartbeat = "/v1/devices/heartbeat"
	pathCommands  = "/v1/devices/commands"
	pathSign      = "/v1/storage/sign"
	pathCrash     = "/v1/devices/crash"

	actionPoll = "poll"
	actionAck  = "ack"
)

type pairRequest struct {
	Code     string `json:"code"`
	DeviceID string `json:"device_id"`
}

type commandRequest struct {
	DeviceID string   `json:"device_id"`
	ScreenID string   `json:"screen_id,omitempty"`
	Action   string   `json:"action"`
	AckIDs   []string `json:"ack_ids,omitempty"`
}

type commandResponse struct {
	Commands []models.Command `json:"commands"`
}

type signRequest struct {
	Bucket     string `json:"bucket"`
	Path       string `json:"path"`
	TTLSeconds int    `json:"ttl_seconds"`
}

type signResponse struct {
	SignedURL string `json:"signed_url"`
}

type scheduleResponse struct {
	Entries []models.ScheduleEntry `json:"entries"`
}

// LookupPairingCode resolves a pairing code. An unknown code yields a nil
// result and a nil error.
func (c *Client) LookupPairingCode(ctx context.Context, code, deviceID string) (*models.PairingResult, error) {
	var res models.PairingResult

	err := c.doRetrying(ctx, http.MethodPost, pathPair, nil, pairRequest{Code: code, DeviceID: deviceID}, &res)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	if res.ScreenID == "" {
		return nil, nil
	}

	return &res, nil
}

// SendHeartbeat posts one liveness report without retrying.
func (c *Client) SendHeartbeat(ctx context.Context, hb *models.Heartbeat) error {
	return c.doOnce(ctx, http.MethodPost, pathHeartbeat, hb)
}

// PollCommands returns the pending commands for the device.
func (c *Client) PollCommands(ctx context.Context, deviceID, screenID string) ([]models.Command, error) {
	var res commandResponse

	req := commandRequest{DeviceID: deviceID, ScreenID: screenID, Action: actionPoll}
	if err := c.doRetrying(ctx, http.MethodPost, pathCommands, nil, req, &res); err != nil {
		return nil, err
	}

	return res.Commands, nil
}

// AckCommands acknowledges applied command ids in one call.
func (c *Client) AckCommands(ctx context.Context, deviceID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	req := commandRequest{DeviceID: deviceID, Action: actionAck, AckIDs: ids}

	return c.doRetrying(ctx, http.MethodPost, pathCommands, nil, req, nil)
}

// SignURL requests a time-limited URL for a private storage object.
func (c *Client) SignURL(ctx context.Context, bucket, path string, ttl time.Duration) (string, error) {
	var res signResponse

	req := signRequest{Bucket: bucket, Path: path, TTLSeconds: int(ttl / time.Second)}
	if err := c.doRetrying(ctx, http.MethodPost, pathSign, nil, req, &res); err != nil {
		return "", err
	}

	return res.SignedURL, nil
}

// DueSchedule returns the most recent schedule entry due at now, if any.
func (c *Client) DueSchedule(ctx context.Context, screenID string, now time.Time) ([]models.ScheduleEntry, error) {
	var res scheduleResponse

	query := url.Values{
		"due_before": {now.UTC().Format(time.RFC3339)},
		"limit":      {strconv.Itoa(1)},
	}

	path := "/v1/screens/" + url.PathEscape(screenID) + "/schedule"
	if err := c.doRetrying(ctx, http.MethodGet, path, query, nil, &res); err != nil {
		return nil, err
	}

	return res.Entries, nil
}

// ReportCrash posts a crash report without retrying.
func (c *Client) ReportCrash(ctx context.Context, report *models.CrashReport) error {
	return c.doOnce(ctx, http.MethodPost, pathCrash, report)
}

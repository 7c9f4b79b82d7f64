// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/MKhiriev/go-fin-keeper/internal/config"
	"github.com/MKhiriev/go-fin-keeper/internal/logger"
	"github.com/MKhiriev/go-fin-keeper/internal/utils"
	"github.com/MKhiriev/go-fin-keeper/models"
	"github.com/sethvargo/go-retry"
)

const (
	streamBackoffBase = time.Second
	streamBackoffMax  = 30 * time.Second
	streamJitterPct   = 25

	streamInitialDelayMin = 150 * time.Millisecond
	streamInitialDelayMax = 400 * time.Millisecond
)

// errStreamEnded is returned by connect when an established stream closed.
var errStreamEnded = errors.New("change stream ended")

// TokenSource supplies the bearer token for the stream request.
type TokenSource interface {
	Token() string
}

// ChangeStream consumes the backend server-sent events endpoint. Only the
// event type is interpreted; every event means "data changed somewhere".
type ChangeStream struct {
	client *utils.HTTPClient
	path   string
	tokens TokenSource

	backoffBase time.Duration
	backoffMax  time.Duration
	delay       func() time.Duration

	logger *logger.Logger
}

// NewChangeStream builds a stream reader for adapterCfg.EventsPath. The
// stream uses its own HTTP client without a request timeout.
func NewChangeStream(adapterCfg config.ClientAdapter, tokens TokenSource, logger *logger.Logger) (*ChangeStream, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	path := adapterCfg.EventsPath
	if path == "" {
		path = config.DefaultEventsPath
	}

	return &ChangeStream{
		client:      utils.NewHTTPClient(baseURL, 0),
		path:        path,
		tokens:      tokens,
		backoffBase: streamBackoffBase,
		backoffMax:  streamBackoffMax,
		delay:       initialDelay,
		logger:      logger.Component("change-stream"),
	}, nil
}

func initialDelay() time.Duration {
	return streamInitialDelayMin + rand.N(streamInitialDelayMax-streamInitialDelayMin)
}

// Run keeps the stream open until ctx is cancelled, calling handle for every
// event. Failed connection attempts are retried with capped, jittered
// exponential backoff; a stream that was established and then dropped starts
// a fresh backoff sequence. Run returns nil on cancellation and an error only
// when the backend rejects the token.
func (s *ChangeStream) Run(ctx context.Context, handle func(models.ChangeEvent)) error {
	for {
		if err := sleepCtx(ctx, s.delay()); err != nil {
			return nil
		}

		err := retry.Do(ctx, s.backoff(), func(ctx context.Context) error {
			connected, err := s.connect(ctx, handle)
			switch {
			case ctx.Err() != nil:
				return ctx.Err()
			case errors.Is(err, ErrUnauthorized):
				return err
			case connected:
				return errStreamEnded
			default:
				s.logger.Debug().Err(err).Str("func", "ChangeStream.Run").Msg("stream connect failed, backing off")
				return retry.RetryableError(err)
			}
		})

		switch {
		case ctx.Err() != nil:
			return nil
		case errors.Is(err, errStreamEnded):
			s.logger.Debug().Str("func", "ChangeStream.Run").Msg("stream ended, reconnecting")
			continue
		default:
			return err
		}
	}
}

func (s *ChangeStream) backoff() retry.Backoff {
	b := retry.NewExponential(s.backoffBase)
	b = retry.WithJitterPercent(streamJitterPct, b)
	return retry.WithCappedDuration(s.backoffMax, b)
}

// connect opens one stream and reads it until it ends. connected reports
// whether the backend accepted the stream.
func (s *ChangeStream) connect(ctx context.Context, handle func(models.ChangeEvent)) (connected bool, err error) {
	req := s.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		SetHeader("Accept", "text/event-stream").
		SetHeader("Cache-Control", "no-cache")
	if token := s.tokens.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}

	resp, err := req.Get(s.path)
	if err != nil {
		return false, mapTransportError(ctx, "events request", err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(body, 4096))
		return false, statusError(resp.StatusCode(), b)
	}

	s.logger.Info().Str("func", "ChangeStream.connect").Msg("change stream connected")

	if err := readEvents(body, handle); err != nil && ctx.Err() == nil {
		s.logger.Debug().Err(err).Str("func", "ChangeStream.connect").Msg("stream read failed")
	}
	return true, errStreamEnded
}

func statusError(code int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	switch {
	case code == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	case code >= http.StatusInternalServerError:
		return fmt.Errorf("%w: http %d: %s", ErrTransient, code, msg)
	default:
		return fmt.Errorf("%w: http %d: %s", ErrUnexpectedStatus, code, msg)
	}
}

// readEvents parses an SSE body. Lines starting with ":" are comments
// (heartbeats). A blank line terminates an event. The event type comes from
// the "event:" field or, when absent, from a "type" member of the JSON data.
func readEvents(r io.Reader, handle func(models.ChangeEvent)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		eventType string
		data      []string
	)
	flush := func() {
		if eventType == "" && len(data) == 0 {
			return
		}
		ev := models.ChangeEvent{Type: eventType}
		if len(data) > 0 {
			payload := strings.Join(data, "\n")
			if json.Valid([]byte(payload)) {
				ev.Payload = json.RawMessage(payload)
				if ev.Type == "" {
					var typed struct {
						Type string `json:"type"`
					}
					if json.Unmarshal(ev.Payload, &typed) == nil {
						ev.Type = typed.Type
					}
				}
			}
		}
		if ev.Type == "" {
			ev.Type = "message"
		}
		handle(ev)
		eventType, data = "", nil
	}

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, ":"):
			continue
		case strings.HasPrefix(line, "event:"):
			eventType = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data = append(data, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}
	flush()

	return scanner.Err()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

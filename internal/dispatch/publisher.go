package dispatch

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/specialistvlad/burstmatrix/internal/ctxlog"
	"github.com/specialistvlad/burstmatrix/internal/plan"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

const (
	DefaultNamespace  = "/"
	DefaultEvent      = "plan"
	DefaultAckEvent   = "plan_received"
	DefaultTimeout    = 10 * time.Second
	DefaultMaxRetries = 3
)

// ErrRejected is returned when the orchestrator acknowledges a plan with an
// error.
var ErrRejected = errors.New("plan rejected by orchestrator")

// Config holds the connection settings of a Publisher. Empty fields take the
// defaults above; a zero MaxRetries means a single attempt.
type Config struct {
	URL                string
	Namespace          string
	Event              string
	AckEvent           string
	Timeout            time.Duration
	InsecureSkipVerify bool
	MaxRetries         uint64
}

// Publisher sends plans to one orchestrator endpoint.
type Publisher struct {
	cfg     Config
	baseURL string
	path    string
}

// New validates cfg and returns a Publisher.
func New(cfg Config) (*Publisher, error) {
	if cfg.URL == "" {
		return nil, errors.New("dispatch URL is required")
	}
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dispatch URL: %w", err)
	}
	switch u.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return nil, fmt.Errorf("unsupported dispatch URL scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("dispatch URL %q has no host", cfg.URL)
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("dispatch timeout must not be negative, got %s", cfg.Timeout)
	}

	if cfg.Namespace == "" {
		cfg.Namespace = DefaultNamespace
	}
	if cfg.Event == "" {
		cfg.Event = DefaultEvent
	}
	if cfg.AckEvent == "" {
		cfg.AckEvent = DefaultAckEvent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Publisher{
		cfg:     cfg,
		baseURL: fmt.Sprintf("%s://%s", u.Scheme, u.Host),
		path:    u.Path,
	}, nil
}

// Config returns the effective configuration, defaults applied.
func (p *Publisher) Config() Config {
	return p.cfg
}

// Publish emits the plan and waits for its acknowledgement. Each attempt is
// bounded by the configured timeout; up to MaxRetries further attempts are
// made with exponential backoff while ctx is alive.
func (p *Publisher) Publish(ctx context.Context, pl *plan.Plan) error {
	logger := ctxlog.FromContext(ctx).With("url", p.cfg.URL, "event", p.cfg.Event)

	payload, err := pl.Payload()
	if err != nil {
		return err
	}

	attempt := 0
	op := func() error {
		attempt++
		err := p.publishOnce(ctx, payload)
		if err != nil {
			logger.Warn("Plan dispatch attempt failed.", "attempt", attempt, "error", err)
		}
		return err
	}

	b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), p.cfg.MaxRetries)
	if err := backoff.Retry(op, backoff.WithContext(b, ctx)); err != nil {
		return fmt.Errorf("failed to dispatch plan after %d attempt(s): %w", attempt, err)
	}

	logger.Info("Plan dispatched.", "attempts", attempt, "jobs", len(pl.Jobs), "instances", pl.InstanceCount())
	return nil
}

func (p *Publisher) publishOnce(ctx context.Context, payload map[string]any) error {
	logger := ctxlog.FromContext(ctx).With("namespace", p.cfg.Namespace)

	var connected atomic.Bool
	done := make(chan error, 1)
	finish := func(err error) {
		select {
		case done <- err:
		default:
		}
	}

	opCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	opts := socket.DefaultOptions()
	// An unset path keeps the client default of /socket.io.
	if p.path != "" && p.path != "/" {
		opts.SetPath(p.path)
	}
	if p.cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(p.baseURL, opts)
	io := manager.Socket(p.cfg.Namespace, opts)
	defer func() {
		logger.Debug("Disconnecting socket client")
		io.Disconnect()
	}()

	io.Once(types.EventName("connect"), func(...any) {
		connected.Store(true)
		logger.Debug("Connected, emitting plan.", "sid", io.Id(), "event", p.cfg.Event)
		io.Emit(p.cfg.Event, payload)
	})

	io.On(types.EventName("connect_error"), func(errs ...any) {
		if len(errs) > 0 {
			if err, ok := errs[0].(error); ok {
				finish(fmt.Errorf("socket.io connection failed: %w", err))
				return
			}
		}
		finish(errors.New("socket.io connection failed"))
	})

	io.Once(types.EventName(p.cfg.AckEvent), func(data ...any) {
		var ack any
		if len(data) > 0 {
			ack = data[0]
		}
		finish(checkAck(ack))
	})

	io.Connect()

	select {
	case <-opCtx.Done():
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		if connected.Load() {
			return fmt.Errorf("timed out after %s waiting for event '%s'", p.cfg.Timeout, p.cfg.AckEvent)
		}
		return fmt.Errorf("timed out after %s waiting for initial connection", p.cfg.Timeout)
	case err := <-done:
		return err
	}
}

// checkAck inspects an acknowledgement payload. A map with a non-empty
// "error" entry is a rejection.
func checkAck(ack any) error {
	m, ok := ack.(map[string]any)
	if !ok {
		return nil
	}
	msg, ok := m["error"]
	if !ok || msg == nil || msg == "" {
		return nil
	}
	return backoff.Permanent(fmt.Errorf("%w: %v", ErrRejected, msg))
}

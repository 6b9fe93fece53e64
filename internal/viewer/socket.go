package viewer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"time"

	"github.com/specialistvlad/terragridgo/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Options configures a SocketPublisher.
type Options struct {
	URL                string
	Namespace          string
	InsecureSkipVerify bool
	// ConnectTimeout bounds the wait for the connect event. Zero means 15s.
	ConnectTimeout time.Duration
}

// SocketPublisher emits events over a socket.io connection.
type SocketPublisher struct {
	emit       func(event string, args ...any)
	disconnect func()
	sid        string
}

// Dial connects to a socket.io viewer and waits for the connection.
func Dial(ctx context.Context, o Options) (*SocketPublisher, error) {
	logger := ctxlog.FromContext(ctx).With("component", "viewer", "url", o.URL)
	logger.Info("Connecting to viewer...")

	parsedURL, err := url.Parse(o.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse viewer URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("viewer URL %q must include scheme and host", o.URL)
	}

	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if o.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)
	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(o.Namespace, opts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Connected to viewer", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err, ok := errs[0].(error)
		if !ok {
			err = fmt.Errorf("%v", errs[0])
		}
		connectChan <- err
	})
	io.Connect()

	timeout := o.ConnectTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("viewer connection failed: %w", err)
		}
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for viewer connection")
	case <-time.After(timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for viewer connection", timeout)
	}

	return &SocketPublisher{
		emit:       func(event string, args ...any) { io.Emit(event, args...) },
		disconnect: func() { io.Disconnect() },
		sid:        string(io.Id()),
	}, nil
}

// Publish emits one EventName message per event.
func (p *SocketPublisher) Publish(ctx context.Context, events []Event) error {
	logger := ctxlog.FromContext(ctx)
	for _, e := range events {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.emit(EventName, e.Payload())
		logger.Debug("Published node update.", "sid", p.sid, "node", e.Node, "port", e.Port, "checksum", e.Checksum)
	}
	return nil
}

// Close disconnects from the viewer.
func (p *SocketPublisher) Close() error {
	p.disconnect()
	return nil
}

// Package events publishes finished-build summaries to NATS so downstream
// automation (deploy hooks, chat notifications) can react without polling.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/sitegen/internal/config"
)

// BuildEvent is the JSON payload published for every finished build.
type BuildEvent struct {
	BuildID     string    `json:"build_id"`
	Outcome     string    `json:"outcome"`
	Pages       int       `json:"pages"`
	Collections int       `json:"collections"`
	Hash        string    `json:"hash"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Warnings    int       `json:"warnings"`
	Errors      int       `json:"errors"`
}

// Publisher is a thin NATS publisher for build events. Publishing is best
// effort; a site build never fails because the broker is down.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

// Connect establishes the NATS connection from config.
func Connect(cfg config.EventsConfig) (*Publisher, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("events url not configured")
	}
	conn, err := nats.Connect(cfg.URL,
		nats.Name("sitegen"),
		nats.MaxReconnects(3),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	slog.Info("Connected to event broker", "url", cfg.URL, "subject", cfg.Subject)
	return &Publisher{conn: conn, subject: cfg.Subject}, nil
}

// Publish sends one build event. Flush is bounded so a wedged connection
// cannot stall the caller.
func (p *Publisher) Publish(ev BuildEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal build event: %w", err)
	}
	if err := p.conn.Publish(p.subject, payload); err != nil {
		return fmt.Errorf("publish build event: %w", err)
	}
	if err := p.conn.FlushTimeout(2 * time.Second); err != nil {
		return fmt.Errorf("flush build event: %w", err)
	}
	return nil
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	_ = p.conn.Drain()
}

package fetch

import (
	"context"
	"log/slog"
	"net"
	"os/exec"
	"time"

	"github.com/glucowatch/glucowatch/internal/config"
)

// probeTimeout bounds one reachability check.
const probeTimeout = 3 * time.Second

// Link manages the underlying network connectivity for the fetcher.
type Link interface {
	// Up reports whether the link currently passes the reachability probe.
	Up(ctx context.Context) bool

	// Reestablish tries to bring the link back, returning nil once the
	// probe passes again.
	Reestablish(ctx context.Context) error
}

// JoinFunc associates with one candidate network. The default runs the
// candidate's configured join command through the shell.
type JoinFunc func(ctx context.Context, c config.Candidate) error

// ProbeFunc reports whether the store is reachable.
type ProbeFunc func(ctx context.Context) bool

// WirelessLink re-establishes connectivity by joining candidate networks in
// configured order, each attempt bounded by its own timeout, stopping at the
// first one that restores the probe.
type WirelessLink struct {
	candidates     []config.Candidate
	attemptTimeout time.Duration
	join           JoinFunc
	probe          ProbeFunc
}

// NewWirelessLink builds a WirelessLink from cfg, probing probeAddr over TCP.
func NewWirelessLink(cfg config.LinkConfig, probeAddr string) *WirelessLink {
	return &WirelessLink{
		candidates:     cfg.Candidates,
		attemptTimeout: cfg.AttemptTimeout,
		join:           commandJoin,
		probe:          tcpProbe(probeAddr),
	}
}

// Up runs the reachability probe.
func (l *WirelessLink) Up(ctx context.Context) bool {
	return l.probe(ctx)
}

// Reestablish walks the candidate list in order. Each attempt joins the
// network and re-probes under the per-attempt timeout; the first candidate
// that restores reachability wins. All candidates failing yields ErrLinkDown.
func (l *WirelessLink) Reestablish(ctx context.Context) error {
	for _, cand := range l.candidates {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		attemptCtx, cancel := context.WithTimeout(ctx, l.attemptTimeout)
		err := l.join(attemptCtx, cand)
		if err == nil && l.probe(attemptCtx) {
			cancel()
			slog.Info("fetch: link re-established", "network", cand.Name)
			return nil
		}
		cancel()

		slog.Warn("fetch: candidate network failed",
			"network", cand.Name, "err", err)
	}
	return ErrLinkDown
}

// commandJoin runs the candidate's join command through the shell, bounded
// by the attempt context.
func commandJoin(ctx context.Context, c config.Candidate) error {
	return exec.CommandContext(ctx, "/bin/sh", "-c", c.JoinCommand).Run()
}

// tcpProbe returns a ProbeFunc that dials addr. An empty addr always
// reports up, effectively disabling link management.
func tcpProbe(addr string) ProbeFunc {
	return func(ctx context.Context) bool {
		if addr == "" {
			return true
		}
		d := net.Dialer{Timeout: probeTimeout}
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}
}

// Package history guards password reuse against an external history store.
//
// The gate owns the failure policy of the store. A store that cannot answer a
// reuse check blocks the password change; a store that cannot record an
// accepted password never blocks it. See FailurePolicy.
package history

//go:generate mockgen -source=gate.go -destination=mocks/mocks.go -package=mocks Store,Fingerprinter,Recorder

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"pwpolicy/internal/policy/fingerprint"
	"pwpolicy/internal/policy/models"
	"pwpolicy/pkg/platform/sentinel"
	"pwpolicy/pkg/requestcontext"
)

// Store persists password fingerprints. Implementations are pure I/O.
type Store interface {
	// Exists reports whether userID already used the password with fingerprint.
	Exists(ctx context.Context, userID, fingerprint string) (bool, error)

	// Insert appends a history record.
	Insert(ctx context.Context, record models.HistoryRecord) error
}

// Fingerprinter computes the stored form of a password.
type Fingerprinter interface {
	Fingerprint(password string) (string, error)
}

// Recorder receives gate outcomes for metrics.
type Recorder interface {
	ObserveHistory(operation, outcome string, d time.Duration)
}

// Operation names a gate operation in the failure policy.
type Operation string

const (
	OperationCheck  Operation = "check"
	OperationRecord Operation = "record"
)

// OnError is the behavior of an operation when the store fails.
type OnError int

const (
	// FailClosed treats the failure as the stricter outcome (password reused).
	FailClosed OnError = iota
	// FailOpen logs the failure and continues as if the store were absent.
	FailOpen
)

// FailurePolicy maps each operation to its behavior on store error or timeout.
var FailurePolicy = map[Operation]OnError{
	OperationCheck:  FailClosed,
	OperationRecord: FailOpen,
}

// UnknownClientIP is stored when the caller's address is not known.
const UnknownClientIP = "unknown"

const defaultTimeout = 5 * time.Second

// Gate checks and records password reuse.
type Gate struct {
	store    Store
	hasher   Fingerprinter
	logger   *slog.Logger
	recorder Recorder
	timeout  time.Duration
}

type Option func(*Gate)

func WithLogger(logger *slog.Logger) Option {
	return func(g *Gate) {
		g.logger = logger
	}
}

func WithFingerprinter(f Fingerprinter) Option {
	return func(g *Gate) {
		g.hasher = f
	}
}

func WithRecorder(r Recorder) Option {
	return func(g *Gate) {
		g.recorder = r
	}
}

// WithTimeout bounds every store call; a timeout counts as a store error.
func WithTimeout(d time.Duration) Option {
	return func(g *Gate) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// New builds a gate over store. A nil store disables the gate: checks report
// "not reused" and records are skipped.
func New(store Store, opts ...Option) *Gate {
	g := &Gate{
		store:   store,
		hasher:  fingerprint.New(),
		logger:  slog.Default(),
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Enabled reports whether a store is configured.
func (g *Gate) Enabled() bool {
	return g != nil && g.store != nil
}

// IsReused reports whether userID already used password. Store failures are
// reported as reuse (fail closed); a missing fingerprint is reported as not
// reused because nothing can be determined.
func (g *Gate) IsReused(ctx context.Context, userID, password string) bool {
	if !g.Enabled() {
		g.logger.DebugContext(ctx, "password history not configured, skipping check")
		return false
	}

	fp, err := g.hasher.Fingerprint(password)
	if err != nil {
		g.logger.WarnContext(ctx, "failed to fingerprint password, skipping history check",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		g.observe(OperationCheck, "skipped", 0)
		return false
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	used, err := g.store.Exists(ctx, userID, fp)
	if err != nil {
		return g.onError(ctx, OperationCheck, userID, err, time.Since(start))
	}
	if used {
		g.observe(OperationCheck, "reused", time.Since(start))
	} else {
		g.observe(OperationCheck, "fresh", time.Since(start))
	}
	return used
}

// Record stores the fingerprint of an accepted password. Failures are logged
// and swallowed (fail open).
func (g *Gate) Record(ctx context.Context, userID, password, clientIP string) {
	if !g.Enabled() {
		g.logger.DebugContext(ctx, "password history not configured, skipping storage")
		return
	}

	fp, err := g.hasher.Fingerprint(password)
	if err != nil {
		g.logger.WarnContext(ctx, "failed to fingerprint password, skipping history storage",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		g.observe(OperationRecord, "skipped", 0)
		return
	}
	if clientIP == "" {
		clientIP = UnknownClientIP
	}

	record := models.HistoryRecord{
		UserID:      userID,
		Fingerprint: fp,
		CreatedAt:   requestcontext.Now(ctx),
		ClientIP:    clientIP,
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if err := g.store.Insert(ctx, record); err != nil {
		g.onError(ctx, OperationRecord, userID, err, time.Since(start))
		return
	}
	g.observe(OperationRecord, "stored", time.Since(start))
	g.logger.InfoContext(ctx, "password history stored",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", userID,
	)
}

// onError applies FailurePolicy for op and returns the reuse verdict to use.
func (g *Gate) onError(ctx context.Context, op Operation, userID string, err error, d time.Duration) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		err = errors.Join(sentinel.ErrUnavailable, err)
	}

	switch FailurePolicy[op] {
	case FailOpen:
		g.logger.ErrorContext(ctx, "password history store failed, continuing",
			"request_id", requestcontext.RequestID(ctx),
			"operation", string(op),
			"user_id", userID,
			"error", err,
		)
		g.observe(op, "error_ignored", d)
		return false
	default:
		g.logger.ErrorContext(ctx, "password history store failed, treating password as reused",
			"request_id", requestcontext.RequestID(ctx),
			"operation", string(op),
			"user_id", userID,
			"error", err,
		)
		g.observe(op, "error_blocked", d)
		return true
	}
}

func (g *Gate) observe(op Operation, outcome string, d time.Duration) {
	if g.recorder != nil {
		g.recorder.ObserveHistory(string(op), outcome, d)
	}
}

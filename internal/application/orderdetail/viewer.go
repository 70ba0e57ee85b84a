package orderdetail

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/b2bportal/backend/internal/domain/order"
	"github.com/b2bportal/backend/internal/domain/shared"
)

// OrderSource fetches raw orders from the upstream commerce platform.
type OrderSource interface {
	GetOrder(ctx context.Context, id int64) (*order.RawOrder, error)
}

// NotFoundError signals that the upstream reported "order does not exist".
// RetryOrderID carries the session's last successfully loaded order id so
// the caller can schedule its one-shot redirect; it is zero when the session
// has not loaded an order yet.
type NotFoundError struct {
	OrderID      int64
	RetryOrderID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("order %d does not exist", e.OrderID)
}

func (e *NotFoundError) Unwrap() error {
	return shared.ErrOrderDoesNotExist
}

// sessionIdleTTL is how long a view session survives without a load before
// it is pruned.
const sessionIdleTTL = 30 * time.Minute

// viewSession is the per-client navigation state: the request epoch that
// gates stale responses and the last order that loaded successfully.
type viewSession struct {
	epoch atomic.Int64

	mu         sync.Mutex
	lastGoodID int64
	lastSeen   time.Time
}

// Viewer loads and assembles order view models, gating each load with a
// per-session request epoch. Paging quickly between orders within one
// session issues overlapping fetches; a response whose epoch is no longer
// the session's current one is discarded instead of overwriting state with
// the wrong order's data. Sessions are independent: loads from different
// clients never supersede each other.
type Viewer struct {
	source    OrderSource
	assembler *Assembler
	logger    *zap.Logger

	mu       sync.Mutex
	sessions map[string]*viewSession
}

// NewViewer creates a Viewer.
func NewViewer(source OrderSource, assembler *Assembler, logger *zap.Logger) *Viewer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Viewer{
		source:    source,
		assembler: assembler,
		logger:    logger,
		sessions:  make(map[string]*viewSession),
	}
}

// Load fetches the raw order and assembles its view model. sessionID keys
// the navigation session the load belongs to; a load that was superseded by
// a newer one in the same session before its response arrived returns
// shared.ErrStaleResponse and leaves the session's last-known-good order
// untouched. An empty sessionID disables gating: the load stands alone.
func (v *Viewer) Load(ctx context.Context, sessionID string, id int64) (*OrderViewModel, error) {
	if sessionID == "" {
		raw, err := v.source.GetOrder(ctx, id)
		if err != nil {
			if errors.Is(err, shared.ErrOrderDoesNotExist) {
				return nil, &NotFoundError{OrderID: id}
			}
			return nil, err
		}
		return v.assembler.Assemble(raw), nil
	}

	sess := v.session(sessionID)
	epoch := sess.epoch.Add(1)

	raw, err := v.source.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrOrderDoesNotExist) {
			sess.mu.Lock()
			last := sess.lastGoodID
			sess.mu.Unlock()
			return nil, &NotFoundError{OrderID: id, RetryOrderID: last}
		}
		return nil, err
	}

	if sess.epoch.Load() != epoch {
		v.logger.Warn("Discarding stale order response",
			zap.String("session_id", sessionID),
			zap.Int64("order_id", id),
			zap.Int64("epoch", epoch),
		)
		return nil, shared.ErrStaleResponse
	}

	vm := v.assembler.Assemble(raw)

	sess.mu.Lock()
	sess.lastGoodID = id
	sess.mu.Unlock()

	return vm, nil
}

// LastGoodOrderID returns the id of the session's most recently loaded
// order, zero if the session has not loaded one yet.
func (v *Viewer) LastGoodOrderID(sessionID string) int64 {
	v.mu.Lock()
	sess, ok := v.sessions[sessionID]
	v.mu.Unlock()
	if !ok {
		return 0
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.lastGoodID
}

// session returns the state for sessionID, creating it if needed. Idle
// sessions are pruned on creation so the map does not grow without bound.
func (v *Viewer) session(sessionID string) *viewSession {
	now := time.Now()

	v.mu.Lock()
	defer v.mu.Unlock()

	if sess, ok := v.sessions[sessionID]; ok {
		sess.mu.Lock()
		sess.lastSeen = now
		sess.mu.Unlock()
		return sess
	}

	for key, sess := range v.sessions {
		sess.mu.Lock()
		idle := now.Sub(sess.lastSeen) > sessionIdleTTL
		sess.mu.Unlock()
		if idle {
			delete(v.sessions, key)
		}
	}

	sess := &viewSession{lastSeen: now}
	v.sessions[sessionID] = sess
	return sess
}

package coin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fastprodman/vcoingame/internal/repos/ledger"
	"github.com/fastprodman/vcoingame/internal/vk"
)

// Ledger is the external transaction feed. *Client implements it.
type Ledger interface {
	ListTransactions(ctx context.Context, dir Direction) ([]Transaction, error)
}

// Depositor applies a deposit exactly once per transaction id.
// *session.Store implements it.
type Depositor interface {
	ProcessedIDs(ctx context.Context) (map[int64]struct{}, error)
	Deposit(ctx context.Context, userID int64, rec ledger.Record) error
}

// Notifier queues outbound notifications. *vk.ExecutePool implements it.
type Notifier interface {
	Enqueue(c vk.Call)
}

// NotifyFunc builds the "credited" notification for a user.
type NotifyFunc func(userID, amount int64) vk.Call

// Reconciler polls the external ledger and credits user balances for
// new incoming transactions. The feed is at-least-once and overlaps
// between polls; the dedup store is the sole mechanism preventing a
// double credit.
type Reconciler struct {
	ledger     Ledger
	store      Depositor
	pool       Notifier
	notify     NotifyFunc
	merchantID int64
	payload    int64
	interval   time.Duration
}

func NewReconciler(
	lg Ledger,
	store Depositor,
	pool Notifier,
	notify NotifyFunc,
	merchantID, payload int64,
	interval time.Duration,
) *Reconciler {
	return &Reconciler{
		ledger:     lg,
		store:      store,
		pool:       pool,
		notify:     notify,
		merchantID: merchantID,
		payload:    payload,
		interval:   interval,
	}
}

// Run polls on the reconciler's interval until ctx is done. Cycle
// errors are transient: the next poll re-fetches the same window.
func (r *Reconciler) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			err := r.Cycle(ctx)
			if err != nil {
				slog.Error("reconcile cycle failed", "error", err)
			}
		}
	}
}

// Cycle runs one reconciliation pass.
func (r *Reconciler) Cycle(ctx context.Context) error {
	processed, err := r.store.ProcessedIDs(ctx)
	if err != nil {
		return fmt.Errorf("load processed ids: %w", err)
	}

	for _, dir := range []Direction{DirectionToMerchant, DirectionToUser} {
		txs, err := r.ledger.ListTransactions(ctx, dir)
		if err != nil {
			// Transient; the next cycle re-fetches the same window.
			slog.Error("fetch transactions failed", "direction", int(dir), "error", err)
			continue
		}

		for _, t := range txs {
			r.apply(ctx, t, processed)
		}
	}

	return nil
}

func (r *Reconciler) apply(ctx context.Context, t Transaction, processed map[int64]struct{}) {
	// Our own outgoing transfers come back through the feed.
	if t.FromID == r.merchantID {
		return
	}

	// Transactions tagged for another deployment sharing this ledger.
	if t.Payload != r.payload {
		return
	}

	if _, seen := processed[t.ID]; seen {
		return
	}

	rec := ledger.Record{
		TID:       t.ID,
		FromID:    t.FromID,
		ToID:      t.ToID,
		Amount:    t.Amount,
		CreatedAt: time.Unix(t.CreatedAt, 0),
	}

	// An incoming payment credits the sender's game balance.
	err := r.store.Deposit(ctx, t.FromID, rec)
	if err != nil {
		if errors.Is(err, ledger.ErrDuplicateTransaction) {
			// Lost the race with a previous cycle; already credited.
			return
		}

		slog.Error("apply deposit failed",
			"tid", t.ID, "user_id", t.FromID, "amount", t.Amount, "error", err)
		return
	}

	processed[t.ID] = struct{}{}

	slog.Info("deposit credited",
		"tid", t.ID, "user_id", t.FromID, "amount", t.Amount)

	r.pool.Enqueue(r.notify(t.FromID, t.Amount))
}

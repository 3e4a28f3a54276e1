package coin

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/fastprodman/vcoingame/internal/repos/ledger"
	"github.com/fastprodman/vcoingame/internal/vk"
)

const (
	testMerchantID = int64(100)
	testPayload    = int64(77)
)

type fakeLedger struct {
	txs map[Direction][]Transaction
	err error
}

func (f *fakeLedger) ListTransactions(ctx context.Context, dir Direction) ([]Transaction, error) {
	if f.err != nil {
		return nil, f.err
	}

	return f.txs[dir], nil
}

type fakeDepositor struct {
	processed map[int64]struct{}
	deposits  []ledger.Record
}

func newFakeDepositor() *fakeDepositor {
	return &fakeDepositor{processed: make(map[int64]struct{})}
}

func (f *fakeDepositor) ProcessedIDs(ctx context.Context) (map[int64]struct{}, error) {
	ids := make(map[int64]struct{}, len(f.processed))
	for id := range f.processed {
		ids[id] = struct{}{}
	}

	return ids, nil
}

func (f *fakeDepositor) Deposit(ctx context.Context, userID int64, rec ledger.Record) error {
	if _, ok := f.processed[rec.TID]; ok {
		return ledger.ErrDuplicateTransaction
	}

	f.processed[rec.TID] = struct{}{}
	f.deposits = append(f.deposits, rec)

	return nil
}

type fakeNotifier struct {
	calls []vk.Call
}

func (f *fakeNotifier) Enqueue(c vk.Call) {
	f.calls = append(f.calls, c)
}

func newTestReconciler(lg Ledger, store Depositor, pool Notifier) *Reconciler {
	notify := func(userID, amount int64) vk.Call {
		return vk.NewMessage(userID, fmt.Sprintf("credited %d", amount))
	}

	return NewReconciler(lg, store, pool, notify,
		testMerchantID, testPayload, time.Second)
}

func incoming(id, from, amount int64) Transaction {
	return Transaction{
		ID:      id,
		FromID:  from,
		ToID:    testMerchantID,
		Amount:  amount,
		Payload: testPayload,
	}
}

func TestReconciler_CreditsNewTransaction(t *testing.T) {
	t.Parallel()

	lg := &fakeLedger{txs: map[Direction][]Transaction{
		DirectionToMerchant: {incoming(1, 42, 5000)},
	}}
	store := newFakeDepositor()
	pool := &fakeNotifier{}

	err := newTestReconciler(lg, store, pool).Cycle(context.Background())
	if err != nil {
		t.Fatalf("cycle: %v", err)
	}

	if len(store.deposits) != 1 {
		t.Fatalf("want 1 deposit, got %d", len(store.deposits))
	}

	dep := store.deposits[0]
	if dep.TID != 1 || dep.FromID != 42 || dep.Amount != 5000 {
		t.Fatalf("deposit record mismatch: %+v", dep)
	}

	if len(pool.calls) != 1 {
		t.Fatalf("want 1 notification, got %d", len(pool.calls))
	}
}

func TestReconciler_SameIDCreditedOnce(t *testing.T) {
	t.Parallel()

	lg := &fakeLedger{txs: map[Direction][]Transaction{
		DirectionToMerchant: {incoming(1, 42, 5000)},
	}}
	store := newFakeDepositor()
	pool := &fakeNotifier{}

	r := newTestReconciler(lg, store, pool)

	// The feed overlaps: consecutive cycles see the same transaction.
	for i := 0; i < 3; i++ {
		err := r.Cycle(context.Background())
		if err != nil {
			t.Fatalf("cycle %d: %v", i, err)
		}
	}

	if len(store.deposits) != 1 {
		t.Fatalf("overlapping feed must credit once, got %d deposits", len(store.deposits))
	}
	if len(pool.calls) != 1 {
		t.Fatalf("overlapping feed must notify once, got %d notifications", len(pool.calls))
	}
}

func TestReconciler_DuplicateWithinOneCycle(t *testing.T) {
	t.Parallel()

	// Both directions report the same transaction in one cycle; the
	// in-cycle seen set must stop the second pass.
	lg := &fakeLedger{txs: map[Direction][]Transaction{
		DirectionToMerchant: {incoming(1, 42, 5000)},
		DirectionToUser:     {incoming(1, 42, 5000)},
	}}
	store := newFakeDepositor()
	pool := &fakeNotifier{}

	err := newTestReconciler(lg, store, pool).Cycle(context.Background())
	if err != nil {
		t.Fatalf("cycle: %v", err)
	}

	if len(store.deposits) != 1 {
		t.Fatalf("want 1 deposit, got %d", len(store.deposits))
	}
	if len(pool.calls) != 1 {
		t.Fatalf("want 1 notification, got %d", len(pool.calls))
	}
}

func TestReconciler_FiltersOwnAndForeignTransactions(t *testing.T) {
	t.Parallel()

	own := incoming(1, testMerchantID, 5000)

	foreign := incoming(2, 42, 5000)
	foreign.Payload = testPayload + 1

	lg := &fakeLedger{txs: map[Direction][]Transaction{
		DirectionToMerchant: {own, foreign},
	}}
	store := newFakeDepositor()
	pool := &fakeNotifier{}

	err := newTestReconciler(lg, store, pool).Cycle(context.Background())
	if err != nil {
		t.Fatalf("cycle: %v", err)
	}

	if len(store.deposits) != 0 {
		t.Fatalf("filtered transactions must not credit, got %+v", store.deposits)
	}
	if len(pool.calls) != 0 {
		t.Fatalf("filtered transactions must not notify, got %d", len(pool.calls))
	}
}

func TestReconciler_FetchErrorIsTransient(t *testing.T) {
	t.Parallel()

	lg := &fakeLedger{err: fmt.Errorf("ledger down")}
	store := newFakeDepositor()
	pool := &fakeNotifier{}

	// A failed fetch must not fail the cycle; the next poll retries.
	err := newTestReconciler(lg, store, pool).Cycle(context.Background())
	if err != nil {
		t.Fatalf("cycle must tolerate fetch errors: %v", err)
	}
}

func TestReconciler_SkipsAlreadyProcessed(t *testing.T) {
	t.Parallel()

	lg := &fakeLedger{txs: map[Direction][]Transaction{
		DirectionToMerchant: {incoming(1, 42, 5000)},
	}}
	store := newFakeDepositor()
	store.processed[1] = struct{}{}
	pool := &fakeNotifier{}

	err := newTestReconciler(lg, store, pool).Cycle(context.Background())
	if err != nil {
		t.Fatalf("cycle: %v", err)
	}

	if len(store.deposits) != 0 {
		t.Fatalf("processed id must be skipped, got %+v", store.deposits)
	}
	if len(pool.calls) != 0 {
		t.Fatalf("processed id must not notify, got %d", len(pool.calls))
	}
}

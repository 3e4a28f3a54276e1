package game

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fastprodman/vcoingame/internal/dispatch"
	"github.com/fastprodman/vcoingame/internal/repos/sessions"
	"github.com/fastprodman/vcoingame/internal/session"
	"github.com/fastprodman/vcoingame/internal/top"
	"github.com/fastprodman/vcoingame/internal/vk"
)

// Notifier queues outbound replies. *vk.ExecutePool implements it.
type Notifier interface {
	Enqueue(c vk.Call)
}

// Ledger is what the handlers need from the coin service.
// *coin.Client implements it.
type Ledger interface {
	QueueTransfer(toID, amount int64)
	DepositURL(amount int64, fixed bool) string
}

// Handlers owns the bot's handler chain.
type Handlers struct {
	pool    Notifier
	coin    Ledger
	tops    *top.Service
	members *Members
	game    *Game
}

func NewHandlers(pool Notifier, coin Ledger, tops *top.Service, members *Members, g *Game) *Handlers {
	return &Handlers{
		pool:    pool,
		coin:    coin,
		tops:    tops,
		members: members,
		game:    g,
	}
}

// CreditedNotification is the reply sent when a deposit lands.
func CreditedNotification(userID, amount int64) vk.Call {
	return vk.NewMessage(userID, fmt.Sprintf(msgCredited, FormatCoins(amount)))
}

// Register installs the chain. Order is significant: the membership
// nudge observes every message without consuming it, game-flow
// handlers come before the state catch-alls, and the help fallback
// closes the chain.
func (h *Handlers) Register(d *dispatch.Dispatcher) {
	d.RegisterMembership(h.membershipChanged)

	d.Register(dispatch.MustMessageHandler("", h.nudgeNonMember, dispatch.Options{
		NonFinal: true,
	}))

	d.Register(dispatch.MustMessageHandler("Play", h.startGame, dispatch.Options{
		Exact:  true,
		States: []session.State{session.StateMenu},
	}))
	d.Register(dispatch.MustMessageHandler(`(?i)^bet\s+\d*[.,]?\d+`, h.placeBet, dispatch.Options{
		Regex:  true,
		States: []session.State{session.StateMenu},
	}))
	d.Register(dispatch.MustMessageHandler(`\d*[.,]?\d+`, h.placeBet, dispatch.Options{
		Regex:  true,
		States: []session.State{session.StateBet},
	}))
	d.Register(dispatch.MustMessageHandler(`(?i)^(heads|tails)$`, h.flip, dispatch.Options{
		Regex:      true,
		States:     []session.State{session.StateGame},
		ResetState: true,
	}))

	d.Register(dispatch.MustMessageHandler("Balance", h.balance, dispatch.Options{
		Exact: true,
	}))
	d.Register(dispatch.MustMessageHandler("Deposit", h.deposit, dispatch.Options{
		Exact: true,
	}))

	d.Register(dispatch.MustMessageHandler("Withdraw", h.startWithdraw, dispatch.Options{
		Exact:  true,
		States: []session.State{session.StateMenu},
	}))
	d.Register(dispatch.MustMessageHandler(`\d*[.,]?\d+`, h.withdraw, dispatch.Options{
		Regex:  true,
		States: []session.State{session.StateWithdraw},
	}))

	d.Register(dispatch.MustMessageHandler("Top", h.startTop, dispatch.Options{
		Exact:  true,
		States: []session.State{session.StateMenu},
	}))
	d.Register(dispatch.MustMessageHandler("Back", h.back, dispatch.Options{
		Exact:      true,
		States:     []session.State{session.StateTop},
		ResetState: true,
	}))
	d.Register(dispatch.MustMessageHandler(
		`(?i)^(richest|winners|win rate|most games|profit)$`, h.showBoard, dispatch.Options{
			Regex:  true,
			States: []session.State{session.StateTop},
		}))

	// State catch-alls keep users oriented mid-flow.
	d.Register(dispatch.MustMessageHandler("", h.promptChoice, dispatch.Options{
		States: []session.State{session.StateGame},
	}))
	d.Register(dispatch.MustMessageHandler("", h.promptBet, dispatch.Options{
		States: []session.State{session.StateBet},
	}))
	d.Register(dispatch.MustMessageHandler("", h.promptWithdraw, dispatch.Options{
		States: []session.State{session.StateWithdraw},
	}))
	d.Register(dispatch.MustMessageHandler("", h.promptTop, dispatch.Options{
		States: []session.State{session.StateTop},
	}))

	d.Register(dispatch.MustMessageHandler("", h.help, dispatch.Options{}))
}

func (h *Handlers) reply(userID int64, text string) {
	h.pool.Enqueue(vk.NewMessage(userID, text))
}

func (h *Handlers) membershipChanged(ctx context.Context, ev vk.MembershipEvent, joined bool) error {
	if joined {
		h.members.Add(ev.UserID)
		h.reply(ev.UserID, msgCommands)
		return nil
	}

	h.members.Remove(ev.UserID)

	return nil
}

func (h *Handlers) nudgeNonMember(ctx context.Context, t *dispatch.Turn) error {
	if !h.members.Has(t.Session.UserID()) {
		h.reply(t.Session.UserID(), msgNotMember)
	}

	return nil
}

func (h *Handlers) help(ctx context.Context, t *dispatch.Turn) error {
	h.reply(t.Session.UserID(), msgCommands)
	return nil
}

func (h *Handlers) balance(ctx context.Context, t *dispatch.Turn) error {
	h.reply(t.Session.UserID(), fmt.Sprintf(msgBalance, FormatCoins(t.Session.Score())))
	return nil
}

func (h *Handlers) deposit(ctx context.Context, t *dispatch.Turn) error {
	url := h.coin.DepositURL(h.game.Config().MinBet, false)
	h.reply(t.Session.UserID(), fmt.Sprintf(msgDeposit, url))

	return nil
}

func (h *Handlers) startGame(ctx context.Context, t *dispatch.Turn) error {
	cfg := h.game.Config()

	if t.Session.Score() < cfg.MinBet {
		h.reply(t.Session.UserID(), msgNoFunds)
		return nil
	}

	err := t.Session.SetState(ctx, session.StateBet)
	if err != nil {
		return err
	}

	h.promptBetText(t.Session.UserID())

	return nil
}

func (h *Handlers) placeBet(ctx context.Context, t *dispatch.Turn) error {
	sess := t.Session

	amount, ok := ParseAmount(t.Text)
	if !ok {
		h.promptBetText(sess.UserID())
		return nil
	}

	cfg := h.game.Config()

	if amount > sess.Score() {
		h.reply(sess.UserID(),
			fmt.Sprintf(msgNoFundsShort, FormatCoins(amount-sess.Score())))
		return nil
	}

	if amount < cfg.MinBet {
		h.reply(sess.UserID(), fmt.Sprintf(msgBetTooLow, FormatCoins(cfg.MinBet)))
		return nil
	}

	if amount > cfg.MaxBet {
		h.reply(sess.UserID(), fmt.Sprintf(msgBetTooHigh, FormatCoins(cfg.MaxBet)))
		return nil
	}

	err := sess.Debit(ctx, amount)
	if err != nil {
		if errors.Is(err, session.ErrInsufficientFunds) {
			// Raced past the pre-check; the conditional write held.
			h.reply(sess.UserID(), msgNoFunds)
			return nil
		}

		return err
	}

	err = sess.AddBet(ctx, amount)
	if err != nil {
		return err
	}

	err = sess.SetBet(ctx, amount)
	if err != nil {
		return err
	}

	err = sess.SetState(ctx, session.StateGame)
	if err != nil {
		return err
	}

	h.reply(sess.UserID(), fmt.Sprintf(msgBetMade, FormatCoins(Prize(amount))))

	return nil
}

func (h *Handlers) flip(ctx context.Context, t *dispatch.Turn) error {
	sess := t.Session
	bet := sess.Bet()

	if !h.game.Draw() {
		err := sess.AddLose(ctx)
		if err != nil {
			return err
		}

		h.reply(sess.UserID(), msgLose)

		return nil
	}

	prize := Prize(bet)

	err := sess.Credit(ctx, prize)
	if err != nil {
		return err
	}

	err = sess.AddWin(ctx)
	if err != nil {
		return err
	}

	err = sess.AddPrize(ctx, prize)
	if err != nil {
		return err
	}

	h.reply(sess.UserID(), fmt.Sprintf(msgWin, FormatCoins(prize)))

	return nil
}

func (h *Handlers) startWithdraw(ctx context.Context, t *dispatch.Turn) error {
	err := t.Session.SetState(ctx, session.StateWithdraw)
	if err != nil {
		return err
	}

	h.reply(t.Session.UserID(), msgWithdrawPrompt)

	return nil
}

func (h *Handlers) withdraw(ctx context.Context, t *dispatch.Turn) error {
	sess := t.Session

	amount, ok := ParseAmount(t.Text)
	if !ok || amount <= 0 {
		h.reply(sess.UserID(), msgWithdrawPrompt)
		return nil
	}

	err := sess.Debit(ctx, amount)
	if err != nil {
		if errors.Is(err, session.ErrInsufficientFunds) {
			h.reply(sess.UserID(), msgNoFunds)
			return nil
		}

		return err
	}

	err = sess.AddWithdraw(ctx, amount)
	if err != nil {
		return err
	}

	h.coin.QueueTransfer(sess.UserID(), amount)

	err = sess.SetState(ctx, session.StateMenu)
	if err != nil {
		return err
	}

	h.reply(sess.UserID(), fmt.Sprintf(msgWithdrawn, FormatCoins(amount)))

	return nil
}

func (h *Handlers) startTop(ctx context.Context, t *dispatch.Turn) error {
	err := t.Session.SetState(ctx, session.StateTop)
	if err != nil {
		return err
	}

	h.reply(t.Session.UserID(), msgTopPrompt)

	return nil
}

func (h *Handlers) back(ctx context.Context, t *dispatch.Turn) error {
	h.reply(t.Session.UserID(), msgCommands)
	return nil
}

var boardNames = map[string]sessions.BoardKind{
	"richest":    sessions.BoardScore,
	"winners":    sessions.BoardWins,
	"win rate":   sessions.BoardWinRate,
	"most games": sessions.BoardGames,
	"profit":     sessions.BoardProfit,
}

func (h *Handlers) showBoard(ctx context.Context, t *dispatch.Turn) error {
	kind, ok := boardNames[strings.ToLower(strings.TrimSpace(t.Text))]
	if !ok {
		h.reply(t.Session.UserID(), msgTopPrompt)
		return nil
	}

	positions := h.tops.Top(kind)
	if len(positions) == 0 {
		h.reply(t.Session.UserID(), msgTopEmpty)
		return nil
	}

	var b strings.Builder

	for _, p := range positions {
		fmt.Fprintf(&b, "#%d — %s\n", p.Rank, formatBoardValue(kind, p.Value))
	}

	own, ok := h.tops.Position(kind, t.Session.UserID())
	if ok {
		fmt.Fprintf(&b, "\n"+msgTopPosition, own.Rank, formatBoardValue(kind, own.Value))
	}

	h.reply(t.Session.UserID(), b.String())

	return nil
}

func formatBoardValue(kind sessions.BoardKind, value int64) string {
	switch kind {
	case sessions.BoardScore, sessions.BoardProfit:
		return FormatCoins(value) + " coins"
	case sessions.BoardWinRate:
		return fmt.Sprintf("%d%%", value)
	default:
		return fmt.Sprintf("%d", value)
	}
}

func (h *Handlers) promptBetText(userID int64) {
	cfg := h.game.Config()
	h.reply(userID, fmt.Sprintf(msgBetPrompt,
		FormatCoins(cfg.MinBet), FormatCoins(cfg.MaxBet)))
}

func (h *Handlers) promptChoice(ctx context.Context, t *dispatch.Turn) error {
	h.reply(t.Session.UserID(),
		fmt.Sprintf(msgMakeAChoice, FormatCoins(Prize(t.Session.Bet()))))
	return nil
}

func (h *Handlers) promptBet(ctx context.Context, t *dispatch.Turn) error {
	h.promptBetText(t.Session.UserID())
	return nil
}

func (h *Handlers) promptWithdraw(ctx context.Context, t *dispatch.Turn) error {
	h.reply(t.Session.UserID(), msgWithdrawPrompt)
	return nil
}

func (h *Handlers) promptTop(ctx context.Context, t *dispatch.Turn) error {
	h.reply(t.Session.UserID(), msgTopPrompt)
	return nil
}

package game

import (
	"math/rand"
	"regexp"
	"strconv"
	"strings"
)

// Config tunes the coin-flip game. All amounts are in thousandths of
// a coin.
type Config struct {
	MinBet int64
	MaxBet int64
	// WinRate is the win probability in percent.
	WinRate int
}

// Game draws coin-flip outcomes with the configured win probability.
type Game struct {
	cfg Config
	rng *rand.Rand
}

func New(cfg Config, seed int64) *Game {
	return &Game{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
	}
}

func (g *Game) Config() Config { return g.cfg }

// Draw reports whether the player won this flip.
func (g *Game) Draw() bool {
	return g.rng.Intn(100) < g.cfg.WinRate
}

// Prize is what a winning stake pays out. The stake was debited when
// the bet was placed, so a win credits double.
func Prize(bet int64) int64 {
	return bet * 2
}

var amountPattern = regexp.MustCompile(`\d*[.,]?\d+`)

// ParseAmount extracts the first decimal number from a message and
// scales it to thousandths of a coin. A comma is accepted as the
// decimal separator.
func ParseAmount(text string) (int64, bool) {
	found := amountPattern.FindString(text)
	if found == "" {
		return 0, false
	}

	v, err := strconv.ParseFloat(strings.ReplaceAll(found, ",", "."), 64)
	if err != nil {
		return 0, false
	}

	return int64(v * 1000), true
}

// FormatCoins renders an internal amount as whole coins.
func FormatCoins(amount int64) string {
	return strconv.FormatFloat(float64(amount)/1000, 'f', -1, 64)
}

package game

import "testing"

func TestParseAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want int64
		ok   bool
	}{
		{name: "integer", text: "5", want: 5000, ok: true},
		{name: "decimal point", text: "2.5", want: 2500, ok: true},
		{name: "decimal comma", text: "2,5", want: 2500, ok: true},
		{name: "leading dot", text: ".5", want: 500, ok: true},
		{name: "embedded in command", text: "bet 10", want: 10000, ok: true},
		{name: "first number wins", text: "3 or 7", want: 3000, ok: true},
		{name: "no number", text: "hello", want: 0, ok: false},
		{name: "empty", text: "", want: 0, ok: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, ok := ParseAmount(tc.text)
			if ok != tc.ok || got != tc.want {
				t.Fatalf("ParseAmount(%q) = %d, %v; want %d, %v",
					tc.text, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestFormatCoins(t *testing.T) {
	t.Parallel()

	tests := []struct {
		amount int64
		want   string
	}{
		{amount: 5000, want: "5"},
		{amount: 2500, want: "2.5"},
		{amount: 1, want: "0.001"},
		{amount: 0, want: "0"},
	}

	for _, tc := range tests {
		got := FormatCoins(tc.amount)
		if got != tc.want {
			t.Fatalf("FormatCoins(%d) = %q, want %q", tc.amount, got, tc.want)
		}
	}
}

func TestPrize(t *testing.T) {
	t.Parallel()

	if Prize(500) != 1000 {
		t.Fatalf("a win pays double the stake, got %d", Prize(500))
	}
}

func TestGame_DrawRespectsWinRate(t *testing.T) {
	t.Parallel()

	always := New(Config{WinRate: 100}, 1)
	never := New(Config{WinRate: 0}, 1)

	for i := 0; i < 100; i++ {
		if !always.Draw() {
			t.Fatal("win rate 100 must always win")
		}
		if never.Draw() {
			t.Fatal("win rate 0 must never win")
		}
	}
}

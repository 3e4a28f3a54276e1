package game

// Reply templates. Formatting arguments are documented next to each
// template; amounts are pre-formatted with FormatCoins.
const (
	msgCommands = "Hi! Let's flip a coin.\n\n" +
		"Play — start a round\n" +
		"Balance — your balance\n" +
		"Deposit — top up\n" +
		"Withdraw — cash out\n" +
		"Top — leaderboards"

	msgBalance = "Your balance: %s coins"

	msgDeposit = "Top up your balance here: %s"

	msgWithdrawPrompt = "Send the amount you want to withdraw"
	msgWithdrawn      = "%s coins on their way to you!"

	msgBetPrompt   = "Place your bet (%s to %s coins):"
	msgBetTooHigh  = "That bet is too high, the maximum is %s coins. Place your bet:"
	msgBetTooLow   = "That bet is too low, the minimum is %s coins. Place your bet:"
	msgBetMade     = "Bet placed! Call it and win %s coins: heads or tails?"
	msgMakeAChoice = "Make your call and win %s coins: heads or tails?"

	msgNoFunds = "Not enough coins on your balance.\n\n" +
		"You can top it up with Deposit"
	msgNoFundsShort = "You are %s coins short for that bet.\n\n" +
		"You can top up with Deposit"

	msgWin  = "You won %s coins!"
	msgLose = "Tails of bad luck... you lost."

	msgCredited = "%s coins have been credited to your balance!"

	msgNotMember = "Enjoying the game? Consider joining our group!"

	msgTopPrompt = "Which board? Richest, Winners, Win rate, Most games, Profit.\n" +
		"Send Back to return."
	msgTopPosition = "Your position: #%d (%s)"
	msgTopEmpty    = "The board is still empty, be the first!"
)

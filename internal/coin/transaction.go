package coin

import (
	"encoding/json"
	"fmt"
)

// TransferType classifies a ledger transaction.
type TransferType int

const (
	TransferToUser     TransferType = 3
	TransferToMerchant TransferType = 4
)

// Direction selects which side of the merchant's feed to fetch.
type Direction int

const (
	DirectionToMerchant Direction = 1
	DirectionToUser     Direction = 2
)

// Transaction is one entry of the external ledger's feed. Amount is
// in thousandths of a coin; CreatedAt is a unix timestamp.
type Transaction struct {
	ID         int64
	FromID     int64
	ToID       int64
	Amount     int64
	Type       TransferType
	Payload    int64
	ExternalID int64
	CreatedAt  int64
}

// The feed serializes amounts inconsistently (sometimes a string),
// so decoding goes through json.Number.
type rawTransaction struct {
	ID         int64        `json:"id"`
	FromID     int64        `json:"from_id"`
	ToID       int64        `json:"to_id"`
	Amount     json.Number  `json:"amount"`
	Type       TransferType `json:"type"`
	Payload    int64        `json:"payload"`
	ExternalID int64        `json:"external_id"`
	CreatedAt  int64        `json:"created_at"`
}

func (r rawTransaction) transaction() (Transaction, error) {
	amount, err := r.Amount.Int64()
	if err != nil {
		return Transaction{}, fmt.Errorf("parse amount %q: %w", r.Amount, err)
	}

	return Transaction{
		ID:         r.ID,
		FromID:     r.FromID,
		ToID:       r.ToID,
		Amount:     amount,
		Type:       r.Type,
		Payload:    r.Payload,
		ExternalID: r.ExternalID,
		CreatedAt:  r.CreatedAt,
	}, nil
}

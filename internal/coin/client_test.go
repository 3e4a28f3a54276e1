package coin

import (
	"encoding/json"
	"testing"
)

func TestClient_DepositURL(t *testing.T) {
	t.Parallel()

	c := NewClient(458387, "key", 58885)

	// 458387 = 0x6fe93, 5000 = 0x1388, 58885 = 0xe605.
	got := c.DepositURL(5000, true)
	if got != "vk.com/coin#m6fe93_1388_e605" {
		t.Fatalf("fixed url mismatch: %s", got)
	}

	got = c.DepositURL(5000, false)
	if got != "vk.com/coin#m6fe93_1388_e605_1" {
		t.Fatalf("editable url mismatch: %s", got)
	}
}

func TestRawTransaction_StringAmount(t *testing.T) {
	t.Parallel()

	data := []byte(`{"id":5,"from_id":42,"to_id":100,"amount":"5000","payload":77,"created_at":1600000000}`)

	var raw rawTransaction

	err := json.Unmarshal(data, &raw)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	tx, err := raw.transaction()
	if err != nil {
		t.Fatalf("convert: %v", err)
	}

	if tx.ID != 5 || tx.FromID != 42 || tx.Amount != 5000 || tx.Payload != 77 {
		t.Fatalf("transaction mismatch: %+v", tx)
	}
}

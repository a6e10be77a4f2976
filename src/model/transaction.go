package model

import "time"

type TxDirection string

const (
	TxDirectionSent     TxDirection = "sent"
	TxDirectionReceived TxDirection = "received"
)

// RawTransaction is the wire shape of one ledger record as returned by the
// light-wallet daemon's `list` command. Amount may be signed or unsigned
// depending on the daemon version; Type disambiguates the unsigned case.
type RawTransaction struct {
	TxId        string `json:"txid"`
	Amount      int64  `json:"amount"`
	Type        string `json:"type,omitempty"` // "sent" / "received", optional
	BlockHeight uint64 `json:"block_height"`
	Unconfirmed bool   `json:"unconfirmed"`
	Timestamp   int64  `json:"datetime"` // unix seconds
	Memo        string `json:"memo,omitempty"`
	Address     string `json:"address,omitempty"` // counterpart, sender or recipient
	Fee         int64  `json:"fee,omitempty"`     // sent only
}

// TransactionRecord is the canonical form of one wallet transaction.
// Immutable once normalized except for the additive Category and Filtered
// attributes attached downstream.
type TransactionRecord struct {
	TxId               string
	Amount             int64 // signed zatoshis, negative = sent
	BlockHeight        uint64
	Unconfirmed        bool // raw flag from the source, authoritative
	Timestamp          time.Time
	Memo               string
	CounterpartAddress string
	Confirmations      uint64 // computed from chain tip, never trusted from source
	Fee                int64
	Direction          TxDirection

	Category *CategoryAssignment
	Filtered bool // internal consolidation noise, excluded from analytics
}

func (t *TransactionRecord) AbsAmount() int64 {
	if t.Amount < 0 {
		return -t.Amount
	}
	return t.Amount
}

func TransactionArrayToMap(arr []*TransactionRecord) map[string]*TransactionRecord {
	mapped := map[string]*TransactionRecord{}
	for _, v := range arr {
		mapped[v.TxId] = v
	}
	return mapped
}

package model

import "time"

// BtczDigitMultiplier converts whole BTCZ to zatoshis, the non-decimal unit
// used everywhere in this module and in the db.
const BtczDigitMultiplier = 100000000

type Pool string

const (
	PoolTransparent Pool = "transparent"
	PoolShielded    Pool = "shielded"
)

// PoolBalance holds one pool's amounts in zatoshis across the four
// confirmation axes.
type PoolBalance struct {
	Total       int64
	Unconfirmed int64
	Verified    int64
	Unverified  int64
	Spendable   int64
}

func (p PoolBalance) Add(o PoolBalance) PoolBalance {
	return PoolBalance{
		Total:       p.Total + o.Total,
		Unconfirmed: p.Unconfirmed + o.Unconfirmed,
		Verified:    p.Verified + o.Verified,
		Unverified:  p.Unverified + o.Unverified,
		Spendable:   p.Spendable + o.Spendable,
	}
}

// BalanceSnapshot is one atomic balance read from the light-wallet daemon.
// Snapshots are replaced wholesale, never mutated field by field.
type BalanceSnapshot struct {
	Transparent   PoolBalance
	Shielded      PoolBalance
	PendingChange int64
	FetchedAt     time.Time
}

func (s *BalanceSnapshot) Combined() PoolBalance {
	return s.Transparent.Add(s.Shielded)
}

func (s *BalanceSnapshot) TotalBalance() int64 {
	return s.Transparent.Total + s.Shielded.Total
}

// EffectiveSpendable includes change from a just-broadcast send that is not
// yet visible in any fetched snapshot.
func (s *BalanceSnapshot) EffectiveSpendable() int64 {
	return s.Transparent.Spendable + s.Shielded.Spendable + s.PendingChange
}

// PureIncoming is the unconfirmed value that is new incoming funds rather
// than unverified returning change. Negative (beyond tolerance) means the
// snapshot's fields were read from inconsistent sources mid-sync.
func (s *BalanceSnapshot) PureIncoming() int64 {
	c := s.Combined()
	return c.Unconfirmed - c.Unverified
}

func (s *BalanceSnapshot) PoolBalanceFor(pool Pool) PoolBalance {
	if pool == PoolShielded {
		return s.Shielded
	}
	return s.Transparent
}

// AddressBook is the wallet's own known-address set.
type AddressBook struct {
	Transparent []string
	Shielded    []string
}

func (b *AddressBook) Contains(addr string) bool {
	if addr == "" {
		return false
	}
	for _, a := range b.Transparent {
		if a == addr {
			return true
		}
	}
	for _, a := range b.Shielded {
		if a == addr {
			return true
		}
	}
	return false
}

func (b *AddressBook) All() []string {
	out := make([]string, 0, len(b.Transparent)+len(b.Shielded))
	out = append(out, b.Transparent...)
	out = append(out, b.Shielded...)
	return out
}

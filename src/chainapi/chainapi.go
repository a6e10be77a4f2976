package chainapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bitzlabs/wallet-ledger/src/model"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Source is the surface this module consumes from the external wallet core.
// Implementations may block on network I/O; everything downstream is pure
// in-memory computation.
type Source interface {
	GetBalanceSnapshot(ctx context.Context) (*model.BalanceSnapshot, error)
	GetRawTransactions(ctx context.Context) ([]*model.RawTransaction, error)
	GetOwnAddresses(ctx context.Context) (*model.AddressBook, error)
	GetChainTipHeight(ctx context.Context) (uint64, error)
}

// LightwalletApi talks to a bitcoinzd light-wallet daemon over its JSON
// command endpoints (`balance`, `list`, `addresses`, `height`).
type LightwalletApi struct {
	address string
	client  *http.Client
	logger  *zap.Logger
}

func NewLightwalletApi(daemonAddress string, logger *zap.Logger) *LightwalletApi {
	return &LightwalletApi{
		address: daemonAddress,
		client:  &http.Client{Timeout: 15 * time.Second},
		logger:  logger.With(zap.String("address", daemonAddress), zap.String("component", "lightwallet_api")),
	}
}

func (lw *LightwalletApi) execute(ctx context.Context, command string, out any) error {
	url := fmt.Sprintf("http://%s/%s", lw.address, command)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrapf(err, "failed building %s request", command)
	}
	resp, err := lw.client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "failed executing %s against lightwallet daemon", command)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errors.Errorf("lightwallet daemon returned %d for %s: %s", resp.StatusCode, command, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "failed decoding %s response", command)
	}
	return nil
}

// wire shapes for the daemon's JSON responses
type balanceResponse struct {
	TBalance      int64 `json:"tbalance"`
	ZBalance      int64 `json:"zbalance"`
	UnconfirmedT  int64 `json:"unconfirmed_tbalance"`
	UnconfirmedZ  int64 `json:"unconfirmed_zbalance"`
	VerifiedT     int64 `json:"verified_tbalance"`
	VerifiedZ     int64 `json:"verified_zbalance"`
	UnverifiedT   int64 `json:"unverified_tbalance"`
	UnverifiedZ   int64 `json:"unverified_zbalance"`
	SpendableT    int64 `json:"spendable_tbalance"`
	SpendableZ    int64 `json:"spendable_zbalance"`
	PendingChange int64 `json:"pending_change"`
}

type addressesResponse struct {
	Transparent []string `json:"t_addresses"`
	Shielded    []string `json:"z_addresses"`
}

type heightResponse struct {
	Height uint64 `json:"height"`
}

func (lw *LightwalletApi) GetBalanceSnapshot(ctx context.Context) (*model.BalanceSnapshot, error) {
	var raw balanceResponse
	if err := lw.execute(ctx, "balance", &raw); err != nil {
		return nil, err
	}
	return &model.BalanceSnapshot{
		Transparent: model.PoolBalance{
			Total:       raw.TBalance,
			Unconfirmed: raw.UnconfirmedT,
			Verified:    raw.VerifiedT,
			Unverified:  raw.UnverifiedT,
			Spendable:   raw.SpendableT,
		},
		Shielded: model.PoolBalance{
			Total:       raw.ZBalance,
			Unconfirmed: raw.UnconfirmedZ,
			Verified:    raw.VerifiedZ,
			Unverified:  raw.UnverifiedZ,
			Spendable:   raw.SpendableZ,
		},
		PendingChange: raw.PendingChange,
		FetchedAt:     time.Now().UTC(),
	}, nil
}

func (lw *LightwalletApi) GetRawTransactions(ctx context.Context) ([]*model.RawTransaction, error) {
	var raw []*model.RawTransaction
	if err := lw.execute(ctx, "list", &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (lw *LightwalletApi) GetOwnAddresses(ctx context.Context) (*model.AddressBook, error) {
	var raw addressesResponse
	if err := lw.execute(ctx, "addresses", &raw); err != nil {
		return nil, err
	}
	return &model.AddressBook{
		Transparent: raw.Transparent,
		Shielded:    raw.Shielded,
	}, nil
}

func (lw *LightwalletApi) GetChainTipHeight(ctx context.Context) (uint64, error) {
	var raw heightResponse
	if err := lw.execute(ctx, "height", &raw); err != nil {
		return 0, err
	}
	return raw.Height, nil
}

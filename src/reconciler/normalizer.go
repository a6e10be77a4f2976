package reconciler

import (
	"context"
	"time"

	"github.com/bitzlabs/wallet-ledger/src/chainapi"
	"github.com/bitzlabs/wallet-ledger/src/metrics"
	"github.com/bitzlabs/wallet-ledger/src/model"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrMalformedRecord marks a raw record that cannot be normalized. Malformed
// records are dropped and counted, never fatal to a batch.
var ErrMalformedRecord = errors.New("malformed raw record")

// Normalizer converts raw ledger records into canonical TransactionRecords,
// deriving confirmation counts through the oracle instead of trusting the
// source.
type Normalizer struct {
	oracle *chainapi.ConfirmationOracle
	logger *zap.Logger
}

func NewNormalizer(oracle *chainapi.ConfirmationOracle, logger *zap.Logger) *Normalizer {
	return &Normalizer{
		oracle: oracle,
		logger: logger.With(zap.String("component", "normalizer")),
	}
}

// Normalize converts one raw record. Direction comes from the amount's sign;
// an explicit type tag only matters for unsigned sources, where a positive
// amount tagged "sent" is negated. A negative amount is sent no matter what
// the tag claims.
func (n *Normalizer) Normalize(ctx context.Context, raw *model.RawTransaction) (*model.TransactionRecord, error) {
	if raw == nil || raw.TxId == "" {
		return nil, errors.Wrap(ErrMalformedRecord, "missing transaction id")
	}
	if raw.Amount == 0 {
		return nil, errors.Wrapf(ErrMalformedRecord, "missing amount for tx %s", raw.TxId)
	}

	amount := raw.Amount
	if amount > 0 && raw.Type == string(model.TxDirectionSent) {
		amount = -amount
	}
	direction := model.TxDirectionReceived
	if amount < 0 {
		direction = model.TxDirectionSent
	}

	fee := int64(0)
	if direction == model.TxDirectionSent {
		fee = raw.Fee
	}

	return &model.TransactionRecord{
		TxId:               raw.TxId,
		Amount:             amount,
		BlockHeight:        raw.BlockHeight,
		Unconfirmed:        raw.Unconfirmed,
		Timestamp:          time.Unix(raw.Timestamp, 0).UTC(),
		Memo:               raw.Memo,
		CounterpartAddress: raw.Address,
		Confirmations:      n.oracle.ConfirmationsFor(ctx, raw.BlockHeight, raw.Unconfirmed),
		Fee:                fee,
		Direction:          direction,
	}, nil
}

// NormalizeBatch normalizes every record it can and counts the ones it
// cannot. One bad record never aborts a refresh.
func (n *Normalizer) NormalizeBatch(ctx context.Context, raws []*model.RawTransaction) ([]*model.TransactionRecord, int) {
	out := make([]*model.TransactionRecord, 0, len(raws))
	skipped := 0
	for _, raw := range raws {
		record, err := n.Normalize(ctx, raw)
		if err != nil {
			skipped++
			metrics.RecordsMalformed.Inc()
			n.logger.Warn("dropping malformed record", zap.Error(err))
			continue
		}
		metrics.RecordsNormalized.Inc()
		out = append(out, record)
	}
	return out, skipped
}

package disperse

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Siddesh7/f-disperse/internal/evm"
	"github.com/Siddesh7/f-disperse/internal/metrics"
	"github.com/Siddesh7/f-disperse/internal/util"
	"github.com/Siddesh7/f-disperse/internal/wallet"
)

// Status messages shown verbatim in the UI.
const (
	statusApprovalSent     = "Approval sent successfully"
	statusApprovalRejected = "Approval rejected by user"
	statusAllowanceCached  = "Allowance already sufficient"
	statusTransferSent     = "Transaction sent successfully"
	statusTransferRejected = "Transaction rejected by user"
)

// Approve submits an ERC-20 approval for the configured total towards the
// disperse contract. Native transfers never need one. A sufficient on-chain
// allowance short-circuits the wallet round trip, and a user rejection is a
// normal outcome rather than an error: the session simply stays idle.
func (o *Orchestrator) Approve(ctx context.Context) (Session, error) {
	o.mu.Lock()
	asset, total, err := o.approvePreconditionsLocked()
	if err != nil {
		session := o.session
		o.mu.Unlock()
		return session, err
	}
	o.session.InFlight = true
	o.session.State = StateApproving
	o.mu.Unlock()

	session := o.runApproval(ctx, asset, total)
	return session, nil
}

func (o *Orchestrator) approvePreconditionsLocked() (evm.Asset, *big.Int, error) {
	if o.session.InFlight {
		return evm.Asset{}, nil, ErrInFlight
	}
	if !o.wallet.Connected() {
		return evm.Asset{}, nil, ErrNotConnected
	}
	if o.selected == nil {
		return evm.Asset{}, nil, ErrNoAsset
	}
	if o.selected.IsNative() {
		return evm.Asset{}, nil, ErrNativeNoApproval
	}
	if len(o.recipients) == 0 {
		return evm.Asset{}, nil, ErrNoRecipients
	}

	total, err := util.ToBaseUnits(o.computeTotalLocked(), o.selected.Decimals)
	if err != nil {
		return evm.Asset{}, nil, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	if total.Sign() <= 0 {
		return evm.Asset{}, nil, fmt.Errorf("%w: total must be positive", ErrInvalidAmount)
	}
	return *o.selected, total, nil
}

func (o *Orchestrator) runApproval(ctx context.Context, asset evm.Asset, total *big.Int) Session {
	logger := o.logger.WithField("token", asset.Address.Hex())
	owner := o.wallet.Address()
	spender := o.disperser.Contract()

	sufficient, err := o.approvals.HasAllowance(ctx, asset.Address, owner, spender, total)
	if err != nil {
		logger.WithError(err).Warn("allowance check failed, submitting approval anyway")
	}
	if err == nil && sufficient {
		o.mu.Lock()
		defer o.mu.Unlock()
		o.session.InFlight = false
		o.session.State = StateApproved
		o.session.Approved = true
		o.session.Status = statusAllowanceCached
		metrics.RecordTransfer("approve", "cached")
		return o.session
	}

	calldata, err := evm.ApproveCalldata(spender, total)
	if err != nil {
		o.mu.Lock()
		defer o.mu.Unlock()
		o.session.InFlight = false
		o.session.State = StateIdle
		o.session.Status = fmt.Sprintf("Approval failed: %v", err)
		metrics.RecordTransfer("approve", "invalid")
		return o.session
	}

	hash, err := o.wallet.SubmitTransaction(ctx, asset.Address, nil, calldata)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.session.InFlight = false

	switch {
	case err == nil:
		o.session.State = StateApproved
		o.session.Approved = true
		o.session.TxHash = hash.Hex()
		o.session.Status = statusApprovalSent
		metrics.RecordTransfer("approve", "sent")
		logger.WithField("tx", hash.Hex()).Info("approval submitted")
	case wallet.IsRejection(err):
		o.session.State = StateIdle
		o.session.Approved = false
		o.session.Status = statusApprovalRejected
		o.session.ShowFeedback = true
		metrics.RecordTransfer("approve", "rejected")
		logger.Info("approval rejected by user")
	default:
		o.session.State = StateIdle
		o.session.Approved = false
		o.session.Status = fmt.Sprintf("Approval failed: %v", err)
		o.session.ShowFeedback = true
		metrics.RecordTransfer("approve", "failed")
		logger.WithError(err).Error("approval submission failed")
	}
	return o.session
}

// Disperse submits the batch transfer. ERC-20 transfers require a prior
// approval; the sequencer re-checks the on-chain allowance before trusting
// the cached flag and demotes the session when it no longer holds. Success
// clears the form for the next batch while retaining the transaction hash
// until the feedback view is dismissed.
func (o *Orchestrator) Disperse(ctx context.Context) (Session, error) {
	o.mu.Lock()
	asset, batch, err := o.dispersePreconditionsLocked()
	if err != nil {
		session := o.session
		o.mu.Unlock()
		return session, err
	}
	o.session.InFlight = true
	o.session.State = StateDisbursing
	o.mu.Unlock()

	session := o.runDisperse(ctx, asset, batch)
	return session, nil
}

type preparedBatch struct {
	addresses []common.Address
	amounts   []*big.Int
}

func (o *Orchestrator) dispersePreconditionsLocked() (evm.Asset, preparedBatch, error) {
	if o.session.InFlight {
		return evm.Asset{}, preparedBatch{}, ErrInFlight
	}
	if !o.wallet.Connected() {
		return evm.Asset{}, preparedBatch{}, ErrNotConnected
	}
	if o.selected == nil {
		return evm.Asset{}, preparedBatch{}, ErrNoAsset
	}
	if len(o.recipients) == 0 {
		return evm.Asset{}, preparedBatch{}, ErrNoRecipients
	}
	if !o.selected.IsNative() && !o.session.Approved {
		return evm.Asset{}, preparedBatch{}, ErrNotApproved
	}

	batch := preparedBatch{
		addresses: make([]common.Address, 0, len(o.recipients)),
		amounts:   make([]*big.Int, 0, len(o.recipients)),
	}
	for i, r := range o.recipients {
		amount, err := util.ToBaseUnits(r.Amount, o.selected.Decimals)
		if err != nil {
			return evm.Asset{}, preparedBatch{}, fmt.Errorf("%w: recipient %d: %v", ErrInvalidAmount, i, err)
		}
		if amount.Sign() <= 0 {
			return evm.Asset{}, preparedBatch{}, fmt.Errorf("%w: recipient %d: amount must be positive", ErrInvalidAmount, i)
		}
		batch.addresses = append(batch.addresses, r.Address)
		batch.amounts = append(batch.amounts, amount)
	}
	return *o.selected, batch, nil
}

func (o *Orchestrator) runDisperse(ctx context.Context, asset evm.Asset, batch preparedBatch) Session {
	logger := o.logger.WithField("token", asset.Symbol)
	kind := "token"
	if asset.IsNative() {
		kind = "native"
	}

	var (
		call evm.Call
		err  error
	)
	if asset.IsNative() {
		call, err = o.disperser.NativeCall(batch.addresses, batch.amounts)
	} else {
		needed := evm.SumAmounts(batch.amounts)
		ok, allowErr := o.approvals.HasAllowance(ctx, asset.Address, o.wallet.Address(), o.disperser.Contract(), needed)
		if allowErr == nil && !ok {
			o.mu.Lock()
			defer o.mu.Unlock()
			o.session.InFlight = false
			o.session.State = StateIdle
			o.session.Approved = false
			o.session.Status = "Allowance no longer sufficient, approve again"
			metrics.RecordTransfer(kind, "demoted")
			logger.Warn("cached approval no longer backed by on-chain allowance")
			return o.session
		}
		if allowErr != nil {
			logger.WithError(allowErr).Warn("allowance re-check failed, proceeding with cached approval")
		}
		call, err = o.disperser.TokenCall(asset.Address, batch.addresses, batch.amounts)
	}

	if err != nil {
		o.mu.Lock()
		defer o.mu.Unlock()
		o.session.InFlight = false
		o.session.State = StateIdle
		o.session.Status = fmt.Sprintf("Transaction failed: %v", err)
		metrics.RecordTransfer(kind, "invalid")
		return o.session
	}

	hash, err := o.wallet.SubmitTransaction(ctx, call.To, call.Value, call.Data)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.session.InFlight = false

	switch {
	case err == nil:
		o.session.State = StateCompleted
		o.session.TxHash = hash.Hex()
		o.session.Status = statusTransferSent
		o.session.ShowFeedback = true
		o.session.Approved = false
		o.recipients = nil
		o.total = ""
		o.equal = false
		metrics.RecordTransfer(kind, "sent")
		logger.WithField("tx", hash.Hex()).WithField("recipients", len(batch.addresses)).Info("disperse submitted")
	case wallet.IsRejection(err):
		o.session.State = o.priorSubmitState(asset)
		o.session.Status = statusTransferRejected
		o.session.ShowFeedback = true
		metrics.RecordTransfer(kind, "rejected")
		logger.Info("disperse rejected by user")
	default:
		o.session.State = o.priorSubmitState(asset)
		o.session.Status = fmt.Sprintf("Transaction failed: %v", err)
		o.session.ShowFeedback = true
		metrics.RecordTransfer(kind, "failed")
		logger.WithError(err).Error("disperse submission failed")
	}
	return o.session
}

// priorSubmitState is the state a failed or rejected submission falls back
// to: an approved ERC-20 session stays approved, everything else goes idle.
func (o *Orchestrator) priorSubmitState(asset evm.Asset) State {
	if !asset.IsNative() && o.session.Approved {
		return StateApproved
	}
	return StateIdle
}

package disperse

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"

	"github.com/Siddesh7/f-disperse/internal/evm"
	"github.com/Siddesh7/f-disperse/internal/metrics"
	"github.com/Siddesh7/f-disperse/internal/neynar"
	"github.com/Siddesh7/f-disperse/internal/wallet"
)

// addressPattern is the canonical 20-byte hex address check. Resolved
// usernames are validated against it a second time before acceptance.
var addressPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

const usernameSigil = "@"

// Recipient is one payout entry. Insertion order is the payout order.
type Recipient struct {
	Address common.Address `json:"address"`
	Amount  string         `json:"amount"`
}

// Identity is the username-to-address resolution service.
type Identity interface {
	UserByUsername(ctx context.Context, username string) (neynar.User, error)
}

// InventorySource produces the transferable assets of an account.
type InventorySource interface {
	Fetch(ctx context.Context, account common.Address) []evm.Asset
}

// AllowanceChecker reads on-chain ERC-20 allowance state.
type AllowanceChecker interface {
	HasAllowance(ctx context.Context, token, owner, spender common.Address, amount *big.Int) (bool, error)
}

// Orchestrator owns the recipient list and transfer session exclusively.
// Recipient mutations and allocation recomputation are applied atomically
// under one lock, so the list and the displayed amounts never diverge.
type Orchestrator struct {
	logger    *logrus.Entry
	wallet    wallet.Wallet
	inventory InventorySource
	identity  Identity
	approvals AllowanceChecker
	disperser *evm.DisperseService

	mu         sync.Mutex
	assets     []evm.Asset
	selected   *evm.Asset
	recipients []Recipient
	equal      bool
	total      string
	session    Session

	invSeq     atomic.Uint64
	invApplied uint64
}

func NewOrchestrator(
	logger *logrus.Logger,
	w wallet.Wallet,
	inventory InventorySource,
	identity Identity,
	approvals AllowanceChecker,
	disperser *evm.DisperseService,
) *Orchestrator {
	return &Orchestrator{
		logger:    logger.WithField("pkg", "disperse.Orchestrator"),
		wallet:    w,
		inventory: inventory,
		identity:  identity,
		approvals: approvals,
		disperser: disperser,
		session:   newSession(),
	}
}

// RefreshInventory replaces the asset set wholesale and selects the first
// asset as the default. A stale response (an older request finishing after a
// newer one already applied) is discarded, never written over fresher state.
func (o *Orchestrator) RefreshInventory(ctx context.Context) []evm.Asset {
	if !o.wallet.Connected() {
		o.mu.Lock()
		defer o.mu.Unlock()
		// The clear claims a sequence id so an older in-flight refresh
		// cannot repopulate pre-disconnect state when it lands.
		o.invApplied = o.invSeq.Add(1)
		o.assets = nil
		o.selected = nil
		o.session.invalidate()
		return nil
	}

	id := o.invSeq.Add(1)
	assets := o.inventory.Fetch(ctx, o.wallet.Address())

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.session.InFlight {
		metrics.RecordInventoryRefresh("blocked", 0)
		return o.assetsLocked()
	}
	if id <= o.invApplied {
		metrics.RecordInventoryRefresh("stale", 0)
		return o.assetsLocked()
	}
	o.invApplied = id

	o.assets = assets
	if len(assets) > 0 {
		first := assets[0]
		o.selected = &first
	} else {
		o.selected = nil
	}
	o.session.invalidate()

	return o.assetsLocked()
}

// SelectAsset switches the active asset to one from the current inventory.
func (o *Orchestrator) SelectAsset(address common.Address) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.session.InFlight {
		return ErrInFlight
	}

	for _, a := range o.assets {
		if a.Address == address {
			sel := a
			o.selected = &sel
			o.session.invalidate()
			return nil
		}
	}
	return fmt.Errorf("%w: %s is not in the inventory", ErrNoAsset, address.Hex())
}

// AddRecipient resolves the identifier and appends the recipient. In
// equal-distribution mode every amount is immediately recomputed to
// total/newCount. On failure nothing is appended, so the caller's input
// survives for correction.
func (o *Orchestrator) AddRecipient(ctx context.Context, identifier, amount string) (Recipient, error) {
	address, err := o.Resolve(ctx, identifier)
	if err != nil {
		return Recipient{}, err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.session.InFlight {
		return Recipient{}, ErrInFlight
	}

	rec := Recipient{Address: address, Amount: "0"}
	if !o.equal && strings.TrimSpace(amount) != "" {
		rec.Amount = strings.TrimSpace(amount)
	}

	o.recipients = append(o.recipients, rec)
	o.session.invalidate()
	o.recomputeLocked()

	return o.recipients[len(o.recipients)-1], nil
}

// RemoveRecipient removes by position. Remaining amounts converge through
// the shared recompute trigger, same as add and total-edit.
func (o *Orchestrator) RemoveRecipient(index int) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.session.InFlight {
		return ErrInFlight
	}
	if index < 0 || index >= len(o.recipients) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}

	o.recipients = append(o.recipients[:index], o.recipients[index+1:]...)
	o.session.invalidate()
	o.recomputeLocked()

	return nil
}

// SetAllocation switches between equal-distribution and manual mode and
// records the configured total. Switching to manual leaves already-entered
// amounts untouched.
func (o *Orchestrator) SetAllocation(equal bool, total string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.session.InFlight {
		return ErrInFlight
	}

	o.equal = equal
	o.total = strings.TrimSpace(total)
	o.session.invalidate()
	o.recomputeLocked()

	return nil
}

// Resolve turns an identifier into a verified address. Addresses pass
// through untouched; @usernames go through the identity service, preferring
// the first cryptographically verified address over the custody address.
func (o *Orchestrator) Resolve(ctx context.Context, identifier string) (common.Address, error) {
	identifier = strings.TrimSpace(identifier)

	if addressPattern.MatchString(identifier) {
		metrics.RecordResolution("address")
		return common.HexToAddress(identifier), nil
	}

	if !strings.HasPrefix(identifier, usernameSigil) {
		return common.Address{}, fmt.Errorf("%w: %q", ErrInvalidIdentifier, identifier)
	}

	username := strings.TrimPrefix(identifier, usernameSigil)
	user, err := o.identity.UserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, neynar.ErrNotFound) {
			metrics.RecordResolution("not_found")
			return common.Address{}, fmt.Errorf("%w: no record for %s", ErrUnresolvable, identifier)
		}
		metrics.RecordResolution("error")
		return common.Address{}, fmt.Errorf("failed to resolve %s: %w", identifier, err)
	}

	candidate := user.CustodyAddress
	source := "custody"
	if len(user.Verifications) > 0 {
		candidate = user.Verifications[0]
		source = "verified"
	}

	if !addressPattern.MatchString(candidate) {
		metrics.RecordResolution("not_found")
		return common.Address{}, fmt.Errorf("%w: %s has no usable address", ErrUnresolvable, identifier)
	}

	metrics.RecordResolution(source)
	return common.HexToAddress(candidate), nil
}

// ComputeTotal returns the configured total verbatim in equal mode (total
// is the source of truth there, not the sum), and the sum of parsed
// recipient amounts in manual mode, unparseable entries counting as zero.
func (o *Orchestrator) ComputeTotal() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.computeTotalLocked()
}

func (o *Orchestrator) computeTotalLocked() string {
	if o.equal && o.total != "" {
		return o.total
	}

	sum := new(big.Rat)
	for _, r := range o.recipients {
		sum.Add(sum, parseAmount(r.Amount))
	}
	return sum.FloatString(displayPrecision)
}

// DismissFeedback closes the feedback view and drops the retained
// transaction handle. A completed session becomes a fresh one.
func (o *Orchestrator) DismissFeedback() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.session.State == StateCompleted {
		o.session = newSession()
		return
	}
	o.session.ShowFeedback = false
	o.session.TxHash = ""
}

// View is a consistent snapshot for the UI.
type View struct {
	Session           Session     `json:"session"`
	Tokens            []evm.Asset `json:"tokens"`
	SelectedToken     *evm.Asset  `json:"selected_token,omitempty"`
	Recipients        []Recipient `json:"recipients"`
	EqualDistribution bool        `json:"equal_distribution"`
	TotalInput        string      `json:"total_input"`
	Total             string      `json:"total"`
}

func (o *Orchestrator) View() View {
	o.mu.Lock()
	defer o.mu.Unlock()

	v := View{
		Session:           o.session,
		Tokens:            o.assetsLocked(),
		Recipients:        append([]Recipient(nil), o.recipients...),
		EqualDistribution: o.equal,
		TotalInput:        o.total,
		Total:             parseAmount(o.computeTotalLocked()).FloatString(displayPrecision),
	}
	if o.selected != nil {
		sel := *o.selected
		v.SelectedToken = &sel
	}
	return v
}

// Session returns a copy of the current transfer session.
func (o *Orchestrator) Session() Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.session
}

// Recipients returns a copy of the current recipient list.
func (o *Orchestrator) Recipients() []Recipient {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]Recipient(nil), o.recipients...)
}

func (o *Orchestrator) assetsLocked() []evm.Asset {
	return append([]evm.Asset(nil), o.assets...)
}

// recomputeLocked is the total/mode/count-change watcher: in equal mode it
// converges every recipient's amount to total/count.
func (o *Orchestrator) recomputeLocked() {
	if !o.equal || len(o.recipients) == 0 {
		return
	}
	share := recomputeEqualAmounts(o.total, len(o.recipients))
	for i := range o.recipients {
		o.recipients[i].Amount = share
	}
}

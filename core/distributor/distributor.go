// Package distributor is the serialized engine of the influence-weighted
// reward pool. It couples ledger mutations with history writes, records
// snapshots and pays out resumable, budget-bounded claims.
//
// All mutating operations hold a single mutex. A claim commits its cursor and
// pool bookkeeping under the mutex and issues the custodial transfer after
// releasing it, so a transfer recipient calling back sees the advanced cursor.
package distributor

import (
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/MinterTeam/influence-pool/config"
	"github.com/MinterTeam/influence-pool/core/budget"
	"github.com/MinterTeam/influence-pool/core/code"
	"github.com/MinterTeam/influence-pool/core/custody"
	"github.com/MinterTeam/influence-pool/core/events"
	"github.com/MinterTeam/influence-pool/core/roles"
	"github.com/MinterTeam/influence-pool/core/state"
	"github.com/MinterTeam/influence-pool/core/state/snapshots"
	"github.com/MinterTeam/influence-pool/core/statistics"
	"github.com/MinterTeam/influence-pool/core/types"
	"github.com/MinterTeam/influence-pool/formula"
	"github.com/MinterTeam/influence-pool/log"
	"github.com/pkg/errors"
)

// Update is a single entry of an influence batch.
type Update struct {
	Address types.Address
	Delta   *big.Int
}

// ClaimResult describes the outcome of one GetReward call. Snapshots
// [From, Cursor) were processed; Complete reports whether the cursor caught
// up with the stack and Yielded whether the budget stopped the walk early.
type ClaimResult struct {
	Amount    *big.Int
	From      uint64
	Cursor    uint64
	Processed uint64
	Complete  bool
	Yielded   bool
}

type Distributor struct {
	state      *state.State
	authorizer roles.Authorizer
	custodian  custody.Custodian
	eventsDB   events.IEventsDB
	statistics *statistics.Data
	logger     log.Logger

	iterationCost uint64
	transferCost  uint64

	lock sync.Mutex
}

// NewDistributor wires the engine over st. eventsDB and statistic may be nil.
func NewDistributor(st *state.State, authorizer roles.Authorizer, custodian custody.Custodian, eventsDB events.IEventsDB, cfg *config.BudgetConfig, logger log.Logger, statistic *statistics.Data) *Distributor {
	if logger == nil {
		logger = log.NewNopLogger()
	}

	d := &Distributor{
		state:         st,
		authorizer:    authorizer,
		custodian:     custodian,
		eventsDB:      eventsDB,
		statistics:    statistic,
		logger:        logger.With("module", "distributor"),
		iterationCost: cfg.IterationCost,
		transferCost:  cfg.TransferCost,
	}
	d.updateStatistics()

	return d
}

// SafetyThreshold is the remaining budget below which a claim yields.
func (d *Distributor) SafetyThreshold() uint64 {
	return d.iterationCost + d.transferCost
}

// AddInfluence applies a batch of additive updates. The batch is validated as
// a whole before any score changes; the first failing update aborts it.
func (d *Distributor) AddInfluence(caller types.Address, updates []Update) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	if err := d.authorize(roles.RoleMaintainer, caller); err != nil {
		return err
	}

	total := d.state.Influence.GetTotal()
	precMax := types.PrecMax()
	for _, update := range updates {
		if update.Delta == nil || update.Delta.Sign() < 0 {
			return code.New(code.InvalidInput, "influence delta of "+update.Address.String()+" must be non-negative", nil)
		}

		next := big.NewInt(0).Add(total, update.Delta)
		if !types.IsUint256(next) {
			return code.NewInfluenceOverflow(update.Address.String(), update.Delta.String(), total.String())
		}
		if next.Cmp(precMax) >= 0 {
			return code.NewPrecisionCeilingReached(update.Address.String(), update.Delta.String(), total.String(), precMax.String())
		}
		total = next
	}

	event := &events.InfluenceUpdatedEvent{
		Addresses: make([]types.Address, 0, len(updates)),
		Deltas:    make([]string, 0, len(updates)),
		Scores:    make([]string, 0, len(updates)),
	}
	for _, update := range updates {
		score := d.state.Influence.AddScore(update.Address, update.Delta)
		event.Addresses = append(event.Addresses, update.Address)
		event.Deltas = append(event.Deltas, update.Delta.String())
		event.Scores = append(event.Scores, score.String())
	}
	if len(updates) != 0 {
		d.addEvent(d.pendingHeight(), event)
	}

	d.logger.Info("influence updated", "accounts", len(updates), "total", total.String())
	d.updateStatistics()

	return nil
}

// AddInfluenceBatch is AddInfluence for callers supplying parallel arrays.
func (d *Distributor) AddInfluenceBatch(caller types.Address, addresses []types.Address, deltas []*big.Int) error {
	if len(addresses) != len(deltas) {
		return code.NewDifferentCountAddressesAndDeltas(len(addresses), len(deltas))
	}

	updates := make([]Update, 0, len(addresses))
	for i, address := range addresses {
		updates = append(updates, Update{Address: address, Delta: deltas[i]})
	}

	return d.AddInfluence(caller, updates)
}

// RemoveInfluence zeroes the score of address and subtracts it from the
// total. Rows of recorded snapshots are left as they are.
func (d *Distributor) RemoveInfluence(caller types.Address, address types.Address) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	if err := d.authorize(roles.RoleMaintainer, caller); err != nil {
		return err
	}

	score := d.state.Influence.Remove(address)
	d.addEvent(d.pendingHeight(), &events.InfluenceRemovedEvent{
		Address: address,
		Score:   score.String(),
	})

	d.logger.Info("influence removed", "address", address.String(), "score", score.String())
	d.updateStatistics()

	return nil
}

// GetInfluenceOf returns the share of amount address would get by its
// current score against the current total.
func (d *Distributor) GetInfluenceOf(address types.Address, amount *big.Int) (*big.Int, error) {
	d.lock.Lock()
	defer d.lock.Unlock()

	return formula.CalculateShare(amount, d.state.Influence.GetScore(address), d.state.Influence.GetTotal())
}

// RecordSnapshot appends a snapshot freezing rewardAmount and the current
// total influence and reserves rewardAmount in the unclaimed pool.
func (d *Distributor) RecordSnapshot(caller types.Address, key types.Key, rewardAmount *big.Int) (uint64, error) {
	d.lock.Lock()
	defer d.lock.Unlock()

	if err := d.authorize(roles.RoleTrigger, caller); err != nil {
		return 0, err
	}

	return d.recordSnapshot(key, rewardAmount)
}

// RecordScheduledSnapshot records a snapshot for key using the amount from
// the reward schedule.
func (d *Distributor) RecordScheduledSnapshot(caller types.Address, key types.Key) (uint64, error) {
	d.lock.Lock()
	defer d.lock.Unlock()

	if err := d.authorize(roles.RoleTrigger, caller); err != nil {
		return 0, err
	}

	reward := d.state.Schedule.GetReward(key)
	if reward.Sign() == 0 {
		return 0, code.New(code.RewardNotScheduled, "no reward scheduled for key "+key.String(), nil)
	}

	return d.recordSnapshot(key, reward)
}

func (d *Distributor) recordSnapshot(key types.Key, rewardAmount *big.Int) (uint64, error) {
	if rewardAmount == nil || rewardAmount.Sign() < 0 {
		return 0, code.New(code.InvalidInput, "reward amount must be non-negative", nil)
	}

	if precMax := types.PrecMax(); rewardAmount.Cmp(precMax) > 0 {
		return 0, code.New(code.AmountTooLarge, "reward amount "+rewardAmount.String()+" exceeds precision ceiling "+precMax.String(), nil)
	}

	total := d.state.Influence.GetTotal()
	if total.Sign() == 0 {
		return 0, code.New(code.ZeroTotalInfluence, "can't record a snapshot without influence", nil)
	}

	available := big.NewInt(0).Sub(d.custodian.Balance(), d.state.App.GetUnclaimedPool())
	if available.Cmp(rewardAmount) < 0 {
		return 0, code.NewInsufficientFunds(rewardAmount.String(), available.String())
	}

	index := d.state.Snapshots.Push(key, rewardAmount, total)
	d.state.App.Reserve(rewardAmount)

	d.addEvent(d.pendingHeight(), &events.SnapshotRecordedEvent{
		Index:          index,
		Key:            uint64(key),
		RewardAmount:   rewardAmount.String(),
		TotalInfluence: total.String(),
	})

	d.logger.Info("snapshot recorded", "index", index, "key", key.String(), "reward", rewardAmount.String(), "total", total.String())
	d.updateStatistics()

	return index, nil
}

// SetRewardSchedule overwrites reward amounts per key. A zero amount
// unschedules the key.
func (d *Distributor) SetRewardSchedule(caller types.Address, keys []types.Key, amounts []*big.Int) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	if err := d.authorize(roles.RoleOwner, caller); err != nil {
		return err
	}

	if len(keys) != len(amounts) {
		return code.NewDifferentCountKeysAndAmounts(len(keys), len(amounts))
	}

	for i, amount := range amounts {
		if amount == nil || amount.Sign() < 0 || !types.IsUint256(amount) {
			return code.New(code.InvalidInput, "invalid reward amount for key "+keys[i].String(), nil)
		}
	}

	height := d.pendingHeight()
	for i, key := range keys {
		d.state.Schedule.SetReward(key, amounts[i])
		d.addEvent(height, &events.RewardScheduleUpdatedEvent{
			Key:    uint64(key),
			Amount: amounts[i].String(),
		})
	}

	d.logger.Info("reward schedule updated", "keys", len(keys))

	return nil
}

// GetReward walks the snapshots from the cursor of caller, accumulating its
// historical shares until the stack is exhausted or meter runs below the
// safety threshold. Progress and the pool decrement are committed before the
// payout is transferred. A refused transfer is compensated: the cursor and the
// pool are restored and the transfer error is returned.
func (d *Distributor) GetReward(caller types.Address, meter budget.Meter) (*ClaimResult, error) {
	result, err := d.claim(caller, meter)
	if err != nil {
		return nil, err
	}

	if result.Amount.Sign() > 0 {
		if err := d.custodian.Transfer(caller, result.Amount); err != nil {
			d.compensate(caller, result)
			return nil, errors.Wrapf(err, "can't transfer reward to %s", caller.String())
		}
	}

	if result.Processed > 0 {
		d.addEvent(d.pendingHeight(), &events.RewardClaimedEvent{
			Address: caller,
			Amount:  result.Amount.String(),
			From:    result.From,
			To:      result.Cursor,
		})
	}
	d.statistics.AddClaim(result.Amount, result.Yielded)

	return result, nil
}

func (d *Distributor) claim(caller types.Address, meter budget.Meter) (*ClaimResult, error) {
	d.lock.Lock()
	defer d.lock.Unlock()

	count := d.state.Snapshots.Count()
	from := d.state.Cursors.Get(caller)
	if from >= count {
		return nil, code.NewNothingToClaim(caller.String(), from)
	}

	threshold := d.SafetyThreshold()
	total := big.NewInt(0)
	cursor := from
	yielded := false
	for ; cursor < count; cursor++ {
		if meter.Remaining() < threshold {
			yielded = true
			break
		}

		snapshot := d.state.Snapshots.Get(cursor)
		delta, err := formula.CalculateShare(snapshot.GetRewardAmount(), d.state.Influence.GetHistory(caller, cursor), snapshot.GetTotalInfluence())
		if err != nil {
			return nil, errors.Wrapf(err, "share of %s at snapshot %d", caller.String(), cursor)
		}

		total.Add(total, delta)
		meter.Consume(d.iterationCost)
	}

	result := &ClaimResult{
		Amount:    total,
		From:      from,
		Cursor:    cursor,
		Processed: cursor - from,
		Complete:  cursor == count,
		Yielded:   yielded,
	}

	if result.Processed == 0 {
		d.logger.Debug("claim yielded before any snapshot", "address", caller.String(), "remaining", meter.Remaining())
		return result, nil
	}

	if pool := d.state.App.GetUnclaimedPool(); pool.Cmp(total) < 0 {
		return nil, code.New(code.UnclaimedPoolUnderflow, "claim of "+total.String()+" exceeds unclaimed pool "+pool.String(), nil)
	}

	d.state.Cursors.Advance(caller, cursor)
	if err := d.state.App.Release(total); err != nil {
		return nil, err
	}

	d.logger.Info("reward claimed", "address", caller.String(), "amount", total.String(), "from", from, "to", cursor, "yielded", yielded)
	d.updateStatistics()

	return result, nil
}

func (d *Distributor) compensate(caller types.Address, result *ClaimResult) {
	d.lock.Lock()
	defer d.lock.Unlock()

	if !d.state.Cursors.Revert(caller, result.Cursor, result.From) {
		d.logger.Error("can't revert claim cursor", "address", caller.String(), "from", result.From, "to", result.Cursor)
		return
	}

	d.state.App.Restore(result.Amount)

	d.logger.Error("reward transfer refused, claim reverted", "address", caller.String(), "amount", result.Amount.String())
	d.updateStatistics()
}

// ClaimsLeft returns the number of snapshots address has not processed yet.
func (d *Distributor) ClaimsLeft(address types.Address) uint64 {
	d.lock.Lock()
	defer d.lock.Unlock()

	return d.state.Snapshots.Count() - d.state.Cursors.Get(address)
}

func (d *Distributor) InfluenceOf(address types.Address) *big.Int {
	d.lock.Lock()
	defer d.lock.Unlock()

	return d.state.Influence.GetScore(address)
}

// HistoryOf returns the score of address recorded under snapshot index.
func (d *Distributor) HistoryOf(address types.Address, index uint64) *big.Int {
	d.lock.Lock()
	defer d.lock.Unlock()

	return d.state.Influence.GetHistory(address, index)
}

func (d *Distributor) TotalInfluence() *big.Int {
	d.lock.Lock()
	defer d.lock.Unlock()

	return d.state.Influence.GetTotal()
}

func (d *Distributor) Snapshot(index uint64) (*snapshots.Model, error) {
	d.lock.Lock()
	defer d.lock.Unlock()

	snapshot := d.state.Snapshots.Get(index)
	if snapshot == nil {
		return nil, code.New(code.UnknownSnapshot, "unknown snapshot", nil)
	}

	return snapshot, nil
}

func (d *Distributor) SnapshotsCount() uint64 {
	d.lock.Lock()
	defer d.lock.Unlock()

	return d.state.Snapshots.Count()
}

func (d *Distributor) Cursor(address types.Address) uint64 {
	d.lock.Lock()
	defer d.lock.Unlock()

	return d.state.Cursors.Get(address)
}

func (d *Distributor) UnclaimedPool() *big.Int {
	d.lock.Lock()
	defer d.lock.Unlock()

	return d.state.App.GetUnclaimedPool()
}

func (d *Distributor) RewardFor(key types.Key) *big.Int {
	d.lock.Lock()
	defer d.lock.Unlock()

	return d.state.Schedule.GetReward(key)
}

// Height returns the last committed height.
func (d *Distributor) Height() int64 {
	return d.state.Height()
}

// Commit checks the pool against the custodial balance, saves a new state
// version and flushes the events recorded for it.
func (d *Distributor) Commit() ([]byte, error) {
	d.lock.Lock()
	defer d.lock.Unlock()

	start := time.Now()

	pool := d.state.App.GetUnclaimedPool()
	if balance := d.custodian.Balance(); pool.Cmp(balance) > 0 {
		return nil, errors.Errorf("invariants error on pool: unclaimed %s exceeds custodial balance %s", pool, balance)
	}

	hash, err := d.state.Commit()
	if err != nil {
		return nil, err
	}

	if d.eventsDB != nil {
		if err := d.eventsDB.CommitEvents(); err != nil {
			return hash, errors.Wrap(err, "can't commit events")
		}
	}

	height := d.state.Height()
	d.statistics.SetCommit(height, start, time.Now())
	d.logger.Info("state committed", "height", height, "hash", fmt.Sprintf("%X", hash))

	return hash, nil
}

// Export dumps the last committed state.
func (d *Distributor) Export() (types.AppState, error) {
	return d.state.Export()
}

func (d *Distributor) authorize(role roles.Role, caller types.Address) error {
	if !d.authorizer.HasRole(role, caller) {
		return code.NewUnauthorized(caller.String(), role.String())
	}

	return nil
}

func (d *Distributor) pendingHeight() uint64 {
	return uint64(d.state.Height() + 1)
}

func (d *Distributor) addEvent(height uint64, event events.Event) {
	if d.eventsDB == nil {
		return
	}

	d.eventsDB.AddEvent(height, event)
}

func (d *Distributor) updateStatistics() {
	d.statistics.SetPool(d.state.Influence.GetTotal(), d.state.App.GetUnclaimedPool(), d.state.Snapshots.Count())
}

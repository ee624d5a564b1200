package state

import (
	"math/big"
	"sync"

	"github.com/MinterTeam/influence-pool/core/state/accounts"
	"github.com/MinterTeam/influence-pool/core/state/app"
	"github.com/MinterTeam/influence-pool/core/state/bus"
	"github.com/MinterTeam/influence-pool/core/state/checker"
	"github.com/MinterTeam/influence-pool/core/state/cursors"
	"github.com/MinterTeam/influence-pool/core/state/influence"
	"github.com/MinterTeam/influence-pool/core/state/schedule"
	"github.com/MinterTeam/influence-pool/core/state/snapshots"
	"github.com/MinterTeam/influence-pool/core/types"
	"github.com/MinterTeam/influence-pool/helpers"
	"github.com/MinterTeam/influence-pool/tree"
	"github.com/pkg/errors"
	db "github.com/tendermint/tm-db"
)

// CheckState is a read-only view over a State.
type CheckState struct {
	state *State
}

func NewCheckState(state *State) *CheckState {
	return &CheckState{state: state}
}

func (cs *CheckState) Export() types.AppState {
	appState := new(types.AppState)
	cs.App().Export(appState)
	cs.Influence().Export(appState)
	cs.Snapshots().Export(appState)
	cs.Cursors().Export(appState)
	cs.Schedule().Export(appState)
	cs.Accounts().Export(appState)

	return *appState
}

func (cs *CheckState) App() app.RApp {
	return cs.state.App
}
func (cs *CheckState) Influence() influence.RInfluence {
	return cs.state.Influence
}
func (cs *CheckState) Snapshots() snapshots.RSnapshots {
	return cs.state.Snapshots
}
func (cs *CheckState) Cursors() cursors.RCursors {
	return cs.state.Cursors
}
func (cs *CheckState) Schedule() schedule.RSchedule {
	return cs.state.Schedule
}
func (cs *CheckState) Accounts() accounts.RAccounts {
	return cs.state.Accounts
}

type State struct {
	App       *app.App
	Influence *influence.Influence
	Snapshots *snapshots.Snapshots
	Cursors   *cursors.Cursors
	Schedule  *schedule.Schedule
	Accounts  *accounts.Accounts
	Checker   *checker.Checker

	db             db.DB
	tree           tree.MTree
	keepLastStates int64

	bus    *bus.Bus
	lock   sync.RWMutex
	height int64
}

// NewState opens the state stored in db. height == 0 loads the latest saved version.
func NewState(height uint64, db db.DB, cacheSize int, keepLastStates int64) (*State, error) {
	iavlTree, err := tree.NewMutableTree(height, db, cacheSize)
	if err != nil {
		return nil, err
	}

	state := newStateForTree(iavlTree)
	state.db = db
	state.tree = iavlTree
	state.keepLastStates = keepLastStates
	state.height = iavlTree.Version()

	return state, nil
}

// CheckStateAtHeight returns a read-only state over a saved version.
func (s *State) CheckStateAtHeight(height uint64) (*CheckState, error) {
	immutableTree, err := s.tree.GetImmutableAtHeight(int64(height))
	if err != nil {
		return nil, errors.Wrapf(err, "can't load state at height %d", height)
	}

	return NewCheckState(newStateForTree(immutableTree)), nil
}

func (s *State) Tree() tree.MTree {
	return s.tree
}

func (s *State) Height() int64 {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.height
}

func (s *State) Check() error {
	return s.Checker.Check()
}

type committer interface {
	Commit(db tree.MTree) error
}

// Commit verifies the accumulated invariants, writes every sub-state into the
// tree and saves a new version.
func (s *State) Commit() ([]byte, error) {
	if err := s.Checker.Check(); err != nil {
		return nil, err
	}

	s.tree.GlobalLock()
	defer s.tree.GlobalUnlock()

	for _, c := range []committer{s.Accounts, s.App, s.Influence, s.Snapshots, s.Cursors, s.Schedule} {
		if err := c.Commit(s.tree); err != nil {
			return nil, err
		}
	}

	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		return hash, errors.Wrap(err, "can't save state version")
	}

	s.Checker.Reset()

	s.lock.Lock()
	s.height = version
	s.lock.Unlock()

	if s.keepLastStates <= 0 {
		return hash, nil
	}

	versionToDelete := version - s.keepLastStates - 1
	if versionToDelete < 1 {
		return hash, nil
	}

	if err := s.tree.DeleteVersionIfExists(versionToDelete); err != nil {
		return hash, errors.Wrapf(err, "can't delete version %d", versionToDelete)
	}

	return hash, nil
}

// Import loads a verified genesis state.
func (s *State) Import(state types.AppState) error {
	if err := state.Verify(); err != nil {
		return errors.Wrap(err, "invalid genesis state")
	}

	for _, a := range state.Accounts {
		s.Accounts.Mint(a.Address, helpers.StringToBigInt(a.Balance))
	}

	for _, snapshot := range state.Snapshots {
		s.Snapshots.Push(types.Key(snapshot.Key), helpers.StringToBigInt(snapshot.RewardAmount), helpers.StringToBigInt(snapshot.TotalInfluence))
	}

	for _, inf := range state.Influence {
		s.Influence.SetScore(inf.Address, helpers.StringToBigInt(inf.Score))
	}
	s.Influence.SetTotal(helpers.StringToBigInt(state.TotalInfluence))

	for _, entry := range state.History {
		s.Influence.SetHistory(entry.Address, entry.Index, helpers.StringToBigInt(entry.Score))
	}

	for _, cursor := range state.Cursors {
		s.Cursors.Set(cursor.Address, cursor.Next)
	}

	for _, reward := range state.Schedule {
		s.Schedule.SetReward(types.Key(reward.Key), helpers.StringToBigInt(reward.Amount))
	}

	s.App.SetUnclaimedPool(helpers.StringToBigInt(state.UnclaimedPool))
	if state.TotalReserved != "" || state.TotalPaid != "" {
		s.App.SetTotals(stringOrZero(state.TotalReserved), stringOrZero(state.TotalPaid))
	}

	return nil
}

// Export dumps the last saved version.
func (s *State) Export() (types.AppState, error) {
	checkState, err := s.CheckStateAtHeight(uint64(s.tree.Version()))
	if err != nil {
		return types.AppState{}, err
	}

	return checkState.Export(), nil
}

func stringOrZero(value string) *big.Int {
	if value == "" {
		return big.NewInt(0)
	}

	return helpers.StringToBigInt(value)
}

func newStateForTree(immutableTree tree.ReadOnlyTree) *State {
	stateBus := bus.NewBus()

	stateChecker := checker.NewChecker(stateBus)
	snapshotsState := snapshots.NewSnapshots(stateBus, immutableTree)
	appState := app.NewApp(stateBus, immutableTree)
	accountsState := accounts.NewAccounts(stateBus, immutableTree)
	influenceState := influence.NewInfluence(stateBus, immutableTree)
	cursorsState := cursors.NewCursors(stateBus, immutableTree)
	scheduleState := schedule.NewSchedule(immutableTree)

	return &State{
		App:       appState,
		Influence: influenceState,
		Snapshots: snapshotsState,
		Cursors:   cursorsState,
		Schedule:  scheduleState,
		Accounts:  accountsState,
		Checker:   stateChecker,
		bus:       stateBus,
	}
}

package cmd

import (
	"fmt"

	"github.com/MinterTeam/influence-pool/core/custody"
	"github.com/MinterTeam/influence-pool/core/distributor"
	"github.com/MinterTeam/influence-pool/core/events"
	"github.com/MinterTeam/influence-pool/core/roles"
	"github.com/MinterTeam/influence-pool/core/state"
	"github.com/MinterTeam/influence-pool/core/statistics"
	"github.com/MinterTeam/influence-pool/core/types"
	"github.com/MinterTeam/influence-pool/genesis"
	"github.com/MinterTeam/influence-pool/log"
	"github.com/pkg/errors"
	tmos "github.com/tendermint/tendermint/libs/os"
	db "github.com/tendermint/tm-db"
)

// pool bundles the storages and the engine opened from the node home.
type pool struct {
	distributor *distributor.Distributor
	state       *state.State
	events      events.IEventsDB
	vault       *custody.Vault
	roles       *roles.Table

	stateDB  db.DB
	eventsDB db.DB
}

// openPool opens the state and events storages under the configured db dir.
// An empty state is seeded from the genesis file.
func openPool(logger log.Logger, statistic *statistics.Data) (*pool, error) {
	backend := db.BackendType(cfg.DBBackend)

	stateDB, err := db.NewDB("state", backend, cfg.DBDir())
	if err != nil {
		return nil, errors.Wrap(err, "can't open state db")
	}

	eventsDB, err := db.NewDB("events", backend, cfg.DBDir())
	if err != nil {
		_ = stateDB.Close()
		return nil, errors.Wrap(err, "can't open events db")
	}

	p := &pool{stateDB: stateDB, eventsDB: eventsDB}
	if err := p.init(logger, statistic); err != nil {
		p.Close()
		return nil, err
	}

	return p, nil
}

func (p *pool) init(logger log.Logger, statistic *statistics.Data) error {
	currentState, err := state.NewState(0, p.stateDB, cfg.StateCacheSize, cfg.KeepLastStates)
	if err != nil {
		return errors.Wrap(err, "can't load state")
	}
	p.state = currentState

	if currentState.Height() == 0 {
		if err := importGenesis(currentState); err != nil {
			return err
		}
		logger.Info("state initialized from genesis", "file", cfg.GenesisFile())
	}

	table, err := rolesFromConfig()
	if err != nil {
		return err
	}
	p.roles = table

	poolAddress, err := parseAddress(cfg.Custody.PoolAddress)
	if err != nil {
		return errors.Wrap(err, "custody.pool_address")
	}

	p.vault = custody.NewVault(currentState.Accounts, poolAddress)
	p.events = events.NewEventsStore(p.eventsDB)
	p.distributor = distributor.NewDistributor(currentState, table, p.vault, p.events, cfg.Budget, logger, statistic)

	return nil
}

// Close releases both storages.
func (p *pool) Close() {
	if err := p.eventsDB.Close(); err != nil {
		log.Error("can't close events db", "err", err)
	}
	if err := p.stateDB.Close(); err != nil {
		log.Error("can't close state db", "err", err)
	}
}

// commit persists the pending mutations and prints the new root.
func (p *pool) commit() error {
	hash, err := p.distributor.Commit()
	if err != nil {
		return err
	}

	fmt.Printf("height %d, hash %X\n", p.distributor.Height(), hash)
	return nil
}

func importGenesis(st *state.State) error {
	if !tmos.FileExists(cfg.GenesisFile()) {
		return fmt.Errorf("genesis file %s not found, run init first", cfg.GenesisFile())
	}

	doc, err := genesis.FromFile(cfg.GenesisFile())
	if err != nil {
		return err
	}

	if err := st.Import(doc.AppState); err != nil {
		return errors.Wrap(err, "can't import genesis")
	}

	if _, err := st.Commit(); err != nil {
		return errors.Wrap(err, "can't commit genesis")
	}

	return nil
}

// rolesFromConfig builds the capability table. Non-owner grants are issued
// by the first configured owner.
func rolesFromConfig() (*roles.Table, error) {
	owners, err := parseAddresses(cfg.Roles.Owners)
	if err != nil {
		return nil, errors.Wrap(err, "roles.owners")
	}

	table := roles.NewTable(owners...)

	grants := []struct {
		role      roles.Role
		addresses []string
	}{
		{roles.RoleMaintainer, cfg.Roles.Maintainers},
		{roles.RoleTrigger, cfg.Roles.Triggers},
	}

	for _, grant := range grants {
		if len(grant.addresses) == 0 {
			continue
		}
		if len(owners) == 0 {
			return nil, fmt.Errorf("can't grant %s without a configured owner", grant.role)
		}

		addresses, err := parseAddresses(grant.addresses)
		if err != nil {
			return nil, errors.Wrapf(err, "roles of %s", grant.role)
		}

		for _, address := range addresses {
			if err := table.Grant(owners[0], grant.role, address); err != nil {
				return nil, err
			}
		}
	}

	return table, nil
}

func parseAddress(s string) (types.Address, error) {
	if !types.IsHexAddress(s) {
		return types.Address{}, fmt.Errorf("invalid address %q", s)
	}

	return types.HexToAddress(s), nil
}

func parseAddresses(values []string) ([]types.Address, error) {
	addresses := make([]types.Address, 0, len(values))
	for _, value := range values {
		address, err := parseAddress(value)
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, address)
	}

	return addresses, nil
}

package genesis

import (
	"encoding/json"
	"math/big"
	"os"
	"time"

	"github.com/MinterTeam/influence-pool/core/types"
	"github.com/MinterTeam/influence-pool/helpers"
	"github.com/pkg/errors"
	tmos "github.com/tendermint/tendermint/libs/os"
)

// Doc is the genesis file of a pool node.
type Doc struct {
	GenesisTime time.Time      `json:"genesis_time"`
	PoolID      string         `json:"pool_id"`
	AppState    types.AppState `json:"app_state"`
}

// GetTestnetGenesis returns a genesis funding the pool address with one
// million units and no influence.
func GetTestnetGenesis(pool types.Address) (*Doc, error) {
	appState := types.AppState{
		Note: "influence pool testnet",
		Accounts: []types.Account{
			{
				Address: pool,
				Balance: helpers.UnitToPip(big.NewInt(1000000)).String(),
			},
		},
		TotalInfluence: "0",
		UnclaimedPool:  "0",
	}

	genesis := Doc{
		GenesisTime: time.Date(2022, 5, 1, 0, 0, 0, 0, time.UTC),
		PoolID:      "influence-pool-testnet-1",
		AppState:    appState,
	}

	if err := genesis.ValidateAndComplete(); err != nil {
		return nil, err
	}

	return &genesis, nil
}

// ValidateAndComplete checks the doc and fills defaults.
func (doc *Doc) ValidateAndComplete() error {
	if doc.PoolID == "" {
		return errors.New("genesis doc must include non-empty pool_id")
	}

	if doc.GenesisTime.IsZero() {
		doc.GenesisTime = time.Now().UTC()
	}

	if doc.AppState.TotalInfluence == "" {
		doc.AppState.TotalInfluence = "0"
	}

	if doc.AppState.UnclaimedPool == "" {
		doc.AppState.UnclaimedPool = "0"
	}

	return errors.Wrap(doc.AppState.Verify(), "invalid app_state")
}

// SaveAs writes the doc as indented JSON.
func (doc *Doc) SaveAs(file string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	return tmos.WriteFile(file, data, 0644)
}

// FromFile reads and validates a genesis doc.
func FromFile(file string) (*Doc, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Wrap(err, "can't read genesis file")
	}

	doc := new(Doc)
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, errors.Wrap(err, "can't decode genesis file")
	}

	if err := doc.ValidateAndComplete(); err != nil {
		return nil, err
	}

	return doc, nil
}

package types

import (
	"fmt"
	"math/big"

	"github.com/MinterTeam/influence-pool/helpers"
)

type AppState struct {
	Note           string         `json:"note"`
	Accounts       []Account      `json:"accounts,omitempty"`
	Influence      []Influence    `json:"influence,omitempty"`
	History        []HistoryEntry `json:"history,omitempty"`
	Snapshots      []Snapshot     `json:"snapshots,omitempty"`
	Cursors        []Cursor       `json:"cursors,omitempty"`
	Schedule       []Reward       `json:"schedule,omitempty"`
	TotalInfluence string         `json:"total_influence"`
	UnclaimedPool  string         `json:"unclaimed_pool"`
	TotalReserved  string         `json:"total_reserved,omitempty"`
	TotalPaid      string         `json:"total_paid,omitempty"`
}

type Account struct {
	Address Address `json:"address"`
	Balance string  `json:"balance"`
}

type Influence struct {
	Address Address `json:"address"`
	Score   string  `json:"score"`
}

type HistoryEntry struct {
	Address Address `json:"address"`
	Index   uint64  `json:"index"`
	Score   string  `json:"score"`
}

type Snapshot struct {
	Key            uint64 `json:"key"`
	RewardAmount   string `json:"reward_amount"`
	TotalInfluence string `json:"total_influence"`
}

type Cursor struct {
	Address Address `json:"address"`
	Next    uint64  `json:"next"`
}

type Reward struct {
	Key    uint64 `json:"key"`
	Amount string `json:"amount"`
}

func (s *AppState) Verify() error {
	if !helpers.IsValidBigInt(s.TotalInfluence) {
		return fmt.Errorf("total influence is not valid BigInt")
	}

	if !helpers.IsValidBigInt(s.UnclaimedPool) {
		return fmt.Errorf("unclaimed pool is not valid BigInt")
	}

	if s.TotalReserved != "" && !helpers.IsValidBigInt(s.TotalReserved) {
		return fmt.Errorf("total reserved is not valid BigInt")
	}

	if s.TotalPaid != "" && !helpers.IsValidBigInt(s.TotalPaid) {
		return fmt.Errorf("total paid is not valid BigInt")
	}

	accounts := map[Address]struct{}{}
	for _, acc := range s.Accounts {
		if _, exists := accounts[acc.Address]; exists {
			return fmt.Errorf("duplicated account %s", acc.Address.String())
		}
		accounts[acc.Address] = struct{}{}

		if !helpers.IsValidBigInt(acc.Balance) {
			return fmt.Errorf("balance of account %s is not valid", acc.Address.String())
		}
	}

	sum := big.NewInt(0)
	scores := map[Address]struct{}{}
	for _, inf := range s.Influence {
		if _, exists := scores[inf.Address]; exists {
			return fmt.Errorf("duplicated influence of %s", inf.Address.String())
		}
		scores[inf.Address] = struct{}{}

		if !helpers.IsValidBigInt(inf.Score) {
			return fmt.Errorf("influence of %s is not valid", inf.Address.String())
		}
		sum.Add(sum, helpers.StringToBigInt(inf.Score))
	}

	total := helpers.StringToBigInt(s.TotalInfluence)
	if sum.Cmp(total) != 0 {
		return fmt.Errorf("sum of influence %s does not match total influence %s", sum, total)
	}

	if total.Cmp(PrecMax()) >= 0 {
		return fmt.Errorf("total influence %s reaches the precision ceiling", total)
	}

	length := uint64(len(s.Snapshots))
	for i, snapshot := range s.Snapshots {
		if !helpers.IsValidBigInt(snapshot.RewardAmount) {
			return fmt.Errorf("reward amount of snapshot %d is not valid", i)
		}
		if !helpers.IsValidBigInt(snapshot.TotalInfluence) || helpers.StringToBigInt(snapshot.TotalInfluence).Sign() == 0 {
			return fmt.Errorf("total influence of snapshot %d is not valid", i)
		}
	}

	history := map[Address]map[uint64]struct{}{}
	for _, entry := range s.History {
		if entry.Index > length {
			return fmt.Errorf("history of %s points to unknown snapshot %d", entry.Address.String(), entry.Index)
		}
		if !helpers.IsValidBigInt(entry.Score) {
			return fmt.Errorf("history of %s at %d is not valid", entry.Address.String(), entry.Index)
		}
		if history[entry.Address] == nil {
			history[entry.Address] = map[uint64]struct{}{}
		}
		if _, exists := history[entry.Address][entry.Index]; exists {
			return fmt.Errorf("duplicated history of %s at %d", entry.Address.String(), entry.Index)
		}
		history[entry.Address][entry.Index] = struct{}{}
	}

	cursors := map[Address]struct{}{}
	for _, cursor := range s.Cursors {
		if _, exists := cursors[cursor.Address]; exists {
			return fmt.Errorf("duplicated cursor of %s", cursor.Address.String())
		}
		cursors[cursor.Address] = struct{}{}

		if cursor.Next > length {
			return fmt.Errorf("cursor of %s is beyond the last snapshot", cursor.Address.String())
		}
	}

	keys := map[uint64]struct{}{}
	for _, reward := range s.Schedule {
		if _, exists := keys[reward.Key]; exists {
			return fmt.Errorf("duplicated reward key %d", reward.Key)
		}
		keys[reward.Key] = struct{}{}

		if !helpers.IsValidBigInt(reward.Amount) {
			return fmt.Errorf("reward amount of key %d is not valid", reward.Key)
		}
	}

	return nil
}

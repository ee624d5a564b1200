package cmd

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/MinterTeam/influence-pool/core/budget"
	"github.com/MinterTeam/influence-pool/core/types"
	"github.com/MinterTeam/influence-pool/helpers"
	"github.com/MinterTeam/influence-pool/log"
	"github.com/spf13/cobra"
)

// The commands below open the storages directly and must not run while a
// node holds them.

var AddInfluence = &cobra.Command{
	Use:   "add-influence",
	Short: "Add influence to accounts",
	RunE: withPool(func(cmd *cobra.Command, p *pool) error {
		caller, err := addressFlag(cmd, "from")
		if err != nil {
			return err
		}
		addresses, err := addressesFlag(cmd, "address")
		if err != nil {
			return err
		}
		deltas, err := amountsFlag(cmd, "delta")
		if err != nil {
			return err
		}

		if err := p.distributor.AddInfluenceBatch(caller, addresses, deltas); err != nil {
			return err
		}

		return p.commit()
	}),
}

var RemoveInfluence = &cobra.Command{
	Use:   "remove-influence",
	Short: "Drop the whole influence of an account",
	RunE: withPool(func(cmd *cobra.Command, p *pool) error {
		caller, err := addressFlag(cmd, "from")
		if err != nil {
			return err
		}
		address, err := addressFlag(cmd, "address")
		if err != nil {
			return err
		}

		if err := p.distributor.RemoveInfluence(caller, address); err != nil {
			return err
		}

		return p.commit()
	}),
}

var RecordSnapshot = &cobra.Command{
	Use:   "record-snapshot",
	Short: "Record a reward event against the current influence",
	RunE: withPool(func(cmd *cobra.Command, p *pool) error {
		caller, err := addressFlag(cmd, "from")
		if err != nil {
			return err
		}
		key, err := cmd.Flags().GetUint64("key")
		if err != nil {
			return err
		}
		amount, err := cmd.Flags().GetString("amount")
		if err != nil {
			return err
		}

		var index uint64
		if amount == "" {
			index, err = p.distributor.RecordScheduledSnapshot(caller, types.Key(key))
		} else {
			amounts, parseErr := helpers.ParseAmounts([]string{amount})
			if parseErr != nil {
				return parseErr
			}
			index, err = p.distributor.RecordSnapshot(caller, types.Key(key), amounts[0])
		}
		if err != nil {
			return err
		}

		fmt.Printf("snapshot %d recorded\n", index)
		return p.commit()
	}),
}

var SetRewards = &cobra.Command{
	Use:   "set-rewards",
	Short: "Set scheduled reward amounts per key",
	RunE: withPool(func(cmd *cobra.Command, p *pool) error {
		caller, err := addressFlag(cmd, "from")
		if err != nil {
			return err
		}
		keys, err := cmd.Flags().GetUintSlice("key")
		if err != nil {
			return err
		}
		amounts, err := amountsFlag(cmd, "amount")
		if err != nil {
			return err
		}

		rewardKeys := make([]types.Key, 0, len(keys))
		for _, key := range keys {
			rewardKeys = append(rewardKeys, types.Key(key))
		}

		if err := p.distributor.SetRewardSchedule(caller, rewardKeys, amounts); err != nil {
			return err
		}

		return p.commit()
	}),
}

var Claim = &cobra.Command{
	Use:   "claim",
	Short: "Claim accrued rewards of an account",
	RunE: withPool(func(cmd *cobra.Command, p *pool) error {
		address, err := addressFlag(cmd, "address")
		if err != nil {
			return err
		}
		limit, err := cmd.Flags().GetUint64("budget")
		if err != nil {
			return err
		}
		if limit == 0 {
			limit = cfg.Budget.ClaimBudget
		}

		meter := budget.Unlimited()
		if limit != 0 {
			meter = budget.NewMeter(limit)
		}

		result, err := p.distributor.GetReward(address, meter)
		if err != nil {
			return err
		}

		if err := printJSON(map[string]interface{}{
			"amount":    result.Amount.String(),
			"from":      result.From,
			"cursor":    result.Cursor,
			"processed": result.Processed,
			"complete":  result.Complete,
			"yielded":   result.Yielded,
			"consumed":  meter.Consumed(),
		}); err != nil {
			return err
		}

		return p.commit()
	}),
}

var ClaimsLeft = &cobra.Command{
	Use:   "claims-left",
	Short: "Show pending snapshots and influence of an account",
	RunE: withPool(func(cmd *cobra.Command, p *pool) error {
		address, err := addressFlag(cmd, "address")
		if err != nil {
			return err
		}

		return printJSON(map[string]interface{}{
			"claims_left": p.distributor.ClaimsLeft(address),
			"cursor":      p.distributor.Cursor(address),
			"influence":   p.distributor.InfluenceOf(address).String(),
		})
	}),
}

var Fund = &cobra.Command{
	Use:   "fund",
	Short: "Deposit funds to the pool address",
	RunE: withPool(func(cmd *cobra.Command, p *pool) error {
		amounts, err := amountsFlag(cmd, "amount")
		if err != nil {
			return err
		}
		if len(amounts) != 1 {
			return fmt.Errorf("exactly one amount expected")
		}

		if err := p.vault.Deposit(amounts[0]); err != nil {
			return err
		}

		fmt.Printf("pool balance %s\n", p.vault.Balance())
		return p.commit()
	}),
}

var ShowSnapshot = &cobra.Command{
	Use:   "show-snapshot",
	Short: "Show a recorded snapshot",
	RunE: withPool(func(cmd *cobra.Command, p *pool) error {
		index, err := cmd.Flags().GetUint64("index")
		if err != nil {
			return err
		}

		snapshot, err := p.distributor.Snapshot(index)
		if err != nil {
			return err
		}

		return printJSON(map[string]interface{}{
			"index":           snapshot.Index(),
			"key":             snapshot.Key,
			"reward_amount":   snapshot.GetRewardAmount().String(),
			"total_influence": snapshot.GetTotalInfluence().String(),
			"count":           p.distributor.SnapshotsCount(),
		})
	}),
}

func init() {
	for _, c := range []*cobra.Command{AddInfluence, RemoveInfluence, RecordSnapshot, SetRewards} {
		c.Flags().String("from", "", "address of the caller")
	}

	AddInfluence.Flags().StringSlice("address", nil, "accounts to update")
	AddInfluence.Flags().StringSlice("delta", nil, "influence deltas, one per address")

	RemoveInfluence.Flags().String("address", "", "account to remove")

	RecordSnapshot.Flags().Uint64("key", 0, "reward event key")
	RecordSnapshot.Flags().String("amount", "", "reward amount, the scheduled amount of the key if empty")

	SetRewards.Flags().UintSlice("key", nil, "reward event keys")
	SetRewards.Flags().StringSlice("amount", nil, "reward amounts, one per key")

	Claim.Flags().String("address", "", "claiming account")
	Claim.Flags().Uint64("budget", 0, "execution budget, budget.claim_budget if 0")

	ClaimsLeft.Flags().String("address", "", "account")

	Fund.Flags().StringSlice("amount", nil, "amount to deposit")

	ShowSnapshot.Flags().Uint64("index", 0, "snapshot index")
}

func withPool(run func(cmd *cobra.Command, p *pool) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		p, err := openPool(log.With("module", "main"), nil)
		if err != nil {
			return err
		}
		defer p.Close()

		return run(cmd, p)
	}
}

func addressFlag(cmd *cobra.Command, name string) (types.Address, error) {
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return types.Address{}, err
	}

	address, err := parseAddress(value)
	if err != nil {
		return types.Address{}, fmt.Errorf("--%s: %v", name, err)
	}

	return address, nil
}

func addressesFlag(cmd *cobra.Command, name string) ([]types.Address, error) {
	values, err := cmd.Flags().GetStringSlice(name)
	if err != nil {
		return nil, err
	}

	return parseAddresses(values)
}

func amountsFlag(cmd *cobra.Command, name string) ([]*big.Int, error) {
	values, err := cmd.Flags().GetStringSlice(name)
	if err != nil {
		return nil, err
	}

	return helpers.ParseAmounts(values)
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(data))
	return nil
}

package cmd

import (
	"fmt"

	"github.com/MinterTeam/influence-pool/genesis"
	"github.com/spf13/cobra"
	tmos "github.com/tendermint/tendermint/libs/os"
)

// Init writes a testnet genesis funding the configured pool address.
// The config file itself is created by the root command when missing.
var Init = &cobra.Command{
	Use:   "init",
	Short: "Create the genesis file of a new pool",
	RunE: func(cmd *cobra.Command, args []string) error {
		file := cfg.GenesisFile()
		force, _ := cmd.Flags().GetBool("force")
		if tmos.FileExists(file) && !force {
			return fmt.Errorf("genesis file %s already exists", file)
		}

		poolAddress, err := parseAddress(cfg.Custody.PoolAddress)
		if err != nil {
			return err
		}

		doc, err := genesis.GetTestnetGenesis(poolAddress)
		if err != nil {
			return err
		}

		if err := doc.SaveAs(file); err != nil {
			return err
		}

		fmt.Printf("genesis written to %s\n", file)
		return nil
	},
}

func init() {
	Init.Flags().Bool("force", false, "overwrite an existing genesis file")
}

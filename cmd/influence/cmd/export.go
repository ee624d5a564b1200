package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/MinterTeam/influence-pool/genesis"
	"github.com/MinterTeam/influence-pool/log"
	"github.com/spf13/cobra"
	tmos "github.com/tendermint/tendermint/libs/os"
)

var ExportCommand = &cobra.Command{
	Use:   "export",
	Short: "Export the pool state as a genesis file",
	RunE:  export,
}

func init() {
	ExportCommand.Flags().Uint64("height", 0, "height to export, 0 for the latest")
	ExportCommand.Flags().String("pool-id", "influence-pool", "pool id of the new genesis")
	ExportCommand.Flags().String("output", "", "file to write, stdout if empty")
	ExportCommand.Flags().Bool("indent", true, "indent the json output")
}

func export(cmd *cobra.Command, args []string) error {
	height, err := cmd.Flags().GetUint64("height")
	if err != nil {
		return err
	}
	poolID, err := cmd.Flags().GetString("pool-id")
	if err != nil {
		return err
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	indent, err := cmd.Flags().GetBool("indent")
	if err != nil {
		return err
	}

	p, err := openPool(log.With("module", "main"), nil)
	if err != nil {
		return err
	}
	defer p.Close()

	if height == 0 {
		height = uint64(p.state.Height())
	}

	checkState, err := p.state.CheckStateAtHeight(height)
	if err != nil {
		return err
	}

	doc := genesis.Doc{
		GenesisTime: time.Now().UTC(),
		PoolID:      poolID,
		AppState:    checkState.Export(),
	}
	if err := doc.ValidateAndComplete(); err != nil {
		return err
	}

	var data []byte
	if indent {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return err
	}

	if output == "" {
		fmt.Println(string(data))
		return nil
	}

	return tmos.WriteFile(output, data, 0644)
}

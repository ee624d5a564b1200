package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/MinterTeam/influence-pool/cmd/influence/cmd"
	"github.com/MinterTeam/influence-pool/cmd/utils"
)

func main() {
	rootCmd := cmd.RootCmd
	rootCmd.PersistentFlags().StringVar(&utils.InfluenceHome, "home-dir", "", "base dir (default is $HOME/.influence)")
	rootCmd.PersistentFlags().StringVar(&utils.InfluenceConfig, "config", "", "path to config (default is $(home-dir)/config/config.toml)")

	rootCmd.AddCommand(
		cmd.RunNode,
		cmd.Init,
		cmd.Version,
		cmd.ExportCommand,
		cmd.AddInfluence,
		cmd.RemoveInfluence,
		cmd.RecordSnapshot,
		cmd.SetRewards,
		cmd.Claim,
		cmd.ClaimsLeft,
		cmd.Fund,
		cmd.ShowSnapshot,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.RootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

package cmd

import (
	"github.com/MinterTeam/influence-pool/cmd/utils"
	"github.com/MinterTeam/influence-pool/config"
	"github.com/MinterTeam/influence-pool/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfg *config.Config

var RootCmd = &cobra.Command{
	Use:          "influence",
	Short:        "Influence-weighted reward pool node",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		v := viper.New()
		v.SetConfigFile(utils.GetInfluenceConfigPath())
		cfg = config.GetConfig()

		if err := v.ReadInConfig(); err != nil {
			return errors.Wrap(err, "can't read config")
		}

		if err := v.Unmarshal(cfg); err != nil {
			return errors.Wrap(err, "can't decode config")
		}

		if err := cfg.ValidateBasic(); err != nil {
			return errors.Wrap(err, "invalid config")
		}

		log.InitLog(cfg)
		return nil
	},
}

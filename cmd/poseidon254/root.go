package main

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vocdoni/poseidon254"
	"github.com/vocdoni/poseidon254/internal/params"
)

// cli holds the state shared by one command tree: its config and logger.
type cli struct {
	cfgFile string
	v       *viper.Viper
	log     zerolog.Logger
}

// newRootCmd builds a fresh command tree with its own flags and viper
// instance.
func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}

	root := &cobra.Command{
		Use:           "poseidon254",
		Short:         "Poseidon hash over the bn254 scalar field",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.initConfig(); err != nil {
				return err
			}
			level, err := zerolog.ParseLevel(c.v.GetString("log-level"))
			if err != nil {
				return err
			}
			c.log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
			if c.v.ConfigFileUsed() != "" {
				c.log.Debug().Str("file", c.v.ConfigFileUsed()).Msg("using config file")
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (yaml)")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("table", "", "JSON constants table; the built-in Grain parameters are used when empty")
	cobra.CheckErr(c.v.BindPFlag("log-level", root.PersistentFlags().Lookup("log-level")))
	cobra.CheckErr(c.v.BindPFlag("table", root.PersistentFlags().Lookup("table")))

	root.AddCommand(c.newHashCmd())
	root.AddCommand(c.newMerkleCmd())
	root.AddCommand(c.newParamsCmd())
	return root
}

func (c *cli) initConfig() error {
	if c.cfgFile != "" {
		c.v.SetConfigFile(c.cfgFile)
		if err := c.v.ReadInConfig(); err != nil {
			return err
		}
	}
	c.v.SetEnvPrefix("POSEIDON254")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()
	return nil
}

// useConfiguredTable switches the hash to the table named by --table, or back
// to the built-in Grain parameters when none is given.
func (c *cli) useConfiguredTable() error {
	path := c.v.GetString("table")
	if path == "" {
		poseidon254.SetParameterSource(params.GrainSource{})
		return nil
	}
	if err := poseidon254.LoadConstantsTable(path); err != nil {
		return err
	}
	c.log.Debug().Str("table", path).Msg("loaded constants table")
	return nil
}

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/massimoalbarello/consensus-on-demand/cmd/bench-analyzer/cmd/analyze"
	"github.com/massimoalbarello/consensus-on-demand/cmd/bench-analyzer/cmd/sequences"
	"github.com/massimoalbarello/consensus-on-demand/cmd/bench-analyzer/cmd/validate"
	"github.com/massimoalbarello/consensus-on-demand/config"
)

const envPrefix = "BENCH"

var (
	flagLogLevel   string
	flagConfigFile string
)

var rootCmd = &cobra.Command{
	Use:   "bench-analyzer",
	Short: "Analyse the benchmark artifacts of IC consensus replicas",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "log level (panic, fatal, error, warn, info, debug)")
	rootCmd.PersistentFlags().StringVar(&flagConfigFile, "config", "", "YAML file with the benchmark parameters")
	config.InitializeBenchmarkFlags(rootCmd.PersistentFlags(), config.Default())

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(analyze.Cmd)
	rootCmd.AddCommand(validate.Cmd)
	rootCmd.AddCommand(sequences.Cmd)

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	log.Logger = zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()

	lvl, err := zerolog.ParseLevel(strings.ToLower(flagLogLevel))
	if err != nil {
		log.Fatal().Err(err).Msg("invalid log level")
	}
	zerolog.SetGlobalLevel(lvl)

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if flagConfigFile != "" {
		viper.SetConfigFile(flagConfigFile)
		if err := viper.ReadInConfig(); err != nil {
			log.Fatal().Err(err).Str("file", flagConfigFile).Msg("could not read config file")
		}
		log.Debug().Str("file", viper.ConfigFileUsed()).Msg("config file loaded")
	}
}

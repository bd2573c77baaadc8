// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	"github.com/luxfi/filesystem/perms"
	luxlog "github.com/luxfi/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/luxfi/simplestore/cmd/deploycmd"
	"github.com/luxfi/simplestore/cmd/statuscmd"
	"github.com/luxfi/simplestore/pkg/application"
	"github.com/luxfi/simplestore/pkg/config"
	"github.com/luxfi/simplestore/pkg/constants"
	"github.com/luxfi/simplestore/pkg/deployerr"
	"github.com/luxfi/simplestore/pkg/ux"
)

var (
	app        *application.SimpleStore
	logFactory luxlog.Factory

	logLevel string
	Version  = "0.1.0"
	cfgFile  string
	envFile  string
)

func NewRootCmd() *cobra.Command {
	// rootCmd represents the base command when called without any subcommands
	rootCmd := &cobra.Command{
		Use:   "simplestore",
		Short: "Compile, deploy and inspect the SimpleStore contract",
		Long: `simplestore compiles SimpleStore.sol with a local solc, deploys it to the
Lisk Sepolia test network and reports the status of the deploying wallet.

The wallet key is read from PRIVATE_KEY (environment or .env file).

QUICK START:

  # Check the wallet is funded
  simplestore status

  # Compile and deploy
  simplestore deploy`,
		PersistentPreRunE: createApp,
		Version:           Version,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	// Disable printing the completion command
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.simplestore/config.json)")
	rootCmd.PersistentFlags().StringVar(&envFile, constants.ConfigEnvFile, constants.DefaultEnvFile, "dotenv file to load before reading the environment")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level for the application")
	rootCmd.PersistentFlags().Bool("verbose", false, "Show verbose output (info level logs)")
	rootCmd.PersistentFlags().Bool("debug", false, "Show debug output (debug level logs)")
	rootCmd.PersistentFlags().Bool("quiet", false, "Show only errors (quiet mode)")
	config.AddNetworkFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(deploycmd.NewCmd(app))
	rootCmd.AddCommand(statuscmd.NewCmd(app))

	return rootCmd
}

func createApp(cmd *cobra.Command, _ []string) error {
	baseDir, err := setupEnv()
	if err != nil {
		return err
	}
	log, err := setupLogging(baseDir)
	if err != nil {
		return err
	}
	if err := adjustLogLevel(cmd); err != nil {
		return err
	}
	app.Setup(baseDir, log)

	if err := config.LoadEnvFile(envFile, cmd.Flags().Changed(constants.ConfigEnvFile)); err != nil {
		return err
	}
	return initConfig(cmd)
}

func adjustLogLevel(cmd *cobra.Command) error {
	var (
		level luxlog.Level
		err   error
	)
	switch {
	case cmd.Flags().Changed("debug"):
		level, err = luxlog.ToLevel("DEBUG")
	case cmd.Flags().Changed("verbose"):
		level, err = luxlog.ToLevel("INFO")
	case cmd.Flags().Changed("quiet"):
		level, err = luxlog.ToLevel("ERROR")
	case logLevel != "":
		level, err = luxlog.ToLevel(logLevel)
	default:
		return nil
	}
	if err != nil {
		return deployerr.New(deployerr.KindConfig, "parse log level", err)
	}
	logFactory.SetLogLevel(constants.LoggerName, level)
	logFactory.SetDisplayLevel(constants.LoggerName, level)
	return nil
}

func setupEnv() (string, error) {
	// Set base dir
	usr, err := user.Current()
	if err != nil {
		// no logger here yet
		fmt.Printf("unable to get system user %s\n", err)
		return "", err
	}
	baseDir := filepath.Join(usr.HomeDir, constants.BaseDirName)

	// Create base dir if it doesn't exist
	if err := os.MkdirAll(baseDir, 0o750); err != nil {
		// no logger here yet
		fmt.Printf("failed creating the basedir %s: %s\n", baseDir, err)
		return "", err
	}
	return baseDir, nil
}

func setupLogging(baseDir string) (luxlog.Logger, error) {
	config := luxlog.Config{}
	config.LogLevel, _ = luxlog.ToLevel("INFO")

	// quiet on the console by default, flags adjust this once parsed
	config.DisplayLevel, _ = luxlog.ToLevel("WARN")

	config.Directory = filepath.Join(baseDir, constants.LogDir)
	if err := os.MkdirAll(config.Directory, perms.ReadWriteExecute); err != nil {
		return nil, fmt.Errorf("failed creating log directory: %w", err)
	}

	// some logging config params
	config.LogFormat = luxlog.Colors
	config.MaxSize = constants.MaxLogFileSize
	config.MaxFiles = constants.MaxNumOfLogFiles
	config.MaxAge = constants.RetainOldFiles

	// Register ux package as internal so caller tracking shows actual source, not the wrapper
	luxlog.RegisterInternalPackages("github.com/luxfi/simplestore/pkg/ux")

	factory := luxlog.NewFactoryWithConfig(config)
	log, err := factory.Make(constants.LoggerName)
	if err != nil {
		factory.Close()
		return nil, fmt.Errorf("failed setting up logging, exiting: %w", err)
	}
	logFactory = factory
	// User output goes to stdout, logs go to stderr
	ux.NewUserLog(log, os.Stdout)
	return log, nil
}

// initConfig reads in config file and ENV variables if set.
// Priority: flags > env vars (.env included) > config file > defaults
func initConfig(cmd *cobra.Command) error {
	configFile := cfgFile
	if configFile == "" && app.ConfigFileExists() {
		configFile = app.GetConfigPath()
	}

	config.SetDefaults(viper.GetViper())
	if err := config.BindEnv(viper.GetViper()); err != nil {
		return err
	}
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// No config file is normal - most users don't have one
	if configFile == "" {
		return nil
	}
	viper.SetConfigFile(configFile)
	if err := viper.ReadInConfig(); err != nil {
		return deployerr.New(deployerr.KindConfig, "read config file", err)
	}
	app.Log.Debug("using config file", zap.String("config-file", viper.ConfigFileUsed()))
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	app = application.New()
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\nERROR: %s\n", err)
		if remedy := deployerr.Remedy(deployerr.Classify(err), viper.GetString(constants.ConfigFaucetURL)); remedy != "" {
			fmt.Fprintf(os.Stderr, "\n%s\n", remedy)
		}
		if logFactory != nil {
			logFactory.Close()
		}
		os.Exit(1)
	}
	if logFactory != nil {
		logFactory.Close()
	}
}

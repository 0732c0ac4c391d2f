package calcskin

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/dasdy/calcskin/geometry"
	"github.com/dasdy/calcskin/layout"
	"github.com/dasdy/calcskin/logging"
	"github.com/dasdy/calcskin/model"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	logLevel string
)

var errBadSize = errors.New("size must look like WIDTHxHEIGHT")

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "calcskin",
	Short: "Inspect calculator skins and replay input against them",
	Long: `Calcskin loads calculator skin descriptions and keymaps, checks them,
renders them, and replays touch and keyboard input through the same dispatch
rules the emulator uses. Replayed keystrokes can be journaled to a sqlite file
and shown as a heatmap in a web interface.`,
	PersistentPreRunE: preRun,
	SilenceUsage:      true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.calcskin.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "one of debug, info, warn, error")
}

func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("toml")
		viper.SetConfigName(".calcskin")
	}

	viper.SetEnvPrefix("calcskin")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			createExampleConfig()
		} else {
			log.Printf("Error reading config file: %s\n", err)
			os.Exit(1)
		}
	}
}

func createExampleConfig() {
	exampleConfig := `
skin = "default"
keymap = ""
storage = "./keystrokes.sqlite"
port = 3000
maintainaspect = true
`
	configPath := "./.calcskin.toml"

	err := os.WriteFile(configPath, []byte(exampleConfig), 0o644)
	if err != nil {
		log.Printf("Error creating example config file: %s\n", err)

		return
	}

	log.Printf("Example config file created at %s\n", configPath)
}

func preRun(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, args); err != nil {
		return err
	}

	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return err
	}

	slog.SetDefault(logging.NewLogger(os.Stderr, level))
	slog.Debug("Configuration", "file", viper.ConfigFileUsed(), "settings", viper.AllSettings())

	return nil
}

// bindFlags sets flags from the config file when they were not given on the command line.
func bindFlags(cmd *cobra.Command, _ []string) error {
	var errs []error

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// Viper keys are case-insensitive, so only the hyphens need to go.
		configName := strings.ReplaceAll(f.Name, "-", "")

		if !f.Changed && viper.IsSet(configName) {
			val := viper.Get(configName)

			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				errs = append(errs, fmt.Errorf("config value %s for flag %s: %w", configName, f.Name, err))
			}
		}
	})

	return errors.Join(errs...)
}

func parseSize(s string) (geometry.Size, error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return geometry.Size{}, fmt.Errorf("%w: %q", errBadSize, s)
	}

	width, errW := strconv.Atoi(strings.TrimSpace(w))
	height, errH := strconv.Atoi(strings.TrimSpace(h))

	if errW != nil || errH != nil || width <= 0 || height <= 0 {
		return geometry.Size{}, fmt.Errorf("%w: %q", errBadSize, s)
	}

	return geometry.Size{Width: width, Height: height}, nil
}

// loadSkinAndKeymap resolves the --skin and --keymap flags. An unreadable skin falls back
// to the built-in one; a keymap that fails to parse is an error.
func loadSkinAndKeymap(skinName, keymapPath string) (*model.Skin, model.Keymap, error) {
	s := layout.LoadSkinOrDefault(skinName)

	global, err := layout.LoadKeymap(keymapPath)
	if err != nil {
		return nil, nil, err
	}

	return s, global, nil
}

func addSkinFlags(cmd *cobra.Command, skinName, keymapPath *string) {
	cmd.Flags().StringVar(skinName, "skin", layout.DefaultSkinName,
		"Skin name or path to a .layout file")
	cmd.Flags().StringVar(keymapPath, "keymap", "",
		"Path to the global keymap file (built-in keymap when empty)")
}

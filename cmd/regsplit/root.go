package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/dgallion1/regsplit/internal/config"
	"github.com/dgallion1/regsplit/internal/lang"
)

// app is the state shared by all commands of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     config.Config
	log     *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	config.SetDefaults(a.v)

	root := &cobra.Command{
		Use:           "regsplit",
		Short:         "Split multilingual regulation texts into provision tables",
		Long:          "regsplit reads one rendering of a regulation per language and writes one CSV of recitals, articles, chapters and annex items per language, keyed by identifiers shared across languages.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.ErrOrStderr())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (YAML)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "json", "log format: json or text")
	pf.String("languages", "", "language rules file overlaid on the built-in table")
	pf.String("default-language", "en", "rules used for files whose language has none")
	mustBind(a.v, config.KeyLogLevel, pf.Lookup("log-level"))
	mustBind(a.v, config.KeyLogFormat, pf.Lookup("log-format"))
	mustBind(a.v, config.KeyLanguagesFile, pf.Lookup("languages"))
	mustBind(a.v, config.KeyDefaultLanguage, pf.Lookup("default-language"))

	root.AddCommand(
		newExtractCmd(a),
		newXrefCmd(a),
		newLanguagesCmd(a),
		&cobra.Command{
			Use:   "version",
			Short: "Print the version number",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "regsplit %s\n", version)
			},
		},
	)
	return root
}

// init loads .env files and the config file, then builds the logger.
func (a *app) init(logOut io.Writer) error {
	if err := config.LoadEnvFiles(); err != nil {
		return err
	}
	if err := config.ReadFile(a.v, a.cfgFile); err != nil {
		return err
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	if err := cfg.ValidateLogging(); err != nil {
		return err
	}
	a.cfg = cfg

	level, _ := cfg.SlogLevel()
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "text" {
		a.log = slog.New(slog.NewTextHandler(logOut, opts))
	} else {
		a.log = slog.New(slog.NewJSONHandler(logOut, opts))
	}
	return nil
}

func (a *app) languageTable() (*lang.Table, error) {
	table, err := lang.LoadFile(a.cfg.LanguagesFile)
	if err != nil {
		return nil, fmt.Errorf("load language table: %w", err)
	}
	return table, nil
}

func mustBind(v *viper.Viper, key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", key, err))
	}
}

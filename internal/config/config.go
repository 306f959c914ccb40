package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. REGSPLIT_INPUT_DIR.
const EnvPrefix = "REGSPLIT"

// Configuration keys, shared by flags, env and config file.
const (
	KeyInputDir             = "input_dir"
	KeyOutputDir            = "output_dir"
	KeyPattern              = "pattern"
	KeyOutputPrefix         = "output_prefix"
	KeyLanguagesFile        = "languages_file"
	KeyDefaultLanguage      = "default_language"
	KeySelector             = "selector"
	KeySubparagraphArticles = "subparagraph_articles"
	KeySplitAnnexItems      = "split_annex_items"
	KeyPDFFallback          = "pdf_fallback_pdftotext"
	KeyMetricsFile          = "metrics_file"
	KeyStrict               = "strict"
	KeyLogLevel             = "log_level"
	KeyLogFormat            = "log_format"
)

// DefaultPattern matches every supported edition format.
const DefaultPattern = "*.{html,htm,xhtml,md,txt,pdf,docx}"

type Config struct {
	InputDir  string
	OutputDir string
	Pattern   string

	// OutputPrefix names tables <prefix>_<lang>.csv.
	OutputPrefix string

	// Language table
	LanguagesFile   string
	DefaultLanguage string

	// Segmentation
	SubparagraphArticles []int // nil keeps the language table's list
	SplitAnnexItems      bool

	// Extraction
	Selector             string
	PDFFallbackPdftotext bool

	MetricsFile string
	Strict      bool

	LogLevel  string
	LogFormat string
}

// SetDefaults registers defaults and env binding on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyPattern, DefaultPattern)
	v.SetDefault(KeyOutputPrefix, "provisions")
	v.SetDefault(KeyDefaultLanguage, "en")
	v.SetDefault(KeyPDFFallback, true)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "json")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
}

// LoadEnvFiles loads .env.local then .env from the working directory.
// Variables already set in the environment win; missing files are ignored.
func LoadEnvFiles() error {
	for _, name := range []string{".env.local", ".env"} {
		if err := godotenv.Load(name); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", name, err)
		}
	}
	return nil
}

// ReadFile merges a YAML or TOML config file into v. An empty path is a no-op.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	return nil
}

// Load builds a Config from v. Precedence is viper's: flags, env, config
// file, defaults.
func Load(v *viper.Viper) (Config, error) {
	articles, err := intList(v.Get(KeySubparagraphArticles))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", KeySubparagraphArticles, err)
	}

	cfg := Config{
		InputDir:  v.GetString(KeyInputDir),
		OutputDir: v.GetString(KeyOutputDir),
		Pattern:   v.GetString(KeyPattern),

		OutputPrefix: v.GetString(KeyOutputPrefix),

		LanguagesFile:   v.GetString(KeyLanguagesFile),
		DefaultLanguage: strings.ToLower(v.GetString(KeyDefaultLanguage)),

		SubparagraphArticles: articles,
		SplitAnnexItems:      v.GetBool(KeySplitAnnexItems),

		Selector:             v.GetString(KeySelector),
		PDFFallbackPdftotext: v.GetBool(KeyPDFFallback),

		MetricsFile: v.GetString(KeyMetricsFile),
		Strict:      v.GetBool(KeyStrict),

		LogLevel:  strings.ToLower(v.GetString(KeyLogLevel)),
		LogFormat: strings.ToLower(v.GetString(KeyLogFormat)),
	}

	if cfg.Pattern == "" {
		cfg.Pattern = DefaultPattern
	}
	if cfg.OutputPrefix == "" {
		cfg.OutputPrefix = "provisions"
	}
	return cfg, nil
}

// Validate checks what every run needs.
func (c Config) Validate() error {
	if c.InputDir == "" {
		return fmt.Errorf("%s is required", KeyInputDir)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("%s is required", KeyOutputDir)
	}
	if !doublestar.ValidatePattern(c.Pattern) {
		return fmt.Errorf("invalid %s %q", KeyPattern, c.Pattern)
	}
	if strings.ContainsAny(c.OutputPrefix, `/\`) {
		return fmt.Errorf("%s must not contain path separators", KeyOutputPrefix)
	}
	for _, n := range c.SubparagraphArticles {
		if n <= 0 {
			return fmt.Errorf("%s: article number %d must be positive", KeySubparagraphArticles, n)
		}
	}
	return c.ValidateLogging()
}

// ValidateLogging checks the logging keys alone, for commands that need no
// input directory.
func (c Config) ValidateLogging() error {
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("%s must be json or text, got %q", KeyLogFormat, c.LogFormat)
	}
	return nil
}

// SlogLevel parses LogLevel.
func (c Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%s: %w", KeyLogLevel, err)
	}
	return lvl, nil
}

// intList accepts "5,6,7" from flags and env as well as a YAML list.
func intList(raw any) ([]int, error) {
	switch val := raw.(type) {
	case nil:
		return nil, nil
	case []int:
		return val, nil
	case []any:
		out := make([]int, 0, len(val))
		for _, item := range val {
			n, err := strconv.Atoi(strings.TrimSpace(fmt.Sprint(item)))
			if err != nil {
				return nil, err
			}
			out = append(out, n)
		}
		return out, nil
	case []string:
		return intList(strings.Join(val, ","))
	case string:
		var out []int
		for _, part := range strings.FieldsFunc(val, func(r rune) bool { return r == ',' || r == ' ' || r == '[' || r == ']' }) {
			n, err := strconv.Atoi(part)
			if err != nil {
				return nil, err
			}
			out = append(out, n)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported value %v", raw)
	}
}

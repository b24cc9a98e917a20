package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "CUBISM"

type options struct {
	MocPath   string
	Library   string
	Format    string
	LogLevel  string
	LogFormat string
	Overrides []override
	Updates   int
}

// override is one --set id=value pair.
type override struct {
	ID    string
	Value float32
}

var errUsage = errors.New("usage: cubism-inspect [flags] model.moc3")

func newFlagSet(out io.Writer) *pflag.FlagSet {
	flags := pflag.NewFlagSet("cubism-inspect", pflag.ContinueOnError)
	flags.SetOutput(out)
	flags.String("library", "", "path to the Cubism core shared library")
	flags.String("format", "text", "output format: text or json")
	flags.String("log-level", "warn", "log level: debug, info, warn or error")
	flags.String("log-format", "text", "log format: text or json")
	flags.StringArray("set", nil, "parameter override id=value, repeatable")
	flags.Int("updates", 1, "number of model updates before reporting")
	flags.String("env-file", ".env", "dotenv file loaded before reading the environment")
	return flags
}

// loadOptions merges flags, CUBISM_* environment variables and an optional
// dotenv file, in that order of precedence.
func loadOptions(args []string, out io.Writer) (options, error) {
	flags := newFlagSet(out)
	if err := flags.Parse(args); err != nil {
		return options{}, err
	}

	envFile, _ := flags.GetString("env-file")
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return options{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return options{}, fmt.Errorf("bind flags: %w", err)
	}

	if flags.NArg() != 1 {
		return options{}, errUsage
	}

	opts := options{
		MocPath:   flags.Arg(0),
		Library:   v.GetString("library"),
		Format:    strings.ToLower(v.GetString("format")),
		LogLevel:  v.GetString("log-level"),
		LogFormat: strings.ToLower(v.GetString("log-format")),
		Updates:   v.GetInt("updates"),
	}

	sets, _ := flags.GetStringArray("set")
	for _, s := range sets {
		o, err := parseOverride(s)
		if err != nil {
			return options{}, err
		}
		opts.Overrides = append(opts.Overrides, o)
	}

	return opts, opts.validate()
}

func (o options) validate() error {
	switch o.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: --format must be text or json, got %q", errUsage, o.Format)
	}
	switch o.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: --log-format must be text or json, got %q", errUsage, o.LogFormat)
	}
	if _, err := parseLevel(o.LogLevel); err != nil {
		return err
	}
	if o.Updates < 0 {
		return fmt.Errorf("%w: --updates must not be negative", errUsage)
	}
	return nil
}

func parseOverride(s string) (override, error) {
	id, raw, ok := strings.Cut(s, "=")
	id = strings.TrimSpace(id)
	if !ok || id == "" {
		return override{}, fmt.Errorf("%w: --set wants id=value, got %q", errUsage, s)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 32)
	if err != nil {
		return override{}, fmt.Errorf("%w: --set %s: %v", errUsage, id, err)
	}
	return override{ID: id, Value: float32(v)}, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("%w: --log-level: %v", errUsage, err)
	}
	return level, nil
}

func newLogger(o options, out io.Writer) *slog.Logger {
	level, _ := parseLevel(o.LogLevel)
	handlerOpts := &slog.HandlerOptions{Level: level}
	if o.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(out, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(out, handlerOpts))
}

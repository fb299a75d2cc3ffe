package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix scopes environment overrides, e.g. SLGEN_RENDER_SAMPLES=64.
const EnvPrefix = "SLGEN"

// Source describes where Load reads settings from. Layers are applied in
// order: defaults, File, environment, Flags.
type Source struct {
	File string
	// Required makes a missing File an error instead of falling back to defaults.
	Required bool
	// Flags maps dotted config keys ("render.samples") to CLI flags. Only
	// flags changed on the command line take effect.
	Flags map[string]*pflag.Flag
}

func Load(src Source) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := setDefaults(v); err != nil {
		return nil, err
	}

	if src.File != "" {
		v.SetConfigFile(src.File)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil && (src.Required || !isNotFound(err)) {
			return nil, fmt.Errorf("read config %s: %w", src.File, err)
		}
	}

	for key, flag := range src.Flags {
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", flag.Name, err)
		}
	}

	var cfg Config
	err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		anglesHook(),
		listHook(),
	)))
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

func isNotFound(err error) bool {
	var nf viper.ConfigFileNotFoundError
	return errors.Is(err, fs.ErrNotExist) || errors.As(err, &nf)
}

// setDefaults registers every leaf of Default() so that AutomaticEnv can
// resolve it.
func setDefaults(v *viper.Viper) error {
	def := Default()
	data, err := json.Marshal(&def)
	if err != nil {
		return err
	}
	var sections map[string]map[string]any
	if err := json.Unmarshal(data, &sections); err != nil {
		return err
	}
	for section, fields := range sections {
		for key, val := range fields {
			v.SetDefault(section+"."+key, val)
		}
	}
	return nil
}

package hll

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/lytics/hll/v2/hasher"
)

// Config describes an estimator in YAML, for callers that keep sketch settings alongside the rest
// of their service configuration:
//
//	precision: 14
//	pending_limit: 512
//	hash: murmur3
//	seed: 42
type Config struct {
	Precision    uint8  `yaml:"precision"`
	PendingLimit int    `yaml:"pending_limit"`
	Hash         string `yaml:"hash"`
	Seed         uint32 `yaml:"seed"`
}

// DefaultConfig is p=14 with xxhash, about 0.81% standard error in 16KiB once dense.
func DefaultConfig() Config {
	return Config{
		Precision: 14,
		Hash:      hasher.NameXXHash,
	}
}

// ParseConfig reads YAML on top of DefaultConfig and validates the result.
func ParseConfig(buf []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "parsing hll config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func LoadConfig(path string) (Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "reading hll config %s", path)
	}
	cfg, err := ParseConfig(buf)
	if err != nil {
		return Config{}, errors.Wrapf(err, "loading %s", path)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := checkPrecision(c.Precision); err != nil {
		return err
	}
	if c.PendingLimit < 0 {
		return errors.Errorf("hll: pending_limit must not be negative, got %d", c.PendingLimit)
	}
	_, err := hasher.ByName(c.Hash, c.Seed)
	return err
}

// Options converts the hasher and buffering settings into constructor options.
func (c Config) Options() ([]Option, error) {
	hs, err := hasher.ByName(c.Hash, c.Seed)
	if err != nil {
		return nil, err
	}
	return []Option{WithHasher(hs), WithPendingLimit(c.PendingLimit)}, nil
}

// NewFromConfig builds an empty estimator from c. opts are applied after the config's own options.
func NewFromConfig(c Config, opts ...Option) (*Hll, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	cfgOpts, err := c.Options()
	if err != nil {
		return nil, err
	}
	return New(c.Precision, append(cfgOpts, opts...)...)
}

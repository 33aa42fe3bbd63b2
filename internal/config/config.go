package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"sbp2geo/internal/sbp"
)

const (
	ModePull   = "pull"
	ModeStream = "stream"
)

// MaxChunkSize is the largest accepted input.chunk_size and ?chunk= value.
// It must match the lte bound on InputConfig.ChunkSize.
const MaxChunkSize = sbp.MaxChunkSize

type Config struct {
	Input  InputConfig  `yaml:"input"`
	Output OutputConfig `yaml:"output"`
	Server ServerConfig `yaml:"server"`
}

type InputConfig struct {
	// Mode selects how the input file is read: "pull" reads one record at a
	// time, "stream" pushes chunk_size deliveries through the reassembler.
	Mode      string `yaml:"mode" validate:"oneof=pull stream"`
	ChunkSize int    `yaml:"chunk_size" validate:"gt=0,lte=67108864"`
}

type OutputConfig struct {
	Path   string  `yaml:"path"`
	Indent *string `yaml:"indent"`
}

type ServerConfig struct {
	Listen       string `yaml:"listen" validate:"required,hostname_port"`
	MaxBodyBytes int64  `yaml:"max_body_bytes" validate:"gt=0"`
	LogLines     int    `yaml:"log_lines" validate:"gt=0"`
}

// IndentString returns the JSON indent, two spaces unless configured.
func (o OutputConfig) IndentString() string {
	if o.Indent == nil {
		return "  "
	}
	return *o.Indent
}

// Default returns the configuration used when no file is given.
func Default() Config {
	var cfg Config
	applyDefaults(&cfg)
	return cfg
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}
	applyDefaults(&cfg)

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cfg against its struct tags and reports the first failing
// field by its yaml path.
func Validate(cfg Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		if fe.Param() == "" {
			return fmt.Errorf("%s is invalid (%s)", field, fe.Tag())
		}
		return fmt.Errorf("%s is invalid (%s=%s)", field, fe.Tag(), fe.Param())
	}
	return err
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func applyDefaults(cfg *Config) {
	if cfg.Input.Mode == "" {
		cfg.Input.Mode = ModePull
	}
	if cfg.Input.ChunkSize == 0 {
		cfg.Input.ChunkSize = sbp.DefaultChunkSize
	}
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8080"
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = 64 << 20
	}
	if cfg.Server.LogLines == 0 {
		cfg.Server.LogLines = 2000
	}
}

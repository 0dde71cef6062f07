package predictor

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// SchemeType selects the prediction scheme an Engine runs.
type SchemeType string

// Supported schemes. SchemeCustom is the perceptron predictor.
const (
	SchemeStatic     SchemeType = "static"
	SchemeGShare     SchemeType = "gshare"
	SchemeTournament SchemeType = "tournament"
	SchemeCustom     SchemeType = "custom"
)

// Schemes lists every supported scheme in display order.
var Schemes = []SchemeType{SchemeStatic, SchemeGShare, SchemeTournament, SchemeCustom}

// Limits enforced by Validate.
const (
	MaxHistoryBits           = 30
	MaxPerceptronHistory     = 64
	MaxPerceptronEntries     = 1 << 24
	MaxPerceptronWeightClamp = 1 << 20
)

// Config holds the sizing and tuning knobs of every scheme. Only the fields
// used by Scheme are validated.
type Config struct {
	// Scheme selects the active predictor. Default: static.
	Scheme SchemeType `json:"scheme"`

	// GlobalHistoryBits is the global history width and the size exponent of
	// the gshare and tournament global tables. Default: 14.
	GlobalHistoryBits uint `json:"global_history_bits"`

	// LocalHistoryBits is the width of each per-PC local history register and
	// the size exponent of the local counter table. Default: 10.
	LocalHistoryBits uint `json:"local_history_bits"`

	// PCIndexBits is the number of low PC bits selecting a local history slot.
	// Default: 10.
	PCIndexBits uint `json:"pc_index_bits"`

	// TournamentGlobalXORPC indexes the tournament global table and chooser by
	// (history XOR pc) instead of the raw history. Default: false.
	TournamentGlobalXORPC bool `json:"tournament_global_xor_pc"`

	// PerceptronEntries is the number of perceptron rows. Default: 512.
	PerceptronEntries uint32 `json:"perceptron_entries"`

	// PerceptronHistoryLength is the number of global outcome bits each
	// perceptron weighs. Default: 24.
	PerceptronHistoryLength uint `json:"perceptron_history_length"`

	// PerceptronTrainThreshold is the output magnitude at or below which a
	// correct prediction still trains. Default: floor(1.93*24 + 14) = 60.
	PerceptronTrainThreshold int32 `json:"perceptron_train_threshold"`

	// PerceptronWeightClamp bounds every weight to [-W, W-1]. Default: 128.
	PerceptronWeightClamp int32 `json:"perceptron_weight_clamp"`

	// PerceptronHash selects how a PC maps to a perceptron row.
	// Default: modulo.
	PerceptronHash HashStrategy `json:"perceptron_hash"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Scheme:                   SchemeStatic,
		GlobalHistoryBits:        14,
		LocalHistoryBits:         10,
		PCIndexBits:              10,
		PerceptronEntries:        512,
		PerceptronHistoryLength:  24,
		PerceptronTrainThreshold: PerceptronThreshold(24),
		PerceptronWeightClamp:    128,
		PerceptronHash:           HashModulo,
	}
}

// PerceptronThreshold returns the customary training threshold
// floor(1.93*historyLength + 14).
func PerceptronThreshold(historyLength uint) int32 {
	return int32(math.Floor(1.93*float64(historyLength) + 14))
}

// ConfigurationError reports a configuration the engine cannot run.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid predictor configuration: %s %s", e.Field, e.Reason)
}

func configErr(field, format string, args ...any) error {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// LoadConfig loads a Config from a JSON file. Fields missing from the file
// keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read predictor config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse predictor config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a Config to a JSON file.
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize predictor config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write predictor config file: %w", err)
	}

	return nil
}

// Validate checks the fields used by the selected scheme. It returns a
// *ConfigurationError on failure.
func (c *Config) Validate() error {
	switch c.Scheme {
	case SchemeStatic:
		return nil
	case SchemeGShare:
		return validateWidth("global_history_bits", c.GlobalHistoryBits)
	case SchemeTournament:
		if err := validateWidth("global_history_bits", c.GlobalHistoryBits); err != nil {
			return err
		}
		if err := validateWidth("local_history_bits", c.LocalHistoryBits); err != nil {
			return err
		}
		return validateWidth("pc_index_bits", c.PCIndexBits)
	case SchemeCustom:
		return c.validatePerceptron()
	default:
		return configErr("scheme", "%q is not one of %v", string(c.Scheme), Schemes)
	}
}

func validateWidth(field string, bits uint) error {
	if bits == 0 || bits > MaxHistoryBits {
		return configErr(field, "must be in [1, %d], got %d", MaxHistoryBits, bits)
	}
	return nil
}

func (c *Config) validatePerceptron() error {
	if c.PerceptronEntries == 0 || c.PerceptronEntries > MaxPerceptronEntries {
		return configErr("perceptron_entries", "must be in [1, %d], got %d",
			MaxPerceptronEntries, c.PerceptronEntries)
	}
	if c.PerceptronHistoryLength == 0 || c.PerceptronHistoryLength > MaxPerceptronHistory {
		return configErr("perceptron_history_length", "must be in [1, %d], got %d",
			MaxPerceptronHistory, c.PerceptronHistoryLength)
	}
	if c.PerceptronTrainThreshold < 0 {
		return configErr("perceptron_train_threshold", "must be >= 0, got %d",
			c.PerceptronTrainThreshold)
	}
	if c.PerceptronWeightClamp < 1 || c.PerceptronWeightClamp > MaxPerceptronWeightClamp {
		return configErr("perceptron_weight_clamp", "must be in [1, %d], got %d",
			MaxPerceptronWeightClamp, c.PerceptronWeightClamp)
	}
	if !c.PerceptronHash.valid() {
		return configErr("perceptron_hash", "%q is not one of %v",
			string(c.PerceptronHash), HashStrategies)
	}
	return nil
}

// Clone returns a copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String renders the config in the same notation ParseSpec accepts.
func (c *Config) String() string {
	switch c.Scheme {
	case SchemeGShare:
		return fmt.Sprintf("gshare:%d", c.GlobalHistoryBits)
	case SchemeTournament:
		s := fmt.Sprintf("tournament:%d:%d:%d",
			c.GlobalHistoryBits, c.LocalHistoryBits, c.PCIndexBits)
		if c.TournamentGlobalXORPC {
			s += ":xor"
		}
		return s
	case SchemeCustom:
		return fmt.Sprintf("custom:%d:%d", c.PerceptronEntries, c.PerceptronHistoryLength)
	default:
		return string(c.Scheme)
	}
}

// ParseSpec applies a scheme selector to a copy of base and validates the
// result. Accepted forms:
//
//	static
//	gshare[:<ghistory bits>]
//	tournament[:<ghistory bits>:<lhistory bits>:<pc index bits>[:xor]]
//	custom[:<entries>[:<history length>]]
//
// When the custom history length changes, the training threshold is
// recomputed with PerceptronThreshold.
func ParseSpec(spec string, base *Config) (*Config, error) {
	config := base.Clone()
	parts := strings.Split(strings.TrimPrefix(strings.TrimSpace(spec), "--"), ":")
	args := parts[1:]

	config.Scheme = SchemeType(strings.ToLower(parts[0]))
	switch config.Scheme {
	case SchemeStatic:
		if len(args) != 0 {
			return nil, fmt.Errorf("static takes no arguments: %q", spec)
		}
	case SchemeGShare:
		if len(args) > 1 {
			return nil, fmt.Errorf("usage gshare:<ghistory bits>: %q", spec)
		}
		if err := parseUints(args, &config.GlobalHistoryBits); err != nil {
			return nil, fmt.Errorf("bad gshare spec %q: %w", spec, err)
		}
	case SchemeTournament:
		if len(args) == 4 && args[3] == "xor" {
			config.TournamentGlobalXORPC = true
			args = args[:3]
		}
		if len(args) != 0 && len(args) != 3 {
			return nil, fmt.Errorf(
				"usage tournament:<ghistory bits>:<lhistory bits>:<pc index bits>: %q", spec)
		}
		err := parseUints(args,
			&config.GlobalHistoryBits, &config.LocalHistoryBits, &config.PCIndexBits)
		if err != nil {
			return nil, fmt.Errorf("bad tournament spec %q: %w", spec, err)
		}
	case SchemeCustom, "perceptron":
		config.Scheme = SchemeCustom
		if len(args) > 2 {
			return nil, fmt.Errorf("usage custom:<entries>:<history length>: %q", spec)
		}
		var entries, history uint
		if err := parseUints(args, &entries, &history); err != nil {
			return nil, fmt.Errorf("bad custom spec %q: %w", spec, err)
		}
		if len(args) > 0 {
			config.PerceptronEntries = uint32(entries)
		}
		if len(args) > 1 {
			config.PerceptronHistoryLength = history
			config.PerceptronTrainThreshold = PerceptronThreshold(history)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// parseUints parses args positionally into dst. Missing args leave dst alone.
func parseUints(args []string, dst ...*uint) error {
	for i, arg := range args {
		v, err := strconv.ParseUint(arg, 10, 32)
		if err != nil {
			return err
		}
		*dst[i] = uint(v)
	}
	return nil
}

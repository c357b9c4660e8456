package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Adversary is the behaviour of the corrupt replicas during the benchmark.
type Adversary string

const (
	AdversaryHonest  Adversary = "honest"
	AdversaryPassive Adversary = "passive"
)

// ErrInvalidFaultModel is returned when the fault thresholds cannot be
// tolerated by the number of replicas.
var ErrInvalidFaultModel = errors.New("invalid fault model: must satisfy N > 3F + 2P and P <= F")

// Benchmark holds the parameters the benchmark was run with. They determine
// which artifacts are expected and whether fast-path sequences are segmented.
type Benchmark struct {
	// Replicas is the total number of replicas N.
	Replicas uint `mapstructure:"replicas" validate:"min=1"`
	// Faulty is the number of corrupt replicas F.
	Faulty uint `mapstructure:"faulty"`
	// Disagreeing is the number of replicas P that can disagree during fast-path finalization.
	Disagreeing uint `mapstructure:"disagreeing"`
	// Duration is how long the subnet was run.
	Duration time.Duration `mapstructure:"duration" validate:"min=20s"`
	// ArtifactDelay is the delay of block proposals and notarization shares.
	ArtifactDelay time.Duration `mapstructure:"artifact-delay" validate:"min=100ms"`
	// FastConsensus is true when the replicas ran with the fast path (FICC)
	// and false for the original protocol (ICC).
	FastConsensus bool      `mapstructure:"fast-consensus"`
	Adversary     Adversary `mapstructure:"adversary" validate:"oneof=honest passive"`
}

// Default returns the parameters of a three replica honest run with the fast path.
func Default() Benchmark {
	return Benchmark{
		Replicas:      3,
		Faulty:        0,
		Disagreeing:   0,
		Duration:      60 * time.Second,
		ArtifactDelay: 500 * time.Millisecond,
		FastConsensus: true,
		Adversary:     AdversaryHonest,
	}
}

var validate = validator.New()

// Validate checks the parameters for consistency.
//
// Expected errors:
//   - ErrInvalidFaultModel if N <= 3F + 2P or P > F
//   - validator.ValidationErrors if a parameter is out of range
func (b Benchmark) Validate() error {
	if b.Replicas <= 3*b.Faulty+2*b.Disagreeing || b.Disagreeing > b.Faulty {
		return fmt.Errorf("%w (N=%d, F=%d, P=%d)", ErrInvalidFaultModel, b.Replicas, b.Faulty, b.Disagreeing)
	}
	if err := validate.Struct(b); err != nil {
		return fmt.Errorf("invalid benchmark configuration: %w", err)
	}
	return nil
}

// Protocol returns the name of the benchmarked protocol variant.
func (b Benchmark) Protocol() string {
	if b.FastConsensus {
		return "Fast IC Consensus"
	}
	return "original IC Consensus"
}

// Describe summarizes the benchmarked setup in one line.
func (b Benchmark) Describe() string {
	return fmt.Sprintf("%s with %s adversary (N=%d, F=%d, P=%d, T=%s, D=%s)",
		b.Protocol(), b.Adversary, b.Replicas, b.Faulty, b.Disagreeing, b.Duration, b.ArtifactDelay)
}

// SetDefaults registers the default parameters in the viper store.
func SetDefaults(v *viper.Viper, defaults Benchmark) {
	v.SetDefault(replicas, defaults.Replicas)
	v.SetDefault(faulty, defaults.Faulty)
	v.SetDefault(disagreeing, defaults.Disagreeing)
	v.SetDefault(duration, defaults.Duration)
	v.SetDefault(artifactDelay, defaults.ArtifactDelay)
	v.SetDefault(fastConsensus, defaults.FastConsensus)
	v.SetDefault(adversary, string(defaults.Adversary))
}

// Load reads the benchmark parameters from the viper store, which merges
// flags, environment and config file, and validates them.
func Load(v *viper.Viper) (Benchmark, error) {
	var b Benchmark
	if err := v.Unmarshal(&b); err != nil {
		return Benchmark{}, fmt.Errorf("could not decode benchmark configuration: %w", err)
	}
	if err := b.Validate(); err != nil {
		return Benchmark{}, err
	}
	return b, nil
}

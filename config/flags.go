package config

import (
	"github.com/spf13/pflag"
)

const (
	// All constant strings are used for CLI flag names and corresponding keys for config values.
	replicas      = "replicas"
	faulty        = "faulty"
	disagreeing   = "disagreeing"
	duration      = "duration"
	artifactDelay = "artifact-delay"
	fastConsensus = "fast-consensus"
	adversary     = "adversary"
)

func AllFlagNames() []string {
	return []string{replicas, faulty, disagreeing, duration, artifactDelay, fastConsensus, adversary}
}

// InitializeBenchmarkFlags registers a flag for every benchmark parameter,
// using config for the default values.
func InitializeBenchmarkFlags(flags *pflag.FlagSet, config Benchmark) {
	flags.Uint(replicas, config.Replicas, "total number of replicas (N)")
	flags.Uint(faulty, config.Faulty, "number of corrupt replicas (F)")
	flags.Uint(disagreeing, config.Disagreeing, "number of replicas that can disagree during fast-path finalization (P)")
	flags.Duration(duration, config.Duration, "how long the subnet was run (T)")
	flags.Duration(artifactDelay, config.ArtifactDelay, "delay of block proposals and notarization shares (D)")
	flags.Bool(fastConsensus, config.FastConsensus, "whether the replicas ran Fast IC Consensus (FICC) rather than IC Consensus (ICC)")
	flags.String(adversary, string(config.Adversary), "behaviour of the corrupt replicas: honest or passive")
}

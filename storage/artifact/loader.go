package artifact

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/massimoalbarello/consensus-on-demand/model/bench"
	"github.com/massimoalbarello/consensus-on-demand/storage"
)

// FileLoader loads the artifacts of replicas from files.
type FileLoader struct {
	log   zerolog.Logger
	paths map[bench.ReplicaID]string
	keys  Keys
}

// NewFileLoader creates a loader reading the artifact of each replica from
// the given path.
func NewFileLoader(log zerolog.Logger, paths map[bench.ReplicaID]string, keys Keys) *FileLoader {
	return &FileLoader{
		log:   log.With().Str("component", "artifact_loader").Logger(),
		paths: paths,
		keys:  keys,
	}
}

// Load reads and decodes the artifact of a replica. Skipped records are
// logged and returned in Artifact.Skipped.
//
// Expected errors:
//   - bench.MissingDataError if the replica has no artifact, or the artifact has no finalization entry
//   - an error if the artifact cannot be read or decoded
func (l *FileLoader) Load(ctx context.Context, replica bench.ReplicaID) (*bench.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, ok := l.paths[replica]
	if !ok {
		return nil, bench.NewMissingDataErrorf(replica, "no artifact")
	}

	r, err := Open(path)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, bench.NewMissingDataError(replica, err)
	}
	if err != nil {
		return nil, err
	}
	defer r.Close()

	a, err := Decode(replica, r, l.keys)
	if err != nil {
		return nil, fmt.Errorf("could not load artifact %s: %w", path, err)
	}

	for _, skipped := range a.Skipped {
		l.log.Warn().
			Uint("replica", uint(replica)).
			Err(skipped).
			Msg("skipping malformed record")
	}
	l.log.Debug().
		Uint("replica", uint(replica)).
		Str("path", path).
		Int("records", len(a.Records)).
		Int("proposals", len(a.Proposals)).
		Int("skipped", len(a.Skipped)).
		Msg("artifact loaded")

	return a, nil
}

// internal/snapshot/snapshot.go - Sync snapshot record
package snapshot

import (
	"time"

	"github.com/google/uuid"
)

// ProvenBlock is the height the node asserted as proven, stamped with when it
// was fetched. Never mutated after creation.
type ProvenBlock struct {
	Height    uint64    `yaml:"height"`
	FetchedAt time.Time `yaml:"fetched_at"`
}

// Record aggregates everything one run captures. It is only ever written
// complete: a run that fails before the proof fetch writes nothing.
type Record struct {
	RunID       string      `yaml:"run_id"`
	Endpoint    string      `yaml:"endpoint"`
	StartedAt   time.Time   `yaml:"started_at"`
	CompletedAt time.Time   `yaml:"completed_at"`
	ProvenBlock ProvenBlock `yaml:"proven_block"`
	SyncProof   string      `yaml:"sync_proof"`
}

func NewRecord(endpoint string, startedAt time.Time) Record {
	return Record{
		RunID:     uuid.NewString(),
		Endpoint:  endpoint,
		StartedAt: startedAt,
	}
}

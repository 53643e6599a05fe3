package domain

import "time"

// Snapshot is a persisted Blueprint for a user at a point in time.
// Corresponds to blueprint_snapshots table in PostgreSQL.
type Snapshot struct {
	ID            string     `json:"id"`          // uuid
	UserID        string     `json:"user_id"`     // owning user
	Fingerprint   string     `json:"fingerprint"` // idhash.InputFingerprint of Input
	Input         BirthInput `json:"input"`       // input the Blueprint was computed from
	Blueprint     *Blueprint `json:"blueprint"`
	ComputedAt    time.Time  `json:"computed_at"` // UTC
	EngineVersion string     `json:"engine_version"`
}

// Clone returns a deep copy.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	c := *s
	c.Blueprint = s.Blueprint.Clone()
	return &c
}

// LayerScoreRecord is one layer score of a snapshot.
// Corresponds to layer_scores table in ClickHouse.
type LayerScoreRecord struct {
	SnapshotID string    `json:"snapshot_id"`
	UserID     string    `json:"user_id"`
	LayerID    int       `json:"layer_id"`
	LayerName  string    `json:"layer_name"`
	Score      float64   `json:"score"`
	ComputedAt time.Time `json:"computed_at"`
}

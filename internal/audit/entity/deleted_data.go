package entity

// DeletedData is an append-only tombstone marking that a lamp was deleted and
// by whom. Tombstones are written immediately before the lamp record is
// removed and are never updated or deleted.
type DeletedData struct {
	ID            string `json:"_id,omitempty"`
	DeletedLampID string `json:"deleted_lamp_id"`
	DeletedBy     string `json:"deleted_by"`
}

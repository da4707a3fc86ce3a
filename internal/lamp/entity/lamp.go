package entity

// Lamp is a device document in the lamps collection. Led is the unique
// caller-supplied device number; ID is the store-generated internal
// identifier. Timestamps are RFC 3339 strings.
type Lamp struct {
	ID          string `json:"_id,omitempty"`
	Led         int64  `json:"led"`
	Status      string `json:"status"`
	Intensity   int    `json:"intensity"`
	Colour      string `json:"colour"`
	QRID        string `json:"qr_id"`
	QRImagePath string `json:"qr_image_path"`
	CreatedBy   string `json:"created_by"`
	UpdatedBy   string `json:"updated_by"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

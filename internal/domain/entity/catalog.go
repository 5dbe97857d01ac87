package entity

// Device is a phone from the catalog. Read-only reference data; the
// conversational core never mutates it.
type Device struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Brand    string   `json:"brand"`
	Color    string   `json:"color,omitempty"`
	Storage  string   `json:"storage,omitempty"`
	Price    float64  `json:"price"`
	Image    string   `json:"image,omitempty"`
	Features []string `json:"features"`
}

// Plan is a mobile tariff from the catalog.
type Plan struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Price    float64  `json:"price"`
	Data     string   `json:"data,omitempty"`
	Features []string `json:"features"`
}

// Bundle is a device+plan combination with its combined price.
type Bundle struct {
	Device      string  `json:"device"`
	Plan        string  `json:"plan"`
	Price       float64 `json:"price"`
	DeviceImage string  `json:"device_image,omitempty"`
}

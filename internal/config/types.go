package config

// LabelConfig holds the pass-through styling for synthesized label
// backgrounds. None of these affect box geometry except FontSize, which is
// the measurement fallback for labels that do not declare their own.
type LabelConfig struct {
	Fill        string  `yaml:"fill" koanf:"fill"`
	Stroke      string  `yaml:"stroke" koanf:"stroke"`
	StrokeWidth float64 `yaml:"stroke_width" koanf:"stroke_width"`
	FontSize    float64 `yaml:"font_size" koanf:"font_size"`
	FontFile    string  `yaml:"font_file" koanf:"font_file"`
}

// OverlayConfig holds overlay-layer settings.
type OverlayConfig struct {
	// HolderID names the document element that mirrors the active-id
	// register as its text content.
	HolderID string `yaml:"holder_id" koanf:"holder_id"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port     int  `yaml:"port" koanf:"port"`
	AllowAll bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// ImportConfig holds bulk-import glob settings.
type ImportConfig struct {
	Include []string `yaml:"include" koanf:"include"`
	Exclude []string `yaml:"exclude" koanf:"exclude"`
}

// Config is the top-level exonview configuration, corresponding to
// .exonview.yml.
type Config struct {
	DataDir string        `yaml:"data_dir" koanf:"data_dir"`
	Server  ServerConfig  `yaml:"server" koanf:"server"`
	Label   LabelConfig   `yaml:"label" koanf:"label"`
	Overlay OverlayConfig `yaml:"overlay" koanf:"overlay"`
	Import  ImportConfig  `yaml:"import" koanf:"import"`
}

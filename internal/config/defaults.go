package config

// DefaultExcludes are glob patterns skipped during bulk import by default.
var DefaultExcludes = []string{
	".git/**",
	"vendor/**",
	"node_modules/**",
	"*.min.svg",
}

// DefaultHolderID is the conventional id of the register holder element in
// generator output.
const DefaultHolderID = "activeOverlay"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		DataDir: ".exonview",
		Server: ServerConfig{
			Port: 8311,
		},
		Label: LabelConfig{
			Fill:        "white",
			Stroke:      "black",
			StrokeWidth: 1,
			FontSize:    12,
		},
		Overlay: OverlayConfig{
			HolderID: DefaultHolderID,
		},
		Import: ImportConfig{
			Include: []string{"**/*.svg"},
			Exclude: DefaultExcludes,
		},
	}
}

package types

// ApplicationDescriptor describes one launchable application
type ApplicationDescriptor struct {
	ID            string `json:"id" yaml:"id" toml:"id"`
	Title         string `json:"title" yaml:"title" toml:"title"`
	Icon          string `json:"icon" yaml:"icon" toml:"icon"`
	DefaultWidth  int    `json:"default_width" yaml:"default_width" toml:"default_width"`
	DefaultHeight int    `json:"default_height" yaml:"default_height" toml:"default_height"`
	Singleton     bool   `json:"singleton" yaml:"singleton" toml:"singleton"`
	Content       string `json:"content" yaml:"content" toml:"content"` // Content provider key
}

// ApplicationInfo is the public view of a registry entry
type ApplicationInfo struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Icon          string   `json:"icon"`
	DefaultWidth  int      `json:"default_width"`
	DefaultHeight int      `json:"default_height"`
	Singleton     bool     `json:"singleton"`
	Component     string   `json:"component"`
	Services      []string `json:"services"`
}

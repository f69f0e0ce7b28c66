package config

// Homogenization selects how raw metadata records are tailored for the
// catalog.
type Homogenization string

const (
	// HomogenizationCustom takes each record's "custom" extractor block
	// verbatim.
	HomogenizationCustom Homogenization = "custom"
)

// Config is the top-level dscat configuration, corresponding to .dscat.yml.
type Config struct {
	BaseURL        string         `yaml:"base_url" koanf:"base_url"`
	DBDir          string         `yaml:"db_dir" koanf:"db_dir"`
	Destination    string         `yaml:"destination" koanf:"destination"`
	Homogenization Homogenization `yaml:"homogenization" koanf:"homogenization"`
	Exclude        []string       `yaml:"exclude" koanf:"exclude"`
	Pages          bool           `yaml:"pages" koanf:"pages"`
	CatalogTitle   string         `yaml:"catalog_title" koanf:"catalog_title"`
	Serve          ServeConfig    `yaml:"serve" koanf:"serve"`
}

// ServeConfig holds catalog server settings.
type ServeConfig struct {
	Port     int  `yaml:"port" koanf:"port"`
	AllowAll bool `yaml:"allow_all" koanf:"allow_all"`
	Watch    bool `yaml:"watch" koanf:"watch"`
}

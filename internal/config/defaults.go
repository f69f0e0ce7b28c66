package config

// DefaultExcludes are dataset path globs omitted from the catalog by
// default.
var DefaultExcludes = []string{
	".datalad/**",
	".git/**",
	"scratch/**",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		DBDir:          ".datalad/metadata",
		Destination:    "catalog",
		Homogenization: HomogenizationCustom,
		Exclude:        DefaultExcludes,
		CatalogTitle:   "Dataset catalog",
		Serve: ServeConfig{
			Port: 8080,
		},
	}
}

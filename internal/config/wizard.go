package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
)

// DefaultConfigFile is where the wizard writes its result.
const DefaultConfigFile = ".dscat.yml"

// detectDBDir checks the working directory for a DataLad-style
// aggregated metadata database.
func detectDBDir() string {
	candidates := []string{
		".datalad/metadata",
		"metadata",
	}
	for _, dir := range candidates {
		if fi, err := os.Stat(dir); err == nil && fi.IsDir() {
			return dir
		}
	}
	return ""
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .dscat.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to dscat! Let's configure your catalog.")
	fmt.Println()

	cfg := DefaultConfig()

	if dir := detectDBDir(); dir != "" {
		fmt.Printf("Detected metadata database: %s\n\n", dir)
		cfg.DBDir = dir
	}

	// 1. Metadata database location.
	dbPrompt := promptui.Prompt{
		Label:   "Aggregated metadata database directory",
		Default: cfg.DBDir,
	}
	dbDir, err := dbPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("db_dir prompt: %w", err)
	}
	cfg.DBDir = dbDir

	// 2. Catalog base URL (used for the sitemap).
	urlPrompt := promptui.Prompt{
		Label: "Public catalog URL (e.g. https://example.org/catalog/dataset.html)",
		Validate: func(input string) error {
			if input == "" {
				return nil
			}
			u, err := url.Parse(input)
			if err != nil || u.Scheme == "" || u.Host == "" {
				return fmt.Errorf("enter an absolute URL")
			}
			return nil
		},
	}
	baseURL, err := urlPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("base_url prompt: %w", err)
	}
	cfg.BaseURL = baseURL

	// 3. Destination directory.
	destPrompt := promptui.Prompt{
		Label:   "Catalog output directory",
		Default: cfg.Destination,
	}
	dest, err := destPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("destination prompt: %w", err)
	}
	cfg.Destination = dest

	// 4. Static pages.
	pagesPrompt := promptui.Select{
		Label: "Render static per-dataset pages",
		Items: []string{"no", "yes"},
	}
	_, pages, err := pagesPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("pages prompt: %w", err)
	}
	cfg.Pages = pages == "yes"

	// 5. Server port.
	portPrompt := promptui.Prompt{
		Label:   "Local server port",
		Default: strconv.Itoa(cfg.Serve.Port),
		Validate: func(input string) error {
			n, err := strconv.Atoi(input)
			if err != nil || n < 1 || n > 65535 {
				return fmt.Errorf("enter a port number between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port prompt: %w", err)
	}
	cfg.Serve.Port, _ = strconv.Atoi(portStr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(DefaultConfigFile); err != nil {
		return nil, err
	}

	fmt.Println()
	fmt.Printf("Configuration written to %s\n", DefaultConfigFile)
	return cfg, nil
}

package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/histsync/internal/cli/config"
	"github.com/leapstack-labs/histsync/internal/cli/output"
	"github.com/leapstack-labs/histsync/internal/ui/render"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a default histsync.yaml",
		Long: `Write a histsync.yaml holding every setting with its default value.

Edit it to choose which browsers are read, where the database lives, the
port of the web page, or how browsers are presented on it.`,
		Example: `  # Initialize in current directory
  histsync init

  # Force overwrite existing config
  histsync init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(NewCommandContextWithoutStore(cmd).Renderer, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

// fileConfig is the on-disk layout written by init. Durations are kept as
// strings so the file stays readable.
type fileConfig struct {
	StatePath string                       `yaml:"state_path"`
	Output    string                       `yaml:"output"`
	UI        config.UIConfig              `yaml:"ui"`
	Reader    fileReader                   `yaml:"reader"`
	Action    fileAction                   `yaml:"action"`
	Sources   map[string]render.SourceMeta `yaml:"sources"`
}

type fileReader struct {
	Browsers      []string `yaml:"browsers,flow"`
	Lookback      string   `yaml:"lookback"`
	ChromiumLimit int      `yaml:"chromium_limit"`
	FirefoxLimit  int      `yaml:"firefox_limit"`
}

type fileAction struct {
	MinInterval string `yaml:"min_interval"`
}

// DefaultConfigYAML renders the default configuration file.
func DefaultConfigYAML() ([]byte, error) {
	d := config.Default()
	fc := fileConfig{
		StatePath: d.StatePath,
		Output:    d.OutputFormat,
		UI:        d.UI,
		Reader: fileReader{
			Browsers:      d.Reader.Browsers,
			Lookback:      d.Reader.Lookback.String(),
			ChromiumLimit: d.Reader.ChromiumLimit,
			FirefoxLimit:  d.Reader.FirefoxLimit,
		},
		Action:  fileAction{MinInterval: d.Action.MinInterval.String()},
		Sources: d.Sources,
	}

	var doc yaml.Node
	if err := doc.Encode(fc); err != nil {
		return nil, err
	}
	doc.HeadComment = "histsync configuration.\nEvery key can also be set with a HISTSYNC_ environment variable,\ne.g. HISTSYNC_UI_PORT=8080 or HISTSYNC_READER_BROWSERS=chrome,firefox."

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func runInit(r *output.Renderer, dir string, force bool) error {
	// Create directory if specified and doesn't exist
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, config.ConfigFileName)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", config.ConfigFileName)
	}

	data, err := DefaultConfigYAML()
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}

	r.Success("Wrote " + configPath)
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Review the browsers under reader.browsers")
	r.Println("  2. Run 'histsync read' to harvest once")
	r.Println("  3. Run 'histsync serve' to open the page")

	return nil
}

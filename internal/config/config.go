package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Document struct {
		Rows         int     `yaml:"rows"`
		Cols         int     `yaml:"cols"`
		BaseFont     string  `yaml:"base_font"`
		TargetFont   string  `yaml:"target_font"`
		FontSize     float64 `yaml:"font_size"`
		TemplatePath string  `yaml:"template"`
		OutputFolder string  `yaml:"output_folder"`
		OutputPrefix string  `yaml:"output_prefix"`
	} `yaml:"document"`
	AI struct {
		Provider string `yaml:"provider"` // "openai" or "gemini"
		Model    string `yaml:"model"`
		APIKey   string `yaml:"api_key"`
		Prompt   string `yaml:"prompt"` // template with a {word} placeholder
	} `yaml:"ai"`
	Drive struct {
		Enabled         bool   `yaml:"enabled"`
		CredentialsPath string `yaml:"credentials"`
		TokenPath       string `yaml:"token"`
	} `yaml:"drive"`
	History struct {
		Path string `yaml:"path"`
	} `yaml:"history"`
}

// LoadConfig reads the YAML config at path, applying defaults first and
// environment overrides last. A missing file is fine: defaults plus env
// are enough for a minimal run.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := defaults()

	// 2. Load YAML config
	file, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	// 3. Override with Environment Variables if present
	if key := os.Getenv("FLASHDOC_API_KEY"); key != "" {
		cfg.AI.APIKey = key
	}
	if provider := os.Getenv("FLASHDOC_AI_PROVIDER"); provider != "" {
		cfg.AI.Provider = provider
	}
	if model := os.Getenv("FLASHDOC_AI_MODEL"); model != "" {
		cfg.AI.Model = model
	}

	return cfg, nil
}

func defaults() *Config {
	cfg := &Config{}
	cfg.Document.Rows = 4
	cfg.Document.Cols = 3
	cfg.Document.BaseFont = "Georgia"
	cfg.Document.TargetFont = "Comfortaa"
	cfg.Document.FontSize = 15
	cfg.Document.OutputFolder = "word-files"
	cfg.Document.OutputPrefix = "flashcards-"
	cfg.AI.Provider = "openai"
	cfg.AI.Model = "gpt-4"
	cfg.AI.Prompt = DefaultPrompt
	cfg.Drive.Enabled = true
	cfg.Drive.CredentialsPath = "secrets/credentials.json"
	cfg.Drive.TokenPath = "secrets/drive_token.json"
	cfg.History.Path = "flashdoc.db"
	return cfg
}

// DefaultPrompt asks for French/English sentence pairs formatted as a
// Python list of 4-tuples, the exact shape the extractor accepts.
const DefaultPrompt = "Generate 2 French sentences using the following word: {word}. " +
	"For each word, provide:\n" +
	"1. A French sentence containing the word.\n" +
	"2. The English translation of the sentence.\n" +
	"3. The word in the French sentence which corresponds to the given French word.\n" +
	"4. The word in the English sentence that corresponds to the given French word.\n" +
	"Format the output as a Python list of tuples. Each tuple should have the format:\n" +
	"(French sentence, English translation, corresponding French word, corresponding English word)."

// Validate checks everything the pipeline needs before any API call is
// made. Messages name the offending field or file so the user can fix
// the setup without reading a stack trace.
func (c *Config) Validate() error {
	if c.Document.Rows <= 0 || c.Document.Cols <= 0 {
		return fmt.Errorf("document.rows and document.cols must be positive (got %dx%d)",
			c.Document.Rows, c.Document.Cols)
	}
	if c.Document.FontSize <= 0 {
		return fmt.Errorf("document.font_size must be positive (got %v)", c.Document.FontSize)
	}
	switch c.AI.Provider {
	case "openai", "gemini":
	default:
		return fmt.Errorf("ai.provider must be \"openai\" or \"gemini\" (got %q)", c.AI.Provider)
	}
	if c.AI.APIKey == "" {
		return fmt.Errorf("AI API key not configured: set ai.api_key or the FLASHDOC_API_KEY environment variable")
	}
	if c.Document.TemplatePath != "" {
		if _, err := os.Stat(c.Document.TemplatePath); err != nil {
			return fmt.Errorf("template file not found at %s: %w", c.Document.TemplatePath, err)
		}
	}
	if c.Drive.Enabled {
		if _, err := os.Stat(c.Drive.CredentialsPath); err != nil {
			return fmt.Errorf("Drive credentials file not found at %s: "+
				"download an OAuth client secret from the Google Cloud console, "+
				"or disable uploads with drive.enabled: false", c.Drive.CredentialsPath)
		}
	}
	return nil
}

package drafting

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ModelParams holds per-operation drafting service parameters.
type ModelParams struct {
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int64   `yaml:"max_tokens"`
}

// ModelsConfig groups the model parameters for every drafting operation.
// Values can be overridden from a models.yml file; defaults match the
// production configuration.
type ModelsConfig struct {
	ArticleGeneration  ModelParams `yaml:"article_generation"`
	TopicKeyExtraction ModelParams `yaml:"topic_key_extraction"`
}

func DefaultModelsConfig() ModelsConfig {
	return ModelsConfig{
		ArticleGeneration: ModelParams{
			Model:       "claude-sonnet-4-5",
			Temperature: 0.4,
			MaxTokens:   8192,
		},
		TopicKeyExtraction: ModelParams{
			Model:       "claude-haiku-4-5",
			Temperature: 0.2,
			MaxTokens:   1024,
		},
	}
}

// LoadModelsConfig reads model parameters from a YAML file. A missing file
// yields the defaults; a present but invalid file is an error so a typo in
// the config never silently downgrades the drafting setup.
func LoadModelsConfig(path string) (ModelsConfig, error) {
	config := DefaultModelsConfig()

	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return config, fmt.Errorf("failed to read models config: %w", err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("failed to parse models config %s: %w", path, err)
	}

	if err := validateModelParams("article_generation", config.ArticleGeneration); err != nil {
		return config, err
	}
	if err := validateModelParams("topic_key_extraction", config.TopicKeyExtraction); err != nil {
		return config, err
	}

	return config, nil
}

func validateModelParams(name string, p ModelParams) error {
	if p.Model == "" {
		return fmt.Errorf("models config: %s.model must not be empty", name)
	}
	if p.MaxTokens <= 0 {
		return fmt.Errorf("models config: %s.max_tokens must be positive", name)
	}
	if p.Temperature < 0 || p.Temperature > 1 {
		return fmt.Errorf("models config: %s.temperature must be between 0 and 1", name)
	}
	return nil
}

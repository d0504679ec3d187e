package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/scholia-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/scholia-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/scholia-cli/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage application settings",
	Long: `View and configure the embedding provider, LLM provider and
retrieval options. Run without a subcommand to see current settings.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runConfigShow,
}

var configEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure embedding provider",
	Long:  `Configure the embedding provider used to vectorise papers and queries.`,
	RunE:  runConfigEmbedding,
}

var configLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long:  `Configure the LLM provider used for reformulation, answering and evaluation.`,
	RunE:  runConfigLLM,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a single configuration value",
	Long: `Set a configuration value by key, e.g.:

  scholia config set retrieval.top_k 8
  scholia config set llm.model gpt-4o`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEmbeddingCmd)
	configCmd.AddCommand(configLLMCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Embedding]")
	printProvider(cmd, settings.Embedding.Provider, settings.Embedding.Model,
		settings.Embedding.BaseURL, settings.Embedding.APIKey, settings.Embedding.IsConfigured())
	cmd.Println()

	cmd.Println("[LLM]")
	printProvider(cmd, settings.LLM.Provider, settings.LLM.Model,
		settings.LLM.BaseURL, settings.LLM.APIKey, settings.LLM.IsConfigured())
	cmd.Println()

	cmd.Println("[Retrieval]")
	cmd.Printf("  Top K: %d\n", settings.Retrieval.TopK)
	if settings.Retrieval.FetchK > 0 {
		cmd.Printf("  Fetch K: %d\n", settings.Retrieval.FetchK)
	}
	cmd.Println()

	if !settings.Embedding.IsConfigured() || !settings.LLM.IsConfigured() {
		cmd.Println("Run 'scholia config embedding' and 'scholia config llm' to finish setup.")
	} else {
		cmd.Println("Configuration is complete.")
	}
	return nil
}

func printProvider(cmd *cobra.Command, provider domain.AIProvider, model, baseURL, apiKey string, configured bool) {
	cmd.Printf("  Provider: %s\n", provider.Description())
	cmd.Printf("  Model: %s\n", model)
	if provider.IsLocal() && baseURL != "" {
		cmd.Printf("  Base URL: %s\n", baseURL)
	}
	if provider.RequiresAPIKey() {
		if apiKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(apiKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	status := "configured"
	if !configured {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
}

func runConfigEmbedding(cmd *cobra.Command, _ []string) error {
	reader := bufio.NewReader(os.Stdin)

	cmd.Println("Select Embedding Provider")
	providers := domain.AllEmbeddingProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	provider := providers[idx-1]

	defaultModel := domain.DefaultEmbeddingModels()[provider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if provider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword()
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	candidate := domain.EmbeddingSettings{
		Provider: provider,
		Model:    model,
		APIKey:   apiKey,
	}

	// Validate before persisting so a typo'd key never lands in config.
	cmd.Print("Validating configuration... ")
	svc, err := ai.CreateAndValidateEmbeddingService(candidate)
	if err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("embedding configuration validation failed: %w", err)
	}
	svc.Close()
	cmd.Println("OK")

	if err := saveEmbeddingSettings(candidate); err != nil {
		return fmt.Errorf("saving embedding settings: %w", err)
	}

	cmd.Printf("Embedding provider configured: %s (%s)\n", provider.Description(), model)
	return nil
}

func runConfigLLM(cmd *cobra.Command, _ []string) error {
	reader := bufio.NewReader(os.Stdin)

	cmd.Println("Select LLM Provider")
	providers := domain.AllLLMProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	provider := providers[idx-1]

	defaultModel := domain.DefaultLLMModels()[provider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if provider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword()
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	candidate := domain.LLMSettings{
		Provider: provider,
		Model:    model,
		APIKey:   apiKey,
	}

	cmd.Print("Validating configuration... ")
	svc, err := ai.CreateAndValidateLLMService(candidate)
	if err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("LLM configuration validation failed: %w", err)
	}
	svc.Close()
	cmd.Println("OK")

	if err := saveLLMSettings(candidate); err != nil {
		return fmt.Errorf("saving LLM settings: %w", err)
	}

	cmd.Printf("LLM provider configured: %s (%s)\n", provider.Description(), model)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, raw := args[0], args[1]

	// Integers stay integers so GetInt works on reload.
	var value any = raw
	if n, err := strconv.Atoi(raw); err == nil {
		value = int64(n)
	}

	if err := configStore.Set(key, value); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	cmd.Printf("Set %s\n", key)
	return nil
}

func saveEmbeddingSettings(s domain.EmbeddingSettings) error {
	if err := configStore.Set(file.KeyEmbeddingProvider, s.Provider.String()); err != nil {
		return err
	}
	if err := configStore.Set(file.KeyEmbeddingModel, s.Model); err != nil {
		return err
	}
	if s.BaseURL != "" {
		if err := configStore.Set(file.KeyEmbeddingBaseURL, s.BaseURL); err != nil {
			return err
		}
	}
	if s.APIKey != "" {
		if err := configStore.Set(file.KeyEmbeddingAPIKey, s.APIKey); err != nil {
			return err
		}
	}
	return nil
}

func saveLLMSettings(s domain.LLMSettings) error {
	if err := configStore.Set(file.KeyLLMProvider, s.Provider.String()); err != nil {
		return err
	}
	if err := configStore.Set(file.KeyLLMModel, s.Model); err != nil {
		return err
	}
	if s.BaseURL != "" {
		if err := configStore.Set(file.KeyLLMBaseURL, s.BaseURL); err != nil {
			return err
		}
	}
	if s.APIKey != "" {
		if err := configStore.Set(file.KeyLLMAPIKey, s.APIKey); err != nil {
			return err
		}
	}
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

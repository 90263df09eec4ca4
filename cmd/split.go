package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/opsplit/opsplit/utils/config"
	"github.com/opsplit/opsplit/utils/manual"
	"github.com/opsplit/opsplit/utils/models"
	"github.com/opsplit/opsplit/utils/splitter"
)

var (
	splitOutput   string
	splitFormat   string
	splitKBPath   string
	splitBatch    bool
	splitProvider string
	splitModel    string
)

var splitCmd = &cobra.Command{
	Use:   "split [input]",
	Short: "Split an operation sequence into sub-steps",
	Long: `Split a coarse-grained operation sequence into fine-grained sub-steps.
The input is either a literal sequence or the path of a file containing one;
with --batch the file is processed line by line.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			log.Fatalf("Error loading configuration: %v", err)
		}

		if splitProvider != "" {
			cfg.LLM.Provider = splitProvider
		}
		if splitModel != "" {
			cfg.LLM.Model = splitModel
		}
		if splitFormat != "" {
			cfg.Output.Format = splitFormat
		}

		kbPath := splitKBPath
		if kbPath == "" {
			kbPath = cfg.KnowledgeBase.Path
		}
		if kbPath == "" {
			log.Fatalf("No knowledge base path configured. Use --knowledge-base or set knowledge_base.path in the config file.")
		}

		index := buildIndex(kbPath)
		s := buildSplitter(cfg, index)

		sequences := readSequences(args[0], splitBatch)

		if !splitBatch {
			if err := runSingle(s, cfg, sequences[0], splitOutput); err != nil {
				log.Fatalf("Error splitting sequence: %v", err)
			}
			return
		}

		if splitOutput == "" {
			log.Fatalf("Batch mode requires an output directory (use --output)")
		}
		if err := runBatch(s, cfg, sequences, splitOutput); err != nil {
			log.Fatalf("%v", err)
		}
	},
}

// runBatch splits each sequence into its own numbered output file. One failed
// line does not stop the rest; the error reports the failure count at the end.
func runBatch(s *splitter.Splitter, cfg *config.Config, sequences []string, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("error creating output directory %s: %w", outputDir, err)
	}

	failures := 0
	for i, sequence := range sequences {
		outputPath := filepath.Join(outputDir, fmt.Sprintf("output_%03d.json", i+1))
		if err := runSingle(s, cfg, sequence, outputPath); err != nil {
			log.Printf("Error splitting line %d: %v", i+1, err)
			failures++
			continue
		}
		fmt.Printf("[%d/%d] Saved: %s\n", i+1, len(sequences), outputPath)
	}
	if failures > 0 {
		return fmt.Errorf("%d of %d sequence(s) failed", failures, len(sequences))
	}
	return nil
}

func init() {
	splitCmd.Flags().StringVarP(&splitOutput, "output", "o", "", "output file path, or directory in batch mode (default: stdout)")
	splitCmd.Flags().StringVarP(&splitFormat, "format", "f", "", "output format: text, json or chunk")
	splitCmd.Flags().StringVarP(&splitKBPath, "knowledge-base", "k", "", "knowledge base file or directory path (overrides config)")
	splitCmd.Flags().BoolVarP(&splitBatch, "batch", "b", false, "batch mode: process the input file line by line")
	splitCmd.Flags().StringVar(&splitProvider, "provider", "", "LLM provider name (overrides config)")
	splitCmd.Flags().StringVar(&splitModel, "model", "", "LLM model name (overrides config)")

	rootCmd.AddCommand(splitCmd)
}

// buildIndex loads the knowledge base and reports per-file load errors as
// warnings; only a total load failure aborts the run
func buildIndex(kbPath string) *manual.Index {
	result, err := manual.Load(kbPath)
	if err != nil {
		log.Fatalf("Error loading knowledge base: %v", err)
	}
	for _, loadErr := range result.Errors {
		log.Printf("Warning: %v", loadErr)
	}

	index := manual.NewIndex(result.Operations)
	config.DebugLog("[Split] Knowledge base loaded: %d operation(s)", index.Len())
	return index
}

// buildSplitter resolves and configures the provider, then wires the splitter
func buildSplitter(cfg *config.Config, index *manual.Index) *splitter.Splitter {
	var provider models.Provider
	if cfg.LLM.Provider != "" {
		provider = models.GetProviderByName(cfg.LLM.Provider)
		if provider == nil {
			log.Fatalf("Unknown provider %q (available: %s)", cfg.LLM.Provider, strings.Join(models.ListRegisteredProviders(), ", "))
		}
	} else {
		provider = models.DetectProvider(cfg.LLM.Model)
		if provider == nil {
			log.Fatalf("No provider found for model %q", cfg.LLM.Model)
		}
	}

	provider.SetVerbose(verbose)
	if err := provider.Configure(cfg.ResolveAPIKey()); err != nil {
		log.Fatalf("Error configuring provider %s: %v", provider.Name(), err)
	}
	applyModelConfig(provider, cfg)

	s := splitter.NewSplitter(index, provider, cfg.LLM.Model)
	s.SetVerbose(verbose)
	s.SetIncludeContext(cfg.IncludeContext())
	s.SetMaxMatches(cfg.Output.MaxMatches)
	return s
}

// applyModelConfig pushes the configured generation settings into providers
// that accept them; providers without tunable settings (ollama, mock) are
// left alone
func applyModelConfig(provider models.Provider, cfg *config.Config) {
	type configurable interface {
		GetConfig() models.ModelConfig
		SetConfig(models.ModelConfig)
	}
	c, ok := provider.(configurable)
	if !ok {
		return
	}

	mc := c.GetConfig()
	if cfg.LLM.Temperature > 0 {
		mc.Temperature = cfg.LLM.Temperature
	}
	if cfg.LLM.MaxTokens > 0 {
		mc.MaxTokens = cfg.LLM.MaxTokens
	}
	c.SetConfig(mc)
}

// readSequences resolves the input argument: an existing file is read (one
// sequence, or one per line in batch mode), anything else is a literal
func readSequences(input string, batch bool) []string {
	data, err := os.ReadFile(input)
	if err != nil {
		return []string{input}
	}

	if !batch {
		return []string{strings.TrimSpace(string(data))}
	}

	var sequences []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			sequences = append(sequences, line)
		}
	}
	return sequences
}

// runSingle splits one sequence and writes the formatted result
func runSingle(s *splitter.Splitter, cfg *config.Config, sequence string, outputPath string) error {
	steps, err := s.Split(sequence)
	if err != nil {
		return err
	}

	rendered, err := renderResult(cfg.Output.Format, sequence, steps, outputPath)
	if err != nil {
		return err
	}

	if outputPath == "" {
		fmt.Println(rendered)
		return nil
	}

	dir := filepath.Dir(outputPath)
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(outputPath, []byte(rendered), 0644); err != nil {
		return fmt.Errorf("failed to write result to %s: %w", outputPath, err)
	}
	fmt.Printf("Result written to: %s\n", outputPath)
	return nil
}

// renderResult applies the configured output format
func renderResult(format string, sequence string, steps []splitter.SubStep, outputPath string) (string, error) {
	switch format {
	case "", "text":
		return splitter.FormatText(steps), nil
	case "json":
		data, err := splitter.FormatJSON(sequence, steps)
		if err != nil {
			return "", err
		}
		return string(data), nil
	case "chunk":
		filename := ""
		if outputPath != "" {
			filename = filepath.Base(outputPath)
		}
		data, err := splitter.FormatChunk(sequence, steps, filename, time.Now())
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", format)
	}
}

package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var manualKBPath string

var manualCmd = &cobra.Command{
	Use:   "manual",
	Short: "Query the operation manual knowledge base",
}

var manualListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all operations in the knowledge base",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		index := buildIndex(resolveKBPath())
		for _, op := range index.All() {
			if op.Category != "" {
				fmt.Printf("%s (%s) [%s]\n", op.Name, op.ID, op.Category)
			} else {
				fmt.Printf("%s (%s)\n", op.Name, op.ID)
			}
		}
	},
}

var manualShowCmd = &cobra.Command{
	Use:   "show [name-or-id]",
	Short: "Show one operation's details",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		index := buildIndex(resolveKBPath())

		op := index.GetByID(args[0])
		if op == nil {
			op = index.GetByName(args[0])
		}
		if op == nil {
			log.Fatalf("Operation %q not found", args[0])
		}

		fmt.Printf("Name: %s\n", op.Name)
		fmt.Printf("ID: %s\n", op.ID)
		if op.Category != "" {
			fmt.Printf("Category: %s\n", op.Category)
		}
		if op.Description != "" {
			fmt.Printf("Description: %s\n", op.Description)
		}
		if len(op.Prerequisites) > 0 {
			fmt.Printf("Prerequisites: %v\n", op.Prerequisites)
		}
		fmt.Println("Steps:")
		for _, step := range op.Steps {
			fmt.Printf("  %d. %s\n", step.StepNumber, step.Action)
			if step.Description != "" {
				fmt.Printf("     %s\n", step.Description)
			}
		}
		if op.ExpectedResult != "" {
			fmt.Printf("Expected result: %s\n", op.ExpectedResult)
		}
	},
}

var manualSearchCmd = &cobra.Command{
	Use:   "search [keyword]",
	Short: "Search operations by keyword",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		index := buildIndex(resolveKBPath())

		results := index.Search(args[0])
		if len(results) == 0 {
			fmt.Printf("No operations matching %q\n", args[0])
			return
		}
		for _, op := range results {
			fmt.Printf("%s (%s)", op.Name, op.ID)
			if op.Description != "" {
				fmt.Printf(" - %s", op.Description)
			}
			fmt.Println()
		}
	},
}

func init() {
	manualCmd.PersistentFlags().StringVarP(&manualKBPath, "knowledge-base", "k", "", "knowledge base file or directory path (overrides config)")

	manualCmd.AddCommand(manualListCmd)
	manualCmd.AddCommand(manualShowCmd)
	manualCmd.AddCommand(manualSearchCmd)
	rootCmd.AddCommand(manualCmd)
}

// resolveKBPath picks the knowledge base path from the flag or the config file
func resolveKBPath() string {
	if manualKBPath != "" {
		return manualKBPath
	}
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	if cfg.KnowledgeBase.Path == "" {
		log.Fatalf("No knowledge base path configured. Use --knowledge-base or set knowledge_base.path in the config file.")
	}
	return cfg.KnowledgeBase.Path
}

package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/opsplit/opsplit/utils/titles"
)

var (
	titlesDir       string
	titlesOutput    string
	titlesRecursive bool
	titlesURL       string
)

var titlesCmd = &cobra.Command{
	Use:   "titles",
	Short: "Extract the most prominent title from HTML documents",
	Long: `Batch-extract the most prominent title (first non-empty h1 through h6,
falling back to the document title) from every HTML file in a directory and
write a JSON report, or fetch a single page title with --url.`,
	Run: func(cmd *cobra.Command, args []string) {
		if titlesURL != "" {
			title, err := titles.FetchURLTitle(titlesURL)
			if err != nil {
				log.Fatalf("Error fetching title: %v", err)
			}
			fmt.Println(title)
			return
		}

		if titlesDir == "" || titlesOutput == "" {
			log.Fatalf("Either --url, or both --directory and --output are required")
		}

		report, err := titles.ProcessDirectory(titlesDir, titlesRecursive)
		if err != nil {
			log.Fatalf("Error processing directory: %v", err)
		}
		if report.TotalFiles == 0 {
			log.Fatalf("No HTML files found in %s", titlesDir)
		}

		if err := titles.SaveReport(report, titlesOutput); err != nil {
			log.Fatalf("Error saving report: %v", err)
		}

		fmt.Printf("Report written to: %s\n", titlesOutput)
		fmt.Printf("Total files: %d, with title: %d, without: %d\n",
			report.TotalFiles, report.FilesWithTitle, report.TotalFiles-report.FilesWithTitle)
	},
}

func init() {
	titlesCmd.Flags().StringVarP(&titlesDir, "directory", "d", "", "directory containing HTML files")
	titlesCmd.Flags().StringVarP(&titlesOutput, "output", "o", "", "output JSON report path")
	titlesCmd.Flags().BoolVarP(&titlesRecursive, "recursive", "r", false, "recurse into subdirectories")
	titlesCmd.Flags().StringVar(&titlesURL, "url", "", "fetch the title of a single URL instead of scanning files")

	rootCmd.AddCommand(titlesCmd)
}

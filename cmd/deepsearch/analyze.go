package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/qiangli/deepsearch/internal/analyze"
	"github.com/qiangli/deepsearch/internal/progress"
	"github.com/qiangli/deepsearch/internal/serper"
)

type AnalyzeConfig struct {
	SearchDepth int
	MaxURLs     int
	SearchTypes []string
	Output      string
}

var analyzeConfig = &AnalyzeConfig{}

var analyzeCmd = &cobra.Command{
	Use:                   "analyze [query...]",
	Short:                 "Run a topic analysis from the command line",
	DisableFlagsInUseLine: true,
	DisableSuggestions:    true,
	Args:                  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunAnalyze(cmd, args)
	},
}

func RunAnalyze(cmd *cobra.Command, args []string) error {
	setLogLevel()

	fileLog, err := setLogOutput()
	if err != nil {
		return err
	}
	defer func() {
		if fileLog != nil {
			fileLog.Close()
		}
	}()

	query := strings.Join(args, " ")

	var cats []serper.Category
	for _, name := range analyzeConfig.SearchTypes {
		cat := serper.Category(name)
		if !cat.Valid() {
			return fmt.Errorf("invalid search type: %q. Must be 'search', 'news', or 'scholar'", name)
		}
		cats = append(cats, cat)
	}

	client := serper.New(viper.GetString("serper_api_key"))

	pipeline := &analyze.Pipeline{
		Search: client,
		Scrape: client,
		LLM:    newLLMClient(),
		Notify: progress.Log(),
	}

	result, err := pipeline.Run(cmd.Context(), query, analyze.Options{
		SearchDepth: analyzeConfig.SearchDepth,
		MaxURLs:     analyzeConfig.MaxURLs,
		Categories:  cats,
	})
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}

	if analyzeConfig.Output != "" {
		return os.WriteFile(analyzeConfig.Output, data, 0644)
	}
	fmt.Println(string(data))
	return nil
}

func init() {
	flags := analyzeCmd.Flags()
	flags.IntVar(&analyzeConfig.SearchDepth, "depth", 1, "Recursion depth for the initial search expansion")
	flags.IntVar(&analyzeConfig.MaxURLs, "max-urls", 2, "Number of top search results to scrape")
	flags.StringSliceVar(&analyzeConfig.SearchTypes, "types", []string{"search", "news"}, "Search types to perform: search, news, scholar")
	flags.StringVarP(&analyzeConfig.Output, "output", "o", "", "Write the analysis result to a file instead of stdout")
}

package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/qiangli/deepsearch/internal/log"
)

// var updated during build
var ServerName = "deepsearch"
var ServerVersion = "0.1.0"

var rootCmd = &cobra.Command{
	Use:                   "deepsearch",
	Short:                 "Web search, scraping and topic analysis over the Serper.dev API",
	DisableFlagsInUseLine: true,
	DisableSuggestions:    true,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	flags := rootCmd.PersistentFlags()
	flags.String("log", "", "Log all debugging information to a file")
	flags.Bool("verbose", false, "Show debugging information")
	flags.MarkHidden("log")

	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		viper.BindPFlag(key, f)
	})

	viper.AutomaticEnv()
	viper.SetEnvPrefix("deepsearch")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.BindEnv("serper_api_key", "SERPER_API_KEY")
	viper.BindEnv("openai_api_key", "OPENAI_API_KEY")
	viper.BindEnv("openai_base_url", "OPENAI_BASE_URL")
	viper.BindEnv("model", "DEEPSEARCH_MODEL")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(analyzeCmd)
}

func setLogLevel() {
	if viper.GetBool("verbose") {
		log.SetLogLevel(log.Verbose)
	}
}

func setLogOutput() (*log.FileWriter, error) {
	pathname := viper.GetString("log")
	if pathname != "" {
		f, err := log.NewFileWriter(pathname)
		if err != nil {
			return nil, err
		}
		log.SetLogOutput(f)
		return f, nil
	}
	return nil, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Errorf("%v\n", err)
		os.Exit(1)
	}
}

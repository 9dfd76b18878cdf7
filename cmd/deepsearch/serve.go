package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/qiangli/deepsearch/internal/log"
	"github.com/qiangli/deepsearch/internal/serper"
)

type ServerConfig struct {
	Port      int
	Host      string
	Transport string
}

var config = &ServerConfig{}

var serveCmd = &cobra.Command{
	Use:                   "serve",
	Short:                 "Start the MCP server",
	DisableFlagsInUseLine: true,
	DisableSuggestions:    true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunServe()
	},
}

// https://github.com/mark3labs/mcp-go/blob/main/examples/everything/main.go
func RunServe() error {
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

	if viper.GetString("serper_api_key") == "" {
		log.Infof("WARNING: The 'SERPER_API_KEY' environment variable is not set. Serper API calls will likely fail.\n")
	}
	if viper.GetString("openai_api_key") == "" {
		log.Infof("WARNING: The 'OPENAI_API_KEY' environment variable is not set. OpenAI calls will fail.\n")
	}

	client := serper.New(viper.GetString("serper_api_key"))

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithResourceCapabilities(false, false),
		server.WithPromptCapabilities(false),
		server.WithToolCapabilities(true),
		server.WithLogging(),
	)

	addTools(mcpServer, client)

	if config.Transport == transportSSE {
		baseURL := fmt.Sprintf("http://%s:%v", config.Host, config.Port)
		addr := fmt.Sprintf(":%v", config.Port)

		sse := server.NewSSEServer(mcpServer, server.WithBaseURL(baseURL))

		log.Infof("SSE server listening on :%d\n", config.Port)

		if err := sse.Start(addr); err != nil {
			return fmt.Errorf("sse server error: %v", err)
		}
	} else {
		if err := server.ServeStdio(mcpServer); err != nil {
			return fmt.Errorf("stdio server error: %v", err)
		}
	}

	return nil
}

func init() {
	var defaultPort = 8000
	if v := os.Getenv("DEEPSEARCH_MCP_PORT"); v != "" {
		fmt.Sscanf(v, "%d", &defaultPort)
	}

	flags := serveCmd.Flags()
	flags.IntVar(&config.Port, "port", defaultPort, "Port to run the server")
	flags.StringVar(&config.Host, "host", "localhost", "Host to bind the server")
	flags.Var(newTransportValue(transportStdio, &config.Transport), "transport", "Transport protocol to use: sse or stdio")
}

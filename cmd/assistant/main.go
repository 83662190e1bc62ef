// Package main is the entrypoint for the AI production support assistant:
// an interactive chat that answers developer questions using ServiceNow
// case management, GitHub, and Elasticsearch log-search tools.
package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/drewelewis/ai-prod-support-assistant/internal/agent"
	"github.com/drewelewis/ai-prod-support-assistant/internal/config"
	"github.com/drewelewis/ai-prod-support-assistant/internal/elastic"
	"github.com/drewelewis/ai-prod-support-assistant/internal/github"
	"github.com/drewelewis/ai-prod-support-assistant/internal/logging"
	"github.com/drewelewis/ai-prod-support-assistant/internal/servicenow"
	"github.com/drewelewis/ai-prod-support-assistant/internal/tools"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load configuration:", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.LogLevel)
	logger.Info("starting support assistant",
		"table", cfg.ServiceNowTable,
		"provider", cfg.AIProvider,
		"model", cfg.AIModel,
	)

	// Build the tool registry. GitHub and Elasticsearch tools are only
	// registered when their integrations are configured.
	registry := tools.NewRegistry(logging.WithComponent(logger, "tools"))

	snowClient := servicenow.NewClient(cfg, logging.WithComponent(logger, "servicenow"))
	registry.Register(tools.ServiceNowTools(snowClient)...)

	if cfg.GitHubToken != "" {
		ghClient := github.NewClient(cfg.GitHubToken, "", logging.WithComponent(logger, "github"))
		registry.Register(tools.GitHubTools(ghClient, cfg.GitHubDefaultUser)...)
	}
	if cfg.ElasticURL != "" {
		esClient := elastic.NewClient(elastic.Options{
			URL:      cfg.ElasticURL,
			Index:    cfg.ElasticIndex,
			APIKey:   cfg.ElasticAPIKey,
			Username: cfg.ElasticUsername,
			Password: cfg.ElasticPassword,
		}, logging.WithComponent(logger, "elasticsearch"))
		registry.Register(tools.ElasticTools(esClient)...)
	}

	provider, err := newChatProvider(cfg)
	if err != nil {
		logger.Error("failed to create chat provider", "error", err)
		os.Exit(1)
	}

	assistant := agent.NewAssistant(
		provider,
		registry,
		cfg.AIModel,
		systemMessage(cfg),
		cfg.MaxToolIterations,
		logging.WithComponent(logger, "agent"),
	)

	// Optional Prometheus metrics endpoint
	if cfg.MetricsPort != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			addr := ":" + cfg.MetricsPort
			logger.Info("metrics server starting", "addr", addr)
			if err := http.ListenAndServe(addr, mux); err != nil {
				logger.Error("metrics server error", "error", err)
			}
		}()
	}

	// Exit cleanly on Ctrl-C while a request is in flight
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		fmt.Println("\nGoodbye!")
		os.Exit(0)
	}()

	runREPL(cfg, assistant)
}

// runREPL drives the chat loop on stdin/stdout until exit or EOF.
func runREPL(cfg *config.Config, assistant *agent.Assistant) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("AI Production Support Assistant")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println()
	fmt.Println("How can I help you? (type '/q' to exit, '/clear' to clear history)")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println("\nGoodbye!")
			return
		}
		input := strings.TrimSpace(scanner.Text())
		fmt.Println()

		switch strings.ToLower(input) {
		case "":
			continue
		case "/q", "/quit", "/exit":
			fmt.Println("Goodbye!")
			return
		case "/clear", "/reset":
			assistant.Reset()
			fmt.Println("Chat history cleared!")
			fmt.Println()
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
		response, err := assistant.Chat(ctx, input)
		cancel()
		if err != nil {
			fmt.Printf("An error occurred: %v\n\n", err)
			continue
		}
		fmt.Printf("Assistant: %s\n\n", response)
	}
}

// newChatProvider builds the ChatProvider selected by AI_PROVIDER.
func newChatProvider(cfg *config.Config) (agent.ChatProvider, error) {
	switch cfg.AIProvider {
	case "anthropic":
		return agent.NewAnthropicProvider(cfg.AnthropicAPIKey), nil
	case "openai":
		return agent.NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported provider %q", cfg.AIProvider)
	}
}

// systemMessage assembles the support-agent instructions, mentioning only
// the tool groups that are actually registered.
func systemMessage(cfg *config.Config) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Today's date and time: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))
	b.WriteString("You are an application support agent. You will help developers with their questions about the application.\n")
	b.WriteString("You have access to several tools to assist you:\n\n")

	b.WriteString("**ServiceNow Tools:**\n")
	b.WriteString("- Create new support cases\n")
	b.WriteString("- Query open cases and high priority cases\n")
	b.WriteString("- Search cases by text\n")
	b.WriteString("- Add comments to cases\n")
	b.WriteString("- Assign, resolve, and close cases\n\n")

	if cfg.GitHubToken != "" {
		b.WriteString("**GitHub Tools:**\n")
		b.WriteString("- List repositories for a GitHub user\n")
		b.WriteString("- Browse files in a repository\n")
		b.WriteString("- Get file content from repositories\n")
		b.WriteString("- Create issues in repositories\n\n")
		if cfg.GitHubDefaultUser != "" {
			fmt.Fprintf(&b, "Default GitHub user: %s. Verify with the user before assuming a different one.\n\n", cfg.GitHubDefaultUser)
		}
	}
	if cfg.ElasticURL != "" {
		b.WriteString("**Elasticsearch Tools:**\n")
		b.WriteString("- Search application logs stored in Elasticsearch\n")
		b.WriteString("- The logs contain fields like: levelname, message, host, timestamp, filename, funcName\n\n")
	}

	b.WriteString("**Instructions:**\n")
	b.WriteString("- Use your tools to answer user questions whenever possible\n")
	b.WriteString("- If you're not sure which tool to use, ask clarifying questions\n")
	b.WriteString("- Be helpful, clear, and concise in your responses\n")
	b.WriteString("- When searching logs, convert natural language queries to proper Elasticsearch JSON format\n")
	b.WriteString("- When creating cases or issues, provide clear summaries of what was created\n\n")
	b.WriteString("Always think step by step and use the appropriate tools to help the user effectively.\n")
	return b.String()
}

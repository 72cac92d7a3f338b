// assistantcheck probes the configured analysis models from the command
// line. Useful for verifying API keys and model ids before a deploy.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/joho/godotenv"

	"github.com/ortocare/clinic-platform/cmd/mainconfig"
	"github.com/ortocare/clinic-platform/internal/assistant"
	appconfig "github.com/ortocare/clinic-platform/internal/config"
	"github.com/ortocare/clinic-platform/pkg/logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	prompt := "Paciente com escoliose idiopática, Cobb principal 32 graus, Risser 2, 13 anos. Resuma o quadro."
	if len(os.Args) > 1 {
		prompt = strings.Join(os.Args[1:], " ")
	}

	var primary assistant.LLMClient
	if cfg.GeminiAPIKey != "" {
		client, err := assistant.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			fmt.Printf("failed to create Gemini client: %v\n", err)
		} else {
			defer client.Close()
			primary = client
			fmt.Printf("Gemini configured (%s)\n", cfg.GeminiModelID)
		}
	} else {
		fmt.Println("Skipping Gemini (GEMINI_API_KEY not set)")
	}

	var secondary assistant.LLMClient
	if cfg.BedrockModelID != "" {
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			fmt.Printf("failed to load AWS config: %v\n", err)
		} else {
			secondary = assistant.NewBedrockClient(bedrockruntime.NewFromConfig(awsCfg))
			fmt.Printf("Bedrock configured (%s)\n", cfg.BedrockModelID)
		}
	} else {
		fmt.Println("Skipping Bedrock (BEDROCK_MODEL_ID not set)")
	}

	svc := assistant.NewService(primary, secondary, cfg.BedrockModelID, logger, nil)

	start := time.Now()
	analysis := svc.Analyze(ctx, prompt)
	fmt.Printf("\nAnalysis (%v):\n%s\n", time.Since(start).Round(time.Millisecond), analysis)

	if analysis == assistant.FallbackText {
		fmt.Println("\nGot the fallback text: no model produced an analysis.")
		os.Exit(1)
	}
}

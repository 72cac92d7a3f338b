package assistant

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ortocare/clinic-platform/internal/observability/metrics"
	"github.com/ortocare/clinic-platform/pkg/logging"
)

var tracer trace.Tracer = otel.Tracer("ortocare.internal.assistant")

// FallbackText is the fixed reply returned whenever no model produces
// an answer. Analyze never surfaces an error to its caller.
const FallbackText = "No momento não foi possível gerar a análise. Verifique a conexão e tente novamente."

const systemInstruction = "Você é um assistente clínico de uma clínica de ortopedia e fisioterapia. " +
	"Analise os dados apresentados e responda em português, de forma objetiva, " +
	"destacando riscos clínicos, pendências de avaliação e prioridades da oficina ortopédica. " +
	"Não invente dados que não foram fornecidos."

const analysisTemperature = 0.7

// Service answers free-text analysis prompts. It tries the primary
// model, then the secondary, and falls back to a fixed text when both
// fail. Each call is independent; no conversation history is kept.
type Service struct {
	primary   LLMClient
	secondary LLMClient

	secondaryModelID string
	logger           *logging.Logger
	metrics          *metrics.AssistantMetrics
}

// NewService creates the assistant. Either client may be nil; with no
// clients at all every prompt resolves to the fallback text.
func NewService(primary, secondary LLMClient, secondaryModelID string, logger *logging.Logger, m *metrics.AssistantMetrics) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		primary:          primary,
		secondary:        secondary,
		secondaryModelID: secondaryModelID,
		logger:           logger,
		metrics:          m,
	}
}

// Analyze answers a prompt. It never returns an error: any failure
// resolves to FallbackText.
func (s *Service) Analyze(ctx context.Context, prompt string) string {
	ctx, span := tracer.Start(ctx, "assistant.analyze")
	defer span.End()

	start := time.Now()
	if strings.TrimSpace(prompt) == "" {
		s.metrics.ObserveRequest("empty", time.Since(start).Seconds())
		return FallbackText
	}

	if s.primary != nil {
		resp, err := s.primary.Complete(ctx, LLMRequest{
			System:      systemInstruction,
			Prompt:      prompt,
			Temperature: analysisTemperature,
		})
		if err == nil && resp.Text != "" {
			span.SetAttributes(attribute.String("model", "primary"))
			s.metrics.ObserveRequest("primary", time.Since(start).Seconds())
			return resp.Text
		}
		if err != nil {
			s.logger.Warn("primary model failed", "error", err)
		}
	}

	if s.secondary != nil {
		resp, err := s.secondary.Complete(ctx, LLMRequest{
			Model:       s.secondaryModelID,
			System:      systemInstruction,
			Prompt:      prompt,
			Temperature: analysisTemperature,
		})
		if err == nil && resp.Text != "" {
			span.SetAttributes(attribute.String("model", "secondary"))
			s.metrics.ObserveRequest("secondary", time.Since(start).Seconds())
			return resp.Text
		}
		if err != nil {
			s.logger.Warn("secondary model failed", "error", err)
		}
	}

	span.SetAttributes(attribute.String("model", "fallback"))
	s.metrics.ObserveRequest("fallback", time.Since(start).Seconds())
	return FallbackText
}

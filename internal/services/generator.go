package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ollama/ollama/api"
	"github.com/replydeck/backend/internal/config"
	"github.com/replydeck/backend/internal/models"
	"github.com/replydeck/backend/pkg/logger"
	"github.com/sashabaranov/go-openai"
	"github.com/tidwall/gjson"
	"google.golang.org/genai"
	"gorm.io/gorm"
)

// ErrGeneration marks provider-side failures (timeout, API error, empty
// response). The orchestrator treats these as a per-comment skip, never a
// run-wide abort.
var ErrGeneration = errors.New("reply generation failed")

// DefaultConfidence is assigned to candidates the provider returned without
// a parseable confidence score. It is only ever a fallback: a parsed score
// is never raised to it.
const DefaultConfidence = 0.6

// GeneratedCandidate is one reply suggestion with the model's own quality
// estimate in [0, 1].
type GeneratedCandidate struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// GenerateRequest describes one generation call.
type GenerateRequest struct {
	CommentText    string
	PostContext    string
	IntentHint     string
	CandidateCount int
	MaxLength      int
	Temperature    float64
	LLMConfigID    *uint
}

type GeneratorService struct {
	db     *gorm.DB
	config *config.GeneratorConfig
}

func NewGeneratorService(db *gorm.DB, cfg *config.GeneratorConfig) *GeneratorService {
	return &GeneratorService{db: db, config: cfg}
}

// Generate produces candidate replies for a comment. Providers are tried in
// order (requested config, default, remaining active, yaml fallback) until
// one succeeds. All failures come back wrapped in ErrGeneration.
func (s *GeneratorService) Generate(ctx context.Context, req *GenerateRequest) ([]GeneratedCandidate, error) {
	if req.CandidateCount < 1 {
		req.CandidateCount = 1
	}
	if req.MaxLength < 1 {
		req.MaxLength = 280
	}

	timeout := 30 * time.Second
	if s.config != nil && s.config.TimeoutSeconds > 0 {
		timeout = time.Duration(s.config.TimeoutSeconds) * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	prompt := buildReplyPrompt(req)

	llmConfigs := s.getOrderedLLMConfigs(req.LLMConfigID)
	if len(llmConfigs) == 0 {
		return nil, fmt.Errorf("%w: no LLM configuration available", ErrGeneration)
	}

	var lastErr error
	for i, llmConfig := range llmConfigs {
		logger.Infof("[Generator] Attempting LLM %d/%d: %s (model: %s)", i+1, len(llmConfigs), llmConfig.Name, llmConfig.Model)

		content, err := s.callLLM(ctx, &llmConfig, prompt)
		if err != nil {
			lastErr = err
			logger.Infof("[Generator] LLM %s failed: %v, trying next...", llmConfig.Name, err)
			continue
		}

		candidates := ParseCandidates(content, req.MaxLength)
		if len(candidates) == 0 {
			lastErr = fmt.Errorf("empty candidate list from %s", llmConfig.Name)
			continue
		}

		logger.Infof("[Generator] Success with LLM %s: %d candidate(s)", llmConfig.Name, len(candidates))
		return candidates, nil
	}

	return nil, fmt.Errorf("%w: all providers failed: %v", ErrGeneration, lastErr)
}

// buildReplyPrompt asks for a JSON array so confidence scores survive
// transport. Models that ignore the format still yield one usable candidate
// via the parser fallback.
func buildReplyPrompt(req *GenerateRequest) string {
	var sb strings.Builder

	sb.WriteString("You are a social media community manager. Write a reply to the customer comment below.\n\n")
	sb.WriteString("Comment: " + req.CommentText + "\n")
	if req.PostContext != "" {
		sb.WriteString("Post context: " + req.PostContext + "\n")
	}
	if req.IntentHint != "" {
		sb.WriteString("Comment intent: " + req.IntentHint + "\n")
	}

	sb.WriteString(fmt.Sprintf("\nRequirements:\n- Friendly, concise, on-brand tone\n- At most %d characters per reply\n- Never promise anything you cannot verify\n", req.MaxLength))
	sb.WriteString(fmt.Sprintf("\nReturn exactly %d candidate repl", req.CandidateCount))
	if req.CandidateCount == 1 {
		sb.WriteString("y")
	} else {
		sb.WriteString("ies")
	}
	sb.WriteString(" as a JSON array, no other text:\n")
	sb.WriteString(`[{"reply": "...", "confidence": 0.0}]` + "\n")
	sb.WriteString("confidence is your own 0-1 estimate of how appropriate the reply is to post without human review.")

	return sb.String()
}

func (s *GeneratorService) getOrderedLLMConfigs(requestedID *uint) []models.LLMConfig {
	var configs []models.LLMConfig

	if requestedID != nil && *requestedID > 0 {
		var requested models.LLMConfig
		if err := s.db.Where("id = ? AND is_active = ?", *requestedID, true).First(&requested).Error; err == nil {
			configs = append(configs, requested)
		}
	}

	var defaultConfig models.LLMConfig
	if err := s.db.Where("is_default = ? AND is_active = ?", true, true).First(&defaultConfig).Error; err == nil {
		if len(configs) == 0 || configs[0].ID != defaultConfig.ID {
			configs = append(configs, defaultConfig)
		}
	}

	existingIDs := make(map[uint]bool)
	for _, c := range configs {
		existingIDs[c.ID] = true
	}
	var backups []models.LLMConfig
	s.db.Where("is_active = ?", true).Order("id ASC").Find(&backups)
	for _, c := range backups {
		if !existingIDs[c.ID] {
			configs = append(configs, c)
		}
	}

	if len(configs) == 0 && s.config != nil && s.config.APIKey != "" {
		configs = append(configs, models.LLMConfig{
			Name:    "fallback",
			BaseURL: s.config.BaseURL,
			APIKey:  s.config.APIKey,
			Model:   s.config.Model,
		})
	}

	return configs
}

// callLLM dispatches on the provider field and returns the raw text output.
func (s *GeneratorService) callLLM(ctx context.Context, llmConfig *models.LLMConfig, prompt string) (string, error) {
	logger.Infof("[Generator] Using provider: %s, model: %s, baseURL: %s", llmConfig.Provider, llmConfig.Model, llmConfig.BaseURL)

	switch llmConfig.Provider {
	case "anthropic":
		return s.callAnthropic(ctx, llmConfig, prompt)
	case "ollama":
		return s.callOllama(ctx, llmConfig, prompt)
	case "gemini":
		return s.callGemini(ctx, llmConfig, prompt)
	case "azure":
		return s.callAzure(ctx, llmConfig, prompt)
	default:
		// openai and OpenAI-compatible endpoints
		return s.callOpenAI(ctx, llmConfig, prompt)
	}
}

func (s *GeneratorService) callOpenAI(ctx context.Context, llmConfig *models.LLMConfig, prompt string) (string, error) {
	clientConfig := openai.DefaultConfig(llmConfig.APIKey)
	if llmConfig.BaseURL != "" {
		clientConfig.BaseURL = llmConfig.BaseURL
	}
	client := openai.NewClientWithConfig(clientConfig)

	temperature := float32(0.7)
	if llmConfig.Temperature > 0 {
		temperature = float32(llmConfig.Temperature)
	}

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: llmConfig.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	return resp.Choices[0].Message.Content, nil
}

func (s *GeneratorService) callAzure(ctx context.Context, llmConfig *models.LLMConfig, prompt string) (string, error) {
	// Azure BaseURL format: https://{resource-name}.openai.azure.com
	// Model field is the deployment name
	cfg := openai.DefaultAzureConfig(llmConfig.APIKey, llmConfig.BaseURL)
	client := openai.NewClientWithConfig(cfg)

	temperature := float32(0.7)
	if llmConfig.Temperature > 0 {
		temperature = float32(llmConfig.Temperature)
	}

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: llmConfig.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("Azure OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from Azure OpenAI")
	}

	return resp.Choices[0].Message.Content, nil
}

func (s *GeneratorService) callAnthropic(ctx context.Context, llmConfig *models.LLMConfig, prompt string) (string, error) {
	client := anthropic.NewClient(
		option.WithAPIKey(llmConfig.APIKey),
	)

	maxTokens := int64(llmConfig.MaxTokens)
	if maxTokens == 0 {
		maxTokens = 1024
	}

	model := llmConfig.Model
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}

	resp, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("Anthropic API error: %w", err)
	}

	var content string
	for _, block := range resp.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}

	return content, nil
}

func (s *GeneratorService) callOllama(ctx context.Context, llmConfig *models.LLMConfig, prompt string) (string, error) {
	baseURL := llmConfig.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid Ollama base URL: %w", err)
	}
	client := api.NewClient(u, http.DefaultClient)

	model := llmConfig.Model
	if model == "" {
		model = "llama3"
	}

	var content strings.Builder
	err = client.Chat(ctx, &api.ChatRequest{
		Model: model,
		Messages: []api.Message{
			{Role: "user", Content: prompt},
		},
		Options: map[string]interface{}{
			"temperature": llmConfig.Temperature,
		},
	}, func(resp api.ChatResponse) error {
		content.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("Ollama API error: %w", err)
	}

	return content.String(), nil
}

func (s *GeneratorService) callGemini(ctx context.Context, llmConfig *models.LLMConfig, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: llmConfig.APIKey,
	})
	if err != nil {
		return "", fmt.Errorf("Gemini client error: %w", err)
	}

	model := llmConfig.Model
	if model == "" {
		model = "gemini-3.0-flash"
	}

	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	return resp.Text(), nil
}

// ParseCandidates extracts candidates from raw model output. The expected
// shape is a JSON array of {reply, confidence}; a bare object works too.
// Unparseable output falls back to the whole text as one candidate at
// DefaultConfidence. Parsed confidences are clamped to [0, 1] and missing
// ones default; a parsed score is never raised.
func ParseCandidates(content string, maxLength int) []GeneratedCandidate {
	trimmed := stripCodeFence(content)

	parsed := gjson.Parse(trimmed)
	var candidates []GeneratedCandidate

	switch {
	case parsed.IsArray():
		parsed.ForEach(func(_, item gjson.Result) bool {
			if c, ok := candidateFromResult(item, maxLength); ok {
				candidates = append(candidates, c)
			}
			return true
		})
	case parsed.IsObject():
		if c, ok := candidateFromResult(parsed, maxLength); ok {
			candidates = append(candidates, c)
		}
	}

	if len(candidates) == 0 {
		text := strings.TrimSpace(content)
		if text == "" {
			return nil
		}
		candidates = append(candidates, GeneratedCandidate{
			Text:       truncate(text, maxLength),
			Confidence: DefaultConfidence,
		})
	}

	return candidates
}

func candidateFromResult(item gjson.Result, maxLength int) (GeneratedCandidate, bool) {
	text := item.Get("reply").String()
	if text == "" {
		text = item.Get("text").String()
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return GeneratedCandidate{}, false
	}

	confidence := DefaultConfidence
	if conf := item.Get("confidence"); conf.Exists() {
		confidence = clampConfidence(conf.Float())
	}

	return GeneratedCandidate{
		Text:       truncate(text, maxLength),
		Confidence: confidence,
	}, true
}

// BestCandidate picks the highest-confidence candidate; ties go to the
// earlier one so selection stays deterministic.
func BestCandidate(candidates []GeneratedCandidate) *GeneratedCandidate {
	if len(candidates) == 0 {
		return nil
	}

	best := 0
	for i := 1; i < len(candidates); i++ {
		if candidates[i].Confidence > candidates[best].Confidence {
			best = i
		}
	}
	return &candidates[best]
}

func clampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max]
}

// stripCodeFence unwraps ```json ... ``` style fences some models insist on.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx != -1 {
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

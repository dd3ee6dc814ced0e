package gcp

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"
)

// --- Introduction Model Prompts ---
const IntroSystemPrompt = "You are a sales copywriter for a furniture and interior design studio. You write the opening letter of a commercial offer in Russian. Write plain prose only: no subject line, no headings, no markdown."

// IntroUserPrompt is filled with the client name, the client company, the item list and the three formatted totals.
const IntroUserPrompt = `Напиши профессиональное и убедительное введение для коммерческого предложения клиенту по имени %s из компании %s.
Предложение включает следующие позиции:
%s

Мы предлагаем три варианта стоимости: Стандарт (%s), Оптимальный (%s) и Премиум (%s).

Тон должен быть уверенным, дружелюбным и ориентированным на клиента. Начни с персонализированного приветствия. Не включай тему письма или заголовок "Введение". Просто напиши текст введения.`

// VertexClient holds the pre-configured generative model used by the offer editor.
type VertexClient struct {
	IntroModel *genai.GenerativeModel
	baseClient *genai.Client
}

// NewVertexClient creates a new client for the given model.
func NewVertexClient(ctx context.Context, projectID, region, modelName string) (*VertexClient, error) {
	if projectID == "" || region == "" {
		return nil, fmt.Errorf("NewVertexClient: projectID and region cannot be empty")
	}

	baseClient, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	introModel := baseClient.GenerativeModel(modelName)
	introModel.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(IntroSystemPrompt)},
	}
	introModel.GenerationConfig = genai.GenerationConfig{
		Temperature: genai.Ptr[float32](0.7),
	}

	return &VertexClient{
		IntroModel: introModel,
		baseClient: baseClient,
	}, nil
}

// GenerateText sends prompt to the introduction model and returns the concatenated text parts.
func (c *VertexClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := c.IntroModel.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content from gemini: %w", err)
	}
	return extractText(resp), nil
}

// extractText joins the text parts of the first candidate. Markdown fences are stripped.
func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return ""
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}

	contentStr := strings.TrimSpace(b.String())
	contentStr = strings.TrimPrefix(contentStr, "```markdown")
	contentStr = strings.TrimPrefix(contentStr, "```")
	contentStr = strings.TrimSuffix(contentStr, "```")
	return strings.TrimSpace(contentStr)
}

func (c *VertexClient) Close() error {
	if c.baseClient != nil {
		return c.baseClient.Close()
	}
	return nil
}

package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	postModel "freight-posting/models/post"

	"google.golang.org/genai"
)

// PostAnalysis is the structured assessment Gemini returns for a post.
type PostAnalysis struct {
	Summary         string   `json:"summary"`
	RiskLevel       string   `json:"risk_level"` // LOW | MEDIUM | HIGH
	Recommendations []string `json:"recommendations"`
}

// Service asks Gemini for a qualitative read on a freight post: is the
// description coherent, does the price look plausible for the route, what
// should the provider double-check before publishing.
type Service struct {
	model string
}

// NewService creates a new post analysis service
func NewService() *Service {
	return &Service{model: "gemini-2.5-flash-lite"}
}

// AnalyzePost generates an assessment for the given post.
func (s *Service) AnalyzePost(ctx context.Context, p *postModel.FreightPost) (*PostAnalysis, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not found in environment variables")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	prompt := fmt.Sprintf(`Analyze this freight shipment post from a Vietnamese logistics marketplace. Return ONLY valid JSON.

Post:
- Title: %s
- Description: %s
- Offered price (VND): %.0f
- Pickup: %s at %s
- Delivery: %s at %s

Required JSON format:
{
"summary": string,            // 1-2 sentence assessment of the post
"risk_level": string,         // "LOW", "MEDIUM" or "HIGH"
"recommendations": [string]   // concrete things the provider should verify before publishing
}`,
		p.Title,
		p.Description,
		p.OfferedPrice,
		p.ShippingRoute.StartLocation.Address,
		p.ShippingRoute.ExpectedPickupDate.Format("2006-01-02 15:04"),
		p.ShippingRoute.EndLocation.Address,
		p.ShippingRoute.ExpectedDeliveryDate.Format("2006-01-02 15:04"),
	)

	content := &genai.Content{
		Parts: []*genai.Part{
			{Text: prompt},
		},
	}

	result, err := client.Models.GenerateContent(
		ctx,
		s.model,
		[]*genai.Content{content},
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr(float32(0.2)),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate post analysis: %w", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no content generated for post analysis")
	}

	responseText := result.Candidates[0].Content.Parts[0].Text
	if responseText == "" {
		return nil, fmt.Errorf("empty response from post analysis")
	}

	jsonText := extractJSONFromMarkdown(responseText)

	var parsed PostAnalysis
	if err := json.Unmarshal([]byte(jsonText), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse analysis response: %w, response: %s", err, jsonText)
	}

	return &parsed, nil
}

// extractJSONFromMarkdown extracts JSON content from markdown code blocks
func extractJSONFromMarkdown(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") && strings.HasSuffix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(text, "```")
		return strings.TrimSpace(text)
	}

	if strings.HasPrefix(text, "```") && strings.HasSuffix(text, "```") {
		lines := strings.Split(text, "\n")
		if len(lines) > 1 {
			return strings.Join(lines[1:len(lines)-1], "\n")
		}
	}

	return text
}

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"shortform-backend/internal/models"
)

// Brand is the static context injected into every generation prompt.
type Brand struct {
	Name    string
	Website string
	Tagline string
}

type GeminiService struct {
	client   *genai.Client
	model    *genai.GenerativeModel
	brand    Brand
	rateChan chan struct{} // Token bucket
}

func NewGeminiService(apiKey string, concurrentReqs int, brand Brand) (*GeminiService, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-3-flash-preview")
	model.SetTemperature(0.7)
	model.SetTopP(0.95)

	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	return &GeminiService{
		client:   client,
		model:    model,
		brand:    brand,
		rateChan: rateChan,
	}, nil
}

func (s *GeminiService) Close() {
	s.client.Close()
}

// acquireRate blocks until a rate slot is available
func (s *GeminiService) acquireRate(ctx context.Context) error {
	select {
	case <-s.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Minute):
		return fmt.Errorf("timeout waiting for Gemini rate slot")
	}
}

func (s *GeminiService) releaseRate() {
	s.rateChan <- struct{}{}
}

// GenerateTopics asks the model for count topic ideas. Pass an empty
// contentType for a mixed batch.
func (s *GeminiService) GenerateTopics(ctx context.Context, count int, contentType, language string) ([]models.Topic, error) {
	if err := s.acquireRate(ctx); err != nil {
		return nil, err
	}
	defer s.releaseRate()

	system := s.buildTopicSystemPrompt(language)
	user := buildTopicUserPrompt(contentType, count)

	resp, err := s.model.GenerateContent(ctx, genai.Text(system+"\n\n"+user))
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}

	raw := extractText(resp)
	if raw == "" {
		return nil, fmt.Errorf("Gemini returned empty response for topic generation")
	}

	topics, err := parseTopics(raw, language)
	if err != nil {
		return nil, err
	}
	log.Printf("Generated %d topic ideas (type=%q, lang=%s)", len(topics), contentType, language)
	return topics, nil
}

// GenerateScript expands one topic into a timed, segmented script.
func (s *GeminiService) GenerateScript(ctx context.Context, topic *models.Topic, targetDurationSeconds int) (*models.Script, error) {
	if err := s.acquireRate(ctx); err != nil {
		return nil, err
	}
	defer s.releaseRate()

	if targetDurationSeconds == 0 {
		targetDurationSeconds = topic.EstimatedDurationSeconds
	}

	system := s.buildScriptSystemPrompt(topic.Language)
	user := buildScriptUserPrompt(topic, targetDurationSeconds)

	resp, err := s.model.GenerateContent(ctx, genai.Text(system+"\n\n"+user))
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}

	raw := extractText(resp)
	if raw == "" {
		return nil, fmt.Errorf("Gemini returned empty response for script generation")
	}

	script, err := parseScript(raw)
	if err != nil {
		return nil, err
	}
	script.TopicID = &topic.ID
	script.Language = topic.Language
	if script.Title == "" {
		script.Title = topic.Title
	}
	log.Printf("Generated script for %q: %.0fs, %d segments", topic.Title, script.TotalDurationSeconds, len(script.Segments))
	return script, nil
}

func (s *GeminiService) buildTopicSystemPrompt(language string) string {
	langInstruction := "in English"
	if language == "nl" {
		langInstruction = "in Dutch"
	}

	return fmt.Sprintf(`You are an expert content strategist for B2B sales content on YouTube.
Your task is to generate viral, engaging topic ideas for YouTube Shorts about sales and AI.

CONTEXT:
- Brand: %s
- Website: %s
- Tagline: %s
- Target audience: B2B sales professionals (Account Executives, BDRs, Sales Managers)

CONTENT TYPES:
1. sales_tip - Practical sales tips and techniques
2. ai_news - News about AI tools for sales
3. hot_take - Controversial opinions about sales/AI
4. product_showcase - Highlight %s features

REQUIREMENTS:
- Shorts are 30-60 seconds
- The hook must grab attention within one second
- All content must be written %s
- Lead with value, not with selling
- Always end with a CTA pointing at %s

OUTPUT FORMAT:
Answer with a JSON array of objects with these fields:
- content_type: one of [sales_tip, ai_news, hot_take, product_showcase]
- title: YouTube title (max 60 chars)
- hook: opening hook (1-2 sentences that create instant curiosity)
- main_points: array of 2-3 key points
- cta: call to action (short)
- hashtags: array of 5 relevant hashtags
- estimated_duration_seconds: estimated duration (30-60)`,
		s.brand.Name, s.brand.Website, s.brand.Tagline, s.brand.Name, langInstruction, s.brand.Name)
}

func buildTopicUserPrompt(contentType string, count int) string {
	typeInstruction := "Produce a mix of the different content types."
	if contentType != "" {
		typeInstruction = fmt.Sprintf("Focus only on %s content.", contentType)
	}

	return fmt.Sprintf(`Generate %d unique topic ideas for YouTube Shorts.

%s

Make sure every topic:
- Has a strong hook that creates curiosity
- Offers concrete, actionable value
- Fits B2B sales professionals
- Does not come across as salesy

Answer ONLY with a JSON array, no other text.`, count, typeInstruction)
}

func (s *GeminiService) buildScriptSystemPrompt(language string) string {
	langInstruction := "in English"
	if language == "nl" {
		langInstruction = "in Dutch"
	}

	return fmt.Sprintf(`You are an expert scriptwriter for YouTube Shorts.
You write scripts that grab attention immediately, use short punchy sentences,
deliver value without fluff and close with a clear CTA.

BRAND CONTEXT:
- Brand: %s
- Product: AI-powered sales enablement platform
- Tagline: %s

SCRIPT STRUCTURE:
1. hook (0-3 sec): grab attention immediately
2. content (3-50 sec): deliver the promised value
3. cta (50-60 sec): send the viewer to action

All narration must be written %s.

OUTPUT FORMAT:
Answer with a single JSON object with these fields:
- title: final YouTube title
- description: YouTube description (2-3 sentences plus hashtags)
- segments: array of objects with fields type (hook|content|cta), text,
  duration_seconds (number) and visual_cue (what should be on screen)`,
		s.brand.Name, s.brand.Tagline, langInstruction)
}

func buildScriptUserPrompt(topic *models.Topic, targetDurationSeconds int) string {
	return fmt.Sprintf(`Write a complete script of about %d seconds for this topic:

Title: %s
Hook: %s
Main points: %s
CTA: %s

Answer ONLY with the JSON object, no other text.`,
		targetDurationSeconds, topic.Title, topic.Hook,
		strings.Join(topic.MainPoints, "; "), topic.CTA)
}

type topicPayload struct {
	ContentType              string   `json:"content_type"`
	Title                    string   `json:"title"`
	Hook                     string   `json:"hook"`
	MainPoints               []string `json:"main_points"`
	CTA                      string   `json:"cta"`
	Hashtags                 []string `json:"hashtags"`
	EstimatedDurationSeconds int      `json:"estimated_duration_seconds"`
}

func parseTopics(raw, language string) ([]models.Topic, error) {
	cleaned := stripCodeFence(raw)

	var payload []topicPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse topics JSON: %w", err)
	}

	topics := make([]models.Topic, 0, len(payload))
	for _, p := range payload {
		if !models.ValidContentType(p.ContentType) {
			p.ContentType = models.ContentTypeSalesTip
		}
		if p.EstimatedDurationSeconds == 0 {
			p.EstimatedDurationSeconds = 45
		}
		topics = append(topics, models.Topic{
			ContentType:              p.ContentType,
			Title:                    p.Title,
			Hook:                     p.Hook,
			MainPoints:               p.MainPoints,
			CTA:                      p.CTA,
			Hashtags:                 p.Hashtags,
			EstimatedDurationSeconds: p.EstimatedDurationSeconds,
			Language:                 language,
			Status:                   models.TopicStatusPending,
		})
	}
	return topics, nil
}

type scriptPayload struct {
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Segments    []models.ScriptSegment `json:"segments"`
}

func parseScript(raw string) (*models.Script, error) {
	cleaned := stripCodeFence(raw)

	var payload scriptPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse script JSON: %w", err)
	}
	if err := models.ValidateSegments(payload.Segments); err != nil {
		return nil, fmt.Errorf("model returned unusable script: %w", err)
	}

	script := &models.Script{
		Title:       payload.Title,
		Description: payload.Description,
		Segments:    payload.Segments,
		FullText:    models.JoinSegments(payload.Segments),
	}
	for _, seg := range payload.Segments {
		script.TotalDurationSeconds += seg.DurationSeconds
	}
	return script, nil
}

// stripCodeFence removes a surrounding markdown code block, which the model
// adds despite being told not to.
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	parts := strings.SplitN(content, "```", 3)
	if len(parts) < 2 {
		return content
	}
	inner := parts[1]
	inner = strings.TrimPrefix(inner, "json")
	return strings.TrimSpace(inner)
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}

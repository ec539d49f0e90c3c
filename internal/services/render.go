package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"shortform-backend/internal/models"
)

const (
	creatomateBaseURL = "https://api.creatomate.com/v1"
	renderMaxWait     = 5 * time.Minute
	renderPollEvery   = 5 * time.Second
	renderSceneCount  = 4
)

// RenderService composes the final short with Creatomate: background
// footage, voice-over audio and four animated caption scenes.
type RenderService struct {
	apiKey     string
	templateID string
	httpClient *http.Client
	baseURL    string
	pollEvery  time.Duration
	maxWait    time.Duration
}

type renderRequest struct {
	TemplateID    string            `json:"template_id"`
	Modifications map[string]string `json:"modifications"`
}

type renderStatus struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	URL    string `json:"url"`
	Error  string `json:"error_message"`
}

func NewRenderService(apiKey, templateID string) *RenderService {
	return &RenderService{
		apiKey:     apiKey,
		templateID: templateID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:   creatomateBaseURL,
		pollEvery: renderPollEvery,
		maxWait:   renderMaxWait,
	}
}

// Render starts a template render and polls until it succeeds or fails.
// Returns the final video URL.
func (s *RenderService) Render(ctx context.Context, segments []models.ScriptSegment, audioURL, backgroundVideoURL string) (string, error) {
	if s.templateID == "" {
		return "", fmt.Errorf("creatomate template id not configured")
	}

	mods := buildModifications(segments, audioURL, backgroundVideoURL)

	render, err := s.startRender(ctx, mods)
	if err != nil {
		return "", err
	}

	deadline := time.Now().Add(s.maxWait)
	for {
		switch render.Status {
		case "succeeded":
			return render.URL, nil
		case "failed":
			if render.Error != "" {
				return "", fmt.Errorf("render failed: %s", render.Error)
			}
			return "", fmt.Errorf("render failed")
		}

		if time.Now().After(deadline) {
			return "", fmt.Errorf("render timed out after %s", s.maxWait)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(s.pollEvery):
		}

		render, err = s.getRender(ctx, render.ID)
		if err != nil {
			return "", err
		}
	}
}

func (s *RenderService) startRender(ctx context.Context, mods map[string]string) (*renderStatus, error) {
	data, err := json.Marshal(renderRequest{
		TemplateID:    s.templateID,
		Modifications: mods,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/renders", bytes.NewBuffer(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusAccepted {
		return nil, fmt.Errorf("creatomate error: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	// Creatomate returns a list with one render per template start.
	var renders []renderStatus
	if err := json.Unmarshal(body, &renders); err != nil {
		var single renderStatus
		if err := json.Unmarshal(body, &single); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		renders = []renderStatus{single}
	}
	if len(renders) == 0 || renders[0].ID == "" {
		return nil, fmt.Errorf("no render in creatomate response")
	}

	return &renders[0], nil
}

func (s *RenderService) getRender(ctx context.Context, id string) (*renderStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/renders/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("creatomate error: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var render renderStatus
	if err := json.Unmarshal(body, &render); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &render, nil
}

// buildModifications maps the script onto the template placeholders:
// the voice-over goes to Audio.source, the Veo clip backs all four
// scenes, and the captions go to Text-1 through Text-4.
func buildModifications(segments []models.ScriptSegment, audioURL, backgroundVideoURL string) map[string]string {
	mods := make(map[string]string)

	if audioURL != "" {
		mods["Audio.source"] = audioURL
	}
	if backgroundVideoURL != "" {
		for i := 1; i <= renderSceneCount; i++ {
			mods[fmt.Sprintf("Background-%d.source", i)] = backgroundVideoURL
		}
	}

	for i, text := range SceneTexts(segments) {
		mods[fmt.Sprintf("Text-%d.text", i+1)] = text
	}

	return mods
}

// SceneTexts collapses the script segments into exactly four caption
// texts. With more than four segments the tail is folded into the last
// caption; with fewer, the remaining captions stay empty so the
// template hides them.
func SceneTexts(segments []models.ScriptSegment) []string {
	texts := make([]string, renderSceneCount)

	for i, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		if i < renderSceneCount {
			texts[i] = text
			continue
		}
		if texts[renderSceneCount-1] == "" {
			texts[renderSceneCount-1] = text
		} else {
			texts[renderSceneCount-1] += " " + text
		}
	}

	return texts
}

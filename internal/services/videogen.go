package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	veoBaseURL     = "https://generativelanguage.googleapis.com/v1beta"
	veoModel       = "veo-2.0-generate-001"
	veoMaxWait     = 5 * time.Minute
	veoPollEvery   = 10 * time.Second
	veoNegative    = "celebrations, smiles, high energy, pointing, typing, selling, lifestyle, productivity, stock photo, obvious success, warm colors, upbeat, corporate happiness"
	veoHTTPTimeout = 2 * time.Minute
)

// Abstract scenes for background footage. Symbolic rather than
// illustrative, so the visual never mirrors the spoken line.
var abstractScenes = []string{
	"Empty modern glass corridor, slow tracking shot, person walking away in distance, muted cool tones, minimal, quiet tension",
	"Vast empty office floor after hours, single figure standing by window, city lights beyond, contemplative stillness, blue hour",
	"Glass elevator ascending slowly, lone figure inside, city below, reflection and reality merging, quiet isolation",
	"Person walking through empty parking garage, footsteps echoing, concrete brutalism, directionless movement",
	"Silhouette on escalator moving upward, no destination visible, liminal space, quiet ascent",
	"Office window at dusk, figure reflected but facing away, city becoming abstract lights, introspective moment",
	"Glass conference room, empty chairs, one person standing, reflection duplicating solitude",
	"Rain on window, blurred cityscape beyond, figure barely visible inside, contemplation",
	"Hands hovering over phone on desk, not touching, decision suspended, quiet paralysis",
	"Empty boardroom table, chairs pushed back, evidence of recent departure, aftermath",
	"Figure walking past rows of empty desks, systematic solitude, post-work liminal",
	"Train platform, figure standing still as train passes, blur of movement, stillness within chaos",
	"Coffee cup untouched on table, person gazing at nothing, thoughts elsewhere",
	"Stairwell between floors, figure paused mid-step, between states, uncertain direction",
}

// VideoGenService generates short abstract background clips through the
// Veo long-running REST endpoint on the Gemini API.
type VideoGenService struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	pollEvery  time.Duration
	maxWait    time.Duration
}

type veoStartRequest struct {
	Instances  []veoInstance `json:"instances"`
	Parameters veoParameters `json:"parameters"`
}

type veoInstance struct {
	Prompt string `json:"prompt"`
}

type veoParameters struct {
	AspectRatio     string `json:"aspectRatio"`
	DurationSeconds int    `json:"durationSeconds"`
	NumberOfVideos  int    `json:"sampleCount"`
	NegativePrompt  string `json:"negativePrompt"`
}

type veoOperation struct {
	Name  string `json:"name"`
	Done  bool   `json:"done"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
	Response struct {
		GenerateVideoResponse struct {
			GeneratedSamples []struct {
				Video struct {
					URI string `json:"uri"`
				} `json:"video"`
			} `json:"generatedSamples"`
		} `json:"generateVideoResponse"`
	} `json:"response"`
}

func NewVideoGenService(apiKey string) *VideoGenService {
	return &VideoGenService{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: veoHTTPTimeout,
		},
		baseURL:   veoBaseURL,
		pollEvery: veoPollEvery,
		maxWait:   veoMaxWait,
	}
}

// Generate starts a Veo render for the given prompt, waits for it to
// complete and downloads the resulting clip. Returns the operation name
// (kept as generation_id on the video row) and the MP4 bytes.
func (s *VideoGenService) Generate(ctx context.Context, prompt string) (string, []byte, error) {
	op, err := s.startGeneration(ctx, prompt)
	if err != nil {
		return "", nil, err
	}
	name := op.Name

	deadline := time.Now().Add(s.maxWait)
	for !op.Done {
		if time.Now().After(deadline) {
			return name, nil, fmt.Errorf("video generation timed out after %s", s.maxWait)
		}

		select {
		case <-ctx.Done():
			return name, nil, ctx.Err()
		case <-time.After(s.pollEvery):
		}

		next, err := s.pollOperation(ctx, name)
		if err != nil {
			return name, nil, fmt.Errorf("poll failed: %w", err)
		}
		op = next
	}

	if op.Error != nil {
		return name, nil, fmt.Errorf("video generation failed: %s", op.Error.Message)
	}

	samples := op.Response.GenerateVideoResponse.GeneratedSamples
	if len(samples) == 0 {
		return name, nil, fmt.Errorf("no video in generation response")
	}

	data, err := s.download(ctx, samples[0].Video.URI)
	if err != nil {
		return name, nil, err
	}

	return name, data, nil
}

func (s *VideoGenService) startGeneration(ctx context.Context, prompt string) (*veoOperation, error) {
	reqBody := veoStartRequest{
		Instances: []veoInstance{{Prompt: prompt}},
		Parameters: veoParameters{
			AspectRatio:     "9:16",
			DurationSeconds: 8,
			NumberOfVideos:  1,
			NegativePrompt:  veoNegative,
		},
	}

	data, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:predictLongRunning?key=%s", s.baseURL, veoModel, url.QueryEscape(s.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var op veoOperation
	if err := s.doJSON(req, &op); err != nil {
		return nil, err
	}
	if op.Name == "" {
		return nil, fmt.Errorf("no operation name in generation response")
	}

	return &op, nil
}

func (s *VideoGenService) pollOperation(ctx context.Context, name string) (*veoOperation, error) {
	endpoint := fmt.Sprintf("%s/%s?key=%s", s.baseURL, name, url.QueryEscape(s.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var op veoOperation
	if err := s.doJSON(req, &op); err != nil {
		return nil, err
	}
	if op.Name == "" {
		op.Name = name
	}

	return &op, nil
}

func (s *VideoGenService) download(ctx context.Context, fileURI string) ([]byte, error) {
	sep := "?"
	if strings.Contains(fileURI, "?") {
		sep = "&"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURI+sep+"key="+url.QueryEscape(s.apiKey), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download video: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("video download failed: %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read video body: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty video download")
	}

	return data, nil
}

func (s *VideoGenService) doJSON(req *http.Request, out any) error {
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("veo api error: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// BuildVideoPrompt picks an abstract, symbolic scene for the background
// footage. The clip stands in for the topic as a mood, never as
// illustration, so the prompt is independent of the script text.
func BuildVideoPrompt() string {
	scene := abstractScenes[rand.Intn(len(abstractScenes))]

	return fmt.Sprintf(`Abstract cinematic vertical video (9:16).

Visual metaphor for B2B decision-making and stalled progress.

SCENE: %s

STYLE:
- Minimalist
- Quiet
- Observational
- Slightly tense
- No obvious success or failure

CAMERA:
- Slow tracking shots
- Static frames with subtle movement
- Shallow depth of field

COLOR:
- Muted tones
- Cool or neutral grading
- Slight desaturation

STRICTLY AVOID:
- Celebrations
- Smiles
- High energy
- Obvious sales scenes
- Stock photo aesthetics
- Victory moments

NO text overlays.
NO watermarks.

The visual should lag behind the spoken text. Never illustrate the
sentence being spoken. The video should feel like a thought, not an ad.`, scene)
}

package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	elevenLabsBaseURL = "https://api.elevenlabs.io/v1/text-to-speech"
	ttsModel          = "eleven_multilingual_v2"
	ttsTimeout        = 60 * time.Second
)

// TTSService converts script text to voice-over audio via the ElevenLabs API.
type TTSService struct {
	apiKey     string
	voiceID    string
	httpClient *http.Client
	baseURL    string
}

type ttsRequest struct {
	Text          string           `json:"text"`
	ModelID       string           `json:"model_id"`
	VoiceSettings ttsVoiceSettings `json:"voice_settings"`
}

type ttsVoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type ttsErrorResponse struct {
	Detail struct {
		Message string `json:"message"`
	} `json:"detail"`
}

func NewTTSService(apiKey, voiceID string) *TTSService {
	return &TTSService{
		apiKey:  apiKey,
		voiceID: voiceID,
		httpClient: &http.Client{
			Timeout: ttsTimeout,
		},
		baseURL: elevenLabsBaseURL,
	}
}

// Synthesize returns MP3 bytes for the given text.
func (s *TTSService) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if text == "" {
		return nil, fmt.Errorf("text is empty")
	}

	reqBody := ttsRequest{
		Text:    text,
		ModelID: ttsModel,
		VoiceSettings: ttsVoiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.75,
		},
	}

	data, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s", s.baseURL, s.voiceID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", s.apiKey)

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
		var errResp ttsErrorResponse
		if jsonErr := json.Unmarshal(body, &errResp); jsonErr == nil && errResp.Detail.Message != "" {
			return nil, fmt.Errorf("elevenlabs error: %s", errResp.Detail.Message)
		}
		return nil, fmt.Errorf("elevenlabs error: %s", resp.Status)
	}

	if len(body) == 0 {
		return nil, fmt.Errorf("empty response from elevenlabs api")
	}

	return body, nil
}

func (s *TTSService) VoiceID() string {
	return s.voiceID
}

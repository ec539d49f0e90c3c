package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	youtubeUploadURL = "https://www.googleapis.com/upload/youtube/v3/videos"
	youtubeVideosURL = "https://www.googleapis.com/youtube/v3/videos"
	youtubeCategory  = "22"
)

var youtubeScopes = []string{
	"https://www.googleapis.com/auth/youtube.upload",
	"https://www.googleapis.com/auth/youtube.readonly",
}

// YouTubeService uploads finished shorts and reads back their public
// statistics. Auth runs on a long-lived refresh token so the pipeline
// never needs an interactive consent flow.
type YouTubeService struct {
	config       *oauth2.Config
	refreshToken string

	httpClient *http.Client // overrides oauth client when set
	uploadURL  string
	videosURL  string
}

type ytUploadResponse struct {
	ID string `json:"id"`
}

type ytSnippet struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	CategoryID  string   `json:"categoryId"`
}

type ytStatus struct {
	PrivacyStatus string `json:"privacyStatus"`
}

type ytMetadata struct {
	Snippet ytSnippet `json:"snippet"`
	Status  ytStatus  `json:"status"`
}

type ytStatsResponse struct {
	Items []struct {
		ID         string `json:"id"`
		Statistics struct {
			ViewCount    string `json:"viewCount"`
			LikeCount    string `json:"likeCount"`
			CommentCount string `json:"commentCount"`
		} `json:"statistics"`
	} `json:"items"`
}

// VideoStats holds the public counters for one uploaded video.
type VideoStats struct {
	Views    int
	Likes    int
	Comments int
}

func NewYouTubeService(clientID, clientSecret, refreshToken string) *YouTubeService {
	return &YouTubeService{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       youtubeScopes,
		},
		refreshToken: refreshToken,
		uploadURL:    youtubeUploadURL,
		videosURL:    youtubeVideosURL,
	}
}

func (s *YouTubeService) client(ctx context.Context) *http.Client {
	if s.httpClient != nil {
		return s.httpClient
	}
	token := &oauth2.Token{RefreshToken: s.refreshToken}
	return oauth2.NewClient(ctx, s.config.TokenSource(ctx, token))
}

// Upload fetches the rendered video from its URL and posts it to the
// YouTube multipart upload endpoint. Titles get the #Shorts suffix so
// YouTube routes them into the Shorts feed.
func (s *YouTubeService) Upload(ctx context.Context, videoURL, title, description string, tags []string, privacy string) (string, error) {
	videoData, err := s.fetchVideo(ctx, videoURL)
	if err != nil {
		return "", err
	}

	metadata := ytMetadata{
		Snippet: ytSnippet{
			Title:       ShortsTitle(title),
			Description: description,
			Tags:        tags,
			CategoryID:  youtubeCategory,
		},
		Status: ytStatus{PrivacyStatus: privacy},
	}

	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return "", fmt.Errorf("failed to marshal metadata: %w", err)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	metadataPart, err := writer.CreateFormField("snippet")
	if err != nil {
		return "", fmt.Errorf("failed to create metadata part: %w", err)
	}
	if _, err := metadataPart.Write(metadataJSON); err != nil {
		return "", fmt.Errorf("failed to write metadata: %w", err)
	}

	videoPart, err := writer.CreateFormFile("file", "short.mp4")
	if err != nil {
		return "", fmt.Errorf("failed to create video part: %w", err)
	}
	if _, err := io.Copy(videoPart, bytes.NewReader(videoData)); err != nil {
		return "", fmt.Errorf("failed to copy video: %w", err)
	}

	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %w", err)
	}

	uploadEndpoint := fmt.Sprintf("%s?uploadType=multipart&part=snippet,status", s.uploadURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadEndpoint, body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.client(ctx).Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to upload video: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upload failed: %s: %s", resp.Status, strings.TrimSpace(string(respBody)))
	}

	var uploadResp ytUploadResponse
	if err := json.Unmarshal(respBody, &uploadResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if uploadResp.ID == "" {
		return "", fmt.Errorf("no video id in upload response")
	}

	return uploadResp.ID, nil
}

// FetchStats returns view and like counts per YouTube video id. IDs
// absent from the response (deleted or private videos) are omitted.
func (s *YouTubeService) FetchStats(ctx context.Context, ids []string) (map[string]VideoStats, error) {
	if len(ids) == 0 {
		return map[string]VideoStats{}, nil
	}

	endpoint := fmt.Sprintf("%s?part=statistics&id=%s", s.videosURL, url.QueryEscape(strings.Join(ids, ",")))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client(ctx).Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stats: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stats request failed: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var statsResp ytStatsResponse
	if err := json.Unmarshal(body, &statsResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	stats := make(map[string]VideoStats, len(statsResp.Items))
	for _, item := range statsResp.Items {
		views, _ := strconv.Atoi(item.Statistics.ViewCount)
		likes, _ := strconv.Atoi(item.Statistics.LikeCount)
		comments, _ := strconv.Atoi(item.Statistics.CommentCount)
		stats[item.ID] = VideoStats{Views: views, Likes: likes, Comments: comments}
	}

	return stats, nil
}

func (s *YouTubeService) fetchVideo(ctx context.Context, videoURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, videoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}

	client := s.httpClient
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Minute}
	}

	resp, err := client.Do(req)
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

// ShortsTitle appends the #Shorts marker unless the title already
// carries one.
func ShortsTitle(title string) string {
	if strings.Contains(strings.ToLower(title), "#shorts") {
		return title
	}
	return strings.TrimSpace(title) + " #Shorts"
}

package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	metadata "github.com/prakharstech/VideoCreation/06_metadata"
	"github.com/prakharstech/VideoCreation/config"
	"github.com/prakharstech/VideoCreation/types"
)

// Uploader publishes the finished video via the YouTube Data API v3
type Uploader struct {
	cfg   *config.Config
	creds config.Credentials
}

// New creates an Uploader
func New(cfg *config.Config, creds config.Credentials) *Uploader {
	return &Uploader{cfg: cfg, creds: creds}
}

// Run uploads the video with its metadata and returns the video ID and URL
func (u *Uploader) Run(ctx context.Context, videoFile string, meta *metadata.VideoMetadata) (string, string, error) {
	log.Println("[upload] Authenticating with YouTube API...")

	client, err := u.oauthClient(ctx)
	if err != nil {
		return "", "", err
	}

	svc, err := youtube.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return "", "", &types.BackendError{Backend: "youtube", Cause: err}
	}

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:                meta.Title,
			Description:          meta.Description,
			Tags:                 meta.Tags,
			CategoryId:           meta.CategoryID,
			DefaultLanguage:      u.cfg.Upload.DefaultLanguage,
			DefaultAudioLanguage: u.cfg.Upload.DefaultLanguage,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           meta.Visibility,
			SelfDeclaredMadeForKids: u.cfg.Upload.MadeForKids,
		},
	}

	f, err := os.Open(videoFile)
	if err != nil {
		return "", "", fmt.Errorf("open video file: %w", err)
	}
	defer f.Close()

	fi, _ := f.Stat()
	log.Printf("[upload] Uploading %q (%.1f MB)...", meta.Title, float64(fi.Size())/1024/1024)

	call := svc.Videos.Insert([]string{"snippet", "status"}, video)
	call.NotifySubscribers(u.cfg.Upload.NotifySubscribers)
	call.Media(f)
	uploaded, err := call.Do()
	if err != nil {
		return "", "", &types.BackendError{Backend: "youtube", Cause: err}
	}

	videoURL := fmt.Sprintf("https://www.youtube.com/watch?v=%s", uploaded.Id)
	log.Printf("[upload] ✅ Uploaded: %s", videoURL)
	return uploaded.Id, videoURL, nil
}

// oauthClient builds an HTTP client from the refresh-token credentials
func (u *Uploader) oauthClient(ctx context.Context) (*http.Client, error) {
	if u.creds.YouTubeClientID == "" || u.creds.YouTubeClientSecret == "" || u.creds.YouTubeRefreshToken == "" {
		return nil, &types.ConfigError{Msg: "YOUTUBE_CLIENT_ID, YOUTUBE_CLIENT_SECRET and YOUTUBE_REFRESH_TOKEN are required for --upload"}
	}

	conf := &oauth2.Config{
		ClientID:     u.creds.YouTubeClientID,
		ClientSecret: u.creds.YouTubeClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{youtube.YoutubeUploadScope, youtube.YoutubeScope},
	}
	token := &oauth2.Token{
		RefreshToken: u.creds.YouTubeRefreshToken,
		Expiry:       time.Now().Add(-time.Hour), // force refresh
	}
	return oauth2.NewClient(ctx, conf.TokenSource(ctx, token)), nil
}

// LogUpload saves the upload result next to the run's other artifacts
func LogUpload(runDir, videoID, videoURL, videoFile string, meta *metadata.VideoMetadata) error {
	entry := map[string]interface{}{
		"video_id":    videoID,
		"video_url":   videoURL,
		"title":       meta.Title,
		"video_file":  videoFile,
		"uploaded_at": time.Now().UTC().Format(time.RFC3339),
	}
	data, _ := json.MarshalIndent(entry, "", "  ")
	return os.WriteFile(filepath.Join(runDir, "upload.json"), data, 0644)
}

// internal/voice/recognizer.go
package voice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"recruit-workers/internal/common/config"
	apperrors "recruit-workers/internal/common/errors"
	commonhttp "recruit-workers/internal/common/http"
)

const defaultLanguage = "en-US"

// HTTPRecognizer calls a JSON speech-to-text endpoint.
type HTTPRecognizer struct {
	client   *commonhttp.Client
	endpoint string
	language string
}

type recognizeRequest struct {
	AudioURL string `json:"audioUrl"`
	Language string `json:"language"`
}

type recognizeResponse struct {
	Transcript string  `json:"transcript"`
	Confidence float64 `json:"confidence"`
	Error      string  `json:"error,omitempty"`
}

// NewRecognizer returns nil when voice is disabled or has no base URL.
func NewRecognizer(cfg config.VoiceConfig) Recognizer {
	if !cfg.Enabled || cfg.BaseURL == "" {
		return nil
	}

	timeout := time.Duration(cfg.Timeout) * time.Millisecond
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	client := commonhttp.NewClient(timeout)
	if cfg.APIKey != "" {
		client = client.WithHeader("Authorization", "Bearer "+cfg.APIKey)
	}

	language := cfg.Language
	if language == "" {
		language = defaultLanguage
	}

	return &HTTPRecognizer{
		client:   client,
		endpoint: strings.TrimSuffix(cfg.BaseURL, "/") + "/v1/recognize",
		language: language,
	}
}

func (r *HTTPRecognizer) Recognize(ctx context.Context, req Request) (string, error) {
	if req.AudioURL == "" {
		return "", apperrors.NewVoiceRecognitionError("audio-capture")
	}

	language := req.Language
	if language == "" {
		language = r.language
	}

	var resp recognizeResponse
	err := r.client.PostJSON(ctx, r.endpoint, recognizeRequest{AudioURL: req.AudioURL, Language: language}, &resp)
	if err != nil {
		var statusErr *commonhttp.StatusError
		if errors.As(err, &statusErr) {
			return "", apperrors.NewVoiceRecognitionError(fmt.Sprintf("recognizer status %d", statusErr.StatusCode))
		}
		return "", apperrors.NewVoiceRecognitionError("network")
	}
	if resp.Error != "" {
		return "", apperrors.NewVoiceRecognitionError(resp.Error)
	}
	return resp.Transcript, nil
}

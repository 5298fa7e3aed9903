package observability

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type lokiClient struct {
	url        string
	username   string
	apiKey     string
	httpClient *http.Client
	enabled    bool
	appName    string
}

// Loki Push API format
type lokiPushRequest struct {
	Streams []lokiStream `json:"streams"`
}

type lokiStream struct {
	Stream map[string]string `json:"stream"`
	Values [][]string        `json:"values"`
}

var loki *lokiClient

func initLoki() {
	url := os.Getenv("LOKI_URL")
	username := os.Getenv("LOKI_USER")
	apiKey := os.Getenv("LOKI_API_KEY")

	appName := os.Getenv("APP_ENV")
	if appName == "" {
		appName = "canvas-mcp"
	}

	if url == "" || username == "" || apiKey == "" {
		loki = &lokiClient{enabled: false}
		return
	}

	loki = &lokiClient{
		url:        url + "/loki/api/v1/push",
		username:   username,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		enabled:    true,
		appName:    appName,
	}
	log.Info().Msg("Loki client initialized")
}

// pushLoki ships one event asynchronously; failures are logged, never fatal.
func pushLoki(event string, data map[string]any) {
	if loki == nil || !loki.enabled {
		return
	}
	go loki.push(event, data)
}

func (c *lokiClient) push(event string, data map[string]any) {
	labels := map[string]string{
		"app":   c.appName,
		"event": event,
	}

	dataJSON, err := json.Marshal(data)
	if err != nil {
		log.Warn().Err(err).Msg("Loki: failed to marshal data")
		return
	}

	timestamp := strconv.FormatInt(time.Now().UnixNano(), 10)
	req := lokiPushRequest{
		Streams: []lokiStream{
			{
				Stream: labels,
				Values: [][]string{{timestamp, string(dataJSON)}},
			},
		},
	}

	body, err := json.Marshal(req)
	if err != nil {
		log.Warn().Err(err).Msg("Loki: failed to marshal request")
		return
	}

	httpReq, err := http.NewRequest(http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		log.Warn().Err(err).Msg("Loki: failed to create request")
		return
	}
	httpReq.SetBasicAuth(c.username, c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Warn().Err(err).Msg("Loki: failed to send")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Warn().Int("status", resp.StatusCode).Msg("Loki: unexpected status code")
	}
}

package webhook

import (
	"fmt"
	"net/http"
	"time"

	"github.com/hr3lxphr6j/requests"
)

// Send posts a notification to url. The payload travels as query
// parameters so that any endpoint accepting a bare POST can consume it.
func Send(session *requests.Session, url string, timeout time.Duration, params map[string]string) error {
	if session == nil {
		session = requests.DefaultSession
	}
	opts := []requests.RequestOption{
		requests.Headers(map[string]interface{}{
			"User-Agent": "eventdispatcher-webhook",
		}),
	}
	for k, v := range params {
		opts = append(opts, requests.Query(k, v))
	}
	if timeout > 0 {
		opts = append(opts, requests.Deadline(time.Now().Add(timeout)))
	}
	req, err := requests.NewRequest(http.MethodPost, url, opts...)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := session.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	body, err := resp.Bytes()
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status code: %d, response: %s", resp.StatusCode, body)
	}
	return nil
}

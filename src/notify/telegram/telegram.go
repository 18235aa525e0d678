package telegram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// APIBase is the Telegram Bot API endpoint.
var APIBase = "https://api.telegram.org"

type TelegramMessage struct {
	ChatID              string `json:"chat_id"`
	Text                string `json:"text"`
	DisableNotification bool   `json:"disable_notification,omitempty"`
}

// SendMessage 发送Telegram消息
// withNotification参数控制是否发送带通知的消息
// true表示发送带提醒的消息，false表示发送静默消息
func SendMessage(token, chatID, message string, withNotification bool) error {
	// 确保token不包含"bot"前缀，因为URL中已经添加了
	token = strings.TrimPrefix(token, "bot")
	url := fmt.Sprintf("%s/bot%s/sendMessage", APIBase, token)

	msg := TelegramMessage{
		ChatID:              chatID,
		Text:                message,
		DisableNotification: !withNotification,
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var respBody bytes.Buffer
		if _, err := respBody.ReadFrom(resp.Body); err != nil {
			return fmt.Errorf("unexpected status code: %d, failed to read response body: %v", resp.StatusCode, err)
		}
		return fmt.Errorf("unexpected status code: %d, response: %s", resp.StatusCode, respBody.String())
	}

	return nil
}

package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const expoPushURL = "https://exp.host/--/api/v2/push/send"

// ExpoPushMessage represents a single push notification message for the Expo push API
type ExpoPushMessage struct {
	To    string                 `json:"to"`
	Title string                 `json:"title,omitempty"`
	Body  string                 `json:"body,omitempty"`
	Sound string                 `json:"sound,omitempty"`
	Data  map[string]interface{} `json:"data,omitempty"`
}

// joinRequestMessage is shown to a trip owner when someone asks to join
func joinRequestMessage(requesterName, tripTitle, destination string) (string, string) {
	title := "New Join Request 🚀"
	body := fmt.Sprintf("%s has requested to join your trip %q to %s. Tap to accept or reject.", requesterName, tripTitle, destination)
	return title, body
}

// requestAcceptedMessage is shown to a requester once the owner accepts
func requestAcceptedMessage(ownerName string) (string, string) {
	title := "Request Accepted 🎉"
	body := fmt.Sprintf("Your request to join the trip has been accepted by %s.", ownerName)
	return title, body
}

// SendExpoPushNotification delivers a push message to a single Expo token.
// Users who never granted notification permission have no token stored, so
// an empty token is a silent no-op.
func SendExpoPushNotification(token, title, body string, data map[string]interface{}) error {
	if token == "" {
		return nil
	}

	message := ExpoPushMessage{
		To:    token,
		Title: title,
		Body:  body,
		Sound: "default",
		Data:  data,
	}

	jsonData, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal push message: %w", err)
	}

	client := &http.Client{Timeout: 15 * time.Second}
	req, err := http.NewRequest("POST", expoPushURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create push request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, deflate")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send push request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("expo push API returned status %d", resp.StatusCode)
	}

	zap.S().Infof("sent push notification to token %s…", token[:min(8, len(token))])
	return nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

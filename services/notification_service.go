package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Notifier delivers the "your note is ready" message. Dispatch is
// best-effort: callers run it detached and only log failures.
type Notifier interface {
	Send(recipient, folio, noteID string) error
}

type NotificationService struct {
	baseURL    string
	apiBaseURL string
	http       *http.Client
}

func NewNotificationService(baseURL, apiBaseURL string) *NotificationService {
	return &NotificationService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiBaseURL: strings.TrimRight(apiBaseURL, "/"),
		http:       &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *NotificationService) Send(recipient, folio, noteID string) error {
	payload, _ := json.Marshal(map[string]string{
		"recipient":    recipient,
		"folio":        folio,
		"downloadLink": s.apiBaseURL + "/api/sales-notes/" + noteID + "/pdf",
	})

	resp, err := s.http.Post(s.baseURL+"/api/notifications/send", "application/json", bytes.NewReader(payload))
	if err != nil {
		return &CommunicationError{Collaborator: "notification", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return &CommunicationError{
			Collaborator: "notification",
			Err:          fmt.Errorf("notification api error %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}
	return nil
}

package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// AlertType represents different types of alerts
type AlertType string

const (
	AlertTypeContact      AlertType = "contact"
	AlertTypeRelayFailure AlertType = "relay_failure"
	AlertTypeDeadLetter   AlertType = "dead_letter"
	AlertTypeInfo         AlertType = "info"
)

// Priority levels for NTFY
type Priority int

const (
	PriorityMin     Priority = 1
	PriorityLow     Priority = 2
	PriorityDefault Priority = 3
	PriorityHigh    Priority = 4
	PriorityUrgent  Priority = 5
)

// NTFYConfig holds configuration for NTFY notifications
type NTFYConfig struct {
	ServerURL       string
	Topic           string
	Username        string // Optional basic auth
	Password        string // Optional basic auth
	Enabled         bool
	DefaultPriority Priority
	// MinGap throttles repeated alerts of the same type sent through SendAlert.
	MinGap time.Duration
	// ClickURL is opened when the host taps a contact notification.
	ClickURL string
}

// NTFYClient handles sending notifications via NTFY
type NTFYClient struct {
	config     NTFYConfig
	httpClient *http.Client
	mu         sync.Mutex

	lastAlerts map[AlertType]time.Time
	now        func() time.Time
}

// NTFYMessage represents a message to send
type NTFYMessage struct {
	Topic    string   `json:"topic"`
	Title    string   `json:"title,omitempty"`
	Message  string   `json:"message"`
	Priority int      `json:"priority,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Click    string   `json:"click,omitempty"`
}

// NewNTFYClient creates a new NTFY client
func NewNTFYClient(config NTFYConfig) *NTFYClient {
	if config.ServerURL == "" {
		config.ServerURL = "https://ntfy.sh"
	}
	if config.DefaultPriority == 0 {
		config.DefaultPriority = PriorityDefault
	}
	if config.MinGap == 0 {
		config.MinGap = 5 * time.Minute
	}

	return &NTFYClient{
		config: config,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		lastAlerts: make(map[AlertType]time.Time),
		now:        time.Now,
	}
}

// SendAlert sends a notification unless one of the same type went out within MinGap.
func (c *NTFYClient) SendAlert(ctx context.Context, alertType AlertType, title, message string, priority Priority) error {
	if !c.IsEnabled() {
		return nil
	}

	c.mu.Lock()
	now := c.now()
	if lastTime, ok := c.lastAlerts[alertType]; ok && now.Sub(lastTime) < c.config.MinGap {
		c.mu.Unlock()
		return nil
	}
	c.lastAlerts[alertType] = now
	c.mu.Unlock()

	return c.send(ctx, NTFYMessage{
		Title:    title,
		Message:  message,
		Priority: int(priority),
		Tags:     tagsForAlertType(alertType),
	})
}

// SendImmediate sends a notification immediately without rate limiting
func (c *NTFYClient) SendImmediate(ctx context.Context, title, message string, priority Priority, tags []string) error {
	if !c.IsEnabled() {
		return nil
	}
	return c.send(ctx, NTFYMessage{
		Title:    title,
		Message:  message,
		Priority: int(priority),
		Tags:     tags,
	})
}

func (c *NTFYClient) send(ctx context.Context, msg NTFYMessage) error {
	cfg := c.GetConfig()
	msg.Topic = cfg.Topic
	if msg.Priority == 0 {
		msg.Priority = int(cfg.DefaultPriority)
	}

	jsonData, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal NTFY message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.ServerURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create NTFY request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if cfg.Username != "" && cfg.Password != "" {
		req.SetBasicAuth(cfg.Username, cfg.Password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send NTFY notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("NTFY returned error status: %d", resp.StatusCode)
	}
	return nil
}

func tagsForAlertType(alertType AlertType) []string {
	switch alertType {
	case AlertTypeContact:
		return []string{"envelope", "house"}
	case AlertTypeRelayFailure:
		return []string{"warning", "outbox_tray"}
	case AlertTypeDeadLetter:
		return []string{"rotating_light", "x"}
	default:
		return []string{"information_source"}
	}
}

// AlertContactReceived tells the host a guest inquiry came in. It is never throttled.
func (c *NTFYClient) AlertContactReceived(ctx context.Context, name, email, subject string) error {
	if !c.IsEnabled() {
		return nil
	}
	return c.send(ctx, NTFYMessage{
		Title:    fmt.Sprintf("New inquiry: %s", subject),
		Message:  fmt.Sprintf("From %s <%s>", name, email),
		Priority: int(PriorityHigh),
		Tags:     tagsForAlertType(AlertTypeContact),
		Click:    c.GetConfig().ClickURL,
	})
}

// AlertRelayFailure reports that the outbox relay could not deliver.
func (c *NTFYClient) AlertRelayFailure(ctx context.Context, failed int, lastErr string) error {
	title := "Contact relay failing"
	message := fmt.Sprintf("%d submissions failed to deliver. Last: %s", failed, lastErr)
	return c.SendAlert(ctx, AlertTypeRelayFailure, title, message, PriorityHigh)
}

// AlertDeadLetter reports submissions parked for manual recovery.
func (c *NTFYClient) AlertDeadLetter(ctx context.Context, total int64) error {
	title := "Contact submissions need attention"
	message := fmt.Sprintf("%d submissions are in the dead-letter list", total)
	return c.SendAlert(ctx, AlertTypeDeadLetter, title, message, PriorityUrgent)
}

// IsEnabled returns whether notifications are enabled
func (c *NTFYClient) IsEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.config.Enabled && c.config.Topic != ""
}

// GetConfig returns the current configuration
func (c *NTFYClient) GetConfig() NTFYConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.config
}

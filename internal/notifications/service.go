package notifications

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"github.com/KeerthanaDeviGovindaraj/GLIMPSE-sub000/internal/config"
	"github.com/KeerthanaDeviGovindaraj/GLIMPSE-sub000/internal/models"
)

// Service sends operational alerts via configured channels. The generation
// pipeline raises alerts for deployment defects (a missing provider
// credential) so they are noticed before users notice the fallback content.
type Service struct {
	config *config.Config
	client *resty.Client
}

// Ensure Service implements NotificationInterface
var _ NotificationInterface = (*Service)(nil)

// TeamsMessage represents a Microsoft Teams message
type TeamsMessage struct {
	Type     string         `json:"@type"`
	Context  string         `json:"@context"`
	Title    string         `json:"title"`
	Text     string         `json:"text"`
	Sections []TeamsSection `json:"sections,omitempty"`
}

type TeamsSection struct {
	ActivityTitle string      `json:"activityTitle,omitempty"`
	ActivityText  string      `json:"activityText,omitempty"`
	Facts         []TeamsFact `json:"facts,omitempty"`
	Markdown      bool        `json:"markdown,omitempty"`
}

type TeamsFact struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// NewService creates a new notification service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		client: resty.New().SetTimeout(30 * time.Second),
	}
}

// SendAlert sends an alert via every configured channel. An alert with no
// configured channel is logged and dropped.
func (s *Service) SendAlert(alert *models.Alert) error {
	var errors []string

	if s.config.TeamsWebhookURL != "" {
		if err := s.sendToTeams(alert); err != nil {
			logrus.Errorf("Failed to send Teams alert: %v", err)
			errors = append(errors, fmt.Sprintf("Teams: %v", err))
		}
	}

	if s.config.AlertEmail != "" {
		if err := s.sendEmail(alert); err != nil {
			logrus.Errorf("Failed to send email alert: %v", err)
			errors = append(errors, fmt.Sprintf("Email: %v", err))
		}
	}

	if s.config.TeamsWebhookURL == "" && s.config.AlertEmail == "" {
		logrus.Warnf("No alert channel configured, dropping alert: %s - %s", alert.Type, alert.Title)
		return nil
	}

	if len(errors) > 0 {
		return fmt.Errorf("notification errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

func (s *Service) sendToTeams(alert *models.Alert) error {
	message := &TeamsMessage{
		Type:    "MessageCard",
		Context: "https://schema.org/extensions",
		Title:   alert.Title,
		Text:    alert.Message,
		Sections: []TeamsSection{
			{
				ActivityTitle: "Details",
				Facts: []TeamsFact{
					{Name: "Severity", Value: alert.Type},
					{Name: "Raised", Value: alert.CreatedAt.Format("2006-01-02 15:04:05 UTC")},
				},
				Markdown: true,
			},
		},
	}

	resp, err := s.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(message).
		Post(s.config.TeamsWebhookURL)

	if err != nil {
		return fmt.Errorf("failed to send Teams message: %w", err)
	}

	if resp.StatusCode() != 200 {
		return fmt.Errorf("Teams webhook returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	return nil
}

func (s *Service) sendEmail(alert *models.Alert) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.config.SMTPUsername)
	m.SetHeader("To", s.config.AlertEmail)
	m.SetHeader("Subject", fmt.Sprintf("[%s] %s", strings.ToUpper(alert.Type), alert.Title))
	m.SetBody("text/plain", fmt.Sprintf("%s\n\nRaised: %s\n",
		alert.Message, alert.CreatedAt.Format("2006-01-02 15:04:05 UTC")))

	d := gomail.NewDialer(s.config.SMTPHost, s.config.SMTPPort, s.config.SMTPUsername, s.config.SMTPPassword)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

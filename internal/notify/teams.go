package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"javadocbot/internal/models"
)

// TeamsNotifier posts a MessageCard summary to an incoming webhook.
type TeamsNotifier struct {
	webhookURL string
	client     *http.Client
}

func NewTeamsNotifier(webhookURL string) *TeamsNotifier {
	return &TeamsNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (t *TeamsNotifier) Name() string { return "teams" }

type teamsCard struct {
	Type       string         `json:"@type"`
	Context    string         `json:"@context"`
	Summary    string         `json:"summary"`
	ThemeColor string         `json:"themeColor"`
	Title      string         `json:"title"`
	Sections   []teamsSection `json:"sections"`
}

type teamsSection struct {
	Facts []teamsFact `json:"facts"`
	Text  string      `json:"text,omitempty"`
}

type teamsFact struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (t *TeamsNotifier) Send(report *models.RunReport) error {
	color := "2DC72D"
	if len(report.Failures) > 0 {
		color = "E8A33D"
	}

	facts := []teamsFact{
		{Name: "Mode", Value: string(report.Mode)},
		{Name: "Files documented", Value: fmt.Sprintf("%d of %d resolved", report.TotalFiles(), report.FilesResolved)},
		{Name: "Classes", Value: fmt.Sprintf("%d", report.TotalClasses())},
		{Name: "Methods", Value: fmt.Sprintf("%d", report.TotalMethods())},
	}
	if report.Branch != "" {
		facts = append(facts, teamsFact{Name: "Branch", Value: report.Branch})
	}
	if report.DryRun {
		facts = append(facts, teamsFact{Name: "Dry run", Value: "yes"})
	}

	section := teamsSection{Facts: facts}
	if n := len(report.Failures); n > 0 {
		section.Text = fmt.Sprintf("%d files failed, see the email report for details.", n)
	}

	card := teamsCard{
		Type:       "MessageCard",
		Context:    "http://schema.org/extensions",
		Summary:    "Javadoc generation report",
		ThemeColor: color,
		Title:      fmt.Sprintf("Javadoc generation run of %s", report.Date),
		Sections:   []teamsSection{section},
	}

	body, err := json.Marshal(card)
	if err != nil {
		return fmt.Errorf("failed to marshal teams card: %w", err)
	}
	resp, err := t.client.Post(t.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to post to teams webhook: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("teams webhook returned status %d", resp.StatusCode)
	}
	return nil
}

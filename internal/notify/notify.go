// Package notify delivers the end-of-run report to the configured channels.
package notify

import (
	"fmt"
	"log"
	"strings"

	"javadocbot/internal/models"
)

// Notifier delivers a run report over one channel.
type Notifier interface {
	Name() string
	Send(report *models.RunReport) error
}

// MultiNotifier fans a report out to every channel and collects the
// failures: one broken channel never blocks the others.
type MultiNotifier struct {
	notifiers []Notifier
}

func NewMultiNotifier(notifiers ...Notifier) *MultiNotifier {
	return &MultiNotifier{notifiers: notifiers}
}

func (m *MultiNotifier) Name() string { return "multi" }

func (m *MultiNotifier) Send(report *models.RunReport) error {
	var failed []string
	for _, n := range m.notifiers {
		if err := n.Send(report); err != nil {
			log.Printf("notifier %s failed: %v", n.Name(), err)
			failed = append(failed, fmt.Sprintf("%s: %v", n.Name(), err))
			continue
		}
		log.Printf("report delivered via %s", n.Name())
	}
	if len(failed) > 0 {
		return fmt.Errorf("some notifiers failed: %s", strings.Join(failed, "; "))
	}
	return nil
}

// NoopNotifier is used when no channel is configured; the report still lands
// in the log.
type NoopNotifier struct{}

func (NoopNotifier) Name() string { return "log" }

func (NoopNotifier) Send(report *models.RunReport) error {
	log.Printf("run report:\n%s", RenderText(report))
	return nil
}

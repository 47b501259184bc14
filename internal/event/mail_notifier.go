package event

import (
	"context"
	"fmt"
	"html"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/model"
	"github.com/t3ch-N/mAGICAL-clone-sub001/pkg/mailer"
)

type mailJob struct {
	to      string
	subject string
	body    string
}

// MailNotifier e-mails applicants when their submission is approved, rejected
// or given a tee time. Sending happens on a background worker so a slow SMTP
// relay never holds up the request that emitted the event.
type MailNotifier struct {
	sender mailer.Sender
	logger *zap.Logger
	jobs   chan mailJob
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewMailNotifier starts the worker. Call Close to drain it.
func NewMailNotifier(sender mailer.Sender, logger *zap.Logger, queueSize int) *MailNotifier {
	if queueSize <= 0 {
		queueSize = 64
	}
	n := &MailNotifier{sender: sender, logger: logger, jobs: make(chan mailJob, queueSize)}
	n.wg.Add(1)
	go n.run()
	return n
}

func (n *MailNotifier) run() {
	defer n.wg.Done()
	for job := range n.jobs {
		if err := n.sender.Send([]string{job.to}, job.subject, job.body); err != nil {
			n.logger.Error("send notification failed", zap.String("to", job.to), zap.Error(err))
		}
	}
}

// Name implements Subscriber.
func (n *MailNotifier) Name() string { return "mail" }

// Handle implements Subscriber. Events without an applicant e-mail or with an
// uninteresting status are skipped.
func (n *MailNotifier) Handle(_ context.Context, e Event) error {
	if e.Applicant.Email == "" {
		return nil
	}
	subject, body, ok := render(e)
	if !ok {
		return nil
	}
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		return fmt.Errorf("mail notifier closed, dropping notification for %s", e.SubmissionID)
	}
	select {
	case n.jobs <- mailJob{to: e.Applicant.Email, subject: subject, body: body}:
		return nil
	default:
		return fmt.Errorf("mail queue full, dropping notification for %s", e.SubmissionID)
	}
}

// Close stops accepting jobs and waits for queued mail to be sent. Handle
// calls after Close return an error. Safe to call more than once.
func (n *MailNotifier) Close() {
	n.mu.Lock()
	if !n.closed {
		n.closed = true
		close(n.jobs)
	}
	n.mu.Unlock()
	n.wg.Wait()
}

var moduleTitles = map[model.ModuleType]string{
	model.ModuleVolunteers:  "volunteer registration",
	model.ModuleVendors:     "vendor accreditation",
	model.ModuleMedia:       "media accreditation",
	model.ModuleProAm:       "Pro-Am registration",
	model.ModuleProcurement: "tender submission",
	model.ModuleJobs:        "job application",
}

func render(e Event) (subject, body string, ok bool) {
	title := moduleTitles[e.ModuleType]
	if title == "" {
		title = "application"
	}
	name := e.Applicant.Name
	if name == "" {
		name = "Applicant"
	}

	var line string
	switch {
	case e.Type == TypeAssigned:
		subject = "Magical Kenya Open: your tee time is confirmed"
		line = "Your " + title + " has been assigned a tee time. Reference: " + e.SlotID + "."
	case e.Type == TypeTransitioned && e.To == model.StatusApproved:
		subject = "Magical Kenya Open: " + title + " approved"
		line = "Your " + title + " has been approved."
	case e.Type == TypeTransitioned && e.To == model.StatusRejected:
		subject = "Magical Kenya Open: " + title + " update"
		line = "Unfortunately your " + title + " was not successful this year."
	default:
		return "", "", false
	}

	var b strings.Builder
	b.WriteString("<p>Dear " + html.EscapeString(name) + ",</p>")
	b.WriteString("<p>" + html.EscapeString(line) + "</p>")
	b.WriteString("<p>Submission reference: " + html.EscapeString(e.SubmissionID) + "</p>")
	b.WriteString("<p>Magical Kenya Open Accreditation Team</p>")
	return subject, b.String(), true
}

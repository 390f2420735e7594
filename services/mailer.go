package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

// Email is one outbound notification. Lifecycle operations build these and
// hand them to the outbox; nothing in the booking flow ever waits on delivery.
type Email struct {
	ToName  string
	ToEmail string
	Subject string
	HTML    string
}

// Sender performs the actual delivery of a single email.
type Sender interface {
	Send(e Email) error
}

// Outbox accepts emails for asynchronous delivery.
type Outbox interface {
	Enqueue(e Email)
}

// Mail is the process-wide outbound queue. main() swaps in the real sender;
// tests swap in a recorder.
var Mail Outbox = NewMailQueue(&LogSender{})

// MailQueue is a buffered in-process outbox with a single consumer goroutine.
// Delivery failures are logged and dropped, never propagated to the caller.
type MailQueue struct {
	sender Sender
	ch     chan Email
}

func NewMailQueue(sender Sender) *MailQueue {
	q := &MailQueue{sender: sender, ch: make(chan Email, 64)}
	go q.run()
	return q
}

func (q *MailQueue) run() {
	for e := range q.ch {
		if err := q.sender.Send(e); err != nil {
			log.Printf("MAIL ERROR: failed to send %q to %s: %v", e.Subject, e.ToEmail, err)
		}
	}
}

func (q *MailQueue) Enqueue(e Email) {
	select {
	case q.ch <- e:
	default:
		log.Printf("MAIL ERROR: outbox full, dropping %q to %s", e.Subject, e.ToEmail)
	}
}

// NewSenderFromEnv returns the Resend-backed sender when RESEND_API_KEY is
// configured and a log-only sender otherwise (development).
func NewSenderFromEnv() Sender {
	if os.Getenv("RESEND_API_KEY") != "" {
		return &ResendSender{APIKey: os.Getenv("RESEND_API_KEY"), From: emailFrom()}
	}
	log.Println("RESEND_API_KEY not set, emails will only be logged (development mode)")
	return &LogSender{}
}

func emailFrom() string {
	if from := os.Getenv("EMAIL_FROM"); from != "" {
		return from
	}
	return "onboarding@resend.dev"
}

// LogSender writes the email to the process log instead of delivering it.
type LogSender struct{}

func (s *LogSender) Send(e Email) error {
	log.Printf("MAIL (dev): to=%s <%s> subject=%q", e.ToName, e.ToEmail, e.Subject)
	return nil
}

// ResendSender delivers through the Resend HTTP API.
type ResendSender struct {
	APIKey string
	From   string
}

func (s *ResendSender) Send(e Email) error {
	payload, err := json.Marshal(map[string]interface{}{
		"from":    s.From,
		"to":      []string{e.ToEmail},
		"subject": e.Subject,
		"html":    e.HTML,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", "https://api.resend.com/emails", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.APIKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 10 * time.Second}
	res, err := client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("resend responded %d: %s", res.StatusCode, string(body))
	}
	return nil
}

// FrontendURL is the public base used in email links (cancel page, car detail).
func FrontendURL() string {
	if u := os.Getenv("FRONTEND_URL"); u != "" {
		return u
	}
	return "http://localhost:5173"
}

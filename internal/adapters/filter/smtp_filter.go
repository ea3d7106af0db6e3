// Package filter contains front ends that feed email into the analysis
// service: an SMTP content filter and a CLI filter.
package filter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-smtp"
	"go.uber.org/zap"

	"github.com/mikey/phishing-detector/internal/core"
)

// SMTPFilter implements a content filter that tags or rejects phishing mail
// before handing it back to the MTA
type SMTPFilter struct {
	service       *core.AnalysisService
	logger        *zap.Logger
	listenAddr    string
	server        *smtp.Server
	blockPhishing bool
	statusHeader  string
	scoreHeader   string
	reasonHeader  string
	relayAddr     string
	relayPort     int
	relayEnabled  bool
	subjectPrefix string
	modifySubject bool
}

// NewSMTPFilter creates a new SMTP content filter
func NewSMTPFilter(
	service *core.AnalysisService,
	logger *zap.Logger,
	listenAddr string,
	blockPhishing bool,
	statusHeader string,
	scoreHeader string,
	reasonHeader string,
	relayAddr string,
	relayPort int,
	relayEnabled bool,
	subjectPrefix string,
	modifySubject bool,
) *SMTPFilter {
	// If subject prefix is not set but modify subject is enabled, use a
	// default prefix
	if subjectPrefix == "" && modifySubject {
		subjectPrefix = "[**PHISHING**] "
	}

	return &SMTPFilter{
		service:       service,
		logger:        logger,
		listenAddr:    listenAddr,
		blockPhishing: blockPhishing,
		statusHeader:  statusHeader,
		scoreHeader:   scoreHeader,
		reasonHeader:  reasonHeader,
		relayAddr:     relayAddr,
		relayPort:     relayPort,
		relayEnabled:  relayEnabled,
		subjectPrefix: subjectPrefix,
		modifySubject: modifySubject,
	}
}

// Start starts the SMTP filter service
func (f *SMTPFilter) Start() error {
	f.server = smtp.NewServer(&smtpBackend{filter: f})

	f.server.Addr = f.listenAddr
	f.server.Domain = "localhost"
	f.server.ReadTimeout = 30 * time.Second
	f.server.WriteTimeout = 30 * time.Second
	f.server.MaxMessageBytes = 30 * 1024 * 1024 // 30MB
	f.server.MaxRecipients = 50
	f.server.AllowInsecureAuth = true

	f.logger.Info("SMTP filter starting", zap.String("address", f.listenAddr))

	go func() {
		if err := f.server.ListenAndServe(); err != nil {
			if err != smtp.ErrServerClosed {
				f.logger.Error("SMTP server error", zap.Error(err))
			}
		}
	}()

	return nil
}

// Stop stops the SMTP filter service
func (f *SMTPFilter) Stop() error {
	if f.server != nil {
		return f.server.Close()
	}
	return nil
}

// ProcessEmail analyzes a raw email and returns the result. This is mainly
// used for testing or direct calls.
func (f *SMTPFilter) ProcessEmail(ctx context.Context, raw []byte) (*core.AnalysisResult, error) {
	return f.service.Analyze(ctx, raw), nil
}

// tagMessage prepends the verdict headers to the raw message and optionally
// rewrites the subject line
func (f *SMTPFilter) tagMessage(raw []byte, result *core.AnalysisResult) []byte {
	status := "No"
	if result.Verdict.IsPhishing {
		status = "Yes"
	}

	var tagged bytes.Buffer
	fmt.Fprintf(&tagged, "%s: %s\r\n", f.statusHeader, status)
	fmt.Fprintf(&tagged, "%s: %.4f\r\n", f.scoreHeader, result.Verdict.Confidence)
	fmt.Fprintf(&tagged, "%s: source=%s\r\n", f.reasonHeader, result.Verdict.Source)

	if f.modifySubject && result.Verdict.IsPhishing {
		raw = f.prefixSubject(raw)
	}

	tagged.Write(raw)
	return tagged.Bytes()
}

// prefixSubject rewrites the first Subject header line with the configured
// prefix
func (f *SMTPFilter) prefixSubject(raw []byte) []byte {
	headerEnd := bytes.Index(raw, []byte("\r\n\r\n"))
	sep := []byte("\r\n")
	if headerEnd < 0 {
		headerEnd = bytes.Index(raw, []byte("\n\n"))
		sep = []byte("\n")
	}
	if headerEnd < 0 {
		headerEnd = len(raw)
	}

	lines := bytes.Split(raw[:headerEnd], sep)
	for i, line := range lines {
		if len(line) >= 8 && strings.EqualFold(string(line[:8]), "subject:") {
			value := strings.TrimSpace(string(line[8:]))
			lines[i] = []byte("Subject: " + f.subjectPrefix + value)
			break
		}
	}

	var rebuilt bytes.Buffer
	rebuilt.Write(bytes.Join(lines, sep))
	rebuilt.Write(raw[headerEnd:])
	return rebuilt.Bytes()
}

// sendToRelay sends the processed email onward to the configured relay
func (f *SMTPFilter) sendToRelay(sender string, recipients []string, emailData []byte) error {
	relayAddr := fmt.Sprintf("%s:%d", f.relayAddr, f.relayPort)

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	conn, err := net.DialTimeout("tcp", relayAddr, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to relay: %w", err)
	}

	if err := conn.SetDeadline(time.Now().Add(30 * time.Second)); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	c := smtp.NewClient(conn)
	defer c.Close()

	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}
	if err := c.Mail(sender, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}

	recipientOK := false
	for _, recipient := range recipients {
		if err := c.Rcpt(recipient, nil); err != nil {
			f.logger.Warn("RCPT TO failed for recipient",
				zap.String("recipient", recipient),
				zap.Error(err))
		} else {
			recipientOK = true
		}
	}
	if !recipientOK {
		return fmt.Errorf("all recipients were rejected")
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}
	if _, err := wc.Write(emailData); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send email data: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		f.logger.Warn("QUIT command failed", zap.Error(err))
	}

	return nil
}

// smtpBackend implements the go-smtp Backend interface
type smtpBackend struct {
	filter *SMTPFilter
}

// NewSession creates a new SMTP session
func (b *smtpBackend) NewSession(c *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{
		filter:     b.filter,
		recipients: make([]string, 0),
	}, nil
}

// smtpSession implements the go-smtp Session interface
type smtpSession struct {
	filter     *SMTPFilter
	sender     string
	recipients []string
}

// Reset resets the session state
func (s *smtpSession) Reset() {
	s.sender = ""
	s.recipients = make([]string, 0)
}

// Logout handles session termination
func (s *smtpSession) Logout() error {
	return nil
}

// AuthPlain handles PLAIN authentication (not needed for the filter)
func (s *smtpSession) AuthPlain(_, _ string) error {
	return smtp.ErrAuthUnsupported
}

// Mail sets the sender address
func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

// Rcpt adds a recipient
func (s *smtpSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

// Data analyzes the message, tags or rejects it, and relays it onward when
// a relay is configured
func (s *smtpSession) Data(r io.Reader) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		s.filter.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}

	result := s.filter.service.Analyze(context.Background(), raw)

	s.filter.logger.Info("Analyzed message",
		zap.String("sender", s.sender),
		zap.Bool("is_phishing", result.Verdict.IsPhishing),
		zap.Float64("confidence", result.Verdict.Confidence),
		zap.String("source", result.Verdict.Source))

	if s.filter.blockPhishing && result.Verdict.IsPhishing {
		return &smtp.SMTPError{
			Code:         550,
			EnhancedCode: smtp.EnhancedCode{5, 7, 1},
			Message:      "Message rejected as phishing",
		}
	}

	tagged := s.filter.tagMessage(raw, result)

	if s.filter.relayEnabled {
		if err := s.filter.sendToRelay(s.sender, s.recipients, tagged); err != nil {
			s.filter.logger.Error("Failed to relay message", zap.Error(err))
			return err
		}
	}

	return nil
}

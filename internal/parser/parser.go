// Package parser converts raw, possibly malformed email content into the
// structured representation consumed by the classifier. Input is adversarial
// by nature, so every parse path degrades to partial or empty fields instead
// of returning an error.
package parser

import (
	"bytes"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"

	msgcharset "github.com/emersion/go-message/charset"
	"go.uber.org/zap"

	"github.com/mikey/phishing-detector/internal/core"
	"github.com/mikey/phishing-detector/internal/textutil"
)

// maxPartDepth bounds recursion into nested multipart structures
const maxPartDepth = 10

// interesting headers copied verbatim into the headers map, keyed lower-case
var headerNames = []string{
	"from", "to", "subject", "date", "reply-to",
	"return-path", "message-id", "x-mailer",
}

// Parser parses raw email messages into core.ParsedEmail
type Parser struct {
	logger *zap.Logger
}

// New creates a new email parser
func New(logger *zap.Logger) *Parser {
	return &Parser{logger: logger}
}

// partHeader is the common view of top-level and MIME part headers
type partHeader interface {
	Get(key string) string
}

// partCollector accumulates output while walking MIME parts
type partCollector struct {
	text        strings.Builder
	anchorURLs  []string
	attachments []core.Attachment
}

// Parse converts a raw email into its structured representation. It never
// fails: unparseable structure degrades to treating the whole input as a
// plain-text body.
func (p *Parser) Parse(raw []byte) *core.ParsedEmail {
	parsed := &core.ParsedEmail{
		Headers: make(map[string]string),
		URLs:    []string{},
	}

	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		p.logger.Debug("Failed to parse message structure, treating input as body",
			zap.Error(err))
		parsed.Text = textutil.SanitizeUTF8(string(raw))
		parsed.URLs = mergeURLs(nil, textutil.ExtractURLs(parsed.Text))
		return parsed
	}

	p.collectHeaders(msg.Header, parsed)
	p.collectMetadata(msg.Header, parsed)

	collector := &partCollector{}
	p.walkPart(msg.Header, msg.Body, 0, collector)

	parsed.Text = textutil.SanitizeUTF8(collector.text.String())
	parsed.Attachments = collector.attachments
	parsed.URLs = mergeURLs(collector.anchorURLs, textutil.ExtractURLs(parsed.Text))

	return parsed
}

// collectHeaders fills the headers map and the Received hop chain
func (p *Parser) collectHeaders(header mail.Header, parsed *core.ParsedEmail) {
	for _, name := range headerNames {
		if value := header.Get(name); value != "" {
			parsed.Headers[name] = value
		}
	}

	for _, received := range header["Received"] {
		parsed.Received = append(parsed.Received, parseReceived(received))
	}
}

// collectMetadata extracts content and authentication metadata
func (p *Parser) collectMetadata(header mail.Header, parsed *core.ParsedEmail) {
	mediaType, params, err := mime.ParseMediaType(header.Get("Content-Type"))
	if err == nil {
		parsed.Metadata.ContentType = mediaType
		parsed.Metadata.Charset = strings.ToLower(params["charset"])
	}

	parsed.Metadata.ContentTransferEncoding = header.Get("Content-Transfer-Encoding")
	parsed.Metadata.SPFResult = header.Get("Received-SPF")
	parsed.Metadata.DKIMSignaturePresent = header.Get("DKIM-Signature") != ""
	parsed.Metadata.AuthenticationResults = header.Get("Authentication-Results")
}

// walkPart processes one MIME part, recursing into nested multiparts
func (p *Parser) walkPart(header partHeader, body io.Reader, depth int, out *partCollector) {
	if depth > maxPartDepth {
		return
	}

	mediaType, params, err := mime.ParseMediaType(header.Get("Content-Type"))
	if err != nil || mediaType == "" {
		// No usable Content-Type, treat as plain text per RFC 2045 default
		mediaType = "text/plain"
		params = nil
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		boundary, ok := params["boundary"]
		if !ok {
			p.appendText(body, header, out)
			return
		}

		mr := multipart.NewReader(body, boundary)
		for {
			part, err := mr.NextPart()
			if err != nil {
				// EOF or malformed boundary, keep whatever was collected
				return
			}
			p.walkPart(part.Header, part, depth+1, out)
		}
	}

	switch mediaType {
	case "text/plain", "text/html":
		p.appendText(body, header, out)
	default:
		p.recordAttachment(header, body, mediaType, out)
	}
}

// appendText decodes a text part and appends it to the collected body text.
// HTML parts are reduced to visible text, with anchor hrefs captured as URLs.
func (p *Parser) appendText(body io.Reader, header partHeader, out *partCollector) {
	mediaType, params, err := mime.ParseMediaType(header.Get("Content-Type"))
	if err != nil {
		mediaType = "text/plain"
	}

	payload, err := io.ReadAll(p.decodeReader(body, header, params["charset"]))
	if err != nil {
		p.logger.Debug("Failed to read text part", zap.Error(err))
		return
	}

	if mediaType == "text/html" {
		text, hrefs := HTMLToText(string(payload))
		out.text.WriteString(text)
		out.anchorURLs = append(out.anchorURLs, hrefs...)
	} else {
		out.text.Write(payload)
	}
	out.text.WriteString("\n")
}

// decodeReader wraps body with transfer-encoding and charset decoding.
// Unknown encodings and charsets fall through to the raw bytes.
func (p *Parser) decodeReader(body io.Reader, header partHeader, charsetName string) io.Reader {
	r := body

	switch strings.ToLower(strings.TrimSpace(header.Get("Content-Transfer-Encoding"))) {
	case "base64":
		r = base64.NewDecoder(base64.StdEncoding, r)
	case "quoted-printable":
		r = quotedprintable.NewReader(r)
	}

	charsetName = strings.ToLower(strings.TrimSpace(charsetName))
	if charsetName != "" && charsetName != "utf-8" && charsetName != "us-ascii" {
		if decoded, err := msgcharset.Reader(charsetName, r); err == nil {
			r = decoded
		} else {
			p.logger.Debug("Unknown charset, using raw bytes",
				zap.String("charset", charsetName))
		}
	}

	return r
}

// recordAttachment records metadata for a non-text part carrying a
// content-disposition filename. Size is the byte length of the payload as
// transmitted, without decoding the transfer encoding.
func (p *Parser) recordAttachment(header partHeader, body io.Reader, mediaType string, out *partCollector) {
	disposition := header.Get("Content-Disposition")
	if disposition == "" {
		return
	}

	_, dispParams, err := mime.ParseMediaType(disposition)
	if err != nil {
		return
	}

	filename := dispParams["filename"]
	if filename == "" {
		return
	}

	payload, err := io.ReadAll(body)
	if err != nil {
		p.logger.Debug("Failed to read attachment payload",
			zap.String("filename", filename), zap.Error(err))
	}

	out.attachments = append(out.attachments, core.Attachment{
		Filename:    filename,
		ContentType: mediaType,
		Size:        len(payload),
	})
}

// mergeURLs combines anchor hrefs and pattern matches into a deduplicated
// set, preserving first-seen order so output is deterministic
func mergeURLs(anchorURLs, textURLs []string) []string {
	seen := make(map[string]struct{})
	merged := []string{}

	for _, urls := range [][]string{anchorURLs, textURLs} {
		for _, u := range urls {
			if _, ok := seen[u]; ok {
				continue
			}
			seen[u] = struct{}{}
			merged = append(merged, u)
		}
	}

	return merged
}

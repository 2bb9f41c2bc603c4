package mime822

import (
	"fmt"
	"mime"
	"mime/quotedprintable"
	"strings"
)

// Attachment is a file to embed in an outgoing RFC822 message.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Message is the input to Build: the address/subject/body fields a
// Gmail send or draft call needs before RFC822 construction.
type Message struct {
	From        string
	To          []string
	Cc          []string
	Bcc         []string
	Subject     string
	TextBody    string
	HTMLBody    string
	Attachments []Attachment
}

const boundaryMixed = "mcp-gateway-mixed-boundary"
const boundaryAlt = "mcp-gateway-alt-boundary"

// Build renders m as an RFC822 message: headers, then a body that is
// plain text, multipart/alternative (if both text and HTML are given),
// or multipart/mixed wrapping an alternative part plus attachments. The
// result uses CRLF line endings throughout, per SPEC_FULL §6's encoding
// rules.
func Build(m Message) string {
	var b strings.Builder

	writeHeader(&b, "From", m.From)
	writeHeader(&b, "To", strings.Join(m.To, ", "))
	if len(m.Cc) > 0 {
		writeHeader(&b, "Cc", strings.Join(m.Cc, ", "))
	}
	if len(m.Bcc) > 0 {
		writeHeader(&b, "Bcc", strings.Join(m.Bcc, ", "))
	}
	writeHeader(&b, "Subject", encodeWord(m.Subject))
	writeHeader(&b, "MIME-Version", "1.0")

	hasAttachments := len(m.Attachments) > 0
	hasBothBodies := m.TextBody != "" && m.HTMLBody != ""

	switch {
	case hasAttachments:
		writeHeader(&b, "Content-Type", fmt.Sprintf("multipart/mixed; boundary=%q", boundaryMixed))
		b.WriteString("\r\n")
		b.WriteString("--" + boundaryMixed + "\r\n")
		writeAlternativeOrPlain(&b, m, hasBothBodies)
		for _, a := range m.Attachments {
			b.WriteString("\r\n--" + boundaryMixed + "\r\n")
			writeAttachmentPart(&b, a)
		}
		b.WriteString("\r\n--" + boundaryMixed + "--\r\n")
	case hasBothBodies:
		writeHeader(&b, "Content-Type", fmt.Sprintf("multipart/alternative; boundary=%q", boundaryAlt))
		b.WriteString("\r\n")
		writeAlternativeOrPlain(&b, m, true)
		b.WriteString("\r\n--" + boundaryAlt + "--\r\n")
	case m.HTMLBody != "":
		writeHeader(&b, "Content-Type", `text/html; charset="UTF-8"`)
		writeHeader(&b, "Content-Transfer-Encoding", "quoted-printable")
		b.WriteString("\r\n")
		b.WriteString(quotedPrintable(m.HTMLBody))
	default:
		writeHeader(&b, "Content-Type", `text/plain; charset="UTF-8"`)
		writeHeader(&b, "Content-Transfer-Encoding", "quoted-printable")
		b.WriteString("\r\n")
		b.WriteString(quotedPrintable(m.TextBody))
	}

	return b.String()
}

func writeAlternativeOrPlain(b *strings.Builder, m Message, alternative bool) {
	if !alternative {
		b.WriteString(`Content-Type: text/plain; charset="UTF-8"` + "\r\n")
		b.WriteString("Content-Transfer-Encoding: quoted-printable\r\n\r\n")
		b.WriteString(quotedPrintable(m.TextBody))
		return
	}
	b.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundaryAlt))
	b.WriteString("--" + boundaryAlt + "\r\n")
	b.WriteString(`Content-Type: text/plain; charset="UTF-8"` + "\r\n")
	b.WriteString("Content-Transfer-Encoding: quoted-printable\r\n\r\n")
	b.WriteString(quotedPrintable(m.TextBody))
	b.WriteString("\r\n--" + boundaryAlt + "\r\n")
	b.WriteString(`Content-Type: text/html; charset="UTF-8"` + "\r\n")
	b.WriteString("Content-Transfer-Encoding: quoted-printable\r\n\r\n")
	b.WriteString(quotedPrintable(m.HTMLBody))
}

func writeAttachmentPart(b *strings.Builder, a Attachment) {
	ct := a.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	b.WriteString(fmt.Sprintf("Content-Type: %s; name=%q\r\n", ct, a.Filename))
	b.WriteString("Content-Transfer-Encoding: base64\r\n")
	b.WriteString(fmt.Sprintf("Content-Disposition: attachment; filename=%q\r\n\r\n", a.Filename))
	std := ToStandardFromBytes(a.Data)
	b.WriteString(WrapAt76(std))
}

// ToStandardFromBytes standard-base64-encodes raw bytes for inline
// attachment embedding.
func ToStandardFromBytes(data []byte) string {
	encoded, _ := ToStandard(EncodeURL(data))
	return encoded
}

func writeHeader(b *strings.Builder, name, value string) {
	b.WriteString(name + ": " + value + "\r\n")
}

// encodeWord applies RFC-2047 encoded-word encoding to s if it contains
// non-ASCII bytes; otherwise returns s unchanged.
func encodeWord(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return mime.BEncoding.Encode("UTF-8", s)
		}
	}
	return s
}

func quotedPrintable(s string) string {
	var b strings.Builder
	w := quotedprintable.NewWriter(&b)
	_, _ = w.Write([]byte(s))
	_ = w.Close()
	return strings.ReplaceAll(b.String(), "\n", "\r\n")
}

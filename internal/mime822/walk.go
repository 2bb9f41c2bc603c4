package mime822

import "strings"

// Part mirrors the shape of a Gmail API message payload part closely
// enough to walk: a MIME type, inline base64url body data, an
// attachment reference, and nested parts for multipart bodies.
type Part struct {
	MimeType     string
	Filename     string
	AttachmentID string
	BodyData     string // base64url, inline body (may be empty if AttachmentID is set instead)
	Headers      map[string]string
	Parts        []Part
}

// AttachmentRef names an attachment discovered while walking a message,
// deferred for a follow-up attachments.get call since Gmail only inlines
// small bodies directly.
type AttachmentRef struct {
	Filename     string
	MimeType     string
	AttachmentID string
}

// Walked is the result of flattening a message's MIME tree.
type Walked struct {
	TextBody    strings.Builder
	Attachments []AttachmentRef
}

// Walk accumulates every text/plain part's decoded body into TextBody
// and collects every image/* and application/pdf attachment's reference,
// per SPEC_FULL §4.3's extract_dates_from_email algorithm step 2.
func Walk(root Part) Walked {
	var w Walked
	walk(root, &w)
	return w
}

func walk(p Part, w *Walked) {
	switch {
	case p.AttachmentID != "" && (strings.HasPrefix(p.MimeType, "image/") || p.MimeType == "application/pdf"):
		w.Attachments = append(w.Attachments, AttachmentRef{
			Filename: p.Filename, MimeType: p.MimeType, AttachmentID: p.AttachmentID,
		})
	case p.MimeType == "text/plain" && p.BodyData != "":
		if decoded, err := DecodeURL(p.BodyData); err == nil {
			if w.TextBody.Len() > 0 {
				w.TextBody.WriteString("\n")
			}
			w.TextBody.Write(decoded)
		}
	}
	for _, child := range p.Parts {
		walk(child, w)
	}
}

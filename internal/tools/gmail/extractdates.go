package gmail

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/jleacox/mcp-gateway/internal/mime822"
	"github.com/jleacox/mcp-gateway/internal/pdftext"
	"github.com/jleacox/mcp-gateway/internal/registry"
	"github.com/jleacox/mcp-gateway/internal/tools/args"
)

const extractionPrompt = `You are extracting calendar-relevant dates from an email. The email was ` +
	`sent in %d. Resolve any date that omits a year to %d unless the text states otherwise. ` +
	`Respond with JSON only: {"summary": string, "events": [string], "important_dates": [string], ` +
	`"date_ranges": [string]}.`

type gmailMessagePayload struct {
	Payload struct {
		MimeType string `json:"mimeType"`
		Filename string `json:"filename"`
		Headers  []struct {
			Name  string `json:"name"`
			Value string `json:"value"`
		} `json:"headers"`
		Body struct {
			Data         string `json:"data"`
			AttachmentID string `json:"attachmentId"`
		} `json:"body"`
		Parts json.RawMessage `json:"parts"`
	} `json:"payload"`
}

func payloadToPart(mimeType, filename string, body struct {
	Data         string `json:"data"`
	AttachmentID string `json:"attachmentId"`
}, partsRaw json.RawMessage) mime822.Part {
	part := mime822.Part{
		MimeType:     mimeType,
		Filename:     filename,
		AttachmentID: body.AttachmentID,
		BodyData:     body.Data,
	}
	if len(partsRaw) == 0 {
		return part
	}
	var rawParts []struct {
		MimeType string `json:"mimeType"`
		Filename string `json:"filename"`
		Body     struct {
			Data         string `json:"data"`
			AttachmentID string `json:"attachmentId"`
		} `json:"body"`
		Parts json.RawMessage `json:"parts"`
	}
	if err := json.Unmarshal(partsRaw, &rawParts); err != nil {
		return part
	}
	for _, rp := range rawParts {
		part.Parts = append(part.Parts, payloadToPart(rp.MimeType, rp.Filename, rp.Body, rp.Parts))
	}
	return part
}

func (p *Provider) extractDatesFromEmail(ctx context.Context, a map[string]interface{}) (registry.CallToolResult, error) {
	messageID, err := args.String(a, "message_id")
	if err != nil {
		return registry.Errorf("%s", err), nil
	}
	token, err := p.token(ctx)
	if err != nil {
		return registry.Errorf("%s", err), nil
	}

	var raw json.RawMessage
	q := url.Values{"format": {"full"}}
	if err := p.client.Do(ctx, http.MethodGet, "/messages/"+url.PathEscape(messageID), q, token, nil, &raw); err != nil {
		return registry.Errorf("%s", err), nil
	}
	var msg gmailMessagePayload
	if err := json.Unmarshal(raw, &msg); err != nil {
		return registry.Errorf("gmail: decoding message payload: %s", err), nil
	}

	root := payloadToPart(msg.Payload.MimeType, msg.Payload.Filename, msg.Payload.Body, msg.Payload.Parts)
	walked := mime822.Walk(root)

	emailYear := emailYearFrom(msg.Payload.Headers)

	for _, attachment := range walked.Attachments {
		if attachment.MimeType != "application/pdf" {
			continue
		}
		data, err := p.fetchAttachment(ctx, token, messageID, attachment.AttachmentID)
		if err != nil {
			continue
		}
		text, err := pdftext.Extract(data)
		if err != nil {
			continue
		}
		if walked.TextBody.Len() > 0 {
			walked.TextBody.WriteString("\n")
		}
		walked.TextBody.WriteString(text)
	}

	bodyText := walked.TextBody.String()

	var firstImage *mime822.AttachmentRef
	for i := range walked.Attachments {
		if strings.HasPrefix(walked.Attachments[i].MimeType, "image/") {
			firstImage = &walked.Attachments[i]
			break
		}
	}

	if p.anthropic != nil && (firstImage != nil || len(bodyText) >= 50) {
		prompt := extractionPromptFor(emailYear)
		var response string
		var method string
		var aiErr error
		if firstImage != nil {
			data, fetchErr := p.fetchAttachment(ctx, token, messageID, firstImage.AttachmentID)
			if fetchErr == nil {
				std := mime822.ToStandardFromBytes(data)
				response, aiErr = p.anthropic.CompleteImage(ctx, prompt, firstImage.MimeType, std)
				method = "claude_vision_api"
			} else {
				aiErr = fetchErr
			}
		} else {
			text := bodyText
			if len(text) > 20000 {
				text = text[:20000]
			}
			response, aiErr = p.anthropic.CompleteText(ctx, prompt, text)
			method = "claude_api"
		}
		if aiErr == nil {
			if parsed, ok := parseClaudeDateResponse(response); ok {
				parsed["extraction_method"] = method
				return textJSON(parsed), nil
			}
		}
	}

	return textJSON(regexFallback(bodyText, emailYear)), nil
}

func (p *Provider) fetchAttachment(ctx context.Context, token, messageID, attachmentID string) ([]byte, error) {
	var out map[string]interface{}
	path := "/messages/" + url.PathEscape(messageID) + "/attachments/" + url.PathEscape(attachmentID)
	if err := p.client.Do(ctx, http.MethodGet, path, nil, token, nil, &out); err != nil {
		return nil, err
	}
	data, _ := out["data"].(string)
	return mime822.DecodeURL(data)
}

func emailYearFrom(headers []struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}) int {
	for _, h := range headers {
		if strings.EqualFold(h.Name, "Date") {
			if t, err := time.Parse(time.RFC1123Z, h.Value); err == nil {
				return t.Year()
			}
			if t, err := time.Parse(time.RFC1123, h.Value); err == nil {
				return t.Year()
			}
		}
	}
	return time.Now().Year()
}

func extractionPromptFor(year int) string {
	return fmt.Sprintf(extractionPrompt, year, year)
}

var codeFenceRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

func parseClaudeDateResponse(response string) (map[string]interface{}, bool) {
	trimmed := strings.TrimSpace(response)
	if m := codeFenceRe.FindStringSubmatch(trimmed); m != nil {
		trimmed = strings.TrimSpace(m[1])
	}
	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(trimmed), &parsed); err != nil {
		return nil, false
	}
	return parsed, true
}

var (
	numericDateRe  = regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}(?:[/-]\d{2,4})?\b`)
	monthNameRe    = regexp.MustCompile(`(?i)\b(January|February|March|April|May|June|July|August|September|October|November|December|Jan|Feb|Mar|Apr|Jun|Jul|Aug|Sep|Sept|Oct|Nov|Dec)\.?\s+\d{1,2}(?:st|nd|rd|th)?(?:,?\s+\d{4})?\b`)
	dayOfWeekRe    = regexp.MustCompile(`(?i)\b(Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday)\b,?\s*(?:the\s+)?(\d{1,2}(?:st|nd|rd|th)?)?`)
	dateRangeRe    = regexp.MustCompile(`(?i)\b(January|February|March|April|May|June|July|August|September|October|November|December|Jan|Feb|Mar|Apr|Jun|Jul|Aug|Sep|Sept|Oct|Nov|Dec)\.?\s+\d{1,2}\s*(?:-|to|through)\s*\d{1,2}(?:,?\s+\d{4})?\b`)
	dateWithTimeRe = regexp.MustCompile(`(?i)\b\d{1,2}[/-]\d{1,2}(?:[/-]\d{2,4})?\s+(?:at\s+)?\d{1,2}(?::\d{2})?\s*(?:am|pm)\b`)
)

// regexFallback applies the date-shaped regular expressions SPEC_FULL
// §4.3's extract_dates_from_email step 5 names against body when no AI
// client is configured or the AI call failed. year disambiguates
// year-less matches in the result but is not substituted into the
// matched text itself.
func regexFallback(body string, year int) map[string]interface{} {
	found := map[string]bool{}
	var dates []string
	addAll := func(re *regexp.Regexp) {
		for _, m := range re.FindAllString(body, -1) {
			m = strings.TrimSpace(m)
			if m != "" && !found[m] {
				found[m] = true
				dates = append(dates, m)
			}
		}
	}
	addAll(dateRangeRe)
	addAll(dateWithTimeRe)
	addAll(monthNameRe)
	addAll(dayOfWeekRe)
	addAll(numericDateRe)

	return map[string]interface{}{
		"dates_found":       dates,
		"extraction_method": "regex",
		"fallback_used":     true,
		"reference_year":    year,
	}
}

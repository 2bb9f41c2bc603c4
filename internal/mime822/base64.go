// Package mime822 implements the base64 alphabet conversions and RFC822
// message construction Gmail handlers need, per SPEC_FULL §4.3/§9's
// base64url-vs-standard-base64 boundary rule: Gmail uses base64url
// throughout (message bodies, attachment bytes, the outgoing `raw`
// field), while Anthropic's API expects standard base64, so every
// attachment byte that crosses that boundary gets re-encoded.
package mime822

import "encoding/base64"

// EncodeURL base64url-encodes data without padding, the alphabet Gmail
// uses for message bodies, attachment bytes, and the outgoing `raw`
// field.
func EncodeURL(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

// DecodeURL decodes a base64url string, tolerating both padded and
// unpadded input since upstream APIs are inconsistent about trailing
// `=`.
func DecodeURL(s string) ([]byte, error) {
	if data, err := base64.RawURLEncoding.DecodeString(s); err == nil {
		return data, nil
	}
	return base64.URLEncoding.DecodeString(s)
}

// ToStandard re-encodes a base64url string as standard base64 (alphabet
// `+`, `/`, padded), the form Anthropic's API requires for image
// payloads.
func ToStandard(urlEncoded string) (string, error) {
	data, err := DecodeURL(urlEncoded)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// ToURLNoPad re-encodes raw bytes as base64url without padding, the form
// Gmail's `raw` field requires for an outgoing RFC822 message.
func ToURLNoPad(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

// WrapAt76 re-wraps a standard-base64 string at a 76-character line
// width with CRLF separators, the shape an RFC822 attachment body part
// requires.
func WrapAt76(b64 string) string {
	const width = 76
	if len(b64) <= width {
		return b64
	}
	out := make([]byte, 0, len(b64)+len(b64)/width*2)
	for i := 0; i < len(b64); i += width {
		end := i + width
		if end > len(b64) {
			end = len(b64)
		}
		out = append(out, b64[i:end]...)
		if end < len(b64) {
			out = append(out, '\r', '\n')
		}
	}
	return string(out)
}

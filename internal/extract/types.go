package extract

import (
	"errors"
	"fmt"
)

// Gemini REST wire types. We speak the generateContent JSON shape directly
// rather than pulling in the SDK: the request surface we need is small.

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"` // base64
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Error kinds. The adapter always fails loudly with one of these; the
// degradation decision belongs to the caller.
type ErrorKind string

const (
	// KindBusy: rate limited after exhausting retries.
	KindBusy ErrorKind = "busy"
	// KindUnavailable: upstream 5xx or transport failure.
	KindUnavailable ErrorKind = "unavailable"
	// KindUpstream: other non-2xx, message carries status + short detail.
	KindUpstream ErrorKind = "upstream"
	// KindMalformed: response text failed all three repair tiers.
	KindMalformed ErrorKind = "malformed"
)

// ServiceError is a classified, user-safe extraction failure. Message never
// carries raw provider internals beyond the HTTP status and a short detail.
type ServiceError struct {
	Kind    ErrorKind
	Message string
}

func (e *ServiceError) Error() string { return e.Message }

func serviceErr(kind ErrorKind, format string, args ...interface{}) *ServiceError {
	return &ServiceError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err is a ServiceError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var se *ServiceError
	return errors.As(err, &se) && se.Kind == kind
}

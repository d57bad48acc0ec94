package models

import "strings"

// Image is raw image data selected by the user
type Image struct {
	Name     string
	MIMEType string
	Data     []byte
}

// IsImageMIME reports whether mimeType names an image type.
func IsImageMIME(mimeType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(mimeType)), "image/")
}

// Blob is inline binary data sent with a request
type Blob struct {
	MIMEType string
	Data     []byte
}

// Part is one element of a request: either text or inline data
type Part struct {
	Text   string
	Inline *Blob
}

// TextPart builds a text part
func TextPart(text string) Part {
	return Part{Text: text}
}

// InlinePart builds an inline data part
func InlinePart(mimeType string, data []byte) Part {
	return Part{Inline: &Blob{MIMEType: mimeType, Data: data}}
}

// Request is a single generateContent call
type Request struct {
	Model string
	Parts []Part

	// ThinkingBudget requests extended reasoning when > 0.
	ThinkingBudget int32

	// WebGrounding enables the Google Search tool.
	WebGrounding bool
}

// Response is the normalized service reply
type Response struct {
	Text         string
	Citations    []Citation
	FinishReason string
	ModelVersion string
}

// GroundedReply is the result of a web query
type GroundedReply struct {
	Text    string
	Sources []Citation
}

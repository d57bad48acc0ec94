// Package models contains data types and constants for the Gemini API.
package models

// Endpoints for the Gemini API
const (
	EndpointBase = "https://generativelanguage.googleapis.com/v1beta"
)

// GenerateEndpoint returns the generateContent URL for a model.
func GenerateEndpoint(base, model string) string {
	if base == "" {
		base = EndpointBase
	}
	return base + "/models/" + model + ":generateContent"
}

// Model names used by the four views
const (
	Model25Flash = "gemini-2.5-flash"
	Model25Pro   = "gemini-2.5-pro"
)

// DefaultThinkingBudget is the reasoning token budget used for deep analysis.
const DefaultThinkingBudget int32 = 32768

// MaxImageSize is the advisory upper bound for selected images.
const MaxImageSize = 10 * 1024 * 1024 // 10MB

// Fallback replies returned in place of a failed remote call.
const (
	FallbackChat  = "Error: Unable to process your request. The molecular registry might be experiencing high traffic."
	FallbackImage = "Error: Could not analyze the provided image. Please ensure it is a valid format."
	FallbackDeep  = "Error: Deep analysis failed. The query may be too complex or the connection was interrupted."
	FallbackWeb   = "Error: Unable to perform web query. The external data stream is unresponsive."
)

// Greeting seeds the standard chat transcript.
const (
	GreetingID   = "init"
	GreetingText = "I am Aura, sentinel of the MolecularRegistry. My analytical core is online. Submit your query or data for analysis."
)

// ImageValidationMessage is shown when analysis is requested without an image or prompt.
const ImageValidationMessage = "Please provide an image and a descriptive prompt for analysis."

// SupportedImageExtensions lists the file extensions offered by the image picker.
func SupportedImageExtensions() []string {
	return []string{".png", ".jpg", ".jpeg", ".gif", ".webp"}
}

// Package view holds the per-mode state machines behind the interface: the
// transcript controllers, the image analysis controller and mode selection.
package view

import "strings"

// Mode identifies one of the four views
type Mode string

const (
	ModeChat  Mode = "chat"
	ModeImage Mode = "image"
	ModeDeep  Mode = "deep_analysis"
	ModeWeb   Mode = "web_query"
)

// ModeInfo describes how a mode is presented
type ModeInfo struct {
	Mode        Mode
	Title       string // navigation label
	Heading     string
	Description string
	Placeholder string
	Indicator   string // shown while a request is in flight
}

var modeInfos = []ModeInfo{
	{
		Mode:        ModeChat,
		Title:       "Standard Query",
		Heading:     "Standard Query",
		Description: "Converse with the Molecular Registry.",
		Placeholder: "Query the Molecular Registry...",
		Indicator:   "Aura is thinking...",
	},
	{
		Mode:        ModeImage,
		Title:       "Image Analysis",
		Heading:     "Image Analysis Core",
		Description: "Upload a molecular structure image for verification and analysis against the blockchain registry.",
		Placeholder: "Enter your analysis prompt, e.g., 'Verify this molecular structure and identify anomalies.'",
		Indicator:   "Processing image against registry...",
	},
	{
		Mode:        ModeDeep,
		Title:       "Deep Analysis",
		Heading:     "Deep Analysis",
		Description: "Engage thinking mode for complex, multi-step reasoning tasks.",
		Placeholder: "Submit a complex analytical task...",
		Indicator:   "Engaging deep analysis core...",
	},
	{
		Mode:        ModeWeb,
		Title:       "Web Query",
		Heading:     "Grounded Web Query",
		Description: "Access and cite up-to-date information from the web.",
		Placeholder: "Ask a question requiring current information...",
		Indicator:   "Accessing external data streams...",
	},
}

// Modes lists the modes in navigation order
func Modes() []ModeInfo {
	out := make([]ModeInfo, len(modeInfos))
	copy(out, modeInfos)
	return out
}

// ParseMode maps an identifier to a Mode. Unknown identifiers select chat.
func ParseMode(id string) Mode {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, info := range modeInfos {
		if string(info.Mode) == id {
			return info.Mode
		}
	}
	return ModeChat
}

// Info returns the presentation details of m
func (m Mode) Info() ModeInfo {
	return modeInfos[m.index()]
}

// Title returns the navigation label
func (m Mode) Title() string {
	return m.Info().Title
}

// Indicator returns the in-flight status text
func (m Mode) Indicator() string {
	return m.Info().Indicator
}

// Next returns the following mode, wrapping around
func (m Mode) Next() Mode {
	return modeInfos[(m.index()+1)%len(modeInfos)].Mode
}

// Prev returns the preceding mode, wrapping around
func (m Mode) Prev() Mode {
	return modeInfos[(m.index()+len(modeInfos)-1)%len(modeInfos)].Mode
}

func (m Mode) index() int {
	for i, info := range modeInfos {
		if info.Mode == m {
			return i
		}
	}
	return 0
}

package models

import "strings"

// BusinessInfo is the singleton record entered on the first wizard step.
type BusinessInfo struct {
	Name           string   `json:"name"`
	Industry       string   `json:"industry"`
	Description    string   `json:"description"`
	Problem        string   `json:"problem"`
	Products       []string `json:"products,omitempty"`
	TargetAudience string   `json:"targetAudience"`
}

// Complete reports whether the fields required to leave step 1 are filled in.
func (b BusinessInfo) Complete() bool {
	return strings.TrimSpace(b.Name) != "" &&
		strings.TrimSpace(b.Industry) != "" &&
		strings.TrimSpace(b.Description) != ""
}

// Competitor is a known competitor of the business.
type Competitor struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Website   string   `json:"website,omitempty"`
	Strengths []string `json:"strengths,omitempty"`
}

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemePurple Theme = "purple"
)

func (t Theme) Valid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemePurple:
		return true
	}
	return false
}

// LandingPage is the final, publishable page configuration.
type LandingPage struct {
	Title        string `json:"title"`
	Headline     string `json:"headline"`
	Description  string `json:"description"`
	CallToAction string `json:"callToAction"`
	Theme        Theme  `json:"theme"`
	BusinessName string `json:"businessName"`
}

// DefaultLandingPage is the landing page before the user has edited it.
func DefaultLandingPage() LandingPage {
	return LandingPage{
		Title:        "Welcome",
		Headline:     "Grow your business with a strategy built for your customers",
		CallToAction: "Get Started",
		Theme:        ThemeLight,
	}
}

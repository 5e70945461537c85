package models

const (
	FirstStep = 1
	LastStep  = 7
)

// State is the whole application state as persisted to local storage.
type State struct {
	Business         BusinessInfo       `json:"business"`
	Competitors      []Competitor       `json:"competitors"`
	ICPs             []ICP              `json:"icps"`
	USPs             []USP              `json:"usps"`
	Geographies      []Geography        `json:"geographies"`
	Keywords         []Keyword          `json:"keywords"`
	ContentIdeas     []ContentIdea      `json:"contentIdeas"`
	PublishedContent []PublishedContent `json:"publishedContent"`
	KeywordStats     []KeywordStats     `json:"keywordStats"`
	LandingPage      LandingPage        `json:"landingPage"`
	CurrentStep      int                `json:"currentStep"`
}

// DefaultState is the state of a fresh session.
func DefaultState() State {
	return State{
		Competitors:      []Competitor{},
		ICPs:             []ICP{},
		USPs:             []USP{},
		Geographies:      []Geography{},
		Keywords:         []Keyword{},
		ContentIdeas:     []ContentIdea{},
		PublishedContent: []PublishedContent{},
		KeywordStats:     []KeywordStats{},
		LandingPage:      DefaultLandingPage(),
		CurrentStep:      FirstStep,
	}
}

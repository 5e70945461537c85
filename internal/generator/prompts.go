package generator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/BerylCAtieno/marketing-strategy-agent/internal/models"
)

const jsonOnly = `Respond with a single JSON object and nothing else: no markdown, no commentary.`

const icpSystemPrompt = `You are an expert B2B and B2C market researcher who defines Ideal Customer Profiles.
Return a JSON object of the form {"icps": [...]} with 3 to 5 profiles. Each profile has:
  "title": short segment name (e.g. "Mid-market Operations Leaders")
  "description": 2-3 sentences describing the segment
  "demographics": an object with "companySize", "industries" (array), "regions" (array),
                  "jobTitles" (array) and "techAdoption" (low, medium or high)
  "painPoints": array of 3-5 concrete pain points
  "goals": array of 3-5 goals
` + jsonOnly

const uspSystemPrompt = `You are a positioning strategist who writes Unique Selling Points.
Return a JSON object of the form {"usps": [...]} with 3 to 5 selling points. Each has:
  "title": short differentiator
  "description": 1-2 sentences
  "targetICP": the exact title of the customer profile it speaks to
  "valueProposition": one sentence stating the value for that profile
` + jsonOnly

const geographySystemPrompt = `You are an international market-expansion analyst.
Return a JSON object of the form {"geographies": [...]} with 3 to 5 target countries or regions. Each has:
  "region": country or region name
  "marketSize": addressable market size, e.g. "$1.2B" or "450M"
  "growthRate": yearly growth, e.g. "8.5%"
  "competition": Low, Medium or High
  "whyTarget": why this market fits the business
  "recommendation": go-to-market recommendation
  "profitabilityRating": 1-10
  "pricingPower": Low, Medium or High
  "brandPersonality": brand tone that resonates locally
` + jsonOnly

const keywordSystemPrompt = `You are an SEO and paid-search specialist.
Return a JSON object of the form {"keywords": [...]} with 8 to 12 search keywords. Each has:
  "term": the search term
  "searchVolume": monthly searches, e.g. "12K"
  "difficulty": Easy, Medium or Hard
  "relevance": Low, Medium or High
  "relatedICP": the exact title of the customer profile searching for it
  "competitorUsage": Low, Medium or High
` + jsonOnly

const contentSystemPrompt = `You are a content marketing strategist.
Return a JSON object of the form {"contentIdeas": [...]} with 4 to 6 ideas. Each has:
  "title": working title
  "type": one of Blog Post, White Paper, eBook, Webinar, Case Study, Infographic, Video
  "targetICP": the exact title of the customer profile it is for
  "targetKeywords": array of keywords it targets, taken from the keyword list
  "outline": array of 4-6 section headings
  "estimatedValue": Low, Medium or High
` + jsonOnly

// userPrompt renders the context sections and the list of values the model
// must not repeat.
func userPrompt(task string, sections []section, avoidLabel string, avoid []string) string {
	var b strings.Builder
	b.WriteString(task)
	b.WriteString("\n")
	for _, s := range sections {
		data, err := json.MarshalIndent(s.data, "", "  ")
		if err != nil {
			data = []byte(fmt.Sprintf("%v", s.data))
		}
		fmt.Fprintf(&b, "\n%s:\n%s\n", s.label, data)
	}
	if len(avoid) > 0 {
		fmt.Fprintf(&b, "\nThese %s already exist. Do NOT repeat any of them, in any spelling or case:\n", avoidLabel)
		for _, a := range avoid {
			fmt.Fprintf(&b, "- %s\n", a)
		}
	}
	return b.String()
}

type section struct {
	label string
	data  any
}

func businessSection(b models.BusinessInfo) section {
	return section{label: "Business", data: b}
}

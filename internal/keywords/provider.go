// Package keywords talks to the ad platform that supplies keyword ideas and
// traffic statistics.
package keywords

import (
	"context"
	"time"
)

type CustomerID string
type CampaignID string

// Competition levels reported by the ad platform.
const (
	CompetitionLow    = "LOW"
	CompetitionMedium = "MEDIUM"
	CompetitionHigh   = "HIGH"
)

// Idea is a keyword suggestion as the ad platform reports it.
type Idea struct {
	Text               string
	Seed               string
	AvgMonthlySearches int64
	Competition        string
	// CompetitionIndex is 0..100
	CompetitionIndex int
}

type MonthlyVolume struct {
	Year     int
	Month    time.Month
	Searches int64
	Clicks   int64
}

type RankedDomain struct {
	Domain string
	Rank   int
}

// Stats is the ad platform's traffic report for one term. Bids are in
// micros of the account currency.
type Stats struct {
	Term             string
	Historical       []MonthlyVolume
	Forecast         []MonthlyVolume
	CloseVariants    []string
	CompetitionIndex int
	LowBidMicros     int64
	HighBidMicros    int64
	TopDomains       []RankedDomain
}

// KeywordProvider is an ad-platform account. Campaigns need a customer and
// stats are fetched per customer.
type KeywordProvider interface {
	CreateCustomer(ctx context.Context, name string) (CustomerID, error)
	CreateCampaign(ctx context.Context, customer CustomerID, name string) (CampaignID, error)
	GenerateIdeas(ctx context.Context, campaign CampaignID, seed string) ([]Idea, error)
	FetchStats(ctx context.Context, customer CustomerID, terms []string) ([]Stats, error)
}

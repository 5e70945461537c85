// Package wizard holds the step navigation rules of the strategy wizard.
package wizard

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/BerylCAtieno/marketing-strategy-agent/internal/apperr"
	"github.com/BerylCAtieno/marketing-strategy-agent/internal/models"
)

// Step numbers, in order.
const (
	StepBusiness = iota + 1
	StepICPs
	StepUSPs
	StepGeographies
	StepKeywords
	StepContent
	StepLandingPage
)

var stepNames = map[int]string{
	StepBusiness:    "Business",
	StepICPs:        "Customer Profiles",
	StepUSPs:        "Selling Points",
	StepGeographies: "Geographies",
	StepKeywords:    "Keywords",
	StepContent:     "Content",
	StepLandingPage: "Landing Page",
}

// Name returns the display name of step n, or "" when n is out of range.
func Name(n int) string {
	return stepNames[n]
}

// State is the part of the store the navigator reads and writes.
type State interface {
	Snapshot() models.State
	Step() int
	SetStep(ctx context.Context, step int) error
}

// Position describes where the wizard is and what the user may do next.
type Position struct {
	Step        int    `json:"step"`
	Name        string `json:"name"`
	Total       int    `json:"total"`
	CanContinue bool   `json:"canContinue"`
	Blocked     string `json:"blocked,omitempty"`
}

type Navigator struct {
	state  State
	logger *zap.Logger
}

func New(state State, logger *zap.Logger) *Navigator {
	return &Navigator{state: state, logger: logger}
}

// Position reports the current step and whether Continue would succeed.
func (n *Navigator) Position() Position {
	snap := n.state.Snapshot()
	step := snap.CurrentStep
	pos := Position{Step: step, Name: Name(step), Total: models.LastStep}
	if notice := precondition(step, snap); notice != "" {
		pos.Blocked = notice
	} else {
		pos.CanContinue = true
	}
	return pos
}

// Goto moves to step to. Going back is always allowed; going forward only
// one step at a time, and into step 2 only with complete business info.
func (n *Navigator) Goto(ctx context.Context, to int) (Position, error) {
	if to < models.FirstStep || to > models.LastStep {
		return n.Position(), apperr.NewValidation(fmt.Sprintf("step %d does not exist", to))
	}

	snap := n.state.Snapshot()
	current := snap.CurrentStep
	switch {
	case to <= current:
	case to == current+1:
		if to == StepICPs && !snap.Business.Complete() {
			return n.reject(current, to, "Please fill in business name, industry and description first")
		}
	default:
		return n.reject(current, to, fmt.Sprintf("Complete %s before moving on", Name(current)))
	}

	if err := n.state.SetStep(ctx, to); err != nil {
		return n.Position(), err
	}
	n.logger.Info("Wizard moved", zap.Int("from", current), zap.Int("to", to))
	return n.Position(), nil
}

// Continue checks the current step's own requirement and advances by one.
func (n *Navigator) Continue(ctx context.Context) (Position, error) {
	snap := n.state.Snapshot()
	current := snap.CurrentStep
	if notice := precondition(current, snap); notice != "" {
		return n.reject(current, current+1, notice)
	}
	return n.Goto(ctx, current+1)
}

func (n *Navigator) reject(from, to int, notice string) (Position, error) {
	n.logger.Info("Wizard move rejected",
		zap.Int("from", from),
		zap.Int("to", to),
		zap.String("notice", notice))
	return n.Position(), apperr.NewValidation(notice)
}

// precondition returns the notice shown when step cannot be left yet, or "".
func precondition(step int, st models.State) string {
	switch step {
	case StepBusiness:
		if !st.Business.Complete() {
			return "Please fill in business name, industry and description first"
		}
	case StepICPs:
		if len(st.ICPs) == 0 {
			return "Generate or add at least one customer profile"
		}
	case StepUSPs:
		if len(st.USPs) == 0 {
			return "Generate or add at least one selling point"
		}
	case StepGeographies:
		if len(st.Geographies) == 0 {
			return "Generate or add at least one target geography"
		}
	case StepKeywords:
		if len(st.Keywords) == 0 {
			return "Generate or add at least one keyword"
		}
	case StepContent:
		for _, c := range st.ContentIdeas {
			if c.Published {
				return ""
			}
		}
		return "Publish at least one content idea"
	case StepLandingPage:
		return "This is the last step"
	}
	return ""
}

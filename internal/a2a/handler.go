package a2a

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BerylCAtieno/marketing-strategy-agent/internal/agent"
	"github.com/BerylCAtieno/marketing-strategy-agent/internal/apperr"
	"github.com/BerylCAtieno/marketing-strategy-agent/internal/models"
)

// ICPGenerator produces customer profiles for a business.
type ICPGenerator interface {
	ICPs(ctx context.Context, business models.BusinessInfo, existing []models.ICP) ([]models.ICP, error)
}

type A2AHandler struct {
	generator ICPGenerator
	logger    *zap.Logger
}

func NewA2AHandler(generator ICPGenerator, logger *zap.Logger) *A2AHandler {
	return &A2AHandler{generator: generator, logger: logger}
}

// HandleICP processes A2A messages. The text of the message describes the
// business; the reply is a task holding the generated profiles.
func (h *A2AHandler) HandleICP(c *gin.Context) {
	bodyBytes, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.logger.Error("Failed to read request body", zap.Error(err))
		h.sendErrorResponse(c, nil, "Failed to read request body", CodeParseError)
		return
	}
	h.logger.Debug("A2A request", zap.ByteString("body", bodyBytes))

	var rpcReq JSONRPCRequest
	if err := json.Unmarshal(bodyBytes, &rpcReq); err != nil || rpcReq.Method == "" {
		h.logger.Info("Not a JSON-RPC request, trying direct message", zap.Error(err))
		h.handleDirectMessage(c, bodyBytes)
		return
	}

	if rpcReq.JSONRPC != "2.0" {
		h.logger.Warn("Invalid JSON-RPC version", zap.String("jsonrpc", rpcReq.JSONRPC))
		h.sendErrorResponse(c, rpcReq.ID, "Invalid JSON-RPC version", CodeInvalidRequest)
		return
	}

	switch rpcReq.Method {
	case "agent/task", "message/send":
		h.handleTask(c, rpcReq)
	default:
		h.logger.Warn("Unknown method", zap.String("method", rpcReq.Method))
		h.sendErrorResponse(c, rpcReq.ID, fmt.Sprintf("Method not found: %s", rpcReq.Method), CodeMethodNotFound)
	}
}

// handleDirectMessage handles a message sent without the JSON-RPC wrapper.
func (h *A2AHandler) handleDirectMessage(c *gin.Context, bodyBytes []byte) {
	var msgParams MessageParams
	if err := json.Unmarshal(bodyBytes, &msgParams); err != nil || len(msgParams.Message.Parts) == 0 {
		h.logger.Warn("Failed to parse as direct message", zap.Error(err))
		h.sendErrorResponse(c, nil, "Invalid request format", CodeParseError)
		return
	}
	id := json.RawMessage(`"direct-message"`)
	h.sendSuccessResponse(c, id, h.run(c.Request.Context(), msgParams.Message))
}

func (h *A2AHandler) handleTask(c *gin.Context, rpcReq JSONRPCRequest) {
	var msgParams MessageParams
	if err := json.Unmarshal(rpcReq.Params, &msgParams); err != nil {
		h.logger.Warn("Invalid params", zap.Error(err))
		h.sendErrorResponse(c, rpcReq.ID, "Invalid parameters", CodeInvalidParams)
		return
	}
	h.sendSuccessResponse(c, rpcReq.ID, h.run(c.Request.Context(), msgParams.Message))
}

// run generates profiles for the business described in msg and wraps the
// outcome in a task.
func (h *A2AHandler) run(ctx context.Context, msg A2AMessage) TaskResult {
	taskID := msg.TaskID
	if taskID == "" {
		taskID = uuid.NewString()
	}

	text := h.extractBusinessText(msg)
	if text == "" {
		h.logger.Warn("No business description found in message")
		return h.createErrorTaskResult(taskID, msg.ContextID,
			"Please describe your business (name, industry and what it does) to generate customer profiles.")
	}

	business := businessFromText(text)
	h.logger.Info("Generating ICPs over A2A",
		zap.String("task", taskID),
		zap.String("business", business.Name),
		zap.String("industry", business.Industry))

	icps, err := h.generator.ICPs(ctx, business, nil)
	if err != nil {
		h.logger.Error("ICP generation failed", zap.String("task", taskID), zap.Error(err))
		return h.createErrorTaskResult(taskID, msg.ContextID, failureText(err))
	}

	h.logger.Info("ICP generation succeeded", zap.String("task", taskID), zap.Int("count", len(icps)))
	return h.createSuccessTaskResult(taskID, msg.ContextID, business, icps)
}

func failureText(err error) string {
	switch apperr.KindOf(err) {
	case apperr.CredentialMissing:
		return "The agent has no language model credentials configured."
	case apperr.Cancelled:
		return "Generating customer profiles timed out. Please try again."
	case apperr.Parse, apperr.Generation:
		return "Failed to generate customer profiles. Please try again."
	}
	return fmt.Sprintf("Failed to generate customer profiles: %v", err)
}

// ServeAgentCard serves the agent card using Gin
func (h *A2AHandler) ServeAgentCard(c *gin.Context) {
	if err := agent.LoadAgentCard(); err != nil {
		h.logger.Error("Error loading agent card", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Agent card not available"})
		return
	}
	c.Data(http.StatusOK, "application/json", agent.AgentCardData)
}

// extractBusinessText joins the text parts of msg. Data parts carrying a
// conversation history contribute their most recent user text.
func (h *A2AHandler) extractBusinessText(msg A2AMessage) string {
	var texts []string

	for _, part := range msg.Parts {
		switch part.Kind {
		case "text":
			if t := strings.TrimSpace(part.Text); t != "" {
				texts = append(texts, t)
			}
		case "data":
			if t := h.lastUserText(part.Data); t != "" {
				texts = append(texts, t)
			}
		}
	}
	return strings.TrimSpace(strings.Join(texts, "\n"))
}

var htmlTag = regexp.MustCompile(`</?p>`)

func (h *A2AHandler) lastUserText(data json.RawMessage) string {
	if len(data) == 0 {
		return ""
	}
	var history []MessagePart
	if err := json.Unmarshal(data, &history); err != nil {
		h.logger.Warn("Failed to unmarshal data part", zap.Error(err))
		return ""
	}

	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Kind != "text" {
			continue
		}
		text := strings.TrimSpace(htmlTag.ReplaceAllString(history[i].Text, ""))
		lower := strings.ToLower(text)
		// skip agent progress messages
		if strings.Contains(lower, "generating") || strings.Contains(lower, "creating") || strings.Trim(text, ".") == "" {
			continue
		}
		return text
	}
	return ""
}

var businessField = regexp.MustCompile(`(?i)^\s*(name|business|company|industry|problem|audience|target audience|products?)\s*:\s*(.+)$`)

// businessFromText reads "Field: value" lines into a business record. The
// remaining lines form the description; missing name and industry get
// placeholders so generation can still run.
func businessFromText(text string) models.BusinessInfo {
	var b models.BusinessInfo
	var rest []string
	for _, line := range strings.Split(text, "\n") {
		m := businessField.FindStringSubmatch(line)
		if m == nil {
			if l := strings.TrimSpace(line); l != "" {
				rest = append(rest, l)
			}
			continue
		}
		value := strings.TrimSpace(m[2])
		switch strings.ToLower(m[1]) {
		case "name", "business", "company":
			b.Name = value
		case "industry":
			b.Industry = value
		case "problem":
			b.Problem = value
		case "audience", "target audience":
			b.TargetAudience = value
		case "product", "products":
			for _, p := range strings.Split(value, ",") {
				if p = strings.TrimSpace(p); p != "" {
					b.Products = append(b.Products, p)
				}
			}
		}
	}

	b.Description = strings.Join(rest, " ")
	if b.Description == "" {
		b.Description = text
	}
	if b.Name == "" {
		b.Name = "The business"
	}
	if b.Industry == "" {
		b.Industry = "Unspecified"
	}
	return b
}

func (h *A2AHandler) createSuccessTaskResult(taskID, contextID string, business models.BusinessInfo, icps []models.ICP) TaskResult {
	responseText := formatICPs(business, icps)

	parts := []MessagePart{TextPart(responseText)}
	if data, err := DataPart(map[string]any{"icps": icps}); err == nil {
		parts = append(parts, data)
	} else {
		h.logger.Warn("Could not attach ICP data", zap.Error(err))
	}

	return TaskResult{
		ID:        taskID,
		ContextID: contextID,
		Kind:      "task",
		Status: TaskStatus{
			State:     StateCompleted,
			Timestamp: Timestamp(),
			Message: &A2AMessage{
				Kind:      "message",
				Role:      RoleAgent,
				MessageID: uuid.NewString(),
				TaskID:    taskID,
				Parts:     []MessagePart{TextPart(responseText)},
			},
		},
		Artifacts: []Artifact{
			{
				ArtifactID: uuid.NewString(),
				Name:       "Ideal Customer Profiles",
				Parts:      parts,
			},
		},
	}
}

func (h *A2AHandler) createErrorTaskResult(taskID, contextID, errorMsg string) TaskResult {
	return TaskResult{
		ID:        taskID,
		ContextID: contextID,
		Kind:      "task",
		Status: TaskStatus{
			State:     StateFailed,
			Timestamp: Timestamp(),
			Message: &A2AMessage{
				Kind:      "message",
				Role:      RoleAgent,
				MessageID: uuid.NewString(),
				TaskID:    taskID,
				Parts:     []MessagePart{TextPart(errorMsg)},
			},
		},
	}
}

func formatICPs(business models.BusinessInfo, icps []models.ICP) string {
	if len(icps) == 0 {
		return "No customer profiles generated."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Ideal Customer Profiles for: %s\n\n", business.Name)

	for i, icp := range icps {
		if i > 0 {
			b.WriteString("\n---\n\n")
		}
		fmt.Fprintf(&b, "## %s\n\n", icp.Title)
		if icp.Description != "" {
			fmt.Fprintf(&b, "%s\n\n", icp.Description)
		}

		d := icp.Demographics
		if !d.IsZero() {
			b.WriteString("**Demographics:**\n")
			if d.Text != "" {
				fmt.Fprintf(&b, "- %s\n", d.Text)
			}
			writeField(&b, "Company size", d.CompanySize)
			writeField(&b, "Industries", strings.Join(d.Industries, ", "))
			writeField(&b, "Regions", strings.Join(d.Regions, ", "))
			writeField(&b, "Job titles", strings.Join(d.JobTitles, ", "))
			writeField(&b, "Tech adoption", d.TechAdoption)
		}

		writeList(&b, "Pain Points", icp.PainPoints)
		writeList(&b, "Goals", icp.Goals)
	}
	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	if value != "" {
		fmt.Fprintf(b, "- %s: %s\n", label, value)
	}
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n**%s:**\n", title)
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", strings.TrimSpace(it))
	}
}

func (h *A2AHandler) sendSuccessResponse(c *gin.Context, id json.RawMessage, result TaskResult) {
	h.logger.Info("Sending A2A task", zap.String("task", result.ID), zap.String("state", result.Status.State))
	c.JSON(http.StatusOK, JSONRPCResponse{JSONRPC: "2.0", ID: id, Result: result})
}

// sendErrorResponse answers with a JSON-RPC error. JSON-RPC errors are sent
// with 200 OK.
func (h *A2AHandler) sendErrorResponse(c *gin.Context, id json.RawMessage, message string, code int) {
	h.logger.Warn("Sending JSON-RPC error", zap.Int("code", code), zap.String("message", message))
	c.JSON(http.StatusOK, JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &RPCError{Code: code, Message: message},
	})
}

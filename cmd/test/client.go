package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type TestClient struct {
	baseURL string
	client  *http.Client
}

func NewTestClient(baseURL string) *TestClient {
	return &TestClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (tc *TestClient) runAllTests() error {
	tests := []struct {
		name string
		fn   func() bool
	}{
		{"Health Check", tc.testHealthCheck},
		{"Agent Card", tc.testAgentCard},
		{"ICP Generation", tc.testICPGeneration},
		{"Wizard Flow", tc.testWizardFlow},
	}

	passed := 0
	failed := 0
	for _, test := range tests {
		if test.fn() {
			passed++
		} else {
			failed++
		}
		fmt.Println()
	}

	printHeader("Test Summary")
	fmt.Printf("%sPassed: %d%s\n", colorGreen, passed, colorReset)
	fmt.Printf("%sFailed: %d%s\n", colorRed, failed, colorReset)
	fmt.Printf("Total: %d\n", passed+failed)

	if failed > 0 {
		return fmt.Errorf("%d check(s) failed", failed)
	}
	return nil
}

func (tc *TestClient) testHealthCheck() bool {
	printTestHeader("Testing Health Check Endpoint")

	status, body, err := tc.do(http.MethodGet, "/health", nil)
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return false
	}
	if status != http.StatusOK {
		printError(fmt.Sprintf("Expected status 200, got %d", status))
		return false
	}
	if string(body) != "OK" {
		printError(fmt.Sprintf("Expected body 'OK', got '%s'", string(body)))
		return false
	}

	printSuccess("Health check passed")
	return true
}

func (tc *TestClient) testAgentCard() bool {
	printTestHeader("Testing Agent Card Endpoint")

	status, body, err := tc.do(http.MethodGet, "/.well-known/agent.json", nil)
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return false
	}
	if status != http.StatusOK {
		printError(fmt.Sprintf("Expected status 200, got %d", status))
		fmt.Printf("Response: %s\n", string(body))
		return false
	}

	var agentCard map[string]any
	if err := json.Unmarshal(body, &agentCard); err != nil {
		printError(fmt.Sprintf("Invalid JSON response: %v", err))
		return false
	}
	for _, field := range []string{"name", "description", "version", "capabilities", "endpoints"} {
		if _, ok := agentCard[field]; !ok {
			printError(fmt.Sprintf("Missing required field: %s", field))
			return false
		}
	}

	printSuccess("Agent card is valid")
	printJSON(body)
	return true
}

func (tc *TestClient) testICPGeneration() bool {
	return tc.testCustomICP("Name: Loop Threads\nIndustry: Sustainable fashion\nAn e-commerce platform selling recycled clothing to eco-conscious millennials.")
}

func (tc *TestClient) testCustomICP(description string) bool {
	printTestHeader("Testing ICP Generation over A2A")
	fmt.Printf("%sBusiness:%s %s\n\n", colorCyan, colorReset, description)

	request := map[string]any{
		"jsonrpc": "2.0",
		"id":      fmt.Sprintf("test-%d", time.Now().Unix()),
		"method":  "message/send",
		"params": map[string]any{
			"message": map[string]any{
				"kind":  "message",
				"role":  "user",
				"parts": []map[string]any{{"kind": "text", "text": description}},
			},
			"configuration": map[string]any{
				"blocking":            true,
				"acceptedOutputModes": []string{"text", "data"},
			},
		},
	}

	status, body, err := tc.do(http.MethodPost, "/a2a/icp", request)
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return false
	}
	if status != http.StatusOK {
		printError(fmt.Sprintf("Expected status 200, got %d", status))
		fmt.Printf("Response: %s\n", string(body))
		return false
	}

	var response struct {
		Error  json.RawMessage `json:"error"`
		Result struct {
			Status struct {
				State   string `json:"state"`
				Message struct {
					Parts []struct {
						Text string `json:"text"`
					} `json:"parts"`
				} `json:"message"`
			} `json:"status"`
			Artifacts json.RawMessage `json:"artifacts"`
		} `json:"result"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		printError(fmt.Sprintf("Invalid JSON response: %v", err))
		return false
	}
	if len(response.Error) > 0 {
		printError("Request returned an error")
		printJSON(response.Error)
		return false
	}

	st := response.Result.Status
	if st.State != "completed" {
		printError(fmt.Sprintf("Expected state 'completed', got '%s'", st.State))
		for _, p := range st.Message.Parts {
			fmt.Println(p.Text)
		}
		return false
	}

	printSuccess("ICP generation completed successfully")
	fmt.Printf("\n%sGenerated Profiles:%s\n", colorGreen, colorReset)
	fmt.Println(strings.Repeat("=", 80))
	for _, p := range st.Message.Parts {
		fmt.Println(p.Text)
	}
	fmt.Println(strings.Repeat("=", 80))

	if len(response.Result.Artifacts) > 0 {
		fmt.Printf("\n%sArtifacts:%s\n", colorPurple, colorReset)
		printJSON(response.Result.Artifacts)
	}
	return true
}

// testWizardFlow resets the session and walks it through business info,
// ICP generation and USP generation.
func (tc *TestClient) testWizardFlow() bool {
	printTestHeader("Testing Wizard Flow")

	steps := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"Reset session", http.MethodPost, "/api/reset", nil, http.StatusOK},
		{"Refuse step 2 without business", http.MethodPost, "/api/wizard/goto", map[string]int{"step": 2}, http.StatusBadRequest},
		{"Save business", http.MethodPut, "/api/business", map[string]any{
			"name":           "Loop Threads",
			"industry":       "Sustainable fashion",
			"description":    "An e-commerce platform selling recycled clothing.",
			"problem":        "Fast fashion waste",
			"targetAudience": "Eco-conscious millennials",
		}, http.StatusOK},
		{"Continue to profiles", http.MethodPost, "/api/wizard/continue", nil, http.StatusOK},
		{"Generate ICPs", http.MethodPost, "/api/icps/generate", nil, http.StatusOK},
		{"Continue to selling points", http.MethodPost, "/api/wizard/continue", nil, http.StatusOK},
		{"Generate USPs", http.MethodPost, "/api/usps/generate", nil, http.StatusOK},
		{"Jump ahead is refused", http.MethodPost, "/api/wizard/goto", map[string]int{"step": 6}, http.StatusBadRequest},
		{"Back to business", http.MethodPost, "/api/wizard/goto", map[string]int{"step": 1}, http.StatusOK},
	}

	for _, s := range steps {
		fmt.Printf("%s %s ... ", s.method, s.path)
		status, body, err := tc.do(s.method, s.path, s.body)
		if err != nil {
			fmt.Println()
			printError(fmt.Sprintf("%s: request failed: %v", s.name, err))
			return false
		}
		if status != s.want {
			fmt.Println()
			printError(fmt.Sprintf("%s: expected status %d, got %d", s.name, s.want, status))
			printJSON(body)
			return false
		}
		fmt.Printf("%s%d%s\n", colorGreen, status, colorReset)
	}

	_, body, err := tc.do(http.MethodGet, "/api/state", nil)
	if err != nil {
		printError(fmt.Sprintf("Fetch state failed: %v", err))
		return false
	}
	var state struct {
		ICPs []any `json:"icps"`
		USPs []any `json:"usps"`
	}
	if err := json.Unmarshal(body, &state); err != nil {
		printError(fmt.Sprintf("Invalid state: %v", err))
		return false
	}
	printSuccess(fmt.Sprintf("Wizard flow passed with %d ICPs and %d USPs", len(state.ICPs), len(state.USPs)))
	return true
}

func (tc *TestClient) do(method, path string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, tc.baseURL+path, reader)
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := tc.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	return resp.StatusCode, data, err
}

func printJSON(data []byte) {
	var prettyJSON bytes.Buffer
	if err := json.Indent(&prettyJSON, data, "", "  "); err == nil {
		fmt.Printf("\n%sResponse:%s\n%s\n", colorYellow, colorReset, prettyJSON.String())
	}
}

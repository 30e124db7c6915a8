package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/cucumber/godog"

	"github.com/doodlesbykumbi/hostwatch/pkg/signature"
)

// agentCredentials is what an enrolled agent keeps.
type agentCredentials struct {
	ServerID  string `json:"server_id"`
	SecretKey string `json:"secret_key"`
}

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	response     *http.Response
	responseBody []byte
	sessionToken string
	agents       map[string]agentCredentials
	lastAgent    string
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{
		tc:     tc,
		agents: make(map[string]agentCredentials),
	}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, s.tc.Reset()
	})

	// Background steps
	sc.Step(`^a hostwatch server is running$`, s.aHostwatchServerIsRunning)
	sc.Step(`^an owner "([^"]*)" with password "([^"]*)" exists$`, s.anOwnerExists)
	sc.Step(`^the owner "([^"]*)" has install token "([^"]*)"$`, s.theOwnerHasInstallToken)
	sc.Step(`^I log in as "([^"]*)" with password "([^"]*)"$`, s.iLogIn)

	// Enrollment steps
	sc.Step(`^an agent enrolls as "([^"]*)" "([^"]*)" "([^"]*)" with install token "([^"]*)"$`, s.anAgentEnrolls)
	sc.Step(`^the enrolled server id should be "([^"]*)"$`, s.theEnrolledServerIDShouldBe)
	sc.Step(`^I rotate my install token$`, s.iRotateMyInstallToken)
	sc.Step(`^I enroll with my current install token as "([^"]*)" "([^"]*)" "([^"]*)"$`, s.iEnrollWithCurrentToken)

	// Ingestion steps
	sc.Step(`^the agent "([^"]*)" pushes the snapshot:$`, s.theAgentPushes)
	sc.Step(`^the agent "([^"]*)" pushes a tampered copy of the snapshot:$`, s.theAgentPushesTampered)
	sc.Step(`^the agent "([^"]*)" pushes with the secret of "([^"]*)":$`, s.theAgentPushesWithForeignSecret)
	sc.Step(`^an unknown server pushes the snapshot:$`, s.anUnknownServerPushes)

	// Stats steps
	sc.Step(`^I request my stats$`, s.iRequestMyStats)
	sc.Step(`^the stats should list (\d+) servers?$`, s.theStatsShouldList)
	sc.Step(`^the stats for "([^"]*)" should have metrics:$`, s.theStatsForShouldHaveMetrics)
	sc.Step(`^the stats for "([^"]*)" should have no metrics$`, s.theStatsForShouldHaveNoMetrics)
	sc.Step(`^the stats should not contain "([^"]*)"$`, s.theStatsShouldNotContain)

	// Response steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the response error should be "([^"]*)"$`, s.theResponseErrorShouldBe)
}

func (s *StepsContext) aHostwatchServerIsRunning() error {
	return nil
}

func (s *StepsContext) do(req *http.Request) error {
	resp, err := s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	s.response = resp
	s.responseBody, err = io.ReadAll(resp.Body)
	return err
}

func (s *StepsContext) postJSON(path string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, s.tc.ServerURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return s.do(req)
}

func (s *StepsContext) withSession(method, path string) error {
	req, err := http.NewRequest(method, s.tc.ServerURL+path, nil)
	if err != nil {
		return err
	}
	if s.sessionToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.sessionToken)
	}
	return s.do(req)
}

func (s *StepsContext) expectStatus(code int) error {
	if s.response == nil {
		return fmt.Errorf("no response received")
	}
	if s.response.StatusCode != code {
		return fmt.Errorf("expected status %d, got %d: %s", code, s.response.StatusCode, s.responseBody)
	}
	return nil
}

func (s *StepsContext) anOwnerExists(email, password string) error {
	if err := s.postJSON("/api/user/register", map[string]string{"email": email, "password": password}); err != nil {
		return err
	}
	return s.expectStatus(http.StatusOK)
}

// theOwnerHasInstallToken pins a known token so scenarios can use fixed
// values.
func (s *StepsContext) theOwnerHasInstallToken(email, token string) error {
	res := s.tc.DB.Exec(`UPDATE users SET install_token = ? WHERE email = ?`, token, strings.ToLower(email))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return fmt.Errorf("owner %q not found", email)
	}
	return nil
}

func (s *StepsContext) iLogIn(email, password string) error {
	if err := s.postJSON("/api/user/login", map[string]string{"email": email, "password": password}); err != nil {
		return err
	}
	if err := s.expectStatus(http.StatusOK); err != nil {
		return err
	}
	var body struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(s.responseBody, &body); err != nil {
		return err
	}
	s.sessionToken = body.Token
	return nil
}

func (s *StepsContext) anAgentEnrolls(hostname, username, ip, token string) error {
	if err := s.postJSON("/api/register", map[string]string{
		"hostname":      hostname,
		"username":      username,
		"ip":            ip,
		"install_token": token,
	}); err != nil {
		return err
	}
	if s.response.StatusCode != http.StatusOK {
		return nil
	}

	var creds agentCredentials
	if err := json.Unmarshal(s.responseBody, &creds); err != nil {
		return err
	}
	s.agents[hostname] = creds
	s.lastAgent = hostname
	return nil
}

func (s *StepsContext) theEnrolledServerIDShouldBe(expected string) error {
	if err := s.expectStatus(http.StatusOK); err != nil {
		return err
	}
	creds := s.agents[s.lastAgent]
	if creds.ServerID != expected {
		return fmt.Errorf("expected server id %q, got %q", expected, creds.ServerID)
	}
	if len(creds.SecretKey) < 32 {
		return fmt.Errorf("secret key too short: %d characters", len(creds.SecretKey))
	}
	return nil
}

func (s *StepsContext) iRotateMyInstallToken() error {
	return s.withSession(http.MethodPost, "/api/user/token")
}

func (s *StepsContext) iEnrollWithCurrentToken(hostname, username, ip string) error {
	if err := s.withSession(http.MethodGet, "/api/user/token"); err != nil {
		return err
	}
	if err := s.expectStatus(http.StatusOK); err != nil {
		return err
	}
	var body struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(s.responseBody, &body); err != nil {
		return err
	}
	return s.anAgentEnrolls(hostname, username, ip, body.Token)
}

func (s *StepsContext) push(serverID, secret string, body []byte, tamper bool) error {
	sig := signature.Sign([]byte(secret), body)
	if tamper {
		body = append([]byte(nil), body...)
		body[len(body)/2] ^= 0x01
	}

	req, err := http.NewRequest(http.MethodPost, s.tc.ServerURL+"/api/metrics", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(signature.ServerIDHeader, serverID)
	req.Header.Set(signature.Header, sig)
	return s.do(req)
}

func (s *StepsContext) agent(hostname string) (agentCredentials, error) {
	creds, ok := s.agents[hostname]
	if !ok {
		return creds, fmt.Errorf("agent %q has not enrolled", hostname)
	}
	return creds, nil
}

func (s *StepsContext) theAgentPushes(hostname string, doc *godog.DocString) error {
	creds, err := s.agent(hostname)
	if err != nil {
		return err
	}
	return s.push(creds.ServerID, creds.SecretKey, []byte(doc.Content), false)
}

func (s *StepsContext) theAgentPushesTampered(hostname string, doc *godog.DocString) error {
	creds, err := s.agent(hostname)
	if err != nil {
		return err
	}
	return s.push(creds.ServerID, creds.SecretKey, []byte(doc.Content), true)
}

func (s *StepsContext) theAgentPushesWithForeignSecret(hostname, other string, doc *godog.DocString) error {
	creds, err := s.agent(hostname)
	if err != nil {
		return err
	}
	foreign, err := s.agent(other)
	if err != nil {
		return err
	}
	return s.push(creds.ServerID, foreign.SecretKey, []byte(doc.Content), false)
}

func (s *StepsContext) anUnknownServerPushes(doc *godog.DocString) error {
	return s.push("server_ghost_nobody_0.0.0.0", "whatever", []byte(doc.Content), false)
}

func (s *StepsContext) iRequestMyStats() error {
	return s.withSession(http.MethodGet, "/api/stats")
}

type statsEntry struct {
	Hostname    string          `json:"hostname"`
	Username    string          `json:"username"`
	IP          string          `json:"ip"`
	ServerID    string          `json:"server_id"`
	LastMetrics json.RawMessage `json:"lastMetrics"`
	LastSeen    int64           `json:"lastSeen"`
}

func (s *StepsContext) stats() ([]statsEntry, error) {
	if err := s.expectStatus(http.StatusOK); err != nil {
		return nil, err
	}
	var entries []statsEntry
	if err := json.Unmarshal(s.responseBody, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		return nil, fmt.Errorf("stats response is not an array: %s", s.responseBody)
	}
	return entries, nil
}

func (s *StepsContext) statsFor(hostname string) (statsEntry, error) {
	entries, err := s.stats()
	if err != nil {
		return statsEntry{}, err
	}
	for _, e := range entries {
		if e.Hostname == hostname {
			return e, nil
		}
	}
	return statsEntry{}, fmt.Errorf("no stats for %q in %s", hostname, s.responseBody)
}

func (s *StepsContext) theStatsShouldList(n int) error {
	entries, err := s.stats()
	if err != nil {
		return err
	}
	if len(entries) != n {
		return fmt.Errorf("expected %d servers, got %d: %s", n, len(entries), s.responseBody)
	}
	return nil
}

func (s *StepsContext) theStatsForShouldHaveMetrics(hostname string, doc *godog.DocString) error {
	entry, err := s.statsFor(hostname)
	if err != nil {
		return err
	}
	var got, want interface{}
	if err := json.Unmarshal(entry.LastMetrics, &got); err != nil {
		return fmt.Errorf("lastMetrics: %w", err)
	}
	if err := json.Unmarshal([]byte(doc.Content), &want); err != nil {
		return err
	}
	if !reflect.DeepEqual(got, want) {
		return fmt.Errorf("expected metrics %s, got %s", doc.Content, entry.LastMetrics)
	}
	if entry.LastSeen == 0 {
		return fmt.Errorf("lastSeen not set")
	}
	return nil
}

func (s *StepsContext) theStatsForShouldHaveNoMetrics(hostname string) error {
	entry, err := s.statsFor(hostname)
	if err != nil {
		return err
	}
	if len(entry.LastMetrics) != 0 && string(entry.LastMetrics) != "null" {
		return fmt.Errorf("expected no metrics, got %s", entry.LastMetrics)
	}
	return nil
}

func (s *StepsContext) theStatsShouldNotContain(text string) error {
	if bytes.Contains(s.responseBody, []byte(text)) {
		return fmt.Errorf("stats response contains %q: %s", text, s.responseBody)
	}
	return nil
}

func (s *StepsContext) theResponseStatusShouldBe(code int) error {
	return s.expectStatus(code)
}

func (s *StepsContext) theResponseErrorShouldBe(expected string) error {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(s.responseBody, &body); err != nil {
		return fmt.Errorf("response is not a JSON error: %s", s.responseBody)
	}
	if body.Error != expected {
		return fmt.Errorf("expected error %q, got %q", expected, body.Error)
	}
	return nil
}

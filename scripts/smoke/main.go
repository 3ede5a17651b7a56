// Command smoke probes a running staffing API instance and reports
// per-endpoint status, latency, and response envelope health. Intended
// for post-deploy checks; exits non-zero when a critical probe fails.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type probe struct {
	Name       string `json:"name"`
	Method     string `json:"method"`
	Path       string `json:"path"`
	WantStatus int    `json:"want_status"`
	Envelope   bool   `json:"envelope"`
	Auth       bool   `json:"auth"`
	Critical   bool   `json:"critical"`
}

type probeFile struct {
	Probes []probe `json:"probes"`
}

type result struct {
	Probe    probe
	Status   int
	Duration time.Duration
	Err      error
	Envelope bool
}

func main() {
	var (
		base       string
		probesPath string
		email      string
		password   string
		branchID   int64
		yearID     int64
		timeout    time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080", "API base URL")
	flag.StringVar(&probesPath, "probes", filepath.Join("scripts", "smoke", "probes.json"), "Path to JSON probes file")
	flag.StringVar(&email, "email", "", "Login email for authenticated probes")
	flag.StringVar(&password, "password", "", "Login password for authenticated probes")
	flag.Int64Var(&branchID, "branch", 1, "Branch id substituted into probe paths")
	flag.Int64Var(&yearID, "year", 1, "Academic year id substituted into probe paths")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "HTTP client timeout")
	flag.Parse()

	probes, err := loadProbes(probesPath)
	if err != nil {
		log.Fatalf("failed to load probes: %v", err)
	}

	client := &http.Client{Timeout: timeout}

	var token string
	if needsAuth(probes) {
		if email == "" || password == "" {
			log.Fatal("authenticated probes configured but -email/-password not set")
		}
		token, err = login(client, base, email, password)
		if err != nil {
			log.Fatalf("login failed: %v", err)
		}
	}

	var results []result
	critical := 0
	for _, p := range probes {
		res := run(client, base, token, p, branchID, yearID)
		if failed(res) && p.Critical {
			critical++
		}
		results = append(results, res)
	}

	printReport(results)
	fmt.Printf("Critical failures: %d\n", critical)
	if critical > 0 {
		os.Exit(1)
	}
}

func loadProbes(path string) ([]probe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file probeFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if len(file.Probes) == 0 {
		return nil, fmt.Errorf("no probes defined in %s", path)
	}
	return file.Probes, nil
}

func needsAuth(probes []probe) bool {
	for _, p := range probes {
		if p.Auth {
			return true
		}
	}
	return false
}

func login(client *http.Client, base, email, password string) (string, error) {
	payload := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	req, err := http.NewRequest(http.MethodPost, joinURL(base, "/api/v1/auth/login"), strings.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login returned %d", resp.StatusCode)
	}

	var body struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if body.Data.AccessToken == "" {
		return "", fmt.Errorf("login response carried no access token")
	}
	return body.Data.AccessToken, nil
}

func run(client *http.Client, base, token string, p probe, branchID, yearID int64) result {
	res := result{Probe: p}

	method := strings.ToUpper(strings.TrimSpace(p.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := expand(p.Path, branchID, yearID)

	req, err := http.NewRequest(method, joinURL(base, path), nil)
	if err != nil {
		res.Err = err
		return res
	}
	if p.Auth && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := client.Do(req)
	res.Duration = time.Since(start)
	if err != nil {
		res.Err = err
		return res
	}
	defer resp.Body.Close()

	res.Status = resp.StatusCode
	if p.Envelope {
		res.Envelope = envelopeOK(resp.Body)
	}
	return res
}

func expand(path string, branchID, yearID int64) string {
	path = strings.ReplaceAll(path, "{branch}", strconv.FormatInt(branchID, 10))
	path = strings.ReplaceAll(path, "{year}", strconv.FormatInt(yearID, 10))
	return path
}

func joinURL(base, path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u, err := url.Parse(strings.TrimRight(base, "/") + path)
	if err != nil {
		return strings.TrimRight(base, "/") + path
	}
	return u.String()
}

// envelopeOK checks that the body parses as the standard response
// envelope with a non-null data field.
func envelopeOK(r io.Reader) bool {
	var body struct {
		Data  json.RawMessage `json:"data"`
		Error json.RawMessage `json:"error"`
	}
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return false
	}
	if len(body.Error) > 0 && string(body.Error) != "null" {
		return false
	}
	return len(body.Data) > 0 && string(body.Data) != "null"
}

func failed(res result) bool {
	if res.Err != nil {
		return true
	}
	want := res.Probe.WantStatus
	if want == 0 {
		want = http.StatusOK
	}
	if res.Status != want {
		return true
	}
	return res.Probe.Envelope && !res.Envelope
}

func printReport(results []result) {
	fmt.Println("Staffing API Smoke Report")
	fmt.Println("=========================")
	for _, res := range results {
		status := "OK"
		if failed(res) {
			status = "FAIL"
		}
		fmt.Printf("[%s] %s %s %s\n", status, res.Probe.Method, res.Probe.Path, res.Probe.Name)
		if res.Err != nil {
			fmt.Printf("  Error: %v\n", res.Err)
			continue
		}
		fmt.Printf("  Status: %d (%s)\n", res.Status, res.Duration)
		if res.Probe.Envelope {
			fmt.Printf("  Envelope: %t | Critical: %t\n", res.Envelope, res.Probe.Critical)
		}
	}
}

// Command parity_check replays requests against the legacy Express server and this API and
// reports status or body differences. Only keys present in the legacy body are compared, so
// fields added on the Go side (such as "code") do not count as differences.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"reflect"
	"strings"
	"time"
)

type probe struct {
	Name     string      `json:"name"`
	Method   string      `json:"method"`
	Path     string      `json:"path"`
	Body     interface{} `json:"body,omitempty"`
	Critical bool        `json:"critical"`

	// Ignore lists top-level keys whose values legitimately differ, such as generated ids.
	Ignore []string `json:"ignore,omitempty"`
}

var defaultProbes = []probe{
	{Name: "health", Method: http.MethodGet, Path: "/health", Critical: true},
	{Name: "contact ok", Method: http.MethodPost, Path: "/api/contact", Critical: true,
		Body: map[string]string{"nombre": "Parity", "telefono": "000", "email": "parity@example.com"}},
	{Name: "contact missing fields", Method: http.MethodPost, Path: "/api/contact", Critical: true,
		Body: map[string]string{"nombre": "Parity"}},
	{Name: "login wrong password", Method: http.MethodPost, Path: "/api/auth/login", Critical: true,
		Body: map[string]string{"email": "admin@vidrios.com", "password": "wrong"}},
	{Name: "login missing fields", Method: http.MethodPost, Path: "/api/auth/login",
		Body: map[string]string{}},
	{Name: "logout", Method: http.MethodPost, Path: "/api/auth/logout"},
	{Name: "list without session", Method: http.MethodGet, Path: "/api/admin/submissions", Critical: true, Ignore: []string{"error"}},
	{Name: "patch without session", Method: http.MethodPatch, Path: "/api/admin/submissions/x", Critical: true, Ignore: []string{"error"},
		Body: map[string]string{"estado": "done"}},
	{Name: "unknown route", Method: http.MethodGet, Path: "/nope", Ignore: []string{"error"}},
}

type result struct {
	Probe         probe
	LegacyStatus  int
	GoStatus      int
	StatusMatch   bool
	BodyMatch     bool
	Err           error
	GoLatency     time.Duration
	LegacyLatency time.Duration
}

func (r result) diff() bool {
	return r.Err != nil || !r.StatusMatch || !r.BodyMatch
}

func main() {
	var (
		goBase     string
		legacyBase string
		probesPath string
		timeout    time.Duration
	)

	flag.StringVar(&goBase, "go-base", "http://localhost:4000", "Go API base URL")
	flag.StringVar(&legacyBase, "legacy-base", "http://localhost:4001", "Legacy Express API base URL")
	flag.StringVar(&probesPath, "probes", "", "Optional JSON file with a list of probes")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	probes := defaultProbes
	if probesPath != "" {
		loaded, err := loadProbes(probesPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load probes: %v\n", err)
			os.Exit(2)
		}
		probes = loaded
	}

	results := run(&http.Client{Timeout: timeout}, goBase, legacyBase, probes)
	if breaking, _ := printReport(os.Stdout, results); breaking > 0 {
		os.Exit(1)
	}
}

func loadProbes(path string) ([]probe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var probes []probe
	if err := json.Unmarshal(data, &probes); err != nil {
		return nil, err
	}
	if len(probes) == 0 {
		return nil, fmt.Errorf("no probes defined in %s", path)
	}
	return probes, nil
}

func run(client *http.Client, goBase, legacyBase string, probes []probe) []result {
	results := make([]result, 0, len(probes))
	for _, p := range probes {
		results = append(results, compare(client, goBase, legacyBase, p))
	}
	return results
}

func compare(client *http.Client, goBase, legacyBase string, p probe) result {
	res := result{Probe: p}

	goStatus, goBody, goLatency, err := send(client, goBase, p)
	if err != nil {
		res.Err = fmt.Errorf("go request: %w", err)
		return res
	}
	legacyStatus, legacyBody, legacyLatency, err := send(client, legacyBase, p)
	if err != nil {
		res.Err = fmt.Errorf("legacy request: %w", err)
		return res
	}

	res.GoStatus, res.LegacyStatus = goStatus, legacyStatus
	res.GoLatency, res.LegacyLatency = goLatency, legacyLatency
	res.StatusMatch = goStatus == legacyStatus
	res.BodyMatch = legacySubset(legacyBody, goBody, p.Ignore)
	return res
}

func send(client *http.Client, base string, p probe) (int, []byte, time.Duration, error) {
	method := strings.ToUpper(strings.TrimSpace(p.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := p.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var body io.Reader
	if p.Body != nil {
		payload, err := json.Marshal(p.Body)
		if err != nil {
			return 0, nil, 0, err
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, strings.TrimRight(base, "/")+path, body)
	if err != nil {
		return 0, nil, 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, 0, err
	}
	return resp.StatusCode, data, time.Since(start), nil
}

// legacySubset reports whether every top-level key of the legacy JSON object appears in the Go
// object with an equal value. Non-object bodies must match exactly after trimming.
func legacySubset(legacy, current []byte, ignore []string) bool {
	var legacyObj, currentObj map[string]interface{}
	if json.Unmarshal(legacy, &legacyObj) != nil || json.Unmarshal(current, &currentObj) != nil {
		return bytes.Equal(bytes.TrimSpace(legacy), bytes.TrimSpace(current))
	}

	skip := make(map[string]struct{}, len(ignore))
	for _, key := range ignore {
		skip[key] = struct{}{}
	}

	for key, want := range legacyObj {
		got, ok := currentObj[key]
		if !ok {
			return false
		}
		if _, ignored := skip[key]; ignored {
			continue
		}
		if !reflect.DeepEqual(want, got) {
			return false
		}
	}
	return true
}

func printReport(w io.Writer, results []result) (breaking, optional int) {
	fmt.Fprintln(w, "Parity Report")
	fmt.Fprintln(w, "=============")
	for _, res := range results {
		label := "OK"
		switch {
		case res.Err != nil:
			label = "ERROR"
		case res.diff():
			label = "DIFF"
		}
		fmt.Fprintf(w, "[%s] %s (%s %s)\n", label, res.Probe.Name, res.Probe.Method, res.Probe.Path)
		if res.Err != nil {
			fmt.Fprintf(w, "  error: %v\n", res.Err)
		} else {
			fmt.Fprintf(w, "  go %d in %s | legacy %d in %s | body match: %t\n",
				res.GoStatus, res.GoLatency, res.LegacyStatus, res.LegacyLatency, res.BodyMatch)
		}

		if !res.diff() {
			continue
		}
		if res.Probe.Critical {
			breaking++
		} else {
			optional++
		}
	}
	fmt.Fprintf(w, "Breaking diffs: %d, optional diffs: %d\n", breaking, optional)
	return breaking, optional
}

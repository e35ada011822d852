// Command contract_compare replays requests against the development service and a real
// portal service and reports where their answers differ.
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"
)

type target struct {
	Method   string          `json:"method"`
	Path     string          `json:"path"`
	Body     json.RawMessage `json:"body,omitempty"`
	Critical bool            `json:"critical"`
}

type targetFile struct {
	Targets []target `json:"targets"`
}

type comparison struct {
	Target       target
	DevStatus    int
	PortalStatus int
	StatusMatch  bool
	BodyMatch    bool
	Error        error
	DevTook      time.Duration
	PortalTook   time.Duration
}

func main() {
	var (
		devBase     string
		portalBase  string
		targetsPath string
		timeout     time.Duration
	)

	flag.StringVar(&devBase, "dev-base", "http://localhost:5000", "Development service base URL")
	flag.StringVar(&portalBase, "portal-base", "http://localhost:5001", "Real portal service base URL")
	flag.StringVar(&targetsPath, "targets", filepath.Join("scripts", "contract_compare", "targets.json"), "Path to JSON targets file")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	targets, err := loadTargets(targetsPath)
	if err != nil {
		log.Fatalf("failed to load targets: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	results := make([]comparison, 0, len(targets))
	for _, t := range targets {
		results = append(results, compareTarget(client, devBase, portalBase, t))
	}

	breaking, optional := tally(results)
	printReport(os.Stdout, results)
	fmt.Printf("Breaking diffs: %d, Optional diffs: %d\n", breaking, optional)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadTargets(path string) ([]target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file targetFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if len(file.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	return file.Targets, nil
}

// tally counts differing targets; a failed request counts only when critical.
func tally(results []comparison) (breaking, optional int) {
	for _, res := range results {
		switch {
		case res.Error != nil:
			if res.Target.Critical {
				breaking++
			}
		case !res.StatusMatch || !res.BodyMatch:
			if res.Target.Critical {
				breaking++
			} else {
				optional++
			}
		}
	}
	return breaking, optional
}

func compareTarget(client *http.Client, devBase, portalBase string, tgt target) comparison {
	comp := comparison{Target: tgt}

	devStatus, devBody, devTook, err := fetch(client, devBase, tgt)
	if err != nil {
		comp.Error = fmt.Errorf("dev request failed: %w", err)
		return comp
	}
	portalStatus, portalBody, portalTook, err := fetch(client, portalBase, tgt)
	if err != nil {
		comp.Error = fmt.Errorf("portal request failed: %w", err)
		return comp
	}

	comp.DevStatus, comp.PortalStatus = devStatus, portalStatus
	comp.DevTook, comp.PortalTook = devTook, portalTook
	comp.StatusMatch = devStatus == portalStatus
	comp.BodyMatch = bodiesEqual(devBody, portalBody)
	return comp
}

func fetch(client *http.Client, base string, tgt target) (int, []byte, time.Duration, error) {
	if client == nil {
		return 0, nil, 0, errors.New("nil client")
	}
	method := strings.ToUpper(strings.TrimSpace(tgt.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := tgt.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var body io.Reader
	if len(tgt.Body) > 0 {
		body = bytes.NewReader(tgt.Body)
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
		return 0, nil, 0, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, data, time.Since(start), nil
}

// bodiesEqual compares JSON bodies structurally. Key order and integral float encoding
// do not matter; anything that is not JSON must match byte for byte.
func bodiesEqual(a, b []byte) bool {
	if bytes.Equal(bytes.TrimSpace(a), bytes.TrimSpace(b)) {
		return true
	}

	var aj, bj interface{}
	if err := json.Unmarshal(a, &aj); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &bj); err != nil {
		return false
	}
	normalize(&aj)
	normalize(&bj)
	return reflect.DeepEqual(aj, bj)
}

func normalize(v *interface{}) {
	switch val := (*v).(type) {
	case map[string]interface{}:
		for k, v2 := range val {
			normalize(&v2)
			val[k] = v2
		}
	case []interface{}:
		for i, v2 := range val {
			normalize(&v2)
			val[i] = v2
		}
	case float64:
		if val == float64(int64(val)) {
			*v = int64(val)
		}
	}
}

func printReport(w io.Writer, results []comparison) {
	fmt.Fprintln(w, "Contract Compare Report")
	fmt.Fprintln(w, "=======================")
	for _, res := range results {
		status := "OK"
		if res.Error != nil {
			status = "ERROR"
		} else if !res.StatusMatch || !res.BodyMatch {
			status = "DIFF"
		}
		fmt.Fprintf(w, "[%s] %s %s\n", status, res.Target.Method, res.Target.Path)
		fmt.Fprintf(w, "  Dev status: %d (%s)\n", res.DevStatus, res.DevTook)
		fmt.Fprintf(w, "  Portal status: %d (%s)\n", res.PortalStatus, res.PortalTook)
		if res.Error != nil {
			fmt.Fprintf(w, "  Error: %v\n", res.Error)
		} else {
			fmt.Fprintf(w, "  Status match: %t | Body match: %t | Critical: %t\n", res.StatusMatch, res.BodyMatch, res.Target.Critical)
		}
	}
}

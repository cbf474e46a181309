// Command upstream_probe checks that the school API answers the endpoints the console relies on.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-admin-console/pkg/apiclient"
	"github.com/noah-isme/sma-admin-console/pkg/config"
	"github.com/noah-isme/sma-admin-console/pkg/logger"
)

type target struct {
	Method   string `json:"method"`
	Path     string `json:"path"`
	Critical bool   `json:"critical"`
}

type targetsFile struct {
	Targets []target `json:"targets"`
}

type probe struct {
	Target   target
	Status   int
	Duration time.Duration
	Error    error
}

// Healthy means the endpoint exists and accepted the token. Other 4xx replies still count.
func (p probe) Healthy() bool {
	if p.Error != nil {
		return false
	}
	switch {
	case p.Status >= http.StatusInternalServerError:
		return false
	case p.Status == http.StatusUnauthorized, p.Status == http.StatusForbidden, p.Status == http.StatusNotFound:
		return false
	}
	return true
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var (
		baseURL     string
		token       string
		targetsPath string
		timeout     time.Duration
	)
	flag.StringVar(&baseURL, "base", cfg.Upstream.BaseURL, "School API base URL")
	flag.StringVar(&token, "token", os.Getenv("PROBE_TOKEN"), "Bearer token forwarded to the school API")
	flag.StringVar(&targetsPath, "targets", filepath.Join("scripts", "upstream_probe", "targets.json"), "Path to JSON targets file")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	targets, err := loadTargets(targetsPath)
	if err != nil {
		logr.Fatal("failed to load targets", zap.String("path", targetsPath), zap.Error(err))
	}

	client := apiclient.New(apiclient.Config{BaseURL: baseURL, Timeout: timeout, Logger: logr})
	ctx := apiclient.WithToken(context.Background(), token)

	results := make([]probe, 0, len(targets))
	for _, t := range targets {
		results = append(results, runProbe(ctx, client, t))
	}

	printReport(results)

	broken, degraded := tally(results)
	fmt.Printf("Critical failures: %d, Optional failures: %d\n", broken, degraded)
	if broken > 0 {
		os.Exit(1)
	}
}

func loadTargets(path string) ([]target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file targetsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if len(file.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	for i := range file.Targets {
		method := strings.ToUpper(strings.TrimSpace(file.Targets[i].Method))
		if method == "" {
			method = http.MethodGet
		}
		file.Targets[i].Method = method
	}
	return file.Targets, nil
}

func runProbe(ctx context.Context, client *apiclient.Client, t target) probe {
	start := time.Now()
	resp, err := client.DoRaw(ctx, t.Method, t.Path, nil, nil)
	result := probe{Target: t, Duration: time.Since(start), Error: err}
	if resp != nil {
		result.Status = resp.Status
	}
	return result
}

func tally(results []probe) (critical, optional int) {
	for _, res := range results {
		if res.Healthy() {
			continue
		}
		if res.Target.Critical {
			critical++
		} else {
			optional++
		}
	}
	return critical, optional
}

func printReport(results []probe) {
	fmt.Println("Upstream Probe Report")
	fmt.Println("=====================")
	for _, res := range results {
		status := "OK"
		if !res.Healthy() {
			status = "FAIL"
		}
		fmt.Printf("[%s] %s %s\n", status, res.Target.Method, res.Target.Path)
		if res.Error != nil {
			fmt.Printf("  Error: %v\n", res.Error)
			continue
		}
		fmt.Printf("  Status: %d (%s) | Critical: %t\n", res.Status, res.Duration, res.Target.Critical)
	}
}

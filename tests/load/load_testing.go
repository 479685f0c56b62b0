package main

import (
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"

	vegeta "github.com/tsenart/vegeta/v12/lib"
)

const (
	targetHost = "http://localhost:8080"
	rps        = 5
	duration   = 1 * time.Minute
)

// Real, long-merged nixpkgs PRs so lookups hit the whole pipeline.
// Point GITHUB_API_URL at a stub to run this without GitHub access.
var prNumbers = []int{1, 100, 1000, 12345, 50000}

// Targeter
func makeTargeter() vegeta.Targeter {
	return func(t *vegeta.Target) error {
		r := rand.Float64()

		// 40% GET /api/branches
		if r < 0.40 {
			t.Method = http.MethodGet
			t.URL = targetHost + "/api/branches"
			t.Body = nil
			t.Header = map[string][]string{"Accept": {"application/json"}}
			return nil
		}

		// 30% GET /api/pr/{n}
		if r < 0.70 {
			pr := prNumbers[rand.Intn(len(prNumbers))]
			t.Method = http.MethodGet
			t.URL = fmt.Sprintf("%s/api/pr/%d", targetHost, pr)
			t.Body = nil
			t.Header = map[string][]string{"Accept": {"application/json"}}
			return nil
		}

		// 20% GET /api/pr/{n}/branches (containment fan-out)
		if r < 0.90 {
			pr := prNumbers[rand.Intn(len(prNumbers))]
			t.Method = http.MethodGet
			t.URL = fmt.Sprintf("%s/api/pr/%d/branches", targetHost, pr)
			t.Body = nil
			t.Header = map[string][]string{"Accept": {"application/json"}}
			return nil
		}

		// 10% GET /health
		t.Method = http.MethodGet
		t.URL = targetHost + "/health"
		t.Body = nil
		t.Header = map[string][]string{"Accept": {"application/json"}}
		return nil
	}
}

// Attack
func runAttack() {
	rate := vegeta.Rate{Freq: rps, Per: time.Second}
	attacker := vegeta.NewAttacker()
	targeter := makeTargeter()

	var metrics vegeta.Metrics

	log.Printf("Starting attack: %s for %s", targetHost, duration)
	for res := range attacker.Attack(targeter, rate, duration, "load-test") {
		metrics.Add(res)
	}
	metrics.Close()

	fmt.Println("=== Results ===")
	fmt.Printf("Requests: %d\n", metrics.Requests)
	fmt.Printf("Success rate: %.4f%%\n", metrics.Success*100)
	fmt.Printf("Latency mean: %s\n", metrics.Latencies.Mean)
	fmt.Printf("Latency P95: %s\n", metrics.Latencies.P95)
	fmt.Printf("Latency P99: %s\n", metrics.Latencies.P99)
}

func main() {
	rand.Seed(time.Now().UnixNano())

	runAttack()
}

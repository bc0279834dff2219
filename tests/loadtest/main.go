package main

import (
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"
)

var (
	baseURL      = flag.String("url", "http://127.0.0.1:8080", "server base URL")
	numWorkers   = flag.Int("workers", 50, "concurrent workers")
	testDuration = flag.Duration("duration", 10*time.Second, "duration of each phase")
)

var dashboardEndpoints = []string{
	"/api/dashboard/stats",
	"/api/dashboard/users/growth",
	"/api/dashboard/trips/growth",
	"/api/dashboard/trips/styles",
}

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

// recorder collects latencies and response statuses per endpoint.
type recorder struct {
	mu        sync.Mutex
	latencies map[string][]time.Duration
	statuses  map[string]map[int]int
}

func newRecorder() *recorder {
	return &recorder{
		latencies: make(map[string][]time.Duration),
		statuses:  make(map[string]map[int]int),
	}
}

func (r *recorder) add(endpoint string, status int, lat time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.latencies[endpoint] = append(r.latencies[endpoint], lat)
	if r.statuses[endpoint] == nil {
		r.statuses[endpoint] = make(map[int]int)
	}
	r.statuses[endpoint][status]++
}

func main() {
	flag.Parse()

	fmt.Println("=== Tourvisto Load Test ===")
	fmt.Printf("Target: %s | Workers: %d | Duration: %s\n\n", *baseURL, *numWorkers, *testDuration)

	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(*baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	// Phase 1: cached stats only
	fmt.Println("\n--- Phase 1: Dashboard stats (GET /api/dashboard/stats) ---")
	runPhase(*testDuration, func(rng *rand.Rand) string {
		return "/api/dashboard/stats"
	})

	// Phase 2: every dashboard widget, as a page load does
	fmt.Println("\n--- Phase 2: Dashboard widgets (uniform over 4 endpoints) ---")
	runPhase(*testDuration, func(rng *rand.Rand) string {
		return dashboardEndpoints[rng.Intn(len(dashboardEndpoints))]
	})

	// Phase 3: admin pages with pagination
	fmt.Println("\n--- Phase 3: Admin pages (40% stats, 30% users, 30% trips) ---")
	runPhase(*testDuration, func(rng *rand.Rand) string {
		r := rng.Float64()
		switch {
		case r < 0.40:
			return "/api/dashboard/stats"
		case r < 0.70:
			return pagePath("/api/users", rng)
		default:
			return pagePath("/api/trips", rng)
		}
	})
}

func runPhase(duration time.Duration, pick func(rng *rand.Rand) string) {
	rec := newRecorder()
	var wg sync.WaitGroup
	stop := make(chan struct{})

	for i := 0; i < *numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					path := pick(rng)
					status, lat := get(path)
					rec.add(endpointName(path), status, lat)
				}
			}
		}(rand.Int63() + int64(i))
	}

	time.Sleep(duration)
	close(stop)
	wg.Wait()

	printResults(rec, duration)
}

// get returns status 0 on transport errors.
func get(path string) (int, time.Duration) {
	start := time.Now()
	resp, err := httpClient.Get(*baseURL + path)
	lat := time.Since(start)
	if err != nil {
		return 0, lat
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return resp.StatusCode, lat
}

func endpointName(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	return "GET " + path
}

func pagePath(endpoint string, rng *rand.Rand) string {
	return fmt.Sprintf("%s?limit=10&offset=%d", endpoint, rng.Intn(5)*10)
}

func printResults(rec *recorder, duration time.Duration) {
	endpoints := make([]string, 0, len(rec.latencies))
	for ep := range rec.latencies {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-32s %8s %10s %10s  %s\n", "Endpoint", "Reqs", "P50", "P95", "Non-200")
	var total, failed int
	for _, ep := range endpoints {
		lats := rec.latencies[ep]
		sort.Slice(lats, func(i, j int) bool { return lats[i] < lats[j] })

		var other []string
		for status, n := range rec.statuses[ep] {
			if status != http.StatusOK {
				other = append(other, fmt.Sprintf("%d x%d", status, n))
				failed += n
			}
		}
		sort.Strings(other)
		total += len(lats)

		fmt.Printf("  %-32s %8d %10s %10s  %s\n",
			ep, len(lats), fmtDur(percentile(lats, 0.50)), fmtDur(percentile(lats, 0.95)), strings.Join(other, ", "))
	}
	fmt.Printf("  Total: %d reqs | Non-200: %d | RPS: %.0f\n", total, failed, float64(total)/duration.Seconds())
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Run livenotify with platforms.douyu.baseUrl pointing at stubAddr so
// subscriptions resolve against the local stub instead of douyu.com.
const (
	baseURL      = "http://127.0.0.1:18090"
	stubAddr     = "127.0.0.1:18091"
	numWorkers   = 50
	testDuration = 10 * time.Second
	numRooms     = 200
	numChats     = 500
)

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

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

func main() {
	fmt.Println("=== LiveNotify Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s\n", numWorkers, testDuration)
	fmt.Printf("Rooms: %d | Chats: %d\n\n", numRooms, numChats)

	var upstreamHits atomic.Int64
	go serveDouyuStub(&upstreamHits)

	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
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

	fmt.Println("\n--- Phase 1: Seeding subscriptions (POST /subscriptions) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		return doSubscribe(rng)
	})

	fmt.Println("\n--- Phase 2: Mixed load (30% sub, 10% unsub, 60% GET) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.30:
			return doSubscribe(rng)
		case r < 0.40:
			return doUnsubscribe(rng)
		case r < 0.70:
			return doList(rng)
		case r < 0.95:
			return doRoom(rng)
		default:
			return doHealth()
		}
	})

	fmt.Println("\n--- Phase 3: Read-heavy load (room lookups hit the cache) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.40:
			return doList(rng)
		case r < 0.90:
			return doRoom(rng)
		default:
			return doHealth()
		}
	})

	fmt.Printf("\nUpstream stub requests: %d\n", upstreamHits.Load())
}

func serveDouyuStub(hits *atomic.Int64) {
	mux := http.NewServeMux()
	mux.HandleFunc("/betard/", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		id := strings.TrimPrefix(r.URL.Path, "/betard/")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"room":{"room_id":%s,"room_name":"stub room %s","nickname":"stub %s","show_status":1,"videoLoop":0,"online":1234}}`, id, id, id)
	})
	if err := http.ListenAndServe(stubAddr, mux); err != nil {
		fmt.Printf("stub upstream: %s\n", err)
	}
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					r := workFn(rng)
					totalOps.Add(1)
					results <- r
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-22s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 88))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		avg := avgDuration(s.latencies)
		p50 := percentile(s.latencies, 0.50)
		p95 := percentile(s.latencies, 0.95)
		p99 := percentile(s.latencies, 0.99)

		fmt.Printf("  %-22s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors, fmtDur(avg), fmtDur(p50), fmtDur(p95), fmtDur(p99))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + strings.Repeat("-", 88))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func timed(endpoint string, expect []int, fn func() (*http.Response, error)) result {
	start := time.Now()
	resp, err := fn()
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	ok := false
	for _, code := range expect {
		if resp.StatusCode == code {
			ok = true
		}
	}
	return result{endpoint, resp.StatusCode, lat, !ok}
}

func randomRoom(rng *rand.Rand) string {
	return fmt.Sprintf("%d", rng.Intn(numRooms)+1000)
}

func randomChat(rng *rand.Rand) string {
	return fmt.Sprintf("%d", rng.Intn(numChats)+1)
}

func doSubscribe(rng *rand.Rand) result {
	data, _ := json.Marshal(map[string]string{
		"chat_id":    randomChat(rng),
		"platform":   "douyu",
		"channel_id": randomRoom(rng),
	})
	return timed("POST /subscriptions", []int{http.StatusCreated, http.StatusOK}, func() (*http.Response, error) {
		return httpClient.Post(baseURL+"/subscriptions", "application/json", bytes.NewReader(data))
	})
}

func doUnsubscribe(rng *rand.Rand) result {
	url := fmt.Sprintf("%s/subscriptions?chat_id=%s&platform=douyu&channel_id=%s", baseURL, randomChat(rng), randomRoom(rng))
	return timed("DELETE /subscriptions", []int{http.StatusOK, http.StatusNotFound}, func() (*http.Response, error) {
		req, err := http.NewRequest(http.MethodDelete, url, nil)
		if err != nil {
			return nil, err
		}
		return httpClient.Do(req)
	})
}

func doList(rng *rand.Rand) result {
	url := fmt.Sprintf("%s/subscriptions?chat_id=%s", baseURL, randomChat(rng))
	return timed("GET /subscriptions", []int{http.StatusOK}, func() (*http.Response, error) {
		return httpClient.Get(url)
	})
}

func doRoom(rng *rand.Rand) result {
	url := fmt.Sprintf("%s/rooms?platform=douyu&channel_id=%s", baseURL, randomRoom(rng))
	return timed("GET /rooms", []int{http.StatusOK}, func() (*http.Response, error) {
		return httpClient.Get(url)
	})
}

func doHealth() result {
	return timed("GET /health", []int{http.StatusOK}, func() (*http.Response, error) {
		return httpClient.Get(baseURL + "/health")
	})
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
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
		return fmt.Sprintf("%dus", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}

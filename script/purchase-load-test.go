package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"sort"
	"sync"
	"time"
)

// registerRequest is the signup payload for the throwaway test accounts
type registerRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	ReferralCode string `json:"referralCode,omitempty"`
}

// authResponse carries the bearer token issued at registration
type authResponse struct {
	Token string `json:"token"`
}

// purchaseRequest is the payload for POST /api/tokens/purchase
type purchaseRequest struct {
	Amount string `json:"amount"`
}

// testAccount is one registered user the load is spread across
type testAccount struct {
	Email string
	Token string
}

// testResult contains metrics for a single request
type testResult struct {
	Success      bool
	ResponseTime time.Duration
	StatusCode   int
	Error        error
}

// testStats contains aggregated test statistics
type testStats struct {
	TotalRequests      int
	SuccessfulRequests int
	FailedRequests     int
	TotalTime          time.Duration
	MinResponseTime    time.Duration
	MaxResponseTime    time.Duration
	TotalResponseTime  time.Duration
	ResponseTimes      []time.Duration
	ErrorCounts        map[string]int
	AccountStats       map[string]int // Requests per account email
	ScenarioStats      map[string]int // Requests per purchase scenario
	Lock               sync.Mutex
}

// purchaseScenario defines one purchase size fired at the API
type purchaseScenario struct {
	Name   string // For stats tracking
	Amount string
}

func main() {
	concurrency := flag.Int("c", 5, "Number of concurrent goroutines")
	totalRequests := flag.Int("n", 100, "Total number of requests to make")
	userCount := flag.Int("users", 3, "Number of throwaway accounts to register and spread load across")
	baseURL := flag.String("url", "http://localhost:8080", "Base URL for the API")
	referralCode := flag.String("referral", "", "Referral code every test account signs up with")
	delayMs := flag.Int("delay", 100, "Delay between requests in milliseconds")
	tpsTarget := flag.Float64("tps", 30, "TPS threshold the conclusion is judged against")
	flag.Parse()

	// Purchase sizes the load is mixed from
	scenarios := []purchaseScenario{
		{"Purchase Small", "10.00"},
		{"Purchase Medium", "50.00"},
		{"Purchase Large", "250.00"},
		{"Purchase Whale", "1000.00"},
	}

	client := &http.Client{Timeout: 10 * time.Second}

	fmt.Printf("Registering %d test accounts at %s...\n", *userCount, *baseURL)
	accounts, err := registerAccounts(client, *baseURL, *userCount, *referralCode)
	if err != nil {
		fmt.Printf("Account setup failed: %v\n", err)
		return
	}

	fmt.Printf("Load testing purchase requests across %d accounts\n", len(accounts))
	fmt.Printf("Purchase scenarios: %d different sizes\n", len(scenarios))
	fmt.Printf("Concurrency: %d goroutines\n", *concurrency)
	fmt.Printf("Total requests: %d\n", *totalRequests)
	fmt.Printf("Delay between requests: %d ms\n", *delayMs)

	stats := &testStats{
		TotalRequests:   *totalRequests,
		MinResponseTime: time.Hour, // Replaced by the first sample
		ErrorCounts:     make(map[string]int),
		ResponseTimes:   make([]time.Duration, 0, *totalRequests),
		AccountStats:    make(map[string]int),
		ScenarioStats:   make(map[string]int),
	}

	results := make(chan testResult, *totalRequests)
	jobs := make(chan int, *totalRequests)

	var wg sync.WaitGroup
	fmt.Println("Starting worker goroutines...")
	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			worker(client, *baseURL, *delayMs, accounts, scenarios, jobs, results, stats)
		}(i)
	}

	go func() {
		for i := 0; i < *totalRequests; i++ {
			jobs <- i
		}
		close(jobs)
	}()

	go func() {
		for result := range results {
			stats.Lock.Lock()
			if result.Success {
				stats.SuccessfulRequests++
			} else {
				stats.FailedRequests++
				errMsg := "unknown"
				if result.Error != nil {
					errMsg = result.Error.Error()
				}
				stats.ErrorCounts[errMsg]++
			}

			stats.ResponseTimes = append(stats.ResponseTimes, result.ResponseTime)
			stats.TotalResponseTime += result.ResponseTime

			if result.ResponseTime < stats.MinResponseTime {
				stats.MinResponseTime = result.ResponseTime
			}
			if result.ResponseTime > stats.MaxResponseTime {
				stats.MaxResponseTime = result.ResponseTime
			}
			stats.Lock.Unlock()
		}
	}()

	startTime := time.Now()
	fmt.Println("Test running...")

	ticker := time.NewTicker(1 * time.Second)
	go func() {
		for range ticker.C {
			stats.Lock.Lock()
			completed := stats.SuccessfulRequests + stats.FailedRequests
			if completed > 0 {
				fmt.Printf("Progress: %d/%d requests completed (%.1f%%)\n",
					completed, stats.TotalRequests, float64(completed)/float64(stats.TotalRequests)*100)
			}
			stats.Lock.Unlock()
		}
	}()

	wg.Wait()
	close(results)
	ticker.Stop()

	stats.TotalTime = time.Since(startTime)

	printResults(stats, *tpsTarget)
}

// registerAccounts signs up throwaway users and collects their bearer tokens.
// Emails carry a timestamp so reruns against the same database don't collide.
func registerAccounts(client *http.Client, baseURL string, count int, referralCode string) ([]testAccount, error) {
	accounts := make([]testAccount, 0, count)
	runID := time.Now().UnixNano()

	for i := 0; i < count; i++ {
		email := fmt.Sprintf("loadtest-%d-%d@example.com", runID, i)
		payload := registerRequest{
			Name:         fmt.Sprintf("Load Tester %d", i),
			Email:        email,
			Password:     "loadtest-password",
			ReferralCode: referralCode,
		}
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}

		resp, err := client.Post(baseURL+"/api/auth/register", "application/json", bytes.NewBuffer(jsonData))
		if err != nil {
			return nil, err
		}

		var auth authResponse
		decodeErr := json.NewDecoder(resp.Body).Decode(&auth)
		resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			return nil, fmt.Errorf("registering %s: HTTP status code %d", email, resp.StatusCode)
		}
		if decodeErr != nil {
			return nil, decodeErr
		}
		accounts = append(accounts, testAccount{Email: email, Token: auth.Token})
	}
	return accounts, nil
}

func worker(client *http.Client, baseURL string, delayMs int, accounts []testAccount,
	scenarios []purchaseScenario, jobs <-chan int, results chan<- testResult, stats *testStats) {

	for range jobs {
		// Optional delay between requests to prevent rate limiting
		if delayMs > 0 {
			time.Sleep(time.Duration(delayMs) * time.Millisecond)
		}

		account := accounts[rand.Intn(len(accounts))]
		scenario := scenarios[rand.Intn(len(scenarios))]

		stats.Lock.Lock()
		stats.AccountStats[account.Email]++
		stats.ScenarioStats[scenario.Name]++
		stats.Lock.Unlock()

		jsonData, err := json.Marshal(purchaseRequest{Amount: scenario.Amount})
		if err != nil {
			results <- testResult{Success: false, Error: err}
			continue
		}

		req, err := http.NewRequest("POST", baseURL+"/api/tokens/purchase", bytes.NewBuffer(jsonData))
		if err != nil {
			results <- testResult{Success: false, Error: err}
			continue
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+account.Token)

		startTime := time.Now()
		resp, err := client.Do(req)
		responseTime := time.Since(startTime)

		result := testResult{ResponseTime: responseTime}
		if err != nil {
			result.Success = false
			result.Error = err
		} else {
			result.StatusCode = resp.StatusCode
			result.Success = resp.StatusCode >= 200 && resp.StatusCode < 300
			if !result.Success {
				result.Error = fmt.Errorf("HTTP status code %d", resp.StatusCode)
			}
			resp.Body.Close()
		}

		results <- result
	}
}

func printResults(stats *testStats, tpsTarget float64) {
	// Raw TPS counts only successful requests; theoretical assumes all succeeded
	rawTps := float64(stats.SuccessfulRequests) / stats.TotalTime.Seconds()
	theoreticalTps := float64(stats.TotalRequests) / stats.TotalTime.Seconds()
	adjustedTps := theoreticalTps * (float64(stats.SuccessfulRequests) / float64(stats.TotalRequests))

	var avgResponseTime time.Duration
	if len(stats.ResponseTimes) > 0 {
		avgResponseTime = stats.TotalResponseTime / time.Duration(len(stats.ResponseTimes))
	}

	var p50, p90, p95, p99 time.Duration
	if len(stats.ResponseTimes) > 0 {
		sortedTimes := make([]time.Duration, len(stats.ResponseTimes))
		copy(sortedTimes, stats.ResponseTimes)
		sort.Slice(sortedTimes, func(i, j int) bool { return sortedTimes[i] < sortedTimes[j] })

		p50 = sortedTimes[len(sortedTimes)*50/100]
		p90 = sortedTimes[len(sortedTimes)*90/100]
		p95 = sortedTimes[len(sortedTimes)*95/100]
		p99 = sortedTimes[len(sortedTimes)*99/100]
	}

	fmt.Println("\n================= TEST RESULTS =================")
	fmt.Printf("Total Requests:      %d\n", stats.TotalRequests)
	fmt.Printf("Successful Requests: %d (%.1f%%)\n", stats.SuccessfulRequests,
		float64(stats.SuccessfulRequests)/float64(stats.TotalRequests)*100)
	fmt.Printf("Failed Requests:     %d (%.1f%%)\n", stats.FailedRequests,
		float64(stats.FailedRequests)/float64(stats.TotalRequests)*100)
	fmt.Printf("Total Test Time:     %.2f seconds\n", stats.TotalTime.Seconds())

	fmt.Println("\n----------------- PERFORMANCE -----------------")
	fmt.Printf("Raw TPS:             %.2f (successful requests / total time)\n", rawTps)
	fmt.Printf("Theoretical TPS:     %.2f (if all requests were successful)\n", theoreticalTps)
	fmt.Printf("Success-adjusted TPS: %.2f (theoretical * success rate)\n", adjustedTps)

	fmt.Println("\n----------------- RESPONSE TIMES -----------------")
	fmt.Printf("Average Response:    %v\n", avgResponseTime)
	fmt.Printf("Minimum Response:    %v\n", stats.MinResponseTime)
	fmt.Printf("Maximum Response:    %v\n", stats.MaxResponseTime)
	fmt.Printf("P50 Response:        %v\n", p50)
	fmt.Printf("P90 Response:        %v\n", p90)
	fmt.Printf("P95 Response:        %v\n", p95)
	fmt.Printf("P99 Response:        %v\n", p99)

	fmt.Println("\n----------------- ACCOUNT DISTRIBUTION -----------------")
	totalAccounts := 0
	for _, count := range stats.AccountStats {
		totalAccounts += count
	}
	for email, count := range stats.AccountStats {
		if count > 0 {
			fmt.Printf("%-45s: %d requests (%.1f%%)\n", email, count,
				float64(count)/float64(totalAccounts)*100)
		}
	}

	fmt.Println("\n----------------- SCENARIO DISTRIBUTION -----------------")
	totalScenarios := 0
	for _, count := range stats.ScenarioStats {
		totalScenarios += count
	}
	for scenario, count := range stats.ScenarioStats {
		if count > 0 {
			fmt.Printf("%-15s: %d requests (%.1f%%)\n", scenario, count,
				float64(count)/float64(totalScenarios)*100)
		}
	}

	if stats.FailedRequests > 0 {
		fmt.Println("\n----------------- ERROR DISTRIBUTION -----------------")
		for errMsg, count := range stats.ErrorCounts {
			fmt.Printf("%-40s: %d (%.1f%%)\n", errMsg, count,
				float64(count)/float64(stats.TotalRequests)*100)
		}
	}

	fmt.Println("\n================= CONCLUSION =================")
	if theoreticalTps >= tpsTarget {
		fmt.Printf("✅ SYSTEM CAN THEORETICALLY EXCEED the %.0f TPS target (%.2f TPS)\n", tpsTarget, theoreticalTps)
		if rawTps < tpsTarget {
			fmt.Println("⚠️ But rate limiting or other issues are preventing full performance")
		}
	} else {
		fmt.Printf("❌ SYSTEM DOES NOT MEET the %.0f TPS target (%.2f TPS)\n", tpsTarget, theoreticalTps)
	}
	fmt.Println("================================================")
}

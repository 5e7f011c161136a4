// Command admincheck drives every admin API endpoint against a running server
// and prints what happened, mirroring a manual walkthrough of the dashboard.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"contact_backend/internal/adminclient"
	infrahttp "contact_backend/internal/platform/http"
	"contact_backend/internal/shared/ratelimiter"
)

func main() {
	baseURL := flag.String("url", "http://127.0.0.1:5000", "base URL of the server")
	timeout := flag.Duration("timeout", 10*time.Second, "per-request timeout")
	rate := flag.Int("rate", 5, "maximum requests per second (0 disables pacing)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := adminclient.New(*baseURL, infrahttp.NewHTTPClient(infrahttp.ClientConfig{Timeout: *timeout, Rate: *rate}),
		adminclient.WithRateLimiter(ratelimiter.NewRateLimiter(*rate, time.Second)))

	if _, err := adminclient.RunCheck(ctx, client, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "\nCould not reach the server at %s. Make sure it is running.\n", *baseURL)
		os.Exit(1)
	}
	fmt.Println("\n✓ All checks completed")
}

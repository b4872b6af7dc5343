package harness

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/petelc/NexusPlaywright/framework/errs"
)

// WaitForApp polls the application under test until its login route answers with a non-5xx
// status or timeout elapses. It runs before any browser is launched so that an application
// that is not up yet is reported once, instead of as a setup failure in every scenario.
func WaitForApp(ctx context.Context, baseURL string, timeout time.Duration, insecure bool, output io.Writer) error {
	if output == nil {
		output = io.Discard
	}
	client := &http.Client{Timeout: 5 * time.Second}
	if insecure {
		client.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec
		}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	fmt.Fprintf(output, "Connecting to application at %s", baseURL)
	defer fmt.Fprintln(output)

	check := func() error {
		fmt.Fprint(output, ".")
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/login", nil)
		if err != nil {
			return retry.Unrecoverable(err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		if resp.StatusCode >= 500 {
			return fmt.Errorf("application returned status code %d", resp.StatusCode)
		}
		return nil
	}

	err := retry.Do(check,
		retry.Context(ctx),
		retry.Attempts(0),
		retry.Delay(200*time.Millisecond),
		retry.MaxDelay(2*time.Second),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return errs.Wrap(errs.ConfigInvalid, fmt.Sprintf("application at %s is not reachable", baseURL), err)
	}
	return nil
}

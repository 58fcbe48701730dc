package integration

import (
	"net/http"
	"os"
	"testing"
	"time"
)

var BaseURL = "http://localhost:8080"

func TestMain(m *testing.M) {
	if url := os.Getenv("API_BASE_URL"); url != "" {
		BaseURL = url
	}

	// 等待服务启动
	time.Sleep(5 * time.Second)

	code := m.Run()
	os.Exit(code)
}

// serverAvailable probes the health endpoint so tests can skip without a running server.
func serverAvailable() bool {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(BaseURL + "/health")
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func requireServer(t *testing.T) {
	t.Helper()
	if !serverAvailable() {
		t.Skip("api server not reachable at " + BaseURL)
	}
}

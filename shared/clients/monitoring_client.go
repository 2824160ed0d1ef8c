package clients

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"autovista-backend/shared/config"
)

// MonitoringClient reports degraded-mode conditions (audit sink down,
// replay guard unreachable) to the operations endpoint. Reports are
// fire-and-forget: a failed report is logged, never propagated.
type MonitoringClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewMonitoringClient creates a new monitoring client
func NewMonitoringClient() *MonitoringClient {
	cfg := config.GetConfig()
	return &MonitoringClient{
		baseURL: cfg.MonitoringURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// DegradedReport is the payload posted for one degraded-mode event
type DegradedReport struct {
	Service    string    `json:"service"`
	Component  string    `json:"component"`
	Error      string    `json:"error"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ReportDegraded posts the report asynchronously. With no monitoring
// URL configured the report only goes to the service log.
func (c *MonitoringClient) ReportDegraded(component string, cause error) {
	log.Printf("⚠️ Degraded mode: %s: %v", component, cause)

	if c.baseURL == "" {
		return
	}

	report := DegradedReport{
		Service:    "security-service",
		Component:  component,
		Error:      cause.Error(),
		OccurredAt: time.Now().UTC(),
	}

	go func() {
		body, err := json.Marshal(report)
		if err != nil {
			log.Printf("❌ Failed to marshal degraded report: %v", err)
			return
		}

		url := fmt.Sprintf("%s/api/monitoring/degraded", c.baseURL)
		resp, err := c.httpClient.Post(url, "application/json", bytes.NewBuffer(body))
		if err != nil {
			log.Printf("❌ Failed to deliver degraded report: %v", err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			log.Printf("❌ Monitoring endpoint returned status %d", resp.StatusCode)
		}
	}()
}

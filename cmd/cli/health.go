package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/dashiq/reporting/internal/application/dto"
)

// healthCmd probes a running service instance's readiness endpoint and
// prints the per-dependency checks.
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of a running service instance",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")

		client := &http.Client{Timeout: 10 * time.Second}
		resp, err := client.Get(addr + "/health/ready")
		if err != nil {
			return fmt.Errorf("readiness probe failed: %w", err)
		}
		defer resp.Body.Close()

		var health dto.HealthResponse
		if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
			return fmt.Errorf("failed to decode readiness response: %w", err)
		}

		fmt.Printf("status: %s\n", health.Status)
		for name, check := range health.Checks {
			fmt.Printf("- %s: %s\n", name, check)
		}

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("service is not ready (HTTP %d)", resp.StatusCode)
		}
		return nil
	},
}

func init() {
	healthCmd.Flags().String("addr", "http://localhost:8080", "Base URL of the service")
	rootCmd.AddCommand(healthCmd)
}

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/dashiq/reporting/pkg/constants"
)

// cacheCmd groups report-cache operations.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the Redis report cache",
}

// cachePurgeCmd drops every cached report for one tenant so the next
// dashboard request recomputes from the database.
var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Purge cached reports for a tenant",
	RunE: func(cmd *cobra.Command, args []string) error {
		tenantID, _ := cmd.Flags().GetInt64("tenant")
		addr, _ := cmd.Flags().GetString("redis-addr")
		password, _ := cmd.Flags().GetString("redis-password")
		db, _ := cmd.Flags().GetInt("redis-db")

		if tenantID <= 0 {
			return fmt.Errorf("tenant flag is required and must be positive")
		}

		client := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		})
		defer client.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		pattern := fmt.Sprintf("%s%d:*", constants.CacheKeyPrefixReport, tenantID)
		var purged int64
		iter := client.Scan(ctx, 0, pattern, 100).Iterator()
		for iter.Next(ctx) {
			if err := client.Del(ctx, iter.Val()).Err(); err != nil {
				return fmt.Errorf("failed to delete %s: %w", iter.Val(), err)
			}
			purged++
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}

		fmt.Printf("purged %d cached reports for tenant %d\n", purged, tenantID)
		return nil
	},
}

func init() {
	cachePurgeCmd.Flags().Int64("tenant", 0, "Tenant whose cached reports to purge")
	cachePurgeCmd.Flags().String("redis-addr", "localhost:6379", "Redis address")
	cachePurgeCmd.Flags().String("redis-password", "", "Redis password")
	cachePurgeCmd.Flags().Int("redis-db", 0, "Redis database index")

	cacheCmd.AddCommand(cachePurgeCmd)
	rootCmd.AddCommand(cacheCmd)
}

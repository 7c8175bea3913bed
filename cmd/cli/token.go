package cli

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
)

// tokenCmd groups token-related operations.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage dashboard access tokens",
}

// tokenMintCmd signs a development HS256 token carrying the tenant_id
// claim the service resolves callers by.
var tokenMintCmd = &cobra.Command{
	Use:   "mint",
	Short: "Mint a development token for a tenant",
	RunE: func(cmd *cobra.Command, args []string) error {
		tenantID, _ := cmd.Flags().GetInt64("tenant")
		userID, _ := cmd.Flags().GetString("user")
		secret, _ := cmd.Flags().GetString("secret")
		ttl, _ := cmd.Flags().GetDuration("ttl")

		if tenantID <= 0 {
			return fmt.Errorf("tenant flag is required and must be positive")
		}
		if secret == "" {
			return fmt.Errorf("secret flag is required")
		}

		now := time.Now()
		claims := jwt.MapClaims{
			"tenant_id": tenantID,
			"iat":       now.Unix(),
			"exp":       now.Add(ttl).Unix(),
		}
		if userID != "" {
			claims["sub"] = userID
		}

		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		if err != nil {
			return fmt.Errorf("failed to sign token: %w", err)
		}

		fmt.Println(signed)
		return nil
	},
}

func init() {
	tokenMintCmd.Flags().Int64("tenant", 0, "Tenant ID to embed in the token")
	tokenMintCmd.Flags().String("user", "", "User ID for the sub claim")
	tokenMintCmd.Flags().String("secret", "", "HS256 signing secret")
	tokenMintCmd.Flags().Duration("ttl", 24*time.Hour, "Token lifetime")

	tokenCmd.AddCommand(tokenMintCmd)
	rootCmd.AddCommand(tokenCmd)
}

package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
)

var (
	tokenCmd = &cobra.Command{
		RunE:  runTokenMint,
		Use:   "token",
		Short: "Mint an admin access token",
		Long:  `Mint an RS256 bearer token for the gateway admin API. Requires the JWT private key in the security config.`,
	}
	tokenSubject string
	tokenTTL     time.Duration
)

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "admin@example.com", "Token subject, recorded as updated_by on admin changes")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "Token lifetime (defaults to access_token_duration from config)")
}

func runTokenMint(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig(".")
	if err != nil {
		log.Fatal(err)
	}

	privateKey, err := cfg.Security.GetPrivateKey()
	if err != nil {
		return fmt.Errorf("the token command needs security.jwt_private_key: %w", err)
	}

	ttl := tokenTTL
	if ttl <= 0 {
		ttl = cfg.Security.AccessTokenDuration
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   tokenSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(privateKey)
	if err != nil {
		return fmt.Errorf("signing token failed: %w", err)
	}

	fmt.Println(signed)
	return nil
}

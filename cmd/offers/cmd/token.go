package cmd

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/spf13/cobra"

	"github.com/ambiyansyah-risyal/offerskit"
)

func tokenCmd() *cobra.Command {
	tokenRoot := &cobra.Command{
		Use:   "token",
		Short: "Inspect and manage the cached access token",
	}

	tokenRoot.AddCommand(tokenStatusCmd())
	tokenRoot.AddCommand(tokenClearCmd())
	return tokenRoot
}

func tokenStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the cached access token's validity",
		RunE: func(_ *cobra.Command, _ []string) error {
			settings, err := loadSettings()
			if err != nil {
				return err
			}

			store := offerskit.NewFileTokenStore(settings.TokenCachePath)
			token, err := store.Load(context.Background())
			if err != nil {
				return err
			}
			if token == nil {
				fmt.Println("no valid cached token")
				return nil
			}

			expiry := time.Unix(0, int64(token.ExpiresAt*float64(time.Second)))
			fmt.Printf("token:      %s...\n", tokenPrefix(token.Token))
			fmt.Printf("expires at: %s\n", expiry.Format(time.RFC3339))
			fmt.Printf("remaining:  %s\n", time.Until(expiry).Round(time.Second))
			return nil
		},
	}
}

func tokenClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the cached access token",
		RunE: func(_ *cobra.Command, _ []string) error {
			settings, err := loadSettings()
			if err != nil {
				return err
			}

			store := offerskit.NewFileTokenStore(settings.TokenCachePath)
			if err := store.Clear(context.Background()); err != nil {
				return err
			}
			fmt.Println("token cache cleared")
			return nil
		},
	}
}

func tokenPrefix(token string) string {
	n := int(math.Min(12, float64(len(token))))
	return token[:n]
}

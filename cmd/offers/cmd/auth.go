package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ambiyansyah-risyal/offerskit"
)

func authTestCmd() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "auth-test",
		Short: "Exchange the refresh token for a fresh access token",
		Long: "Force a token refresh against the auth endpoint and report the\n" +
			"result. With --no-cache the token is neither read from nor written\n" +
			"to the token cache file.",
		RunE: func(_ *cobra.Command, _ []string) error {
			settings, err := loadSettings()
			if err != nil {
				return err
			}

			options := []offerskit.AuthOption{
				offerskit.WithAuthLogger(newLogger()),
			}
			if !noCache {
				options = append(options,
					offerskit.WithAuthStore(offerskit.NewFileTokenStore(settings.TokenCachePath)))
			}

			auth := offerskit.NewAuthManager(settings.RefreshToken, settings.BaseURL, options...)
			token, err := auth.Refresh(context.Background())
			if err != nil {
				return err
			}
			fmt.Printf("authentication OK, token %s...\n", tokenPrefix(token))
			return nil
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the token cache file")
	return cmd
}

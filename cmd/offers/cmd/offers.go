package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func offersCmd() *cobra.Command {
	var cached bool

	cmd := &cobra.Command{
		Use:   "get <product-id>",
		Short: "Fetch offers for a product",
		Example: `  offers get 9f8e7d6c-5b4a-3210-fedc-ba9876543210
  offers get 9f8e7d6c-5b4a-3210-fedc-ba9876543210 --cached`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			ctx := context.Background()
			fetch := client.GetOffers
			if cached {
				fetch = client.GetOffersCached
			}
			offers, err := fetch(ctx, args[0])
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(offers)
		},
	}

	cmd.Flags().BoolVar(&cached, "cached", false, "serve from the offers cache when fresh")
	return cmd
}

func cacheCmd() *cobra.Command {
	cacheRoot := &cobra.Command{
		Use:   "cache",
		Short: "Manage the offers cache",
	}

	cacheRoot.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Drop every cached offers entry",
		RunE: func(_ *cobra.Command, _ []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.Cache().Clear(context.Background()); err != nil {
				return err
			}
			fmt.Println("offers cache cleared")
			return nil
		},
	})

	return cacheRoot
}

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ambiyansyah-risyal/offerskit"
)

func registerCmd() *cobra.Command {
	var (
		productID   string
		description string
	)

	cmd := &cobra.Command{
		Use:   "register <name>",
		Short: "Register a product",
		Example: `  offers register "Widget" --description "A fine widget"
  offers register "Widget" --id 9f8e7d6c-5b4a-3210-fedc-ba9876543210`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if productID == "" {
				productID = uuid.NewString()
			}

			client, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			result, err := client.RegisterProduct(context.Background(), offerskit.RegisterProductRequest{
				ID:          productID,
				Name:        args[0],
				Description: description,
			})
			if err != nil {
				return err
			}
			fmt.Printf("registered product %s\n", result.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&productID, "id", "", "product id (default random UUID)")
	cmd.Flags().StringVar(&description, "description", "", "product description")
	return cmd
}

func registerBatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register-batch <file>",
		Short: "Register products from a JSON file",
		Long: "Register every product in a JSON array of objects with id, name and\n" +
			"description fields. Products missing an id get a random UUID.\n" +
			"Stops on the first failure.",
		Example: `  offers register-batch products.json`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var products []offerskit.RegisterProductRequest
			if err := json.Unmarshal(data, &products); err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}

			client, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			ctx := context.Background()
			for _, product := range products {
				if product.ID == "" {
					product.ID = uuid.NewString()
				}
				result, err := client.RegisterProduct(ctx, product)
				if err != nil {
					return fmt.Errorf("register %q: %w", product.Name, err)
				}
				fmt.Printf("registered product %s (%s)\n", result.ID, product.Name)
			}
			return nil
		},
	}
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/extsearch/internal/domain/search/request"
	chiTransport "github.com/kailas-cloud/extsearch/internal/transport/chi"
)

func searchCmd(env *string) *cobra.Command {
	var (
		limit  int
		random bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run a query and print results with resolved highlights as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var randomized *bool
			if cmd.Flags().Changed("random") {
				randomized = &random
			}
			req, err := request.New(strings.Join(args, " "), limit, randomized)
			if err != nil {
				return err //nolint:wrapcheck // already descriptive
			}

			ctx := context.Background()
			a, _, err := connect(ctx, *env)
			if err != nil {
				return err
			}
			defer a.Close()

			batch, err := a.Search.Search(ctx, req)
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(chiTransport.NewSearchResponse(&batch)) //nolint:wrapcheck // stdout write
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of results (default: repository.result_size)")
	cmd.Flags().BoolVar(&random, "random", false, "Randomize result order (default: repository.random_order)")

	return cmd
}

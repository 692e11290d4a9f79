package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func textCmd(env *string) *cobra.Command {
	return &cobra.Command{
		Use:   "text <collection> <id>",
		Short: "Print the full text of a document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, _, err := connect(ctx, *env)
			if err != nil {
				return err
			}
			defer a.Close()

			r, err := a.Documents.Stream(ctx, args[0], args[1])
			if err != nil {
				return fmt.Errorf("text: %w", err)
			}
			if _, err := io.Copy(cmd.OutOrStdout(), r); err != nil {
				return fmt.Errorf("write text: %w", err)
			}
			return nil
		},
	}
}

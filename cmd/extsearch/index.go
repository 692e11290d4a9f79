package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/extsearch/internal/domain"
)

func indexCmd(env *string) *cobra.Command {
	var (
		meta        []string
		ensureIndex bool
	)

	cmd := &cobra.Command{
		Use:   "index <collection> <id> <file>",
		Short: "Index a UTF-8 text file as a document",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			collection, id, path := args[0], args[1], args[2]

			metadata, err := parseMeta(meta)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(filepath.Clean(path))
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			ctx := context.Background()
			a, logger, err := connect(ctx, *env)
			if err != nil {
				return err
			}
			defer a.Close()

			if ensureIndex {
				if err := a.Indexes.EnsureIndex(ctx); err != nil {
					return fmt.Errorf("ensure index: %w", err)
				}
			}

			doc := domain.Document{Text: string(data), Metadata: metadata}
			if err := a.Documents.Index(ctx, collection, id, doc); err != nil {
				return fmt.Errorf("index: %w", err)
			}
			logger.Info("Document indexed",
				zap.String("collection", collection),
				zap.String("id", id),
				zap.Int("bytes", len(data)),
			)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&meta, "meta", nil, "Metadata entry key=value (repeatable)")
	cmd.Flags().BoolVar(&ensureIndex, "ensure-index", false, "Create the configured index when it is missing")

	return cmd
}

func parseMeta(entries []string) (map[string]string, error) {
	out := make(map[string]string, len(entries))
	for _, e := range entries {
		k, v, ok := strings.Cut(e, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --meta %q, want key=value", e)
		}
		out[k] = v
	}
	return out, nil
}

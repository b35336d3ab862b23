package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func (c *CLI) newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or purge the local content snapshots",
	}
	cmd.AddCommand(c.newCacheListCmd(), c.newCacheShowCmd(), c.newCachePurgeCmd())
	return cmd
}

func (c *CLI) newCacheListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached resources and when they were last written",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := c.deps.OpenStore(c.cfg)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tUPDATED")
			for _, key := range store.Keys() {
				updated := "-"
				if ts, ok := store.Timestamp(key); ok {
					updated = ts.UTC().Format(time.RFC3339)
				}
				fmt.Fprintf(w, "%s\t%s\n", key, updated)
			}
			return w.Flush()
		},
	}
}

func (c *CLI) newCacheShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <key>",
		Short: "Print the cached snapshot of a resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.deps.OpenStore(c.cfg)
			if err != nil {
				return err
			}
			raw, ok := store.Raw(args[0])
			if !ok {
				return fmt.Errorf("no cached snapshot for %q", args[0])
			}
			var out bytes.Buffer
			if err := json.Indent(&out, raw, "", "  "); err != nil {
				return fmt.Errorf("snapshot for %q is corrupt: %w", args[0], err)
			}
			out.WriteByte('\n')
			_, err = cmd.OutOrStdout().Write(out.Bytes())
			return err
		},
	}
}

func (c *CLI) newCachePurgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "purge [keys...]",
		Short: "Delete cached snapshots so the next read goes to the backend or the defaults",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all, _ := cmd.Flags().GetBool("all")
			if len(args) == 0 && !all {
				_ = cmd.Help()
				return nil
			}
			store, err := c.deps.OpenStore(c.cfg)
			if err != nil {
				return err
			}
			keys := args
			if all {
				keys = store.Keys()
			}
			for _, key := range keys {
				store.Purge(key)
				fmt.Fprintf(cmd.OutOrStdout(), "purged %s\n", key)
			}
			return nil
		},
	}
	cmd.Flags().Bool("all", false, "Purge every cached resource")
	return cmd
}

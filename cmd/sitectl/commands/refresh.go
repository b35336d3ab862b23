package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vijayapps/vac_site/internal/loader"
	"github.com/vijayapps/vac_site/internal/site"
)

func (c *CLI) newRefreshCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refresh [keys...]",
		Short: "Re-read resources from the backend into the local cache",
		Long: "Re-read the given resources (default: every built-in resource plus every cached one)\n" +
			"from the backend and write them to the local cache. With --publish the keys are\n" +
			"also announced on the relay so running servers reload them.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			publish, _ := cmd.Flags().GetBool("publish")

			store, err := c.deps.OpenStore(c.cfg)
			if err != nil {
				return err
			}
			client, err := c.deps.OpenRemote(ctx, c.cfg)
			if err != nil {
				return err
			}
			defer client.Close()

			catalog, err := site.NewCatalog(client, store, loader.WithFetchTimeout(c.cfg.Remote.FetchTimeout))
			if err != nil {
				return err
			}

			keys := args
			if len(keys) == 0 {
				keys = mergeKeys(catalog.Keys(), knownKeys(store.Keys()))
			}

			failed := 0
			for _, key := range keys {
				ok, err := catalog.Refresh(ctx, key)
				switch {
				case err != nil:
					return err
				case !ok:
					failed++
					fmt.Fprintf(cmd.OutOrStdout(), "%s: backend unavailable, cache unchanged\n", key)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: refreshed\n", key)
				if publish {
					if err := client.Publish(ctx, key); err != nil {
						return fmt.Errorf("publish %s: %w", key, err)
					}
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d resources could not be fetched", failed, len(keys))
			}
			return nil
		},
	}
	cmd.Flags().Bool("publish", false, "Announce refreshed keys to running servers")
	return cmd
}

// mergeKeys returns the union of a and b, keeping a's order first.
func mergeKeys(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, k := range list {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, k)
		}
	}
	return out
}

// knownKeys drops stored keys no loader owns.
func knownKeys(keys []string) []string {
	out := keys[:0:0]
	for _, k := range keys {
		if _, err := site.ParseKey(k); err == nil {
			out = append(out, k)
		}
	}
	return out
}

package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stowage/pkg/cache"
	"github.com/matzehuels/stowage/pkg/errors"
	stowio "github.com/matzehuels/stowage/pkg/io"
	"github.com/matzehuels/stowage/pkg/node"
	"github.com/matzehuels/stowage/pkg/render/nodelink"
)

// Output formats for dump.
const (
	formatXML  = "xml"
	formatJSON = "json"
)

// svgCacheTTL bounds how long a rendered SVG is reused.
const svgCacheTTL = 7 * 24 * time.Hour

// loadTree reads the stored document without deserializing it.
func (c *CLI) loadTree() (*node.Node, error) {
	s := c.openSession()
	root := s.Store().Load(s.Path())
	if root == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "no stored settings at %s", s.Path())
	}
	return root, nil
}

func (c *CLI) dumpCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the stored document as XML or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := c.loadTree()
			if err != nil {
				return err
			}
			switch format {
			case formatXML:
				return stowio.WriteXML(root, cmd.OutOrStdout())
			case formatJSON:
				return stowio.WriteJSON(root, cmd.OutOrStdout())
			}
			return errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want %s or %s)", format, formatXML, formatJSON)
		},
	}

	cmd.Flags().StringVar(&format, "format", formatXML, "output format: xml or json")
	return cmd
}

func (c *CLI) graphCommand() *cobra.Command {
	var (
		svg      bool
		detailed bool
		noCache  bool
		output   string
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Draw the stored document as a node-link diagram",
		Long: `Draw the stored document as a node-link diagram.

Without --svg the Graphviz DOT source is printed. Reference markers are
linked to the object they refer to with dashed edges.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			root, err := c.loadTree()
			if err != nil {
				return err
			}
			data := []byte(nodelink.ToDOT(root, nodelink.Options{Detailed: detailed, HideReserved: !c.verbose}))

			if svg {
				rc := c.renderCache(noCache)
				defer rc.Close()

				prog := newProgress(logger)
				data, err = c.renderSVG(ctx, cmd, rc, string(data))
				if err != nil {
					return err
				}
				prog.done(fmt.Sprintf("Rendered %d nodes", root.Count()))
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess(cmd.OutOrStdout(), "Wrote graph")
			printFile(cmd.OutOrStdout(), output)
			return nil
		},
	}

	cmd.Flags().BoolVar(&svg, "svg", false, "render SVG instead of DOT")
	cmd.Flags().BoolVarP(&detailed, "detailed", "d", false, "include attributes in node labels")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "always re-render instead of reusing a cached SVG")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

// renderCache opens the SVG cache, falling back to no caching when disabled
// or when the cache directory is unusable.
func (c *CLI) renderCache(disabled bool) cache.Cache {
	if disabled {
		return cache.NullCache{}
	}
	dir, err := cacheDir()
	if err == nil {
		var fc *cache.FileCache
		if fc, err = cache.NewFileCache(dir); err == nil {
			return fc
		}
	}
	c.Logger.Debug("render cache disabled", "err", err)
	return cache.NullCache{}
}

// renderSVG renders dot, reusing an earlier render of identical source.
func (c *CLI) renderSVG(ctx context.Context, cmd *cobra.Command, rc cache.Cache, dot string) ([]byte, error) {
	key := cache.Key("svg", dot)
	if data, ok, err := rc.Get(ctx, key); err != nil {
		c.Logger.Debug("cache read failed", "err", err)
	} else if ok {
		c.Logger.Debug("cache hit", "key", key)
		return data, nil
	}

	spin := newSpinnerWithContext(ctx, cmd.ErrOrStderr(), "Rendering SVG...")
	spin.Start()
	data, err := nodelink.RenderSVG(ctx, dot)
	spin.Stop()
	if err != nil {
		return nil, err
	}

	if err := rc.Set(ctx, key, data, svgCacheTTL); err != nil {
		c.Logger.Debug("cache write failed", "err", err)
	}
	return data, nil
}

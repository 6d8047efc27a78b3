package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/packdex/packdex/pkg/catalog"
	"github.com/packdex/packdex/pkg/integrations/github"
	"github.com/packdex/packdex/pkg/license"
	"github.com/packdex/packdex/pkg/maven"
)

// indexOpts holds the command-line flags for the index command.
type indexOpts struct {
	workers int  // parallel per-repository aggregation workers
	dryRun  bool // run the pipeline without persisting
}

// indexCommand creates the index command, which runs the batch pipeline over
// a directory tree of POM files.
func (c *CLI) indexCommand() *cobra.Command {
	opts := indexOpts{workers: catalog.DefaultWorkers}

	cmd := &cobra.Command{
		Use:   "index <dir>",
		Short: "Index a directory of POM files into the catalog",
		Long: `Index walks a directory tree for POM files (*.pom, pom.xml), converts
them into releases grouped by source repository, folds in previously stored
state, and persists the resulting projects, releases, and dependency edges.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			prog := newProgress(c.Logger)

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			st, err := c.openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			descriptors := c.loadDescriptors(args[0])
			if len(descriptors) == 0 {
				printWarning("No POM files found under %s", args[0])
				return nil
			}

			runner := catalog.BatchRunner{
				Resolver: github.Resolver{},
				Prior:    st,
				Licenses: license.Normalize,
				Logger:   c.Logger,
				Workers:  opts.workers,
			}
			result, err := runner.Run(ctx, descriptors)
			if err != nil {
				return err
			}

			if opts.dryRun {
				printInfo("Dry run, nothing persisted")
			} else if err := st.SaveBatch(ctx, result); err != nil {
				return err
			}

			printSuccess("Indexed %d descriptors", len(descriptors))
			printCounts(len(result.Projects), len(result.Releases), len(result.Dependencies), dropTotal(result))
			for reason, n := range result.Dropped {
				printDetail("dropped %d (%s)", n, reason)
			}
			prog.done(fmt.Sprintf("Batch finished for %s", args[0]))
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.workers, "workers", opts.workers, "parallel aggregation workers")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "run the pipeline without persisting")
	return cmd
}

// loadDescriptors walks dir for POM files and parses each one. Files that
// fail to parse are logged and skipped; the batch proceeds with the rest.
func (c *CLI) loadDescriptors(dir string) []*maven.ArtifactDescriptor {
	var descriptors []*maven.ArtifactDescriptor

	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !isPomFile(path) {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			c.Logger.Warn("skipping unreadable file", "path", path, "err", err)
			return nil
		}
		desc, err := maven.ParsePOM(data)
		if err != nil {
			c.Logger.Warn("skipping invalid pom", "path", path, "err", err)
			return nil
		}
		if info, err := d.Info(); err == nil {
			desc.Created = info.ModTime().UTC()
		}
		descriptors = append(descriptors, desc)
		return nil
	})
	return descriptors
}

func isPomFile(path string) bool {
	return strings.HasSuffix(path, ".pom") || filepath.Base(path) == "pom.xml"
}

func dropTotal(result *catalog.BatchResult) int {
	total := 0
	for _, n := range result.Dropped {
		total += n
	}
	return total
}

package cli

import (
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/packdex/packdex/pkg/catalog"
	"github.com/packdex/packdex/pkg/integrations/github"
	"github.com/packdex/packdex/pkg/license"
)

// publishOpts holds the command-line flags for the publish command.
type publishOpts struct {
	created    string // RFC 3339 override for the release time
	noCache    bool   // bypass the metadata cache
	noMetadata bool   // skip the GitHub metadata refresh
}

// publishCommand creates the publish command, which runs the incremental
// pipeline on a single POM file. The local operator is a trusted caller and
// may publish to any repository.
func (c *CLI) publishCommand() *cobra.Command {
	var opts publishOpts

	cmd := &cobra.Command{
		Use:   "publish <pom-file>",
		Short: "Publish a single POM file into the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			created, err := publishTime(args[0], opts.created)
			if err != nil {
				return err
			}

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			st, err := c.openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			publisher := catalog.Publisher{
				Resolver: github.Resolver{},
				Prior:    st,
				Projects: st,
				Sink:     st,
				Licenses: license.Normalize,
				Logger:   c.Logger,
			}
			if !opts.noMetadata {
				bc := c.newByteCache(ctx, cfg, opts.noCache)
				defer bc.Close()
				publisher.Metadata = c.newMetadataReader(cfg, bc)
			}

			result, err := publisher.Publish(ctx, raw, nil, created)
			if err != nil {
				return err
			}

			switch res := result.(type) {
			case catalog.Published:
				printSuccess("Published %s", res.Release.Coordinate.String())
				printKeyValue("project", res.Project.Reference().String())
				printKeyValue("releases", StyleHighlight.Render(strconv.Itoa(res.Project.ReleaseCount)))
				if res.NewProject {
					printDetail("new project created")
				}
			case catalog.InvalidPom:
				printError("Invalid POM: %v", res.Err)
			case catalog.NoGithubRepo:
				printError("No source repository found for %s", res.Coordinate)
			case catalog.Forbidden:
				printError("Forbidden for %s", res.Repository.String())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.created, "created", "", "release time (RFC 3339, default file modification time)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the metadata cache")
	cmd.Flags().BoolVar(&opts.noMetadata, "no-metadata", false, "skip the GitHub metadata refresh")
	return cmd
}

// publishTime resolves the release time: the --created flag when set, the
// POM file's modification time otherwise.
func publishTime(path, flag string) (time.Time, error) {
	if flag != "" {
		return time.Parse(time.RFC3339, flag)
	}
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime().UTC(), nil
}

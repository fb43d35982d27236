package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cobuy/pkg/core/graph"
	"github.com/matzehuels/cobuy/pkg/core/hierarchy"
	"github.com/matzehuels/cobuy/pkg/core/metrics"
	"github.com/matzehuels/cobuy/pkg/errors"
	cbio "github.com/matzehuels/cobuy/pkg/io"
	"github.com/matzehuels/cobuy/pkg/pipeline"
)

// maxTitleWidth bounds titles in tables and trees.
const maxTitleWidth = 48

// load analyzes the document at path behind a spinner. The caller must
// Close the returned runner.
func (c *CLI) load(cmd *cobra.Command, path string) (*pipeline.Runner, *pipeline.Analysis, error) {
	ctx := cmd.Context()
	runner := c.newRunner(ctx)

	prog := newProgress(c.Logger)
	spin := newSpinner(ctx, cmd.ErrOrStderr(), "Analyzing "+filepath.Base(path))
	spin.Start()
	a, err := runner.LoadFile(ctx, path, c.options())
	spin.Stop()
	if err != nil {
		runner.Close()
		return nil, nil, err
	}

	prog.done("Analyzed graph",
		"nodes", a.Stats.NodeCount,
		"links", a.Stats.LinkCount,
		"cache", a.CacheInfo,
		"metrics", a.Timings.Metrics,
	)
	return runner, a, nil
}

// nodeArg validates the ID argument of a per-node command.
func nodeArg(id string) (string, error) {
	if err := errors.ValidateNodeID(id); err != nil {
		return "", err
	}
	return id, nil
}

// writeOutput saves v as JSON to path, reporting the file on stderr.
func writeOutput(cmd *cobra.Command, path string, v any) error {
	if err := cbio.ExportJSON(path, v); err != nil {
		return err
	}
	printSuccess(cmd.ErrOrStderr(), "Wrote %s", path)
	return nil
}

// =============================================================================
// analyze
// =============================================================================

type analyzeReport struct {
	File      string             `json:"file"`
	Stats     metrics.Stats      `json:"stats"`
	Timings   pipeline.Timings   `json:"timings"`
	CacheInfo pipeline.CacheInfo `json:"cache"`
}

func (c *CLI) analyzeCommand() *cobra.Command {
	var (
		asJSON bool
		output string
	)
	cmd := &cobra.Command{
		Use:   "analyze FILE",
		Short: "Print graph statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, a, err := c.load(cmd, args[0])
			if err != nil {
				return err
			}
			defer runner.Close()

			report := analyzeReport{
				File:      args[0],
				Stats:     a.Stats,
				Timings:   a.Timings,
				CacheInfo: a.CacheInfo,
			}
			if output != "" {
				return writeOutput(cmd, output, report)
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return cbio.WriteJSON(out, report)
			}

			s := a.Stats
			fmt.Fprintln(out, StyleTitle.Render(filepath.Base(args[0])))
			printKeyValue(out, "Products", strconv.Itoa(s.NodeCount))
			printKeyValue(out, "Links", strconv.Itoa(s.LinkCount))
			printKeyValue(out, "Max degree", strconv.Itoa(s.MaxDegree))
			printKeyValue(out, "Mean eccentricity", strconv.FormatFloat(s.MeanEccentricity, 'f', 1, 64))
			printKeyValue(out, "Components", strconv.Itoa(s.Components))
			printKeyValue(out, "Largest component", strconv.Itoa(s.LargestComponent))
			printLoadSummary(out, s.NodeCount, s.LinkCount, a.CacheInfo.MetricsHit, a.Timings.Total().Round(time.Millisecond).String())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the JSON report to a file")
	return cmd
}

// =============================================================================
// node
// =============================================================================

func (c *CLI) nodeCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "node FILE ID",
		Short: "Show metrics and related products for one product",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := nodeArg(args[1])
			if err != nil {
				return err
			}
			runner, a, err := c.load(cmd, args[0])
			if err != nil {
				return err
			}
			defer runner.Close()

			d, err := a.Detail(id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return cbio.WriteJSON(out, d)
			}

			fmt.Fprintln(out, StyleTitle.Render(d.Node.Title))
			printKeyValue(out, "ID", d.Node.ID)
			if d.Node.Thumbnail != "" {
				printKeyValue(out, "Thumbnail", d.Node.Thumbnail)
			}
			printKeyValue(out, "Degree", strconv.Itoa(d.Degree))
			printKeyValue(out, "Eccentricity", strconv.Itoa(d.Eccentricity))
			printKeyValue(out, "Rank", fmt.Sprintf("%d of %d", d.Rank, a.Stats.NodeCount))
			printKeyValue(out, "Related", strconv.Itoa(len(d.Related)))
			for _, rid := range d.Related {
				printDetail(out, "%s", rid)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

// =============================================================================
// tree
// =============================================================================

func (c *CLI) treeCommand() *cobra.Command {
	var (
		depth  int
		asJSON bool
		output string
	)
	cmd := &cobra.Command{
		Use:   "tree FILE ID",
		Short: "Print the outgoing relationship tree of a product",
		Long: `Print the products reachable from ID by following "bought with" links,
up to --depth levels including the root. A product already on the current
path is not expanded again, so cycles end at their second visit.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := nodeArg(args[1])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("depth") {
				if err := errors.ValidateDepth(depth); err != nil {
					return err
				}
			}
			runner, a, err := c.load(cmd, args[0])
			if err != nil {
				return err
			}
			defer runner.Close()

			tree, err := runner.Hierarchy(cmd.Context(), a, id, depth)
			if err != nil {
				return err
			}

			if output != "" {
				return writeOutput(cmd, output, tree)
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return cbio.WriteJSON(out, tree)
			}
			writeTree(out, tree)
			printDetail(out, "%d nodes, height %d", tree.Size(), tree.Height())
			return nil
		},
	}
	cmd.Flags().IntVarP(&depth, "depth", "d", 0, "maximum depth including the root (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the tree as JSON to a file")
	return cmd
}

func writeTree(w io.Writer, root *hierarchy.Node) {
	fmt.Fprintln(w, treeLabel(root.Source))
	writeChildren(w, root.Children, "")
}

func writeChildren(w io.Writer, children []*hierarchy.Node, prefix string) {
	for i, ch := range children {
		branch, next := "├── ", "│   "
		if i == len(children)-1 {
			branch, next = "└── ", "    "
		}
		fmt.Fprintln(w, StyleDim.Render(prefix+branch)+treeLabel(ch.Source))
		writeChildren(w, ch.Children, prefix+next)
	}
}

func treeLabel(n graph.Node) string {
	label := StyleValue.Render(n.ID)
	if n.Title != "" && n.Title != n.ID {
		label += " " + StyleDim.Render(truncate(n.Title, maxTitleWidth))
	}
	return label
}

// =============================================================================
// related
// =============================================================================

func (c *CLI) relatedCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "related FILE ID",
		Short: "List products linked to a product in either direction",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := nodeArg(args[1])
			if err != nil {
				return err
			}
			runner, a, err := c.load(cmd, args[0])
			if err != nil {
				return err
			}
			defer runner.Close()

			related, err := a.Related(id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return cbio.WriteJSON(out, related)
			}
			if len(related) == 0 {
				printInfo(out, "%s has no related products", id)
				return nil
			}
			for _, rid := range related {
				n, _ := a.Graph.Node(rid)
				fmt.Fprintln(out, treeLabel(n))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

// =============================================================================
// search
// =============================================================================

func (c *CLI) searchCommand() *cobra.Command {
	var (
		all    bool
		limit  int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "search FILE QUERY",
		Short: "Find products whose ID or title contains QUERY",
		Long: `Find products whose ID or title contains QUERY, ignoring case.
Without --all only the first match in document order is printed.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := args[1]
			if err := errors.ValidateQuery(query); err != nil {
				return err
			}
			runner, a, err := c.load(cmd, args[0])
			if err != nil {
				return err
			}
			defer runner.Close()

			var matches []graph.Node
			if all {
				matches = a.SearchAll(query, limit)
			} else if n, ok := a.Search(query); ok {
				matches = []graph.Node{n}
			}

			out := cmd.OutOrStdout()
			if asJSON {
				if matches == nil {
					matches = []graph.Node{}
				}
				return cbio.WriteJSON(out, matches)
			}
			if len(matches) == 0 {
				printWarning(out, "No product matches %q", query)
				return nil
			}
			for _, n := range matches {
				fmt.Fprintln(out, treeLabel(n))
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "print every match")
	cmd.Flags().IntVarP(&limit, "limit", "l", pipeline.DefaultSearchLimit, "maximum matches with --all")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

// =============================================================================
// top
// =============================================================================

func (c *CLI) topCommand() *cobra.Command {
	var (
		by     string
		n      int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "top FILE",
		Short: "Rank products by degree or PageRank",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateRanking(by); err != nil {
				return err
			}
			runner, a, err := c.load(cmd, args[0])
			if err != nil {
				return err
			}
			defer runner.Close()

			out := cmd.OutOrStdout()
			var rows [][]string
			var headers []string

			if by == pipeline.RankByPageRank {
				top := runner.TopByPageRank(cmd.Context(), a, n)
				if asJSON {
					return cbio.WriteJSON(out, top)
				}
				headers = []string{"#", "ID", "Title", "PageRank"}
				for i, s := range top {
					rows = append(rows, []string{
						strconv.Itoa(i + 1), s.Node.ID, truncate(s.Node.Title, maxTitleWidth),
						strconv.FormatFloat(s.Score, 'f', 4, 64),
					})
				}
			} else {
				top := a.TopByDegree(n)
				if asJSON {
					return cbio.WriteJSON(out, top)
				}
				headers = []string{"#", "ID", "Title", "Degree", "Ecc"}
				for _, r := range top {
					rows = append(rows, []string{
						strconv.Itoa(r.Rank), r.Node.ID, truncate(r.Node.Title, maxTitleWidth),
						strconv.Itoa(r.Degree), strconv.Itoa(r.Eccentricity),
					})
				}
			}

			fmt.Fprintln(out, renderTable(headers, rows))
			return nil
		},
	}
	cmd.Flags().StringVar(&by, "by", pipeline.RankByDegree, "ranking: degree or pagerank")
	cmd.Flags().IntVarP(&n, "count", "n", pipeline.DefaultTopN, "number of products")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

// truncate shortens s to at most width runes, marking the cut with "…".
func truncate(s string, width int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= width {
		return string(r)
	}
	return string(r[:width-1]) + "…"
}

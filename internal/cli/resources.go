package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/ffscope/internal/config"
	"github.com/five82/ffscope/internal/filters"
	"github.com/five82/ffscope/internal/firefly"
	"github.com/five82/ffscope/internal/listing"
	"github.com/five82/ffscope/internal/logging"
	"github.com/five82/ffscope/internal/rows"
)

// resource describes one listable FireFly collection.
type resource[T any] struct {
	name       filters.Resource
	singular   string
	projection rows.Projection[T]
	list       func(ctx context.Context, c firefly.API, namespace, rawQuery string) (firefly.Page[T], error)
	lookup     func(ctx context.Context, c firefly.API, namespace, id string) ([]T, error)
}

var approvalsResource = resource[firefly.TokenApproval]{
	name:       filters.ResourceApprovals,
	singular:   "approval",
	projection: rows.Approvals,
	list: func(ctx context.Context, c firefly.API, ns, q string) (firefly.Page[firefly.TokenApproval], error) {
		return c.ListTokenApprovals(ctx, ns, q)
	},
	lookup: func(ctx context.Context, c firefly.API, ns, id string) ([]firefly.TokenApproval, error) {
		return c.LookupTokenApproval(ctx, ns, id)
	},
}

var poolsResource = resource[firefly.TokenPool]{
	name:       filters.ResourcePools,
	singular:   "pool",
	projection: rows.Pools,
	list: func(ctx context.Context, c firefly.API, ns, q string) (firefly.Page[firefly.TokenPool], error) {
		return c.ListTokenPools(ctx, ns, q)
	},
	lookup: func(ctx context.Context, c firefly.API, ns, id string) ([]firefly.TokenPool, error) {
		return c.LookupTokenPool(ctx, ns, id)
	},
}

func makeApprovalsCmd(g *globalOptions) *cobra.Command {
	return makeResourceCmd(g, approvalsResource, "Inspect token approvals", []string{"approval", "ap"})
}

func makePoolsCmd(g *globalOptions) *cobra.Command {
	return makeResourceCmd(g, poolsResource, "Inspect token pools", []string{"pool", "tp"})
}

func makeResourceCmd[T any](g *globalOptions, r resource[T], short string, aliases []string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     string(r.name),
		Short:   short,
		Args:    cobra.NoArgs,
		Aliases: aliases,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}
	cmd.AddCommand(makeListCmd(g, r))
	cmd.AddCommand(makeGetCmd(g, r))
	return cmd
}

// listOptions are the flags of a list command.
type listOptions struct {
	page     int
	pageSize int
	since    string
	filters  []string
	output   string
	wide     bool
}

// request resolves the flags into a list request for cfg.
func (o listOptions) request(r filters.Resource, cfg config.Config, now time.Time) (listing.Request, error) {
	created, err := filters.ParseCreatedFilter(o.since)
	if err != nil {
		return listing.Request{}, err
	}
	spec, err := filters.ParseAll(r, o.filters)
	if err != nil {
		return listing.Request{}, err
	}
	size := o.pageSize
	if size <= 0 {
		size = cfg.PageSize
	}
	if !slices.Contains(config.PageLimits, size) {
		return listing.Request{}, fmt.Errorf("page size %d not supported (want one of %s)", size, joinInts(config.PageLimits))
	}
	page := max(o.page-1, 0)
	return listing.Request{
		Namespace:  cfg.Namespace,
		Page:       page,
		Limit:      size,
		Skip:       page * size,
		DateFilter: filters.NewDateFilter(created, func() time.Time { return now }).FilterString,
		Filter:     spec.FilterString(),
	}, nil
}

func makeListCmd[T any](g *globalOptions, r resource[T]) *cobra.Command {
	opts := listOptions{}
	cmd := &cobra.Command{
		Use:     "list",
		Short:   fmt.Sprintf("List %s in the namespace", r.name),
		Args:    cobra.NoArgs,
		Aliases: []string{"ls"},
		Example: fmt.Sprintf(`  ffscope %[1]s list --since 7d
  ffscope %[1]s list --filter %[2]s -o json`, r.name, exampleFilter(r.name)),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseFormat(opts.output)
			if err != nil {
				return err
			}
			client, cfg, err := g.client()
			if err != nil {
				return err
			}
			req, err := opts.request(r.name, cfg, time.Now())
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout)
			defer cancel()

			logging.For("cli").Debug("list request", "resource", r.name, "namespace", req.Namespace, "query", req.Query())
			stop := startSpinner(cmd.ErrOrStderr(), fmt.Sprintf(" Fetching %s from %s", r.name, cfg.Namespace))
			page, err := r.list(ctx, client, req.Namespace, req.Query())
			stop()
			if err != nil {
				return fmt.Errorf("list %s: %w", r.name, err)
			}

			out := cmd.OutOrStdout()
			if format != formatTable {
				return writeStructured(out, format, page)
			}
			if len(page.Items) == 0 {
				fmt.Fprintf(out, "There are no %s in namespace %q created in the %s\n", r.name, cfg.Namespace, mustCreated(opts.since).Label())
				return nil
			}
			writeTable(out, r.projection, page.Items, time.Now(), opts.wide)
			writePageFooter(out, req, page.Total, len(page.Items))
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.page, "page", 1, "page number, starting at 1")
	f.IntVar(&opts.pageSize, "page-size", 0, "rows per page (5, 10, 25, 50 or 100; default from config)")
	f.StringVar(&opts.since, "since", string(filters.DefaultCreatedFilter), "created window (1h, 24h, 7d, 30d)")
	f.StringArrayVarP(&opts.filters, "filter", "f", nil, "filter condition field<op>value, repeatable")
	f.StringVarP(&opts.output, "output", "o", "table", "output format (table, json, yaml)")
	f.BoolVar(&opts.wide, "wide", false, "print full identifiers")

	return cmd
}

func makeGetCmd[T any](g *globalOptions, r resource[T]) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "get ID",
		Short: fmt.Sprintf("Show one %s by id", r.singular),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseFormat(output)
			if err != nil {
				return err
			}
			id, err := firefly.ValidateLocalID(args[0])
			if err != nil {
				return err
			}
			client, cfg, err := g.client()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout)
			defer cancel()

			logging.For("cli").Debug("lookup request", "resource", r.name, "namespace", cfg.Namespace, "id", id)
			stop := startSpinner(cmd.ErrOrStderr(), fmt.Sprintf(" Looking up %s %s", r.singular, id))
			records, err := r.lookup(ctx, client, cfg.Namespace, id)
			stop()
			if err != nil {
				return fmt.Errorf("get %s: %w", r.singular, err)
			}
			// Lookups filter rather than address, so anything but one match is a miss.
			if len(records) != 1 {
				logging.For("cli").Debug("lookup did not resolve", "id", id, "count", len(records))
				return fmt.Errorf("%s %s not found in namespace %q", r.singular, id, cfg.Namespace)
			}

			out := cmd.OutOrStdout()
			if format == formatTable {
				writeRecord(out, r.projection, records[0], time.Now())
				return nil
			}
			return writeStructured(out, format, records[0])
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "yaml", "output format (table, json, yaml)")
	return cmd
}

func exampleFilter(r filters.Resource) string {
	if r == filters.ResourcePools {
		return "standard=ERC20"
	}
	return "approved=true"
}

func mustCreated(raw string) filters.CreatedFilter {
	c, err := filters.ParseCreatedFilter(raw)
	if err != nil {
		return filters.DefaultCreatedFilter
	}
	return c
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}

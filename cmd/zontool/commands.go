package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/zonkit/internal/library"
	"github.com/udisondev/zonkit/internal/scene"
	"github.com/udisondev/zonkit/internal/zon"
)

// errMalformed is returned by check when any file has a malformed number.
var errMalformed = errors.New("malformed zone lines found")

func runCheck(_ context.Context, env *toolEnv, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	opts := zon.Options{OnError: zon.SkipAndRecord, ReportShortLines: true}
	bad := 0
	for _, path := range args {
		res, err := zon.ParseFile(path, opts)
		if err != nil {
			return err
		}
		fmt.Fprintf(env.out, "%s: %d zones, %d lines, %d diagnostics\n",
			path, len(res.Records), res.Lines, len(res.Diagnostics))
		for _, d := range res.Diagnostics {
			fmt.Fprintf(env.out, "%s:%d: %s: %s\n", path, d.Line, d.Kind, d.Reason)
			if d.Kind == zon.KindMalformedNumber {
				bad++
			}
		}
	}
	if bad > 0 {
		return fmt.Errorf("%w: %d", errMalformed, bad)
	}
	return nil
}

// errLossyNormalize is returned when rewriting a file would drop lines the
// parser skipped.
var errLossyNormalize = errors.New("file has skipped lines, not rewritten")

// runNormalize imports every file into its own scene and exports it back in
// place. Files are independent, so they are processed concurrently.
func runNormalize(ctx context.Context, env *toolEnv, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	// Один и тот же файл не должен обрабатываться двумя горутинами.
	paths := slices.Clone(args)
	slices.Sort(paths)
	paths = slices.Compact(paths)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(env.cfg.Workers)

	counts := make([]int, len(paths))
	diags := make([][]zon.Diagnostic, len(paths))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			n, d, err := normalizeFile(path, env.opts)
			counts[i], diags[i] = n, d
			return err
		})
	}
	err := g.Wait()

	for i, path := range paths {
		for _, d := range diags[i] {
			fmt.Fprintf(env.out, "%s:%d: %s: %s\n", path, d.Line, d.Kind, d.Reason)
		}
	}
	if err != nil {
		return err
	}

	for i, path := range paths {
		fmt.Fprintf(env.out, "normalized %d zones in %s\n", counts[i], path)
	}
	return nil
}

// normalizeFile rewrites path in canonical form. A file with any skipped
// line is left as is, since the rewrite would lose that line.
func normalizeFile(path string, opts zon.Options) (int, []zon.Diagnostic, error) {
	opts.ReportShortLines = true
	res, err := zon.ParseFile(path, opts)
	if err != nil {
		return 0, nil, err
	}
	if len(res.Diagnostics) > 0 {
		return 0, res.Diagnostics, fmt.Errorf("%w: %s: %d lines", errLossyNormalize, path, len(res.Diagnostics))
	}

	sc := scene.New()
	for _, r := range res.Records {
		if _, err := sc.CreateBox(r); err != nil {
			return 0, nil, fmt.Errorf("building scene: %w", err)
		}
	}
	rep, err := zon.ExportFile(path, sc.Sources())
	return rep.Exported, nil, err
}

func runBounds(_ context.Context, env *toolEnv, args []string) error {
	if len(args) != 1 {
		return errUsage
	}

	sc := scene.New()
	rep, err := zon.ImportFile(args[0], sc, env.opts)
	if err != nil {
		return err
	}
	b, ok := sc.ZoneBounds()
	if !ok {
		fmt.Fprintf(env.out, "%s: no zones\n", args[0])
		return nil
	}
	fmt.Fprintf(env.out, "%s: %d zones\n  min %s %s %s\n  max %s %s %s\n",
		args[0], rep.Imported,
		zon.FormatCoord(b.Min.X), zon.FormatCoord(b.Min.Y), zon.FormatCoord(b.Min.Z),
		zon.FormatCoord(b.Max.X), zon.FormatCoord(b.Max.Y), zon.FormatCoord(b.Max.Z))
	return nil
}

func runImport(ctx context.Context, env *toolEnv, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errUsage
	}
	path := args[0]
	name := setNameFromPath(path)
	if len(args) == 2 {
		name = args[1]
	}

	res, err := zon.ParseFile(path, env.opts)
	if err != nil {
		return err
	}
	for _, d := range res.Diagnostics {
		fmt.Fprintf(env.out, "%s:%d: %s: %s\n", path, d.Line, d.Kind, d.Reason)
	}

	zones := make([]zon.Bounded, 0, len(res.Records))
	for _, r := range res.Records {
		zones = append(zones, zon.BoundedFromRecord(r))
	}

	repo, err := library.Open(ctx, env.cfg.Library)
	if err != nil {
		return fmt.Errorf("opening zone library: %w", err)
	}
	defer repo.Close()

	saved, err := repo.SaveSet(ctx, library.ZoneSet{Name: name, Zones: zones})
	if err != nil {
		return err
	}
	if !saved {
		fmt.Fprintf(env.out, "set %q unchanged (%d zones)\n", name, len(zones))
		return nil
	}
	fmt.Fprintf(env.out, "imported %d zones into set %q\n", len(zones), name)
	return nil
}

func runExport(ctx context.Context, env *toolEnv, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	name, path := args[0], args[1]

	repo, err := library.Open(ctx, env.cfg.Library)
	if err != nil {
		return fmt.Errorf("opening zone library: %w", err)
	}
	defer repo.Close()

	set, err := repo.LoadSet(ctx, name)
	if err != nil {
		return err
	}

	sc := scene.New()
	for _, z := range set.Zones {
		if _, err := sc.CreateBox(zon.Record{Meta: z.Meta, Corner1: z.Min, Corner2: z.Max}); err != nil {
			return fmt.Errorf("building scene: %w", err)
		}
	}

	rep, err := zon.ExportFile(path, sc.Sources())
	if err != nil {
		return err
	}
	fmt.Fprintf(env.out, "exported %d zones to %s\n", rep.Exported, path)
	return nil
}

func runList(ctx context.Context, env *toolEnv, args []string) error {
	if len(args) != 0 {
		return errUsage
	}

	repo, err := library.Open(ctx, env.cfg.Library)
	if err != nil {
		return fmt.Errorf("opening zone library: %w", err)
	}
	defer repo.Close()

	sets, err := repo.ListSets(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(env.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SET\tZONES\tIMPORTED\tDIGEST")
	for _, s := range sets {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", s.Name, s.Zones, s.ImportedAt.Format(time.RFC3339), shortDigest(s.Digest))
	}
	return tw.Flush()
}

func runDelete(ctx context.Context, env *toolEnv, args []string) error {
	if len(args) != 1 {
		return errUsage
	}

	repo, err := library.Open(ctx, env.cfg.Library)
	if err != nil {
		return fmt.Errorf("opening zone library: %w", err)
	}
	defer repo.Close()

	if err := repo.DeleteSet(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(env.out, "deleted set %q\n", args[0])
	return nil
}

// setNameFromPath turns "maps/vegas.zon" into "vegas".
func setNameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func shortDigest(d string) string {
	if len(d) > 12 {
		return d[:12]
	}
	return d
}

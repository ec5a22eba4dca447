// Package usecase composes tracking state, topic loading, note
// generation and digest building into the lifecycle commands.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"SocialForge/internal/digest"
	"SocialForge/internal/domain"
	"SocialForge/internal/generate"
	"SocialForge/internal/ports"
	"SocialForge/internal/schedule"
	"SocialForge/internal/topics"
	"SocialForge/internal/tracking"
	"SocialForge/pkg/textutil"
)

var (
	// ErrNotRanked means the latest day has no topic list yet.
	ErrNotRanked = errors.New("no ranked topics yet, run rank first")

	// ErrNotGenerated means the topic has no artifact to preview or publish.
	ErrNotGenerated = errors.New("topic not generated yet")
)

// IsUserError reports whether err is an operator mistake the CLI should
// print and swallow rather than exit non-zero on.
func IsUserError(err error) bool {
	return errors.Is(err, ErrNotRanked) ||
		errors.Is(err, ErrNotGenerated) ||
		errors.Is(err, tracking.ErrNoData) ||
		errors.Is(err, topics.ErrNoDigest) ||
		errors.Is(err, generate.ErrInvalidIndex)
}

// Deps wires the collaborators of the lifecycle commands.
type Deps struct {
	Store     *tracking.Store
	Loader    *topics.Loader
	Pipeline  *generate.Pipeline
	Feeds     ports.FeedSource
	Builder   *digest.Builder
	Generator ports.TextGenerator
	Window    time.Duration
	Out       io.Writer
	Now       func() time.Time
	Location  *time.Location
	Logger    *slog.Logger
}

// Commands implements the day lifecycle: fetch, rank, gen, list,
// preview, publish, batch and models. Every command loads the tracking
// root fresh, mutates it in memory and writes it back whole.
type Commands struct {
	store     *tracking.Store
	loader    *topics.Loader
	pipeline  *generate.Pipeline
	feeds     ports.FeedSource
	builder   *digest.Builder
	generator ports.TextGenerator
	window    time.Duration
	out       io.Writer
	now       func() time.Time
	location  *time.Location
	logger    *slog.Logger
}

// NewCommands constructs the command set.
func NewCommands(deps Deps) *Commands {
	c := &Commands{
		store:     deps.Store,
		loader:    deps.Loader,
		pipeline:  deps.Pipeline,
		feeds:     deps.Feeds,
		builder:   deps.Builder,
		generator: deps.Generator,
		window:    deps.Window,
		out:       deps.Out,
		now:       deps.Now,
		location:  deps.Location,
		logger:    deps.Logger,
	}
	if c.out == nil {
		c.out = os.Stdout
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.location == nil {
		c.location = time.Local
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Fetch pulls recent feed articles and builds the day's digest files.
func (c *Commands) Fetch(ctx context.Context) error {
	if c.feeds == nil || c.builder == nil {
		return errors.New("feed source not configured")
	}

	fmt.Fprintf(c.out, "Fetching feeds updated in the last %s...\n", c.window)
	updates, err := c.feeds.FetchRecent(ctx, c.window)
	if err != nil {
		return fmt.Errorf("fetch feeds: %w", err)
	}

	total := 0
	for _, u := range updates {
		total += len(u.Articles)
	}
	fmt.Fprintf(c.out, "%d feeds with updates, %d new articles\n", len(updates), total)
	if len(updates) == 0 {
		fmt.Fprintln(c.out, "Nothing new, no digest written.")
		return nil
	}

	res, err := c.builder.Build(ctx, updates, c.now())
	if err != nil {
		return fmt.Errorf("build digest: %w", err)
	}

	fmt.Fprintf(c.out, "Wrote %s\n", res.DigestFile)
	fmt.Fprintf(c.out, "Wrote %s (%d articles, top score %d)\n", res.ArticlesFile, res.Articles, res.TopScore)
	fmt.Fprintln(c.out, "Run `rank` to load the scored topics.")
	return nil
}

// Rank loads the day's topic list and replaces it in tracking. Prior
// generated and published entries for the same day are kept as is.
func (c *Commands) Rank(ctx context.Context, digestPath string) error {
	root, err := c.store.Load()
	if err != nil {
		return err
	}

	digestFile, err := c.loader.FindDigest(digestPath, c.now())
	if err != nil {
		return err
	}
	key := topics.DateKey(digestFile)

	list, scoredFile, err := c.loader.Load(ctx, digestFile)
	if err != nil {
		return err
	}
	if scoredFile != "" {
		fmt.Fprintf(c.out, "Loaded %d pre-scored topics from %s\n", len(list), scoredFile)
	} else {
		fmt.Fprintf(c.out, "Ranked %d topics from %s\n", len(list), digestFile)
	}

	rec := root.Ensure(key)
	rec.DigestFile = digestFile
	rec.Topics = list
	if err := c.store.Save(root); err != nil {
		return err
	}

	c.printDayTable(key, rec)
	fmt.Fprintf(c.out, "\n%d topics ranked. Run `gen N` to generate a post for topic N.\n", len(list))
	return nil
}

// Gen runs the generation pipeline for topic n of the latest day.
func (c *Commands) Gen(ctx context.Context, n int) error {
	root, err := c.store.Load()
	if err != nil {
		return err
	}
	key, rec, err := latestRanked(root)
	if err != nil {
		return err
	}

	res, err := c.pipeline.Generate(ctx, rec, key, n)
	if err != nil {
		return err
	}
	if err := c.store.Save(root); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Generated %s\n", res.Artifact.Dir)
	fmt.Fprintf(c.out, "  title: %s\n", res.Content.Title)
	fmt.Fprintf(c.out, "  cover + %d cards, %d images written\n", len(res.Content.Cards), len(res.Artifact.Images))
	fmt.Fprintf(c.out, "Run `preview %d` to inspect it, `publish %d` to mark it published.\n", n, n)
	return nil
}

// Batch ranks the day and generates topics 1..top, skipping any index
// that already has an artifact. Each successful generation is persisted
// before the next starts, so a mid-batch failure keeps earlier work.
func (c *Commands) Batch(ctx context.Context, digestPath string, top int) error {
	if err := c.Rank(ctx, digestPath); err != nil {
		return err
	}

	root, err := c.store.Load()
	if err != nil {
		return err
	}
	key, rec, err := latestRanked(root)
	if err != nil {
		return err
	}

	n := min(top, len(rec.Topics))
	for i := 1; i <= n; i++ {
		if _, ok := rec.Generated[domain.IndexKey(i)]; ok {
			fmt.Fprintf(c.out, "topic #%d already generated, skipping\n", i)
			continue
		}
		if _, err := c.pipeline.Generate(ctx, rec, key, i); err != nil {
			return err
		}
		if err := c.store.Save(root); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "topic #%d generated\n", i)
	}

	fmt.Fprintf(c.out, "\nBatch done: %d/%d topics generated\n", len(rec.Generated), n)
	for _, k := range sortedIndexKeys(rec.Generated) {
		fmt.Fprintf(c.out, "  #%d %s\n", k, rec.Generated[domain.IndexKey(k)].Title)
	}
	fmt.Fprintln(c.out, "Run `preview N` to review each topic.")
	return nil
}

// List prints every tracked day, newest first.
func (c *Commands) List() error {
	root, err := c.store.Load()
	if err != nil {
		return err
	}
	if len(root) == 0 {
		return fmt.Errorf("%w, run rank first", tracking.ErrNoData)
	}

	keys := make([]string, 0, len(root))
	for k := range root {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	for _, key := range keys {
		c.printDayTable(key, root.Ensure(key))
	}
	return nil
}

// Preview prints the generated note and image list for topic n of the
// latest day.
func (c *Commands) Preview(n int) error {
	root, err := c.store.Load()
	if err != nil {
		return err
	}
	key, ok := root.LatestKey()
	if !ok {
		return fmt.Errorf("%w, run rank first", tracking.ErrNoData)
	}
	rec := root.Ensure(key)

	art, ok := rec.Generated[domain.IndexKey(n)]
	if !ok {
		return fmt.Errorf("%w: topic %d, run gen %d first", ErrNotGenerated, n, n)
	}

	note, err := os.ReadFile(filepath.Join(art.Dir, generate.NoteFileName))
	if err != nil {
		return fmt.Errorf("read note: %w", err)
	}

	divider := strings.Repeat("=", 60)
	fmt.Fprintf(c.out, "\n%s\n", divider)
	fmt.Fprintf(c.out, "topic #%d: %s\n", n, art.Title)
	fmt.Fprintf(c.out, "%s\n", divider)
	fmt.Fprintln(c.out, strings.TrimRight(string(note), "\n"))
	fmt.Fprintf(c.out, "\n%d images\n", len(art.Images))
	for _, img := range art.Images {
		fmt.Fprintf(c.out, "  %s\n", img)
	}
	fmt.Fprintf(c.out, "\nRun `publish %d` to mark it published.\n", n)
	return nil
}

// Publish marks topic n of the latest day as published and prints the
// payload block consumed by the downstream posting tool. No network
// publish happens here.
func (c *Commands) Publish(n int, slotName string) error {
	root, err := c.store.Load()
	if err != nil {
		return err
	}
	key, ok := root.LatestKey()
	if !ok {
		return fmt.Errorf("%w, run rank first", tracking.ErrNoData)
	}
	rec := root.Ensure(key)

	art, ok := rec.Generated[domain.IndexKey(n)]
	if !ok {
		return fmt.Errorf("%w: topic %d, run gen %d first", ErrNotGenerated, n, n)
	}

	body, err := c.noteBody(art.Dir)
	if err != nil {
		return err
	}

	scheduleStr := "immediate"
	if slotName != "" {
		slot, err := schedule.Parse(slotName)
		if err != nil {
			return err
		}
		target := slot.Next(c.now(), c.location)
		scheduleStr = target.Format(time.RFC3339)
		fmt.Fprintf(c.out, "Scheduled for %s (%s)\n", target.Format("2006-01-02 15:04"), slot.Name)
	}

	fmt.Fprintf(c.out, "\ntitle: %s\n", art.Title)
	fmt.Fprintf(c.out, "images: %d\n", len(art.Images))

	banner := strings.Repeat("=", 40)
	fmt.Fprintf(c.out, "\n%s 发布数据 %s\n", banner, banner)
	fmt.Fprintf(c.out, "TITLE: %s\n", art.Title)
	fmt.Fprintf(c.out, "TAGS: %s\n", art.Tags)
	fmt.Fprintf(c.out, "SCHEDULE: %s\n", scheduleStr)
	fmt.Fprintln(c.out, "IMAGES:")
	for _, img := range art.Images {
		abs, err := filepath.Abs(img)
		if err != nil {
			abs = img
		}
		fmt.Fprintf(c.out, "  %s\n", abs)
	}
	fmt.Fprintf(c.out, "BODY:\n%s...\n", textutil.TruncateRunes(body, 200))

	rec.Published[domain.IndexKey(n)] = true
	if err := c.store.Save(root); err != nil {
		return err
	}

	fmt.Fprintln(c.out, "\nMarked as published.")
	return nil
}

// Models lists the model names the configured provider exposes.
func (c *Commands) Models(ctx context.Context) error {
	lister, ok := c.generator.(ports.ModelLister)
	if !ok {
		return errors.New("the configured provider does not list models")
	}
	names, err := lister.ListModels(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(c.out, name)
	}
	return nil
}

// latestRanked resolves the most recent day and requires its topic list.
func latestRanked(root tracking.Root) (string, *domain.DayRecord, error) {
	key, ok := root.LatestKey()
	if !ok {
		return "", nil, fmt.Errorf("%w, run rank first", tracking.ErrNoData)
	}
	rec := root.Ensure(key)
	if len(rec.Topics) == 0 {
		return "", nil, ErrNotRanked
	}
	return key, rec, nil
}

func (c *Commands) printDayTable(key string, rec *domain.DayRecord) {
	fmt.Fprintf(c.out, "\n%s (%d topics)\n", key, len(rec.Topics))

	t := table.NewWriter()
	t.SetOutputMirror(c.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Score", "Status", "Topic"})
	for i, topic := range rec.Topics {
		label := topic.Topic
		if topic.Angle != "" {
			label += "\n  " + topic.Angle
		}
		t.AppendRow(table.Row{i + 1, topic.Score, string(rec.StatusOf(i + 1)), label})
	}
	t.Render()
}

// noteBody returns the note text without its "# title" heading line.
func (c *Commands) noteBody(dir string) (string, error) {
	raw, err := os.ReadFile(filepath.Join(dir, generate.NoteFileName))
	if err != nil {
		return "", fmt.Errorf("read note: %w", err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) > 0 && strings.HasPrefix(lines[0], "# ") {
		lines = lines[1:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

func sortedIndexKeys(generated map[string]domain.Artifact) []int {
	out := make([]int, 0, len(generated))
	for k := range generated {
		if n, err := strconv.Atoi(k); err == nil {
			out = append(out, n)
		}
	}
	sort.Ints(out)
	return out
}

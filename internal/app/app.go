// Package app wires configuration into the command set.
package app

import (
	"fmt"
	"log/slog"
	"time"

	"SocialForge/internal/config"
	"SocialForge/internal/digest"
	"SocialForge/internal/generate"
	"SocialForge/internal/infrastructure/feed"
	"SocialForge/internal/infrastructure/llm"
	"SocialForge/internal/infrastructure/render"
	"SocialForge/internal/logging"
	"SocialForge/internal/ports"
	"SocialForge/internal/topics"
	"SocialForge/internal/tracking"
	"SocialForge/internal/usecase"
)

// Application builds runnable command sets from one loaded config.
type Application struct {
	cfg    config.Config
	logger *slog.Logger
}

// New creates the application wiring root.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}
	return &Application{cfg: cfg, logger: baseLogger}
}

// Commands wires the lifecycle command set: rank, gen, batch, list,
// preview, publish and models.
func (a *Application) Commands() (*usecase.Commands, error) {
	return a.build(false)
}

// FetchCommands additionally wires the feed source, which needs a
// readable OPML subscription file.
func (a *Application) FetchCommands() (*usecase.Commands, error) {
	return a.build(true)
}

func (a *Application) build(withFeeds bool) (*usecase.Commands, error) {
	generator, err := llm.New(a.cfg.AI)
	if err != nil {
		return nil, err
	}

	var feeds ports.FeedSource
	var builder *digest.Builder
	if withFeeds {
		subs, err := feed.ParseOPML(a.cfg.Feeds.OPMLFile)
		if err != nil {
			return nil, fmt.Errorf("load subscriptions %s: %w", a.cfg.Feeds.OPMLFile, err)
		}
		feeds = feed.NewFetcher(subs, a.cfg.Feeds, a.logger.With("component", "feed"))
		builder = digest.NewBuilder(
			digest.NewModelReviewer(generator),
			a.cfg.Feeds.DigestDir,
			a.logger.With("component", "digest"))
	}

	renderers := []ports.Renderer{
		render.NewChromeRenderer(a.cfg.Render, a.logger.With("component", "render.chrome")),
		render.NewCanvasRenderer(a.cfg.Render, a.logger.With("component", "render.canvas")),
	}

	return usecase.NewCommands(usecase.Deps{
		Store:     tracking.NewStore(a.cfg.Tracking.File),
		Loader:    topics.NewLoader(a.cfg.Feeds.DigestDir, generator, a.logger.With("component", "topics")),
		Pipeline:  generate.NewPipeline(generator, renderers, a.cfg.Tracking.OutputDir, a.logger.With("component", "generate")),
		Feeds:     feeds,
		Builder:   builder,
		Generator: generator,
		Window:    time.Duration(a.cfg.Feeds.WindowHours) * time.Hour,
		Location:  a.cfg.Publish.Location(),
		Logger:    a.logger.With("component", "commands"),
	}), nil
}

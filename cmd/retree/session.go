package main

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/vango-dev/retree/internal/errors"
	"github.com/vango-dev/retree/pkg/document"
	"github.com/vango-dev/retree/pkg/mount"
	"github.com/vango-dev/retree/pkg/observe"
	"github.com/vango-dev/retree/pkg/render"
	"github.com/vango-dev/retree/pkg/tree"
)

// debounce coalesces the burst of events editors produce on save.
const debounce = 100 * time.Millisecond

// session is a document loaded into a mounted root.
type session struct {
	path     string
	decoder  *document.Decoder
	root     *mount.Root
	registry *prometheus.Registry
	logger   *slog.Logger
}

// open decodes the document at path and mounts it on a fresh HTML platform.
func (a *app) open(ctx context.Context, path string) (*session, error) {
	registry, err := builtins()
	if err != nil {
		return nil, err
	}
	decoder := document.NewDecoder(render.NewPlatform().Factory(), registry)
	node, err := decoder.Load(path)
	if err != nil {
		return nil, err
	}

	s := &session{
		path:    path,
		decoder: decoder,
		logger:  a.logger.With("document", documentName(path)),
	}

	observers := observe.Multi{observe.NewLogObserver(a.logger)}
	if a.config.Metrics.Enabled {
		s.registry = prometheus.NewRegistry()
		s.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		observers = append(observers, observe.NewMetrics(
			observe.WithNamespace(a.config.Metrics.Namespace),
			observe.WithRegistry(s.registry),
		))
	}

	s.root = mount.New(node,
		mount.WithObserver(observers),
		mount.WithLogger(a.logger),
		mount.WithTracerName(a.config.Tracing.TracerName),
	)
	if _, err := s.root.Mount(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// reload decodes the document again and recycles the root against it.
func (s *session) reload(ctx context.Context) (mount.Stats, error) {
	node, err := s.decoder.Load(s.path)
	if err != nil {
		return mount.Stats{}, err
	}
	return s.root.Recycle(ctx, node)
}

// watch reloads the document whenever it changes until ctx is canceled.
// Document errors are reported through onError and do not stop the watch.
func (s *session) watch(ctx context.Context, onReload func(mount.Stats), onError func(error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.New("E146").Wrap(err)
	}
	defer watcher.Close()

	// Watch the directory: editors often replace the file on save.
	target, err := filepath.Abs(s.path)
	if err != nil {
		return errors.New("E146").WithSubject("%s", s.path).Wrap(err)
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return errors.New("E146").WithSubject("%s", filepath.Dir(target)).Wrap(err)
	}
	s.logger.Info("watching", "path", target)

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				timer.Reset(debounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return errors.New("E146").Wrap(err)

		case <-timer.C:
			stats, err := s.reload(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				onError(err)
				continue
			}
			onReload(stats)
		}
	}
}

// snapshot returns the root's current snapshot.
func (s *session) snapshot(realized bool) (*tree.Snapshot, error) {
	return s.root.Snapshot(realized)
}

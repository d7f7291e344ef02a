package sources

import (
	"fmt"
	"github.com/fsnotify/fsnotify"
	"github.com/saylorsolutions/erx"
	"os"
	"slices"
)

// Watch creates a [erx.Stream] of file system events for the given paths.
// Each activation creates a new watcher, which is closed on teardown.
// An error reported by the watcher fails the Stream.
//
// An error is returned if no paths are given, or if any of them can't be found.
func Watch(paths []string, opts ...erx.Option) (*erx.Stream[fsnotify.Event], error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no paths to watch", erx.ErrEmptyInput)
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("unable to watch '%s': %w", path, err)
		}
	}
	paths = slices.Clone(paths)
	var s *erx.Stream[fsnotify.Event]
	s = erx.NewStream(func(sink erx.Sink[fsnotify.Event]) func() {
		sched := s.Scheduler()
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			sink.Error(fmt.Errorf("failed to create watcher: %w", err))
			return nil
		}
		for _, path := range paths {
			if err := watcher.Add(path); err != nil {
				_ = watcher.Close()
				sink.Error(fmt.Errorf("failed to watch '%s': %w", path, err))
				return nil
			}
		}
		go func() {
			for {
				select {
				case event, ok := <-watcher.Events:
					if !ok {
						return
					}
					sched.Soon(func() {
						sink.Value(event)
					})
				case err, ok := <-watcher.Errors:
					if !ok {
						return
					}
					sched.Soon(func() {
						sink.Error(err)
					})
					return
				}
			}
		}()
		return func() {
			_ = watcher.Close()
		}
	}, named("watch", opts)...)
	return s, nil
}

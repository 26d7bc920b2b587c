// Package watch пересобирает дерево при каждом изменении файла со схемой.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce — пауза после последнего события перед пересборкой.
const DefaultDebounce = 300 * time.Millisecond

// Options — что и как отслеживать.
type Options struct {
	File     string
	Debounce time.Duration
	Logger   *slog.Logger
}

// Run вызывает rebuild сразу и затем после каждого изменения File.
// Ошибки rebuild пишутся в журнал и не прерывают наблюдение:
// сборка идемпотентна, исправленная схема просто применится следующей.
// Возвращает nil при отмене ctx.
func Run(ctx context.Context, o Options, rebuild func(context.Context) error) error {
	log := o.Logger
	if log == nil {
		log = slog.Default()
	}
	debounce := o.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	target, err := filepath.Abs(o.File)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer watcher.Close()

	// Следим за каталогом: редакторы часто сохраняют через rename.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("не удалось следить за %s: %w", filepath.Dir(target), err)
	}
	log.Info("слежу за схемой", slog.String("file", target))

	runOnce := func(reason string) {
		if err := rebuild(ctx); err != nil {
			log.Error("сборка не удалась", slog.String("reason", reason), slog.String("err", err.Error()))
			return
		}
		log.Info("дерево обновлено", slog.String("reason", reason))
	}
	runOnce("start")

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			log.Debug("изменение схемы", slog.String("op", event.Op.String()))
			if !timer.Stop() && pending != nil {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(debounce)
			pending = timer.C

		case <-pending:
			pending = nil
			runOnce("change")

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("ошибка наблюдения", slog.String("err", err.Error()))
		}
	}
}

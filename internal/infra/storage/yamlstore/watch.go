package yamlstore

import (
	"context"
	"os"
	"time"
)

const defaultWatchInterval = 5 * time.Second

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Watch загружает файл и перечитывает его при изменении mtime
// onUpdate вызывается сразу после первой загрузки и после каждой успешной перезагрузки.
// Ошибка возвращается только для первой загрузки. Невалидный файл при перезагрузке
// пропускается, и продолжает действовать предыдущая версия.
func Watch(ctx context.Context, path string, interval time.Duration, logger Logger, onUpdate func(*Document)) error {
	if interval <= 0 {
		interval = defaultWatchInterval
	}

	doc, err := LoadDocument(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	lastMod := info.ModTime()
	onUpdate(doc)

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				info, err := os.Stat(path)
				if err != nil {
					logger.Warn("WatchSchedule: stat %s: %v", path, err)
					continue
				}
				if !info.ModTime().After(lastMod) {
					continue
				}
				doc, err := LoadDocument(path)
				if err != nil {
					logger.Error("WatchSchedule: reload %s rejected: %v", path, err)
					lastMod = info.ModTime()
					continue
				}
				lastMod = info.ModTime()
				logger.Info("WatchSchedule: reloaded %s", path)
				onUpdate(doc)
			}
		}
	}()

	return nil
}

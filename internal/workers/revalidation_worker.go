// internal/workers/revalidation_worker.go
package workers

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"army-list-builder-backend/internal/armylist"
	"army-list-builder-backend/internal/models"
	"army-list-builder-backend/internal/storage"

	"go.uber.org/zap"
)

// KindMalformedList - метка списка, который не удалось восстановить полностью
const KindMalformedList = "MalformedList"

type ListStore interface {
	All(ctx context.Context) ([]storage.ArmyList, error)
	MarkValidity(ctx context.Context, id string, valid bool, violations []string) error
}

// RevalidationWorker периодически перепроверяет сохранённые списки по текущему каталогу,
// чтобы списки, сохранённые до изменения данных юнитов, получили актуальный статус
type RevalidationWorker struct {
	store    ListStore
	catalog  armylist.Catalog
	logger   *zap.Logger
	interval time.Duration

	mu        sync.Mutex
	running   bool
	stopChan  chan struct{}
	done      chan struct{}
	lastRun   *models.RunStats
	lastRunAt *time.Time

	runMu sync.Mutex // один проход за раз: тикер и ручной запуск не пересекаются
}

func NewRevalidationWorker(store ListStore, catalog armylist.Catalog, logger *zap.Logger, intervalSeconds int) *RevalidationWorker {
	return &RevalidationWorker{
		store:    store,
		catalog:  catalog,
		logger:   logger.Named("revalidation"),
		interval: time.Duration(intervalSeconds) * time.Second,
	}
}

// Start запускает цикл worker'а в отдельной горутине. После возврата Stop гарантированно его остановит
func (w *RevalidationWorker) Start() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		w.logger.Warn("worker is already running")
		return
	}
	w.running = true
	w.stopChan = make(chan struct{})
	w.done = make(chan struct{})
	stop, done := w.stopChan, w.done
	w.mu.Unlock()

	go w.run(stop, done)
}

func (w *RevalidationWorker) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	w.logger.Info("worker started", zap.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), w.interval)
			if _, err := w.RunOnce(ctx); err != nil {
				w.logger.Error("revalidation pass failed", zap.Error(err))
			}
			cancel()
		case <-stop:
			w.mu.Lock()
			w.running = false
			w.mu.Unlock()
			w.logger.Info("worker stopped")
			return
		}
	}
}

// Stop останавливает worker и ждёт завершения цикла
func (w *RevalidationWorker) Stop() {
	w.mu.Lock()
	if !w.running || w.stopChan == nil {
		w.mu.Unlock()
		return
	}
	stop, done := w.stopChan, w.done
	w.stopChan = nil
	w.mu.Unlock()

	close(stop)
	<-done
}

// IsRunning возвращает статус работы worker'а
func (w *RevalidationWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// Status - состояние и итоги последнего прохода
func (w *RevalidationWorker) Status() models.WorkerStatusResponse {
	w.mu.Lock()
	defer w.mu.Unlock()

	status := models.WorkerStatusResponse{
		Running:         w.running,
		IntervalSeconds: int(w.interval / time.Second),
	}
	if w.lastRun != nil {
		stats := *w.lastRun
		at := *w.lastRunAt
		status.LastRun = &stats
		status.LastRunAt = &at
	}
	return status
}

// RunOnce перепроверяет все списки и записывает изменившиеся статусы
func (w *RevalidationWorker) RunOnce(ctx context.Context) (models.RunStats, error) {
	w.runMu.Lock()
	defer w.runMu.Unlock()

	start := time.Now()
	var stats models.RunStats

	lists, err := w.store.All(ctx)
	if err != nil {
		return stats, err
	}

	for _, list := range lists {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		stats.Checked++

		valid, violations, malformed := w.check(list)
		if !valid {
			stats.Invalid++
		}
		if malformed {
			stats.Malformed++
		}
		if valid == list.IsValid && slices.Equal(violations, list.Violations) {
			continue
		}

		if err := w.store.MarkValidity(ctx, list.ID, valid, violations); err != nil {
			if errors.Is(err, storage.ErrListNotFound) {
				// список удалили во время прохода
				continue
			}
			stats.Failed++
			w.logger.Error("failed to store validity", zap.String("list_id", list.ID), zap.Error(err))
			continue
		}
		stats.Updated++
	}

	stats.Duration = time.Since(start).String()

	now := time.Now()
	w.mu.Lock()
	w.lastRun = &stats
	w.lastRunAt = &now
	w.mu.Unlock()

	w.logger.Info("revalidation pass finished",
		zap.Int("checked", stats.Checked),
		zap.Int("invalid", stats.Invalid),
		zap.Int("malformed", stats.Malformed),
		zap.Int("updated", stats.Updated),
		zap.Int("failed", stats.Failed),
	)
	return stats, nil
}

// check возвращает статус списка и типы нарушений в виде строк для хранения
func (w *RevalidationWorker) check(list storage.ArmyList) (bool, []string, bool) {
	_, report, err := armylist.Restore(w.catalog, list.Snapshot())
	if err != nil {
		return false, []string{KindMalformedList}, true
	}

	violations := make([]string, 0, len(report.Violations)+1)
	if report.Malformed() {
		violations = append(violations, KindMalformedList)
	}
	for _, kind := range armylist.Kinds(report.Violations) {
		violations = append(violations, string(kind))
	}
	return report.Valid(), violations, report.Malformed()
}

package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// errNoRulesFile is returned by Reload when rules are built in
var errNoRulesFile = errors.New("no rules file configured")

// RuleCache holds the active rule table and swaps it on file changes.
// Tables themselves are immutable; only the pointer changes.
type RuleCache struct {
	sync.RWMutex
	// reloadMu serializes load+swap so an older file never lands last
	reloadMu  sync.Mutex
	table     *RuleTable
	rulesFile string
	watcher   *fsnotify.Watcher
	logger    *zap.Logger
}

// NewRuleCache loads the initial table from rulesFile, or the built-in
// rules when rulesFile is empty. Any error here is a startup error.
func NewRuleCache(rulesFile string, logger *zap.Logger) (*RuleCache, error) {
	var (
		table *RuleTable
		err   error
	)
	if rulesFile == "" {
		table, err = DefaultRuleTable()
	} else {
		table, err = LoadRuleTable(rulesFile)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build rule table: %w", err)
	}

	logger.Info("Rule table loaded",
		zap.String("source", table.Source()),
		zap.Int("rules", table.Len()))

	return &RuleCache{
		table:     table,
		rulesFile: rulesFile,
		logger:    logger,
	}, nil
}

// Table returns the active rule table
func (rc *RuleCache) Table() *RuleTable {
	rc.RLock()
	defer rc.RUnlock()
	return rc.table
}

// AutoReload reports whether a rules file is being watched
func (rc *RuleCache) AutoReload() bool {
	rc.RLock()
	defer rc.RUnlock()
	return rc.watcher != nil
}

// Reload rebuilds the table from the rules file. On failure the previous
// table stays active.
func (rc *RuleCache) Reload() (*RuleTable, error) {
	if rc.rulesFile == "" {
		return nil, errNoRulesFile
	}

	rc.reloadMu.Lock()
	defer rc.reloadMu.Unlock()

	table, err := LoadRuleTable(rc.rulesFile)
	if err != nil {
		rc.logger.Error("Rules reload failed, keeping previous table",
			zap.String("file", rc.rulesFile), zap.Error(err))
		return nil, err
	}

	rc.Lock()
	rc.table = table
	rc.Unlock()

	rc.logger.Info("Rule table reloaded",
		zap.String("file", rc.rulesFile), zap.Int("rules", table.Len()))
	return table, nil
}

// StartWatching sets up a watcher on the rules file directory.
// Editors often replace files, so the directory is watched, not the file.
func (rc *RuleCache) StartWatching() error {
	if rc.rulesFile == "" {
		return errNoRulesFile
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	dir := filepath.Dir(rc.rulesFile)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch rules directory: %w", err)
	}

	rc.Lock()
	rc.watcher = watcher
	rc.Unlock()

	rc.logger.Info("File watcher initialized", zap.String("dir", dir))
	return nil
}

// WatchFiles consumes watcher events until the watcher is closed
func (rc *RuleCache) WatchFiles() {
	rc.RLock()
	watcher := rc.watcher
	rc.RUnlock()
	if watcher == nil {
		return
	}

	target := filepath.Clean(rc.rulesFile)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != target {
				continue
			}

			// Small delay to ensure file write is complete
			time.Sleep(100 * time.Millisecond)

			rc.logger.Info("Rules file changed, reloading", zap.String("file", event.Name))
			_, _ = rc.Reload()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			rc.logger.Error("File watcher error", zap.Error(err))
		}
	}
}

func (rc *RuleCache) Close() {
	rc.Lock()
	defer rc.Unlock()
	if rc.watcher != nil {
		rc.watcher.Close()
		rc.watcher = nil
	}
}

package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/elpatron68/mission-control/internal/config"
	applog "github.com/elpatron68/mission-control/internal/log"
)

// IndexFile is served for requests to "/".
const IndexFile = "index.html"

// EnsureReady checks the workspace before the server starts:
// 1) the workspace root exists and is a directory,
// 2) the directory holding the data file exists (created if missing),
// 3) index.html and an already stored document are sane (warnings only).
func EnsureReady(cfg *config.Config) error {
	root := cfg.Workspace
	st, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("workspace %s does not exist", root)
		}
		return fmt.Errorf("workspace %s: %w", root, err)
	}
	if !st.IsDir() {
		return fmt.Errorf("workspace %s is not a directory", root)
	}

	dataPath := cfg.DataPath()
	if err := os.MkdirAll(filepath.Dir(dataPath), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	if _, err := os.Stat(filepath.Join(root, IndexFile)); err != nil {
		applog.Warnf("%s not found in workspace %s, GET / will return 404", IndexFile, root)
	}

	checkDataFile(dataPath)
	return nil
}

func checkDataFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applog.Infof("no task document at %s yet, serving the empty board", path)
			return
		}
		applog.Warnf("cannot read task document %s: %v", path, err)
		return
	}
	if !json.Valid(data) {
		applog.Warnf("task document %s is not valid JSON, GET /api/tasks will fail until it is overwritten", path)
		return
	}
	applog.Debugf("task document %s: %d bytes", path, len(data))
}

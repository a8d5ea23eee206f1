package viewstate

import (
	"encoding/json"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// savedView is the on-disk form of the last written state: the state itself
// plus its fragment rendering, so the viewer can restore either.
type savedView struct {
	Fragment string `json:"fragment"`
	State    State  `json:"state"`
}

// FileSink returns a sink persisting states to path as JSON. Write failures
// are swallowed: losing the saved view degrades restore-on-reload, nothing
// else.
func FileSink(path string, logger *zap.Logger) func(State) {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(s State) {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			logger.Debug("view sink mkdir failed", zap.Error(err))
			return
		}
		data, err := json.MarshalIndent(savedView{Fragment: Encode(s), State: s}, "", "  ")
		if err != nil {
			logger.Debug("view sink marshal failed", zap.Error(err))
			return
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			logger.Debug("view sink write failed", zap.Error(err))
		}
	}
}

// LoadFile reads the last persisted state. ok is false when the file is
// missing or malformed; the caller falls back to the default view.
func LoadFile(path string) (State, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return State{}, false
	}
	var sv savedView
	if err := json.Unmarshal(data, &sv); err != nil {
		return State{}, false
	}
	return sv.State, true
}

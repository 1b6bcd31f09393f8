package executor

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/danieljhkim/phpsweep/internal/fileops"
	"github.com/danieljhkim/phpsweep/internal/fsops"
)

// LogFileName is the action log's file name inside a backup directory.
const LogFileName = "action_log.json"

// ErrLogNotFound indicates no action log exists in the backup directory.
var ErrLogNotFound = errors.New("action log not found")

// ErrLogInvalid indicates the action log exists but is malformed.
var ErrLogInvalid = errors.New("action log invalid")

// logSchema guards rollback against a corrupt or truncated action log:
// the log is the sole input to rollback, so a bad one must be a fatal
// configuration error, never a partial restore.
const logSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["run_id", "backup_dir", "action_log"],
  "properties": {
    "run_id": {"type": "string"},
    "backup_dir": {"type": "string"},
    "action_log": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["action", "status", "backup_path"],
        "properties": {
          "action": {
            "type": "object",
            "required": ["action_type", "source"],
            "properties": {
              "action_type": {"enum": ["DELETE", "MOVE", "ADD_GITIGNORE", "REPORT_ONLY"]},
              "source": {"type": "string", "minLength": 1},
              "destination": {"type": ["string", "null"]},
              "risk_level": {"enum": ["LOW", "MEDIUM", "HIGH"]},
              "reason": {"type": "string"},
              "conflict": {"type": "boolean"}
            }
          },
          "status": {"enum": ["executed", "skipped", "error"]},
          "backup_path": {"type": "string"},
          "error": {"type": "string"}
        }
      }
    }
  }
}`

// SaveLog writes action_log.json at the root of the backup directory.
// Owner-only permissions: log entries name backed-up file paths.
func SaveLog(fs fsops.FS, info *BackupInfo) error {
	payload := struct {
		RunID     string     `json:"run_id"`
		BackupDir string     `json:"backup_dir"`
		Log       []LogEntry `json:"action_log"`
	}{
		RunID:     info.RunID,
		BackupDir: info.BackupDir,
		Log:       info.Log,
	}
	if payload.Log == nil {
		payload.Log = []LogEntry{}
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal action log: %w", err)
	}
	data = append(data, '\n')

	path := filepath.Join(info.BackupDir, LogFileName)
	if err := fs.AtomicWrite(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write action log: %w", err)
	}
	return nil
}

// LoadLog reads and validates the action log inside backupDir. A missing
// file returns ErrLogNotFound; schema violations return ErrLogInvalid.
func LoadLog(fs fsops.FS, backupDir string) (*BackupInfo, error) {
	path := filepath.Join(backupDir, LogFileName)
	data, err := fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrLogNotFound, path)
		}
		return nil, fmt.Errorf("failed to read action log: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(logSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLogInvalid, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrLogInvalid, strings.Join(msgs, "; "))
	}

	var payload struct {
		RunID     string     `json:"run_id"`
		BackupDir string     `json:"backup_dir"`
		Log       []LogEntry `json:"action_log"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLogInvalid, err)
	}

	return &BackupInfo{
		RunID:     payload.RunID,
		BackupDir: payload.BackupDir,
		Timestamp: filepath.Base(backupDir),
		Log:       payload.Log,
	}, nil
}

// RollbackEntries converts the log into the minimal form fileops needs.
func (b *BackupInfo) RollbackEntries() []fileops.RollbackEntry {
	entries := make([]fileops.RollbackEntry, 0, len(b.Log))
	for _, e := range b.Log {
		entries = append(entries, fileops.RollbackEntry{
			Type:        string(e.Action.Type),
			Source:      e.Action.Source,
			Destination: e.Action.Dest(),
			Status:      e.Status,
			BackupPath:  e.BackupPath,
		})
	}
	return entries
}

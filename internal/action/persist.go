package action

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/danieljhkim/phpsweep/internal/fsops"
)

// ErrPlanNotFound indicates the plan file does not exist.
var ErrPlanNotFound = errors.New("plan file not found")

// ErrPlanInvalid indicates the plan file exists but is malformed.
var ErrPlanInvalid = errors.New("plan file invalid")

// planSchema validates the persisted plan shape before unmarshaling, so a
// corrupt or hand-edited plan is rejected as a configuration error instead
// of silently executing with zero values.
const planSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["actions", "created_at", "project_dir"],
  "properties": {
    "actions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["action_type", "source", "destination", "risk_level", "reason", "conflict"],
        "properties": {
          "action_type": {"enum": ["DELETE", "MOVE", "ADD_GITIGNORE", "REPORT_ONLY"]},
          "source": {"type": "string", "minLength": 1},
          "destination": {"type": ["string", "null"]},
          "risk_level": {"enum": ["LOW", "MEDIUM", "HIGH"]},
          "reason": {"type": "string", "minLength": 1},
          "conflict": {"type": "boolean"}
        }
      }
    },
    "created_at": {"type": "string"},
    "project_dir": {"type": "string"}
  }
}`

// MarshalPlan renders the plan in its canonical on-disk form. The same
// plan always renders to the same bytes, so save -> load -> save is
// byte-identical.
func MarshalPlan(p *Plan) ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal plan: %w", err)
	}
	return append(data, '\n'), nil
}

// SavePlan writes the plan to path atomically in canonical form.
func SavePlan(fs fsops.FS, path string, p *Plan) error {
	data, err := MarshalPlan(p)
	if err != nil {
		return err
	}
	if err := fs.AtomicWrite(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write plan: %w", err)
	}
	return nil
}

// LoadPlan reads and validates a persisted plan. A missing file returns
// ErrPlanNotFound; schema violations or malformed action shapes return
// ErrPlanInvalid. Both are fatal configuration errors for callers.
func LoadPlan(fs fsops.FS, path string) (*Plan, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrPlanNotFound, path)
		}
		return nil, fmt.Errorf("failed to read plan: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(planSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPlanInvalid, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrPlanInvalid, strings.Join(msgs, "; "))
	}

	var p Plan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPlanInvalid, err)
	}

	// Schema covers field shapes; cross-field rules (MOVE needs a
	// destination, DELETE must not have one) still go through Validate.
	for _, a := range p.Actions {
		if errs := a.Validate(); len(errs) > 0 {
			return nil, fmt.Errorf("%w: action %s %s: %s",
				ErrPlanInvalid, a.Type, a.Source, strings.Join(errs, "; "))
		}
	}

	return &p, nil
}

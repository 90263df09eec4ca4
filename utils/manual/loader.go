package manual

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/opsplit/opsplit/utils/config"
	"github.com/opsplit/opsplit/utils/fileutil"
)

// Load reads a knowledge base from path and returns the recovered operations
// plus any per-source load errors. A directory is scanned for *.json files in
// the structured one-operation-per-file format; a single file is parsed as
// one of the legacy shapes (nested, list or flat). Load returns an error only
// when no usable input exists at all; individual bad files or entries are
// recorded in LoadResult.Errors and skipped.
func Load(path string) (*LoadResult, error) {
	config.DebugLog("[Manual] Loading knowledge base from: %s", path)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("knowledge base path %s not accessible: %w", path, err)
	}

	if info.IsDir() {
		return loadDirectory(path)
	}
	return loadFile(path)
}

// loadDirectory scans a directory for structured JSON operation files
func loadDirectory(dir string) (*LoadResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error reading knowledge base directory %s: %w", dir, err)
	}

	result := &LoadResult{}
	candidates := 0

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		candidates++

		path := filepath.Join(dir, entry.Name())
		config.DebugLog("[Manual] Parsing operation file: %s", path)

		data, err := fileutil.SafeReadFile(path)
		if err != nil {
			result.Errors = append(result.Errors, LoadError{Source: entry.Name(), Message: err.Error()})
			continue
		}

		var raw map[string]interface{}
		if err := json.Unmarshal(data, &raw); err != nil {
			result.Errors = append(result.Errors, LoadError{Source: entry.Name(), Message: fmt.Sprintf("invalid JSON: %v", err)})
			continue
		}

		defaultID := strings.TrimSuffix(entry.Name(), ".json")
		op, err := parseStructured(raw, defaultID)
		if err != nil {
			result.Errors = append(result.Errors, LoadError{Source: entry.Name(), Message: err.Error()})
			continue
		}

		result.Operations = append(result.Operations, op)
	}

	if len(result.Operations) == 0 {
		if candidates == 0 {
			return nil, fmt.Errorf("no JSON files found in knowledge base directory %s", dir)
		}
		return nil, fmt.Errorf("no usable operation files in knowledge base directory %s (%d files failed to load)", dir, len(result.Errors))
	}

	config.DebugLog("[Manual] Loaded %d operation(s) from directory, %d load error(s)", len(result.Operations), len(result.Errors))
	return result, nil
}

// parseStructured validates one structured operation document. The required
// fields are operation_name and a non-empty steps list; every mapping step
// entry must carry an action.
func parseStructured(raw map[string]interface{}, defaultID string) (Operation, error) {
	name, _ := raw["operation_name"].(string)
	if name == "" {
		return Operation{}, fmt.Errorf("missing required field operation_name")
	}

	stepsRaw, ok := raw["steps"].([]interface{})
	if !ok || len(stepsRaw) == 0 {
		return Operation{}, fmt.Errorf("missing or empty required field steps")
	}

	steps, err := parseSteps(stepsRaw, true)
	if err != nil {
		return Operation{}, err
	}

	op := Operation{
		ID:    defaultID,
		Name:  name,
		Steps: steps,
	}
	if id, ok := raw["operation_id"].(string); ok && id != "" {
		op.ID = id
	}
	if desc, ok := raw["description"].(string); ok {
		op.Description = desc
	}
	if category, ok := raw["category"].(string); ok {
		op.Category = category
	}
	if expected, ok := raw["expected_result"].(string); ok {
		op.ExpectedResult = expected
	}
	op.Prerequisites = stringSlice(raw["prerequisites"])

	return op, nil
}

// parseSteps converts raw step entries into Steps. Bare strings become steps
// with only the action populated. When any entry lacks an explicit
// step_number the whole record falls back to 1-based positional numbering;
// explicit and implicit numbering are never mixed within one record.
func parseSteps(stepsRaw []interface{}, requireAction bool) ([]Step, error) {
	steps := make([]Step, 0, len(stepsRaw))
	allExplicit := true

	for i, entry := range stepsRaw {
		switch v := entry.(type) {
		case string:
			steps = append(steps, Step{Action: v})
			allExplicit = false
		case map[string]interface{}:
			step := Step{}
			if action, ok := v["action"].(string); ok && action != "" {
				step.Action = action
			} else if action, ok := v["step"].(string); ok && action != "" {
				// legacy step entries use "step" for the instruction text
				step.Action = action
			}
			if step.Action == "" {
				if requireAction {
					return nil, fmt.Errorf("step %d: missing required field action", i+1)
				}
				allExplicit = false
				continue
			}
			if desc, ok := v["description"].(string); ok {
				step.Description = desc
			}
			if params, ok := v["parameters"].(map[string]interface{}); ok {
				step.Parameters = params
			}
			if num, ok := v["step_number"].(float64); ok {
				step.StepNumber = int(num)
			} else {
				allExplicit = false
			}
			steps = append(steps, step)
		default:
			if requireAction {
				return nil, fmt.Errorf("step %d: unsupported step entry type %T", i+1, entry)
			}
			allExplicit = false
		}
	}

	if !allExplicit {
		for i := range steps {
			steps[i].StepNumber = i + 1
		}
	}

	return steps, nil
}

// loadFile parses a single legacy knowledge base file, detecting the shape
// by structural inspection since legacy formats carry no self-declaring tag.
func loadFile(path string) (*LoadResult, error) {
	data, err := fileutil.SafeReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading knowledge base file %s: %w", path, err)
	}

	var root interface{}
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("knowledge base file %s is not valid JSON: %w", path, err)
	}

	source := filepath.Base(path)
	result := &LoadResult{}

	switch v := root.(type) {
	case []interface{}:
		config.DebugLog("[Manual] Detected legacy list format in %s", source)
		parseListFormat(v, source, result)
	case map[string]interface{}:
		if inner, ok := nestedOperations(v); ok {
			config.DebugLog("[Manual] Detected legacy nested format in %s", source)
			parseNameMap(inner, source, result)
		} else {
			config.DebugLog("[Manual] Detected legacy flat format in %s", source)
			parseNameMap(v, source, result)
		}
	default:
		return nil, fmt.Errorf("knowledge base file %s has unsupported top-level JSON type %T", path, root)
	}

	if len(result.Operations) == 0 {
		return nil, fmt.Errorf("no usable operations in knowledge base file %s (%d entries failed to load)", path, len(result.Errors))
	}

	config.DebugLog("[Manual] Loaded %d operation(s) from file, %d load error(s)", len(result.Operations), len(result.Errors))
	return result, nil
}

// nestedOperations reports whether the top-level mapping wraps its operations
// under a single key, i.e. some key's value is itself a mapping of mappings.
// Keys are checked in sorted order so detection is deterministic.
func nestedOperations(m map[string]interface{}) (map[string]interface{}, bool) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		inner, ok := m[k].(map[string]interface{})
		if !ok || len(inner) == 0 {
			continue
		}
		allMaps := true
		for _, v := range inner {
			if _, ok := v.(map[string]interface{}); !ok {
				allMaps = false
				break
			}
		}
		if allMaps {
			return inner, true
		}
	}
	return nil, false
}

// parseNameMap handles the flat and nested legacy shapes: a mapping from
// operation name to an operation body.
func parseNameMap(m map[string]interface{}, source string, result *LoadResult) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		op, err := parseLegacyOperation(name, m[name])
		if err != nil {
			result.Errors = append(result.Errors, LoadError{Source: source, Message: fmt.Sprintf("operation %q: %v", name, err)})
			continue
		}
		result.Operations = append(result.Operations, op)
	}
}

// parseListFormat handles the legacy list shape: a sequence of operation
// objects each carrying its own name field.
func parseListFormat(items []interface{}, source string, result *LoadResult) {
	for i, item := range items {
		body, ok := item.(map[string]interface{})
		if !ok {
			result.Errors = append(result.Errors, LoadError{Source: source, Message: fmt.Sprintf("entry %d: not a JSON object", i+1)})
			continue
		}

		name, _ := body["name"].(string)
		if name == "" {
			// some legacy corpora use "operation" as the name key
			name, _ = body["operation"].(string)
		}
		if name == "" {
			result.Errors = append(result.Errors, LoadError{Source: source, Message: fmt.Sprintf("entry %d: missing name field", i+1)})
			continue
		}

		op, err := parseLegacyOperation(name, body)
		if err != nil {
			result.Errors = append(result.Errors, LoadError{Source: source, Message: fmt.Sprintf("operation %q: %v", name, err)})
			continue
		}
		result.Operations = append(result.Operations, op)
	}
}

// parseLegacyOperation builds an Operation from a legacy entry. The legacy
// formats carry no separate id field, so the id defaults to the name.
func parseLegacyOperation(name string, body interface{}) (Operation, error) {
	op := Operation{ID: name, Name: name}

	var stepsRaw []interface{}
	switch v := body.(type) {
	case []interface{}:
		// bare step list as the operation body
		stepsRaw = v
	case map[string]interface{}:
		var ok bool
		stepsRaw, ok = v["steps"].([]interface{})
		if !ok {
			return Operation{}, fmt.Errorf("missing steps field")
		}
		if desc, ok := v["description"].(string); ok {
			op.Description = desc
		}
		if category, ok := v["category"].(string); ok {
			op.Category = category
		}
		if expected, ok := v["expected_result"].(string); ok {
			op.ExpectedResult = expected
		}
		op.Prerequisites = stringSlice(v["prerequisites"])
	default:
		return Operation{}, fmt.Errorf("unsupported operation body type %T", body)
	}

	if len(stepsRaw) == 0 {
		return Operation{}, fmt.Errorf("operation has zero steps")
	}

	steps, err := parseSteps(stepsRaw, false)
	if err != nil {
		return Operation{}, err
	}
	if len(steps) == 0 {
		return Operation{}, fmt.Errorf("operation has zero usable steps")
	}
	op.Steps = steps

	return op, nil
}

// stringSlice converts a raw JSON array into a []string, skipping non-strings
func stringSlice(raw interface{}) []string {
	items, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/roach88/signpost/internal/pack"
	"github.com/roach88/signpost/internal/session"
)

// loadState reads a state file - a JSON object mapping dot-delimited field
// paths to values - and seeds a fresh session from it. An empty path means
// no state file was given; the session starts empty.
//
// Facts are applied in sorted path order so repeated invocations build
// identical sessions.
func loadState(formatter *OutputFormatter, path string) (*session.State, error) {
	st := session.New(session.UUIDv7Generator{})
	if path == "" {
		return st, nil
	}

	formatter.VerboseLog("Loading state from %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		_ = formatter.Error("E000", fmt.Sprintf("failed to read state file: %v", err), nil)
		return nil, WrapExitError(ExitCommandError, "failed to read state file", err)
	}

	var facts map[string]any
	if err := json.Unmarshal(data, &facts); err != nil {
		_ = formatter.Error("E000", fmt.Sprintf("state file is not a JSON object: %v", err), nil)
		return nil, WrapExitError(ExitCommandError, "failed to parse state file", err)
	}

	paths := make([]string, 0, len(facts))
	for p := range facts {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		if err := st.Set(p, facts[p]); err != nil {
			_ = formatter.Error("E000", fmt.Sprintf("bad state field %q: %v", p, err), nil)
			return nil, WrapExitError(ExitCommandError, fmt.Sprintf("bad state field %q", p), err)
		}
	}

	return st, nil
}

// registerPack loads a pack file into a fresh repository. Load failures are
// command errors (exit 2); validation failures are content errors (exit 1).
func registerPack(formatter *OutputFormatter, path string) (*pack.Repository, *pack.Pack, error) {
	p, err := loadPack(formatter, path)
	if err != nil {
		return nil, nil, err
	}

	repo := pack.NewRepository()
	if err := repo.Load(p); err != nil {
		if vf, ok := err.(*pack.ValidationFailure); ok {
			return nil, nil, reportValidationErrors(formatter, vf.PackID, vf.Errors)
		}
		_ = formatter.Error("E000", err.Error(), nil)
		return nil, nil, WrapExitError(ExitCommandError, "failed to register pack", err)
	}

	return repo, p, nil
}

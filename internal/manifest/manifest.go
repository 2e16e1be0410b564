// Package manifest loads CUE comparison manifests.
//
// A manifest names the two logs to compare, where to find them, and the
// optional tuning overrides:
//
//	compare: {
//		first:  { csv: "logs/before.csv" }
//		second: { store: "logs.db", log: "after" }
//		threshold:    0.85
//		significance: "dependency"
//		palette: { first: "#cc0000" }
//		output: { complete: "diff.dot", filtered: "diff_filtered.dot" }
//	}
//
// Each side names exactly one source: a CSV file, or a log stored in a
// SQLite event-log database.
package manifest

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

// schema constrains manifests before decoding. Unification rejects unknown
// fields, out-of-range thresholds, and unknown significance names with CUE's
// own positions.
const schema = `
#Source: close({
	csv?:   string & !=""
	store?: string & !=""
	log?:   string & !=""
})

#Manifest: close({
	compare: close({
		first:  #Source
		second: #Source
		threshold?:    number & >=0 & <=1
		significance?: "relative" | "dependency"
		palette?: close({
			common?: string & !=""
			first?:  string & !=""
			second?: string & !=""
		})
		output?: close({
			complete?: string & !=""
			filtered?: string & !=""
		})
	})
})
`

// Source locates one event log: either a CSV file, or a named log inside a
// store database.
type Source struct {
	CSV   string `json:"csv"`
	Store string `json:"store"`
	Log   string `json:"log"`
}

// Palette holds optional color overrides; empty fields keep the default.
type Palette struct {
	Common string `json:"common"`
	First  string `json:"first"`
	Second string `json:"second"`
}

// Output holds optional output paths; empty fields keep the command's
// defaults.
type Output struct {
	Complete string `json:"complete"`
	Filtered string `json:"filtered"`
}

// Manifest is a decoded, validated comparison manifest.
type Manifest struct {
	First  Source `json:"first"`
	Second Source `json:"second"`

	// Threshold overrides the configured cutoff when non-nil.
	Threshold *float64 `json:"threshold"`

	// Significance overrides the configured measure when non-empty.
	Significance string `json:"significance"`

	Palette Palette `json:"palette"`
	Output  Output  `json:"output"`
}

// Error is a manifest loading error with the file it concerns.
type Error struct {
	File    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.File, e.Message)
}

// Load reads and validates a CUE manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{File: path, Message: err.Error()}
	}

	ctx := cuecontext.New()
	schemaVal := ctx.CompileString(schema)
	if err := schemaVal.Err(); err != nil {
		return nil, &Error{File: path, Message: fmt.Sprintf("internal schema error: %v", err)}
	}

	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, cueError(path, err)
	}

	unified := v.Unify(schemaVal.LookupPath(cue.ParsePath("#Manifest")))
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, cueError(path, err)
	}

	compareVal := unified.LookupPath(cue.ParsePath("compare"))
	if !compareVal.Exists() {
		return nil, &Error{File: path, Message: "missing required field: compare"}
	}

	var m Manifest
	if err := compareVal.Decode(&m); err != nil {
		return nil, cueError(path, err)
	}

	if err := validateSource(&m.First, "first"); err != nil {
		return nil, &Error{File: path, Message: err.Error()}
	}
	if err := validateSource(&m.Second, "second"); err != nil {
		return nil, &Error{File: path, Message: err.Error()}
	}

	return &m, nil
}

// validateSource enforces exactly one source kind per side.
func validateSource(s *Source, side string) error {
	switch {
	case s.CSV == "" && s.Store == "":
		return fmt.Errorf("compare.%s: a csv path or a store database is required", side)
	case s.CSV != "" && s.Store != "":
		return fmt.Errorf("compare.%s: csv and store are mutually exclusive", side)
	case s.Store != "" && s.Log == "":
		return fmt.Errorf("compare.%s: store requires a log name", side)
	case s.CSV != "" && s.Log != "":
		return fmt.Errorf("compare.%s: log only applies to store sources", side)
	}
	return nil
}

// cueError flattens CUE's error list into one message with positions.
func cueError(path string, err error) *Error {
	return &Error{File: path, Message: cueerrors.Details(err, nil)}
}

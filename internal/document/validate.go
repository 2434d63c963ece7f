package document

import (
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed schemas/documents.cue
var schemaFS embed.FS

var definitions = map[Kind]string{
	KindReport:      "#Report",
	KindDashboard:   "#Dashboard",
	KindCompetitors: "#Competitors",
}

// validator holds the compiled schema. cue.Context is not safe for
// concurrent use, so every validation runs under mu.
type validator struct {
	mu     sync.Mutex
	ctx    *cue.Context
	schema cue.Value
	err    error
}

var (
	sharedValidator *validator
	validatorOnce   sync.Once
)

func loadValidator() *validator {
	validatorOnce.Do(func() {
		v := &validator{ctx: cuecontext.New()}
		content, err := schemaFS.ReadFile("schemas/documents.cue")
		if err != nil {
			v.err = fmt.Errorf("reading embedded schema: %w", err)
		} else {
			v.schema = v.ctx.CompileBytes(content, cue.Filename("documents.cue"))
			if err := v.schema.Err(); err != nil {
				v.err = fmt.Errorf("compiling schema: %w", err)
			}
		}
		sharedValidator = v
	})
	return sharedValidator
}

// Validate checks cleaned JSON bytes against the schema for kind. It only
// rejects values of the wrong type; unknown fields and category names pass.
func Validate(kind Kind, data []byte) error {
	defName, ok := definitions[kind]
	if !ok {
		return fmt.Errorf("unknown document kind: %s", kind)
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("decoding for validation: %w", err)
	}
	if _, isObject := value.(map[string]any); !isObject {
		return fmt.Errorf("%s document must be a JSON object", kind)
	}

	v := loadValidator()
	if v.err != nil {
		return v.err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	def := v.schema.LookupPath(cue.ParsePath(defName))
	if !def.Exists() {
		return fmt.Errorf("schema definition %s not found", defName)
	}

	dataValue := v.ctx.Encode(value)
	if err := dataValue.Err(); err != nil {
		return fmt.Errorf("encoding data: %w", err)
	}

	unified := def.Unify(dataValue)
	if err := unified.Err(); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

package validate

import (
	"fmt"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

// docKind names one of the three persisted document shapes (spec.md §6).
type docKind string

const (
	kindTasksDocument   docKind = "tasksDocument"
	kindArchiveDocument docKind = "archiveDocument"
	kindSessionsDoc     docKind = "sessionsDocument"
)

var definitionName = map[docKind]string{
	kindTasksDocument:   "#TasksDocument",
	kindArchiveDocument: "#ArchiveDocument",
	kindSessionsDoc:     "#SessionsDocument",
}

var schemaSource = map[docKind]string{
	kindTasksDocument:   tasksDocumentSchemaSrc,
	kindArchiveDocument: archiveDocumentSchemaSrc,
	kindSessionsDoc:      sessionsDocumentSchemaSrc,
}

// schemaCache compiles and caches CUE schema definitions, mirroring the
// teacher's internal/validation.Validator singleton (lazy compile, RWMutex
// cache) generalized over CLEO's three document shapes instead of sow's
// project/task/index files.
type schemaCache struct {
	ctx    *cue.Context
	mu     sync.RWMutex
	values map[docKind]cue.Value
}

var (
	globalSchemaCache     *schemaCache
	globalSchemaCacheOnce sync.Once
)

func getSchemaCache() *schemaCache {
	globalSchemaCacheOnce.Do(func() {
		globalSchemaCache = &schemaCache{
			ctx:    cuecontext.New(),
			values: make(map[docKind]cue.Value),
		}
	})
	return globalSchemaCache
}

func (c *schemaCache) get(kind docKind) (cue.Value, error) {
	c.mu.RLock()
	if v, ok := c.values[kind]; ok {
		c.mu.RUnlock()
		return v, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.values[kind]; ok {
		return v, nil
	}

	src, ok := schemaSource[kind]
	if !ok {
		return cue.Value{}, fmt.Errorf("unknown schema kind: %s", kind)
	}
	compiled := c.ctx.CompileString(src)
	if compiled.Err() != nil {
		return cue.Value{}, fmt.Errorf("compile schema %s: %w", kind, compiled.Err())
	}
	def := compiled.LookupPath(cue.ParsePath(definitionName[kind]))
	if def.Err() != nil {
		return cue.Value{}, fmt.Errorf("lookup %s in schema %s: %w", definitionName[kind], kind, def.Err())
	}
	c.values[kind] = def
	return def, nil
}

// schemaValidate unifies v (any JSON-shaped Go value) against kind's
// compiled schema and requires the result to be fully concrete, returning
// one FieldError per CUE error (spec.md §4.3 layer 1).
func schemaValidate(kind docKind, doc any) []FieldError {
	cache := getSchemaCache()
	def, err := cache.get(kind)
	if err != nil {
		return []FieldError{{Path: "$", Code: "SCHEMA_LOAD_FAILED", Message: err.Error()}}
	}

	encoded := cache.ctx.Encode(doc)
	if encoded.Err() != nil {
		return []FieldError{{Path: "$", Code: "SCHEMA_ENCODE_FAILED", Message: encoded.Err().Error()}}
	}

	unified := def.Unify(encoded)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return cueFieldErrors(err)
	}
	return nil
}

func cueFieldErrors(err error) []FieldError {
	var out []FieldError
	for _, e := range cueerrors.Errors(err) {
		msg := e.Error()
		path := "$"
		if p := e.Path(); len(p) > 0 {
			path = strings.Join(p, ".")
		}
		out = append(out, FieldError{Path: path, Code: "SCHEMA_VIOLATION", Message: msg})
	}
	if len(out) == 0 {
		out = append(out, FieldError{Path: "$", Code: "SCHEMA_VIOLATION", Message: err.Error()})
	}
	return out
}

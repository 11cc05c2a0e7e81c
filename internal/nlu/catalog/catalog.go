// Package catalog holds the active intent catalog. Definitions are iterated
// in declaration order and mutated only by append, behind an RWMutex so
// in-flight resolutions never observe a torn pattern list.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	cerrors "atom-nlu/internal/common/errors"
	"atom-nlu/internal/common/logger"
	"atom-nlu/internal/models"
)

type Catalog struct {
	mu     sync.RWMutex
	defs   []models.IntentDefinition
	byName map[string]int // name -> index into defs
	logger logger.Logger
}

// New builds a catalog from the given definitions. Duplicate names are
// rejected: the active catalog keys intents by unique name.
func New(defs []models.IntentDefinition, log logger.Logger) (*Catalog, error) {
	c := &Catalog{
		defs:   make([]models.IntentDefinition, 0, len(defs)),
		byName: make(map[string]int, len(defs)),
		logger: log.WithFields(map[string]interface{}{"component": "catalog"}),
	}
	for _, def := range defs {
		if def.Name == "" {
			return nil, fmt.Errorf("intent definition with empty name")
		}
		if _, exists := c.byName[def.Name]; exists {
			return nil, fmt.Errorf("duplicate intent definition %q", def.Name)
		}
		c.byName[def.Name] = len(c.defs)
		c.defs = append(c.defs, def)
	}
	return c, nil
}

// Load reads the catalog from a JSON file. Absent or malformed files fall
// back to the built-in default catalog with a surfaced warning; the load is
// never fatal.
func Load(path string, log logger.Logger) *Catalog {
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			var defs []models.IntentDefinition
			if jerr := json.Unmarshal(data, &defs); jerr != nil {
				err = jerr
			} else if c, nerr := New(defs, log); nerr != nil {
				err = nerr
			} else {
				log.Info("intent catalog loaded", map[string]interface{}{
					"path":    path,
					"intents": len(defs),
				})
				return c
			}
		}
		stdErr := cerrors.NewCatalogLoadError(path, err)
		log.Warn("falling back to built-in default catalog", map[string]interface{}{
			"errorCode": string(stdErr.Code),
			"details":   stdErr.Details,
		})
	}

	c, err := New(DefaultDefinitions(), log)
	if err != nil {
		// The default catalog is compile-time data; a bad entry is a bug.
		panic(fmt.Sprintf("built-in default catalog invalid: %v", err))
	}
	return c
}

// Snapshot returns a copy of the definitions in declaration order. Pattern
// and example slices are copied so the matcher never races training appends.
func (c *Catalog) Snapshot() []models.IntentDefinition {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.IntentDefinition, len(c.defs))
	for i, def := range c.defs {
		cp := def
		cp.Patterns = append([]string(nil), def.Patterns...)
		cp.Examples = append([]string(nil), def.Examples...)
		cp.EntityTypes = append([]string(nil), def.EntityTypes...)
		cp.Platforms = append([]string(nil), def.Platforms...)
		cp.DataIntegration = def.DataIntegration.Clone()
		out[i] = cp
	}
	return out
}

// Get returns a copy of the named definition.
func (c *Catalog) Get(name string) (models.IntentDefinition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	idx, ok := c.byName[name]
	if !ok {
		return models.IntentDefinition{}, false
	}
	def := c.defs[idx]
	def.Patterns = append([]string(nil), def.Patterns...)
	def.Examples = append([]string(nil), def.Examples...)
	def.EntityTypes = append([]string(nil), def.EntityTypes...)
	def.Platforms = append([]string(nil), def.Platforms...)
	def.DataIntegration = def.DataIntegration.Clone()
	return def, true
}

// Has reports whether the named intent exists in the active catalog.
func (c *Catalog) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.byName[name]
	return ok
}

// Len returns the number of definitions.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.defs)
}

// AppendTraining augments the named definition with a trained message:
// the lowercase message becomes a new pattern and the original-case message
// a new example. Both are deduplicated (patterns case-insensitively) so
// repeat submissions do not grow the definition.
func (c *Catalog) AppendTraining(name, message string) (patternAdded, exampleAdded bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx, ok := c.byName[name]
	if !ok {
		return false, false, cerrors.NewUnknownIntentLabelError(name)
	}
	def := &c.defs[idx]

	duplicate := false
	for _, p := range def.Patterns {
		if strings.EqualFold(p, message) {
			duplicate = true
			break
		}
	}
	if !duplicate {
		def.Patterns = append(def.Patterns, strings.ToLower(message))
		patternAdded = true
	}

	duplicate = false
	for _, ex := range def.Examples {
		if ex == message {
			duplicate = true
			break
		}
	}
	if !duplicate {
		def.Examples = append(def.Examples, message)
		exampleAdded = true
	}

	return patternAdded, exampleAdded, nil
}

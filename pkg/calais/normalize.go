package calais

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

const (
	docKey    = "doc"
	infoKey   = "info"
	metaKey   = "meta"
	refPrefix = "http://"
)

type normalizeOptions struct {
	resolveReferences bool
}

// NormalizeOption tunes Normalize.
type NormalizeOption func(*normalizeOptions)

// WithoutReferenceResolution leaves cross-reference URIs as plain strings.
func WithoutReferenceResolution() NormalizeOption {
	return func(o *normalizeOptions) { o.resolveReferences = false }
}

// Normalize turns a raw response document into a Result.
//
// The "doc" section supplies info and meta. Every other top-level entry is
// stamped with its key under _uri and grouped by its _typeGroup field. Unless
// disabled, string fields naming another top-level entry are first replaced
// by that entry's mapping. raw is not modified.
func Normalize(raw map[string]interface{}, opts ...NormalizeOption) (*Result, error) {
	o := normalizeOptions{resolveReferences: true}
	for _, opt := range opts {
		opt(&o)
	}

	docValue, ok := raw[docKey]
	if !ok {
		return nil, errors.Wrap(ErrMalformedResponse, `missing "doc" section`)
	}
	doc, ok := docValue.(map[string]interface{})
	if !ok {
		return nil, errors.Wrap(ErrMalformedResponse, `"doc" section is not an object`)
	}

	info, err := extractSection(doc, infoKey)
	if err != nil {
		return nil, err
	}
	meta, err := extractSection(doc, metaKey)
	if err != nil {
		return nil, err
	}

	entries := make(map[string]map[string]interface{}, len(raw))
	for key, value := range raw {
		if key == docKey {
			continue
		}
		fields, ok := value.(map[string]interface{})
		if !ok {
			return nil, errors.Wrapf(ErrMalformedResponse, "entry %q is not an object", key)
		}
		entries[key] = fields
	}

	if o.resolveReferences {
		entries = resolveReferences(entries)
	}

	return &Result{
		info:   info,
		meta:   meta,
		groups: groupEntries(entries),
	}, nil
}

// extractSection wraps doc[key]. A missing section is an empty Object.
func extractSection(doc map[string]interface{}, key string) (Object, error) {
	value, ok := doc[key]
	if !ok || value == nil {
		return Object{}, nil
	}
	fields, ok := value.(map[string]interface{})
	if !ok {
		return Object{}, errors.Wrapf(ErrMalformedResponse, "doc.%s is not an object", key)
	}
	return NewObject(fields), nil
}

// resolveReferences inlines one level of cross-references. Rewritten entries
// are fresh maps; inlined values are copies of the original, unrewritten
// mappings stamped with their _uri, so the output holds no cycles.
func resolveReferences(entries map[string]map[string]interface{}) map[string]map[string]interface{} {
	out := make(map[string]map[string]interface{}, len(entries))
	for key, fields := range entries {
		var rewritten map[string]interface{}
		for name, value := range fields {
			ref, ok := value.(string)
			if !ok || ref == key || !strings.HasPrefix(ref, refPrefix) {
				continue
			}
			target, ok := entries[ref]
			if !ok {
				continue
			}
			if rewritten == nil {
				rewritten = make(map[string]interface{}, len(fields))
				for k, v := range fields {
					rewritten[k] = v
				}
			}
			rewritten[name] = stampURI(target, ref)
		}
		if rewritten == nil {
			rewritten = fields
		}
		out[key] = rewritten
	}
	return out
}

func groupEntries(entries map[string]map[string]interface{}) map[string][]Object {
	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	groups := make(map[string][]Object)
	for _, key := range keys {
		fields := entries[key]
		name := groupOf(fields)
		groups[name] = append(groups[name], NewObject(stampURI(fields, key)))
	}
	return groups
}

func stampURI(fields map[string]interface{}, uri string) map[string]interface{} {
	stamped := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		stamped[k] = v
	}
	stamped[FieldURI] = uri
	return stamped
}

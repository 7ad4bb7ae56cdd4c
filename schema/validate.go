package schema

import (
	"fmt"

	"wiremap/naming"
)

// ValidateDecls performs structural validation of a set of model
// declarations without binding them to Go types: duplicate model names,
// attribute casing, sequence cardinality and nested model references,
// including reference cycles. It is what schemalint runs.
func ValidateDecls(models []ModelDecl) error {
	declared := make(map[string]struct{}, len(models))
	for _, m := range models {
		if m.Name == "" {
			return fmt.Errorf("model with empty name")
		}
		if _, ok := declared[m.Name]; ok {
			return fmt.Errorf("%q: %w", m.Name, ErrDuplicateModel)
		}
		declared[m.Name] = struct{}{}
	}

	edges := make(map[string][]string, len(models))

	for _, m := range models {
		seen := make(map[string]struct{}, len(m.Fields))

		for _, f := range m.Fields {
			if f.Attribute == "" {
				return fmt.Errorf("%s: field with empty attribute name", m.Name)
			}
			if got := naming.ToAttributeName(f.Attribute); got != f.Attribute {
				return fmt.Errorf("%s.%s: attribute name is not camelCase (want %s)", m.Name, f.Attribute, got)
			}
			if _, ok := seen[f.Attribute]; ok {
				return fmt.Errorf("%s.%s: %w", m.Name, f.Attribute, ErrDuplicateAttribute)
			}
			seen[f.Attribute] = struct{}{}

			kind := ParseKind(f.Type)
			if f.Sequence && kind != KindModel {
				return fmt.Errorf("%s.%s: sequence cardinality requires a model type: %w", m.Name, f.Attribute, ErrFieldType)
			}
			if kind != KindModel {
				continue
			}

			if _, ok := declared[f.Type]; !ok {
				return fmt.Errorf("%s.%s references %q: %w", m.Name, f.Attribute, f.Type, ErrUnknownModel)
			}
			edges[m.Name] = append(edges[m.Name], f.Type)
		}
	}

	if cycle := findCycle(edges); cycle != nil {
		return fmt.Errorf("%v: %w", cycle, ErrMetadataCycle)
	}

	return nil
}

// findCycle runs a depth-first search over the model reference graph and
// returns one cycle as a node path, or nil when the graph is acyclic.
func findCycle(edges map[string][]string) []string {
	const (
		white = iota // unvisited
		grey         // on the current path
		black        // finished
	)

	color := make(map[string]int, len(edges))

	var path []string
	var visit func(node string) []string

	visit = func(node string) []string {
		color[node] = grey
		path = append(path, node)

		for _, next := range edges[node] {
			switch color[next] {
			case grey:
				return append(path, next)
			case white:
				if cycle := visit(next); cycle != nil {
					return cycle
				}
			}
		}

		color[node] = black
		path = path[:len(path)-1]

		return nil
	}

	for node := range edges {
		if color[node] != white {
			continue
		}

		if cycle := visit(node); cycle != nil {
			return cycle
		}
		path = path[:0]
	}

	return nil
}

// Package resolver computes dependency-correct load order and dependent
// sets over the depends_on graph described by an installed inventory.
package resolver

import (
	"sort"

	"github.com/adi-family/pluginhost/pkg/hosterr"
	"github.com/adi-family/pluginhost/pkg/inventory"
)

type color int

const (
	unvisited color = iota
	inProgress
	visited
)

// ResolveLoadOrder performs a depth-first, three-colour traversal from
// target over the depends_on edges recorded in plugins. The result is the
// post-order sequence — every dependency precedes every plugin that depends
// on it — and always ends with target itself. Ties between sibling
// dependencies are broken lexicographically by id for determinism.
func ResolveLoadOrder(target string, plugins map[string]inventory.InstalledPlugin) ([]string, error) {
	colors := make(map[string]color, len(plugins))
	var order []string

	var visit func(id string) error
	visit = func(id string) error {
		switch colors[id] {
		case visited:
			return nil
		case inProgress:
			return hosterr.New(hosterr.ErrCircularDependency, "resolver.resolve_load_order", nil).WithPlugin(id)
		}

		plugin, ok := plugins[id]
		if !ok {
			return hosterr.New(hosterr.ErrDependencyNotFound, "resolver.resolve_load_order", nil).WithPlugin(id)
		}

		colors[id] = inProgress

		deps := append([]string(nil), plugin.Manifest.Compatibility.DependsOn...)
		sort.Strings(deps)
		for _, dep := range deps {
			if err := visit(dep); err != nil {
				return err
			}
		}

		colors[id] = visited
		order = append(order, id)
		return nil
	}

	if err := visit(target); err != nil {
		return nil, err
	}
	return order, nil
}

// FindDependents performs a breadth-first search over the inverse
// depends_on edge set, returning every id that transitively lists target as
// a dependency. Used to cascade disable before tearing target down.
func FindDependents(target string, plugins map[string]inventory.InstalledPlugin) []string {
	inverse := make(map[string][]string, len(plugins))
	for id, p := range plugins {
		for _, dep := range p.Manifest.Compatibility.DependsOn {
			inverse[dep] = append(inverse[dep], id)
		}
	}
	for _, list := range inverse {
		sort.Strings(list)
	}

	seen := map[string]bool{target: true}
	queue := []string{target}
	var dependents []string

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, dep := range inverse[cur] {
			if seen[dep] {
				continue
			}
			seen[dep] = true
			dependents = append(dependents, dep)
			queue = append(queue, dep)
		}
	}
	return dependents
}

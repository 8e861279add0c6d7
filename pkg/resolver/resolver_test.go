package resolver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adi-family/pluginhost/pkg/inventory"
	"github.com/adi-family/pluginhost/pkg/manifest"
)

func plugin(id string, dependsOn ...string) inventory.InstalledPlugin {
	return inventory.InstalledPlugin{
		Manifest: manifest.PluginManifest{
			ID: id,
			Compatibility: manifest.Compatibility{
				DependsOn: dependsOn,
			},
		},
	}
}

func TestResolveLoadOrderDiamond(t *testing.T) {
	plugins := map[string]inventory.InstalledPlugin{
		"A": plugin("A", "B", "C"),
		"B": plugin("B", "D"),
		"C": plugin("C", "D"),
		"D": plugin("D"),
	}

	order, err := ResolveLoadOrder("A", plugins)
	require.NoError(t, err)
	require.Equal(t, "A", order[len(order)-1])

	pos := func(id string) int {
		for i, v := range order {
			if v == id {
				return i
			}
		}
		return -1
	}
	require.Less(t, pos("D"), pos("B"))
	require.Less(t, pos("D"), pos("C"))
	require.Less(t, pos("B"), pos("A"))
	require.Less(t, pos("C"), pos("A"))

	seen := map[string]bool{}
	for _, id := range order {
		require.False(t, seen[id], "duplicate %s in load order", id)
		seen[id] = true
	}
}

func TestResolveLoadOrderCycle(t *testing.T) {
	plugins := map[string]inventory.InstalledPlugin{
		"X": plugin("X", "Y"),
		"Y": plugin("Y", "X"),
	}

	_, err := ResolveLoadOrder("X", plugins)
	require.Error(t, err)
}

func TestResolveLoadOrderMissingDependency(t *testing.T) {
	plugins := map[string]inventory.InstalledPlugin{
		"A": plugin("A", "ghost"),
	}

	_, err := ResolveLoadOrder("A", plugins)
	require.Error(t, err)
}

func TestFindDependentsCascade(t *testing.T) {
	plugins := map[string]inventory.InstalledPlugin{
		"A": plugin("A"),
		"B": plugin("B", "A"),
		"C": plugin("C", "B"),
	}

	dependents := FindDependents("A", plugins)
	require.ElementsMatch(t, []string{"B", "C"}, dependents)
}

package scenedep

import (
	"fmt"
	"sort"
	"strings"
)

// Status is a diagnostic tool that returns a string describing the state of
// the registry: each indexed scene and group, the containers in it, and
// which container is the cached root. The output is sorted and free of raw
// addresses so it is stable enough to use in error payloads and tests.
func (r *Registry) Status() string {
	if len(r.byScene) == 0 && len(r.byGroup) == 0 {
		return "no containers registered"
	}

	result := strings.Builder{}
	fmt.Fprintf(&result, "topmost scene: %d", r.topmost)

	sceneIDs := make([]int, 0, len(r.byScene))
	for id := range r.byScene {
		sceneIDs = append(sceneIDs, int(id))
	}
	sort.Ints(sceneIDs)
	for _, id := range sceneIDs {
		list := r.byScene[SceneID(id)]
		fmt.Fprintf(&result, "\nscene %d (%d containers):", id, list.len())
		result.WriteString(formatList(list))
	}

	groups := make([]int, 0, len(r.byGroup))
	for g := range r.byGroup {
		groups = append(groups, g)
	}
	sort.Ints(groups)
	for _, g := range groups {
		list := r.byGroup[g]
		fmt.Fprintf(&result, "\ngroup %d (%d containers):", g, list.len())
		result.WriteString(formatList(list))
	}

	return result.String()
}

// formatList renders one line per member in a deterministic order keyed by
// hierarchy path, marking the cached root with an asterisk.
func formatList(l *containerList) string {
	lines := make([]string, 0, l.len())
	for i := 0; i < l.len(); i++ {
		c := l.at(i)
		marker := " "
		if c == l.root {
			marker = "*"
		}
		lines = append(lines, fmt.Sprintf("\n %s node %v scene %d group %d - %d bindings",
			marker, hierarchyPath(c.node), c.scene, c.group, c.Len()))
	}
	sort.Strings(lines)
	return strings.Join(lines, "")
}

// Status returns a string describing each type bound in the container and
// whether it is stored as an inline copy or a shared reference. Entries are
// sorted by type name.
func (c *Container) Status() string {
	lines := make([]string, 0, len(c.present))
	for tok := range c.present {
		info := infoOf(tok)
		storage := "value copy"
		if info.refLike {
			storage = "shared reference"
		}
		lines = append(lines, fmt.Sprintf("%v - %s", info.typ, storage))
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}

package transit

// FindPath runs breadth-first search from every node in sources
// simultaneously, terminating at the first node that belongs to
// targets. The returned path runs source-to-target and has minimum hop
// count; among equal-length paths, the result is deterministic because
// adjacency lists are sorted ascending at build time. Reports ok=false
// when no target is reachable.
func FindPath(g *Graph, sources, targets []string) (path []string, ok bool) {
	if len(sources) == 0 || len(targets) == 0 {
		return nil, false
	}

	targetSet := make(map[string]bool, len(targets))
	for _, t := range targets {
		targetSet[t] = true
	}

	type queueEntry struct{ node string }
	visited := make(map[string]string) // node -> parent ("" for a source)
	isSource := make(map[string]bool, len(sources))
	queue := make([]queueEntry, 0, len(sources))
	for _, s := range sources {
		if isSource[s] {
			continue
		}
		isSource[s] = true
		visited[s] = ""
		queue = append(queue, queueEntry{node: s})
	}

	for len(queue) > 0 {
		current := queue[0].node
		queue = queue[1:]

		if targetSet[current] {
			return reconstruct(current, visited, isSource), true
		}

		for _, neighbor := range g.Edges[current] {
			if _, seen := visited[neighbor]; seen {
				continue
			}
			visited[neighbor] = current
			queue = append(queue, queueEntry{node: neighbor})
		}
	}
	return nil, false
}

func reconstruct(node string, visited map[string]string, isSource map[string]bool) []string {
	var path []string
	for {
		path = append(path, node)
		if isSource[node] {
			break
		}
		node = visited[node]
	}
	// reverse into source-to-target order
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

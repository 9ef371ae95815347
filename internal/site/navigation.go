package site

// BuildNavigation derives the navigation tree from the finalized model. It
// mirrors the Collection/Page hierarchy exactly and performs no re-sorting:
// navigation order is a pure, stable function of the scanner's deterministic
// traversal. Total function; cannot fail on a valid model.
func BuildNavigation(m *Model) *NavigationNode {
	root := &NavigationNode{Label: "", URL: "/"}

	for _, p := range m.TopLevelPages() {
		// The home page is the entry point and excluded from listings.
		// Changelogs are listed like regular pages.
		if p.Type == PageHome {
			continue
		}
		root.Children = append(root.Children, &NavigationNode{Label: p.Title, URL: p.URL})
	}

	for _, c := range m.TopLevelCollections() {
		if node := collectionNode(m, c); node != nil {
			root.Children = append(root.Children, node)
		}
	}

	return root
}

// collectionNode builds the subtree for one collection. Label precedence:
// index page title (which already reflects config overrides) over the
// humanized directory name. Returns nil for collections with no visible
// member at all; the index page counts as visible so a directory holding
// only index.md still appears.
func collectionNode(m *Model, c *Collection) *NavigationNode {
	node := &NavigationNode{
		Label: Humanize(c.Path),
		URL:   c.Path + "/",
	}
	if c.IndexPage != "" {
		if idx, ok := m.PageBySource(c.IndexPage); ok && idx.Title != "" {
			node.Label = idx.Title
		}
	}

	for _, sp := range c.Pages {
		if p, ok := m.PageBySource(sp); ok {
			node.Children = append(node.Children, &NavigationNode{Label: p.Title, URL: p.URL})
		}
	}
	for _, cp := range c.Collections {
		if child, ok := m.CollectionByPath(cp); ok {
			if childNode := collectionNode(m, child); childNode != nil {
				node.Children = append(node.Children, childNode)
			}
		}
	}

	if len(node.Children) == 0 && c.IndexPage == "" {
		return nil
	}
	return node
}

// CountNodes returns the number of nodes below (and excluding) the root.
func CountNodes(root *NavigationNode) int {
	n := 0
	for _, c := range root.Children {
		n += 1 + CountNodes(c)
	}
	return n
}

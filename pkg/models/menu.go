package models

// MenuEntry is one item of the site menu, possibly with a submenu.
type MenuEntry struct {
	Active   bool
	Href     string
	Text     string
	Children []MenuEntry
}

// ActiveCSS returns the CSS class used to highlight the current menu item.
func (e MenuEntry) ActiveCSS() string {
	if e.Active {
		return "active"
	}
	return ""
}

// BuildMenu assembles menu entries from a flat, pre-filtered, pre-ordered
// page list. Pages whose parent is not in the list end up at the top level
// only if they are root pages. currentURL marks the active trail: an exact
// match for leaves, a prefix match for entries with children.
func BuildMenu(pages []Page, currentURL string) []MenuEntry {
	children := make(map[int64][]Page)
	var roots []Page
	for _, p := range pages {
		if p.ParentID == nil {
			roots = append(roots, p)
		} else {
			children[*p.ParentID] = append(children[*p.ParentID], p)
		}
	}

	entries := make([]MenuEntry, 0, len(roots))
	for _, p := range roots {
		entries = append(entries, menuEntry(p, children, currentURL))
	}
	return entries
}

func menuEntry(p Page, children map[int64][]Page, currentURL string) MenuEntry {
	var sub []MenuEntry
	for _, child := range children[p.ID] {
		sub = append(sub, menuEntry(child, children, currentURL))
	}

	href := p.LocalURL()
	active := false
	if currentURL != "" {
		if len(sub) > 0 {
			active = hasPrefix(currentURL, href)
		} else {
			active = currentURL == href
		}
	}

	return MenuEntry{
		Active:   active,
		Href:     href,
		Text:     p.MenuText(),
		Children: sub,
	}
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

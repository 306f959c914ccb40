package segment

import (
	"strings"

	"github.com/dgallion1/regsplit/internal/provision"
)

// Merge collapses rows sharing an ID into one provision. Rows keep the order in
// which their ID first appeared; the first row of an ID fixes its Type and
// Label, the first non-empty Title wins, and texts are joined with
// provision.Separator after dropping exact repeats.
func Merge(rows []provision.Provision) []provision.Provision {
	type group struct {
		p     provision.Provision
		texts []string
		seen  map[string]bool
	}
	var order []string
	groups := make(map[string]*group)

	for _, r := range rows {
		g, ok := groups[r.ID]
		if !ok {
			g = &group{
				p:    provision.Provision{ID: r.ID, Type: r.Type, Label: r.Label},
				seen: make(map[string]bool),
			}
			groups[r.ID] = g
			order = append(order, r.ID)
		}
		if g.p.Title == "" && r.Title != "" {
			g.p.Title = r.Title
		}
		if r.Text == "" || g.seen[r.Text] {
			continue
		}
		g.seen[r.Text] = true
		g.texts = append(g.texts, r.Text)
	}

	out := make([]provision.Provision, 0, len(order))
	for _, id := range order {
		g := groups[id]
		g.p.Text = strings.Join(g.texts, provision.Separator)
		out = append(out, g.p)
	}
	return out
}

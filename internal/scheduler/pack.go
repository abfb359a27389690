package scheduler

import (
	"fmt"
	"time"

	"github.com/k5602/course-pilot/internal/domain"
)

// packSection is one video flattened out of the module tree.
type packSection struct {
	ModuleTitle string
	Title       string
	VideoIndex  int
	Duration    time.Duration
}

// itemBuilder accumulates sections for one study session.
type itemBuilder struct {
	moduleTitles []string
	sections     []packSection
	duration     time.Duration
	warnings     []string
}

func (b *itemBuilder) empty() bool { return len(b.sections) == 0 }

func (b *itemBuilder) add(s packSection) {
	if n := len(b.moduleTitles); n == 0 || b.moduleTitles[n-1] != s.ModuleTitle {
		b.moduleTitles = append(b.moduleTitles, s.ModuleTitle)
	}
	b.sections = append(b.sections, s)
	b.duration += s.Duration
}

func (b *itemBuilder) build() domain.PlanItem {
	indices := make([]int, len(b.sections))
	for i, s := range b.sections {
		indices[i] = s.VideoIndex
	}
	title := b.sections[0].Title
	if len(b.sections) > 1 {
		title = fmt.Sprintf("%s (+%d more)", title, len(b.sections)-1)
	}
	moduleTitle := b.moduleTitles[0]
	for _, t := range b.moduleTitles[1:] {
		moduleTitle += " → " + t
	}
	return domain.PlanItem{
		ModuleTitle:      moduleTitle,
		SectionTitle:     title,
		VideoIndices:     indices,
		TotalDuration:    b.duration,
		OverflowWarnings: b.warnings,
	}
}

// flush appends the built item (if any) and resets the builder.
func (b *itemBuilder) flush(items []domain.PlanItem) []domain.PlanItem {
	if b.empty() {
		return items
	}
	items = append(items, b.build())
	*b = itemBuilder{}
	return items
}

func flatten(m domain.Module) []packSection {
	out := make([]packSection, len(m.Sections))
	for i, s := range m.Sections {
		out[i] = packSection{ModuleTitle: m.Title, Title: s.Title, VideoIndex: s.VideoIndex, Duration: s.Duration}
	}
	return out
}

func overflowWarning(s packSection, budget time.Duration) string {
	return fmt.Sprintf("%q runs %s, longer than the %s session budget; scheduled alone",
		s.Title, s.Duration, budget)
}

// packModuleBased packs each module independently: greedy fill, new item
// on overflow, never crossing a module boundary. budgetFor lets callers
// scale the budget per module.
func packModuleBased(modules []domain.Module, budgetFor func(domain.Module) time.Duration) []domain.PlanItem {
	var items []domain.PlanItem
	var cur itemBuilder
	for _, mod := range modules {
		budget := budgetFor(mod)
		for _, s := range flatten(mod) {
			if s.Duration > budget {
				items = cur.flush(items)
				cur.add(s)
				cur.warnings = append(cur.warnings, overflowWarning(s, budget))
				items = cur.flush(items)
				continue
			}
			if !cur.empty() && cur.duration+s.Duration > budget {
				items = cur.flush(items)
			}
			cur.add(s)
		}
		items = cur.flush(items)
	}
	return items
}

// packTimeBased ignores module boundaries and greedily packs by original
// index.
func packTimeBased(modules []domain.Module, budget time.Duration) []domain.PlanItem {
	var all []packSection
	for _, mod := range modules {
		all = append(all, flatten(mod)...)
	}
	for i := 1; i < len(all); i++ {
		for j := i; j > 0 && all[j].VideoIndex < all[j-1].VideoIndex; j-- {
			all[j], all[j-1] = all[j-1], all[j]
		}
	}

	var items []domain.PlanItem
	var cur itemBuilder
	for _, s := range all {
		if s.Duration > budget {
			items = cur.flush(items)
			cur.add(s)
			cur.warnings = append(cur.warnings, overflowWarning(s, budget))
			items = cur.flush(items)
			continue
		}
		if !cur.empty() && cur.duration+s.Duration > budget {
			items = cur.flush(items)
		}
		cur.add(s)
	}
	return cur.flush(items)
}

// packHybrid packs like packModuleBased but may carry an item across a
// module boundary when the item is at most half full and the next module's
// first section still fits. nextBudget is consulted once per item, which
// lets the adaptive strategy re-estimate as items accumulate.
func packHybrid(modules []domain.Module, nextBudget func(done []domain.PlanItem) time.Duration) []domain.PlanItem {
	var items []domain.PlanItem
	var cur itemBuilder
	budget := nextBudget(items)

	flush := func() {
		items = cur.flush(items)
		budget = nextBudget(items)
	}

	for mi, mod := range modules {
		for si, s := range flatten(mod) {
			// A fresh module only joins the open item when the item is
			// at most half full and this first section fits.
			if si == 0 && !cur.empty() {
				if cur.duration > budget/2 || cur.duration+s.Duration > budget {
					flush()
				}
			}
			if s.Duration > budget {
				flush()
				cur.add(s)
				cur.warnings = append(cur.warnings, overflowWarning(s, budget))
				flush()
				continue
			}
			if !cur.empty() && cur.duration+s.Duration > budget {
				flush()
			}
			cur.add(s)
		}
		if mi == len(modules)-1 {
			flush()
		}
	}
	return items
}

package planner

import "sort"

// allocate spends each teacher's capacity against outstanding demand.
// Teachers with a primary subject go first; within a teacher, primary
// demand is drained before support demand, always picking the subject
// with the greatest remaining hours. Demand is decremented on the
// Remaining shadow field only, keeping Required intact.
func allocate(profiles []*TeacherProfile, ds *demandSet) {
	order := make([]*TeacherProfile, len(profiles))
	copy(order, profiles)
	sort.Slice(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if (a.PrimaryKey != "") != (b.PrimaryKey != "") {
			return a.PrimaryKey != ""
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})

	for _, p := range order {
		allocateTeacher(p, ds)
		trimOverflow(p, ds)
	}
}

func allocateTeacher(p *TeacherProfile, ds *demandSet) {
	for p.RemainingCapacity() > 0 {
		key := pickCandidate([]string{p.PrimaryKey}, ds)
		if key == "" {
			key = pickCandidate(p.SupportKeys, ds)
		}
		if key == "" {
			return
		}

		d := ds.subjects[key]
		hours := p.RemainingCapacity()
		if d.Remaining < hours {
			hours = d.Remaining
		}

		p.Breakdown[key] += hours
		p.Allocated += hours
		d.Remaining -= hours
	}
}

// pickCandidate returns the key with the greatest remaining demand,
// ties broken by subject name.
func pickCandidate(keys []string, ds *demandSet) string {
	best := ""
	for _, key := range keys {
		d, ok := ds.subjects[key]
		if !ok || d.Remaining <= 0 {
			continue
		}
		if best == "" {
			best = key
			continue
		}
		b := ds.subjects[best]
		if d.Remaining > b.Remaining || (d.Remaining == b.Remaining && d.Name < b.Name) {
			best = key
		}
	}
	return best
}

// trimOverflow returns excess allocation to the demand pool when a
// breakdown somehow exceeds capacity. Support subjects give back hours
// before the primary. The allocation loop's own bound keeps this from
// firing in practice.
func trimOverflow(p *TeacherProfile, ds *demandSet) {
	excess := p.Allocated - p.Capacity
	if excess <= 0 {
		return
	}

	trimOrder := make([]string, 0, len(p.Breakdown))
	for key := range p.Breakdown {
		if key != p.PrimaryKey {
			trimOrder = append(trimOrder, key)
		}
	}
	sort.Strings(trimOrder)
	if _, ok := p.Breakdown[p.PrimaryKey]; ok {
		trimOrder = append(trimOrder, p.PrimaryKey)
	}

	for _, key := range trimOrder {
		if excess <= 0 {
			break
		}
		give := p.Breakdown[key]
		if give > excess {
			give = excess
		}
		p.Breakdown[key] -= give
		if p.Breakdown[key] == 0 {
			delete(p.Breakdown, key)
		}
		p.Allocated -= give
		excess -= give
		if d, ok := ds.subjects[key]; ok {
			d.Remaining += give
		}
	}
}

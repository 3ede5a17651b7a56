package planner

import "sort"

// TeacherProfile is the engine's working view of one teacher: a single
// primary subject affinity, rule-derived support subjects, and a
// bounded weekly capacity the allocator spends.
type TeacherProfile struct {
	ID          int64
	Name        string
	Capacity    int
	PrimaryKey  string
	SupportKeys []string

	// Breakdown maps subject key to hours assigned by the allocator.
	Breakdown map[string]int
	Allocated int
}

// RemainingCapacity is the unspent share of the teacher's capacity.
func (p *TeacherProfile) RemainingCapacity() int {
	return p.Capacity - p.Allocated
}

// eligible reports whether the teacher can cover the subject.
func (p *TeacherProfile) eligible(key string) bool {
	if p.PrimaryKey == key {
		return true
	}
	for _, s := range p.SupportKeys {
		if s == key {
			return true
		}
	}
	return false
}

// buildProfiles derives one profile per teacher. Subject affinities
// come from allocation links, falling back to the legacy single
// subject code; links that resolve to no known demand identity are
// skipped and counted.
func buildProfiles(cfg Config, teachers []Teacher, links []SubjectLink, ds *demandSet, skipped *SkippedCounts) []*TeacherProfile {
	linked := make(map[int64][]string)
	for _, l := range links {
		key, ok := ds.resolveCode(l.SubjectCode)
		if !ok {
			skipped.LinksUnknownSubject++
			continue
		}
		linked[l.TeacherID] = append(linked[l.TeacherID], key)
	}

	adj := cfg.neighbors(ds.has)

	profiles := make([]*TeacherProfile, 0, len(teachers))
	for _, t := range teachers {
		p := &TeacherProfile{
			ID:        t.ID,
			Name:      displayName(t.ID, t.FirstName, t.MiddleName, t.LastName),
			Capacity:  teacherCapacity(cfg, t),
			Breakdown: make(map[string]int),
		}

		candidates := linked[t.ID]
		if len(candidates) == 0 && t.SubjectCode != "" {
			if key, ok := ds.resolveCode(t.SubjectCode); ok {
				candidates = []string{key}
			} else {
				skipped.LinksUnknownSubject++
			}
		}

		p.PrimaryKey = rankPrimary(candidates, ds)
		if p.PrimaryKey == "" {
			skipped.TeachersNoSubjects++
		} else {
			p.SupportKeys = supportKeys(p.PrimaryKey, adj, ds)
		}

		profiles = append(profiles, p)
	}

	return profiles
}

func teacherCapacity(cfg Config, t Teacher) int {
	if t.ExtraHoursAllowed && t.MaxHours > 0 {
		return t.MaxHours
	}
	return cfg.capacity()
}

// rankPrimary picks the single primary subject: greatest summed weekly
// load, then greatest required hours, then name ascending.
func rankPrimary(candidates []string, ds *demandSet) string {
	unique := make([]string, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, key := range candidates {
		if _, ok := seen[key]; ok {
			continue
		}
		if !ds.has(key) {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, key)
	}
	if len(unique) == 0 {
		return ""
	}

	sort.Slice(unique, func(i, j int) bool {
		a, b := ds.subjects[unique[i]], ds.subjects[unique[j]]
		if a.WeeklySum != b.WeeklySum {
			return a.WeeklySum > b.WeeklySum
		}
		if a.Required != b.Required {
			return a.Required > b.Required
		}
		return a.Name < b.Name
	})
	return unique[0]
}

// supportKeys returns the rule-table neighbors of the primary key that
// carry demand, sorted by subject name.
func supportKeys(primary string, adj map[string][]string, ds *demandSet) []string {
	neighbors := adj[primary]
	out := make([]string, 0, len(neighbors))
	for _, n := range neighbors {
		if n == primary || !ds.has(n) {
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		return ds.subjects[out[i]].Name < ds.subjects[out[j]].Name
	})
	return out
}

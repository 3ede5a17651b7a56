package planner

import "sort"

// SubjectDemand accumulates the weekly hour requirement for one
// subject identity across every grade it appears in.
type SubjectDemand struct {
	Key             string
	Name            string
	Required        int
	RequiredCurrent int
	RequiredNew     int
	Remaining       int
	// WeeklySum is the summed weekly load across the subject records
	// that share this identity. Used to rank teacher affinities.
	WeeklySum int

	grades map[string]struct{}
}

// Grades returns the sorted grade labels the subject appears in.
func (d *SubjectDemand) Grades() []string {
	out := make([]string, 0, len(d.grades))
	for g := range d.grades {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return gradeRank[out[i]] < gradeRank[out[j]] })
	return out
}

// gradeCount tracks planned sections per grade split by status.
type gradeCount struct {
	Current int
	New     int
}

// GradeDemand aggregates section counts and required hours per grade.
type GradeDemand struct {
	Grade           string
	SectionsCurrent int
	SectionsNew     int
	RequiredCurrent int
	RequiredNew     int
}

// gradeSubject records one subject's weekly load at one grade, feeding
// the class mapping projector.
type gradeSubject struct {
	Key         string
	Name        string
	WeeklyHours int
}

// demandSet is the engine-owned demand state for one run.
type demandSet struct {
	subjects map[string]*SubjectDemand
	grades   map[string]*GradeDemand
	byGrade  map[string][]gradeSubject
	codeKeys map[string]string
}

func (ds *demandSet) has(key string) bool {
	_, ok := ds.subjects[key]
	return ok
}

// sortedKeys returns subject keys in name order for deterministic
// iteration.
func (ds *demandSet) sortedKeys() []string {
	keys := make([]string, 0, len(ds.subjects))
	for k := range ds.subjects {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := ds.subjects[keys[i]], ds.subjects[keys[j]]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return keys[i] < keys[j]
	})
	return keys
}

// resolveCode maps a raw subject code to the demand identity it feeds.
func (ds *demandSet) resolveCode(code string) (string, bool) {
	key, ok := ds.codeKeys[normalizeKey(code)]
	return key, ok
}

// buildDemand derives the SubjectDemand map and grade aggregates from
// the scoped subjects and sections.
func buildDemand(subjects []Subject, sections []ClassSection, skipped *SkippedCounts) *demandSet {
	ds := &demandSet{
		subjects: make(map[string]*SubjectDemand),
		grades:   make(map[string]*GradeDemand),
		byGrade:  make(map[string][]gradeSubject),
		codeKeys: make(map[string]string),
	}

	counts := make(map[string]gradeCount)
	for _, sec := range sections {
		grade, ok := normalizeGradeLabel(sec.GradeLevel)
		if !ok {
			skipped.SectionsInvalidGrade++
			continue
		}
		c := counts[grade]
		if normalizeStatus(sec.ClassStatus) == StatusNew {
			c.New++
		} else {
			c.Current++
		}
		counts[grade] = c

		gd := ds.grades[grade]
		if gd == nil {
			gd = &GradeDemand{Grade: grade}
			ds.grades[grade] = gd
		}
		gd.SectionsCurrent = c.Current
		gd.SectionsNew = c.New
	}

	for _, sub := range subjects {
		if sub.WeeklyHours <= 0 {
			skipped.SubjectsNonPositiveHours++
			continue
		}
		grade, ok := normalizeGradeNumber(sub.Grade)
		if !ok {
			skipped.SubjectsInvalidGrade++
			continue
		}
		key := subjectKey(sub.Name, sub.Code)
		if key == "" {
			skipped.SubjectsInvalidGrade++
			continue
		}

		c, hasSections := counts[grade]
		if !hasSections || c.Current+c.New == 0 {
			skipped.SubjectsNoSections++
			continue
		}

		d := ds.subjects[key]
		if d == nil {
			name := sub.Name
			if normalizeKey(name) == "" {
				name = sub.Code
			}
			d = &SubjectDemand{Key: key, Name: name, grades: make(map[string]struct{})}
			ds.subjects[key] = d
		}

		current := sub.WeeklyHours * c.Current
		fresh := sub.WeeklyHours * c.New
		d.RequiredCurrent += current
		d.RequiredNew += fresh
		d.Required += current + fresh
		d.Remaining = d.Required
		d.WeeklySum += sub.WeeklyHours
		d.grades[grade] = struct{}{}

		if code := normalizeKey(sub.Code); code != "" {
			ds.codeKeys[code] = key
		}

		gd := ds.grades[grade]
		gd.RequiredCurrent += current
		gd.RequiredNew += fresh

		ds.byGrade[grade] = appendGradeSubject(ds.byGrade[grade], key, d.Name, sub.WeeklyHours)
	}

	return ds
}

// appendGradeSubject merges subject records sharing an identity at the
// same grade by summing their weekly load.
func appendGradeSubject(list []gradeSubject, key, name string, hours int) []gradeSubject {
	for i := range list {
		if list[i].Key == key {
			list[i].WeeklyHours += hours
			return list
		}
	}
	return append(list, gradeSubject{Key: key, Name: name, WeeklyHours: hours})
}

package planner

import "sort"

// Assignment is one teacher-to-class subject assignment.
type Assignment struct {
	TeacherID    int64  `json:"teacher_id"`
	TeacherName  string `json:"teacher_name"`
	Grade        string `json:"grade"`
	Section      string `json:"section"`
	ClassStatus  string `json:"class_status"`
	Subject      string `json:"subject"`
	Hours        int    `json:"hours"`
	CoverageType string `json:"coverage_type"`
}

// UnassignedDemand is a class/subject slot no teacher could cover.
type UnassignedDemand struct {
	Grade       string `json:"grade"`
	Section     string `json:"section"`
	ClassStatus string `json:"class_status"`
	Subject     string `json:"subject"`
	Hours       int    `json:"hours"`
}

// MatrixRow is one teacher's hours across every class, keyed by the
// class label.
type MatrixRow struct {
	TeacherID   int64          `json:"teacher_id"`
	TeacherName string         `json:"teacher_name"`
	Hours       map[string]int `json:"hours"`
	TotalHours  int            `json:"total_hours"`
}

// ClassMappingResult is the class-level projection of an allocation.
type ClassMappingResult struct {
	Classes     []string           `json:"classes"`
	Matrix      []MatrixRow        `json:"matrix"`
	Assignments []Assignment       `json:"assignments"`
	Unassigned  []UnassignedDemand `json:"unassigned"`
	Skipped     SkippedCounts      `json:"skipped"`
}

// Coverage types recorded on assignment rows.
const (
	CoveragePrimary = "primary"
	CoverageSupport = "support"
)

// demandItem is one (class section × subject) slot with its own
// remaining-hours counter.
type demandItem struct {
	grade     string
	section   string
	status    string
	key       string
	subject   string
	remaining int
}

func classLabel(grade, section string) string {
	return grade + "-" + section
}

// projectClassMapping re-distributes each teacher's subject allocation
// onto concrete class sections, walking current sections before new
// ones and teachers in allocated-hours order.
func projectClassMapping(p *plan, sections []ClassSection) *ClassMappingResult {
	items := buildDemandItems(p.demand, sections)

	res := &ClassMappingResult{Skipped: p.skipped}
	for _, it := range items {
		res.Classes = appendUnique(res.Classes, classLabel(it.grade, it.section))
	}

	teachers := make([]*TeacherProfile, len(p.profiles))
	copy(teachers, p.profiles)
	sort.Slice(teachers, func(i, j int) bool {
		a, b := teachers[i], teachers[j]
		if a.Allocated != b.Allocated {
			return a.Allocated > b.Allocated
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})

	for _, t := range teachers {
		if t.Allocated == 0 {
			continue
		}
		row := MatrixRow{TeacherID: t.ID, TeacherName: t.Name, Hours: make(map[string]int)}

		for _, key := range subjectWalkOrder(t) {
			quota := t.Breakdown[key]
			for i := range items {
				if quota == 0 {
					break
				}
				it := &items[i]
				if it.key != key || it.remaining == 0 {
					continue
				}
				hours := quota
				if it.remaining < hours {
					hours = it.remaining
				}
				it.remaining -= hours
				quota -= hours

				coverage := CoverageSupport
				if key == t.PrimaryKey {
					coverage = CoveragePrimary
				}
				res.Assignments = append(res.Assignments, Assignment{
					TeacherID:    t.ID,
					TeacherName:  t.Name,
					Grade:        it.grade,
					Section:      it.section,
					ClassStatus:  it.status,
					Subject:      it.subject,
					Hours:        hours,
					CoverageType: coverage,
				})

				label := classLabel(it.grade, it.section)
				row.Hours[label] += hours
				row.TotalHours += hours
			}
		}

		res.Matrix = append(res.Matrix, row)
	}

	for _, it := range items {
		if it.remaining <= 0 {
			continue
		}
		res.Unassigned = append(res.Unassigned, UnassignedDemand{
			Grade:       it.grade,
			Section:     it.section,
			ClassStatus: it.status,
			Subject:     it.subject,
			Hours:       it.remaining,
		})
	}

	return res
}

// buildDemandItems seeds a slot per (section × subject at that grade),
// ordered current before new, then grade, then section name, then
// subject name.
func buildDemandItems(ds *demandSet, sections []ClassSection) []demandItem {
	type normSection struct {
		grade   string
		section string
		status  string
	}

	normalized := make([]normSection, 0, len(sections))
	for _, sec := range sections {
		grade, ok := normalizeGradeLabel(sec.GradeLevel)
		if !ok {
			continue
		}
		normalized = append(normalized, normSection{
			grade:   grade,
			section: normalizeSectionName(sec.SectionName),
			status:  normalizeStatus(sec.ClassStatus),
		})
	}

	sort.SliceStable(normalized, func(i, j int) bool {
		a, b := normalized[i], normalized[j]
		if a.status != b.status {
			return a.status == StatusCurrent
		}
		if a.grade != b.grade {
			return gradeRank[a.grade] < gradeRank[b.grade]
		}
		return a.section < b.section
	})

	items := make([]demandItem, 0)
	for _, sec := range normalized {
		catalog := append([]gradeSubject(nil), ds.byGrade[sec.grade]...)
		sort.Slice(catalog, func(i, j int) bool { return catalog[i].Name < catalog[j].Name })
		for _, gs := range catalog {
			items = append(items, demandItem{
				grade:     sec.grade,
				section:   sec.section,
				status:    sec.status,
				key:       gs.Key,
				subject:   gs.Name,
				remaining: gs.WeeklyHours,
			})
		}
	}
	return items
}

// subjectWalkOrder returns the teacher's breakdown keys in consumption
// order: primary, support, then any leftover keys by name.
func subjectWalkOrder(t *TeacherProfile) []string {
	order := make([]string, 0, len(t.Breakdown))
	seen := make(map[string]struct{})
	add := func(key string) {
		if key == "" {
			return
		}
		if _, ok := seen[key]; ok {
			return
		}
		if _, ok := t.Breakdown[key]; !ok {
			return
		}
		seen[key] = struct{}{}
		order = append(order, key)
	}

	add(t.PrimaryKey)
	for _, key := range t.SupportKeys {
		add(key)
	}

	leftover := make([]string, 0)
	for key := range t.Breakdown {
		if _, ok := seen[key]; !ok {
			leftover = append(leftover, key)
		}
	}
	sort.Strings(leftover)
	for _, key := range leftover {
		add(key)
	}

	return order
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

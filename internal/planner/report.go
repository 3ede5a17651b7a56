package planner

import "sort"

// Summary holds the branch-wide staffing KPIs.
type Summary struct {
	RequiredHours            int     `json:"required_hours"`
	AllocatedHours           int     `json:"allocated_hours"`
	RemainingHours           int     `json:"remaining_hours"`
	CoveragePercent          float64 `json:"coverage_percent"`
	TeacherCount             int     `json:"teacher_count"`
	TotalCapacity            int     `json:"total_capacity"`
	UtilizedTeachers         int     `json:"utilized_teachers"`
	IdleTeachers             int     `json:"idle_teachers"`
	FullLoadTeachers         int     `json:"full_load_teachers"`
	AdditionalTeachersNeeded int     `json:"additional_teachers_needed"`
	TotalTeachersNeeded      int     `json:"total_teachers_needed"`
}

// SubjectRow is one subject's coverage line in the report.
type SubjectRow struct {
	Key                string   `json:"key"`
	Name               string   `json:"name"`
	Grades             []string `json:"grades"`
	RequiredHours      int      `json:"required_hours"`
	AllocatedHours     int      `json:"allocated_hours"`
	RemainingHours     int      `json:"remaining_hours"`
	CoveragePercent    float64  `json:"coverage_percent"`
	TeacherCount       int      `json:"teacher_count"`
	AdditionalTeachers int      `json:"additional_teachers"`
	PoolingNote        string   `json:"pooling_note,omitempty"`
}

// GapRow is a subject with unmet demand, scaled for chart rendering.
type GapRow struct {
	SubjectRow
	ChartPercent float64 `json:"chart_percent"`
}

// TeacherRow is one teacher's utilization line.
type TeacherRow struct {
	ID                int64          `json:"id"`
	Name              string         `json:"name"`
	PrimarySubject    string         `json:"primary_subject,omitempty"`
	SupportSubjects   []string       `json:"support_subjects,omitempty"`
	Capacity          int            `json:"capacity"`
	AllocatedHours    int            `json:"allocated_hours"`
	RemainingCapacity int            `json:"remaining_capacity"`
	Breakdown         map[string]int `json:"breakdown,omitempty"`
}

// GradeRow aggregates sections and demand per grade.
type GradeRow struct {
	Grade           string `json:"grade"`
	SectionsCurrent int    `json:"sections_current"`
	SectionsNew     int    `json:"sections_new"`
	SectionsTotal   int    `json:"sections_total"`
	RequiredCurrent int    `json:"required_current"`
	RequiredNew     int    `json:"required_new"`
	RequiredTotal   int    `json:"required_total"`
}

// Result is the complete staffing report.
type Result struct {
	Summary  Summary       `json:"summary"`
	Subjects []SubjectRow  `json:"subjects"`
	Gaps     []GapRow      `json:"gaps"`
	Teachers []TeacherRow  `json:"teachers"`
	Grades   []GradeRow    `json:"grades"`
	Skipped  SkippedCounts `json:"skipped"`
}

func assembleReport(cfg Config, p *plan, gaps *gapResult) *Result {
	res := &Result{Skipped: p.skipped}

	res.Subjects = subjectRows(p, gaps)
	res.Gaps = gapRows(cfg, res.Subjects)
	res.Teachers = teacherRows(p)
	res.Grades = gradeRows(p.demand)
	res.Summary = summarize(p, gaps)

	return res
}

func subjectRows(p *plan, gaps *gapResult) []SubjectRow {
	rows := make([]SubjectRow, 0, len(p.demand.subjects))
	for _, key := range p.demand.sortedKeys() {
		d := p.demand.subjects[key]
		row := SubjectRow{
			Key:                key,
			Name:               d.Name,
			Grades:             d.Grades(),
			RequiredHours:      d.Required,
			AllocatedHours:     d.Required - d.Remaining,
			RemainingHours:     d.Remaining,
			CoveragePercent:    percent(d.Required-d.Remaining, d.Required),
			AdditionalTeachers: gaps.additional[key],
			PoolingNote:        gaps.notes[key],
		}
		for _, prof := range p.profiles {
			if prof.eligible(key) {
				row.TeacherCount++
			}
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].RemainingHours != rows[j].RemainingHours {
			return rows[i].RemainingHours > rows[j].RemainingHours
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}

// gapRows takes the top-N subjects with unmet demand and scales each
// against the largest gap for bar-chart rendering.
func gapRows(cfg Config, subjects []SubjectRow) []GapRow {
	gapped := make([]SubjectRow, 0)
	maxRemaining := 0
	for _, row := range subjects {
		if row.RemainingHours <= 0 {
			continue
		}
		gapped = append(gapped, row)
		if row.RemainingHours > maxRemaining {
			maxRemaining = row.RemainingHours
		}
	}
	if len(gapped) > cfg.gapTopN() {
		gapped = gapped[:cfg.gapTopN()]
	}

	rows := make([]GapRow, 0, len(gapped))
	for _, row := range gapped {
		rows = append(rows, GapRow{
			SubjectRow:   row,
			ChartPercent: percent(row.RemainingHours, maxRemaining),
		})
	}
	return rows
}

func teacherRows(p *plan) []TeacherRow {
	rows := make([]TeacherRow, 0, len(p.profiles))
	for _, prof := range p.profiles {
		row := TeacherRow{
			ID:                prof.ID,
			Name:              prof.Name,
			Capacity:          prof.Capacity,
			AllocatedHours:    prof.Allocated,
			RemainingCapacity: prof.RemainingCapacity(),
		}
		if prof.PrimaryKey != "" {
			row.PrimarySubject = p.demand.subjects[prof.PrimaryKey].Name
		}
		for _, key := range prof.SupportKeys {
			row.SupportSubjects = append(row.SupportSubjects, p.demand.subjects[key].Name)
		}
		if len(prof.Breakdown) > 0 {
			row.Breakdown = make(map[string]int, len(prof.Breakdown))
			for key, hours := range prof.Breakdown {
				row.Breakdown[p.demand.subjects[key].Name] = hours
			}
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].AllocatedHours != rows[j].AllocatedHours {
			return rows[i].AllocatedHours > rows[j].AllocatedHours
		}
		if rows[i].Name != rows[j].Name {
			return rows[i].Name < rows[j].Name
		}
		return rows[i].ID < rows[j].ID
	})
	return rows
}

func gradeRows(ds *demandSet) []GradeRow {
	rows := make([]GradeRow, 0, len(ds.grades))
	for _, gd := range ds.grades {
		rows = append(rows, GradeRow{
			Grade:           gd.Grade,
			SectionsCurrent: gd.SectionsCurrent,
			SectionsNew:     gd.SectionsNew,
			SectionsTotal:   gd.SectionsCurrent + gd.SectionsNew,
			RequiredCurrent: gd.RequiredCurrent,
			RequiredNew:     gd.RequiredNew,
			RequiredTotal:   gd.RequiredCurrent + gd.RequiredNew,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		return gradeRank[rows[i].Grade] < gradeRank[rows[j].Grade]
	})
	return rows
}

func summarize(p *plan, gaps *gapResult) Summary {
	s := Summary{
		TeacherCount:             len(p.profiles),
		AdditionalTeachersNeeded: gaps.total,
	}

	for _, d := range p.demand.subjects {
		s.RequiredHours += d.Required
		s.RemainingHours += d.Remaining
	}
	s.AllocatedHours = s.RequiredHours - s.RemainingHours
	s.CoveragePercent = percent(s.AllocatedHours, s.RequiredHours)

	for _, prof := range p.profiles {
		s.TotalCapacity += prof.Capacity
		switch {
		case prof.Allocated == 0:
			s.IdleTeachers++
		case prof.Allocated >= prof.Capacity:
			s.FullLoadTeachers++
			s.UtilizedTeachers++
		default:
			s.UtilizedTeachers++
		}
	}

	s.TotalTeachersNeeded = s.TeacherCount + s.AdditionalTeachersNeeded
	return s
}

// percent guards the zero denominator: no requirement means 0%, not an
// undefined ratio.
func percent(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

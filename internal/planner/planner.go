// Package planner implements the workload allocation and gap analysis
// engine for branch staffing reports. The engine is a pure function of
// its input snapshot: it derives subject demand from curriculum and
// planned sections, assigns existing teacher capacity against it,
// pools cross-related hiring gaps, and projects the allocation onto
// concrete class sections.
package planner

// Subject is a curriculum record scoped to one branch and year.
type Subject struct {
	Code        string
	Name        string
	Grade       int
	WeeklyHours int
}

// ClassSection is a planned class for the target year.
type ClassSection struct {
	GradeLevel  string
	SectionName string
	ClassStatus string
}

// Teacher is a roster record. SubjectCode is the legacy single-subject
// field used when no allocation links exist.
type Teacher struct {
	ID                int64
	FirstName         string
	MiddleName        string
	LastName          string
	SubjectCode       string
	MaxHours          int
	ExtraHoursAllowed bool
}

// SubjectLink ties a teacher to a subject they already teach.
type SubjectLink struct {
	TeacherID   int64
	SubjectCode string
}

// Snapshot is the scoped input the engine runs against. The engine
// never mutates it.
type Snapshot struct {
	Subjects []Subject
	Sections []ClassSection
	Teachers []Teacher
	Links    []SubjectLink
}

// SkippedCounts reports records excluded during input normalization.
// Skips are filtering rules, not errors, but they are surfaced so
// callers and tests can observe them.
type SkippedCounts struct {
	SubjectsInvalidGrade     int `json:"subjects_invalid_grade"`
	SubjectsNonPositiveHours int `json:"subjects_non_positive_hours"`
	SubjectsNoSections       int `json:"subjects_no_sections"`
	SectionsInvalidGrade     int `json:"sections_invalid_grade"`
	LinksUnknownSubject      int `json:"links_unknown_subject"`
	TeachersNoSubjects       int `json:"teachers_no_subjects"`
}

// Engine computes staffing reports. Construct once with a Config and
// reuse freely; Run is safe for concurrent callers because every run
// builds its own state.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// plan holds the intermediate state shared by the report assembler and
// the class mapping projector.
type plan struct {
	demand   *demandSet
	profiles []*TeacherProfile
	skipped  SkippedCounts
}

func (e *Engine) plan(snap Snapshot) *plan {
	p := &plan{}
	p.demand = buildDemand(snap.Subjects, snap.Sections, &p.skipped)
	p.profiles = buildProfiles(e.cfg, snap.Teachers, snap.Links, p.demand, &p.skipped)
	allocate(p.profiles, p.demand)
	return p
}

// Run produces the full staffing report for the snapshot.
func (e *Engine) Run(snap Snapshot) *Result {
	p := e.plan(snap)
	gaps := resolveGaps(e.cfg, p.demand)
	return assembleReport(e.cfg, p, gaps)
}

// ClassMapping projects the allocation onto class sections.
func (e *Engine) ClassMapping(snap Snapshot) *ClassMappingResult {
	p := e.plan(snap)
	return projectClassMapping(p, snap.Sections)
}

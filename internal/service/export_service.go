package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sadeem-labs/staffing-api/internal/models"
	"github.com/sadeem-labs/staffing-api/internal/planner"
	"github.com/sadeem-labs/staffing-api/pkg/export"
	appErrors "github.com/sadeem-labs/staffing-api/pkg/errors"
)

// Exporter renders a document into one output format.
type Exporter interface {
	Render(doc export.Document) ([]byte, error)
}

// ExportService turns planner results into exportable documents and
// renders them.
type ExportService struct {
	csv Exporter
	pdf Exporter
}

func NewExportService(csv, pdf Exporter) *ExportService {
	return &ExportService{csv: csv, pdf: pdf}
}

// Render produces the file bytes for the requested format.
func (s *ExportService) Render(format string, doc export.Document) ([]byte, error) {
	switch format {
	case models.ExportFormatCSV:
		return s.csv.Render(doc)
	case models.ExportFormatPDF:
		return s.pdf.Render(doc)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

// Filename builds the stored name for an export file.
func (s *ExportService) Filename(kind, format string, jobID string) string {
	return fmt.Sprintf("%s/%s.%s", sanitizeSegment(kind), sanitizeSegment(jobID), sanitizeSegment(format))
}

func sanitizeSegment(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(raw)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "export"
	}
	return b.String()
}

// StaffingDocument lays the full report out as export tables.
func (s *ExportService) StaffingDocument(res *planner.Result, branchID, academicYearID int64) export.Document {
	doc := export.Document{
		Title: fmt.Sprintf("Staffing Report - Branch %d / Year %d", branchID, academicYearID),
	}

	doc.Tables = append(doc.Tables, export.Table{
		Title:   "Summary",
		Headers: []string{"Metric", "Value"},
		Rows: []map[string]string{
			{"Metric": "Required Hours", "Value": strconv.Itoa(res.Summary.RequiredHours)},
			{"Metric": "Allocated Hours", "Value": strconv.Itoa(res.Summary.AllocatedHours)},
			{"Metric": "Remaining Hours", "Value": strconv.Itoa(res.Summary.RemainingHours)},
			{"Metric": "Coverage %", "Value": formatPercent(res.Summary.CoveragePercent)},
			{"Metric": "Teachers", "Value": strconv.Itoa(res.Summary.TeacherCount)},
			{"Metric": "Additional Teachers Needed", "Value": strconv.Itoa(res.Summary.AdditionalTeachersNeeded)},
			{"Metric": "Total Teachers Needed", "Value": strconv.Itoa(res.Summary.TotalTeachersNeeded)},
		},
	})

	subjectRows := make([]map[string]string, 0, len(res.Subjects))
	for _, row := range res.Subjects {
		subjectRows = append(subjectRows, map[string]string{
			"Subject":             row.Name,
			"Grades":              strings.Join(row.Grades, ", "),
			"Required":            strconv.Itoa(row.RequiredHours),
			"Allocated":           strconv.Itoa(row.AllocatedHours),
			"Remaining":           strconv.Itoa(row.RemainingHours),
			"Coverage %":          formatPercent(row.CoveragePercent),
			"Teachers":            strconv.Itoa(row.TeacherCount),
			"Additional Teachers": strconv.Itoa(row.AdditionalTeachers),
			"Note":                row.PoolingNote,
		},
		)
	}
	doc.Tables = append(doc.Tables, export.Table{
		Title:   "Subjects",
		Headers: []string{"Subject", "Grades", "Required", "Allocated", "Remaining", "Coverage %", "Teachers", "Additional Teachers", "Note"},
		Rows:    subjectRows,
	})

	teacherRows := make([]map[string]string, 0, len(res.Teachers))
	for _, row := range res.Teachers {
		teacherRows = append(teacherRows, map[string]string{
			"Teacher":            row.Name,
			"Primary Subject":    row.PrimarySubject,
			"Capacity":           strconv.Itoa(row.Capacity),
			"Allocated":          strconv.Itoa(row.AllocatedHours),
			"Remaining Capacity": strconv.Itoa(row.RemainingCapacity),
		})
	}
	doc.Tables = append(doc.Tables, export.Table{
		Title:   "Teachers",
		Headers: []string{"Teacher", "Primary Subject", "Capacity", "Allocated", "Remaining Capacity"},
		Rows:    teacherRows,
	})

	gradeRows := make([]map[string]string, 0, len(res.Grades))
	for _, row := range res.Grades {
		gradeRows = append(gradeRows, map[string]string{
			"Grade":            row.Grade,
			"Sections Current": strconv.Itoa(row.SectionsCurrent),
			"Sections New":     strconv.Itoa(row.SectionsNew),
			"Required Current": strconv.Itoa(row.RequiredCurrent),
			"Required New":     strconv.Itoa(row.RequiredNew),
			"Required Total":   strconv.Itoa(row.RequiredTotal),
		})
	}
	doc.Tables = append(doc.Tables, export.Table{
		Title:   "Grades",
		Headers: []string{"Grade", "Sections Current", "Sections New", "Required Current", "Required New", "Required Total"},
		Rows:    gradeRows,
	})

	return doc
}

// ClassMappingDocument lays the class projection out as export tables.
func (s *ExportService) ClassMappingDocument(res *planner.ClassMappingResult, branchID, academicYearID int64) export.Document {
	doc := export.Document{
		Title: fmt.Sprintf("Class Mapping - Branch %d / Year %d", branchID, academicYearID),
	}

	matrixHeaders := append([]string{"Teacher"}, res.Classes...)
	matrixHeaders = append(matrixHeaders, "Total")
	matrixRows := make([]map[string]string, 0, len(res.Matrix))
	for _, row := range res.Matrix {
		record := map[string]string{
			"Teacher": row.TeacherName,
			"Total":   strconv.Itoa(row.TotalHours),
		}
		for _, class := range res.Classes {
			if hours := row.Hours[class]; hours > 0 {
				record[class] = strconv.Itoa(hours)
			}
		}
		matrixRows = append(matrixRows, record)
	}
	doc.Tables = append(doc.Tables, export.Table{
		Title:   "Teacher / Class Matrix",
		Headers: matrixHeaders,
		Rows:    matrixRows,
	})

	assignmentRows := make([]map[string]string, 0, len(res.Assignments))
	for _, a := range res.Assignments {
		assignmentRows = append(assignmentRows, map[string]string{
			"Teacher":  a.TeacherName,
			"Grade":    a.Grade,
			"Section":  a.Section,
			"Status":   a.ClassStatus,
			"Subject":  a.Subject,
			"Hours":    strconv.Itoa(a.Hours),
			"Coverage": a.CoverageType,
		})
	}
	doc.Tables = append(doc.Tables, export.Table{
		Title:   "Assignments",
		Headers: []string{"Teacher", "Grade", "Section", "Status", "Subject", "Hours", "Coverage"},
		Rows:    assignmentRows,
	})

	unassignedRows := make([]map[string]string, 0, len(res.Unassigned))
	for _, u := range res.Unassigned {
		unassignedRows = append(unassignedRows, map[string]string{
			"Grade":   u.Grade,
			"Section": u.Section,
			"Status":  u.ClassStatus,
			"Subject": u.Subject,
			"Hours":   strconv.Itoa(u.Hours),
		})
	}
	doc.Tables = append(doc.Tables, export.Table{
		Title:   "Unassigned Demand",
		Headers: []string{"Grade", "Section", "Status", "Subject", "Hours"},
		Rows:    unassignedRows,
	})

	return doc
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

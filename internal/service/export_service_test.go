package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadeem-labs/staffing-api/internal/models"
	"github.com/sadeem-labs/staffing-api/internal/planner"
	"github.com/sadeem-labs/staffing-api/pkg/export"
)

func sampleResult() *planner.Result {
	engine := planner.NewEngine(planner.DefaultConfig())
	return engine.Run(planner.Snapshot{
		Subjects: []planner.Subject{
			{Code: "MATH5", Name: "Math", Grade: 5, WeeklyHours: 5},
			{Code: "ENG5", Name: "English", Grade: 5, WeeklyHours: 6},
		},
		Sections: []planner.ClassSection{
			{GradeLevel: "5", SectionName: "A", ClassStatus: "Current"},
			{GradeLevel: "5", SectionName: "B", ClassStatus: "New"},
		},
		Teachers: []planner.Teacher{
			{ID: 1, FirstName: "Amal", LastName: "Hassan"},
		},
		Links: []planner.SubjectLink{
			{TeacherID: 1, SubjectCode: "MATH5"},
		},
	})
}

func TestStaffingDocumentLayout(t *testing.T) {
	svc := NewExportService(export.NewCSVExporter(), export.NewPDFExporter())
	doc := svc.StaffingDocument(sampleResult(), 10, 2026)

	require.Len(t, doc.Tables, 4)
	assert.Equal(t, "Summary", doc.Tables[0].Title)
	assert.Equal(t, "Subjects", doc.Tables[1].Title)
	assert.Equal(t, "Teachers", doc.Tables[2].Title)
	assert.Equal(t, "Grades", doc.Tables[3].Title)
	assert.Len(t, doc.Tables[1].Rows, 2)

	data, err := svc.Render(models.ExportFormatCSV, doc)
	require.NoError(t, err)
	csv := string(data)
	assert.Contains(t, csv, "Required Hours")
	assert.Contains(t, csv, "Math")
	assert.Contains(t, csv, "Amal Hassan")
}

func TestClassMappingDocumentLayout(t *testing.T) {
	engine := planner.NewEngine(planner.DefaultConfig())
	mapping := engine.ClassMapping(planner.Snapshot{
		Subjects: []planner.Subject{
			{Code: "MATH5", Name: "Math", Grade: 5, WeeklyHours: 5},
		},
		Sections: []planner.ClassSection{
			{GradeLevel: "5", SectionName: "A", ClassStatus: "Current"},
		},
		Teachers: []planner.Teacher{
			{ID: 1, FirstName: "Amal"},
		},
		Links: []planner.SubjectLink{
			{TeacherID: 1, SubjectCode: "MATH5"},
		},
	})

	svc := NewExportService(export.NewCSVExporter(), export.NewPDFExporter())
	doc := svc.ClassMappingDocument(mapping, 10, 2026)

	require.Len(t, doc.Tables, 3)
	assert.Equal(t, []string{"Teacher", "5-A", "Total"}, doc.Tables[0].Headers)
	require.Len(t, doc.Tables[0].Rows, 1)
	assert.Equal(t, "5", doc.Tables[0].Rows[0]["5-A"])

	pdf, err := svc.Render(models.ExportFormatPDF, doc)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(pdf), "%PDF"))
}

func TestRenderRejectsUnknownFormat(t *testing.T) {
	svc := NewExportService(export.NewCSVExporter(), export.NewPDFExporter())
	_, err := svc.Render("xlsx", export.Document{Tables: []export.Table{{Headers: []string{"A"}}}})
	require.Error(t, err)
}

func TestFilenameSanitizesSegments(t *testing.T) {
	svc := NewExportService(nil, nil)
	assert.Equal(t, "staffing/job-1.csv", svc.Filename("staffing", "csv", "job-1"))
	assert.Equal(t, "class_mapping/job2.pdf", svc.Filename("Class Mapping", "pdf", "../job2"))
}

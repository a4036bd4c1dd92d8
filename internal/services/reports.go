package services

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/vcabel/safework/internal/filex"
	"github.com/vcabel/safework/internal/model"
	"github.com/vcabel/safework/internal/state"
)

// DepartmentSummary aggregates assessment outcomes for one department.
type DepartmentSummary struct {
	Department string
	Total      int
	OK         int
	NOK        int
	Resolved   int
	Pending    int
}

// Summary is a point-in-time compliance overview of the workspace.
type Summary struct {
	GeneratedAt time.Time
	Assessments int
	Meetings    int
	OpenNOK     []model.Assessment
	Departments []DepartmentSummary
}

// ReportService derives compliance overviews from the application state and
// exports them as CSV files.
type ReportService struct {
	data *state.AppState
	dir  string
}

// NewReportService constructs a ReportService writing exports under dir.
func NewReportService(data *state.AppState, dir string) *ReportService {
	return &ReportService{data: data, dir: dir}
}

// Summary builds the current overview. Departments are sorted by name and
// OpenNOK lists unresolved NOK assessments, newest first (the order the
// state already maintains).
func (r *ReportService) Summary() Summary {
	items := r.data.Assessments()

	byDept := make(map[string]*DepartmentSummary)
	var openNOK []model.Assessment

	for _, item := range items {
		dept := item.Department
		if dept == "" {
			dept = "-"
		}
		ds, ok := byDept[dept]
		if !ok {
			ds = &DepartmentSummary{Department: dept}
			byDept[dept] = ds
		}
		ds.Total++
		switch item.Status {
		case model.StatusNOK:
			ds.NOK++
			openNOK = append(openNOK, item)
		case model.StatusResolved:
			ds.Resolved++
		case model.StatusPendingSignature:
			ds.Pending++
		default:
			ds.OK++
		}
	}

	departments := make([]DepartmentSummary, 0, len(byDept))
	for _, ds := range byDept {
		departments = append(departments, *ds)
	}
	sort.Slice(departments, func(i, j int) bool {
		return departments[i].Department < departments[j].Department
	})

	return Summary{
		GeneratedAt: time.Now(),
		Assessments: len(items),
		Meetings:    len(r.data.Meetings()),
		OpenNOK:     openNOK,
		Departments: departments,
	}
}

// ExportCSV writes every live assessment to a timestamped CSV file in the
// configured reports directory and returns the file's path.
func (r *ReportService) ExportCSV() (string, error) {
	dir, err := filex.EnsureDir(r.dir)
	if err != nil {
		return "", fmt.Errorf("preparing reports directory: %w", err)
	}

	name := fmt.Sprintf("safework_report_%s.csv", time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating report file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"id", "date", "title", "department", "location", "reported_by", "status", "nok_answers", "assigned_to", "resolved_by"}
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("writing report header: %w", err)
	}

	for _, item := range r.data.Assessments() {
		nok := 0
		for _, q := range item.Questions {
			if q.Answer == model.AnswerNOK {
				nok++
			}
		}
		row := []string{
			item.ID,
			item.Date,
			item.Title,
			item.Department,
			item.Location,
			item.UserName,
			string(item.Status),
			strconv.Itoa(nok),
			item.AssignedToName,
			item.ResolvedByName,
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("writing report row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flushing report: %w", err)
	}
	return path, nil
}

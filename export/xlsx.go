// Package export writes ranked search results to spreadsheet files.
package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/poiesic/hirex/core"
	"github.com/poiesic/hirex/search"
	"github.com/xuri/excelize/v2"
)

const (
	SummarySheet    = "Summary"
	CandidatesSheet = "Ranked Candidates"
)

var candidateHeaders = []string{
	"Rank", "ID", "Name", "Email", "Score", "Semantic", "Experience", "CGPA",
	"College", "Extracurricular", "Role Bonus", "Matched Skills", "Reasons", "Snippet", "Source",
}

// WriteXLSX writes resp to a workbook at path and returns the path used.
// ".xlsx" is appended when path has another extension.
func WriteXLSX(resp *search.Response, path string) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("no search response to export")
	}
	if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		path += ".xlsx"
	}
	path = filepath.Clean(path)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return "", err
	}
	if _, err := f.NewSheet(CandidatesSheet); err != nil {
		return "", err
	}

	if err := writeSummary(f, resp); err != nil {
		return "", fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := writeCandidates(f, resp.Items); err != nil {
		return "", fmt.Errorf("failed to create ranked candidates sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}
	return path, nil
}

func writeSummary(f *excelize.File, resp *search.Response) error {
	sheet := SummarySheet
	f.SetColWidth(sheet, "A", "A", 25)
	f.SetColWidth(sheet, "B", "B", 70)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	labelStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	row := 1
	f.SetCellValue(sheet, "A1", "Candidate Search Report")
	f.SetCellStyle(sheet, "A1", "B1", headerStyle)
	f.MergeCell(sheet, "A1", "B1")
	row += 2

	rows := [][2]any{
		{"Query:", resp.Query},
		{"Query ID:", resp.QueryID},
		{"Profile:", resp.Profile},
		{"Semantic retrieval:", yesNo(resp.Semantic)},
		{"Generated:", time.Now().Format("2006-01-02 15:04:05")},
		{"Candidates returned:", resp.Total},
	}
	for _, r := range rows {
		label := fmt.Sprintf("A%d", row)
		f.SetCellValue(sheet, label, r[0])
		f.SetCellStyle(sheet, label, label, labelStyle)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), r[1])
		row++
	}
	row++

	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Filters:")
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), headerStyle)
	f.MergeCell(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row))
	row++

	for _, kv := range filterRows(resp.Filters) {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), kv[0])
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), kv[1])
		row++
	}

	if len(resp.Items) > 0 {
		row++
		var sum float64
		for _, it := range resp.Items {
			sum += it.Score
		}
		label := fmt.Sprintf("A%d", row)
		f.SetCellValue(sheet, label, "Average Score:")
		f.SetCellStyle(sheet, label, label, labelStyle)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), fmt.Sprintf("%.4f", sum/float64(len(resp.Items))))
	}
	return nil
}

// filterRows lists only the constraints the query set.
func filterRows(fl core.StructuredFilters) [][2]string {
	var out [][2]string
	add := func(k, v string) { out = append(out, [2]string{k, v}) }

	if fl.MinExperience > 0 {
		add("Min experience (years)", fmt.Sprintf("%g", fl.MinExperience))
	}
	if len(fl.MustHaveSkills) > 0 {
		add("Must-have skills", strings.Join(fl.MustHaveSkills, ", "))
	}
	if len(fl.EducationAnyOf) > 0 {
		add("Education (any of)", strings.Join(fl.EducationAnyOf, ", "))
	}
	if len(fl.RolesAnyOf) > 0 {
		add("Roles (any of)", strings.Join(fl.RolesAnyOf, ", "))
	}
	if fl.Location != nil {
		add("Location", *fl.Location)
	}
	if fl.MinProjects > 0 {
		add("Min projects", fmt.Sprint(fl.MinProjects))
	}
	if fl.MinGPA != nil {
		add("Min CGPA", fmt.Sprintf("%g", *fl.MinGPA))
	}
	if fl.MinHackathonWins > 0 {
		add("Min hackathon wins", fmt.Sprint(fl.MinHackathonWins))
	}
	if fl.RequireExtracurricular {
		add("Extracurriculars", "required")
	}
	if fl.RequireResponsibility {
		add("Positions of responsibility", "required")
	}
	if fl.ContainsPhrase != nil {
		add("Phrase", *fl.ContainsPhrase)
	}
	if len(out) == 0 {
		add("(none)", "")
	}
	return out
}

func writeCandidates(f *excelize.File, items []search.Item) error {
	sheet := CandidatesSheet
	widths := []float64{6, 8, 24, 28, 9, 9, 10, 9, 9, 14, 10, 30, 60, 60, 30}
	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		f.SetColWidth(sheet, col, col, w)
	}

	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return err
	}

	bands := []struct {
		min   float64
		color string
	}{
		{0.75, "C6EFCE"},
		{0.5, "FFEB9C"},
		{0.25, "FFC7CE"},
		{0, "FF9999"},
	}
	bandStyles := make([]int, len(bands))
	for i, b := range bands {
		bandStyles[i], err = f.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Color: []string{b.color}, Pattern: 1},
			Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
			Border:    border,
		})
		if err != nil {
			return err
		}
	}

	for col, h := range candidateHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	last, _ := excelize.ColumnNumberToName(len(candidateHeaders))
	for i, it := range items {
		row := i + 2
		values := []any{
			i + 1,
			uint64(it.ID),
			it.Name,
			it.Email,
			it.Score,
			it.Parts.Semantic,
			it.Parts.Experience,
			it.Parts.GPA,
			it.Parts.Institution,
			it.Parts.Extracurricular,
			it.RoleBonus,
			strings.Join(it.MatchedSkills, ", "),
			strings.Join(it.Reasons, "\n"),
			it.Snippet,
			it.Source,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}

		style := bandStyles[len(bandStyles)-1]
		for j, b := range bands {
			if it.Score >= b.min {
				style = bandStyles[j]
				break
			}
		}
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", last, row), style)
	}

	if len(items) > 0 {
		f.AutoFilter(sheet, fmt.Sprintf("A1:%s%d", last, len(items)+1), []excelize.AutoFilterOptions{})
	}

	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no (skill overlap proxy)"
}

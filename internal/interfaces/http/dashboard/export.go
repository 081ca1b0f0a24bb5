package dashboard

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/SUMMERxKx/Review/internal/domain"
	"github.com/SUMMERxKx/Review/internal/interfaces/http/common"
)

const (
	exportSheetName   = "Reviews"
	exportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var exportHeader = []string{
	"Review ID",
	"Submitted At",
	"Customer Name",
	"Customer Email",
	"Overall Rating",
	"Processed",
	"Sentiment Score",
	"Key Topics",
	"Summary",
	"Suggestions",
	"Answers",
}

var exportColumnWidths = []float64{26, 20, 20, 28, 14, 12, 16, 30, 50, 50, 80}

func (h *Handler) exportHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.currentUser(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*common.RequestTimeout)
		defer cancel()

		reviews, err := h.reviewQueries.List(ctx, user.BusinessID)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		data, err := BuildReviewWorkbook(reviews, h.location)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		filename := fmt.Sprintf("reviews-%s.xlsx", time.Now().In(h.location).Format("20060102"))
		w.Header().Set("Content-Type", exportContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(data); err != nil {
			h.logger.Warn("write export response failed", zap.Error(err))
		}
	}
}

// BuildReviewWorkbook はレビュー一覧を 1 シートの xlsx にまとめる。行の順序は引数のまま。
func BuildReviewWorkbook(reviews []domain.Review, loc *time.Location) ([]byte, error) {
	if loc == nil {
		loc = time.UTC
	}
	f := excelize.NewFile()
	// WriteTo の前に閉じないこと
	fail := func(err error) ([]byte, error) {
		f.Close()
		return nil, err
	}

	index, err := f.NewSheet(exportSheetName)
	if err != nil {
		return fail(fmt.Errorf("create sheet: %w", err))
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fail(fmt.Errorf("delete default sheet: %w", err))
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fail(fmt.Errorf("create header style: %w", err))
	}
	wrapStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
	})
	if err != nil {
		return fail(fmt.Errorf("create body style: %w", err))
	}

	for col, header := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fail(err)
		}
		if err := f.SetCellValue(exportSheetName, cell, header); err != nil {
			return fail(fmt.Errorf("set header cell %s: %w", cell, err))
		}
		if err := f.SetCellStyle(exportSheetName, cell, cell, headerStyle); err != nil {
			return fail(fmt.Errorf("set header style: %w", err))
		}
	}

	for i, width := range exportColumnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fail(err)
		}
		if err := f.SetColWidth(exportSheetName, col, col, width); err != nil {
			return fail(fmt.Errorf("set column width: %w", err))
		}
	}

	for i, review := range reviews {
		row := i + 2
		for col, value := range reviewRow(review, loc) {
			if value == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return fail(err)
			}
			if err := f.SetCellValue(exportSheetName, cell, value); err != nil {
				return fail(fmt.Errorf("set cell %s: %w", cell, err))
			}
		}
	}
	if len(reviews) > 0 {
		first, _ := excelize.CoordinatesToCellName(1, 2)
		last, _ := excelize.CoordinatesToCellName(len(exportHeader), len(reviews)+1)
		if err := f.SetCellStyle(exportSheetName, first, last, wrapStyle); err != nil {
			return fail(fmt.Errorf("set body style: %w", err))
		}
	}

	if err := f.SetPanes(exportSheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fail(fmt.Errorf("freeze panes: %w", err))
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return fail(fmt.Errorf("write workbook: %w", err))
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// reviewRow returns cell values in exportHeader order; nil leaves the cell blank.
func reviewRow(r domain.Review, loc *time.Location) []any {
	row := make([]any, len(exportHeader))
	row[0] = r.ID
	row[1] = r.CreatedAt.In(loc).Format("2006-01-02 15:04")
	row[2] = r.CustomerName
	row[3] = r.CustomerEmail
	if r.OverallRating != nil {
		row[4] = *r.OverallRating
	}
	if r.Processed {
		row[5] = "Yes"
	} else {
		row[5] = "No"
	}
	if a := r.Analysis; a != nil {
		row[6] = a.SentimentScore
		row[7] = strings.Join(a.KeyTopics, ", ")
		row[8] = a.Summary
		row[9] = a.Suggestions
	}
	row[10] = formatAnswers(r.Answers)
	return row
}

func formatAnswers(answers []domain.Answer) string {
	lines := make([]string, 0, len(answers))
	for _, a := range answers {
		line := a.QuestionText + ": " + a.AnswerText
		if a.AnswerRating != nil && *a.AnswerRating != 0 {
			line += fmt.Sprintf(" (%s/5)", strconv.FormatFloat(*a.AnswerRating, 'f', -1, 64))
		}
		lines = append(lines, strings.TrimSpace(line))
	}
	return strings.Join(lines, "\n")
}

package report

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"line-tracker/internal/service/target"
	"line-tracker/internal/storage"
)

// NoReasonText подпись для недовыполнения без выбранной причины.
const NoReasonText = "(No reason selected)"

const (
	breakdownTop     = 10
	recurringMinimum = 3
)

type ReasonRow struct {
	storage.DeficitByReason
	Rank      int                    `json:"rank"`
	Pct       float64                `json:"pct"`
	CumPct    float64                `json:"cum_pct"`
	Recurring bool                   `json:"recurring"`
	Breakdown []storage.DeficitEntry `json:"breakdown,omitempty"`
}

type DeficitReport struct {
	Filter       storage.ReportFilter   `json:"filter"`
	Reasons      []ReasonRow            `json:"reasons"`
	TotalDeficit int                    `json:"total_deficit"`
	OtherTexts   []storage.DeficitOther `json:"other_texts"`
}

// Deficit парето причин недовыполнения. Недовыполнение слота = floor(план) - факт,
// берутся только слоты с фактом ниже плана.
func (s *Service) Deficit(ctx context.Context, f storage.ReportFilter) (*DeficitReport, error) {
	const op = "service.report.Deficit"

	if f.To.Before(f.From) {
		return nil, fmt.Errorf("%s: конец периода раньше начала: %w", op, storage.ErrInvalidInput)
	}

	rows, err := s.store.DeficitByReason(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: причины: %w", op, err)
	}

	slices.SortStableFunc(rows, func(a, b storage.DeficitByReason) int {
		return cmp.Compare(b.TotalDeficit, a.TotalDeficit)
	})

	rep := &DeficitReport{Filter: f, Reasons: make([]ReasonRow, 0, len(rows))}
	for _, r := range rows {
		rep.TotalDeficit += r.TotalDeficit
	}

	var cum float64
	for i, r := range rows {
		if r.ReasonID == nil {
			r.ReasonText = NoReasonText
		}
		row := ReasonRow{
			DeficitByReason: r,
			Rank:            i + 1,
			Pct:             percent(float64(r.TotalDeficit), float64(rep.TotalDeficit)),
			Recurring:       r.Occurrences >= recurringMinimum,
		}
		cum += row.Pct
		row.CumPct = target.Round1(cum)

		if i < breakdownTop {
			row.Breakdown, err = s.store.DeficitEntries(ctx, f, r.ReasonID)
			if err != nil {
				return nil, fmt.Errorf("%s: разбивка причины %q: %w", op, r.ReasonText, err)
			}
		}

		rep.Reasons = append(rep.Reasons, row)
	}

	rep.OtherTexts, err = s.store.DeficitOtherTexts(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: прочие причины: %w", op, err)
	}

	return rep, nil
}

type CategoryRow struct {
	storage.DowntimeByCategory
	AvgDuration float64 `json:"avg_duration"`
	Pct         float64 `json:"pct"`
}

type DowntimeReport struct {
	Filter       storage.ReportFilter    `json:"filter"`
	Categories   []CategoryRow           `json:"categories"`
	TotalMinutes float64                 `json:"total_minutes"`
	TotalEvents  int                     `json:"total_events"`
	Events       []storage.DowntimeEvent `json:"events"`
}

// Downtime простои по категориям и журнал событий за период.
func (s *Service) Downtime(ctx context.Context, f storage.ReportFilter, sort storage.DowntimeSort, asc bool) (*DowntimeReport, error) {
	const op = "service.report.Downtime"

	if f.To.Before(f.From) {
		return nil, fmt.Errorf("%s: конец периода раньше начала: %w", op, storage.ErrInvalidInput)
	}
	if !sort.Valid() {
		sort = storage.SortByDate
	}

	cats, err := s.store.DowntimeByCategory(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: категории: %w", op, err)
	}

	slices.SortStableFunc(cats, func(a, b storage.DowntimeByCategory) int {
		return cmp.Compare(b.TotalMinutes, a.TotalMinutes)
	})

	rep := &DowntimeReport{Filter: f, Categories: make([]CategoryRow, 0, len(cats))}
	for _, c := range cats {
		rep.TotalMinutes += c.TotalMinutes
		rep.TotalEvents += c.EventCount
	}
	rep.TotalMinutes = target.Round2(rep.TotalMinutes)

	for _, c := range cats {
		row := CategoryRow{DowntimeByCategory: c, Pct: percent(c.TotalMinutes, rep.TotalMinutes)}
		if c.EventCount > 0 {
			row.AvgDuration = target.Round1(c.TotalMinutes / float64(c.EventCount))
		}
		rep.Categories = append(rep.Categories, row)
	}

	rep.Events, err = s.store.DowntimeLog(ctx, f, sort, asc)
	if err != nil {
		return nil, fmt.Errorf("%s: журнал: %w", op, err)
	}

	return rep, nil
}

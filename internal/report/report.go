// Package report renders matching results and statistics as styled terminal
// tables. All numeric formatting lives here: the engine and stats layers
// hand over structured values only.
package report

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"lotview/internal/domain"
	"lotview/internal/services/matcher"
	"lotview/internal/services/stats"
)

const (
	displayPlaces = 4
	dateLayout    = "2006-01-02 15:04:05"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			MarginTop(1)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#909090", Dark: "#626262"})

	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// Renderer writes the run report to an output stream.
type Renderer struct {
	out io.Writer
}

// New creates a renderer writing to out.
func New(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

func (r *Renderer) section(title string) {
	fmt.Fprintln(r.out, titleStyle.Render(title))
}

func (r *Renderer) note(text string) {
	fmt.Fprintln(r.out, dimStyle.Render(text))
}

func (r *Renderer) table(headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dimStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)
	fmt.Fprintln(r.out, t.Render())
}

// OpenPositions renders the per-asset open exposure summary followed by the
// individual open lots.
func (r *Renderer) OpenPositions(book matcher.PositionBook) {
	r.section("Open Positions")
	summaries := book.Summary()
	if len(summaries) == 0 {
		r.note("No open positions.")
		return
	}

	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.Base,
			s.MeanPrice.StringFixed(displayPlaces),
			s.Amount.StringFixed(displayPlaces),
			s.Notional.StringFixed(displayPlaces),
		})
	}
	r.table([]string{"Base", "Mean Price", "Total Amount", "Notional"}, rows)

	lots := book.Lots()
	rows = rows[:0]
	for _, lot := range lots {
		rows = append(rows, []string{
			lot.Base,
			lot.Price.StringFixed(displayPlaces),
			lot.Amount.StringFixed(displayPlaces),
			lot.Time.Format(dateLayout),
		})
	}
	r.table([]string{"Base", "Open Price", "Amount", "Open Date"}, rows)
}

// ClosedPositions renders every closed lot with its derived percentage return.
func (r *Renderer) ClosedPositions(closed []domain.ClosedLot) {
	r.section("Closed Positions")
	if len(closed) == 0 {
		r.note("No closed positions yet.")
		return
	}

	rows := make([][]string, 0, len(closed))
	for _, lot := range closed {
		source := ""
		if lot.Manual {
			source = "manual"
		}
		rows = append(rows, []string{
			lot.Base,
			lot.OpenPrice.StringFixed(displayPlaces),
			lot.ClosePrice.StringFixed(displayPlaces),
			lot.Amount.StringFixed(displayPlaces),
			lot.OpenTime.Format(dateLayout),
			lot.CloseTime.Format(dateLayout),
			lot.Profit.StringFixed(displayPlaces),
			percentCell(lot),
			source,
		})
	}
	r.table([]string{"Base", "Open Price", "Close Price", "Amount", "Open Date", "Close Date", "PnL", "PnL %", ""}, rows)
}

// Orphans renders sells that still lack cost basis data.
func (r *Renderer) Orphans(orphans []domain.OrphanSell) {
	if len(orphans) == 0 {
		return
	}
	r.section("Unresolved Sells")
	r.note("The following sells have no matching buy; their profit is not counted.")

	rows := make([][]string, 0, len(orphans))
	for _, orphan := range orphans {
		rows = append(rows, []string{
			orphan.Base,
			orphan.Price.StringFixed(displayPlaces),
			orphan.Amount.StringFixed(displayPlaces),
			orphan.Time.Format(dateLayout),
		})
	}
	r.table([]string{"Base", "Sell Price", "Amount", "Sell Date"}, rows)
}

// Summary renders the aggregate statistics block.
func (r *Renderer) Summary(summary stats.Summary) {
	r.section("Statistics")
	if summary.Empty() {
		r.note("No statistics available.")
		return
	}

	meanPercent := "n/a"
	if summary.MeanPercentOK {
		meanPercent = summary.MeanPercent.StringFixed(displayPlaces) + "%"
	}
	rows := [][]string{
		{"Total Closed Trades", strconv.Itoa(summary.TotalClosed)},
		{"Total PnL", summary.TotalProfit.StringFixed(displayPlaces)},
		{"Winning Trades", strconv.Itoa(summary.Winning)},
		{"Losing Trades", strconv.Itoa(summary.Losing)},
		{"Win Rate", summary.WinRate.StringFixed(2) + "%"},
		{"Average PnL", summary.MeanProfit.StringFixed(displayPlaces)},
		{"Average PnL %", meanPercent},
	}
	r.table([]string{"Metric", "Value"}, rows)

	months := summary.Months()
	monthRows := make([][]string, 0, len(months))
	for _, month := range months {
		monthRows = append(monthRows, []string{month, strconv.Itoa(summary.MonthlyCounts[month])})
	}
	r.section("Operations per Month")
	r.table([]string{"Month", "Trades"}, monthRows)
}

// BucketTable renders the sum/mean/stddev profit aggregation for the chosen
// granularity and value column.
func (r *Renderer) BucketTable(buckets []stats.Bucket, period stats.Period, column stats.ValueColumn) {
	r.section(fmt.Sprintf("%s profit per %s", column, period))
	if len(buckets) == 0 {
		r.note("No closed positions to aggregate.")
		return
	}

	rows := make([][]string, 0, len(buckets))
	for _, bucket := range buckets {
		mean := "n/a"
		if bucket.MeanOK {
			mean = bucket.Mean.StringFixed(displayPlaces)
		}
		rows = append(rows, []string{
			bucket.Key,
			strconv.Itoa(bucket.Count),
			bucket.Sum.StringFixed(displayPlaces),
			mean,
			stdDevCell(bucket.StdDev),
		})
	}
	r.table([]string{"Period", "Trades", "Sum", "Mean", "Std Dev"}, rows)
}

// MonthlyPercent renders the cost-basis-weighted monthly returns.
func (r *Renderer) MonthlyPercent(monthly []stats.MonthlyPercent) {
	if len(monthly) == 0 {
		return
	}
	r.section("Monthly Percentage Profit (weighted)")
	rows := make([][]string, 0, len(monthly))
	for _, m := range monthly {
		rows = append(rows, []string{m.Month, m.Percent.StringFixed(2) + "%"})
	}
	r.table([]string{"Month", "Profit %"}, rows)
}

// Totals renders the closing line of the report.
func (r *Renderer) Totals(summary stats.Summary) {
	if summary.Empty() {
		return
	}
	fmt.Fprintln(r.out, titleStyle.Render(fmt.Sprintf("Total Profit: %s", summary.TotalProfit.StringFixed(2))))
}

func percentCell(lot domain.ClosedLot) string {
	pct, ok := lot.PercentReturn()
	if !ok {
		return "n/a"
	}
	return pct.StringFixed(2) + "%"
}

func stdDevCell(stdDev float64) string {
	if math.IsNaN(stdDev) {
		return "n/a"
	}
	return decimal.NewFromFloat(stdDev).StringFixed(displayPlaces)
}

// Package report derives the admin dashboard from the order log. Every
// function is pure: callers pass the log and the clock.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MikeMC777/ordenes-mesa/internal/order"
)

// Summary holds the dashboard counters. TodaySales carries two decimals,
// like Row.Total.
// swagger:model Summary
type Summary struct {
	TodayOrders int    `json:"todayOrders"`
	TodaySales  string `json:"todaySales"`
	TotalOrders int    `json:"totalOrders"`
}

// Point is one day of the sales chart.
type Point struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

// Chart is the series split the way a bar chart consumes it.
type Chart struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
}

// Row is one line of the orders table.
type Row struct {
	ID      string   `json:"id"`
	Time    string   `json:"time"`
	Table   string   `json:"table"`
	Items   []string `json:"items"`
	Request string   `json:"request"`
	Total   string   `json:"total"`
	Date    string   `json:"date"`
}

// Dashboard is everything the admin page renders, rebuilt whole on each call.
// swagger:model Dashboard
type Dashboard struct {
	Summary Summary `json:"summary"`
	Sales   []Point `json:"sales"`
	Chart   Chart   `json:"chart"`
	Orders  []Row   `json:"orders"`
}

// DailySummary counts orders dated today and sums their totals.
func DailySummary(orders []order.Order, today string) Summary {
	s := Summary{TotalOrders: len(orders)}
	sales := decimal.Zero
	for _, o := range orders {
		if o.Date == today {
			s.TodayOrders++
			sales = sales.Add(o.Total)
		}
	}
	s.TodaySales = sales.StringFixed(2)
	return s
}

// SalesSeries sums totals per date, ascending. Days without orders are absent
// and orders without a date are skipped.
func SalesSeries(orders []order.Order) []Point {
	byDate := make(map[string]decimal.Decimal)
	for _, o := range orders {
		if o.Date == "" {
			continue
		}
		byDate[o.Date] = byDate[o.Date].Add(o.Total)
	}

	labels := make([]string, 0, len(byDate))
	for d := range byDate {
		labels = append(labels, d)
	}
	sort.Strings(labels)

	out := make([]Point, 0, len(labels))
	for _, d := range labels {
		out = append(out, Point{Label: d, Value: byDate[d]})
	}
	return out
}

func ChartData(points []Point) Chart {
	c := Chart{Labels: make([]string, 0, len(points)), Data: make([]float64, 0, len(points))}
	for _, p := range points {
		c.Labels = append(c.Labels, p.Label)
		c.Data = append(c.Data, p.Value.InexactFloat64())
	}
	return c
}

// Rows renders the orders table newest first with times in loc.
func Rows(orders []order.Order, loc *time.Location) []Row {
	if loc == nil {
		loc = time.Local
	}
	sorted := make([]order.Order, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	rows := make([]Row, 0, len(sorted))
	for _, o := range sorted {
		r := Row{
			ID:      o.ID,
			Time:    "-",
			Table:   o.Table,
			Items:   make([]string, 0, len(o.Items)),
			Request: strings.TrimSpace(o.Request),
			Total:   o.Total.StringFixed(2),
			Date:    o.Date,
		}
		if !o.CreatedAt.IsZero() {
			r.Time = o.CreatedAt.In(loc).Format("15:04")
		}
		if r.Request == "" {
			r.Request = "-"
		}
		for _, it := range o.Items {
			r.Items = append(r.Items, fmt.Sprintf("%s × %d", it.Name, it.Quantity))
		}
		rows = append(rows, r)
	}
	return rows
}

// Build assembles the dashboard for the given day.
func Build(orders []order.Order, today string, loc *time.Location) Dashboard {
	sales := SalesSeries(orders)
	return Dashboard{
		Summary: DailySummary(orders, today),
		Sales:   sales,
		Chart:   ChartData(sales),
		Orders:  Rows(orders, loc),
	}
}

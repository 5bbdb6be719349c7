package calc

// CommonSize restates the annual P&L as shares of revenue. Channel columns
// are divided by that channel's revenue; lines without a channel split stay
// nil there. A zero revenue yields zero shares.
func CommonSize(summary []SummaryRow) []SummaryRow {
	var revenue SummaryRow
	for _, r := range summary {
		if r.Label == LineRevenue {
			revenue = r
			break
		}
	}

	out := make([]SummaryRow, 0, len(summary))
	for _, r := range summary {
		if r.Label == LineBookings {
			continue
		}
		row := SummaryRow{Label: r.Label, Total: safeDiv(r.Total, revenue.Total)}
		if r.Online != nil && revenue.Online != nil {
			row.Online = ptr(safeDiv(*r.Online, *revenue.Online))
		}
		if r.Offline != nil && revenue.Offline != nil {
			row.Offline = ptr(safeDiv(*r.Offline, *revenue.Offline))
		}
		out = append(out, row)
	}
	return out
}

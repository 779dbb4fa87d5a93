// Package report renders a group's contributions as a plain-text update for
// messaging channels and as a CSV export.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/digitaltreasurer/treasurer-api/internal/domain"
	"github.com/dustin/go-humanize"
)

const (
	headerDateLayout = "02-Jan-2006"
	csvDateLayout    = "2006-01-02 15:04:05.000000"
	defaultCurrency  = "KES"
	linkPlaceholder  = "[Link]"
)

// CSVHeader is the column order of the contributions export
var CSVHeader = []string{"member_name", "amount", "payment_mode", "transaction_code", "event_type", "date_added"}

// Input is everything the text update needs
type Input struct {
	Group         string
	Event         domain.EventType
	Date          time.Time
	Contributions []domain.Contribution
	// FirewoodMembers are listed in the given order
	FirewoodMembers []string
	// Link is the member verification link, a placeholder is printed when empty
	Link     string
	Currency string
}

// FormatAmount prints a whole-unit amount with thousands separators
func FormatAmount(v float64) string {
	return humanize.Comma(int64(math.RoundToEven(v)))
}

// Build renders the update text
func Build(in Input) string {
	currency := in.Currency
	if currency == "" {
		currency = defaultCurrency
	}
	link := in.Link
	if link == "" {
		link = linkPlaceholder
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📢 *UPDATE: %s*\n", strings.ToUpper(in.Group))
	fmt.Fprintf(&b, "📅 %s | Event: %s\n\n", in.Date.Format(headerDateLayout), in.Event)
	b.WriteString("*--- 💰 CONTRIBUTIONS ---*\n")

	var total float64
	for i, c := range in.Contributions {
		fmt.Fprintf(&b, "%d. %s : %s\n", i+1, c.MemberName, FormatAmount(c.Amount))
		total += c.Amount
	}

	if members := uniqueInOrder(in.FirewoodMembers); len(members) > 0 {
		b.WriteString("\n*--- 🪵 FIREWOOD ---*\n")
		for _, m := range members {
			fmt.Fprintf(&b, "✅ %s\n", m)
		}
	}

	fmt.Fprintf(&b, "\n💰 *TOTAL: %s %s*\n", currency, FormatAmount(total))
	b.WriteString("------------------\n")
	fmt.Fprintf(&b, "Verify here: %s", link)
	return b.String()
}

func uniqueInOrder(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// FormatCSVAmount prints amounts the way a REAL column is exported, always
// with a fractional part
func FormatCSVAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// WriteCSV writes the contributions export with a header row
func WriteCSV(w io.Writer, contributions []domain.Contribution) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, c := range contributions {
		date := ""
		if !c.DateAdded.IsZero() {
			date = c.DateAdded.Format(csvDateLayout)
		}
		record := []string{
			c.MemberName,
			FormatCSVAmount(c.Amount),
			string(c.PaymentMode),
			c.TransactionCode,
			string(c.EventType),
			date,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %d: %w", c.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSVFilename is the download name of a group's export
func CSVFilename(group string) string {
	return group + "_data.csv"
}

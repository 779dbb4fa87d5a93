// Package mpesa extracts contribution details from M-Pesa confirmation
// messages and exported transaction statements.
package mpesa

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

var (
	codePattern   = regexp.MustCompile(`^([A-Z0-9]{10})\s`)
	amountPattern = regexp.MustCompile(`Ksh([\d,]+\.\d{2})`)
	namePattern   = regexp.MustCompile(`from\s(.*?)\s\d{10}`)
)

// ErrNothingRecognized is returned when a message contains none of the known fields
var ErrNothingRecognized = errors.New("no M-Pesa details found in message")

// SMS holds the fields recognized in a confirmation message. Missing fields
// are left empty.
type SMS struct {
	Code       string
	Amount     float64
	FirstName  string
	SecondName string
}

// MemberName joins the payer's first and second name
func (s SMS) MemberName() string {
	return strings.TrimSpace(s.FirstName + " " + s.SecondName)
}

// ParseSMS reads the transaction code, amount and payer name from a pasted
// M-Pesa confirmation such as
// "SGH12345XY Confirmed. Ksh1,500.00 received from JANE DOE 0712345678 on ..."
func ParseSMS(text string) (SMS, error) {
	var sms SMS

	if m := codePattern.FindStringSubmatch(text); m != nil {
		sms.Code = m[1]
	}
	if m := amountPattern.FindStringSubmatch(text); m != nil {
		amount, err := parseAmount(m[1])
		if err == nil {
			sms.Amount = amount
		}
	}
	if m := namePattern.FindStringSubmatch(text); m != nil {
		parts := strings.Split(strings.TrimSpace(m[1]), " ")
		sms.FirstName = parts[0]
		if len(parts) > 1 {
			sms.SecondName = strings.Join(parts[1:], " ")
		}
	}

	if sms.Code == "" && sms.Amount == 0 && sms.FirstName == "" {
		return sms, ErrNothingRecognized
	}
	return sms, nil
}

// StatementRow is one importable payment from a statement export
type StatementRow struct {
	Code       string
	MemberName string
	Amount     float64
}

// ParseStatement reads a CSV statement export. The first row is a header.
// Columns are receipt code, amount (fallback), details and, at index 4, the
// paid-in amount. Rows with fewer than three columns or without a positive
// amount are skipped and counted.
func ParseStatement(r io.Reader) ([]StatementRow, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows []StatementRow
	skipped := 0
	for line := 0; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read statement line %d: %w", line+1, err)
		}
		if line == 0 {
			continue
		}
		if len(record) < 3 {
			skipped++
			continue
		}

		code := record[0]
		details := firstNonEmpty(record[2], record[0])
		rawAmount := record[1]
		if len(record) > 4 && record[4] != "" {
			rawAmount = record[4]
		}

		amount, err := parseAmount(rawAmount)
		if err != nil || amount <= 0 {
			skipped++
			continue
		}

		rows = append(rows, StatementRow{
			Code:       code,
			MemberName: memberFromDetails(details),
			Amount:     amount,
		})
	}
	return rows, skipped, nil
}

// memberFromDetails keeps the first two words of the details column
func memberFromDetails(details string) string {
	parts := strings.Split(details, " ")
	first := parts[0]
	if first == "" {
		first = "Unknown"
	}
	if len(parts) > 1 && parts[1] != "" {
		return first + " " + parts[1]
	}
	return first
}

func parseAmount(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(s, ",", "")), 64)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

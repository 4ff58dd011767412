package services

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/stylequest-labs/paymate-cli/internal/core/domain"
)

// Balance extraction scans the textual content of a wallet query response
// with an ordered rule list; the first matching rule wins. The provider
// gives no guarantee about response shape, so the rules go from the most
// structured (a labelled total) to the loosest (any bare number).
//
// amountPattern matches a decimal with optional thousands separators.
const amountPattern = `([0-9][0-9,]*(?:\.[0-9]+)?)`

var (
	// "Total ... Balance" followed by an amount on the same line,
	// tolerating markdown emphasis markers and a currency symbol.
	reTotalBalance = regexp.MustCompile(`(?i)total[^\n]*?balance[\s*_:]*\$?\s*` + amountPattern)

	// "Spendable ... Balance" with the same amount pattern.
	reSpendableBalance = regexp.MustCompile(`(?i)spendable[^\n]*?balance[\s*_:]*\$?\s*` + amountPattern)

	// A table-style cell holding a bare currency amount: | $12.34 |
	reTableCell = regexp.MustCompile(`\|\s*\$\s*` + amountPattern + `\s*\|`)

	// Currency-code-tagged amounts: "TSD 100" and "100 TSD".
	reCurrencyPrefix = regexp.MustCompile(`(?i)\bTSD\s*\$?\s*` + amountPattern)
	reCurrencySuffix = regexp.MustCompile(`(?i)\$?\s*` + amountPattern + `\s*TSD\b`)

	// Any bare decimal, the last-resort rule.
	reBareNumber = regexp.MustCompile(`[0-9][0-9,]*(?:\.[0-9]+)?`)
)

// ExtractBalance parses a wallet query response into a balance view.
//
// It never fails: any response that yields no numeric value degrades to
// BalanceUnparseable, which the UI renders as "balance unavailable" without
// affecting the connected state. A parsed zero is a known balance.
func ExtractBalance(resp *domain.WalletQueryResponse) domain.BalanceView {
	if resp == nil {
		return domain.BalanceView{State: domain.BalanceUnparseable}
	}
	return ExtractBalanceText(resp.Text())
}

// ExtractBalanceText applies the extraction rules to raw text.
func ExtractBalanceText(text string) domain.BalanceView {
	if m := reTotalBalance.FindStringSubmatch(text); m != nil {
		if amount, ok := parseAmount(m[1]); ok {
			return domain.KnownAmount(amount)
		}
	}

	if m := reSpendableBalance.FindStringSubmatch(text); m != nil {
		if amount, ok := parseAmount(m[1]); ok {
			return domain.KnownAmount(amount)
		}
	}

	if m := reTableCell.FindStringSubmatch(text); m != nil {
		if amount, ok := parseAmount(m[1]); ok {
			return domain.KnownAmount(amount)
		}
	}

	// Tagged amounts are summed across all occurrences: a multi-wallet
	// response lists one balance per wallet and the aggregate is wanted.
	if total, found := sumTaggedAmounts(text); found {
		return domain.KnownAmount(total)
	}

	if m := reBareNumber.FindString(text); m != "" {
		if amount, ok := parseAmount(m); ok {
			return domain.KnownAmount(amount)
		}
	}

	return domain.BalanceView{State: domain.BalanceUnparseable}
}

// sumTaggedAmounts sums every TSD-tagged amount in the text. Amounts whose
// digits were already consumed by a prefix match are not counted twice by
// the suffix pattern.
func sumTaggedAmounts(text string) (float64, bool) {
	var total float64
	found := false
	claimed := make([][2]int, 0, 4)

	for _, idx := range reCurrencyPrefix.FindAllStringSubmatchIndex(text, -1) {
		if amount, ok := parseAmount(text[idx[2]:idx[3]]); ok {
			total += amount
			found = true
			claimed = append(claimed, [2]int{idx[2], idx[3]})
		}
	}

	for _, idx := range reCurrencySuffix.FindAllStringSubmatchIndex(text, -1) {
		if overlapsAny(claimed, idx[2], idx[3]) {
			continue
		}
		if amount, ok := parseAmount(text[idx[2]:idx[3]]); ok {
			total += amount
			found = true
		}
	}

	return total, found
}

func overlapsAny(ranges [][2]int, start, end int) bool {
	for _, r := range ranges {
		if start < r[1] && end > r[0] {
			return true
		}
	}
	return false
}

// parseAmount converts a matched amount, stripping thousands separators.
func parseAmount(s string) (float64, bool) {
	cleaned := strings.ReplaceAll(s, ",", "")
	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}

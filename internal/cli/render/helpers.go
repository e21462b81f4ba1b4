package render

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/params"
	"github.com/fatih/color"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return color.New(color.FgYellow).Sprintf("⚠️  %s", lastSegment(message))
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	msg := lastSegment(message)

	// Capitalize first letter
	if len(msg) > 0 {
		msg = strings.ToUpper(msg[:1]) + msg[1:]
	}

	return color.New(color.FgRed).Sprintf("❌ %s", msg)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return color.New(color.FgGreen).Sprintf("✅ %s", message)
}

// FormatEther renders a wei amount as ETH with up to 6 decimals
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0 ETH"
	}
	eth := new(big.Float).Quo(new(big.Float).SetInt(wei), new(big.Float).SetInt64(params.Ether))
	s := eth.Text('f', 6)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	return s + " ETH"
}

// Title capitalizes every word of s
func Title(s string) string {
	return titleCaser.String(s)
}

// lastSegment extracts the message after the last colon of an error chain
func lastSegment(message string) string {
	parts := strings.Split(message, ": ")
	return parts[len(parts)-1]
}

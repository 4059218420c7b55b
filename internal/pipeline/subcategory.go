package pipeline

import (
	"strings"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

type subcategoryRule struct {
	subcategory string
	keywords    []string
}

// subcategoryRules maps each category to its ordered keyword rules. The
// first matching rule wins; categories without rules resolve to the
// category default.
var subcategoryRules = map[domain.TicketCategory]struct {
	rules        []subcategoryRule
	defaultValue string
}{
	domain.CategoryEmailIssues: {
		rules: []subcategoryRule{
			{"Mobile Email Sync", []string{"iphone", "ios", "android", "mobile", "phone", "tablet"}},
			{"Outlook", []string{"outlook", "client", "application"}},
			{"SMTP/IMAP", []string{"smtp", "send", "receive", "imap", "pop", "sync"}},
			{"Calendar", []string{"calendar", "meeting", "appointment"}},
		},
		defaultValue: "Email General",
	},
	domain.CategoryNetworkIssues: {
		rules: []subcategoryRule{
			{"WiFi", []string{"wifi", "wireless"}},
			{"VPN", []string{"vpn", "remote"}},
			{"Internet", []string{"internet", "web"}},
			{"LAN", []string{"lan", "ethernet", "cable"}},
		},
		defaultValue: "Connectivity",
	},
	domain.CategoryHardwareFailures: {
		rules: []subcategoryRule{
			{"Desktop", []string{"desktop", "pc", "computer"}},
			{"Laptop", []string{"laptop", "notebook"}},
			{"Printer", []string{"printer", "print"}},
			{"Mobile Device", []string{"mobile", "phone", "iphone", "android"}},
			{"Peripherals", []string{"mouse", "keyboard", "monitor", "peripheral"}},
		},
		defaultValue: "Hardware General",
	},
	domain.CategorySoftwareProblems: {
		rules: []subcategoryRule{
			{"Installation", []string{"install", "installation"}},
			{"Update", []string{"update", "upgrade", "patch"}},
			{"Application Error", []string{"error", "crash", "exception"}},
			{"OS Problem", []string{"windows", "linux", "macos", "os"}},
		},
		defaultValue: "Software General",
	},
	domain.CategoryAccountAccess: {
		rules: []subcategoryRule{
			{"Login", []string{"login", "sign in", "logon"}},
			{"Password", []string{"password", "reset", "forgot"}},
			{"Account Access", []string{"account", "user", "access"}},
			{"File Permissions", []string{"permission", "denied", "unauthorized"}},
		},
		defaultValue: "Access General",
	},
	domain.CategoryGeneralSupport: {
		rules: []subcategoryRule{
			{"How-To", []string{"how to", "how do", "tutorial", "guide"}},
			{"Request", []string{"request", "need", "want"}},
		},
		defaultValue: "Other",
	},
}

// ResolveSubcategory derives a subcategory from the ticket text for the
// given category. It never returns empty; unmapped categories resolve to
// "Other".
func ResolveSubcategory(category domain.TicketCategory, text string) string {
	entry, ok := subcategoryRules[category]
	if !ok {
		return "Other"
	}
	lower := strings.ToLower(text)
	for _, rule := range entry.rules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.subcategory
			}
		}
	}
	return entry.defaultValue
}

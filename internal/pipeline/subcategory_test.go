package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

func TestResolveSubcategory(t *testing.T) {
	cases := []struct {
		name     string
		category domain.TicketCategory
		text     string
		expected string
	}{
		{"email mobile", domain.CategoryEmailIssues, "email not syncing on my iphone", "Mobile Email Sync"},
		{"email outlook", domain.CategoryEmailIssues, "outlook keeps crashing", "Outlook"},
		{"email smtp", domain.CategoryEmailIssues, "cannot send messages smtp failure", "SMTP/IMAP"},
		{"email calendar", domain.CategoryEmailIssues, "calendar invites disappear", "Calendar"},
		{"email default", domain.CategoryEmailIssues, "mailbox is full", "Email General"},
		{"network wifi", domain.CategoryNetworkIssues, "wifi drops every hour", "WiFi"},
		{"network vpn", domain.CategoryNetworkIssues, "vpn will not establish", "VPN"},
		{"network internet", domain.CategoryNetworkIssues, "internet is unreachable", "Internet"},
		{"network lan", domain.CategoryNetworkIssues, "ethernet port dead", "LAN"},
		{"network default", domain.CategoryNetworkIssues, "no link at my desk", "Connectivity"},
		{"hardware desktop", domain.CategoryHardwareFailures, "my desktop will not power on", "Desktop"},
		{"hardware laptop", domain.CategoryHardwareFailures, "laptop hinge broke", "Laptop"},
		{"hardware printer", domain.CategoryHardwareFailures, "printer makes grinding noises", "Printer"},
		{"hardware peripherals", domain.CategoryHardwareFailures, "my keyboard stopped working", "Peripherals"},
		{"hardware default", domain.CategoryHardwareFailures, "the dock is dead", "Hardware General"},
		{"software install", domain.CategorySoftwareProblems, "cannot install the new client", "Installation"},
		{"software update", domain.CategorySoftwareProblems, "the update broke everything", "Update"},
		{"software error", domain.CategorySoftwareProblems, "I get an error on save", "Application Error"},
		{"software default", domain.CategorySoftwareProblems, "the tool behaves strangely", "Software General"},
		{"access login", domain.CategoryAccountAccess, "cannot login to the portal", "Login"},
		{"access password", domain.CategoryAccountAccess, "forgot my password", "Password"},
		{"access account", domain.CategoryAccountAccess, "my account seems disabled", "Account Access"},
		{"access permissions", domain.CategoryAccountAccess, "permission denied on the share", "File Permissions"},
		{"general howto", domain.CategoryGeneralSupport, "how to set an out of office reply", "How-To"},
		{"general request", domain.CategoryGeneralSupport, "request for a second monitor", "Request"},
		{"general default", domain.CategoryGeneralSupport, "something odd happened", "Other"},
		{"unmapped category", domain.CategoryDatabaseIssues, "query is slow", "Other"},
		{"unmapped security", domain.CategorySecurityIncidents, "phishing mail received", "Other"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ResolveSubcategory(tc.category, tc.text))
		})
	}
}

func TestResolveSubcategoryNeverEmpty(t *testing.T) {
	for _, category := range domain.Categories() {
		assert.NotEmpty(t, ResolveSubcategory(category, ""), "category %s", category)
		assert.NotEmpty(t, ResolveSubcategory(category, "completely unrelated text"), "category %s", category)
	}
}

func TestResolveSubcategoryRuleOrder(t *testing.T) {
	// Mobile keywords outrank the Outlook rule when both match.
	sub := ResolveSubcategory(domain.CategoryEmailIssues, "outlook on my iphone will not sync")
	assert.Equal(t, "Mobile Email Sync", sub)
}

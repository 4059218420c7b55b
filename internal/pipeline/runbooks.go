package pipeline

import (
	"strings"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

// runbookSolution builds the guaranteed last-resort solution from static
// troubleshooting runbooks keyed on category and ticket text. It is pure
// code with no external dependency, so the recommendation stage can always
// return at least one solution.
func runbookSolution(category domain.TicketCategory, text string) domain.Solution {
	lower := strings.ToLower(text)
	cat := strings.ToLower(string(category))

	var (
		title   string
		steps   []string
		estTime = 15
	)

	switch {
	case strings.Contains(cat, "email") || containsAny(lower, []string{"email", "mail", "outlook", "exchange"}):
		if containsAny(lower, []string{"iphone", "ios", "android", "mobile"}) {
			title = "Mobile Email Sync Troubleshooting"
			steps = []string{
				"Open Settings > Mail > Accounts and select your work email",
				"Toggle 'Mail' OFF, wait 15 seconds, then toggle ON",
				"Check 'Fetch New Data' is set to Push or Fetch (not Manual)",
				"If sync still fails: Delete the account completely",
				"Re-add: Settings > Mail > Add Account > Exchange",
				"Enter your work email and password, verify server settings",
				"Test by sending yourself an email from another account",
			}
			estTime = 10
		} else {
			title = "Outlook/Email Client Troubleshooting"
			steps = []string{
				"Close Outlook completely (check Task Manager for lingering processes)",
				"Restart Outlook in Safe Mode: Hold Ctrl while opening",
				"If Safe Mode works: Disable add-ins one by one to find culprit",
				"Run Outlook repair: File > Account Settings > Repair",
				"Check Send/Receive settings and folder permissions",
				"Verify OST/PST file size (over 10GB can cause issues)",
				"As last resort: Create new Outlook profile",
			}
			estTime = 20
		}
	case strings.Contains(cat, "network") || containsAny(lower, []string{"wifi", "vpn", "network", "internet", "connect"}):
		if containsAny(lower, []string{"wifi", "wireless"}) {
			title = "WiFi Connection Troubleshooting"
			steps = []string{
				"Forget the WiFi network: Settings > WiFi > Network name > Forget",
				"Restart your device completely",
				"Reconnect: Select network, enter password carefully",
				"Verify other devices can connect (isolate device vs network issue)",
				"Check IP address: Should be 192.168.x.x or 10.x.x.x (not 169.254.x.x)",
				"Try different WiFi band (2.4GHz vs 5GHz)",
				"Contact IT if issue persists - may need MAC address whitelisting",
			}
		} else if strings.Contains(lower, "vpn") {
			title = "VPN Connection Troubleshooting"
			steps = []string{
				"Verify your VPN credentials and MFA status",
				"Check you're on a stable internet connection (not hotel/airport WiFi)",
				"Clear VPN cache: Remove and re-add VPN profile",
				"Try alternate VPN protocol if available (IKEv2, L2TP, OpenVPN)",
				"Disable antivirus/firewall temporarily to test",
				"Check for VPN client updates",
				"Contact IT for server status and credentials reset",
			}
		} else {
			title = "General Network Troubleshooting"
			steps = []string{
				"Restart your device and router/modem",
				"Check physical connections (cables, WiFi signal strength)",
				"Run network diagnostics: ping 8.8.8.8, nslookup google.com",
				"Flush DNS cache: ipconfig /flushdns (Windows) or sudo dscacheutil -flushcache (Mac)",
				"Check proxy settings and VPN status",
				"Test with different network (mobile hotspot)",
				"Contact IT with traceroute results if issue persists",
			}
			estTime = 20
		}
	case strings.Contains(cat, "hardware") || strings.Contains(cat, "printer") || containsAny(lower, []string{"printer", "print", "laptop", "desktop", "monitor"}):
		if containsAny(lower, []string{"printer", "print"}) {
			title = "Printer Troubleshooting"
			steps = []string{
				"Check printer is powered on and shows 'Ready' status",
				"Verify printer is connected (USB cable or WiFi)",
				"Check for paper jams, empty toner/ink, or error lights",
				"Clear print queue: Settings > Devices > Printers > Open queue > Cancel all",
				"Restart print spooler service (Windows: services.msc > Print Spooler)",
				"Remove and re-add printer in system settings",
				"Update or reinstall printer drivers from manufacturer website",
				"Test with different document/application",
			}
		} else {
			title = "Hardware Troubleshooting"
			steps = []string{
				"Check all power cables and connections are secure",
				"Look for physical damage, warning lights, or unusual sounds",
				"Restart the device (full power cycle)",
				"Check for overheating (ensure vents are clear)",
				"Test with known-good accessories (cables, power adapter)",
				"Run hardware diagnostics if available (usually F12 at boot)",
				"Document error codes/sounds and contact IT support",
			}
			estTime = 20
		}
	case strings.Contains(cat, "software") || strings.Contains(cat, "application") || containsAny(lower, []string{"application", "app", "program", "software", "install"}):
		title = "Software/Application Troubleshooting"
		steps = []string{
			"Close the application completely (check Task Manager)",
			"Restart the application",
			"Check for pending updates: Help > Check for Updates",
			"Run as Administrator (right-click > Run as administrator)",
			"Check system requirements and compatibility",
			"Repair installation: Control Panel > Programs > Uninstall > Repair",
			"Check Event Viewer for error details (Windows Key + X > Event Viewer)",
			"As last resort: Uninstall completely and reinstall from official source",
		}
		estTime = 20
	case strings.Contains(cat, "access") || strings.Contains(cat, "account") || containsAny(lower, []string{"login", "password", "access", "account", "locked"}):
		title = "Account Access Troubleshooting"
		steps = []string{
			"Verify username and password are correct (check Caps Lock)",
			"Check if account is locked: Wait 30 minutes or contact IT",
			"Try password reset through self-service portal",
			"Verify MFA device is accessible and showing correct codes",
			"Check if account has expired or needs password change",
			"Try from different browser or incognito mode",
			"Clear browser cache and cookies",
			"Contact IT if issue persists - may need account unlock or reset",
		}
		estTime = 10
	default:
		title = "General IT Support Steps"
		steps = []string{
			"Document the exact error message, time, and what you were doing",
			"Restart the affected application or device",
			"Check for system updates and install pending updates",
			"Verify network connectivity and VPN status if applicable",
			"Check account status and permissions",
			"Try from different device or browser to isolate the issue",
			"Take screenshots of any errors",
			"Escalate to IT support with all gathered information",
		}
	}

	described := string(category)
	if described == "" {
		described = "IT issues"
	}
	return domain.Solution{
		SolutionID:           "generic_1",
		Title:                title,
		Description:          "Step-by-step troubleshooting for " + described,
		Steps:                steps,
		SimilarityScore:      0.35,
		EstimatedTimeMinutes: estTime,
		SuccessRate:          0.70,
		Source:               "heuristic",
	}
}

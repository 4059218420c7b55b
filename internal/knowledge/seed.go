package knowledge

import (
	"context"

	"go.uber.org/zap"
)

// SeedDefaults loads the built-in solution corpus when the store is empty.
// Returns the number of documents added.
func (s *Store) SeedDefaults(ctx context.Context) (int, error) {
	if s.collection.Count() > 0 {
		return 0, nil
	}

	added := 0
	for _, doc := range defaultCorpus {
		if _, err := s.Add(ctx, doc); err != nil {
			return added, err
		}
		added++
	}
	s.logger.Info("seeded knowledge base", zap.Int("documents", added))
	return added, nil
}

var defaultCorpus = []Document{
	{
		ID:       "kb-email-mobile-sync",
		Title:    "Fix email not syncing on mobile devices",
		Category: "Email Issues",
		Source:   "knowledge_base",
		Content: "Work email stops syncing on iPhone or Android devices after a password " +
			"change or profile update. Messages fail to send or receive and the inbox " +
			"shows stale mail. Applies to Exchange and IMAP accounts on mobile clients.",
		Steps: []string{
			"Open Settings > Mail > Accounts and select the work email account",
			"Toggle Mail off, wait 15 seconds, then toggle it back on",
			"Confirm Fetch New Data is set to Push or Fetch, not Manual",
			"If sync still fails, delete the account from the device",
			"Re-add the account via Settings > Mail > Add Account > Exchange",
			"Verify server settings and re-enter the current password",
			"Send a test email from another account to confirm delivery",
		},
		EstimatedTimeMinutes: 10,
		SuccessRate:          0.85,
	},
	{
		ID:       "kb-outlook-client",
		Title:    "Outlook client not sending or receiving",
		Category: "Email Issues",
		Source:   "knowledge_base",
		Content: "Outlook desktop client hangs on send/receive, shows disconnected status, " +
			"or crashes on startup. Often caused by a corrupt profile, an oversized OST " +
			"file, or a faulty add-in.",
		Steps: []string{
			"Close Outlook fully and check Task Manager for lingering processes",
			"Start Outlook in Safe Mode by holding Ctrl while opening",
			"If Safe Mode works, disable add-ins one by one to find the culprit",
			"Run the repair from File > Account Settings > Repair",
			"Check the OST/PST file size; over 10GB causes instability",
			"Create a new Outlook profile as the last resort",
		},
		EstimatedTimeMinutes: 20,
		SuccessRate:          0.8,
	},
	{
		ID:       "kb-wifi-drops",
		Title:    "WiFi keeps disconnecting",
		Category: "Network Issues",
		Source:   "knowledge_base",
		Content: "Laptop repeatedly drops the office wireless network or cannot obtain a " +
			"valid IP address. A 169.254.x.x address indicates DHCP failure.",
		Steps: []string{
			"Forget the WiFi network, then restart the device",
			"Reconnect and re-enter the network password carefully",
			"Verify other devices can connect to isolate device vs network",
			"Check the assigned IP address is not 169.254.x.x",
			"Try the other WiFi band (2.4GHz vs 5GHz)",
			"Escalate with the device MAC address if the issue persists",
		},
		EstimatedTimeMinutes: 15,
		SuccessRate:          0.75,
	},
	{
		ID:       "kb-vpn-connect",
		Title:    "VPN connection fails or drops",
		Category: "Network Issues",
		Source:   "knowledge_base",
		Content: "Remote users cannot establish a VPN tunnel or the tunnel drops " +
			"repeatedly. Frequent causes are expired credentials, MFA lockout, captive " +
			"portals on hotel or airport WiFi, and stale client profiles.",
		Steps: []string{
			"Verify VPN credentials and MFA device status",
			"Confirm the underlying internet connection is stable",
			"Remove and re-add the VPN profile to clear cached settings",
			"Try an alternate VPN protocol if the client offers one",
			"Temporarily disable local firewall or antivirus to test",
			"Update the VPN client to the latest version",
		},
		EstimatedTimeMinutes: 15,
		SuccessRate:          0.8,
	},
	{
		ID:       "kb-printer-queue",
		Title:    "Printer not printing, jobs stuck in queue",
		Category: "Printer Problems",
		Source:   "knowledge_base",
		Content: "Print jobs queue up without printing, the printer shows offline, or " +
			"output stops mid-job. Covers both local USB and networked printers.",
		Steps: []string{
			"Check the printer is powered on and shows Ready",
			"Look for paper jams, empty toner, or error lights",
			"Cancel all jobs from the print queue",
			"Restart the Print Spooler service",
			"Remove and re-add the printer in system settings",
			"Reinstall the driver from the manufacturer website",
		},
		EstimatedTimeMinutes: 15,
		SuccessRate:          0.85,
	},
	{
		ID:       "kb-software-install",
		Title:    "Application fails to install or update",
		Category: "Software Problems",
		Source:   "knowledge_base",
		Content: "Installer exits with an error, an update loops, or the application " +
			"crashes right after installation. Usually insufficient permissions, a " +
			"corrupted download, or a conflicting previous install.",
		Steps: []string{
			"Run the installer as Administrator",
			"Verify the download completed and re-download if unsure",
			"Uninstall any previous version via Control Panel",
			"Check free disk space and system requirements",
			"Review the installer log or Event Viewer for the error code",
			"Reinstall from the official source after a clean removal",
		},
		EstimatedTimeMinutes: 20,
		SuccessRate:          0.8,
	},
	{
		ID:       "kb-account-lockout",
		Title:    "Account locked out or password reset",
		Category: "Account Access",
		Source:   "knowledge_base",
		Content: "User cannot sign in: account locked after failed attempts, password " +
			"expired, or MFA codes rejected. Self-service reset resolves most cases " +
			"without an IT touch.",
		Steps: []string{
			"Confirm the username and check Caps Lock",
			"Wait 30 minutes for the lockout window to clear, or contact IT",
			"Reset the password through the self-service portal",
			"Verify the MFA device clock is correct and codes are current",
			"Try an incognito window to rule out cached credentials",
			"Request an account unlock if the portal reset fails",
		},
		EstimatedTimeMinutes: 10,
		SuccessRate:          0.9,
	},
	{
		ID:       "kb-slow-computer",
		Title:    "Computer running slowly",
		Category: "System Performance",
		Source:   "knowledge_base",
		Content: "Workstation takes minutes to boot or applications freeze under load. " +
			"Check resource exhaustion first: full disk, memory pressure, or a runaway " +
			"process.",
		Steps: []string{
			"Open Task Manager and sort by CPU and memory usage",
			"Close or restart any process consuming excessive resources",
			"Free disk space; keep at least 15% of the drive available",
			"Disable unnecessary startup programs",
			"Install pending OS updates and reboot",
			"Run a full malware scan if slowness persists",
		},
		EstimatedTimeMinutes: 25,
		SuccessRate:          0.7,
	},
	{
		ID:       "kb-db-restore",
		Title:    "Restore a database from backup",
		Category: "Backup & Recovery",
		Source:   "knowledge_base",
		Content: "Recover a corrupted or accidentally modified database from the nightly " +
			"backup set. Requires DBA approval for production systems.",
		Steps: []string{
			"Identify the most recent known-good backup set",
			"Notify stakeholders of the expected data-loss window",
			"Restore into a staging instance first and validate",
			"Run integrity checks against the restored data",
			"Cut over and re-point applications to the restored instance",
		},
		EstimatedTimeMinutes: 60,
		SuccessRate:          0.9,
	},
}

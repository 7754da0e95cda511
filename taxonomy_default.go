package triage

// Categories of the built-in IT service desk taxonomy.
const (
	CategoryIdentityMFA           Category = "Identity > MFA"
	CategoryIdentityPasswordReset Category = "Identity > Password Reset"
	CategoryEndpointIntune        Category = "Endpoint > Intune Compliance"
	CategoryEndpointEncryption    Category = "Endpoint > Device Encryption"
	CategoryEmailOutlook          Category = "Email > Outlook"
	CategoryEmailExchange         Category = "Email > Exchange Online"
	CategoryCollaborationTeams    Category = "Collaboration > Teams"
	CategoryNetworkingVPN         Category = "Networking > VPN"
	CategoryNetworkingWiFi        Category = "Networking > Wi-Fi"
	CategoryAccessPermissions     Category = "Access > Permissions"
	CategoryHardwareLaptop        Category = "Hardware > Laptop"
	CategoryPrintingPrinter       Category = "Printing > Printer"
)

// Routing teams of the built-in taxonomy.
const (
	TeamIdentity  = "Identity Team"
	TeamService   = "Service Desk"
	TeamEndpoint  = "Endpoint Team"
	TeamMessaging = "Messaging Team"
	TeamNetwork   = "Network Team"
)

// DefaultTaxonomy returns the built-in twelve-category service desk taxonomy.
func DefaultTaxonomy() *Taxonomy {
	return MustNewTaxonomy(DefaultEntries())
}

// DefaultEntries returns the entries behind DefaultTaxonomy, for callers that want to extend them.
//
//nolint:lll,funlen
func DefaultEntries() []Entry {
	return []Entry{
		{
			Category: CategoryIdentityMFA,
			Team:     TeamIdentity,
			Phrasings: []string{
				"User cannot approve MFA prompt on new phone, keeps failing sign-in.",
				"MFA push notifications not arriving for user, sign-in blocked.",
				"User lost phone and cannot pass MFA, needs reset urgently.",
				"User sees 'MFA required' loop when accessing M365 apps.",
			},
			Actions: []string{
				"Check Entra sign-in logs, confirm Conditional Access, reset MFA methods if needed.",
				"Verify user is registered to correct authenticator; reset MFA and re-enrol.",
				"Confirm CA policies and device compliance; perform MFA reset as required.",
			},
		},
		{
			Category: CategoryIdentityPasswordReset,
			Team:     TeamService,
			Phrasings: []string{
				"User forgot password and cannot log in to Windows.",
				"Account locked after too many attempts, needs unlock and reset.",
				"User password expired and they cannot change it remotely.",
				"Password reset not working in self-service portal.",
			},
			Actions: []string{
				"Reset password in Entra/AD, confirm account unlock, advise user to re-authenticate.",
				"Unlock account, reset password, verify SSPR settings and sign-in.",
			},
		},
		{
			Category: CategoryEndpointIntune,
			Team:     TeamEndpoint,
			Phrasings: []string{
				"Device shows non-compliant in Intune, Conditional Access blocks sign-in.",
				"Windows device flagged non-compliant due to missing updates.",
				"Compliance policy says firewall disabled, user can't access apps.",
				"Device compliance failure after OS upgrade.",
			},
			Actions: []string{
				"Check compliance policy state; trigger sync, verify required settings (updates/firewall).",
				"Review Intune compliance report; remediate failing checks then re-evaluate.",
			},
		},
		{
			Category: CategoryEndpointEncryption,
			Team:     TeamEndpoint,
			Phrasings: []string{
				"BitLocker not enabled, device marked non-compliant.",
				"Encryption status unknown, user can't access resources.",
				"Recovery key prompt appeared unexpectedly after reboot.",
				"BitLocker escrow missing in Entra, needs verification.",
			},
			Actions: []string{
				"Verify BitLocker status; enable encryption and confirm key escrow to Entra.",
				"Check encryption compliance and recovery key escrow; remediate and re-sync.",
			},
		},
		{
			Category: CategoryEmailOutlook,
			Team:     TeamService,
			Phrasings: []string{
				"Outlook stuck on 'Trying to connect' and won't sync mail.",
				"Outlook keeps asking for password repeatedly.",
				"User can't add shared mailbox to Outlook desktop client.",
				"Outlook search not returning recent emails.",
			},
			Actions: []string{
				"Recreate Outlook profile, clear cached credentials, verify connectivity and autodiscover.",
				"Run Microsoft Support and Recovery Assistant; check add-ins and profile.",
			},
		},
		{
			Category: CategoryEmailExchange,
			Team:     TeamMessaging,
			Phrasings: []string{
				"Mailbox not receiving external emails, internal works.",
				"User can't send emails, gets NDR bounce back.",
				"Mail flow delayed, emails arrive hours late.",
				"User mailbox storage full, needs cleanup or increase.",
			},
			Actions: []string{
				"Check message trace and transport rules; verify mailbox settings and quotas.",
				"Review NDR details; validate connectors, SPF/DKIM/DMARC as applicable.",
			},
		},
		{
			Category: CategoryCollaborationTeams,
			Team:     TeamService,
			Phrasings: []string{
				"Teams calls dropping frequently for one user.",
				"User can't join Teams meeting, stuck on connecting.",
				"Teams client crashes on startup after update.",
				"User can't access a Team/channel they should be in.",
			},
			Actions: []string{
				"Check Teams service health and user network; clear cache and update client.",
				"Verify meeting policy and client version; test web client vs desktop.",
			},
		},
		{
			Category: CategoryNetworkingVPN,
			Team:     TeamNetwork,
			Phrasings: []string{
				"VPN fails to connect with authentication error.",
				"VPN connects but no access to internal resources.",
				"VPN disconnects every few minutes on home network.",
				"User cannot install VPN client on managed device.",
			},
			Actions: []string{
				"Check client logs, verify credentials/CA; confirm VPN policy and MFA requirements.",
				"Validate split tunnel/routes; confirm user group membership and access rules.",
			},
		},
		{
			Category: CategoryNetworkingWiFi,
			Team:     TeamNetwork,
			Phrasings: []string{
				"Office Wi-Fi keeps disconnecting on laptop.",
				"Cannot connect to corporate Wi-Fi, certificate error.",
				"Wi-Fi slow only on one floor, user reports timeouts.",
				"New device cannot see corporate SSID.",
			},
			Actions: []string{
				"Verify certificate/profile; re-enrol Wi-Fi profile and test connectivity.",
				"Check AP coverage and network health; compare with other devices.",
			},
		},
		{
			Category: CategoryAccessPermissions,
			Team:     TeamService,
			Phrasings: []string{
				"User needs access to shared folder, permission denied.",
				"User lost access to SharePoint site after role change.",
				"Request: add user to security group for application access.",
				"User cannot open finance drive, access denied.",
			},
			Actions: []string{
				"Confirm required group membership; grant least-privilege access and validate.",
				"Check SharePoint permissions inheritance; re-add user or group as appropriate.",
			},
		},
		{
			Category: CategoryHardwareLaptop,
			Team:     TeamService,
			Phrasings: []string{
				"Laptop battery draining fast, needs diagnostics.",
				"Laptop overheating and fan loud during calls.",
				"Keyboard keys not working properly on user's laptop.",
				"Laptop won't boot, shows black screen.",
			},
			Actions: []string{
				"Collect diagnostics, check warranty, run hardware tests; arrange repair if needed.",
				"Validate power settings/thermals; run vendor diagnostics and update BIOS/drivers.",
			},
		},
		{
			Category: CategoryPrintingPrinter,
			Team:     TeamService,
			Phrasings: []string{
				"User cannot print, printer shows offline.",
				"Print jobs stuck in queue and won't clear.",
				"User needs printer drivers installed on new device.",
				"Printer prints blank pages intermittently.",
			},
			Actions: []string{
				"Restart spooler, clear queue, reinstall drivers; verify printer online status.",
				"Check printer mapping and permissions; test print from another app/device.",
			},
		},
	}
}

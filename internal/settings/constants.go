package settings

// Setting keys and defaults.
const (
	// SiteNameKey is the setting key for the public site name.
	SiteNameKey = "SITE_NAME"
	// DefaultSiteName is the fallback site name.
	DefaultSiteName = "SOOOP"

	// RevalidateSecondsKey controls the passive page cache window in seconds.
	RevalidateSecondsKey = "REVALIDATE_SECONDS"
	// DefaultRevalidateSeconds is the fallback cache window.
	DefaultRevalidateSeconds = 60

	// RegistrationPrefixKey controls the registration number prefix.
	RegistrationPrefixKey = "REGISTRATION_PREFIX"
	// DefaultRegistrationPrefix is the fallback registration number prefix.
	DefaultRegistrationPrefix = "SOOOP"

	// MembershipFeeKey is the annual membership fee in paisa.
	MembershipFeeKey = "MEMBERSHIP_FEE"
	// DefaultMembershipFee is the fallback fee (Rs. 1,500).
	DefaultMembershipFee = 150000

	// AuditRetentionDaysKey controls how long admin audit rows are kept.
	AuditRetentionDaysKey = "AUDIT_RETENTION_DAYS"
	// DefaultAuditRetentionDays is the fallback audit retention window.
	DefaultAuditRetentionDays = 180
)

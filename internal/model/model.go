package model

import "net/netip"

// User is a single DDNS account. Domains holds the exact hostname strings the
// account is allowed to update; authorization is literal membership, not
// suffix matching.
type User struct {
	Username     string   `dynamodbav:"username" json:"username"`
	PasswordHash string   `dynamodbav:"password_hash" json:"-"`
	Domains      []string `dynamodbav:"domains,stringset" json:"domains"`
}

// HasDomain reports whether hostname is literally present in the user's
// domain set.
func (u *User) HasDomain(hostname string) bool {
	for _, d := range u.Domains {
		if d == hostname {
			return true
		}
	}
	return false
}

// HostedZone is one public zone as reported by the DNS provider. Name is
// normalized without the trailing dot.
type HostedZone struct {
	ID   string
	Name string
}

// UpdateRequest is a fully parsed inbound update. Hostnames is deduplicated
// and non-empty; IP is a valid IPv4 address.
type UpdateRequest struct {
	Username  string
	Password  string
	Hostnames []string
	IP        netip.Addr
	UserAgent string
}

// RecordChange is one A-record upsert within a zone batch.
type RecordChange struct {
	Hostname string
	IP       netip.Addr
}

// ZonePlan groups the record changes destined for a single hosted zone.
// Records preserve request order.
type ZonePlan struct {
	ZoneID  string
	Records []RecordChange
}

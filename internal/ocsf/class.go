// Package ocsf defines the OCSF 1.1.0 event classes this tool emits, the
// shared event objects, and the index naming convention used on the
// OpenSearch side.
package ocsf

import (
	"fmt"
	"time"
)

// SchemaVersion is the OCSF schema version all emitted events conform to.
const SchemaVersion = "1.1.0"

// Class identifies an OCSF event class and the index family its events are
// written to.
type Class struct {
	UID  int
	Name string
	// Slug is the lowercase snake_case name used in index names and on the
	// command line, e.g. "http_activity".
	Slug string
}

// Event classes covered by the generators and parsers.
var (
	FileSystemActivity  = Class{UID: 1001, Name: "File System Activity", Slug: "fs_activity"}
	KernelActivity      = Class{UID: 1003, Name: "Kernel Activity", Slug: "kernel_activity"}
	SecurityFinding     = Class{UID: 2001, Name: "Security Finding", Slug: "security_finding"}
	ComplianceFinding   = Class{UID: 2003, Name: "Compliance Finding", Slug: "compliance_finding"}
	DetectionFinding    = Class{UID: 2004, Name: "Detection Finding", Slug: "detection_finding"}
	AccountChange       = Class{UID: 3001, Name: "Account Change", Slug: "account_change"}
	Authentication      = Class{UID: 3002, Name: "Authentication", Slug: "authentication"}
	NetworkActivity     = Class{UID: 4001, Name: "Network Activity", Slug: "network_activity"}
	HTTPActivity        = Class{UID: 4002, Name: "HTTP Activity", Slug: "http_activity"}
	DNSActivity         = Class{UID: 4003, Name: "DNS Activity", Slug: "dns_activity"}
	DatabaseActivity    = Class{UID: 5001, Name: "Database Activity", Slug: "database_activity"}
	ApplicationActivity = Class{UID: 6001, Name: "Application Activity", Slug: "application_activity"}
	APIActivity         = Class{UID: 6003, Name: "API Activity", Slug: "api_activity"}
)

// Classes returns every event class, in UID order.
func Classes() []Class {
	return []Class{
		FileSystemActivity,
		KernelActivity,
		SecurityFinding,
		ComplianceFinding,
		DetectionFinding,
		AccountChange,
		Authentication,
		NetworkActivity,
		HTTPActivity,
		DNSActivity,
		DatabaseActivity,
		ApplicationActivity,
		APIActivity,
	}
}

// ClassBySlug looks up a class by its command line slug.
func ClassBySlug(slug string) (Class, bool) {
	for _, c := range Classes() {
		if c.Slug == slug {
			return c, true
		}
	}
	return Class{}, false
}

// IndexBase returns the undated index family name, which doubles as the
// rollover alias and the index template name, e.g.
// "ocsf-1.1.0-4002-http_activity".
func (c Class) IndexBase() string {
	return fmt.Sprintf("ocsf-%s-%d-%s", SchemaVersion, c.UID, c.Slug)
}

// Index returns the dated write index for the given time, e.g.
// "ocsf-1.1.0-4002-http_activity-2026.08.28-000000". The numeric suffix is
// the rollover generation.
func (c Class) Index(t time.Time) string {
	return fmt.Sprintf("%s-%s-000000", c.IndexBase(), t.Format("2006.01.02"))
}

// Pattern returns the index pattern matching every generation of the family.
func (c Class) Pattern() string {
	return c.IndexBase() + "-*"
}

// Timestamp converts a time to OCSF epoch milliseconds.
func Timestamp(t time.Time) int64 {
	return t.UnixMilli()
}

// TimestampDT formats a time the way OpenSearch date detection expects,
// yyyy-MM-dd'T'HH:mm:ss.SSSZ with no colon in the zone offset.
func TimestampDT(t time.Time) string {
	return t.Format("2006-01-02T15:04:05.000-0700")
}

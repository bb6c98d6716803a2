package ocsf

// Shared OCSF objects. Only the fields the generators and parsers populate
// are modeled; everything is omitempty so each class serializes exactly the
// shape its events need.

// BaseEvent carries the fields every event class has in common. Class event
// structs embed it so the fields inline into the top-level JSON document.
type BaseEvent struct {
	ClassUID     int      `json:"class_uid"`
	ClassName    string   `json:"class_name"`
	CategoryUID  int      `json:"category_uid,omitempty"`
	CategoryName string   `json:"category_name,omitempty"`
	Time         int64    `json:"time"`
	TimeDT       string   `json:"time_dt,omitempty"`
	ActivityID   int      `json:"activity_id,omitempty"`
	ActivityName string   `json:"activity_name,omitempty"`
	TypeUID      int      `json:"type_uid,omitempty"`
	TypeName     string   `json:"type_name,omitempty"`
	Status       string   `json:"status,omitempty"`
	StatusID     int      `json:"status_id,omitempty"`
	Severity     string   `json:"severity"`
	SeverityID   int      `json:"severity_id"`
	Message      string   `json:"message,omitempty"`
	Metadata     Metadata `json:"metadata"`
}

// Metadata is the OCSF metadata object.
type Metadata struct {
	Version      string   `json:"version"`
	Product      *Product `json:"product,omitempty"`
	OriginalTime int64    `json:"original_time,omitempty"`
	CreatedTime  int64    `json:"created_time,omitempty"`
	UID          string   `json:"uid,omitempty"`
	Profiles     []string `json:"profiles,omitempty"`
}

// Product identifies the (fake) product that observed the event.
type Product struct {
	Name       string `json:"name"`
	VendorName string `json:"vendor_name"`
	Version    string `json:"version,omitempty"`
}

// NewMetadata builds the standard metadata block for a generated event.
func NewMetadata(productName string, originalTime int64) Metadata {
	return Metadata{
		Version: SchemaVersion,
		Product: &Product{
			Name:       productName,
			VendorName: "OCSF",
			Version:    "1.0.0",
		},
		OriginalTime: originalTime,
	}
}

// Endpoint is a network endpoint (source or destination).
type Endpoint struct {
	IP        string       `json:"ip,omitempty"`
	Port      int          `json:"port,omitempty"`
	Hostname  string       `json:"hostname,omitempty"`
	UID       string       `json:"uid,omitempty"`
	UserAgent string       `json:"user_agent,omitempty"`
	Geo       *Geo         `json:"geo,omitempty"`
	Processes []ProcessRef `json:"processes,omitempty"`
}

// Geo is geographic metadata attached to an endpoint.
type Geo struct {
	Country     string    `json:"country,omitempty"`
	CountryCode string    `json:"country_code,omitempty"`
	City        string    `json:"city,omitempty"`
	Location    *Location `json:"location,omitempty"`
}

// Location is a lat/lon pair.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ProcessRef is the short process shape embedded in endpoints.
type ProcessRef struct {
	Name string `json:"name"`
	PID  int    `json:"pid"`
}

// Process is the full process object.
type Process struct {
	PID  int    `json:"pid"`
	Name string `json:"name"`
	Path string `json:"path,omitempty"`
}

// User describes an account involved in an event.
type User struct {
	Name   string   `json:"name"`
	UID    string   `json:"uid,omitempty"`
	Type   string   `json:"type,omitempty"`
	Domain string   `json:"domain,omitempty"`
	Groups []string `json:"groups,omitempty"`
}

// Actor wraps the user (or process) that performed the activity.
type Actor struct {
	User *User `json:"user,omitempty"`
}

// Application identifies an application involved in an event.
type Application struct {
	Name     string `json:"name"`
	UID      string `json:"uid,omitempty"`
	Category string `json:"category,omitempty"`
	Version  string `json:"version,omitempty"`
}

// Observable is a loose indicator attached to an event.
type Observable struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Type  string `json:"type"`
}

// URL is a decomposed URL.
type URL struct {
	Scheme      string `json:"scheme,omitempty"`
	Hostname    string `json:"hostname,omitempty"`
	Port        int    `json:"port,omitempty"`
	Path        string `json:"path,omitempty"`
	QueryString string `json:"query_string,omitempty"`
	Full        string `json:"full,omitempty"`
	Query       string `json:"query,omitempty"`
}

// UserAgent is the parsed user-agent object on HTTP events.
type UserAgent struct {
	Original string          `json:"original"`
	Device   *UADevice       `json:"device,omitempty"`
	Browser  *UAVersionedSub `json:"browser,omitempty"`
	OS       *UAVersionedSub `json:"os,omitempty"`
}

// UADevice names the device family behind a user agent.
type UADevice struct {
	Name string `json:"name,omitempty"`
	Type string `json:"type,omitempty"`
}

// UAVersionedSub is a named, versioned user-agent component (browser or OS).
type UAVersionedSub struct {
	Name    string `json:"name,omitempty"`
	Version string `json:"version,omitempty"`
}

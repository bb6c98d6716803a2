package generator

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/mranv/ocsf-opensearch/internal/ocsf"
)

type namedID struct {
	name string
	id   int
}

// Authentication generates OCSF Authentication (3002) events.
type Authentication struct {
	pools *AttributePools

	authTypes    []namedID
	protocols    []namedID
	failures     []string
	errors       []string
	userTypes    []string
	applications []string
	mfaTypes     []string
	authPorts    []int
}

// NewAuthentication creates an Authentication generator.
func NewAuthentication(pools *AttributePools) *Authentication {
	return &Authentication{
		pools: pools,
		authTypes: []namedID{
			{"Password", 1}, {"Multi-Factor", 2}, {"Certificate", 3},
			{"Token", 4}, {"SSO", 5}, {"Biometric", 6},
		},
		protocols: []namedID{
			{"LDAP", 1}, {"Kerberos", 2}, {"SAML", 3},
			{"OAuth", 4}, {"Local", 5}, {"RADIUS", 6},
		},
		failures:     []string{"Invalid Credentials", "Account Locked", "Password Expired", "Invalid Token"},
		errors:       []string{"Service Unavailable", "Network Error", "Timeout"},
		userTypes:    []string{"User", "Service Account", "System Account", "Administrator"},
		applications: []string{"VPN", "Web Portal", "Email", "Database", "File Server", "Cloud Service"},
		mfaTypes:     []string{"SMS", "Email", "Authenticator App", "Hardware Token", "Biometric"},
		authPorts:    []int{389, 443, 636, 1812},
	}
}

func (g *Authentication) Class() ocsf.Class { return ocsf.Authentication }

type mfaDetail struct {
	Type    string `json:"type"`
	Success bool   `json:"success"`
	Attempt int    `json:"attempt"`
}

type authDetail struct {
	Type        string     `json:"type"`
	TypeID      int        `json:"type_id"`
	SessionID   string     `json:"session_id"`
	FailureCode string     `json:"failure_code,omitempty"`
	MFA         *mfaDetail `json:"mfa,omitempty"`
}

type authenticationEvent struct {
	ocsf.BaseEvent

	AuthProtocol   string           `json:"auth_protocol"`
	AuthProtocolID int              `json:"auth_protocol_id"`
	Authentication authDetail       `json:"authentication"`
	Actor          ocsf.Actor       `json:"actor"`
	SrcEndpoint    ocsf.Endpoint    `json:"src_endpoint"`
	DstEndpoint    ocsf.Endpoint    `json:"dst_endpoint"`
	Application    ocsf.Application `json:"application"`
}

func (g *Authentication) Generate(rng *rand.Rand) any {
	ts := g.pools.pastTime(rng)
	authType := pick(rng, g.authTypes)
	proto := pick(rng, g.protocols)

	status, statusID := "Success", 1
	severity, severityID := "Info", 1
	switch rng.IntN(3) {
	case 1:
		status, statusID = "Failure", 2
		severity, severityID = "Medium", 2
	case 2:
		status, statusID = "Error", 3
		severity, severityID = "Medium", 2
	}

	ev := &authenticationEvent{
		BaseEvent: ocsf.BaseEvent{
			ClassUID:     ocsf.Authentication.UID,
			ClassName:    ocsf.Authentication.Name,
			Time:         ocsf.Timestamp(ts),
			ActivityID:   1, // Authentication attempt
			ActivityName: "AUTH_ATTEMPT",
			Status:       status,
			StatusID:     statusID,
			Severity:     severity,
			SeverityID:   severityID,
			Metadata:     ocsf.NewMetadata("Authentication Service", ocsf.Timestamp(ts)),
		},
		AuthProtocol:   proto.name,
		AuthProtocolID: proto.id,
		Authentication: authDetail{
			Type:      authType.name,
			TypeID:    authType.id,
			SessionID: newUID(rng),
		},
		Actor: ocsf.Actor{
			User: &ocsf.User{
				Name:   pick(rng, g.pools.Users),
				UID:    newUID(rng),
				Type:   pick(rng, g.userTypes),
				Domain: pick(rng, g.pools.Domains),
			},
		},
		SrcEndpoint: ocsf.Endpoint{
			IP:       randIPv4(rng),
			Hostname: fmt.Sprintf("host-%d", 1000+rng.IntN(9000)),
			Port:     1024 + rng.IntN(64512),
		},
		DstEndpoint: ocsf.Endpoint{
			IP:       randIPv4(rng),
			Hostname: fmt.Sprintf("auth-server-%d", 1+rng.IntN(5)),
			Port:     pick(rng, g.authPorts),
		},
		Application: ocsf.Application{
			Name: pick(rng, g.applications),
			UID:  newUID(rng),
		},
	}

	// Failure and error outcomes carry a reason and a failure code.
	if status != "Success" {
		reasons := g.failures
		if status == "Error" {
			reasons = g.errors
		}
		ev.Message = pick(rng, reasons)
		ev.Authentication.FailureCode = fmt.Sprintf("AUTH_%s_%d", strings.ToUpper(status), 1000+rng.IntN(9000))
	}

	if authType.name == "Multi-Factor" {
		ev.Authentication.MFA = &mfaDetail{
			Type:    pick(rng, g.mfaTypes),
			Success: rng.IntN(2) == 0,
			Attempt: 1 + rng.IntN(3),
		}
	}

	return ev
}

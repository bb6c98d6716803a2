package generator

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/mranv/ocsf-opensearch/internal/ocsf"
)

// SecurityFinding generates OCSF Security Finding (2001) events.
type SecurityFinding struct {
	pools *AttributePools

	findingTypes []namedID
	severities   []namedID
	categories   []string
	sources      []string
}

// NewSecurityFinding creates a Security Finding generator.
func NewSecurityFinding(pools *AttributePools) *SecurityFinding {
	return &SecurityFinding{
		pools: pools,
		findingTypes: []namedID{
			{"Vulnerability Detected", 1},
			{"Suspicious Access", 2},
			{"Data Exposure", 3},
			{"Policy Violation", 4},
			{"Configuration Issue", 5},
		},
		severities: []namedID{
			{"Critical", 5}, {"High", 4}, {"Medium", 3}, {"Low", 2}, {"Info", 1},
		},
		categories: []string{
			"ACCESS_CONTROL", "NETWORK_SECURITY", "DATA_PROTECTION",
			"ENDPOINT_SECURITY", "CONFIGURATION",
		},
		sources: []string{"IDS", "Firewall", "EDR", "SIEM", "Security Scanner"},
	}
}

func (g *SecurityFinding) Class() ocsf.Class { return ocsf.SecurityFinding }

type findingEndpoint struct {
	IP        string            `json:"ip"`
	Hostname  string            `json:"hostname"`
	Processes []ocsf.ProcessRef `json:"processes,omitempty"`
}

type securityFindingDetail struct {
	UID         string          `json:"uid"`
	Title       string          `json:"title"`
	Type        string          `json:"type"`
	TypeID      int             `json:"type_id"`
	Categories  []string        `json:"categories"`
	Message     string          `json:"message"`
	SrcEndpoint findingEndpoint `json:"src_endpoint"`
	RiskScore   int             `json:"risk_score,omitempty"`
}

type detectionSource struct {
	Name string `json:"name"`
	UID  string `json:"uid"`
}

type securityFindingEvent struct {
	ocsf.BaseEvent

	Finding         securityFindingDetail `json:"finding"`
	DetectionSource detectionSource       `json:"detection_source"`
}

func (g *SecurityFinding) Generate(rng *rand.Rand) any {
	ts := g.pools.pastTime(rng)
	ft := pick(rng, g.findingTypes)
	sev := pick(rng, g.severities)
	epochMS := ocsf.Timestamp(ts)

	md := ocsf.NewMetadata("Security Monitor", epochMS)
	md.CreatedTime = epochMS

	ev := &securityFindingEvent{
		BaseEvent: ocsf.BaseEvent{
			ClassUID:   ocsf.SecurityFinding.UID,
			ClassName:  ocsf.SecurityFinding.Name,
			Time:       epochMS,
			Status:     "New",
			StatusID:   1,
			Severity:   sev.name,
			SeverityID: sev.id,
			Metadata:   md,
		},
		Finding: securityFindingDetail{
			UID:        newUID(rng),
			Title:      ft.name + " detected",
			Type:       ft.name,
			TypeID:     ft.id,
			Categories: sample(rng, g.categories, 1+rng.IntN(3)),
			Message:    fmt.Sprintf("Security system detected %s", strings.ToLower(ft.name)),
			SrcEndpoint: findingEndpoint{
				IP:       randIPv4(rng),
				Hostname: fmt.Sprintf("host-%d", 1000+rng.IntN(9000)),
			},
		},
		DetectionSource: detectionSource{
			Name: pick(rng, g.sources),
			UID:  newUID(rng),
		},
	}

	if sev.id >= 4 {
		ev.Finding.RiskScore = 70 + rng.IntN(31)
	}

	return ev
}

package generator

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/mranv/ocsf-opensearch/internal/ocsf"
)

// DetectionFinding generates OCSF Detection Finding (2004) events.
type DetectionFinding struct {
	pools *AttributePools

	findingTypes []namedID
	severities   []namedID
	categories   []string
	statuses     []namedID
	sources      []string
	processNames []string
	intelSources []string
}

// NewDetectionFinding creates a Detection Finding generator.
func NewDetectionFinding(pools *AttributePools) *DetectionFinding {
	return &DetectionFinding{
		pools: pools,
		findingTypes: []namedID{
			{"Malware Detected", 1},
			{"Suspicious Activity", 2},
			{"Policy Violation", 3},
			{"System Compromise", 4},
			{"Data Exfiltration", 5},
		},
		severities: []namedID{
			{"Critical", 5}, {"High", 4}, {"Medium", 3}, {"Low", 2}, {"Info", 1},
		},
		categories: []string{
			"MALWARE", "BACKDOOR", "CRYPTOMINER", "RANSOMWARE",
			"TROJAN", "SUSPICIOUS_BEHAVIOR", "LATERAL_MOVEMENT",
		},
		statuses: []namedID{
			{"New", 1}, {"In Progress", 2}, {"Mitigated", 3}, {"Resolved", 4},
		},
		sources:      []string{"Antivirus", "IDS", "EDR", "SIEM", "Firewall", "Threat Intelligence"},
		processNames: []string{"chrome.exe", "svchost.exe", "explorer.exe", "cmd.exe"},
		intelSources: []string{"AbuseIPDB", "VirusTotal", "AlienVault OTX", "Internal Threat Feed"},
	}
}

func (g *DetectionFinding) Class() ocsf.Class { return ocsf.DetectionFinding }

type threatIndicator struct {
	Type       string `json:"type"`
	Value      string `json:"value"`
	Confidence int    `json:"confidence"`
}

type threatIntelSource struct {
	Name string `json:"name"`
	UID  string `json:"uid"`
}

type threatIntel struct {
	Indicators []threatIndicator   `json:"indicators"`
	Sources    []threatIntelSource `json:"sources"`
}

type detectionFindingDetail struct {
	UID         string          `json:"uid"`
	Type        string          `json:"type"`
	TypeID      int             `json:"type_id"`
	Categories  []string        `json:"categories"`
	Title       string          `json:"title"`
	Message     string          `json:"message"`
	SrcEndpoint findingEndpoint `json:"src_endpoint"`
	Confidence  int             `json:"confidence"`
	ThreatIntel *threatIntel    `json:"threat_intel,omitempty"`
}

type detectionRule struct {
	UID     string `json:"uid"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

type detectionDetail struct {
	Rule   detectionRule `json:"rule"`
	Type   string        `json:"type"`
	TypeID int           `json:"type_id"`
}

type detectionFindingEvent struct {
	ocsf.BaseEvent

	Finding         detectionFindingDetail `json:"finding"`
	DetectionSource detectionSource        `json:"detection_source"`
	Detection       detectionDetail        `json:"detection"`
}

func (g *DetectionFinding) Generate(rng *rand.Rand) any {
	ts := g.pools.pastTime(rng)
	ft := pick(rng, g.findingTypes)
	sev := pick(rng, g.severities)
	status := pick(rng, g.statuses)

	ev := &detectionFindingEvent{
		BaseEvent: ocsf.BaseEvent{
			ClassUID:   ocsf.DetectionFinding.UID,
			ClassName:  ocsf.DetectionFinding.Name,
			Time:       ocsf.Timestamp(ts),
			Status:     status.name,
			StatusID:   status.id,
			Severity:   sev.name,
			SeverityID: sev.id,
			Metadata:   ocsf.NewMetadata("Security Detection System", ocsf.Timestamp(ts)),
		},
		Finding: detectionFindingDetail{
			UID:        newUID(rng),
			Type:       ft.name,
			TypeID:     ft.id,
			Categories: sample(rng, g.categories, 1+rng.IntN(3)),
			Title:      fmt.Sprintf("%s on %s", ft.name, randIPv4(rng)),
			Message:    fmt.Sprintf("Detection system identified %s activity", strings.ToLower(ft.name)),
			SrcEndpoint: findingEndpoint{
				IP:       randIPv4(rng),
				Hostname: fmt.Sprintf("host-%d", 1000+rng.IntN(9000)),
				Processes: []ocsf.ProcessRef{{
					PID:  1000 + rng.IntN(64536),
					Name: pick(rng, g.processNames),
				}},
			},
			Confidence: 1 + rng.IntN(100),
		},
		DetectionSource: detectionSource{
			Name: pick(rng, g.sources),
			UID:  newUID(rng),
		},
		Detection: detectionDetail{
			Rule: detectionRule{
				UID:     newUID(rng),
				Name:    fmt.Sprintf("Rule-%d", 1000+rng.IntN(9000)),
				Version: "1.0",
			},
			Type:   "Signature Based",
			TypeID: 1,
		},
	}

	// High severity findings carry threat intel context.
	if sev.id >= 4 {
		ev.Finding.ThreatIntel = &threatIntel{
			Indicators: []threatIndicator{
				{Type: "ip", Value: randIPv4(rng), Confidence: 70 + rng.IntN(31)},
				{Type: "hash", Value: strings.ReplaceAll(newUID(rng), "-", ""), Confidence: 70 + rng.IntN(31)},
			},
			Sources: []threatIntelSource{
				{Name: pick(rng, g.intelSources), UID: newUID(rng)},
			},
		}
	}

	return ev
}

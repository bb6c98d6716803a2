package generator

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/mranv/ocsf-opensearch/internal/ocsf"
)

type complianceFramework struct {
	name         string
	description  string
	requirements []string
}

type complianceResource struct {
	kind  string
	names []string
}

// ComplianceFinding generates OCSF Compliance Finding (2003) events.
type ComplianceFinding struct {
	pools *AttributePools

	frameworks   []complianceFramework
	severities   []namedID
	findingTypes []string
	resources    []complianceResource
}

// NewComplianceFinding creates a Compliance Finding generator.
func NewComplianceFinding(pools *AttributePools) *ComplianceFinding {
	return &ComplianceFinding{
		pools: pools,
		frameworks: []complianceFramework{
			{"PCI DSS", "Payment Card Industry Data Security Standard", []string{"3.2.1", "4.1", "8.2", "10.2"}},
			{"HIPAA", "Health Insurance Portability and Accountability Act", []string{"Privacy Rule", "Security Rule", "Enforcement Rule"}},
			{"SOX", "Sarbanes-Oxley Act", []string{"Section 302", "Section 404", "Section 409"}},
			{"GDPR", "General Data Protection Regulation", []string{"Article 5", "Article 17", "Article 32"}},
			{"ISO 27001", "Information Security Management", []string{"A.5", "A.9", "A.12", "A.14"}},
			{"NIST 800-53", "Security and Privacy Controls", []string{"AC-2", "AU-2", "CM-6", "SC-7"}},
		},
		severities: []namedID{
			{"Critical", 5}, {"High", 4}, {"Medium", 3}, {"Low", 2}, {"Info", 1},
		},
		findingTypes: []string{
			"Configuration Issue", "Missing Control", "Policy Violation",
			"Access Control Issue", "Encryption Issue", "Audit Log Issue",
		},
		resources: []complianceResource{
			{"Database", []string{"prod-db", "user-db", "auth-db"}},
			{"Server", []string{"web-server", "app-server", "auth-server"}},
			{"Network", []string{"internal-net", "dmz", "backend-net"}},
			{"Application", []string{"payment-app", "crm-system", "hr-portal"}},
			{"Storage", []string{"user-data", "logs-storage", "backup-storage"}},
		},
	}
}

func (g *ComplianceFinding) Class() ocsf.Class { return ocsf.ComplianceFinding }

type complianceRequirement struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

type complianceFrameworkDetail struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
}

type complianceDetail struct {
	Framework   complianceFrameworkDetail `json:"framework"`
	Requirement complianceRequirement     `json:"requirement"`
}

type findingResource struct {
	Type string `json:"type"`
	Name string `json:"name"`
	UID  string `json:"uid"`
}

type remediation struct {
	Description string `json:"description"`
	Deadline    int64  `json:"deadline"`
}

type complianceFindingDetail struct {
	UID         string            `json:"uid"`
	Title       string            `json:"title"`
	Type        string            `json:"type"`
	Compliance  complianceDetail  `json:"compliance"`
	Resources   []findingResource `json:"resources"`
	Message     string            `json:"message"`
	Remediation remediation       `json:"remediation"`
	RiskScore   int               `json:"risk_score,omitempty"`
	RiskLevel   string            `json:"risk_level,omitempty"`
}

type complianceFindingEvent struct {
	ocsf.BaseEvent

	Finding complianceFindingDetail `json:"finding"`
}

func (g *ComplianceFinding) Generate(rng *rand.Rand) any {
	ts := g.pools.pastTime(rng)
	fw := pick(rng, g.frameworks)
	sev := pick(rng, g.severities)
	res := pick(rng, g.resources)
	ftype := pick(rng, g.findingTypes)

	deadline := g.pools.Now.Add(time.Duration(1+rng.IntN(30)) * 24 * time.Hour)

	ev := &complianceFindingEvent{
		BaseEvent: ocsf.BaseEvent{
			ClassUID:   ocsf.ComplianceFinding.UID,
			ClassName:  ocsf.ComplianceFinding.Name,
			Time:       ocsf.Timestamp(ts),
			Status:     "New",
			StatusID:   1,
			Severity:   sev.name,
			SeverityID: sev.id,
			Metadata:   ocsf.NewMetadata("Compliance Scanner", ocsf.Timestamp(ts)),
		},
		Finding: complianceFindingDetail{
			UID:   newUID(rng),
			Title: fmt.Sprintf("%s Compliance Issue - %s", fw.name, ftype),
			Type:  ftype,
			Compliance: complianceDetail{
				Framework: complianceFrameworkDetail{
					Name:        fw.name,
					Version:     fmt.Sprintf("%d.%d", 1+rng.IntN(3), rng.IntN(10)),
					Description: fw.description,
				},
				Requirement: complianceRequirement{
					ID:          pick(rng, fw.requirements),
					Description: fmt.Sprintf("Compliance requirement for %s", fw.name),
				},
			},
			Resources: []findingResource{{
				Type: res.kind,
				Name: pick(rng, res.names),
				UID:  newUID(rng),
			}},
			Message: fmt.Sprintf("Found non-compliance with %s requirements", fw.name),
			Remediation: remediation{
				Description: fmt.Sprintf("Implement required controls for %s compliance", fw.name),
				Deadline:    ocsf.Timestamp(deadline),
			},
		},
	}

	if sev.id >= 4 {
		ev.Finding.RiskScore = 70 + rng.IntN(31)
		ev.Finding.RiskLevel = "High"
	}

	return ev
}

package generator

import (
	"math/rand/v2"
	"strings"

	"github.com/mranv/ocsf-opensearch/internal/ocsf"
)

type appIdentity struct {
	name     string
	category string
}

// ApplicationActivity generates OCSF Application Activity (6001) events.
type ApplicationActivity struct {
	pools *AttributePools

	applications []appIdentity
	actions      []namedID
	users        []string
	statuses     []namedID
}

// NewApplicationActivity creates an Application Activity generator.
func NewApplicationActivity(pools *AttributePools) *ApplicationActivity {
	return &ApplicationActivity{
		pools: pools,
		applications: []appIdentity{
			{"CRM System", "Business"},
			{"HR Portal", "Business"},
			{"Code Repository", "Development"},
			{"CI/CD Pipeline", "Development"},
			{"Inventory Management", "Logistics"},
			{"Billing System", "Finance"},
		},
		actions: []namedID{
			{"Login", 1}, {"Logout", 2}, {"Create", 3}, {"Update", 4},
			{"Delete", 5}, {"Export", 6}, {"Import", 7}, {"Search", 8},
		},
		users: []string{
			"john.doe", "jane.smith", "admin.user",
			"system.service", "app.user", "batch.process",
		},
		statuses: []namedID{{"Success", 1}, {"Failure", 2}, {"Error", 3}},
	}
}

func (g *ApplicationActivity) Class() ocsf.Class { return ocsf.ApplicationActivity }

type applicationActivityEvent struct {
	ocsf.BaseEvent

	Application ocsf.Application `json:"application"`
	Actor       ocsf.Actor       `json:"actor"`
	SrcEndpoint ocsf.Endpoint    `json:"src_endpoint"`
}

func (g *ApplicationActivity) Generate(rng *rand.Rand) any {
	ts := g.pools.pastTime(rng)
	app := pick(rng, g.applications)
	action := pick(rng, g.actions)
	status := pick(rng, g.statuses)

	severity, severityID := "Info", 1
	if status.name != "Success" {
		severity, severityID = "Medium", 2
	}

	return &applicationActivityEvent{
		BaseEvent: ocsf.BaseEvent{
			ClassUID:     ocsf.ApplicationActivity.UID,
			ClassName:    ocsf.ApplicationActivity.Name,
			Time:         ocsf.Timestamp(ts),
			ActivityID:   action.id,
			ActivityName: strings.ToUpper(action.name),
			Status:       status.name,
			StatusID:     status.id,
			Severity:     severity,
			SeverityID:   severityID,
			Metadata:     ocsf.NewMetadata("Application Monitor", ocsf.Timestamp(ts)),
		},
		Application: ocsf.Application{
			Name:     app.name,
			UID:      newUID(rng),
			Category: app.category,
			Version:  randVersion(rng),
		},
		Actor: ocsf.Actor{
			User: &ocsf.User{
				Name: pick(rng, g.users),
				UID:  newUID(rng),
				Type: "User",
			},
		},
		SrcEndpoint: ocsf.Endpoint{
			IP:       randIPv4(rng),
			Hostname: pick(rng, g.pools.Hostnames),
		},
	}
}

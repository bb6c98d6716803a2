package generator

import (
	"math/rand/v2"
	"strings"

	"github.com/mranv/ocsf-opensearch/internal/ocsf"
)

// AccountChange generates OCSF Account Change (3001) events.
type AccountChange struct {
	pools *AttributePools

	actions       []namedID
	statuses      []namedID
	authProtocols []string
}

// NewAccountChange creates an Account Change generator.
func NewAccountChange(pools *AttributePools) *AccountChange {
	return &AccountChange{
		pools: pools,
		actions: []namedID{
			{"create", 1}, {"modify", 2}, {"delete", 3}, {"enable", 4},
			{"disable", 5}, {"lock", 6}, {"unlock", 7}, {"password_change", 8},
		},
		statuses:      []namedID{{"success", 1}, {"failure", 2}, {"error", 3}},
		authProtocols: []string{"Local", "LDAP", "OAuth2", "SAML", "Kerberos"},
	}
}

func (g *AccountChange) Class() ocsf.Class { return ocsf.AccountChange }

type passwordChange struct {
	Enforced bool `json:"enforced"`
	Strength int  `json:"strength"`
}

type accountStatus struct {
	Reason   string `json:"reason"`
	Duration int    `json:"duration"`
}

type accountChangeEvent struct {
	ocsf.BaseEvent

	Actor          ocsf.Actor        `json:"actor"`
	Target         ocsf.Actor        `json:"target"`
	AuthProtocol   string            `json:"auth_protocol"`
	Unmapped       map[string]string `json:"unmapped"`
	PasswordChange *passwordChange   `json:"password_change,omitempty"`
	AccountStatus  *accountStatus    `json:"account_status,omitempty"`
}

func (g *AccountChange) randomUser(rng *rand.Rand) *ocsf.User {
	return &ocsf.User{
		Name:   pick(rng, g.pools.Users),
		UID:    newUID(rng),
		Type:   "User",
		Domain: pick(rng, g.pools.Domains),
		Groups: sample(rng, g.pools.Groups, 1+rng.IntN(3)),
	}
}

func (g *AccountChange) Generate(rng *rand.Rand) any {
	ts := g.pools.pastTime(rng)
	action := pick(rng, g.actions)
	status := pick(rng, g.statuses)

	severity, severityID := "Info", 1
	if status.id != 1 {
		severity, severityID = "Medium", 2
	}

	ev := &accountChangeEvent{
		BaseEvent: ocsf.BaseEvent{
			ClassUID:     ocsf.AccountChange.UID,
			ClassName:    ocsf.AccountChange.Name,
			Time:         ocsf.Timestamp(ts),
			ActivityID:   action.id,
			ActivityName: strings.ToUpper(action.name),
			Status:       strings.ToUpper(status.name),
			StatusID:     status.id,
			Severity:     severity,
			SeverityID:   severityID,
			Metadata:     ocsf.NewMetadata("Identity Management System", ocsf.Timestamp(ts)),
		},
		Actor:        ocsf.Actor{User: g.randomUser(rng)},
		Target:       ocsf.Actor{User: g.randomUser(rng)},
		AuthProtocol: pick(rng, g.authProtocols),
		Unmapped: map[string]string{
			"session_id": newUID(rng),
			"request_id": newUID(rng),
		},
	}

	switch action.name {
	case "password_change":
		ev.PasswordChange = &passwordChange{
			Enforced: rng.IntN(2) == 0,
			Strength: 60 + rng.IntN(41),
		}
	case "lock":
		ev.AccountStatus = &accountStatus{
			Reason:   "Multiple failed login attempts",
			Duration: 300 + rng.IntN(3301),
		}
	case "unlock":
		ev.AccountStatus = &accountStatus{Reason: "Administrative action"}
	}

	return ev
}

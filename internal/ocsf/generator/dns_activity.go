package generator

import (
	"fmt"
	"math/rand/v2"

	"github.com/mranv/ocsf-opensearch/internal/ocsf"
)

type dnsRecordType struct {
	name string
	id   int
}

type dnsStatus struct {
	code string
	id   int
}

// DNSActivity generates OCSF DNS Activity (4003) events.
type DNSActivity struct {
	pools *AttributePools

	queryTypes []dnsRecordType
	domains    []string
	responses  map[string][]string
	statuses   []dnsStatus
}

// NewDNSActivity creates a DNS Activity generator.
func NewDNSActivity(pools *AttributePools) *DNSActivity {
	return &DNSActivity{
		pools: pools,
		queryTypes: []dnsRecordType{
			{"A", 1}, {"AAAA", 28}, {"MX", 15}, {"NS", 2},
			{"PTR", 12}, {"CNAME", 5}, {"TXT", 16}, {"SOA", 6},
		},
		domains: []string{
			"example.com", "test.org", "dev.local", "prod.company.com",
			"mail.example.com", "api.service.com", "cdn.site.net", "db.internal",
		},
		responses: map[string][]string{
			"A":     {"192.168.1.1", "10.0.0.1", "172.16.0.1", "203.0.113.1"},
			"AAAA":  {"2001:db8::1", "2001:db8::2", "2001:db8::3", "2001:db8::4"},
			"MX":    {"mail1.example.com", "mail2.example.com"},
			"NS":    {"ns1.example.com", "ns2.example.com"},
			"PTR":   {"host1.example.com", "host2.example.com"},
			"CNAME": {"www.example.com", "cdn.example.com"},
			"TXT":   {"v=spf1 include:_spf.example.com ~all", "verification=abc123"},
			"SOA":   {"ns1.example.com admin.example.com 2024012001 3600 900 604800 86400"},
		},
		statuses: []dnsStatus{
			{"NOERROR", 1}, {"NXDOMAIN", 2}, {"SERVFAIL", 3},
			{"REFUSED", 4}, {"FORMERR", 5},
		},
	}
}

func (g *DNSActivity) Class() ocsf.Class { return ocsf.DNSActivity }

type dnsAnswer struct {
	Type   string `json:"type"`
	TypeID int    `json:"type_id"`
	Data   string `json:"data"`
	TTL    int    `json:"ttl"`
}

type dnsQuery struct {
	Type           string      `json:"type"`
	TypeID         int         `json:"type_id"`
	Name           string      `json:"name"`
	ResponseCode   string      `json:"response_code"`
	ResponseCodeID int         `json:"response_code_id"`
	Answers        []dnsAnswer `json:"answers,omitempty"`
}

type dnsActivityEvent struct {
	ocsf.BaseEvent

	Query       dnsQuery      `json:"dns_query"`
	SrcEndpoint ocsf.Endpoint `json:"src_endpoint"`
	DstEndpoint ocsf.Endpoint `json:"dst_endpoint"`
}

func (g *DNSActivity) Generate(rng *rand.Rand) any {
	ts := g.pools.pastTime(rng)
	qt := pick(rng, g.queryTypes)
	st := pick(rng, g.statuses)
	domain := pick(rng, g.domains)

	ev := &dnsActivityEvent{
		BaseEvent: ocsf.BaseEvent{
			ClassUID:     ocsf.DNSActivity.UID,
			ClassName:    ocsf.DNSActivity.Name,
			Time:         ocsf.Timestamp(ts),
			ActivityID:   1, // DNS Query
			ActivityName: "DNS_QUERY",
			Status:       st.code,
			StatusID:     st.id,
			Severity:     "Informational",
			SeverityID:   1,
			Metadata:     ocsf.NewMetadata("DNS Server", ocsf.Timestamp(ts)),
		},
		Query: dnsQuery{
			Type:           qt.name,
			TypeID:         qt.id,
			Name:           domain,
			ResponseCode:   st.code,
			ResponseCodeID: st.id,
		},
		SrcEndpoint: ocsf.Endpoint{
			IP:       randIPv4(rng),
			Port:     1024 + rng.IntN(64512),
			Hostname: fmt.Sprintf("client-%d", 1+rng.IntN(1000)),
		},
		DstEndpoint: ocsf.Endpoint{
			IP:       randIPv4(rng),
			Port:     53,
			Hostname: fmt.Sprintf("dns-server-%d", 1+rng.IntN(10)),
		},
	}

	// Answers only exist for successful resolutions.
	if st.code == "NOERROR" {
		n := 1 + rng.IntN(3)
		for i := 0; i < n; i++ {
			ev.Query.Answers = append(ev.Query.Answers, dnsAnswer{
				Type:   qt.name,
				TypeID: qt.id,
				Data:   pick(rng, g.responses[qt.name]),
				TTL:    300 + rng.IntN(86101),
			})
		}
	}

	return ev
}

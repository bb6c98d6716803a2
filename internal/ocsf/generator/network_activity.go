package generator

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/mranv/ocsf-opensearch/internal/ocsf"
)

// NetworkActivity generates OCSF Network Activity (4001) events.
type NetworkActivity struct {
	pools *AttributePools

	protocols  []string
	wellKnown  map[string]int
	directions []string
	statuses   []namedID
	severities []namedID
}

// NewNetworkActivity creates a Network Activity generator.
func NewNetworkActivity(pools *AttributePools) *NetworkActivity {
	return &NetworkActivity{
		pools:     pools,
		protocols: []string{"TCP", "UDP", "ICMP", "HTTP", "HTTPS", "DNS", "SSH", "FTP", "SMTP", "SNMP"},
		wellKnown: map[string]int{
			"HTTP": 80, "HTTPS": 443, "DNS": 53, "SSH": 22,
			"FTP": 21, "SMTP": 25, "SNMP": 161,
		},
		directions: []string{"Inbound", "Outbound"},
		statuses:   []namedID{{"Success", 1}, {"Failure", 2}, {"Error", 3}},
		severities: []namedID{{"Info", 1}, {"Low", 2}, {"Medium", 3}, {"High", 4}, {"Critical", 5}},
	}
}

func (g *NetworkActivity) Class() ocsf.Class { return ocsf.NetworkActivity }

type trafficStats struct {
	BytesIn    int `json:"bytes_in"`
	BytesOut   int `json:"bytes_out"`
	PacketsIn  int `json:"packets_in,omitempty"`
	PacketsOut int `json:"packets_out,omitempty"`
}

type networkHTTPSummary struct {
	Method   string `json:"method"`
	Response struct {
		StatusCode int `json:"status_code"`
	} `json:"response"`
}

type networkActivityEvent struct {
	ocsf.BaseEvent

	SrcEndpoint ocsf.Endpoint       `json:"src_endpoint"`
	DstEndpoint ocsf.Endpoint       `json:"dst_endpoint"`
	Protocol    string              `json:"protocol"`
	Direction   string              `json:"direction"`
	Traffic     trafficStats        `json:"traffic"`
	Observables []ocsf.Observable   `json:"observables,omitempty"`
	HTTP        *networkHTTPSummary `json:"http,omitempty"`
}

func (g *NetworkActivity) port(rng *rand.Rand, protocol string) int {
	if p, ok := g.wellKnown[protocol]; ok {
		return p
	}
	return 1 + rng.IntN(65535)
}

func (g *NetworkActivity) Generate(rng *rand.Rand) any {
	ts := g.pools.pastTime(rng)
	protocol := pick(rng, g.protocols)
	direction := pick(rng, g.directions)
	status := pick(rng, g.statuses)
	severity := pick(rng, g.severities)

	srcIP := randIPv4(rng)
	dstIP := randIPv4(rng)

	srcPort := 1024 + rng.IntN(64512)
	dstPort := g.port(rng, protocol)
	if direction == "Inbound" {
		srcPort, dstPort = g.port(rng, protocol), 1024+rng.IntN(64512)
	}

	ev := &networkActivityEvent{
		BaseEvent: ocsf.BaseEvent{
			ClassUID:     ocsf.NetworkActivity.UID,
			ClassName:    ocsf.NetworkActivity.Name,
			Time:         ocsf.Timestamp(ts),
			ActivityID:   1 + rng.IntN(5),
			ActivityName: fmt.Sprintf("%s %s", protocol, direction),
			Status:       status.name,
			StatusID:     status.id,
			Severity:     severity.name,
			SeverityID:   severity.id,
			Metadata:     ocsf.NewMetadata("Network Monitor", ocsf.Timestamp(ts)),
		},
		SrcEndpoint: ocsf.Endpoint{
			IP:       srcIP,
			Port:     srcPort,
			Hostname: "host-" + strings.ReplaceAll(srcIP, ".", "-"),
			Processes: []ocsf.ProcessRef{{
				Name: strings.ToLower(protocol) + "_client",
				PID:  1000 + rng.IntN(9000),
			}},
		},
		DstEndpoint: ocsf.Endpoint{
			IP:       dstIP,
			Port:     dstPort,
			Hostname: "host-" + strings.ReplaceAll(dstIP, ".", "-"),
			Processes: []ocsf.ProcessRef{{
				Name: strings.ToLower(protocol) + "_server",
				PID:  1000 + rng.IntN(9000),
			}},
		},
		Protocol:  protocol,
		Direction: direction,
		Traffic: trafficStats{
			BytesIn:    100 + rng.IntN(999901),
			BytesOut:   100 + rng.IntN(999901),
			PacketsIn:  1 + rng.IntN(1000),
			PacketsOut: 1 + rng.IntN(1000),
		},
		Observables: []ocsf.Observable{{
			Name:  "network_session_id",
			Value: newUID(rng),
			Type:  "Session ID",
		}},
	}

	if protocol == "HTTP" || protocol == "HTTPS" {
		h := &networkHTTPSummary{Method: pick(rng, []string{"GET", "POST", "PUT", "DELETE"})}
		h.Response.StatusCode = pick(rng, []int{200, 201, 400, 401, 403, 404, 500})
		ev.HTTP = h
	}

	return ev
}

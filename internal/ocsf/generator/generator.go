// Package generator synthesizes random OCSF 1.1.0 events. Each event class
// has its own generator; all of them draw from a shared set of attribute
// pools so usernames, domains, and hostnames stay consistent across classes.
package generator

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/mranv/ocsf-opensearch/internal/ocsf"
)

// Generator produces random events for one OCSF class.
type Generator interface {
	// Class identifies the OCSF class the events belong to.
	Class() ocsf.Class

	// Generate returns one random event document, ready for JSON
	// serialization. The caller owns the rng so runs can be seeded.
	Generate(rng *rand.Rand) any
}

// constructors maps CLI slugs to generator constructors.
var constructors = map[string]func(*AttributePools) Generator{
	ocsf.HTTPActivity.Slug:        func(p *AttributePools) Generator { return NewHTTPActivity(p) },
	ocsf.DNSActivity.Slug:         func(p *AttributePools) Generator { return NewDNSActivity(p) },
	ocsf.Authentication.Slug:      func(p *AttributePools) Generator { return NewAuthentication(p) },
	ocsf.AccountChange.Slug:       func(p *AttributePools) Generator { return NewAccountChange(p) },
	ocsf.FileSystemActivity.Slug:  func(p *AttributePools) Generator { return NewFileSystemActivity(p) },
	ocsf.KernelActivity.Slug:      func(p *AttributePools) Generator { return NewKernelActivity(p) },
	ocsf.NetworkActivity.Slug:     func(p *AttributePools) Generator { return NewNetworkActivity(p) },
	ocsf.SecurityFinding.Slug:     func(p *AttributePools) Generator { return NewSecurityFinding(p) },
	ocsf.ComplianceFinding.Slug:   func(p *AttributePools) Generator { return NewComplianceFinding(p) },
	ocsf.DetectionFinding.Slug:    func(p *AttributePools) Generator { return NewDetectionFinding(p) },
	ocsf.DatabaseActivity.Slug:    func(p *AttributePools) Generator { return NewDatabaseActivity(p) },
	ocsf.ApplicationActivity.Slug: func(p *AttributePools) Generator { return NewApplicationActivity(p) },
	ocsf.APIActivity.Slug:         func(p *AttributePools) Generator { return NewAPIActivity(p) },
}

// New returns the generator registered under the given class slug.
func New(slug string, pools *AttributePools) (Generator, error) {
	ctor, ok := constructors[slug]
	if !ok {
		return nil, fmt.Errorf("unknown event class %q (known: %v)", slug, Slugs())
	}
	return ctor(pools), nil
}

// All returns one generator per registered class, in slug order.
func All(pools *AttributePools) []Generator {
	gens := make([]Generator, 0, len(constructors))
	for _, slug := range Slugs() {
		gens = append(gens, constructors[slug](pools))
	}
	return gens
}

// Slugs returns the registered class slugs, sorted.
func Slugs() []string {
	slugs := make([]string, 0, len(constructors))
	for s := range constructors {
		slugs = append(slugs, s)
	}
	sort.Strings(slugs)
	return slugs
}

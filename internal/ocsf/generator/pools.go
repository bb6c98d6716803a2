package generator

import (
	"fmt"
	"math/rand/v2"
	"time"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/google/uuid"
)

const defaultHostCount = 20

// AttributePools holds pre-generated value pools shared by all generators,
// keeping cardinality bounded and letting the same hosts and users show up
// across event classes.
type AttributePools struct {
	Users     []string
	Domains   []string
	Groups    []string
	Hostnames []string

	// Now anchors every timestamp in the run. Captured once so seeded runs
	// are reproducible apart from the anchor itself.
	Now time.Time
}

// NewAttributePools creates the shared pools. Hostnames are random pet names
// so repeated runs produce distinct but plausible fleets.
func NewAttributePools() *AttributePools {
	hostnames := make([]string, defaultHostCount)
	for i := range hostnames {
		hostnames[i] = petname.Generate(2, "-")
	}

	return &AttributePools{
		Now: time.Now(),
		Users: []string{
			"john.doe", "jane.smith", "admin", "root", "jenkins",
			"service.account", "developer1", "analyst2", "support.user",
			"system.admin",
		},
		Domains: []string{"corp.local", "dev.domain", "prod.internal"},
		Groups:  []string{"users", "admins", "developers", "operators", "support", "management"},

		Hostnames: hostnames,
	}
}

// pick returns a random element from the slice.
func pick[T any](rng *rand.Rand, s []T) T {
	return s[rng.IntN(len(s))]
}

// sample returns k distinct random elements from s (k is clamped to len(s)).
func sample[T any](rng *rand.Rand, s []T, k int) []T {
	if k > len(s) {
		k = len(s)
	}
	idx := rng.Perm(len(s))[:k]
	out := make([]T, k)
	for i, j := range idx {
		out[i] = s[j]
	}
	return out
}

// randIPv4 returns a uniformly random IPv4 address.
func randIPv4(rng *rand.Rand) string {
	return fmt.Sprintf("%d.%d.%d.%d", rng.IntN(256), rng.IntN(256), rng.IntN(256), rng.IntN(256))
}

// randInternalIP returns a random 10.0.0.0/8 address.
func randInternalIP(rng *rand.Rand) string {
	return fmt.Sprintf("10.%d.%d.%d", rng.IntN(256), rng.IntN(256), rng.IntN(256))
}

// pastTime returns a timestamp up to an hour before the run anchor,
// matching the jitter the event feeds apply so dashboards have a spread to
// render.
func (p *AttributePools) pastTime(rng *rand.Rand) time.Time {
	return p.Now.Add(-time.Duration(rng.IntN(60)) * time.Minute)
}

// rngReader exposes the run's rng as an entropy source, so identifiers stay
// reproducible under a fixed seed.
type rngReader struct {
	rng *rand.Rand
}

func (r rngReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r.rng.UintN(256))
	}
	return len(p), nil
}

// newUID returns a random UUID string for event and object identifiers,
// drawn from the run's rng.
func newUID(rng *rand.Rand) string {
	id, err := uuid.NewRandomFromReader(rngReader{rng: rng})
	if err != nil {
		// The reader never fails.
		panic(err)
	}
	return id.String()
}

// randVersion returns a semver-looking version like "3.2.7".
func randVersion(rng *rand.Rand) string {
	return fmt.Sprintf("%d.%d.%d", 1+rng.IntN(5), rng.IntN(10), rng.IntN(10))
}

package domain

import "fmt"

// PropertyPolicy controls whether a property may carry more than one
// active invitation at a time.
//
// Strict rejects a new invitation while the property has an accepted or a
// live pending one. Relaxed skips that check; the per-tenant rules still
// apply. Both behaviours shipped historically, so the choice is config.
type PropertyPolicy string

const (
	PolicyStrict  PropertyPolicy = "strict"
	PolicyRelaxed PropertyPolicy = "relaxed"
)

func (p PropertyPolicy) String() string { return string(p) }

// UnmarshalText lets env decoding reject unknown policies at startup.
func (p *PropertyPolicy) UnmarshalText(b []byte) error {
	switch v := PropertyPolicy(b); v {
	case PolicyStrict, PolicyRelaxed:
		*p = v
		return nil
	case "":
		*p = PolicyStrict
		return nil
	default:
		return fmt.Errorf("unknown property policy %q (want strict or relaxed)", string(b))
	}
}

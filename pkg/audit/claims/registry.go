package claims

import "github.com/coursepath/auditengine/pkg/audit/path"

// Claimant is one path that has claimed a course-clbid.
type Claimant struct {
	Path         path.Path
	AllowClaimed bool
}

// Outcome is the result of a single claim attempt.
type Outcome int

const (
	Ok Outcome = iota
	Conflict
)

// Attempt is the result of Registry.Claim (spec.md §3 "Claim attempt").
type Attempt struct {
	Outcome  Outcome
	Previous []Claimant
}

// Registry is the per-audit record of which (course, path) pairs have
// been claimed (spec.md §4.3). It is single-threaded and mutated in
// place during one solution's audit; it is reset between independent
// solutions.
type Registry struct {
	table  Table
	claims map[string][]Claimant
}

// NewRegistry builds an empty Registry governed by the given
// multicountable table.
func NewRegistry(table Table) *Registry {
	return &Registry{table: table, claims: make(map[string][]Claimant)}
}

// Claim attempts to claim clbid (course code courseCode) on behalf of
// p, per the arbitration rules of spec.md §4.3:
//
//  1. No prior claimant: record and return Ok.
//  2. Prior claimant(s) exist and allowClaimed is true: record without
//     conflict, return Ok (excluded from "primary" claim counts).
//  3. Otherwise: Ok only if every prior claimant's path is permitted to
//     share this course with p per the multicountable table; Conflict
//     otherwise, carrying the prior claimants.
func (r *Registry) Claim(clbid, courseCode string, p path.Path, allowClaimed bool) Attempt {
	prior := r.claims[clbid]

	if len(prior) == 0 {
		r.claims[clbid] = append(r.claims[clbid], Claimant{Path: p, AllowClaimed: allowClaimed})
		return Attempt{Outcome: Ok}
	}

	if allowClaimed {
		r.claims[clbid] = append(r.claims[clbid], Claimant{Path: p, AllowClaimed: allowClaimed})
		return Attempt{Outcome: Ok, Previous: cloneClaimants(prior)}
	}

	for _, pc := range prior {
		if !r.table.Permits(courseCode, p, pc.Path) {
			return Attempt{Outcome: Conflict, Previous: cloneClaimants(prior)}
		}
	}

	r.claims[clbid] = append(r.claims[clbid], Claimant{Path: p, AllowClaimed: allowClaimed})
	return Attempt{Outcome: Ok}
}

// PrimaryClaimants returns the non-allow-claimed claimants recorded for
// clbid, used to check the "no double claim" invariant (spec.md §8).
func (r *Registry) PrimaryClaimants(clbid string) []Claimant {
	var out []Claimant
	for _, c := range r.claims[clbid] {
		if !c.AllowClaimed {
			out = append(out, c)
		}
	}
	return out
}

// Reset clears the registry (spec.md §4.3 reset_claims).
func (r *Registry) Reset() {
	r.claims = make(map[string][]Claimant)
}

// Snapshot is an opaque, restorable copy of registry state (spec.md
// §4.3 snapshot/restore, used around the §4.5 disjoint-subtree
// short-circuit).
type Snapshot struct {
	claims map[string][]Claimant
}

// Snapshot captures the current registry state.
func (r *Registry) Snapshot() Snapshot {
	cp := make(map[string][]Claimant, len(r.claims))
	for clbid, claimants := range r.claims {
		cp[clbid] = cloneClaimants(claimants)
	}
	return Snapshot{claims: cp}
}

// Restore replaces the registry's state with a previously captured Snapshot.
func (r *Registry) Restore(s Snapshot) {
	cp := make(map[string][]Claimant, len(s.claims))
	for clbid, claimants := range s.claims {
		cp[clbid] = cloneClaimants(claimants)
	}
	r.claims = cp
}

func cloneClaimants(in []Claimant) []Claimant {
	out := make([]Claimant, len(in))
	copy(out, in)
	return out
}

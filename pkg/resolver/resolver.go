// Package resolver orders rule packs into a valid application order by
// resolving their declared dependencies depth-first, detecting cycles.
package resolver

import (
	"strings"

	"github.com/arthur-debert/agentsync/pkg/errors"
	"github.com/arthur-debert/agentsync/pkg/logging"
	"github.com/arthur-debert/agentsync/pkg/types"
)

// PackSource supplies pack definitions by id. Content loading lives
// outside the resolver; it only needs the dependency declarations.
type PackSource interface {
	Pack(id string) (*types.RulePack, error)
}

// Resolution is the outcome of resolving one pack's dependency closure.
type Resolution struct {
	// Order lists every pack in the closure, dependencies before
	// dependents, each id exactly once.
	Order []string

	// OK is false when resolution failed.
	OK bool

	// Err describes the failure.
	Err string

	// CyclePath is the id sequence from the root to the repeated id when
	// a cycle was found.
	CyclePath []string
}

// Resolver resolves pack dependency graphs against a PackSource.
type Resolver struct {
	source PackSource
}

// New creates a Resolver backed by the given source.
func New(source PackSource) *Resolver {
	return &Resolver{source: source}
}

// Resolve computes a topological application order for packID and its
// transitive dependencies. A dependency cycle or a missing referenced
// pack fails the resolution.
func (r *Resolver) Resolve(packID string) (*Resolution, error) {
	logger := logging.GetLogger("resolver")

	var order []string
	onPath := make(map[string]bool)
	var path []string

	var visit func(id string) error
	visit = func(id string) error {
		// Only ids on the current traversal path indicate a cycle; an id
		// reached again through a different branch is fine.
		if onPath[id] {
			path = append(path, id)
			return errors.Newf(errors.ErrPackCycle,
				"circular dependency detected: %s", strings.Join(path, " -> "))
		}

		onPath[id] = true
		path = append(path, id)

		pack, err := r.source.Pack(id)
		if err != nil {
			return errors.Wrapf(err, errors.ErrPackNotFound, "failed to load pack %q", id)
		}

		for _, dep := range pack.Dependencies {
			if contains(order, dep) {
				continue
			}
			if err := visit(dep); err != nil {
				return err
			}
		}

		if !contains(order, id) {
			order = append(order, id)
		}

		path = path[:len(path)-1]
		delete(onPath, id)
		return nil
	}

	if err := visit(packID); err != nil {
		if errors.IsCode(err, errors.ErrPackCycle) {
			logger.Warn().Str("pack", packID).Strs("cycle", path).Msg("dependency cycle")
			return &Resolution{OK: false, Err: err.Error(), CyclePath: path}, nil
		}
		return nil, err
	}

	logger.Debug().Str("pack", packID).Strs("order", order).Msg("resolved dependencies")
	return &Resolution{Order: order, OK: true}, nil
}

// ResolveAll resolves a selection of packs into one combined order,
// deduplicated across selections.
func (r *Resolver) ResolveAll(packIDs []string) ([]string, error) {
	var combined []string
	for _, id := range packIDs {
		res, err := r.Resolve(id)
		if err != nil {
			return nil, err
		}
		if !res.OK {
			return nil, errors.New(errors.ErrPackCycle, res.Err)
		}
		for _, resolved := range res.Order {
			if !contains(combined, resolved) {
				combined = append(combined, resolved)
			}
		}
	}
	return combined, nil
}

func contains(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

package graphql

import "reflect"

// SchemaBundle is the discovery-ordered set of compiled types and unions
// reachable from the query/mutation/subscription roots, ready for engine
// construction. Ordering is a public guarantee: two schemas built from the
// same registrations in the same process produce bundles whose Types/Unions
// slices are in identical order, which is what makes SDL output stable.
type SchemaBundle struct {
	QueryName        string
	MutationName     string
	SubscriptionName string

	Types  []*CompiledType
	Unions []*CompiledUnion
}

// buildSchemaBundle runs the breadth-first discovery pass: starting from the
// roots, it walks DirectRefs, expands interfaces into their registered
// implementers (the reverse index populated incrementally by Object[T]
// calls — see registerEmbeddedInterfaces), and collects every union
// encountered along the way, deduplicating by name. Unions are looked up by
// name in the registry, where a later NewUnion call with an already-used name
// replaces the earlier handle; no conflict between the two is reported.
func buildSchemaBundle(queryType reflect.Type, mutationType, subscriptionType reflect.Type) (*SchemaBundle, error) {
	queryCt := lookupCompiledByGoType(queryType)
	if queryCt == nil {
		return nil, errSchemaBuildRootMissing(queryType.Name())
	}

	bundle := &SchemaBundle{QueryName: queryCt.Name}

	var queue []string
	visitedTypes := map[string]bool{}
	visitedUnions := map[string]*CompiledUnion{}

	enqueue := func(name string) {
		if name == "" || visitedTypes[name] {
			return
		}
		queue = append(queue, name)
	}

	enqueue(queryCt.Name)

	if mutationType != nil {
		mutationCt := lookupCompiledByGoType(mutationType)
		if mutationCt == nil {
			return nil, errSchemaBuildRootMissing(mutationType.Name())
		}
		bundle.MutationName = mutationCt.Name
		enqueue(mutationCt.Name)
	}

	if subscriptionType != nil {
		subscriptionCt := lookupCompiledByGoType(subscriptionType)
		if subscriptionCt == nil {
			return nil, errSchemaBuildRootMissing(subscriptionType.Name())
		}
		bundle.SubscriptionName = subscriptionCt.Name
		enqueue(subscriptionCt.Name)
	}

	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if visitedTypes[name] {
			continue
		}
		visitedTypes[name] = true

		ct := lookupCompiledByName(name)
		if ct == nil {
			if u := lookupUnion(name); u != nil {
				if err := mergeUnion(bundle, visitedUnions, u); err != nil {
					return nil, err
				}
				for _, member := range u.members {
					enqueue(member)
				}
				continue
			}
			return nil, errDanglingTypeReference(bundle.QueryName, name)
		}

		bundle.Types = append(bundle.Types, ct)

		for _, ref := range ct.DirectRefs.Order {
			enqueue(ref)
		}

		if ct.Kind == kindInterface {
			for _, implType := range implementersOf(ct.GoType) {
				implCt := lookupCompiledByGoType(implType)
				if implCt != nil {
					enqueue(implCt.Name)
				}
			}
		}
	}

	return bundle, nil
}

// mergeUnion registers a union encountered during BFS into the bundle,
// deduplicating by name. The BFS visits each name once, so the comparison
// against an earlier entry of the same name does not find one.
func mergeUnion(bundle *SchemaBundle, seen map[string]*CompiledUnion, h *UnionHandle) error {
	if existing, ok := seen[h.name]; ok {
		if !sameMembers(existing.Members, h.members) || existing.Description != h.description {
			return errUnionConflict(h.name)
		}
		return nil
	}
	cu := &CompiledUnion{Name: h.name, Description: h.description, Members: append([]string{}, h.members...)}
	seen[h.name] = cu
	bundle.Unions = append(bundle.Unions, cu)
	return nil
}

func sameMembers(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

package graphql

import "reflect"

var builtinScalarNames = map[string]bool{
	"String": true, "Int": true, "Float": true, "Boolean": true, "ID": true,
}

func isBuiltinScalarName(name string) bool { return builtinScalarNames[name] }

// compileType turns a Go struct type, its declared kind, and the options
// accumulated by the registration call into the frozen CompiledType record.
func compileType(t reflect.Type, kind typeKind, state *typeBuildState) (*CompiledType, error) {
	ct := &CompiledType{
		GoType:      t,
		Name:        state.name,
		Description: state.description,
		Kind:        kind,
		DirectRefs:  newRefSet(),
	}

	if err := compileVisibleFields(t, kind, ct); err != nil {
		return nil, err
	}

	switch kind {
	case kindInput:
		if len(state.fields) > 0 {
			return nil, errInvalidFieldOnKind(ct.Name, state.fields[0].name, "input")
		}
		if len(state.subFields) > 0 {
			return nil, errInvalidFieldOnKind(ct.Name, state.subFields[0].name, "input")
		}
	case kindSubscription:
		if len(state.fields) > 0 {
			return nil, errInvalidFieldOnKind(ct.Name, state.fields[0].name, "subscription")
		}
		if len(ct.DataFields) > 0 {
			return nil, errInvalidFieldOnKind(ct.Name, ct.DataFields[0].Name, "subscription")
		}
		for _, fe := range state.subFields {
			rf, err := compileResolverField(ct.Name, fe.name, fe.fn, fe.argNames, fe.async, fe.union, fe.ifaceName, true)
			if err != nil {
				return nil, err
			}
			ct.SubscriptionFields = append(ct.SubscriptionFields, rf)
			collectRef(rf.Type, ct.DirectRefs)
			for _, a := range rf.Args {
				collectRef(a.Type, ct.DirectRefs)
			}
		}
	case kindObject, kindInterface:
		if len(state.subFields) > 0 {
			return nil, errInvalidFieldOnKind(ct.Name, state.subFields[0].name, kind.String())
		}
		for _, fe := range state.fields {
			rf, err := compileResolverField(ct.Name, fe.name, fe.fn, fe.argNames, fe.async, fe.union, fe.ifaceName, false)
			if err != nil {
				return nil, err
			}
			ct.ResolverFields = append(ct.ResolverFields, rf)
			collectRef(rf.Type, ct.DirectRefs)
			for _, a := range rf.Args {
				collectRef(a.Type, ct.DirectRefs)
			}
		}
	}

	computeImplements(t, ct)

	return ct, nil
}

// compileVisibleFields walks T's exported, non-hidden struct fields via
// reflect.VisibleFields, which already applies Go's own embedded-field
// promotion and shadowing rules, emitting CompiledDataField for
// object/interface/subscription kinds and CompiledInputField for input.
func compileVisibleFields(t reflect.Type, kind typeKind, ct *CompiledType) error {
	for _, f := range reflect.VisibleFields(t) {
		if f.Anonymous || !f.IsExported() {
			continue
		}
		tag := parseFieldTag(f.Tag.Get("graphql"))
		if tag.Hidden {
			continue
		}
		name := f.Name
		if tag.Name != "" {
			name = tag.Name
		}

		if kind == kindInput {
			ft := f.Type
			for ft.Kind() == reflect.Ptr {
				ft = ft.Elem()
			}
			if ft == unionValueType {
				return errUnionInInputPosition(ct.Name, name)
			}
		}

		spec, err := analyzeType(f.Type, map[reflect.Type]bool{t: true})
		if err != nil {
			return errUnsupportedAnnotation(ct.Name, name, err.Error())
		}
		collectRef(spec, ct.DirectRefs)

		if kind == kindInput {
			inputField := &CompiledInputField{
				Name:        name,
				Description: tag.Description,
				Type:        spec,
				index:       append([]int{}, f.Index...),
				goType:      f.Type,
			}
			if tag.HasDefault {
				inputField.HasDefault = true
				inputField.Default = defaultValueForScalar(scalarForDefault(spec), tag.Default)
				inputField.Type.Nullable = true
			}
			ct.InputFields = append(ct.InputFields, inputField)
			continue
		}

		dataField := &CompiledDataField{
			Name:        name,
			Description: tag.Description,
			Type:        spec,
			index:       append([]int{}, f.Index...),
		}
		if tag.HasDefault {
			dataField.HasDefault = true
			dataField.Default = defaultValueForScalar(scalarForDefault(spec), tag.Default)
		}
		ct.DataFields = append(ct.DataFields, dataField)
	}
	return nil
}

func scalarForDefault(spec *TypeSpec) string {
	if spec.IsNamed() {
		return spec.Named
	}
	return ""
}

func collectRef(spec *TypeSpec, refs *refSet) {
	if spec == nil {
		return
	}
	name := spec.NamedTypeName()
	if name != "" && !isBuiltinScalarName(name) {
		refs.add(name)
	}
}

// computeImplements records, for each of T's anonymously embedded fields
// whose type is a registered interface, that this type implements it. The
// reverse implementer index the schema-graph builder consults is filled
// separately, by registerEmbeddedInterfaces.
//
// Only ResolverFields are copied in here: a data field inherited through
// struct embedding is already discovered directly, with the correct
// multi-level reflect.StructField.Index path, by compileVisibleFields's use
// of reflect.VisibleFields on T itself — Go's own field-promotion rules
// already do that job. A resolver field has no such structural promotion
// (it is a registration-time schema entry, not a struct field), so it must
// be copied explicitly unless T's own Field() call already redeclared it.
func computeImplements(t reflect.Type, ct *CompiledType) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}
		ft := f.Type
		for ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
		iface := lookupCompiledByGoType(ft)
		if iface == nil || iface.Kind != kindInterface {
			continue
		}
		ct.Implements = append(ct.Implements, iface.Name)
		ct.DirectRefs.add(iface.Name)

		for _, inherited := range iface.ResolverFields {
			if ct.resolverByName(inherited.Name) != nil {
				continue
			}
			ct.ResolverFields = append(ct.ResolverFields, inherited)
		}
	}
}

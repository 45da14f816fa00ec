package services

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/custodia-labs/valuesref/internal/core/domain"
)

// ResolveOptions configures Resolve.
type ResolveOptions struct {
	// Externals holds pre-fetched documents keyed by the document part of
	// a $ref (the text before "#").
	Externals map[string]domain.Value

	// MaxNodes bounds the number of expanded schema nodes.
	// Zero or less means domain.DefaultMaxNodes.
	MaxNodes int
}

// Resolve dereferences every $ref in doc and returns the resolved tree.
// A reference revisited while it is still being expanded becomes a
// CircularNode. Missing targets fail with a *domain.ResolutionError.
func Resolve(doc domain.Value, opts ResolveOptions) (domain.Node, error) {
	r := &resolver{
		docs:   map[string]domain.Value{"": doc},
		max:    opts.MaxNodes,
		active: make(map[string]bool),
	}
	for name, ext := range opts.Externals {
		if name != "" {
			r.docs[name] = ext
		}
	}
	if r.max <= 0 {
		r.max = domain.DefaultMaxNodes
	}
	return r.resolve(doc, "", nil)
}

type resolver struct {
	docs   map[string]domain.Value
	max    int
	nodes  int
	active map[string]bool // doc + "#" + pointer of targets on the current path
}

// resolve builds the node for schema s found in document doc.
func (r *resolver) resolve(s domain.Value, doc string, path domain.Path) (domain.Node, error) {
	r.nodes++
	if r.nodes > r.max {
		return nil, &domain.ResolutionError{Kind: domain.Oversized, Path: path}
	}
	if ref, ok := s.Get("$ref"); ok {
		return r.deref(s, ref, doc, path)
	}
	return r.build(s, doc, path)
}

func (r *resolver) deref(s, ref domain.Value, doc string, path domain.Path) (domain.Node, error) {
	raw, ok := ref.Str()
	if !ok {
		return nil, &domain.ResolutionError{Kind: domain.DanglingRef, Ref: ref.Literal(), Path: path}
	}
	dangling := &domain.ResolutionError{Kind: domain.DanglingRef, Ref: raw, Path: path}

	target, pointer := splitRef(raw)
	switch {
	case target == "":
		target = doc
	case doc != "" && target != doc:
		// Externals are fetched one level deep only.
		return nil, dangling
	}
	root, ok := r.docs[target]
	if !ok {
		return nil, dangling
	}

	key := target + "#" + pointer
	if r.active[key] {
		return &domain.CircularNode{Meta: annotations(s, path), Ref: raw}, nil
	}
	t, ok := lookupPointer(root, pointer)
	if !ok {
		return nil, dangling
	}

	r.active[key] = true
	n, err := r.resolve(t, target, path)
	delete(r.active, key)
	if err != nil {
		return nil, err
	}
	override(n.Annotations(), s)
	return n, nil
}

func (r *resolver) build(s domain.Value, doc string, path domain.Path) (domain.Node, error) {
	meta := annotations(s, path)
	kind := variant(s, meta.Types)

	// Declared children are always kept. A combinator next to them is
	// attached as alternatives instead of replacing the node.
	op, branches, isCombinator := combinator(s)
	declared := (kind == "object" && s.Has("properties")) || (kind == "array" && s.Has("items"))
	if isCombinator && !declared {
		return r.combinatorNode(meta, op, branches, doc, path)
	}

	var alternatives *domain.CombinatorNode
	if isCombinator {
		c, err := r.combinatorNode(domain.Meta{Path: path}, op, branches, doc, path)
		if err != nil {
			return nil, err
		}
		alternatives = c
	}

	switch kind {
	case "object":
		n := &domain.ObjectNode{Meta: meta, Alternatives: alternatives}
		if req, ok := s.Get("required"); ok {
			n.Required = req.Strings()
		}
		props, _ := s.Get("properties")
		for _, f := range props.Fields {
			child, err := r.resolve(f.Value, doc, path.Child(domain.Prop(f.Key)))
			if err != nil {
				return nil, err
			}
			n.Properties = append(n.Properties, domain.Property{Name: f.Key, Node: child})
		}
		return n, nil
	case "array":
		n := &domain.ArrayNode{Meta: meta, Alternatives: alternatives}
		if u, ok := s.Get("uniqueItems"); ok {
			n.UniqueItems = u.Truthy()
		}
		items, ok := s.Get("items")
		if ok && items.Kind == domain.ValueList && len(items.Items) > 0 {
			// Tuple form: the first position stands for every element.
			items = items.Items[0]
		}
		if ok && items.Kind == domain.ValueMap {
			child, err := r.resolve(items, doc, path.Child(domain.Items()))
			if err != nil {
				return nil, err
			}
			n.Items = child
		}
		return n, nil
	default:
		return &domain.ScalarNode{Meta: meta, Type: domain.ScalarType(kind)}, nil
	}
}

func (r *resolver) combinatorNode(
	meta domain.Meta, op domain.CombinatorOp, branches []domain.Value, doc string, path domain.Path,
) (*domain.CombinatorNode, error) {
	n := &domain.CombinatorNode{Meta: meta, Op: op}
	for _, b := range branches {
		child, err := r.resolve(b, doc, path)
		if err != nil {
			return nil, err
		}
		n.Branches = append(n.Branches, child)
	}
	return n, nil
}

// combinator returns the oneOf/anyOf branches of s. Branches that only
// constrain their siblings (e.g. {required: [a]}) do not make a combinator.
func combinator(s domain.Value) (domain.CombinatorOp, []domain.Value, bool) {
	for _, op := range []domain.CombinatorOp{domain.OneOf, domain.AnyOf} {
		v, ok := s.Get(string(op))
		if !ok || v.Kind != domain.ValueList || len(v.Items) == 0 {
			continue
		}
		for _, b := range v.Items {
			if describesShape(b) {
				return op, v.Items, true
			}
		}
	}
	return "", nil, false
}

var shapeKeywords = []string{"$ref", "type", "properties", "items", "oneOf", "anyOf", "enum", "default", "const"}

func describesShape(s domain.Value) bool {
	for _, k := range shapeKeywords {
		if s.Has(k) {
			return true
		}
	}
	return false
}

// variant picks the node kind: the first non-null declared type, else an
// inference from the schema keywords.
func variant(s domain.Value, types []string) string {
	for _, t := range types {
		if t != string(domain.TypeNull) {
			return t
		}
	}
	if len(types) > 0 {
		return string(domain.TypeNull)
	}
	switch {
	case s.Has("properties"):
		return "object"
	case s.Has("items"):
		return "array"
	}
	if d, ok := s.Get("default"); ok {
		return kindName(d)
	}
	if e, ok := s.Get("enum"); ok && e.Kind == domain.ValueList && len(e.Items) > 0 {
		return kindName(e.Items[0])
	}
	if c, ok := s.Get("const"); ok {
		return kindName(c)
	}
	return string(domain.TypeNull)
}

func kindName(v domain.Value) string {
	if v.Kind == domain.ValueNumber && !strings.ContainsAny(v.Scalar, ".eE") {
		return string(domain.TypeInteger)
	}
	return v.Kind.String()
}

func annotations(s domain.Value, path domain.Path) domain.Meta {
	m := domain.Meta{Path: path}
	override(&m, s)
	if e, ok := s.Get("enum"); ok && e.Kind == domain.ValueList {
		m.Enum = e.Items
	} else if c, ok := s.Get("const"); ok {
		m.Enum = []domain.Value{c}
	}
	if t, ok := s.Get("type"); ok {
		m.Types = t.Strings()
	}
	return m
}

// override copies the title, description and default declared in s onto m.
func override(m *domain.Meta, s domain.Value) {
	if v, ok := s.Get("title"); ok {
		if t, ok := v.Str(); ok {
			m.Title = t
		}
	}
	if v, ok := s.Get("description"); ok {
		if d, ok := v.Str(); ok {
			m.Description = d
		}
	}
	if v, ok := s.Get("default"); ok {
		d := v
		m.Default = &d
	}
}

func splitRef(ref string) (doc, pointer string) {
	if i := strings.IndexByte(ref, '#'); i >= 0 {
		return ref[:i], ref[i+1:]
	}
	return ref, ""
}

// lookupPointer evaluates a JSON pointer (RFC 6901) taken from a URI fragment.
func lookupPointer(root domain.Value, pointer string) (domain.Value, bool) {
	if p, err := url.PathUnescape(pointer); err == nil {
		pointer = p
	}
	if pointer == "" {
		return root, true
	}
	if pointer[0] != '/' {
		return domain.Value{}, false
	}
	cur := root
	for _, tok := range strings.Split(pointer[1:], "/") {
		tok = strings.ReplaceAll(strings.ReplaceAll(tok, "~1", "/"), "~0", "~")
		switch cur.Kind {
		case domain.ValueMap:
			next, ok := cur.Get(tok)
			if !ok {
				return domain.Value{}, false
			}
			cur = next
		case domain.ValueList:
			i, err := strconv.Atoi(tok)
			if err != nil || i < 0 || i >= len(cur.Items) {
				return domain.Value{}, false
			}
			cur = cur.Items[i]
		default:
			return domain.Value{}, false
		}
	}
	return cur, true
}

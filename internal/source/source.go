// Package source decodes nested-list documents for the flatten CLI.
//
// A document is a YAML (or JSON) sequence whose items are sequences of
// scalars. Items are only inspected when the flatten pipeline pulls them,
// so a malformed item deep in a document is reported when it is reached.
package source

import (
	"context"
	stderrors "errors"
	"io"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/kbukum/flatkit/errors"
	"github.com/kbukum/flatkit/flatten"
	"github.com/kbukum/flatkit/pipeline"
)

// Document is a decoded nested-list document.
type Document struct {
	name  string
	items []*yaml.Node
}

// Decode parses a document from r. Empty input is an empty document.
func Decode(name string, r io.Reader) (*Document, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		if stderrors.Is(err, io.EOF) {
			return &Document{name: name}, nil
		}
		return nil, errors.InvalidFormat(name, "a YAML or JSON document", 0, 0).WithCause(err)
	}
	node := resolve(&root)
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = resolve(node.Content[0])
	}
	if isNull(node) {
		return &Document{name: name}, nil
	}
	if node.Kind != yaml.SequenceNode {
		return nil, errors.InvalidFormat(name, "a sequence of sequences", node.Line, node.Column)
	}
	return &Document{name: name, items: node.Content}, nil
}

// Load opens and decodes the document at path.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.NotFound(path)
		}
		return nil, errors.Internal(err)
	}
	defer f.Close()
	return Decode(path, f)
}

// Name returns the name the document was decoded under.
func (d *Document) Name() string { return d.name }

// Len returns the number of outer items.
func (d *Document) Len() int { return len(d.items) }

// Items returns the outer items, pullable from both ends.
func (d *Document) Items() flatten.DoubleEndedIterator[*yaml.Node] {
	return flatten.FromSlice(d.items)
}

// Flatten returns the document's elements as a reversible pipeline. Each
// run starts from a fresh view of the items.
func (d *Document) Flatten() *pipeline.Reversible[string] {
	outer := pipeline.ReversibleFunc(func(ctx context.Context) pipeline.DoubleEndedIterator[*yaml.Node] {
		return pipeline.FromDoubleEnded[*yaml.Node](d.Items()).Iter(ctx)
	})
	return pipeline.FlattenReversible(outer, Inner)
}

// Inner converts one outer item into a producer of its scalar elements. A
// null item is empty. Anything other than a sequence is INVALID_FORMAT.
func Inner(_ context.Context, item *yaml.Node) (pipeline.DoubleEndedIterator[string], error) {
	item = resolve(item)
	if isNull(item) {
		return &elements{nodes: flatten.Empty[*yaml.Node]()}, nil
	}
	if item.Kind != yaml.SequenceNode {
		return nil, errors.InvalidFormat("item", "a sequence", item.Line, item.Column)
	}
	return &elements{nodes: flatten.FromSlice(item.Content)}, nil
}

// elements yields scalar values, checking each node when it is pulled.
type elements struct {
	nodes *flatten.SliceIter[*yaml.Node]
}

func (e *elements) Next(_ context.Context) (string, bool, error) {
	return scalar(e.nodes.Next())
}

func (e *elements) NextBack(_ context.Context) (string, bool, error) {
	return scalar(e.nodes.NextBack())
}

func (e *elements) Close() error { return nil }

func scalar(node *yaml.Node, ok bool) (string, bool, error) {
	if !ok {
		return "", false, nil
	}
	node = resolve(node)
	if node.Kind != yaml.ScalarNode {
		return "", false, errors.InvalidFormat("element", "a scalar", node.Line, node.Column)
	}
	return node.Value, true, nil
}

// resolve follows alias nodes to their anchors.
func resolve(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null"
}
